// Package fixture loads a recorded reification snapshot — a type graph, a
// set of captured memory regions, and a root variable descriptor — from a
// JSON document on disk. It exists so the CLI and TUI harnesses (which have
// no live inferior to attach to) can exercise the same Generic
// Parser/Specialization Layer/Selection Engine pipeline a real debugger
// front-end would drive, using internal/memgw's Recorded gateway in place
// of internal/ptracemem.
package fixture

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joshuapare/varcore/internal/memgw"
	"github.com/joshuapare/varcore/internal/parser"
	"github.com/joshuapare/varcore/internal/specialize"
	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
)

// MemberSpec is the JSON shape of a typegraph.StructureMember.
type MemberSpec struct {
	Name    string `json:"name"`
	TypeRef uint64 `json:"type_ref"`
	HasType bool   `json:"has_type"`
	Offset  uint64 `json:"offset"`
}

func (m MemberSpec) toMember() typegraph.StructureMember {
	return typegraph.StructureMember{
		Name:     m.Name,
		TypeRef:  typegraph.TypeID(m.TypeRef),
		HasType:  m.HasType,
		Location: typegraph.ConstOffset(m.Offset),
	}
}

// NodeSpec is the JSON shape of one typegraph.Node, tagged by Kind:
// "scalar", "structure", "union", "array", "pointer", "cenum", "taggedenum".
type NodeSpec struct {
	Kind string `json:"kind"`
	Name string `json:"name"`

	Encoding string `json:"encoding,omitempty"`
	ByteSize uint64 `json:"byte_size,omitempty"`

	Namespaces  []string          `json:"namespaces,omitempty"`
	Members     []MemberSpec      `json:"members,omitempty"`
	TypeParams  map[string]uint64 `json:"type_params,omitempty"`
	HasByteSize bool              `json:"has_byte_size,omitempty"`

	ElementType   uint64 `json:"element_type,omitempty"`
	BoundsStart   uint64 `json:"bounds_start,omitempty"`
	BoundsEnd     uint64 `json:"bounds_end,omitempty"`
	BoundsUnknown bool   `json:"bounds_unknown,omitempty"`

	TargetType uint64 `json:"target_type,omitempty"`

	DiscrType   uint64            `json:"discr_type,omitempty"`
	Enumerators map[string]string `json:"enumerators,omitempty"`

	DiscrMember        *MemberSpec           `json:"discr_member,omitempty"`
	EnumeratorMembers  map[string]MemberSpec `json:"enumerator_members,omitempty"`
	NoneVariant        *MemberSpec           `json:"none_variant,omitempty"`
}

var encodingNames = map[string]typegraph.Encoding{
	"signed":        typegraph.EncodingSigned,
	"unsigned":      typegraph.EncodingUnsigned,
	"float":         typegraph.EncodingFloat,
	"signed_char":   typegraph.EncodingSignedChar,
	"unsigned_char": typegraph.EncodingUnsignedChar,
	"address":       typegraph.EncodingAddress,
	"boolean":       typegraph.EncodingBoolean,
	"utf":           typegraph.EncodingUTF,
	"ascii":         typegraph.EncodingASCII,
}

func (n NodeSpec) toNode() (typegraph.Node, error) {
	switch n.Kind {
	case "scalar":
		enc, ok := encodingNames[n.Encoding]
		if !ok {
			return nil, fmt.Errorf("fixture: unknown scalar encoding %q", n.Encoding)
		}
		return typegraph.Scalar{Encoding: enc, ByteSize: n.ByteSize, Name: n.Name}, nil
	case "structure":
		members := make([]typegraph.StructureMember, 0, len(n.Members))
		for _, m := range n.Members {
			members = append(members, m.toMember())
		}
		var typeParams map[string]typegraph.TypeID
		if n.TypeParams != nil {
			typeParams = make(map[string]typegraph.TypeID, len(n.TypeParams))
			for k, v := range n.TypeParams {
				typeParams[k] = typegraph.TypeID(v)
			}
		}
		return typegraph.Structure{
			Name:        n.Name,
			Namespaces:  n.Namespaces,
			Members:     members,
			TypeParams:  typeParams,
			ByteSize:    n.ByteSize,
			HasByteSize: n.HasByteSize,
		}, nil
	case "union":
		members := make([]typegraph.StructureMember, 0, len(n.Members))
		for _, m := range n.Members {
			members = append(members, m.toMember())
		}
		return typegraph.Union{Name: n.Name, Members: members}, nil
	case "array":
		var bounds typegraph.BoundsExpr
		if n.BoundsUnknown {
			bounds = typegraph.UnknownBounds{}
		} else {
			bounds = typegraph.ConstBounds{Start: n.BoundsStart, End: n.BoundsEnd}
		}
		return typegraph.Array{ElementType: typegraph.TypeID(n.ElementType), Bounds: bounds}, nil
	case "pointer":
		return typegraph.Pointer{Name: n.Name, TargetType: typegraph.TypeID(n.TargetType), ByteSize: n.ByteSize}, nil
	case "cenum":
		enumerators := make(map[int64]string, len(n.Enumerators))
		for k, v := range n.Enumerators {
			iv, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("fixture: bad cenum discriminant %q: %w", k, err)
			}
			enumerators[iv] = v
		}
		return typegraph.CStyleEnum{Name: n.Name, DiscrType: typegraph.TypeID(n.DiscrType), Enumerators: enumerators}, nil
	case "taggedenum":
		if n.DiscrMember == nil {
			return nil, fmt.Errorf("fixture: taggedenum %q missing discr_member", n.Name)
		}
		enumerators := make(map[int64]typegraph.StructureMember, len(n.EnumeratorMembers))
		for k, v := range n.EnumeratorMembers {
			iv, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("fixture: bad taggedenum discriminant %q: %w", k, err)
			}
			enumerators[iv] = v.toMember()
		}
		t := typegraph.TaggedEnum{
			Name:        n.Name,
			DiscrMember: n.DiscrMember.toMember(),
			Enumerators: enumerators,
		}
		if n.NoneVariant != nil {
			t.NoneVariant = n.NoneVariant.toMember()
			t.HasNoneVariant = true
		}
		return t, nil
	default:
		return nil, fmt.Errorf("fixture: unknown node kind %q", n.Kind)
	}
}

// MemoryRegion is one captured byte range of inferior memory.
type MemoryRegion struct {
	Addr uint64 `json:"addr"`
	Data string `json:"data"` // hex-encoded
}

// RootSpec names the single variable a snapshot reifies from its entry
// point: a location (address) and a declared type.
type RootSpec struct {
	Name    string `json:"name"`
	TypeID  uint64 `json:"type_id"`
	Addr    uint64 `json:"addr"`
	HasAddr bool   `json:"has_addr"`
}

// Snapshot is the on-disk fixture format: everything needed to stand up a
// Parser and reify one root variable without a live inferior.
type Snapshot struct {
	PID       int32             `json:"pid"`
	Types     map[string]NodeSpec `json:"types"`
	Memory    []MemoryRegion    `json:"memory"`
	Root      RootSpec          `json:"root"`
	FrameBase uint64            `json:"frame_base,omitempty"`
	CFA       uint64            `json:"cfa,omitempty"`
	Registers map[string]uint64 `json:"registers,omitempty"`
}

// Load reads and parses a snapshot file.
func Load(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: reading %s: %w", path, err)
	}
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("fixture: parsing %s: %w", path, err)
	}
	return &s, nil
}

// Built bundles everything Build produces: the Parser (reusable for further
// Selection Engine navigation) and the freshly reified root IR.
type Built struct {
	Parser *parser.Parser
	Ctx    *typegraph.EvaluationContext
	Root   *variable.IR
}

// Build materializes a type graph and a Recorded memory gateway from the
// snapshot, then runs the Generic Parser/Specialization Layer over the
// root variable exactly as a live reification would.
func (s *Snapshot) Build(diag parser.Diagnostic) (*Built, error) {
	gw := memgw.NewRecorded(memgw.PID(s.PID))
	for _, region := range s.Memory {
		data, err := hex.DecodeString(region.Data)
		if err != nil {
			return nil, fmt.Errorf("fixture: bad memory region at 0x%x: %w", region.Addr, err)
		}
		gw.Record(memgw.Addr(region.Addr), data)
	}
	return s.BuildWithGateway(gw, memgw.PID(s.PID), diag)
}

// BuildWithGateway materializes a type graph from the snapshot's type
// declarations and reifies the root variable by reading through gw instead
// of a Recorded snapshot of memory — e.g. internal/ptracemem.Gateway
// attached to a real, ptrace-stopped inferior identified by pid. The
// snapshot's "memory" region list is ignored on this path; gw is the sole
// source of bytes, matching a live debugger driving the same type graph
// and root variable descriptor against a running process instead of a
// recorded capture.
func (s *Snapshot) BuildWithGateway(gw memgw.Gateway, pid memgw.PID, diag parser.Diagnostic) (*Built, error) {
	g := typegraph.NewGraph()
	for idStr, spec := range s.Types {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("fixture: bad type id %q: %w", idStr, err)
		}
		node, err := spec.toNode()
		if err != nil {
			return nil, err
		}
		g.Put(typegraph.TypeID(id), node, spec.Name)
	}

	p := parser.New(g, gw, pid, specialize.New())
	if diag != nil {
		p.Diagnostic = diag
	}

	ctx := &typegraph.EvaluationContext{
		PID:       s.PID,
		FrameBase: s.FrameBase,
		CFA:       s.CFA,
		Registers: s.Registers,
	}

	identity := variable.Identity{Name: s.Root.Name, HasName: true}
	typeID := typegraph.TypeID(s.Root.TypeID)
	var in parser.Input
	if s.Root.HasAddr {
		// Keep the address even when the root's size is unknown (a tagged
		// enum) or its read fails, so members can still be read one by one.
		in = parser.Input{Addr: s.Root.Addr, HasAddr: true}
		if size, ok := p.View.SizeInBytes(ctx, typeID); ok {
			if b, err := gw.Read(pid, memgw.Addr(s.Root.Addr), int(size)); err == nil {
				in.Bytes = b
			}
		}
	}

	root := p.Parse(ctx, identity, in, typeID)
	return &Built{Parser: p, Ctx: ctx, Root: root}, nil
}
