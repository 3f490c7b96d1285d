// Package parser implements the Generic Parser (§4.4): the recursive
// reifier that turns a type-graph node plus a byte window into a Variable
// IR node, for every non-specialized shape (scalars, structs, arrays,
// unions, pointers, C-style enums, tagged enums).
package parser

import (
	"github.com/joshuapare/varcore/internal/memgw"
	"github.com/joshuapare/varcore/internal/scalar"
	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
)

// Specializer is implemented by the Specialization Layer. It is invoked
// for every freshly-parsed raw Struct and decides whether to project it
// into a richer Specialized IR. Parser depends on this interface, not on
// the specialize package, so the dependency runs one way: specialize
// imports parser (to recurse back into Parse), parser never imports
// specialize.
type Specializer interface {
	Specialize(p *Parser, ctx *typegraph.EvaluationContext, raw *variable.IR) *variable.IR
}

// Diagnostic receives one warning-level message per absorbed error (§7
// propagation policy: a single log line per occurrence, the tree itself
// never fails). The zero value discards everything.
type Diagnostic func(format string, args ...any)

// Parser holds everything the Generic Parser needs to recurse: the type
// graph view, an optional Memory Gateway for bytes that fall outside an
// already-captured window, and the Specialization Layer.
type Parser struct {
	Graph       *typegraph.Graph
	View        *typegraph.View
	Gateway     memgw.Gateway
	PID         memgw.PID
	Specializer Specializer
	Diagnostic  Diagnostic
}

// New builds a Parser. gateway may be nil, in which case any member whose
// bytes aren't already present in the parent's captured window is
// reified as absent rather than triggering a read.
func New(g *typegraph.Graph, gateway memgw.Gateway, pid memgw.PID, specializer Specializer) *Parser {
	return &Parser{
		Graph:       g,
		View:        typegraph.NewView(g),
		Gateway:     gateway,
		PID:         pid,
		Specializer: specializer,
		Diagnostic:  func(string, ...any) {},
	}
}

func (p *Parser) diag(format string, args ...any) {
	if p.Diagnostic != nil {
		p.Diagnostic(format, args...)
	}
}

// Input is the byte window (and its address, when known) a reification
// starts from.
type Input struct {
	Bytes   []byte
	Addr    uint64
	HasAddr bool
}

func absent(identity variable.Identity, typeName string) *variable.IR {
	return &variable.IR{Identity: identity, TypeName: typeName, Kind: variable.KindScalar, HasScalar: false}
}

// Parse is the Generic Parser's entry point: parse(ctx, identity, bytes?, type_id) -> IR.
func (p *Parser) Parse(ctx *typegraph.EvaluationContext, identity variable.Identity, in Input, typeID typegraph.TypeID) *variable.IR {
	typeName, _ := p.View.TypeName(typeID)
	node, ok := p.Graph.Node(typeID)
	if !ok {
		return absent(identity, typeName)
	}

	switch t := node.(type) {
	case typegraph.Scalar:
		return p.parseScalar(identity, typeName, t, in)
	case typegraph.Structure:
		return p.parseStructure(ctx, identity, typeName, t.Namespaces, t.Members, t.TypeParams, in)
	case typegraph.Union:
		return p.parseStructure(ctx, identity, typeName, nil, t.Members, nil, in)
	case typegraph.Array:
		return p.parseArray(ctx, identity, typeName, t, in, typeID)
	case typegraph.Pointer:
		return p.parsePointer(identity, typeName, t, in)
	case typegraph.CStyleEnum:
		return p.parseCEnum(identity, typeName, t, in)
	case typegraph.TaggedEnum:
		return p.parseTaggedEnum(ctx, identity, typeName, t, in)
	default:
		return absent(identity, typeName)
	}
}

func (p *Parser) parseScalar(identity variable.Identity, typeName string, s typegraph.Scalar, in Input) *variable.IR {
	ir := &variable.IR{Kind: variable.KindScalar, Identity: identity, TypeName: typeName}
	if in.Bytes == nil {
		return ir
	}
	v, ok := scalar.Decode(s.Encoding, s.ByteSize, in.Bytes)
	if !ok {
		p.diag("scalar: unsupported encoding/size for %s", typeName)
		return ir
	}
	ir.Scalar = v
	ir.HasScalar = true
	return ir
}

// bytesFor resolves the bytes for a member: first try slicing them
// zero-copy out of the parent's own window (View.MemberValue), and only
// if that fails — and a Gateway is configured — issue a fresh read at the
// member's own address. Either way, a failure here is never fatal to the
// parent: the caller reifies the member as absent (§4.4 missing-data
// policy).
func (p *Parser) bytesFor(ctx *typegraph.EvaluationContext, member typegraph.StructureMember, parentAddr uint64, parentBytes []byte, hasParentAddr bool) ([]byte, uint64, bool) {
	if b, ok := p.View.MemberValue(ctx, member, parentAddr, parentBytes); ok {
		addr, _ := p.View.MemberAddr(ctx, member, parentAddr)
		return b, addr, true
	}
	if !hasParentAddr || p.Gateway == nil {
		return nil, 0, false
	}
	addr, err := p.View.MemberAddr(ctx, member, parentAddr)
	if err != nil {
		return nil, 0, false
	}
	size, ok := p.View.SizeInBytes(ctx, member.TypeRef)
	if !ok {
		p.diag("parser: unknown size for member %q", member.Name)
		return nil, addr, false
	}
	b, err := p.Gateway.Read(p.PID, memgw.Addr(addr), int(size))
	if err != nil {
		p.diag("parser: memory read failed for member %q: %v", member.Name, err)
		return nil, addr, false
	}
	return b, addr, true
}

func (p *Parser) parseStructure(ctx *typegraph.EvaluationContext, identity variable.Identity, typeName string, namespaces []string, members []typegraph.StructureMember, typeParams map[string]typegraph.TypeID, in Input) *variable.IR {
	ir := &variable.IR{Kind: variable.KindStruct, Identity: identity, TypeName: typeName, Namespaces: namespaces}
	if typeParams != nil {
		ir.TypeParams = make(map[string]*typegraph.TypeID, len(typeParams))
		for k, v := range typeParams {
			v := v
			ir.TypeParams[k] = &v
		}
	}

	for _, m := range members {
		if !m.HasType {
			// §9 Open Question, resolved: skip only the member, keep the struct.
			continue
		}
		memberIdentity := variable.Identity{Name: m.Name, HasName: true}
		b, addr, ok := p.bytesFor(ctx, m, in.Addr, in.Bytes, in.HasAddr)
		childIn := Input{}
		if ok {
			childIn = Input{Bytes: b, Addr: addr, HasAddr: true}
		}
		child := p.Parse(ctx, memberIdentity, childIn, m.TypeRef)
		ir.Members = append(ir.Members, child)
	}

	if p.Specializer != nil {
		if sp := p.Specializer.Specialize(p, ctx, ir); sp != nil {
			return sp
		}
	}
	return ir
}

func (p *Parser) parseArray(ctx *typegraph.EvaluationContext, identity variable.Identity, typeName string, arr typegraph.Array, in Input, typeID typegraph.TypeID) *variable.IR {
	ir := &variable.IR{Kind: variable.KindArray, Identity: identity, TypeName: typeName}

	start, end, ok := arr.Bounds.Evaluate(ctx)
	if !ok {
		return ir // items absent: bounds unknown (§3 data model)
	}
	elemSize, ok := p.View.SizeInBytes(ctx, arr.ElementType)
	if !ok {
		p.diag("parser: unknown element size for array %s", typeName)
		return ir
	}

	ir.HasItems = true
	n := end - start
	ir.Items = make([]*variable.IR, 0, n)
	for i := uint64(0); i < n; i++ {
		absIdx := start + i
		elemIdentity := variable.IndexIdentity(absIdx)
		childOff := i * elemSize
		var childIn Input
		if uint64(len(in.Bytes)) >= childOff+elemSize {
			childIn = Input{Bytes: in.Bytes[childOff : childOff+elemSize], Addr: in.Addr + childOff, HasAddr: in.HasAddr}
		} else if in.HasAddr && p.Gateway != nil {
			addr := in.Addr + childOff
			b, err := p.Gateway.Read(p.PID, memgw.Addr(addr), int(elemSize))
			if err == nil {
				childIn = Input{Bytes: b, Addr: addr, HasAddr: true}
			} else {
				p.diag("parser: memory read failed for %s[%d]: %v", typeName, absIdx, err)
			}
		}
		ir.Items = append(ir.Items, p.Parse(ctx, elemIdentity, childIn, arr.ElementType))
	}
	return ir
}

func (p *Parser) parsePointer(identity variable.Identity, typeName string, ptr typegraph.Pointer, in Input) *variable.IR {
	ir := &variable.IR{Kind: variable.KindPointer, Identity: identity, TypeName: typeName, TargetType: ptr.TargetType, HasTarget: true}
	if in.Bytes == nil {
		return ir
	}
	v, ok := scalar.Decode(typegraph.EncodingAddress, 8, in.Bytes)
	if !ok {
		p.diag("parser: could not decode pointer address for %s", typeName)
		return ir
	}
	ir.Address = v.U64
	ir.HasAddress = true
	// §3 invariant I5: never dereference here.
	return ir
}

func (p *Parser) parseCEnum(identity variable.Identity, typeName string, e typegraph.CStyleEnum, in Input) *variable.IR {
	ir := &variable.IR{Kind: variable.KindCEnum, Identity: identity, TypeName: typeName}
	if in.Bytes == nil {
		return ir
	}
	discrNum, ok := p.decodeAsNumber(e.DiscrType, in.Bytes)
	if !ok {
		p.diag("parser: could not decode discriminant for %s", typeName)
		return ir
	}
	name, ok := e.Enumerators[discrNum]
	if !ok {
		p.diag("parser: unknown enumerator %d for %s", discrNum, typeName)
		return ir
	}
	ir.EnumValue = name
	ir.HasEnumValue = true
	return ir
}

// decodeAsNumber decodes bytes as whatever scalar-like type discrType
// names and promotes it to int64, used for both C-style and tagged enum
// discriminants.
func (p *Parser) decodeAsNumber(discrType typegraph.TypeID, b []byte) (int64, bool) {
	node, ok := p.Graph.Node(discrType)
	if !ok {
		return 0, false
	}
	switch t := node.(type) {
	case typegraph.Scalar:
		v, ok := scalar.Decode(t.Encoding, t.ByteSize, b)
		if !ok {
			return 0, false
		}
		return v.TryAsNumber()
	case typegraph.CStyleEnum:
		return p.decodeAsNumber(t.DiscrType, b)
	default:
		return 0, false
	}
}

func (p *Parser) parseTaggedEnum(ctx *typegraph.EvaluationContext, identity variable.Identity, typeName string, e typegraph.TaggedEnum, in Input) *variable.IR {
	ir := &variable.IR{Kind: variable.KindTaggedEnum, Identity: identity, TypeName: typeName}

	variantMember, ok := p.resolveVariant(ctx, e, in)
	if !ok {
		return ir // value absent: no matching variant and no default
	}
	if !variantMember.HasType {
		return ir
	}

	valueIdentity := variable.Identity{Name: variantMember.Name, HasName: true}
	b, addr, ok := p.bytesFor(ctx, variantMember, in.Addr, in.Bytes, in.HasAddr)
	var childIn Input
	if ok {
		childIn = Input{Bytes: b, Addr: addr, HasAddr: true}
	}
	ir.TaggedValue = p.Parse(ctx, valueIdentity, childIn, variantMember.TypeRef)
	return ir
}

// resolveVariant picks the active variant member per §4.4: evaluate
// discr_member's location against the parent bytes; if the resulting
// value maps to a registered variant use it; otherwise fall back to the
// None-keyed default variant, if any.
func (p *Parser) resolveVariant(ctx *typegraph.EvaluationContext, e typegraph.TaggedEnum, in Input) (typegraph.StructureMember, bool) {
	discrBytes, _, ok := p.bytesFor(ctx, e.DiscrMember, in.Addr, in.Bytes, in.HasAddr)
	if ok {
		if num, ok := p.decodeAsNumber(e.DiscrMember.TypeRef, discrBytes); ok {
			if m, ok := e.Enumerators[num]; ok {
				return m, true
			}
		}
	}
	if e.HasNoneVariant {
		return e.NoneVariant, true
	}
	return typegraph.StructureMember{}, false
}
