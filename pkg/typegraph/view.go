package typegraph

import (
	"fmt"

	"github.com/joshuapare/varcore/internal/buf"
)

// View is the read-only query surface over a Graph: size, name, and member
// byte extraction. It never mutates the graph and never reads inferior
// memory itself — MemberValue only slices the bytes the caller already
// has; callers needing more bytes than that (a member that lives outside
// the parent's captured window) issue their own Memory Gateway read using
// the address MemberAddr returns.
type View struct {
	g *Graph
}

// NewView wraps a Graph for querying.
func NewView(g *Graph) *View { return &View{g: g} }

// TypeName returns the canonical display name of a type, or "" if the type
// id is unknown. Non-synthetic IR nodes use this name verbatim (§3
// invariant I1); synthetic nodes (deref, index) compute their own names.
func (v *View) TypeName(id TypeID) (string, bool) {
	n, ok := v.g.names[id]
	return n, ok
}

// SizeInBytes computes a type's byte size, or false if the graph cannot
// determine it (e.g. a Structure with no ByteSize recorded, or an unknown
// id). Pointers report the target machine's word size; arrays report
// element size * length when bounds are known.
func (v *View) SizeInBytes(ctx *EvaluationContext, id TypeID) (uint64, bool) {
	n, ok := v.g.Node(id)
	if !ok {
		return 0, false
	}
	switch t := n.(type) {
	case Scalar:
		return t.ByteSize, true
	case Structure:
		if !t.HasByteSize {
			return 0, false
		}
		return t.ByteSize, true
	case Union:
		return v.unionSize(ctx, t)
	case Pointer:
		return t.ByteSize, true
	case CStyleEnum:
		return v.SizeInBytes(ctx, t.DiscrType)
	case TaggedEnum:
		return 0, false // tagged enum size is implementation-defined by the graph; not needed by any component here
	case Array:
		elemSize, ok := v.SizeInBytes(ctx, t.ElementType)
		if !ok {
			return 0, false
		}
		start, end, ok := t.Bounds.Evaluate(ctx)
		if !ok {
			return 0, false
		}
		return elemSize * (end - start), true
	default:
		return 0, false
	}
}

func (v *View) unionSize(ctx *EvaluationContext, u Union) (uint64, bool) {
	var max uint64
	found := false
	for _, m := range u.Members {
		if !m.HasType {
			continue
		}
		sz, ok := v.SizeInBytes(ctx, m.TypeRef)
		if !ok {
			continue
		}
		found = true
		if sz > max {
			max = sz
		}
	}
	return max, found
}

// MemberAddr returns the absolute address of member relative to parentAddr,
// evaluating its location expression against ctx.
func (v *View) MemberAddr(ctx *EvaluationContext, member StructureMember, parentAddr uint64) (uint64, error) {
	if member.Location == nil {
		return 0, fmt.Errorf("typegraph: member %q has no location expression", member.Name)
	}
	off, err := member.Location.Evaluate(ctx)
	if err != nil {
		return 0, err
	}
	return parentAddr + off, nil
}

// MemberValue extracts a member's raw bytes out of parentBytes, which must
// represent the bytes of the parent aggregate starting at parentAddr. It
// returns (nil, false) rather than an error when the member's bytes fall
// outside the provided window — callers (the Generic Parser) then issue a
// fresh Memory Gateway read for the member's own address, or, if that also
// fails, reify the member as absent per the missing-data policy (§4.4).
func (v *View) MemberValue(ctx *EvaluationContext, member StructureMember, parentAddr uint64, parentBytes []byte) ([]byte, bool) {
	if !member.HasType {
		return nil, false
	}
	addr, err := v.MemberAddr(ctx, member, parentAddr)
	if err != nil {
		return nil, false
	}
	size, ok := v.SizeInBytes(ctx, member.TypeRef)
	if !ok {
		return nil, false
	}
	if addr < parentAddr {
		return nil, false
	}
	start := addr - parentAddr
	return buf.Slice(parentBytes, int(start), int(size))
}
