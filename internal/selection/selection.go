// Package selection implements the Selection Engine (§4.7): it walks an
// already-reified Variable IR tree according to a navigation plan built by
// an external collaborator (an expression parser or a UI click path), never
// touching the type graph or Memory Gateway except where a step requires
// reading fresh bytes (dereferencing a pointer, slicing through one).
package selection

import (
	"github.com/joshuapare/varcore/internal/locator"
	"github.com/joshuapare/varcore/internal/memgw"
	"github.com/joshuapare/varcore/internal/parser"
	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
)

// OpKind discriminates the four navigation operations a Plan can contain.
type OpKind int

const (
	OpDeref OpKind = iota
	OpField
	OpIndex
	OpSlice
)

// Op is one navigation step. Name is meaningful only for OpField; Index
// only for OpIndex; Len only for OpSlice.
type Op struct {
	Kind  OpKind
	Name  string
	Index uint64
	Len   uint64
}

// Plan is an ordered list of navigation operations applied left to right.
type Plan []Op

// Engine applies selection plans against IR trees, reading further inferior
// memory through the same Parser (and therefore the same Memory Gateway and
// type graph) the tree was originally reified with.
type Engine struct {
	Parser *parser.Parser
}

// New builds a selection Engine over an existing Parser.
func New(p *parser.Parser) *Engine { return &Engine{Parser: p} }

func absent() *variable.IR {
	return &variable.IR{Kind: variable.KindScalar, HasScalar: false}
}

// Apply walks root through every operation in plan in order. Any
// unsupported operation/kind combination fails the selection silently:
// remaining steps are skipped and an absent node is returned (§4.7, "fails
// the selection silently... which the caller renders as 'value
// unavailable'"). An empty plan returns root unchanged (§8 idempotence
// property).
func (e *Engine) Apply(ctx *typegraph.EvaluationContext, root *variable.IR, plan Plan) *variable.IR {
	cur := root
	for _, op := range plan {
		if cur == nil {
			return absent()
		}
		cur = e.step(ctx, cur, op)
	}
	if cur == nil {
		return absent()
	}
	return cur
}

func identityName(n *variable.IR) string {
	if n.Identity.HasName {
		return n.Identity.Name
	}
	return ""
}

func (e *Engine) step(ctx *typegraph.EvaluationContext, cur *variable.IR, op Op) *variable.IR {
	switch op.Kind {
	case OpDeref:
		return e.deref(ctx, cur)
	case OpField:
		return e.field(ctx, cur, op.Name)
	case OpIndex:
		return e.index(ctx, cur, op.Index)
	case OpSlice:
		return e.slice(ctx, cur, op.Len)
	default:
		return nil
	}
}

// tlsInner returns a Specialized(Tls) node's current inner value, or nil if
// the thread-local hasn't been initialized on this thread.
func tlsInner(n *variable.IR) *variable.IR {
	if n.Kind != variable.KindSpecialized || n.Variant != variable.SpecializedTls || n.Rendered == nil {
		return nil
	}
	return locator.FieldByName(n.Rendered, "inner_value")
}

func (e *Engine) deref(ctx *typegraph.EvaluationContext, cur *variable.IR) *variable.IR {
	switch cur.Kind {
	case variable.KindPointer:
		if !cur.HasAddress || !cur.HasTarget || e.Parser.Gateway == nil {
			return nil
		}
		size, ok := e.Parser.View.SizeInBytes(ctx, cur.TargetType)
		if !ok {
			return nil
		}
		b, err := e.Parser.Gateway.Read(e.Parser.PID, memgw.Addr(cur.Address), int(size))
		if err != nil {
			return nil
		}
		identity := variable.DerefIdentity(identityName(cur))
		return e.Parser.Parse(ctx, identity, parser.Input{Bytes: b, Addr: cur.Address, HasAddr: true}, cur.TargetType)
	case variable.KindTaggedEnum:
		if cur.TaggedValue == nil {
			return nil
		}
		return e.deref(ctx, cur.TaggedValue)
	case variable.KindSpecialized:
		if inner := tlsInner(cur); inner != nil {
			return e.deref(ctx, inner)
		}
		return nil
	default:
		return nil
	}
}

func (e *Engine) field(ctx *typegraph.EvaluationContext, cur *variable.IR, name string) *variable.IR {
	switch cur.Kind {
	case variable.KindStruct:
		for _, m := range cur.Members {
			if m.Identity.HasName && m.Identity.Name == name {
				return m
			}
		}
		return nil
	case variable.KindTaggedEnum:
		if cur.TaggedValue == nil {
			return nil
		}
		return e.field(ctx, cur.TaggedValue, name)
	case variable.KindSpecialized:
		if cur.Variant == variable.SpecializedHashMap && cur.Rendered != nil {
			return hashMapLookup(cur.Rendered, name)
		}
		if inner := tlsInner(cur); inner != nil {
			return e.field(ctx, inner, name)
		}
		return nil
	default:
		return nil
	}
}

// hashMapLookup scans a specialized HashMap's rendered {pairs: [{key,
// value}, ...]} list for an entry whose key is a String or Str matching
// name (§4.7: "iterate kv pairs and match keys that are String or Str
// against name").
func hashMapLookup(rendered *variable.IR, name string) *variable.IR {
	pairsNode := locator.FieldByName(rendered, "pairs")
	if pairsNode == nil || !pairsNode.HasItems {
		return nil
	}
	for _, pair := range pairsNode.Items {
		key := locator.FieldByName(pair, "key")
		if key == nil || key.Kind != variable.KindSpecialized {
			continue
		}
		if key.Variant != variable.SpecializedString && key.Variant != variable.SpecializedStr {
			continue
		}
		if key.HasStringValue && key.StringValue == name {
			return locator.FieldByName(pair, "value")
		}
	}
	return nil
}

func (e *Engine) index(ctx *typegraph.EvaluationContext, cur *variable.IR, i uint64) *variable.IR {
	switch cur.Kind {
	case variable.KindArray:
		if !cur.HasItems || i >= uint64(len(cur.Items)) {
			return nil
		}
		return cur.Items[i]
	case variable.KindTaggedEnum:
		if cur.TaggedValue == nil {
			return nil
		}
		return e.index(ctx, cur.TaggedValue, i)
	case variable.KindSpecialized:
		if (cur.Variant == variable.SpecializedVector || cur.Variant == variable.SpecializedVecDeque) && cur.Rendered != nil {
			buf := locator.FieldByName(cur.Rendered, "buf")
			if buf == nil || !buf.HasItems || i >= uint64(len(buf.Items)) {
				return nil
			}
			return buf.Items[i]
		}
		if inner := tlsInner(cur); inner != nil {
			return e.index(ctx, inner, i)
		}
		return nil
	default:
		return nil
	}
}

func (e *Engine) slice(ctx *typegraph.EvaluationContext, cur *variable.IR, length uint64) *variable.IR {
	switch cur.Kind {
	case variable.KindPointer:
		if !cur.HasAddress || !cur.HasTarget || e.Parser.Gateway == nil {
			return nil
		}
		elemSize, ok := e.Parser.View.SizeInBytes(ctx, cur.TargetType)
		if !ok {
			return nil
		}
		b, err := e.Parser.Gateway.Read(e.Parser.PID, memgw.Addr(cur.Address), int(length*elemSize))
		if err != nil {
			return nil
		}
		ir := &variable.IR{
			Kind:     variable.KindArray,
			Identity: variable.Identity{Name: "[*" + identityName(cur) + "]", HasName: true, Synthetic: true},
			HasItems: true,
		}
		for i := uint64(0); i < length; i++ {
			off := i * elemSize
			chunk := b[off : off+elemSize]
			addr := cur.Address + off
			elem := e.Parser.Parse(ctx, variable.IndexIdentity(i), parser.Input{Bytes: chunk, Addr: addr, HasAddr: true}, cur.TargetType)
			ir.Items = append(ir.Items, elem)
		}
		return ir
	case variable.KindTaggedEnum:
		if cur.TaggedValue == nil {
			return nil
		}
		return e.slice(ctx, cur.TaggedValue, length)
	case variable.KindSpecialized:
		if inner := tlsInner(cur); inner != nil {
			return e.slice(ctx, inner, length)
		}
		return nil
	default:
		return nil
	}
}
