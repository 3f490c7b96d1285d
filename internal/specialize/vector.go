package specialize

import (
	"github.com/joshuapare/varcore/internal/locator"
	"github.com/joshuapare/varcore/internal/memgw"
	"github.com/joshuapare/varcore/internal/parser"
	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
	"github.com/joshuapare/varcore/pkg/varerr"
)

func elementType(raw *variable.IR) (typegraph.TypeID, error) {
	tp := raw.TypeParams["T"]
	if tp == nil {
		return 0, varerr.IncompleteInterp("missing type parameter T")
	}
	return *tp, nil
}

// readElements reads count elements of elemType starting at addr and
// reifies each through the Generic Parser, naming them by index i.
func readElements(p *parser.Parser, ctx *typegraph.EvaluationContext, addr uint64, count uint64, elemType typegraph.TypeID) ([]*variable.IR, error) {
	if count == 0 {
		return nil, nil
	}
	elemSize, ok := p.View.SizeInBytes(ctx, elemType)
	if !ok {
		return nil, varerr.UnknownTypeSize("element")
	}
	if p.Gateway == nil {
		return nil, varerr.New(varerr.KindMemory, "no memory gateway configured")
	}
	b, err := p.Gateway.Read(p.PID, memgw.Addr(addr), int(count*elemSize))
	if err != nil {
		return nil, varerr.Wrap(varerr.KindMemory, err, "reading elements")
	}
	items := make([]*variable.IR, 0, count)
	for i := uint64(0); i < count; i++ {
		off := i * elemSize
		chunk := b[off : off+elemSize]
		elemAddr := addr + off
		items = append(items, p.Parse(ctx, variable.IndexIdentity(i), parser.Input{Bytes: chunk, Addr: elemAddr, HasAddr: true}, elemType))
	}
	return items, nil
}

func scalarCopy(n *variable.IR) *variable.IR {
	cp := *n
	return &cp
}

// synthStruct builds the "synthetic struct" the reification spec's §4.5
// Vector/VecDeque algorithms describe: a struct-kind IR whose members are
// the rendered representation of the container.
func synthStruct(members ...*variable.IR) *variable.IR {
	return &variable.IR{Kind: variable.KindStruct, Members: members}
}

func namedArray(name string, items []*variable.IR) *variable.IR {
	return &variable.IR{
		Identity: variable.Identity{Name: name, HasName: true},
		Kind:     variable.KindArray,
		HasItems: true,
		Items:    items,
	}
}

func extractVector(p *parser.Parser, ctx *typegraph.EvaluationContext, raw *variable.IR) (*variable.IR, error) {
	length, err := locator.AssumeScalarNumber(raw, "len")
	if err != nil {
		return nil, err
	}
	capNode := locator.FieldByName(raw, "cap")
	if capNode == nil {
		return nil, varerr.FieldNotFound("cap")
	}
	ptrNode, err := locator.AssumePointer(raw, "pointer")
	if err != nil {
		return nil, err
	}
	elemType, err := elementType(raw)
	if err != nil {
		return nil, err
	}
	items, err := readElements(p, ctx, ptrNode.Address, uint64(length), elemType)
	if err != nil {
		return nil, err
	}
	return &variable.IR{Rendered: synthStruct(namedArray("buf", items), scalarCopy(capNode))}, nil
}

// extractVecDeque reifies a ring buffer: head/tail indices into a backing
// buffer of capacity cap, logical length = (tail-head) mod cap. Elements
// are read in logical order (unwrapped), exposed as the same synthetic
// {buf, cap} shape as Vector so downstream rendering/selection is uniform.
func extractVecDeque(p *parser.Parser, ctx *typegraph.EvaluationContext, raw *variable.IR) (*variable.IR, error) {
	head, err := locator.AssumeScalarNumber(raw, "head")
	if err != nil {
		return nil, err
	}
	tail, err := locator.AssumeScalarNumber(raw, "tail")
	if err != nil {
		return nil, err
	}
	bufNode, err := locator.AssumeStruct(raw, "buf")
	if err != nil {
		return nil, err
	}
	capNode := locator.FieldByName(bufNode, "cap")
	if capNode == nil {
		return nil, varerr.FieldNotFound("cap")
	}
	cap64, ok := capNode.Scalar.TryAsNumber()
	if !ok || cap64 <= 0 {
		return nil, varerr.FieldNotANumber("cap")
	}
	ptrNode, err := locator.AssumePointer(bufNode, "pointer")
	if err != nil {
		return nil, err
	}
	elemType, err := elementType(raw)
	if err != nil {
		return nil, err
	}
	capU := uint64(cap64)
	length := (uint64(tail) - uint64(head) + capU) % capU
	if tail == head && length == 0 {
		// head==tail means either empty or completely full; VecDeque
		// never leaves one slot ambiguous (it always keeps cap > len),
		// so equal head/tail is unambiguously empty.
		length = 0
	}

	elemSize, ok := p.View.SizeInBytes(ctx, elemType)
	if !ok {
		return nil, varerr.UnknownTypeSize("element")
	}
	items := make([]*variable.IR, 0, length)
	for i := uint64(0); i < length; i++ {
		physical := (uint64(head) + i) % capU
		addr := ptrNode.Address + physical*elemSize
		sub, err := readElements(p, ctx, addr, 1, elemType)
		if err != nil {
			return nil, err
		}
		item := sub[0]
		item.Identity = variable.IndexIdentity(i)
		items = append(items, item)
	}
	return &variable.IR{Rendered: synthStruct(namedArray("buf", items), scalarCopy(capNode))}, nil
}
