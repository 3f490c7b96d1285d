package specialize

import (
	"github.com/joshuapare/varcore/internal/locator"
	"github.com/joshuapare/varcore/internal/memgw"
	"github.com/joshuapare/varcore/internal/parser"
	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
	"github.com/joshuapare/varcore/pkg/varerr"
)

// walkBTreeNode performs an in-order walk of a std::collections::btree_map
// node, deriving every offset from the type graph rather than a hardcoded
// NODE CAPACITY/header layout (§9 Open Question, resolved): the node
// struct's own "len", "keys", "vals" and (for internal nodes) "edges"
// members are read exactly as the Generic Parser reifies them, truncated to
// the node's reported length rather than the array's full capacity.
func walkBTreeNode(p *parser.Parser, ctx *typegraph.EvaluationContext, addr uint64, height int64, nodeType typegraph.TypeID, out *[]*variable.IR) error {
	size, ok := p.View.SizeInBytes(ctx, nodeType)
	if !ok {
		return varerr.UnknownTypeSize("btree node")
	}
	if p.Gateway == nil {
		return varerr.New(varerr.KindMemory, "no memory gateway configured")
	}
	b, err := p.Gateway.Read(p.PID, memgw.Addr(addr), int(size))
	if err != nil {
		return varerr.Wrap(varerr.KindMemory, err, "reading btree node")
	}
	node := p.Parse(ctx, variable.Identity{Synthetic: true}, parser.Input{Bytes: b, Addr: addr, HasAddr: true}, nodeType)

	length, err := locator.AssumeScalarNumber(node, "len")
	if err != nil {
		return err
	}
	keysNode := locator.FieldByName(node, "keys")
	valsNode := locator.FieldByName(node, "vals")
	if keysNode == nil || !keysNode.HasItems || valsNode == nil || !valsNode.HasItems {
		return varerr.FieldNotFound("keys/vals")
	}

	var edges *variable.IR
	if height > 0 {
		edges = locator.FieldByName(node, "edges")
		if edges == nil || !edges.HasItems {
			return varerr.FieldNotFound("edges")
		}
	}

	n := int(length)
	for i := 0; i < n; i++ {
		if edges != nil && i < len(edges.Items) {
			edge := edges.Items[i]
			if edge.Kind == variable.KindPointer && edge.HasAddress && edge.HasTarget {
				if err := walkBTreeNode(p, ctx, edge.Address, height-1, edge.TargetType, out); err != nil {
					return err
				}
			}
		}
		if i >= len(keysNode.Items) || i >= len(valsNode.Items) {
			break
		}
		pair := synthStruct(named("key", keysNode.Items[i]), named("value", valsNode.Items[i]))
		pair.Identity = variable.IndexIdentity(uint64(len(*out)))
		*out = append(*out, pair)
	}
	if edges != nil && n < len(edges.Items) {
		last := edges.Items[n]
		if last.Kind == variable.KindPointer && last.HasAddress && last.HasTarget {
			if err := walkBTreeNode(p, ctx, last.Address, height-1, last.TargetType, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveNodePointer finds the raw pointer to a btree node storage block.
// Root/NodeRef wrap it behind their own field also named "node" (a NodeRef
// handle wrapping the actual pointer), so the first BFS match may be the
// wrapper struct rather than the pointer itself; unwrap one layer in that
// case.
func resolveNodePointer(root *variable.IR) (*variable.IR, error) {
	n := locator.FieldByName(root, "node")
	if n == nil {
		return nil, varerr.FieldNotFound("node")
	}
	switch n.Kind {
	case variable.KindPointer:
		return n, nil
	case variable.KindStruct:
		return resolveNodePointer(n)
	default:
		return nil, varerr.IncompleteInterp("node field is neither a pointer nor a node handle")
	}
}

func extractBTreeMap(p *parser.Parser, ctx *typegraph.EvaluationContext, raw *variable.IR) (*variable.IR, error) {
	rootOpt := locator.FieldByName(raw, "root")
	if rootOpt == nil || rootOpt.Kind != variable.KindTaggedEnum {
		return nil, varerr.FieldNotFound("root")
	}
	if rootOpt.TaggedValue == nil || rootOpt.TaggedValue.Identity.Name != "Some" {
		return &variable.IR{Rendered: synthStruct(namedArray("pairs", nil))}, nil
	}
	rootStruct := rootOpt.TaggedValue
	height, err := locator.AssumeScalarNumber(rootStruct, "height")
	if err != nil {
		return nil, err
	}
	nodePtr, err := resolveNodePointer(rootStruct)
	if err != nil {
		return nil, err
	}
	if !nodePtr.HasAddress || !nodePtr.HasTarget {
		return nil, varerr.IncompleteInterp("btree root node pointer has no address")
	}
	var pairs []*variable.IR
	if err := walkBTreeNode(p, ctx, nodePtr.Address, height, nodePtr.TargetType, &pairs); err != nil {
		return nil, err
	}
	return &variable.IR{Rendered: synthStruct(namedArray("pairs", pairs))}, nil
}

// extractBTreeSet delegates to the already-specialized BTreeMap<T, ()>
// nested in BTreeSet's own "map" field: by the time the Specialization
// Layer sees a BTreeSet struct, its "map" member has already been reified
// and specialized by the same recursive pass (§4.4/§4.5 run bottom-up), so
// no second tree walk is needed here.
func extractBTreeSet(p *parser.Parser, ctx *typegraph.EvaluationContext, raw *variable.IR) (*variable.IR, error) {
	mapNode := locator.FieldByName(raw, "map")
	if mapNode == nil || mapNode.Kind != variable.KindSpecialized || mapNode.Variant != variable.SpecializedBTreeMap || mapNode.Rendered == nil {
		return nil, varerr.IncompleteInterp("btree set map field was not specialized as a BTreeMap")
	}
	pairsNode := locator.FieldByName(mapNode.Rendered, "pairs")
	if pairsNode == nil || !pairsNode.HasItems {
		return nil, varerr.FieldNotFound("pairs")
	}
	items := make([]*variable.IR, 0, len(pairsNode.Items))
	for i, pair := range pairsNode.Items {
		key := locator.FieldByName(pair, "key")
		if key == nil {
			continue
		}
		item := named("", key)
		item.Identity = variable.IndexIdentity(uint64(i))
		items = append(items, item)
	}
	return &variable.IR{Rendered: synthStruct(namedArray("items", items))}, nil
}
