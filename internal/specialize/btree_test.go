package specialize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/varcore/internal/memgw"
	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
)

const (
	btU32    typegraph.TypeID = 200
	btNode   typegraph.TypeID = 201
	btNodePtr typegraph.TypeID = 202
)

// newBTreeLeafGraph builds a single-leaf-node BTreeMap<u32,u32> type
// graph: a node struct with len/keys[3]/vals[3], no edges (a leaf, height
// 0), matching the Generic Parser's own reification of the generic node
// shape rather than any hardcoded capacity constant.
func newBTreeLeafGraph() *typegraph.Graph {
	g := typegraph.NewGraph()
	g.Put(btU32, typegraph.Scalar{Encoding: typegraph.EncodingUnsigned, ByteSize: 4}, "u32")
	g.Put(btNode, typegraph.Structure{
		Name: "LeafNode",
		Members: []typegraph.StructureMember{
			{Name: "len", TypeRef: btU32, HasType: true, Location: typegraph.ConstOffset(0)},
			{Name: "keys", TypeRef: mustRegisterArray(g, btU32, 3, "keys3"), HasType: true, Location: typegraph.ConstOffset(4)},
			{Name: "vals", TypeRef: mustRegisterArray(g, btU32, 3, "vals3"), HasType: true, Location: typegraph.ConstOffset(16)},
		},
		ByteSize:    28,
		HasByteSize: true,
	}, "LeafNode")
	return g
}

var nextSynthID typegraph.TypeID = 9000

func mustRegisterArray(g *typegraph.Graph, elem typegraph.TypeID, n uint64, name string) typegraph.TypeID {
	nextSynthID++
	id := nextSynthID
	g.Put(id, typegraph.Array{ElementType: elem, Bounds: typegraph.ConstBounds{Start: 0, End: n}}, name)
	return id
}

func TestWalkBTreeLeafNodeProducesOrderedPairs(t *testing.T) {
	g := newBTreeLeafGraph()
	gw := memgw.NewRecorded(1)
	addr := uint64(0x6000)
	// len=2, keys=[1,2,_], vals=[10,20,_]
	gw.Record(memgw.Addr(addr), []byte{
		2, 0, 0, 0, // len
		1, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, // keys
		10, 0, 0, 0, 20, 0, 0, 0, 0, 0, 0, 0, // vals
	})
	p := newTestParser(g, gw, 1)

	var pairs []*variable.IR
	err := walkBTreeNode(p, nil, addr, 0, btNode, &pairs)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	require.EqualValues(t, 1, pairs[0].Members[0].Scalar.U64)
	require.EqualValues(t, 10, pairs[0].Members[1].Scalar.U64)
	require.EqualValues(t, 2, pairs[1].Members[0].Scalar.U64)
	require.EqualValues(t, 20, pairs[1].Members[1].Scalar.U64)
}

func TestExtractBTreeMapEmptyRootIsEmptyPairs(t *testing.T) {
	g := typegraph.NewGraph()
	p := newTestParser(g, nil, 0)

	raw := &variable.IR{
		Kind: variable.KindStruct,
		Members: []*variable.IR{
			{
				Identity: variable.Identity{Name: "root", HasName: true},
				Kind:     variable.KindTaggedEnum,
				// TaggedValue nil means None: empty map.
			},
		},
	}

	ir, err := extractBTreeMap(p, nil, raw)
	require.NoError(t, err)
	require.Empty(t, ir.Rendered.Members[0].Items)
}

func TestResolveNodePointerUnwrapsNodeRefWrapper(t *testing.T) {
	innerPtr := pointerField("node", 0x7000)
	wrapper := &variable.IR{
		Identity: variable.Identity{Name: "node", HasName: true},
		Kind:     variable.KindStruct,
		Members:  []*variable.IR{innerPtr},
	}
	root := &variable.IR{Kind: variable.KindStruct, Members: []*variable.IR{wrapper}}

	ptr, err := resolveNodePointer(root)
	require.NoError(t, err)
	require.Same(t, innerPtr, ptr)
}

func TestExtractBTreeSetDelegatesToSpecializedMapField(t *testing.T) {
	pairs := namedArray("pairs", []*variable.IR{
		synthStruct(named("key", scalarField("k", 5)), named("value", scalarField("v", 0))),
	})
	mapNode := &variable.IR{
		Identity: variable.Identity{Name: "map", HasName: true},
		Kind:     variable.KindSpecialized,
		Variant:  variable.SpecializedBTreeMap,
		Rendered: synthStruct(pairs),
	}
	raw := &variable.IR{Kind: variable.KindStruct, Members: []*variable.IR{mapNode}}

	ir, err := extractBTreeSet(nil, nil, raw)
	require.NoError(t, err)
	items := ir.Rendered.Members[0]
	require.Equal(t, "items", items.Identity.Name)
	require.Len(t, items.Items, 1)
	require.EqualValues(t, 5, items.Items[0].Scalar.U64)
}
