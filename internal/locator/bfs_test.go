package locator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/varcore/pkg/variable"
)

func named(name string, n *variable.IR) *variable.IR {
	n.Identity = variable.Identity{Name: name, HasName: true}
	return n
}

func scalarLeaf() *variable.IR {
	return &variable.IR{Kind: variable.KindScalar, HasScalar: true, Scalar: variable.ScalarValue{Kind: variable.ScalarI32, I64: 1}}
}

// buildScenarioTree reproduces the hand-built BFS fixture tree:
//
//	struct_1
//	├── struct_2
//	│   ├── scalar_1
//	│   ├── enum_1 (tagged, value: scalar_2)
//	│   └── scalar_3
//	└── pointer_1
//
// whose breadth-first visitation order is:
// struct_1, struct_2, pointer_1, scalar_1, enum_1, scalar_3, scalar_2.
// Pointer children are never expanded.
func buildScenarioTree() *variable.IR {
	scalar1 := named("scalar_1", scalarLeaf())
	scalar2 := named("scalar_2", scalarLeaf())
	enum1 := named("enum_1", &variable.IR{Kind: variable.KindTaggedEnum, TaggedValue: scalar2})
	scalar3 := named("scalar_3", scalarLeaf())
	struct2 := named("struct_2", &variable.IR{Kind: variable.KindStruct, Members: []*variable.IR{scalar1, enum1, scalar3}})

	pointer1 := named("pointer_1", &variable.IR{Kind: variable.KindPointer, HasAddress: true, Address: 0x4000})

	return named("struct_1", &variable.IR{Kind: variable.KindStruct, Members: []*variable.IR{struct2, pointer1}})
}

func TestBFSVisitsLevelByLevelLeftToRight(t *testing.T) {
	root := buildScenarioTree()

	var order []string
	BFS(root, func(n *variable.IR) bool {
		order = append(order, n.Identity.Name)
		return true
	})

	require.Equal(t, []string{
		"struct_1", "struct_2", "pointer_1", "scalar_1", "enum_1", "scalar_3", "scalar_2",
	}, order)
}

func TestBFSStopsWhenVisitReturnsFalse(t *testing.T) {
	root := buildScenarioTree()

	var order []string
	BFS(root, func(n *variable.IR) bool {
		order = append(order, n.Identity.Name)
		return n.Identity.Name != "struct_2"
	})

	require.Equal(t, []string{"struct_1", "struct_2"}, order)
}

func TestFieldByNameFindsFirstMatchInBFSOrder(t *testing.T) {
	root := buildScenarioTree()

	found := FieldByName(root, "scalar_1")
	require.NotNil(t, found)
	require.Equal(t, variable.KindScalar, found.Kind)

	require.Nil(t, FieldByName(root, "does_not_exist"))
}

func TestFieldByAnyNamePrefersFirstBFSMatchAcrossAlternates(t *testing.T) {
	root := buildScenarioTree()

	found := FieldByAnyName(root, "scalar_2", "scalar_1")
	require.NotNil(t, found)
	// scalar_1 is reached before scalar_2 in BFS order (level 2 vs level 3),
	// regardless of the order the candidate names were passed in.
	require.Equal(t, "scalar_1", found.Identity.Name)
}

func TestSpecializedNodeExpandsThroughOriginalMembers(t *testing.T) {
	lenField := named("len", scalarLeaf())
	raw := &variable.IR{Kind: variable.KindStruct, Members: []*variable.IR{lenField}}
	specialized := &variable.IR{Kind: variable.KindSpecialized, Original: raw}

	found := FieldByName(specialized, "len")
	require.Same(t, lenField, found)
}

func TestPointerNeverExpands(t *testing.T) {
	ptr := &variable.IR{Kind: variable.KindPointer, HasAddress: true, Address: 0x8000}
	require.Empty(t, children(ptr))
}
