// Package acceptance exercises the reification pipeline end to end,
// through the same JSON snapshot format cmd/varctl and cmd/varexplore load,
// reproducing the worked examples the container-specialization and
// selection rules were derived from.
package acceptance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/varcore/internal/fixture"
	"github.com/joshuapare/varcore/internal/locator"
	"github.com/joshuapare/varcore/internal/selection"
	"github.com/joshuapare/varcore/pkg/variable"
)

func build(t *testing.T, snapshotJSON string) *fixture.Built {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshotJSON), 0o644))

	snap, err := fixture.Load(path)
	require.NoError(t, err)
	built, err := snap.Build(nil)
	require.NoError(t, err)
	return built
}

// Scenario 1: BFS ordering on a hand-built tree.
//
// Struct struct_1 with members [Struct struct_2 { Scalar scalar_1,
// TaggedEnum enum_1 { value: Scalar scalar_2 }, Scalar scalar_3 }, Pointer
// pointer_1]. Expected BFS name order: struct_1, struct_2, pointer_1,
// scalar_1, enum_1, scalar_3, scalar_2. Pointer children are not expanded.
func TestScenario1_BFSOrderingOnHandBuiltTree(t *testing.T) {
	leaf := func(name string) *variable.IR {
		return &variable.IR{
			Identity:  variable.Identity{Name: name, HasName: true},
			Kind:      variable.KindScalar,
			HasScalar: true,
		}
	}

	scalar2 := leaf("scalar_2")
	enum1 := &variable.IR{Identity: variable.Identity{Name: "enum_1", HasName: true}, Kind: variable.KindTaggedEnum, TaggedValue: scalar2}
	struct2 := &variable.IR{
		Identity: variable.Identity{Name: "struct_2", HasName: true},
		Kind:     variable.KindStruct,
		Members:  []*variable.IR{leaf("scalar_1"), enum1, leaf("scalar_3")},
	}
	pointer1 := &variable.IR{Identity: variable.Identity{Name: "pointer_1", HasName: true}, Kind: variable.KindPointer}
	struct1 := &variable.IR{
		Identity: variable.Identity{Name: "struct_1", HasName: true},
		Kind:     variable.KindStruct,
		Members:  []*variable.IR{struct2, pointer1},
	}

	var order []string
	locator.BFS(struct1, func(n *variable.IR) bool {
		order = append(order, n.Identity.Name)
		return true
	})

	require.Equal(t, []string{
		"struct_1", "struct_2", "pointer_1", "scalar_1", "enum_1", "scalar_3", "scalar_2",
	}, order)
}

// Scenario 2: Vector reification. len=3, cap=8, backing bytes
// 01 00 00 00 02 00 00 00 03 00 00 00 -> buf=[1,2,3], cap=8.
func TestScenario2_VectorReification(t *testing.T) {
	built := build(t, `{
		"pid": 1,
		"types": {
			"1": {"kind": "scalar", "name": "u32", "encoding": "unsigned", "byte_size": 4},
			"2": {"kind": "pointer", "name": "*u32", "target_type": 1, "byte_size": 8},
			"3": {"kind": "structure", "name": "Vec<u32>", "byte_size": 24, "has_byte_size": true,
				"namespaces": ["alloc", "vec"],
				"type_params": {"T": 1},
				"members": [
					{"name": "pointer", "type_ref": 2, "has_type": true, "offset": 0},
					{"name": "len", "type_ref": 1, "has_type": true, "offset": 8},
					{"name": "cap", "type_ref": 1, "has_type": true, "offset": 16}
				]}
		},
		"memory": [
			{"addr": 4096, "data": "005000000000000003000000000000000800000000000000"},
			{"addr": 20480, "data": "010000000200000003000000"}
		],
		"root": {"name": "v", "type_id": 3, "addr": 4096, "has_addr": true}
	}`)

	require.Equal(t, variable.KindSpecialized, built.Root.Kind)
	require.Equal(t, variable.SpecializedVector, built.Root.Variant)

	buf := locator.FieldByName(built.Root.Rendered, "buf")
	require.NotNil(t, buf)
	require.Len(t, buf.Items, 3)
	require.EqualValues(t, 1, buf.Items[0].Scalar.U64)
	require.EqualValues(t, 2, buf.Items[1].Scalar.U64)
	require.EqualValues(t, 3, buf.Items[2].Scalar.U64)

	cap := locator.FieldByName(built.Root.Rendered, "cap")
	require.NotNil(t, cap)
	require.EqualValues(t, 8, cap.Scalar.U64)
}

// Scenario 3: String reification. len=5, bytes "68 65 6c 6c 6f" -> "hello".
func TestScenario3_StringReification(t *testing.T) {
	built := build(t, `{
		"pid": 1,
		"types": {
			"1": {"kind": "scalar", "name": "usize", "encoding": "unsigned", "byte_size": 8},
			"2": {"kind": "pointer", "name": "*u8", "target_type": 1, "byte_size": 8},
			"3": {"kind": "structure", "name": "String", "byte_size": 24, "has_byte_size": true,
				"members": [
					{"name": "pointer", "type_ref": 2, "has_type": true, "offset": 0},
					{"name": "len", "type_ref": 1, "has_type": true, "offset": 8},
					{"name": "cap", "type_ref": 1, "has_type": true, "offset": 16}
				]}
		},
		"memory": [
			{"addr": 4096, "data": "006000000000000005000000000000000500000000000000"},
			{"addr": 24576, "data": "68656c6c6f"}
		],
		"root": {"name": "s", "type_id": 3, "addr": 4096, "has_addr": true}
	}`)

	require.Equal(t, variable.KindSpecialized, built.Root.Kind)
	require.Equal(t, variable.SpecializedString, built.Root.Variant)
	require.True(t, built.Root.HasStringValue)
	require.Equal(t, "hello", built.Root.StringValue)
}

// Scenario 4: tagged enum discriminant resolution picks the payload that
// matches the runtime discriminant, not the declaration order.
func TestScenario4_TaggedEnumDiscriminantResolution(t *testing.T) {
	built := build(t, `{
		"pid": 1,
		"types": {
			"1": {"kind": "scalar", "name": "u8", "encoding": "unsigned", "byte_size": 1},
			"2": {"kind": "scalar", "name": "u32", "encoding": "unsigned", "byte_size": 4},
			"3": {"kind": "taggedenum", "name": "Option<u32>",
				"discr_member": {"name": "discr", "type_ref": 1, "has_type": true, "offset": 0},
				"enumerator_members": {
					"1": {"name": "Some", "type_ref": 2, "has_type": true, "offset": 4}
				},
				"none_variant": {"name": "None", "has_type": false}
			}
		},
		"memory": [
			{"addr": 4096, "data": "010000002a000000"}
		],
		"root": {"name": "opt", "type_id": 3, "addr": 4096, "has_addr": true}
	}`)
	require.Equal(t, variable.KindTaggedEnum, built.Root.Kind)
	require.NotNil(t, built.Root.TaggedValue)
	require.EqualValues(t, 42, built.Root.TaggedValue.Scalar.U64)
}

// Scenario 5: pointer dereference via the Selection Engine.
func TestScenario5_SelectionEngineDerefPointer(t *testing.T) {
	built := build(t, `{
		"pid": 1,
		"types": {
			"1": {"kind": "scalar", "name": "u32", "encoding": "unsigned", "byte_size": 4},
			"2": {"kind": "pointer", "name": "*u32", "target_type": 1, "byte_size": 8}
		},
		"memory": [
			{"addr": 4096, "data": "0050000000000000"},
			{"addr": 20480, "data": "7b000000"}
		],
		"root": {"name": "p", "type_id": 2, "addr": 4096, "has_addr": true}
	}`)

	engine := selection.New(built.Parser)
	result := engine.Apply(built.Ctx, built.Root, selection.Plan{{Kind: selection.OpDeref}})
	require.True(t, result.HasScalar)
	require.EqualValues(t, 123, result.Scalar.U64)
}

// Scenario 6: HashMap string-key lookup via the Selection Engine. Two
// entries {"alpha": 1u32, "beta": 2u32}; plan [Field("beta")] must pick
// the matching key among several, not just return whatever is present
// (spec.md §8 scenario 6, reproduced literally rather than with a single
// entry, which cannot exercise discrimination between keys).
func TestScenario6_SelectionEngineHashMapStringKeyLookup(t *testing.T) {
	built := build(t, `{
		"pid": 1,
		"types": {
			"1": {"kind": "scalar", "name": "usize", "encoding": "unsigned", "byte_size": 8},
			"2": {"kind": "pointer", "name": "*u8", "target_type": 1, "byte_size": 8},
			"3": {"kind": "structure", "name": "String", "byte_size": 24, "has_byte_size": true,
				"members": [
					{"name": "pointer", "type_ref": 2, "has_type": true, "offset": 0},
					{"name": "len", "type_ref": 1, "has_type": true, "offset": 8},
					{"name": "cap", "type_ref": 1, "has_type": true, "offset": 16}
				]},
			"4": {"kind": "scalar", "name": "u32", "encoding": "unsigned", "byte_size": 4},
			"5": {"kind": "pointer", "name": "*ctrl", "target_type": 1, "byte_size": 8},
			"6": {"kind": "structure", "name": "HashMap<String, u32>", "byte_size": 24, "has_byte_size": true,
				"namespaces": ["std", "collections", "hash", "map"],
				"type_params": {"K": 3, "V": 4},
				"members": [
					{"name": "bucket_mask", "type_ref": 1, "has_type": true, "offset": 0},
					{"name": "ctrl", "type_ref": 5, "has_type": true, "offset": 8},
					{"name": "group_width", "type_ref": 1, "has_type": true, "offset": 16}
				]}
		},
		"memory": [
			{"addr": 4096, "data": "010000000000000000500000000000001000000000000000"},
			{"addr": 20480, "data": "0000"},
			{"addr": 20452, "data": "00600000000000000500000000000000050000000000000001000000"},
			{"addr": 20424, "data": "00700000000000000400000000000000040000000000000002000000"},
			{"addr": 24576, "data": "616c706861"},
			{"addr": 28672, "data": "62657461"}
		],
		"root": {"name": "m", "type_id": 6, "addr": 4096, "has_addr": true}
	}`)

	engine := selection.New(built.Parser)
	result := engine.Apply(built.Ctx, built.Root, selection.Plan{{Kind: selection.OpField, Name: "beta"}})
	require.True(t, result.HasScalar)
	require.EqualValues(t, 2, result.Scalar.U64)

	result = engine.Apply(built.Ctx, built.Root, selection.Plan{{Kind: selection.OpField, Name: "alpha"}})
	require.True(t, result.HasScalar)
	require.EqualValues(t, 1, result.Scalar.U64)
}

// Empty-plan idempotence: the Selection Engine returns the root unchanged.
func TestSelectionEngineEmptyPlanIsIdempotent(t *testing.T) {
	built := build(t, `{
		"pid": 1,
		"types": {"1": {"kind": "scalar", "name": "u32", "encoding": "unsigned", "byte_size": 4}},
		"memory": [{"addr": 4096, "data": "01000000"}],
		"root": {"name": "x", "type_id": 1, "addr": 4096, "has_addr": true}
	}`)
	engine := selection.New(built.Parser)
	result := engine.Apply(built.Ctx, built.Root, selection.Plan{})
	require.Same(t, built.Root, result)
}
