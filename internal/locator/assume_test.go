package locator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/varcore/pkg/variable"
)

func TestAssumeScalarNumberPromotesInteger(t *testing.T) {
	root := &variable.IR{Kind: variable.KindStruct, Members: []*variable.IR{
		named("len", &variable.IR{Kind: variable.KindScalar, HasScalar: true, Scalar: variable.ScalarValue{Kind: variable.ScalarU64, U64: 3}}),
	}}

	n, err := AssumeScalarNumber(root, "len")
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func TestAssumeScalarNumberFieldNotFound(t *testing.T) {
	root := &variable.IR{Kind: variable.KindStruct}
	_, err := AssumeScalarNumber(root, "len")
	require.Error(t, err)
}

func TestAssumeScalarNumberWrongKind(t *testing.T) {
	root := &variable.IR{Kind: variable.KindStruct, Members: []*variable.IR{
		named("len", &variable.IR{Kind: variable.KindPointer, HasAddress: true}),
	}}
	_, err := AssumeScalarNumber(root, "len")
	require.Error(t, err)
}

func TestAssumePointerRequiresPointerKind(t *testing.T) {
	root := &variable.IR{Kind: variable.KindStruct, Members: []*variable.IR{
		named("pointer", &variable.IR{Kind: variable.KindPointer, HasAddress: true, Address: 0x1000}),
	}}

	ptr, err := AssumePointer(root, "pointer")
	require.NoError(t, err)
	require.EqualValues(t, 0x1000, ptr.Address)

	root2 := &variable.IR{Kind: variable.KindStruct, Members: []*variable.IR{
		named("pointer", scalarLeaf()),
	}}
	_, err = AssumePointer(root2, "pointer")
	require.Error(t, err)
}

func TestAssumeRustEnumRequiresTaggedEnumKind(t *testing.T) {
	root := &variable.IR{Kind: variable.KindStruct, Members: []*variable.IR{
		named("inner", &variable.IR{Kind: variable.KindTaggedEnum}),
	}}
	n, err := AssumeRustEnum(root, "inner")
	require.NoError(t, err)
	require.Equal(t, variable.KindTaggedEnum, n.Kind)
}

func TestAssumeStructRequiresStructKind(t *testing.T) {
	root := &variable.IR{Kind: variable.KindStruct, Members: []*variable.IR{
		named("map", &variable.IR{Kind: variable.KindStruct}),
	}}
	n, err := AssumeStruct(root, "map")
	require.NoError(t, err)
	require.Equal(t, variable.KindStruct, n.Kind)
}
