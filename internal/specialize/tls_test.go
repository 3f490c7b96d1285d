package specialize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/varcore/pkg/variable"
)

func TestDeriveTlsNameFindsSegmentBeforeGetit(t *testing.T) {
	name, ok := deriveTlsName([]string{"my_mod", "COUNTER", "__getit"})
	require.True(t, ok)
	require.Equal(t, "COUNTER", name)
}

func TestDeriveTlsNameAbsentWithoutGetitMarker(t *testing.T) {
	_, ok := deriveTlsName([]string{"my_mod", "COUNTER"})
	require.False(t, ok)
}

func TestExtractTlsInitializedValue(t *testing.T) {
	raw := &variable.IR{
		Kind:       variable.KindStruct,
		Namespaces: []string{"my_mod", "COUNTER", "__getit"},
		Members: []*variable.IR{
			{Identity: variable.Identity{Name: "inner", HasName: true}, Kind: variable.KindTaggedEnum,
				TaggedValue: func() *variable.IR { v := *scalarField("x", 9); v.Identity = variable.Identity{Name: "Some", HasName: true}; return &v }()},
		},
	}

	ir, err := extractTls(nil, nil, raw)
	require.NoError(t, err)
	require.True(t, ir.Identity.HasName)
	require.Equal(t, "COUNTER", ir.Identity.Name)
	require.NotNil(t, ir.Rendered)
	require.Equal(t, "inner_value", ir.Rendered.Members[0].Identity.Name)
}

func TestExtractTlsUninitializedIsAbsentButNamed(t *testing.T) {
	raw := &variable.IR{
		Kind:       variable.KindStruct,
		Namespaces: []string{"my_mod", "COUNTER", "__getit"},
		Members: []*variable.IR{
			{Identity: variable.Identity{Name: "inner", HasName: true}, Kind: variable.KindTaggedEnum},
		},
	}

	ir, err := extractTls(nil, nil, raw)
	require.NoError(t, err)
	require.Equal(t, "COUNTER", ir.Identity.Name)
	require.Nil(t, ir.Rendered)
}

func TestExtractTlsRequiresInnerTaggedEnum(t *testing.T) {
	raw := &variable.IR{Kind: variable.KindStruct, Members: []*variable.IR{
		scalarField("inner", 1),
	}}
	_, err := extractTls(nil, nil, raw)
	require.Error(t, err)
}
