package specialize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/varcore/internal/memgw"
	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
)

func rawString(length uint64, addr uint64) *variable.IR {
	return &variable.IR{
		Kind:     variable.KindStruct,
		TypeName: "String",
		Members: []*variable.IR{
			scalarField("len", length),
			pointerField("pointer", addr),
		},
	}
}

func TestExtractStringDecodesUTF8(t *testing.T) {
	g := typegraph.NewGraph()
	gw := memgw.NewRecorded(1)
	gw.Record(0x9000, []byte("hello"))
	p := newTestParser(g, gw, 1)

	raw := rawString(5, 0x9000)
	ir, err := extractString(p, nil, raw)
	require.NoError(t, err)
	require.True(t, ir.HasStringValue)
	require.Equal(t, "hello", ir.StringValue)
}

func TestExtractStringEmptyNeedsNoGateway(t *testing.T) {
	g := typegraph.NewGraph()
	p := newTestParser(g, nil, 0)

	raw := rawString(0, 0)
	ir, err := extractString(p, nil, raw)
	require.NoError(t, err)
	require.True(t, ir.HasStringValue)
	require.Equal(t, "", ir.StringValue)
}

func TestExtractStringRejectsInvalidUTF8(t *testing.T) {
	g := typegraph.NewGraph()
	gw := memgw.NewRecorded(1)
	gw.Record(0x9100, []byte{0xff, 0xfe})
	p := newTestParser(g, gw, 1)

	raw := rawString(2, 0x9100)
	_, err := extractString(p, nil, raw)
	require.Error(t, err)
}

func TestExtractStrUsesLenOrLengthAlternates(t *testing.T) {
	g := typegraph.NewGraph()
	gw := memgw.NewRecorded(1)
	gw.Record(0x9200, []byte("hi"))
	p := newTestParser(g, gw, 1)

	raw := &variable.IR{
		Kind:     variable.KindStruct,
		TypeName: "&str",
		Members: []*variable.IR{
			scalarField("length", 2),
			pointerField("data_ptr", 0x9200),
		},
	}
	ir, err := extractStr(p, nil, raw)
	require.NoError(t, err)
	require.Equal(t, "hi", ir.StringValue)
}
