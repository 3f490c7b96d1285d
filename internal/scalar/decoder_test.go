package scalar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
)

func TestDecodeSignedRoundTrip(t *testing.T) {
	cases := []struct {
		size uint64
		kind variable.ScalarKind
		in   []byte
		want int64
	}{
		{1, variable.ScalarI8, []byte{0xff}, -1},
		{2, variable.ScalarI16, []byte{0xfe, 0xff}, -2},
		{4, variable.ScalarI32, []byte{0xfd, 0xff, 0xff, 0xff}, -3},
		{8, variable.ScalarI64, []byte{0xfc, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, -4},
	}
	for _, c := range cases {
		v, ok := Decode(typegraph.EncodingSigned, c.size, c.in)
		require.True(t, ok, "size=%d", c.size)
		require.Equal(t, c.kind, v.Kind)
		require.Equal(t, c.want, v.I64)
	}
}

func TestDecodeUnsignedRoundTrip(t *testing.T) {
	cases := []struct {
		size uint64
		kind variable.ScalarKind
		in   []byte
		want uint64
	}{
		{1, variable.ScalarU8, []byte{0xff}, 255},
		{2, variable.ScalarU16, []byte{0x01, 0x02}, 0x0201},
		{4, variable.ScalarU32, []byte{0x01, 0x02, 0x03, 0x04}, 0x04030201},
		{8, variable.ScalarU64, []byte{1, 0, 0, 0, 0, 0, 0, 0}, 1},
	}
	for _, c := range cases {
		v, ok := Decode(typegraph.EncodingUnsigned, c.size, c.in)
		require.True(t, ok, "size=%d", c.size)
		require.Equal(t, c.kind, v.Kind)
		require.Equal(t, c.want, v.U64)
	}
}

func TestDecodeWide128ReversesLittleEndianIntoBigEndianStorage(t *testing.T) {
	in := make([]byte, 16)
	for i := range in {
		in[i] = byte(i + 1)
	}
	reversed := make([]byte, 16)
	for i, b := range in {
		reversed[15-i] = b
	}

	v, ok := Decode(typegraph.EncodingUnsigned, 16, in)
	require.True(t, ok)
	require.Equal(t, variable.ScalarU128, v.Kind)
	require.Equal(t, reversed, v.Wide128[:])

	v, ok = Decode(typegraph.EncodingSigned, 16, in)
	require.True(t, ok)
	require.Equal(t, variable.ScalarI128, v.Kind)
	require.Equal(t, reversed, v.Wide128[:])
}

func TestDecodeFloat(t *testing.T) {
	// 1.5f32 little-endian
	v, ok := Decode(typegraph.EncodingFloat, 4, []byte{0x00, 0x00, 0xc0, 0x3f})
	require.True(t, ok)
	require.Equal(t, variable.ScalarF32, v.Kind)
	require.InDelta(t, 1.5, v.F64, 0.0001)
}

func TestDecodeBoolAndChar(t *testing.T) {
	v, ok := Decode(typegraph.EncodingBoolean, 1, []byte{1})
	require.True(t, ok)
	require.True(t, v.Bool)

	v, ok = Decode(typegraph.EncodingUTF, 4, []byte{0x41, 0, 0, 0})
	require.True(t, ok)
	require.Equal(t, 'A', v.Char)
}

func TestDecodeASCIILegacyCodePage(t *testing.T) {
	// 0xe9 in Windows-1252 is U+00E9 (e-acute), not valid UTF-8 on its own.
	v, ok := Decode(typegraph.EncodingASCII, 1, []byte{0xe9})
	require.True(t, ok)
	require.Equal(t, variable.ScalarChar, v.Kind)
	require.Equal(t, 'é', v.Char)
}

func TestDecodeASCIIFourByteCodePointMatchesUTF(t *testing.T) {
	v, ok := Decode(typegraph.EncodingASCII, 4, []byte{0x41, 0, 0, 0})
	require.True(t, ok)
	require.Equal(t, 'A', v.Char)
}

func TestDecodeRejectsUnsupportedCombination(t *testing.T) {
	_, ok := Decode(typegraph.EncodingFloat, 2, []byte{0, 0})
	require.False(t, ok)
}

func TestDecodeToleratesShortBuffer(t *testing.T) {
	// A member sliced from the edge of its parent's captured window may be
	// shorter than its declared size; decoding must not panic.
	v, ok := Decode(typegraph.EncodingUnsigned, 4, []byte{0x01})
	require.True(t, ok)
	require.Equal(t, uint64(1), v.U64)
}
