// Package scalar implements the Scalar Decoder (§4.2): mapping a DWARF
// base-type (encoding, byte size) pair, plus the raw bytes, to a tagged
// scalar value.
package scalar

import (
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/varcore/internal/buf"
	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
)

// Decode maps (encoding, byte_size, bytes) to a tagged scalar. It returns
// (_, false) for any combination outside the reification spec's decision
// table, except the single-byte `ascii` cell that decodeASCII also accepts;
// callers log a diagnostic and treat the value as absent — an
// unsupported encoding never fails the enclosing reification.
func Decode(encoding typegraph.Encoding, byteSize uint64, b []byte) (variable.ScalarValue, bool) {
	switch encoding {
	case typegraph.EncodingSigned:
		return decodeSigned(byteSize, b)
	case typegraph.EncodingUnsigned:
		return decodeUnsigned(byteSize, b)
	case typegraph.EncodingFloat:
		return decodeFloat(byteSize, b)
	case typegraph.EncodingSignedChar:
		if byteSize == 1 {
			return mkI64(variable.ScalarI8, int64(int8(alignedByte(b)))), true
		}
	case typegraph.EncodingUnsignedChar:
		if byteSize == 1 {
			return mkU64(variable.ScalarU8, uint64(alignedByte(b))), true
		}
	case typegraph.EncodingAddress:
		if byteSize == 8 {
			return mkU64(variable.ScalarUsize, readU64Aligned(b)), true
		}
	case typegraph.EncodingBoolean:
		if byteSize == 1 {
			return variable.ScalarValue{Kind: variable.ScalarBool, Bool: alignedByte(b) != 0}, true
		}
	case typegraph.EncodingUTF:
		if byteSize == 4 {
			r := rune(readU32Aligned(b))
			return variable.ScalarValue{Kind: variable.ScalarChar, Char: r}, true
		}
	case typegraph.EncodingASCII:
		return decodeASCII(byteSize, b)
	}
	return variable.ScalarValue{}, false
}

func decodeSigned(byteSize uint64, b []byte) (variable.ScalarValue, bool) {
	switch byteSize {
	case 0:
		return variable.ScalarValue{Kind: variable.ScalarUnit}, true
	case 1:
		return mkI64(variable.ScalarI8, int64(int8(alignedByte(b)))), true
	case 2:
		return mkI64(variable.ScalarI16, int64(int16(readU16Aligned(b)))), true
	case 4:
		return mkI64(variable.ScalarI32, int64(readI32Aligned(b))), true
	case 8:
		return mkI64(variable.ScalarI64, int64(readU64Aligned(b))), true
	case 16:
		return wide(variable.ScalarI128, b), true
	}
	return variable.ScalarValue{}, false
}

func decodeUnsigned(byteSize uint64, b []byte) (variable.ScalarValue, bool) {
	switch byteSize {
	case 0:
		return variable.ScalarValue{Kind: variable.ScalarUnit}, true
	case 1:
		return mkU64(variable.ScalarU8, uint64(alignedByte(b))), true
	case 2:
		return mkU64(variable.ScalarU16, uint64(readU16Aligned(b))), true
	case 4:
		return mkU64(variable.ScalarU32, uint64(readU32Aligned(b))), true
	case 8:
		return mkU64(variable.ScalarU64, readU64Aligned(b)), true
	case 16:
		return wide(variable.ScalarU128, b), true
	}
	return variable.ScalarValue{}, false
}

func decodeFloat(byteSize uint64, b []byte) (variable.ScalarValue, bool) {
	switch byteSize {
	case 4:
		bits := readU32Aligned(b)
		return variable.ScalarValue{Kind: variable.ScalarF32, F64: float64(math.Float32frombits(bits))}, true
	case 8:
		bits := readU64Aligned(b)
		return variable.ScalarValue{Kind: variable.ScalarF64, F64: math.Float64frombits(bits)}, true
	}
	return variable.ScalarValue{}, false
}

// decodeASCII handles the `ascii` row of the decision table. A 4-byte
// value is treated the same as `utf` (a already-decoded code point); a
// single byte is run through the Windows-1252 legacy code page, since a
// raw DWARF `ascii` base type in the wild is rarely plain 7-bit ASCII.
func decodeASCII(byteSize uint64, b []byte) (variable.ScalarValue, bool) {
	switch byteSize {
	case 4:
		r := rune(readU32Aligned(b))
		return variable.ScalarValue{Kind: variable.ScalarChar, Char: r}, true
	case 1:
		if len(b) == 0 {
			return variable.ScalarValue{}, false
		}
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(b[:1])
		if err != nil || len(decoded) == 0 {
			return variable.ScalarValue{}, false
		}
		r, _ := utf8.DecodeRune(decoded)
		return variable.ScalarValue{Kind: variable.ScalarChar, Char: r}, true
	}
	return variable.ScalarValue{}, false
}

func mkI64(kind variable.ScalarKind, v int64) variable.ScalarValue {
	return variable.ScalarValue{Kind: kind, I64: v}
}

func mkU64(kind variable.ScalarKind, v uint64) variable.ScalarValue {
	return variable.ScalarValue{Kind: kind, U64: v}
}

// wide stores a 128-bit scalar's bytes into Wide128, which is
// big-endian; the source bytes are little-endian (the inferior's native
// order), so they're reversed on the way in.
func wide(kind variable.ScalarKind, b []byte) variable.ScalarValue {
	var v variable.ScalarValue
	v.Kind = kind
	n := len(b)
	if n > 16 {
		n = 16
	}
	for i := 0; i < n; i++ {
		v.Wide128[15-i] = b[i]
	}
	return v
}

func alignedByte(b []byte) byte {
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

// readU16Aligned, readU32Aligned, readU64Aligned, and readI32Aligned always
// copy the source window into a stack-local, naturally aligned array before
// decoding through internal/buf's endian helpers, rather than decoding
// directly against (possibly misaligned) caller-provided bytes. A struct
// member carved out of a larger buffer by the Type-Graph View has no
// alignment guarantee at all; the copy also absorbs short windows by
// zero-padding instead of buf's helpers' own short-read-returns-0 behavior,
// which would discard a partially available value.
func readU16Aligned(b []byte) uint16 {
	var tmp [2]byte
	copy(tmp[:], b)
	return buf.U16LE(tmp[:])
}

func readU32Aligned(b []byte) uint32 {
	var tmp [4]byte
	copy(tmp[:], b)
	return buf.U32LE(tmp[:])
}

func readU64Aligned(b []byte) uint64 {
	var tmp [8]byte
	copy(tmp[:], b)
	return buf.U64LE(tmp[:])
}

func readI32Aligned(b []byte) int32 {
	var tmp [4]byte
	copy(tmp[:], b)
	return buf.I32LE(tmp[:])
}

// TryAsNumber re-exports variable.ScalarValue.TryAsNumber for callers that
// only import this package.
func TryAsNumber(s variable.ScalarValue) (int64, bool) { return s.TryAsNumber() }
