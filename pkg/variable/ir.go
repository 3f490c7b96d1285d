// Package variable is the Variable IR: the typed, navigable tree a
// reification produces. It is a closed, seven-case tagged union
// implemented as a single struct with a Kind discriminator (per the
// reification spec's design note: pattern-match on kind, no dynamic
// dispatch) rather than as a Node interface with one type per kind.
package variable

import (
	"fmt"
	"math/big"

	"github.com/joshuapare/varcore/pkg/typegraph"
)

// Kind discriminates the seven IR node variants.
type Kind int

const (
	KindScalar Kind = iota
	KindStruct
	KindArray
	KindCEnum
	KindTaggedEnum
	KindPointer
	KindSpecialized
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	case KindCEnum:
		return "c_enum"
	case KindTaggedEnum:
		return "tagged_enum"
	case KindPointer:
		return "pointer"
	case KindSpecialized:
		return "specialized"
	default:
		return "unknown"
	}
}

// Identity is (namespace_path, optional_name). Synthetic children (array
// index, dereference) use an empty namespace path and a generated name.
type Identity struct {
	NamespacePath []string
	Name          string
	HasName       bool
	Synthetic     bool
}

// DerefIdentity renames a node for a synthetic "*<parent>" dereference
// child, per §3 invariant I1.
func DerefIdentity(parentName string) Identity {
	return Identity{Name: "*" + parentName, HasName: true, Synthetic: true}
}

// IndexIdentity renames a node for a synthetic array/slice child, named by
// its bare decimal index (e.g. "0", not "[0]").
func IndexIdentity(i uint64) Identity {
	return Identity{Name: fmt.Sprintf("%d", i), HasName: true, Synthetic: true}
}

// KVIdentity names a synthetic map key/value tuple child "kv".
func KVIdentity() Identity {
	return Identity{Name: "kv", HasName: true, Synthetic: true}
}

// ScalarKind is the tag for ScalarValue's payload.
type ScalarKind int

const (
	ScalarI8 ScalarKind = iota
	ScalarI16
	ScalarI32
	ScalarI64
	ScalarI128
	ScalarIsize
	ScalarU8
	ScalarU16
	ScalarU32
	ScalarU64
	ScalarU128
	ScalarUsize
	ScalarF32
	ScalarF64
	ScalarBool
	ScalarChar
	ScalarUnit
)

// ScalarValue is the tagged union of every primitive value a Scalar node
// can carry. Exactly the fields relevant to Kind are meaningful.
type ScalarValue struct {
	Kind ScalarKind

	// I64/U64 hold the value for every integer kind except the 128-bit
	// ones, sign- or zero-extended as appropriate.
	I64 int64
	U64 uint64

	// Wide128 holds the raw two's-complement bytes (big-endian) for i128
	// and u128, since Go has no native 128-bit integer type.
	Wide128 [16]byte

	F64  float64 // holds both f32 (widened) and f64
	Bool bool
	Char rune
}

// BigInt renders a 128-bit scalar as an arbitrary-precision integer.
func (s ScalarValue) BigInt() *big.Int {
	v := new(big.Int).SetBytes(s.Wide128[:])
	if s.Kind == ScalarI128 && s.Wide128[0]&0x80 != 0 {
		// two's complement: v - 2^128
		mod := new(big.Int).Lsh(big.NewInt(1), 128)
		v.Sub(v, mod)
	}
	return v
}

// TryAsNumber promotes any signed or unsigned integer scalar to int64
// ("try_as_number" in the reification spec). Floats, bools, chars, and
// unit return (0, false). 128-bit values are truncated to their low 64
// bits after the big.Int conversion below would be lossy for huge values,
// but match the reference's "truncating promotion" semantics.
func (s ScalarValue) TryAsNumber() (int64, bool) {
	switch s.Kind {
	case ScalarI8, ScalarI16, ScalarI32, ScalarI64, ScalarIsize:
		return s.I64, true
	case ScalarU8, ScalarU16, ScalarU32, ScalarU64, ScalarUsize:
		return int64(s.U64), true
	case ScalarI128, ScalarU128:
		return s.BigInt().Int64(), true
	default:
		return 0, false
	}
}

// IR is the Variable IR node. Fields are grouped by which Kind they serve;
// unused groups for a given Kind are left zero.
type IR struct {
	Kind     Kind
	Identity Identity
	TypeName string

	// KindScalar
	Scalar    ScalarValue
	HasScalar bool // false models "value absent" (§7 missing-data policy)

	// KindStruct (and Union, parsed as a Structure per §4.4)
	Members    []*IR
	TypeParams map[string]*typegraph.TypeID
	// Namespaces is the declaring type's namespace path, used by the
	// Specialization Layer's "namespace contains" recognition test
	// (§4.5). It is the type's own namespace, not this variable
	// instance's Identity.NamespacePath.
	Namespaces []string

	// KindArray
	Items    []*IR
	HasItems bool // false when bounds were unknown (§3 data model)

	// KindCEnum
	EnumValue    string
	HasEnumValue bool

	// KindTaggedEnum
	TaggedValue *IR // nil means absent (discriminant unreadable and no default variant)

	// KindPointer
	Address    uint64
	HasAddress bool
	TargetType typegraph.TypeID
	HasTarget  bool

	// KindSpecialized
	Variant  SpecializedVariant
	Original *IR // always populated with the raw Struct IR (§3 invariant I3), even on failed specialization

	// Rendered is the semantic projection produced by a successful
	// specialization: the synthetic struct described in the reification
	// spec's §4.5 algorithms (Vector's {buf, cap}, HashMap/HashSet's kv
	// list, Tls's {inner_value}, Cell/RefCell's {inner}; RefCell's borrow
	// flag is carried in BorrowState/BorrowShareCount instead). For
	// String/Str, StringValue below is used directly instead, since the
	// spec's own example ("Specialized(String{ value: "hello" })")
	// treats the decoded string as the value rather than a further
	// struct. Rendered is nil when Variant == SpecializedNone.
	Rendered *IR

	StringValue    string
	HasStringValue bool

	// BorrowState is meaningful only for SpecializedRefCell.
	BorrowState     RefCellBorrowState
	BorrowShareCount int
}

// SpecializedVariant names which standard container a Specialized node
// represents, or SpecializedNone if recognition matched the shape but the
// extraction contract failed.
type SpecializedVariant int

const (
	SpecializedNone SpecializedVariant = iota
	SpecializedVector
	SpecializedVecDeque
	SpecializedString
	SpecializedStr
	SpecializedTls
	SpecializedHashMap
	SpecializedHashSet
	SpecializedBTreeMap
	SpecializedBTreeSet
	SpecializedCell
	SpecializedRefCell
)

func (v SpecializedVariant) String() string {
	switch v {
	case SpecializedVector:
		return "Vector"
	case SpecializedVecDeque:
		return "VecDeque"
	case SpecializedString:
		return "String"
	case SpecializedStr:
		return "Str"
	case SpecializedTls:
		return "Tls"
	case SpecializedHashMap:
		return "HashMap"
	case SpecializedHashSet:
		return "HashSet"
	case SpecializedBTreeMap:
		return "BTreeMap"
	case SpecializedBTreeSet:
		return "BTreeSet"
	case SpecializedCell:
		return "Cell"
	case SpecializedRefCell:
		return "RefCell"
	default:
		return "None"
	}
}

// RefCellBorrowState is the three-state borrow flag the original
// implementation surfaces for RefCell (see SPEC_FULL.md's supplemented
// features): the spec table only says "unwrap inner, borrow flag".
type RefCellBorrowState int

const (
	BorrowUnborrowed RefCellBorrowState = iota
	BorrowShared                        // count held in IR.BorrowShareCount
	BorrowExclusive
)
