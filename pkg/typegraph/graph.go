// Package typegraph models the DWARF-described type graph handed to the
// core by the (external) loader, and the read-only "Type-Graph View"
// queries the rest of the core runs against it.
//
// The graph is a directed, possibly cyclic structure: nodes refer to each
// other only by TypeID, never by direct ownership, so a recursive type
// (a linked list node pointing at itself, a tree node pointing at its own
// type) never produces a Go-level reference cycle. Traversal code is
// responsible for not walking through pointers forever (pointers are
// terminal at parse time; see the Generic Parser).
package typegraph

// TypeID is a stable, opaque handle into a Graph.
type TypeID uint64

// EvaluationContext carries what a location expression needs to resolve to
// an address: the inferior's pid, the current frame base / canonical frame
// address, and (for register-valued locations) the register file. It is
// opaque to most of the core; only location expressions and the top-level
// variable-address resolution (outside this module's scope) inspect it.
type EvaluationContext struct {
	PID          int32
	FrameBase    uint64
	CFA          uint64
	Registers    map[string]uint64
}

// Location resolves a member's address relative to its parent aggregate's
// address. Most struct members carry a ConstOffset; synthetic members
// introduced by the Specialization Layer may carry other evaluators.
type Location interface {
	// Evaluate returns the byte offset of this member from the start of
	// its parent's storage.
	Evaluate(ctx *EvaluationContext) (uint64, error)
}

// ConstOffset is the common case: DW_AT_data_member_location as a plain
// constant. It ignores the EvaluationContext entirely.
type ConstOffset uint64

func (o ConstOffset) Evaluate(*EvaluationContext) (uint64, error) { return uint64(o), nil }

// Encoding is a DWARF base-type encoding (DW_ATE_*), restricted to the
// subset the Scalar Decoder understands.
type Encoding int

const (
	EncodingSigned Encoding = iota
	EncodingUnsigned
	EncodingFloat
	EncodingSignedChar
	EncodingUnsignedChar
	EncodingAddress
	EncodingBoolean
	EncodingUTF
	// EncodingASCII is the `ascii` row of the Scalar Decoder's decision
	// table: a 4-byte code point, or a single byte decoded through a
	// legacy (non-UTF-8) code page rather than plain 7-bit ASCII.
	EncodingASCII
)

// Node is the interface every type-graph node variant implements. It exists
// purely as a closed sum type marker; callers type-switch on the concrete
// variant (Scalar, Structure, Array, Union, Pointer, CStyleEnum,
// TaggedEnum) rather than relying on dynamic dispatch, per the teacher's
// tagged-variant style.
type Node interface {
	node()
}

// Scalar is a base type: an integer, float, bool, or char of known
// encoding and byte size.
type Scalar struct {
	Encoding Encoding
	ByteSize uint64
	Name     string
}

func (Scalar) node() {}

// StructureMember is one field of a Structure (or Union, which is modeled
// as a Structure whose members all share offset 0).
type StructureMember struct {
	Name     string
	TypeRef  TypeID // type_id; meaningful only when HasType is true
	HasType  bool   // false when the type graph's type_ref for this member is missing (§9 Open Question: skip only the member)
	Location Location
}

// Structure is a named aggregate with members and optional generic type
// parameters (e.g. Vec<T>'s T).
type Structure struct {
	Name        string
	Namespaces  []string // namespace path elements, outermost first
	Members     []StructureMember
	TypeParams  map[string]TypeID // generic parameter name -> bound type, when known
	ByteSize    uint64
	HasByteSize bool
}

func (Structure) node() {}

// Array is a fixed- or dynamically-bounded sequence of ElementType.
type Array struct {
	ElementType TypeID
	Bounds      BoundsExpr
}

func (Array) node() {}

// BoundsExpr evaluates to a half-open [Start, End) element-index range. In
// the common case both ends are constants known from the DWARF subrange.
type BoundsExpr interface {
	Evaluate(ctx *EvaluationContext) (start, end uint64, ok bool)
}

// ConstBounds is the common case: a compile-time-known [Start, End) range.
type ConstBounds struct {
	Start, End uint64
}

func (b ConstBounds) Evaluate(*EvaluationContext) (uint64, uint64, bool) { return b.Start, b.End, true }

// UnknownBounds models an array whose length cannot be determined
// statically (e.g. a flexible array member); Array.items is then absent.
type UnknownBounds struct{}

func (UnknownBounds) Evaluate(*EvaluationContext) (uint64, uint64, bool) { return 0, 0, false }

// Union is modeled distinctly from Structure only so the Generic Parser can
// log which source kind it saw; reification treats it identically to a
// Structure with empty TypeParams (§4.4).
type Union struct {
	Name    string
	Members []StructureMember
}

func (Union) node() {}

// Pointer is a typed pointer; at parse time only its address is captured,
// never its target's bytes (§3 invariant I5).
type Pointer struct {
	Name       string
	TargetType TypeID
	ByteSize   uint64 // target machine's word size
}

func (Pointer) node() {}

// CStyleEnum is a C-like enum: an integer discriminant mapped to a name.
type CStyleEnum struct {
	Name        string
	DiscrType   TypeID
	Enumerators map[int64]string
}

func (CStyleEnum) node() {}

// TaggedEnum is a Rust-style enum: a discriminant member selects one of
// several differently-shaped variant members.
type TaggedEnum struct {
	Name        string
	DiscrMember StructureMember
	// Enumerators maps a discriminant value to the member that holds that
	// variant's payload. A nil key (represented by HasNoneVariant) is the
	// default ("None"-keyed) variant used when the discriminant doesn't
	// match any entry, or is itself unreadable.
	Enumerators     map[int64]StructureMember
	NoneVariant     StructureMember
	HasNoneVariant  bool
}

func (TaggedEnum) node() {}

// Graph is the id -> node map. It never holds Go-level pointers between
// nodes, only TypeIDs, so cyclic type declarations (a node referencing its
// own TypeID through a member or element type) need no special handling.
type Graph struct {
	nodes map[TypeID]Node
	names map[TypeID]string
}

// NewGraph builds an empty graph; callers (the loader, or tests) populate
// it with Put.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[TypeID]Node), names: make(map[TypeID]string)}
}

// Put registers a node under id, along with its canonical display name.
func (g *Graph) Put(id TypeID, n Node, name string) {
	g.nodes[id] = n
	g.names[id] = name
}

// Node looks up a node by id.
func (g *Graph) Node(id TypeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}
