// Package varerr defines the stable error taxonomy shared by every stage of
// the variable reification core. Callers branch on Kind rather than on
// string matching. The constructors below return a fresh *Error on every
// call, so a wrapped error is recognized with errors.As and a Kind check,
// not with errors.Is against another constructor call.
package varerr

import "fmt"

// Kind classifies a reification failure so callers (and the Specialization
// Layer's downgrade-to-absent policy) can branch on intent.
type Kind int

const (
	// KindMemory means a cross-process read failed (permission, bad
	// address, or short read).
	KindMemory Kind = iota
	// KindFieldNotFound means a BFS landmark lookup found no matching
	// descendant.
	KindFieldNotFound
	// KindFieldNotANumber means a landmark field existed but was not a
	// numeric scalar.
	KindFieldNotANumber
	// KindIncompleteInterp means a specialization contract could not be
	// satisfied (e.g. a Tls inner value was not an Option).
	KindIncompleteInterp
	// KindUnsupportedEncoding means a scalar encoding/size pair is not in
	// the decoder's table.
	KindUnsupportedEncoding
	// KindUnknownTypeSize means the type graph could not compute a size
	// needed for an element-chunked read.
	KindUnknownTypeSize
)

func (k Kind) String() string {
	switch k {
	case KindMemory:
		return "memory"
	case KindFieldNotFound:
		return "field_not_found"
	case KindFieldNotANumber:
		return "field_not_a_number"
	case KindIncompleteInterp:
		return "incomplete_interp"
	case KindUnsupportedEncoding:
		return "unsupported_encoding"
	case KindUnknownTypeSize:
		return "unknown_type_size"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a *Error of the given kind, preserving cause for errors.Is/As.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// FieldNotFound reports a missing BFS landmark.
func FieldNotFound(name string) *Error {
	return New(KindFieldNotFound, "field %q not found", name)
}

// FieldNotANumber reports a landmark of the wrong kind.
func FieldNotANumber(name string) *Error {
	return New(KindFieldNotANumber, "field %q is not a number", name)
}

// IncompleteInterp reports a failed specialization contract.
func IncompleteInterp(what string) *Error {
	return New(KindIncompleteInterp, "incomplete interpretation: %s", what)
}

// UnsupportedEncoding reports a decoder table miss.
func UnsupportedEncoding(encoding string, size int) *Error {
	return New(KindUnsupportedEncoding, "unsupported scalar encoding %s/%d bytes", encoding, size)
}

// UnknownTypeSize reports a type graph size lookup failure.
func UnknownTypeSize(typeName string) *Error {
	return New(KindUnknownTypeSize, "unknown size for type %q", typeName)
}
