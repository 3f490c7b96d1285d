package variable

import (
	"fmt"
	"strconv"
	"strings"
)

// Render is the read-only, side-effect-free contract the UI consumes
// (§4.8): a display name, a display type, a display value, and the child
// IRs for expandable nodes. It never mutates the tree it walks.
type Render struct {
	ir *IR
}

// NewRender wraps an IR node for display.
func NewRender(ir *IR) Render { return Render{ir: ir} }

// Name returns the node's display name, falling back to its type name for
// unnamed top-level nodes.
func (r Render) Name() string {
	if r.ir.Identity.HasName {
		return r.ir.Identity.Name
	}
	return r.ir.TypeName
}

// Type returns the display type name.
func (r Render) Type() string {
	if r.ir.TypeName != "" {
		return r.ir.TypeName
	}
	return r.ir.Kind.String()
}

// Value renders the node's value as text. Absent values render as "?" or a
// type-specific placeholder, per §7's user-visible-behavior rule: the UI
// must never need to special-case a missing value to avoid crashing.
func (r Render) Value() string {
	ir := r.ir
	switch ir.Kind {
	case KindScalar:
		if !ir.HasScalar {
			return "?"
		}
		return renderScalar(ir.Scalar)
	case KindStruct:
		return "{...}"
	case KindArray:
		if !ir.HasItems {
			return "[? ]"
		}
		return fmt.Sprintf("[%d items]", len(ir.Items))
	case KindCEnum:
		if !ir.HasEnumValue {
			return "?"
		}
		return ir.EnumValue
	case KindTaggedEnum:
		if ir.TaggedValue == nil {
			return "?"
		}
		return NewRender(ir.TaggedValue).Value()
	case KindPointer:
		if !ir.HasAddress {
			return "?"
		}
		return "0x" + strconv.FormatUint(ir.Address, 16)
	case KindSpecialized:
		return renderSpecialized(ir)
	default:
		return "?"
	}
}

func renderScalar(s ScalarValue) string {
	switch s.Kind {
	case ScalarBool:
		return strconv.FormatBool(s.Bool)
	case ScalarChar:
		return strconv.QuoteRune(s.Char)
	case ScalarF32, ScalarF64:
		return strconv.FormatFloat(s.F64, 'g', -1, 64)
	case ScalarUnit:
		return "()"
	case ScalarI128, ScalarU128:
		return s.BigInt().String()
	case ScalarU8, ScalarU16, ScalarU32, ScalarU64, ScalarUsize:
		return strconv.FormatUint(s.U64, 10)
	default:
		return strconv.FormatInt(s.I64, 10)
	}
}

func renderSpecialized(ir *IR) string {
	switch ir.Variant {
	case SpecializedString, SpecializedStr:
		if !ir.HasStringValue {
			return "?"
		}
		return strconv.Quote(ir.StringValue)
	case SpecializedNone:
		if ir.Original != nil {
			return NewRender(ir.Original).Value()
		}
		return "?"
	case SpecializedRefCell:
		var b strings.Builder
		switch ir.BorrowState {
		case BorrowExclusive:
			b.WriteString("<borrowed mutably>")
		case BorrowShared:
			fmt.Fprintf(&b, "<borrowed x%d>", ir.BorrowShareCount)
		default:
			if ir.Rendered != nil {
				b.WriteString("{...}")
			} else {
				b.WriteString("?")
			}
		}
		return b.String()
	default:
		if ir.Rendered != nil {
			return "{...}"
		}
		return "?"
	}
}

// Children enumerates the node's structural children for an expandable
// display. It mirrors, but is independent from, the BFS Locator's
// expansion rules: pointers never expand here either (their target was
// never materialized at parse time).
func (r Render) Children() []*IR {
	ir := r.ir
	switch ir.Kind {
	case KindStruct:
		return ir.Members
	case KindArray:
		return ir.Items
	case KindTaggedEnum:
		if ir.TaggedValue != nil {
			return []*IR{ir.TaggedValue}
		}
		return nil
	case KindSpecialized:
		if ir.Rendered != nil {
			return NewRender(ir.Rendered).Children()
		}
		return nil
	default:
		return nil
	}
}
