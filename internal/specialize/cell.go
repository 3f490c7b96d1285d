package specialize

import (
	"github.com/joshuapare/varcore/internal/locator"
	"github.com/joshuapare/varcore/internal/parser"
	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
	"github.com/joshuapare/varcore/pkg/varerr"
)

// extractCell unwraps Cell<T>'s single "value" field. Cell performs no
// borrow tracking at all, unlike RefCell, so there is nothing else to
// surface (supplemented feature: see SPEC_FULL.md).
func extractCell(p *parser.Parser, ctx *typegraph.EvaluationContext, raw *variable.IR) (*variable.IR, error) {
	inner := locator.FieldByName(raw, "value")
	if inner == nil {
		return nil, varerr.FieldNotFound("value")
	}
	return &variable.IR{Rendered: synthStruct(named("inner", inner))}, nil
}

// extractRefCell unwraps RefCell<T>'s "value" and interprets its "borrow"
// flag per the standard library's own encoding: 0 means unborrowed,
// positive N means N live shared borrows, negative means one live
// exclusive borrow. This three-state borrow flag is a supplemented feature
// not spelled out by the distilled container table (see SPEC_FULL.md).
func extractRefCell(p *parser.Parser, ctx *typegraph.EvaluationContext, raw *variable.IR) (*variable.IR, error) {
	inner := locator.FieldByName(raw, "value")
	if inner == nil {
		return nil, varerr.FieldNotFound("value")
	}
	borrow, err := locator.AssumeScalarNumber(raw, "borrow")
	if err != nil {
		return nil, err
	}

	ir := &variable.IR{Rendered: synthStruct(named("inner", inner))}
	switch {
	case borrow == 0:
		ir.BorrowState = variable.BorrowUnborrowed
	case borrow > 0:
		ir.BorrowState = variable.BorrowShared
		ir.BorrowShareCount = int(borrow)
	default:
		ir.BorrowState = variable.BorrowExclusive
	}
	return ir, nil
}
