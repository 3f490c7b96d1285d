package specialize

import (
	"unicode/utf8"

	"github.com/joshuapare/varcore/internal/locator"
	"github.com/joshuapare/varcore/internal/memgw"
	"github.com/joshuapare/varcore/internal/parser"
	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
	"github.com/joshuapare/varcore/pkg/varerr"
)

// lenAndPointer locates the length scalar and data pointer landmark fields
// shared by &str and String (§4.5: "locate by BFS a scalar field
// length/len and a pointer field data_ptr/pointer").
func lenAndPointer(raw *variable.IR) (length uint64, ptr *variable.IR, err error) {
	lenNode := locator.FieldByAnyName(raw, "length", "len")
	if lenNode == nil {
		return 0, nil, varerr.FieldNotFound("length")
	}
	if lenNode.Kind != variable.KindScalar || !lenNode.HasScalar {
		return 0, nil, varerr.FieldNotANumber("length")
	}
	n, ok := lenNode.Scalar.TryAsNumber()
	if !ok || n < 0 {
		return 0, nil, varerr.FieldNotANumber("length")
	}
	ptrNode := locator.FieldByAnyName(raw, "data_ptr", "pointer")
	if ptrNode == nil {
		return 0, nil, varerr.FieldNotFound("pointer")
	}
	if ptrNode.Kind != variable.KindPointer || !ptrNode.HasAddress {
		return 0, nil, varerr.IncompleteInterp("pointer field has no address")
	}
	return uint64(n), ptrNode, nil
}

func extractStringLike(p *parser.Parser, raw *variable.IR) (*variable.IR, error) {
	length, ptr, err := lenAndPointer(raw)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return &variable.IR{StringValue: "", HasStringValue: true}, nil
	}
	if p.Gateway == nil {
		return nil, varerr.New(varerr.KindMemory, "no memory gateway configured")
	}
	b, err := p.Gateway.Read(p.PID, memgw.Addr(ptr.Address), int(length))
	if err != nil {
		return nil, varerr.Wrap(varerr.KindMemory, err, "reading string bytes")
	}
	if !utf8.Valid(b) {
		return nil, varerr.New(varerr.KindIncompleteInterp, "string bytes are not valid UTF-8")
	}
	return &variable.IR{StringValue: string(b), HasStringValue: true}, nil
}

func extractStr(p *parser.Parser, _ *typegraph.EvaluationContext, raw *variable.IR) (*variable.IR, error) {
	return extractStringLike(p, raw)
}

func extractString(p *parser.Parser, _ *typegraph.EvaluationContext, raw *variable.IR) (*variable.IR, error) {
	return extractStringLike(p, raw)
}
