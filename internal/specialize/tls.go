package specialize

import (
	"github.com/joshuapare/varcore/internal/locator"
	"github.com/joshuapare/varcore/internal/parser"
	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
)

// deriveTlsName recovers the thread-local's source name from its mangled
// namespace path. rustc lowers `thread_local! { static FOO: ... }` to a
// LocalKey whose containing module path ends in a synthetic "__getit"
// segment immediately following the static's own name; the segment before
// it is what a user actually wrote (a supplemented feature: see
// SPEC_FULL.md).
func deriveTlsName(namespaces []string) (string, bool) {
	for i, seg := range namespaces {
		if seg == "__getit" && i > 0 {
			return namespaces[i-1], true
		}
	}
	return "", false
}

// extractTls unwraps a std::thread::LocalKey's current-thread value. The
// inner storage is an Option<T>: None means the value hasn't been
// initialized on this thread yet, which this core surfaces as an absent
// node rather than an error.
func extractTls(p *parser.Parser, ctx *typegraph.EvaluationContext, raw *variable.IR) (*variable.IR, error) {
	inner, err := locator.AssumeRustEnum(raw, "inner")
	if err != nil {
		return nil, err
	}

	ir := &variable.IR{}
	if name, ok := deriveTlsName(raw.Namespaces); ok {
		ir.Identity = variable.Identity{Name: name, HasName: true}
	}
	if inner.TaggedValue == nil || inner.TaggedValue.Identity.Name != "Some" {
		return ir, nil
	}
	ir.Rendered = synthStruct(named("inner_value", inner.TaggedValue))
	return ir, nil
}
