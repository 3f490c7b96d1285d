// Package specialize implements the Specialization Layer (§4.5): it
// inspects a freshly-parsed raw struct and, if its declared name and
// namespace path match one of the recognized standard containers,
// re-projects it into a richer Specialized IR — reading additional
// inferior memory through the Memory Gateway as needed.
//
// Recognition rules fire in declaration order; the first whose name test
// AND namespace-containment test both hold is the match. A match that
// fails its extraction contract downgrades to Specialized{variant: None,
// original: raw} rather than falling through to try the next rule.
package specialize

import (
	"strings"

	"github.com/joshuapare/varcore/internal/parser"
	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
)

// Layer is the Specialization Layer. It implements parser.Specializer so
// the Generic Parser can call back into it without this package and
// parser importing each other both ways.
type Layer struct{}

// New returns the default Specialization Layer, with every rule from §4.5
// wired in its documented order.
func New() *Layer { return &Layer{} }

type rule struct {
	variant variable.SpecializedVariant
	match   func(name string, namespaces []string) bool
	extract func(p *parser.Parser, ctx *typegraph.EvaluationContext, raw *variable.IR) (*variable.IR, error)
}

func hasPrefix(prefix string) func(string, []string) bool {
	return func(name string, _ []string) bool { return strings.HasPrefix(name, prefix) }
}

func exactly(exact string) func(string, []string) bool {
	return func(name string, _ []string) bool { return name == exact }
}

func withNamespace(path []string, nameTest func(string, []string) bool) func(string, []string) bool {
	return func(name string, namespaces []string) bool {
		if nameTest != nil && !nameTest(name, namespaces) {
			return false
		}
		return namespaceContains(namespaces, path)
	}
}

// namespaceContains reports whether needle appears as a contiguous
// subsequence of haystack.
func namespaceContains(haystack, needle []string) bool {
	if len(needle) == 0 {
		return true
	}
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		ok := true
		for j, want := range needle {
			if haystack[i+j] != want {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (l *Layer) rules() []rule {
	return []rule{
		{variable.SpecializedStr, exactly("&str"), extractStr},
		{variable.SpecializedString, exactly("String"), extractString},
		{variable.SpecializedVector, withNamespace([]string{"vec"}, hasPrefix("Vec")), extractVector},
		{variable.SpecializedVecDeque, withNamespace([]string{"collections", "vec_deque"}, hasPrefix("VecDeque")), extractVecDeque},
		{variable.SpecializedTls, withNamespace([]string{"std", "thread", "local", "fast"}, nil), extractTls},
		{variable.SpecializedHashMap, withNamespace([]string{"collections", "hash", "map"}, hasPrefix("HashMap")), extractHashMap},
		{variable.SpecializedHashSet, withNamespace([]string{"collections", "hash", "set"}, hasPrefix("HashSet")), extractHashSet},
		{variable.SpecializedBTreeMap, withNamespace([]string{"collections", "btree", "map"}, hasPrefix("BTreeMap")), extractBTreeMap},
		{variable.SpecializedBTreeSet, withNamespace([]string{"collections", "btree", "set"}, hasPrefix("BTreeSet")), extractBTreeSet},
		{variable.SpecializedCell, withNamespace([]string{"cell"}, hasPrefix("Cell")), extractCell},
		{variable.SpecializedRefCell, withNamespace([]string{"cell"}, hasPrefix("RefCell")), extractRefCell},
	}
}

// Specialize implements parser.Specializer.
func (l *Layer) Specialize(p *parser.Parser, ctx *typegraph.EvaluationContext, raw *variable.IR) *variable.IR {
	if raw.Kind != variable.KindStruct {
		return nil
	}
	for _, r := range l.rules() {
		if !r.match(raw.TypeName, raw.Namespaces) {
			continue
		}
		sp, err := r.extract(p, ctx, raw)
		if err != nil {
			p.Diagnostic("specialize: %s recognition matched %q but extraction failed: %v", r.variant, raw.TypeName, err)
			return &variable.IR{
				Kind:     variable.KindSpecialized,
				Identity: raw.Identity,
				TypeName: raw.TypeName,
				Variant:  variable.SpecializedNone,
				Original: raw,
			}
		}
		sp.Kind = variable.KindSpecialized
		if !sp.Identity.HasName {
			sp.Identity = raw.Identity
		}
		sp.TypeName = raw.TypeName
		sp.Variant = r.variant
		sp.Original = raw
		return sp
	}
	return nil
}
