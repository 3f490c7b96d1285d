package specialize

import (
	"github.com/joshuapare/varcore/internal/memgw"
	"github.com/joshuapare/varcore/internal/parser"
	"github.com/joshuapare/varcore/pkg/typegraph"
)

// newTestParser builds a Parser with the Specialization Layer wired in,
// matching how the Generic Parser is actually constructed in production
// (internal/fixture, which cmd/varctl and cmd/varexplore build through,
// calls specialize.New()).
func newTestParser(g *typegraph.Graph, gw memgw.Gateway, pid memgw.PID) *parser.Parser {
	return parser.New(g, gw, pid, New())
}
