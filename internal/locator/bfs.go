// Package locator implements the BFS Locator (§4.6): a breadth-first
// search over an already-reified IR tree, used to find structural
// landmarks ("length", "pointer", "inner", ...) that specialization and
// the Selection Engine depend on.
package locator

import (
	"github.com/joshuapare/varcore/pkg/variable"
)

// children returns root's structural children for BFS expansion purposes.
// Pointers never expand (parse-time pointers have no materialized
// target). Specialized nodes expand through Original.Members so landmark
// fields stay reachable during and after specialization (§4.6).
func children(n *variable.IR) []*variable.IR {
	switch n.Kind {
	case variable.KindStruct:
		return n.Members
	case variable.KindArray:
		return n.Items
	case variable.KindTaggedEnum:
		if n.TaggedValue != nil {
			return []*variable.IR{n.TaggedValue}
		}
		return nil
	case variable.KindSpecialized:
		if n.Original != nil {
			return n.Original.Members
		}
		return nil
	default:
		return nil
	}
}

// Visit is called once per visited node, in BFS order (parents before any
// descendant; left-to-right by insertion within a level). Returning false
// stops the walk.
type Visit func(n *variable.IR) bool

// BFS walks root breadth-first, calling visit for every node including
// root itself.
func BFS(root *variable.IR, visit Visit) {
	if root == nil {
		return
	}
	queue := []*variable.IR{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if !visit(n) {
			return
		}
		queue = append(queue, children(n)...)
	}
}

// Find returns the first node (BFS order) for which pred returns true.
func Find(root *variable.IR, pred func(*variable.IR) bool) *variable.IR {
	var found *variable.IR
	BFS(root, func(n *variable.IR) bool {
		if pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// byName matches a node whose identity name is set and equals name.
func byName(n *variable.IR, name string) bool {
	if n.Identity.HasName && n.Identity.Name == name {
		return true
	}
	return false
}

// FieldByName returns the first descendant (BFS order, root included)
// whose identity name equals name.
func FieldByName(root *variable.IR, name string) *variable.IR {
	return Find(root, func(n *variable.IR) bool { return byName(n, name) })
}

// FieldByAnyName returns the first descendant whose name matches any of
// names, preserving BFS order across all candidates (not one full pass
// per name) — this is what the Str/String specialization's
// "length/len" and "data_ptr/pointer" alternates need.
func FieldByAnyName(root *variable.IR, names ...string) *variable.IR {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return Find(root, func(n *variable.IR) bool {
		if !n.Identity.HasName {
			return false
		}
		_, ok := set[n.Identity.Name]
		return ok
	})
}
