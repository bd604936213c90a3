// Package paths enumerates the acyclic control flow paths that lead from a
// method's entry to a target statement.
package paths

import (
	"strings"

	"github.com/mjp2ff/aid-sub000/internal/analysis/cfg"
	"github.com/mjp2ff/aid-sub000/internal/tree"
)

// DefaultLimit caps the number of paths collected for one target.
const DefaultLimit = 100

// Element is one step of a path: either a statement, or the condition of the
// branch header preceding it together with the polarity the path takes.
//
// Switch headers record a condition element whose Node is the case label
// the path enters, or the switch itself when the path leaves it because no
// label matched.
type Element struct {
	Node    tree.NodeID
	Cond    bool
	Negated bool
	// Unguarded marks a statement with several successors whose choice on
	// this path is not described by any condition element, such as a
	// for-each header or a call that may raise.
	Unguarded bool
}

// Path is an ordered sequence of elements ending at the target statement. No
// statement appears twice.
type Path []Element

// Set is the result of enumerating paths to one target.
type Set struct {
	Target tree.NodeID
	Paths  []Path
	// Truncated is set when the path cap was hit before a fixpoint was
	// reached. The paths are then incomplete.
	Truncated bool
}

// ToStatement enumerates the paths from the entry of g to target by
// extending candidate paths backwards, one predecessor at a time, until no
// path changes or the number of paths would exceed limit. A limit <= 0 means
// DefaultLimit.
//
// Predecessors already on the path and throw statements are not followed.
// A path whose first statement follows the virtual entry is kept as it is,
// next to its extensions through the other predecessors. When the
// predecessor is an if, for, while or do-while header, its condition is
// recorded before it: as is when the branch taken contains the statement
// that follows, negated otherwise. Exception edges record no condition.
func ToStatement(g *cfg.CFG, target tree.NodeID, limit int) Set {
	if limit <= 0 {
		limit = DefaultLimit
	}
	t := g.Tree()
	set := Set{Target: target}

	type candidate struct {
		path Path
		done bool
	}
	current := []candidate{{path: Path{{Node: target}}}}

	for {
		changed := false
		next := make([]candidate, 0, len(current))
		for _, c := range current {
			if c.done {
				next = append(next, c)
				continue
			}
			first := c.path[0].Node
			extended, fromEntry := false, false
			for _, p := range g.Preds(first) {
				if p == g.Entry {
					fromEntry = true
					continue
				}
				if t.Kind(p) == tree.KindThrow || c.path.Has(p) {
					continue
				}
				next = append(next, candidate{path: c.path.prepend(g, p, first)})
				extended = true
			}
			if extended {
				changed = true
			}
			if !extended || fromEntry {
				next = append(next, candidate{path: c.path, done: true})
			}
		}
		if len(next) > limit {
			set.Truncated = true
			break
		}
		current = next
		if !changed {
			break
		}
	}

	set.Paths = make([]Path, len(current))
	for i, c := range current {
		set.Paths[i] = c.path
	}
	return set
}

// prepend returns a copy of p extended by the predecessor pred of its first
// statement first.
func (p Path) prepend(g *cfg.CFG, pred, first tree.NodeID) Path {
	out := make(Path, 0, len(p)+2)
	cond, ok := branchCondition(g, pred, first)
	out = append(out, Element{Node: pred, Unguarded: !ok && len(g.Succs(pred)) > 1})
	if ok {
		out = append(out, cond)
	}
	return append(out, p...)
}

// branchCondition returns the condition element recorded when control goes
// from the header to first.
func branchCondition(g *cfg.CFG, header, first tree.NodeID) (Element, bool) {
	if g.Raises(header, first) {
		return Element{}, false
	}
	t := g.Tree()
	n := t.Node(header)
	var taken bool
	switch n.Kind {
	case tree.KindIf:
		taken = t.Contains(n.Body, first)
	case tree.KindFor:
		taken = t.Contains(n.Body, first)
		for _, u := range n.Update {
			taken = taken || t.Contains(u, first)
		}
	case tree.KindWhile, tree.KindDoWhile:
		taken = t.Contains(n.Body, first)
	case tree.KindSwitch:
		if t.Kind(first) == tree.KindCase && t.Parent(first) == header {
			return Element{Node: first, Cond: true}, true
		}
		return Element{Node: header, Cond: true}, true
	default:
		return Element{}, false
	}
	if n.Cond == tree.NoNode {
		return Element{}, false
	}
	return Element{Node: n.Cond, Cond: true, Negated: !taken}, true
}

// Unguarded reports whether p passes a branch without recording the choice
// it makes there.
func (p Path) Unguarded() bool {
	for _, e := range p {
		if e.Unguarded {
			return true
		}
	}
	return false
}

// Has reports whether n is one of the statements of p.
func (p Path) Has(n tree.NodeID) bool {
	for _, e := range p {
		if !e.Cond && e.Node == n {
			return true
		}
	}
	return false
}

// Target returns the last statement of p.
func (p Path) Target() tree.NodeID {
	if len(p) == 0 {
		return tree.NoNode
	}
	return p[len(p)-1].Node
}

// Statements returns the statement elements of p in order.
func (p Path) Statements() []tree.NodeID {
	var out []tree.NodeID
	for _, e := range p {
		if !e.Cond {
			out = append(out, e.Node)
		}
	}
	return out
}

// Format renders p for display, one element per arrow.
func (p Path) Format(t *tree.Tree) string {
	parts := make([]string, len(p))
	for i, e := range p {
		switch {
		case e.Cond && e.Negated:
			parts[i] = "[!(" + conditionLabel(t, e.Node) + ")]"
		case e.Cond:
			parts[i] = "[" + conditionLabel(t, e.Node) + "]"
		default:
			parts[i] = t.Describe(e.Node)
		}
	}
	return strings.Join(parts, " -> ")
}

func conditionLabel(t *tree.Tree, id tree.NodeID) string {
	n := t.Node(id)
	switch n.Kind {
	case tree.KindCase:
		sw := t.Node(t.Parent(id))
		if n.Default {
			return t.Label(sw.X) + " matches no case"
		}
		return t.Label(sw.X) + " == " + t.Label(n.X)
	case tree.KindSwitch:
		return t.Label(n.X) + " matches no case"
	}
	return t.Label(id)
}

// FailurePoints returns the throw statements reachable from the entry of g,
// in source order.
func FailurePoints(g *cfg.CFG) []tree.NodeID {
	t := g.Tree()
	reach := g.Reachable()
	var out []tree.NodeID
	for n := range reach {
		if t.Kind(n) == tree.KindThrow {
			out = append(out, n)
		}
	}
	t.Sort(out)
	return out
}

// ToFailures enumerates the paths to every failure point of g.
func ToFailures(g *cfg.CFG, limit int) []Set {
	points := FailurePoints(g)
	sets := make([]Set, 0, len(points))
	for _, target := range points {
		sets = append(sets, ToStatement(g, target, limit))
	}
	return sets
}
