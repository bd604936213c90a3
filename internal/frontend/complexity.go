package frontend

import "github.com/mjp2ff/aid-sub000/internal/tree"

// Complexity returns the cyclomatic complexity of a method tree, counted the
// way gocyclo counts Go functions: one plus the number of branch points
// (if, loops, non-default cases, catch clauses, ?:, && and ||).
func Complexity(t *tree.Tree) int {
	c := 1
	if !t.Valid(t.Root) {
		return c
	}
	t.Inspect(t.Root, func(id tree.NodeID) bool {
		n := t.Node(id)
		switch n.Kind {
		case tree.KindIf, tree.KindWhile, tree.KindDoWhile, tree.KindFor, tree.KindForEach,
			tree.KindCatch, tree.KindConditional:
			c++
		case tree.KindCase:
			if n.X != tree.NoNode {
				c++
			}
		case tree.KindBinary:
			if n.Op == tree.OpLAnd || n.Op == tree.OpLOr {
				c++
			}
		}
		return true
	})
	return c
}
