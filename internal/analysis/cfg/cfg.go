package cfg

import (
	"github.com/mjp2ff/aid-sub000/internal/tree"
)

// EntryNode is the virtual entry of every CFG. It never addresses a tree node.
const EntryNode tree.NodeID = -2

type nodeSet map[tree.NodeID]struct{}

// CFG is the statement-level control flow graph of one method. It is
// immutable once Build returns.
type CFG struct {
	// Entry is always EntryNode.
	Entry tree.NodeID
	// Exit is the method body block. For a method without a body it equals
	// Entry.
	Exit tree.NodeID

	t     *tree.Tree
	succs map[tree.NodeID]nodeSet
	preds map[tree.NodeID]nodeSet
	// raising holds the edges along which a checked exception leaves a
	// statement.
	raising map[tree.NodeID]nodeSet
}

// Tree returns the tree the graph was built from.
func (c *CFG) Tree() *tree.Tree { return c.t }

func (c *CFG) addEdge(from, to tree.NodeID) {
	if from == tree.NoNode || to == tree.NoNode {
		return
	}
	if c.succs[from] == nil {
		c.succs[from] = nodeSet{}
	}
	if c.preds[to] == nil {
		c.preds[to] = nodeSet{}
	}
	c.succs[from][to] = struct{}{}
	c.preds[to][from] = struct{}{}
}

func (c *CFG) addRaise(from, to tree.NodeID) {
	if from == tree.NoNode || to == tree.NoNode {
		return
	}
	c.addEdge(from, to)
	if c.raising[from] == nil {
		c.raising[from] = nodeSet{}
	}
	c.raising[from][to] = struct{}{}
}

// Raises reports whether the edge from -> to is taken when from raises a
// checked exception. Such an edge says nothing about the outcome of a
// condition evaluated by from.
func (c *CFG) Raises(from, to tree.NodeID) bool {
	_, ok := c.raising[from][to]
	return ok
}

// HasEdge reports whether to is a direct successor of from.
func (c *CFG) HasEdge(from, to tree.NodeID) bool {
	_, ok := c.succs[from][to]
	return ok
}

// Succs returns the successors of n in source order.
func (c *CFG) Succs(n tree.NodeID) []tree.NodeID {
	return c.sorted(c.succs[n])
}

// Preds returns the predecessors of n in source order.
func (c *CFG) Preds(n tree.NodeID) []tree.NodeID {
	return c.sorted(c.preds[n])
}

// Blocks returns every node that takes part in an edge, plus Entry and Exit.
// Entry comes first, Exit last, the rest in source order.
func (c *CFG) Blocks() []tree.NodeID {
	seen := nodeSet{c.Entry: {}, c.Exit: {}}
	for n, s := range c.succs {
		seen[n] = struct{}{}
		for m := range s {
			seen[m] = struct{}{}
		}
	}
	return c.sorted(seen)
}

// Reachable returns the nodes reachable from Entry, Entry included.
func (c *CFG) Reachable() map[tree.NodeID]bool {
	seen := map[tree.NodeID]bool{c.Entry: true}
	queue := []tree.NodeID{c.Entry}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for m := range c.succs[n] {
			if !seen[m] {
				seen[m] = true
				queue = append(queue, m)
			}
		}
	}
	return seen
}

// Sort orders nodes the way the graph reports them: Entry first, Exit last,
// statements by source position in between.
func (c *CFG) Sort(ns []tree.NodeID) {
	c.t.Sort(ns)
	out := ns[:0]
	var hasEntry, hasExit bool
	for _, n := range ns {
		switch n {
		case c.Entry:
			hasEntry = true
		case c.Exit:
			hasExit = true
		default:
			out = append(out, n)
		}
	}
	if hasEntry {
		out = append([]tree.NodeID{c.Entry}, out...)
	}
	if hasExit && c.Exit != c.Entry {
		out = append(out, c.Exit)
	}
	copy(ns, out)
}

func (c *CFG) sorted(s nodeSet) []tree.NodeID {
	if len(s) == 0 {
		return nil
	}
	out := make([]tree.NodeID, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	c.Sort(out)
	return out
}
