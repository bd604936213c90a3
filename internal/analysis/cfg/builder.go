package cfg

import (
	"github.com/mjp2ff/aid-sub000/internal/tree"
)

// jumpTarget is an enclosing statement that break or continue can leave.
type jumpTarget struct {
	label string
	brk   tree.NodeID
	cont  tree.NodeID // NoNode unless the target is a loop
	// labelOnly targets are labeled non-loop statements, reachable only by a
	// labeled break.
	labelOnly bool
	tryDepth  int
}

// tryFrame is an enclosing try statement whose protected block is being
// built.
type tryFrame struct {
	catches []tree.NodeID
	finally tree.NodeID // entry of the finally block, NoNode when absent
	tails   []tree.NodeID
}

type builder struct {
	g       *CFG
	t       *tree.Tree
	targets []jumpTarget
	tries   []*tryFrame
	label   string
}

// Build constructs the CFG of t. A tree without a body yields a graph whose
// Entry equals its Exit and which has no edges.
func Build(t *tree.Tree) *CFG {
	g := &CFG{
		Entry: EntryNode,
		Exit:  t.Root,
		t:     t,
		succs:   make(map[tree.NodeID]nodeSet),
		preds:   make(map[tree.NodeID]nodeSet),
		raising: make(map[tree.NodeID]nodeSet),
	}
	if !t.Valid(t.Root) {
		g.Exit = g.Entry
		return g
	}
	b := &builder{g: g, t: t}
	g.addEdge(g.Entry, b.stmt(t.Root, g.Exit))
	return g
}

// stmt adds the edges of s, given that control continues at next after s
// completes normally, and returns the node control enters s at.
func (b *builder) stmt(s, next tree.NodeID) tree.NodeID {
	n := b.t.Node(s)
	label := b.label
	b.label = ""

	switch n.Kind {
	case tree.KindBlock:
		if label != "" {
			b.push(jumpTarget{label: label, brk: next, cont: tree.NoNode, labelOnly: true})
			defer b.pop()
		}
		return b.seq(n.List, next)

	case tree.KindEmpty:
		return next

	case tree.KindLabeled:
		if !b.t.Valid(n.Body) {
			return next
		}
		b.label = n.Name
		switch b.t.Kind(n.Body) {
		case tree.KindWhile, tree.KindDoWhile, tree.KindFor, tree.KindForEach, tree.KindSwitch, tree.KindBlock:
			return b.stmt(n.Body, next)
		}
		b.label = ""
		b.push(jumpTarget{label: n.Name, brk: next, cont: tree.NoNode, labelOnly: true})
		defer b.pop()
		return b.stmt(n.Body, next)

	case tree.KindIf:
		thenEntry := next
		if b.t.Valid(n.Body) {
			thenEntry = b.stmt(n.Body, next)
		}
		elseEntry := next
		if b.t.Valid(n.Else) {
			elseEntry = b.stmt(n.Else, next)
		}
		b.g.addEdge(s, thenEntry)
		b.g.addEdge(s, elseEntry)
		b.raises(s, n.Cond)
		return s

	case tree.KindWhile, tree.KindForEach:
		b.push(jumpTarget{label: label, brk: next, cont: s})
		body := b.body(n.Body, s)
		b.pop()
		b.g.addEdge(s, body)
		b.g.addEdge(s, next)
		b.raises(s, n.Cond, n.X)
		return s

	case tree.KindDoWhile:
		b.push(jumpTarget{label: label, brk: next, cont: s})
		body := b.body(n.Body, s)
		b.pop()
		b.g.addEdge(s, body)
		b.g.addEdge(s, next)
		b.raises(s, n.Cond)
		return body

	case tree.KindFor:
		update := s
		for i := len(n.Update) - 1; i >= 0; i-- {
			update = b.stmt(n.Update[i], update)
		}
		b.push(jumpTarget{label: label, brk: next, cont: update})
		body := b.body(n.Body, update)
		b.pop()
		b.g.addEdge(s, body)
		if n.Cond != tree.NoNode {
			b.g.addEdge(s, next)
		}
		b.raises(s, n.Cond)
		entry := s
		for i := len(n.Init) - 1; i >= 0; i-- {
			entry = b.stmt(n.Init[i], entry)
		}
		return entry

	case tree.KindSwitch:
		return b.switchStmt(s, n, label, next)

	case tree.KindTry:
		return b.tryStmt(s, n, next)

	case tree.KindBreak:
		if tgt, ok := b.find(n.Name, false); ok {
			b.jump(s, tgt.brk, tgt.tryDepth)
		} else {
			b.g.addEdge(s, next)
		}
		return s

	case tree.KindContinue:
		if tgt, ok := b.find(n.Name, true); ok {
			b.jump(s, tgt.cont, tgt.tryDepth)
		} else {
			b.g.addEdge(s, next)
		}
		return s

	case tree.KindReturn:
		b.g.addEdge(s, b.g.Exit)
		b.raises(s, n.X)
		return s

	case tree.KindThrow:
		return s

	default:
		// expression statements, local declarations and anything a front
		// end emits as a bare expression
		b.g.addEdge(s, next)
		b.raises(s, n.X, n.Y)
		return s
	}
}

// seq chains stmts so that each flows into the next and the last into next.
func (b *builder) seq(stmts []tree.NodeID, next tree.NodeID) tree.NodeID {
	cur := next
	for i := len(stmts) - 1; i >= 0; i-- {
		cur = b.stmt(stmts[i], cur)
	}
	return cur
}

// body builds a loop body. An absent or empty body enters back at the
// header.
func (b *builder) body(body, header tree.NodeID) tree.NodeID {
	if !b.t.Valid(body) {
		return header
	}
	return b.stmt(body, header)
}

func (b *builder) switchStmt(s tree.NodeID, n *tree.Node, label string, next tree.NodeID) tree.NodeID {
	b.push(jumpTarget{label: label, brk: next, cont: tree.NoNode})
	defer b.pop()

	hasDefault := false
	cur := next
	for i := len(n.List) - 1; i >= 0; i-- {
		item := n.List[i]
		if b.t.Kind(item) == tree.KindCase {
			b.g.addEdge(item, cur)
			b.g.addEdge(s, item)
			if b.t.Node(item).Default {
				hasDefault = true
			}
			cur = item
			continue
		}
		cur = b.stmt(item, cur)
	}
	if !hasDefault {
		b.g.addEdge(s, next)
	}
	b.raises(s, n.X)
	return s
}

func (b *builder) tryStmt(s tree.NodeID, n *tree.Node, next tree.NodeID) tree.NodeID {
	frame := &tryFrame{finally: tree.NoNode}
	after := next
	if b.t.Valid(n.Else) {
		if entry := b.stmt(n.Else, next); entry != next {
			frame.finally = entry
			frame.tails = b.tailsInto(n.Else, next)
			after = entry
		}
	}

	for _, c := range n.List {
		handler := after
		if b.t.Valid(b.t.Node(c).Body) {
			handler = b.stmt(b.t.Node(c).Body, after)
		}
		b.g.addEdge(c, handler)
		frame.catches = append(frame.catches, c)
	}

	b.tries = append(b.tries, frame)
	body := after
	if b.t.Valid(n.Body) {
		body = b.stmt(n.Body, after)
	}
	body = b.seq(n.Init, body)
	b.tries = b.tries[:len(b.tries)-1]

	b.g.addEdge(s, body)
	return s
}

// tailsInto returns the nodes inside region that fall through to next.
func (b *builder) tailsInto(region, next tree.NodeID) []tree.NodeID {
	var tails []tree.NodeID
	for p := range b.g.preds[next] {
		if !b.t.Contains(region, p) {
			continue
		}
		switch b.t.Kind(p) {
		case tree.KindReturn, tree.KindBreak, tree.KindContinue:
			continue
		}
		tails = append(tails, p)
	}
	b.t.Sort(tails)
	return tails
}

// raises adds exception edges for every checked exception that a call or
// object creation in exprs declares.
func (b *builder) raises(s tree.NodeID, exprs ...tree.NodeID) {
	if len(b.tries) == 0 {
		return
	}
	h := b.t.Exceptions
	if h == nil {
		return
	}
	for _, e := range exprs {
		b.t.Inspect(e, func(id tree.NodeID) bool {
			n := b.t.Node(id)
			if n.Kind != tree.KindCall && n.Kind != tree.KindNew {
				return true
			}
			for _, typ := range n.Types {
				if h.IsChecked(typ) {
					b.raise(s, typ)
				}
			}
			return true
		})
	}
}

// raise adds the edge from s to the first catch clause, innermost try
// outward, that handles typ. Finally blocks of the try statements left on
// the way are threaded.
func (b *builder) raise(s tree.NodeID, typ string) {
	h := b.t.Exceptions
	var via []*tryFrame
	for i := len(b.tries) - 1; i >= 0; i-- {
		f := b.tries[i]
		for _, c := range f.catches {
			if h.Catches(b.t.Node(c).Types, typ) {
				b.thread(s, c, via, true)
				return
			}
		}
		if f.finally != tree.NoNode {
			via = append(via, f)
		}
	}
}

// jump adds the edge for a break or continue from s to target, threading the
// finally blocks of try statements entered after the target.
func (b *builder) jump(s, target tree.NodeID, depth int) {
	var via []*tryFrame
	for i := len(b.tries) - 1; i >= depth; i-- {
		if b.tries[i].finally != tree.NoNode {
			via = append(via, b.tries[i])
		}
	}
	b.thread(s, target, via, false)
}

// thread adds the edge leaving s towards target through the finally blocks
// of via. raised marks that edge as an exception edge.
func (b *builder) thread(s, target tree.NodeID, via []*tryFrame, raised bool) {
	first := target
	if len(via) > 0 {
		first = via[0].finally
	}
	if raised {
		b.g.addRaise(s, first)
	} else {
		b.g.addEdge(s, first)
	}
	for i, f := range via {
		to := target
		if i+1 < len(via) {
			to = via[i+1].finally
		}
		for _, tail := range f.tails {
			b.g.addEdge(tail, to)
		}
	}
}

func (b *builder) push(t jumpTarget) {
	t.tryDepth = len(b.tries)
	b.targets = append(b.targets, t)
}

func (b *builder) pop() {
	b.targets = b.targets[:len(b.targets)-1]
}

// find resolves the target of a break (cont false) or continue (cont true).
func (b *builder) find(label string, cont bool) (jumpTarget, bool) {
	for i := len(b.targets) - 1; i >= 0; i-- {
		t := b.targets[i]
		if label != "" {
			if t.label != label {
				continue
			}
			if cont && t.cont == tree.NoNode {
				return jumpTarget{}, false
			}
			return t, true
		}
		if t.labelOnly {
			continue
		}
		if cont && t.cont == tree.NoNode {
			continue
		}
		return t, true
	}
	return jumpTarget{}, false
}
