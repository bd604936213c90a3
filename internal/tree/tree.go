package tree

import (
	"go/token"
	"sort"
)

// NodeID addresses a node inside a Tree. Two handles are the same node iff
// they are equal.
type NodeID int32

// NoNode marks an absent child (missing else branch, bare return, ...).
const NoNode NodeID = -1

// VarID addresses a resolved variable inside a Tree.
type VarID int32

// NoVar marks a name that did not resolve to any variable in scope.
const NoVar VarID = -1

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

// Node is a single statement or expression. The meaning of the child slots
// depends on Kind:
//
//	Block         List = statements
//	ExprStmt      X = expression
//	LocalVar      Var = declared variable, Y = initializer (or NoNode)
//	If            Cond, Body = then, Else = else (or NoNode)
//	While         Cond, Body
//	DoWhile       Body, Cond
//	For           Init, Cond (or NoNode), Update, Body
//	ForEach       Var = loop variable, X = iterable, Body
//	Switch        X = tag, List = case labels and statements in source order
//	Case          X = label expression (NoNode for default), Default
//	Break         Name = label
//	Continue      Name = label
//	Return        X = result (or NoNode)
//	Throw         X = thrown value
//	Try           Init = resources, Body = protected block, List = catches, Else = finally
//	Catch         Var = parameter, Types = caught types, Body
//	Labeled       Name = label, Body
//	Name          Name, Var
//	Field         X = object, Name = rendered qualified name
//	Literal       Lit, Name = literal text
//	Unary         Op, X
//	Binary        Op, X, Y
//	IncDec        Op (OpInc/OpDec), Prefix, X
//	Assign        Op (OpNone for plain =), X = target, Y = value
//	Call          Name = callee, X = receiver (or NoNode), List = args, Types = declared exceptions
//	New           Name = type, List = args, Types = declared exceptions
//	Conditional   Cond, X = then value, Y = else value
//	Cast          Name = type, X
//	Index         X = array, Y = index
//	InstanceOf    X, Name = type
//	Other         Name = source text
type Node struct {
	Kind   Kind
	Parent NodeID
	Span   Span

	Cond   NodeID
	Body   NodeID
	Else   NodeID
	Init   []NodeID
	Update []NodeID
	List   []NodeID

	X  NodeID
	Y  NodeID
	Op Op

	Lit      LitKind
	Name     string
	Var      VarID
	Types    []string
	Default  bool
	Prefix   bool
	Implicit bool
}

// VarKind tells where a variable was declared.
type VarKind uint8

const (
	VarLocal VarKind = iota
	VarParam
	VarField
)

// Variable is a resolved variable identity.
type Variable struct {
	ID   VarID
	Name string
	Type string
	Kind VarKind
	Decl NodeID
}

// Tree is the arena holding one method body.
type Tree struct {
	// Name is the method name, used in reports and DOT output.
	Name string
	// Root is the method body block, or NoNode for abstract/native methods.
	Root NodeID
	// Params lists the parameters in declaration order.
	Params []VarID
	// Exceptions resolves catch clauses against raised exception types.
	Exceptions *Hierarchy
	// Lines maps byte offsets back to positions. May be nil.
	Lines *LineIndex

	nodes []Node
	vars  []Variable
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node addressed by id. The returned pointer must be
// treated as read-only.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Valid reports whether id addresses a node of this tree.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Kind returns the kind of id, or KindInvalid for handles outside the arena.
func (t *Tree) Kind(id NodeID) Kind {
	if !t.Valid(id) {
		return KindInvalid
	}
	return t.nodes[id].Kind
}

// Parent returns the structural parent of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.Valid(id) {
		return NoNode
	}
	return t.nodes[id].Parent
}

// Contains reports whether ancestor structurally contains id. A node
// contains itself.
func (t *Tree) Contains(ancestor, id NodeID) bool {
	if !t.Valid(ancestor) {
		return false
	}
	for n := id; t.Valid(n); n = t.nodes[n].Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// EnclosingStmt returns the nearest statement containing id (id itself when
// it is a statement).
func (t *Tree) EnclosingStmt(id NodeID) NodeID {
	for n := id; t.Valid(n); n = t.nodes[n].Parent {
		if t.nodes[n].Kind.IsStmt() {
			return n
		}
	}
	return NoNode
}

// Children returns the direct children of id in source order.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.Valid(id) {
		return nil
	}
	n := &t.nodes[id]
	var out []NodeID
	add := func(ids ...NodeID) {
		for _, c := range ids {
			if c != NoNode {
				out = append(out, c)
			}
		}
	}
	switch n.Kind {
	case KindDoWhile:
		add(n.Body, n.Cond)
	case KindFor:
		add(n.Init...)
		add(n.Cond)
		add(n.Update...)
		add(n.Body)
	case KindTry:
		add(n.Init...)
		add(n.Body)
		add(n.List...)
		add(n.Else)
	case KindCall:
		add(n.X)
		add(n.List...)
	case KindConditional:
		add(n.Cond, n.X, n.Y)
	default:
		add(n.X, n.Cond, n.Y)
		add(n.Init...)
		add(n.List...)
		add(n.Body, n.Else)
		add(n.Update...)
	}
	return out
}

// Inspect walks the subtree rooted at id in depth-first order. If fn
// returns false the children of that node are skipped.
func (t *Tree) Inspect(id NodeID, fn func(NodeID) bool) {
	if !t.Valid(id) || !fn(id) {
		return
	}
	for _, c := range t.Children(id) {
		t.Inspect(c, fn)
	}
}

// Statements returns every statement node of the tree in source order.
func (t *Tree) Statements() []NodeID {
	var out []NodeID
	t.Inspect(t.Root, func(id NodeID) bool {
		if t.nodes[id].Kind.IsStmt() {
			out = append(out, id)
			return true
		}
		return false
	})
	return out
}

// Var returns the variable addressed by id.
func (t *Tree) Var(id VarID) Variable {
	return t.vars[id]
}

// Scope returns every variable known to the method: fields, parameters and
// locals.
func (t *Tree) Scope() []VarID {
	out := make([]VarID, len(t.vars))
	for i := range t.vars {
		out[i] = VarID(i)
	}
	return out
}

// Position returns the start position of id. It is the zero Position when
// the tree has no line index.
func (t *Tree) Position(id NodeID) token.Position {
	if t.Lines == nil || !t.Valid(id) {
		return token.Position{}
	}
	return t.Lines.Position(t.nodes[id].Span.Start)
}

// Sort orders ids by source offset, falling back to arena order.
func (t *Tree) Sort(ids []NodeID) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if !t.Valid(a) || !t.Valid(b) {
			return a < b
		}
		sa, sb := t.nodes[a].Span.Start, t.nodes[b].Span.Start
		if sa != sb {
			return sa < sb
		}
		return a < b
	})
}
