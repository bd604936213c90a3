// Package symexec replays a single control flow path symbolically and
// describes, as a conjunction, the conditions under which the path is taken.
package symexec

import (
	"strconv"
	"strings"

	"github.com/mjp2ff/aid-sub000/internal/analysis/paths"
	"github.com/mjp2ff/aid-sub000/internal/symbolic"
	"github.com/mjp2ff/aid-sub000/internal/tree"
)

// Memory maps each variable to its current symbolic value. It belongs to a
// single path replay.
type Memory map[tree.VarID]symbolic.Value

// NewMemory returns a memory holding the initial value of every variable in
// scope.
func NewMemory(t *tree.Tree, scope []tree.VarID) Memory {
	m := make(Memory, len(scope))
	for _, v := range scope {
		m[v] = symbolic.InitialValue{Var: v, Name: t.Var(v).Name}
	}
	return m
}

// Options tune which conditions make it into the result.
type Options struct {
	// KeepAll keeps every branch condition on the path, including those of
	// statements that neither contain the target nor follow an assignment.
	KeepAll bool
}

type executor struct {
	t        *tree.Tree
	mem      Memory
	target   tree.NodeID
	assigned bool
	opts     Options
}

// Execute replays p against a fresh memory and returns the conjunction of
// the conditions p takes.
//
// A condition is kept when the statement it belongs to contains the target of
// the path, or when some assignment was already replayed. Other conditions
// cannot influence the outcome and are dropped.
func Execute(t *tree.Tree, scope []tree.VarID, p paths.Path) symbolic.BooleanAndList {
	return ExecuteWithOptions(t, scope, p, Options{})
}

// ExecuteWithOptions is Execute with explicit options.
func ExecuteWithOptions(t *tree.Tree, scope []tree.VarID, p paths.Path, opts Options) symbolic.BooleanAndList {
	e := &executor{
		t:      t,
		mem:    NewMemory(t, scope),
		target: p.Target(),
		opts:   opts,
	}
	var terms []symbolic.Value
	for _, el := range p {
		if !el.Cond {
			e.statement(el.Node)
			continue
		}
		relevant := e.opts.KeepAll || e.assigned || t.Contains(e.header(el.Node), e.target)
		v := e.condition(el.Node)
		if !relevant {
			continue
		}
		if el.Negated {
			v = symbolic.Not(v)
		}
		terms = append(terms, v)
	}
	return symbolic.BooleanAndList{Terms: terms}
}

// header returns the branch statement a condition element belongs to.
func (e *executor) header(cond tree.NodeID) tree.NodeID {
	h := e.t.EnclosingStmt(cond)
	if e.t.Kind(h) == tree.KindCase {
		return e.t.Parent(h)
	}
	return h
}

// condition evaluates a condition element. A case label stands for its
// label matching the switch tag; a switch, or a default label, for no label
// matching.
func (e *executor) condition(id tree.NodeID) symbolic.Value {
	switch n := e.t.Node(id); n.Kind {
	case tree.KindCase:
		if n.Default {
			return e.noMatch(e.t.Parent(id))
		}
		sw := e.t.Node(e.t.Parent(id))
		return e.match(e.eval(sw.X), sw.X, n.X)
	case tree.KindSwitch:
		return e.noMatch(id)
	}
	return e.eval(id)
}

func (e *executor) noMatch(sw tree.NodeID) symbolic.Value {
	n := e.t.Node(sw)
	tag := e.eval(n.X)
	var terms []symbolic.Value
	for _, item := range n.List {
		c := e.t.Node(item)
		if c.Kind != tree.KindCase || c.Default {
			continue
		}
		terms = append(terms, symbolic.Not(e.match(tag, n.X, c.X)))
	}
	switch len(terms) {
	case 0:
		return symbolic.Bool(true)
	case 1:
		return terms[0]
	}
	return symbolic.And(terms...)
}

// match describes the switch tag matching label. Type and select labels
// cannot be compared and stay opaque.
func (e *executor) match(tag symbolic.Value, tagNode, label tree.NodeID) symbolic.Value {
	if e.t.Kind(label) == tree.KindOther {
		return symbolic.ExternalValue{Name: e.t.Label(tagNode) + " matches " + e.t.Label(label)}
	}
	x := e.eval(label)
	if b, ok := tag.(symbolic.BooleanValue); ok {
		if b.Val {
			return x
		}
		return symbolic.Not(x)
	}
	return symbolic.Compare(symbolic.OpEq, tag, x)
}

func (e *executor) statement(s tree.NodeID) {
	n := e.t.Node(s)
	switch n.Kind {
	case tree.KindLocalVar:
		if n.Y != tree.NoNode && n.Var != tree.NoVar {
			e.set(n.Var, e.eval(n.Y))
		}
	case tree.KindExprStmt:
		e.eval(n.X)
	case tree.KindForEach, tree.KindCatch:
		if n.Var != tree.NoVar {
			e.set(n.Var, symbolic.ExternalValue{Name: e.t.Var(n.Var).Name})
		}
	}
}

func (e *executor) set(v tree.VarID, val symbolic.Value) {
	e.mem[v] = val
	e.assigned = true
}

func (e *executor) load(v tree.VarID) symbolic.Value {
	if val, ok := e.mem[v]; ok {
		return val
	}
	return symbolic.InitialValue{Var: v, Name: e.t.Var(v).Name}
}

// store assigns val to the variable target names. Writes to fields and
// array elements are not tracked.
func (e *executor) store(target tree.NodeID, val symbolic.Value) {
	n := e.t.Node(target)
	if n.Kind == tree.KindName && n.Var != tree.NoVar {
		e.set(n.Var, val)
	}
}

func (e *executor) eval(id tree.NodeID) symbolic.Value {
	if !e.t.Valid(id) {
		return symbolic.ExternalValue{Name: "?"}
	}
	n := e.t.Node(id)
	switch n.Kind {
	case tree.KindName:
		if n.Var == tree.NoVar {
			return symbolic.ExternalValue{Name: n.Name}
		}
		return e.load(n.Var)

	case tree.KindField, tree.KindThis, tree.KindOther:
		return symbolic.ExternalValue{Name: n.Name}

	case tree.KindLiteral:
		return literal(n.Lit, n.Name)

	case tree.KindUnary:
		x := e.eval(n.X)
		switch n.Op {
		case tree.OpNot:
			return symbolic.Not(x)
		case tree.OpNeg:
			if c, ok := x.(symbolic.Constant); ok {
				return symbolic.Constant{Val: -c.Val}
			}
			return symbolic.UnOpResult{Op: symbolic.OpNeg, X: x}
		case tree.OpPos:
			return x
		default:
			return symbolic.UnOpResult{Op: symbolic.OpBitNot, X: x}
		}

	case tree.KindBinary:
		x, y := e.eval(n.X), e.eval(n.Y)
		switch n.Op {
		case tree.OpLAnd:
			return symbolic.And(x, y)
		case tree.OpLOr:
			return symbolic.Or(x, y)
		}
		if op, ok := binaryOp(n.Op); ok {
			return symbolic.BinOpResult{Op: op, X: x, Y: y}
		}
		return symbolic.ExternalValue{Name: e.t.Label(id)}

	case tree.KindIncDec:
		old := e.eval(n.X)
		op := symbolic.OpAdd
		if n.Op == tree.OpDec {
			op = symbolic.OpSub
		}
		updated := symbolic.BinOpResult{Op: op, X: old, Y: symbolic.Num(1)}
		e.store(n.X, updated)
		if n.Prefix {
			return updated
		}
		return old

	case tree.KindAssign:
		val := e.eval(n.Y)
		if n.Op != tree.OpNone {
			if op, ok := binaryOp(n.Op); ok {
				val = symbolic.BinOpResult{Op: op, X: e.eval(n.X), Y: val}
			} else {
				val = symbolic.ExternalValue{Name: e.t.Label(id)}
			}
		}
		e.store(n.X, val)
		return val

	case tree.KindCall:
		return symbolic.SubroutineResult{Name: n.Name, Args: e.evalAll(n.List)}

	case tree.KindNew:
		return symbolic.SubroutineResult{Name: "new " + n.Name, Args: e.evalAll(n.List)}

	case tree.KindCast:
		return e.eval(n.X)

	case tree.KindInstanceOf:
		return symbolic.BinOpResult{Op: symbolic.OpInstanceOf, X: e.eval(n.X), Y: symbolic.ExternalValue{Name: n.Name}}
	}
	// conditional and index expressions stay opaque
	return symbolic.ExternalValue{Name: e.t.Label(id)}
}

func (e *executor) evalAll(ids []tree.NodeID) []symbolic.Value {
	if len(ids) == 0 {
		return nil
	}
	out := make([]symbolic.Value, len(ids))
	for i, id := range ids {
		out[i] = e.eval(id)
	}
	return out
}

var binaryOps = map[tree.Op]symbolic.BinaryOp{
	tree.OpAdd:    symbolic.OpAdd,
	tree.OpSub:    symbolic.OpSub,
	tree.OpMul:    symbolic.OpMul,
	tree.OpDiv:    symbolic.OpDiv,
	tree.OpRem:    symbolic.OpRem,
	tree.OpBitAnd: symbolic.OpBitAnd,
	tree.OpBitOr:  symbolic.OpBitOr,
	tree.OpXor:    symbolic.OpXor,
	tree.OpShl:    symbolic.OpShl,
	tree.OpShr:    symbolic.OpShr,
	tree.OpUShr:   symbolic.OpUShr,
	tree.OpAndNot: symbolic.OpAndNot,
	tree.OpLt:     symbolic.OpLt,
	tree.OpLe:     symbolic.OpLe,
	tree.OpGt:     symbolic.OpGt,
	tree.OpGe:     symbolic.OpGe,
	tree.OpEq:     symbolic.OpEq,
	tree.OpNe:     symbolic.OpNe,
}

func binaryOp(op tree.Op) (symbolic.BinaryOp, bool) {
	b, ok := binaryOps[op]
	return b, ok
}

// literal converts literal source text into a value. Text that cannot be
// read becomes an opaque value.
func literal(kind tree.LitKind, text string) symbolic.Value {
	switch kind {
	case tree.LitBool:
		return symbolic.BooleanValue{Val: text == "true"}
	case tree.LitNull:
		return symbolic.NullValue{}
	case tree.LitChar:
		if s, err := strconv.Unquote(text); err == nil && s != "" {
			return symbolic.CharacterValue{Val: []rune(s)[0]}
		}
		if r := []rune(strings.Trim(text, "'")); len(r) == 1 {
			return symbolic.CharacterValue{Val: r[0]}
		}
	case tree.LitString:
		if s, err := strconv.Unquote(text); err == nil {
			return symbolic.StringValue{Val: s}
		}
		return symbolic.StringValue{Val: strings.Trim(text, "\"`")}
	case tree.LitInt, tree.LitFloat:
		if v, ok := number(text); ok {
			return symbolic.Constant{Val: v}
		}
	}
	return symbolic.ExternalValue{Name: text}
}

func number(text string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if i, err := strconv.ParseInt(strings.TrimSuffix(s, "l"), 0, 64); err == nil {
		return float64(i), true
	}
	if u, err := strconv.ParseUint(strings.TrimSuffix(s, "l"), 0, 64); err == nil {
		return float64(u), true
	}
	if !strings.HasPrefix(s, "0x") {
		s = strings.TrimRight(s, "fd")
	}
	s = strings.ReplaceAll(s, "_", "")
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return 0, false
}
