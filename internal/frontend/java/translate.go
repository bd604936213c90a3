package java

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mjp2ff/aid-sub000/internal/tree"
)

// JDK calls declaring checked exceptions, by callee text.
var jdkThrows = map[string][]string{
	"Thread.sleep":            {"InterruptedException"},
	"TimeUnit.SECONDS.sleep":  {"InterruptedException"},
	"Class.forName":           {"ClassNotFoundException"},
	"Files.readAllBytes":      {"IOException"},
	"Files.readAllLines":      {"IOException"},
	"Files.readString":        {"IOException"},
	"Files.write":             {"IOException"},
	"Files.writeString":       {"IOException"},
	"Files.lines":             {"IOException"},
	"Files.newBufferedReader": {"IOException"},
	"Files.newBufferedWriter": {"IOException"},
	"Files.delete":            {"IOException"},
	"Files.createDirectories": {"IOException"},
	"Files.copy":              {"IOException"},
	"Files.move":              {"IOException"},
	"Files.size":              {"IOException"},
}

// methodBuilder translates the body of one method.
type methodBuilder struct {
	*fileParser
	b *tree.Builder
}

func (m *methodBuilder) span(id tree.NodeID, n *sitter.Node) tree.NodeID {
	return m.b.SetSpan(id, int(n.StartByte()), int(n.EndByte()))
}

func (m *methodBuilder) param(n *sitter.Node) {
	switch n.Type() {
	case "formal_parameter":
		m.b.Param(m.text(n.ChildByFieldName("name")), m.text(n.ChildByFieldName("type")))
	case "spread_parameter":
		var name, typ string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch c.Type() {
			case "modifiers":
			case "variable_declarator":
				name = m.text(c.ChildByFieldName("name"))
			default:
				if typ == "" {
					typ = m.text(c) + "..."
				}
			}
		}
		m.b.Param(name, typ)
	}
}

// Statements

func (m *methodBuilder) block(n *sitter.Node) tree.NodeID {
	m.b.OpenScope()
	var stmts []tree.NodeID
	for i := 0; i < int(n.NamedChildCount()); i++ {
		stmts = append(stmts, m.stmts(n.NamedChild(i))...)
	}
	m.b.CloseScope()
	return m.span(m.b.Block(stmts...), n)
}

// stmts translates a statement that may expand to several, such as a
// declaration of more than one local variable.
func (m *methodBuilder) stmts(n *sitter.Node) []tree.NodeID {
	switch n.Type() {
	case "line_comment", "block_comment":
		return nil
	case "local_variable_declaration":
		typ := m.text(n.ChildByFieldName("type"))
		var out []tree.NodeID
		for i := 0; i < int(n.NamedChildCount()); i++ {
			d := n.NamedChild(i)
			if d.Type() != "variable_declarator" {
				continue
			}
			init := tree.NoNode
			if v := d.ChildByFieldName("value"); v != nil {
				init = m.expr(v)
			}
			out = append(out, m.span(m.b.Local(m.text(d.ChildByFieldName("name")), typ, init), d))
		}
		return out
	}
	return []tree.NodeID{m.stmt(n)}
}

// stmt translates a statement in a position that holds exactly one.
func (m *methodBuilder) stmt(n *sitter.Node) tree.NodeID {
	if n == nil {
		return tree.NoNode
	}
	var id tree.NodeID
	switch n.Type() {
	case "block", "constructor_body":
		return m.block(n)

	case "local_variable_declaration":
		stmts := m.stmts(n)
		if len(stmts) == 1 {
			return stmts[0]
		}
		id = m.b.Block(stmts...)

	case "expression_statement":
		x := n.NamedChild(0)
		if x == nil {
			id = m.b.Empty()
			break
		}
		if t := x.Type(); t == "switch_expression" || t == "switch_statement" {
			return m.switchStmt(x)
		}
		e := m.expr(x)
		if m.b.Tree().Kind(e) == tree.KindCall && m.opts.IsFailureCall(m.b.Tree().Node(e).Name) {
			id = m.b.Throw(e)
		} else {
			id = m.b.ExprStmt(e)
		}

	case "if_statement":
		cond := m.expr(n.ChildByFieldName("condition"))
		then := m.stmt(n.ChildByFieldName("consequence"))
		els := m.stmt(n.ChildByFieldName("alternative"))
		id = m.b.If(cond, then, els)

	case "while_statement":
		cond := m.expr(n.ChildByFieldName("condition"))
		id = m.b.While(cond, m.stmt(n.ChildByFieldName("body")))

	case "do_statement":
		body := m.stmt(n.ChildByFieldName("body"))
		id = m.b.DoWhile(body, m.expr(n.ChildByFieldName("condition")))

	case "for_statement":
		return m.forStmt(n)

	case "enhanced_for_statement":
		iterable := m.expr(n.ChildByFieldName("value"))
		m.b.OpenScope()
		v := m.b.Declare(m.text(n.ChildByFieldName("name")), m.text(n.ChildByFieldName("type")), tree.VarLocal)
		body := m.stmt(n.ChildByFieldName("body"))
		m.b.CloseScope()
		id = m.b.ForEach(v, iterable, body)

	case "switch_expression", "switch_statement":
		return m.switchStmt(n)

	case "break_statement":
		id = m.b.Break(m.text(n.NamedChild(0)))

	case "continue_statement":
		id = m.b.Continue(m.text(n.NamedChild(0)))

	case "return_statement":
		x := tree.NoNode
		if n.NamedChildCount() > 0 {
			x = m.expr(n.NamedChild(0))
		}
		id = m.b.Return(x)

	case "throw_statement":
		id = m.b.Throw(m.expr(n.NamedChild(0)))

	case "try_statement", "try_with_resources_statement":
		return m.tryStmt(n)

	case "labeled_statement":
		label := m.text(n.NamedChild(0))
		id = m.b.Labeled(label, m.stmt(n.NamedChild(int(n.NamedChildCount())-1)))

	case "synchronized_statement":
		return m.stmt(n.ChildByFieldName("body"))

	case "assert_statement":
		// assert c : msg;  fails with an AssertionError when c is false
		cond := m.b.Unary(tree.OpNot, m.expr(n.NamedChild(0)))
		fail := m.b.SetImplicit(m.b.Throw(m.b.New("AssertionError")))
		id = m.b.If(cond, fail, tree.NoNode)

	case "yield_statement":
		id = m.b.ExprStmt(m.expr(n.NamedChild(0)))

	case "explicit_constructor_invocation":
		callee := m.text(n.ChildByFieldName("constructor"))
		args := m.args(n.ChildByFieldName("arguments"))
		call := m.span(m.b.Call(callee, tree.NoNode, args...), n)
		m.b.SetThrows(call, m.throws["new "+callee]...)
		id = m.b.ExprStmt(call)

	default:
		// ";", local class declarations and anything unknown
		id = m.b.Empty()
	}
	return m.span(id, n)
}

func (m *methodBuilder) forStmt(n *sitter.Node) tree.NodeID {
	m.b.OpenScope()
	defer m.b.CloseScope()

	var inits, updates []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.FieldNameForChild(i) {
		case "init":
			inits = append(inits, n.Child(i))
		case "update":
			updates = append(updates, n.Child(i))
		}
	}

	var init []tree.NodeID
	for _, c := range inits {
		if c.Type() == "local_variable_declaration" {
			init = append(init, m.stmts(c)...)
			continue
		}
		init = append(init, m.span(m.b.ExprStmt(m.expr(c)), c))
	}
	cond := tree.NoNode
	if c := n.ChildByFieldName("condition"); c != nil {
		cond = m.expr(c)
	}
	var update []tree.NodeID
	for _, c := range updates {
		update = append(update, m.span(m.b.ExprStmt(m.expr(c)), c))
	}
	body := m.stmt(n.ChildByFieldName("body"))
	return m.span(m.b.For(init, cond, update, body), n)
}

// switchStmt translates both classic case groups and arrow rules. A rule
// does not fall through, so it ends in an implicit break.
func (m *methodBuilder) switchStmt(n *sitter.Node) tree.NodeID {
	tag := m.expr(n.ChildByFieldName("condition"))
	var items []tree.NodeID
	m.b.OpenScope()
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			group := body.NamedChild(i)
			switch group.Type() {
			case "switch_block_statement_group":
				for j := 0; j < int(group.NamedChildCount()); j++ {
					c := group.NamedChild(j)
					if c.Type() == "switch_label" {
						items = append(items, m.caseLabel(c))
						continue
					}
					items = append(items, m.stmts(c)...)
				}
			case "switch_rule":
				var last *sitter.Node
				for j := 0; j < int(group.NamedChildCount()); j++ {
					c := group.NamedChild(j)
					if c.Type() == "switch_label" {
						items = append(items, m.caseLabel(c))
						continue
					}
					items = append(items, m.stmts(c)...)
					last = c
				}
				if last == nil || last.Type() != "throw_statement" {
					items = append(items, m.b.SetImplicit(m.b.Break("")))
				}
			}
		}
	}
	m.b.CloseScope()
	return m.span(m.b.Switch(tag, items...), n)
}

func (m *methodBuilder) caseLabel(n *sitter.Node) tree.NodeID {
	label := tree.NoNode
	if n.NamedChildCount() > 0 {
		label = m.expr(n.NamedChild(0))
	}
	return m.span(m.b.Case(label), n)
}

func (m *methodBuilder) tryStmt(n *sitter.Node) tree.NodeID {
	m.b.OpenScope()
	defer m.b.CloseScope()

	var resources []tree.NodeID
	if spec := n.ChildByFieldName("resources"); spec != nil {
		for i := 0; i < int(spec.NamedChildCount()); i++ {
			r := spec.NamedChild(i)
			if r.Type() != "resource" {
				continue
			}
			if v := r.ChildByFieldName("value"); v != nil {
				init := m.expr(v)
				resources = append(resources, m.span(m.b.Local(m.text(r.ChildByFieldName("name")), m.text(r.ChildByFieldName("type")), init), r))
				continue
			}
			resources = append(resources, m.span(m.b.ExprStmt(m.expr(r.NamedChild(0))), r))
		}
	}
	body := m.stmt(n.ChildByFieldName("body"))

	var catches []tree.NodeID
	finally := tree.NoNode
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "catch_clause":
			catches = append(catches, m.catchClause(c))
		case "finally_clause":
			finally = m.stmt(c.NamedChild(0))
		}
	}
	return m.span(m.b.Try(resources, body, catches, finally), n)
}

func (m *methodBuilder) catchClause(n *sitter.Node) tree.NodeID {
	var types []string
	name := ""
	for i := 0; i < int(n.NamedChildCount()); i++ {
		p := n.NamedChild(i)
		if p.Type() != "catch_formal_parameter" {
			continue
		}
		name = m.text(p.ChildByFieldName("name"))
		for j := 0; j < int(p.NamedChildCount()); j++ {
			if ct := p.NamedChild(j); ct.Type() == "catch_type" {
				for k := 0; k < int(ct.NamedChildCount()); k++ {
					types = append(types, typeName(m.text(ct.NamedChild(k))))
				}
			}
		}
	}
	typ := ""
	if len(types) > 0 {
		typ = types[0]
	}
	m.b.OpenScope()
	v := m.b.Declare(name, typ, tree.VarLocal)
	body := m.stmt(n.ChildByFieldName("body"))
	m.b.CloseScope()
	return m.span(m.b.Catch(v, types, body), n)
}

// Expressions

var literalKinds = map[string]tree.LitKind{
	"decimal_integer_literal":        tree.LitInt,
	"hex_integer_literal":            tree.LitInt,
	"octal_integer_literal":          tree.LitInt,
	"binary_integer_literal":         tree.LitInt,
	"decimal_floating_point_literal": tree.LitFloat,
	"hex_floating_point_literal":     tree.LitFloat,
	"character_literal":              tree.LitChar,
	"string_literal":                 tree.LitString,
	"text_block":                     tree.LitString,
}

func (m *methodBuilder) expr(n *sitter.Node) tree.NodeID {
	if n == nil {
		return m.b.Other("")
	}
	var id tree.NodeID
	switch n.Type() {
	case "parenthesized_expression":
		if n.NamedChildCount() == 0 {
			return m.b.Other(m.text(n))
		}
		return m.expr(n.NamedChild(0))

	case "identifier":
		id = m.b.Name(m.text(n))

	case "this":
		id = m.b.This()

	case "true", "false":
		id = m.b.Bool(n.Type() == "true")

	case "null_literal":
		id = m.b.Null()

	case "field_access":
		obj := m.expr(n.ChildByFieldName("object"))
		id = m.b.FieldAccess(obj, m.text(n.ChildByFieldName("field")))

	case "binary_expression":
		x := m.expr(n.ChildByFieldName("left"))
		y := m.expr(n.ChildByFieldName("right"))
		op, ok := tree.BinaryOpFromToken(n.ChildByFieldName("operator").Type())
		if !ok {
			return m.span(m.b.Other(m.text(n)), n)
		}
		id = m.b.Binary(op, x, y)

	case "unary_expression":
		x := m.expr(n.ChildByFieldName("operand"))
		var op tree.Op
		switch n.ChildByFieldName("operator").Type() {
		case "!":
			op = tree.OpNot
		case "-":
			op = tree.OpNeg
		case "+":
			op = tree.OpPos
		default:
			op = tree.OpBitNot
		}
		id = m.b.Unary(op, x)

	case "update_expression":
		prefix := n.ChildCount() > 0 && !n.Child(0).IsNamed()
		tok := n.Child(int(n.ChildCount()) - 1).Type()
		if prefix {
			tok = n.Child(0).Type()
		}
		op := tree.OpInc
		if tok == "--" {
			op = tree.OpDec
		}
		id = m.b.IncDec(op, prefix, m.expr(n.NamedChild(0)))

	case "assignment_expression":
		target := m.expr(n.ChildByFieldName("left"))
		value := m.expr(n.ChildByFieldName("right"))
		op, ok := tree.AssignOpFromToken(n.ChildByFieldName("operator").Type())
		if !ok {
			return m.span(m.b.Other(m.text(n)), n)
		}
		id = m.b.Assign(op, target, value)

	case "method_invocation":
		id = m.call(n)

	case "object_creation_expression":
		typ := typeName(m.text(n.ChildByFieldName("type")))
		id = m.b.New(typ, m.args(n.ChildByFieldName("arguments"))...)
		m.b.SetThrows(id, m.throws["new "+typ]...)

	case "ternary_expression":
		cond := m.expr(n.ChildByFieldName("condition"))
		then := m.expr(n.ChildByFieldName("consequence"))
		els := m.expr(n.ChildByFieldName("alternative"))
		id = m.b.Conditional(cond, then, els)

	case "cast_expression":
		id = m.b.Cast(m.text(n.ChildByFieldName("type")), m.expr(n.ChildByFieldName("value")))

	case "array_access":
		x := m.expr(n.ChildByFieldName("array"))
		id = m.b.Index(x, m.expr(n.ChildByFieldName("index")))

	case "instanceof_expression":
		x := m.expr(n.ChildByFieldName("left"))
		right := n.ChildByFieldName("right")
		if right == nil {
			right = n.NamedChild(int(n.NamedChildCount()) - 1)
		}
		id = m.b.InstanceOf(x, m.text(right))

	default:
		if kind, ok := literalKinds[n.Type()]; ok {
			id = m.b.Lit(kind, m.text(n))
			break
		}
		// lambdas, method references, array creation, switch expressions
		id = m.b.Other(m.text(n))
	}
	return m.span(id, n)
}

// call translates a method invocation. The callee is named by its source
// text ("list.isEmpty"); declared exceptions come from the JDK table or the
// throws clauses of same-file methods.
func (m *methodBuilder) call(n *sitter.Node) tree.NodeID {
	name := m.text(n.ChildByFieldName("name"))
	callee := name
	recv := tree.NoNode
	if obj := n.ChildByFieldName("object"); obj != nil {
		callee = m.text(obj) + "." + name
		recv = m.expr(obj)
	}
	id := m.b.Call(callee, recv, m.args(n.ChildByFieldName("arguments"))...)
	if types, ok := jdkThrows[callee]; ok {
		m.b.SetThrows(id, types...)
	} else if types, ok := m.throws[name]; ok {
		m.b.SetThrows(id, types...)
	}
	return id
}

func (m *methodBuilder) args(n *sitter.Node) []tree.NodeID {
	if n == nil {
		return nil
	}
	out := make([]tree.NodeID, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() != "line_comment" && c.Type() != "block_comment" {
			out = append(out, m.expr(c))
		}
	}
	return out
}
