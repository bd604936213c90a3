package golang

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/mjp2ff/aid-sub000/internal/tree"
)

// funcBuilder translates the body of one function.
type funcBuilder struct {
	*fileParser
	b *tree.Builder
}

func (f *funcBuilder) span(id tree.NodeID, n ast.Node) tree.NodeID {
	return f.b.SetSpan(id, f.fset.Position(n.Pos()).Offset, f.fset.Position(n.End()).Offset)
}

func (f *funcBuilder) params(fl *ast.FieldList) {
	if fl == nil {
		return
	}
	for _, field := range fl.List {
		typ := types.ExprString(field.Type)
		if len(field.Names) == 0 {
			f.b.Param("", typ)
			continue
		}
		for _, name := range field.Names {
			f.b.Param(name.Name, typ)
		}
	}
}

// Statements

func (f *funcBuilder) block(n *ast.BlockStmt) tree.NodeID {
	f.b.OpenScope()
	stmts := f.stmtList(n.List)
	f.b.CloseScope()
	return f.span(f.b.Block(stmts...), n)
}

func (f *funcBuilder) stmtList(list []ast.Stmt) []tree.NodeID {
	var out []tree.NodeID
	for _, s := range list {
		out = append(out, f.stmts(s)...)
	}
	return out
}

// stmts translates a statement that may expand to several, such as a var
// declaration or a parallel assignment.
func (f *funcBuilder) stmts(s ast.Stmt) []tree.NodeID {
	switch s := s.(type) {
	case *ast.DeclStmt:
		gd, ok := s.Decl.(*ast.GenDecl)
		if !ok || (gd.Tok != token.VAR && gd.Tok != token.CONST) {
			return nil
		}
		var out []tree.NodeID
		for _, spec := range gd.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range vs.Names {
				init := f.initializer(gd.Tok, vs, i)
				if name.Name == "_" {
					out = append(out, f.span(f.b.ExprStmt(init), vs))
					continue
				}
				out = append(out, f.span(f.b.Local(name.Name, f.typeOf(name), init), vs))
			}
		}
		return out

	case *ast.AssignStmt:
		return f.assign(s)

	case *ast.BranchStmt:
		if s.Tok == token.FALLTHROUGH {
			return nil
		}
	}
	if id := f.stmt(s); id != tree.NoNode {
		return []tree.NodeID{id}
	}
	return nil
}

// initializer builds the initial value of the i-th name of a var or const
// spec.
func (f *funcBuilder) initializer(tok token.Token, vs *ast.ValueSpec, i int) tree.NodeID {
	name := vs.Names[i]
	if c, ok := f.info.Defs[name].(*types.Const); ok && tok == token.CONST {
		if lit := f.literal(c.Val()); lit != tree.NoNode {
			return lit
		}
	}
	switch {
	case len(vs.Values) == len(vs.Names):
		return f.expr(vs.Values[i])
	case len(vs.Values) > 0:
		// var a, b = pair()
		return f.b.Other(name.Name)
	}
	return f.zero(name)
}

func (f *funcBuilder) stmt(s ast.Stmt) tree.NodeID {
	var id tree.NodeID
	switch s := s.(type) {
	case *ast.BlockStmt:
		return f.block(s)

	case *ast.DeclStmt, *ast.AssignStmt:
		return f.b.Block(f.stmts(s)...)

	case *ast.ExprStmt:
		call, ok := astutil.Unparen(s.X).(*ast.CallExpr)
		switch {
		case ok && f.isPanic(call):
			arg := tree.NoNode
			if len(call.Args) > 0 {
				arg = f.expr(call.Args[0])
			}
			id = f.b.Throw(arg)
		case ok && f.opts.IsFailureCall(types.ExprString(call.Fun)):
			id = f.b.Throw(f.expr(call))
		default:
			id = f.b.ExprStmt(f.expr(s.X))
		}

	case *ast.IncDecStmt:
		op := tree.OpInc
		if s.Tok == token.DEC {
			op = tree.OpDec
		}
		id = f.b.ExprStmt(f.span(f.b.IncDec(op, false, f.expr(s.X)), s))

	case *ast.SendStmt:
		id = f.b.ExprStmt(f.other(s.Chan))

	case *ast.IfStmt:
		if s.Init != nil {
			f.b.OpenScope()
			init := f.stmts(s.Init)
			ifs := f.ifStmt(s)
			f.b.CloseScope()
			return f.span(f.b.Block(append(init, ifs)...), s)
		}
		return f.ifStmt(s)

	case *ast.ForStmt:
		f.b.OpenScope()
		var init, update []tree.NodeID
		if s.Init != nil {
			init = f.stmts(s.Init)
		}
		cond := tree.NoNode
		if s.Cond != nil {
			cond = f.expr(s.Cond)
		}
		if s.Post != nil {
			update = f.stmts(s.Post)
		}
		body := f.block(s.Body)
		f.b.CloseScope()
		id = f.b.For(init, cond, update, body)

	case *ast.RangeStmt:
		id = f.rangeStmt(s)

	case *ast.SwitchStmt:
		if s.Init != nil {
			f.b.OpenScope()
			init := f.stmts(s.Init)
			sw := f.switchStmt(s)
			f.b.CloseScope()
			return f.span(f.b.Block(append(init, sw)...), s)
		}
		return f.switchStmt(s)

	case *ast.TypeSwitchStmt:
		id = f.typeSwitch(s)

	case *ast.SelectStmt:
		var items []tree.NodeID
		for _, c := range s.Body.List {
			cc := c.(*ast.CommClause)
			label := tree.NoNode
			if cc.Comm != nil {
				label = f.b.Other(types.ExprString(commExpr(cc.Comm)))
			}
			items = append(items, f.span(f.b.Case(label), cc))
			f.b.OpenScope()
			if cc.Comm != nil {
				items = append(items, f.stmts(cc.Comm)...)
			}
			items = append(items, f.clauseBody(cc.Body)...)
			f.b.CloseScope()
		}
		id = f.b.Switch(f.b.Other("select"), items...)

	case *ast.BranchStmt:
		label := ""
		if s.Label != nil {
			label = s.Label.Name
		}
		switch s.Tok {
		case token.BREAK:
			id = f.b.Break(label)
		case token.CONTINUE:
			id = f.b.Continue(label)
		default:
			// goto is not modeled
			id = f.b.Empty()
		}

	case *ast.LabeledStmt:
		id = f.b.Labeled(s.Label.Name, f.stmt(s.Stmt))

	case *ast.ReturnStmt:
		switch len(s.Results) {
		case 0:
			id = f.b.Return(tree.NoNode)
		case 1:
			id = f.b.Return(f.expr(s.Results[0]))
		default:
			results := make([]string, len(s.Results))
			for i, r := range s.Results {
				results[i] = types.ExprString(r)
			}
			id = f.b.Return(f.b.Other(strings.Join(results, ", ")))
		}

	case *ast.DeferStmt, *ast.GoStmt:
		// deferred and concurrent calls run outside the path
		id = f.b.Empty()

	default:
		id = f.b.Empty()
	}
	return f.span(id, s)
}

func (f *funcBuilder) ifStmt(s *ast.IfStmt) tree.NodeID {
	cond := f.expr(s.Cond)
	then := f.block(s.Body)
	els := tree.NoNode
	if s.Else != nil {
		els = f.stmt(s.Else)
	}
	return f.span(f.b.If(cond, then, els), s)
}

// assign translates =, := and the compound assignments.
func (f *funcBuilder) assign(s *ast.AssignStmt) []tree.NodeID {
	if len(s.Lhs) != len(s.Rhs) {
		// v, err := g(): every target receives an opaque value
		out := []tree.NodeID{f.span(f.b.ExprStmt(f.expr(s.Rhs[0])), s)}
		for _, l := range s.Lhs {
			if id := f.store(s, l, f.b.Other(types.ExprString(l))); id != tree.NoNode {
				out = append(out, id)
			}
		}
		return out
	}

	op, ok := tree.AssignOpFromToken(s.Tok.String())
	if !ok {
		return []tree.NodeID{f.span(f.b.Empty(), s)}
	}
	if op != tree.OpNone {
		return []tree.NodeID{f.span(f.b.ExprStmt(f.b.Assign(op, f.expr(s.Lhs[0]), f.expr(s.Rhs[0]))), s)}
	}

	// a, b = b, a reads the old values; keep it precise only when no target
	// is read on the right-hand side
	parallel := len(s.Lhs) > 1 && readsAny(s.Rhs, s.Lhs)
	var out []tree.NodeID
	for i, l := range s.Lhs {
		var value tree.NodeID
		if parallel {
			value = f.b.Other(types.ExprString(l))
		} else {
			value = f.expr(s.Rhs[i])
		}
		if id := f.store(s, l, value); id != tree.NoNode {
			out = append(out, id)
		}
	}
	return out
}

// store assigns value to target, declaring target when s introduces it.
func (f *funcBuilder) store(s *ast.AssignStmt, target ast.Expr, value tree.NodeID) tree.NodeID {
	if id, ok := target.(*ast.Ident); ok {
		if id.Name == "_" {
			return f.span(f.b.ExprStmt(value), s)
		}
		if s.Tok == token.DEFINE && f.info.Defs[id] != nil {
			return f.span(f.b.Local(id.Name, f.typeOf(id), value), s)
		}
	}
	return f.span(f.b.ExprStmt(f.b.Assign(tree.OpNone, f.expr(target), value)), s)
}

func readsAny(rhs, lhs []ast.Expr) bool {
	names := make(map[string]bool)
	for _, l := range lhs {
		if id, ok := l.(*ast.Ident); ok {
			names[id.Name] = true
		}
	}
	found := false
	for _, r := range rhs {
		ast.Inspect(r, func(n ast.Node) bool {
			if id, ok := n.(*ast.Ident); ok && names[id.Name] {
				found = true
			}
			return !found
		})
	}
	return found
}

func (f *funcBuilder) rangeStmt(s *ast.RangeStmt) tree.NodeID {
	x := f.expr(s.X)
	f.b.OpenScope()
	v := tree.NoVar
	for _, e := range []ast.Expr{s.Key, s.Value} {
		id, ok := e.(*ast.Ident)
		if !ok || id.Name == "_" {
			continue
		}
		if s.Tok == token.DEFINE {
			v = f.b.Declare(id.Name, f.typeOf(id), tree.VarLocal)
		} else if found := f.b.Lookup(id.Name); found != tree.NoVar {
			v = found
		}
	}
	body := f.block(s.Body)
	f.b.CloseScope()
	return f.span(f.b.ForEach(v, x, body), s)
}

// switchStmt translates an expression switch. A switch without a tag is an
// if-else chain unless a clause falls through or breaks out of it.
func (f *funcBuilder) switchStmt(s *ast.SwitchStmt) tree.NodeID {
	if s.Tag == nil && !fallsThrough(s.Body) && !breaksOut(s.Body.List) {
		return f.span(f.chain(s.Body.List), s)
	}

	var tag tree.NodeID
	if s.Tag != nil {
		tag = f.expr(s.Tag)
	} else {
		tag = f.b.Bool(true)
	}
	var items []tree.NodeID
	for _, c := range s.Body.List {
		cc := c.(*ast.CaseClause)
		if cc.List == nil {
			items = append(items, f.span(f.b.Case(tree.NoNode), cc))
		}
		for _, e := range cc.List {
			items = append(items, f.span(f.b.Case(f.expr(e)), e))
		}
		f.b.OpenScope()
		items = append(items, f.clauseBody(cc.Body)...)
		f.b.CloseScope()
	}
	return f.span(f.b.Switch(tag, items...), s)
}

// chain builds if c1 {..} else if c2 {..} else {default}.
func (f *funcBuilder) chain(clauses []ast.Stmt) tree.NodeID {
	var def *ast.CaseClause
	var cases []*ast.CaseClause
	for _, c := range clauses {
		cc := c.(*ast.CaseClause)
		if cc.List == nil {
			def = cc
			continue
		}
		cases = append(cases, cc)
	}

	els := tree.NoNode
	if def != nil {
		els = f.clauseBlock(def)
	}
	for i := len(cases) - 1; i >= 0; i-- {
		cc := cases[i]
		cond := f.expr(cc.List[0])
		for _, e := range cc.List[1:] {
			cond = f.b.Binary(tree.OpLOr, cond, f.expr(e))
		}
		els = f.span(f.b.If(cond, f.clauseBlock(cc), els), cc)
	}
	if els == tree.NoNode {
		return f.b.Empty()
	}
	return els
}

func (f *funcBuilder) clauseBlock(cc *ast.CaseClause) tree.NodeID {
	f.b.OpenScope()
	stmts := f.stmtList(cc.Body)
	f.b.CloseScope()
	return f.span(f.b.Block(stmts...), cc)
}

// clauseBody translates the statements of a case clause and adds the
// implicit break, unless the clause ends in fallthrough or a jump.
func (f *funcBuilder) clauseBody(body []ast.Stmt) []tree.NodeID {
	out := f.stmtList(body)
	if len(body) > 0 {
		switch last := body[len(body)-1].(type) {
		case *ast.BranchStmt:
			return out
		case *ast.ReturnStmt:
			return out
		case *ast.ExprStmt:
			if call, ok := astutil.Unparen(last.X).(*ast.CallExpr); ok && f.isPanic(call) {
				return out
			}
		}
	}
	return append(out, f.b.SetImplicit(f.b.Break("")))
}

func (f *funcBuilder) typeSwitch(s *ast.TypeSwitchStmt) tree.NodeID {
	f.b.OpenScope()
	var init []tree.NodeID
	if s.Init != nil {
		init = f.stmts(s.Init)
	}
	var subject ast.Expr
	switch a := s.Assign.(type) {
	case *ast.AssignStmt:
		subject = a.Rhs[0].(*ast.TypeAssertExpr).X
		if id, ok := a.Lhs[0].(*ast.Ident); ok && id.Name != "_" {
			init = append(init, f.span(f.b.Local(id.Name, "", f.expr(subject)), a))
		}
	case *ast.ExprStmt:
		subject = a.X.(*ast.TypeAssertExpr).X
	}
	var items []tree.NodeID
	for _, c := range s.Body.List {
		cc := c.(*ast.CaseClause)
		if cc.List == nil {
			items = append(items, f.span(f.b.Case(tree.NoNode), cc))
		}
		for _, e := range cc.List {
			items = append(items, f.span(f.b.Case(f.b.Other(types.ExprString(e))), e))
		}
		f.b.OpenScope()
		items = append(items, f.clauseBody(cc.Body)...)
		f.b.CloseScope()
	}
	sw := f.span(f.b.Switch(f.expr(subject), items...), s)
	f.b.CloseScope()
	if len(init) == 0 {
		return sw
	}
	return f.span(f.b.Block(append(init, sw)...), s)
}

func commExpr(s ast.Stmt) ast.Expr {
	switch s := s.(type) {
	case *ast.SendStmt:
		return s.Chan
	case *ast.ExprStmt:
		return s.X
	case *ast.AssignStmt:
		return s.Rhs[0]
	}
	return &ast.BadExpr{}
}

func fallsThrough(body *ast.BlockStmt) bool {
	for _, c := range body.List {
		cc := c.(*ast.CaseClause)
		if n := len(cc.Body); n > 0 {
			if br, ok := cc.Body[n-1].(*ast.BranchStmt); ok && br.Tok == token.FALLTHROUGH {
				return true
			}
		}
	}
	return false
}

// breaksOut reports whether an unlabeled break in the clauses targets the
// switch itself.
func breaksOut(clauses []ast.Stmt) bool {
	found := false
	for _, c := range clauses {
		ast.Inspect(c, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.ForStmt, *ast.RangeStmt, *ast.SwitchStmt, *ast.TypeSwitchStmt, *ast.SelectStmt, *ast.FuncLit:
				return false
			case *ast.BranchStmt:
				if n.Tok == token.BREAK && n.Label == nil {
					found = true
				}
			}
			return !found
		})
	}
	return found
}

// Expressions

func (f *funcBuilder) expr(e ast.Expr) tree.NodeID {
	var id tree.NodeID
	switch x := e.(type) {
	case *ast.ParenExpr:
		return f.expr(astutil.Unparen(x))

	case *ast.Ident:
		id = f.ident(x)

	case *ast.BasicLit:
		id = f.basicLit(x)

	case *ast.SelectorExpr:
		if f.isPackage(x.X) {
			if lit, ok := f.constant(x); ok {
				return f.span(lit, x)
			}
			return f.other(x)
		}
		id = f.b.FieldAccess(f.expr(x.X), x.Sel.Name)

	case *ast.BinaryExpr:
		op, ok := tree.BinaryOpFromToken(x.Op.String())
		if !ok {
			return f.other(x)
		}
		id = f.b.Binary(op, f.expr(x.X), f.expr(x.Y))

	case *ast.UnaryExpr:
		switch x.Op {
		case token.NOT:
			id = f.b.Unary(tree.OpNot, f.expr(x.X))
		case token.SUB:
			id = f.b.Unary(tree.OpNeg, f.expr(x.X))
		case token.ADD:
			id = f.b.Unary(tree.OpPos, f.expr(x.X))
		case token.XOR:
			id = f.b.Unary(tree.OpBitNot, f.expr(x.X))
		case token.AND:
			if lit, ok := astutil.Unparen(x.X).(*ast.CompositeLit); ok && lit.Type != nil {
				id = f.b.New(types.ExprString(lit.Type), f.exprs(elements(lit))...)
				break
			}
			return f.other(x)
		default:
			return f.other(x)
		}

	case *ast.CallExpr:
		id = f.call(x)

	case *ast.CompositeLit:
		if x.Type == nil {
			return f.other(x)
		}
		id = f.b.New(types.ExprString(x.Type), f.exprs(elements(x))...)

	case *ast.IndexExpr:
		if tv, ok := f.info.Types[x.X]; ok && tv.Type != nil {
			if _, generic := tv.Type.(*types.Signature); generic {
				return f.other(x)
			}
		}
		id = f.b.Index(f.expr(x.X), f.expr(x.Index))

	default:
		// star, slice, type assertion, function literal, receive
		return f.other(x)
	}
	return f.span(id, e)
}

func (f *funcBuilder) exprs(es []ast.Expr) []tree.NodeID {
	out := make([]tree.NodeID, 0, len(es))
	for _, e := range es {
		out = append(out, f.expr(e))
	}
	return out
}

func elements(lit *ast.CompositeLit) []ast.Expr {
	out := make([]ast.Expr, 0, len(lit.Elts))
	for _, e := range lit.Elts {
		if kv, ok := e.(*ast.KeyValueExpr); ok {
			e = kv.Value
		}
		out = append(out, e)
	}
	return out
}

func (f *funcBuilder) other(e ast.Expr) tree.NodeID {
	return f.span(f.b.Other(types.ExprString(e)), e)
}

func (f *funcBuilder) ident(x *ast.Ident) tree.NodeID {
	if f.b.Lookup(x.Name) != tree.NoVar {
		return f.b.Name(x.Name)
	}
	switch f.info.Uses[x].(type) {
	case *types.Nil:
		return f.b.Lit(tree.LitNull, "nil")
	case *types.Const:
		if lit, ok := f.constant(x); ok {
			return lit
		}
	case nil:
		// unresolved in an isolated check: fall back to the universe
		switch x.Name {
		case "nil":
			return f.b.Lit(tree.LitNull, "nil")
		case "true", "false":
			return f.b.Bool(x.Name == "true")
		}
	}
	return f.b.Name(x.Name)
}

// constant builds the literal for a named constant.
func (f *funcBuilder) constant(e ast.Expr) (tree.NodeID, bool) {
	tv, ok := f.info.Types[e]
	if !ok || tv.Value == nil {
		return tree.NoNode, false
	}
	lit := f.literal(tv.Value)
	return lit, lit != tree.NoNode
}

// literal builds the literal for a constant value, or NoNode for complex
// and unknown values.
func (f *funcBuilder) literal(v constant.Value) tree.NodeID {
	switch v.Kind() {
	case constant.Bool:
		return f.b.Bool(constant.BoolVal(v))
	case constant.Int:
		return f.b.Int(v.ExactString())
	case constant.Float:
		fv, _ := constant.Float64Val(v)
		return f.b.Lit(tree.LitFloat, strconv.FormatFloat(fv, 'g', -1, 64))
	case constant.String:
		return f.b.Lit(tree.LitString, strconv.Quote(constant.StringVal(v)))
	}
	return tree.NoNode
}

func (f *funcBuilder) basicLit(x *ast.BasicLit) tree.NodeID {
	switch x.Kind {
	case token.INT:
		return f.b.Int(x.Value)
	case token.FLOAT, token.IMAG:
		return f.b.Lit(tree.LitFloat, x.Value)
	case token.CHAR:
		return f.b.Lit(tree.LitChar, x.Value)
	default:
		return f.b.Lit(tree.LitString, x.Value)
	}
}

func (f *funcBuilder) call(x *ast.CallExpr) tree.NodeID {
	fun := astutil.Unparen(x.Fun)
	if tv, ok := f.info.Types[fun]; ok && tv.IsType() && len(x.Args) == 1 {
		return f.b.Cast(types.ExprString(fun), f.expr(x.Args[0]))
	}
	if id, ok := fun.(*ast.Ident); ok && id.Name == "new" && f.isBuiltin(id) && len(x.Args) == 1 {
		return f.b.New(types.ExprString(x.Args[0]))
	}

	recv := tree.NoNode
	if sel, ok := fun.(*ast.SelectorExpr); ok && !f.isPackage(sel.X) {
		recv = f.expr(sel.X)
	}
	return f.b.Call(types.ExprString(fun), recv, f.exprs(x.Args)...)
}

func (f *funcBuilder) isPanic(call *ast.CallExpr) bool {
	id, ok := astutil.Unparen(call.Fun).(*ast.Ident)
	return ok && id.Name == "panic" && f.isBuiltin(id)
}

func (f *funcBuilder) isBuiltin(id *ast.Ident) bool {
	if f.b.Lookup(id.Name) != tree.NoVar {
		return false
	}
	switch f.info.Uses[id].(type) {
	case *types.Builtin, nil:
		return true
	}
	return false
}

func (f *funcBuilder) isPackage(e ast.Expr) bool {
	id, ok := e.(*ast.Ident)
	if !ok {
		return false
	}
	_, ok = f.info.Uses[id].(*types.PkgName)
	return ok
}

func (f *funcBuilder) typeOf(id *ast.Ident) string {
	if obj := f.info.Defs[id]; obj != nil && obj.Type() != nil {
		return obj.Type().String()
	}
	return ""
}

// zero builds the zero value of a declared variable.
func (f *funcBuilder) zero(id *ast.Ident) tree.NodeID {
	obj := f.info.Defs[id]
	if obj == nil || obj.Type() == nil {
		return f.b.Other(id.Name)
	}
	switch t := obj.Type().Underlying().(type) {
	case *types.Basic:
		switch {
		case t.Info()&types.IsBoolean != 0:
			return f.b.Bool(false)
		case t.Info()&types.IsNumeric != 0:
			return f.b.Int("0")
		case t.Info()&types.IsString != 0:
			return f.b.Lit(tree.LitString, `""`)
		}
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature, *types.Interface:
		return f.b.Lit(tree.LitNull, "nil")
	}
	return f.b.Other(id.Name)
}
