package tree

// Builder populates a Tree. Constructors take already-built children and
// return the new node's handle; the children are re-parented to it.
//
// Names are resolved when they are built, against the scopes opened so far,
// so front ends must declare a variable before building the expressions that
// refer to it.
type Builder struct {
	t      *Tree
	scopes []map[string]VarID
}

// NewBuilder starts a tree for the method name. One scope is open for fields
// and parameters.
func NewBuilder(name string) *Builder {
	return &Builder{
		t: &Tree{
			Name:       name,
			Root:       NoNode,
			Exceptions: NewHierarchy(),
		},
		scopes: []map[string]VarID{{}},
	}
}

// Tree returns the tree under construction.
func (b *Builder) Tree() *Tree { return b.t }

// Finish sets the method body and returns the completed tree. root may be
// NoNode for methods without a body.
func (b *Builder) Finish(root NodeID) *Tree {
	b.t.Root = root
	if b.t.Valid(root) {
		b.t.nodes[root].Parent = NoNode
	}
	return b.t
}

func (b *Builder) SetExceptions(h *Hierarchy) { b.t.Exceptions = h }

func (b *Builder) SetLines(l *LineIndex) { b.t.Lines = l }

// SetSpan records the source range of id and returns id.
func (b *Builder) SetSpan(id NodeID, start, end int) NodeID {
	if b.t.Valid(id) {
		b.t.nodes[id].Span = Span{Start: start, End: end}
	}
	return id
}

// SetThrows records the exception types a call or object creation may raise.
func (b *Builder) SetThrows(id NodeID, types ...string) NodeID {
	if b.t.Valid(id) {
		b.t.nodes[id].Types = append(b.t.nodes[id].Types[:0:0], types...)
	}
	return id
}

// SetImplicit marks id as synthesized rather than written in source.
func (b *Builder) SetImplicit(id NodeID) NodeID {
	if b.t.Valid(id) {
		b.t.nodes[id].Implicit = true
	}
	return id
}

// OpenScope pushes a lexical scope.
func (b *Builder) OpenScope() {
	b.scopes = append(b.scopes, map[string]VarID{})
}

// CloseScope pops the innermost lexical scope.
func (b *Builder) CloseScope() {
	if len(b.scopes) > 1 {
		b.scopes = b.scopes[:len(b.scopes)-1]
	}
}

// Declare adds a variable to the innermost scope.
func (b *Builder) Declare(name, typ string, kind VarKind) VarID {
	id := VarID(len(b.t.vars))
	b.t.vars = append(b.t.vars, Variable{ID: id, Name: name, Type: typ, Kind: kind, Decl: NoNode})
	if name != "" && name != "_" {
		b.scopes[len(b.scopes)-1][name] = id
	}
	if kind == VarParam {
		b.t.Params = append(b.t.Params, id)
	}
	return id
}

// Field declares a field of the enclosing class in the outermost scope.
func (b *Builder) Field(name, typ string) VarID {
	id := VarID(len(b.t.vars))
	b.t.vars = append(b.t.vars, Variable{ID: id, Name: name, Type: typ, Kind: VarField, Decl: NoNode})
	b.scopes[0][name] = id
	return id
}

// Param declares a method parameter.
func (b *Builder) Param(name, typ string) VarID {
	return b.Declare(name, typ, VarParam)
}

// Lookup resolves name against the open scopes, innermost first.
func (b *Builder) Lookup(name string) VarID {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if id, ok := b.scopes[i][name]; ok {
			return id
		}
	}
	return NoVar
}

func (b *Builder) add(n Node) NodeID {
	id := NodeID(len(b.t.nodes))
	n.Parent = NoNode
	b.t.nodes = append(b.t.nodes, n)
	for _, c := range b.t.Children(id) {
		b.t.nodes[c].Parent = id
	}
	return id
}

func blank(k Kind) Node {
	return Node{Kind: k, Cond: NoNode, Body: NoNode, Else: NoNode, X: NoNode, Y: NoNode, Var: NoVar}
}

// Statements

func (b *Builder) Block(stmts ...NodeID) NodeID {
	n := blank(KindBlock)
	n.List = compact(stmts)
	return b.add(n)
}

func (b *Builder) Empty() NodeID {
	return b.add(blank(KindEmpty))
}

func (b *Builder) ExprStmt(x NodeID) NodeID {
	n := blank(KindExprStmt)
	n.X = x
	return b.add(n)
}

// Local declares a local variable in the innermost scope, after init was
// built, and returns the declaration statement.
func (b *Builder) Local(name, typ string, init NodeID) NodeID {
	n := blank(KindLocalVar)
	n.Name = name
	n.Y = init
	id := b.add(n)
	v := b.Declare(name, typ, VarLocal)
	b.t.vars[v].Decl = id
	b.t.nodes[id].Var = v
	return id
}

func (b *Builder) If(cond, then, els NodeID) NodeID {
	n := blank(KindIf)
	n.Cond, n.Body, n.Else = cond, then, els
	return b.add(n)
}

func (b *Builder) While(cond, body NodeID) NodeID {
	n := blank(KindWhile)
	n.Cond, n.Body = cond, body
	return b.add(n)
}

func (b *Builder) DoWhile(body, cond NodeID) NodeID {
	n := blank(KindDoWhile)
	n.Body, n.Cond = body, cond
	return b.add(n)
}

func (b *Builder) For(init []NodeID, cond NodeID, update []NodeID, body NodeID) NodeID {
	n := blank(KindFor)
	n.Init, n.Cond, n.Update, n.Body = compact(init), cond, compact(update), body
	return b.add(n)
}

// ForEach builds an enhanced for loop over iterable. v must have been
// declared before body was built.
func (b *Builder) ForEach(v VarID, iterable, body NodeID) NodeID {
	n := blank(KindForEach)
	n.Var, n.X, n.Body = v, iterable, body
	if v != NoVar {
		n.Name = b.t.vars[v].Name
	}
	id := b.add(n)
	if v != NoVar {
		b.t.vars[v].Decl = id
	}
	return id
}

func (b *Builder) Switch(tag NodeID, items ...NodeID) NodeID {
	n := blank(KindSwitch)
	n.X = tag
	n.List = compact(items)
	return b.add(n)
}

// Case builds a case label. A NoNode label denotes default.
func (b *Builder) Case(label NodeID) NodeID {
	n := blank(KindCase)
	n.X = label
	n.Default = label == NoNode
	return b.add(n)
}

func (b *Builder) Break(label string) NodeID {
	n := blank(KindBreak)
	n.Name = label
	return b.add(n)
}

func (b *Builder) Continue(label string) NodeID {
	n := blank(KindContinue)
	n.Name = label
	return b.add(n)
}

func (b *Builder) Return(x NodeID) NodeID {
	n := blank(KindReturn)
	n.X = x
	return b.add(n)
}

func (b *Builder) Throw(x NodeID) NodeID {
	n := blank(KindThrow)
	n.X = x
	return b.add(n)
}

// Try builds a try statement. finally may be NoNode.
func (b *Builder) Try(resources []NodeID, body NodeID, catches []NodeID, finally NodeID) NodeID {
	n := blank(KindTry)
	n.Init, n.Body, n.List, n.Else = compact(resources), body, compact(catches), finally
	return b.add(n)
}

// Catch builds a catch clause. v must have been declared before body was
// built.
func (b *Builder) Catch(v VarID, types []string, body NodeID) NodeID {
	n := blank(KindCatch)
	n.Var, n.Body = v, body
	n.Types = append([]string(nil), types...)
	id := b.add(n)
	if v != NoVar {
		b.t.vars[v].Decl = id
	}
	return id
}

func (b *Builder) Labeled(label string, body NodeID) NodeID {
	n := blank(KindLabeled)
	n.Name, n.Body = label, body
	return b.add(n)
}

// Expressions

// Name builds an identifier reference, resolving it against the open scopes.
func (b *Builder) Name(name string) NodeID {
	n := blank(KindName)
	n.Name = name
	n.Var = b.Lookup(name)
	return b.add(n)
}

// FieldAccess builds obj.name. When obj is `this` and name is a declared
// field, the access resolves to that field's variable.
func (b *Builder) FieldAccess(obj NodeID, name string) NodeID {
	n := blank(KindField)
	n.X = obj
	n.Name = b.t.Label(obj) + "." + name
	if b.t.Kind(obj) == KindThis {
		if id, ok := b.scopes[0][name]; ok && b.t.vars[id].Kind == VarField {
			n.Var = id
		}
	}
	return b.add(n)
}

func (b *Builder) This() NodeID {
	n := blank(KindThis)
	n.Name = "this"
	return b.add(n)
}

func (b *Builder) Lit(kind LitKind, text string) NodeID {
	n := blank(KindLiteral)
	n.Lit, n.Name = kind, text
	return b.add(n)
}

func (b *Builder) Int(text string) NodeID { return b.Lit(LitInt, text) }

func (b *Builder) Bool(v bool) NodeID {
	if v {
		return b.Lit(LitBool, "true")
	}
	return b.Lit(LitBool, "false")
}

func (b *Builder) Null() NodeID { return b.Lit(LitNull, "null") }

func (b *Builder) Unary(op Op, x NodeID) NodeID {
	n := blank(KindUnary)
	n.Op, n.X = op, x
	return b.add(n)
}

func (b *Builder) Binary(op Op, x, y NodeID) NodeID {
	n := blank(KindBinary)
	n.Op, n.X, n.Y = op, x, y
	return b.add(n)
}

func (b *Builder) IncDec(op Op, prefix bool, x NodeID) NodeID {
	n := blank(KindIncDec)
	n.Op, n.Prefix, n.X = op, prefix, x
	return b.add(n)
}

// Assign builds target = value, or target op= value for a compound op.
func (b *Builder) Assign(op Op, target, value NodeID) NodeID {
	n := blank(KindAssign)
	n.Op, n.X, n.Y = op, target, value
	return b.add(n)
}

// Call builds a method invocation. recv may be NoNode.
func (b *Builder) Call(callee string, recv NodeID, args ...NodeID) NodeID {
	n := blank(KindCall)
	n.Name, n.X = callee, recv
	n.List = compact(args)
	return b.add(n)
}

func (b *Builder) New(typ string, args ...NodeID) NodeID {
	n := blank(KindNew)
	n.Name = typ
	n.List = compact(args)
	return b.add(n)
}

func (b *Builder) Conditional(cond, then, els NodeID) NodeID {
	n := blank(KindConditional)
	n.Cond, n.X, n.Y = cond, then, els
	return b.add(n)
}

func (b *Builder) Cast(typ string, x NodeID) NodeID {
	n := blank(KindCast)
	n.Name, n.X = typ, x
	return b.add(n)
}

func (b *Builder) Index(x, i NodeID) NodeID {
	n := blank(KindIndex)
	n.X, n.Y = x, i
	return b.add(n)
}

func (b *Builder) InstanceOf(x NodeID, typ string) NodeID {
	n := blank(KindInstanceOf)
	n.X, n.Name = x, typ
	return b.add(n)
}

// Other builds an opaque expression identified by its source text.
func (b *Builder) Other(text string) NodeID {
	n := blank(KindOther)
	n.Name = text
	return b.add(n)
}

func compact(ids []NodeID) []NodeID {
	out := make([]NodeID, 0, len(ids))
	for _, id := range ids {
		if id != NoNode {
			out = append(out, id)
		}
	}
	return out
}
