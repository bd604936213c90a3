package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderParentsAndContains(t *testing.T) {
	t.Parallel()

	b := NewBuilder("check")
	x := b.Param("x", "int")

	cond := b.Binary(OpLt, b.Name("x"), b.Int("0"))
	throw := b.Throw(b.New("IllegalArgumentException"))
	ifStmt := b.If(cond, b.Block(throw), NoNode)
	ret := b.Return(b.Name("x"))
	root := b.Block(ifStmt, ret)
	tr := b.Finish(root)

	assert.Equal(t, root, tr.Root)
	assert.Equal(t, NoNode, tr.Parent(root))
	assert.Equal(t, ifStmt, tr.Parent(cond))
	assert.True(t, tr.Contains(ifStmt, throw))
	assert.True(t, tr.Contains(ifStmt, ifStmt))
	assert.False(t, tr.Contains(ret, throw))
	assert.False(t, tr.Contains(NoNode, throw))

	assert.Equal(t, x, tr.Node(tr.Node(cond).X).Var)
	assert.Equal(t, ifStmt, tr.EnclosingStmt(cond))
	assert.Equal(t, []NodeID{root, ifStmt, tr.Node(ifStmt).Body, throw, ret}, tr.Statements())
}

func TestScopes(t *testing.T) {
	t.Parallel()

	b := NewBuilder("shadow")
	f := b.Field("count", "int")
	p := b.Param("n", "int")

	b.OpenScope()
	local := b.Local("count", "int", b.Name("n"))
	inner := b.Name("count")
	b.CloseScope()
	outer := b.Name("count")
	missing := b.Name("nope")
	this := b.FieldAccess(b.This(), "count")
	tr := b.Finish(b.Block(local))

	lv := tr.Node(local).Var
	assert.NotEqual(t, f, lv)
	assert.Equal(t, lv, tr.Node(inner).Var)
	assert.Equal(t, f, tr.Node(outer).Var)
	assert.Equal(t, NoVar, tr.Node(missing).Var)
	assert.Equal(t, f, tr.Node(this).Var)
	assert.Equal(t, "this.count", tr.Node(this).Name)
	assert.Equal(t, []VarID{p}, tr.Params)
	assert.Len(t, tr.Scope(), 3)
	assert.Equal(t, VarLocal, tr.Var(lv).Kind)
	assert.Equal(t, local, tr.Var(lv).Decl)
}

func TestHierarchy(t *testing.T) {
	t.Parallel()

	h := NewHierarchy()
	h.Add("com.acme.QuotaExceeded", "IllegalStateException")
	h.Add("BadConfig", "java.io.IOException")

	tests := []struct {
		name    string
		sub     string
		super   string
		subtype bool
	}{
		{"same type", "IOException", "IOException", true},
		{"direct", "FileNotFoundException", "IOException", true},
		{"transitive", "FileNotFoundException", "Exception", true},
		{"qualified", "java.io.FileNotFoundException", "Throwable", true},
		{"unrelated", "IOException", "RuntimeException", false},
		{"user type", "QuotaExceeded", "RuntimeException", true},
		{"user checked", "BadConfig", "IOException", true},
		{"unknown is exception", "WidgetException", "Exception", true},
		{"unknown is not runtime", "WidgetException", "RuntimeException", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.subtype, h.IsSubtype(tt.sub, tt.super))
		})
	}

	assert.True(t, h.IsChecked("IOException"))
	assert.True(t, h.IsChecked("InterruptedException"))
	assert.True(t, h.IsChecked("WidgetException"))
	assert.False(t, h.IsChecked("NumberFormatException"))
	assert.False(t, h.IsChecked("AssertionError"))
	assert.False(t, h.IsChecked("QuotaExceeded"))

	assert.True(t, h.Catches([]string{"IllegalStateException", "IOException"}, "EOFException"))
	assert.False(t, h.Catches([]string{"SQLException"}, "EOFException"))

	c := h.Clone()
	c.Add("Extra", "Error")
	assert.False(t, h.IsSubtype("Extra", "Error"))
	assert.True(t, c.IsSubtype("Extra", "Error"))
}

func TestLineIndex(t *testing.T) {
	t.Parallel()

	src := []byte("class A {\n  void f() {\n    x++;\n  }\n}\n")
	li := NewLineIndex("A.java", src)

	pos := li.Position(0)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 1, pos.Column)

	pos = li.Position(16)
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 7, pos.Column)
	assert.Equal(t, "A.java", pos.Filename)

	assert.Equal(t, 3, li.Line(25))
}

func TestLabel(t *testing.T) {
	t.Parallel()

	b := NewBuilder("render")
	b.Param("a", "int")
	b.Param("list", "List")

	sum := b.Binary(OpAdd, b.Name("a"), b.Int("1"))
	cmp := b.Binary(OpGe, sum, b.Int("0"))
	call := b.Call("list.size", b.Name("list"))
	ternary := b.Conditional(b.Name("a"), b.Int("1"), b.Int("2"))
	inc := b.IncDec(OpInc, false, b.Name("a"))
	assign := b.Assign(OpAdd, b.Name("a"), b.Int("2"))
	tr := b.Finish(NoNode)

	require.Equal(t, NoNode, tr.Root)
	assert.Equal(t, "(a + 1) >= 0", tr.Label(cmp))
	assert.Equal(t, "list.size()", tr.Label(call))
	assert.Equal(t, "a ? 1 : 2", tr.Label(ternary))
	assert.Equal(t, "a++", tr.Label(inc))
	assert.Equal(t, "a += 2", tr.Label(assign))
}
