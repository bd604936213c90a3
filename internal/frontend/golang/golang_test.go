package golang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjp2ff/aid-sub000/internal/analysis/cfg"
	"github.com/mjp2ff/aid-sub000/internal/analysis/condition"
	"github.com/mjp2ff/aid-sub000/internal/analysis/paths"
	"github.com/mjp2ff/aid-sub000/internal/frontend"
	"github.com/mjp2ff/aid-sub000/internal/tree"
	tt "github.com/mjp2ff/aid-sub000/internal/types"
)

var testOptions = frontend.Options{FailureCalls: []string{"log.Fatal", "log.Fatalf", "os.Exit"}}

func parse(t *testing.T, src string) *frontend.File {
	t.Helper()
	f, err := New(testOptions).Parse(context.Background(), "demo.go", []byte(src))
	require.NoError(t, err)
	return f
}

func function(t *testing.T, f *frontend.File, name string) *frontend.Method {
	t.Helper()
	for _, m := range f.Methods {
		if m.Name == name {
			return m
		}
	}
	require.Failf(t, "function not found", "%s", name)
	return nil
}

const storeSrc = `package demo

import (
	"errors"
	"log"
)

const limit = 10

type Store struct{ items []string }

func (s *Store) Add(item string) {
	if len(s.items) >= limit {
		panic("full")
	}
	s.items = append(s.items, item)
}

func check(x int) error {
	if x < 0 {
		return errors.New("negative")
	}
	return nil
}

func mustPositive(x int) {
	if x <= 0 {
		log.Fatalf("bad %d", x)
	}
}

func classify(n int) string {
	switch {
	case n < 0:
		panic("negative")
	case n == 0:
		return "zero"
	default:
		return "positive"
	}
}

func open(name string) {
	if n := len(name); n == 0 {
		panic("empty")
	}
}

func load(path string) {
	data, err := read(path)
	if err != nil {
		panic(err)
	}
	use(data)
}
`

func TestParseFunctions(t *testing.T) {
	t.Parallel()

	f := parse(t, storeSrc)
	assert.Equal(t, "go", f.Language)
	assert.Empty(t, f.Errors)
	require.Len(t, f.Methods, 6)

	add := function(t, f, "Add")
	assert.Equal(t, "Store", add.Owner)
	assert.Equal(t, "Store.Add", add.QualifiedName())
	assert.Equal(t, 12, add.Start.Line)
	assert.Equal(t, 2, add.Complexity)
	require.Len(t, add.Tree.Params, 2)
	assert.Equal(t, "s", add.Tree.Var(add.Tree.Params[0]).Name)

	assert.Equal(t, "check", function(t, f, "check").QualifiedName())
}

func TestSuccessCondition(t *testing.T) {
	t.Parallel()

	f := parse(t, storeSrc)
	tests := []struct {
		function string
		status   condition.Status
		expected string
	}{
		{"Add", condition.StatusDerived, "len(s.items) less than 10"},
		{"check", condition.StatusNoFailures, ""},
		{"mustPositive", condition.StatusDerived, "x greater than 0"},
		{"classify", condition.StatusDerived, "n greater than or equal to 0"},
		{"open", condition.StatusDerived, "len(name) does not equal 0"},
		{"load", condition.StatusDerived, "err equals null"},
	}
	for _, test := range tests {
		test := test
		t.Run(test.function, func(t *testing.T) {
			t.Parallel()

			res := condition.Analyze(function(t, f, test.function).Tree, condition.Options{})
			require.Equal(t, test.status, res.Status)
			if test.expected != "" {
				assert.Equal(t, test.expected, res.Condition.String())
			}
		})
	}
}

func TestTaggedSwitch(t *testing.T) {
	t.Parallel()

	src := `package demo

func dispatch(k int) {
	switch k {
	case 1:
		a()
		fallthrough
	case 2, 3:
		b()
	default:
		panic(k)
	}
}
`
	tr := function(t, parse(t, src), "dispatch").Tree

	var cases, implicit int
	for _, s := range tr.Statements() {
		n := tr.Node(s)
		switch n.Kind {
		case tree.KindCase:
			cases++
		case tree.KindBreak:
			if n.Implicit {
				implicit++
			}
		}
	}
	assert.Equal(t, 4, cases)
	assert.Equal(t, 1, implicit)
	assert.Len(t, paths.FailurePoints(cfg.Build(tr)), 1)
}

func TestDeclarations(t *testing.T) {
	t.Parallel()

	src := `package demo

func decls() {
	var count int
	var ok bool
	var p *int
	const max = 1 << 4
	a, b := 1, 2
	a, b = b, a
	_ = p
}
`
	tr := function(t, parse(t, src), "decls").Tree

	inits := make(map[string]string)
	for _, s := range tr.Statements() {
		n := tr.Node(s)
		if n.Kind == tree.KindLocalVar {
			inits[n.Name] = tr.Label(n.Y)
		}
	}
	assert.Equal(t, map[string]string{
		"count": "0",
		"ok":    "false",
		"p":     "nil",
		"max":   "16",
		"a":     "1",
		"b":     "2",
	}, inits)
}

func TestReceiverType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src      string
		expected string
	}{
		{"package p\nfunc (s S) f() {}", "S"},
		{"package p\nfunc (s *S) f() {}", "S"},
		{"package p\nfunc (m *Map[K, V]) f() {}", "Map"},
		{"package p\nfunc (l List[T]) f() {}", "List"},
	}
	for _, test := range tests {
		f := parse(t, test.src)
		require.Len(t, f.Methods, 1)
		assert.Equal(t, test.expected, f.Methods[0].Owner, test.src)
	}
}

func TestIgnoreDirective(t *testing.T) {
	t.Parallel()

	src := `package demo

// aid:ignore
func skipped() { panic("x") }

func kept() {}
`
	f := parse(t, src)
	assert.True(t, function(t, f, "skipped").Ignored)
	assert.False(t, function(t, f, "kept").Ignored)
}

func TestSyntaxErrors(t *testing.T) {
	t.Parallel()

	src := `package demo

func broken() {
	if x := ; {
}
`
	f := parse(t, src)
	assert.NotEmpty(t, f.Errors)
}

func TestParseFailure(t *testing.T) {
	t.Parallel()

	_, err := New(testOptions).Parse(context.Background(), "demo.go", []byte("not go at all"))
	assert.ErrorIs(t, err, frontend.ErrParseFailed)
}

func TestAnalyzer(t *testing.T) {
	code := `package main

func boom() {
	panic("always")
}

func guarded(x int) {
	if x < 0 {
		panic(x)
	}
}

func kind(x int) int {
	switch x {
	case 1:
		panic("one")
	}
	return x
}

func drain(items []int) {
	for range items {
		panic("item")
	}
}
`
	issues, err := tt.RunAnalyzer(code, Analyzer)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "successcond", issues[0].Rule)
	assert.Equal(t, "boom never returns normally", issues[0].Message)
	assert.Equal(t, 3, issues[0].Start.Line)
}
