package frontend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjp2ff/aid-sub000/internal/tree"
)

type fakeFrontend struct {
	lang string
	exts []string
}

func (f fakeFrontend) Language() string     { return f.lang }
func (f fakeFrontend) Extensions() []string { return f.exts }

func (f fakeFrontend) Parse(_ context.Context, path string, _ []byte) (*File, error) {
	return &File{Path: path, Language: f.lang}, nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry(
		fakeFrontend{lang: "java", exts: []string{".java"}},
		fakeFrontend{lang: "go", exts: []string{".go"}},
	)
	assert.Equal(t, []string{".go", ".java"}, r.Extensions())
	assert.True(t, r.Supports("src/Main.JAVA"))
	assert.False(t, r.Supports("main.py"))

	fe, err := r.For("pkg/file.go")
	require.NoError(t, err)
	assert.Equal(t, "go", fe.Language())

	_, err = r.For("script.py")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	f, err := r.Parse(context.Background(), "A.java", nil)
	require.NoError(t, err)
	assert.Equal(t, "java", f.Language)

	// later registrations win
	r.Register(fakeFrontend{lang: "golang", exts: []string{".GO"}})
	fe, err = r.For("x.go")
	require.NoError(t, err)
	assert.Equal(t, "golang", fe.Language())
}

func TestOptions(t *testing.T) {
	t.Parallel()

	opts := Options{
		FailureCalls: []string{"System.exit", "os.Exit"},
		Exceptions:   map[string]string{"StoreException": "IOException", "CacheException": "StoreException"},
	}
	assert.True(t, opts.IsFailureCall("os.Exit"))
	assert.False(t, opts.IsFailureCall("os.Getenv"))

	h := opts.Hierarchy()
	assert.True(t, h.IsSubtype("CacheException", "Exception"))
	assert.True(t, h.IsChecked("CacheException"))
}

func TestComplexity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		build    func(b *tree.Builder) tree.NodeID
		expected int
	}{
		{
			name:     "no body",
			build:    func(*tree.Builder) tree.NodeID { return tree.NoNode },
			expected: 1,
		},
		{
			name: "straight line",
			build: func(b *tree.Builder) tree.NodeID {
				return b.Block(b.ExprStmt(b.Call("f", tree.NoNode)), b.Return(tree.NoNode))
			},
			expected: 1,
		},
		{
			name: "branches and conditions",
			build: func(b *tree.Builder) tree.NodeID {
				cond := b.Binary(tree.OpLAnd, b.Name("a"), b.Binary(tree.OpLOr, b.Name("b"), b.Name("c")))
				loop := b.While(b.Name("d"), b.Block())
				return b.Block(b.If(cond, b.Block(loop), tree.NoNode))
			},
			expected: 5,
		},
		{
			name: "switch",
			build: func(b *tree.Builder) tree.NodeID {
				return b.Block(b.Switch(b.Name("k"),
					b.Case(b.Int("1")), b.Break(""),
					b.Case(b.Int("2")), b.Break(""),
					b.Case(tree.NoNode), b.Break(""),
				))
			},
			expected: 3,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := tree.NewBuilder("m")
			tr := b.Finish(tt.build(b))
			assert.Equal(t, tt.expected, Complexity(tr))
		})
	}
}
