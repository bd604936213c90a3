package java

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
)

func parse(t *testing.T, src string, opts frontend.Options) *frontend.File {
	t.Helper()
	f, err := New(opts).Parse(context.Background(), "A.java", []byte(src))
	require.NoError(t, err)
	return f
}

func method(t *testing.T, f *frontend.File, name string) *frontend.Method {
	t.Helper()
	for _, m := range f.Methods {
		if m.Name == name {
			return m
		}
	}
	require.Failf(t, "method not found", "%s", name)
	return nil
}

func TestParseMethods(t *testing.T) {
	t.Parallel()

	src := `package demo;

public class Account {
    private int balance;

    public Account(int initial) {
        if (initial < 0) {
            throw new IllegalArgumentException("negative");
        }
        balance = initial;
    }

    public void withdraw(int amount) {
        if (amount > balance) throw new IllegalStateException();
        balance -= amount;
    }

    abstract static class Shape {
        abstract double area();
    }
}
`
	f := parse(t, src, frontend.Options{})
	assert.Equal(t, "java", f.Language)
	assert.Empty(t, f.Errors)
	require.Len(t, f.Methods, 3)

	ctor := method(t, f, "Account")
	assert.Equal(t, "Account.Account", ctor.QualifiedName())
	assert.Equal(t, 6, ctor.Start.Line)
	assert.Equal(t, 2, ctor.Complexity)

	area := method(t, f, "area")
	assert.Equal(t, "Shape", area.Owner)
	assert.Equal(t, tree.NoNode, area.Tree.Root)
}

func TestSuccessCondition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		method   string
		status   condition.Status
		expected string
	}{
		{
			name: "guard",
			src: `class A {
    void f(int x) {
        if (x < 0) throw new IllegalArgumentException();
        System.out.println(x);
    }
}`,
			method:   "f",
			status:   condition.StatusDerived,
			expected: "x greater than or equal to 0",
		},
		{
			name: "local substitution",
			src: `class A {
    void f(int x) {
        int y = x * 2;
        if (y >= 10) {
            throw new IllegalStateException();
        }
    }
}`,
			method:   "f",
			status:   condition.StatusDerived,
			expected: "(x times 2) less than 10",
		},
		{
			name: "field access",
			src: `class A {
    private boolean open;
    void close() {
        if (!this.open) {
            throw new IllegalStateException("closed");
        }
        open = false;
    }
}`,
			method:   "close",
			status:   condition.StatusDerived,
			expected: "this.open",
		},
		{
			name: "no failures",
			src: `class A {
    int twice(int x) { return x * 2; }
}`,
			method: "twice",
			status: condition.StatusNoFailures,
		},
		{
			name: "failure call",
			src: `class A {
    void f(String arg) {
        if (arg == null) {
            System.exit(1);
        }
    }
}`,
			method:   "f",
			status:   condition.StatusDerived,
			expected: "arg does not equal null",
		},
		{
			name: "switch case",
			src: `class A {
    void f(int x) {
        switch (x) {
            case 1: throw new IllegalStateException();
            default: break;
        }
    }
}`,
			method:   "f",
			status:   condition.StatusDerived,
			expected: "x does not equal 1",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := parse(t, tt.src, frontend.Options{FailureCalls: []string{"System.exit"}})
			res := condition.Analyze(method(t, f, tt.method).Tree, condition.Options{})
			require.Equal(t, tt.status, res.Status)
			if tt.expected != "" {
				assert.Equal(t, tt.expected, res.Condition.String())
			}
		})
	}
}

func TestCheckedExceptions(t *testing.T) {
	t.Parallel()

	src := `class A {
    static class StoreException extends Exception {}

    void load() throws StoreException {}

    void checked() {
        try {
            load();
        } catch (StoreException e) {
            throw new IllegalStateException(e);
        }
    }

    void unchecked() {
        try {
            System.out.println("hi");
        } catch (IllegalArgumentException e) {
            throw new IllegalStateException(e);
        }
    }
}
`
	f := parse(t, src, frontend.Options{})

	checked := method(t, f, "checked")
	assert.True(t, checked.Tree.Exceptions.IsSubtype("StoreException", "Exception"))
	assert.Len(t, paths.FailurePoints(cfg.Build(checked.Tree)), 1)

	unchecked := method(t, f, "unchecked")
	assert.Empty(t, paths.FailurePoints(cfg.Build(unchecked.Tree)))
}

func TestRaisingCondition(t *testing.T) {
	t.Parallel()

	src := `class A {
    boolean ready() throws IOException { return true; }

    void poll(int n) {
        n = n + 1;
        try {
            if (ready()) {
                System.out.println(n);
            }
        } catch (IOException e) {
            throw new IllegalStateException(e);
        }
    }
}
`
	f := parse(t, src, frontend.Options{})
	res := condition.Analyze(method(t, f, "poll").Tree, condition.Options{})
	require.Equal(t, condition.StatusDerived, res.Status)
	assert.NotContains(t, res.Failure.String(), "ready")
	assert.True(t, res.Partial)
	assert.False(t, res.NeverSucceeds())
}

func TestArrowSwitchBreaks(t *testing.T) {
	t.Parallel()

	src := `class A {
    void f(int k) {
        switch (k) {
            case 1 -> a();
            case 2 -> throw new IllegalArgumentException();
            default -> b();
        }
    }
}
`
	f := parse(t, src, frontend.Options{})
	tr := method(t, f, "f").Tree

	var implicit, cases int
	for _, s := range tr.Statements() {
		n := tr.Node(s)
		switch n.Kind {
		case tree.KindBreak:
			if n.Implicit {
				implicit++
			}
		case tree.KindCase:
			cases++
		}
	}
	assert.Equal(t, 3, cases)
	assert.Equal(t, 2, implicit)
}

func TestLoopsAndLabels(t *testing.T) {
	t.Parallel()

	src := `class A {
    void f(int[] xs, int n) {
        outer:
        for (int i = 0, j = n; i < j; i++, j--) {
            for (int x : xs) {
                if (x == i) continue outer;
                if (x < 0) throw new IllegalArgumentException();
            }
        }
    }
}
`
	f := parse(t, src, frontend.Options{})
	tr := method(t, f, "f").Tree

	var loop *tree.Node
	for _, s := range tr.Statements() {
		if tr.Kind(s) == tree.KindFor {
			loop = tr.Node(s)
		}
	}
	require.NotNil(t, loop)
	assert.Len(t, loop.Init, 2)
	assert.Len(t, loop.Update, 2)
	assert.Equal(t, "i < j", tr.Label(loop.Cond))

	res := condition.Analyze(tr, condition.Options{})
	assert.Equal(t, condition.StatusDerived, res.Status)
	assert.Equal(t, 1, res.FailurePoints)
}

func TestIgnoreDirective(t *testing.T) {
	t.Parallel()

	src := `class A {
    // aid:ignore generated
    void gen() {}

    void kept() {}
}
`
	f := parse(t, src, frontend.Options{})
	assert.True(t, method(t, f, "gen").Ignored)
	assert.False(t, method(t, f, "kept").Ignored)
}

func TestSyntaxErrorsSkipMethod(t *testing.T) {
	t.Parallel()

	src := `class A {
    void broken() { if (x < ) { }
    void fine() {}
}
`
	f := parse(t, src, frontend.Options{})
	assert.NotEmpty(t, f.Errors)
}

func TestParseCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(frontend.Options{}).Parse(ctx, "A.java", []byte("class A {}"))
	assert.ErrorIs(t, err, context.Canceled)
}
