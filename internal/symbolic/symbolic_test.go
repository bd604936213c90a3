package symbolic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	x    = InitialValue{Var: 0, Name: "x"}
	y    = InitialValue{Var: 1, Name: "y"}
	flag = InitialValue{Var: 2, Name: "flag"}
	next = SubroutineResult{Name: "next"}
)

func lt(v Value, c float64) BinOpResult { return Compare(OpLt, v, Num(c)) }
func gt(v Value, c float64) BinOpResult { return Compare(OpGt, v, Num(c)) }
func ge(v Value, c float64) BinOpResult { return Compare(OpGe, v, Num(c)) }
func eq(v Value, c float64) BinOpResult { return Compare(OpEq, v, Num(c)) }

func TestNegateComparisonIsInvolutive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op         BinaryOp
		complement BinaryOp
	}{
		{OpLt, OpGe},
		{OpLe, OpGt},
		{OpGt, OpLe},
		{OpGe, OpLt},
		{OpEq, OpNe},
		{OpNe, OpEq},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			v := Compare(tt.op, x, Num(3))
			neg := Negate(v)
			assert.Equal(t, Compare(tt.complement, x, Num(3)), neg)
			assert.Equal(t, v, Negate(neg))
		})
	}
}

func TestNegateAtoms(t *testing.T) {
	t.Parallel()

	atoms := []Value{
		Num(1),
		CharacterValue{Val: 'a'},
		StringValue{Val: "s"},
		NullValue{},
		ExternalValue{Name: "this.size"},
		SubroutineResult{Name: "isEmpty"},
		Compare(OpAdd, x, Num(1)),
		x,
	}
	for _, a := range atoms {
		t.Run(a.String(), func(t *testing.T) {
			assert.Equal(t, a, Negate(a), "opaque values are their own negation")
			assert.Equal(t, UnOpResult{Op: OpNot, X: a}, Not(a))
			assert.Equal(t, a, Not(Not(a)))
		})
	}

	assert.Equal(t, Bool(false), Negate(Bool(true)))
	assert.Equal(t, flag, Negate(UnOpResult{Op: OpNot, X: flag}))
}

func TestDeMorgan(t *testing.T) {
	t.Parallel()

	a, b := lt(x, 0), eq(y, 1)

	assert.Equal(t, Or(Negate(a), Negate(b)), Negate(And(a, b)))
	assert.Equal(t, And(Negate(a), Negate(b)), Negate(Or(a, b)))

	sop := SumOfProducts{Products: []BooleanAndList{And(a, b), And(a)}}
	assert.Equal(t, ProductOfSums{Sums: []BooleanOrList{Or(Negate(a), Negate(b)), Or(Negate(a))}}, Negate(sop))
	assert.True(t, sop.Equal(Negate(Negate(sop))))

	assert.Equal(t, Or(Not(flag), ge(x, 0)), Not(And(flag, lt(x, 0))))
}

func TestSimplifyDuplicates(t *testing.T) {
	t.Parallel()

	a := lt(x, 0)
	got := Simplify(Or(a, a)).(BooleanOrList)
	require.Len(t, got.Terms, 1)
	assert.Equal(t, Simplify(a), got.Terms[0])

	sop := Simplify(SumOfProducts{Products: []BooleanAndList{And(a, flag), And(flag, a)}}).(SumOfProducts)
	assert.Len(t, sop.Products, 1)
}

func TestSimplify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Value
		want Value
	}{
		{
			name: "constant comparison folds",
			in:   Compare(OpLt, Num(1), Num(10)),
			want: Bool(true),
		},
		{
			name: "arithmetic folds inside comparison",
			in:   Compare(OpGe, Compare(OpAdd, Num(0), Num(1)), Num(10)),
			want: Bool(false),
		},
		{
			name: "constant moves right",
			in:   Compare(OpGt, Num(0), x),
			want: lt(x, 0),
		},
		{
			name: "equals true",
			in:   Compare(OpEq, flag, Bool(true)),
			want: flag,
		},
		{
			name: "equals false",
			in:   Compare(OpEq, Bool(false), lt(x, 0)),
			want: ge(x, 0),
		},
		{
			name: "double not",
			in:   UnOpResult{Op: OpNot, X: UnOpResult{Op: OpNot, X: flag}},
			want: flag,
		},
		{
			name: "not of comparison",
			in:   UnOpResult{Op: OpNot, X: lt(x, 0)},
			want: ge(x, 0),
		},
		{
			name: "negative constant",
			in:   UnOpResult{Op: OpNeg, X: Num(4)},
			want: Num(-4),
		},
		{
			name: "and drops true",
			in:   And(Bool(true), flag),
			want: And(flag),
		},
		{
			name: "and with false",
			in:   And(flag, Bool(false)),
			want: And(Bool(false)),
		},
		{
			name: "and flattens",
			in:   And(flag, And(lt(x, 0), And(eq(y, 2)))),
			want: And(flag, lt(x, 0), eq(y, 2)),
		},
		{
			name: "and contradiction",
			in:   And(lt(x, 0), flag, ge(x, 0)),
			want: And(Bool(false)),
		},
		{
			name: "and contradiction on ranges",
			in:   And(lt(x, 0), gt(x, 5)),
			want: And(Bool(false)),
		},
		{
			name: "and keeps the stronger bound",
			in:   And(gt(x, 5), gt(x, 10)),
			want: And(gt(x, 10)),
		},
		{
			name: "or keeps the weaker bound",
			in:   Or(gt(x, 5), gt(x, 10)),
			want: Or(gt(x, 5)),
		},
		{
			name: "or tautology",
			in:   Or(flag, Not(flag)),
			want: Or(Bool(true)),
		},
		{
			name: "and keeps ranges over a call",
			in:   And(gt(next, 5), lt(next, 3)),
			want: And(gt(next, 5), lt(next, 3)),
		},
		{
			name: "and keeps both bounds over a call",
			in:   And(gt(next, 5), gt(next, 10)),
			want: And(gt(next, 5), gt(next, 10)),
		},
		{
			name: "or keeps a call and its negation",
			in:   Or(next, Not(next)),
			want: Or(next, Not(next)),
		},
		{
			name: "or drops false",
			in:   Or(Bool(false), flag),
			want: Or(flag),
		},
		{
			name: "sop drops unsatisfiable product",
			in: SumOfProducts{Products: []BooleanAndList{
				And(lt(x, 0), ge(x, 0)),
				And(flag),
			}},
			want: SumOfProducts{Products: []BooleanAndList{And(flag)}},
		},
		{
			name: "sop absorption",
			in: SumOfProducts{Products: []BooleanAndList{
				And(flag, lt(x, 0)),
				And(flag),
			}},
			want: SumOfProducts{Products: []BooleanAndList{And(flag)}},
		},
		{
			name: "sop with empty product is true",
			in: SumOfProducts{Products: []BooleanAndList{
				And(flag),
				And(Bool(true)),
			}},
			want: SumOfProducts{Products: []BooleanAndList{{}}},
		},
		{
			name: "pos drops tautological sum",
			in: ProductOfSums{Sums: []BooleanOrList{
				Or(flag, Not(flag)),
				Or(lt(x, 0)),
			}},
			want: ProductOfSums{Sums: []BooleanOrList{Or(lt(x, 0))}},
		},
		{
			name: "pos absorption",
			in: ProductOfSums{Sums: []BooleanOrList{
				Or(flag, lt(x, 0)),
				Or(flag),
			}},
			want: ProductOfSums{Sums: []BooleanOrList{Or(flag)}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(tt.in)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestSimplifyIsIdempotent(t *testing.T) {
	t.Parallel()

	formulas := []Value{
		lt(x, 0),
		Compare(OpGt, Num(3), Compare(OpAdd, y, Num(1))),
		UnOpResult{Op: OpNot, X: And(flag, lt(x, 0))},
		And(Or(flag), And(gt(x, 1), gt(x, 2)), Or(And(eq(y, 1)))),
		Or(gt(x, 5), Or(gt(x, 10), flag), And()),
		SumOfProducts{Products: []BooleanAndList{
			And(lt(x, 0), eq(y, 1)),
			And(lt(x, 0)),
			And(flag, Not(flag)),
			And(gt(x, 3), Or(flag, eq(y, 2))),
		}},
		ProductOfSums{Sums: []BooleanOrList{
			Or(ge(x, 0), Not(flag)),
			Or(ge(x, 0)),
			Or(ExternalValue{Name: "this.ready"}, Bool(false)),
		}},
		ProductOfSums{Sums: []BooleanOrList{Or(ge(x, 0), eq(y, 1)), Or(flag, lt(x, 4))}}.ToSumOfProducts(),
	}
	for _, f := range formulas {
		t.Run(f.String(), func(t *testing.T) {
			once := Simplify(f)
			twice := Simplify(once)
			assert.Equal(t, once, twice)
		})
	}
}

func TestExpansion(t *testing.T) {
	t.Parallel()

	a, b, c, d := lt(x, 0), eq(y, 1), flag, ExternalValue{Name: "this.open"}
	pos := ProductOfSums{Sums: []BooleanOrList{Or(a, b), Or(c, d)}}

	assert.Equal(t, 4, pos.ExpansionSize())
	sop := pos.ToSumOfProducts()
	require.Len(t, sop.Products, 4)
	assert.ElementsMatch(t, []BooleanAndList{And(a, c), And(a, d), And(b, c), And(b, d)}, sop.Products)

	assert.Equal(t, 16, sop.ExpansionSize())
	assert.Len(t, sop.ToProductOfSums().Sums, 16)

	t.Run("zero-term sum is false", func(t *testing.T) {
		pos := ProductOfSums{Sums: []BooleanOrList{Or(a), Or()}}
		assert.Equal(t, 0, pos.ExpansionSize())
		assert.Empty(t, pos.ToSumOfProducts().Products)
		assert.Equal(t, "false", pos.ToSumOfProducts().String())
	})

	t.Run("no sums is true", func(t *testing.T) {
		sop := ProductOfSums{}.ToSumOfProducts()
		require.Len(t, sop.Products, 1)
		assert.Empty(t, sop.Products[0].Terms)
		assert.Equal(t, "true", sop.String())
	})

	t.Run("saturates", func(t *testing.T) {
		wide := Or(a, b, c, d)
		var big ProductOfSums
		for i := 0; i < 40; i++ {
			big.Sums = append(big.Sums, wide)
		}
		assert.Equal(t, math.MaxInt, big.ExpansionSize())
	})
}

func TestImplies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same", lt(x, 0), lt(x, 0), true},
		{"tighter upper bound", lt(x, 0), lt(x, 5), true},
		{"looser upper bound", lt(x, 5), lt(x, 0), false},
		{"strict implies non-strict", lt(x, 5), Compare(OpLe, x, Num(5)), true},
		{"non-strict does not imply strict", Compare(OpLe, x, Num(5)), lt(x, 5), false},
		{"lower bound", gt(x, 10), gt(x, 5), true},
		{"equality implies range", eq(x, 3), lt(x, 5), true},
		{"range excludes value", lt(x, 0), Compare(OpNe, x, Num(2)), true},
		{"different subject", lt(x, 0), lt(y, 5), false},
		{"mirrored constant", Compare(OpGt, Num(0), x), lt(x, 5), true},
		{"false implies anything", Bool(false), flag, true},
		{"anything implies true", flag, Bool(true), true},
		{"conjunction implies member", And(flag, lt(x, 0)), flag, true},
		{"member does not imply conjunction", flag, And(flag, lt(x, 0)), false},
		{"member implies disjunction", flag, Or(flag, lt(x, 0)), true},
		{"opaque atoms", flag, ExternalValue{Name: "flag"}, false},
		{"contrapositive", Not(flag), Not(flag), true},
		{"call bounds are unrelated", lt(next, 0), lt(next, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Implies(tt.a, tt.b))
			assert.Equal(t, tt.want, Subsumes(tt.b, tt.a))
		})
	}
}

func TestContradicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"disjoint ranges", gt(x, 5), lt(x, 3), true},
		{"overlapping ranges", gt(x, 5), lt(x, 10), false},
		{"negation", flag, Not(flag), true},
		{"disjoint ranges over a call", gt(next, 5), lt(next, 3), false},
		{"call and its negation", next, Not(next), false},
		{"call argument", eq(SubroutineResult{Name: "abs", Args: []Value{x}}, 1), Compare(OpNe, SubroutineResult{Name: "abs", Args: []Value{x}}, Num(1)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contradicts(tt.a, tt.b))
		})
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    Value
		want string
	}{
		{ge(x, 0), "x greater than or equal to 0"},
		{Compare(OpNe, y, Num(1.5)), "y does not equal 1.5"},
		{And(lt(x, 0), eq(y, 1)), "x less than 0 and y equals 1"},
		{Or(flag, Not(flag)), "flag or not flag"},
		{Not(SubroutineResult{Name: "list.isEmpty"}), "not list.isEmpty()"},
		{SubroutineResult{Name: "Math.max", Args: []Value{x, Num(2)}}, "Math.max(x, 2)"},
		{Compare(OpLt, Compare(OpAdd, x, Num(1)), Num(10)), "(x plus 1) less than 10"},
		{Compare(OpEq, ExternalValue{Name: "this.name"}, NullValue{}), "this.name equals null"},
		{Compare(OpEq, y, CharacterValue{Val: 'a'}), "y equals 'a'"},
		{Compare(OpEq, y, StringValue{Val: "ok"}), `y equals "ok"`},
		{SumOfProducts{Products: []BooleanAndList{And(lt(x, 0), flag), And(eq(y, 2))}}, "(x less than 0 and flag) or y equals 2"},
		{ProductOfSums{Sums: []BooleanOrList{Or(ge(x, 0), Not(flag)), Or(y)}}, "(x greater than or equal to 0 or not flag) and y"},
		{SumOfProducts{}, "false"},
		{And(), "true"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}
