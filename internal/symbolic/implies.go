package symbolic

// Implies reports whether a being true is known to make b true. It only
// answers true when that is proven; false means "not known".
//
// Proofs cover equal values, the boolean constants, connectives (through
// their terms) and comparisons of one subject against numeric constants,
// such as x > 10 implying x > 5.
func Implies(a, b Value) bool {
	if a.Equal(b) || isTrue(b) || isFalse(a) {
		return true
	}

	// complete decompositions
	switch y := b.(type) {
	case BooleanAndList:
		return allOf(y.Terms, func(t Value) bool { return Implies(a, t) })
	case ProductOfSums:
		return allOf(sums(y.Sums), func(t Value) bool { return Implies(a, t) })
	}
	switch x := a.(type) {
	case BooleanOrList:
		return allOf(x.Terms, func(t Value) bool { return Implies(t, b) })
	case SumOfProducts:
		return allOf(products(x.Products), func(t Value) bool { return Implies(t, b) })
	}

	// sufficient conditions
	switch x := a.(type) {
	case BooleanAndList:
		if anyOf(x.Terms, func(t Value) bool { return Implies(t, b) }) {
			return true
		}
	case ProductOfSums:
		if anyOf(sums(x.Sums), func(t Value) bool { return Implies(t, b) }) {
			return true
		}
	}
	switch y := b.(type) {
	case BooleanOrList:
		return anyOf(y.Terms, func(t Value) bool { return Implies(a, t) })
	case SumOfProducts:
		return anyOf(products(y.Products), func(t Value) bool { return Implies(a, t) })
	}

	if s1, op1, c1, ok := bound(a); ok {
		if s2, op2, c2, ok := bound(b); ok && s1.Equal(s2) {
			return boundImplies(op1, c1, op2, c2)
		}
	}
	if na, ok := a.(UnOpResult); ok && na.Op == OpNot {
		if nb, ok := b.(UnOpResult); ok && nb.Op == OpNot {
			return Implies(nb.X, na.X)
		}
	}
	return false
}

// Subsumes reports whether a covers b: every state satisfying b also
// satisfies a.
func Subsumes(a, b Value) bool {
	return Implies(b, a)
}

// Contradicts reports whether a and b are known never to hold together.
// Values that depend on a call never contradict: two evaluations of the
// same call may return different results.
func Contradicts(a, b Value) bool {
	if hasCall(a) || hasCall(b) {
		return false
	}
	return Implies(a, Not(b))
}

// hasCall reports whether v depends on a SubroutineResult.
func hasCall(v Value) bool {
	switch x := v.(type) {
	case SubroutineResult:
		return true
	case UnOpResult:
		return hasCall(x.X)
	case BinOpResult:
		return hasCall(x.X) || hasCall(x.Y)
	case BooleanAndList:
		return anyOf(x.Terms, hasCall)
	case BooleanOrList:
		return anyOf(x.Terms, hasCall)
	case SumOfProducts:
		return anyOf(products(x.Products), hasCall)
	case ProductOfSums:
		return anyOf(sums(x.Sums), hasCall)
	}
	return false
}

func isTrue(v Value) bool {
	b, ok := v.(BooleanValue)
	return ok && b.Val
}

func isFalse(v Value) bool {
	b, ok := v.(BooleanValue)
	return ok && !b.Val
}

// bound views v as "subject op constant". Subjects that depend on a call
// are not bounded.
func bound(v Value) (Value, BinaryOp, float64, bool) {
	b, ok := v.(BinOpResult)
	if !ok || !b.Op.IsComparison() {
		return nil, 0, 0, false
	}
	cx, xConst := b.X.(Constant)
	cy, yConst := b.Y.(Constant)
	switch {
	case yConst && !xConst && !hasCall(b.X):
		return b.X, b.Op, cy.Val, true
	case xConst && !yConst && !hasCall(b.Y):
		return b.Y, b.Op.Mirror(), cx.Val, true
	}
	return nil, 0, 0, false
}

// boundImplies reports whether x op1 c1 implies x op2 c2.
func boundImplies(op1 BinaryOp, c1 float64, op2 BinaryOp, c2 float64) bool {
	switch op1 {
	case OpEq:
		return compare(op2, c1, c2)
	case OpNe:
		return op2 == OpNe && c1 == c2
	case OpLt, OpLe:
		switch op2 {
		case OpLt:
			return c1 < c2 || (c1 == c2 && op1 == OpLt)
		case OpLe:
			return c1 <= c2
		case OpNe:
			return c2 > c1 || (c2 == c1 && op1 == OpLt)
		}
	case OpGt, OpGe:
		switch op2 {
		case OpGt:
			return c1 > c2 || (c1 == c2 && op1 == OpGt)
		case OpGe:
			return c1 >= c2
		case OpNe:
			return c2 < c1 || (c2 == c1 && op1 == OpGt)
		}
	}
	return false
}

func compare(op BinaryOp, a, b float64) bool {
	switch op {
	case OpLt:
		return a < b
	case OpLe:
		return a <= b
	case OpGt:
		return a > b
	case OpGe:
		return a >= b
	case OpEq:
		return a == b
	case OpNe:
		return a != b
	}
	return false
}

func allOf(vs []Value, f func(Value) bool) bool {
	for _, v := range vs {
		if !f(v) {
			return false
		}
	}
	return true
}

func anyOf(vs []Value, f func(Value) bool) bool {
	for _, v := range vs {
		if f(v) {
			return true
		}
	}
	return false
}
