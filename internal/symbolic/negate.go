package symbolic

// Negate returns the structural negation of v. Comparisons are replaced by
// their complement, connectives swap kind (De Morgan), booleans flip and
// `not x` yields x.
//
// Values whose negation cannot be expressed without more context (numbers,
// strings, opaque references, call results, arithmetic) are returned
// unchanged. Callers must read that as "negation unknown"; use Not when the
// polarity has to be preserved.
func Negate(v Value) Value {
	switch x := v.(type) {
	case BooleanValue:
		return BooleanValue{Val: !x.Val}
	case BinOpResult:
		if x.Op.IsComparison() {
			return BinOpResult{Op: x.Op.Complement(), X: x.X, Y: x.Y}
		}
	case UnOpResult:
		if x.Op == OpNot {
			return x.X
		}
	case BooleanAndList:
		return BooleanOrList{Terms: mapTerms(x.Terms, Negate)}
	case BooleanOrList:
		return BooleanAndList{Terms: mapTerms(x.Terms, Negate)}
	case SumOfProducts:
		return ProductOfSums{Sums: negateProducts(x.Products, Negate)}
	case ProductOfSums:
		return SumOfProducts{Products: negateSums(x.Sums, Negate)}
	}
	return v
}

// Not is Negate for boolean contexts: where Negate would return the value
// unchanged, Not wraps it in `not`.
func Not(v Value) Value {
	switch x := v.(type) {
	case BooleanValue:
		return BooleanValue{Val: !x.Val}
	case BinOpResult:
		if x.Op.IsComparison() {
			return BinOpResult{Op: x.Op.Complement(), X: x.X, Y: x.Y}
		}
	case UnOpResult:
		if x.Op == OpNot {
			return x.X
		}
	case BooleanAndList:
		return BooleanOrList{Terms: mapTerms(x.Terms, Not)}
	case BooleanOrList:
		return BooleanAndList{Terms: mapTerms(x.Terms, Not)}
	case SumOfProducts:
		return ProductOfSums{Sums: negateProducts(x.Products, Not)}
	case ProductOfSums:
		return SumOfProducts{Products: negateSums(x.Sums, Not)}
	}
	return UnOpResult{Op: OpNot, X: v}
}

// NotProduct negates a conjunction term by term.
func NotProduct(p BooleanAndList) BooleanOrList {
	return BooleanOrList{Terms: mapTerms(p.Terms, Not)}
}

// NotSum negates a disjunction term by term.
func NotSum(s BooleanOrList) BooleanAndList {
	return BooleanAndList{Terms: mapTerms(s.Terms, Not)}
}

func mapTerms(terms []Value, f func(Value) Value) []Value {
	out := make([]Value, len(terms))
	for i, t := range terms {
		out[i] = f(t)
	}
	return out
}

func negateProducts(ps []BooleanAndList, f func(Value) Value) []BooleanOrList {
	out := make([]BooleanOrList, len(ps))
	for i, p := range ps {
		out[i] = BooleanOrList{Terms: mapTerms(p.Terms, f)}
	}
	return out
}

func negateSums(ss []BooleanOrList, f func(Value) Value) []BooleanAndList {
	out := make([]BooleanAndList, len(ss))
	for i, s := range ss {
		out[i] = BooleanAndList{Terms: mapTerms(s.Terms, f)}
	}
	return out
}
