package symbolic

// Simplify returns an equivalent, smaller form of v. Atoms are returned as
// is. Comparisons of constants are folded. Connectives are simplified term by
// term, flattened, cleared of neutral booleans, exact duplicates and terms
// made redundant by another term. Simplify is idempotent.
//
// This is pruning, not minimization: the result is equivalent to v but not
// necessarily the smallest such formula.
func Simplify(v Value) Value {
	switch x := v.(type) {
	case BinOpResult:
		return simplifyBinOp(x)
	case UnOpResult:
		return simplifyUnOp(x)
	case SubroutineResult:
		if len(x.Args) == 0 {
			return x
		}
		return SubroutineResult{Name: x.Name, Args: mapTerms(x.Args, Simplify)}
	case BooleanAndList:
		return simplifyAnd(x)
	case BooleanOrList:
		return simplifyOr(x)
	case SumOfProducts:
		return simplifySOP(x)
	case ProductOfSums:
		return simplifyPOS(x)
	}
	return v
}

func simplifyBinOp(b BinOpResult) Value {
	x, y := Simplify(b.X), Simplify(b.Y)
	cx, xConst := x.(Constant)
	cy, yConst := y.(Constant)

	if xConst && yConst {
		if b.Op.IsComparison() {
			return BooleanValue{Val: compare(b.Op, cx.Val, cy.Val)}
		}
		switch b.Op {
		case OpAdd:
			return Constant{Val: cx.Val + cy.Val}
		case OpSub:
			return Constant{Val: cx.Val - cy.Val}
		case OpMul:
			return Constant{Val: cx.Val * cy.Val}
		}
	}

	if b.Op == OpEq || b.Op == OpNe {
		// flag == true, flag != false, null == null, ...
		if bx, ok := x.(BooleanValue); ok {
			x, y = y, bx
		}
		if by, ok := y.(BooleanValue); ok {
			if by.Val == (b.Op == OpEq) {
				return x
			}
			return Simplify(Not(x))
		}
		if _, ok := x.(NullValue); ok {
			if _, ok := y.(NullValue); ok {
				return BooleanValue{Val: b.Op == OpEq}
			}
		}
	}

	if b.Op.IsComparison() && xConst && !yConst {
		return BinOpResult{Op: b.Op.Mirror(), X: y, Y: x}
	}
	return BinOpResult{Op: b.Op, X: x, Y: y}
}

func simplifyUnOp(u UnOpResult) Value {
	x := Simplify(u.X)
	switch u.Op {
	case OpNot:
		switch inner := x.(type) {
		case BooleanValue:
			return BooleanValue{Val: !inner.Val}
		case UnOpResult:
			if inner.Op == OpNot {
				return inner.X
			}
		case BinOpResult:
			if inner.Op.IsComparison() {
				return Not(inner)
			}
		case BooleanAndList, BooleanOrList, SumOfProducts, ProductOfSums:
			return Simplify(Not(inner))
		}
	case OpNeg:
		switch inner := x.(type) {
		case Constant:
			return Constant{Val: -inner.Val}
		case UnOpResult:
			if inner.Op == OpNeg {
				return inner.X
			}
		}
	case OpPos:
		if _, ok := x.(Constant); ok {
			return x
		}
	}
	return UnOpResult{Op: u.Op, X: x}
}

func falseProduct() BooleanAndList {
	return BooleanAndList{Terms: []Value{BooleanValue{Val: false}}}
}

func trueSum() BooleanOrList {
	return BooleanOrList{Terms: []Value{BooleanValue{Val: true}}}
}

func simplifyAnd(l BooleanAndList) BooleanAndList {
	var terms []Value
	var add func(v Value)
	add = func(v Value) {
		switch y := v.(type) {
		case BooleanAndList:
			for _, t := range y.Terms {
				add(t)
			}
			return
		case BooleanOrList:
			if len(y.Terms) == 1 {
				add(y.Terms[0])
				return
			}
		}
		terms = append(terms, v)
	}
	for _, t := range l.Terms {
		add(Simplify(t))
	}

	kept := make([]Value, 0, len(terms))
	for _, t := range terms {
		if isTrue(t) {
			continue
		}
		if isFalse(t) || isEmptyOr(t) {
			return falseProduct()
		}
		kept = append(kept, t)
	}
	kept = dedupe(kept)
	for i := range kept {
		for j := i + 1; j < len(kept); j++ {
			if Contradicts(kept[i], kept[j]) {
				return falseProduct()
			}
		}
	}
	return BooleanAndList{Terms: prune(kept, func(a, b Value) bool { return Implies(b, a) })}
}

func simplifyOr(l BooleanOrList) BooleanOrList {
	var terms []Value
	var add func(v Value)
	add = func(v Value) {
		switch y := v.(type) {
		case BooleanOrList:
			for _, t := range y.Terms {
				add(t)
			}
			return
		case BooleanAndList:
			if len(y.Terms) == 1 {
				add(y.Terms[0])
				return
			}
		}
		terms = append(terms, v)
	}
	for _, t := range l.Terms {
		add(Simplify(t))
	}

	kept := make([]Value, 0, len(terms))
	for _, t := range terms {
		if isFalse(t) {
			continue
		}
		if isTrue(t) || isEmptyAnd(t) {
			return trueSum()
		}
		kept = append(kept, t)
	}
	kept = dedupe(kept)
	for i := range kept {
		for j := i + 1; j < len(kept); j++ {
			if !hasCall(kept[i]) && !hasCall(kept[j]) && Implies(Not(kept[i]), kept[j]) {
				return trueSum()
			}
		}
	}
	return BooleanOrList{Terms: prune(kept, Implies)}
}

// simplifySOP drops unsatisfiable products, duplicates and products absorbed
// by a weaker one.
func simplifySOP(s SumOfProducts) SumOfProducts {
	kept := make([]Value, 0, len(s.Products))
	for _, p := range s.Products {
		sp := simplifyAnd(p)
		if isFalseProduct(sp) {
			continue
		}
		if len(sp.Terms) == 0 {
			return SumOfProducts{Products: []BooleanAndList{{}}}
		}
		kept = append(kept, sp)
	}
	kept = prune(dedupe(kept), Implies)
	out := make([]BooleanAndList, len(kept))
	for i, p := range kept {
		out[i] = p.(BooleanAndList)
	}
	return SumOfProducts{Products: out}
}

// simplifyPOS drops tautological sums, duplicates and sums absorbed by a
// stronger one.
func simplifyPOS(p ProductOfSums) ProductOfSums {
	kept := make([]Value, 0, len(p.Sums))
	for _, s := range p.Sums {
		ss := simplifyOr(s)
		if isTrueSum(ss) {
			continue
		}
		if len(ss.Terms) == 0 {
			return ProductOfSums{Sums: []BooleanOrList{{}}}
		}
		kept = append(kept, ss)
	}
	kept = prune(dedupe(kept), func(a, b Value) bool { return Implies(b, a) })
	out := make([]BooleanOrList, len(kept))
	for i, s := range kept {
		out[i] = s.(BooleanOrList)
	}
	return ProductOfSums{Sums: out}
}

func isFalseProduct(p BooleanAndList) bool {
	return len(p.Terms) == 1 && isFalse(p.Terms[0])
}

func isTrueSum(s BooleanOrList) bool {
	return len(s.Terms) == 1 && isTrue(s.Terms[0])
}

func isEmptyOr(v Value) bool {
	o, ok := v.(BooleanOrList)
	return ok && len(o.Terms) == 0
}

func isEmptyAnd(v Value) bool {
	a, ok := v.(BooleanAndList)
	return ok && len(a.Terms) == 0
}

// dedupe removes exact duplicates, keeping the first occurrence.
func dedupe(terms []Value) []Value {
	out := make([]Value, 0, len(terms))
	for _, t := range terms {
		dup := false
		for _, k := range out {
			if k.Equal(t) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}

// prune removes every term a for which another term b makes it redundant.
// When two terms make each other redundant the earlier one is kept.
func prune(terms []Value, redundant func(a, b Value) bool) []Value {
	out := make([]Value, 0, len(terms))
	for i, a := range terms {
		drop := false
		for j, b := range terms {
			if i == j || !redundant(a, b) {
				continue
			}
			if j < i || !redundant(b, a) {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, a)
		}
	}
	return out
}
