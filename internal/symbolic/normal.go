package symbolic

import "math"

// ExpansionSize returns the number of products ToSumOfProducts would
// produce: the product of the sums' term counts, saturating at math.MaxInt.
func (p ProductOfSums) ExpansionSize() int {
	return expansionSize(len(p.Sums), func(i int) int { return len(p.Sums[i].Terms) })
}

// ExpansionSize returns the number of sums ToProductOfSums would produce.
func (s SumOfProducts) ExpansionSize() int {
	return expansionSize(len(s.Products), func(i int) int { return len(s.Products[i].Terms) })
}

func expansionSize(n int, width func(int) int) int {
	size := 1
	for i := 0; i < n; i++ {
		w := width(i)
		if w == 0 {
			return 0
		}
		if size > math.MaxInt/w {
			return math.MaxInt
		}
		size *= w
	}
	return size
}

// ToSumOfProducts distributes the conjunction over its disjunctions: one
// product per way of choosing a term from every sum. A sum without terms is
// false, so the result is then the empty (false) sum of products.
func (p ProductOfSums) ToSumOfProducts() SumOfProducts {
	picks := cartesian(len(p.Sums), func(i int) []Value { return p.Sums[i].Terms })
	out := make([]BooleanAndList, len(picks))
	for i, terms := range picks {
		out[i] = BooleanAndList{Terms: terms}
	}
	return SumOfProducts{Products: out}
}

// ToProductOfSums distributes the disjunction over its conjunctions. A
// product without terms is true, so the result is then the empty (true)
// product of sums.
func (s SumOfProducts) ToProductOfSums() ProductOfSums {
	picks := cartesian(len(s.Products), func(i int) []Value { return s.Products[i].Terms })
	out := make([]BooleanOrList, len(picks))
	for i, terms := range picks {
		out[i] = BooleanOrList{Terms: terms}
	}
	return ProductOfSums{Sums: out}
}

func cartesian(n int, group func(int) []Value) [][]Value {
	acc := [][]Value{{}}
	for i := 0; i < n; i++ {
		terms := group(i)
		next := make([][]Value, 0, len(acc)*len(terms))
		for _, prefix := range acc {
			for _, t := range terms {
				pick := make([]Value, len(prefix), len(prefix)+1)
				copy(pick, prefix)
				next = append(next, append(pick, t))
			}
		}
		acc = next
	}
	return acc
}
