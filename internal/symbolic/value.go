// Package symbolic implements the value algebra used to describe the
// conditions under which a method reaches a failure point.
//
// The set of values is closed: every Value is one of the types declared in
// this file. Negate, Not, Simplify and Implies switch over them exhaustively.
package symbolic

import (
	"strconv"
	"strings"

	"github.com/mjp2ff/aid-sub000/internal/tree"
)

// Value is a symbolic value.
type Value interface {
	isValue()
	String() string
	Equal(other Value) bool
}

// InitialValue is the value a variable holds when the method is entered.
type InitialValue struct {
	Var  tree.VarID
	Name string
}

// Constant is a numeric literal.
type Constant struct {
	Val float64
}

type BooleanValue struct {
	Val bool
}

type CharacterValue struct {
	Val rune
}

type StringValue struct {
	Val string
}

type NullValue struct{}

// ExternalValue is state the analysis cannot see into: fields, qualified
// names, `this`, unresolved identifiers.
type ExternalValue struct {
	Name string
}

// SubroutineResult is the opaque result of a call.
type SubroutineResult struct {
	Name string
	Args []Value
}

type UnOpResult struct {
	Op UnaryOp
	X  Value
}

type BinOpResult struct {
	Op BinaryOp
	X  Value
	Y  Value
}

// BooleanAndList is a conjunction. An empty list is true.
type BooleanAndList struct {
	Terms []Value
}

// BooleanOrList is a disjunction. An empty list is false.
type BooleanOrList struct {
	Terms []Value
}

// SumOfProducts is a formula in disjunctive normal form. No products means
// false.
type SumOfProducts struct {
	Products []BooleanAndList
}

// ProductOfSums is a formula in conjunctive normal form. No sums means true.
type ProductOfSums struct {
	Sums []BooleanOrList
}

func (InitialValue) isValue()     {}
func (Constant) isValue()         {}
func (BooleanValue) isValue()     {}
func (CharacterValue) isValue()   {}
func (StringValue) isValue()      {}
func (NullValue) isValue()        {}
func (ExternalValue) isValue()    {}
func (SubroutineResult) isValue() {}
func (UnOpResult) isValue()       {}
func (BinOpResult) isValue()      {}
func (BooleanAndList) isValue()   {}
func (BooleanOrList) isValue()    {}
func (SumOfProducts) isValue()    {}
func (ProductOfSums) isValue()    {}

// Constructors

func And(terms ...Value) BooleanAndList { return BooleanAndList{Terms: terms} }

func Or(terms ...Value) BooleanOrList { return BooleanOrList{Terms: terms} }

func Num(v float64) Constant { return Constant{Val: v} }

func Bool(v bool) BooleanValue { return BooleanValue{Val: v} }

func Compare(op BinaryOp, x, y Value) BinOpResult { return BinOpResult{Op: op, X: x, Y: y} }

// Equality. Lists compare as multisets: term order does not matter.

func (v InitialValue) Equal(other Value) bool {
	o, ok := other.(InitialValue)
	return ok && o.Var == v.Var && o.Name == v.Name
}

func (v Constant) Equal(other Value) bool {
	o, ok := other.(Constant)
	return ok && o.Val == v.Val
}

func (v BooleanValue) Equal(other Value) bool {
	o, ok := other.(BooleanValue)
	return ok && o.Val == v.Val
}

func (v CharacterValue) Equal(other Value) bool {
	o, ok := other.(CharacterValue)
	return ok && o.Val == v.Val
}

func (v StringValue) Equal(other Value) bool {
	o, ok := other.(StringValue)
	return ok && o.Val == v.Val
}

func (NullValue) Equal(other Value) bool {
	_, ok := other.(NullValue)
	return ok
}

func (v ExternalValue) Equal(other Value) bool {
	o, ok := other.(ExternalValue)
	return ok && o.Name == v.Name
}

func (v SubroutineResult) Equal(other Value) bool {
	o, ok := other.(SubroutineResult)
	if !ok || o.Name != v.Name || len(o.Args) != len(v.Args) {
		return false
	}
	for i := range v.Args {
		if !v.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

func (v UnOpResult) Equal(other Value) bool {
	o, ok := other.(UnOpResult)
	return ok && o.Op == v.Op && v.X.Equal(o.X)
}

func (v BinOpResult) Equal(other Value) bool {
	o, ok := other.(BinOpResult)
	return ok && o.Op == v.Op && v.X.Equal(o.X) && v.Y.Equal(o.Y)
}

func (v BooleanAndList) Equal(other Value) bool {
	o, ok := other.(BooleanAndList)
	return ok && sameTerms(v.Terms, o.Terms)
}

func (v BooleanOrList) Equal(other Value) bool {
	o, ok := other.(BooleanOrList)
	return ok && sameTerms(v.Terms, o.Terms)
}

func (v SumOfProducts) Equal(other Value) bool {
	o, ok := other.(SumOfProducts)
	return ok && sameTerms(products(v.Products), products(o.Products))
}

func (v ProductOfSums) Equal(other Value) bool {
	o, ok := other.(ProductOfSums)
	return ok && sameTerms(sums(v.Sums), sums(o.Sums))
}

func sameTerms(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, x := range a {
		found := false
		for j, y := range b {
			if !used[j] && x.Equal(y) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func products(ps []BooleanAndList) []Value {
	out := make([]Value, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

func sums(ss []BooleanOrList) []Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// Rendering. Operators are spelled out for presentation.

func (v InitialValue) String() string { return v.Name }

func (v Constant) String() string { return strconv.FormatFloat(v.Val, 'g', -1, 64) }

func (v BooleanValue) String() string { return strconv.FormatBool(v.Val) }

func (v CharacterValue) String() string { return strconv.QuoteRune(v.Val) }

func (v StringValue) String() string { return strconv.Quote(v.Val) }

func (NullValue) String() string { return "null" }

func (v ExternalValue) String() string { return v.Name }

func (v SubroutineResult) String() string {
	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		args[i] = a.String()
	}
	return v.Name + "(" + strings.Join(args, ", ") + ")"
}

func (v UnOpResult) String() string {
	return v.Op.String() + " " + operand(v.X)
}

func (v BinOpResult) String() string {
	return operand(v.X) + " " + v.Op.String() + " " + operand(v.Y)
}

func (v BooleanAndList) String() string {
	if len(v.Terms) == 0 {
		return "true"
	}
	return join(v.Terms, " and ")
}

func (v BooleanOrList) String() string {
	if len(v.Terms) == 0 {
		return "false"
	}
	return join(v.Terms, " or ")
}

func (v SumOfProducts) String() string {
	if len(v.Products) == 0 {
		return "false"
	}
	return join(products(v.Products), " or ")
}

func (v ProductOfSums) String() string {
	if len(v.Sums) == 0 {
		return "true"
	}
	return join(sums(v.Sums), " and ")
}

func join(terms []Value, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = term(t)
	}
	return strings.Join(parts, sep)
}

// term renders a member of a connective, parenthesizing nested connectives
// with more than one term.
func term(v Value) string {
	n := -1
	switch x := v.(type) {
	case BooleanAndList:
		n = len(x.Terms)
	case BooleanOrList:
		n = len(x.Terms)
	case SumOfProducts:
		n = len(x.Products)
	case ProductOfSums:
		n = len(x.Sums)
	}
	if n > 1 {
		return "(" + v.String() + ")"
	}
	return v.String()
}

// operand renders an operator operand, parenthesizing anything that is not
// an atom.
func operand(v Value) string {
	switch v.(type) {
	case BinOpResult, UnOpResult, BooleanAndList, BooleanOrList, SumOfProducts, ProductOfSums:
		return "(" + v.String() + ")"
	}
	return v.String()
}
