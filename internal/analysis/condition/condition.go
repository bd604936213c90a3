// Package condition combines the path conditions of every failure point of
// a method into its failure condition and derives the complementary success
// condition.
package condition

import (
	"github.com/mjp2ff/aid-sub000/internal/analysis/cfg"
	"github.com/mjp2ff/aid-sub000/internal/analysis/paths"
	"github.com/mjp2ff/aid-sub000/internal/analysis/symexec"
	"github.com/mjp2ff/aid-sub000/internal/symbolic"
	"github.com/mjp2ff/aid-sub000/internal/tree"
)

// DefaultMaxExpansion bounds the number of products the success condition
// may expand to.
const DefaultMaxExpansion = 1000

// Status tells how a Result was obtained.
type Status int

const (
	// StatusDerived: Condition holds the success condition.
	StatusDerived Status = iota
	// StatusNoFailures: the method has no reachable, satisfiable failure.
	StatusNoFailures
	// StatusPathLimit: some failure point has more paths than allowed.
	StatusPathLimit
	// StatusExpansionLimit: the success condition would expand past the
	// allowed number of products.
	StatusExpansionLimit
)

var statusNames = [...]string{
	StatusDerived:        "derived",
	StatusNoFailures:     "no failures",
	StatusPathLimit:      "path limit exceeded",
	StatusExpansionLimit: "expansion limit exceeded",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Options bound the analysis. Zero values select the defaults.
type Options struct {
	MaxPaths     int
	MaxExpansion int
	// KeepAllConditions keeps branch conditions that cannot influence
	// whether a failure point is reached.
	KeepAllConditions bool
}

func (o Options) withDefaults() Options {
	if o.MaxPaths <= 0 {
		o.MaxPaths = paths.DefaultLimit
	}
	if o.MaxExpansion <= 0 {
		o.MaxExpansion = DefaultMaxExpansion
	}
	return o
}

// Result is the outcome of Derive. Condition is nil unless Status is
// StatusDerived; a nil Condition means "unknown", never "always succeeds".
type Result struct {
	Condition symbolic.Value
	// Failure is the simplified disjunction of the failure paths' conditions.
	// It is nil when no failure path could be combined.
	Failure       symbolic.Value
	Status        Status
	FailurePoints int
	Paths         int
	// Expansion is the number of products the success condition expands
	// to, or would have expanded to.
	Expansion int
	// Partial is set when some failure path passes a branch whose choice
	// its product leaves out: an exception edge, a for-each header or a
	// condition dropped as irrelevant.
	Partial bool
}

// Analyze builds the control flow graph of t, collects the paths to every
// reachable failure point and derives the success condition.
func Analyze(t *tree.Tree, opts Options) Result {
	opts = opts.withDefaults()
	g := cfg.Build(t)
	return Derive(t, t.Scope(), paths.ToFailures(g, opts.MaxPaths), opts)
}

// Derive executes every path of failures and combines the results.
//
// The per-path conjunctions form the failure condition, a sum of products,
// which is simplified. Each remaining product is negated into a sum and the
// product of those sums is expanded back into a sum of products: the success
// condition.
func Derive(t *tree.Tree, scope []tree.VarID, failures []paths.Set, opts Options) Result {
	opts = opts.withDefaults()
	res := Result{FailurePoints: len(failures)}

	var products []symbolic.BooleanAndList
	for _, set := range failures {
		res.Paths += len(set.Paths)
		if set.Truncated {
			res.Status = StatusPathLimit
			return res
		}
		for _, p := range set.Paths {
			product := symexec.ExecuteWithOptions(t, scope, p, symexec.Options{
				KeepAll: opts.KeepAllConditions,
			})
			if p.Unguarded() || len(product.Terms) < conditions(p) {
				res.Partial = true
			}
			products = append(products, product)
		}
	}

	failure := symbolic.Simplify(symbolic.SumOfProducts{Products: products}).(symbolic.SumOfProducts)
	if len(failure.Products) == 0 {
		res.Status = StatusNoFailures
		return res
	}
	res.Failure = failure

	pos := symbolic.ProductOfSums{Sums: make([]symbolic.BooleanOrList, len(failure.Products))}
	for i, p := range failure.Products {
		pos.Sums[i] = symbolic.NotProduct(p)
	}
	res.Expansion = pos.ExpansionSize()
	if res.Expansion > opts.MaxExpansion {
		res.Status = StatusExpansionLimit
		return res
	}

	res.Condition = symbolic.Simplify(pos.ToSumOfProducts())
	res.Status = StatusDerived
	return res
}

func conditions(p paths.Path) int {
	n := 0
	for _, e := range p {
		if e.Cond {
			n++
		}
	}
	return n
}

// NeverSucceeds reports whether every path through the method reaches a
// failure point. It is only claimed when the failure paths describe every
// branch they take.
func (r Result) NeverSucceeds() bool {
	if r.Status != StatusDerived || r.Partial {
		return false
	}
	sop, ok := r.Condition.(symbolic.SumOfProducts)
	return ok && len(sop.Products) == 0
}
