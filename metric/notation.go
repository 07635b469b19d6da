package metric

import (
	"sort"
	"strings"

	"github.com/njchilds90/gometric/symbolic"
)

// DefaultMaxOrder is the highest derivative order rewritten when no
// WithMaxOrder option is given.
const DefaultMaxOrder = 2

// MaxOrderLimit is the highest order accepted from configuration and tool
// calls. The rule table grows as the chart dimension to the nth power.
const MaxOrderLimit = 6

type notationOptions struct {
	maxOrder int
	useDots  bool
}

// NotationOption configures SimplifyDerivNotation.
type NotationOption func(*notationOptions)

// WithMaxOrder sets the highest derivative order rewritten. Orders below 1
// rewrite nothing.
func WithMaxOrder(n int) NotationOption {
	return func(o *notationOptions) { o.maxOrder = n }
}

// WithDots writes derivatives of single-argument components with over-dots
// instead of primes.
func WithDots() NotationOption {
	return func(o *notationOptions) { o.useDots = true }
}

// SimplifyDerivNotation rewrites partial derivatives of m's components in
// expr into shorthand: a'' or \ddot{a} for single-argument components,
// M_{r t} for the rest, and 0 for derivatives by a coordinate the
// component does not depend on. Derivatives above the maximum order and
// derivatives of anything else are left alone.
func SimplifyDerivNotation(expr symbolic.Expr, m *Metric, opts ...NotationOption) symbolic.Expr {
	o := notationOptions{maxOrder: DefaultMaxOrder}
	for _, opt := range opts {
		opt(&o)
	}
	return DerivRules(m, o.maxOrder, o.useDots).Apply(expr)
}

// DerivRules builds the rewrite table used by SimplifyDerivNotation. For
// each order n up to maxOrder, every component (by name) and every n-tuple
// of chart coordinates (in chart order, repeats allowed) gives one rule.
// Mixed partials taken in a different order are the same derivative; the
// last tuple generated for it names it, so M differentiated by r then t
// reads M_{r t}.
func DerivRules(m *Metric, maxOrder int, useDots bool) *symbolic.Substitution {
	rules := symbolic.NewSubstitution()
	if maxOrder < 1 {
		return rules
	}
	components := m.Components()
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].Name() < components[j].Name()
	})
	coordNames := m.CoordSystem().Names()

	for n := 1; n <= maxOrder; n++ {
		for _, c := range components {
			eachTuple(coordNames, n, func(vars []string) {
				rules.Put(derivative(c, vars), shorthand(c, vars, useDots))
			})
		}
	}
	return rules
}

// derivative differentiates c by vars in order, without evaluating.
func derivative(c *symbolic.Applied, vars []string) symbolic.Expr {
	var e symbolic.Expr = c
	for _, v := range vars {
		e = symbolic.Deriv(e, v)
	}
	return e
}

func shorthand(c *symbolic.Applied, vars []string, useDots bool) symbolic.Expr {
	for _, v := range vars {
		if !c.HasArg(v) {
			return symbolic.N(0)
		}
	}
	var name string
	switch {
	case c.Arity() == 1 && useDots:
		name = `\` + strings.Repeat("d", len(vars)) + "ot{" + c.Name() + "}"
	case c.Arity() == 1:
		name = c.Name() + strings.Repeat("'", len(vars))
	default:
		name = c.Name() + "_{" + strings.Join(vars, " ") + "}"
	}
	return symbolic.Apply(name, c.Args()...)
}

// eachTuple calls fn with every n-tuple over names in lexicographic
// product order. The slice passed to fn is reused between calls.
func eachTuple(names []string, n int, fn func([]string)) {
	tuple := make([]string, n)
	var rec func(pos int)
	rec = func(pos int) {
		if pos == n {
			fn(tuple)
			return
		}
		for _, name := range names {
			tuple[pos] = name
			rec(pos + 1)
		}
	}
	rec(0)
}
