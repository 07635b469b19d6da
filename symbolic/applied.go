package symbolic

import (
	"fmt"
	"sort"
	"strings"
)

// ============================================================
// Applied: undefined function applied to arguments
// ============================================================

// Applied is an undefined function of one or more arguments, such as the
// metric component M(t, r). Nothing is known about it beyond its name and
// arguments; differentiating it produces Derivative nodes.
type Applied struct {
	name string
	args []Expr
}

// Apply builds the undefined function name applied to args.
func Apply(name string, args ...Expr) *Applied {
	simplified := make([]Expr, len(args))
	for i, a := range args {
		simplified[i] = a.Simplify()
	}
	return &Applied{name: name, args: simplified}
}

func (f *Applied) Simplify() Expr { return Apply(f.name, f.args...) }

func (f *Applied) String() string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.String()
	}
	return f.name + "(" + strings.Join(parts, ", ") + ")"
}

func (f *Applied) LaTeX() string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.LaTeX()
	}
	return latexName(f.name) + "\\left(" + strings.Join(parts, ", ") + "\\right)"
}

func (f *Applied) Sub(varName string, value Expr) Expr { return f.subst(varName, value) }

func (f *Applied) subst(varName string, value Expr) *Applied {
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		args[i] = a.Sub(varName, value)
	}
	return Apply(f.name, args...)
}

func (f *Applied) Diff(varName string) Expr { return chainRule(f, nil, varName) }
func (f *Applied) Eval() (*Num, bool)       { return nil, false }

func (f *Applied) Equal(other Expr) bool {
	o, ok := other.(*Applied)
	return ok && f.name == o.name && equalSlices(f.args, o.args)
}

func (f *Applied) exprType() string { return "applied" }
func (f *Applied) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "applied", "name": f.name, "args": jsonList(f.args)}
}

func (f *Applied) Name() string  { return f.name }
func (f *Applied) Args() []Expr  { return append([]Expr(nil), f.args...) }
func (f *Applied) Arity() int    { return len(f.args) }

// HasArg reports whether the symbol called name is one of f's arguments.
func (f *Applied) HasArg(name string) bool { return f.argIndex(name) < len(f.args) }

func (f *Applied) argIndex(name string) int {
	for i, a := range f.args {
		if s, ok := a.(*Sym); ok && s.name == name {
			return i
		}
	}
	return len(f.args)
}

func (f *Applied) withArg(i int, arg Expr) *Applied {
	args := f.Args()
	args[i] = arg
	return Apply(f.name, args...)
}

func slotVar(i int) string { return fmt.Sprintf("_x%d", i+1) }

// chainRule differentiates fn, already differentiated by vars, once more by
// varName. Symbol arguments extend the derivative directly; any other
// argument goes through a slot variable evaluated at that argument.
func chainRule(fn *Applied, vars []string, varName string) Expr {
	var terms []Expr
	seen := false
	for i, arg := range fn.args {
		if s, ok := arg.(*Sym); ok {
			if s.name == varName && !seen {
				seen = true
				terms = append(terms, DerivativeOf(fn, appendVar(vars, varName)...))
			}
			continue
		}
		da := Diff(arg, varName)
		if isZero(da) {
			continue
		}
		slot := slotVar(i)
		partial := AtOf(DerivativeOf(fn.withArg(i, S(slot)), appendVar(vars, slot)...), slot, arg)
		terms = append(terms, MulOf(da, partial))
	}
	return AddOf(terms...)
}

func appendVar(vars []string, v string) []string {
	out := make([]string, len(vars), len(vars)+1)
	copy(out, vars)
	return append(out, v)
}

// ============================================================
// Derivative: unevaluated partial derivative
// ============================================================

// Derivative is the partial derivative of an undefined function with
// respect to an ordered multiset of variables. Mixed partials commute:
// variables are kept in the order the function takes them as arguments,
// followed by any non-argument variables by name.
type Derivative struct {
	fn   *Applied
	vars []string
}

// DerivativeOf builds the derivative without evaluating it, even when a
// variable is not an argument of fn.
func DerivativeOf(fn *Applied, vars ...string) *Derivative {
	if len(vars) == 0 {
		panic("symbolic: DerivativeOf needs at least one variable")
	}
	vs := append([]string(nil), vars...)
	sort.SliceStable(vs, func(i, j int) bool {
		pi, pj := fn.argIndex(vs[i]), fn.argIndex(vs[j])
		if pi != pj {
			return pi < pj
		}
		return vs[i] < vs[j]
	})
	return &Derivative{fn: fn, vars: vs}
}

// Deriv differentiates e once by varName without evaluating: applied
// functions and derivatives stay unevaluated, everything else is
// differentiated normally.
func Deriv(e Expr, varName string) Expr {
	switch f := e.(type) {
	case *Applied:
		return DerivativeOf(f, varName)
	case *Derivative:
		return DerivativeOf(f.fn, appendVar(f.vars, varName)...)
	}
	return Diff(e, varName)
}

func (d *Derivative) Simplify() Expr {
	return DerivativeOf(Apply(d.fn.name, d.fn.args...), d.vars...)
}

func (d *Derivative) String() string {
	return "Derivative(" + d.fn.String() + ", " + strings.Join(d.vars, ", ") + ")"
}

func (d *Derivative) LaTeX() string {
	num := "\\partial"
	if len(d.vars) > 1 {
		num = fmt.Sprintf("\\partial^{%d}", len(d.vars))
	}
	var den strings.Builder
	for i := 0; i < len(d.vars); {
		j := i
		for j < len(d.vars) && d.vars[j] == d.vars[i] {
			j++
		}
		den.WriteString("\\partial " + latexName(d.vars[i]))
		if j-i > 1 {
			den.WriteString(fmt.Sprintf("^{%d}", j-i))
		}
		i = j
	}
	return "\\frac{" + num + "}{" + den.String() + "} " + d.fn.LaTeX()
}

// Sub substitutes into the function's arguments. Substituting a
// differentiated variable evaluates the derivative at that point.
func (d *Derivative) Sub(varName string, value Expr) Expr {
	for _, v := range d.vars {
		if v == varName {
			return (&At{expr: d, varName: varName, value: value}).Simplify()
		}
	}
	return DerivativeOf(d.fn.subst(varName, value), d.vars...)
}

func (d *Derivative) Diff(varName string) Expr { return chainRule(d.fn, d.vars, varName) }
func (d *Derivative) Eval() (*Num, bool)       { return nil, false }

// Doit evaluates the derivative: it is 0 when a variable is not among the
// function's arguments.
func (d *Derivative) Doit() Expr {
	var out Expr = d.fn
	for _, v := range d.vars {
		out = Diff(out, v)
	}
	return out
}

func (d *Derivative) Equal(other Expr) bool {
	o, ok := other.(*Derivative)
	if !ok || !d.fn.Equal(o.fn) || len(d.vars) != len(o.vars) {
		return false
	}
	for i := range d.vars {
		if d.vars[i] != o.vars[i] {
			return false
		}
	}
	return true
}

func (d *Derivative) exprType() string { return "derivative" }
func (d *Derivative) toJSON() map[string]interface{} {
	vars := make([]interface{}, len(d.vars))
	for i, v := range d.vars {
		vars[i] = v
	}
	return map[string]interface{}{"type": "derivative", "fn": d.fn.toJSON(), "vars": vars}
}

func (d *Derivative) Function() *Applied { return d.fn }
func (d *Derivative) Vars() []string      { return append([]string(nil), d.vars...) }
func (d *Derivative) Order() int          { return len(d.vars) }

// ============================================================
// At: expression evaluated at a point
// ============================================================

// At holds expr evaluated at varName = value where expr is differentiated
// by varName, so the substitution cannot be carried out symbolically.
type At struct {
	expr    Expr
	varName string
	value   Expr
}

func AtOf(expr Expr, varName string, value Expr) Expr {
	return (&At{expr: expr, varName: varName, value: value}).Simplify()
}

func (a *At) Simplify() Expr {
	e := a.expr.Simplify()
	v := a.value.Simplify()
	if s, ok := v.(*Sym); ok && s.name == a.varName {
		return e
	}
	if !differentiatedBy(e, a.varName) {
		return e.Sub(a.varName, v).Simplify()
	}
	return &At{expr: e, varName: a.varName, value: v}
}

func differentiatedBy(e Expr, varName string) bool {
	return contains(e, func(x Expr) bool {
		d, ok := x.(*Derivative)
		if !ok {
			return false
		}
		for _, v := range d.vars {
			if v == varName {
				return true
			}
		}
		return false
	})
}

func (a *At) String() string {
	return "Subs(" + a.expr.String() + ", " + a.varName + ", " + a.value.String() + ")"
}

func (a *At) LaTeX() string {
	return "\\left. " + a.expr.LaTeX() + " \\right|_{" + latexName(a.varName) + "=" + a.value.LaTeX() + "}"
}

func (a *At) Sub(varName string, value Expr) Expr {
	if varName == a.varName {
		return AtOf(a.expr, a.varName, a.value.Sub(varName, value))
	}
	return AtOf(a.expr.Sub(varName, value), a.varName, a.value.Sub(varName, value))
}

// Diff applies the chain rule through the evaluation point.
func (a *At) Diff(varName string) Expr {
	var terms []Expr
	if dv := Diff(a.value, varName); !isZero(dv) {
		terms = append(terms, MulOf(AtOf(Diff(a.expr, a.varName), a.varName, a.value), dv))
	}
	if varName != a.varName {
		terms = append(terms, AtOf(Diff(a.expr, varName), a.varName, a.value))
	}
	return AddOf(terms...)
}

func (a *At) Eval() (*Num, bool) { return nil, false }

func (a *At) Equal(other Expr) bool {
	o, ok := other.(*At)
	return ok && a.varName == o.varName && a.expr.Equal(o.expr) && a.value.Equal(o.value)
}

func (a *At) exprType() string { return "at" }
func (a *At) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "at", "expr": a.expr.toJSON(), "var": a.varName, "value": a.value.toJSON()}
}

func (a *At) Inner() Expr     { return a.expr }
func (a *At) VarName() string { return a.varName }
func (a *At) Value() Expr     { return a.value }
