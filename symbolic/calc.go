package symbolic

import "sort"

// ============================================================
// Top-level helpers
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

func DiffN(expr Expr, varName string, n int) Expr {
	result := expr
	for i := 0; i < n; i++ {
		result = Diff(result, varName)
	}
	return result
}

// Expand distributes products and tensor products over sums, and small
// non-negative integer powers of sums.
func Expand(e Expr) Expr { return expandExpr(e.Simplify()).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		expanded := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			expanded[i] = expandExpr(f)
		}
		for i, f := range expanded {
			if a, ok := f.(*Add); ok {
				rest := make([]Expr, 0, len(expanded)-1)
				for j, ef := range expanded {
					if j != i {
						rest = append(rest, ef)
					}
				}
				terms := make([]Expr, len(a.terms))
				for k, t := range a.terms {
					terms[k] = expandExpr(MulOf(append([]Expr{t}, rest...)...))
				}
				return expandExpr(AddOf(terms...))
			}
		}
		return MulOf(expanded...)
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			exp, _ := smallInt(n)
			if _, isAdd := v.base.(*Add); isAdd && exp >= 0 && exp <= 10 {
				result := Expr(N(1))
				base := expandExpr(v.base)
				for i := int64(0); i < exp; i++ {
					result = distribute(result, base)
				}
				return result
			}
		}
		return PowOf(expandExpr(v.base), expandExpr(v.exp))
	case *TensorProduct:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = expandExpr(f)
		}
		for i, f := range factors {
			a, ok := f.(*Add)
			if !ok {
				continue
			}
			terms := make([]Expr, len(a.terms))
			for k, term := range a.terms {
				split := make([]Expr, len(factors))
				copy(split, factors)
				split[i] = term
				terms[k] = TensorProductOf(split...)
			}
			return expandExpr(AddOf(terms...))
		}
		return TensorProductOf(factors...)
	}
	return e
}

// distribute multiplies two expanded expressions term by term.
func distribute(a, b Expr) Expr {
	as, bs := addTerms(a), addTerms(b)
	terms := make([]Expr, 0, len(as)*len(bs))
	for _, ai := range as {
		for _, bj := range bs {
			terms = append(terms, expandExpr(MulOf(ai, bj)))
		}
	}
	return AddOf(terms...)
}

func addTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// ============================================================
// Free symbols and constancy
// ============================================================

// FreeSymbols returns the names of the symbols e depends on. Variables
// bound by an evaluation point are excluded; the variables a derivative is
// taken by are included.
func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

// FreeSymbolNames returns FreeSymbols sorted by name.
func FreeSymbolNames(e Expr) []string {
	set := FreeSymbols(e)
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Derivative:
		collectSymbols(v.fn, out)
		for _, x := range v.vars {
			out[x] = struct{}{}
		}
	case *At:
		inner := map[string]struct{}{}
		collectSymbols(v.expr, inner)
		delete(inner, v.varName)
		for k := range inner {
			out[k] = struct{}{}
		}
		collectSymbols(v.value, out)
	default:
		for _, k := range children(e) {
			collectSymbols(k, out)
		}
	}
}

// IsConstant reports whether e, once simplified, has no free symbols.
// An undefined function applied to numbers is constant.
func IsConstant(e Expr) bool { return len(FreeSymbols(e.Simplify())) == 0 }

// SymbolicEqual reports whether a - b expands to zero.
func SymbolicEqual(a, b Expr) bool {
	if a.Equal(b) {
		return true
	}
	return isZero(Expand(AddOf(a, MulOf(N(-1), b))))
}
