package symbolic

// children returns the direct subexpressions of e in rebuild order.
func children(e Expr) []Expr {
	switch v := e.(type) {
	case *Add:
		return v.terms
	case *Mul:
		return v.factors
	case *Pow:
		return []Expr{v.base, v.exp}
	case *Func:
		return []Expr{v.arg}
	case *Applied:
		return v.args
	case *Derivative:
		return []Expr{v.fn}
	case *At:
		return []Expr{v.expr, v.value}
	case *TensorProduct:
		return v.factors
	}
	return nil
}

// rebuild constructs a node of e's kind from new children. A derivative
// whose function was replaced by something other than an undefined
// function is evaluated on the replacement.
func rebuild(e Expr, kids []Expr) Expr {
	switch v := e.(type) {
	case *Add:
		return AddOf(kids...)
	case *Mul:
		return MulOf(kids...)
	case *Pow:
		return PowOf(kids[0], kids[1])
	case *Func:
		return funcOf(v.name, kids[0]).Simplify()
	case *Applied:
		return Apply(v.name, kids...)
	case *Derivative:
		if fn, ok := kids[0].(*Applied); ok {
			return DerivativeOf(fn, v.vars...)
		}
		out := kids[0]
		for _, x := range v.vars {
			out = Diff(out, x)
		}
		return out
	case *At:
		return AtOf(kids[0], v.varName, kids[1])
	case *TensorProduct:
		return TensorProductOf(kids...)
	}
	return e
}

// transform rewrites e top-down: fn is offered every node first and, when
// it declines, the node's children are transformed and the node rebuilt.
// Untouched subtrees are returned as-is.
func transform(e Expr, fn func(Expr) (Expr, bool)) Expr {
	if r, ok := fn(e); ok {
		return r
	}
	kids := children(e)
	if len(kids) == 0 {
		return e
	}
	mapped := make([]Expr, len(kids))
	changed := false
	for i, k := range kids {
		mapped[i] = transform(k, fn)
		if mapped[i] != k {
			changed = true
		}
	}
	if !changed {
		return e
	}
	return rebuild(e, mapped)
}

// contains reports whether pred holds for e or any of its subexpressions.
func contains(e Expr, pred func(Expr) bool) bool {
	if pred(e) {
		return true
	}
	for _, k := range children(e) {
		if contains(k, pred) {
			return true
		}
	}
	return false
}
