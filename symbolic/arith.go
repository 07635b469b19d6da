package symbolic

import (
	"math"
	"sort"
	"strings"
)

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds numbers and combines terms that
// differ only in their rational coefficient. Terms are ordered by their
// printed form with the numeric constant last.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	constant := N(0)
	coeffs := map[string]*Num{}
	bodies := map[string]Expr{}
	keys := []string{}
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			constant = numAdd(constant, n)
			continue
		}
		coeff, body := extractCoefficient(t)
		k := body.String()
		if _, seen := coeffs[k]; !seen {
			keys = append(keys, k)
			coeffs[k] = N(0)
			bodies[k] = body
		}
		coeffs[k] = numAdd(coeffs[k], coeff)
	}
	sort.Strings(keys)
	result := make([]Expr, 0, len(keys)+1)
	for _, k := range keys {
		c := coeffs[k]
		switch {
		case c.IsZero():
			continue
		case c.IsOne():
			result = append(result, bodies[k])
		default:
			result = append(result, MulOf(c, bodies[k]))
		}
	}
	if !constant.IsZero() {
		result = append(result, constant)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		s := t.String()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		s := t.LaTeX()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && equalSlices(a.terms, o.terms)
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "add", "terms": jsonList(a.terms)}
}
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds the numeric coefficient and
// merges scalar factors sharing a base by adding their exponents. Scalar
// factors are ordered by printed form; form-valued factors keep their
// relative order and come last.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	var forms []Expr
	bases := map[string]Expr{}
	exps := map[string][]Expr{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		if isForm(f) {
			forms = append(forms, f)
			continue
		}
		base, exp := splitPow(f)
		k := base.String()
		if _, seen := bases[k]; !seen {
			order = append(order, k)
			bases[k] = base
		}
		exps[k] = append(exps[k], exp)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := make([]Expr, 0, len(order))
	var regroup []Expr
	for _, k := range order {
		var p Expr
		if len(exps[k]) == 1 {
			p = PowOf(bases[k], exps[k][0])
		} else {
			p = PowOf(bases[k], AddOf(exps[k]...))
		}
		switch v := p.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			regroup = append(regroup, v.factors...)
		default:
			others = append(others, p)
		}
	}
	if len(regroup) > 0 {
		all := append([]Expr{coeff}, regroup...)
		all = append(all, others...)
		return MulOf(append(all, forms...)...)
	}
	if coeff.IsZero() {
		return N(0)
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	rest := make([]Expr, 0, len(ks)+len(forms))
	for i := range ks {
		rest = append(rest, ks[i].e)
	}
	rest = append(rest, forms...)

	if len(rest) == 0 {
		return coeff
	}
	if coeff.IsOne() {
		if len(rest) == 1 {
			return rest[0]
		}
		return &Mul{factors: rest}
	}
	return &Mul{factors: append([]Expr{coeff}, rest...)}
}

func splitPow(e Expr) (base, exp Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, N(1)
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	factors := m.factors
	prefix := ""
	if c, ok := factors[0].(*Num); ok && c.IsNegOne() && len(factors) > 1 {
		prefix = "-"
		factors = factors[1:]
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return prefix + strings.Join(parts, "*")
}

func (m *Mul) LaTeX() string {
	factors := m.factors
	prefix := ""
	if c, ok := factors[0].(*Num); ok && c.IsNegOne() && len(factors) > 1 {
		prefix = "-"
		factors = factors[1:]
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "\\left(" + f.LaTeX() + "\\right)"
		} else {
			parts[i] = f.LaTeX()
		}
	}
	return prefix + strings.Join(parts, " ")
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		factors := make([]Expr, len(m.factors))
		copy(factors, m.factors)
		factors[i] = fi.Diff(varName)
		terms[i] = MulOf(factors...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && equalSlices(m.factors, o.factors)
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "mul", "factors": jsonList(m.factors)}
}
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

// extractCoefficient splits a term into its rational coefficient and the
// remaining product.
func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()
	en, expIsNum := exp.(*Num)

	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}

	if bn, ok := base.(*Num); ok {
		// 0^0 is indeterminate; 0^negative is division by zero.
		if bn.IsZero() {
			if expIsNum && !en.IsPositive() {
				return &Pow{base: base, exp: exp}
			}
			return N(0)
		}
		if bn.IsOne() {
			return N(1)
		}
		if expIsNum {
			if e, ok := smallInt(en); ok && e >= -20 && e <= 20 {
				return numPow(bn, e)
			}
		}
	}

	if expIsNum && en.IsInteger() && !isForm(base) {
		switch b := base.(type) {
		case *Pow:
			return PowOf(b.base, MulOf(b.exp, en))
		case *Mul:
			factors := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				factors[i] = PowOf(f, en)
			}
			return MulOf(factors...)
		}
	}
	return &Pow{base: base, exp: exp}
}

func numPow(b *Num, e int64) *Num {
	neg := e < 0
	if neg {
		e = -e
	}
	result := N(1)
	for i := int64(0); i < e; i++ {
		result = numMul(result, b)
	}
	if neg {
		return numRecip(result)
	}
	return result
}

func (p *Pow) String() string {
	baseStr := p.base.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	case *Num:
		if b.IsNegative() || !b.IsInteger() {
			baseStr = "(" + baseStr + ")"
		}
	}
	expStr := p.exp.String()
	if n, ok := p.exp.(*Num); !ok || !n.IsInteger() {
		if _, isSym := p.exp.(*Sym); !isSym {
			expStr = "(" + expStr + ")"
		}
	}
	return baseStr + "^" + expStr
}

func (p *Pow) LaTeX() string {
	baseStr := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "\\left(" + baseStr + "\\right)"
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if _, expIsNum := p.exp.(*Num); expIsNum {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	if _, baseIsNum := p.base.(*Num); baseIsNum {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	if k, ok := smallInt(e); ok && k >= -64 && k <= 64 && (!b.IsZero() || k > 0) {
		return numPow(b, k), true
	}
	pf := math.Pow(b.Float64(), e.Float64())
	if math.IsNaN(pf) || math.IsInf(pf, 0) {
		return nil, false
	}
	return NFloat(pf), true
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

func equalSlices(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
