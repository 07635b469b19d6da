package symbolic

import (
	"fmt"
	"strings"
)

// ============================================================
// Basis: ordered coordinate names of a chart
// ============================================================

// Basis names a chart and its coordinates in order. Base one-forms carry
// their basis so a form can describe the chart it is written in.
type Basis struct {
	name   string
	coords []string
}

func NewBasis(name string, coords ...string) *Basis {
	return &Basis{name: name, coords: append([]string(nil), coords...)}
}

func (b *Basis) Name() string     { return b.name }
func (b *Basis) Coords() []string { return append([]string(nil), b.coords...) }
func (b *Basis) Dim() int         { return len(b.coords) }

func (b *Basis) String() string {
	return b.name + "(" + strings.Join(b.coords, ", ") + ")"
}

func (b *Basis) Equal(o *Basis) bool {
	if b == o {
		return true
	}
	if b == nil || o == nil || b.name != o.name || len(b.coords) != len(o.coords) {
		return false
	}
	for i := range b.coords {
		if b.coords[i] != o.coords[i] {
			return false
		}
	}
	return true
}

// Differential returns the base one-form d(coords[i]).
func (b *Basis) Differential(i int) *Differential {
	if i < 0 || i >= len(b.coords) {
		panic(fmt.Sprintf("symbolic: basis index %d out of range for %s", i, b))
	}
	return &Differential{basis: b, index: i}
}

// OneForms returns the base one-forms in coordinate order.
func (b *Basis) OneForms() []Expr {
	out := make([]Expr, len(b.coords))
	for i := range b.coords {
		out[i] = b.Differential(i)
	}
	return out
}

// ============================================================
// Differential: base one-form
// ============================================================

type Differential struct {
	basis *Basis
	index int
}

func (d *Differential) Simplify() Expr        { return d }
func (d *Differential) String() string        { return "d" + d.Coord() }
func (d *Differential) LaTeX() string         { return "\\mathrm{d}" + latexName(d.Coord()) }
func (d *Differential) Sub(string, Expr) Expr { return d }
func (d *Differential) Diff(string) Expr      { return N(0) }
func (d *Differential) Eval() (*Num, bool)    { return nil, false }
func (d *Differential) exprType() string      { return "differential" }
func (d *Differential) Basis() *Basis         { return d.basis }
func (d *Differential) Index() int            { return d.index }
func (d *Differential) Coord() string         { return d.basis.coords[d.index] }

func (d *Differential) Equal(other Expr) bool {
	o, ok := other.(*Differential)
	return ok && d.index == o.index && d.basis.Equal(o.basis)
}

func (d *Differential) toJSON() map[string]interface{} {
	coords := make([]interface{}, len(d.basis.coords))
	for i, c := range d.basis.coords {
		coords[i] = c
	}
	return map[string]interface{}{"type": "differential", "chart": d.basis.name, "coords": coords, "index": d.index}
}

// ============================================================
// TensorProduct: ordered product of forms
// ============================================================

type TensorProduct struct{ factors []Expr }

func TensorProductOf(factors ...Expr) Expr { return (&TensorProduct{factors: factors}).Simplify() }

// TPow is the n-fold tensor power e⊗e⊗...⊗e.
func TPow(e Expr, n int) Expr {
	if n < 0 {
		panic("symbolic: negative tensor power")
	}
	if n == 0 {
		return N(1)
	}
	factors := make([]Expr, n)
	for i := range factors {
		factors[i] = e
	}
	return TensorProductOf(factors...)
}

// Simplify pulls scalar coefficients out of the factors, flattens nested
// products and annihilates on a zero factor.
func (tp *TensorProduct) Simplify() Expr {
	var scalars, forms []Expr
	for _, f := range tp.factors {
		s := f.Simplify()
		if isZero(s) {
			return N(0)
		}
		if m, ok := s.(*Mul); ok {
			var inner []Expr
			var sc []Expr
			for _, mf := range m.factors {
				if isForm(mf) {
					inner = append(inner, mf)
				} else {
					sc = append(sc, mf)
				}
			}
			if len(inner) == 1 {
				scalars = append(scalars, sc...)
				s = inner[0]
			}
		}
		switch {
		case !isForm(s):
			scalars = append(scalars, s)
		case isTensor(s):
			forms = append(forms, s.(*TensorProduct).factors...)
		default:
			forms = append(forms, s)
		}
	}
	var body Expr
	switch len(forms) {
	case 0:
		return MulOf(scalars...)
	case 1:
		body = forms[0]
	default:
		body = &TensorProduct{factors: forms}
	}
	if len(scalars) == 0 {
		return body
	}
	return MulOf(append(scalars, body)...)
}

func isTensor(e Expr) bool {
	_, ok := e.(*TensorProduct)
	return ok
}

func (tp *TensorProduct) String() string {
	parts := make([]string, len(tp.factors))
	for i, f := range tp.factors {
		switch f.(type) {
		case *Add, *Mul:
			parts[i] = "(" + f.String() + ")"
		default:
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "⊗")
}

func (tp *TensorProduct) LaTeX() string {
	parts := make([]string, len(tp.factors))
	for i, f := range tp.factors {
		switch f.(type) {
		case *Add, *Mul:
			parts[i] = "\\left(" + f.LaTeX() + "\\right)"
		default:
			parts[i] = f.LaTeX()
		}
	}
	return strings.Join(parts, " \\otimes ")
}

func (tp *TensorProduct) Sub(varName string, value Expr) Expr {
	out := make([]Expr, len(tp.factors))
	for i, f := range tp.factors {
		out[i] = f.Sub(varName, value)
	}
	return TensorProductOf(out...)
}

func (tp *TensorProduct) Diff(varName string) Expr {
	terms := make([]Expr, len(tp.factors))
	for i := range tp.factors {
		factors := make([]Expr, len(tp.factors))
		copy(factors, tp.factors)
		factors[i] = tp.factors[i].Diff(varName)
		terms[i] = TensorProductOf(factors...)
	}
	return AddOf(terms...)
}

func (tp *TensorProduct) Eval() (*Num, bool) { return nil, false }

func (tp *TensorProduct) Equal(other Expr) bool {
	o, ok := other.(*TensorProduct)
	return ok && equalSlices(tp.factors, o.factors)
}

func (tp *TensorProduct) exprType() string { return "tensor" }
func (tp *TensorProduct) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "tensor", "factors": jsonList(tp.factors)}
}
func (tp *TensorProduct) Factors() []Expr { return append([]Expr(nil), tp.factors...) }

// ============================================================
// Form evaluation and twoform/matrix conversion
// ============================================================

// isForm reports whether e is form-valued at its top level.
func isForm(e Expr) bool {
	switch v := e.(type) {
	case *Differential, *TensorProduct:
		return true
	case *Add:
		for _, t := range v.terms {
			if isForm(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if isForm(f) {
				return true
			}
		}
	case *Pow:
		return isForm(v.base)
	}
	return false
}

// FormRank returns the rank of a form (0 for scalars), or -1 when e mixes
// ranks or multiplies forms outside a tensor product.
func FormRank(e Expr) int {
	switch v := e.(type) {
	case *Differential:
		return 1
	case *TensorProduct:
		total := 0
		for _, f := range v.factors {
			r := FormRank(f)
			if r < 0 {
				return -1
			}
			total += r
		}
		return total
	case *Add:
		rank := FormRank(v.terms[0])
		for _, t := range v.terms[1:] {
			if FormRank(t) != rank {
				return -1
			}
		}
		return rank
	case *Mul:
		total := 0
		forms := 0
		for _, f := range v.factors {
			r := FormRank(f)
			if r < 0 {
				return -1
			}
			if r > 0 {
				forms++
			}
			total += r
		}
		if forms > 1 {
			return -1
		}
		return total
	case *Pow:
		if isForm(v.base) {
			return -1
		}
	}
	return 0
}

// EvalForm evaluates a rank-k form on the basis vectors with the given
// indices: a base one-form gives the Kronecker delta and tensor products
// split the indices between their factors.
func EvalForm(form Expr, idx ...int) (Expr, error) {
	v, err := evalForm(form.Simplify(), idx)
	if err != nil {
		return nil, err
	}
	return v.Simplify(), nil
}

func evalForm(e Expr, idx []int) (Expr, error) {
	switch v := e.(type) {
	case *Differential:
		if len(idx) != 1 {
			return nil, fmt.Errorf("%w: %s applied to %d vectors", ErrNotAForm, v, len(idx))
		}
		if idx[0] == v.index {
			return N(1), nil
		}
		return N(0), nil
	case *TensorProduct:
		vals := make([]Expr, 0, len(v.factors))
		pos := 0
		for _, f := range v.factors {
			r := FormRank(f)
			if r < 0 || pos+r > len(idx) {
				return nil, fmt.Errorf("%w: %s applied to %d vectors", ErrNotAForm, v, len(idx))
			}
			fv, err := evalForm(f, idx[pos:pos+r])
			if err != nil {
				return nil, err
			}
			vals = append(vals, fv)
			pos += r
		}
		if pos != len(idx) {
			return nil, fmt.Errorf("%w: %s applied to %d vectors", ErrNotAForm, v, len(idx))
		}
		return MulOf(vals...), nil
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			tv, err := evalForm(t, idx)
			if err != nil {
				return nil, err
			}
			terms[i] = tv
		}
		return AddOf(terms...), nil
	case *Mul:
		var scalars, forms []Expr
		for _, f := range v.factors {
			if isForm(f) {
				forms = append(forms, f)
			} else {
				scalars = append(scalars, f)
			}
		}
		switch len(forms) {
		case 0:
		case 1:
			fv, err := evalForm(forms[0], idx)
			if err != nil {
				return nil, err
			}
			return MulOf(append(scalars, fv)...), nil
		default:
			return nil, fmt.Errorf("%w: product of forms %s outside a tensor product", ErrNotAForm, v)
		}
	}
	if isForm(e) {
		return nil, fmt.Errorf("%w: cannot evaluate %s", ErrNotAForm, e)
	}
	if len(idx) != 0 {
		return nil, fmt.Errorf("%w: scalar %s applied to %d vectors", ErrNotAForm, e, len(idx))
	}
	return e, nil
}

// BasisOf returns the chart basis shared by every base one-form in e.
func BasisOf(e Expr) (*Basis, error) {
	var found *Basis
	var mixed *Basis
	contains(e, func(x Expr) bool {
		d, ok := x.(*Differential)
		if !ok {
			return false
		}
		if found == nil {
			found = d.basis
			return false
		}
		if !found.Equal(d.basis) {
			mixed = d.basis
			return true
		}
		return false
	})
	if found == nil {
		return nil, ErrNoBasis
	}
	if mixed != nil {
		return nil, fmt.Errorf("%w: %s and %s", ErrMixedBasis, found, mixed)
	}
	return found, nil
}

// TwoformToMatrix returns the matrix g[i][j] = form(e_i, e_j) over the basis
// the form is written in.
func TwoformToMatrix(form Expr) (*Matrix, error) {
	form = form.Simplify()
	basis, err := BasisOf(form)
	if err != nil {
		return nil, err
	}
	if r := FormRank(form); r != 2 {
		return nil, fmt.Errorf("%w: rank %d, want 2", ErrNotAForm, r)
	}
	n := basis.Dim()
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v, err := EvalForm(form, i, j)
			if err != nil {
				return nil, err
			}
			m.data[i][j] = v
		}
	}
	return m, nil
}

// MatrixToTwoform returns sum_ij m[i][j] oneforms[i]⊗oneforms[j], skipping
// zero entries. The one-forms are taken in the order given.
func MatrixToTwoform(m *Matrix, oneforms []Expr) (Expr, error) {
	if m.rows != m.cols {
		return nil, ErrNonSquare
	}
	if len(oneforms) != m.rows {
		return nil, fmt.Errorf("%w: %dx%d matrix, %d one-forms", ErrDimensionMismatch, m.rows, m.cols, len(oneforms))
	}
	terms := make([]Expr, 0, m.rows*m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if isZero(m.data[i][j]) {
				continue
			}
			terms = append(terms, MulOf(m.data[i][j], TensorProductOf(oneforms[i], oneforms[j])))
		}
	}
	return AddOf(terms...), nil
}
