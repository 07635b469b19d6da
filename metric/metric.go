package metric

import (
	"errors"
	"fmt"
	"sync"

	"github.com/njchilds90/gometric/coords"
	"github.com/njchilds90/gometric/symbolic"
)

// Inverter inverts a square symbolic matrix.
type Inverter func(*symbolic.Matrix) (*symbolic.Matrix, error)

func defaultInverter(m *symbolic.Matrix) (*symbolic.Matrix, error) { return m.Inverse() }

// Metric holds a rank-2 symmetric metric both as a twoform and as its
// matrix over a chart. Both views are fixed at construction; the inverse
// is computed on first use and kept for the lifetime of the value.
type Metric struct {
	twoform    symbolic.Expr
	matrix     *symbolic.Matrix
	chart      *coords.System
	components []*symbolic.Applied
	invert     Inverter
	inv        *inverseCell
}

// inverseCell is written once, by the first Inverse call.
type inverseCell struct {
	once   sync.Once
	matrix *symbolic.Matrix
	err    error
}

// ============================================================
// Sources
// ============================================================

// Source says what a Metric is built from. Use FromTwoform, FromMatrix or
// FromBoth.
type Source interface {
	resolve() (symbolic.Expr, *symbolic.Matrix, *coords.System, error)
}

type twoformSource struct{ form symbolic.Expr }

type matrixSource struct {
	matrix *symbolic.Matrix
	chart  *coords.System
}

type bothSource struct {
	form   symbolic.Expr
	matrix *symbolic.Matrix
	chart  *coords.System
}

// FromTwoform builds from a twoform. The matrix and the chart are derived
// from the form's own one-forms.
func FromTwoform(form symbolic.Expr) Source { return twoformSource{form: form} }

// FromMatrix builds from a matrix over chart. The twoform is derived in
// the chart's basis order.
func FromMatrix(m *symbolic.Matrix, chart *coords.System) Source {
	return matrixSource{matrix: m, chart: chart}
}

// FromBoth accepts any combination of a twoform, a matrix and a chart.
// Whatever is missing is derived; whatever is given must agree.
func FromBoth(form symbolic.Expr, m *symbolic.Matrix, chart *coords.System) Source {
	return bothSource{form: form, matrix: m, chart: chart}
}

func (s twoformSource) resolve() (symbolic.Expr, *symbolic.Matrix, *coords.System, error) {
	if s.form == nil {
		return nil, nil, nil, fmt.Errorf("%w: neither twoform nor matrix given", ErrConfiguration)
	}
	form := s.form.Simplify()
	chart, err := coords.FromTwoform(form)
	if err != nil {
		return nil, nil, nil, err
	}
	m, err := symbolic.TwoformToMatrix(form)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("metric: matrix of %s: %w", form, err)
	}
	return form, m, chart, nil
}

func (s matrixSource) resolve() (symbolic.Expr, *symbolic.Matrix, *coords.System, error) {
	if s.matrix == nil {
		return nil, nil, nil, fmt.Errorf("%w: neither twoform nor matrix given", ErrConfiguration)
	}
	if s.chart == nil {
		return nil, nil, nil, fmt.Errorf("%w: a matrix needs a coordinate system", ErrConfiguration)
	}
	if s.matrix.Rows() != s.chart.Dim() || s.matrix.Cols() != s.chart.Dim() {
		return nil, nil, nil, fmt.Errorf("%w: %dx%d matrix over %d coordinates",
			ErrConfiguration, s.matrix.Rows(), s.matrix.Cols(), s.chart.Dim())
	}
	m := s.matrix.Clone()
	form, err := symbolic.MatrixToTwoform(m, s.chart.BaseOneForms())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("metric: twoform of %s: %w", m, err)
	}
	return form, m, s.chart, nil
}

func (s bothSource) resolve() (symbolic.Expr, *symbolic.Matrix, *coords.System, error) {
	switch {
	case s.form == nil:
		return matrixSource{matrix: s.matrix, chart: s.chart}.resolve()
	case s.matrix == nil && s.chart == nil:
		return twoformSource{form: s.form}.resolve()
	case s.matrix == nil:
		return formOverChart(s.form.Simplify(), s.chart)
	}

	form, derived, chart, err := twoformSource{form: s.form}.resolve()
	if err != nil {
		return nil, nil, nil, err
	}
	if s.chart != nil && !s.chart.Equal(chart) {
		return nil, nil, nil, fmt.Errorf("%w: twoform is over %s, chart is %s", ErrConfiguration, chart, s.chart)
	}
	if !sameEntries(derived, s.matrix) {
		return nil, nil, nil, fmt.Errorf("%w: matrix %s does not match twoform %s", ErrConfiguration, s.matrix, form)
	}
	return form, s.matrix.Clone(), chart, nil
}

// formOverChart derives the matrix of form over a known chart. A form that
// has lost every one-form (the zero form) keeps the chart's dimension.
func formOverChart(form symbolic.Expr, chart *coords.System) (symbolic.Expr, *symbolic.Matrix, *coords.System, error) {
	own, err := symbolic.BasisOf(form)
	if errors.Is(err, symbolic.ErrNoBasis) {
		if !symbolic.SymbolicEqual(form, symbolic.N(0)) {
			return nil, nil, nil, fmt.Errorf("metric: matrix of %s: %w", form, err)
		}
		return form, symbolic.NewMatrix(chart.Dim(), chart.Dim()), chart, nil
	}
	if err != nil {
		return nil, nil, nil, err
	}
	if !own.Equal(chart.Basis()) {
		return nil, nil, nil, fmt.Errorf("%w: twoform is over %s, chart is %s", ErrConfiguration, own, chart)
	}
	m, err := symbolic.TwoformToMatrix(form)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("metric: matrix of %s: %w", form, err)
	}
	return form, m, chart, nil
}

func sameEntries(a, b *symbolic.Matrix) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			if !symbolic.SymbolicEqual(a.Get(i, j), b.Get(i, j)) {
				return false
			}
		}
	}
	return true
}

// ============================================================
// Construction
// ============================================================

// Option configures a Metric.
type Option func(*Metric)

// WithComponents records the metric's free component functions. They are
// stored as given and not checked against the form.
func WithComponents(components ...*symbolic.Applied) Option {
	return func(m *Metric) {
		m.components = append([]*symbolic.Applied(nil), components...)
	}
}

// WithInverter replaces the matrix inversion used by Inverse.
func WithInverter(fn Inverter) Option {
	return func(m *Metric) {
		if fn != nil {
			m.invert = fn
		}
	}
}

// New builds a Metric from src.
func New(src Source, opts ...Option) (*Metric, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no source given", ErrConfiguration)
	}
	form, mat, chart, err := src.resolve()
	if err != nil {
		return nil, err
	}
	m := &Metric{
		twoform: form,
		matrix:  mat,
		chart:   chart,
		invert:  defaultInverter,
		inv:     &inverseCell{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// MustNew is New for inputs known to be valid; it panics on error.
func MustNew(src Source, opts ...Option) *Metric {
	m, err := New(src, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// ============================================================
// Accessors
// ============================================================

func (m *Metric) Twoform() symbolic.Expr { return m.twoform }

// Matrix returns a copy of the metric matrix.
func (m *Metric) Matrix() *symbolic.Matrix { return m.matrix.Clone() }

func (m *Metric) CoordSystem() *coords.System { return m.chart }

func (m *Metric) Components() []*symbolic.Applied {
	return append([]*symbolic.Applied(nil), m.components...)
}

func (m *Metric) String() string { return m.twoform.String() }
func (m *Metric) LaTeX() string  { return m.twoform.LaTeX() }

// ============================================================
// Inverse and substitution
// ============================================================

// Inverse returns the metric whose matrix is the inverse of m's, over the
// same chart and with the same components. The inversion runs once per
// Metric; later calls wrap the cached matrix in a new Metric.
func (m *Metric) Inverse() (*Metric, error) {
	inv, err := m.inverseMatrix()
	if err != nil {
		return nil, err
	}
	return New(FromMatrix(inv, m.chart), WithComponents(m.components...), WithInverter(m.invert))
}

func (m *Metric) inverseMatrix() (*symbolic.Matrix, error) {
	m.inv.once.Do(func() {
		inv, err := m.invert(m.matrix.Clone())
		switch {
		case errors.Is(err, symbolic.ErrSingular):
			m.inv.err = fmt.Errorf("%w: %w", ErrNonInvertibleMetric, err)
		case err != nil:
			m.inv.err = err
		default:
			m.inv.matrix = inv
		}
	})
	if m.inv.err != nil {
		return nil, m.inv.err
	}
	return m.inv.matrix.Clone(), nil
}

// Subs applies sub to the twoform and returns the resulting Metric. Its
// components are those of m whose substituted value is not constant; the
// check is only as good as simplification, so a component that is
// constant in a form the simplifier cannot see is kept.
func (m *Metric) Subs(sub *symbolic.Substitution) (*Metric, error) {
	form := sub.Apply(m.twoform)
	var kept []*symbolic.Applied
	for _, c := range m.components {
		if !symbolic.IsConstant(sub.Apply(c)) {
			kept = append(kept, c)
		}
	}
	return New(FromBoth(form, nil, m.chart), WithComponents(kept...), WithInverter(m.invert))
}
