// Package coords provides named coordinate charts: an ordered set of
// coordinate symbols together with the base one-forms that share their
// order.
package coords

import (
	"errors"
	"fmt"
	"sort"

	"github.com/njchilds90/gometric/symbolic"
)

// ErrUnknownChart is returned by Lookup for names it does not know.
var ErrUnknownChart = errors.New("coords: unknown chart")

// System is a coordinate chart.
type System struct {
	basis *symbolic.Basis
}

// New builds a chart called name over the given coordinates, in order.
func New(name string, coords ...string) *System {
	if len(coords) == 0 {
		panic("coords: a chart needs at least one coordinate")
	}
	return &System{basis: symbolic.NewBasis(name, coords...)}
}

// FromBasis wraps an existing basis.
func FromBasis(b *symbolic.Basis) *System { return &System{basis: b} }

// FromTwoform returns the chart the one-forms of form belong to.
func FromTwoform(form symbolic.Expr) (*System, error) {
	b, err := symbolic.BasisOf(form)
	if err != nil {
		return nil, fmt.Errorf("coords: chart of %s: %w", form, err)
	}
	return FromBasis(b), nil
}

// Cartesian is the (t, x, y, z) chart.
func Cartesian() *System { return New("cartesian", "t", "x", "y", "z") }

// Toroidal is the (t, r, theta, phi) chart.
func Toroidal() *System { return New("toroidal", "t", "r", "theta", "phi") }

// Spherical shares the toroidal coordinate names under its own chart name.
func Spherical() *System { return New("spherical", "t", "r", "theta", "phi") }

var charts = map[string]func() *System{
	"cartesian": Cartesian,
	"toroidal":  Toroidal,
	"spherical": Spherical,
}

// Lookup returns a fresh instance of the named builtin chart.
func Lookup(name string) (*System, error) {
	ctor, ok := charts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	return ctor(), nil
}

// Names lists the builtin charts.
func Names() []string {
	out := make([]string, 0, len(charts))
	for n := range charts {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (s *System) Name() string           { return s.basis.Name() }
func (s *System) Names() []string        { return s.basis.Coords() }
func (s *System) Dim() int               { return s.basis.Dim() }
func (s *System) Basis() *symbolic.Basis { return s.basis }
func (s *System) String() string         { return s.basis.String() }

// BaseSymbols returns the coordinate symbols in chart order.
func (s *System) BaseSymbols() []*symbolic.Sym {
	names := s.basis.Coords()
	out := make([]*symbolic.Sym, len(names))
	for i, n := range names {
		out[i] = symbolic.S(n)
	}
	return out
}

// BaseOneForms returns d(coord) for every coordinate, in chart order.
func (s *System) BaseOneForms() []symbolic.Expr { return s.basis.OneForms() }

// OneForm returns the base one-form of the named coordinate.
func (s *System) OneForm(coord string) (symbolic.Expr, bool) {
	for i, n := range s.basis.Coords() {
		if n == coord {
			return s.basis.Differential(i), true
		}
	}
	return nil, false
}

// Equal reports whether two charts have the same name and coordinates.
func (s *System) Equal(o *System) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.basis.Equal(o.basis)
}
