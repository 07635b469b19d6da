package metric

import (
	"fmt"
	"sort"

	"github.com/njchilds90/gometric/coords"
	"github.com/njchilds90/gometric/symbolic"
)

// C is the speed of light.
var C = symbolic.S("c")

// GeneralInhomogeneous returns the spherically symmetric, inhomogeneous
// metric over the toroidal chart (t, r, theta, phi):
//
//	-c²N² dt⊗dt + L²(dr + cM dt)⊗(dr + cM dt) + S²(dθ⊗dθ + sin²θ dφ⊗dφ)
//
// with shift M, lapse N, radial scale L and angular scale S, each a
// function of (t, r).
func GeneralInhomogeneous() *Metric {
	chart := coords.Toroidal()
	x := chart.BaseSymbols()
	t, r, theta := x[0], x[1], x[2]
	d := chart.BaseOneForms()
	dt, dr, dtheta, dphi := d[0], d[1], d[2], d[3]

	shift := symbolic.Apply("M", t, r)
	lapse := symbolic.Apply("N", t, r)
	radial := symbolic.Apply("L", t, r)
	angular := symbolic.Apply("S", t, r)

	two := symbolic.N(2)
	shifted := symbolic.AddOf(dr, symbolic.MulOf(C, shift, dt))
	form := symbolic.AddOf(
		symbolic.MulOf(symbolic.N(-1), symbolic.PowOf(C, two), symbolic.PowOf(lapse, two), symbolic.TPow(dt, 2)),
		symbolic.MulOf(symbolic.PowOf(radial, two), symbolic.TPow(shifted, 2)),
		symbolic.MulOf(symbolic.PowOf(angular, two), symbolic.AddOf(
			symbolic.TPow(dtheta, 2),
			symbolic.MulOf(symbolic.PowOf(symbolic.SinOf(theta), two), symbolic.TPow(dphi, 2)),
		)),
	)
	return MustNew(FromTwoform(form), WithComponents(shift, lapse, radial, angular))
}

// FriedmannLemaitreRobertsonWalker returns the flat FLRW metric over the
// Cartesian chart:
//
//	-c² dt⊗dt + a (dx⊗dx + dy⊗dy + dz⊗dz)
//
// with scale factor a(t).
func FriedmannLemaitreRobertsonWalker() *Metric {
	chart := coords.Cartesian()
	t := chart.BaseSymbols()[0]
	d := chart.BaseOneForms()

	a := symbolic.Apply("a", t)
	form := symbolic.AddOf(
		symbolic.MulOf(symbolic.N(-1), symbolic.PowOf(C, symbolic.N(2)), symbolic.TPow(d[0], 2)),
		symbolic.MulOf(a, symbolic.AddOf(symbolic.TPow(d[1], 2), symbolic.TPow(d[2], 2), symbolic.TPow(d[3], 2))),
	)
	return MustNew(FromTwoform(form), WithComponents(a))
}

// FLRW is FriedmannLemaitreRobertsonWalker.
func FLRW() *Metric { return FriedmannLemaitreRobertsonWalker() }

// Minkowski returns flat spacetime over the Cartesian chart. It has no
// components.
func Minkowski() *Metric {
	d := coords.Cartesian().BaseOneForms()
	form := symbolic.AddOf(
		symbolic.MulOf(symbolic.N(-1), symbolic.PowOf(C, symbolic.N(2)), symbolic.TPow(d[0], 2)),
		symbolic.TPow(d[1], 2), symbolic.TPow(d[2], 2), symbolic.TPow(d[3], 2),
	)
	return MustNew(FromTwoform(form))
}

var factories = map[string]func() *Metric{
	"general_inhomogeneous": GeneralInhomogeneous,
	"flrw":                  FriedmannLemaitreRobertsonWalker,
	"minkowski":             Minkowski,
}

// Lookup builds the named metric.
func Lookup(name string) (*Metric, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	return f(), nil
}

// Names lists the metrics Lookup knows, sorted.
func Names() []string {
	out := make([]string, 0, len(factories))
	for n := range factories {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
