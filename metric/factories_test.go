package metric_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gometric/metric"
	"github.com/njchilds90/gometric/symbolic"
)

func TestFLRW(t *testing.T) {
	m := metric.FriedmannLemaitreRobertsonWalker()
	require.Len(t, m.Components(), 1)
	a := m.Components()[0]
	assert.Equal(t, "a(t)", a.String())
	assert.Equal(t, "cartesian", m.CoordSystem().Name())

	want := symbolic.Diagonal(symbolic.MulOf(symbolic.N(-1), symbolic.PowOf(metric.C, symbolic.N(2))), a, a, a)
	assert.True(t, m.Matrix().Equal(want), "got %s", m.Matrix())
	assert.True(t, m.Matrix().IsDiagonal())
}

func TestGeneralInhomogeneous(t *testing.T) {
	m := metric.GeneralInhomogeneous()
	names := []string{}
	for _, c := range m.Components() {
		names = append(names, c.Name())
		assert.Equal(t, 2, c.Arity())
	}
	assert.Equal(t, []string{"M", "N", "L", "S"}, names)
	assert.Equal(t, []string{"t", "r", "theta", "phi"}, m.CoordSystem().Names())

	g := m.Matrix()
	assert.True(t, g.IsSymmetric())
	assert.False(t, g.IsDiagonal())
	assert.Equal(t, "L(t, r)^2*M(t, r)*c", g.Get(0, 1).String())
	assert.Equal(t, "L(t, r)^2", g.Get(1, 1).String())
	assert.Equal(t, "S(t, r)^2*sin(theta)^2", g.Get(3, 3).String())
	assert.True(t, symbolic.SymbolicEqual(g.Get(0, 0), symbolic.Expand(symbolic.MulOf(
		symbolic.PowOf(metric.C, symbolic.N(2)),
		symbolic.AddOf(
			symbolic.MulOf(symbolic.PowOf(symbolic.Apply("L", symbolic.S("t"), symbolic.S("r")), symbolic.N(2)),
				symbolic.PowOf(symbolic.Apply("M", symbolic.S("t"), symbolic.S("r")), symbolic.N(2))),
			symbolic.MulOf(symbolic.N(-1), symbolic.PowOf(symbolic.Apply("N", symbolic.S("t"), symbolic.S("r")), symbolic.N(2))),
		),
	))))
}

func TestMinkowski(t *testing.T) {
	m := metric.Minkowski()
	assert.Empty(t, m.Components())
	assert.Equal(t, "[[-c^2, 0, 0, 0], [0, 1, 0, 0], [0, 0, 1, 0], [0, 0, 0, 1]]", m.Matrix().String())
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"flrw", "general_inhomogeneous", "minkowski"}, metric.Names())
	m, err := metric.Lookup("flrw")
	require.NoError(t, err)
	assert.Len(t, m.Components(), 1)

	_, err = metric.Lookup("schwarzschild")
	assert.ErrorIs(t, err, metric.ErrUnknownMetric)
}
