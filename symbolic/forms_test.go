package symbolic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gometric/symbolic"
)

func planeBasis() (*symbolic.Basis, symbolic.Expr, symbolic.Expr) {
	b := symbolic.NewBasis("plane", "t", "x")
	return b, b.Differential(0), b.Differential(1)
}

func TestTensorProduct_PullsScalars(t *testing.T) {
	_, dt, dx := planeBasis()
	tp := symbolic.TensorProductOf(symbolic.MulOf(symbolic.N(2), dt), dx)
	assert.Equal(t, "2*dt⊗dx", tp.String())
	assert.Equal(t, `\mathrm{d}t \otimes \mathrm{d}x`, symbolic.TensorProductOf(dt, dx).LaTeX())
	assert.Equal(t, "0", symbolic.TensorProductOf(dt, symbolic.N(0)).String())
	assert.Equal(t, 2, symbolic.FormRank(symbolic.TPow(dt, 2)))
}

func TestEvalForm(t *testing.T) {
	_, dt, dx := planeBasis()
	v, err := symbolic.EvalForm(dt, 0)
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	v, err = symbolic.EvalForm(symbolic.TensorProductOf(dt, dx), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	_, err = symbolic.EvalForm(symbolic.TensorProductOf(dt, dx), 0)
	assert.ErrorIs(t, err, symbolic.ErrNotAForm)
}

func TestTwoformToMatrix_Diagonal(t *testing.T) {
	_, dt, dx := planeBasis()
	form := symbolic.AddOf(symbolic.MulOf(symbolic.N(-1), symbolic.TPow(dt, 2)), symbolic.TPow(dx, 2))
	m, err := symbolic.TwoformToMatrix(form)
	require.NoError(t, err)
	assert.Equal(t, "[[-1, 0], [0, 1]]", m.String())
	assert.True(t, m.IsDiagonal())
}

func TestTwoformToMatrix_CrossTerm(t *testing.T) {
	_, dt, dx := planeBasis()
	cross := symbolic.AddOf(symbolic.TensorProductOf(dt, dx), symbolic.TensorProductOf(dx, dt))
	form := symbolic.AddOf(symbolic.TPow(dt, 2), symbolic.MulOf(x, cross))
	m, err := symbolic.TwoformToMatrix(form)
	require.NoError(t, err)
	assert.Equal(t, "[[1, x], [x, 0]]", m.String())
	assert.True(t, m.IsSymmetric())
	assert.False(t, m.IsDiagonal())
}

func TestMatrixTwoform_RoundTrip(t *testing.T) {
	b, _, _ := planeBasis()
	m := symbolic.MatrixFromSlice(2, 2, []symbolic.Expr{symbolic.N(1), x, x, symbolic.PowOf(y, symbolic.N(2))})
	form, err := symbolic.MatrixToTwoform(m, b.OneForms())
	require.NoError(t, err)
	back, err := symbolic.TwoformToMatrix(form)
	require.NoError(t, err)
	assert.True(t, m.Equal(back), "%s != %s", m, back)

	again, err := symbolic.MatrixToTwoform(back, b.OneForms())
	require.NoError(t, err)
	assert.True(t, symbolic.SymbolicEqual(form, again))
}

func TestTwoformToMatrix_Errors(t *testing.T) {
	_, err := symbolic.TwoformToMatrix(x)
	assert.ErrorIs(t, err, symbolic.ErrNoBasis)

	d1 := symbolic.NewBasis("a", "t").Differential(0)
	d2 := symbolic.NewBasis("b", "t").Differential(0)
	_, err = symbolic.TwoformToMatrix(symbolic.TensorProductOf(d1, d2))
	assert.ErrorIs(t, err, symbolic.ErrMixedBasis)

	_, dt, _ := planeBasis()
	_, err = symbolic.TwoformToMatrix(symbolic.AddOf(symbolic.TPow(dt, 2), x))
	assert.ErrorIs(t, err, symbolic.ErrNotAForm)
}

func TestMatrixToTwoform_DimensionMismatch(t *testing.T) {
	b, _, _ := planeBasis()
	_, err := symbolic.MatrixToTwoform(symbolic.Identity(3), b.OneForms())
	assert.ErrorIs(t, err, symbolic.ErrDimensionMismatch)
	_, err = symbolic.MatrixToTwoform(symbolic.NewMatrix(2, 3), b.OneForms())
	assert.ErrorIs(t, err, symbolic.ErrNonSquare)
}

func TestBasisOf(t *testing.T) {
	b, dt, dx := planeBasis()
	got, err := symbolic.BasisOf(symbolic.MulOf(y, symbolic.TensorProductOf(dt, dx)))
	require.NoError(t, err)
	assert.True(t, got.Equal(b))
	assert.Equal(t, []string{"t", "x"}, got.Coords())
}
