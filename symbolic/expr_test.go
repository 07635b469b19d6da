package symbolic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gometric/symbolic"
)

var (
	x  = symbolic.S("x")
	y  = symbolic.S("y")
	tc = symbolic.S("t")
	rc = symbolic.S("r")
)

// ============================================================
// Num / Sym
// ============================================================

func TestNum_String(t *testing.T) {
	assert.Equal(t, "42", symbolic.N(42).String())
	assert.Equal(t, "1/3", symbolic.F(1, 3).String())
	assert.Equal(t, `\frac{2}{5}`, symbolic.F(2, 5).LaTeX())
	assert.Equal(t, `-\frac{1}{2}`, symbolic.F(-1, 2).LaTeX())
}

func TestNum_ZeroDenominatorPanics(t *testing.T) {
	assert.Panics(t, func() { symbolic.F(1, 0) })
}

func TestSym_LaTeXGreek(t *testing.T) {
	assert.Equal(t, `\theta`, symbolic.S("theta").LaTeX())
	assert.Equal(t, "r", rc.LaTeX())
}

// ============================================================
// Arithmetic simplification
// ============================================================

func TestAdd_CombinesLikeTerms(t *testing.T) {
	assert.Equal(t, "2*x", symbolic.AddOf(x, x).String())
	assert.Equal(t, "x + 3", symbolic.AddOf(x, symbolic.N(1), symbolic.N(2)).String())
	assert.Equal(t, "x - y", symbolic.AddOf(x, symbolic.MulOf(symbolic.N(-1), y)).String())
	assert.Equal(t, "0", symbolic.AddOf(x, symbolic.MulOf(symbolic.N(-1), x)).String())
}

func TestMul_CombinesPowers(t *testing.T) {
	assert.Equal(t, "x^2", symbolic.MulOf(x, x).String())
	assert.Equal(t, "1", symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(-1))).String())
	assert.Equal(t, "0", symbolic.MulOf(x, symbolic.N(0)).String())
}

func TestPow_DistributesOverProduct(t *testing.T) {
	p := symbolic.PowOf(symbolic.MulOf(symbolic.N(2), x), symbolic.N(2))
	assert.Equal(t, "4*x^2", p.String())
	assert.Equal(t, "x^6", symbolic.PowOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(3)).String())
}

func TestDiff_Elementary(t *testing.T) {
	assert.Equal(t, "3*x^2", symbolic.Diff(symbolic.PowOf(x, symbolic.N(3)), "x").String())
	assert.Equal(t, "cos(x)", symbolic.Diff(symbolic.SinOf(x), "x").String())
	assert.Equal(t, "0", symbolic.Diff(symbolic.SinOf(y), "x").String())
}

func TestFunc_ExactFoldsOnly(t *testing.T) {
	assert.Equal(t, "0", symbolic.SinOf(symbolic.N(0)).String())
	assert.Equal(t, "1", symbolic.CosOf(symbolic.N(0)).String())
	assert.Equal(t, "sin(1)", symbolic.SinOf(symbolic.N(1)).String())
}

func TestExpand(t *testing.T) {
	sq := symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(2))
	assert.Equal(t, "2*x + x^2 + 1", symbolic.Expand(sq).String())
	assert.True(t, symbolic.SymbolicEqual(sq, symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.MulOf(symbolic.N(2), x), symbolic.N(1))))
}

// ============================================================
// Undefined functions and derivatives
// ============================================================

func TestApplied_Diff(t *testing.T) {
	m := symbolic.Apply("M", tc, rc)
	assert.Equal(t, "M(t, r)", m.String())
	assert.Equal(t, "Derivative(M(t, r), r)", symbolic.Diff(m, "r").String())
	assert.Equal(t, "0", symbolic.Diff(m, "x").String())
}

func TestDerivative_MixedPartialsCommute(t *testing.T) {
	m := symbolic.Apply("M", tc, rc)
	rt := symbolic.Diff(symbolic.Diff(m, "r"), "t")
	tr := symbolic.Diff(symbolic.Diff(m, "t"), "r")
	assert.Equal(t, "Derivative(M(t, r), t, r)", rt.String())
	assert.True(t, rt.Equal(tr))
}

func TestDerivativeOf_StaysUnevaluated(t *testing.T) {
	a := symbolic.Apply("a", tc)
	d := symbolic.DerivativeOf(a, "x")
	assert.Equal(t, "Derivative(a(t), x)", d.String())
	assert.Equal(t, "0", d.Doit().String())
	assert.Equal(t, 1, d.Order())
}

func TestDeriv_RepeatedBuildsHigherOrder(t *testing.T) {
	a := symbolic.Apply("a", tc)
	d := symbolic.Deriv(symbolic.Deriv(a, "t"), "t")
	assert.Equal(t, "Derivative(a(t), t, t)", d.String())
	assert.True(t, d.Equal(symbolic.DiffN(a, "t", 2)))
}

func TestApplied_ChainRuleThroughExpressionArgument(t *testing.T) {
	a := symbolic.Apply("a", symbolic.MulOf(symbolic.N(2), tc))
	assert.Equal(t, "2*Subs(Derivative(a(_x1), _x1), _x1, 2*t)", symbolic.Diff(a, "t").String())
}

func TestDerivative_SubOnDifferentiatedVariable(t *testing.T) {
	d := symbolic.Diff(symbolic.Apply("a", tc), "t")
	at := symbolic.Sub(d, "t", symbolic.N(0))
	assert.Equal(t, "Subs(Derivative(a(t), t), t, 0)", at.String())
	assert.True(t, symbolic.IsConstant(at))
}

func TestFreeSymbols(t *testing.T) {
	d := symbolic.DerivativeOf(symbolic.Apply("M", tc, rc), "t")
	assert.Equal(t, []string{"r", "t"}, symbolic.FreeSymbolNames(d))
	assert.Empty(t, symbolic.FreeSymbolNames(symbolic.Apply("M", symbolic.N(1), symbolic.N(2))))
}

func TestIsConstant(t *testing.T) {
	assert.True(t, symbolic.IsConstant(symbolic.Apply("M", symbolic.N(1), symbolic.N(2))))
	assert.False(t, symbolic.IsConstant(symbolic.Apply("M", tc, symbolic.N(2))))
	assert.True(t, symbolic.IsConstant(symbolic.SinOf(symbolic.N(1))))
}

// ============================================================
// JSON
// ============================================================

func TestJSON_RoundTrip(t *testing.T) {
	basis := symbolic.NewBasis("toroidal", "t", "r")
	exprs := []symbolic.Expr{
		symbolic.AddOf(symbolic.F(-1, 2), symbolic.MulOf(x, symbolic.SinOf(y))),
		symbolic.DerivativeOf(symbolic.Apply("M", tc, rc), "t", "r"),
		symbolic.Sub(symbolic.Diff(symbolic.Apply("a", tc), "t"), "t", symbolic.N(0)),
		symbolic.MulOf(symbolic.Apply("L", tc, rc), symbolic.TPow(basis.Differential(1), 2)),
	}
	for _, e := range exprs {
		text, err := symbolic.ToJSON(e)
		require.NoError(t, err)
		back, err := symbolic.ParseJSON(text)
		require.NoError(t, err)
		assert.True(t, e.Equal(back), "%s != %s", e, back)
	}
}

func TestJSON_Malformed(t *testing.T) {
	_, err := symbolic.ParseJSON(`{"type":"func","name":"nope","arg":{"type":"sym","name":"x"}}`)
	assert.ErrorIs(t, err, symbolic.ErrBadJSON)
	_, err = symbolic.ParseJSON(`{"type":"derivative","fn":{"type":"sym","name":"x"},"vars":["x"]}`)
	assert.ErrorIs(t, err, symbolic.ErrBadJSON)
	_, err = symbolic.ParseJSON(`not json`)
	assert.ErrorIs(t, err, symbolic.ErrBadJSON)
}
