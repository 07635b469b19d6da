package tools_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gometric/internal/tools"
	"github.com/njchilds90/gometric/symbolic"
)

var dispatcher = tools.NewDispatcher(nil, tools.Defaults{MaxOrder: 2})

// call decodes body the way the server does and dispatches it.
func call(t *testing.T, body string) tools.Response {
	t.Helper()
	var req tools.Request
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return dispatcher.Handle(req)
}

func exprParam(t *testing.T, e symbolic.Expr) string {
	t.Helper()
	s, err := symbolic.ToJSON(e)
	require.NoError(t, err)
	return s
}

// decoded pushes v through encoding/json so numbers come back as float64.
func decoded(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

const derivA = `{"type":"derivative","fn":{"type":"applied","name":"a","args":[{"type":"sym","name":"t"}]},"vars":["t","t"]}`

func TestHandle_Simplify(t *testing.T) {
	x := symbolic.S("x")
	resp := call(t, `{"tool":"simplify","params":{"expr":`+exprParam(t, symbolic.AddOf(x, x))+`}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, "2*x", resp.String)
}

func TestHandle_Diff(t *testing.T) {
	x := symbolic.S("x")
	p := exprParam(t, symbolic.PowOf(x, symbolic.N(3)))
	resp := call(t, `{"tool":"diff","params":{"expr":`+p+`,"var":"x"}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, "3*x^2", resp.String)

	resp = call(t, `{"tool":"diff","params":{"expr":`+p+`,"var":"x","n":3}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, "6", resp.String)

	resp = call(t, `{"tool":"diff","params":{"expr":`+p+`,"var":"x","n":1.5}}`)
	assert.Contains(t, resp.Error, "integer")

	for _, n := range []string{"-1", "33"} {
		resp = call(t, `{"tool":"diff","params":{"expr":`+p+`,"var":"x","n":`+n+`}}`)
		assert.Contains(t, resp.Error, tools.ErrParamOutOfRange.Error(), "n=%s", n)
	}
}

func TestHandle_Substitute(t *testing.T) {
	x := symbolic.S("x")
	p := exprParam(t, symbolic.MulOf(symbolic.N(2), x))
	resp := call(t, `{"tool":"substitute","params":{"expr":`+p+`,"var":"x","value":{"type":"num","value":"5"}}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, "10", resp.String)
}

func TestHandle_FreeSymbols(t *testing.T) {
	p := exprParam(t, symbolic.AddOf(symbolic.S("b"), symbolic.S("a")))
	resp := call(t, `{"tool":"free_symbols","params":{"expr":`+p+`}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, []string{"a", "b"}, resp.Result)
}

func TestHandle_MatrixDetAndInverse(t *testing.T) {
	x := symbolic.S("x")
	m := symbolic.MatrixFromSlice(2, 2, []symbolic.Expr{x, symbolic.N(1), symbolic.N(1), x})
	payload, err := json.Marshal(symbolic.MatrixJSON(m))
	require.NoError(t, err)

	resp := call(t, `{"tool":"matrix_det","params":{"matrix":`+string(payload)+`}}`)
	require.Empty(t, resp.Error)
	det, err := symbolic.FromJSON(decoded(t, resp.Result))
	require.NoError(t, err)
	want := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(-1))
	assert.True(t, symbolic.SymbolicEqual(det, want), "got %s", det)

	diag := symbolic.Diagonal(symbolic.N(2), x)
	payload, err = json.Marshal(symbolic.MatrixJSON(diag))
	require.NoError(t, err)
	resp = call(t, `{"tool":"matrix_inv","params":{"matrix":`+string(payload)+`}}`)
	require.Empty(t, resp.Error)
	inv, err := symbolic.MatrixFromJSON(decoded(t, resp.Result))
	require.NoError(t, err)
	assert.Equal(t, "0", inv.Get(0, 1).String())
	assert.True(t, symbolic.SymbolicEqual(inv.Get(1, 1), symbolic.PowOf(x, symbolic.N(-1))))

	zero := symbolic.NewMatrix(2, 2)
	payload, err = json.Marshal(symbolic.MatrixJSON(zero))
	require.NoError(t, err)
	resp = call(t, `{"tool":"matrix_inv","params":{"matrix":`+string(payload)+`}}`)
	assert.NotEmpty(t, resp.Error)
}

func matrixParam(t *testing.T, m *symbolic.Matrix) string {
	t.Helper()
	b, err := json.Marshal(symbolic.MatrixJSON(m))
	require.NoError(t, err)
	return string(b)
}

func TestHandle_MatrixTraceScaleDiff(t *testing.T) {
	x, y := symbolic.S("x"), symbolic.S("y")
	m := symbolic.MatrixFromSlice(2, 2, []symbolic.Expr{symbolic.PowOf(x, symbolic.N(2)), x, symbolic.N(1), y})

	resp := call(t, `{"tool":"matrix_trace","params":{"matrix":`+matrixParam(t, m)+`}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, "x^2 + y", resp.String)

	resp = call(t, `{"tool":"matrix_diff","params":{"matrix":`+matrixParam(t, m)+`,"var":"x"}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, "[[2*x, 1], [0, 0]]", resp.String)

	resp = call(t, `{"tool":"matrix_scale","params":{"matrix":`+matrixParam(t, symbolic.Identity(2))+`,"factor":`+exprParam(t, y)+`}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, "[[y, 0], [0, y]]", resp.String)

	rect := symbolic.NewMatrix(1, 2)
	resp = call(t, `{"tool":"matrix_trace","params":{"matrix":`+matrixParam(t, rect)+`}}`)
	assert.Contains(t, resp.Error, symbolic.ErrNonSquare.Error())
}

func TestHandle_MaxOrderBounded(t *testing.T) {
	for _, tool := range []string{"deriv_rules", "simplify_deriv_notation"} {
		for _, order := range []string{"-1", "7", "9"} {
			resp := call(t, `{"tool":"`+tool+`","params":{"name":"general_inhomogeneous","max_order":`+order+`,"expr":`+derivA+`}}`)
			assert.Contains(t, resp.Error, tools.ErrParamOutOfRange.Error(), "%s max_order=%s", tool, order)
		}
	}

	resp := call(t, `{"tool":"deriv_rules","params":{"name":"flrw","max_order":6}}`)
	require.Empty(t, resp.Error)
}

func TestHandle_MixedPartialShorthand(t *testing.T) {
	resp := call(t, `{"tool":"deriv_rules","params":{"name":"general_inhomogeneous"}}`)
	require.Empty(t, resp.Error)
	found := false
	for _, r := range resp.Result.([]tools.RulePair) {
		if r.Derivative == "Derivative(M(t, r), t, r)" {
			assert.Equal(t, "M_{r t}(t, r)", r.Shorthand)
			found = true
		}
	}
	assert.True(t, found)
}

func TestHandle_Metric(t *testing.T) {
	resp := call(t, `{"tool":"metric","params":{"name":"flrw"}}`)
	require.Empty(t, resp.Error)
	summary, ok := resp.Result.(tools.MetricSummary)
	require.True(t, ok, "got %T", resp.Result)
	assert.Equal(t, "cartesian", summary.Chart)
	assert.Equal(t, []string{"t", "x", "y", "z"}, summary.Coordinates)
	assert.Equal(t, []string{"a(t)"}, summary.Components)
	assert.Equal(t, "a(t)", summary.Matrix[1][1])
	assert.Equal(t, "0", summary.Matrix[0][1])

	resp = call(t, `{"tool":"metric","params":{"name":"kerr"}}`)
	assert.Contains(t, resp.Error, "kerr")
}

func TestHandle_MetricInverse(t *testing.T) {
	resp := call(t, `{"tool":"metric_inverse","params":{"name":"flrw"}}`)
	require.Empty(t, resp.Error)
	summary := resp.Result.(tools.MetricSummary)
	assert.Equal(t, "0", summary.Matrix[2][3])
	assert.Equal(t, "a(t)^-1", summary.Matrix[3][3])
}

func TestHandle_MetricSubs(t *testing.T) {
	body := `{"tool":"metric_subs","params":{"name":"flrw","subs":[` +
		`{"old":{"type":"applied","name":"a","args":[{"type":"sym","name":"t"}]},"new":{"type":"num","value":"1"}}]}}`
	resp := call(t, body)
	require.Empty(t, resp.Error)
	summary := resp.Result.(tools.MetricSummary)
	assert.Empty(t, summary.Components)
	assert.Equal(t, "1", summary.Matrix[1][1])

	resp = call(t, `{"tool":"metric_subs","params":{"name":"flrw","subs":[{"old":{"type":"sym","name":"t"}}]}}`)
	assert.Contains(t, resp.Error, "new")
}

func TestHandle_DerivRules(t *testing.T) {
	resp := call(t, `{"tool":"deriv_rules","params":{"name":"flrw"}}`)
	require.Empty(t, resp.Error)
	rules := resp.Result.([]tools.RulePair)
	assert.Len(t, rules, 14)
	assert.Equal(t, tools.RulePair{Derivative: "Derivative(a(t), t)", Shorthand: "a'(t)"}, rules[0])

	resp = call(t, `{"tool":"deriv_rules","params":{"name":"flrw","max_order":1,"use_dots":true}}`)
	require.Empty(t, resp.Error)
	rules = resp.Result.([]tools.RulePair)
	assert.Len(t, rules, 4)
	assert.Equal(t, `\dot{a}(t)`, rules[0].Shorthand)
}

func TestHandle_SimplifyDerivNotation(t *testing.T) {
	resp := call(t, `{"tool":"simplify_deriv_notation","params":{"name":"flrw","expr":`+derivA+`}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, "a''(t)", resp.String)

	resp = call(t, `{"tool":"simplify_deriv_notation","params":{"name":"flrw","use_dots":true,"expr":`+derivA+`}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, `\ddot{a}(t)`, resp.String)

	resp = call(t, `{"tool":"simplify_deriv_notation","params":{"name":"flrw","max_order":1,"expr":`+derivA+`}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, "Derivative(a(t), t, t)", resp.String)
}

func TestHandle_ListMetricsAndSpec(t *testing.T) {
	resp := call(t, `{"tool":"list_metrics"}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, []string{"flrw", "general_inhomogeneous", "minkowski"}, resp.Result)

	resp = call(t, `{"tool":"mcp_spec"}`)
	require.Empty(t, resp.Error)
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Result.(string)), &spec))
	names := []string{}
	for _, tool := range spec.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, tools.Names(), names)
}

func TestHandle_Errors(t *testing.T) {
	resp := call(t, `{"tool":"nonexistent"}`)
	assert.Contains(t, resp.Error, "unknown tool")

	resp = call(t, `{"tool":"simplify","params":{}}`)
	assert.Contains(t, resp.Error, "missing param: expr")

	resp = call(t, `{"tool":"simplify","params":{"expr":{"type":"bogus"}}}`)
	assert.Contains(t, resp.Error, "bogus")
}
