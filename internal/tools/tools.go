// Package tools exposes the symbolic engine and the metric operations as
// JSON tool calls for agent frameworks.
package tools

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/njchilds90/gometric/metric"
	"github.com/njchilds90/gometric/symbolic"
)

// ErrUnknownTool is returned for tool names the dispatcher does not know.
var ErrUnknownTool = errors.New("tools: unknown tool")

// ErrParamOutOfRange is returned for numeric parameters outside their
// accepted range.
var ErrParamOutOfRange = errors.New("tools: parameter out of range")

// maxDiffOrder bounds the n parameter of the diff tool.
const maxDiffOrder = 32

type Request struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type Response struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Defaults apply to notation tools when a call omits max_order or
// use_dots.
type Defaults struct {
	MaxOrder int
	UseDots  bool
}

// Dispatcher routes tool calls.
type Dispatcher struct {
	logger   *zap.Logger
	defaults Defaults
}

func NewDispatcher(logger *zap.Logger, defaults Defaults) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{logger: logger, defaults: defaults}
}

type handler func(d *Dispatcher, p params) (Response, error)

var handlers = map[string]handler{
	"simplify":                handleSimplify,
	"expand":                  handleExpand,
	"diff":                    handleDiff,
	"substitute":              handleSubstitute,
	"to_latex":                handleToLaTeX,
	"free_symbols":            handleFreeSymbols,
	"matrix_det":              handleMatrixDet,
	"matrix_inv":              handleMatrixInv,
	"matrix_trace":            handleMatrixTrace,
	"matrix_scale":            handleMatrixScale,
	"matrix_diff":             handleMatrixDiff,
	"metric":                  handleMetric,
	"metric_inverse":          handleMetricInverse,
	"metric_subs":             handleMetricSubs,
	"deriv_rules":             handleDerivRules,
	"simplify_deriv_notation": handleSimplifyDerivNotation,
	"list_metrics":            handleListMetrics,
	"mcp_spec":                handleSpec,
}

// Names lists the tools Handle accepts, sorted.
func Names() []string {
	out := make([]string, 0, len(handlers))
	for n := range handlers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Handle runs one tool call. Failures are reported in Response.Error.
func (d *Dispatcher) Handle(req Request) Response {
	h, ok := handlers[req.Tool]
	if !ok {
		d.logger.Warn("unknown tool", zap.String("tool", req.Tool))
		return Response{Error: fmt.Errorf("%w: %s", ErrUnknownTool, req.Tool).Error()}
	}
	resp, err := h(d, params(req.Params))
	if err != nil {
		d.logger.Debug("tool failed", zap.String("tool", req.Tool), zap.Error(err))
		return Response{Error: err.Error()}
	}
	return resp
}

// ============================================================
// Parameter access
// ============================================================

type params map[string]interface{}

func (p params) expr(key string) (symbolic.Expr, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid type for param %s", key)
	}
	return symbolic.FromJSON(m)
}

func (p params) str(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("missing param: %s", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("param %s must be a non-empty string", key)
	}
	return s, nil
}

func (p params) intOr(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, fmt.Errorf("param %s must be an integer", key)
	}
	return int(f), nil
}

func (p params) boolOr(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("param %s must be a boolean", key)
	}
	return b, nil
}

func (p params) matrix(key string) (*symbolic.Matrix, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be matrix object", key)
	}
	return symbolic.MatrixFromJSON(m)
}

func (p params) metric() (*metric.Metric, error) {
	name, err := p.str("name")
	if err != nil {
		return nil, err
	}
	return metric.Lookup(name)
}

// substitution reads [{"old": expr, "new": expr}, ...].
func (p params) substitution(key string) (*symbolic.Substitution, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be an array", key)
	}
	sub := symbolic.NewSubstitution()
	for i, item := range raw {
		pair, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s[%d] must be an object", key, i)
		}
		old, err := params(pair).expr("old")
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		repl, err := params(pair).expr("new")
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		sub.Set(old, repl)
	}
	return sub, nil
}

// notation reads max_order and use_dots, falling back to the dispatcher
// defaults. Orders outside 0..metric.MaxOrderLimit are rejected.
func (d *Dispatcher) notation(p params) (int, bool, error) {
	order, err := p.intOr("max_order", d.defaults.MaxOrder)
	if err != nil {
		return 0, false, err
	}
	if order < 0 || order > metric.MaxOrderLimit {
		return 0, false, fmt.Errorf("%w: max_order %d outside 0..%d", ErrParamOutOfRange, order, metric.MaxOrderLimit)
	}
	dots, err := p.boolOr("use_dots", d.defaults.UseDots)
	if err != nil {
		return 0, false, err
	}
	return order, dots, nil
}

func (d *Dispatcher) notationOptions(p params) ([]metric.NotationOption, error) {
	order, dots, err := d.notation(p)
	if err != nil {
		return nil, err
	}
	opts := []metric.NotationOption{metric.WithMaxOrder(order)}
	if dots {
		opts = append(opts, metric.WithDots())
	}
	return opts, nil
}

// ============================================================
// Responses
// ============================================================

func respond(e symbolic.Expr) Response {
	return Response{Result: symbolic.JSONValue(e), LaTeX: e.LaTeX(), String: e.String()}
}

func respondMatrix(m *symbolic.Matrix) Response {
	return Response{Result: symbolic.MatrixJSON(m), LaTeX: m.LaTeX(), String: m.String()}
}

func respondMetric(m *metric.Metric) Response {
	return Response{Result: Summarize(m), LaTeX: m.LaTeX(), String: m.String()}
}

// MetricSummary is the printable description of a Metric.
type MetricSummary struct {
	Chart       string     `json:"chart" yaml:"chart"`
	Coordinates []string   `json:"coordinates" yaml:"coordinates"`
	Components  []string   `json:"components" yaml:"components"`
	Twoform     string     `json:"twoform" yaml:"twoform"`
	Matrix      [][]string `json:"matrix" yaml:"matrix"`
	LaTeX       string     `json:"latex" yaml:"latex"`
}

func Summarize(m *metric.Metric) MetricSummary {
	mat := m.Matrix()
	rows := make([][]string, mat.Rows())
	for i := range rows {
		rows[i] = make([]string, mat.Cols())
		for j := range rows[i] {
			rows[i][j] = mat.Get(i, j).String()
		}
	}
	components := []string{}
	for _, c := range m.Components() {
		components = append(components, c.String())
	}
	return MetricSummary{
		Chart:       m.CoordSystem().Name(),
		Coordinates: m.CoordSystem().Names(),
		Components:  components,
		Twoform:     m.String(),
		Matrix:      rows,
		LaTeX:       m.LaTeX(),
	}
}

// RulePair is one derivative rewrite rule in printable form.
type RulePair struct {
	Derivative string `json:"derivative" yaml:"derivative"`
	Shorthand  string `json:"shorthand" yaml:"shorthand"`
}

func RulePairs(rules *symbolic.Substitution) []RulePair {
	out := make([]RulePair, 0, rules.Len())
	rules.Each(func(old, repl symbolic.Expr) {
		out = append(out, RulePair{Derivative: old.String(), Shorthand: repl.String()})
	})
	return out
}

// ============================================================
// Handlers
// ============================================================

func handleSimplify(_ *Dispatcher, p params) (Response, error) {
	e, err := p.expr("expr")
	if err != nil {
		return Response{}, err
	}
	return respond(e.Simplify()), nil
}

func handleExpand(_ *Dispatcher, p params) (Response, error) {
	e, err := p.expr("expr")
	if err != nil {
		return Response{}, err
	}
	return respond(symbolic.Expand(e)), nil
}

func handleDiff(_ *Dispatcher, p params) (Response, error) {
	e, err := p.expr("expr")
	if err != nil {
		return Response{}, err
	}
	v, err := p.str("var")
	if err != nil {
		return Response{}, err
	}
	n, err := p.intOr("n", 1)
	if err != nil {
		return Response{}, err
	}
	if n < 0 || n > maxDiffOrder {
		return Response{}, fmt.Errorf("%w: n %d outside 0..%d", ErrParamOutOfRange, n, maxDiffOrder)
	}
	return respond(symbolic.DiffN(e, v, n)), nil
}

func handleSubstitute(_ *Dispatcher, p params) (Response, error) {
	e, err := p.expr("expr")
	if err != nil {
		return Response{}, err
	}
	v, err := p.str("var")
	if err != nil {
		return Response{}, err
	}
	val, err := p.expr("value")
	if err != nil {
		return Response{}, err
	}
	return respond(symbolic.Sub(e, v, val)), nil
}

func handleToLaTeX(_ *Dispatcher, p params) (Response, error) {
	e, err := p.expr("expr")
	if err != nil {
		return Response{}, err
	}
	return Response{Result: e.LaTeX(), LaTeX: e.LaTeX(), String: e.String()}, nil
}

func handleFreeSymbols(_ *Dispatcher, p params) (Response, error) {
	e, err := p.expr("expr")
	if err != nil {
		return Response{}, err
	}
	names := symbolic.FreeSymbolNames(e)
	return Response{Result: names, String: fmt.Sprint(names)}, nil
}

func handleMatrixDet(_ *Dispatcher, p params) (Response, error) {
	m, err := p.matrix("matrix")
	if err != nil {
		return Response{}, err
	}
	det, err := m.Det()
	if err != nil {
		return Response{}, err
	}
	return respond(symbolic.Expand(det)), nil
}

func handleMatrixInv(_ *Dispatcher, p params) (Response, error) {
	m, err := p.matrix("matrix")
	if err != nil {
		return Response{}, err
	}
	inv, err := m.Inverse()
	if err != nil {
		return Response{}, err
	}
	return respondMatrix(inv), nil
}

func handleMatrixTrace(_ *Dispatcher, p params) (Response, error) {
	m, err := p.matrix("matrix")
	if err != nil {
		return Response{}, err
	}
	tr, err := m.Trace()
	if err != nil {
		return Response{}, err
	}
	return respond(tr), nil
}

func handleMatrixScale(_ *Dispatcher, p params) (Response, error) {
	m, err := p.matrix("matrix")
	if err != nil {
		return Response{}, err
	}
	factor, err := p.expr("factor")
	if err != nil {
		return Response{}, err
	}
	return respondMatrix(m.Scale(factor)), nil
}

// handleMatrixDiff differentiates every entry, e.g. the time derivative of
// a metric matrix.
func handleMatrixDiff(_ *Dispatcher, p params) (Response, error) {
	m, err := p.matrix("matrix")
	if err != nil {
		return Response{}, err
	}
	v, err := p.str("var")
	if err != nil {
		return Response{}, err
	}
	return respondMatrix(m.ApplyDiff(v)), nil
}

func handleMetric(_ *Dispatcher, p params) (Response, error) {
	m, err := p.metric()
	if err != nil {
		return Response{}, err
	}
	return respondMetric(m), nil
}

func handleMetricInverse(d *Dispatcher, p params) (Response, error) {
	m, err := p.metric()
	if err != nil {
		return Response{}, err
	}
	inv, err := m.Inverse()
	if err != nil {
		return Response{}, err
	}
	d.logger.Debug("inverted metric", zap.String("metric", m.CoordSystem().Name()))
	return respondMetric(inv), nil
}

func handleMetricSubs(_ *Dispatcher, p params) (Response, error) {
	m, err := p.metric()
	if err != nil {
		return Response{}, err
	}
	sub, err := p.substitution("subs")
	if err != nil {
		return Response{}, err
	}
	out, err := m.Subs(sub)
	if err != nil {
		return Response{}, err
	}
	return respondMetric(out), nil
}

func handleDerivRules(d *Dispatcher, p params) (Response, error) {
	m, err := p.metric()
	if err != nil {
		return Response{}, err
	}
	order, dots, err := d.notation(p)
	if err != nil {
		return Response{}, err
	}
	rules := RulePairs(metric.DerivRules(m, order, dots))
	return Response{Result: rules, String: fmt.Sprintf("%d rules", len(rules))}, nil
}

func handleSimplifyDerivNotation(d *Dispatcher, p params) (Response, error) {
	m, err := p.metric()
	if err != nil {
		return Response{}, err
	}
	e, err := p.expr("expr")
	if err != nil {
		return Response{}, err
	}
	opts, err := d.notationOptions(p)
	if err != nil {
		return Response{}, err
	}
	return respond(metric.SimplifyDerivNotation(e, m, opts...)), nil
}

func handleListMetrics(_ *Dispatcher, _ params) (Response, error) {
	names := metric.Names()
	return Response{Result: names, String: fmt.Sprint(names)}, nil
}

func handleSpec(_ *Dispatcher, _ params) (Response, error) {
	return Response{Result: Spec(), String: "MCP tool specification"}, nil
}
