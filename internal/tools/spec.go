package tools

import "encoding/json"

// Spec returns the MCP tool schema as indented JSON.
func Spec() string {
	notation := map[string]string{"name": "string", "max_order": "integer", "use_dots": "boolean"}
	withExpr := map[string]string{"name": "string", "expr": "object", "max_order": "integer", "use_dots": "boolean"}
	tools := []map[string]interface{}{
		ts("simplify", "Simplify a symbolic expression", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("expand", "Algebraically expand expression, including tensor products of sums", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("diff", "Partial derivative by var, n times (default 1)", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string", "n": "integer"}),
		ts("substitute", "Substitute var with value", []string{"expr", "var", "value"}, map[string]string{"expr": "object", "var": "string", "value": "object"}),
		ts("to_latex", "Convert to LaTeX", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("free_symbols", "Return free symbol names", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("matrix_det", "Matrix det. matrix={rows,cols,entries:[expr,...]}", []string{"matrix"}, map[string]string{"matrix": "object"}),
		ts("matrix_inv", "Symbolic matrix inverse", []string{"matrix"}, map[string]string{"matrix": "object"}),
		ts("matrix_trace", "Trace of a square matrix", []string{"matrix"}, map[string]string{"matrix": "object"}),
		ts("matrix_scale", "Multiply every entry by factor", []string{"matrix", "factor"}, map[string]string{"matrix": "object", "factor": "object"}),
		ts("matrix_diff", "Differentiate every entry by var", []string{"matrix", "var"}, map[string]string{"matrix": "object", "var": "string"}),
		ts("metric", "Build a named metric: twoform, matrix, chart and components", []string{"name"}, map[string]string{"name": "string"}),
		ts("metric_inverse", "Inverse of a named metric", []string{"name"}, map[string]string{"name": "string"}),
		ts("metric_subs", "Substitute into a named metric. subs=[{old:expr,new:expr},...]", []string{"name", "subs"}, map[string]string{"name": "string", "subs": "array"}),
		ts("deriv_rules", "Derivative shorthand rules of a named metric", []string{"name"}, notation),
		ts("simplify_deriv_notation", "Rewrite derivatives of a metric's components into shorthand", []string{"name", "expr"}, withExpr),
		ts("list_metrics", "Names accepted by the metric tools", []string{}, map[string]string{}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
