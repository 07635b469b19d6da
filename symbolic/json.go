package symbolic

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ============================================================
// JSON Serialization
// ============================================================

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// JSONValue returns the decoded-JSON form of e, suitable for embedding in
// a larger document.
func JSONValue(e Expr) map[string]interface{} { return e.toJSON() }

func jsonList(es []Expr) []interface{} {
	out := make([]interface{}, len(es))
	for i, e := range es {
		out[i] = e.toJSON()
	}
	return out
}

// ParseJSON decodes an expression from its JSON text.
func ParseJSON(text string) (Expr, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}
	return FromJSON(data)
}

// FromJSON decodes an expression from its decoded-JSON object form. Every
// failure wraps ErrBadJSON.
func FromJSON(data map[string]interface{}) (Expr, error) {
	e, err := fromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}
	return e, nil
}

func fromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	subObj := func(field string) (Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		e, err := fromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}

	subObjArray := func(field string) ([]Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an array", typ, field)
		}
		out := make([]Expr, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: %q[%d] must be an object", typ, field, i)
			}
			e, err := fromJSON(m)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			out[i] = e
		}
		return out, nil
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", fmt.Errorf("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	subStrings := func(field string) ([]string, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an array", typ, field)
		}
		out := make([]string, len(raw))
		for i, it := range raw {
			s, ok := it.(string)
			if !ok || s == "" {
				return nil, fmt.Errorf("%s: %q[%d] must be a non-empty string", typ, field, i)
			}
			out[i] = s
		}
		return out, nil
	}

	subNumberAsInt := func(field string) (int, error) {
		v, ok := data[field]
		if !ok {
			return 0, fmt.Errorf("%s: missing %q", typ, field)
		}
		n, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("%s: %q must be a number", typ, field)
		}
		return int(n), nil
	}

	switch typ {
	case "num":
		val, err := subString("value")
		if err != nil {
			return nil, err
		}
		r := new(big.Rat)
		if _, ok := r.SetString(val); !ok {
			return nil, fmt.Errorf("invalid num value: %s", val)
		}
		return &Num{val: r}, nil

	case "sym":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		return S(name), nil

	case "add":
		terms, err := subObjArray("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := subObjArray("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil

	case "pow":
		base, err := subObj("base")
		if err != nil {
			return nil, err
		}
		exp, err := subObj("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil

	case "func":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		arg, err := subObj("arg")
		if err != nil {
			return nil, err
		}
		f, ok := FuncOf(name, arg)
		if !ok {
			return nil, fmt.Errorf("func: unknown function %q", name)
		}
		return f, nil

	case "applied":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		args, err := subObjArray("args")
		if err != nil {
			return nil, err
		}
		return Apply(name, args...), nil

	case "derivative":
		fn, err := subObj("fn")
		if err != nil {
			return nil, err
		}
		applied, ok := fn.(*Applied)
		if !ok {
			return nil, fmt.Errorf("derivative: 'fn' must be an applied function")
		}
		vars, err := subStrings("vars")
		if err != nil {
			return nil, err
		}
		if len(vars) == 0 {
			return nil, fmt.Errorf("derivative: 'vars' must not be empty")
		}
		return DerivativeOf(applied, vars...), nil

	case "at":
		inner, err := subObj("expr")
		if err != nil {
			return nil, err
		}
		v, err := subString("var")
		if err != nil {
			return nil, err
		}
		value, err := subObj("value")
		if err != nil {
			return nil, err
		}
		return AtOf(inner, v, value), nil

	case "differential":
		chart, err := subString("chart")
		if err != nil {
			return nil, err
		}
		coords, err := subStrings("coords")
		if err != nil {
			return nil, err
		}
		idx, err := subNumberAsInt("index")
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(coords) {
			return nil, fmt.Errorf("differential: index %d out of range", idx)
		}
		return NewBasis(chart, coords...).Differential(idx), nil

	case "tensor":
		factors, err := subObjArray("factors")
		if err != nil {
			return nil, err
		}
		return TensorProductOf(factors...), nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}

// MatrixJSON returns {rows, cols, entries} with entries in row-major order.
func MatrixJSON(m *Matrix) map[string]interface{} {
	return map[string]interface{}{"rows": m.rows, "cols": m.cols, "entries": jsonList(m.Entries())}
}

// MatrixFromJSON decodes the form produced by MatrixJSON.
func MatrixFromJSON(data map[string]interface{}) (*Matrix, error) {
	rowsF, ok1 := data["rows"].(float64)
	colsF, ok2 := data["cols"].(float64)
	if !ok1 || !ok2 || rowsF < 1 || colsF < 1 {
		return nil, fmt.Errorf("%w: matrix needs positive numeric rows and cols", ErrBadJSON)
	}
	rows, cols := int(rowsF), int(colsF)
	raw, ok := data["entries"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: matrix entries must be an array", ErrBadJSON)
	}
	if len(raw) != rows*cols {
		return nil, fmt.Errorf("%w: need %d entries, got %d", ErrBadJSON, rows*cols, len(raw))
	}
	entries := make([]Expr, len(raw))
	for i, r := range raw {
		m, ok := r.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: entry %d must be an object", ErrBadJSON, i)
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries[i] = e
	}
	return MatrixFromSlice(rows, cols, entries), nil
}
