package symbolic

import "math"

// ============================================================
// Func: builtin elementary functions of one argument
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr  { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr  { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr  { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr  { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr   { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr  { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr { return funcOf("tanh", arg).Simplify() }

// builtinFuncs maps names accepted by FuncOf (and the JSON decoder) to
// their constructors.
var builtinFuncs = map[string]func(Expr) Expr{
	"sin": SinOf, "cos": CosOf, "tan": TanOf, "exp": ExpOf, "ln": LnOf,
	"abs": AbsOf, "asin": AsinOf, "acos": AcosOf, "atan": AtanOf,
	"sinh": SinhOf, "cosh": CoshOf, "tanh": TanhOf,
}

// FuncOf builds the builtin function called name, or reports false for
// names it does not know. Undefined functions are built with Apply.
func FuncOf(name string, arg Expr) (Expr, bool) {
	ctor, ok := builtinFuncs[name]
	if !ok {
		return nil, false
	}
	return ctor(arg), true
}

// Simplify folds only exact identities: transcendental values of nonzero
// numbers are kept symbolic.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	switch f.name {
	case "sin", "tan", "asin", "atan", "sinh", "tanh":
		if isNumEqual(arg, 0) {
			return N(0)
		}
	case "cos", "cosh":
		if isNumEqual(arg, 0) {
			return N(1)
		}
	case "ln":
		if n, ok := arg.(*Num); ok && n.IsOne() {
			return N(0)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if n, ok := arg.(*Num); ok && n.IsZero() {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "abs":
		if n, ok := arg.(*Num); ok {
			if n.IsNegative() {
				return numNeg(n)
			}
			return n
		}
		if m, ok := arg.(*Mul); ok && len(m.factors) >= 2 {
			if coeff, ok2 := m.factors[0].(*Num); ok2 && coeff.IsNegOne() {
				return AbsOf(MulOf(m.factors[1:]...))
			}
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "sin", "cos", "tan", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + f.arg.LaTeX() + "\\right)"
	case "acos":
		return "\\arccos\\left(" + f.arg.LaTeX() + "\\right)"
	case "atan":
		return "\\arctan\\left(" + f.arg.LaTeX() + "\\right)"
	case "abs":
		return "\\left|" + f.arg.LaTeX() + "\\right|"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	if isZero(du) {
		return N(0)
	}
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "abs":
		outer = MulOf(f.arg, PowOf(AbsOf(f.arg), N(-1)))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	}
	return MulOf(outer, du)
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	v := n.Float64()
	var r float64
	switch f.name {
	case "sin":
		r = math.Sin(v)
	case "cos":
		r = math.Cos(v)
	case "tan":
		r = math.Tan(v)
	case "exp":
		r = math.Exp(v)
	case "ln":
		r = math.Log(v)
	case "abs":
		r = math.Abs(v)
	case "asin":
		r = math.Asin(v)
	case "acos":
		r = math.Acos(v)
	case "atan":
		r = math.Atan(v)
	case "sinh":
		r = math.Sinh(v)
	case "cosh":
		r = math.Cosh(v)
	case "tanh":
		r = math.Tanh(v)
	default:
		return nil, false
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, false
	}
	return NFloat(r), true
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }
