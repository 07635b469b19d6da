package symbolic

import "errors"

// Sentinel errors. Callers match them with errors.Is; the engine wraps them
// with context via fmt.Errorf("...: %w", ErrX).
var (
	// ErrNonSquare is returned when a square matrix is required.
	ErrNonSquare = errors.New("symbolic: matrix is not square")

	// ErrDimensionMismatch indicates incompatible operand shapes, or a basis
	// whose size does not match a matrix.
	ErrDimensionMismatch = errors.New("symbolic: dimension mismatch")

	// ErrSingular is returned by Inverse when the determinant expands to 0.
	ErrSingular = errors.New("symbolic: matrix is singular")

	// ErrNotAForm signals a rank mismatch while evaluating a differential
	// form on basis vectors (e.g. a scalar term inside a twoform).
	ErrNotAForm = errors.New("symbolic: expression is not a form of the requested rank")

	// ErrNoBasis is returned when an expression contains no base one-forms.
	ErrNoBasis = errors.New("symbolic: expression has no base one-forms")

	// ErrMixedBasis is returned when one-forms from different charts meet in
	// one expression.
	ErrMixedBasis = errors.New("symbolic: one-forms from different charts")

	// ErrBadJSON marks a malformed serialized expression.
	ErrBadJSON = errors.New("symbolic: malformed expression JSON")
)
