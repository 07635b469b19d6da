package symbolic

import (
	"fmt"
	"strings"
)

// ============================================================
// Matrix: symbolic matrix
// ============================================================

type Matrix struct {
	rows, cols int
	data       [][]Expr
}

func NewMatrix(rows, cols int) *Matrix {
	data := make([][]Expr, rows)
	for i := range data {
		data[i] = make([]Expr, cols)
		for j := range data[i] {
			data[i][j] = N(0)
		}
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

func MatrixFromSlice(rows, cols int, entries []Expr) *Matrix {
	if len(entries) != rows*cols {
		panic(fmt.Sprintf("symbolic: MatrixFromSlice needs %d entries, got %d", rows*cols, len(entries)))
	}
	m := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.data[i][j] = entries[i*cols+j].Simplify()
		}
	}
	return m
}

// Diagonal builds the square matrix with the given diagonal entries.
func Diagonal(entries ...Expr) *Matrix {
	m := NewMatrix(len(entries), len(entries))
	for i, e := range entries {
		m.data[i][i] = e.Simplify()
	}
	return m
}

func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i][i] = N(1)
	}
	return m
}

func (m *Matrix) checkBounds(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("symbolic: matrix index out of range [%d,%d] for %dx%d", row, col, m.rows, m.cols))
	}
}

func (m *Matrix) Get(row, col int) Expr {
	m.checkBounds(row, col)
	return m.data[row][col]
}
func (m *Matrix) Set(row, col int, val Expr) {
	m.checkBounds(row, col)
	m.data[row][col] = val.Simplify()
}
func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

// Entries returns the entries in row-major order.
func (m *Matrix) Entries() []Expr {
	out := make([]Expr, 0, m.rows*m.cols)
	for i := 0; i < m.rows; i++ {
		out = append(out, m.data[i]...)
	}
	return out
}

func (m *Matrix) Clone() *Matrix { return m.Map(func(e Expr) Expr { return e }) }

// Map returns a new matrix with fn applied to every entry.
func (m *Matrix) Map(fn func(Expr) Expr) *Matrix {
	result := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			result.data[i][j] = fn(m.data[i][j])
		}
	}
	return result
}

func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(m.data[i][j].String())
		}
		sb.WriteString("]")
	}
	sb.WriteString("]")
	return sb.String()
}

func (m *Matrix) LaTeX() string {
	var sb strings.Builder
	sb.WriteString("\\begin{pmatrix}")
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(" \\\\ ")
		}
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(" & ")
			}
			sb.WriteString(m.data[i][j].LaTeX())
		}
	}
	sb.WriteString("\\end{pmatrix}")
	return sb.String()
}

func (m *Matrix) sameShape(other *Matrix) error {
	if m.rows != other.rows || m.cols != other.cols {
		return fmt.Errorf("%w: %dx%d and %dx%d", ErrDimensionMismatch, m.rows, m.cols, other.rows, other.cols)
	}
	return nil
}

func (m *Matrix) MatAdd(other *Matrix) (*Matrix, error) {
	if err := m.sameShape(other); err != nil {
		return nil, err
	}
	result := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			result.data[i][j] = AddOf(m.data[i][j], other.data[i][j])
		}
	}
	return result, nil
}

func (m *Matrix) MatMul(other *Matrix) (*Matrix, error) {
	if m.cols != other.rows {
		return nil, fmt.Errorf("%w: %dx%d times %dx%d", ErrDimensionMismatch, m.rows, m.cols, other.rows, other.cols)
	}
	result := NewMatrix(m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < other.cols; j++ {
			terms := make([]Expr, m.cols)
			for k := 0; k < m.cols; k++ {
				terms[k] = MulOf(m.data[i][k], other.data[k][j])
			}
			result.data[i][j] = Expand(AddOf(terms...))
		}
	}
	return result, nil
}

func (m *Matrix) Scale(scalar Expr) *Matrix {
	return m.Map(func(e Expr) Expr { return MulOf(scalar, e) })
}

func (m *Matrix) Transpose() *Matrix {
	result := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			result.data[j][i] = m.data[i][j]
		}
	}
	return result
}

func (m *Matrix) Trace() (Expr, error) {
	if m.rows != m.cols {
		return nil, ErrNonSquare
	}
	terms := make([]Expr, m.rows)
	for i := 0; i < m.rows; i++ {
		terms[i] = m.data[i][i]
	}
	return AddOf(terms...), nil
}

// Det expands the determinant along the first row, skipping zero entries.
func (m *Matrix) Det() (Expr, error) {
	if m.rows != m.cols {
		return nil, ErrNonSquare
	}
	if m.rows == 0 {
		return N(1), nil
	}
	return matDet(m.data, m.rows), nil
}

func matDet(data [][]Expr, n int) Expr {
	if n == 1 {
		return data[0][0]
	}
	if n == 2 {
		return AddOf(
			MulOf(data[0][0], data[1][1]),
			MulOf(N(-1), data[0][1], data[1][0]),
		)
	}
	terms := make([]Expr, 0, n)
	for j := 0; j < n; j++ {
		if isZero(data[0][j]) {
			continue
		}
		sign := N(1)
		if j%2 == 1 {
			sign = N(-1)
		}
		terms = append(terms, MulOf(sign, data[0][j], matDet(makeMinor(data, n, 0, j), n-1)))
	}
	return AddOf(terms...)
}

func makeMinor(data [][]Expr, n, skipRow, skipCol int) [][]Expr {
	minor := make([][]Expr, n-1)
	mi := 0
	for i := 0; i < n; i++ {
		if i == skipRow {
			continue
		}
		minor[mi] = make([]Expr, n-1)
		mj := 0
		for j := 0; j < n; j++ {
			if j == skipCol {
				continue
			}
			minor[mi][mj] = data[i][j]
			mj++
		}
		mi++
	}
	return minor
}

// Inverse returns adj(m)/det(m). It fails with ErrSingular when the
// determinant is identically zero.
func (m *Matrix) Inverse() (*Matrix, error) {
	det, err := m.Det()
	if err != nil {
		return nil, err
	}
	det = Expand(det)
	if dn, ok := det.Eval(); ok && dn.IsZero() {
		return nil, ErrSingular
	}
	n := m.rows
	if n == 1 {
		return MatrixFromSlice(1, 1, []Expr{PowOf(det, N(-1))}), nil
	}
	cof := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sign := N(1)
			if (i+j)%2 == 1 {
				sign = N(-1)
			}
			cof.data[i][j] = Expand(MulOf(sign, matDet(makeMinor(m.data, n, i, j), n-1)))
		}
	}
	inv := PowOf(det, N(-1))
	return cof.Transpose().Map(func(e Expr) Expr {
		if isZero(e) {
			return e
		}
		return MulOf(e, inv)
	}), nil
}

// ApplySub substitutes value for varName in every entry.
func (m *Matrix) ApplySub(varName string, value Expr) *Matrix {
	return m.Map(func(e Expr) Expr { return e.Sub(varName, value).Simplify() })
}

func (m *Matrix) ApplyDiff(varName string) *Matrix {
	return m.Map(func(e Expr) Expr { return Diff(e, varName) })
}

// IsSymmetric reports whether m equals its transpose entry by entry.
func (m *Matrix) IsSymmetric() bool {
	if m.rows != m.cols {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for j := i + 1; j < m.cols; j++ {
			if !SymbolicEqual(m.data[i][j], m.data[j][i]) {
				return false
			}
		}
	}
	return true
}

// IsDiagonal reports whether every off-diagonal entry is zero.
func (m *Matrix) IsDiagonal() bool {
	if m.rows != m.cols {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if i != j && !isZero(Expand(m.data[i][j])) {
				return false
			}
		}
	}
	return true
}

// Equal compares entries structurally.
func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil || m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if !m.data[i][j].Equal(other.data[i][j]) {
				return false
			}
		}
	}
	return true
}
