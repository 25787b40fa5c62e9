// Package matrix provides a dense row-major float32 matrix and the kernels
// used by the attention runtime: multiply, transpose, scale and a
// numerically stable row softmax.
//
// Matrices are values. Every operation returns a new Matrix except the
// explicitly named in-place mutators (Set, ScaleInPlace, SoftmaxInPlace).
package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense rows x cols matrix of float32 stored row-major
type Matrix struct {
	rows int
	cols int
	data []float32
}

var _ mat.Matrix = Matrix{}

// New returns a zero-filled rows x cols matrix
func New(rows, cols int) (Matrix, error) {
	if rows < 1 || cols < 1 {
		return Matrix{}, fmt.Errorf("%w: %dx%d", ErrInvalidShape, rows, cols)
	}
	return Matrix{rows: rows, cols: cols, data: make([]float32, rows*cols)}, nil
}

// FromRows builds a matrix from a slice of equal-length rows
func FromRows(rows [][]float32) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, fmt.Errorf("%w: no rows", ErrInvalidShape)
	}
	cols := len(rows[0])
	m, err := New(len(rows), cols)
	if err != nil {
		return Matrix{}, err
	}
	for i, row := range rows {
		if len(row) != cols {
			return Matrix{}, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrInvalidShape, i, len(row), cols)
		}
		copy(m.data[i*cols:], row)
	}
	return m, nil
}

// FromSlice builds a rows x cols matrix from row-major data. The data is copied.
func FromSlice(rows, cols int, data []float32) (Matrix, error) {
	m, err := New(rows, cols)
	if err != nil {
		return Matrix{}, err
	}
	if len(data) != rows*cols {
		return Matrix{}, fmt.Errorf("%w: %d values for %dx%d", ErrInvalidShape, len(data), rows, cols)
	}
	copy(m.data, data)
	return m, nil
}

// Filled returns a rows x cols matrix with every element set to v
func Filled(rows, cols int, v float32) (Matrix, error) {
	m, err := New(rows, cols)
	if err != nil {
		return Matrix{}, err
	}
	for i := range m.data {
		m.data[i] = v
	}
	return m, nil
}

// Identity returns the n x n identity matrix
func Identity(n int) (Matrix, error) {
	m, err := New(n, n)
	if err != nil {
		return Matrix{}, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m, nil
}

// Rows returns the number of rows
func (m Matrix) Rows() int { return m.rows }

// Cols returns the number of columns
func (m Matrix) Cols() int { return m.cols }

// Shape returns a "RxC" description used in error messages
func (m Matrix) Shape() string {
	return fmt.Sprintf("%dx%d", m.rows, m.cols)
}

// Empty reports whether m is the zero Matrix
func (m Matrix) Empty() bool {
	return m.rows == 0 || m.cols == 0
}

// Dims returns the matrix dimensions (gonum mat.Matrix)
func (m Matrix) Dims() (r, c int) {
	return m.rows, m.cols
}

// At returns element (i, j) widened to float64 (gonum mat.Matrix)
func (m Matrix) At(i, j int) float64 {
	return float64(m.Get(i, j))
}

// T returns the implicit transpose (gonum mat.Matrix)
func (m Matrix) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// Get returns element (i, j)
func (m Matrix) Get(i, j int) float32 {
	m.checkIndex(i, j)
	return m.data[i*m.cols+j]
}

// Set overwrites element (i, j) in place
func (m Matrix) Set(i, j int, v float32) {
	m.checkIndex(i, j)
	m.data[i*m.cols+j] = v
}

// Row returns a copy of row i
func (m Matrix) Row(i int) []float32 {
	m.checkIndex(i, 0)
	out := make([]float32, m.cols)
	copy(out, m.data[i*m.cols:(i+1)*m.cols])
	return out
}

// Data returns a copy of the row-major backing data
func (m Matrix) Data() []float32 {
	out := make([]float32, len(m.data))
	copy(out, m.data)
	return out
}

// Clone returns a deep copy of m
func (m Matrix) Clone() Matrix {
	return Matrix{rows: m.rows, cols: m.cols, data: m.Data()}
}

// Equal reports whether a and b have the same shape and identical elements
func Equal(a, b Matrix) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for i, v := range a.data {
		if b.data[i] != v {
			return false
		}
	}
	return true
}

// EqualApprox reports whether a and b have the same shape and every pair of
// elements differs by at most tol
func EqualApprox(a, b Matrix, tol float64) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for i, v := range a.data {
		if math.Abs(float64(v-b.data[i])) > tol {
			return false
		}
	}
	return true
}

// RawData exposes the backing slice. Writes through it mutate m.
// Intended for loaders that fill a pre-shaped matrix.
func (m Matrix) RawData() []float32 {
	return m.data
}

func (m Matrix) checkIndex(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("matrix: index (%d, %d) out of range for %s", i, j, m.Shape()))
	}
}
