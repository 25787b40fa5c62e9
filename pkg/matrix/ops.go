package matrix

import (
	"fmt"

	"github.com/headlands-org/fastlm/internal/kernels"
)

// Multiply returns a * b. It fails with ErrDimensionMismatch, before any
// allocation, unless a.Cols() == b.Rows().
func Multiply(a, b Matrix) (Matrix, error) {
	if a.Empty() || b.Empty() {
		return Matrix{}, fmt.Errorf("multiply %s by %s: %w", a.Shape(), b.Shape(), ErrInvalidShape)
	}
	if a.cols != b.rows {
		return Matrix{}, fmt.Errorf("multiply %s by %s: %w", a.Shape(), b.Shape(), ErrDimensionMismatch)
	}

	out := Matrix{rows: a.rows, cols: b.cols, data: make([]float32, a.rows*b.cols)}
	kernels.MatMulF32(out.data, a.data, b.data, a.rows, a.cols, b.cols)
	return out, nil
}

// Transpose returns the cols x rows transpose of m
func Transpose(m Matrix) Matrix {
	out := Matrix{rows: m.cols, cols: m.rows, data: make([]float32, len(m.data))}
	kernels.TransposeF32(out.data, m.data, m.rows, m.cols)
	return out
}

// Scale returns m with every element multiplied by s
func Scale(m Matrix, s float32) Matrix {
	out := Matrix{rows: m.rows, cols: m.cols, data: make([]float32, len(m.data))}
	kernels.VecScaleF32(out.data, m.data, s, len(m.data))
	return out
}

// ScaleInPlace multiplies every element of m by s, mutating m
func ScaleInPlace(m Matrix, s float32) {
	kernels.VecScaleF32(m.data, m.data, s, len(m.data))
}
