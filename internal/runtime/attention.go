package runtime

import (
	"fmt"
	"math"

	"github.com/headlands-org/fastlm/pkg/matrix"
)

// Attention computes scaled dot-product attention:
//
//	softmax(Q * K^T / sqrt(d_k)) * V
//
// Q: [n, d_k], K: [m, d_k], V: [m, d_v], output: [n, d_v].
// Shape violations surface as matrix.ErrDimensionMismatch. A score row
// with no finite softmax is reported as matrix.ErrDegenerateSoftmax.
func Attention(q, k, v matrix.Matrix) (matrix.Matrix, error) {
	scores, err := matrix.Multiply(q, matrix.Transpose(k))
	if err != nil {
		return matrix.Matrix{}, fmt.Errorf("attention scores: %w", err)
	}

	// Dot products grow with d_k; rescale to keep softmax inputs in range
	scale := float32(1.0 / math.Sqrt(float64(q.Cols())))
	matrix.ScaleInPlace(scores, scale)

	if err := matrix.SoftmaxInPlace(scores); err != nil {
		return matrix.Matrix{}, fmt.Errorf("attention weights: %w", err)
	}

	out, err := matrix.Multiply(scores, v)
	if err != nil {
		return matrix.Matrix{}, fmt.Errorf("attention values: %w", err)
	}
	return out, nil
}
