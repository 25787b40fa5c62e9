package kernels

import "math"

// SoftmaxStable applies softmax over n elements using the max-subtraction
// trick: softmax(x)_i = exp(x_i - max) / sum_j exp(x_j - max).
// dst and src may be the same slice.
//
// It reports false when the row has no finite maximum or the exponent sum
// is not a positive finite number (all -Inf, any +Inf, NaN). Such rows are
// written as the uniform distribution 1/n.
func SoftmaxStable(dst, src []float32, n int) bool {
	if n == 0 {
		return true
	}

	// Find max for numerical stability
	maxVal := src[0]
	for i := 1; i < n; i++ {
		if src[i] > maxVal {
			maxVal = src[i]
		}
	}
	if math.IsInf(float64(maxVal), 0) || math.IsNaN(float64(maxVal)) {
		fillUniform(dst, n)
		return false
	}

	sum := float32(0)
	for i := 0; i < n; i++ {
		e := float32(math.Exp(float64(src[i] - maxVal)))
		dst[i] = e
		sum += e
	}

	if !(sum > 0) || math.IsInf(float64(sum), 0) {
		fillUniform(dst, n)
		return false
	}

	for i := 0; i < n; i++ {
		dst[i] /= sum
	}
	return true
}

func fillUniform(dst []float32, n int) {
	inv := 1.0 / float32(n)
	for i := 0; i < n; i++ {
		dst[i] = inv
	}
}
