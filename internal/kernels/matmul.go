// Package kernels provides pure-Go math kernels over flat row-major float32 buffers
package kernels

import (
	"fmt"
)

// MatMulF32 performs matrix multiplication: C = A * B
// A: [M, K], B: [K, N], C: [M, N]
func MatMulF32(dst, a, b []float32, M, K, N int) {
	if len(dst) < M*N {
		panic(fmt.Sprintf("dst too small: %d < %d", len(dst), M*N))
	}
	if len(a) < M*K {
		panic(fmt.Sprintf("a too small: %d < %d", len(a), M*K))
	}
	if len(b) < K*N {
		panic(fmt.Sprintf("b too small: %d < %d", len(b), K*N))
	}

	// Zero output
	for i := range dst[:M*N] {
		dst[i] = 0
	}

	// Cache-friendly blocked multiplication. The k loop stays in ascending
	// order for every (i, j), so each element is the plain inner-product sum.
	const blockSize = 64

	for i0 := 0; i0 < M; i0 += blockSize {
		i1 := min(i0+blockSize, M)
		for k0 := 0; k0 < K; k0 += blockSize {
			k1 := min(k0+blockSize, K)
			for j0 := 0; j0 < N; j0 += blockSize {
				j1 := min(j0+blockSize, N)

				for i := i0; i < i1; i++ {
					for k := k0; k < k1; k++ {
						aVal := a[i*K+k]
						for j := j0; j < j1; j++ {
							dst[i*N+j] += aVal * b[k*N+j]
						}
					}
				}
			}
		}
	}
}

// TransposeF32 writes the transpose of src into dst
// src: [rows, cols], dst: [cols, rows]
func TransposeF32(dst, src []float32, rows, cols int) {
	if len(dst) < rows*cols || len(src) < rows*cols {
		panic(fmt.Sprintf("TransposeF32: buffer too small for %dx%d", rows, cols))
	}

	for i := 0; i < rows; i++ {
		srcBase := i * cols
		for j := 0; j < cols; j++ {
			dst[j*rows+i] = src[srcBase+j]
		}
	}
}

// VecDotF32 computes dot product of two vectors
func VecDotF32(a, b []float32, n int) float32 {
	if len(a) < n || len(b) < n {
		panic("vectors too small for dot product")
	}

	sum := float32(0)
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// VecScaleF32 scales a vector: dst = a * scale
func VecScaleF32(dst, a []float32, scale float32, n int) {
	for i := 0; i < n; i++ {
		dst[i] = a[i] * scale
	}
}
