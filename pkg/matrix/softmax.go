package matrix

import (
	"fmt"

	"github.com/headlands-org/fastlm/internal/kernels"
)

// SoftmaxInPlace turns every row of m into a probability distribution,
// overwriting m's storage. Each row is shifted by its maximum before
// exponentiation so large inputs cannot overflow.
//
// A row with no finite distribution (all elements -Inf, or containing +Inf
// or NaN) is written as the uniform distribution 1/cols. The remaining rows
// are still normalized and the returned error wraps ErrDegenerateSoftmax,
// naming the first such row.
func SoftmaxInPlace(m Matrix) error {
	first := -1
	count := 0
	for i := 0; i < m.rows; i++ {
		row := m.data[i*m.cols : (i+1)*m.cols]
		if !kernels.SoftmaxStable(row, row, m.cols) {
			if first < 0 {
				first = i
			}
			count++
		}
	}
	if first >= 0 {
		return fmt.Errorf("softmax %s: row %d (%d of %d rows): %w", m.Shape(), first, count, m.rows, ErrDegenerateSoftmax)
	}
	return nil
}
