package matrix

import "errors"

var (
	// ErrDimensionMismatch reports operands whose shapes do not fit the kernel.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidShape reports a non-positive or ragged shape at construction.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrDegenerateSoftmax reports a row with no finite probability
	// distribution (every element -Inf, or an +Inf/NaN element).
	ErrDegenerateSoftmax = errors.New("degenerate softmax row")
)
