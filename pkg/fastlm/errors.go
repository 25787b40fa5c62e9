package fastlm

import (
	"github.com/headlands-org/fastlm/internal/modelfile"
	"github.com/headlands-org/fastlm/pkg/matrix"
)

// Errors returned by the runtime, matched with errors.Is
var (
	ErrDimensionMismatch = matrix.ErrDimensionMismatch
	ErrInvalidShape      = matrix.ErrInvalidShape
	ErrDegenerateSoftmax = matrix.ErrDegenerateSoftmax
	ErrInvalidFormat     = modelfile.ErrInvalidFormat
	ErrTruncated         = modelfile.ErrTruncated
)

// Magic is the model file magic number
const Magic = modelfile.Magic
