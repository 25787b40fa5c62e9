package runtime

import (
	"fmt"
	"io"
	"log"

	"github.com/headlands-org/fastlm/internal/modelfile"
	"github.com/headlands-org/fastlm/pkg/matrix"
)

// Block is a single self-attention transformer block. Its weights are never
// mutated after construction, so Forward may be called concurrently.
type Block struct {
	dModel int
	wq     matrix.Matrix // [dModel, dModel]
	wk     matrix.Matrix // [dModel, dModel]
	wv     matrix.Matrix // [dModel, dModel]
	wOut   matrix.Matrix // [dModel, dModel]
}

// Option configures block and model loading
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger reports loading progress to l. A nil logger disables output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func (o *options) logf(format string, args ...interface{}) {
	if o.logger != nil {
		o.logger.Printf(format, args...)
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewBlock reads W_q, W_k, W_v and W_out (each dModel x dModel, in that
// order) from r. r must be positioned at the first weight value.
func NewBlock(dModel int, r io.Reader, opts ...Option) (*Block, error) {
	o := applyOptions(opts)
	if dModel < 1 {
		return nil, fmt.Errorf("new block: d_model %d: %w", dModel, matrix.ErrInvalidShape)
	}

	var w [modelfile.NumWeights]matrix.Matrix
	for i, name := range modelfile.WeightNames {
		o.logf("Loading %s [%dx%d]", name, dModel, dModel)
		m, err := modelfile.ReadMatrix(r, dModel, dModel)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		w[i] = m
	}

	return &Block{dModel: dModel, wq: w[0], wk: w[1], wv: w[2], wOut: w[3]}, nil
}

// NewBlockFromWeights builds a block from already constructed matrices.
// All four must be square with the same side. The block keeps its own copies.
func NewBlockFromWeights(wq, wk, wv, wOut matrix.Matrix) (*Block, error) {
	d := wq.Rows()
	for i, m := range []matrix.Matrix{wq, wk, wv, wOut} {
		if m.Empty() {
			return nil, fmt.Errorf("%s is empty: %w", modelfile.WeightNames[i], matrix.ErrInvalidShape)
		}
		if m.Rows() != d || m.Cols() != d {
			return nil, fmt.Errorf("%s is %s, expected %dx%d: %w", modelfile.WeightNames[i], m.Shape(), d, d, matrix.ErrDimensionMismatch)
		}
	}
	return &Block{dModel: d, wq: wq.Clone(), wk: wk.Clone(), wv: wv.Clone(), wOut: wOut.Clone()}, nil
}

// DModel returns the hidden dimension
func (b *Block) DModel() int {
	return b.dModel
}

// Weights returns copies of the block's weights in file order
func (b *Block) Weights() modelfile.Weights {
	return modelfile.Weights{Q: b.wq.Clone(), K: b.wk.Clone(), V: b.wv.Clone(), Out: b.wOut.Clone()}
}

// Forward runs the block over input ([seqLen, dModel]) and returns
// attention(input*W_q, input*W_k, input*W_v) * W_out ([seqLen, dModel]).
func (b *Block) Forward(input matrix.Matrix) (matrix.Matrix, error) {
	if input.Empty() {
		return matrix.Matrix{}, fmt.Errorf("forward: empty input: %w", matrix.ErrInvalidShape)
	}
	if input.Cols() != b.dModel {
		return matrix.Matrix{}, fmt.Errorf("forward: input %s, d_model %d: %w", input.Shape(), b.dModel, matrix.ErrDimensionMismatch)
	}

	q, err := matrix.Multiply(input, b.wq)
	if err != nil {
		return matrix.Matrix{}, fmt.Errorf("project Q: %w", err)
	}
	k, err := matrix.Multiply(input, b.wk)
	if err != nil {
		return matrix.Matrix{}, fmt.Errorf("project K: %w", err)
	}
	v, err := matrix.Multiply(input, b.wv)
	if err != nil {
		return matrix.Matrix{}, fmt.Errorf("project V: %w", err)
	}

	attnOut, err := Attention(q, k, v)
	if err != nil {
		return matrix.Matrix{}, err
	}

	out, err := matrix.Multiply(attnOut, b.wOut)
	if err != nil {
		return matrix.Matrix{}, fmt.Errorf("project output: %w", err)
	}
	return out, nil
}
