// Package fastlm provides a high-level API for single-block self-attention
// models stored in the fastlm binary format.
package fastlm

import (
	"fmt"
	"io"
	"log"

	modelrt "github.com/headlands-org/fastlm/internal/runtime"
	"github.com/headlands-org/fastlm/pkg/matrix"
)

// Runtime is the main interface for the inference runtime
type Runtime interface {
	// Forward runs the transformer block over input ([seqLen, DModel])
	Forward(input matrix.Matrix) (matrix.Matrix, error)

	// DModel returns the hidden dimension
	DModel() int

	// Layers returns the layer count recorded in the file header
	Layers() int

	// Block returns the loaded transformer block
	Block() *Block

	// Close releases resources
	Close() error
}

// Block is a single self-attention transformer block
type Block = modelrt.Block

// modelRuntime implements Runtime
type modelRuntime struct {
	model   *modelrt.Model
	options Options
}

// Options configures the runtime
type Options struct {
	// Verbose logs loading progress to Logger, or to log.Default() when
	// Logger is nil
	Verbose bool

	// Logger receives progress messages when Verbose is set
	Logger *log.Logger
}

// Option is a functional option for configuring the runtime
type Option func(*Options)

// WithVerbose enables verbose logging
func WithVerbose(v bool) Option {
	return func(o *Options) {
		o.Verbose = v
	}
}

// WithLogger sets the logger used for verbose output
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

func resolveOptions(opts []Option) (Options, []modelrt.Option) {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	var rtOpts []modelrt.Option
	if options.Verbose {
		logger := options.Logger
		if logger == nil {
			logger = log.Default()
		}
		rtOpts = append(rtOpts, modelrt.WithLogger(logger))
	}
	return options, rtOpts
}

// Open opens a model file and returns a Runtime. The file is memory-mapped
// only while the weights are copied in.
func Open(path string, opts ...Option) (Runtime, error) {
	options, rtOpts := resolveOptions(opts)

	model, err := modelrt.LoadModel(path, rtOpts...)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &modelRuntime{model: model, options: options}, nil
}

// OpenBytes loads a model directly from an in-memory byte slice
func OpenBytes(data []byte, opts ...Option) (Runtime, error) {
	options, rtOpts := resolveOptions(opts)

	model, err := modelrt.LoadModelBytes(data, rtOpts...)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &modelRuntime{model: model, options: options}, nil
}

// OpenReader loads a model from a stream positioned at the file header.
// The caller keeps ownership of r.
func OpenReader(r io.Reader, opts ...Option) (Runtime, error) {
	options, rtOpts := resolveOptions(opts)

	model, err := modelrt.LoadModelReader(r, rtOpts...)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &modelRuntime{model: model, options: options}, nil
}

// FromBlock wraps an existing block, for example one built from randomly
// initialized weights, in a Runtime
func FromBlock(block *Block, layers int, opts ...Option) Runtime {
	options, _ := resolveOptions(opts)
	return &modelRuntime{model: modelrt.NewModel(block, layers), options: options}
}

// NewBlock reads W_q, W_k, W_v and W_out (each dModel x dModel) from r
func NewBlock(dModel int, r io.Reader) (*Block, error) {
	return modelrt.NewBlock(dModel, r)
}

// NewBlockFromWeights builds a block from four square matrices of equal size
func NewBlockFromWeights(wq, wk, wv, wOut matrix.Matrix) (*Block, error) {
	return modelrt.NewBlockFromWeights(wq, wk, wv, wOut)
}

// Attention computes softmax(Q*K^T / sqrt(d_k)) * V
func Attention(q, k, v matrix.Matrix) (matrix.Matrix, error) {
	return modelrt.Attention(q, k, v)
}

// Forward runs the transformer block over input
func (r *modelRuntime) Forward(input matrix.Matrix) (matrix.Matrix, error) {
	out, err := r.model.Forward(input)
	if err != nil {
		return matrix.Matrix{}, fmt.Errorf("forward: %w", err)
	}
	return out, nil
}

// DModel returns the hidden dimension
func (r *modelRuntime) DModel() int {
	return r.model.Config().DModel
}

// Layers returns the layer count from the header
func (r *modelRuntime) Layers() int {
	return r.model.Config().Layers
}

// Block returns the loaded transformer block
func (r *modelRuntime) Block() *Block {
	return r.model.Block()
}

// Close releases resources
func (r *modelRuntime) Close() error {
	return r.model.Close()
}
