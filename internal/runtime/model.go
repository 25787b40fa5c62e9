// Package runtime provides the execution engine for single-block attention models
package runtime

import (
	"fmt"
	"io"

	"github.com/headlands-org/fastlm/internal/modelfile"
	"github.com/headlands-org/fastlm/pkg/matrix"
)

// ModelConfig holds the hyperparameters read from the model header
type ModelConfig struct {
	Magic  uint32
	Layers int
	DModel int
}

// Model is a loaded model: its header configuration and one transformer block
type Model struct {
	config ModelConfig
	block  *Block
}

// LoadModel memory-maps the model file at path, loads its weights and
// releases the mapping before returning.
func LoadModel(path string, opts ...Option) (*Model, error) {
	o := applyOptions(opts)

	f, err := modelfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	o.logf("Opened %s (%d bytes)", path, f.Size())
	return newModel(f.Header(), f.WeightsReader(), opts)
}

// LoadModelBytes loads a model held in memory
func LoadModelBytes(data []byte, opts ...Option) (*Model, error) {
	f, err := modelfile.OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	return newModel(f.Header(), f.WeightsReader(), opts)
}

// LoadModelReader loads a model from a stream positioned at the header.
// The stream length is unknown, so a short stream is only detected while
// reading the weights.
func LoadModelReader(r io.Reader, opts ...Option) (*Model, error) {
	h, err := modelfile.ReadHeader(r)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	return newModel(h, r, opts)
}

func newModel(h modelfile.Header, r io.Reader, opts []Option) (*Model, error) {
	o := applyOptions(opts)
	o.logf("File verified (Magic: %x)", h.Magic)
	o.logf("Model Config: Layers=%d, d_model=%d", h.Layers, h.DModel)

	block, err := NewBlock(int(h.DModel), r, opts...)
	if err != nil {
		return nil, err
	}

	return &Model{
		config: ModelConfig{Magic: h.Magic, Layers: int(h.Layers), DModel: int(h.DModel)},
		block:  block,
	}, nil
}

// NewModel wraps a block built by other means (for example random weights)
func NewModel(block *Block, layers int) *Model {
	return &Model{
		config: ModelConfig{Magic: modelfile.Magic, Layers: layers, DModel: block.DModel()},
		block:  block,
	}
}

// Config returns the model configuration
func (m *Model) Config() ModelConfig {
	return m.config
}

// Block returns the model's transformer block
func (m *Model) Block() *Block {
	return m.block
}

// Forward runs the model's block over input
func (m *Model) Forward(input matrix.Matrix) (matrix.Matrix, error) {
	return m.block.Forward(input)
}

// Close releases model resources. Weights are owned copies, so this is a
// no-op kept for symmetry with Load*.
func (m *Model) Close() error {
	return nil
}
