package modelfile

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"golang.org/x/exp/mmap"

	"github.com/headlands-org/fastlm/pkg/matrix"
)

// Weights holds the four attention weight matrices in file order
type Weights struct {
	Q   matrix.Matrix
	K   matrix.Matrix
	V   matrix.Matrix
	Out matrix.Matrix
}

// All returns the matrices in file order (W_q, W_k, W_v, W_out)
func (w Weights) All() [NumWeights]matrix.Matrix {
	return [NumWeights]matrix.Matrix{w.Q, w.K, w.V, w.Out}
}

// LoadMatrix fills the pre-shaped matrix m with rows*cols little-endian
// float32 values read from r in row-major order. On a short read m is left
// unchanged and the error wraps ErrTruncated.
func LoadMatrix(r io.Reader, m matrix.Matrix) error {
	dst := m.RawData()
	buf := make([]byte, len(dst)*floatSize)
	if n, err := io.ReadFull(r, buf); err != nil {
		return readError(fmt.Sprintf("%s matrix", m.Shape()), n, len(buf), err)
	}
	for i := range dst {
		dst[i] = math.Float32frombits(byteOrder.Uint32(buf[i*floatSize:]))
	}
	return nil
}

// ReadMatrix allocates a rows x cols matrix and loads it from r
func ReadMatrix(r io.Reader, rows, cols int) (matrix.Matrix, error) {
	m, err := matrix.New(rows, cols)
	if err != nil {
		return matrix.Matrix{}, err
	}
	if err := LoadMatrix(r, m); err != nil {
		return matrix.Matrix{}, err
	}
	return m, nil
}

// ReadWeights reads W_q, W_k, W_v and W_out from r. Each is dModel x dModel.
func ReadWeights(r io.Reader, dModel int) (Weights, error) {
	var all [NumWeights]matrix.Matrix
	for i, name := range WeightNames {
		m, err := ReadMatrix(r, dModel, dModel)
		if err != nil {
			return Weights{}, fmt.Errorf("load %s: %w", name, err)
		}
		all[i] = m
	}
	return Weights{Q: all[0], K: all[1], V: all[2], Out: all[3]}, nil
}

// Decode reads a complete model (header and weights) from r
func Decode(r io.Reader) (Header, Weights, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return h, Weights{}, err
	}
	w, err := ReadWeights(r, int(h.DModel))
	if err != nil {
		return h, Weights{}, err
	}
	return h, w, nil
}

// DecodeBytes decodes a model held in memory. The payload size is checked
// against the header before any weight matrix is allocated.
func DecodeBytes(data []byte) (Header, Weights, error) {
	f, err := OpenBytes(data)
	if err != nil {
		return Header{}, Weights{}, err
	}
	w, err := f.ReadWeights()
	if err != nil {
		return f.header, Weights{}, err
	}
	return f.header, w, nil
}

// File provides read access to a model file via memory mapping
type File struct {
	path   string
	mmap   *mmap.ReaderAt
	src    io.ReaderAt
	size   int64
	header Header
}

// Open memory-maps the model file at path and validates its header and size
func Open(path string) (*File, error) {
	mmapReader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap file: %w", err)
	}

	f, err := newFile(mmapReader, int64(mmapReader.Len()))
	if err != nil {
		mmapReader.Close()
		return nil, err
	}
	f.path = path
	f.mmap = mmapReader
	return f, nil
}

// OpenBytes validates the header and size of a model held in memory.
// The returned File reads from data without copying it.
func OpenBytes(data []byte) (*File, error) {
	return newFile(bytes.NewReader(data), int64(len(data)))
}

func newFile(src io.ReaderAt, size int64) (*File, error) {
	h, err := ReadHeader(io.NewSectionReader(src, 0, size))
	if err != nil {
		return nil, err
	}
	if want := FileSize(int(h.DModel)); size < want {
		return nil, fmt.Errorf("%w: %d bytes, d_model %d needs %d", ErrTruncated, size, h.DModel, want)
	}
	return &File{src: src, size: size, header: h}, nil
}

// Header returns the validated file header
func (f *File) Header() Header {
	return f.header
}

// Size returns the file size in bytes
func (f *File) Size() int64 {
	return f.size
}

// Path returns the path the file was opened from, if any
func (f *File) Path() string {
	return f.path
}

// WeightsReader returns a fresh stream positioned at the first weight value
func (f *File) WeightsReader() io.Reader {
	return io.NewSectionReader(f.src, HeaderSize, f.size-HeaderSize)
}

// ReadWeights decodes all four weight matrices
func (f *File) ReadWeights() (Weights, error) {
	return ReadWeights(f.WeightsReader(), int(f.header.DModel))
}

// Close unmaps the file
func (f *File) Close() error {
	if f.mmap != nil {
		return f.mmap.Close()
	}
	return nil
}
