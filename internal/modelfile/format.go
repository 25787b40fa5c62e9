// Package modelfile reads and writes the fixed binary model layout: a 12-byte
// header followed by four d_model x d_model float32 weight matrices.
//
//	offset 0   uint32  magic (0xFEEDBEEF)
//	offset 4   int32   layers
//	offset 8   int32   d_model
//	offset 12  float32 W_q, W_k, W_v, W_out, row-major, no padding
//
// All values are little-endian.
package modelfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Format constants
const (
	Magic      = 0xFEEDBEEF
	HeaderSize = 12
	MaxDModel  = 8192 // bounds allocation before any weight is read
	floatSize  = 4
)

// NumWeights is the number of weight matrices following the header
const NumWeights = 4

// WeightNames lists the weight matrices in file order
var WeightNames = [NumWeights]string{"W_q", "W_k", "W_v", "W_out"}

var (
	// ErrInvalidFormat reports a bad magic number or an out-of-range header field.
	ErrInvalidFormat = errors.New("invalid model format")

	// ErrTruncated reports a stream that ended before the expected byte count.
	ErrTruncated = errors.New("truncated model data")
)

// Header is the model file header
type Header struct {
	Magic  uint32
	Layers int32
	DModel int32
}

// NewHeader returns a header with the format magic set
func NewHeader(layers, dModel int) Header {
	return Header{Magic: Magic, Layers: int32(layers), DModel: int32(dModel)}
}

// Validate checks the magic number and the d_model range
func (h Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("%w: magic 0x%08x, expected 0x%08x", ErrInvalidFormat, h.Magic, uint32(Magic))
	}
	if h.DModel < 1 || h.DModel > MaxDModel {
		return fmt.Errorf("%w: d_model %d outside [1, %d]", ErrInvalidFormat, h.DModel, MaxDModel)
	}
	return nil
}

// MatrixSize returns the byte size of one d_model x d_model weight matrix
func MatrixSize(dModel int) int64 {
	return int64(dModel) * int64(dModel) * floatSize
}

// FileSize returns the byte size of a complete model file
func FileSize(dModel int) int64 {
	return HeaderSize + NumWeights*MatrixSize(dModel)
}

// ReadHeader reads and validates the header from r
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if n, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, readError("header", n, HeaderSize, err)
	}
	h := decodeHeader(buf[:])
	if err := h.Validate(); err != nil {
		return h, err
	}
	return h, nil
}

func decodeHeader(buf []byte) Header {
	return Header{
		Magic:  byteOrder.Uint32(buf[0:]),
		Layers: int32(byteOrder.Uint32(buf[4:])),
		DModel: int32(byteOrder.Uint32(buf[8:])),
	}
}

func encodeHeader(buf []byte, h Header) {
	byteOrder.PutUint32(buf[0:], h.Magic)
	byteOrder.PutUint32(buf[4:], uint32(h.Layers))
	byteOrder.PutUint32(buf[8:], uint32(h.DModel))
}

// readError classifies a failed io.ReadFull. End of stream before want bytes
// is ErrTruncated, anything else is passed through.
func readError(what string, got, want int, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("read %s: %w: got %d of %d bytes: %w", what, ErrTruncated, got, want, err)
	}
	return fmt.Errorf("read %s: %w", what, err)
}

var byteOrder = binary.LittleEndian
