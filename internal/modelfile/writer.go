package modelfile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	mmapgo "github.com/edsrzf/mmap-go"

	"github.com/headlands-org/fastlm/pkg/matrix"
)

// checkWeights verifies that every weight matrix is square with side h.DModel
func checkWeights(h Header, w Weights) error {
	if err := h.Validate(); err != nil {
		return err
	}
	d := int(h.DModel)
	for i, m := range w.All() {
		if m.Rows() != d || m.Cols() != d {
			return fmt.Errorf("%s is %s, d_model %d: %w", WeightNames[i], m.Shape(), d, matrix.ErrDimensionMismatch)
		}
	}
	return nil
}

// Write encodes the header and weights to w
func Write(w io.Writer, h Header, weights Weights) error {
	if err := checkWeights(h, weights); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	var buf [HeaderSize]byte
	encodeHeader(buf[:], h)
	if _, err := bw.Write(buf[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var val [floatSize]byte
	for i, m := range weights.All() {
		for _, v := range m.RawData() {
			byteOrder.PutUint32(val[:], math.Float32bits(v))
			if _, err := bw.Write(val[:]); err != nil {
				return fmt.Errorf("write %s: %w", WeightNames[i], err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Create writes a complete model file at path. The file is sized up front,
// mapped read-write and encoded in place.
func Create(path string, h Header, weights Weights) (err error) {
	if err := checkWeights(h, weights); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close file: %w", cerr)
		}
	}()

	size := FileSize(int(h.DModel))
	if err := file.Truncate(size); err != nil {
		return fmt.Errorf("truncate file: %w", err)
	}

	region, err := mmapgo.Map(file, mmapgo.RDWR, 0)
	if err != nil {
		return fmt.Errorf("mmap file: %w", err)
	}

	encodeHeader(region, h)
	off := HeaderSize
	for _, m := range weights.All() {
		for _, v := range m.RawData() {
			byteOrder.PutUint32(region[off:], math.Float32bits(v))
			off += floatSize
		}
	}

	if err := region.Flush(); err != nil {
		region.Unmap()
		return fmt.Errorf("flush mapping: %w", err)
	}
	if err := region.Unmap(); err != nil {
		return fmt.Errorf("unmap file: %w", err)
	}
	return nil
}
