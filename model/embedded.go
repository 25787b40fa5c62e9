// Package model provides access to a small embedded model file.
//
// The embedded model has d_model=2 and identity weights, so a forward pass
// is plain self-attention over the input rows. It is meant for examples
// and smoke tests:
//
//	rt, err := model.Open()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
package model

import (
	_ "embed"

	"github.com/headlands-org/fastlm/pkg/fastlm"
)

//go:embed identity-d2.bin
var embeddedModelBytes []byte

// Bytes returns a copy of the embedded model file
func Bytes() []byte {
	out := make([]byte, len(embeddedModelBytes))
	copy(out, embeddedModelBytes)
	return out
}

// Open loads the embedded model and returns a Runtime directly from memory
func Open(opts ...fastlm.Option) (fastlm.Runtime, error) {
	return fastlm.OpenBytes(embeddedModelBytes, opts...)
}
