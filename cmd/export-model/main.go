// Command export-model writes a model file with random or identity weights
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/headlands-org/fastlm/internal/modelfile"
	"github.com/headlands-org/fastlm/pkg/matrix"
)

var (
	outputPath = flag.String("o", "models/model.bin", "Output model file")
	dModel     = flag.Int("dmodel", 4, "Hidden dimension d_model")
	layers     = flag.Int("layers", 1, "Layer count recorded in the header")
	seed       = flag.Uint64("seed", 0, "Random seed (0 = time based)")
	identity   = flag.Bool("identity", false, "Write identity weights instead of U[0,1) samples")
)

func main() {
	flag.Parse()

	if *dModel < 1 || *dModel > modelfile.MaxDModel {
		fmt.Fprintf(os.Stderr, "Error: -dmodel must be in [1, %d]\n", modelfile.MaxDModel)
		flag.Usage()
		os.Exit(1)
	}

	var strategy matrix.Initializer = matrix.IdentityInit{}
	if !*identity {
		s := *seed
		if s == 0 {
			s = uint64(time.Now().UnixNano())
		}
		strategy = matrix.NewUniform(s)
		log.Printf("Using seed %d", s)
	}

	weights, err := buildWeights(strategy, *dModel)
	if err != nil {
		log.Fatalf("Failed to initialize weights: %v", err)
	}

	if dir := filepath.Dir(*outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	fmt.Printf("Creating model file: %s...\n", *outputPath)
	h := modelfile.NewHeader(*layers, *dModel)
	if err := modelfile.Create(*outputPath, h, weights); err != nil {
		log.Fatalf("Failed to write model: %v", err)
	}

	d := *dModel
	fmt.Printf("  > Wrote %d weights (%d matrices of %dx%d)\n", modelfile.NumWeights*d*d, modelfile.NumWeights, d, d)
	fmt.Printf("Model saved (%d bytes)\n", modelfile.FileSize(*dModel))
}

// buildWeights creates the four weight matrices in file order
func buildWeights(strategy matrix.Initializer, d int) (modelfile.Weights, error) {
	var all [modelfile.NumWeights]matrix.Matrix
	for i, name := range modelfile.WeightNames {
		m, err := strategy.Init(d, d)
		if err != nil {
			return modelfile.Weights{}, fmt.Errorf("init %s: %w", name, err)
		}
		all[i] = m
	}
	return modelfile.Weights{Q: all[0], K: all[1], V: all[2], Out: all[3]}, nil
}
