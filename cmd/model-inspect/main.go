// Command model-inspect inspects fastlm model files
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/headlands-org/fastlm/internal/modelfile"
	"github.com/headlands-org/fastlm/pkg/matrix"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <model.bin> [-dump]\n", os.Args[0])
		os.Exit(1)
	}

	path := os.Args[1]
	dump := len(os.Args) > 2 && os.Args[2] == "-dump"

	f, err := modelfile.Open(path)
	if err != nil {
		log.Fatalf("Failed to open model file: %v", err)
	}
	defer f.Close()

	h := f.Header()
	fmt.Printf("Model File: %s\n", path)
	fmt.Printf("Magic: 0x%08x\n", h.Magic)
	fmt.Printf("Layers: %d\n", h.Layers)
	fmt.Printf("d_model: %d\n", h.DModel)
	fmt.Printf("Size: %d bytes (expected %d)\n\n", f.Size(), modelfile.FileSize(int(h.DModel)))

	weights, err := f.ReadWeights()
	if err != nil {
		log.Fatalf("Failed to read weights: %v", err)
	}

	fmt.Println("=== Weights ===")
	for i, m := range weights.All() {
		s := matrix.Summarize(m)
		fmt.Printf("%-6s  shape=%-9s  min=%-10.4f  max=%-10.4f  mean=%.4f\n",
			modelfile.WeightNames[i], m.Shape(), s.Min, s.Max, s.Mean)
	}

	if dump {
		fmt.Println()
		for i, m := range weights.All() {
			if err := matrix.Fprint(os.Stdout, modelfile.WeightNames[i], m); err != nil {
				log.Fatalf("Failed to write output: %v", err)
			}
		}
	}
}
