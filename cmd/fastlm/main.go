// Command fastlm loads a model file and runs one forward pass over a
// constant or user-supplied input, reporting the output and timing
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/headlands-org/fastlm/pkg/fastlm"
	"github.com/headlands-org/fastlm/pkg/matrix"
)

var (
	modelPath = flag.String("model", "models/model.bin", "Path to model file")
	rows      = flag.Int("rows", 3, "Number of input rows (tokens) when -input is not set")
	fill      = flag.Float64("fill", 0.5, "Value of every input element when -input is not set")
	inputRows = flag.String("input", "", `Explicit input rows, e.g. "1,1;0,0;1,1"`)
	verbose   = flag.Bool("verbose", false, "Verbose logging")
	showStats = flag.Bool("stats", false, "Show CPU time and host details")
)

func main() {
	flag.Parse()

	fmt.Println("fastLM Engine (model loader)")

	startLoad := time.Now()
	rt, err := fastlm.Open(*modelPath, fastlm.WithVerbose(*verbose))
	if err != nil {
		log.Fatalf("Failed to open model: %v", err)
	}
	defer rt.Close()

	fmt.Printf("File verified (Magic: %x)\n", uint32(fastlm.Magic))
	fmt.Printf("  Model Config: Layers=%d, d_model=%d\n", rt.Layers(), rt.DModel())
	if *verbose {
		log.Printf("Model loaded in %v", time.Since(startLoad))
	}

	input, err := buildInput(*inputRows, *rows, rt.DModel(), float32(*fill))
	if err != nil {
		log.Fatalf("Invalid input: %v", err)
	}

	fmt.Println("\nRunning inference with loaded weights...")

	cpuStart := cpuTimeNow()
	start := time.Now()
	output, err := rt.Forward(input)
	elapsed := time.Since(start)
	cpuElapsed := cpuTimeNow() - cpuStart
	if err != nil {
		log.Fatalf("Inference failed: %v", err)
	}

	if err := matrix.Fprint(os.Stdout, "Final Output", output); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	fmt.Printf("Inference Time: %d microseconds\n", elapsed.Microseconds())
	if elapsed > 0 {
		fmt.Printf("Speed: %.0f tokens/second (approx)\n", float64(input.Rows())/elapsed.Seconds())
	}

	if *showStats {
		fmt.Printf("CPU Time: %v\n", cpuElapsed)
		fmt.Printf("Host: %s, GOMAXPROCS=%d\n", hostFeatures(), runtime.GOMAXPROCS(0))
	}
}

// buildInput parses text ("a,b;c,d") or, when text is empty, returns a
// rows x dModel matrix filled with fill
func buildInput(text string, rows, dModel int, fill float32) (matrix.Matrix, error) {
	if text == "" {
		return matrix.Filled(rows, dModel, fill)
	}

	var data [][]float32
	for i, line := range strings.Split(text, ";") {
		fields := strings.Split(line, ",")
		row := make([]float32, len(fields))
		for j, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
			if err != nil {
				return matrix.Matrix{}, fmt.Errorf("row %d column %d: %w", i, j, err)
			}
			row[j] = float32(v)
		}
		data = append(data, row)
	}
	return matrix.FromRows(data)
}
