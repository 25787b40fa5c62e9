package matrix

import (
	"gonum.org/v1/gonum/floats"
)

// Stats summarizes the element distribution of a matrix
type Stats struct {
	Min  float64
	Max  float64
	Mean float64
	Sum  float64
}

// Summarize computes min, max, mean and sum over every element of m
func Summarize(m Matrix) Stats {
	if m.Empty() {
		return Stats{}
	}
	vals := make([]float64, len(m.data))
	for i, v := range m.data {
		vals[i] = float64(v)
	}
	sum := floats.Sum(vals)
	return Stats{
		Min:  floats.Min(vals),
		Max:  floats.Max(vals),
		Mean: sum / float64(len(vals)),
		Sum:  sum,
	}
}
