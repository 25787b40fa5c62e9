package matrix

import (
	"fmt"
	"math/rand/v2"
)

// Initializer is a matrix construction strategy. File-backed loading lives
// in the model file package; initializers cover everything else.
type Initializer interface {
	Init(rows, cols int) (Matrix, error)
}

// InitFunc adapts a per-element function to an Initializer
type InitFunc func(i, j int) float32

// Init implements Initializer
func (f InitFunc) Init(rows, cols int) (Matrix, error) {
	m, err := New(rows, cols)
	if err != nil {
		return Matrix{}, err
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.data[i*cols+j] = f(i, j)
		}
	}
	return m, nil
}

// Uniform fills matrices with samples from U[Low, High)
type Uniform struct {
	Rand *rand.Rand
	Low  float32
	High float32
}

// NewUniform returns a U[0, 1) initializer seeded with seed
func NewUniform(seed uint64) *Uniform {
	return &Uniform{
		Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Low:  0,
		High: 1,
	}
}

// Init implements Initializer
func (u *Uniform) Init(rows, cols int) (Matrix, error) {
	m, err := New(rows, cols)
	if err != nil {
		return Matrix{}, err
	}
	span := u.High - u.Low
	for i := range m.data {
		m.data[i] = u.Low + span*u.Rand.Float32()
	}
	return m, nil
}

// IdentityInit produces identity matrices; rows must equal cols
type IdentityInit struct{}

// Init implements Initializer
func (IdentityInit) Init(rows, cols int) (Matrix, error) {
	if rows != cols {
		return Matrix{}, fmt.Errorf("%w: identity requires a square shape, got %dx%d", ErrInvalidShape, rows, cols)
	}
	return Identity(rows)
}
