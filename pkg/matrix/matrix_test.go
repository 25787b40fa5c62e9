package matrix

import (
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func mustFromRows(t *testing.T, rows [][]float32) Matrix {
	t.Helper()
	m, err := FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	return m
}

func randomMatrix(t *testing.T, seed uint64, rows, cols int) Matrix {
	t.Helper()
	m, err := NewUniform(seed).Init(rows, cols)
	if err != nil {
		t.Fatalf("Uniform.Init: %v", err)
	}
	return m
}

func TestNewRejectsInvalidShape(t *testing.T) {
	for _, shape := range [][2]int{{0, 1}, {1, 0}, {-1, 3}} {
		if _, err := New(shape[0], shape[1]); !errors.Is(err, ErrInvalidShape) {
			t.Errorf("New(%d, %d): got %v, expected ErrInvalidShape", shape[0], shape[1], err)
		}
	}
}

func TestFromRowsRejectsRagged(t *testing.T) {
	_, err := FromRows([][]float32{{1, 2}, {3}})
	if !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("FromRows ragged: got %v, expected ErrInvalidShape", err)
	}
	if _, err := FromRows(nil); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("FromRows empty: got %v, expected ErrInvalidShape", err)
	}
}

func TestFromSliceCopies(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	m, err := FromSlice(2, 3, data)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	data[0] = 100
	if m.Get(0, 0) != 1 {
		t.Errorf("FromSlice aliased caller data: Get(0,0) = %f", m.Get(0, 0))
	}
	if m.Get(1, 2) != 6 {
		t.Errorf("Get(1,2) = %f, expected 6", m.Get(1, 2))
	}
	if _, err := FromSlice(2, 2, data); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("FromSlice wrong length: got %v, expected ErrInvalidShape", err)
	}
}

func TestRowAndDataReturnCopies(t *testing.T) {
	m := mustFromRows(t, [][]float32{{1, 2}, {3, 4}})
	row := m.Row(1)
	row[0] = 42
	data := m.Data()
	data[0] = 42
	if m.Get(1, 0) != 3 || m.Get(0, 0) != 1 {
		t.Errorf("Row/Data leaked backing storage: %v", m.RawData())
	}
}

func TestMultiply(t *testing.T) {
	a := mustFromRows(t, [][]float32{{1, 2, 3}, {4, 5, 6}})
	b := mustFromRows(t, [][]float32{{7, 8}, {9, 10}, {11, 12}})
	expected := mustFromRows(t, [][]float32{{58, 64}, {139, 154}})

	got, err := Multiply(a, b)
	if err != nil {
		t.Fatalf("Multiply: %v", err)
	}
	if !Equal(got, expected) {
		t.Errorf("Multiply: got\n%v\nexpected\n%v", got, expected)
	}
}

func TestMultiplyDimensionMismatch(t *testing.T) {
	a := randomMatrix(t, 1, 2, 3)
	b := randomMatrix(t, 2, 4, 2)

	got, err := Multiply(a, b)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("Multiply(2x3, 4x2): got %v, expected ErrDimensionMismatch", err)
	}
	if !got.Empty() {
		t.Errorf("Multiply returned a %s result alongside the error", got.Shape())
	}
	if !strings.Contains(err.Error(), "2x3") || !strings.Contains(err.Error(), "4x2") {
		t.Errorf("error %q does not name both shapes", err)
	}
}

func TestMultiplyByIdentity(t *testing.T) {
	for _, shape := range [][2]int{{1, 1}, {3, 2}, {5, 7}, {2, 70}} {
		a := randomMatrix(t, uint64(shape[0]*100+shape[1]), shape[0], shape[1])
		id, err := Identity(shape[1])
		if err != nil {
			t.Fatal(err)
		}
		got, err := Multiply(a, id)
		if err != nil {
			t.Fatalf("Multiply: %v", err)
		}
		if !Equal(got, a) {
			t.Errorf("A * I != A for %s", a.Shape())
		}
	}
}

func TestMultiplyMatchesGonum(t *testing.T) {
	a := randomMatrix(t, 7, 5, 9)
	b := randomMatrix(t, 8, 9, 4)

	got, err := Multiply(a, b)
	if err != nil {
		t.Fatalf("Multiply: %v", err)
	}

	var ref mat.Dense
	ref.Mul(mat.DenseCopyOf(a), mat.DenseCopyOf(b))

	if !mat.EqualApprox(got, &ref, 1e-4) {
		t.Errorf("Multiply disagrees with gonum:\ngot\n%v\nexpected\n%.4f", got, mat.Formatted(&ref))
	}
}

func TestTransposeTwiceIsIdentity(t *testing.T) {
	a := randomMatrix(t, 3, 4, 6)
	at := Transpose(a)

	if at.Rows() != 6 || at.Cols() != 4 {
		t.Fatalf("Transpose shape = %s, expected 6x4", at.Shape())
	}
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			if at.Get(j, i) != a.Get(i, j) {
				t.Fatalf("Transpose: [%d,%d] = %f, expected %f", j, i, at.Get(j, i), a.Get(i, j))
			}
		}
	}
	if !Equal(Transpose(at), a) {
		t.Error("Transpose(Transpose(A)) != A")
	}
	if !mat.Equal(at, a.T()) {
		t.Error("Transpose disagrees with the implicit gonum transpose")
	}
}

func TestScale(t *testing.T) {
	m := mustFromRows(t, [][]float32{{2, 4}, {-6, 8}})
	half := Scale(m, 0.5)
	if m.Get(0, 0) != 2 {
		t.Errorf("Scale mutated its input")
	}
	if half.Get(1, 0) != -3 {
		t.Errorf("Scale: [1,0] = %f, expected -3", half.Get(1, 0))
	}

	ScaleInPlace(m, 2)
	if m.Get(1, 1) != 16 {
		t.Errorf("ScaleInPlace: [1,1] = %f, expected 16", m.Get(1, 1))
	}
}

func rowSums(m Matrix) []float64 {
	out := make([]float64, m.Rows())
	for i := range out {
		for _, v := range m.Row(i) {
			out[i] += float64(v)
		}
	}
	return out
}

func TestSoftmaxInPlaceRowsSumToOne(t *testing.T) {
	m := mustFromRows(t, [][]float32{
		{1, 2, 3, 4},
		{-5, 0, 5, 10},
		{1000, 1001, 999, 1000},
		{0, 0, 0, 0},
	})

	if err := SoftmaxInPlace(m); err != nil {
		t.Fatalf("SoftmaxInPlace: %v", err)
	}

	ones := []float64{1, 1, 1, 1}
	if sums := rowSums(m); !floats.EqualApprox(sums, ones, 1e-5) {
		t.Errorf("Softmax row sums = %v, expected all 1", sums)
	}
	for _, v := range m.Row(3) {
		if math.Abs(float64(v)-0.25) > 1e-6 {
			t.Errorf("Softmax of equal row = %v, expected uniform", m.Row(3))
			break
		}
	}
}

func TestSoftmaxTranslationInvariant(t *testing.T) {
	base := []float32{0.3, -1.2, 2.5, 0}
	shifted := make([]float32, len(base))
	for i, v := range base {
		shifted[i] = v + 40
	}
	a := mustFromRows(t, [][]float32{base})
	b := mustFromRows(t, [][]float32{shifted})

	if err := SoftmaxInPlace(a); err != nil {
		t.Fatal(err)
	}
	if err := SoftmaxInPlace(b); err != nil {
		t.Fatal(err)
	}
	if !EqualApprox(a, b, 1e-5) {
		t.Errorf("softmax(x) = %v, softmax(x+40) = %v", a, b)
	}
}

func TestSoftmaxDegenerateRow(t *testing.T) {
	negInf := float32(math.Inf(-1))
	m := mustFromRows(t, [][]float32{
		{1, 2},
		{negInf, negInf},
		{3, 3},
	})

	err := SoftmaxInPlace(m)
	if !errors.Is(err, ErrDegenerateSoftmax) {
		t.Fatalf("SoftmaxInPlace: got %v, expected ErrDegenerateSoftmax", err)
	}
	if !strings.Contains(err.Error(), "row 1") {
		t.Errorf("error %q does not name row 1", err)
	}
	for j, v := range m.Row(1) {
		if v != 0.5 {
			t.Errorf("degenerate row[%d] = %f, expected 0.5", j, v)
		}
	}
	if sums := rowSums(m); !floats.EqualApprox(sums, []float64{1, 1, 1}, 1e-6) {
		t.Errorf("row sums = %v, other rows should still be normalized", sums)
	}
}

func TestFprint(t *testing.T) {
	m := mustFromRows(t, [][]float32{{0.5, 0.25}, {1, 0}})
	var sb strings.Builder
	if err := Fprint(&sb, "Final Output", m); err != nil {
		t.Fatalf("Fprint: %v", err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "--- Final Output [2x2] ---\n") {
		t.Errorf("Fprint header: %q", out)
	}
	for _, want := range []string{"0.5000", "0.2500", "1.0000"} {
		if !strings.Contains(out, want) {
			t.Errorf("Fprint output missing %s: %q", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n\n") {
		t.Errorf("Fprint should end with a blank line: %q", out)
	}
}

func TestSummarize(t *testing.T) {
	m := mustFromRows(t, [][]float32{{1, 2}, {3, -2}})
	s := Summarize(m)
	if s.Min != -2 || s.Max != 3 || s.Sum != 4 || s.Mean != 1 {
		t.Errorf("Summarize = %+v", s)
	}
}

func TestInitializers(t *testing.T) {
	u, err := NewUniform(42).Init(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range u.RawData() {
		if v < 0 || v >= 1 {
			t.Fatalf("Uniform value %f outside [0, 1)", v)
		}
	}
	again, _ := NewUniform(42).Init(8, 8)
	if !Equal(u, again) {
		t.Error("Uniform with the same seed produced different matrices")
	}

	if _, err := (IdentityInit{}).Init(2, 3); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("IdentityInit non-square: got %v, expected ErrInvalidShape", err)
	}

	diag := InitFunc(func(i, j int) float32 { return float32(i - j) })
	d, err := diag.Init(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if d.Get(1, 0) != 1 || d.Get(0, 1) != -1 {
		t.Errorf("InitFunc produced %v", d)
	}
}
