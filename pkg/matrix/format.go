package matrix

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// Fprint writes a labelled dump of m:
//
//	--- label [RxC] ---
//	<values with 4 decimals>
//
// followed by a blank line.
func Fprint(w io.Writer, label string, m Matrix) error {
	if _, err := fmt.Fprintf(w, "--- %s [%dx%d] ---\n", label, m.rows, m.cols); err != nil {
		return err
	}
	if m.Empty() {
		_, err := fmt.Fprint(w, "[]\n\n")
		return err
	}
	_, err := fmt.Fprintf(w, "%.4f\n\n", mat.Formatted(m, mat.Squeeze()))
	return err
}

// String renders m on one line per row with 4 decimals
func (m Matrix) String() string {
	if m.Empty() {
		return "[]"
	}
	return fmt.Sprintf("%.4f", mat.Formatted(m, mat.Squeeze()))
}
