package align

import (
	"fmt"

	"github.com/cwbudde/algo-msalign/dsp/core"
	"gonum.org/v1/gonum/mat"
)

// Orient returns a copy of batch laid out as M signals of len(axis) samples.
// If the rows do not match the axis but the row count does, the batch is
// transposed and transposed is true. A square batch is never transposed.
func Orient(axis []float64, batch [][]float64) (out [][]float64, transposed bool, err error) {
	if len(axis) == 0 {
		return nil, false, ErrEmptyAxis
	}
	if len(batch) == 0 || len(batch[0]) == 0 {
		return nil, false, ErrEmptyBatch
	}
	cols := len(batch[0])
	for i, row := range batch {
		if len(row) != cols {
			return nil, false, fmt.Errorf("%w: row %d has %d values, want %d", ErrRaggedBatch, i, len(row), cols)
		}
	}

	n := len(axis)
	switch {
	case cols == n:
		out = make([][]float64, len(batch))
		for i, row := range batch {
			out[i] = core.Clone(row)
		}
		return out, false, nil
	case len(batch) == n:
		out = make([][]float64, cols)
		for j := range out {
			out[j] = make([]float64, n)
			for i := range batch {
				out[j][i] = batch[i][j]
			}
		}
		return out, true, nil
	default:
		return nil, false, fmt.Errorf("%w: axis %d, batch %dx%d", ErrDimensionMismatch, n, len(batch), cols)
	}
}

// OrientDense is the matrix form of [Orient]. The result is always a copy.
func OrientDense(axis []float64, m mat.Matrix) (out *mat.Dense, transposed bool, err error) {
	if len(axis) == 0 {
		return nil, false, ErrEmptyAxis
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, false, ErrEmptyBatch
	}

	n := len(axis)
	switch {
	case c == n:
		return mat.DenseCopyOf(m), false, nil
	case r == n:
		return mat.DenseCopyOf(m.T()), true, nil
	default:
		return nil, false, fmt.Errorf("%w: axis %d, batch %dx%d", ErrDimensionMismatch, n, r, c)
	}
}

func denseRows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, m)
	}
	return rows
}
