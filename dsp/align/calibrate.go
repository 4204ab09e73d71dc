package align

import (
	"context"

	"gonum.org/v1/gonum/mat"
)

// Calibrate aligns batch against peaks in one call. The batch may be M×N or
// N×M. Result.Shifts and Result.Scales are set only WithReturnShifts(true).
func Calibrate(ctx context.Context, axis []float64, batch [][]float64, peaks []float64, opts ...Option) (Result, error) {
	a, err := New(axis, batch, peaks, opts...)
	if err != nil {
		return Result{}, err
	}
	return a.Run(ctx)
}

// CalibrateDense is [Calibrate] for matrix input. The returned matrix is
// M×N regardless of the input orientation.
func CalibrateDense(ctx context.Context, axis []float64, m mat.Matrix, peaks []float64, opts ...Option) (*mat.Dense, Result, error) {
	dense, _, err := OrientDense(axis, m)
	if err != nil {
		return nil, Result{}, err
	}
	res, err := Calibrate(ctx, axis, denseRows(dense), peaks, opts...)
	if err != nil {
		return nil, Result{}, err
	}

	rows, cols := dense.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i, row := range res.Aligned {
		out.SetRow(i, row)
	}
	return out, res, nil
}
