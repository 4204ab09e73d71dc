// Package align calibrates batches of 1-D signals against a set of reference
// peak positions.
//
// For every signal the package estimates a shift and a scale factor such that
// the signal's peaks line up with the reference peaks, then resamples the
// signal onto the shared axis using that correction. The estimate maximises
// the weighted cross-correlation between the signal and a synthetic template
// made of Gaussian pulses centred on the reference peaks, using an iterative
// multi-resolution grid search over (scale, shift).
//
// # Usage
//
// One-shot calibration:
//
//	res, err := align.Calibrate(ctx, axis, batch, []float64{120.5, 340},
//		align.WithMethod(interp.PCHIP),
//		align.WithReturnShifts(true),
//	)
//
// Separating estimation from resampling:
//
//	a, err := align.New(axis, batch, peaks, align.WithAlignByIndex(true))
//	est, err := a.Compute(batch[0])         // pure, does not touch stored state
//	out, err := a.Apply(batch[0], est.Shift, est.Scale)
//	_, err = a.Run(ctx)                      // whole batch, in parallel
//	err = a.Realign(ctx, myShifts, nil)      // re-resample with overrides
//
// # Modes
//
//   - only-shift: the scale is fixed to 1 and only the shift is searched.
//     It is forced when a single peak is given.
//   - align-by-index: peaks are snapped to the nearest axis sample and all
//     computation happens on the sample index axis 0..N-1.
//   - quick-shift: resampling moves each signal by a whole number of samples
//     with zero fill. Requires only-shift and align-by-index.
//
// # Concurrency
//
// Signals are independent. [Aligner.Run], [Aligner.Realign] and [Aligner.Shift]
// fan out over a bounded worker pool (see [WithWorkers]); the template and the
// search grid are built before any worker starts and are only read afterwards.
// Cancelling the context stops work between signals.
package align
