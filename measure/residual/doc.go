// Package residual measures how well a calibrated batch lines up.
//
// [Lag] estimates the whole-sample offset between two signals from the peak
// of their FFT cross-correlation. [Compare] summarises, per signal, the
// residual lag against a reference together with the change in sum and
// energy introduced by resampling.
package residual
