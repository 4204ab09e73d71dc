package align

import (
	"math"

	"github.com/cwbudde/algo-msalign/dsp/interp"
)

// Resample maps signal, sampled on axis, through the correction (shift, scale)
// back onto axis: out(x) = signal((x - shift)/scale) evaluated by an
// interpolant of the given method. Values falling outside the corrected
// domain, and non-finite results, become 0.
func Resample(method interp.Method, axis, signal []float64, shift, scale float64) ([]float64, error) {
	if len(signal) != len(axis) {
		return nil, ErrSignalLength
	}
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) || math.IsNaN(shift) || math.IsInf(shift, 0) {
		return nil, ErrInvalidCorrection
	}

	xs := make([]float64, len(axis))
	for i, x := range axis {
		xs[i] = (x - shift) / scale
	}
	e, err := interp.New(method, xs, signal)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(axis))
	interp.EvalInto(out, e, axis)
	return out, nil
}

// ShiftZeroFill moves signal by n samples without interpolation: positive n
// moves values towards higher indices. Vacated samples are 0; nothing wraps.
func ShiftZeroFill(signal []float64, n int) []float64 {
	out := make([]float64, len(signal))
	switch {
	case n >= len(signal) || -n >= len(signal):
	case n > 0:
		copy(out[n:], signal[:len(signal)-n])
	case n < 0:
		copy(out, signal[-n:])
	default:
		copy(out, signal)
	}
	return out
}

// quickShiftAmount rounds an estimated shift to whole samples, half to even.
func quickShiftAmount(shift float64) int {
	return int(math.RoundToEven(shift))
}
