package core

import "math"

// FiniteOr returns x, or fill when x is NaN or infinite.
func FiniteOr(x, fill float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fill
	}
	return x
}

// NanToNum replaces every non-finite value in buf with 0, in place.
func NanToNum(buf []float64) {
	for i, v := range buf {
		buf[i] = FiniteOr(v, 0)
	}
}

// Monotonicity reports the direction of a strictly monotonic sequence:
// +1 for increasing, -1 for decreasing, 0 if x is not strictly monotonic
// or has fewer than two values.
func Monotonicity(x []float64) int {
	if len(x) < 2 {
		return 0
	}
	dir := 1
	if x[1] < x[0] {
		dir = -1
	}
	for i := 1; i < len(x); i++ {
		d := x[i] - x[i-1]
		if d == 0 || math.IsNaN(d) || (d > 0) != (dir > 0) {
			return 0
		}
	}
	return dir
}
