package align

import "math"

// NearestIndex returns the index of the axis value closest to v.
// Ties resolve to the lowest index, as does a NaN v. It returns -1 for an
// empty axis.
func NearestIndex(axis []float64, v float64) int {
	if len(axis) == 0 {
		return -1
	}
	best, bestDist := 0, math.Inf(1)
	for i, x := range axis {
		if d := math.Abs(x - v); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// ConvertPeaksToIndex maps each peak position to its nearest axis index.
func ConvertPeaksToIndex(axis, peaks []float64) []int {
	out := make([]int, len(peaks))
	for i, p := range peaks {
		out[i] = NearestIndex(axis, p)
	}
	return out
}
