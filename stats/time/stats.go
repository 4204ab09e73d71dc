// Package time computes time-domain summaries of calibrated signals.
package time

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Stats holds time-domain signal statistics.
type Stats struct {
	Length int
	Sum    float64
	Energy float64 // sum of squares
	RMS    float64
	Max    float64
	MaxPos int
	// Centroid is the intensity-weighted mean sample position of the
	// positive part of the signal, or NaN if the signal has no positive mass.
	Centroid float64
}

// Calculate computes the statistics of signal.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{MaxPos: -1, Centroid: math.NaN()}
	}

	s := Stats{
		Length: n,
		Sum:    floats.Sum(signal),
		Energy: floats.Dot(signal, signal),
		MaxPos: floats.MaxIdx(signal),
	}
	s.Max = signal[s.MaxPos]
	s.RMS = math.Sqrt(s.Energy / float64(n))

	var mass, moment float64
	for i, v := range signal {
		if v > 0 {
			mass += v
			moment += v * float64(i)
		}
	}
	s.Centroid = math.NaN()
	if mass > 0 {
		s.Centroid = moment / mass
	}
	return s
}

// BatchSum returns the sum over all signals.
func BatchSum(batch [][]float64) float64 {
	var total float64
	for _, row := range batch {
		total += floats.Sum(row)
	}
	return total
}
