package testutil

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Range returns the index axis 0..n-1.
func Range(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// Gaussian samples amplitude·exp(-½((x-center)/sigma)²) at every axis value.
func Gaussian(axis []float64, center, sigma, amplitude float64) []float64 {
	out := make([]float64, len(axis))
	for i, x := range axis {
		d := (x - center) / sigma
		out[i] = amplitude * math.Exp(-0.5*d*d)
	}
	return out
}

// Peaks sums one unit Gaussian of width sigma per center.
func Peaks(axis []float64, sigma float64, centers ...float64) []float64 {
	out := make([]float64, len(axis))
	for _, c := range centers {
		for i, v := range Gaussian(axis, c, sigma, 1) {
			out[i] += v
		}
	}
	return out
}

// ShiftSamples moves x by n samples towards higher indices, zero filling.
func ShiftSamples(x []float64, n int) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		if j := i - n; j >= 0 && j < len(x) {
			out[i] = x[j]
		}
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Argmax returns the index of the first maximum of x, or -1 if x is empty.
func Argmax(x []float64) int {
	if len(x) == 0 {
		return -1
	}
	return floats.MaxIdx(x)
}
