package residual

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrEmptyInput     = errors.New("residual: empty input")
	ErrLengthMismatch = errors.New("residual: batch length mismatch")
)

// Lag returns the offset, in samples, by which sig trails ref, and the
// normalised correlation coefficient at that offset. A positive lag means
// the features of sig sit at higher indices than those of ref.
func Lag(ref, sig []float64) (lag int, coefficient float64, err error) {
	if len(ref) == 0 || len(sig) == 0 {
		return 0, 0, ErrEmptyInput
	}

	corr, err := correlateFFT(sig, ref)
	if err != nil {
		return 0, 0, err
	}
	lag = floats.MaxIdx(corr) - (len(ref) - 1)
	return lag, coefficientAt(ref, sig, lag), nil
}

// correlateFFT computes the full cross-correlation of a and b. Output index
// k corresponds to lag k - (len(b) - 1).
func correlateFFT(a, b []float64) ([]float64, error) {
	n, m := len(a), len(b)
	size := nextPowerOf2(n + m - 1)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("residual: failed to create FFT plan: %w", err)
	}

	aPadded := make([]complex128, size)
	bPadded := make([]complex128, size)
	for i, v := range a {
		aPadded[i] = complex(v, 0)
	}
	for i, v := range b {
		bPadded[i] = complex(v, 0)
	}

	aFreq := make([]complex128, size)
	bFreq := make([]complex128, size)
	if err := plan.Forward(aFreq, aPadded); err != nil {
		return nil, fmt.Errorf("residual: forward FFT failed: %w", err)
	}
	if err := plan.Forward(bFreq, bPadded); err != nil {
		return nil, fmt.Errorf("residual: forward FFT failed: %w", err)
	}

	for i := range aFreq {
		aFreq[i] *= complex(real(bFreq[i]), -imag(bFreq[i]))
	}

	timeDomain := make([]complex128, size)
	if err := plan.Inverse(timeDomain, aFreq); err != nil {
		return nil, fmt.Errorf("residual: inverse FFT failed: %w", err)
	}

	// Non-negative lags sit at the start of the circular result, negative
	// lags wrap around to its end.
	out := make([]float64, n+m-1)
	for i := 0; i < n; i++ {
		out[m-1+i] = real(timeDomain[i])
	}
	for i := 0; i < m-1; i++ {
		out[i] = real(timeDomain[size-m+1+i])
	}
	return out, nil
}

// coefficientAt is the correlation of sig[i] with ref[i-lag] over the
// overlapping samples, normalised by the full-signal L2 norms.
func coefficientAt(ref, sig []float64, lag int) float64 {
	var dot float64
	for i := range sig {
		if j := i - lag; j >= 0 && j < len(ref) {
			dot += sig[i] * ref[j]
		}
	}
	norm := floats.Norm(ref, 2) * floats.Norm(sig, 2)
	if norm == 0 {
		return 0
	}
	return dot / norm
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
