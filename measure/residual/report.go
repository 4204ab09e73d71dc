package residual

import (
	"fmt"

	timestats "github.com/cwbudde/algo-msalign/stats/time"
)

// SignalReport describes one calibrated signal.
type SignalReport struct {
	Index int
	// Lag is the residual offset of the calibrated signal against the reference.
	Lag         int
	Coefficient float64
	// SumDelta and EnergyDelta are calibrated minus input.
	SumDelta    float64
	EnergyDelta float64
	// CentroidShift is how far calibration moved the signal's centroid, in
	// samples. NaN if either signal has no positive mass.
	CentroidShift float64
	// PeakPos is the sample index of the calibrated signal's maximum.
	PeakPos int
}

// Compare reports every signal of aligned against reference, and against the
// matching row of input for the sum and energy deltas.
func Compare(reference []float64, input, aligned [][]float64) ([]SignalReport, error) {
	if len(input) != len(aligned) {
		return nil, fmt.Errorf("%w: %d input, %d aligned", ErrLengthMismatch, len(input), len(aligned))
	}

	out := make([]SignalReport, len(aligned))
	for i := range aligned {
		lag, coef, err := Lag(reference, aligned[i])
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", i, err)
		}
		in := timestats.Calculate(input[i])
		cal := timestats.Calculate(aligned[i])
		out[i] = SignalReport{
			Index:         i,
			Lag:           lag,
			Coefficient:   coef,
			SumDelta:      cal.Sum - in.Sum,
			EnergyDelta:   cal.Energy - in.Energy,
			CentroidShift: cal.Centroid - in.Centroid,
			PeakPos:       cal.MaxPos,
		}
	}
	return out, nil
}
