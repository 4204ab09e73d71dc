package align

import "math"

// Template is the synthetic reference signal: one Gaussian pulse per peak,
// sampled on its own window and concatenated in peak order.
// It is immutable once built.
type Template struct {
	// X holds the sample coordinates, (Resolution+1)·P values.
	X []float64
	// Y holds the weighted Gaussian amplitudes at X.
	Y []float64
	// PointsPerPeak is Resolution+1.
	PointsPerPeak int
}

// Len returns the total number of template samples.
func (t *Template) Len() int { return len(t.X) }

// BuildTemplate samples, for every peak p with weight w, resolution+1 evenly
// spaced coordinates over [p-ratio·width, p+ratio·width] with amplitude
// w·exp(-((x-p)/width)²).
func BuildTemplate(peaks, weights []float64, width, ratio float64, resolution int) *Template {
	k := resolution + 1
	t := &Template{
		X:             make([]float64, 0, k*len(peaks)),
		Y:             make([]float64, 0, k*len(peaks)),
		PointsPerPeak: k,
	}

	for i, p := range peaks {
		left := p - ratio*width
		right := p + ratio*width
		for j := 0; j < k; j++ {
			x := left + float64(j)*(right-left)/float64(resolution)
			d := (x - p) / width
			t.X = append(t.X, x)
			t.Y = append(t.Y, weights[i]*math.Exp(-d*d))
		}
	}
	return t
}
