package align

import (
	"github.com/cwbudde/algo-msalign/dsp/core"
	"github.com/cwbudde/algo-msalign/dsp/interp"
	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Estimate is the best-fit correction for one signal: the signal's peaks
// sit at Scale·p + Shift for reference peaks p.
type Estimate struct {
	Shift float64
	Scale float64
}

// window is a [lo, hi] search interval. lo may exceed hi.
type window [2]float64

func (w window) width() float64 { return w[1] - w[0] }

// around centres a window of width w.width()·factor on v.
func (w window) around(v, factor float64) window {
	half := 0.5 * w.width() * factor
	return window{v - half, v + half}
}

// Optimizer runs the multi-resolution grid search against a fixed template.
// It holds no per-signal state and is safe for concurrent use.
type Optimizer struct {
	template *Template
	space    *SearchSpace
	scale    window
	shift    window
	reduce   float64
}

// NewOptimizer binds a template and search space to initial scale and shift
// windows. reduce is the per-iteration window shrink factor.
func NewOptimizer(t *Template, s *SearchSpace, scaleRange, shiftRange [2]float64, reduce float64) *Optimizer {
	return &Optimizer{
		template: t,
		space:    s,
		scale:    window(scaleRange),
		shift:    window(shiftRange),
		reduce:   reduce,
	}
}

// Compute estimates the scale and shift that best map the template onto the
// signal represented by e. Extrapolated or non-finite responses count as 0.
func (o *Optimizer) Compute(e interp.Evaluator) Estimate {
	var (
		n      = o.space.Points()
		tx, ty = o.template.X, o.template.Y
		resp   = make([]float64, len(tx))
		prod   = make([]float64, len(tx))
		scores = make([]float64, n)
		scale  = o.scale
		shift  = o.shift
		best   = Estimate{Scale: 1}
	)

	for it := 0; it < o.space.Iterations(); it++ {
		ga := o.space.scaleColumn(it)
		gb := o.space.shiftColumn(it)

		for k := 0; k < n; k++ {
			sc := scale[0] + ga[k]*scale.width()
			sh := shift[0] + gb[k]*shift.width()
			for j, x := range tx {
				resp[j] = e.At(sc*x + sh)
			}
			core.NanToNum(resp)
			vecmath.MulBlock(prod, resp, ty)
			scores[k] = floats.Sum(prod)
		}

		k := floats.MaxIdx(scores)
		best = Estimate{
			Scale: scale[0] + ga[k]*scale.width(),
			Shift: shift[0] + gb[k]*shift.width(),
		}

		scale = scale.around(best.Scale, o.reduce)
		shift = shift.around(best.Shift, o.reduce)
	}
	return best
}
