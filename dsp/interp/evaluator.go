package interp

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-msalign/dsp/core"
	gonuminterp "gonum.org/v1/gonum/interp"
)

var (
	ErrEmptyInput       = errors.New("interp: empty input")
	ErrLengthMismatch   = errors.New("interp: xs and ys must have same length")
	ErrNonMonotonicAxis = errors.New("interp: xs must be strictly monotonic")
)

// Evaluator evaluates an interpolant at arbitrary x.
// Outside the sampled domain it returns the fill value.
type Evaluator interface {
	At(x float64) float64
}

// Fill is the value returned outside the sampled domain. It matches the
// replacement core.NanToNum uses for non-finite values.
const Fill = 0.0

// New builds an evaluator for the samples (xs, ys) using method.
// xs may be increasing or decreasing; the samples are copied.
func New(method Method, xs, ys []float64) (Evaluator, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, method)
	}
	if len(xs) == 0 {
		return nil, ErrEmptyInput
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(xs), len(ys))
	}

	if len(xs) == 1 {
		return single{x: xs[0], y: core.FiniteOr(ys[0], Fill)}, nil
	}

	switch core.Monotonicity(xs) {
	case 1:
		xs, ys = core.Clone(xs), core.Clone(ys)
	case -1:
		xs, ys = core.Reverse(xs), core.Reverse(ys)
	default:
		return nil, ErrNonMonotonicAxis
	}

	b := bounded{lo: xs[0], hi: xs[len(xs)-1]}
	if len(xs) < method.minPoints() {
		method = Linear
	}

	switch method {
	case Zero:
		b.p = &hold{xs: xs, ys: ys}
	case Nearest:
		b.p = &hold{xs: xs, ys: ys, nearest: true}
	case Quadratic:
		b.p = &quadratic{xs: xs, ys: ys}
	default:
		fp := fitter(method)
		if err := fp.Fit(xs, ys); err != nil {
			return nil, fmt.Errorf("interp: %v fit: %w", method, err)
		}
		b.p = fp
	}
	return b, nil
}

// MustNew is like New but panics on error. Intended for tests and fixed inputs.
func MustNew(method Method, xs, ys []float64) Evaluator {
	e, err := New(method, xs, ys)
	if err != nil {
		panic(err)
	}
	return e
}

// EvalInto evaluates e at every xs[i] into dst and replaces non-finite
// results with Fill. dst must be at least len(xs) long.
func EvalInto(dst []float64, e Evaluator, xs []float64) {
	dst = dst[:len(xs)]
	for i, x := range xs {
		dst[i] = e.At(x)
	}
	core.NanToNum(dst)
}

func fitter(m Method) gonuminterp.FittablePredictor {
	switch m {
	case PCHIP:
		return &gonuminterp.FritschButland{}
	case Cubic:
		return &gonuminterp.NotAKnotCubic{}
	case Akima:
		return &gonuminterp.AkimaSpline{}
	default:
		return &gonuminterp.PiecewiseLinear{}
	}
}

// bounded restricts a predictor to [lo, hi].
type bounded struct {
	lo, hi float64
	p      gonuminterp.Predictor
}

func (b bounded) At(x float64) float64 {
	if !(x >= b.lo && x <= b.hi) {
		return Fill
	}
	return b.p.Predict(x)
}

type single struct{ x, y float64 }

func (s single) At(x float64) float64 {
	if x == s.x {
		return s.y
	}
	return Fill
}

// hold is a zero-order hold. With nearest set it snaps to the closest
// sample instead, preferring the left sample at the midpoint.
type hold struct {
	xs, ys  []float64
	nearest bool
}

func (h *hold) Predict(x float64) float64 {
	// i is the first knot strictly greater than x.
	i := sort.Search(len(h.xs), func(k int) bool { return h.xs[k] > x })
	if i == 0 {
		return h.ys[0]
	}
	if i == len(h.xs) {
		return h.ys[len(h.ys)-1]
	}
	if h.nearest && x-h.xs[i-1] > h.xs[i]-x {
		return h.ys[i]
	}
	return h.ys[i-1]
}

// quadratic evaluates the Lagrange parabola through the three samples
// starting at the left knot of x's interval, shifted inward at the end.
// Unlike a quadratic spline it has no continuous first derivative at knots.
type quadratic struct {
	xs, ys []float64
}

func (q *quadratic) Predict(x float64) float64 {
	n := len(q.xs)
	i := sort.Search(n, func(k int) bool { return q.xs[k] > x }) - 1
	if i < 0 {
		i = 0
	}
	if i > n-3 {
		i = n - 3
	}

	x0, x1, x2 := q.xs[i], q.xs[i+1], q.xs[i+2]
	y0, y1, y2 := q.ys[i], q.ys[i+1], q.ys[i+2]
	l0 := (x - x1) * (x - x2) / ((x0 - x1) * (x0 - x2))
	l1 := (x - x0) * (x - x2) / ((x1 - x0) * (x1 - x2))
	l2 := (x - x0) * (x - x1) / ((x2 - x0) * (x2 - x1))

	v := y0*l0 + y1*l1 + y2*l2
	if math.IsNaN(v) {
		return Fill
	}
	return v
}
