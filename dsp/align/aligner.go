package align

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/cwbudde/algo-msalign/dsp/core"
	"github.com/cwbudde/algo-msalign/dsp/interp"
	"github.com/cwbudde/algo-msalign/internal/timing"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a calibration run.
type Result struct {
	// Aligned is the calibrated batch, M signals of N samples.
	Aligned [][]float64
	// Shifts and Scales hold the per-signal correction. They are only
	// populated when the aligner was built WithReturnShifts(true).
	Shifts []float64
	Scales []float64
	// Transposed reports whether the input batch was rotated to match the axis.
	Transposed bool
}

// Aligner calibrates a batch of signals sharing one axis.
//
// Construction validates every parameter and prepares the template and the
// search grid; afterwards estimation and resampling cannot fail numerically.
type Aligner struct {
	cfg        Config
	axis       []float64
	batch      [][]float64
	peaks      []float64
	transposed bool

	template  *Template
	space     *SearchSpace
	optimizer *Optimizer

	shifts  []float64
	scales  []float64
	aligned [][]float64
}

// New validates the inputs and prepares an Aligner. batch may be given as
// M×N or N×M; see [Orient].
func New(axis []float64, batch [][]float64, peaks []float64, opts ...Option) (*Aligner, error) {
	start := time.Now()

	if len(axis) == 0 {
		return nil, ErrEmptyAxis
	}
	if len(axis) > 1 && core.Monotonicity(axis) == 0 {
		return nil, ErrNonMonotonicAxis
	}

	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(len(peaks)); err != nil {
		return nil, err
	}
	cfg.normalize(len(peaks))

	rows, transposed, err := Orient(axis, batch)
	if err != nil {
		return nil, err
	}
	if transposed {
		cfg.Logger.Warn("input batch was rotated to match the axis",
			"signals", len(rows), "points", len(axis))
	}

	a := &Aligner{
		cfg:        cfg,
		axis:       core.Clone(axis),
		batch:      rows,
		peaks:      core.Clone(peaks),
		transposed: transposed,
	}

	if cfg.AlignByIndex {
		idx := ConvertPeaksToIndex(a.axis, a.peaks)
		for i, v := range idx {
			a.peaks[i] = float64(v)
		}
		for i := range a.axis {
			a.axis[i] = float64(i)
		}
		cfg.Logger.Debug("aligning by index", "peaks", idx)
	}

	a.prepare()
	a.cfg.Logger.Debug("initialized", "elapsed", timing.FormatDuration(time.Since(start)))
	return a, nil
}

func (a *Aligner) prepare() {
	cfg := &a.cfg
	a.template = BuildTemplate(a.peaks, cfg.Weights, cfg.Width, cfg.Ratio, cfg.Resolution)
	a.space = SharedSearchSpace(cfg.GridSteps, cfg.Iterations)

	shift := [2]float64{cfg.ShiftRange[0], cfg.ShiftRange[1]}
	scale := [2]float64{1, 1}
	// Bound the scale so the largest peak moves no further than the shift range allows.
	if top := slices.Max(a.peaks); !cfg.OnlyShift && top != 0 {
		scale = [2]float64{1 + shift[0]/top, 1 + shift[1]/top}
	}
	a.optimizer = NewOptimizer(a.template, a.space, scale, shift, cfg.reduceFactor())

	m := len(a.batch)
	a.shifts = make([]float64, m)
	a.scales = make([]float64, m)
	for i := range a.scales {
		a.scales[i] = 1
	}
}

// Config returns a copy of the validated configuration.
func (a *Aligner) Config() Config {
	cfg := a.cfg
	cfg.Weights = core.Clone(cfg.Weights)
	cfg.ShiftRange = core.Clone(cfg.ShiftRange)
	return cfg
}

// Axis returns the computation axis: the sample indices in align-by-index
// mode, the input axis otherwise.
func (a *Aligner) Axis() []float64 { return core.Clone(a.axis) }

// Peaks returns the reference peaks in computation-axis units.
func (a *Aligner) Peaks() []float64 { return core.Clone(a.peaks) }

// Template returns the reference template.
func (a *Aligner) Template() *Template { return a.template }

// Len returns the number of signals in the batch.
func (a *Aligner) Len() int { return len(a.batch) }

// Transposed reports whether the input batch was rotated.
func (a *Aligner) Transposed() bool { return a.transposed }

// Compute estimates the correction for one signal. It does not touch the
// stored batch state and is safe for concurrent use.
func (a *Aligner) Compute(signal []float64) (Estimate, error) {
	if len(signal) != len(a.axis) {
		return Estimate{}, fmt.Errorf("%w: %d != %d", ErrSignalLength, len(signal), len(a.axis))
	}
	e, err := interp.New(a.cfg.Method, a.axis, signal)
	if err != nil {
		return Estimate{}, err
	}
	return a.optimizer.Compute(e), nil
}

// Apply resamples one signal with the given correction using the configured
// interpolation method.
func (a *Aligner) Apply(signal []float64, shift, scale float64) ([]float64, error) {
	return Resample(a.cfg.Method, a.axis, signal, shift, scale)
}

// Run estimates the correction for every signal, then resamples the batch,
// using the quick path when quick-shift is enabled. The estimates and the
// calibrated batch are stored together once both passes succeed.
func (a *Aligner) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	m := len(a.batch)
	shifts := make([]float64, m)
	scales := make([]float64, m)

	err := a.each(ctx, func(i int) error {
		est, err := a.Compute(a.batch[i])
		if err != nil {
			return err
		}
		shifts[i], scales[i] = est.Shift, est.Scale
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	a.cfg.Logger.Info("processed signals", "count", m, "timing", timing.Loop(start, m, m))

	var out [][]float64
	if a.cfg.QuickShift {
		out, err = a.shiftBatch(ctx, roundShifts(shifts))
	} else {
		out, err = a.resample(ctx, shifts, scales)
	}
	if err != nil {
		return Result{}, err
	}
	a.shifts, a.scales, a.aligned = shifts, scales, out
	return a.Align(), nil
}

// Realign resamples the batch with the given corrections. Nil vectors fall
// back to the stored estimates. The calibrated batch is replaced only on
// success.
func (a *Aligner) Realign(ctx context.Context, shifts, scales []float64) error {
	if shifts == nil {
		shifts = a.shifts
	}
	if scales == nil {
		scales = a.scales
	}
	out, err := a.resample(ctx, shifts, scales)
	if err != nil {
		return err
	}
	a.aligned = out
	return nil
}

// Shift moves every signal by a whole number of samples with zero fill.
// A nil shifts vector uses the stored estimates rounded half to even.
func (a *Aligner) Shift(ctx context.Context, shifts []int) error {
	if shifts == nil {
		shifts = roundShifts(a.shifts)
	}
	out, err := a.shiftBatch(ctx, shifts)
	if err != nil {
		return err
	}
	a.aligned = out
	return nil
}

func (a *Aligner) resample(ctx context.Context, shifts, scales []float64) ([][]float64, error) {
	start := time.Now()
	if err := a.checkVector(shifts); err != nil {
		return nil, err
	}
	if err := a.checkVector(scales); err != nil {
		return nil, err
	}

	out := make([][]float64, len(a.batch))
	err := a.each(ctx, func(i int) error {
		v, err := a.Apply(a.batch[i], shifts[i], scales[i])
		if err != nil {
			return fmt.Errorf("signal %d: %w", i, err)
		}
		out[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.cfg.Logger.Info("re-aligned signals", "count", len(out), "timing", timing.Loop(start, len(out), len(out)))
	return out, nil
}

func (a *Aligner) shiftBatch(ctx context.Context, shifts []int) ([][]float64, error) {
	start := time.Now()
	if len(shifts) != len(a.batch) {
		return nil, fmt.Errorf("%w: %d != %d", ErrVectorLength, len(shifts), len(a.batch))
	}

	out := make([][]float64, len(a.batch))
	err := a.each(ctx, func(i int) error {
		out[i] = ShiftZeroFill(a.batch[i], -shifts[i])
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.cfg.Logger.Debug("shifted signals", "count", len(out), "timing", timing.Loop(start, len(out), len(out)))
	return out, nil
}

func roundShifts(shifts []float64) []int {
	out := make([]int, len(shifts))
	for i, s := range shifts {
		out[i] = quickShiftAmount(s)
	}
	return out
}

// Align returns the most recent calibrated batch. Before any resampling
// pass the batch is all zeros.
func (a *Aligner) Align() Result {
	res := Result{Transposed: a.transposed}
	if a.aligned == nil {
		res.Aligned = make([][]float64, len(a.batch))
		for i := range res.Aligned {
			res.Aligned[i] = make([]float64, len(a.axis))
		}
	} else {
		res.Aligned = make([][]float64, len(a.aligned))
		for i, row := range a.aligned {
			res.Aligned[i] = core.Clone(row)
		}
	}
	if a.cfg.ReturnShifts {
		res.Shifts = a.Shifts()
		res.Scales = a.Scales()
	}
	return res
}

// Shifts returns a copy of the stored per-signal shifts.
func (a *Aligner) Shifts() []float64 { return core.Clone(a.shifts) }

// Scales returns a copy of the stored per-signal scales.
func (a *Aligner) Scales() []float64 { return core.Clone(a.scales) }

func (a *Aligner) checkVector(v []float64) error {
	if len(v) != len(a.batch) {
		return fmt.Errorf("%w: %d != %d", ErrVectorLength, len(v), len(a.batch))
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidCorrection, x)
		}
	}
	return nil
}

// each runs fn for every signal index on the worker pool. Each call writes
// only to its own slot, so no locking is needed.
func (a *Aligner) each(ctx context.Context, fn func(i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i := range a.batch {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
