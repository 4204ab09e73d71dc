package align

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/cwbudde/algo-msalign/dsp/core"
	"github.com/cwbudde/algo-msalign/dsp/interp"
)

// Config holds the calibration parameters. It is validated once by [New].
type Config struct {
	Method interp.Method
	// Width is the standard deviation of every template Gaussian, in axis units.
	Width float64
	// Ratio sets the template window around each peak to ±Ratio·Width.
	Ratio float64
	// Resolution is the number of template intervals per peak.
	Resolution int
	Iterations int
	GridSteps  int
	// ShiftRange is the initial [lo, hi] shift search window.
	ShiftRange []float64
	// Weights scales each peak's Gaussian. Nil means all ones.
	Weights []float64

	ReturnShifts bool
	AlignByIndex bool
	OnlyShift    bool
	QuickShift   bool

	// Workers bounds the number of signals processed concurrently.
	// Values <= 0 use GOMAXPROCS.
	Workers int
	Logger  *slog.Logger

	methodName string
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Method:     interp.Cubic,
		Width:      10,
		Ratio:      2.5,
		Resolution: 100,
		Iterations: 5,
		GridSteps:  20,
		ShiftRange: []float64{-100, 100},
	}
}

// WithMethod sets the interpolation method.
func WithMethod(m interp.Method) Option {
	return func(cfg *Config) {
		cfg.Method = m
		cfg.methodName = ""
	}
}

// WithMethodName sets the interpolation method by name. Unknown names are
// reported by validation.
func WithMethodName(name string) Option {
	return func(cfg *Config) {
		cfg.methodName = name
	}
}

// WithWidth sets the Gaussian width of the template pulses.
func WithWidth(width float64) Option {
	return func(cfg *Config) { cfg.Width = width }
}

// WithRatio sets the template window size in multiples of the width.
func WithRatio(ratio float64) Option {
	return func(cfg *Config) { cfg.Ratio = ratio }
}

// WithResolution sets the number of template intervals per peak.
func WithResolution(resolution int) Option {
	return func(cfg *Config) { cfg.Resolution = resolution }
}

// WithIterations sets the number of grid refinement iterations.
func WithIterations(iterations int) Option {
	return func(cfg *Config) { cfg.Iterations = iterations }
}

// WithGridSteps sets the grid search granularity per dimension.
func WithGridSteps(steps int) Option {
	return func(cfg *Config) { cfg.GridSteps = steps }
}

// WithShiftRange sets the initial shift search window.
func WithShiftRange(bounds ...float64) Option {
	return func(cfg *Config) { cfg.ShiftRange = core.Clone(bounds) }
}

// WithWeights sets per-peak weights.
func WithWeights(weights ...float64) Option {
	return func(cfg *Config) { cfg.Weights = core.Clone(weights) }
}

// WithReturnShifts makes [Aligner.Align] populate Result.Shifts and Result.Scales.
func WithReturnShifts(v bool) Option {
	return func(cfg *Config) { cfg.ReturnShifts = v }
}

// WithAlignByIndex switches computation to the sample index axis.
func WithAlignByIndex(v bool) Option {
	return func(cfg *Config) { cfg.AlignByIndex = v }
}

// WithOnlyShift disables the scale search.
func WithOnlyShift(v bool) Option {
	return func(cfg *Config) { cfg.OnlyShift = v }
}

// WithQuickShift resamples by whole-sample moves with zero fill.
func WithQuickShift(v bool) Option {
	return func(cfg *Config) { cfg.QuickShift = v }
}

// WithWorkers bounds the number of concurrently processed signals.
func WithWorkers(n int) Option {
	return func(cfg *Config) { cfg.Workers = n }
}

// WithLogger sets the logger for progress records.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *Config) { cfg.Logger = l }
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate checks every parameter and cross-field constraint for nPeaks
// reference peaks without modifying cfg. A nil Weights is valid, and a
// single peak counts as only-shift for the quick-shift checks.
func (cfg *Config) Validate(nPeaks int) error {
	if nPeaks < 1 {
		return ErrNoPeaks
	}
	if cfg.methodName != "" {
		if _, err := interp.ParseMethod(cfg.methodName); err != nil {
			return err
		}
	} else if !cfg.Method.Valid() {
		return fmt.Errorf("%w: %v", ErrUnknownMethod, cfg.Method)
	}

	if cfg.Weights != nil && len(cfg.Weights) != nPeaks {
		return fmt.Errorf("%w: %d weights, %d peaks", ErrWeightsMismatch, len(cfg.Weights), nPeaks)
	}

	if len(cfg.ShiftRange) != 2 {
		return fmt.Errorf("%w: got %d", ErrShiftRangeLength, len(cfg.ShiftRange))
	}
	if cfg.ShiftRange[0] == cfg.ShiftRange[1] {
		return fmt.Errorf("%w: %v", ErrShiftRangeEqual, cfg.ShiftRange)
	}
	if !(cfg.Ratio > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRatio, cfg.Ratio)
	}
	if !(cfg.Width > 0) || math.IsInf(cfg.Width, 1) {
		return fmt.Errorf("%w: %v", ErrInvalidWidth, cfg.Width)
	}
	if cfg.Iterations <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, cfg.Iterations)
	}
	if cfg.GridSteps <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGridSteps, cfg.GridSteps)
	}
	if cfg.Resolution <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidResolution, cfg.Resolution)
	}

	onlyShift := cfg.OnlyShift || nPeaks == 1
	if cfg.QuickShift && !onlyShift {
		return ErrQuickShiftRescale
	}
	if cfg.QuickShift && !cfg.AlignByIndex {
		return ErrQuickShiftByValue
	}
	return nil
}

// normalize fills the defaults of a validated config: the named method is
// resolved, nil weights become ones, a single peak forces OnlyShift, and
// Workers and Logger get usable values. Slices are copied.
func (cfg *Config) normalize(nPeaks int) {
	if cfg.methodName != "" {
		cfg.Method, _ = interp.ParseMethod(cfg.methodName)
		cfg.methodName = ""
	}
	if cfg.Weights == nil {
		cfg.Weights = make([]float64, nPeaks)
		for i := range cfg.Weights {
			cfg.Weights[i] = 1
		}
	} else {
		cfg.Weights = core.Clone(cfg.Weights)
	}
	cfg.ShiftRange = core.Clone(cfg.ShiftRange)
	if nPeaks == 1 {
		cfg.OnlyShift = true
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
}

// reduceFactor is the window shrink applied after every iteration: five
// grid cells of the previous window, or half of it for coarse grids.
func (cfg *Config) reduceFactor() float64 {
	return math.Min(0.5, 5/float64(cfg.GridSteps))
}
