package align

import (
	"errors"

	"github.com/cwbudde/algo-msalign/dsp/interp"
)

// Configuration errors.
var (
	ErrUnknownMethod     = interp.ErrUnknownMethod
	ErrWeightsMismatch   = errors.New("align: number of weights does not match number of peaks")
	ErrShiftRangeLength  = errors.New("align: shift range must contain exactly two values")
	ErrShiftRangeEqual   = errors.New("align: shift range bounds must differ")
	ErrInvalidRatio      = errors.New("align: ratio must be > 0")
	ErrInvalidWidth      = errors.New("align: width must be > 0")
	ErrInvalidIterations = errors.New("align: iterations must be > 0")
	ErrInvalidGridSteps  = errors.New("align: grid steps must be > 0")
	ErrInvalidResolution = errors.New("align: resolution must be > 0")
	ErrQuickShiftRescale = errors.New("align: quick shift cannot be combined with rescaling, set only-shift")
	ErrQuickShiftByValue = errors.New("align: quick shift requires align-by-index")
)

// Shape and input errors.
var (
	ErrNoPeaks           = errors.New("align: at least one peak is required")
	ErrEmptyAxis         = errors.New("align: empty axis")
	ErrNonMonotonicAxis  = errors.New("align: axis must be strictly monotonic")
	ErrEmptyBatch        = errors.New("align: empty batch")
	ErrRaggedBatch       = errors.New("align: batch rows have different lengths")
	ErrDimensionMismatch = errors.New("align: axis length matches neither batch dimension")
	ErrSignalLength      = errors.New("align: signal length does not match axis")
	ErrVectorLength      = errors.New("align: correction vector length does not match batch")
	ErrInvalidCorrection = errors.New("align: correction must be finite with non-zero scale")
)
