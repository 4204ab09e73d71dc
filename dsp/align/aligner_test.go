package align

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/cwbudde/algo-msalign/dsp/interp"
	"github.com/cwbudde/algo-msalign/internal/testutil"
	timestats "github.com/cwbudde/algo-msalign/stats/time"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var injected = []int{0, 1, 3, 5, 7}

// shiftedBatch returns five copies of a σ=4 Gaussian peaking at sample 50,
// moved by the injected number of samples.
func shiftedBatch() (axis, base []float64, batch [][]float64) {
	axis = testutil.Range(100)
	base = testutil.Gaussian(axis, 50, 4, 1)
	batch = make([][]float64, len(injected))
	for i, d := range injected {
		batch[i] = testutil.ShiftSamples(base, d)
	}
	return axis, base, batch
}

func TestCalibrateRecoversInjectedShifts(t *testing.T) {
	axis, base, batch := shiftedBatch()
	peak := float64(testutil.Argmax(base))

	res, err := Calibrate(context.Background(), axis, batch, []float64{peak},
		WithAlignByIndex(true),
		WithMethod(interp.Cubic),
		WithReturnShifts(true),
	)
	require.NoError(t, err)
	require.Len(t, res.Shifts, len(batch))
	require.Len(t, res.Scales, len(batch))
	require.False(t, res.Transposed)

	for i, d := range injected {
		require.InDelta(t, float64(d), res.Shifts[i], 1, "signal %d", i)
		require.Equal(t, 1.0, res.Scales[i])
		require.Equal(t, 50, testutil.Argmax(res.Aligned[i]), "signal %d", i)
	}
	testutil.RequireBatchFinite(t, res.Aligned)
	require.InDelta(t, timestats.BatchSum(batch), timestats.BatchSum(res.Aligned), 0.1)
}

func TestCalibrateByValueMatchesByIndexOnIntegerAxis(t *testing.T) {
	axis, _, batch := shiftedBatch()

	res, err := Calibrate(context.Background(), axis, batch, []float64{50}, WithReturnShifts(true))
	require.NoError(t, err)
	for i, d := range injected {
		require.InDelta(t, float64(d), res.Shifts[i], 0.1, "signal %d", i)
	}
	require.InDelta(t, timestats.BatchSum(batch), timestats.BatchSum(res.Aligned), 0.1)
}

func TestCalibrateWithoutReturnShifts(t *testing.T) {
	axis, _, batch := shiftedBatch()

	res, err := Calibrate(context.Background(), axis, batch, []float64{50})
	require.NoError(t, err)
	require.Nil(t, res.Shifts)
	require.Nil(t, res.Scales)
	require.Len(t, res.Aligned, len(batch))
}

func TestRoundTripOnReferenceSignals(t *testing.T) {
	axis := testutil.Range(120)
	ref := testutil.Peaks(axis, 1.5, 35, 80)
	batch := [][]float64{ref, ref, ref}

	a, err := New(axis, batch, []float64{35, 80}, WithShiftRange(-20, 20), WithWidth(2), WithReturnShifts(true))
	require.NoError(t, err)
	require.False(t, a.Config().OnlyShift)

	res, err := a.Run(context.Background())
	require.NoError(t, err)
	for i := range batch {
		require.InDelta(t, 0, res.Shifts[i]+res.Scales[i]*35-35, 0.5)
		require.InDelta(t, 0, res.Shifts[i]+res.Scales[i]*80-80, 0.5)
		testutil.RequireSliceNearlyEqual(t, res.Aligned[i], ref, 0.1)
	}
}

func TestQuickShiftMovesWholeSamples(t *testing.T) {
	axis, base, batch := shiftedBatch()

	a, err := New(axis, batch, []float64{50},
		WithAlignByIndex(true),
		WithQuickShift(true),
	)
	require.NoError(t, err)

	res, err := a.Run(context.Background())
	require.NoError(t, err)
	for i := range batch {
		testutil.RequireSliceNearlyEqual(t, res.Aligned[i], base, 1e-12)
	}

	// Explicit integer overrides bypass the estimates.
	require.NoError(t, a.Shift(context.Background(), []int{0, 0, 0, 0, 1}))
	moved := a.Align().Aligned[4]
	require.Equal(t, 56, testutil.Argmax(moved))
}

func TestComputeIsPure(t *testing.T) {
	axis, _, batch := shiftedBatch()

	a, err := New(axis, batch, []float64{50}, WithAlignByIndex(true))
	require.NoError(t, err)

	est, err := a.Compute(batch[3])
	require.NoError(t, err)
	require.InDelta(t, 5, est.Shift, 0.1)
	require.Equal(t, 1.0, est.Scale)

	require.Equal(t, make([]float64, len(batch)), a.Shifts())
	require.Equal(t, []float64{1, 1, 1, 1, 1}, a.Scales())
	for _, row := range a.Align().Aligned {
		require.Equal(t, make([]float64, len(axis)), row)
	}

	_, err = a.Compute(batch[3][:10])
	require.ErrorIs(t, err, ErrSignalLength)
}

func TestRealignWithOverrides(t *testing.T) {
	axis, base, batch := shiftedBatch()

	a, err := New(axis, batch, []float64{50})
	require.NoError(t, err)

	shifts := make([]float64, len(injected))
	for i, d := range injected {
		shifts[i] = float64(d)
	}
	require.NoError(t, a.Realign(context.Background(), shifts, nil))
	for i, row := range a.Align().Aligned {
		testutil.RequireSliceNearlyEqual(t, row, base, 1e-9)
		require.Equal(t, 0.0, a.Shifts()[i], "stored estimates must not change")
	}

	require.ErrorIs(t, a.Realign(context.Background(), shifts[:2], nil), ErrVectorLength)
	require.ErrorIs(t, a.Realign(context.Background(), nil, []float64{1, 1, 0, 1, 1}), ErrInvalidCorrection)
	require.ErrorIs(t, a.Realign(context.Background(), []float64{0, 0, math.NaN(), 0, 0}, nil), ErrInvalidCorrection)
	require.ErrorIs(t, a.Shift(context.Background(), []int{1}), ErrVectorLength)
}

func TestApplyMatchesRun(t *testing.T) {
	axis, _, batch := shiftedBatch()

	a, err := New(axis, batch, []float64{50}, WithMethod(interp.PCHIP))
	require.NoError(t, err)
	res, err := a.Run(context.Background())
	require.NoError(t, err)

	shifts, scales := a.Shifts(), a.Scales()
	for i := range batch {
		out, err := a.Apply(batch[i], shifts[i], scales[i])
		require.NoError(t, err)
		require.Equal(t, res.Aligned[i], out)
	}
}

func TestTransposedInput(t *testing.T) {
	axis, _, batch := shiftedBatch()
	columns := make([][]float64, len(axis))
	for j := range columns {
		columns[j] = make([]float64, len(batch))
		for i := range batch {
			columns[j][i] = batch[i][j]
		}
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	res, err := Calibrate(context.Background(), axis, columns, []float64{50},
		WithReturnShifts(true), WithLogger(logger))
	require.NoError(t, err)
	require.True(t, res.Transposed)
	require.Len(t, res.Aligned, len(batch))
	require.Len(t, res.Aligned[0], len(axis))
	require.InDelta(t, 7, res.Shifts[4], 0.1)
	require.Contains(t, logs.String(), "rotated")
	require.Contains(t, logs.String(), "processed signals")
}

func TestCalibrateDense(t *testing.T) {
	axis, base, batch := shiftedBatch()
	m := mat.NewDense(len(batch), len(axis), nil)
	for i, row := range batch {
		m.SetRow(i, row)
	}

	out, res, err := CalibrateDense(context.Background(), axis, m.T(), []float64{50}, WithAlignByIndex(true))
	require.NoError(t, err)
	r, c := out.Dims()
	require.Equal(t, len(batch), r)
	require.Equal(t, len(axis), c)
	require.Equal(t, res.Aligned[2], mat.Row(nil, 2, out))
	require.Equal(t, testutil.Argmax(base), testutil.Argmax(mat.Row(nil, 4, out)))
}

func TestRunHonoursCancellation(t *testing.T) {
	axis, _, batch := shiftedBatch()
	a, err := New(axis, batch, []float64{50}, WithWorkers(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, make([]float64, len(batch)), a.Shifts())
}

// cancelOn cancels a context when a record with the given message is logged.
type cancelOn struct {
	msg    string
	cancel context.CancelFunc
}

func (h cancelOn) Enabled(context.Context, slog.Level) bool { return true }

func (h cancelOn) Handle(_ context.Context, r slog.Record) error {
	if r.Message == h.msg {
		h.cancel()
	}
	return nil
}

func (h cancelOn) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h cancelOn) WithGroup(string) slog.Handler      { return h }

func TestRunCancelledDuringResamplingKeepsState(t *testing.T) {
	axis, _, batch := shiftedBatch()

	for _, quick := range []bool{false, true} {
		ctx, cancel := context.WithCancel(context.Background())
		logger := slog.New(cancelOn{msg: "processed signals", cancel: cancel})
		a, err := New(axis, batch, []float64{50},
			WithQuickShift(quick), WithAlignByIndex(true), WithWorkers(1), WithLogger(logger))
		require.NoError(t, err)

		_, err = a.Run(ctx)
		require.ErrorIs(t, err, context.Canceled, "quick=%v", quick)
		require.Equal(t, make([]float64, len(batch)), a.Shifts(), "quick=%v", quick)
		require.Equal(t, []float64{1, 1, 1, 1, 1}, a.Scales(), "quick=%v", quick)
		for i, row := range a.Align().Aligned {
			require.Equal(t, make([]float64, len(axis)), row, "quick=%v signal %d", quick, i)
		}
		cancel()
	}
}

func TestNewRejectsBadShapes(t *testing.T) {
	axis, _, batch := shiftedBatch()

	_, err := New(axis[:90], batch, []float64{50})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = New([]float64{0, 2, 1}, [][]float64{{1, 2, 3}}, []float64{1})
	require.ErrorIs(t, err, ErrNonMonotonicAxis)

	_, err = New(nil, batch, []float64{50})
	require.ErrorIs(t, err, ErrEmptyAxis)
}

func TestAlignByIndexConvertsPeaks(t *testing.T) {
	axis := make([]float64, 100)
	for i := range axis {
		axis[i] = 200 + 0.5*float64(i)
	}
	batch := [][]float64{testutil.Gaussian(axis, 225, 2, 1)}

	a, err := New(axis, batch, []float64{224.9}, WithAlignByIndex(true))
	require.NoError(t, err)
	require.Equal(t, []float64{50}, a.Peaks())
	require.Equal(t, testutil.Range(100), a.Axis())
	require.Equal(t, 50.0, a.Template().X[a.Template().PointsPerPeak/2])
}
