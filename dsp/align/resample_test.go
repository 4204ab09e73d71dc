package align

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-msalign/dsp/interp"
	"github.com/cwbudde/algo-msalign/internal/testutil"
)

func TestResampleIdentity(t *testing.T) {
	axis := testutil.Range(50)
	sig := testutil.Gaussian(axis, 25, 3, 1)

	for _, m := range interp.Methods() {
		out, err := Resample(m, axis, sig, 0, 1)
		if err != nil {
			t.Fatalf("%v: %v", m, err)
		}
		testutil.RequireSliceNearlyEqual(t, out, sig, 1e-9)
	}
}

func TestResampleUndoesIntegerShift(t *testing.T) {
	axis := testutil.Range(80)
	base := testutil.Gaussian(axis, 30, 4, 1)
	moved := testutil.ShiftSamples(base, 6)

	out, err := Resample(interp.Cubic, axis, moved, 6, 1)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	// The last six samples have no source and are zero filled.
	testutil.RequireSliceNearlyEqual(t, out[:74], base[:74], 1e-9)
	for i := 74; i < 80; i++ {
		if out[i] != 0 {
			t.Fatalf("out[%d] = %v, want 0", i, out[i])
		}
	}
}

func TestResampleUndoesScale(t *testing.T) {
	axis := testutil.Range(200)
	base := testutil.Gaussian(axis, 80, 6, 1)
	// Stretch by 1.1 around zero and shift by 3: the peak moves to 91.
	stretched := testutil.Gaussian(axis, 1.1*80+3, 6*1.1, 1)

	out, err := Resample(interp.PCHIP, axis, stretched, 3, 1.1)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if got := testutil.Argmax(out); got != 80 {
		t.Fatalf("argmax = %d, want 80", got)
	}
	testutil.RequireSliceNearlyEqual(t, out, base, 5e-3)
}

func TestResampleErrors(t *testing.T) {
	axis := testutil.Range(4)
	if _, err := Resample(interp.Linear, axis, []float64{1, 2}, 0, 1); !errors.Is(err, ErrSignalLength) {
		t.Fatalf("err = %v, want ErrSignalLength", err)
	}
	for _, sc := range []float64{0, math.NaN(), math.Inf(1)} {
		if _, err := Resample(interp.Linear, axis, axis, 0, sc); !errors.Is(err, ErrInvalidCorrection) {
			t.Fatalf("scale %v: err = %v, want ErrInvalidCorrection", sc, err)
		}
	}
}

func TestShiftZeroFill(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		n    int
		want []float64
	}{
		{n: 0, want: []float64{1, 2, 3, 4, 5}},
		{n: 2, want: []float64{0, 0, 1, 2, 3}},
		{n: -2, want: []float64{3, 4, 5, 0, 0}},
		{n: 5, want: []float64{0, 0, 0, 0, 0}},
		{n: -7, want: []float64{0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		got := ShiftZeroFill(x, tt.n)
		testutil.RequireSliceNearlyEqual(t, got, tt.want, 0)
		testutil.RequireSliceNearlyEqual(t, got, testutil.ShiftSamples(x, tt.n), 0)
	}
	if x[0] != 1 {
		t.Fatal("input mutated")
	}
}

func TestQuickShiftAmountRoundsHalfToEven(t *testing.T) {
	for in, want := range map[float64]int{2.5: 2, 3.5: 4, -0.5: 0, 1.49: 1, -2.6: -3} {
		if got := quickShiftAmount(in); got != want {
			t.Fatalf("quickShiftAmount(%v) = %d, want %d", in, got, want)
		}
	}
}
