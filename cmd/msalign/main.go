// Command msalign calibrates a batch of signals against known reference peaks.
//
// Usage:
//
//	msalign [flags] input.csv
//
// The first CSV row is the axis, every following row one signal. A batch
// stored column-wise is rotated automatically.
//
// Examples:
//
//	msalign -peaks 10,20.5,48 spectra.csv
//	msalign -peaks 10,48 -weights 1,0.5 -method pchip -o out.csv spectra.csv
//	msalign -peaks 120,480 -by-index -only-shift -quick-shift spectra.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-msalign/dsp/align"
	"github.com/cwbudde/algo-msalign/dsp/interp"
	"github.com/cwbudde/algo-msalign/measure/residual"
	timestats "github.com/cwbudde/algo-msalign/stats/time"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	input      string
	output     string
	peaks      []float64
	verbose    bool
	writeShift bool
	align      []align.Option
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	if err := calibrate(ctx, opts); err != nil {
		pterm.Error.Println(err)
		return exitError
	}
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	def := align.DefaultConfig()
	fs := flag.NewFlagSet("msalign", flag.ContinueOnError)
	fs.SetOutput(stderr)

	peaks := fs.String("peaks", "", "comma separated reference peak positions (required)")
	weights := fs.String("weights", "", "comma separated peak weights, one per peak (default all 1)")
	method := fs.String("method", def.Method.String(), "interpolation method: "+methodList())
	width := fs.Float64("width", def.Width, "Gaussian width of each template peak, in axis units")
	ratio := fs.Float64("ratio", def.Ratio, "template half window, in multiples of -width")
	resolution := fs.Int("resolution", def.Resolution, "template intervals per peak")
	iterations := fs.Int("iterations", def.Iterations, "grid refinement iterations")
	gridSteps := fs.Int("grid-steps", def.GridSteps, "grid points per search dimension")
	shiftRange := fs.String("shift-range", formatRange(def.ShiftRange), "initial shift search window lo,hi")
	byIndex := fs.Bool("by-index", false, "treat the axis as sample indices, converting peaks to their nearest index")
	onlyShift := fs.Bool("only-shift", false, "estimate a shift only, keeping the scale at 1")
	quickShift := fs.Bool("quick-shift", false, "apply whole-sample shifts instead of resampling (requires -only-shift -by-index)")
	workers := fs.Int("workers", 0, "signals processed in parallel (0 = GOMAXPROCS)")
	output := fs.String("o", "", "output CSV (default <input>_aligned.csv)")
	shifts := fs.Bool("shifts", false, "also write per-signal shift and scale to <output>_shifts.csv")
	verbose := fs.Bool("v", false, "verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: msalign [flags] input.csv\n\n")
		fmt.Fprintf(stderr, "Calibrates every signal of a CSV batch against reference peaks.\n")
		fmt.Fprintf(stderr, "The first row holds the axis, each following row one signal.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  msalign -peaks 10,20.5,48 spectra.csv\n")
		fmt.Fprintf(stderr, "  msalign -peaks 10,48 -weights 1,0.5 -method pchip -o out.csv spectra.csv\n")
		fmt.Fprintf(stderr, "  msalign -peaks 120,480 -by-index -only-shift -quick-shift spectra.csv\n")
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, errors.New("expected exactly one input file")
	}

	o := options{
		input:      fs.Arg(0),
		output:     *output,
		verbose:    *verbose,
		writeShift: *shifts,
	}
	if o.output == "" {
		ext := filepath.Ext(o.input)
		o.output = strings.TrimSuffix(o.input, ext) + "_aligned.csv"
	}

	var err error
	if o.peaks, err = parseFloatList(*peaks); err != nil {
		return options{}, fmt.Errorf("-peaks: %w", err)
	}
	if len(o.peaks) == 0 {
		return options{}, errors.New("-peaks is required")
	}
	w, err := parseFloatList(*weights)
	if err != nil {
		return options{}, fmt.Errorf("-weights: %w", err)
	}
	sr, err := parseFloatList(*shiftRange)
	if err != nil {
		return options{}, fmt.Errorf("-shift-range: %w", err)
	}

	o.align = []align.Option{
		align.WithMethodName(*method),
		align.WithWidth(*width),
		align.WithRatio(*ratio),
		align.WithResolution(*resolution),
		align.WithIterations(*iterations),
		align.WithGridSteps(*gridSteps),
		align.WithShiftRange(sr...),
		align.WithAlignByIndex(*byIndex),
		align.WithOnlyShift(*onlyShift),
		align.WithQuickShift(*quickShift),
		align.WithWorkers(*workers),
		align.WithReturnShifts(true),
	}
	if w != nil {
		o.align = append(o.align, align.WithWeights(w...))
	}
	return o, nil
}

func calibrate(ctx context.Context, o options) error {
	if o.verbose {
		logger := pterm.DefaultLogger.WithLevel(pterm.LogLevelDebug)
		o.align = append(o.align, align.WithLogger(slog.New(pterm.NewSlogHandler(logger))))
	}

	in, err := os.Open(o.input)
	if err != nil {
		return err
	}
	axis, batch, err := readBatch(in)
	_ = in.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", o.input, err)
	}

	a, err := align.New(axis, batch, o.peaks, o.align...)
	if err != nil {
		return err
	}
	input, _, err := align.Orient(axis, batch)
	if err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Calibrating %d signals...", a.Len()))
	res, err := a.Run(ctx)
	if err != nil {
		spinner.Fail("Calibration failed")
		return err
	}
	spinner.Success(fmt.Sprintf("Calibrated %d signals", len(res.Aligned)))

	if err := writeFile(o.output, func(w io.Writer) error {
		return writeBatch(w, axis, res.Aligned)
	}); err != nil {
		return err
	}
	pterm.Info.Printf("Wrote %s\n", o.output)

	if o.writeShift {
		path := strings.TrimSuffix(o.output, filepath.Ext(o.output)) + "_shifts.csv"
		if err := writeFile(path, func(w io.Writer) error {
			return writeCorrections(w, res.Shifts, res.Scales)
		}); err != nil {
			return err
		}
		pterm.Info.Printf("Wrote %s\n", path)
	}

	reports, err := residual.Compare(meanSignal(res.Aligned), input, res.Aligned)
	if err != nil {
		return err
	}
	if err := printSummary(res, reports); err != nil {
		return err
	}
	pterm.Info.Printf("Batch sum: %.6g in, %.6g out\n", timestats.BatchSum(input), timestats.BatchSum(res.Aligned))
	return nil
}

func printSummary(res align.Result, reports []residual.SignalReport) error {
	data := pterm.TableData{{"Signal", "Shift", "Scale", "Residual lag", "Correlation", "Centroid shift", "Energy delta"}}
	for i, r := range reports {
		data = append(data, []string{
			strconv.Itoa(r.Index),
			strconv.FormatFloat(res.Shifts[i], 'f', 4, 64),
			strconv.FormatFloat(res.Scales[i], 'f', 6, 64),
			strconv.Itoa(r.Lag),
			strconv.FormatFloat(r.Coefficient, 'f', 4, 64),
			strconv.FormatFloat(r.CentroidShift, 'f', 3, 64),
			strconv.FormatFloat(r.EnergyDelta, 'g', 4, 64),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// meanSignal is the element-wise mean of batch, used as the residual
// reference.
func meanSignal(batch [][]float64) []float64 {
	if len(batch) == 0 {
		return nil
	}
	out := make([]float64, len(batch[0]))
	for _, row := range batch {
		floats.Add(out, row)
	}
	floats.Scale(1/float64(len(batch)), out)
	return out
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func methodList() string {
	ms := interp.Methods()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}

func formatRange(r []float64) string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
