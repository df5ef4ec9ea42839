// Package stats summarizes and renders the fitness history of training runs.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/verte-zerg/thumbkey/internal/model"
	"github.com/verte-zerg/thumbkey/internal/trainer"
)

const sparkChars = " .:-=+*#%@"

// RunSummary condenses the generations of one run.
type RunSummary struct {
	Generations int
	FinalBest   float64
	FinalMean   float64
	PeakBest    float64
	Control     float64
	// Improvement is the relative gain of PeakBest over Control.
	Improvement float64
	// MeanSpread is the average within-generation standard deviation.
	MeanSpread float64
	Elapsed    time.Duration
}

// GenerationFromReport converts a trainer report into its stored form.
func GenerationFromReport(r trainer.Report) model.GenerationStats {
	return model.GenerationStats{
		Generation: r.Generation,
		Best:       r.Best,
		Mean:       r.Mean,
		StdDev:     r.StdDev,
		Min:        r.Min,
		Control:    r.Control,
		DurationMs: (r.Evaluated + r.Sorted).Milliseconds(),
	}
}

// Summarize reduces a generation history. An empty history yields the zero summary.
func Summarize(gens []model.GenerationStats) RunSummary {
	if len(gens) == 0 {
		return RunSummary{}
	}
	best := make([]float64, len(gens))
	spread := make([]float64, len(gens))
	var elapsed int64
	for i, g := range gens {
		best[i] = g.Best
		spread[i] = g.StdDev
		elapsed += g.DurationMs
	}
	last := gens[len(gens)-1]
	s := RunSummary{
		Generations: len(gens),
		FinalBest:   last.Best,
		FinalMean:   last.Mean,
		PeakBest:    floats.Max(best),
		Control:     last.Control,
		MeanSpread:  stat.Mean(spread, nil),
		Elapsed:     time.Duration(elapsed) * time.Millisecond,
	}
	if s.Control != 0 {
		s.Improvement = (s.PeakBest - s.Control) / s.Control
	}
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// BestSoFar returns the running maximum of values.
func BestSoFar(values []float64) []float64 {
	out := make([]float64, len(values))
	peak := math.Inf(-1)
	for i, v := range values {
		peak = math.Max(peak, v)
		out[i] = peak
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := floats.Min(values), floats.Max(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderRunSummary prints the header block of one run.
func RenderRunSummary(w io.Writer, run model.RunRecord, gens []model.GenerationStats) error {
	s := Summarize(gens)
	lines := []string{
		fmt.Sprintf("Run %s", run.ID),
		fmt.Sprintf("Started: %s (%s)", run.StartedAt.Local().Format("2006-01-02 15:04"), humanize.Time(run.StartedAt)),
		fmt.Sprintf("Layout: %dx%d, preset %s, charset %q", run.Columns, run.Rows, run.Preset, run.Charset),
		fmt.Sprintf("Population: %s layouts, %d parents, seed %d", humanize.Comma(int64(run.PopulationSize)), run.Parents, run.Seed),
		fmt.Sprintf("Generations: %d of %d", s.Generations, run.Generations),
	}
	if s.Generations > 0 {
		lines = append(lines,
			fmt.Sprintf("Best: %.5f (final %.5f), control %.5f, %+.2f%%", s.PeakBest, s.FinalBest, s.Control, s.Improvement*100),
			fmt.Sprintf("Mean: %.5f, avg spread %.5f", s.FinalMean, s.MeanSpread),
			fmt.Sprintf("Compute: %s", s.Elapsed.Round(time.Millisecond)),
		)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderRunTable prints one row per run.
func RenderRunTable(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	cols := []column{
		{title: "Started"},
		{title: "Preset"},
		{title: "Grid"},
		{title: "Gens", right: true},
		{title: "Control", right: true},
		{title: "Best", right: true},
		{title: "Gain", right: true},
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		gain := 0.0
		if r.ControlFitness != 0 {
			gain = (r.BestFitness - r.ControlFitness) / r.ControlFitness
		}
		rows = append(rows, []string{
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Preset,
			fmt.Sprintf("%dx%d", r.Columns, r.Rows),
			fmt.Sprintf("%d/%d", r.Completed, r.Generations),
			fmt.Sprintf("%.5f", r.ControlFitness),
			fmt.Sprintf("%.5f", r.BestFitness),
			fmt.Sprintf("%+.2f%%", gain*100),
		})
	}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves plots best, mean and control fitness per generation.
func RenderCurves(w io.Writer, gens []model.GenerationStats, window int) error {
	return RenderCurvesWithSize(w, gens, window, 0, 10, false)
}

// RenderCurvesWithSize plots the curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, gens []model.GenerationStats, window, totalWidth, height int, useColor bool) error {
	if len(gens) == 0 {
		return nil
	}
	best := make([]float64, len(gens))
	mean := make([]float64, len(gens))
	control := make([]float64, len(gens))
	for i, g := range gens {
		best[i] = g.Best
		mean[i] = g.Mean
		control[i] = g.Control
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Fitness", []Series{
		{Name: "Best", Values: BestSoFar(best)},
		{Name: "Mean", Values: MovingAverage(mean, window)},
		{Name: "Control", Values: MovingAverage(control, window)},
	}, width, height, useColor)
}
