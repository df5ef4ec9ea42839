package trainer

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/verte-zerg/thumbkey/internal/keyboard"
)

// Report summarises one ranked generation.
type Report struct {
	// Generation counts from 1. The final report repeats the last generation number.
	Generation int
	Final      bool

	Best    float64
	Mean    float64
	StdDev  float64
	Min     float64
	Control float64

	PreviousBest float64
	PreviousMean float64

	// ParentMean and ChildMean split the ranked population at the parent count.
	ParentMean float64
	ChildMean  float64

	Ranges    int
	Evaluated time.Duration
	Sorted    time.Duration

	BestTraits keyboard.Grid
}

// ImprovementOverControl returns the relative gain of the best layout over the control.
func (r Report) ImprovementOverControl() float64 {
	return relativeGain(r.Best, r.Control)
}

// ImprovementOverPrevious returns the relative gain of the best layout over the previous generation.
func (r Report) ImprovementOverPrevious() float64 {
	return relativeGain(r.Best, r.PreviousBest)
}

func relativeGain(v, base float64) float64 {
	if base == 0 {
		return 0
	}
	return (v - base) / base
}

// Reporter receives every generation report. Returning an error aborts the run.
type Reporter interface {
	Report(Report) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Report) error

// Report implements Reporter.
func (f ReporterFunc) Report(r Report) error { return f(r) }

// MultiReporter fans a report out to several reporters in order.
type MultiReporter []Reporter

// Report implements Reporter.
func (m MultiReporter) Report(r Report) error {
	for _, rep := range m {
		if rep == nil {
			continue
		}
		if err := rep.Report(r); err != nil {
			return err
		}
	}
	return nil
}

func summarize(fitness []float64, parents int) (mean, std, best, worst, parentMean, childMean float64) {
	mean, std = stat.MeanStdDev(fitness, nil)
	best = floats.Max(fitness)
	worst = floats.Min(fitness)
	parentMean = stat.Mean(fitness[:parents], nil)
	if parents < len(fitness) {
		childMean = stat.Mean(fitness[parents:], nil)
	}
	return mean, std, best, worst, parentMean, childMean
}
