package stats

import (
	"context"

	"github.com/verte-zerg/thumbkey/internal/model"
)

// RunReader is the read side of the run store.
type RunReader interface {
	GetRun(ctx context.Context, id string) (model.RunRecord, error)
	ListGenerations(ctx context.Context, runID string) ([]model.GenerationStats, error)
}

// Report contains precomputed data for rendering one run.
type Report struct {
	Run         model.RunRecord
	Generations []model.GenerationStats
	Summary     RunSummary
}

// BuildReport loads a run and its generations.
func BuildReport(ctx context.Context, src RunReader, runID string) (Report, error) {
	run, err := src.GetRun(ctx, runID)
	if err != nil {
		return Report{}, err
	}
	gens, err := src.ListGenerations(ctx, runID)
	if err != nil {
		return Report{}, err
	}
	return Report{Run: run, Generations: gens, Summary: Summarize(gens)}, nil
}
