package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/thumbkey/internal/model"
	"github.com/verte-zerg/thumbkey/internal/trainer"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestBestSoFar(t *testing.T) {
	got := BestSoFar([]float64{0.3, 0.5, 0.4, 0.6})
	want := []float64{0.3, 0.5, 0.5, 0.6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{2, 2, 2}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}

func TestGenerationFromReport(t *testing.T) {
	g := GenerationFromReport(trainer.Report{Generation: 4, Best: 0.7, Evaluated: 1500 * time.Millisecond, Sorted: 500 * time.Millisecond})
	if g.Generation != 4 || g.Best != 0.7 || g.DurationMs != 2000 {
		t.Fatalf("unexpected conversion: %+v", g)
	}
}

func TestRenderRunTable(t *testing.T) {
	var buf bytes.Buffer
	runs := []model.RunRecord{{StartedAt: time.Unix(0, 0), Preset: "none", Columns: 3, Rows: 3, Completed: 5, Generations: 5, ControlFitness: 0.5, BestFitness: 0.55}}
	if err := RenderRunTable(&buf, runs); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "+10.00%") {
		t.Fatalf("expected gain column, got:\n%s", buf.String())
	}

	buf.Reset()
	if err := RenderRunTable(&buf, nil); err != nil || !strings.Contains(buf.String(), "No runs found.") {
		t.Fatalf("expected empty notice, got %q (%v)", buf.String(), err)
	}
}

func TestRenderRunSummaryWithoutGenerations(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRunSummary(&buf, model.RunRecord{ID: "abc", StartedAt: time.Now(), Generations: 10}, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Generations: 0 of 10") {
		t.Fatalf("unexpected summary:\n%s", buf.String())
	}
}
