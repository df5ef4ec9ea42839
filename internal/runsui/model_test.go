package runsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/thumbkey/internal/model"
	"github.com/verte-zerg/thumbkey/internal/store"
)

type fakeSource struct {
	runs    []model.RunRecord
	gens    map[string][]model.GenerationStats
	listErr error
}

func (f *fakeSource) ListRuns(_ context.Context, _ store.RunFilter) ([]model.RunRecord, error) {
	return f.runs, f.listErr
}

func (f *fakeSource) GetRun(_ context.Context, id string) (model.RunRecord, error) {
	for _, r := range f.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return model.RunRecord{}, store.ErrRunNotFound
}

func (f *fakeSource) ListGenerations(_ context.Context, id string) ([]model.GenerationStats, error) {
	return f.gens[id], nil
}

func newFake() *fakeSource {
	return &fakeSource{
		runs: []model.RunRecord{
			{ID: "old", StartedAt: time.Unix(100, 0), Preset: "none", Columns: 3, Rows: 3, Generations: 2, Completed: 2, ControlFitness: 0.5, BestFitness: 0.6},
			{ID: "new", StartedAt: time.Unix(200, 0), Preset: "four-column", Columns: 4, Rows: 3, Generations: 3, Completed: 1, ControlFitness: 0.4, BestFitness: 0.5},
		},
		gens: map[string][]model.GenerationStats{
			"new": {{Generation: 1, Best: 0.5, Mean: 0.45, Control: 0.4, DurationMs: 20}},
		},
	}
}

func sized(t *testing.T, m *Model) {
	t.Helper()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
}

func TestNewestRunListedFirst(t *testing.T) {
	m := NewModel(newFake(), store.RunFilter{})
	sized(t, m)
	run, ok := m.Selected()
	if !ok {
		t.Fatalf("expected a selected run")
	}
	if run.ID != "new" {
		t.Fatalf("expected newest run first, got %q", run.ID)
	}
	if !strings.Contains(m.View(), "four-column") {
		t.Fatalf("expected run table in view")
	}
}

func TestEnterOpensRunDetail(t *testing.T) {
	m := NewModel(newFake(), store.RunFilter{})
	sized(t, m)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.activeTab != tabDetail {
		t.Fatalf("expected detail tab, got %d", m.activeTab)
	}
	view := m.View()
	if !strings.Contains(view, "Run new") {
		t.Fatalf("expected run summary in view:\n%s", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.activeTab != tabRuns {
		t.Fatalf("expected runs tab after esc")
	}
}

func TestRunWithoutGenerations(t *testing.T) {
	m := NewModel(newFake(), store.RunFilter{})
	sized(t, m)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	run, _ := m.Selected()
	if run.ID != "old" {
		t.Fatalf("expected cursor on old run, got %q", run.ID)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.View(), "No generations recorded.") {
		t.Fatalf("expected empty generations notice")
	}
}

func TestListErrorShownInFooter(t *testing.T) {
	src := newFake()
	src.listErr = errors.New("boom")
	m := NewModel(src, store.RunFilter{Preset: "none"})
	sized(t, m)
	view := m.View()
	if !strings.Contains(view, "failed to list runs: boom") {
		t.Fatalf("expected error in footer:\n%s", view)
	}
	if !strings.Contains(view, "preset=none") {
		t.Fatalf("expected filter summary in header")
	}
}

func TestWindowSteps(t *testing.T) {
	if got := nextWindow(10); got != 25 {
		t.Fatalf("next window = %d", got)
	}
	if got := prevWindow(10); got != 5 {
		t.Fatalf("prev window = %d", got)
	}
	if got := prevWindow(1); got != 1 {
		t.Fatalf("prev window floor = %d", got)
	}
	if got := nextWindow(100); got != 100 {
		t.Fatalf("next window ceiling = %d", got)
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(newFake(), store.RunFilter{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
