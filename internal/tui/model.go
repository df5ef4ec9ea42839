// Package tui provides the Bubble Tea live training monitor.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/thumbkey/internal/keyboard"
	"github.com/verte-zerg/thumbkey/internal/stats"
	"github.com/verte-zerg/thumbkey/internal/trainer"
	"github.com/verte-zerg/thumbkey/internal/visual"
)

const sparkWidth = 60

// ReportMsg carries one generation report into the program.
type ReportMsg struct {
	Report trainer.Report
}

// DoneMsg ends the monitor once the run returns.
type DoneMsg struct {
	Report trainer.Report
	Err    error
}

// Options configures the monitor.
type Options struct {
	Generations int
	Control     keyboard.Grid
	// Sample is corpus text previewed on the best layout.
	Sample   []rune
	Spacebar bool
	// Cancel stops the run when the user quits.
	Cancel context.CancelFunc
}

// Model implements the Bubble Tea monitor.
type Model struct {
	opts     Options
	progress progress.Model
	started  time.Time

	width  int
	height int

	latest    trainer.Report
	hasReport bool
	history   []float64

	stopping bool
	done     bool
	err      error
}

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	gainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a monitor model.
func NewModel(opts Options) *Model {
	return &Model{
		opts:     opts,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		started:  time.Now(),
	}
}

// Reporter forwards trainer reports to a running program.
func Reporter(p *tea.Program) trainer.Reporter {
	return trainer.ReporterFunc(func(r trainer.Report) error {
		p.Send(ReportMsg{Report: r})
		return nil
	})
}

// Err returns the error the run finished with, if any.
func (m *Model) Err() error { return m.err }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(10, min(60, msg.Width-20))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.done {
				return m, tea.Quit
			}
			if !m.stopping {
				m.stopping = true
				if m.opts.Cancel != nil {
					m.opts.Cancel()
				}
			}
		}
		return m, nil
	case ReportMsg:
		m.record(msg.Report)
		return m, nil
	case DoneMsg:
		if msg.Report.Generation > 0 {
			m.record(msg.Report)
		}
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m *Model) record(r trainer.Report) {
	m.latest = r
	m.hasReport = true
	if !r.Final {
		m.history = append(m.history, r.Best)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{m.renderHeader()}
	if m.hasReport {
		sections = append(sections, m.renderStats())
		if m.latest.BestTraits != nil {
			sections = append(sections, visual.Render(m.latest.BestTraits, visual.Options{
				Title:    "Best layout (changes vs control highlighted)",
				Compare:  m.opts.Control,
				Spacebar: m.opts.Spacebar,
			}))
			if preview := m.renderPreview(); preview != "" {
				sections = append(sections, preview)
			}
		}
	}
	sections = append(sections, m.renderFooter())
	return strings.Join(sections, "\n\n")
}

func (m *Model) renderHeader() string {
	gen := 0
	if m.hasReport {
		gen = m.latest.Generation
	}
	pct := 0.0
	if m.opts.Generations > 0 {
		pct = float64(gen) / float64(m.opts.Generations)
	}
	title := headerStyle.Render(fmt.Sprintf("Generation %d/%d", gen, m.opts.Generations))
	return title + "  " + m.progress.ViewAs(pct)
}

func (m *Model) renderStats() string {
	r := m.latest
	gain := r.ImprovementOverControl()
	gainText := fmt.Sprintf("%+.2f%% vs control", gain*100)
	if gain >= 0 {
		gainText = gainStyle.Render(gainText)
	} else {
		gainText = lossStyle.Render(gainText)
	}
	lines := []string{
		fmt.Sprintf("Best %.5f  %s  (control %.5f)", r.Best, gainText, r.Control),
		fmt.Sprintf("Mean %.5f  σ %.5f  min %.5f  parents %.5f  children %.5f", r.Mean, r.StdDev, r.Min, r.ParentMean, r.ChildMean),
		mutedStyle.Render(fmt.Sprintf("%s ranges · evaluated in %s · sorted in %s",
			humanize.Comma(int64(r.Ranges)), r.Evaluated.Round(time.Millisecond), r.Sorted.Round(time.Microsecond))),
	}
	if len(m.history) > 1 {
		hist := m.history
		if len(hist) > sparkWidth {
			hist = hist[len(hist)-sparkWidth:]
		}
		lines = append(lines, mutedStyle.Render("best ")+stats.Sparkline(hist))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPreview() string {
	if len(m.opts.Sample) == 0 {
		return ""
	}
	width := 72
	if m.width > 0 {
		width = max(20, min(width, m.width-4))
	}
	runes := buildStyledRunes(m.opts.Sample, slotClasses(m.latest.BestTraits))
	legend := mutedStyle.Render("tap ") + centerCharStyle.Render("center") +
		mutedStyle.Render(" · swipe ") + cardinalCharStyle.Render("cardinal") +
		mutedStyle.Render(" · ") + diagonalCharStyle.Render("diagonal")
	return legend + "\n" + wrapStyledRunes(runes, width)
}

func (m *Model) renderFooter() string {
	elapsed := time.Since(m.started).Round(time.Second)
	switch {
	case m.done && m.err != nil:
		return footerStyle.Render(fmt.Sprintf("Stopped after %s: %v", elapsed, m.err))
	case m.done:
		return footerStyle.Render(fmt.Sprintf("Finished in %s", elapsed))
	case m.stopping:
		return footerStyle.Render("Stopping after the current generation...")
	default:
		return footerStyle.Render(fmt.Sprintf("Running for %s · q to stop", elapsed))
	}
}
