// Package runsui provides the Bubble Tea browser for stored training runs.
package runsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/thumbkey/internal/model"
	"github.com/verte-zerg/thumbkey/internal/stats"
	"github.com/verte-zerg/thumbkey/internal/store"
)

const (
	tabRuns = iota
	tabDetail
)

const (
	plotHeight    = 10
	defaultWindow = 10
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Source lists runs and loads their generations.
type Source interface {
	stats.RunReader
	ListRuns(ctx context.Context, filter store.RunFilter) ([]model.RunRecord, error)
}

// Model implements the run browser.
type Model struct {
	src    Source
	filter store.RunFilter
	window int

	runs   []model.RunRecord
	report stats.Report
	loaded bool
	errMsg string

	tabs      []string
	activeTab int
	runTable  table.Model
	detail    viewport.Model

	width  int
	height int
}

// NewModel constructs a run browser and loads the run list.
func NewModel(src Source, filter store.RunFilter) *Model {
	m := &Model{
		src:    src,
		filter: filter,
		window: defaultWindow,
		tabs:   []string{"Runs", "Run"},
		detail: viewport.New(0, 0),
	}
	m.runTable = table.New(
		table.WithColumns(runColumns()),
		table.WithFocused(true),
	)
	m.runTable.SetStyles(runTableStyles())
	m.reload()
	return m
}

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
		m.updateLayout()
		m.renderDetail()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h", "esc":
			m.activeTab = tabRuns
			m.runTable.Focus()
			return m, tea.ClearScreen
		case "right", "l", "enter":
			m.openSelected()
			return m, tea.ClearScreen
		case "r":
			m.reload()
			return m, nil
		case "=":
			m.window = nextWindow(m.window)
			m.renderDetail()
			return m, nil
		case "-":
			m.window = prevWindow(m.window)
			m.renderDetail()
			return m, nil
		}
		if m.activeTab == tabRuns {
			var cmd tea.Cmd
			m.runTable, cmd = m.runTable.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, 1)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Selected returns the run under the table cursor.
func (m *Model) Selected() (model.RunRecord, bool) {
	i := m.runTable.Cursor()
	if i < 0 || i >= len(m.runs) {
		return model.RunRecord{}, false
	}
	return m.runs[i], true
}

func (m *Model) reload() {
	runs, err := m.src.ListRuns(context.Background(), m.filter)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to list runs: %v", err)
		return
	}
	m.errMsg = ""
	// newest first in the browser
	m.runs = make([]model.RunRecord, len(runs))
	for i, r := range runs {
		m.runs[len(runs)-1-i] = r
	}
	m.runTable.SetRows(runRows(m.runs))
	if m.runTable.Cursor() >= len(m.runs) {
		m.runTable.SetCursor(0)
	}
}

func (m *Model) openSelected() {
	run, ok := m.Selected()
	if !ok {
		return
	}
	report, err := stats.BuildReport(context.Background(), m.src, run.ID)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load run: %v", err)
		return
	}
	m.errMsg = ""
	m.report = report
	m.loaded = true
	m.activeTab = tabDetail
	m.runTable.Blur()
	m.detail.GotoTop()
	m.renderDetail()
}

func (m *Model) renderDetail() {
	if !m.loaded {
		m.detail.SetContent("Select a run and press enter.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	var buf bytes.Buffer
	if err := stats.RenderRunSummary(&buf, m.report.Run, m.report.Generations); err != nil {
		m.detail.SetContent(fmt.Sprintf("Failed to render run: %v", err))
		return
	}
	if len(m.report.Generations) == 0 {
		buf.WriteString("No generations recorded.")
	} else if err := stats.RenderCurvesWithSize(&buf, m.report.Generations, m.window, width, plotHeight, true); err != nil {
		m.detail.SetContent(fmt.Sprintf("Failed to render curves: %v", err))
		return
	}
	m.detail.SetContent(strings.TrimRight(buf.String(), "\n"))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X")) + 1
	bodyHeight = m.height - headerHeight - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight := m.layoutHeights()
	m.detail.Width = m.width
	m.detail.Height = bodyHeight
	m.runTable.SetWidth(m.width)
	m.runTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return tabs + "\n" + headerStyle.Render(truncateLine(m.filterSummary(), m.width))
}

func (m *Model) filterSummary() string {
	preset := m.filter.Preset
	if preset == "" {
		preset = "any"
	}
	since := "any"
	if m.filter.Since != nil {
		since = m.filter.Since.Format("2006-01-02")
	}
	last := "all"
	if m.filter.Last > 0 {
		last = strconv.Itoa(m.filter.Last)
	}
	return fmt.Sprintf("Filter: preset=%s  since=%s  last=%s  window=%d  runs=%d", preset, since, last, m.window, len(m.runs))
}

func (m *Model) renderBody() string {
	if m.activeTab == tabDetail {
		return m.detail.View()
	}
	if len(m.runs) == 0 {
		return "No runs found."
	}
	return tableMutedStyle.Render(m.runTable.View())
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	help := "Move: up/down  Open: enter  Reload: r  Quit: q"
	if m.activeTab == tabDetail {
		help = "Back: esc  Scroll: up/down/pgup/pgdn  Window: -/=  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func runColumns() []table.Column {
	return []table.Column{
		{Title: "Started", Width: 16},
		{Title: "Preset", Width: 26},
		{Title: "Grid", Width: 5},
		{Title: "Gens", Width: 11},
		{Title: "Control", Width: 8},
		{Title: "Best", Width: 8},
		{Title: "Gain", Width: 8},
	}
}

func runRows(runs []model.RunRecord) []table.Row {
	rows := make([]table.Row, 0, len(runs))
	for _, r := range runs {
		gain := 0.0
		if r.ControlFitness != 0 {
			gain = (r.BestFitness - r.ControlFitness) / r.ControlFitness
		}
		rows = append(rows, table.Row{
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Preset,
			fmt.Sprintf("%dx%d", r.Columns, r.Rows),
			fmt.Sprintf("%d/%d", r.Completed, r.Generations),
			fmt.Sprintf("%.5f", r.ControlFitness),
			fmt.Sprintf("%.5f", r.BestFitness),
			fmt.Sprintf("%+.2f%%", gain*100),
		})
	}
	return rows
}

func runTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

var windows = []int{1, 5, 10, 25, 50, 100}

func nextWindow(w int) int {
	for _, v := range windows {
		if v > w {
			return v
		}
	}
	return windows[len(windows)-1]
}

func prevWindow(w int) int {
	for i := len(windows) - 1; i >= 0; i-- {
		if windows[i] < w {
			return windows[i]
		}
	}
	return windows[0]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
