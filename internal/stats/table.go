package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one column of a text table.
type column struct {
	title string
	right bool
}

const columnGap = "  "

// formatTable lays out rows under a header and a rule line. Cells are padded by display width so
// wide charset characters stay aligned.
func formatTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range rows {
		for i := range cols {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}

	titles := make([]string, len(cols))
	rules := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
		rules[i] = strings.Repeat("─", widths[i])
	}
	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, joinCells(cols, widths, titles), strings.Join(rules, columnGap))
	for _, row := range rows {
		lines = append(lines, joinCells(cols, widths, row))
	}
	return lines
}

func joinCells(cols []column, widths []int, cells []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if c.right {
			parts[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.TrimRight(strings.Join(parts, columnGap), " ")
}
