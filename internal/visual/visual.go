// Package visual renders keyboard layouts as boxed terminal grids.
package visual

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/thumbkey/internal/keyboard"
)

const (
	spaceGlyph = '█'
	tabGlyph   = '»'
	emptyGlyph = ' '
)

var (
	keyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(0, 1)
	centerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	swipeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	spacebar     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Foreground(lipgloss.Color("#6E6E6E")).
			Align(lipgloss.Center)
)

// Options controls how a layout is drawn.
type Options struct {
	Title string
	// Compare highlights every slot that differs from this grid. It must have the same shape.
	Compare keyboard.Grid
	// Spacebar draws a full-width spacebar under the keys.
	Spacebar bool
}

// Render draws the grid, top row first.
func Render(grid keyboard.Grid, opts Options) string {
	compare := opts.Compare
	if compare != nil && (compare.Rows() != grid.Rows() || compare.Columns() != grid.Columns()) {
		compare = nil
	}

	rows := make([]string, 0, grid.Rows()+2)
	if opts.Title != "" {
		rows = append(rows, titleStyle.Render(opts.Title))
	}
	for y, row := range grid {
		keys := make([]string, len(row))
		for x, key := range row {
			var ref *keyboard.Key
			if compare != nil {
				ref = &compare[y][x]
			}
			keys[x] = renderKey(key, ref)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, keys...))
	}
	if opts.Spacebar && grid.Rows() > 0 {
		width := lipgloss.Width(rows[len(rows)-1]) - 2
		rows = append(rows, spacebar.Width(width).Render("space"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderKey(key keyboard.Key, ref *keyboard.Key) string {
	lines := make([]string, 3)
	for r := 0; r < 3; r++ {
		cells := make([]string, 3)
		for c := 0; c < 3; c++ {
			d := keyboard.Direction(r*3 + c)
			style := swipeStyle
			switch {
			case ref != nil && ref[d] != key[d]:
				style = changedStyle
			case d == keyboard.Center:
				style = centerStyle
			}
			cells[c] = style.Render(string(Glyph(key[d])))
		}
		lines[r] = strings.Join(cells, " ")
	}
	return keyStyle.Render(strings.Join(lines, "\n"))
}

// Glyph returns the printable form of a key character.
func Glyph(c rune) rune {
	switch c {
	case 0:
		return emptyGlyph
	case ' ':
		return spaceGlyph
	case '\t':
		return tabGlyph
	default:
		return c
	}
}

// Plain renders the grid without borders or styles, one key row per three text lines.
func Plain(grid keyboard.Grid) string {
	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		for r := 0; r < 3; r++ {
			if r > 0 {
				b.WriteByte('\n')
			}
			for x, key := range row {
				if x > 0 {
					b.WriteString(" | ")
				}
				for c := 0; c < 3; c++ {
					b.WriteRune(Glyph(key[r*3+c]))
				}
			}
		}
	}
	return b.String()
}
