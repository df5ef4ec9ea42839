package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/thumbkey/internal/keyboard"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

var (
	centerCharStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	cardinalCharStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	diagonalCharStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	skippedCharStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
)

// slotClasses maps every character on the grid to the class of the slot holding it.
func slotClasses(grid keyboard.Grid) map[rune]keyboard.DirectionClass {
	classes := make(map[rune]keyboard.DirectionClass)
	for _, row := range grid {
		for _, key := range row {
			for d, c := range key {
				if c != 0 {
					classes[c] = keyboard.Direction(d).Class()
				}
			}
		}
	}
	return classes
}

// buildStyledRunes colours sample text by the swipe needed for each character on grid.
// Spaces stay plain; characters the grid cannot type are dimmed.
func buildStyledRunes(text []rune, classes map[rune]keyboard.DirectionClass) []styledRune {
	out := make([]styledRune, 0, len(text))
	for _, r := range text {
		if r == ' ' {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
			continue
		}
		style := skippedCharStyle
		if class, ok := classes[unicode.ToLower(r)]; ok {
			switch class {
			case keyboard.ClassCenter:
				style = centerCharStyle
			case keyboard.ClassCardinal:
				style = cardinalCharStyle
			default:
				style = diagonalCharStyle
			}
		}
		out = append(out, styledRune{
			s:     style.Render(string(r)),
			width: runewidth.RuneWidth(r),
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks at the last space that fits, or mid-word when a word exceeds width.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
