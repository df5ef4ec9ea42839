package keyboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/verte-zerg/thumbkey/internal/geom"
)

// Grid is a layout genome: rows of keys, top row first.
type Grid [][]Key

// NewGrid returns an empty grid.
func NewGrid(columns, rows int) Grid {
	g := make(Grid, rows)
	for y := range g {
		g[y] = make([]Key, columns)
	}
	return g
}

// Columns returns the grid width.
func (g Grid) Columns() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Rows returns the grid height.
func (g Grid) Rows() int { return len(g) }

// Clone deep-copies the grid.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for y := range g {
		out[y] = append([]Key(nil), g[y]...)
	}
	return out
}

// Validate checks that the grid is rectangular and that no character appears twice.
func (g Grid) Validate() error {
	if len(g) == 0 || len(g[0]) == 0 {
		return fmt.Errorf("%w: empty grid", ErrPreferenceShape)
	}
	seen := make(map[rune]geom.Coord)
	for y, row := range g {
		if len(row) != len(g[0]) {
			return fmt.Errorf("%w: row %d has %d keys, want %d", ErrPreferenceShape, y, len(row), len(g[0]))
		}
		for x := range row {
			for _, c := range row[x] {
				if c == 0 {
					continue
				}
				if at, ok := seen[c]; ok {
					return fmt.Errorf("%w: %q at (%d,%d) and (%d,%d)", ErrDuplicateCharacter, c, at.X, at.Y, x, y)
				}
				seen[c] = geom.Coord{X: x, Y: y}
			}
		}
	}
	return nil
}

// Characters returns every character on the grid, sorted.
func (g Grid) Characters() []rune {
	var out []rune
	for _, row := range g {
		for x := range row {
			out = append(out, row[x].Characters()...)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders one key per cell, rows separated by newlines.
func (g Grid) String() string {
	var b strings.Builder
	for y, row := range g {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x, k := range row {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(k.String())
		}
	}
	return b.String()
}

// ParseGrid builds a grid from rows of nine-character key strings.
func ParseGrid(rows [][]string) (Grid, error) {
	g := make(Grid, len(rows))
	for y, row := range rows {
		g[y] = make([]Key, len(row))
		for x, s := range row {
			k, err := ParseKey(s)
			if err != nil {
				return nil, fmt.Errorf("failed to parse key (%d,%d): %w", x, y, err)
			}
			g[y][x] = k
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
