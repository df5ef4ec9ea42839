package keyboard

import "fmt"

// DirectionPreferences scores each swipe direction in [0,1], indexed by Direction.
type DirectionPreferences [SlotCount]float64

// ClassPreferences builds direction preferences from one value per direction class.
func ClassPreferences(center, cardinal, diagonal float64) DirectionPreferences {
	var p DirectionPreferences
	for i := range p {
		switch Direction(i).Class() {
		case ClassCenter:
			p[i] = center
		case ClassCardinal:
			p[i] = cardinal
		default:
			p[i] = diagonal
		}
	}
	return p
}

// Validate rejects values outside [0,1].
func (p DirectionPreferences) Validate() error {
	for i, v := range p {
		if v < 0 || v > 1 {
			return fmt.Errorf("swipe preference for %s must be within [0,1], got %v", Direction(i), v)
		}
	}
	return nil
}

var directionOffsets = [SlotCount][2]int{
	UpLeft: {-1, -1}, Up: {0, -1}, UpRight: {1, -1},
	Left: {-1, 0}, Center: {0, 0}, Right: {1, 0},
	DownLeft: {-1, 1}, Down: {0, 1}, DownRight: {1, 1},
}

// KeySpecificPreferences derives one preference table per key, rows then columns. Center and, on
// edge keys, the directions pointing back into the keyboard are scaled by (1+towardCenter); the
// result is divided by the same factor so every value stays within [0,1].
func KeySpecificPreferences(base DirectionPreferences, columns, rows int, towardCenter float64) [][]DirectionPreferences {
	boost := 1 + towardCenter
	out := make([][]DirectionPreferences, rows)
	for y := 0; y < rows; y++ {
		out[y] = make([]DirectionPreferences, columns)
		for x := 0; x < columns; x++ {
			var p DirectionPreferences
			for d := range p {
				v := base[d]
				if d == int(Center) || pointsInward(Direction(d), x, y, columns, rows) {
					v *= boost
				}
				p[d] = v / boost
			}
			out[y][x] = p
		}
	}
	return out
}

// pointsInward reports whether d leads away from every edge the key touches and away from at
// least one of them.
func pointsInward(d Direction, x, y, columns, rows int) bool {
	off := directionOffsets[d]
	inward := false
	check := func(onLow, onHigh bool, delta int) bool {
		if onLow {
			if delta < 0 {
				return false
			}
			inward = inward || delta > 0
		}
		if onHigh {
			if delta > 0 {
				return false
			}
			inward = inward || delta < 0
		}
		return true
	}
	if !check(x == 0, x == columns-1, off[0]) {
		return false
	}
	if !check(y == 0, y == rows-1, off[1]) {
		return false
	}
	return inward
}

// PositionPreferences scores each key position in [0,1], rows then columns.
type PositionPreferences [][]float64

// Validate checks the table shape and value range against the grid.
func (p PositionPreferences) Validate(columns, rows int) error {
	if len(p) != rows {
		return fmt.Errorf("%w: %d rows for a %dx%d grid", ErrPreferenceShape, len(p), columns, rows)
	}
	for y, row := range p {
		if len(row) != columns {
			return fmt.Errorf("%w: row %d has %d columns for a %dx%d grid", ErrPreferenceShape, y, len(row), columns, rows)
		}
		for x, v := range row {
			if v < 0 || v > 1 {
				return fmt.Errorf("position preference at (%d,%d) must be within [0,1], got %v", x, y, v)
			}
		}
	}
	return nil
}

// DefaultPositionPreferences returns the built-in table for a grid, or nil when none exists.
func DefaultPositionPreferences(columns, rows int) PositionPreferences {
	switch {
	case columns == 3 && rows == 3:
		return PositionPreferences{
			{0.4, 0, 0.4},
			{1, 0.7, 1},
			{1, 1, 1},
		}
	case columns == 4 && rows == 3:
		return PositionPreferences{
			{0.2, 0, 0, 0.2},
			{1, 0.8, 0.8, 1},
			{1, 1, 1, 1},
		}
	case columns == 4 && rows == 4:
		return PositionPreferences{
			{0.4, 0, 0, 0.4},
			{0.9, 0.7, 0.7, 0.9},
			{1, 1, 1, 1},
			{1, 1, 1, 1},
		}
	}
	return nil
}

// UniformPositionPreferences returns a table with every position scored v.
func UniformPositionPreferences(columns, rows int, v float64) PositionPreferences {
	p := make(PositionPreferences, rows)
	for y := range p {
		p[y] = make([]float64, columns)
		for x := range p[y] {
			p[y][x] = v
		}
	}
	return p
}
