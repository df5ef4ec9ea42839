// Package keyboard models swipe keys, keyboard layouts and their ergonomic travel cost.
package keyboard

import "math"

// Direction is a swipe direction on a single key. It doubles as a slot index, laid out
// row-major over a 3x3 grid so that a key can be written as a nine-character string.
type Direction int8

// Swipe directions. None marks a character that is not on a key.
const (
	None      Direction = -1
	UpLeft    Direction = 0
	Up        Direction = 1
	UpRight   Direction = 2
	Left      Direction = 3
	Center    Direction = 4
	Right     Direction = 5
	DownLeft  Direction = 6
	Down      Direction = 7
	DownRight Direction = 8
)

// SlotCount is the number of directions on a key.
const SlotCount = 9

// DirectionClass groups directions by how awkward they are to swipe.
type DirectionClass int8

// Direction classes.
const (
	ClassCenter DirectionClass = iota
	ClassCardinal
	ClassDiagonal
)

var directionNames = [SlotCount]string{
	"up-left", "up", "up-right", "left", "center", "right", "down-left", "down", "down-right",
}

var directionAngles = [SlotCount]float64{
	UpLeft:    3 * math.Pi / 4,
	Up:        math.Pi / 2,
	UpRight:   math.Pi / 4,
	Left:      math.Pi,
	Center:    0,
	Right:     0,
	DownLeft:  -3 * math.Pi / 4,
	Down:      -math.Pi / 2,
	DownRight: -math.Pi / 4,
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	if !d.Valid() {
		return "none"
	}
	return directionNames[d]
}

// Valid reports whether d is one of the nine key slots.
func (d Direction) Valid() bool {
	return d >= 0 && d < SlotCount
}

// Angle returns the canonical swipe angle in radians. Center has no meaningful angle.
func (d Direction) Angle() float64 {
	return directionAngles[d]
}

// Class returns the direction class.
func (d Direction) Class() DirectionClass {
	switch d {
	case Center:
		return ClassCenter
	case Up, Down, Left, Right:
		return ClassCardinal
	default:
		return ClassDiagonal
	}
}

// Thumb identifies which thumb performed an input. It doubles as an index.
type Thumb int8

// Thumbs.
const (
	LeftThumb  Thumb = 0
	RightThumb Thumb = 1
)

// Opposite returns the other thumb.
func (t Thumb) Opposite() Thumb {
	if t == LeftThumb {
		return RightThumb
	}
	return LeftThumb
}

// String implements fmt.Stringer.
func (t Thumb) String() string {
	if t == LeftThumb {
		return "left"
	}
	return "right"
}
