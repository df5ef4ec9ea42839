// Package geom provides grid coordinates and angle helpers.
package geom

import "math"

const twoPi = 2 * math.Pi

// Coord is a zero-based (column, row) grid position with the origin at the top-left.
type Coord struct {
	X int
	Y int
}

// Sub returns c - o.
func (c Coord) Sub(o Coord) Coord {
	return Coord{X: c.X - o.X, Y: c.Y - o.Y}
}

// Distance returns the euclidean distance between two grid positions.
func (c Coord) Distance(o Coord) float64 {
	d := c.Sub(o)
	return math.Hypot(float64(d.X), float64(d.Y))
}

// Vector returns the travel from c to o in screen orientation, where up is positive Y.
func (c Coord) Vector(o Coord) (x, y float64) {
	d := o.Sub(c)
	return float64(d.X), float64(-d.Y)
}

// NormalizedAngleDifference returns 0 for identical angles and 1 for opposite angles.
func NormalizedAngleDifference(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), twoPi)
	return (math.Pi - math.Abs(diff-math.Pi)) / math.Pi
}

// AngleFromVector returns the angle of (x, y) in radians, in [-π, π].
func AngleFromVector(x, y float64) float64 {
	return math.Atan2(y, x)
}

// Point is a fractional grid position, used for inputs that fall between keys.
type Point struct {
	X float64
	Y float64
}

// Point widens c.
func (c Coord) Point() Point {
	return Point{X: float64(c.X), Y: float64(c.Y)}
}

// Vector returns the travel from p to o in screen orientation, where up is positive Y.
func (p Point) Vector(o Point) (x, y float64) {
	return o.X - p.X, p.Y - o.Y
}

// Round returns the nearest grid position.
func (p Point) Round() Coord {
	return Coord{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}
