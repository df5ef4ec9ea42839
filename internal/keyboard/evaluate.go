package keyboard

import (
	"fmt"
	"unicode"

	"github.com/verte-zerg/thumbkey/internal/geom"
)

// Repeating the same swipe gets harder the further it leads from the Center.
var repeatTrajectory = [...]float64{
	ClassCenter:   1,
	ClassCardinal: 0.35,
	ClassDiagonal: 0,
}

const spacebarPositional = 0.5

// WhichThumb picks the thumb for a key column. Columns left of the middle use the left thumb,
// columns right of it the right thumb, and a column exactly in the middle alternates.
func WhichThumb(previous Thumb, column, columns int) Thumb {
	mid := float64(columns-1) / 2
	switch c := float64(column); {
	case c < mid:
		return LeftThumb
	case c > mid:
		return RightThumb
	default:
		return previous.Opposite()
	}
}

// Evaluate types every range of text on the layout and accumulates its travel scores. Each range
// starts with both thumbs resting on the outer keys of the middle row.
func (l *Layout) Evaluate(text []rune, ranges []Range) error {
	for _, r := range ranges {
		if r.Start < 0 || r.End > len(text) || r.Start > r.End {
			return fmt.Errorf("range [%d,%d) outside text of length %d", r.Start, r.End, len(text))
		}
		l.resetThumbs()
		var total float64
		var scored int64
		for _, raw := range text[r.Start:r.End] {
			if raw == ' ' && l.erg.spacebar {
				total += l.typeSpace()
				scored++
				continue
			}
			i, ok := l.erg.lookup(unicode.ToLower(raw))
			if !ok {
				continue
			}
			total += l.typeCharacter(i)
			scored++
			l.freq[i]++
		}
		l.total += total
		l.scored += scored
		if scored > 0 {
			l.rangeMeans += total / float64(scored)
			l.rangesTaken++
		}
	}
	return nil
}

func (l *Layout) resetThumbs() {
	mid := l.erg.rows / 2
	l.previousOf[LeftThumb] = InputAction{Key: geom.Coord{X: 0, Y: mid}, Direction: Center, Thumb: LeftThumb}
	l.previousOf[RightThumb] = InputAction{Key: geom.Coord{X: l.erg.columns - 1, Y: mid}, Direction: Center, Thumb: RightThumb}
	l.previous = l.previousOf[RightThumb]
}

func (l *Layout) typeCharacter(i int) float64 {
	loc := l.index[i]
	thumb := WhichThumb(l.previous.Thumb, loc.key.X, l.erg.columns)
	current := InputAction{Key: loc.key, Direction: loc.direction, Thumb: thumb}
	score := l.erg.weights.Score(l.travelTerms(current, l.previousOf[thumb], l.previous))
	l.previous = current
	l.previousOf[thumb] = current
	return score
}

// typeSpace presses the spacebar with the thumb that did not type last. Only the global previous
// input moves to the spacebar; that thumb's next key is still measured from its last key.
func (l *Layout) typeSpace() float64 {
	from := l.previousOf[l.previous.Thumb.Opposite()]
	current, terms := l.spacebarTerms(from)
	l.previous = current
	return l.erg.weights.Score(terms)
}

// TravelTerms scores moving to current, given the last input of the same thumb and the last
// input of either thumb.
func (l *Layout) TravelTerms(current, previousOfThumb, previous InputAction) Terms {
	return l.travelTerms(current, previousOfThumb, previous)
}

func (l *Layout) travelTerms(current, previousOfThumb, previous InputAction) Terms {
	e := l.erg
	positional := e.positions[current.Key.Y][current.Key.X]
	direction := e.DirectionPreferences(current.Key.X, current.Key.Y)[current.Direction]

	if previous.Key == current.Key && previous.Direction == current.Direction {
		return Terms{
			Distance:               1,
			Trajectory:             repeatTrajectory[current.Direction.Class()],
			HandAlternation:        1,
			HandCollisionAvoidance: 1,
			Positional:             positional,
			SwipeDirection:         direction,
		}
	}

	terms := Terms{
		Distance:       clamp01(1 - previousOfThumb.Key.Distance(current.Key)/e.maxDistance),
		Trajectory:     l.trajectory(previousOfThumb, current.Key.Point()),
		Positional:     positional,
		SwipeDirection: direction,
	}
	if previous.Thumb != current.Thumb {
		terms.HandAlternation = 1
	}
	if previous.Key.X != current.Key.X {
		terms.HandCollisionAvoidance = 1
	}
	return terms
}

// spacebarTerms scores a press of the spacebar by the thumb whose last input was from. The press
// lands halfway between that thumb and the middle of the keyboard, one row below the grid.
func (l *Layout) spacebarTerms(from InputAction) (InputAction, Terms) {
	e := l.erg
	press := geom.Point{
		X: (float64(from.Key.X) + float64(e.columns-1)/2) / 2,
		Y: float64(e.rows),
	}
	action := InputAction{Key: press.Round(), Direction: Center, Thumb: from.Thumb}
	distance := press.Y - float64(from.Key.Y)
	if distance < 0 {
		distance = -distance
	}
	return action, Terms{
		Distance:               clamp01(1 - distance/e.maxSpacebarDistance),
		Trajectory:             l.trajectory(from, press),
		HandAlternation:        1,
		HandCollisionAvoidance: 1,
		Positional:             spacebarPositional,
		SwipeDirection:         e.directions[Center],
	}
}

// trajectory compares the travel from the previous input to target with that input's swipe.
// A Center swipe or no travel at all counts as on course.
func (l *Layout) trajectory(from InputAction, target geom.Point) float64 {
	if from.Direction == Center || !from.Direction.Valid() {
		return 1
	}
	x, y := from.Key.Point().Vector(target)
	if x == 0 && y == 0 {
		return 1
	}
	diff := geom.NormalizedAngleDifference(geom.AngleFromVector(x, y), from.Direction.Angle())
	if l.erg.trajectoryAway {
		return diff
	}
	return 1 - diff
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
