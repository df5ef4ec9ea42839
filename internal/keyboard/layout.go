package keyboard

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/verte-zerg/thumbkey/internal/geom"
)

// InputAction is one simulated keypress.
type InputAction struct {
	Key       geom.Coord
	Direction Direction
	Thumb     Thumb
}

// Range selects text[Start:End] of a corpus buffer.
type Range struct {
	Start int
	End   int
}

type location struct {
	key       geom.Coord
	direction Direction
}

// Layout is one candidate keyboard: a grid of keys plus the state of an ongoing evaluation.
// A Layout is not safe for concurrent use; distinct layouts share nothing mutable.
type Layout struct {
	erg  *Ergonomics
	rng  *rand.Rand
	grid Grid

	// index maps a charset position to the key slot holding it.
	index []location
	freq  []int64

	total       float64
	scored      int64
	rangeMeans  float64
	rangesTaken int64

	previous   InputAction
	previousOf [2]InputAction
}

// NewLayout builds a layout from preset, or generates one from seed when preset is nil. The
// preset is copied and must hold every supported character.
func NewLayout(erg *Ergonomics, seed int64, preset Grid) (*Layout, error) {
	l := &Layout{
		erg:   erg,
		rng:   rand.New(rand.NewSource(seed)),
		grid:  NewGrid(erg.columns, erg.rows),
		index: make([]location, len(erg.charset)),
		freq:  append([]int64(nil), erg.prior...),
	}
	if preset != nil {
		if err := l.OverwriteTraits(preset); err != nil {
			return nil, err
		}
		return l, nil
	}

	var err error
	if erg.randomDist {
		err = l.distributeRandomly()
	} else {
		err = l.distributeByFrequency()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to distribute characters: %w", err)
	}
	if err := l.rebuildIndex(); err != nil {
		return nil, err
	}
	return l, nil
}

// Ergonomics returns the shared configuration.
func (l *Layout) Ergonomics() *Ergonomics { return l.erg }

// Fitness returns the mean travel score of everything evaluated since the last reset.
func (l *Layout) Fitness() float64 {
	if l.erg.averageByRange {
		if l.rangesTaken == 0 {
			return 0
		}
		return l.rangeMeans / float64(l.rangesTaken)
	}
	if l.scored == 0 {
		return 0
	}
	return l.total / float64(l.scored)
}

// Scored returns the number of characters scored since the last reset.
func (l *Layout) Scored() int64 { return l.scored }

// ResetFitness clears accumulated scores. Observed frequencies are kept.
func (l *Layout) ResetFitness() {
	l.total = 0
	l.scored = 0
	l.rangeMeans = 0
	l.rangesTaken = 0
}

// Traits returns a copy of the grid.
func (l *Layout) Traits() Grid { return l.grid.Clone() }

// Key returns the key at (x, y).
func (l *Layout) Key(x, y int) Key { return l.grid[y][x] }

// Frequencies returns the prior plus every supported character typed so far.
func (l *Layout) Frequencies() map[rune]int64 {
	out := make(map[rune]int64, len(l.freq))
	for i, c := range l.erg.charset {
		out[c] = l.freq[i]
	}
	return out
}

// Locate returns where c is placed.
func (l *Layout) Locate(c rune) (geom.Coord, Direction, bool) {
	i, ok := l.erg.lookup(c)
	if !ok {
		return geom.Coord{}, None, false
	}
	loc := l.index[i]
	return loc.key, loc.direction, true
}

// OverwriteTraits copies every key of a same-shaped grid into the layout.
func (l *Layout) OverwriteTraits(src Grid) error {
	if src.Rows() != l.erg.rows || src.Columns() != l.erg.columns {
		return fmt.Errorf("%w: %dx%d traits for a %dx%d layout",
			ErrPreferenceShape, src.Columns(), src.Rows(), l.erg.columns, l.erg.rows)
	}
	for y := range src {
		if len(src[y]) != l.erg.columns {
			return fmt.Errorf("%w: row %d has %d keys", ErrPreferenceShape, y, len(src[y]))
		}
		for x := range src[y] {
			l.grid[y][x].OverwriteFrom(&src[y][x])
		}
	}
	return l.rebuildIndex()
}

// Inherit copies a parent's keys and observed frequencies into l.
func (l *Layout) Inherit(parent *Layout) error {
	if parent.erg != l.erg {
		return errors.New("cannot inherit from a layout with different ergonomics")
	}
	copy(l.freq, parent.freq)
	return l.OverwriteTraits(parent.grid)
}

// Mutate swaps characters between random pairs of distinct keys. The number of swaps is half of
// pct of all slots, and at least one.
func (l *Layout) Mutate(pct float64) error {
	if pct < 0 || math.IsNaN(pct) {
		return fmt.Errorf("mutation percentage must be >= 0, got %v", pct)
	}
	keys := l.erg.columns * l.erg.rows
	swaps := int(math.Round(pct * float64(keys*SlotCount) / 2))
	if swaps < 1 {
		swaps = 1
	}
	for s := 0; s < swaps; s++ {
		i := l.rng.Intn(keys)
		j := l.rng.Intn(keys - 1)
		if j >= i {
			j++
		}
		a := &l.grid[i/l.erg.columns][i%l.erg.columns]
		b := &l.grid[j/l.erg.columns][j%l.erg.columns]
		a.SwapOneCharacterEachWith(b, l.rng, l.erg.restrictSwaps)
	}
	if l.erg.redistribute {
		l.redistribute()
	}
	return l.rebuildIndex()
}

func (l *Layout) redistribute() {
	freqOf := func(c rune) int64 {
		if i, ok := l.erg.lookup(c); ok {
			return l.freq[i]
		}
		return 0
	}
	for y := range l.grid {
		for x := range l.grid[y] {
			l.grid[y][x].RedistributeOptimally(freqOf, l.erg.DirectionPreferences(x, y))
		}
	}
}

func (l *Layout) rebuildIndex() error {
	for i := range l.index {
		l.index[i] = location{direction: None}
	}
	for y := range l.grid {
		for x := range l.grid[y] {
			for d, c := range l.grid[y][x] {
				if c == 0 {
					continue
				}
				i, ok := l.erg.lookup(c)
				if !ok {
					continue
				}
				l.index[i] = location{key: geom.Coord{X: x, Y: y}, direction: Direction(d)}
			}
		}
	}
	for i, loc := range l.index {
		if loc.direction == None {
			return fmt.Errorf("%w: %q is not on the layout", ErrUnplaceable, l.erg.charset[i])
		}
	}
	return nil
}
