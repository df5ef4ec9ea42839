package keyboard

import (
	"errors"
	"fmt"
	"math"
)

// Options configures the ergonomic model shared by a population of layouts.
type Options struct {
	Columns int
	Rows    int
	// Charset lists every character the layouts must place.
	Charset string
	// StandaloneSpacebar models a full-width spacebar below the grid. When false, space is an
	// ordinary character and is typed only if Charset contains it.
	StandaloneSpacebar bool
	// PositionPreferences defaults to the built-in table for the grid, or to all ones.
	PositionPreferences PositionPreferences
	DirectionPreferences DirectionPreferences
	// KeySpecificDirections favours directions pointing back into the keyboard on edge keys.
	KeySpecificDirections bool
	KeysTowardCenter      float64
	Weights               Weights
	// TrajectoryAway rewards a previous swipe that pointed away from the next key instead of toward it.
	TrajectoryAway bool
	// RestrictSwapClasses only swaps slots of the same direction class during mutation.
	RestrictSwapClasses bool
	// RedistributeByFrequency reorders every key by observed frequency after each mutation.
	RedistributeByFrequency bool
	// RandomDistribution shuffles characters onto keys instead of tiering them by frequency.
	RandomDistribution bool
	// AverageByRange averages per-range means instead of dividing by all scored characters.
	AverageByRange bool
	// Frequencies is the prior used for initial placement. Defaults to EnglishFrequencies.
	Frequencies map[rune]int64
}

// Ergonomics is the validated, immutable form of Options. It is safe for concurrent use.
type Ergonomics struct {
	columns, rows int
	charset       []rune
	ascii         [128]int16
	extra         map[rune]int
	spacebar      bool

	positions     PositionPreferences
	directions    DirectionPreferences
	keyDirections [][]DirectionPreferences
	weights       Weights

	trajectoryAway bool
	restrictSwaps  bool
	redistribute   bool
	randomDist     bool
	averageByRange bool

	prior []int64

	maxDistance         float64
	maxSpacebarDistance float64
}

// NewErgonomics validates opts.
func NewErgonomics(opts Options) (*Ergonomics, error) {
	if opts.Columns < 1 || opts.Rows < 1 || opts.Columns*opts.Rows < 2 {
		return nil, fmt.Errorf("grid must hold at least two keys, got %dx%d", opts.Columns, opts.Rows)
	}
	if opts.Weights == (Weights{}) {
		return nil, errors.New("fitness weights are required")
	}
	if err := opts.DirectionPreferences.Validate(); err != nil {
		return nil, err
	}
	if opts.KeysTowardCenter < 0 {
		return nil, fmt.Errorf("keys toward center weight must be >= 0, got %v", opts.KeysTowardCenter)
	}

	e := &Ergonomics{
		columns:        opts.Columns,
		rows:           opts.Rows,
		spacebar:       opts.StandaloneSpacebar,
		directions:     opts.DirectionPreferences,
		weights:        opts.Weights,
		trajectoryAway: opts.TrajectoryAway,
		restrictSwaps:  opts.RestrictSwapClasses,
		redistribute:   opts.RedistributeByFrequency,
		randomDist:     opts.RandomDistribution,
		averageByRange: opts.AverageByRange,
		extra:          map[rune]int{},
	}
	for i := range e.ascii {
		e.ascii[i] = -1
	}

	letters := 0
	for _, c := range opts.Charset {
		if c == 0 {
			return nil, errors.New("character set must not contain NUL")
		}
		if _, ok := e.lookup(c); ok {
			return nil, fmt.Errorf("%w: %q in character set", ErrDuplicateCharacter, c)
		}
		i := len(e.charset)
		e.charset = append(e.charset, c)
		if c < 128 {
			e.ascii[c] = int16(i)
		} else {
			e.extra[c] = i
		}
		if IsLetter(c) {
			letters++
		}
	}
	keys := opts.Columns * opts.Rows
	if letters < keys {
		return nil, fmt.Errorf("%w: %d letters for %d keys", ErrNoLetter, letters, keys)
	}
	if len(e.charset) > keys*SlotCount {
		return nil, fmt.Errorf("%w: %d characters for %d slots", ErrUnplaceable, len(e.charset), keys*SlotCount)
	}

	e.positions = opts.PositionPreferences
	if e.positions == nil {
		e.positions = DefaultPositionPreferences(opts.Columns, opts.Rows)
	}
	if e.positions == nil {
		e.positions = UniformPositionPreferences(opts.Columns, opts.Rows, 1)
	}
	if err := e.positions.Validate(opts.Columns, opts.Rows); err != nil {
		return nil, err
	}
	if opts.KeySpecificDirections {
		e.keyDirections = KeySpecificPreferences(opts.DirectionPreferences, opts.Columns, opts.Rows, opts.KeysTowardCenter)
	}

	prior := opts.Frequencies
	if prior == nil {
		prior = EnglishFrequencies
	}
	e.prior = make([]int64, len(e.charset))
	for i, c := range e.charset {
		e.prior[i] = prior[c]
	}

	// The thumb can come back from the spacebar row, one below the grid.
	if e.spacebar {
		e.maxDistance = math.Hypot(float64(opts.Columns-1), float64(opts.Rows))
	} else {
		e.maxDistance = math.Hypot(float64(opts.Columns-1), float64(opts.Rows-1))
	}
	e.maxSpacebarDistance = float64(opts.Rows)
	return e, nil
}

func (e *Ergonomics) lookup(c rune) (int, bool) {
	if c >= 0 && c < 128 {
		i := e.ascii[c]
		return int(i), i >= 0
	}
	i, ok := e.extra[c]
	return i, ok
}

// Columns returns the grid width.
func (e *Ergonomics) Columns() int { return e.columns }

// Rows returns the grid height.
func (e *Ergonomics) Rows() int { return e.rows }

// Charset returns the supported characters in their configured order.
func (e *Ergonomics) Charset() string { return string(e.charset) }

// StandaloneSpacebar reports whether space is typed on a spacebar below the grid.
func (e *Ergonomics) StandaloneSpacebar() bool { return e.spacebar }

// PositionPreference returns the preference of the key at (x, y).
func (e *Ergonomics) PositionPreference(x, y int) float64 { return e.positions[y][x] }

// DirectionPreferences returns the preferences used for the key at (x, y).
func (e *Ergonomics) DirectionPreferences(x, y int) *DirectionPreferences {
	if e.keyDirections != nil {
		return &e.keyDirections[y][x]
	}
	return &e.directions
}
