package trainer

import (
	"math/rand"

	"github.com/verte-zerg/thumbkey/internal/keyboard"
)

// RangeWindow hands out a sliding window over a shuffled copy of the corpus ranges, wrapping
// around at the end.
type RangeWindow struct {
	ranges []keyboard.Range
	size   int
	offset int
	buf    []keyboard.Range
}

// NewRangeWindow shuffles ranges with seed. A size of zero, or one covering every range, makes
// every window the full set.
func NewRangeWindow(ranges []keyboard.Range, size int, seed int64) *RangeWindow {
	shuffled := append([]keyboard.Range(nil), ranges...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if size <= 0 || size > len(shuffled) {
		size = len(shuffled)
	}
	return &RangeWindow{ranges: shuffled, size: size}
}

// Full reports whether every window holds every range.
func (w *RangeWindow) Full() bool { return w.size == len(w.ranges) }

// Size returns the number of ranges per window.
func (w *RangeWindow) Size() int { return w.size }

// Offset returns the position in the shuffled ranges where the next window starts.
func (w *RangeWindow) Offset() int { return w.offset }

// Next returns the next window. The slice is reused by the following call.
func (w *RangeWindow) Next() []keyboard.Range {
	if w.Full() {
		return w.ranges
	}
	end := w.offset + w.size
	if end <= len(w.ranges) {
		out := w.ranges[w.offset:end]
		w.offset = end % len(w.ranges)
		return out
	}
	w.buf = append(w.buf[:0], w.ranges[w.offset:]...)
	w.buf = append(w.buf, w.ranges[:end-len(w.ranges)]...)
	w.offset = end - len(w.ranges)
	return w.buf
}
