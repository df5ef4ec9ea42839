package trainer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/thumbkey/internal/keyboard"
)

func makeRanges(n int) []keyboard.Range {
	out := make([]keyboard.Range, n)
	for i := range out {
		out[i] = keyboard.Range{Start: i, End: i + 1}
	}
	return out
}

func TestRangeWindowSlidesAndWraps(t *testing.T) {
	w := NewRangeWindow(makeRanges(5), 2, 1)
	require.False(t, w.Full())

	seen := map[keyboard.Range]int{}
	for i := 0; i < 5; i++ {
		window := w.Next()
		require.Len(t, window, 2)
		for _, r := range window {
			seen[r]++
		}
	}
	// Five windows of two cover ten slots: every range exactly twice.
	require.Len(t, seen, 5)
	for r, n := range seen {
		require.Equal(t, 2, n, "%v", r)
	}
}

func TestRangeWindowFull(t *testing.T) {
	w := NewRangeWindow(makeRanges(4), 0, 1)
	require.True(t, w.Full())
	require.Len(t, w.Next(), 4)
	require.Len(t, w.Next(), 4)

	w = NewRangeWindow(makeRanges(4), 10, 1)
	require.True(t, w.Full())
}

func TestRangeWindowIsSeeded(t *testing.T) {
	a := NewRangeWindow(makeRanges(50), 7, 3)
	b := NewRangeWindow(makeRanges(50), 7, 3)
	for i := 0; i < 20; i++ {
		require.Equal(t, a.Next(), b.Next())
	}
}
