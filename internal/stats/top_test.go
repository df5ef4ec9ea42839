package stats

import "testing"

func TestTopCharacters(t *testing.T) {
	freq := map[rune]int64{'b': 4, 'a': 4, 'c': 1}
	top := TopCharacters(freq, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(top))
	}
	if top[0] != 'a' || top[1] != 'b' {
		t.Fatalf("unexpected order: %q", top)
	}
	if got := TopCharacters(freq, 10); len(got) != 3 {
		t.Fatalf("expected all 3 chars, got %d", len(got))
	}
}
