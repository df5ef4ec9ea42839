package generator

import (
	"strings"
	"testing"
	"unicode"
)

func TestWordsAreReproducible(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta"}
	a := New(7, words, nil).Sentence(50, Options{CapsPct: 0.3, PunctPct: 0.2, PunctSet: []rune(".,")})
	b := New(7, words, nil).Sentence(50, Options{CapsPct: 0.3, PunctPct: 0.2, PunctSet: []rune(".,")})
	if a != b {
		t.Fatalf("expected identical output for identical seeds")
	}
	if got := len(strings.Fields(a)); got != 50 {
		t.Fatalf("expected 50 words, got %d", got)
	}
}

func TestWeightsSkipZeroWords(t *testing.T) {
	g := New(1, []string{"never", "always"}, []float64{0, 1})
	for _, w := range g.Words(200, Options{}) {
		if w != "always" {
			t.Fatalf("expected only weighted words, got %q", w)
		}
	}
}

func TestCapsAndPunctuation(t *testing.T) {
	g := New(3, []string{"word"}, nil)
	for _, w := range g.Words(20, Options{CapsPct: 1, PunctPct: 1, PunctSet: []rune("!")}) {
		if w != "Word!" {
			t.Fatalf("expected Word!, got %q", w)
		}
		if !unicode.IsUpper([]rune(w)[0]) {
			t.Fatalf("expected capitalized word")
		}
	}
}

func TestEmptyWordList(t *testing.T) {
	if got := New(1, nil, nil).Words(5, Options{}); got != nil {
		t.Fatalf("expected no words, got %v", got)
	}
}
