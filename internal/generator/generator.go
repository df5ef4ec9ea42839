// Package generator builds synthetic text from word lists.
package generator

import (
	"math/rand"
	"sort"
	"strings"
	"unicode"
)

// Options shapes generated words.
type Options struct {
	// CapsPct is the chance of capitalizing a word.
	CapsPct float64
	// PunctPct is the chance of following a word with a character from PunctSet.
	PunctPct float64
	PunctSet []rune
}

// Generator produces reproducible pseudo-random text.
type Generator struct {
	rnd        *rand.Rand
	words      []string
	cumulative []float64
}

// New returns a Generator drawing from words. With nil weights words are drawn uniformly;
// otherwise weights[i] is the relative likelihood of words[i].
func New(seed int64, words []string, weights []float64) *Generator {
	g := &Generator{rnd: rand.New(rand.NewSource(seed)), words: words}
	if len(weights) == len(words) && len(words) > 0 {
		g.cumulative = make([]float64, len(weights))
		total := 0.0
		for i, w := range weights {
			if w > 0 {
				total += w
			}
			g.cumulative[i] = total
		}
		if total == 0 {
			g.cumulative = nil
		}
	}
	return g
}

// Words returns count words with caps and punctuation applied.
func (g *Generator) Words(count int, opts Options) []string {
	if len(g.words) == 0 {
		return nil
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := g.words[g.pick()]
		word = applyCaps(g.rnd, word, opts.CapsPct)
		word = applyPunct(g.rnd, word, opts.PunctPct, opts.PunctSet)
		out = append(out, word)
	}
	return out
}

// Sentence joins count words with single spaces.
func (g *Generator) Sentence(count int, opts Options) string {
	return strings.Join(g.Words(count, opts), " ")
}

func (g *Generator) pick() int {
	if g.cumulative == nil {
		return g.rnd.Intn(len(g.words))
	}
	total := g.cumulative[len(g.cumulative)-1]
	r := g.rnd.Float64() * total
	i := sort.Search(len(g.cumulative), func(i int) bool { return g.cumulative[i] > r })
	if i >= len(g.words) {
		i = len(g.words) - 1
	}
	return i
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 || rnd.Float64() > punctPct {
		return word
	}
	return word + string(punctSet[rnd.Intn(len(punctSet))])
}
