// Package corpus turns raw text sources into the flat buffer and ranges a training run scores.
package corpus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/thumbkey/internal/generator"
	"github.com/verte-zerg/thumbkey/internal/keyboard"
	"github.com/verte-zerg/thumbkey/internal/trainer"
)

const maxLineBytes = 16 << 20

// DefaultTag is the JSON field holding comment bodies in the reddit dumps.
const DefaultTag = "text"

// Filter decides which entries enter the corpus and how they are cleaned.
type Filter struct {
	// MinLength is the minimum entry length in characters after cleaning.
	MinLength int
	// IgnoredPhrases drop any entry containing one of them, compared case-insensitively.
	IgnoredPhrases []string
	// Substitutions replace characters before any other check.
	Substitutions map[rune]rune
	// MaxEntries stops reading once this many entries are accepted. Zero reads everything.
	MaxEntries int
}

// DefaultFilter mirrors the cleanup used for reddit comment dumps.
func DefaultFilter() Filter {
	return Filter{
		MinLength: 10,
		IgnoredPhrases: []string{
			"it has been removed for the following",
			"/rules",
			"^Please ^refer ^to ^our",
			"Thank you for your submission",
			"This submission is a banned",
			"^If",
			"^etiquette",
			"^guidelines",
			"Reddit",
			"upvote",
			"^^^",
			"bot",
			"automated",
		},
		Substitutions: map[rune]rune{'’': '\''},
	}
}

// Stats counts what happened to the input.
type Stats struct {
	Lines     int
	Entries   int
	Skipped   int
	Malformed int
	Runes     int
}

// Builder accumulates accepted entries into one buffer.
type Builder struct {
	filter  Filter
	ignored []string
	text    []rune
	ranges  []keyboard.Range
	stats   Stats
}

// NewBuilder returns a builder applying f.
func NewBuilder(f Filter) *Builder {
	ignored := make([]string, 0, len(f.IgnoredPhrases))
	for _, p := range f.IgnoredPhrases {
		if p != "" {
			ignored = append(ignored, strings.ToLower(p))
		}
	}
	return &Builder{filter: f, ignored: ignored}
}

// Full reports whether MaxEntries has been reached.
func (b *Builder) Full() bool {
	return b.filter.MaxEntries > 0 && b.stats.Entries >= b.filter.MaxEntries
}

// Add cleans entry and appends it as its own range. It returns false when the entry was filtered out.
func (b *Builder) Add(entry string) bool {
	if b.Full() {
		return false
	}
	cleaned := b.clean(entry)
	if !b.accept(cleaned) {
		b.stats.Skipped++
		return false
	}
	start := len(b.text)
	b.text = append(b.text, []rune(cleaned)...)
	b.ranges = append(b.ranges, keyboard.Range{Start: start, End: len(b.text)})
	b.stats.Entries++
	b.stats.Runes = len(b.text)
	return true
}

func (b *Builder) clean(entry string) string {
	entry = norm.NFC.String(entry)
	if len(b.filter.Substitutions) == 0 {
		return entry
	}
	return strings.Map(func(r rune) rune {
		if sub, ok := b.filter.Substitutions[r]; ok {
			return sub
		}
		return r
	}, entry)
}

func (b *Builder) accept(entry string) bool {
	if utf8.RuneCountInString(entry) < b.filter.MinLength {
		return false
	}
	if len(b.ignored) == 0 {
		return true
	}
	lower := strings.ToLower(entry)
	for _, p := range b.ignored {
		if strings.Contains(lower, p) {
			return false
		}
	}
	return true
}

// Corpus returns the accumulated text and ranges.
func (b *Builder) Corpus() trainer.Corpus {
	return trainer.Corpus{Text: b.text, Ranges: b.ranges}
}

// Stats returns the counters so far.
func (b *Builder) Stats() Stats {
	return b.stats
}

// ReadJSONLines reads one JSON object per line and adds the string field tag of each.
// Lines that are not objects or lack the field are counted as malformed and skipped.
func ReadJSONLines(ctx context.Context, r io.Reader, tag string, f Filter) (trainer.Corpus, Stats, error) {
	if tag == "" {
		tag = DefaultTag
	}
	b := NewBuilder(f)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		b.stats.Lines++
		if b.stats.Lines%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return trainer.Corpus{}, b.stats, err
			}
		}
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		text, ok := extractField(line, tag)
		if !ok {
			b.stats.Malformed++
			continue
		}
		b.Add(text)
		if b.Full() {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return trainer.Corpus{}, b.stats, fmt.Errorf("failed to read corpus: %w", err)
	}
	if len(b.ranges) == 0 {
		return trainer.Corpus{}, b.stats, fmt.Errorf("corpus has no usable entries")
	}
	return b.Corpus(), b.stats, nil
}

// LoadJSONLines opens path and reads it with ReadJSONLines.
func LoadJSONLines(ctx context.Context, path, tag string, f Filter) (trainer.Corpus, Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return trainer.Corpus{}, Stats{}, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only corpus.
			_ = cerr
		}
	}()
	return ReadJSONLines(ctx, file, tag, f)
}

func extractField(line []byte, tag string) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(line, &obj); err != nil {
		return "", false
	}
	raw, ok := obj[tag]
	if !ok {
		return "", false
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", false
	}
	return text, true
}

// SyntheticOptions shapes a generated corpus.
type SyntheticOptions struct {
	Entries       int
	WordsPerEntry int
	Style         generator.Options
}

// Synthetic builds a corpus of generated sentences, one range per sentence.
func Synthetic(gen *generator.Generator, opts SyntheticOptions, f Filter) (trainer.Corpus, Stats, error) {
	if gen == nil {
		return trainer.Corpus{}, Stats{}, fmt.Errorf("generator is required")
	}
	if opts.Entries <= 0 || opts.WordsPerEntry <= 0 {
		return trainer.Corpus{}, Stats{}, fmt.Errorf("synthetic corpus needs positive entries and words per entry")
	}
	b := NewBuilder(f)
	for i := 0; i < opts.Entries && !b.Full(); i++ {
		b.stats.Lines++
		b.Add(gen.Sentence(opts.WordsPerEntry, opts.Style))
	}
	if len(b.ranges) == 0 {
		return trainer.Corpus{}, b.stats, fmt.Errorf("corpus has no usable entries")
	}
	return b.Corpus(), b.stats, nil
}
