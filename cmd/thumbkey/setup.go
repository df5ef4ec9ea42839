package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/verte-zerg/thumbkey/internal/config"
	"github.com/verte-zerg/thumbkey/internal/corpus"
	"github.com/verte-zerg/thumbkey/internal/generator"
	"github.com/verte-zerg/thumbkey/internal/keyboard"
	"github.com/verte-zerg/thumbkey/internal/model"
	"github.com/verte-zerg/thumbkey/internal/trainer"
	"github.com/verte-zerg/thumbkey/internal/wordlist"
)

const defaultLang = "en"

// resolvePreset loads the control preset and reconciles it with the charset. It returns a nil
// grid for the "none" preset. When the grid size was not given explicitly the preset's size is
// used.
func resolvePreset(s *model.Settings, explicitShape bool) (keyboard.Grid, error) {
	if s.Swipe.Preset == keyboard.PresetNone {
		return nil, nil
	}
	preset, err := keyboard.Preset(s.Swipe.Preset)
	if err != nil {
		return nil, fmt.Errorf("--preset must be one of %s: %w", strings.Join(append(keyboard.PresetNames(), keyboard.PresetNone), ", "), err)
	}
	if preset.Columns() != s.Swipe.Columns || preset.Rows() != s.Swipe.Rows {
		if explicitShape {
			return nil, fmt.Errorf("preset %q is %dx%d but the grid is %dx%d",
				s.Swipe.Preset, preset.Columns(), preset.Rows(), s.Swipe.Columns, s.Swipe.Rows)
		}
		s.Swipe.Columns = preset.Columns()
		s.Swipe.Rows = preset.Rows()
	}
	grid, charset, err := keyboard.ReconcilePreset(preset, s.Swipe.Charset, s.Trainer.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile preset %q: %w", s.Swipe.Preset, err)
	}
	s.Swipe.Charset = charset
	return grid, nil
}

func buildErgonomics(s model.Settings) (*keyboard.Ergonomics, error) {
	f := s.Fitness
	weights, err := keyboard.NewWeights(f.Distance, f.Trajectory, f.HandAlternation, f.HandCollisionAvoidance, f.Positional, f.SwipeDirection)
	if err != nil {
		return nil, fmt.Errorf("invalid fitness weights: %w", err)
	}
	var positions keyboard.PositionPreferences
	if table, ok := s.Swipe.PositionPreferences[config.GridKey(s.Swipe.Columns, s.Swipe.Rows)]; ok {
		positions = keyboard.PositionPreferences(table)
	}
	erg, err := keyboard.NewErgonomics(keyboard.Options{
		Columns:                 s.Swipe.Columns,
		Rows:                    s.Swipe.Rows,
		Charset:                 s.Swipe.Charset,
		StandaloneSpacebar:      s.Swipe.StandaloneSpacebar,
		PositionPreferences:     positions,
		DirectionPreferences:    keyboard.DirectionPreferences(s.Swipe.DirectionPreferences),
		KeySpecificDirections:   s.Swipe.KeySpecificDirections,
		KeysTowardCenter:        s.Swipe.KeysTowardCenter,
		Weights:                 weights,
		TrajectoryAway:          f.TrajectoryAway,
		RestrictSwapClasses:     s.Swipe.RestrictSwapClasses,
		RedistributeByFrequency: s.Swipe.RedistributeByFrequency,
		RandomDistribution:      s.Swipe.RandomDistribution,
		AverageByRange:          f.AverageByRange,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid keyboard settings: %w", err)
	}
	return erg, nil
}

func corpusFilter(c model.CorpusSettings) corpus.Filter {
	f := corpus.Filter{
		MinLength:      c.MinLength,
		IgnoredPhrases: c.IgnoredPhrases,
		MaxEntries:     c.MaxEntries,
	}
	if len(c.Substitutions) > 0 {
		f.Substitutions = make(map[rune]rune, len(c.Substitutions))
		for from, to := range c.Substitutions {
			f.Substitutions[[]rune(from)[0]] = []rune(to)[0]
		}
	}
	return f
}

// buildCorpus reads the JSON lines corpus, or generates one from the word list restricted to
// charset.
func buildCorpus(ctx context.Context, s model.Settings) (trainer.Corpus, corpus.Stats, error) {
	filter := corpusFilter(s.Corpus)
	if s.Corpus.Path != "" {
		c, st, err := corpus.LoadJSONLines(ctx, s.Corpus.Path, s.Corpus.Tag, filter)
		if err != nil {
			return trainer.Corpus{}, st, fmt.Errorf("failed to load corpus: %w", err)
		}
		return c, st, nil
	}

	path := s.Corpus.WordList
	if path == "" {
		path = config.DefaultPaths().WordList(defaultLang)
	}
	list, err := wordlist.Load(path)
	if err != nil {
		return trainer.Corpus{}, corpus.Stats{}, wordListLoadError(path, err)
	}
	list = list.Filter(wordlist.FilterForCharset(s.Swipe.Charset))
	if list.Len() == 0 {
		return trainer.Corpus{}, corpus.Stats{}, fmt.Errorf("word list %s has no words typeable with charset %q", path, s.Swipe.Charset)
	}
	gen := generator.New(s.Trainer.Seed, list.Words, list.Weights)
	c, st, err := corpus.Synthetic(gen, corpus.SyntheticOptions{
		Entries:       s.Corpus.Entries,
		WordsPerEntry: s.Corpus.WordsPerEntry,
	}, filter)
	if err != nil {
		return trainer.Corpus{}, st, fmt.Errorf("failed to generate corpus: %w", err)
	}
	return c, st, nil
}

func wordListLoadError(path string, err error) error {
	lines := []string{fmt.Sprintf("failed to load word list: %v", err)}
	if errors.Is(err, os.ErrNotExist) {
		lines = append(lines,
			fmt.Sprintf("expected word list at: %s", path),
			fmt.Sprintf("Download: thumbkey wordlist --lang %s", defaultLang),
			"Or train on a corpus: thumbkey --corpus comments.jsonl",
		)
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

// sampleText returns the first corpus entries, up to limit characters, for the live preview.
func sampleText(c trainer.Corpus, limit int) []rune {
	var out []rune
	for _, r := range c.Ranges {
		if len(out) >= limit {
			break
		}
		if len(out) > 0 {
			out = append(out, ' ')
		}
		out = append(out, c.Text[r.Start:r.End]...)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
