package config

import (
	"fmt"

	"github.com/verte-zerg/thumbkey/internal/model"
)

// DefaultSettings returns the settings used when neither the config file nor flags say otherwise.
func DefaultSettings() model.Settings {
	return model.Settings{
		Trainer: model.TrainerSettings{
			Parents:             20,
			ChildrenPerParent:   200,
			Generations:         1000,
			RangesPerGeneration: 2000,
			Seed:                1,
			MutationFactor:      0.6,
			MutationExponent:    2,
			RandomMutation:      true,
		},
		Fitness: model.FitnessSettings{
			Distance:               0,
			Trajectory:             0.5,
			HandAlternation:        1.5,
			HandCollisionAvoidance: 0.2,
			Positional:             0.05,
			SwipeDirection:         0.1,
		},
		Swipe: model.SwipeSettings{
			Preset:             "thumbkey-eng-v4-no-symbols",
			Columns:            3,
			Rows:               3,
			Charset:            "abcdefghijklmnopqrstuvwxyz'",
			StandaloneSpacebar: true,
			DirectionPreferences: [9]float64{
				0, 0.4, 0,
				0.4, 1, 0.4,
				0, 0.4, 0,
			},
			KeysTowardCenter: 0.1,
		},
		Corpus: model.CorpusSettings{
			Tag:       "text",
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
			Substitutions: map[string]string{"’": "'"},
			Entries:       5000,
			WordsPerEntry: 12,
		},
	}
}

// ApplyTables copies the list and table values of the file onto s. Scalars are applied by the
// caller so that command-line flags can take precedence.
func (fc FileConfig) ApplyTables(s *model.Settings) error {
	if len(fc.Swipe.DirectionPreferences) == 9 {
		copy(s.Swipe.DirectionPreferences[:], fc.Swipe.DirectionPreferences)
	}
	if fc.Corpus.IgnoredPhrases != nil {
		s.Corpus.IgnoredPhrases = append([]string(nil), fc.Corpus.IgnoredPhrases...)
	}
	if fc.Corpus.Substitutions != nil {
		subs := make(map[string]string, len(fc.Corpus.Substitutions))
		for from, to := range fc.Corpus.Substitutions {
			if len([]rune(from)) != 1 || len([]rune(to)) != 1 {
				return fmt.Errorf("corpus.substitutions must map single characters, got %q = %q", from, to)
			}
			subs[from] = to
		}
		s.Corpus.Substitutions = subs
	}
	for _, table := range fc.PositionPreferences {
		if table.Columns < 1 || table.Rows < 1 {
			return fmt.Errorf("position-preferences needs positive columns and rows")
		}
		if s.Swipe.PositionPreferences == nil {
			s.Swipe.PositionPreferences = make(map[string][][]float64)
		}
		s.Swipe.PositionPreferences[GridKey(table.Columns, table.Rows)] = table.Values
	}
	return nil
}

// GridKey names a grid size in SwipeSettings.PositionPreferences.
func GridKey(columns, rows int) string {
	return fmt.Sprintf("%dx%d", columns, rows)
}
