// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Trainer             TrainerConfig   `toml:"trainer"`
	Fitness             FitnessConfig   `toml:"fitness"`
	Swipe               SwipeConfig     `toml:"swipe"`
	Corpus              CorpusConfig    `toml:"corpus"`
	PositionPreferences []PositionTable `toml:"position-preferences"`
}

// TrainerConfig maps evolution settings.
type TrainerConfig struct {
	Parents             *int     `toml:"parents"`
	ChildrenPerParent   *int     `toml:"children-per-parent"`
	Generations         *int     `toml:"generations"`
	RangesPerGeneration *int     `toml:"ranges-per-generation"`
	Seed                *int64   `toml:"seed"`
	MutationFactor      *float64 `toml:"mutation-factor"`
	MutationExponent    *float64 `toml:"mutation-exponent"`
	RandomMutation      *bool    `toml:"random-mutation"`
	Workers             *int     `toml:"workers"`
}

// FitnessConfig maps score coefficients.
type FitnessConfig struct {
	Distance               *float64 `toml:"distance"`
	Trajectory             *float64 `toml:"trajectory"`
	HandAlternation        *float64 `toml:"hand-alternation"`
	HandCollisionAvoidance *float64 `toml:"hand-collision-avoidance"`
	Positional             *float64 `toml:"positional"`
	SwipeDirection         *float64 `toml:"swipe-direction"`
	TrajectoryAway         *bool    `toml:"trajectory-away"`
	AverageByRange         *bool    `toml:"average-by-range"`
}

// SwipeConfig maps keyboard settings.
type SwipeConfig struct {
	Preset                  *string   `toml:"preset"`
	Columns                 *int      `toml:"columns"`
	Rows                    *int      `toml:"rows"`
	Charset                 *string   `toml:"charset"`
	StandaloneSpacebar      *bool     `toml:"standalone-spacebar"`
	DirectionPreferences    []float64 `toml:"direction-preferences"`
	KeySpecificDirections   *bool     `toml:"key-specific-directions"`
	KeysTowardCenter        *float64  `toml:"keys-toward-center"`
	RestrictSwapClasses     *bool     `toml:"restrict-swap-classes"`
	RedistributeByFrequency *bool     `toml:"redistribute-by-frequency"`
	RandomDistribution      *bool     `toml:"random-distribution"`
}

// CorpusConfig maps corpus selection and cleanup.
type CorpusConfig struct {
	Path           *string           `toml:"path"`
	Tag            *string           `toml:"tag"`
	MinLength      *int              `toml:"min-length"`
	MaxEntries     *int              `toml:"max-entries"`
	IgnoredPhrases []string          `toml:"ignored-phrases"`
	Substitutions  map[string]string `toml:"substitutions"`
	WordList       *string           `toml:"word-list"`
	Entries        *int              `toml:"entries"`
	WordsPerEntry  *int              `toml:"words-per-entry"`
}

// PositionTable overrides the position preferences of one grid size.
type PositionTable struct {
	Columns int         `toml:"columns"`
	Rows    int         `toml:"rows"`
	Values  [][]float64 `toml:"values"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if n := len(cfg.Swipe.DirectionPreferences); n != 0 && n != 9 {
		return FileConfig{}, fmt.Errorf("swipe.direction-preferences must have 9 values, got %d", n)
	}
	return cfg, nil
}
