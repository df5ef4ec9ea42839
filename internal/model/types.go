// Package model defines shared data structures.
package model

import "time"

// Settings is the fully resolved configuration of a training run.
type Settings struct {
	Trainer TrainerSettings
	Fitness FitnessSettings
	Swipe   SwipeSettings
	Corpus  CorpusSettings
}

// TrainerSettings controls the evolutionary loop.
type TrainerSettings struct {
	Parents             int
	ChildrenPerParent   int
	Generations         int
	RangesPerGeneration int
	Seed                int64
	MutationFactor      float64
	MutationExponent    float64
	RandomMutation      bool
	Workers             int
}

// FitnessSettings holds the six score coefficients and the scoring mode.
type FitnessSettings struct {
	Distance               float64
	Trajectory             float64
	HandAlternation        float64
	HandCollisionAvoidance float64
	Positional             float64
	SwipeDirection         float64
	TrajectoryAway         bool
	AverageByRange         bool
}

// SwipeSettings describes the keyboard being optimised.
type SwipeSettings struct {
	Preset                  string
	Columns                 int
	Rows                    int
	Charset                 string
	StandaloneSpacebar      bool
	DirectionPreferences    [9]float64
	KeySpecificDirections   bool
	KeysTowardCenter        float64
	RestrictSwapClasses     bool
	RedistributeByFrequency bool
	RandomDistribution      bool
	// PositionPreferences is keyed by "<columns>x<rows>".
	PositionPreferences map[string][][]float64
}

// CorpusSettings selects and cleans the training text.
type CorpusSettings struct {
	Path           string
	Tag            string
	MinLength      int
	MaxEntries     int
	IgnoredPhrases []string
	Substitutions  map[string]string
	// WordList generates a synthetic corpus when Path is empty.
	WordList      string
	Entries       int
	WordsPerEntry int
}

// RunRecord summarizes a finished or interrupted training run.
type RunRecord struct {
	ID             string
	StartedAt      time.Time
	EndedAt        time.Time
	Preset         string
	Columns        int
	Rows           int
	Charset        string
	Seed           int64
	PopulationSize int
	Parents        int
	Generations    int
	Completed      int
	CorpusEntries  int
	ControlFitness float64
	BestFitness    float64
}

// GenerationStats captures the fitness distribution of one generation.
type GenerationStats struct {
	Generation int
	Best       float64
	Mean       float64
	StdDev     float64
	Min        float64
	Control    float64
	DurationMs int64
}
