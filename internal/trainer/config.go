// Package trainer evolves a population of keyboard layouts.
package trainer

import (
	"errors"
	"fmt"
	"math"
	"runtime"
)

// MaxReproductionRatio caps the share of the population kept as parents; each parent needs at
// least one child slot of its own.
const MaxReproductionRatio = 0.5

// Config holds the immutable settings of one run.
type Config struct {
	PopulationSize    int
	ReproductionRatio float64
	Generations       int
	// RangesPerGeneration limits each generation to a sliding window of corpus ranges.
	// Zero or anything at least the number of ranges evaluates every range.
	RangesPerGeneration int
	Seed                int64
	MutationFactor      float64
	MutationExponent    float64
	RandomizedMutation  bool
	// Workers bounds parallel work; zero uses GOMAXPROCS.
	Workers int
}

// ConfigFromParents derives a population size and reproduction ratio from a parent count and a
// number of children per parent.
func ConfigFromParents(parents, childrenPerParent int) (populationSize int, ratio float64) {
	populationSize = parents * (childrenPerParent + 1)
	if populationSize == 0 {
		return 0, 0
	}
	return populationSize, float64(parents) / float64(populationSize)
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("population size must be >= 2, got %d", c.PopulationSize)
	}
	if c.ReproductionRatio <= 0 || c.ReproductionRatio > MaxReproductionRatio {
		return fmt.Errorf("reproduction ratio must be in (0, %v], got %v", MaxReproductionRatio, c.ReproductionRatio)
	}
	if c.Generations < 0 {
		return fmt.Errorf("generations must be >= 0, got %d", c.Generations)
	}
	if c.RangesPerGeneration < 0 {
		return fmt.Errorf("ranges per generation must be >= 0, got %d", c.RangesPerGeneration)
	}
	if c.MutationFactor < 0 || math.IsNaN(c.MutationFactor) {
		return fmt.Errorf("mutation factor must be >= 0, got %v", c.MutationFactor)
	}
	if c.MutationExponent < 0 || math.IsNaN(c.MutationExponent) {
		return fmt.Errorf("mutation exponent must be >= 0, got %v", c.MutationExponent)
	}
	if c.Workers < 0 {
		return errors.New("workers must be >= 0")
	}
	return nil
}

// ParentCount returns floor(PopulationSize × ReproductionRatio), at least one.
func (c Config) ParentCount() int {
	// The epsilon keeps ratios derived from integer counts from rounding down a whole parent.
	n := int(math.Floor(float64(c.PopulationSize)*c.ReproductionRatio + 1e-9))
	if n < 1 {
		n = 1
	}
	return n
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
