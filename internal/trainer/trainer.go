package trainer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/verte-zerg/thumbkey/internal/keyboard"
)

const controlCacheSize = 256

// Corpus is the text a run is scored against.
type Corpus struct {
	Text   []rune
	Ranges []keyboard.Range
}

// Trainer owns a population and drives the evolution loop.
type Trainer struct {
	cfg      Config
	erg      *keyboard.Ergonomics
	corpus   Corpus
	window   *RangeWindow
	blocks   []ChildBlock
	parents  int
	reporter Reporter

	population []*keyboard.Layout
	control    *keyboard.Layout
	// controlScores caches the control fitness per window offset; the control never mutates.
	controlScores  *lru.Cache[int, float64]
	controlFitness float64
	controlEvals   int

	previousBest float64
	previousMean float64
}

// New builds the population in parallel. Layout i is generated from seed cfg.Seed+i. The control
// layout is built from control, or generated from cfg.Seed when control is nil.
func New(ctx context.Context, cfg Config, erg *keyboard.Ergonomics, corpus Corpus, control keyboard.Grid, reporter Reporter) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if erg == nil {
		return nil, errors.New("ergonomics are required")
	}
	if len(corpus.Ranges) == 0 {
		return nil, errors.New("corpus has no text ranges")
	}
	parents := cfg.ParentCount()
	blocks, err := AssignChildBlocks(cfg.PopulationSize, parents)
	if err != nil {
		return nil, err
	}

	t := &Trainer{
		cfg:        cfg,
		erg:        erg,
		corpus:     corpus,
		window:     NewRangeWindow(corpus.Ranges, cfg.RangesPerGeneration, cfg.Seed),
		blocks:     blocks,
		parents:    parents,
		reporter:   reporter,
		population: make([]*keyboard.Layout, cfg.PopulationSize),
	}
	t.controlScores, err = lru.New[int, float64](controlCacheSize)
	if err != nil {
		return nil, err
	}
	t.control, err = keyboard.NewLayout(erg, cfg.Seed, control)
	if err != nil {
		return nil, fmt.Errorf("failed to build control layout: %w", err)
	}
	err = parallelFor(ctx, cfg.PopulationSize, cfg.workers(), func(i int) error {
		l, err := keyboard.NewLayout(erg, cfg.Seed+int64(i), nil)
		if err != nil {
			return fmt.Errorf("failed to build layout %d: %w", i, err)
		}
		t.population[i] = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Population returns the layouts in their current order.
func (t *Trainer) Population() []*keyboard.Layout { return t.population }

// Control returns the control layout.
func (t *Trainer) Control() *keyboard.Layout { return t.control }

// ParentCount returns the number of layouts kept unchanged each generation.
func (t *Trainer) ParentCount() int { return t.parents }

// Blocks returns the child partition used for reproduction.
func (t *Trainer) Blocks() []ChildBlock { return t.blocks }

// Run evolves the population for the configured number of generations and returns the final
// report. It stops early when ctx is cancelled.
func (t *Trainer) Run(ctx context.Context) (Report, error) {
	offset := t.window.Offset()
	ranges := t.window.Next()
	if err := t.evaluateControl(offset, ranges); err != nil {
		return Report{}, err
	}
	t.previousBest = t.controlFitness
	t.previousMean = t.controlFitness

	var last Report
	for gen := 1; gen <= t.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		if gen > 1 {
			offset = t.window.Offset()
			ranges = t.window.Next()
			if !t.window.Full() {
				if err := t.evaluateControl(offset, ranges); err != nil {
					return last, err
				}
			}
		}
		report, err := t.step(ctx, gen, ranges, false)
		if err != nil {
			return last, err
		}
		last = report
		if err := t.reproduce(ctx, gen); err != nil {
			return last, fmt.Errorf("failed to reproduce generation %d: %w", gen, err)
		}
	}

	// The last reproduction produced unevaluated children; score them on the last window.
	final, err := t.step(ctx, t.cfg.Generations, ranges, true)
	if err != nil {
		return last, err
	}
	return final, nil
}

// ControlEvaluations returns how many times the control layout was scored.
func (t *Trainer) ControlEvaluations() int { return t.controlEvals }

func (t *Trainer) evaluateControl(offset int, ranges []keyboard.Range) error {
	if v, ok := t.controlScores.Get(offset); ok {
		t.controlFitness = v
		return nil
	}
	t.control.ResetFitness()
	if err := t.control.Evaluate(t.corpus.Text, ranges); err != nil {
		return fmt.Errorf("failed to evaluate control layout: %w", err)
	}
	t.controlEvals++
	t.controlFitness = t.control.Fitness()
	t.controlScores.Add(offset, t.controlFitness)
	return nil
}

// step evaluates, ranks and reports the population.
func (t *Trainer) step(ctx context.Context, gen int, ranges []keyboard.Range, final bool) (Report, error) {
	started := time.Now()
	err := parallelFor(ctx, len(t.population), t.cfg.workers(), func(i int) error {
		l := t.population[i]
		l.ResetFitness()
		return l.Evaluate(t.corpus.Text, ranges)
	})
	if err != nil {
		return Report{}, fmt.Errorf("failed to evaluate generation %d: %w", gen, err)
	}
	evaluated := time.Since(started)

	started = time.Now()
	t.rank()
	sorted := time.Since(started)

	fitness := make([]float64, len(t.population))
	for i, l := range t.population {
		fitness[i] = l.Fitness()
	}
	mean, std, best, worst, parentMean, childMean := summarize(fitness, t.parents)
	report := Report{
		Generation:   gen,
		Final:        final,
		Best:         best,
		Mean:         mean,
		StdDev:       std,
		Min:          worst,
		Control:      t.controlFitness,
		PreviousBest: t.previousBest,
		PreviousMean: t.previousMean,
		ParentMean:   parentMean,
		ChildMean:    childMean,
		Ranges:       len(ranges),
		Evaluated:    evaluated,
		Sorted:       sorted,
		BestTraits:   t.population[0].Traits(),
	}
	t.previousBest = best
	t.previousMean = mean

	if t.reporter != nil {
		if err := t.reporter.Report(report); err != nil {
			return report, fmt.Errorf("failed to report generation %d: %w", gen, err)
		}
	}
	return report, nil
}

// rank sorts the population by descending fitness. Ties keep their previous order so runs are
// reproducible.
func (t *Trainer) rank() {
	sort.SliceStable(t.population, func(i, j int) bool {
		return t.population[i].Fitness() > t.population[j].Fitness()
	})
}

// reproduce overwrites every child block with its parent's traits and mutates the copies.
// Parents are left untouched.
func (t *Trainer) reproduce(ctx context.Context, gen int) error {
	return parallelFor(ctx, len(t.blocks), t.cfg.workers(), func(b int) error {
		block := t.blocks[b]
		parent := t.population[block.Parent]
		rng := rand.New(rand.NewSource(blockSeed(t.cfg.Seed, gen, b)))
		for i := block.Start; i < block.End; i++ {
			child := t.population[i]
			if err := child.Inherit(parent); err != nil {
				return err
			}
			if err := child.Mutate(t.cfg.MutationFactor * t.multiplier(rng)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (t *Trainer) multiplier(rng *rand.Rand) float64 {
	if !t.cfg.RandomizedMutation {
		return 1
	}
	return math.Pow(rng.Float64(), t.cfg.MutationExponent)
}

// blockSeed mixes the run seed, generation and block index into an independent stream seed.
func blockSeed(seed int64, gen, block int) int64 {
	h := uint64(seed)
	h ^= uint64(gen) * 0x9e3779b97f4a7c15
	h ^= uint64(block) * 0xbf58476d1ce4e5b9
	h ^= h >> 31
	return int64(h)
}
