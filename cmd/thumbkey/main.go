// Package main provides the CLI entrypoint for thumbkey.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/thumbkey/internal/config"
	"github.com/verte-zerg/thumbkey/internal/model"
)

var (
	settings   = config.DefaultSettings()
	configPath string

	trainNoTUI   bool
	trainNoStore bool
	trainLogFile string
)

// logOut receives everything logErrf and logErrln print. --log-file tees it into a file.
var logOut io.Writer = os.Stderr

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "thumbkey",
		Short:         "Evolve swipe keyboard layouts",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTrainCmd,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPaths().ConfigFile(), "config file")
	addSettingsFlags(rootCmd, &settings)
	rootCmd.Flags().BoolVar(&trainNoTUI, "no-tui", false, "print progress lines instead of the live monitor")
	rootCmd.Flags().BoolVar(&trainNoStore, "no-store", false, "do not record the run history")
	rootCmd.Flags().StringVar(&trainLogFile, "log-file", "", "also write progress to this file")

	rootCmd.AddCommand(newEvaluateCmd())
	rootCmd.AddCommand(newPresetsCmd())
	rootCmd.AddCommand(newRunsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newWordlistCmd())
	return rootCmd
}

func addSettingsFlags(cmd *cobra.Command, s *model.Settings) {
	d := config.DefaultSettings()
	f := cmd.Flags()

	f.IntVar(&s.Trainer.Parents, "parents", d.Trainer.Parents, "layouts kept unchanged each generation")
	f.IntVar(&s.Trainer.ChildrenPerParent, "children", d.Trainer.ChildrenPerParent, "children per parent")
	f.IntVar(&s.Trainer.Generations, "generations", d.Trainer.Generations, "number of generations")
	f.IntVar(&s.Trainer.RangesPerGeneration, "ranges", d.Trainer.RangesPerGeneration, "corpus entries scored per generation (0 = all)")
	f.Int64Var(&s.Trainer.Seed, "seed", d.Trainer.Seed, "random seed")
	f.Float64Var(&s.Trainer.MutationFactor, "mutation", d.Trainer.MutationFactor, "share of slots swapped per mutation")
	f.Float64Var(&s.Trainer.MutationExponent, "mutation-exponent", d.Trainer.MutationExponent, "exponent of the random mutation multiplier")
	f.BoolVar(&s.Trainer.RandomMutation, "random-mutation", d.Trainer.RandomMutation, "scale each mutation by a random multiplier")
	f.IntVar(&s.Trainer.Workers, "workers", d.Trainer.Workers, "parallel workers (0 = all CPUs)")

	f.Float64Var(&s.Fitness.Distance, "w-distance", d.Fitness.Distance, "distance weight")
	f.Float64Var(&s.Fitness.Trajectory, "w-trajectory", d.Fitness.Trajectory, "trajectory weight")
	f.Float64Var(&s.Fitness.HandAlternation, "w-alternation", d.Fitness.HandAlternation, "hand alternation weight")
	f.Float64Var(&s.Fitness.HandCollisionAvoidance, "w-collision", d.Fitness.HandCollisionAvoidance, "hand collision avoidance weight")
	f.Float64Var(&s.Fitness.Positional, "w-positional", d.Fitness.Positional, "key position weight")
	f.Float64Var(&s.Fitness.SwipeDirection, "w-direction", d.Fitness.SwipeDirection, "swipe direction weight")
	f.BoolVar(&s.Fitness.TrajectoryAway, "trajectory-away", d.Fitness.TrajectoryAway, "reward swipes pointing away from the next key")
	f.BoolVar(&s.Fitness.AverageByRange, "average-by-range", d.Fitness.AverageByRange, "average per-entry scores instead of per-character scores")

	f.StringVar(&s.Swipe.Preset, "preset", d.Swipe.Preset, "control layout preset ('none' generates one)")
	f.IntVar(&s.Swipe.Columns, "columns", d.Swipe.Columns, "grid columns")
	f.IntVar(&s.Swipe.Rows, "rows", d.Swipe.Rows, "grid rows")
	f.StringVar(&s.Swipe.Charset, "charset", d.Swipe.Charset, "characters to place")
	f.BoolVar(&s.Swipe.StandaloneSpacebar, "spacebar", d.Swipe.StandaloneSpacebar, "model a spacebar below the grid")
	f.BoolVar(&s.Swipe.KeySpecificDirections, "key-specific-directions", d.Swipe.KeySpecificDirections, "favour directions pointing into the keyboard on edge keys")
	f.Float64Var(&s.Swipe.KeysTowardCenter, "keys-toward-center", d.Swipe.KeysTowardCenter, "bonus for inward directions on edge keys")
	f.BoolVar(&s.Swipe.RestrictSwapClasses, "restrict-swaps", d.Swipe.RestrictSwapClasses, "only swap slots of the same direction class")
	f.BoolVar(&s.Swipe.RedistributeByFrequency, "redistribute", d.Swipe.RedistributeByFrequency, "reorder keys by frequency after mutation")
	f.BoolVar(&s.Swipe.RandomDistribution, "random-distribution", d.Swipe.RandomDistribution, "shuffle characters onto keys initially")

	f.StringVar(&s.Corpus.Path, "corpus", d.Corpus.Path, "JSON lines corpus (empty = synthetic corpus from the word list)")
	f.StringVar(&s.Corpus.Tag, "tag", d.Corpus.Tag, "JSON field holding the text")
	f.IntVar(&s.Corpus.MinLength, "min-length", d.Corpus.MinLength, "minimum entry length in characters")
	f.IntVar(&s.Corpus.MaxEntries, "max-entries", d.Corpus.MaxEntries, "stop reading after this many entries (0 = all)")
	f.StringVar(&s.Corpus.WordList, "word-list", d.Corpus.WordList, "word list for the synthetic corpus (default: downloaded en list)")
	f.IntVar(&s.Corpus.Entries, "entries", d.Corpus.Entries, "synthetic corpus entries")
	f.IntVar(&s.Corpus.WordsPerEntry, "words-per-entry", d.Corpus.WordsPerEntry, "words per synthetic entry")
}

// loadSettings merges the config file into the flag-bound settings. Flags set on the command
// line win over the file.
func loadSettings(cmd *cobra.Command, s *model.Settings) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := fileCfg.ApplyTables(s); err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}

	t := fileCfg.Trainer
	applyIntConfig(cmd, "parents", &s.Trainer.Parents, t.Parents)
	applyIntConfig(cmd, "children", &s.Trainer.ChildrenPerParent, t.ChildrenPerParent)
	applyIntConfig(cmd, "generations", &s.Trainer.Generations, t.Generations)
	applyIntConfig(cmd, "ranges", &s.Trainer.RangesPerGeneration, t.RangesPerGeneration)
	applyInt64Config(cmd, "seed", &s.Trainer.Seed, t.Seed)
	applyFloatConfig(cmd, "mutation", &s.Trainer.MutationFactor, t.MutationFactor)
	applyFloatConfig(cmd, "mutation-exponent", &s.Trainer.MutationExponent, t.MutationExponent)
	applyBoolConfig(cmd, "random-mutation", &s.Trainer.RandomMutation, t.RandomMutation)
	applyIntConfig(cmd, "workers", &s.Trainer.Workers, t.Workers)

	f := fileCfg.Fitness
	applyFloatConfig(cmd, "w-distance", &s.Fitness.Distance, f.Distance)
	applyFloatConfig(cmd, "w-trajectory", &s.Fitness.Trajectory, f.Trajectory)
	applyFloatConfig(cmd, "w-alternation", &s.Fitness.HandAlternation, f.HandAlternation)
	applyFloatConfig(cmd, "w-collision", &s.Fitness.HandCollisionAvoidance, f.HandCollisionAvoidance)
	applyFloatConfig(cmd, "w-positional", &s.Fitness.Positional, f.Positional)
	applyFloatConfig(cmd, "w-direction", &s.Fitness.SwipeDirection, f.SwipeDirection)
	applyBoolConfig(cmd, "trajectory-away", &s.Fitness.TrajectoryAway, f.TrajectoryAway)
	applyBoolConfig(cmd, "average-by-range", &s.Fitness.AverageByRange, f.AverageByRange)

	w := fileCfg.Swipe
	applyStringConfig(cmd, "preset", &s.Swipe.Preset, w.Preset)
	applyIntConfig(cmd, "columns", &s.Swipe.Columns, w.Columns)
	applyIntConfig(cmd, "rows", &s.Swipe.Rows, w.Rows)
	applyStringConfig(cmd, "charset", &s.Swipe.Charset, w.Charset)
	applyBoolConfig(cmd, "spacebar", &s.Swipe.StandaloneSpacebar, w.StandaloneSpacebar)
	applyBoolConfig(cmd, "key-specific-directions", &s.Swipe.KeySpecificDirections, w.KeySpecificDirections)
	applyFloatConfig(cmd, "keys-toward-center", &s.Swipe.KeysTowardCenter, w.KeysTowardCenter)
	applyBoolConfig(cmd, "restrict-swaps", &s.Swipe.RestrictSwapClasses, w.RestrictSwapClasses)
	applyBoolConfig(cmd, "redistribute", &s.Swipe.RedistributeByFrequency, w.RedistributeByFrequency)
	applyBoolConfig(cmd, "random-distribution", &s.Swipe.RandomDistribution, w.RandomDistribution)

	c := fileCfg.Corpus
	applyStringConfig(cmd, "corpus", &s.Corpus.Path, c.Path)
	applyStringConfig(cmd, "tag", &s.Corpus.Tag, c.Tag)
	applyIntConfig(cmd, "min-length", &s.Corpus.MinLength, c.MinLength)
	applyIntConfig(cmd, "max-entries", &s.Corpus.MaxEntries, c.MaxEntries)
	applyStringConfig(cmd, "word-list", &s.Corpus.WordList, c.WordList)
	applyIntConfig(cmd, "entries", &s.Corpus.Entries, c.Entries)
	applyIntConfig(cmd, "words-per-entry", &s.Corpus.WordsPerEntry, c.WordsPerEntry)

	return fileCfg, validateSettings(*s)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateSettings(s model.Settings) error {
	t := s.Trainer
	if t.Parents <= 0 {
		return fmt.Errorf("--parents must be > 0")
	}
	if t.ChildrenPerParent <= 0 {
		return fmt.Errorf("--children must be > 0")
	}
	if t.Generations < 0 {
		return fmt.Errorf("--generations must be >= 0")
	}
	if t.RangesPerGeneration < 0 {
		return fmt.Errorf("--ranges must be >= 0")
	}
	if t.MutationFactor < 0 || t.MutationFactor > 1 {
		return fmt.Errorf("--mutation must be between 0 and 1")
	}
	if t.MutationExponent < 0 {
		return fmt.Errorf("--mutation-exponent must be >= 0")
	}
	if t.Workers < 0 {
		return fmt.Errorf("--workers must be >= 0")
	}

	f := s.Fitness
	weights := []struct {
		flag  string
		value float64
	}{
		{"w-distance", f.Distance},
		{"w-trajectory", f.Trajectory},
		{"w-alternation", f.HandAlternation},
		{"w-collision", f.HandCollisionAvoidance},
		{"w-positional", f.Positional},
		{"w-direction", f.SwipeDirection},
	}
	total := 0.0
	for _, w := range weights {
		if w.value < 0 {
			return fmt.Errorf("--%s must be >= 0", w.flag)
		}
		total += w.value
	}
	if total == 0 {
		return fmt.Errorf("at least one fitness weight must be > 0")
	}

	w := s.Swipe
	if w.Preset == "" {
		return fmt.Errorf("--preset must not be empty")
	}
	if w.Columns < 1 || w.Rows < 1 {
		return fmt.Errorf("--columns and --rows must be > 0")
	}
	if w.Charset == "" {
		return fmt.Errorf("--charset must not be empty")
	}
	if w.KeysTowardCenter < 0 {
		return fmt.Errorf("--keys-toward-center must be >= 0")
	}

	c := s.Corpus
	if c.Path != "" && c.Tag == "" {
		return fmt.Errorf("--tag must not be empty")
	}
	if c.MinLength < 0 {
		return fmt.Errorf("--min-length must be >= 0")
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("--max-entries must be >= 0")
	}
	if c.Path == "" {
		if c.Entries <= 0 {
			return fmt.Errorf("--entries must be > 0")
		}
		if c.WordsPerEntry <= 0 {
			return fmt.Errorf("--words-per-entry must be > 0")
		}
	}
	return nil
}

// signalContext is cancelled on interrupt so runs can stop between generations.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(logOut, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(logOut, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
