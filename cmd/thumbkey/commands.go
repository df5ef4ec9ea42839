package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/thumbkey/internal/config"
	"github.com/verte-zerg/thumbkey/internal/keyboard"
	"github.com/verte-zerg/thumbkey/internal/model"
	"github.com/verte-zerg/thumbkey/internal/runsui"
	"github.com/verte-zerg/thumbkey/internal/stats"
	"github.com/verte-zerg/thumbkey/internal/store"
	"github.com/verte-zerg/thumbkey/internal/visual"
	"github.com/verte-zerg/thumbkey/internal/wordfreq"
	"github.com/verte-zerg/thumbkey/internal/wordlist"
)

const (
	defaultWordlistSize = 50000
	defaultCurveWindow  = 10
	topCharacters       = 10
)

var (
	evaluateSettings = config.DefaultSettings()

	presetsPlain bool

	runsPreset      string
	runsSince       string
	runsLast        int
	runsPlain       bool
	runsCurveWindow int

	wordlistLang    string
	wordlistSize    int
	wordlistCharset string
	wordlistOut     string
	wordlistForce   bool
)

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate [preset...]",
		Short: "Score presets on the corpus",
		RunE:  runEvaluateCmd,
	}
	addSettingsFlags(cmd, &evaluateSettings)
	return cmd
}

func runEvaluateCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadSettings(cmd, &evaluateSettings)
	if err != nil {
		return err
	}
	explicitShape := cmd.Flags().Changed("columns") || cmd.Flags().Changed("rows") ||
		fileCfg.Swipe.Columns != nil || fileCfg.Swipe.Rows != nil
	names := args
	if len(names) == 0 {
		names = []string{evaluateSettings.Swipe.Preset}
	}

	ctx, stop := signalContext()
	defer stop()
	out := cmd.OutOrStdout()
	for _, name := range names {
		s := evaluateSettings
		s.Swipe.Preset = name
		if err := evaluatePreset(ctx, out, s, explicitShape); err != nil {
			return fmt.Errorf("failed to evaluate %s: %w", name, err)
		}
	}
	return nil
}

// evaluatePreset scores one preset on every corpus entry. Each preset gets its own ergonomics
// because reconciliation may extend the charset.
func evaluatePreset(ctx context.Context, w io.Writer, s model.Settings, explicitShape bool) error {
	grid, err := resolvePreset(&s, explicitShape)
	if err != nil {
		return err
	}
	erg, err := buildErgonomics(s)
	if err != nil {
		return err
	}
	text, corpusStats, err := buildCorpus(ctx, s)
	if err != nil {
		return err
	}
	layout, err := keyboard.NewLayout(erg, s.Trainer.Seed, grid)
	if err != nil {
		return err
	}
	started := time.Now()
	if err := layout.Evaluate(text.Text, text.Ranges); err != nil {
		return err
	}

	top := stats.TopCharacters(layout.Frequencies(), topCharacters)
	lines := []string{
		visual.Render(layout.Traits(), visual.Options{
			Title:    fmt.Sprintf("%s (%dx%d)", s.Swipe.Preset, s.Swipe.Columns, s.Swipe.Rows),
			Spacebar: erg.StandaloneSpacebar(),
		}),
		fmt.Sprintf("Fitness: %.5f", layout.Fitness()),
		fmt.Sprintf("Scored: %s characters over %s entries in %s",
			humanize.Comma(layout.Scored()), humanize.Comma(int64(corpusStats.Entries)), time.Since(started).Round(time.Millisecond)),
		fmt.Sprintf("Most typed: %q", string(top)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Show the built-in layouts",
		Args:  cobra.NoArgs,
		RunE:  runPresetsCmd,
	}
	cmd.Flags().BoolVar(&presetsPlain, "plain", false, "print one row per line without borders")
	return cmd
}

func runPresetsCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, name := range keyboard.PresetNames() {
		grid, err := keyboard.Preset(name)
		if err != nil {
			return err
		}
		var block string
		if presetsPlain {
			block = fmt.Sprintf("%s (%dx%d)\n%s", name, grid.Columns(), grid.Rows(), visual.Plain(grid))
		} else {
			block = visual.Render(grid, visual.Options{
				Title:    fmt.Sprintf("%s (%dx%d)", name, grid.Columns(), grid.Rows()),
				Spacebar: true,
			})
		}
		if _, err := fmt.Fprintln(out, block+"\n"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Browse recorded training runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRunsCmd,
	}
	cmd.Flags().StringVar(&runsPreset, "preset", "", "preset filter")
	cmd.Flags().StringVar(&runsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&runsLast, "last", 0, "limit to last N runs")
	cmd.Flags().BoolVar(&runsPlain, "plain", false, "print a table instead of the browser")
	cmd.Flags().IntVar(&runsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runRunsCmd(cmd *cobra.Command, args []string) error {
	filter := store.RunFilter{Preset: runsPreset, Last: runsLast}
	if runsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", runsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if runsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if runsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be > 0")
	}

	st, err := store.Open(config.DefaultPaths().Database())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		report, err := stats.BuildReport(ctx, st, args[0])
		if err != nil {
			return fmt.Errorf("failed to load run: %w", err)
		}
		if err := stats.RenderRunSummary(out, report.Run, report.Generations); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return stats.RenderCurves(out, report.Generations, runsCurveWindow)
	}

	if runsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		runs, err := st.ListRuns(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		return stats.RenderRunTable(out, runs)
	}

	browser := runsui.NewModel(st, filter)
	program := tea.NewProgram(browser, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run runs TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newWordlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist",
		Short: "Download a frequency word list for the synthetic corpus",
		Args:  cobra.NoArgs,
		RunE:  runWordlistCmd,
	}
	cmd.Flags().StringVar(&wordlistLang, "lang", defaultLang, "language code")
	cmd.Flags().IntVar(&wordlistSize, "size", defaultWordlistSize, "number of words")
	cmd.Flags().StringVar(&wordlistCharset, "charset", config.DefaultSettings().Swipe.Charset, "keep only words typeable with these characters")
	cmd.Flags().StringVar(&wordlistOut, "out", "", "output path (default: data directory)")
	cmd.Flags().BoolVar(&wordlistForce, "force", false, "overwrite existing files")
	return cmd
}

func runWordlistCmd(_ *cobra.Command, _ []string) error {
	lang := strings.TrimSpace(strings.ToLower(wordlistLang))
	if lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	if wordlistSize <= 0 {
		return fmt.Errorf("--size must be greater than 0")
	}
	outPath := wordlistOut
	if outPath == "" {
		outPath = config.DefaultPaths().WordList(lang)
	}
	if !wordlistForce {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("word list already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat word list: %w", err)
		}
	}

	ctx, stop := signalContext()
	defer stop()
	logErrln("Fetching wordfreq metadata...")
	wheel, err := wordfreq.Fetch(ctx, config.DefaultPaths().WordfreqCache())
	if err != nil {
		return fmt.Errorf("failed to download wordfreq wheel: %w", err)
	}
	if wheel.Cached {
		logErrf("Using cached wordfreq %s\n", wheel.Version)
	} else {
		logErrf("Downloaded wordfreq %s\n", wheel.Version)
	}

	langFilter := wordlist.FilterForLang(lang)
	keep := langFilter
	if wordlistCharset != "" {
		charsetFilter := wordlist.FilterForCharset(wordlistCharset)
		keep = func(word string) bool { return langFilter(word) && charsetFilter(word) }
	}
	logErrf("Extracting %s word list...\n", lang)
	list, err := wordfreq.Extract(wheel.Path, lang, wordfreq.Options{Limit: wordlistSize, Keep: keep})
	if err != nil {
		return fmt.Errorf("failed to extract %s word list: %w", lang, err)
	}
	if err := wordlist.Write(outPath, list); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	logErrf("Wrote %s words to %s\n", humanize.Comma(int64(list.Len())), outPath)

	if err := wordfreq.WriteAttribution(filepath.Dir(outPath)); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}
	logErrln("Wrote ATTRIBUTION.txt")
	return nil
}

func defaultConfigTemplate() string {
	d := config.DefaultSettings()
	return fmt.Sprintf(`# thumbkey configuration
# Uncomment a value to enable it. CLI flags override config values.

[trainer]
# parents = %d                 # Layouts kept unchanged each generation
# children-per-parent = %d     # Children per parent
# generations = %d
# ranges-per-generation = %d   # Corpus entries scored per generation (0 = all)
# seed = %d
# mutation-factor = %.2f       # Share of slots swapped per mutation
# mutation-exponent = %.1f     # Exponent of the random mutation multiplier
# random-mutation = %t
# workers = 0                  # 0 uses every CPU

[fitness]
# distance = %.2f
# trajectory = %.2f
# hand-alternation = %.2f
# hand-collision-avoidance = %.2f
# positional = %.2f
# swipe-direction = %.2f
# trajectory-away = false
# average-by-range = false

[swipe]
# preset = %q
# columns = %d
# rows = %d
# charset = %q
# standalone-spacebar = %t
# direction-preferences = [0.0, 0.4, 0.0, 0.4, 1.0, 0.4, 0.0, 0.4, 0.0]
# key-specific-directions = false
# keys-toward-center = %.2f
# restrict-swap-classes = false
# redistribute-by-frequency = false
# random-distribution = false

[corpus]
# path = "comments.jsonl"      # JSON lines; empty generates text from the word list
# tag = %q
# min-length = %d
# max-entries = 0
# ignored-phrases = ["Reddit", "upvote"]
# substitutions = { "’" = "'" }
# word-list = ""
# entries = %d
# words-per-entry = %d

# [[position-preferences]]
# columns = 3
# rows = 3
# values = [[1.0, 1.0, 1.0], [1.0, 1.0, 1.0], [1.0, 1.0, 1.0]]
`,
		d.Trainer.Parents,
		d.Trainer.ChildrenPerParent,
		d.Trainer.Generations,
		d.Trainer.RangesPerGeneration,
		d.Trainer.Seed,
		d.Trainer.MutationFactor,
		d.Trainer.MutationExponent,
		d.Trainer.RandomMutation,
		d.Fitness.Distance,
		d.Fitness.Trajectory,
		d.Fitness.HandAlternation,
		d.Fitness.HandCollisionAvoidance,
		d.Fitness.Positional,
		d.Fitness.SwipeDirection,
		d.Swipe.Preset,
		d.Swipe.Columns,
		d.Swipe.Rows,
		d.Swipe.Charset,
		d.Swipe.StandaloneSpacebar,
		d.Swipe.KeysTowardCenter,
		d.Corpus.Tag,
		d.Corpus.MinLength,
		d.Corpus.Entries,
		d.Corpus.WordsPerEntry,
	)
}
