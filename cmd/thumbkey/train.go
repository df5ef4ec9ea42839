package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/thumbkey/internal/config"
	"github.com/verte-zerg/thumbkey/internal/keyboard"
	"github.com/verte-zerg/thumbkey/internal/model"
	"github.com/verte-zerg/thumbkey/internal/stats"
	"github.com/verte-zerg/thumbkey/internal/store"
	"github.com/verte-zerg/thumbkey/internal/trainer"
	"github.com/verte-zerg/thumbkey/internal/tui"
	"github.com/verte-zerg/thumbkey/internal/visual"
)

const previewChars = 400

func runTrainCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadSettings(cmd, &settings)
	if err != nil {
		return err
	}
	explicitShape := cmd.Flags().Changed("columns") || cmd.Flags().Changed("rows") ||
		fileCfg.Swipe.Columns != nil || fileCfg.Swipe.Rows != nil

	var logFile io.Writer
	if trainLogFile != "" {
		file, err := os.OpenFile(trainLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil {
				_ = cerr
			}
		}()
		logFile = file
		logOut = io.MultiWriter(os.Stderr, file)
		defer func() { logOut = os.Stderr }()
	}

	s := settings
	control, err := resolvePreset(&s, explicitShape)
	if err != nil {
		return err
	}
	erg, err := buildErgonomics(s)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	started := time.Now()
	text, corpusStats, err := buildCorpus(ctx, s)
	if err != nil {
		return err
	}
	logErrf("Corpus: %s entries, %s characters (%s skipped) in %s\n",
		humanize.Comma(int64(corpusStats.Entries)), humanize.Comma(int64(corpusStats.Runes)),
		humanize.Comma(int64(corpusStats.Skipped)), time.Since(started).Round(time.Millisecond))

	popSize, ratio := trainer.ConfigFromParents(s.Trainer.Parents, s.Trainer.ChildrenPerParent)
	cfg := trainer.Config{
		PopulationSize:      popSize,
		ReproductionRatio:   ratio,
		Generations:         s.Trainer.Generations,
		RangesPerGeneration: s.Trainer.RangesPerGeneration,
		Seed:                s.Trainer.Seed,
		MutationFactor:      s.Trainer.MutationFactor,
		MutationExponent:    s.Trainer.MutationExponent,
		RandomizedMutation:  s.Trainer.RandomMutation,
		Workers:             s.Trainer.Workers,
	}

	run := model.RunRecord{
		StartedAt:      time.Now(),
		Preset:         s.Swipe.Preset,
		Columns:        s.Swipe.Columns,
		Rows:           s.Swipe.Rows,
		Charset:        s.Swipe.Charset,
		Seed:           s.Trainer.Seed,
		PopulationSize: popSize,
		Parents:        cfg.ParentCount(),
		Generations:    s.Trainer.Generations,
		CorpusEntries:  corpusStats.Entries,
	}
	var reporters trainer.MultiReporter
	if !trainNoStore {
		st, err := store.Open(config.DefaultPaths().Database())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
		run.ID, err = st.CreateRun(ctx, run)
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		reporters = append(reporters, storeReporter(st, &run))
		defer func() {
			run.EndedAt = time.Now()
			// The run context may already be cancelled.
			if err := st.FinishRun(context.Background(), run); err != nil {
				logErrf("failed to finish run: %v\n", err)
			}
		}()
	} else {
		reporters = append(reporters, trainer.ReporterFunc(func(r trainer.Report) error {
			trackRun(&run, r)
			return nil
		}))
	}

	logErrf("Building %s layouts (%d parents)...\n", humanize.Comma(int64(popSize)), cfg.ParentCount())
	if control == nil {
		// Same layout the trainer generates for the "none" preset.
		generated, err := keyboard.NewLayout(erg, s.Trainer.Seed, nil)
		if err != nil {
			return fmt.Errorf("failed to build control layout: %w", err)
		}
		control = generated.Traits()
	}
	useTUI := !trainNoTUI && term.IsTerminal(int(os.Stdout.Fd()))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var program *tea.Program
	switch {
	case useTUI:
		// The monitor owns the terminal, so progress lines only go to the log file.
		if logFile != nil {
			reporters = append(reporters, progressReporter(logFile, s.Trainer.Generations))
		}
		program = tea.NewProgram(tui.NewModel(tui.Options{
			Generations: s.Trainer.Generations,
			Control:     control,
			Sample:      sampleText(text, previewChars),
			Spacebar:    erg.StandaloneSpacebar(),
			Cancel:      cancel,
		}), tea.WithAltScreen())
		reporters = append(reporters, tui.Reporter(program))
	default:
		reporters = append(reporters, progressReporter(logOut, s.Trainer.Generations))
	}

	tr, err := trainer.New(runCtx, cfg, erg, text, control, reporters)
	if err != nil {
		return fmt.Errorf("failed to set up training: %w", err)
	}

	var final trainer.Report
	if program != nil {
		final, err = runWithMonitor(runCtx, cancel, tr, program)
	} else {
		final, err = tr.Run(runCtx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("training failed: %w", err)
	}
	if err != nil {
		logErrf("Interrupted after %d of %d generations\n", run.Completed, run.Generations)
	}
	if final.BestTraits == nil {
		return nil
	}
	printResult(os.Stdout, final, control, erg.StandaloneSpacebar())
	return nil
}

// runWithMonitor runs tr in the background while the Bubble Tea monitor owns the terminal.
func runWithMonitor(ctx context.Context, cancel context.CancelFunc, tr *trainer.Trainer, program *tea.Program) (trainer.Report, error) {
	type result struct {
		report trainer.Report
		err    error
	}
	done := make(chan result, 1)
	go func() {
		final, err := tr.Run(ctx)
		done <- result{report: final, err: err}
		program.Send(tui.DoneMsg{Report: final, Err: err})
	}()
	if _, err := program.Run(); err != nil {
		cancel()
		<-done
		return trainer.Report{}, fmt.Errorf("failed to run TUI: %w", err)
	}
	res := <-done
	return res.report, res.err
}

func trackRun(run *model.RunRecord, r trainer.Report) {
	if !r.Final {
		run.Completed = r.Generation
	}
	run.ControlFitness = r.Control
	if r.Best > run.BestFitness {
		run.BestFitness = r.Best
	}
}

func storeReporter(st *store.Store, run *model.RunRecord) trainer.Reporter {
	return trainer.ReporterFunc(func(r trainer.Report) error {
		trackRun(run, r)
		if r.Final {
			return nil
		}
		if err := st.AppendGeneration(context.Background(), run.ID, stats.GenerationFromReport(r)); err != nil {
			return fmt.Errorf("failed to record generation: %w", err)
		}
		return nil
	})
}

func progressReporter(w io.Writer, generations int) trainer.Reporter {
	return trainer.ReporterFunc(func(r trainer.Report) error {
		label := fmt.Sprintf("gen %d/%d", r.Generation, generations)
		if r.Final {
			label = "final"
		}
		_, err := fmt.Fprintf(w, "%s  best %.5f (%+.2f%% vs control %.5f, %+.2f%% vs previous)  mean %.5f ± %.5f  parents %.5f children %.5f  %s ranges in %s\n",
			label, r.Best, r.ImprovementOverControl()*100, r.Control, r.ImprovementOverPrevious()*100,
			r.Mean, r.StdDev, r.ParentMean, r.ChildMean,
			humanize.Comma(int64(r.Ranges)), (r.Evaluated + r.Sorted).Round(time.Millisecond))
		if err != nil {
			// Best-effort progress output.
			_ = err
		}
		return nil
	})
}

func printResult(w io.Writer, final trainer.Report, control keyboard.Grid, spacebar bool) {
	lines := []string{
		visual.Render(final.BestTraits, visual.Options{
			Title:    fmt.Sprintf("Best layout: %.5f (%+.2f%% vs control %.5f)", final.Best, final.ImprovementOverControl()*100, final.Control),
			Compare:  control,
			Spacebar: spacebar,
		}),
		"",
		visual.Plain(final.BestTraits),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			_ = err
		}
	}
}
