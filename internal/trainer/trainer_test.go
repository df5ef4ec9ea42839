package trainer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/thumbkey/internal/keyboard"
)

const sampleText = "the quick brown fox jumps over the lazy dog. pack my box with five dozen liquor jugs!"

func testErgonomics(t *testing.T) *keyboard.Ergonomics {
	t.Helper()
	w, err := keyboard.NewWeights(0, 0.5, 1.5, 0.2, 0.05, 0.1)
	require.NoError(t, err)
	erg, err := keyboard.NewErgonomics(keyboard.Options{
		Columns:              3,
		Rows:                 3,
		Charset:              "abcdefghijklmnopqrstuvwxyz'",
		StandaloneSpacebar:   true,
		DirectionPreferences: keyboard.ClassPreferences(1, 0.4, 0),
		Weights:              w,
	})
	require.NoError(t, err)
	return erg
}

func testCorpus() Corpus {
	text := []rune(sampleText)
	var ranges []keyboard.Range
	for start := 0; start < len(text); start += 10 {
		ranges = append(ranges, keyboard.Range{Start: start, End: min(start+10, len(text))})
	}
	return Corpus{Text: text, Ranges: ranges}
}

func testConfig() Config {
	return Config{
		PopulationSize:     24,
		ReproductionRatio:  0.25,
		Generations:        5,
		Seed:               42,
		MutationFactor:     0.2,
		MutationExponent:   2,
		RandomizedMutation: true,
		Workers:            4,
	}
}

func keysDiffering(a, b keyboard.Grid) int {
	n := 0
	for y := range a {
		for x := range a[y] {
			if a[y][x] != b[y][x] {
				n++
			}
		}
	}
	return n
}

func TestRunReportsEveryGeneration(t *testing.T) {
	var reports []Report
	rep := ReporterFunc(func(r Report) error {
		reports = append(reports, r)
		return nil
	})
	tr, err := New(context.Background(), testConfig(), testErgonomics(t), testCorpus(), nil, rep)
	require.NoError(t, err)

	final, err := tr.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 6)
	require.True(t, final.Final)
	require.True(t, reports[5].Final)

	for i, r := range reports[:5] {
		require.Equal(t, i+1, r.Generation)
		require.GreaterOrEqual(t, r.Best, r.Mean)
		require.GreaterOrEqual(t, r.Mean, r.Min)
		require.GreaterOrEqual(t, r.ParentMean, r.ChildMean)
		require.GreaterOrEqual(t, r.StdDev, 0.0)
		require.NotNil(t, r.BestTraits)
		if i > 0 {
			require.Equal(t, reports[i-1].Best, r.PreviousBest)
		}
	}

	pop := tr.Population()
	for i := 1; i < len(pop); i++ {
		require.GreaterOrEqual(t, pop[i-1].Fitness(), pop[i].Fitness())
	}
}

func TestRunIsReproducible(t *testing.T) {
	run := func() Report {
		tr, err := New(context.Background(), testConfig(), testErgonomics(t), testCorpus(), nil, nil)
		require.NoError(t, err)
		final, err := tr.Run(context.Background())
		require.NoError(t, err)
		return final
	}
	a, b := run(), run()
	require.Equal(t, a.Best, b.Best)
	require.Equal(t, a.Mean, b.Mean)
	require.Equal(t, a.BestTraits, b.BestTraits)
}

func TestBestNeverDropsWithFullRanges(t *testing.T) {
	var bests []float64
	rep := ReporterFunc(func(r Report) error {
		bests = append(bests, r.Best)
		return nil
	})
	cfg := testConfig()
	cfg.Generations = 8
	tr, err := New(context.Background(), cfg, testErgonomics(t), testCorpus(), nil, rep)
	require.NoError(t, err)
	_, err = tr.Run(context.Background())
	require.NoError(t, err)

	// Parents survive unchanged and are scored on the same text again.
	for i := 1; i < len(bests); i++ {
		require.GreaterOrEqual(t, bests[i], bests[i-1])
	}
}

func TestReproduceOverwritesChildrenOnly(t *testing.T) {
	cfg := testConfig()
	cfg.MutationFactor = 0
	tr, err := New(context.Background(), cfg, testErgonomics(t), testCorpus(), nil, nil)
	require.NoError(t, err)

	_, err = tr.step(context.Background(), 1, tr.window.Next(), false)
	require.NoError(t, err)

	before := make([]keyboard.Grid, len(tr.population))
	for i, l := range tr.population {
		before[i] = l.Traits()
	}
	require.NoError(t, tr.reproduce(context.Background(), 1))

	for p := 0; p < tr.ParentCount(); p++ {
		require.Equal(t, before[p], tr.population[p].Traits(), "parent %d changed", p)
	}
	for _, b := range tr.Blocks() {
		for i := b.Start; i < b.End; i++ {
			// One swap touches at most two keys of the inherited grid.
			diff := keysDiffering(before[b.Parent], tr.population[i].Traits())
			require.GreaterOrEqual(t, diff, 1)
			require.LessOrEqual(t, diff, 2, "child %d of parent %d", i, b.Parent)
		}
	}
}

func TestRunWithRangeWindowTracksControl(t *testing.T) {
	preset, err := keyboard.Preset("thumbkey-eng-v4-no-symbols")
	require.NoError(t, err)
	erg := testErgonomics(t)

	var controls []float64
	rep := ReporterFunc(func(r Report) error {
		controls = append(controls, r.Control)
		return nil
	})
	cfg := testConfig()
	cfg.RangesPerGeneration = 3
	tr, err := New(context.Background(), cfg, erg, testCorpus(), preset, rep)
	require.NoError(t, err)
	_, err = tr.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, controls, cfg.Generations+1)
	for _, c := range controls {
		require.Greater(t, c, 0.0)
	}
	require.Equal(t, preset, tr.Control().Traits())
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rep := ReporterFunc(func(r Report) error {
		if r.Generation == 2 {
			cancel()
		}
		return nil
	})
	cfg := testConfig()
	cfg.Generations = 50
	tr, err := New(context.Background(), cfg, testErgonomics(t), testCorpus(), nil, rep)
	require.NoError(t, err)

	last, err := tr.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.LessOrEqual(t, last.Generation, 2)
}

func TestReporterErrorAbortsRun(t *testing.T) {
	boom := errors.New("boom")
	tr, err := New(context.Background(), testConfig(), testErgonomics(t), testCorpus(), nil, ReporterFunc(func(Report) error { return boom }))
	require.NoError(t, err)
	_, err = tr.Run(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestNewRejectsEmptyCorpus(t *testing.T) {
	_, err := New(context.Background(), testConfig(), testErgonomics(t), Corpus{}, nil, nil)
	require.Error(t, err)
}

func TestControlScoredOncePerWindowOffset(t *testing.T) {
	cfg := testConfig()
	cfg.RangesPerGeneration = 3
	cfg.Generations = 6
	var controls []float64
	tr, err := New(context.Background(), cfg, testErgonomics(t), testCorpus(), nil, ReporterFunc(func(r Report) error {
		controls = append(controls, r.Control)
		return nil
	}))
	require.NoError(t, err)
	_, err = tr.Run(context.Background())
	require.NoError(t, err)

	// nine ranges in windows of three repeat every third generation
	require.Equal(t, 3, tr.ControlEvaluations())
	require.Len(t, controls, 7)
	require.Equal(t, controls[0], controls[3])
	require.Equal(t, controls[1], controls[4])
}
