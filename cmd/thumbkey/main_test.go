package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/thumbkey/internal/config"
	"github.com/verte-zerg/thumbkey/internal/keyboard"
	"github.com/verte-zerg/thumbkey/internal/model"
	"github.com/verte-zerg/thumbkey/internal/trainer"
)

func withConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	prev := configPath
	configPath = path
	t.Cleanup(func() { configPath = prev })
}

func parsedCmd(t *testing.T, s *model.Settings, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addSettingsFlags(cmd, s)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestLoadSettingsFlagsOverrideFile(t *testing.T) {
	withConfig(t, `
[trainer]
parents = 9
generations = 7

[swipe]
charset = "abcdefghijklmnopqrstuvwxyz"
`)
	s := config.DefaultSettings()
	cmd := parsedCmd(t, &s, "--parents", "5")
	if _, err := loadSettings(cmd, &s); err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if s.Trainer.Parents != 5 {
		t.Fatalf("expected flag to win, got parents=%d", s.Trainer.Parents)
	}
	if s.Trainer.Generations != 7 {
		t.Fatalf("expected generations from file, got %d", s.Trainer.Generations)
	}
	if s.Swipe.Charset != "abcdefghijklmnopqrstuvwxyz" {
		t.Fatalf("unexpected charset %q", s.Swipe.Charset)
	}
}

func TestLoadSettingsRejectsInvalidFileValue(t *testing.T) {
	withConfig(t, `
[trainer]
mutation-factor = 1.5
`)
	s := config.DefaultSettings()
	cmd := parsedCmd(t, &s)
	_, err := loadSettings(cmd, &s)
	if err == nil || !strings.Contains(err.Error(), "--mutation") {
		t.Fatalf("expected mutation error, got %v", err)
	}
}

func TestValidateSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.Settings)
		want   string
	}{
		{"parents", func(s *model.Settings) { s.Trainer.Parents = 0 }, "--parents"},
		{"children", func(s *model.Settings) { s.Trainer.ChildrenPerParent = 0 }, "--children"},
		{"negative weight", func(s *model.Settings) { s.Fitness.Trajectory = -1 }, "--w-trajectory"},
		{"zero weights", func(s *model.Settings) { s.Fitness = model.FitnessSettings{} }, "fitness weight"},
		{"charset", func(s *model.Settings) { s.Swipe.Charset = "" }, "--charset"},
		{"entries", func(s *model.Settings) { s.Corpus.Entries = 0 }, "--entries"},
		{"tag", func(s *model.Settings) { s.Corpus.Path = "c.jsonl"; s.Corpus.Tag = "" }, "--tag"},
	}
	if err := validateSettings(config.DefaultSettings()); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	for _, tc := range cases {
		s := config.DefaultSettings()
		tc.mutate(&s)
		err := validateSettings(s)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error mentioning %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestResolvePresetAdoptsShape(t *testing.T) {
	s := config.DefaultSettings()
	s.Swipe.Preset = "four-column"
	grid, err := resolvePreset(&s, false)
	if err != nil {
		t.Fatalf("resolve preset: %v", err)
	}
	if s.Swipe.Columns != grid.Columns() || s.Swipe.Rows != grid.Rows() {
		t.Fatalf("expected %dx%d grid, got %dx%d", grid.Columns(), grid.Rows(), s.Swipe.Columns, s.Swipe.Rows)
	}

	s = config.DefaultSettings()
	s.Swipe.Preset = "four-column"
	if _, err := resolvePreset(&s, true); err == nil {
		t.Fatalf("expected shape mismatch error")
	}
}

func TestResolvePresetExtendsCharset(t *testing.T) {
	s := config.DefaultSettings()
	s.Swipe.Preset = "thumbkey-eng-v4"
	if _, err := resolvePreset(&s, false); err != nil {
		t.Fatalf("resolve preset: %v", err)
	}
	for _, c := range "*.-" {
		if !strings.ContainsRune(s.Swipe.Charset, c) {
			t.Fatalf("expected %q added to charset %q", c, s.Swipe.Charset)
		}
	}

	s = config.DefaultSettings()
	s.Swipe.Preset = keyboard.PresetNone
	grid, err := resolvePreset(&s, false)
	if err != nil || grid != nil {
		t.Fatalf("expected nil grid for none, got %v, %v", grid, err)
	}
}

func TestBuildErgonomicsUsesPositionTable(t *testing.T) {
	s := config.DefaultSettings()
	s.Swipe.PositionPreferences = map[string][][]float64{
		config.GridKey(3, 3): {{0.5, 0.5, 0.5}, {0.5, 1, 0.5}, {0.5, 0.5, 0.5}},
	}
	erg, err := buildErgonomics(s)
	if err != nil {
		t.Fatalf("build ergonomics: %v", err)
	}
	if got := erg.PositionPreference(0, 0); got != 0.5 {
		t.Fatalf("expected corner preference 0.5, got %v", got)
	}

	s.Swipe.Charset = "abc"
	if _, err := buildErgonomics(s); err == nil {
		t.Fatalf("expected error for too few letters")
	}
}

func TestBuildSyntheticCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("the\t10\nquick\t5\nfox\t2\nnaïve\t1\n"), 0o644); err != nil {
		t.Fatalf("write word list: %v", err)
	}
	s := config.DefaultSettings()
	s.Corpus.WordList = path
	s.Corpus.Entries = 20
	s.Corpus.WordsPerEntry = 4
	c, st, err := buildCorpus(context.Background(), s)
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}
	if st.Entries != 20 || len(c.Ranges) != 20 {
		t.Fatalf("expected 20 entries, got %d (%d ranges)", st.Entries, len(c.Ranges))
	}
	if strings.ContainsRune(string(c.Text), 'ï') {
		t.Fatalf("untypeable word leaked into corpus")
	}
}

func TestBuildCorpusMissingWordList(t *testing.T) {
	s := config.DefaultSettings()
	s.Corpus.WordList = filepath.Join(t.TempDir(), "missing.txt")
	_, _, err := buildCorpus(context.Background(), s)
	if err == nil || !strings.Contains(err.Error(), "thumbkey wordlist") {
		t.Fatalf("expected download hint, got %v", err)
	}
}

func TestCorpusFilterSubstitutions(t *testing.T) {
	f := corpusFilter(config.DefaultSettings().Corpus)
	if f.Substitutions['’'] != '\'' {
		t.Fatalf("expected apostrophe substitution, got %v", f.Substitutions)
	}
	if f.MinLength != 10 {
		t.Fatalf("unexpected min length %d", f.MinLength)
	}
}

func TestSampleText(t *testing.T) {
	c := trainer.Corpus{
		Text:   []rune("hello worldgood night"),
		Ranges: []keyboard.Range{{Start: 0, End: 11}, {Start: 11, End: 21}},
	}
	if got := string(sampleText(c, 100)); got != "hello world good night" {
		t.Fatalf("unexpected sample %q", got)
	}
	if got := string(sampleText(c, 5)); got != "hello" {
		t.Fatalf("unexpected truncated sample %q", got)
	}
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := progressReporter(&buf, 10)
	if err := rep.Report(trainer.Report{Generation: 3, Best: 0.6, Control: 0.5, PreviousBest: 0.55, Ranges: 1200}); err != nil {
		t.Fatalf("report: %v", err)
	}
	line := buf.String()
	for _, want := range []string{"gen 3/10", "+20.00% vs control", "1,200 ranges"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestTrackRun(t *testing.T) {
	var run model.RunRecord
	trackRun(&run, trainer.Report{Generation: 1, Best: 0.6, Control: 0.5})
	trackRun(&run, trainer.Report{Generation: 2, Best: 0.55, Control: 0.52})
	trackRun(&run, trainer.Report{Generation: 2, Best: 0.7, Control: 0.52, Final: true})
	if run.Completed != 2 || run.BestFitness != 0.7 || run.ControlFitness != 0.52 {
		t.Fatalf("unexpected run %+v", run)
	}
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	withConfig(t, defaultConfigTemplate())
	if _, err := config.LoadConfig(configPath); err != nil {
		t.Fatalf("template should load: %v", err)
	}
	lines := strings.Split(defaultConfigTemplate(), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") && (strings.Contains(line, " = ") || strings.HasPrefix(line, "# [")) {
			lines[i] = strings.TrimPrefix(line, "# ")
		}
	}
	withConfig(t, strings.Join(lines, "\n"))
	fc, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("uncommented template should load: %v", err)
	}
	if fc.Trainer.Parents == nil || *fc.Trainer.Parents != 20 {
		t.Fatalf("expected parents from template")
	}
}
