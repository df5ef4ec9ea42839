package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Trainer.Parents != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := writeConfig(t, `
[trainer]
parents = 5
seed = 99

[swipe]
preset = "none"
direction-preferences = [0.0, 0.5, 0.0, 0.5, 1.0, 0.5, 0.0, 0.5, 0.0]

[corpus]
substitutions = { "’" = "'" }

[[position-preferences]]
columns = 2
rows = 1
values = [[1.0, 0.5]]
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg.Trainer.Parents != 5 || *cfg.Trainer.Seed != 99 || *cfg.Swipe.Preset != "none" {
		t.Fatalf("unexpected scalars: %+v", cfg)
	}

	s := DefaultSettings()
	if err := cfg.ApplyTables(&s); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.Swipe.DirectionPreferences[1] != 0.5 {
		t.Fatalf("direction preferences not applied: %v", s.Swipe.DirectionPreferences)
	}
	table := s.Swipe.PositionPreferences[GridKey(2, 1)]
	if len(table) != 1 || table[0][1] != 0.5 {
		t.Fatalf("position table not applied: %v", s.Swipe.PositionPreferences)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[trainer]\nparentz = 3\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadConfigRejectsShortDirectionTable(t *testing.T) {
	path := writeConfig(t, "[swipe]\ndirection-preferences = [1.0, 0.0]\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for short direction table")
	}
}

func TestApplyTablesRejectsMultiCharSubstitution(t *testing.T) {
	cfg := FileConfig{Corpus: CorpusConfig{Substitutions: map[string]string{"ab": "c"}}}
	s := DefaultSettings()
	if err := cfg.ApplyTables(&s); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	p := DefaultPaths()
	if got := p.ConfigFile(); got != filepath.Join("/cfg", "thumbkey", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := p.Database(); got != filepath.Join("/data", "thumbkey", "thumbkey.db") {
		t.Fatalf("unexpected db path %s", got)
	}
	if got := p.WordList("en"); got != filepath.Join("/data", "thumbkey", "wordlists", "en.txt") {
		t.Fatalf("unexpected word list path %s", got)
	}
	if got := p.WordfreqCache(); got != filepath.Join("/data", "thumbkey", "wordfreq") {
		t.Fatalf("unexpected wordfreq cache %s", got)
	}
}

func TestDefaultPathsFallBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	p := DefaultPaths()
	if p.ConfigDir != filepath.Join(home, ".config", "thumbkey") {
		t.Fatalf("unexpected config dir %s", p.ConfigDir)
	}
	if p.DataDir != filepath.Join(home, ".local", "share", "thumbkey") {
		t.Fatalf("unexpected data dir %s", p.DataDir)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}
