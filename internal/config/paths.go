package config

import (
	"os"
	"path/filepath"
)

const appName = "thumbkey"

// Paths locates the files thumbkey reads and writes. Config lives under the XDG config home,
// everything thumbkey generates under the XDG data home.
type Paths struct {
	ConfigDir string
	DataDir   string
}

// DefaultPaths resolves Paths from $XDG_CONFIG_HOME and $XDG_DATA_HOME, falling back to
// ~/.config and ~/.local/share.
func DefaultPaths() Paths {
	return Paths{
		ConfigDir: filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), appName),
		DataDir:   filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), appName),
	}
}

func xdgDir(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// ConfigFile is the TOML settings file.
func (p Paths) ConfigFile() string { return filepath.Join(p.ConfigDir, "config.toml") }

// Database is the run history database.
func (p Paths) Database() string { return filepath.Join(p.DataDir, appName+".db") }

// WordList is the synthetic corpus word list for lang.
func (p Paths) WordList(lang string) string {
	return filepath.Join(p.DataDir, "wordlists", lang+".txt")
}

// WordfreqCache holds downloaded wordfreq wheels.
func (p Paths) WordfreqCache() string { return filepath.Join(p.DataDir, "wordfreq") }
