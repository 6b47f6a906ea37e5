package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader finds, reads and writes the rc file.
type Loader struct {
	Version      string // "dev" enables the working directory .tilesmithrc
	OverridePath string // set at link time or by tests
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{Version: version, OverridePath: overridePath}
}

// Dir is the per-user configuration directory, $XDG_CONFIG_HOME/tilesmith
// or ~/.config/tilesmith.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tilesmith")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tilesmith")
}

// candidates lists possible rc files, most specific first.
func (l *Loader) candidates() []string {
	var paths []string
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, ".tilesmithrc"))
		}
	}
	if dir := Dir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "config.rc"), filepath.Join(dir, "tilesmith.rc"))
	}
	return paths
}

// GetConfigPath returns the first existing rc file, or "" when there is none.
func (l *Loader) GetConfigPath() string {
	for _, p := range l.candidates() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load parses the rc file, or returns defaults when none exists.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath is where Save writes: the existing rc file, else the override,
// else config.rc in Dir.
func (l *Loader) DefaultPath() string {
	if p := l.GetConfigPath(); p != "" {
		return p
	}
	if l.OverridePath != "" {
		return l.OverridePath
	}
	return filepath.Join(Dir(), "config.rc")
}

// Save writes cfg to DefaultPath and returns the path written.
func (l *Loader) Save(cfg *Config) (string, error) {
	path := l.DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
