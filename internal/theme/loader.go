package theme

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader resolves theme names to themes. Lookup order is a file path,
// the embedded defaults, ConfigDir, then SystemDir.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader returns a Loader over $XDG_CONFIG_HOME/tilesmith/themes (or
// ~/.config/tilesmith/themes) and /usr/share/tilesmith/themes.
func NewLoader() *Loader {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return &Loader{
		ConfigDir: filepath.Join(base, "tilesmith", "themes"),
		SystemDir: "/usr/share/tilesmith/themes",
	}
}

// Load returns the named theme. An empty name is the Default theme; the
// .theme extension is optional.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return parseFile(name)
	}
	file := name
	if !strings.HasSuffix(file, ".theme") {
		file += ".theme"
	}
	if f, err := EmbeddedThemes.Open("defaults/" + file); err == nil {
		defer f.Close()
		return Parse(f)
	}
	for _, dir := range l.dirs() {
		path := filepath.Join(dir, file)
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

func (l *Loader) dirs() []string {
	var out []string
	for _, d := range []string{l.ConfigDir, l.SystemDir} {
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

// Available lists the embedded theme names followed by any installed in
// ConfigDir or SystemDir.
func (l *Loader) Available() []string {
	seen := map[string]bool{}
	var names []string
	add := func(file string) {
		if !strings.HasSuffix(file, ".theme") {
			return
		}
		n := strings.TrimSuffix(file, ".theme")
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	if entries, err := fs.ReadDir(EmbeddedThemes, "defaults"); err == nil {
		for _, e := range entries {
			add(e.Name())
		}
	}
	builtin := len(names)
	for _, dir := range l.dirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			add(e.Name())
		}
	}
	sort.Strings(names[builtin:])
	return names
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	return t, nil
}
