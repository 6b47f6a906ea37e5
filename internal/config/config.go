package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/tilesmith/internal/fill"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/theme"
)

const (
	DefaultTileSize      = 16
	DefaultBrushStrength = 0.5
)

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Export bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme         string
	SaveDir       string
	TileSize      int
	Connectivity  fill.Connectivity
	BrushStrength float64
	Color         palette.Color
	Notify        Notify
	Themes        map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:         "", // Default to empty to allow fallback to Env/Default
		TileSize:      DefaultTileSize,
		Connectivity:  fill.Four,
		BrushStrength: DefaultBrushStrength,
		Color:         "#000000",
		Themes:        make(map[string]*theme.Theme),
	}
}

// SavePath returns the tile store directory, expanding a leading ~.
func (c *Config) SavePath() string {
	home, _ := os.UserHomeDir()
	if c.SaveDir == "" {
		return filepath.Join(home, ".local", "share", "tilesmith", "tiles")
	}
	if c.SaveDir == "~" {
		return home
	}
	if strings.HasPrefix(c.SaveDir, "~/") {
		return filepath.Join(home, c.SaveDir[2:])
	}
	return c.SaveDir
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "tile_size = %d\n", c.TileSize)
	fmt.Fprintf(&sb, "connectivity = %d\n", int(c.Connectivity))
	fmt.Fprintf(&sb, "brush_strength = %g\n", c.BrushStrength)
	fmt.Fprintf(&sb, "color = %s\n", c.Color)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
