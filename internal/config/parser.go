package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/tilesmith/internal/editor"
	"github.com/example/tilesmith/internal/fill"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/theme"
)

// setter assigns one key of a section.
type setter func(key, value string) error

// Parse reads an rc file. Lines are "key = value" (or "key: value") grouped
// under [notify] and [theme.NAME] sections; keys before the first section
// are root settings. Unknown keys and sections are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	section, set := "root", setter(cfg.setRoot)
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "", strings.HasPrefix(line, "#"), strings.HasPrefix(line, "//"):
			continue
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			section = strings.TrimSpace(line[1 : len(line)-1])
			set = cfg.section(section)
			continue
		}
		key, value, ok := splitRC(line)
		if !ok || set == nil {
			continue
		}
		if err := set(key, value); err != nil {
			return nil, fmt.Errorf("line %d [%s]: %w", n, section, err)
		}
	}
	return cfg, scanner.Err()
}

// splitRC splits on the first "=" or, failing that, the first ":" and
// strips one pair of surrounding double quotes from the value.
func splitRC(line string) (key, value string, ok bool) {
	sep := "="
	if !strings.Contains(line, sep) {
		sep = ":"
	}
	key, value, ok = strings.Cut(line, sep)
	if !ok {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return strings.TrimSpace(key), value, true
}

func (c *Config) section(name string) setter {
	switch {
	case name == "notify":
		return c.Notify.set
	case strings.HasPrefix(name, "theme."):
		t := theme.Default()
		t.Name = strings.TrimPrefix(name, "theme.")
		c.Themes[t.Name] = t
		return t.Set
	}
	return nil
}

func (c *Config) setRoot(key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		c.Theme = value
	case "save_dir":
		c.SaveDir = value
	case "tile_size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 || n > editor.MaxTileSize {
			return fmt.Errorf("tile_size must be an integer in 1..%d, got %q", editor.MaxTileSize, value)
		}
		c.TileSize = n
	case "connectivity":
		conn, err := fill.ParseConnectivity(value)
		if err != nil {
			return err
		}
		c.Connectivity = conn
	case "brush_strength":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v <= 0 || v > 1 {
			return fmt.Errorf("brush_strength must be in (0,1], got %q", value)
		}
		c.BrushStrength = v
	case "color":
		col, err := palette.Parse(value)
		if err != nil {
			return err
		}
		c.Color = col
	}
	return nil
}

func (n *Notify) set(key, value string) error {
	var field *bool
	switch strings.ToLower(key) {
	case "save":
		field = &n.Save
	case "export":
		field = &n.Export
	case "copy":
		field = &n.Copy
	default:
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*field = b
	return nil
}
