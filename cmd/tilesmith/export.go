package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/example/tilesmith/internal/clipboard"
	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/render"
)

// exportCmd writes a stored tile as a PNG, a preview sheet or to the
// clipboard.
type exportCmd struct {
	*root
	fs            *flag.FlagSet
	ref           string
	output        string
	scale         int
	sheet         bool
	board         bool
	shadow        bool
	shadowColor   string
	shadowOffsetX int
	shadowOffsetY int
	toClipboard   bool
	asText        bool
}

func (c *exportCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	c := &exportCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	def := render.DefaultShadowOptions()
	fs.StringVar(&c.output, "output", "", "output PNG path (defaults to <id>.png)")
	fs.StringVar(&c.output, "o", "", "output PNG path (alias)")
	fs.IntVar(&c.scale, "scale", 1, "pixels per tile cell")
	fs.BoolVar(&c.sheet, "sheet", false, "write a preview sheet with grid lines and a caption")
	fs.BoolVar(&c.board, "board", false, "export the whole backing grid instead of the window")
	fs.BoolVar(&c.shadow, "shadow", false, "add a pixel drop shadow")
	fs.StringVar(&c.shadowColor, "shadow-color", string(def.Color), "drop shadow colour")
	fs.IntVar(&c.shadowOffsetX, "shadow-x", def.Offset.X, "drop shadow horizontal offset in cells")
	fs.IntVar(&c.shadowOffsetY, "shadow-y", def.Offset.Y, "drop shadow vertical offset in cells")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard instead of writing a file")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.BoolVar(&c.asText, "text", false, "with -to-clipboard, copy lossless tile text instead of an image")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	if c.scale < 1 {
		return nil, fmt.Errorf("scale must be at least 1, got %d", c.scale)
	}
	if c.asText && !c.toClipboard {
		return nil, fmt.Errorf("-text requires -to-clipboard")
	}
	if c.toClipboard && c.output != "" {
		return nil, fmt.Errorf("-to-clipboard cannot be combined with -output")
	}
	c.ref = fs.Arg(0)
	return c, nil
}

func (c *exportCmd) Run() error {
	rec, s, err := c.open(c.ref)
	if err != nil {
		return err
	}
	g := s.Window()
	if c.board {
		g = s.Board().VirtualGrid()
	}
	if c.shadow {
		col, err := palette.Parse(c.shadowColor)
		if err != nil {
			return fmt.Errorf("shadow color: %w", err)
		}
		g = render.DropShadow(g, render.ShadowOptions{Offset: image.Pt(c.shadowOffsetX, c.shadowOffsetY), Color: col})
	}

	if c.toClipboard {
		return c.copy(rec.Name, g)
	}

	out := c.output
	if out == "" {
		out = rec.ID + ".png"
	}
	if c.sheet {
		if err := render.SaveSheet(out, g, max(c.scale, 8), c.theme(), rec.Name); err != nil {
			return err
		}
	} else if err := writePNG(out, render.Image(g, c.scale, nil)); err != nil {
		return err
	}
	if abs, err := filepath.Abs(out); err == nil {
		out = abs
	}
	fmt.Fprintln(c.out(), out)
	c.notifier.Export(out)
	return nil
}

func (c *exportCmd) copy(name string, g grid.Grid) error {
	var err error
	if c.asText {
		err = clipboard.WriteGrid(g)
	} else {
		err = clipboard.WriteTile(g, c.scale)
	}
	if err != nil {
		return fmt.Errorf("failed to copy %s: %w", name, err)
	}
	c.notifier.Copy(name)
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
