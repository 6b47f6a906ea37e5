package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/example/tilesmith/internal/clipboard"
	"github.com/example/tilesmith/internal/editor"
	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/render"
)

// readClipboardTile is swapped out in tests.
var readClipboardTile = clipboard.ReadTile

// importCmd creates a tile from an image file or the clipboard.
type importCmd struct {
	*root
	fs            *flag.FlagSet
	file          string
	name          string
	size          int
	fromClipboard bool
}

func (c *importCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseImportCmd(args []string, r *root) (*importCmd, error) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	c := &importCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.IntVar(&c.size, "size", r.cfg().TileSize, "tile width and height in pixels")
	fs.StringVar(&c.name, "name", "", "tile name (defaults to the file name)")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "read the tile from the clipboard")
	fs.BoolVar(&c.fromClipboard, "from-clip", false, "read the tile from the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch {
	case c.fromClipboard && fs.NArg() != 0:
		return nil, fmt.Errorf("-from-clipboard cannot be combined with an input file")
	case !c.fromClipboard && fs.NArg() != 1:
		return nil, &UsageError{of: c}
	}
	if err := editor.CheckTileSize(c.size); err != nil {
		return nil, fmt.Errorf("-size: %w", err)
	}
	if c.fromClipboard && c.name == "" {
		return nil, fmt.Errorf("-name is required when reading from the clipboard")
	}
	c.file = fs.Arg(0)
	if c.name == "" {
		c.name = strings.TrimSuffix(filepath.Base(c.file), filepath.Ext(c.file))
	}
	return c, nil
}

func (c *importCmd) Run() error {
	var (
		g   grid.Grid
		err error
	)
	if c.fromClipboard {
		g, err = readClipboardTile(c.size)
		if err != nil {
			return fmt.Errorf("failed to read clipboard: %w", err)
		}
	} else {
		g, err = importFile(c.file, c.size)
		if err != nil {
			return err
		}
	}
	s, err := editor.New(c.size, append(c.sessionOptions(), editor.WithName(c.name))...)
	if err != nil {
		return err
	}
	if err := s.LoadWindow(g); err != nil {
		return fmt.Errorf("import %s: %w", c.name, err)
	}
	rec, err := c.save(nil, s)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out(), rec.ID)
	return nil
}

func importFile(path string, size int) (grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return render.Import(img, size), nil
}
