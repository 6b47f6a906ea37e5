package main

import (
	"flag"
	"fmt"

	"github.com/example/tilesmith/internal/editor"
	"github.com/example/tilesmith/internal/palette"
)

// newCmd creates an empty tile in the store.
type newCmd struct {
	*root
	fs        *flag.FlagSet
	name      string
	size      int
	fillColor string
}

func (c *newCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseNewCmd(args []string, r *root) (*newCmd, error) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	c := &newCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.IntVar(&c.size, "size", r.cfg().TileSize, "tile width and height in pixels")
	fs.StringVar(&c.fillColor, "fill", "", "initial colour of every pixel (default transparent)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.name = fs.Arg(0)
	return c, nil
}

func (c *newCmd) Run() error {
	s, err := editor.New(c.size, append(c.sessionOptions(), editor.WithName(c.name))...)
	if err != nil {
		return fmt.Errorf("new tile: %w", err)
	}
	if c.fillColor != "" {
		col, err := palette.Parse(c.fillColor)
		if err != nil {
			return err
		}
		s.FillWindow(col)
	}
	rec, err := c.save(nil, s)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out(), rec.ID)
	return nil
}
