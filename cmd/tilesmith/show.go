package main

import (
	"flag"
	"fmt"

	"github.com/example/tilesmith/internal/render"
)

// showCmd prints a stored tile to the terminal.
type showCmd struct {
	*root
	fs    *flag.FlagSet
	ref   string
	board bool
}

func (c *showCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseShowCmd(args []string, r *root) (*showCmd, error) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	c := &showCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.BoolVar(&c.board, "board", false, "print the whole backing grid instead of the window")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.ref = fs.Arg(0)
	return c, nil
}

func (c *showCmd) Run() error {
	rec, s, err := c.open(c.ref)
	if err != nil {
		return err
	}
	off := s.Offset()
	fmt.Fprintf(c.out(), "%s (%s) %dx%d, window at %d,%d\n", rec.Name, rec.ID, rec.Size, rec.Size, off.X, off.Y)
	g := s.Window()
	if c.board {
		g = s.Board().VirtualGrid()
	}
	fmt.Fprintln(c.out(), render.Terminal(g, render.NoCursor, c.theme()))
	return nil
}
