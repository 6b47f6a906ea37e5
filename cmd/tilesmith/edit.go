package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/example/tilesmith/internal/appstate"
	"github.com/example/tilesmith/internal/editor"
	"github.com/example/tilesmith/internal/tile"
	"github.com/example/tilesmith/internal/tui"
)

// openOrCreate opens ref from the store, or starts an unsaved tile named
// ref when it does not exist yet.
func (r *root) openOrCreate(ref string, size int) (*tile.Tile, *editor.Session, error) {
	rec, s, err := r.open(ref)
	if err == nil {
		return rec, s, nil
	}
	if !errors.Is(err, tile.ErrNotFound) {
		return nil, nil, err
	}
	s, err = editor.New(size, append(r.sessionOptions(), editor.WithName(ref))...)
	if err != nil {
		return nil, nil, err
	}
	return nil, s, nil
}

// editCmd opens the graphical editor.
type editCmd struct {
	*root
	fs     *flag.FlagSet
	ref    string
	size   int
	width  int
	height int
}

func (c *editCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	c := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.IntVar(&c.size, "size", r.cfg().TileSize, "tile size when creating a new tile")
	fs.IntVar(&c.width, "width", 720, "window width in pixels")
	fs.IntVar(&c.height, "height", 560, "window height in pixels")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.ref = fs.Arg(0)
	return c, nil
}

func (c *editCmd) Run() error {
	rec, s, err := c.openOrCreate(c.ref, c.size)
	if err != nil {
		return err
	}
	st := appstate.New(
		appstate.WithSession(s),
		appstate.WithStore(c.store()),
		appstate.WithRecord(rec),
		appstate.WithTheme(c.theme()),
		appstate.WithNotifier(c.notifier),
		appstate.WithSize(c.width, c.height),
		appstate.WithOnClose(func() {
			if s.Dirty() {
				fmt.Fprintf(c.errOut(), "warning: %s closed with unsaved changes\n", s.Name)
			}
		}),
	)
	st.Run()
	return nil
}

// tuiCmd opens the terminal editor.
type tuiCmd struct {
	*root
	fs   *flag.FlagSet
	ref  string
	size int
}

func (c *tuiCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseTUICmd(args []string, r *root) (*tuiCmd, error) {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	c := &tuiCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.IntVar(&c.size, "size", r.cfg().TileSize, "tile size when creating a new tile")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.ref = fs.Arg(0)
	return c, nil
}

func (c *tuiCmd) Run() error {
	rec, s, err := c.openOrCreate(c.ref, c.size)
	if err != nil {
		return err
	}
	m := tui.New(s,
		tui.WithStore(c.store()),
		tui.WithRecord(rec),
		tui.WithTheme(c.theme()),
		tui.WithNotifier(c.notifier),
	)
	return tui.Run(m)
}
