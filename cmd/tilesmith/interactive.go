package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/example/tilesmith/internal/editor"
	"github.com/example/tilesmith/internal/render"
	"github.com/example/tilesmith/internal/tile"
)

var errExit = errors.New("exit")

// interactiveCmd reads editor commands line by line against one session.
type interactiveCmd struct {
	*root
	fs      *flag.FlagSet
	ref     string
	size    int
	execs   commandList
	record  *tile.Tile
	session *editor.Session
}

func (c *interactiveCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	c := &interactiveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.IntVar(&c.size, "size", r.cfg().TileSize, "tile size when starting a new tile")
	fs.Var(&c.execs, "e", "execute a command in immediate mode (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, &UsageError{of: c}
	}
	c.ref = fs.Arg(0)
	return c, nil
}

func (c *interactiveCmd) Run() error {
	if c.ref != "" {
		rec, s, err := c.openOrCreate(c.ref, c.size)
		if err != nil {
			return err
		}
		c.record, c.session = rec, s
	} else {
		s, err := editor.New(c.size, c.sessionOptions()...)
		if err != nil {
			return err
		}
		c.session = s
	}

	if len(c.execs) > 0 {
		for _, line := range c.execs {
			if err := c.executeLine(line); err != nil {
				if errors.Is(err, errExit) {
					return nil
				}
				return err
			}
		}
		return nil
	}

	out := c.out()
	fmt.Fprintln(out, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(c.in())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		err := c.executeLine(scanner.Text())
		if errors.Is(err, errExit) {
			break
		}
		if err != nil {
			fmt.Fprintln(c.errOut(), err)
		}
	}
	if c.session.Dirty() {
		fmt.Fprintln(c.errOut(), "warning: unsaved changes discarded")
	}
	return scanner.Err()
}

func (c *interactiveCmd) executeLine(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 || strings.HasPrefix(args[0], "#") {
		return nil
	}
	s := c.session
	switch strings.ToLower(args[0]) {
	case "exit", "quit":
		return errExit
	case "help":
		fmt.Fprintln(c.out(), "session commands: save [NAME], show, status, exit")
		fmt.Fprintln(c.out(), "editor commands:")
		for _, usage := range editor.Commands() {
			fmt.Fprintln(c.out(), "  "+usage)
		}
		return nil
	case "show":
		fmt.Fprintln(c.out(), render.Terminal(s.Window(), render.NoCursor, c.theme()))
		return nil
	case "status":
		off := s.Offset()
		fmt.Fprintf(c.out(), "%s %dx%d window %d,%d color %s %s fill, undo %v redo %v\n",
			s.Name, s.TileSize(), s.TileSize(), off.X, off.Y, s.Color, s.Connectivity, s.CanUndo(), s.CanRedo())
		return nil
	case "save":
		if len(args) > 1 {
			s.Name = strings.Join(args[1:], " ")
		}
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("save requires a name for a new tile")
		}
		rec, err := c.save(c.record, s)
		if err != nil {
			return err
		}
		c.record = rec
		fmt.Fprintf(c.out(), "saved %s\n", rec.ID)
		return nil
	}
	return s.Exec(args)
}
