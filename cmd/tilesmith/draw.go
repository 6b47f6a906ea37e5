package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/tilesmith/internal/editor"
	"github.com/example/tilesmith/internal/render"
)

// drawCmd applies editor commands to a stored tile and saves the result.
type drawCmd struct {
	*root
	fs     *flag.FlagSet
	ref    string
	execs  commandList
	script string
	show   bool
	dryRun bool
}

func (c *drawCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	c := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.Var(&c.execs, "e", "command to run, e.g. \"fill 0 0 red\" (may be repeated)")
	fs.StringVar(&c.script, "script", "", "file with one command per line (- for stdin)")
	fs.BoolVar(&c.show, "show", false, "print the tile after drawing")
	fs.BoolVar(&c.dryRun, "dry-run", false, "do not save the result")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 || (len(c.execs) == 0 && c.script == "") {
		return nil, &UsageError{of: c}
	}
	c.ref = fs.Arg(0)
	return c, nil
}

func (c *drawCmd) Run() error {
	rec, s, err := c.open(c.ref)
	if err != nil {
		return err
	}
	for i, line := range c.execs {
		if err := s.ExecLine(line); err != nil {
			return fmt.Errorf("-e #%d: %w", i+1, err)
		}
	}
	if c.script != "" {
		if err := c.runScript(s); err != nil {
			return err
		}
	}
	if c.show {
		fmt.Fprintln(c.out(), render.Terminal(s.Window(), render.NoCursor, c.theme()))
	}
	if c.dryRun || !s.Dirty() {
		return nil
	}
	_, err = c.save(rec, s)
	return err
}

func (c *drawCmd) runScript(s *editor.Session) error {
	var in io.Reader
	if c.script == "-" {
		in = c.in()
	} else {
		f, err := os.Open(c.script)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		in = f
	}
	return execScript(s, in, c.script)
}

// execScript runs every non-empty line of in that is not a # comment.
func execScript(s *editor.Session, in io.Reader, name string) error {
	scanner := bufio.NewScanner(in)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.ExecLine(line); err != nil {
			return fmt.Errorf("%s:%d: %w", name, n, err)
		}
	}
	return scanner.Err()
}
