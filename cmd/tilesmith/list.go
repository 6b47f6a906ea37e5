package main

import (
	"flag"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/render"
	"github.com/example/tilesmith/internal/theme"
)

type listCmd struct {
	*root
	fs *flag.FlagSet
}

func parseListCmd(args []string, r *root) (*listCmd, error) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	cmd := &listCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *listCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *listCmd) Run() error {
	tiles, err := c.store().List()
	if err != nil {
		return err
	}
	if len(tiles) == 0 {
		fmt.Fprintln(c.out(), "no tiles saved")
		return nil
	}
	w := tabwriter.NewWriter(c.out(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tUPDATED")
	for _, t := range tiles {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%s\n", t.ID, t.Name, t.Size, t.Size, t.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

type deleteCmd struct {
	*root
	fs   *flag.FlagSet
	refs []string
}

func parseDeleteCmd(args []string, r *root) (*deleteCmd, error) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	cmd := &deleteCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 0 {
		return nil, &UsageError{of: cmd}
	}
	cmd.refs = fs.Args()
	return cmd, nil
}

func (c *deleteCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *deleteCmd) Run() error {
	store := c.store()
	for _, ref := range c.refs {
		t, err := store.Find(ref)
		if err != nil {
			return fmt.Errorf("delete %s: %w", ref, err)
		}
		if err := store.Delete(t.ID); err != nil {
			return fmt.Errorf("delete %s: %w", ref, err)
		}
		fmt.Fprintf(c.out(), "deleted %s (%s)\n", t.Name, t.ID)
	}
	return nil
}

type colorsCmd struct {
	*root
	fs    *flag.FlagSet
	plain bool
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.BoolVar(&cmd.plain, "plain", false, "print names and values without colour swatches")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *colorsCmd) Run() error {
	for _, entry := range palette.Palette() {
		label := fmt.Sprintf("%-8s %s", entry.Name, entry.Color)
		if c.plain {
			fmt.Fprintln(c.out(), label)
			continue
		}
		fmt.Fprintln(c.out(), render.Swatch(entry.Color, label))
	}
	return nil
}

type themesCmd struct {
	*root
	fs *flag.FlagSet
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	fs := flag.NewFlagSet("themes", flag.ExitOnError)
	cmd := &themesCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *themesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *themesCmd) Run() error {
	for _, name := range theme.NewLoader().Available() {
		fmt.Fprintln(c.out(), name)
	}
	var custom []string
	for name := range c.cfg().Themes {
		custom = append(custom, name)
	}
	sort.Strings(custom)
	for _, name := range custom {
		fmt.Fprintf(c.out(), "%s (config)\n", name)
	}
	return nil
}
