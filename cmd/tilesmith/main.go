package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/tilesmith/internal/config"
	"github.com/example/tilesmith/internal/editor"
	"github.com/example/tilesmith/internal/notify"
	"github.com/example/tilesmith/internal/theme"
	"github.com/example/tilesmith/internal/tile"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	saveAlerts   bool
	exportAlerts bool
	copyAlerts   bool
	themeName    string
	saveDir      string
	activeTheme  *theme.Theme

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("tilesmith", flag.ExitOnError),
		program:  "tilesmith",
		notifier: notify.New(notify.FromEnvironment()...),
		config:   cfg,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a tile")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")

	// Precedence: CLI > Env > Config > Default. The flags default to "" and
	// the fallbacks are resolved in Run.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, high_contrast or a .theme file)")
	r.fs.StringVar(&r.saveDir, "dir", "", "tile store directory")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventExport, r.exportAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "new":
		cmd, err = parseNewCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "show":
		cmd, err = parseShowCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "import":
		cmd, err = parseImportCmd(subArgs, r)
	case "list", "ls":
		cmd, err = parseListCmd(subArgs, r)
	case "delete", "rm":
		cmd, err = parseDeleteCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "themes":
		cmd, err = parseThemesCmd(subArgs, r)
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "tui":
		cmd, err = parseTUICmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{root: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("TILESMITH_THEME")
	}
	if name == "" && r.config != nil {
		name = r.config.Theme
	}
	if r.config != nil {
		if t, ok := r.config.Themes[name]; ok {
			return t
		}
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

func (r *root) theme() *theme.Theme {
	if r.activeTheme == nil {
		return theme.Default()
	}
	return r.activeTheme
}

func (r *root) cfg() *config.Config {
	if r.config == nil {
		r.config = config.New()
	}
	return r.config
}

// store opens the tile store: -dir, then TILESMITH_SAVE_DIR, then the config.
func (r *root) store() *tile.Store {
	dir := r.saveDir
	if dir == "" {
		dir = os.Getenv("TILESMITH_SAVE_DIR")
	}
	if dir == "" {
		dir = r.cfg().SavePath()
	}
	return tile.NewStore(dir)
}

// sessionOptions carries the configured drawing defaults into a session.
func (r *root) sessionOptions() []editor.Option {
	c := r.cfg()
	return []editor.Option{
		editor.WithColor(c.Color),
		editor.WithStrength(c.BrushStrength),
		editor.WithConnectivity(c.Connectivity),
	}
}

// open finds a stored tile by id or name and starts a session on it.
func (r *root) open(ref string) (*tile.Tile, *editor.Session, error) {
	t, err := r.store().Find(ref)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", ref, err)
	}
	s, err := t.Session(r.sessionOptions()...)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", ref, err)
	}
	return t, s, nil
}

// save writes the session into record, creating the record when nil.
func (r *root) save(record *tile.Tile, s *editor.Session) (*tile.Tile, error) {
	if record == nil {
		record = tile.FromSession(s)
	} else {
		record.Update(s)
	}
	if err := r.store().Save(record); err != nil {
		return nil, fmt.Errorf("save %s: %w", s.Name, err)
	}
	s.MarkSaved()
	r.notifier.Save(record.Name, record.Grid)
	return record, nil
}

func (r *root) out() io.Writer {
	if r.stdout == nil {
		return os.Stdout
	}
	return r.stdout
}

func (r *root) errOut() io.Writer {
	if r.stderr == nil {
		return os.Stderr
	}
	return r.stderr
}

func (r *root) in() io.Reader {
	if r.stdin == nil {
		return os.Stdin
	}
	return r.stdin
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandList collects a repeatable string flag.
type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, "; ")
}

func (c *commandList) Set(v string) error {
	*c = append(*c, v)
	return nil
}
