package editor

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/tilesmith/internal/fill"
	"github.com/example/tilesmith/internal/palette"
)

// ErrUnknownCommand is returned by Exec for an unrecognised command name.
var ErrUnknownCommand = errors.New("unknown command")

type command struct {
	usage string
	run   func(s *Session, args []string) error
}

var commands = map[string]command{
	"paint": {"paint X Y [COLOR]", func(s *Session, args []string) error {
		xy, c, err := coordsAndColor(s, args, 2, "paint")
		if err != nil {
			return err
		}
		return s.PaintColor(xy[0], xy[1], c)
	}},
	"erase": {"erase X Y", func(s *Session, args []string) error {
		xy, err := expectInts(args, 2, "erase")
		if err != nil {
			return err
		}
		return s.Erase(xy[0], xy[1])
	}},
	"fill": {"fill X Y [COLOR]", func(s *Session, args []string) error {
		xy, c, err := coordsAndColor(s, args, 2, "fill")
		if err != nil {
			return err
		}
		return s.FillColor(xy[0], xy[1], c, s.Connectivity)
	}},
	"fill8": {"fill8 X Y [COLOR]", func(s *Session, args []string) error {
		xy, c, err := coordsAndColor(s, args, 2, "fill8")
		if err != nil {
			return err
		}
		return s.FillColor(xy[0], xy[1], c, fill.Eight)
	}},
	"box": {"box X1 Y1 X2 Y2 [COLOR]", func(s *Session, args []string) error {
		xy, c, err := coordsAndColor(s, args, 4, "box")
		if err != nil {
			return err
		}
		saved := s.Color
		s.Color = c
		defer func() { s.Color = saved }()
		return s.Box(xy[0], xy[1], xy[2], xy[3])
	}},
	"brush": {"brush X Y [COLOR]", func(s *Session, args []string) error {
		xy, c, err := coordsAndColor(s, args, 2, "brush")
		if err != nil {
			return err
		}
		saved := s.Color
		s.Color = c
		defer func() { s.Color = saved }()
		return s.Brush(xy[0], xy[1])
	}},
	"shift": {"shift DX DY", func(s *Session, args []string) error {
		d, err := expectInts(args, 2, "shift")
		if err != nil {
			return err
		}
		s.Shift(d[0], d[1])
		return nil
	}},
	"center": {"center", func(s *Session, args []string) error {
		if len(args) != 0 {
			return fmt.Errorf("center takes no arguments")
		}
		s.Center()
		return nil
	}},
	"rotate": {"rotate cw|ccw", func(s *Session, args []string) error {
		dir := "cw"
		if len(args) > 0 {
			dir = strings.ToLower(args[0])
		}
		switch dir {
		case "cw", "right":
			return s.RotateCW()
		case "ccw", "left":
			return s.RotateCCW()
		}
		return fmt.Errorf("rotate direction must be cw or ccw, got %q", dir)
	}},
	"flip": {"flip h|v", func(s *Session, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("flip requires h or v")
		}
		switch strings.ToLower(args[0]) {
		case "h", "horizontal":
			return s.FlipHorizontal()
		case "v", "vertical":
			return s.FlipVertical()
		}
		return fmt.Errorf("flip axis must be h or v, got %q", args[0])
	}},
	"clear": {"clear", func(s *Session, args []string) error {
		s.Clear()
		return nil
	}},
	"fillwindow": {"fillwindow [COLOR]", func(s *Session, args []string) error {
		c, err := optionalColor(s, args)
		if err != nil {
			return err
		}
		s.FillWindow(c)
		return nil
	}},
	"color": {"color COLOR", func(s *Session, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("color requires a value")
		}
		c, err := palette.Parse(args[0])
		if err != nil {
			return err
		}
		s.Color = c
		return nil
	}},
	"strength": {"strength S", func(s *Session, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("strength requires a value")
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil || v <= 0 || v > 1 {
			return fmt.Errorf("strength must be in (0,1], got %q", args[0])
		}
		s.Strength = v
		return nil
	}},
	"connectivity": {"connectivity 4|8", func(s *Session, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("connectivity requires 4 or 8")
		}
		c, err := fill.ParseConnectivity(args[0])
		if err != nil {
			return err
		}
		s.Connectivity = c
		return nil
	}},
	"resize": {"resize SIZE", func(s *Session, args []string) error {
		n, err := expectInts(args, 1, "resize")
		if err != nil {
			return err
		}
		return s.Resize(n[0])
	}},
	"undo": {"undo", func(s *Session, args []string) error {
		if !s.Undo() {
			return fmt.Errorf("nothing to undo")
		}
		return nil
	}},
	"redo": {"redo", func(s *Session, args []string) error {
		if !s.Redo() {
			return fmt.Errorf("nothing to redo")
		}
		return nil
	}},
}

// Commands lists the usage line of every command understood by Exec.
func Commands() []string {
	out := make([]string, 0, len(commands))
	for _, c := range commands {
		out = append(out, c.usage)
	}
	sort.Strings(out)
	return out
}

// Exec runs one textual command, e.g. []string{"fill", "3", "4", "#ff0000"}.
func (s *Session) Exec(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("empty command")
	}
	name := strings.ToLower(args[0])
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCommand, args[0])
	}
	if err := cmd.run(s, args[1:]); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// ExecLine splits line on whitespace and runs it with Exec.
func (s *Session) ExecLine(line string) error {
	return s.Exec(strings.Fields(line))
}

func expectInts(args []string, n int, name string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integer arguments", name, n)
	}
	vals := make([]int, n)
	for i, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

func coordsAndColor(s *Session, args []string, n int, name string) ([]int, palette.Color, error) {
	if len(args) < n {
		return nil, "", fmt.Errorf("%s requires %d integer arguments", name, n)
	}
	vals, err := expectInts(args[:n], n, name)
	if err != nil {
		return nil, "", err
	}
	c, err := optionalColor(s, args[n:])
	if err != nil {
		return nil, "", err
	}
	return vals, c, nil
}

func optionalColor(s *Session, args []string) (palette.Color, error) {
	switch len(args) {
	case 0:
		return s.Color, nil
	case 1:
		return palette.Parse(args[0])
	}
	return "", fmt.Errorf("unexpected arguments %q", strings.Join(args, " "))
}
