package appstate

import (
	"fmt"
	"image"
	"log"
	"time"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/tilesmith/internal/clipboard"
	"github.com/example/tilesmith/internal/editor"
	"github.com/example/tilesmith/internal/fill"
	"github.com/example/tilesmith/internal/notify"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/tile"
)

// copyScale is the cell size of images placed on the clipboard.
const copyScale = 16

// controller applies input to the editing session. It owns no window so it
// can be driven directly.
type controller struct {
	session  *editor.Session
	store    *tile.Store
	record   *tile.Tile
	notifier *notify.Notifier

	tool     Tool
	layout   layout
	hover    image.Point
	hoverOK  bool
	dragging bool
	drag     image.Rectangle
	painting bool

	message      string
	messageUntil time.Time

	keyboardAction map[KeyShortcut]string
	actions        map[string]func()
}

func newController(s *editor.Session, store *tile.Store, record *tile.Tile, n *notify.Notifier) *controller {
	c := &controller{session: s, store: store, record: record, notifier: n}
	c.registerActions()
	return c
}

func (c *controller) register(name string, keys KeyboardShortcuts, fn func()) {
	c.actions[name] = fn
	for _, sc := range keys.KeyboardShortcuts() {
		c.keyboardAction[sc] = name
	}
}

func (c *controller) registerActions() {
	c.actions = map[string]func(){}
	c.keyboardAction = map[KeyShortcut]string{}
	s := c.session

	shift := func(dx, dy int) func() { return func() { s.Shift(dx, dy) } }
	c.register("left", shortcutList{{Code: key.CodeLeftArrow}}, shift(-1, 0))
	c.register("right", shortcutList{{Code: key.CodeRightArrow}}, shift(1, 0))
	c.register("up", shortcutList{{Code: key.CodeUpArrow}}, shift(0, -1))
	c.register("down", shortcutList{{Code: key.CodeDownArrow}}, shift(0, 1))
	c.register("center", shortcutList{{Rune: 'c'}}, s.Center)

	c.register("rotate", shortcutList{{Rune: 'r'}}, c.report(s.RotateCW))
	c.register("rotateccw", shortcutList{{Rune: 'r', Modifiers: key.ModShift}}, c.report(s.RotateCCW))
	c.register("fliph", shortcutList{{Rune: 'h'}}, c.report(s.FlipHorizontal))
	c.register("flipv", shortcutList{{Rune: 'v'}}, c.report(s.FlipVertical))

	c.register("connectivity", shortcutList{{Rune: 'g'}}, func() {
		if s.Connectivity == fill.Four {
			s.Connectivity = fill.Eight
		} else {
			s.Connectivity = fill.Four
		}
		c.flash(fmt.Sprintf("fill connectivity: %s", s.Connectivity))
	})

	for i, t := range []rune{'p', 'f', 'b', 'x', 'e'} {
		tool := Tool(i)
		c.register("tool"+string(t), shortcutList{{Rune: t}}, func() { c.tool = tool })
	}
	c.register("nextcolor", shortcutList{{Rune: ']'}}, func() { c.cycleColor(1) })
	c.register("prevcolor", shortcutList{{Rune: '['}}, func() { c.cycleColor(-1) })

	c.register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() {
		if !s.Undo() {
			c.flash("nothing to undo")
		}
	})
	c.register("redo", shortcutList{
		{Rune: 'y', Modifiers: key.ModControl},
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
	}, func() {
		if !s.Redo() {
			c.flash("nothing to redo")
		}
	})
	c.register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, c.save)
	c.register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		c.copy(false)
	})
	c.register("copygrid", shortcutList{{Rune: 'c', Modifiers: key.ModControl | key.ModShift}}, func() {
		c.copy(true)
	})
	c.register("paste", shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, c.paste)
	c.register("canceldrag", shortcutList{{Code: key.CodeEscape}}, func() { c.dragging = false })
}

// report runs fn and shows its error in the status line.
func (c *controller) report(fn func() error) func() {
	return func() {
		if err := fn(); err != nil {
			c.flash(err.Error())
		}
	}
}

func (c *controller) flash(msg string) {
	log.Print(msg)
	c.message = msg
	c.messageUntil = time.Now().Add(2 * time.Second)
}

func (c *controller) cycleColor(step int) {
	pal := palette.Palette()
	idx := 0
	for i, pc := range pal {
		if pc.Color == c.session.Color {
			idx = i
			break
		}
	}
	idx = (idx + step + len(pal)) % len(pal)
	c.session.Color = pal[idx].Color
}

// key handles a key press and reports whether it was bound.
func (c *controller) key(e key.Event) bool {
	if e.Direction != key.DirPress && e.Direction != key.DirNone {
		return false
	}
	ks := KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}
	if e.Rune > 0 {
		// Runes identify the key, so the code is ignored for lookup.
		ks = KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: e.Modifiers}
	}
	action, ok := c.keyboardAction[ks]
	if !ok {
		return false
	}
	c.actions[action]()
	return true
}

// pointer handles a mouse event in window coordinates and reports whether
// the frame needs repainting.
func (c *controller) pointer(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	cell, onCanvas := c.layout.cellAt(p)
	repaint := onCanvas != c.hoverOK || cell != c.hover
	c.hover, c.hoverOK = cell, onCanvas

	if e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft {
		if tool, swatch, ok := c.layout.hit(p); ok {
			if swatch >= 0 {
				c.session.Color = palette.Palette()[swatch].Color
			} else {
				c.tool = tool
			}
			return true
		}
	}

	if c.dragging {
		if onCanvas {
			c.drag.Max = cell
		}
		if e.Direction == mouse.DirRelease && e.Button == mouse.ButtonLeft {
			c.dragging = false
			r := c.drag
			c.report(func() error { return c.session.Box(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y) })()
		}
		return true
	}
	if e.Direction == mouse.DirRelease && e.Button == mouse.ButtonLeft {
		c.painting = false
	}
	if !onCanvas {
		return repaint
	}

	switch {
	case e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft:
		c.painting = c.tool == ToolPaint || c.tool == ToolErase
		c.applyTool(c.tool, cell)
	case e.Direction == mouse.DirPress && e.Button == mouse.ButtonRight:
		c.applyTool(ToolFill, cell)
	case e.Direction == mouse.DirPress && e.Button == mouse.ButtonMiddle:
		c.applyTool(ToolBrush, cell)
	case e.Direction == mouse.DirNone && c.painting && repaint:
		c.applyTool(c.tool, cell)
	default:
		return repaint
	}
	return true
}

func (c *controller) applyTool(t Tool, cell image.Point) {
	s := c.session
	var err error
	switch t {
	case ToolPaint:
		err = s.Paint(cell.X, cell.Y)
	case ToolFill:
		err = s.Fill(cell.X, cell.Y)
	case ToolBrush:
		err = s.Brush(cell.X, cell.Y)
	case ToolErase:
		err = s.Erase(cell.X, cell.Y)
	case ToolBox:
		c.dragging = true
		c.drag = image.Rectangle{Min: cell, Max: cell}
	}
	if err != nil {
		c.flash(err.Error())
	}
}

func (c *controller) save() {
	if c.store == nil {
		c.flash("no tile store configured")
		return
	}
	if c.record == nil {
		c.record = tile.FromSession(c.session)
	} else {
		c.record.Update(c.session)
	}
	if err := c.store.Save(c.record); err != nil {
		c.flash(fmt.Sprintf("save: %v", err))
		return
	}
	c.session.MarkSaved()
	c.flash(fmt.Sprintf("saved %s", c.record.ID))
	c.notifier.Save(c.record.Name, c.record.Grid)
}

func (c *controller) copy(asGrid bool) {
	g := c.session.Window()
	var err error
	what := "tile image"
	if asGrid {
		what = "tile"
		err = clipboard.WriteGrid(g)
	} else {
		err = clipboard.WriteTile(g, copyScale)
	}
	if err != nil {
		c.flash(fmt.Sprintf("copy: %v", err))
		return
	}
	c.flash(what + " copied to clipboard")
	c.notifier.Copy(what)
}

func (c *controller) paste() {
	g, err := clipboard.ReadTile(c.session.TileSize())
	if err != nil {
		c.flash(fmt.Sprintf("paste: %v", err))
		return
	}
	if err := c.session.LoadWindow(g); err != nil {
		c.flash(fmt.Sprintf("paste: %v", err))
		return
	}
	c.flash("pasted tile")
}

// status is the text of the bottom line.
func (c *controller) status() string {
	if c.message != "" && time.Now().Before(c.messageUntil) {
		return c.message
	}
	s := c.session
	name := s.Name
	if name == "" {
		name = "untitled"
	}
	if s.Dirty() {
		name += "*"
	}
	line := fmt.Sprintf("%s  %s  %s  %s  %d×%d  @%d,%d",
		name, c.tool, s.Color, s.Connectivity, s.TileSize(), s.TileSize(), s.Offset().X, s.Offset().Y)
	if c.hoverOK {
		px, _ := s.Pixel(c.hover.X, c.hover.Y)
		line += fmt.Sprintf("  (%d,%d) %s", c.hover.X, c.hover.Y, px)
	}
	return line
}
