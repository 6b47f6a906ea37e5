package appstate

import (
	"image"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/tilesmith/internal/editor"
	"github.com/example/tilesmith/internal/fill"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/theme"
	"github.com/example/tilesmith/internal/tile"
)

func newTestController(t *testing.T) (*controller, *tile.Store) {
	t.Helper()
	s, err := editor.New(16, editor.WithColor("#ff0000"), editor.WithName("test"))
	if err != nil {
		t.Fatal(err)
	}
	store := tile.NewStore(filepath.Join(t.TempDir(), "tiles"))
	c := newController(s, store, nil, nil)
	c.layout = newLayout(720, 560, 16)
	return c, store
}

// centre returns the window point in the middle of a tile cell.
func centre(l layout, x, y int) mouse.Event {
	p := l.canvas.Min.Add(image.Pt(x*l.zoom+l.zoom/2, y*l.zoom+l.zoom/2))
	return mouse.Event{X: float32(p.X), Y: float32(p.Y)}
}

func press(e mouse.Event, b mouse.Button) mouse.Event {
	e.Button, e.Direction = b, mouse.DirPress
	return e
}

func release(e mouse.Event, b mouse.Button) mouse.Event {
	e.Button, e.Direction = b, mouse.DirRelease
	return e
}

func TestLayout(t *testing.T) {
	l := newLayout(720, 560, 16)
	if l.zoom != 32 {
		t.Fatalf("zoom = %d, want 32", l.zoom)
	}
	if !l.canvas.Eq(image.Rect(88, 8, 600, 520)) {
		t.Fatalf("canvas = %v", l.canvas)
	}
	if p, ok := l.cellAt(image.Pt(88+32*3+1, 8+32*5+31)); !ok || p != image.Pt(3, 5) {
		t.Fatalf("cellAt = %v %v", p, ok)
	}
	if _, ok := l.cellAt(image.Pt(10, 10)); ok {
		t.Fatalf("toolbar point mapped onto the canvas")
	}
	if newLayout(50, 50, 16).zoom != 1 {
		t.Fatalf("tiny window should fall back to zoom 1")
	}
	tool, swatch, ok := l.hit(l.toolRect(int(ToolFill)).Min.Add(image.Pt(1, 1)))
	if !ok || tool != ToolFill || swatch != -1 {
		t.Fatalf("hit tool = %v %v %v", tool, swatch, ok)
	}
	_, swatch, ok = l.hit(l.swatchRect(3).Min.Add(image.Pt(1, 1)))
	if !ok || swatch != 3 {
		t.Fatalf("hit swatch = %v %v", swatch, ok)
	}
}

func TestCellRect(t *testing.T) {
	l := newLayout(720, 560, 16)
	r := l.cellRect(image.Rect(3, 5, 4, 6))
	if !r.Eq(image.Rect(88+3*32, 8+5*32, 88+4*32, 8+6*32)) {
		t.Fatalf("cellRect = %v", r)
	}
	if p, ok := l.cellAt(r.Min); !ok || p != image.Pt(3, 5) {
		t.Fatalf("cellAt(cellRect.Min) = %v %v", p, ok)
	}
	if got := scaleRect(image.Rect(1, 2, 3, 4), 5); !got.Eq(image.Rect(5, 10, 15, 20)) {
		t.Fatalf("scaleRect = %v", got)
	}
}

func TestDrawCanvasAndMinimap(t *testing.T) {
	c, _ := newTestController(t)
	c.hover, c.hoverOK = image.Pt(3, 5), true
	c.session.Shift(2, -1)
	st := c.snapshot()
	th := theme.Default()
	dst := image.NewRGBA(image.Rect(0, 0, c.layout.width, c.layout.height))

	drawCanvas(dst, c.layout, th, st)
	hover := c.layout.cellRect(image.Rect(3, 5, 4, 6))
	if got := dst.RGBAAt(hover.Min.X, hover.Min.Y); got != th.Cursor {
		t.Fatalf("hover outline = %v, want %v", got, th.Cursor)
	}

	drawMinimap(dst, c.layout, th, st)
	m := c.layout.minimapRect()
	win := scaleRect(image.Rect(18, 15, 34, 31), m.Dx()/48).Add(m.Min)
	if got := dst.RGBAAt(win.Min.X, win.Min.Y); got != th.WindowBorder {
		t.Fatalf("minimap window outline = %v, want %v", got, th.WindowBorder)
	}
}

func TestMouseTools(t *testing.T) {
	c, _ := newTestController(t)
	s := c.session

	if !c.pointer(press(centre(c.layout, 2, 3), mouse.ButtonLeft)) {
		t.Fatal("left press did not request repaint")
	}
	if px, _ := s.Pixel(2, 3); px != "#ff0000" {
		t.Fatalf("left click painted %q", px)
	}
	c.pointer(release(centre(c.layout, 2, 3), mouse.ButtonLeft))

	s.Color = "#0000ff"
	c.pointer(press(centre(c.layout, 0, 0), mouse.ButtonRight))
	if got := s.Window().Count("#0000ff"); got != 16*16-1 {
		t.Fatalf("right click filled %d cells", got)
	}

	s.Color = "#ffffff"
	s.Strength = 0.5
	c.pointer(press(centre(c.layout, 2, 3), mouse.ButtonMiddle))
	if px, _ := s.Pixel(2, 3); px != "#ff8080" {
		t.Fatalf("middle click brushed %q", px)
	}
}

func TestDragPaintAndBox(t *testing.T) {
	c, _ := newTestController(t)
	s := c.session

	c.pointer(press(centre(c.layout, 0, 0), mouse.ButtonLeft))
	c.pointer(centre(c.layout, 1, 0))
	c.pointer(centre(c.layout, 2, 0))
	c.pointer(release(centre(c.layout, 2, 0), mouse.ButtonLeft))
	c.pointer(centre(c.layout, 4, 0))
	if got := s.Window().Count("#ff0000"); got != 3 {
		t.Fatalf("drag painted %d cells, want 3", got)
	}

	c.key(key.Event{Rune: 'x', Direction: key.DirPress})
	if c.tool != ToolBox {
		t.Fatalf("tool = %v", c.tool)
	}
	s.Color = "#00ff00"
	c.pointer(press(centre(c.layout, 5, 5), mouse.ButtonLeft))
	c.pointer(centre(c.layout, 7, 6))
	if !c.dragging {
		t.Fatal("box drag not started")
	}
	c.pointer(release(centre(c.layout, 7, 6), mouse.ButtonLeft))
	if got := s.Window().Count("#00ff00"); got != 6 {
		t.Fatalf("box filled %d cells, want 6", got)
	}
}

func TestToolbarClicks(t *testing.T) {
	c, _ := newTestController(t)
	c.pointer(press(mouse.Event{X: float32(c.layout.toolRect(int(ToolErase)).Min.X + 2), Y: float32(c.layout.toolRect(int(ToolErase)).Min.Y + 2)}, mouse.ButtonLeft))
	if c.tool != ToolErase {
		t.Fatalf("tool = %v", c.tool)
	}
	r := c.layout.swatchRect(5)
	c.pointer(press(mouse.Event{X: float32(r.Min.X + 2), Y: float32(r.Min.Y + 2)}, mouse.ButtonLeft))
	if c.session.Color != palette.Palette()[5].Color {
		t.Fatalf("colour = %q", c.session.Color)
	}
}

func TestKeyboardActions(t *testing.T) {
	c, _ := newTestController(t)
	s := c.session
	start := s.Offset()

	c.key(key.Event{Code: key.CodeLeftArrow, Rune: -1, Direction: key.DirPress})
	c.key(key.Event{Code: key.CodeDownArrow, Rune: -1, Direction: key.DirPress})
	if s.Offset() != start.Add(image.Pt(-1, 1)) {
		t.Fatalf("offset = %v", s.Offset())
	}
	c.key(key.Event{Rune: 'c', Direction: key.DirPress})
	if s.Offset() != start {
		t.Fatalf("centre failed: %v", s.Offset())
	}

	c.key(key.Event{Rune: 'g', Direction: key.DirPress})
	if s.Connectivity != fill.Eight {
		t.Fatalf("connectivity = %v", s.Connectivity)
	}

	_ = s.Paint(0, 0)
	c.key(key.Event{Rune: 'r', Direction: key.DirPress})
	if px, _ := s.Pixel(15, 0); px != "#ff0000" {
		t.Fatalf("rotate did not move the pixel")
	}
	c.key(key.Event{Rune: 'R', Modifiers: key.ModShift, Direction: key.DirPress})
	if px, _ := s.Pixel(0, 0); px != "#ff0000" {
		t.Fatalf("shift+r did not rotate back")
	}

	c.key(key.Event{Rune: 'z', Modifiers: key.ModControl, Direction: key.DirPress})
	if px, _ := s.Pixel(15, 0); px != "#ff0000" {
		t.Fatalf("undo did not restore the rotated tile")
	}
	c.key(key.Event{Rune: 'y', Modifiers: key.ModControl, Direction: key.DirPress})
	if px, _ := s.Pixel(0, 0); px != "#ff0000" {
		t.Fatalf("redo failed")
	}

	c.key(key.Event{Rune: ']', Direction: key.DirPress})
	if s.Color == "#ff0000" {
		t.Fatalf("colour did not cycle")
	}
	if c.key(key.Event{Rune: 'q', Direction: key.DirPress}) {
		t.Fatalf("unbound key reported as handled")
	}
}

func TestSaveShortcut(t *testing.T) {
	c, store := newTestController(t)
	_ = c.session.Paint(1, 1)
	c.key(key.Event{Rune: 's', Modifiers: key.ModControl, Direction: key.DirPress})
	if c.session.Dirty() {
		t.Fatal("session still dirty after save")
	}
	if c.record == nil || c.record.ID == "" {
		t.Fatal("save did not create a record")
	}
	id := c.record.ID
	_ = c.session.Paint(2, 2)
	c.key(key.Event{Rune: 's', Modifiers: key.ModControl, Direction: key.DirPress})
	if c.record.ID != id {
		t.Fatalf("second save changed id %s -> %s", id, c.record.ID)
	}
	tiles, err := store.List()
	if err != nil || len(tiles) != 1 {
		t.Fatalf("store holds %d tiles: %v", len(tiles), err)
	}
	if tiles[0].Grid[2][2] != "#ff0000" {
		t.Fatalf("saved grid missing second paint")
	}
	if !strings.HasPrefix(c.status(), "saved ") {
		t.Fatalf("status = %q", c.status())
	}
}

func TestStatusLine(t *testing.T) {
	c, _ := newTestController(t)
	c.pointer(centre(c.layout, 4, 7))
	st := c.status()
	for _, want := range []string{"test", "P:Paint", "#ff0000", "4-way", "(4,7)"} {
		if !strings.Contains(st, want) {
			t.Errorf("status %q missing %q", st, want)
		}
	}
}

func TestQueueFrameKeepsLatest(t *testing.T) {
	ch := make(chan paintState, 1)
	queueFrame(ch, paintState{status: "first"})
	queueFrame(ch, paintState{status: "second"})
	if got := (<-ch).status; got != "second" {
		t.Fatalf("queued frame = %q, want second", got)
	}
	// A drained channel must not block the next frame.
	queueFrame(ch, paintState{status: "third"})
	select {
	case st := <-ch:
		if st.status != "third" {
			t.Fatalf("queued frame = %q, want third", st.status)
		}
	default:
		t.Fatal("frame was not queued")
	}
}
