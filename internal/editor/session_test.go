package editor

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/example/tilesmith/internal/board"
	"github.com/example/tilesmith/internal/fill"
	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/palette"
)

func newSession(t *testing.T, size int, opts ...Option) *Session {
	t.Helper()
	s, err := New(size, opts...)
	if err != nil {
		t.Fatalf("New(%d): %v", size, err)
	}
	return s
}

func pixelAt(t *testing.T, s *Session, x, y int) palette.Color {
	t.Helper()
	c, err := s.Pixel(x, y)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewRejectsBadSize(t *testing.T) {
	if _, err := New(0); !errors.Is(err, board.ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
}

func TestPaintAndUndo(t *testing.T) {
	s := newSession(t, 4, WithColor("#ff0000"))
	if err := s.Paint(1, 2); err != nil {
		t.Fatal(err)
	}
	if got := pixelAt(t, s, 1, 2); got != "#ff0000" {
		t.Fatalf("pixel = %q, want #ff0000", got)
	}
	if !s.Dirty() {
		t.Fatalf("paint did not mark the session dirty")
	}
	if !s.Undo() {
		t.Fatalf("undo failed")
	}
	if got := pixelAt(t, s, 1, 2); got != palette.Transparent {
		t.Fatalf("undo left %q", got)
	}
	if !s.Redo() || pixelAt(t, s, 1, 2) != "#ff0000" {
		t.Fatalf("redo did not restore the paint")
	}
}

func TestSnapshotsAreImmutable(t *testing.T) {
	s := newSession(t, 2)
	before := s.Board()
	if err := s.Paint(0, 0); err != nil {
		t.Fatal(err)
	}
	if c, _ := before.Pixel(0, 0); c != palette.Transparent {
		t.Fatalf("earlier snapshot was mutated")
	}
}

func TestPaintOutOfRange(t *testing.T) {
	s := newSession(t, 2)
	if err := s.Paint(5, 0); !errors.Is(err, board.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if s.CanUndo() {
		t.Fatalf("failed paint recorded history")
	}
	if err := s.Brush(-1, 0); !errors.Is(err, board.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange from brush, got %v", err)
	}
}

func TestNoOpEditsLeaveNoHistory(t *testing.T) {
	s := newSession(t, 3)
	if err := s.Fill(10, 10); err != nil {
		t.Fatal(err)
	}
	s.Center()
	if s.CanUndo() {
		t.Fatalf("no-op edits were recorded")
	}
}

func TestFillUsesConnectivity(t *testing.T) {
	s := newSession(t, 3, WithColor("#00ff00"))
	for i := 0; i < 3; i++ {
		if err := s.PaintColor(i, i, "#ff0000"); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Fill(0, 0); err != nil {
		t.Fatal(err)
	}
	if got := s.Window().Count("#00ff00"); got != 1 {
		t.Fatalf("4-way fill painted %d cells, want 1", got)
	}
	s.Undo()
	s.Connectivity = fill.Eight
	if err := s.Fill(0, 0); err != nil {
		t.Fatal(err)
	}
	if got := s.Window().Count("#00ff00"); got != 3 {
		t.Fatalf("8-way fill painted %d cells, want 3", got)
	}
}

func TestShiftAndCenter(t *testing.T) {
	s := newSession(t, 4)
	s.Shift(-100, 2)
	if s.Offset() != image.Pt(0, 6) {
		t.Fatalf("offset = %v, want (0,6)", s.Offset())
	}
	s.Center()
	if s.Offset() != image.Pt(4, 4) {
		t.Fatalf("offset = %v, want (4,4)", s.Offset())
	}
	s.Undo()
	if s.Offset() != image.Pt(0, 6) {
		t.Fatalf("undo of center restored %v", s.Offset())
	}
}

func TestTransforms(t *testing.T) {
	s := newSession(t, 2, WithColor("#0000ff"))
	_ = s.Paint(0, 0)
	if err := s.RotateCW(); err != nil {
		t.Fatal(err)
	}
	if pixelAt(t, s, 1, 0) != "#0000ff" {
		t.Fatalf("rotate cw misplaced pixel: %v", s.Window())
	}
	if err := s.FlipVertical(); err != nil {
		t.Fatal(err)
	}
	if pixelAt(t, s, 1, 1) != "#0000ff" {
		t.Fatalf("flip v misplaced pixel: %v", s.Window())
	}
	if err := s.FlipHorizontal(); err != nil {
		t.Fatal(err)
	}
	if err := s.RotateCCW(); err != nil {
		t.Fatal(err)
	}
	if pixelAt(t, s, 1, 1) != "#0000ff" {
		t.Fatalf("rotate ccw misplaced pixel: %v", s.Window())
	}
}

func TestResizeAndLoadWindow(t *testing.T) {
	s := newSession(t, 4)
	_ = s.PaintColor(1, 1, "#ffffff")
	if err := s.Resize(2); err != nil {
		t.Fatal(err)
	}
	if s.TileSize() != 2 || pixelAt(t, s, 1, 1) != "#ffffff" {
		t.Fatalf("resize lost the overlapping pixel")
	}
	s.Shift(1, 1)
	g := grid.Square(2, "#123456")
	if err := s.LoadWindow(g); err != nil {
		t.Fatal(err)
	}
	if s.Offset() != image.Pt(2, 2) || !s.Window().Equal(g) {
		t.Fatalf("load window did not recentre and replace the tile")
	}
	if err := s.LoadWindow(grid.Square(3, "#000000")); !errors.Is(err, board.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestTileSizeBounds(t *testing.T) {
	if _, err := New(MaxTileSize + 1); !errors.Is(err, board.ErrInvalidDimension) {
		t.Fatalf("New(%d): expected ErrInvalidDimension, got %v", MaxTileSize+1, err)
	}
	s := newSession(t, 4)
	if err := s.ExecLine("resize 100000"); !errors.Is(err, board.ErrInvalidDimension) {
		t.Fatalf("resize 100000: expected ErrInvalidDimension, got %v", err)
	}
	if s.TileSize() != 4 || s.CanUndo() {
		t.Fatalf("rejected resize changed the session")
	}
	if err := s.Resize(MaxTileSize); err != nil || s.TileSize() != MaxTileSize {
		t.Fatalf("Resize(%d): %v", MaxTileSize, err)
	}
}

func TestShiftCommandSaturates(t *testing.T) {
	s := newSession(t, 4)
	if err := s.ExecLine("shift 9223372036854775807 -9223372036854775808"); err != nil {
		t.Fatal(err)
	}
	if s.Offset() != image.Pt(8, 0) {
		t.Fatalf("window = %v, want (8,0)", s.Offset())
	}
	if err := s.ExecLine("center"); err != nil {
		t.Fatal(err)
	}
	s.FillWindow("#00ff00")
	if got := s.Window().Count("#00ff00"); got != 16 {
		t.Fatalf("FillWindow painted %d cells, want 16", got)
	}
	s.FillWindow("#00ff00")
	if undo, _ := s.history.Len(); undo != 3 {
		t.Fatalf("history has %d steps, want 3", undo)
	}
}

func TestExec(t *testing.T) {
	s := newSession(t, 4)
	script := []string{
		"color #ff0000",
		"box 0 0 1 1",
		"fill 3 3 blue",
		"paint 2 0 #00ff00",
		"erase 0 0",
		"shift 1 0",
		"shift -1 0",
		"rotate cw",
		"rotate ccw",
		"flip h",
		"flip h",
		"connectivity 8",
		"strength 1",
		"brush 3 0 #ffffff",
	}
	for _, line := range script {
		if err := s.ExecLine(line); err != nil {
			t.Fatalf("%q: %v", line, err)
		}
	}
	want := map[image.Point]palette.Color{
		{0, 0}: palette.Transparent,
		{1, 0}: "#ff0000",
		{2, 0}: "#00ff00",
		{3, 0}: "#ffffff",
		{1, 1}: "#ff0000",
		{3, 3}: "#0000ff",
	}
	for p, c := range want {
		if got := pixelAt(t, s, p.X, p.Y); got != c {
			t.Errorf("pixel %v = %q, want %q", p, got, c)
		}
	}
	if s.Color != "#ff0000" {
		t.Errorf("per-command colour leaked into the session colour: %q", s.Color)
	}
	if s.Connectivity != fill.Eight || s.Strength != 1 {
		t.Errorf("settings not applied: %v %v", s.Connectivity, s.Strength)
	}
}

func TestExecErrors(t *testing.T) {
	s := newSession(t, 2)
	if err := s.ExecLine("explode"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	cases := map[string]string{
		"paint 1":         "requires 2 integer arguments",
		"paint a b":       "invalid integer",
		"paint 0 0 nope":  "invalid color",
		"rotate sideways": "cw or ccw",
		"strength 2":      "(0,1]",
		"undo":            "nothing to undo",
		"paint 9 9":       "outside the tile window",
	}
	for line, want := range cases {
		err := s.ExecLine(line)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("%q: expected error containing %q, got %v", line, want, err)
		}
	}
	if err := s.Exec(nil); err == nil {
		t.Errorf("expected error for empty command")
	}
}

func TestCommandsListed(t *testing.T) {
	list := strings.Join(Commands(), "\n")
	for _, name := range []string{"paint", "fill8", "shift", "undo"} {
		if !strings.Contains(list, name) {
			t.Errorf("Commands() missing %q", name)
		}
	}
}
