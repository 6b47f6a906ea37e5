package board

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/palette"
)

func mustNew(t *testing.T, size int, opts ...Option) *Board {
	t.Helper()
	b, err := New(size, opts...)
	if err != nil {
		t.Fatalf("New(%d): %v", size, err)
	}
	return b
}

func TestNewDefaults(t *testing.T) {
	b := mustNew(t, 8)
	if b.BackingSize() != 24 {
		t.Fatalf("backing size %d, want 24", b.BackingSize())
	}
	if b.Offset() != image.Pt(8, 8) {
		t.Fatalf("window %v, want centred (8,8)", b.Offset())
	}
	v := b.VirtualGrid()
	if v.Height() != 24 || !v.IsSquare() {
		t.Fatalf("virtual grid is %dx%d", v.Width(), v.Height())
	}
	if got := v.Count(palette.Transparent); got != 24*24 {
		t.Fatalf("expected all cells transparent, got %d", got)
	}
}

func TestNewWithFill(t *testing.T) {
	b := mustNew(t, 2, WithFill("#123456"))
	if got := b.VirtualGrid().Count("#123456"); got != 36 {
		t.Fatalf("expected 36 filled cells, got %d", got)
	}
}

func TestNewRejectsInvalidDimension(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); !errors.Is(err, ErrInvalidDimension) {
			t.Errorf("New(%d) err = %v, want ErrInvalidDimension", size, err)
		}
	}
}

func TestWindowIsSnapshot(t *testing.T) {
	b := mustNew(t, 4)
	w := b.Window()
	w[0][0] = "#ffffff"
	got, err := b.Pixel(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != palette.Transparent {
		t.Fatalf("window snapshot mutated the board: %q", got)
	}
}

func TestSetWindow(t *testing.T) {
	b := mustNew(t, 2)
	g := grid.Grid{{"#000001", "#000002"}, {"#000003", "#000004"}}
	if err := b.SetWindow(g); err != nil {
		t.Fatal(err)
	}
	if !b.Window().Equal(g) {
		t.Fatalf("window = %v, want %v", b.Window(), g)
	}
	v := b.VirtualGrid()
	if v[2][2] != "#000001" || v[3][3] != "#000004" {
		t.Fatalf("window not written at centre of backing grid")
	}
}

func TestSetWindowDimensionMismatch(t *testing.T) {
	b := mustNew(t, 2)
	bad := []grid.Grid{
		grid.Square(3, "#000000"),
		{{"#000000", "#000000"}, {"#000000"}},
		nil,
	}
	for _, g := range bad {
		if err := b.SetWindow(g); !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("SetWindow(%v) err = %v, want ErrDimensionMismatch", g, err)
		}
	}
	if got := b.VirtualGrid().Count(palette.Transparent); got != 36 {
		t.Fatalf("rejected window modified the board")
	}
}

func TestPixelOutOfRange(t *testing.T) {
	b := mustNew(t, 4)
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		if err := b.SetPixel(p.Y, p.X, "#ffffff"); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("SetPixel(%d,%d) err = %v, want ErrOutOfRange", p.Y, p.X, err)
		}
		if _, err := b.Pixel(p.Y, p.X); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Pixel(%d,%d) err = %v, want ErrOutOfRange", p.Y, p.X, err)
		}
	}
	if got := b.VirtualGrid().Count(palette.Transparent); got != 144 {
		t.Fatalf("out of range writes modified the board")
	}
}

func TestShiftClampsAtBoundary(t *testing.T) {
	b := mustNew(t, 8)
	b.Shift(0, -100)
	if got := b.Offset().Y; got != 0 {
		t.Fatalf("window.y = %d, want 0", got)
	}
	b.Shift(100, 100)
	if b.Offset() != image.Pt(16, 16) {
		t.Fatalf("window = %v, want (16,16)", b.Offset())
	}
	b.Shift(100, 0)
	if b.Offset() != image.Pt(16, 16) {
		t.Fatalf("shift at boundary moved the window: %v", b.Offset())
	}
}

func TestShiftSaturatesOnExtremeDeltas(t *testing.T) {
	b := mustNew(t, 8)
	b.Shift(math.MaxInt, 0)
	if b.Offset() != image.Pt(16, 8) {
		t.Fatalf("Shift(MaxInt, 0) window = %v, want (16,8)", b.Offset())
	}
	b.Shift(math.MinInt, math.MinInt)
	if b.Offset() != image.Pt(0, 0) {
		t.Fatalf("Shift(MinInt, MinInt) window = %v, want (0,0)", b.Offset())
	}
	b.Shift(math.MaxInt, math.MaxInt)
	if b.Offset() != image.Pt(16, 16) {
		t.Fatalf("Shift(MaxInt, MaxInt) window = %v, want (16,16)", b.Offset())
	}
	b.Shift(0, math.MinInt)
	if b.Offset() != image.Pt(16, 0) {
		t.Fatalf("Shift(0, MinInt) window = %v, want (16,0)", b.Offset())
	}
}

func TestShiftBoundedness(t *testing.T) {
	const d = 5
	b := mustNew(t, d)
	moves := []image.Point{{3, -7}, {-20, 4}, {11, 11}, {-1, -30}, {6, 2}, {0, 0}, {-4, 50}}
	for _, m := range moves {
		b.Shift(m.X, m.Y)
		off := b.Offset()
		if off.X < 0 || off.X > 2*d || off.Y < 0 || off.Y > 2*d {
			t.Fatalf("after shift %v window %v escaped [0,%d]", m, off, 2*d)
		}
	}
}

func TestShiftRoundTripIsLossless(t *testing.T) {
	b := mustNew(t, 4)
	if err := b.SetPixel(0, 0, "#112233"); err != nil {
		t.Fatal(err)
	}
	b.Shift(1, 0)
	b.Shift(-1, 0)
	got, err := b.Pixel(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != "#112233" {
		t.Fatalf("Pixel(0,0) = %q, want #112233", got)
	}
}

func TestShiftRevealsMargin(t *testing.T) {
	b := mustNew(t, 4)
	b.FillWindow("#ff0000")
	before := b.Window()
	for _, d := range []image.Point{{4, 0}, {0, 3}, {-2, -4}, {3, 3}} {
		b.Shift(d.X, d.Y)
		b.Shift(-d.X, -d.Y)
		if !b.Window().Equal(before) {
			t.Fatalf("shift %v and back changed window content", d)
		}
	}
	b.Shift(4, 0)
	if got := b.Window().Count("#ff0000"); got != 0 {
		t.Fatalf("expected full-tile shift to reveal empty margin, got %d painted cells", got)
	}
}

func TestCenterKeepsPixels(t *testing.T) {
	b := mustNew(t, 4)
	if err := b.SetPixel(1, 1, "#abcdef"); err != nil {
		t.Fatal(err)
	}
	b.Shift(2, 3)
	b.Center()
	if b.Offset() != image.Pt(4, 4) {
		t.Fatalf("window = %v, want (4,4)", b.Offset())
	}
	if got, _ := b.Pixel(1, 1); got != "#abcdef" {
		t.Fatalf("centering lost pixel data, got %q", got)
	}
}

func TestFillWindowOnlyTouchesWindow(t *testing.T) {
	b := mustNew(t, 3)
	b.FillWindow("#00ff00")
	v := b.VirtualGrid()
	if got := v.Count("#00ff00"); got != 9 {
		t.Fatalf("expected 9 filled cells, got %d", got)
	}
	if v[3][3] != "#00ff00" || v[5][5] != "#00ff00" || v[2][2] != palette.Transparent {
		t.Fatalf("fill landed outside the window")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := mustNew(t, 4)
	c := b.Clone()
	if err := c.SetPixel(0, 0, "#ffffff"); err != nil {
		t.Fatal(err)
	}
	c.Shift(1, 1)
	if got, _ := b.Pixel(0, 0); got != palette.Transparent {
		t.Fatalf("clone edit leaked into original")
	}
	if b.Offset() != image.Pt(4, 4) {
		t.Fatalf("clone shift moved original window")
	}
}

func TestStateRoundTrip(t *testing.T) {
	b := mustNew(t, 4)
	_ = b.SetPixel(2, 3, "#010203")
	b.Shift(-3, 2)
	r, err := FromState(b.State())
	if err != nil {
		t.Fatal(err)
	}
	if r.Offset() != b.Offset() || !r.VirtualGrid().Equal(b.VirtualGrid()) {
		t.Fatalf("restored board differs from original")
	}
}

func TestFromStateValidates(t *testing.T) {
	if _, err := FromState(State{TileSize: 0}); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("expected ErrInvalidDimension, got %v", err)
	}
	if _, err := FromState(State{TileSize: 2, Virtual: grid.Square(5, palette.Transparent)}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	r, err := FromState(State{TileSize: 2, Virtual: grid.Square(6, palette.Transparent), Window: image.Pt(-5, 9)})
	if err != nil {
		t.Fatal(err)
	}
	if r.Offset() != image.Pt(0, 4) {
		t.Errorf("window = %v, want clamped (0,4)", r.Offset())
	}
}

func TestResizeCopiesOverlap(t *testing.T) {
	b := mustNew(t, 4)
	_ = b.SetPixel(0, 0, "#000001")
	_ = b.SetPixel(1, 1, "#000002")
	_ = b.SetPixel(3, 3, "#000003")
	small, err := b.Resize(2)
	if err != nil {
		t.Fatal(err)
	}
	want := grid.Grid{{"#000001", palette.Transparent}, {palette.Transparent, "#000002"}}
	if !small.Window().Equal(want) {
		t.Fatalf("resized window = %v, want %v", small.Window(), want)
	}
	big, err := small.Resize(8)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := big.Pixel(1, 1); got != "#000002" {
		t.Fatalf("grow lost pixel, got %q", got)
	}
	if got := big.Window().Count(palette.Transparent); got != 62 {
		t.Fatalf("expected 62 transparent cells after grow, got %d", got)
	}
	if _, err := b.Resize(0); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("Resize(0) err = %v", err)
	}
}

func TestEqual(t *testing.T) {
	a := mustNew(t, 2)
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatalf("clone not equal to original")
	}
	b.Shift(1, 0)
	if a.Equal(b) {
		t.Fatalf("boards with different windows reported equal")
	}
}
