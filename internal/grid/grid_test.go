package grid

import (
	"testing"

	"github.com/example/tilesmith/internal/palette"
)

func TestNewFillsEveryCell(t *testing.T) {
	g := New(3, 2, palette.Transparent)
	if g.Width() != 3 || g.Height() != 2 {
		t.Fatalf("unexpected size %dx%d", g.Width(), g.Height())
	}
	if got := g.Count(palette.Transparent); got != 6 {
		t.Fatalf("expected 6 transparent cells, got %d", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	g := Square(2, "#000000")
	c := g.Clone()
	c[0][0] = "#ffffff"
	if g[0][0] != "#000000" {
		t.Fatalf("clone shares storage with original")
	}
	if g.Equal(c) {
		t.Fatalf("expected grids to differ after edit")
	}
}

func TestInHandlesJaggedRows(t *testing.T) {
	g := Grid{{"#000000", "#000000"}, {"#000000"}}
	if !g.In(1, 0) {
		t.Errorf("expected (1,0) in grid")
	}
	if g.In(1, 1) {
		t.Errorf("expected (1,1) outside short row")
	}
	if g.In(-1, 0) || g.In(0, 2) {
		t.Errorf("expected negative and past-end coordinates outside")
	}
	if g.IsSquare() {
		t.Errorf("jagged grid reported as square")
	}
}
