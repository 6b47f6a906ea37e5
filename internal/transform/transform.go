// Package transform holds the rotate, flip and paint helpers that operate on
// a board's visible window. Every function returns a new grid and leaves
// its input untouched.
package transform

import (
	"github.com/example/tilesmith/internal/board"
	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/palette"
)

// Func maps a window to a new window of the same size.
type Func func(grid.Grid) grid.Grid

// RotateCW rotates a square grid a quarter turn clockwise.
func RotateCW(g grid.Grid) grid.Grid {
	n := len(g)
	out := grid.Square(n, palette.Transparent)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			out[x][n-1-y] = g[y][x]
		}
	}
	return out
}

// RotateCCW rotates a square grid a quarter turn counter-clockwise.
func RotateCCW(g grid.Grid) grid.Grid {
	n := len(g)
	out := grid.Square(n, palette.Transparent)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			out[n-1-x][y] = g[y][x]
		}
	}
	return out
}

// FlipHorizontal mirrors a square grid left to right.
func FlipHorizontal(g grid.Grid) grid.Grid {
	n := len(g)
	out := grid.Square(n, palette.Transparent)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			out[y][n-1-x] = g[y][x]
		}
	}
	return out
}

// FlipVertical mirrors a square grid top to bottom.
func FlipVertical(g grid.Grid) grid.Grid {
	n := len(g)
	out := grid.Square(n, palette.Transparent)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			out[n-1-y][x] = g[y][x]
		}
	}
	return out
}

// BoxFill paints the inclusive rectangle spanned by two opposite corners.
// Corners may be given in any order; cells outside g are skipped.
func BoxFill(g grid.Grid, x1, y1, x2, y2 int, c palette.Color) grid.Grid {
	out := g.Clone()
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		for x := min(x1, x2); x <= max(x1, x2); x++ {
			if out.In(x, y) {
				out[y][x] = c
			}
		}
	}
	return out
}

// Brush blends strength of c into the cell at column x, row y.
func Brush(g grid.Grid, x, y int, c palette.Color, strength float64) grid.Grid {
	out := g.Clone()
	if out.In(x, y) {
		out[y][x] = palette.Blend(out[y][x], c, strength)
	}
	return out
}

// ApplyWindow returns a clone of b whose window has been replaced by
// fn(window). b itself is not modified.
func ApplyWindow(b *board.Board, fn Func) (*board.Board, error) {
	nb := b.Clone()
	if err := nb.SetWindow(fn(nb.Window())); err != nil {
		return nil, err
	}
	return nb, nil
}
