// Package grid provides the row-major colour matrix shared by the board,
// fill and transform packages.
package grid

import "github.com/example/tilesmith/internal/palette"

// Grid is a row-major matrix of colours addressed as g[row][col].
type Grid [][]palette.Color

// New returns a width x height grid with every cell set to fill.
func New(width, height int, fill palette.Color) Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := make(Grid, height)
	for y := range g {
		row := make([]palette.Color, width)
		for x := range row {
			row[x] = fill
		}
		g[y] = row
	}
	return g
}

// Square returns an n x n grid filled with fill.
func Square(n int, fill palette.Color) Grid { return New(n, n, fill) }

// Height reports the number of rows.
func (g Grid) Height() int { return len(g) }

// Width reports the length of the first row, or zero for an empty grid.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// IsSquare reports whether every row has as many cells as there are rows.
func (g Grid) IsSquare() bool {
	for _, row := range g {
		if len(row) != len(g) {
			return false
		}
	}
	return true
}

// In reports whether column x of row y exists. Rows are checked
// individually so jagged grids are handled safely.
func (g Grid) In(x, y int) bool {
	return y >= 0 && y < len(g) && x >= 0 && x < len(g[y])
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for y, row := range g {
		out[y] = append([]palette.Color(nil), row...)
	}
	return out
}

// Equal reports whether both grids have identical shape and cells.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for y := range g {
		if len(g[y]) != len(other[y]) {
			return false
		}
		for x := range g[y] {
			if g[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

// Count returns how many cells hold c.
func (g Grid) Count(c palette.Color) int {
	n := 0
	for _, row := range g {
		for _, cell := range row {
			if cell == c {
				n++
			}
		}
	}
	return n
}
