package render

import (
	"image"

	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/palette"
)

// ShadowOptions configures the drop shadow effect applied to a tile.
type ShadowOptions struct {
	Offset image.Point
	Color  palette.Color
}

// DefaultShadowOptions returns a one pixel shadow down and to the right at
// half opacity, the usual look for sprite outlines.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Offset: image.Pt(1, 1),
		Color:  "rgba(0,0,0,0.5)",
	}
}

// DropShadow returns a copy of g in which every transparent cell that lies
// at opts.Offset from a painted cell takes the shadow colour. Painted cells
// are never covered and the shadow is clipped to the tile.
func DropShadow(g grid.Grid, opts ShadowOptions) grid.Grid {
	out := g.Clone()
	if opts.Offset == (image.Point{}) || opts.Color.IsTransparent() {
		return out
	}
	for y, row := range g {
		for x, c := range row {
			if c.IsTransparent() {
				continue
			}
			sx, sy := x+opts.Offset.X, y+opts.Offset.Y
			if !g.In(sx, sy) || !g[sy][sx].IsTransparent() {
				continue
			}
			out[sy][sx] = opts.Color
		}
	}
	return out
}
