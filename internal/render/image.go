// Package render turns tile grids into images and terminal output, and
// turns images back into tile grids.
package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/theme"
)

// NRGBA converts a cell colour to a straight-alpha colour. Unparseable cells
// render as transparent.
func NRGBA(c palette.Color) color.NRGBA {
	rgba, err := palette.ToRGBA(c)
	if err != nil {
		return color.NRGBA{}
	}
	return color.NRGBA{R: rgba.R, G: rgba.G, B: rgba.B, A: rgba.A}
}

// Pixels renders g at one image pixel per cell. Transparent cells stay
// transparent.
func Pixels(g grid.Grid) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	for y, row := range g {
		for x, c := range row {
			img.SetNRGBA(x, y, NRGBA(c))
		}
	}
	return img
}

// Image renders g with every cell scaled to scale×scale pixels. When th is
// non-nil the tile is composited over the theme's checkerboard, otherwise
// transparency is preserved.
func Image(g grid.Grid, scale int, th *theme.Theme) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	src := Pixels(g)
	dst := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx()*scale, src.Bounds().Dy()*scale))
	op := xdraw.Src
	if th != nil {
		Checkerboard(dst, dst.Bounds(), checkerSize(scale), th.CheckerLight, th.CheckerDark)
		op = xdraw.Over
	}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), op, nil)
	return dst
}

func checkerSize(scale int) int {
	if scale < 4 {
		return scale
	}
	return scale / 2
}

// Checkerboard fills r with alternating squares of size cell.
func Checkerboard(dst draw.Image, r image.Rectangle, cell int, light, dark color.Color) {
	if cell < 1 {
		cell = 1
	}
	lu, du := image.NewUniform(light), image.NewUniform(dark)
	for y := r.Min.Y; y < r.Max.Y; y += cell {
		for x := r.Min.X; x < r.Max.X; x += cell {
			src := lu
			if ((x-r.Min.X)/cell+(y-r.Min.Y)/cell)%2 == 1 {
				src = du
			}
			sq := image.Rect(x, y, x+cell, y+cell).Intersect(r)
			draw.Draw(dst, sq, src, image.Point{}, draw.Src)
		}
	}
}
