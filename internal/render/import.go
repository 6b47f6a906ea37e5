package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/palette"
)

// Import samples img down (or up) to a size×size tile. Images whose sides
// are whole multiples of size, such as tiles previously exported at a
// scale, are sampled nearest-neighbour so the round trip is exact; anything
// else is resampled bilinearly. Pixels less than half opaque become
// transparent.
func Import(img image.Image, size int) grid.Grid {
	if size < 1 || img == nil || img.Bounds().Empty() {
		return grid.Square(max(size, 0), palette.Transparent)
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	var scaler xdraw.Scaler = xdraw.ApproxBiLinear
	if b.Dx()%size == 0 && b.Dy()%size == 0 {
		scaler = xdraw.NearestNeighbor
	}
	scaler.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)

	g := grid.Square(size, palette.Transparent)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := dst.NRGBAAt(x, y)
			if c.A < 128 {
				continue
			}
			g[y][x] = palette.FromRGBA(color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
	return g
}
