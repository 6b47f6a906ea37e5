package render

import (
	"fmt"
	"image"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/theme"
)

const (
	sheetMargin   = 8
	sheetCaption  = 20
	sheetFontSize = 12
)

var (
	labelFaceOnce sync.Once
	labelFace     font.Face
)

func captionFace() font.Face {
	labelFaceOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			labelFace = basicfont.Face7x13
			return
		}
		labelFace = truetype.NewFace(f, &truetype.Options{Size: sheetFontSize})
	})
	return labelFace
}

// Sheet renders a preview of g: the tile over a checkerboard with a pixel
// grid, framed by a margin and captioned with title and size.
func Sheet(g grid.Grid, scale int, th *theme.Theme, title string) image.Image {
	if th == nil {
		th = theme.Default()
	}
	if scale < 1 {
		scale = 1
	}
	tile := Image(g, scale, th)
	w := tile.Bounds().Dx() + 2*sheetMargin
	h := tile.Bounds().Dy() + 2*sheetMargin + sheetCaption

	dc := gg.NewContext(w, h)
	dc.SetColor(th.Background)
	dc.Clear()
	dc.DrawImage(tile, sheetMargin, sheetMargin)

	if scale >= 4 {
		dc.SetColor(th.GridLine)
		dc.SetLineWidth(1)
		for i := 0; i <= g.Width(); i++ {
			x := float64(sheetMargin+i*scale) + 0.5
			dc.DrawLine(x, sheetMargin, x, float64(sheetMargin+tile.Bounds().Dy()))
		}
		for i := 0; i <= g.Height(); i++ {
			y := float64(sheetMargin+i*scale) + 0.5
			dc.DrawLine(sheetMargin, y, float64(sheetMargin+tile.Bounds().Dx()), y)
		}
		dc.Stroke()
	}

	dc.SetColor(th.WindowBorder)
	dc.SetLineWidth(1)
	dc.DrawRectangle(sheetMargin-0.5, sheetMargin-0.5, float64(tile.Bounds().Dx())+1, float64(tile.Bounds().Dy())+1)
	dc.Stroke()

	caption := fmt.Sprintf("%d×%d", g.Width(), g.Height())
	if title != "" {
		caption = title + "  " + caption
	}
	dc.SetFontFace(captionFace())
	dc.SetColor(th.Foreground)
	dc.DrawStringAnchored(caption, float64(w)/2, float64(h-sheetCaption/2), 0.5, 0.35)
	return dc.Image()
}

// SaveSheet writes the preview sheet of g as a PNG file.
func SaveSheet(path string, g grid.Grid, scale int, th *theme.Theme, title string) error {
	img := Sheet(g, scale, th, title)
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("save sheet %s: %w", path, err)
	}
	return nil
}
