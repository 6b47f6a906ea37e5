package theme

import (
	"image/color"
)

// Theme defines the colours used by the graphical and terminal editors.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the canvas
	Foreground color.RGBA // Main text colour

	// Toolbar and palette strip
	ToolbarBackground color.RGBA
	SwatchBorder      color.RGBA
	SwatchSelected    color.RGBA // Outline of the active drawing colour
	StatusText        color.RGBA

	// Canvas
	CheckerLight color.RGBA // Transparent cells are drawn as a checkerboard
	CheckerDark  color.RGBA
	GridLine     color.RGBA
	WindowBorder color.RGBA // Frame around the visible tile
	Cursor       color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Background:        color.RGBA{220, 220, 220, 255},
		Foreground:        color.RGBA{0, 0, 0, 255},
		ToolbarBackground: color.RGBA{200, 200, 200, 255},
		SwatchBorder:      color.RGBA{0, 0, 0, 255},
		SwatchSelected:    color.RGBA{255, 255, 255, 255},
		StatusText:        color.RGBA{40, 40, 40, 255},
		CheckerLight:      color.RGBA{220, 220, 220, 255},
		CheckerDark:       color.RGBA{192, 192, 192, 255},
		GridLine:          color.RGBA{128, 128, 128, 96},
		WindowBorder:      color.RGBA{255, 0, 0, 255},
		Cursor:            color.RGBA{255, 200, 0, 255},
	}
}
