package render

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/theme"
)

// NoCursor disables the cursor marker in Terminal.
var NoCursor = image.Pt(-1, -1)

// Terminal renders g as two-column blocks of background colour, one line
// per row. Transparent cells show the theme's checkerboard, translucent
// cells are composited over it and the cell at cursor is marked.
func Terminal(g grid.Grid, cursor image.Point, th *theme.Theme) string {
	if th == nil {
		th = theme.Default()
	}
	light := colorful.Color{R: float64(th.CheckerLight.R) / 255, G: float64(th.CheckerLight.G) / 255, B: float64(th.CheckerLight.B) / 255}
	dark := colorful.Color{R: float64(th.CheckerDark.R) / 255, G: float64(th.CheckerDark.G) / 255, B: float64(th.CheckerDark.B) / 255}
	cursorFg := lipgloss.Color(theme.Hex(th.Cursor))

	var sb strings.Builder
	for y, row := range g {
		for x, c := range row {
			under := light
			if (x+y)%2 == 1 {
				under = dark
			}
			bg := Composite(c, under)
			style := lipgloss.NewStyle().Background(lipgloss.Color(bg.Hex()))
			cell := "  "
			if image.Pt(x, y) == cursor {
				cell = "[]"
				style = style.Foreground(cursorFg).Bold(true)
			}
			sb.WriteString(style.Render(cell))
		}
		if y < len(g)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Composite blends the cell colour c over an opaque backdrop.
func Composite(c palette.Color, under colorful.Color) colorful.Color {
	rgba, err := palette.ToRGBA(c)
	if err != nil || rgba.A == 0 {
		return under
	}
	top := colorful.Color{R: float64(rgba.R) / 255, G: float64(rgba.G) / 255, B: float64(rgba.B) / 255}
	if rgba.A == 255 {
		return top
	}
	return under.BlendRgb(top, float64(rgba.A)/255)
}

// Swatch renders a short block of colour c followed by label.
func Swatch(c palette.Color, label string) string {
	bg := Composite(c, colorful.Color{R: 1, G: 1, B: 1})
	return lipgloss.NewStyle().Background(lipgloss.Color(bg.Hex())).Render("    ") + " " + label
}
