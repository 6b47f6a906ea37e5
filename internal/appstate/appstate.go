package appstate

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/render"
	"github.com/example/tilesmith/internal/theme"
)

const (
	toolbarWidth = 80
	bottomHeight = 24
	buttonHeight = 22
	swatchSize   = 18
	canvasMargin = 8
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// Tool is what a left click does on the canvas.
type Tool int

const (
	ToolPaint Tool = iota
	ToolFill
	ToolBrush
	ToolBox
	ToolErase
)

var toolNames = [...]string{"P:Paint", "F:Fill", "B:Brush", "X:Box", "E:Erase"}

func (t Tool) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return "?"
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// layout positions the toolbar, canvas and status line for a window size.
type layout struct {
	width, height int
	tileSize      int
	zoom          int
	canvas        image.Rectangle
}

func newLayout(width, height, tileSize int) layout {
	l := layout{width: width, height: height, tileSize: tileSize, zoom: 1}
	availW := width - toolbarWidth - 2*canvasMargin
	availH := height - bottomHeight - 2*canvasMargin
	if tileSize > 0 {
		if z := min(availW, availH) / tileSize; z > 1 {
			l.zoom = z
		}
	}
	side := tileSize * l.zoom
	x0 := toolbarWidth + canvasMargin
	y0 := canvasMargin
	l.canvas = image.Rect(x0, y0, x0+side, y0+side)
	return l
}

// cellAt maps a window point to window-local tile coordinates.
func (l layout) cellAt(p image.Point) (image.Point, bool) {
	if !p.In(l.canvas) {
		return image.Point{}, false
	}
	q := p.Sub(l.canvas.Min).Div(l.zoom)
	return q, true
}

// cellRect maps a rectangle of tile cells to window pixels.
func (l layout) cellRect(r image.Rectangle) image.Rectangle {
	return scaleRect(r, l.zoom).Add(l.canvas.Min)
}

func scaleRect(r image.Rectangle, k int) image.Rectangle {
	return image.Rectangle{Min: r.Min.Mul(k), Max: r.Max.Mul(k)}
}

func (l layout) toolRect(i int) image.Rectangle {
	y := 4 + i*(buttonHeight+2)
	return image.Rect(4, y, toolbarWidth-4, y+buttonHeight)
}

func (l layout) paletteTop() int {
	return l.toolRect(len(toolNames)).Min.Y + 4
}

func (l layout) swatchRect(i int) image.Rectangle {
	cols := (toolbarWidth - 8) / swatchSize
	x := 4 + (i%cols)*swatchSize
	y := l.paletteTop() + (i/cols)*swatchSize
	return image.Rect(x, y, x+swatchSize-2, y+swatchSize-2)
}

func (l layout) minimapRect() image.Rectangle {
	last := l.swatchRect(len(palette.Palette()) - 1)
	side := toolbarWidth - 8
	return image.Rect(4, last.Max.Y+8, 4+side, last.Max.Y+8+side)
}

func (l layout) statusRect() image.Rectangle {
	return image.Rect(0, l.height-bottomHeight, l.width, l.height)
}

// hit returns which toolbar element contains p: a tool, a palette index or
// neither.
func (l layout) hit(p image.Point) (tool Tool, swatch int, ok bool) {
	for i := range toolNames {
		if p.In(l.toolRect(i)) {
			return Tool(i), -1, true
		}
	}
	for i := range palette.Palette() {
		if p.In(l.swatchRect(i)) {
			return -1, i, true
		}
	}
	return -1, -1, false
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func drawRect(dst draw.Image, r image.Rectangle, c color.Color, thick int) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thick), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-thick, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+thick, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-thick, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func drawLabel(dst draw.Image, x, y int, s string, c color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func drawToolbar(dst *image.RGBA, l layout, th *theme.Theme, st paintState) {
	fillRect(dst, image.Rect(0, 0, toolbarWidth, l.height-bottomHeight), th.ToolbarBackground)
	for i, name := range toolNames {
		r := l.toolRect(i)
		if Tool(i) == st.tool {
			fillRect(dst, r, th.SwatchSelected)
		}
		drawRect(dst, r, th.SwatchBorder, 1)
		drawLabel(dst, r.Min.X+4, r.Min.Y+15, name, th.Foreground)
	}
	for i, pc := range palette.Palette() {
		r := l.swatchRect(i)
		render.Checkerboard(dst, r, 4, th.CheckerLight, th.CheckerDark)
		fillRect(dst, r, render.NRGBA(pc.Color))
		border, thick := th.SwatchBorder, 1
		if pc.Color == st.color {
			border, thick = th.SwatchSelected, 2
		}
		drawRect(dst, r.Inset(-thick), border, thick)
	}
}

// drawMinimap shows the whole backing grid with the window outlined.
func drawMinimap(dst *image.RGBA, l layout, th *theme.Theme, st paintState) {
	r := l.minimapRect()
	if r.Max.Y > l.height-bottomHeight || len(st.virtual) == 0 {
		return
	}
	scale := max(1, r.Dx()/len(st.virtual))
	img := render.Image(st.virtual, scale, th)
	at := image.Rect(r.Min.X, r.Min.Y, r.Min.X+img.Bounds().Dx(), r.Min.Y+img.Bounds().Dy())
	draw.Draw(dst, at, img, image.Point{}, draw.Src)
	win := scaleRect(image.Rect(st.offset.X, st.offset.Y, st.offset.X+l.tileSize, st.offset.Y+l.tileSize), scale).Add(at.Min)
	drawRect(dst, win, th.WindowBorder, 1)
}

func drawCanvas(dst *image.RGBA, l layout, th *theme.Theme, st paintState) {
	img := render.Image(st.window, l.zoom, th)
	draw.Draw(dst, l.canvas, img, image.Point{}, draw.Src)
	if l.zoom >= 6 {
		for i := 1; i < l.tileSize; i++ {
			x := l.canvas.Min.X + i*l.zoom
			y := l.canvas.Min.Y + i*l.zoom
			fillRect(dst, image.Rect(x, l.canvas.Min.Y, x+1, l.canvas.Max.Y), th.GridLine)
			fillRect(dst, image.Rect(l.canvas.Min.X, y, l.canvas.Max.X, y+1), th.GridLine)
		}
	}
	drawRect(dst, l.canvas.Inset(-2), th.WindowBorder, 2)
	if st.dragging {
		r := st.drag.Canon()
		r.Max = r.Max.Add(image.Pt(1, 1))
		drawRect(dst, l.cellRect(r), th.Cursor, 2)
	} else if st.hoverOK {
		drawRect(dst, l.cellRect(image.Rect(st.hover.X, st.hover.Y, st.hover.X+1, st.hover.Y+1)), th.Cursor, 1)
	}
}

func drawStatus(dst *image.RGBA, l layout, th *theme.Theme, st paintState) {
	r := l.statusRect()
	fillRect(dst, r, th.ToolbarBackground)
	drawLabel(dst, r.Min.X+4, r.Min.Y+16, st.status, th.StatusText)
}
