// Package palette defines the colour values stored in tile cells and the
// helpers used to parse, convert and blend them.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a cell colour. Opaque colours are "#rrggbb", fully transparent
// cells hold Transparent and translucent brush results are "rgba(r,g,b,a)".
// Colours are compared by exact string equality.
type Color string

// Transparent marks a cell that holds no paint.
const Transparent Color = "rgba(0,0,0,0)"

// IsTransparent reports whether c is the transparent sentinel.
func (c Color) IsTransparent() bool { return c == Transparent }

func (c Color) String() string { return string(c) }

// PaletteColor is a named entry of the default drawing palette.
type PaletteColor struct {
	Name  string
	Color Color
}

var defaultPalette = []PaletteColor{
	{"Black", "#000000"},
	{"White", "#ffffff"},
	{"Red", "#ff0000"},
	{"Lime", "#00ff00"},
	{"Blue", "#0000ff"},
	{"Yellow", "#ffff00"},
	{"Cyan", "#00ffff"},
	{"Magenta", "#ff00ff"},
	{"Maroon", "#800000"},
	{"Green", "#008000"},
	{"Navy", "#000080"},
	{"Olive", "#808000"},
	{"Teal", "#008080"},
	{"Purple", "#800080"},
	{"Silver", "#c0c0c0"},
	{"Gray", "#808080"},
}

// Palette returns a copy of the default drawing palette.
func Palette() []PaletteColor {
	out := make([]PaletteColor, len(defaultPalette))
	copy(out, defaultPalette)
	return out
}

// Parse converts a user supplied colour into its canonical cell form. It
// accepts hex notation (#rgb, #rrggbb, #rrggbbaa), rgb()/rgba() functions,
// "transparent", palette names and CSS colour names.
func Parse(spec string) (Color, error) {
	c, err := parseRGBA(spec)
	if err != nil {
		return "", err
	}
	return FromRGBA(c), nil
}

// MustParse is like Parse but panics on error. It is intended for constants.
func MustParse(spec string) Color {
	c, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// ToRGBA converts a cell colour into non-premultiplied RGBA components.
func ToRGBA(c Color) (color.RGBA, error) {
	if c == Transparent {
		return color.RGBA{}, nil
	}
	return parseRGBA(string(c))
}

// FromRGBA returns the canonical cell colour for non-premultiplied components.
func FromRGBA(c color.RGBA) Color {
	switch c.A {
	case 0:
		return Transparent
	case 255:
		return Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	alpha := math.Round(float64(c.A)/255*1000) / 1000
	return Color(fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(alpha, 'f', -1, 64)))
}

// Blend mixes strength of paint into base using linear interpolation per
// channel. A fully transparent base yields the paint colour at partial
// alpha, since there is no existing colour to retain. A strength of zero or
// less leaves base unchanged; values above one are treated as one.
func Blend(base, paint Color, strength float64) Color {
	if strength <= 0 {
		return base
	}
	if strength > 1 {
		strength = 1
	}
	p, err := ToRGBA(paint)
	if err != nil {
		return base
	}
	b, err := ToRGBA(base)
	if err != nil {
		b = color.RGBA{}
	}
	if b.A == 0 {
		return FromRGBA(color.RGBA{R: p.R, G: p.G, B: p.B, A: uint8(math.Round(float64(p.A) * strength))})
	}
	lerp := func(from, to uint8) uint8 {
		return uint8(math.Round(float64(from)*(1-strength) + float64(to)*strength))
	}
	return FromRGBA(color.RGBA{
		R: lerp(b.R, p.R),
		G: lerp(b.G, p.G),
		B: lerp(b.B, p.B),
		A: lerp(b.A, p.A),
	})
}

func parseRGBA(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if spec == "transparent" || spec == string(Transparent) {
		return color.RGBA{}, nil
	}
	if strings.HasPrefix(spec, "#") {
		return parseHex(spec)
	}
	if strings.HasPrefix(spec, "rgb") {
		return parseFunc(spec)
	}
	for _, entry := range defaultPalette {
		if strings.EqualFold(entry.Name, spec) {
			return parseHex(string(entry.Color))
		}
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

func parseHex(spec string) (color.RGBA, error) {
	hex := strings.TrimPrefix(spec, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex length in %q", spec)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", spec, err)
	}
	if len(hex) == 6 {
		return color.RGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	}
	return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}

// parseFunc handles rgb(r,g,b) and rgba(r,g,b,a) where a is in [0,1].
func parseFunc(spec string) (color.RGBA, error) {
	open := strings.Index(spec, "(")
	if open < 0 || !strings.HasSuffix(spec, ")") {
		return color.RGBA{}, fmt.Errorf("invalid color %q", spec)
	}
	name := strings.TrimSpace(spec[:open])
	parts := strings.Split(spec[open+1:len(spec)-1], ",")
	want := 3
	if name == "rgba" {
		want = 4
	} else if name != "rgb" {
		return color.RGBA{}, fmt.Errorf("invalid color %q", spec)
	}
	if len(parts) != want {
		return color.RGBA{}, fmt.Errorf("%s requires %d components", name, want)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.RGBA{}, fmt.Errorf("invalid channel %q in %q", strings.TrimSpace(parts[i]), spec)
		}
		ch[i] = uint8(v)
	}
	a := uint8(255)
	if want == 4 {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || f < 0 || f > 1 {
			return color.RGBA{}, fmt.Errorf("invalid alpha %q in %q", strings.TrimSpace(parts[3]), spec)
		}
		a = uint8(math.Round(f * 255))
	}
	if a == 0 {
		return color.RGBA{}, nil
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: a}, nil
}
