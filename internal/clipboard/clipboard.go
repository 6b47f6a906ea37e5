// Package clipboard moves tiles to and from the system clipboard, as PNG
// images for other programs and as JSON text for exact copies between
// tilesmith sessions.
package clipboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/render"
)

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errNoImage   = errors.New("clipboard does not contain image data")
	errNoText    = errors.New("clipboard does not contain text data")
)

// textPrefix marks clipboard text written by WriteGrid.
const textPrefix = "tilesmith-grid:"

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// WriteTile publishes g as a PNG with every cell scaled to scale pixels.
func WriteTile(g grid.Grid, scale int) error {
	return WriteImage(render.Image(g, scale, nil))
}

// WriteGrid publishes g as text that ReadTile restores exactly.
func WriteGrid(g grid.Grid) error {
	data, err := EncodeGrid(g)
	if err != nil {
		return err
	}
	return WriteText(data)
}

// ReadTile returns a size×size tile from the clipboard. Text written by
// WriteGrid is preferred; otherwise any image is resampled to the tile size.
func ReadTile(size int) (grid.Grid, error) {
	if text, err := ReadText(); err == nil && strings.HasPrefix(text, textPrefix) {
		g, err := DecodeGrid(text)
		if err != nil {
			return nil, err
		}
		if g.Height() != size || !g.IsSquare() {
			return nil, fmt.Errorf("clipboard tile is %dx%d, want %dx%d", g.Width(), g.Height(), size, size)
		}
		return g, nil
	}
	img, err := ReadImage()
	if err != nil {
		return nil, err
	}
	return render.Import(img, size), nil
}

// EncodeGrid formats g as clipboard text.
func EncodeGrid(g grid.Grid) (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", err
	}
	return textPrefix + string(data), nil
}

// DecodeGrid parses text produced by EncodeGrid.
func DecodeGrid(text string) (grid.Grid, error) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(text), textPrefix)
	if !ok {
		return nil, fmt.Errorf("clipboard text is not a tile")
	}
	var g grid.Grid
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		return nil, fmt.Errorf("decode clipboard tile: %w", err)
	}
	return g, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodePNG(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errNoImage
	}
	return png.Decode(bytes.NewReader(data))
}
