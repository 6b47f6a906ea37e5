// Package board implements the virtual drawing surface behind a tile.
//
// A Board stores a backing grid three times the tile size in each direction
// and exposes a tile-sized window onto it. Shifting the window parks pixels
// in the surrounding margin instead of discarding them, so a shift followed
// by the opposite shift is lossless as long as neither saturates.
package board

import (
	"errors"
	"fmt"
	"image"

	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/palette"
)

// Scale is the ratio between the backing grid and the visible tile.
const Scale = 3

var (
	// ErrInvalidDimension reports a tile size that is not a positive integer.
	ErrInvalidDimension = errors.New("tile size must be a positive integer")
	// ErrDimensionMismatch reports a grid whose size does not match the board.
	ErrDimensionMismatch = errors.New("grid size does not match board")
	// ErrOutOfRange reports a window coordinate outside [0, tileSize).
	ErrOutOfRange = errors.New("coordinate outside the tile window")
)

// Board is a tile-sized window onto a 3x oversized backing grid.
type Board struct {
	tileSize int
	virtual  grid.Grid
	window   image.Point
}

// State is the persisted form of a board.
type State struct {
	TileSize int         `json:"tileSize"`
	Virtual  grid.Grid   `json:"virtual"`
	Window   image.Point `json:"window"`
}

type options struct {
	fill palette.Color
}

// Option configures New.
type Option func(*options)

// WithFill sets the colour used to initialise the backing grid.
func WithFill(c palette.Color) Option { return func(o *options) { o.fill = c } }

// New allocates a board for tiles of the given size with a centred window.
func New(tileSize int, opts ...Option) (*Board, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("new board of size %d: %w", tileSize, ErrInvalidDimension)
	}
	o := options{fill: palette.Transparent}
	for _, opt := range opts {
		opt(&o)
	}
	return &Board{
		tileSize: tileSize,
		virtual:  grid.Square(Scale*tileSize, o.fill),
		window:   image.Pt(tileSize, tileSize),
	}, nil
}

// FromState rebuilds a board from its persisted form. A window outside the
// permitted range is clamped rather than rejected.
func FromState(s State) (*Board, error) {
	if s.TileSize <= 0 {
		return nil, fmt.Errorf("restore board of size %d: %w", s.TileSize, ErrInvalidDimension)
	}
	n := Scale * s.TileSize
	if len(s.Virtual) != n || !s.Virtual.IsSquare() {
		return nil, fmt.Errorf("restore board: virtual grid is not %dx%d: %w", n, n, ErrDimensionMismatch)
	}
	b := &Board{tileSize: s.TileSize, virtual: s.Virtual.Clone()}
	b.window = b.clamp(s.Window)
	return b, nil
}

// State returns a snapshot suitable for persistence.
func (b *Board) State() State {
	return State{TileSize: b.tileSize, Virtual: b.VirtualGrid(), Window: b.window}
}

// TileSize is the edge length of the visible window.
func (b *Board) TileSize() int { return b.tileSize }

// BackingSize is the edge length of the backing grid.
func (b *Board) BackingSize() int { return Scale * b.tileSize }

// Offset returns the top-left corner of the window in backing coordinates.
func (b *Board) Offset() image.Point { return b.window }

// Clone returns an independent deep copy of the board.
func (b *Board) Clone() *Board {
	return &Board{tileSize: b.tileSize, virtual: b.virtual.Clone(), window: b.window}
}

// Window returns a copy of the visible tileSize x tileSize region.
func (b *Board) Window() grid.Grid {
	out := make(grid.Grid, b.tileSize)
	for r := range out {
		row := b.virtual[b.window.Y+r]
		out[r] = append(make([]palette.Color, 0, b.tileSize), row[b.window.X:b.window.X+b.tileSize]...)
	}
	return out
}

// SetWindow overwrites the visible region with g, which must be exactly
// tileSize x tileSize.
func (b *Board) SetWindow(g grid.Grid) error {
	if len(g) != b.tileSize {
		return fmt.Errorf("set window: %d rows for tile size %d: %w", len(g), b.tileSize, ErrDimensionMismatch)
	}
	for r, row := range g {
		if len(row) != b.tileSize {
			return fmt.Errorf("set window: row %d has %d cells for tile size %d: %w", r, len(row), b.tileSize, ErrDimensionMismatch)
		}
	}
	for r, row := range g {
		copy(b.virtual[b.window.Y+r][b.window.X:], row)
	}
	return nil
}

// Pixel returns the colour at row, col of the window.
func (b *Board) Pixel(row, col int) (palette.Color, error) {
	if !b.inWindow(row, col) {
		return "", fmt.Errorf("pixel (%d,%d): %w", row, col, ErrOutOfRange)
	}
	return b.virtual[b.window.Y+row][b.window.X+col], nil
}

// SetPixel sets the colour at row, col of the window.
func (b *Board) SetPixel(row, col int, c palette.Color) error {
	if !b.inWindow(row, col) {
		return fmt.Errorf("set pixel (%d,%d): %w", row, col, ErrOutOfRange)
	}
	b.virtual[b.window.Y+row][b.window.X+col] = c
	return nil
}

// Shift moves the window by dx, dy. The move saturates at the edges of the
// backing grid; any excess distance is dropped.
func (b *Board) Shift(dx, dy int) {
	limit := (Scale - 1) * b.tileSize
	d := image.Pt(min(max(dx, -limit), limit), min(max(dy, -limit), limit))
	b.window = b.clamp(b.window.Add(d))
}

// Center moves the window back to the middle of the backing grid without
// touching pixel data.
func (b *Board) Center() {
	b.window = image.Pt(b.tileSize, b.tileSize)
}

// FillWindow sets every visible cell to c.
func (b *Board) FillWindow(c palette.Color) {
	for r := 0; r < b.tileSize; r++ {
		row := b.virtual[b.window.Y+r]
		for col := b.window.X; col < b.window.X+b.tileSize; col++ {
			row[col] = c
		}
	}
}

// Equal reports whether both boards have the same size, window and pixels.
func (b *Board) Equal(other *Board) bool {
	return b.tileSize == other.tileSize && b.window == other.window && b.virtual.Equal(other.virtual)
}

// VirtualGrid returns a copy of the whole backing grid.
func (b *Board) VirtualGrid() grid.Grid { return b.virtual.Clone() }

// Resize returns a new centred board of the given tile size whose window
// holds the overlapping top-left region of b's window. Cells beyond the old
// window are transparent.
func (b *Board) Resize(tileSize int) (*Board, error) {
	nb, err := New(tileSize)
	if err != nil {
		return nil, err
	}
	old := b.Window()
	win := nb.Window()
	n := min(tileSize, b.tileSize)
	for r := 0; r < n; r++ {
		copy(win[r][:n], old[r][:n])
	}
	if err := nb.SetWindow(win); err != nil {
		return nil, err
	}
	return nb, nil
}

func (b *Board) inWindow(row, col int) bool {
	return row >= 0 && row < b.tileSize && col >= 0 && col < b.tileSize
}

func (b *Board) clamp(p image.Point) image.Point {
	limit := (Scale - 1) * b.tileSize
	return image.Pt(min(max(p.X, 0), limit), min(max(p.Y, 0), limit))
}
