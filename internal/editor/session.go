// Package editor holds the editing session shared by the command line,
// graphical and terminal front ends.
//
// Every mutating operation clones the current board, edits the clone and
// pushes the previous board onto the undo history, so boards handed out by
// earlier calls are never changed afterwards.
package editor

import (
	"fmt"
	"image"

	"github.com/example/tilesmith/internal/board"
	"github.com/example/tilesmith/internal/fill"
	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/history"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/transform"
)

const (
	// DefaultColor is the drawing colour of a new session.
	DefaultColor palette.Color = "#000000"
	// DefaultStrength is the brush blend strength of a new session.
	DefaultStrength = 0.5
	// MaxTileSize bounds the tile sizes a session creates or resizes to.
	MaxTileSize = 64
)

// CheckTileSize reports whether n is a tile size a session accepts.
func CheckTileSize(n int) error {
	if n <= 0 || n > MaxTileSize {
		return fmt.Errorf("tile size %d outside 1..%d: %w", n, MaxTileSize, board.ErrInvalidDimension)
	}
	return nil
}

// Session is a single editing surface: the current board plus the drawing
// settings used by its tools. Coordinates are window-local, x is the column
// and y the row.
type Session struct {
	Name         string
	Color        palette.Color
	Strength     float64
	Connectivity fill.Connectivity

	board   *board.Board
	history *history.History
	dirty   bool
}

// Option modifies a Session during creation.
type Option func(*Session)

// WithName sets the tile name used when the session is saved.
func WithName(name string) Option { return func(s *Session) { s.Name = name } }

// WithColor sets the initial drawing colour.
func WithColor(c palette.Color) Option { return func(s *Session) { s.Color = c } }

// WithStrength sets the brush blend strength.
func WithStrength(v float64) Option { return func(s *Session) { s.Strength = v } }

// WithConnectivity selects the flood fill neighbourhood.
func WithConnectivity(c fill.Connectivity) Option { return func(s *Session) { s.Connectivity = c } }

// WithHistoryLimit bounds the number of undo steps.
func WithHistoryLimit(n int) Option { return func(s *Session) { s.history = history.New(n) } }

// New starts a session on a blank board of the given tile size.
func New(tileSize int, opts ...Option) (*Session, error) {
	if err := CheckTileSize(tileSize); err != nil {
		return nil, err
	}
	b, err := board.New(tileSize)
	if err != nil {
		return nil, err
	}
	return FromBoard(b, opts...), nil
}

// FromBoard starts a session on a copy of b.
func FromBoard(b *board.Board, opts ...Option) *Session {
	s := &Session{
		Color:        DefaultColor,
		Strength:     DefaultStrength,
		Connectivity: fill.Four,
		board:        b.Clone(),
		history:      history.New(history.DefaultLimit),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Board returns a snapshot of the current board.
func (s *Session) Board() *board.Board { return s.board.Clone() }

// Window returns a copy of the visible tile.
func (s *Session) Window() grid.Grid { return s.board.Window() }

// TileSize is the edge length of the visible tile.
func (s *Session) TileSize() int { return s.board.TileSize() }

// Offset is the window position inside the backing grid.
func (s *Session) Offset() image.Point { return s.board.Offset() }

// Pixel returns the colour under column x, row y.
func (s *Session) Pixel(x, y int) (palette.Color, error) { return s.board.Pixel(y, x) }

// Dirty reports whether the board changed since the last MarkSaved.
func (s *Session) Dirty() bool { return s.dirty }

// MarkSaved clears the dirty flag.
func (s *Session) MarkSaved() { s.dirty = false }

// CanUndo reports whether there is an edit to undo.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether there is an undone edit to re-apply.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

func (s *Session) apply(fn func(*board.Board) error) error {
	next := s.board.Clone()
	if err := fn(next); err != nil {
		return err
	}
	s.commit(next)
	return nil
}

// commit makes next current. Edits that change nothing, such as a fill
// seeded outside the tile or a shift against the edge, leave no history.
func (s *Session) commit(next *board.Board) {
	if next.Equal(s.board) {
		return
	}
	s.history.Push(s.board)
	s.board = next
	s.dirty = true
}

func (s *Session) window(fn transform.Func) error {
	next, err := transform.ApplyWindow(s.board, fn)
	if err != nil {
		return err
	}
	s.commit(next)
	return nil
}

// Paint sets the cell at x, y to the current colour.
func (s *Session) Paint(x, y int) error { return s.PaintColor(x, y, s.Color) }

// PaintColor sets the cell at x, y to c.
func (s *Session) PaintColor(x, y int, c palette.Color) error {
	return s.apply(func(b *board.Board) error { return b.SetPixel(y, x, c) })
}

// Erase makes the cell at x, y transparent.
func (s *Session) Erase(x, y int) error { return s.PaintColor(x, y, palette.Transparent) }

// Fill flood-fills the region under x, y with the current colour using the
// session connectivity. An out of range seed is a no-op.
func (s *Session) Fill(x, y int) error { return s.FillColor(x, y, s.Color, s.Connectivity) }

// FillColor flood-fills the region under x, y with c.
func (s *Session) FillColor(x, y int, c palette.Color, conn fill.Connectivity) error {
	return s.window(func(g grid.Grid) grid.Grid { return fill.Fill(g, x, y, c, conn) })
}

// Box paints the inclusive rectangle between two corners.
func (s *Session) Box(x1, y1, x2, y2 int) error {
	c := s.Color
	return s.window(func(g grid.Grid) grid.Grid { return transform.BoxFill(g, x1, y1, x2, y2, c) })
}

// Brush blends the current colour into the cell at x, y.
func (s *Session) Brush(x, y int) error {
	if x < 0 || y < 0 || x >= s.TileSize() || y >= s.TileSize() {
		return fmt.Errorf("brush (%d,%d): %w", x, y, board.ErrOutOfRange)
	}
	c, strength := s.Color, s.Strength
	return s.window(func(g grid.Grid) grid.Grid { return transform.Brush(g, x, y, c, strength) })
}

// Shift pans the window over the backing grid.
func (s *Session) Shift(dx, dy int) {
	next := s.board.Clone()
	next.Shift(dx, dy)
	s.commit(next)
}

// Center returns the window to the middle of the backing grid.
func (s *Session) Center() {
	next := s.board.Clone()
	next.Center()
	s.commit(next)
}

// RotateCW rotates the window a quarter turn clockwise.
func (s *Session) RotateCW() error { return s.window(transform.RotateCW) }

// RotateCCW rotates the window a quarter turn counter-clockwise.
func (s *Session) RotateCCW() error { return s.window(transform.RotateCCW) }

// FlipHorizontal mirrors the window left to right.
func (s *Session) FlipHorizontal() error { return s.window(transform.FlipHorizontal) }

// FlipVertical mirrors the window top to bottom.
func (s *Session) FlipVertical() error { return s.window(transform.FlipVertical) }

// FillWindow paints the whole window with c.
func (s *Session) FillWindow(c palette.Color) {
	next := s.board.Clone()
	next.FillWindow(c)
	s.commit(next)
}

// Clear makes the whole window transparent.
func (s *Session) Clear() { s.FillWindow(palette.Transparent) }

// Resize switches to a new tile size, keeping the overlapping pixels.
func (s *Session) Resize(tileSize int) error {
	if err := CheckTileSize(tileSize); err != nil {
		return err
	}
	next, err := s.board.Resize(tileSize)
	if err != nil {
		return err
	}
	s.commit(next)
	return nil
}

// LoadWindow re-centres the window and replaces its content with g.
func (s *Session) LoadWindow(g grid.Grid) error {
	return s.apply(func(b *board.Board) error {
		b.Center()
		return b.SetWindow(g)
	})
}

// Undo restores the previous board.
func (s *Session) Undo() bool {
	b, ok := s.history.Undo(s.board)
	if ok {
		s.board = b
		s.dirty = true
	}
	return ok
}

// Redo re-applies the last undone edit.
func (s *Session) Redo() bool {
	b, ok := s.history.Redo(s.board)
	if ok {
		s.board = b
		s.dirty = true
	}
	return ok
}
