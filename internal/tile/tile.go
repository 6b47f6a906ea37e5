// Package tile persists edited tiles as JSON records on disk.
package tile

import (
	"fmt"
	"time"

	"github.com/example/tilesmith/internal/board"
	"github.com/example/tilesmith/internal/editor"
	"github.com/example/tilesmith/internal/grid"
)

// Animation describes a tile made of other tiles shown in sequence.
type Animation struct {
	Frames []string `json:"frames"`
	FPS    int      `json:"fps,omitempty"`
}

// Composite describes a tile assembled from a layout of other tiles.
type Composite struct {
	Columns int      `json:"columns"`
	Rows    int      `json:"rows"`
	Tiles   []string `json:"tiles"`
}

// Tile is the persisted record of one tile.
type Tile struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Size      int          `json:"size"`
	Grid      grid.Grid    `json:"grid"`
	Board     *board.State `json:"board,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Animation *Animation   `json:"animation,omitempty"`
	Composite *Composite   `json:"composite,omitempty"`
}

// FromSession captures the visible tile and the full board of s.
func FromSession(s *editor.Session) *Tile {
	b := s.Board()
	st := b.State()
	return &Tile{
		Name:  s.Name,
		Size:  b.TileSize(),
		Grid:  b.Window(),
		Board: &st,
	}
}

// Update replaces the pixel data of t with the current state of s, keeping
// its id, creation time and animation or composite metadata.
func (t *Tile) Update(s *editor.Session) {
	next := FromSession(s)
	t.Name = next.Name
	t.Size = next.Size
	t.Grid = next.Grid
	t.Board = next.Board
}

// Validate checks that the stored grid matches the declared size.
func (t *Tile) Validate() error {
	if t.Size <= 0 {
		return fmt.Errorf("tile %q: %w", t.ID, board.ErrInvalidDimension)
	}
	if len(t.Grid) != t.Size {
		return fmt.Errorf("tile %q: %d rows for size %d: %w", t.ID, len(t.Grid), t.Size, board.ErrDimensionMismatch)
	}
	for r, row := range t.Grid {
		if len(row) != t.Size {
			return fmt.Errorf("tile %q: row %d has %d cells for size %d: %w", t.ID, r, len(row), t.Size, board.ErrDimensionMismatch)
		}
	}
	return nil
}

// Restore rebuilds the board. When the full board state was stored it is
// restored as saved, window position included; otherwise the grid is loaded
// into the centre of a fresh board.
func (t *Tile) Restore() (*board.Board, error) {
	if t.Board != nil {
		if b, err := board.FromState(*t.Board); err == nil {
			return b, nil
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	b, err := board.New(t.Size)
	if err != nil {
		return nil, err
	}
	if err := b.SetWindow(t.Grid); err != nil {
		return nil, err
	}
	return b, nil
}

// Session opens an editing session on the tile.
func (t *Tile) Session(opts ...editor.Option) (*editor.Session, error) {
	b, err := t.Restore()
	if err != nil {
		return nil, err
	}
	opts = append([]editor.Option{editor.WithName(t.Name)}, opts...)
	return editor.FromBoard(b, opts...), nil
}
