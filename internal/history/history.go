// Package history keeps undo and redo stacks of whole-board snapshots.
package history

import "github.com/example/tilesmith/internal/board"

// DefaultLimit bounds the undo stack when no explicit limit is given.
const DefaultLimit = 100

// History is a pair of snapshot stacks. The zero value is not usable; call New.
type History struct {
	limit int
	undo  []*board.Board
	redo  []*board.Board
}

// New returns an empty history retaining at most limit undo steps. A limit
// of zero or less selects DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Push records b as the state to return to on the next Undo and discards
// the redo stack.
func (h *History) Push(b *board.Board) {
	h.undo = append(h.undo, b.Clone())
	if len(h.undo) > h.limit {
		h.undo = append(h.undo[:0], h.undo[len(h.undo)-h.limit:]...)
	}
	h.redo = h.redo[:0]
}

// Undo pops the most recent snapshot, saving current for Redo.
func (h *History) Undo(current *board.Board) (*board.Board, bool) {
	if len(h.undo) == 0 {
		return current, false
	}
	last := len(h.undo) - 1
	prev := h.undo[last]
	h.undo = h.undo[:last]
	h.redo = append(h.redo, current.Clone())
	return prev, true
}

// Redo re-applies the most recently undone snapshot, saving current for Undo.
func (h *History) Redo(current *board.Board) (*board.Board, bool) {
	if len(h.redo) == 0 {
		return current, false
	}
	last := len(h.redo) - 1
	next := h.redo[last]
	h.redo = h.redo[:last]
	h.undo = append(h.undo, current.Clone())
	return next, true
}

// CanUndo reports whether Undo would change anything.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would change anything.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the sizes of the undo and redo stacks.
func (h *History) Len() (undo, redo int) { return len(h.undo), len(h.redo) }

// Reset drops every snapshot.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}
