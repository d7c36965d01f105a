package history

import (
	"sync"
	"time"

	"github.com/dshills/pted/internal/engine/piece"
)

// History manages undo/redo state for one piece.Table.
type History struct {
	mu sync.Mutex

	undo []*Action
	redo []*Action

	current *Action // the action edits are currently appended to

	saved *Action // undo-stack-top identity at the last save, for Modified

	maxEntries int
}

// NewHistory creates an empty history. maxEntries caps the undo stack
// depth; entries beyond it are dropped oldest-first. A non-positive value
// means unbounded.
func NewHistory(maxEntries int) *History {
	return &History{maxEntries: maxEntries}
}

// Record appends changes to the currently open action, opening a new one
// if none is open. Opening a new action discards the redo stack: once new
// history is recorded, the previously undone actions can no longer be
// redone, and every Change on that stack has its New span freed back to
// table — the old side is left alone since whatever came before it may
// still be reachable. Noop changes are dropped and never open an action
// by themselves.
func (h *History) Record(table *piece.Table, changes ...piece.Change) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var real []piece.Change
	for _, c := range changes {
		if !c.IsNoop() {
			real = append(real, c)
		}
	}
	if len(real) == 0 {
		return
	}

	if h.current == nil {
		h.current = &Action{Timestamp: time.Now()}
		h.undo = append(h.undo, h.current)

		for _, a := range h.redo {
			for _, c := range a.Changes {
				table.ReleaseChange(c)
			}
		}
		h.redo = nil

		if h.maxEntries > 0 && len(h.undo) > h.maxEntries {
			excess := len(h.undo) - h.maxEntries
			h.undo = h.undo[excess:]
		}
	}
	h.current.Changes = append(h.current.Changes, real...)
}

// Snapshot closes the currently open action, if any, so that the next
// Record call starts a fresh one. It copies nothing: the action already
// holds every Change recorded since the previous snapshot.
func (h *History) Snapshot() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = nil
}

// Undo pops the most recent action and replays its Changes in reverse,
// swapping each one's New span back to Old. It reports false if there is
// nothing to undo.
func (h *History) Undo(table *piece.Table) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undo) == 0 {
		return false
	}
	action := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	for i := len(action.Changes) - 1; i >= 0; i-- {
		c := action.Changes[i]
		table.Swap(c.New, c.Old)
	}

	h.redo = append(h.redo, action)
	h.current = nil
	return true
}

// Redo pops the most recently undone action and replays its Changes
// forward, swapping each one's Old span back to New. It reports false if
// there is nothing to redo.
func (h *History) Redo(table *piece.Table) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redo) == 0 {
		return false
	}
	action := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	for _, c := range action.Changes {
		table.Swap(c.Old, c.New)
	}

	h.undo = append(h.undo, action)
	h.current = nil
	return true
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// MarkSaved records the current undo-stack top as the saved point, for
// Modified to compare against by identity rather than by content.
func (h *History) MarkSaved() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		h.saved = nil
		return
	}
	h.saved = h.undo[len(h.undo)-1]
}

// Modified reports whether the document has changed since the last
// MarkSaved, by comparing action identity rather than walking content:
// an undo past the saved action or a newly opened action changes the top
// of the undo stack, and redoing back to the saved action restores it.
// Changes appended to the action that was still open at MarkSaved leave
// the top unchanged and so are not reported.
func (h *History) Modified() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	var top *Action
	if len(h.undo) > 0 {
		top = h.undo[len(h.undo)-1]
	}
	return top != h.saved
}

// UndoInfo summarizes pending undo actions, most recent first.
func (h *History) UndoInfo() []ActionInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	infos := make([]ActionInfo, len(h.undo))
	for i, a := range h.undo {
		infos[len(h.undo)-1-i] = a.info()
	}
	return infos
}

// RedoInfo summarizes pending redo actions, most recently undone first.
func (h *History) RedoInfo() []ActionInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	infos := make([]ActionInfo, len(h.redo))
	for i, a := range h.redo {
		infos[len(h.redo)-1-i] = a.info()
	}
	return infos
}

// Clear discards all undo/redo state. It does not touch the document.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
	h.current = nil
	h.saved = nil
}
