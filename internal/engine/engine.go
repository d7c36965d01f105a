package engine

import (
	"sync"

	"github.com/dshills/pted/internal/engine/history"
	"github.com/dshills/pted/internal/engine/piece"
)

// Re-export types callers need without importing the subpackages directly.
type (
	// Change is one recorded piece-table mutation.
	Change = piece.Change

	// ActionInfo summarizes a pending undo or redo action.
	ActionInfo = history.ActionInfo

	// PieceInfo is a read-only snapshot of one piece, for diagnostics.
	PieceInfo = piece.PieceInfo
)

// Editor is the facade combining a piece table and its undo/redo history
// into a single, thread-safe document session.
type Editor struct {
	mu    sync.RWMutex
	table *piece.Table
	hist  *history.History
}

// New creates an empty Editor with no backing file.
func New(opts ...Option) *Editor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Editor{
		table: piece.New(),
		hist:  history.NewHistory(cfg.maxUndoEntries),
	}
}

// Load opens filename and returns an Editor over its contents. An empty
// filename behaves like New: an empty document with no backing file.
func Load(filename string, opts ...Option) (*Editor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	tbl, err := piece.Load(filename)
	if err != nil {
		return nil, err
	}
	return &Editor{
		table: tbl,
		hist:  history.NewHistory(cfg.maxUndoEntries),
	}, nil
}

// Filename returns the path the document was loaded from, or "" if none.
func (e *Editor) Filename() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.Filename()
}

// Len returns the current document size in bytes.
func (e *Editor) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.Len()
}

// Bytes returns the full document content as one allocated slice.
func (e *Editor) Bytes() []byte {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.Bytes()
}

// Iterate walks the document from pos, calling sink with each contiguous
// chunk of bytes and its starting position, until sink returns false or
// the document ends.
func (e *Editor) Iterate(pos int, sink func(pos int, data []byte) bool) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.Iterate(pos, sink)
}

// Insert splices data into the document at pos and records the change.
func (e *Editor) Insert(pos int, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.table.Insert(pos, data)
	if err != nil {
		return err
	}
	e.hist.Record(e.table, c)
	return nil
}

// Delete removes length bytes starting at pos and records the change.
func (e *Editor) Delete(pos, length int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.table.Delete(pos, length)
	if err != nil {
		return err
	}
	e.hist.Record(e.table, c)
	return nil
}

// Replace overwrites len(data) bytes at pos with data — a delete sized to
// the replacement followed by an insert, recorded as one undo unit. See
// piece.Table.Replace for why the deleted length is len(data) rather than
// any prior selection length.
func (e *Editor) Replace(pos int, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	changes, err := e.table.Replace(pos, data)
	if err != nil {
		return err
	}
	e.hist.Record(e.table, changes...)
	return nil
}

// Snapshot closes the currently open undo action. The next edit starts a
// new one instead of being folded into the previous action.
func (e *Editor) Snapshot() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hist.Snapshot()
}

// Undo reverses the most recent action. It reports false if there is
// nothing to undo.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.Undo(e.table)
}

// Redo reapplies the most recently undone action. It reports false if
// there is nothing to redo.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.Redo(e.table)
}

// CanUndo reports whether Undo would do anything.
func (e *Editor) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hist.CanUndo()
}

// CanRedo reports whether Redo would do anything.
func (e *Editor) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hist.CanRedo()
}

// UndoInfo summarizes pending undo actions, most recent first.
func (e *Editor) UndoInfo() []ActionInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hist.UndoInfo()
}

// RedoInfo summarizes pending redo actions, most recently undone first.
func (e *Editor) RedoInfo() []ActionInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hist.RedoInfo()
}

// Modified reports whether the document has changed since the last Save,
// by action identity rather than by content comparison.
func (e *Editor) Modified() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hist.Modified()
}

// Save atomically writes the document to filename and marks the current
// state as saved. The currently open undo action is closed first so the
// saved marker pins a stable point: any further edit, even one appended
// to what would have been the same action, is then detectably new.
func (e *Editor) Save(filename string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.table.Save(filename); err != nil {
		return err
	}
	e.hist.Snapshot()
	e.hist.MarkSaved()
	return nil
}

// DebugPieces returns a snapshot of the current piece sequence, for tests
// and troubleshooting only.
func (e *Editor) DebugPieces() []PieceInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.DebugPieces()
}

// Close releases the Editor's resources: the original file mapping, and
// its undo/redo history. The Editor must not be used afterward.
func (e *Editor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hist.Clear()
	return e.table.Close()
}
