// Package history implements undo/redo as two stacks of Actions.
//
// An Action is the group of piece.Changes recorded between two snapshots.
// Record appends a Change to the currently open Action, opening a new one
// (and discarding the redo stack) if none is open. Snapshot closes the
// open Action without copying anything: later edits simply open another.
//
// Undo and redo never recompute an edit; they replay the Changes already
// recorded through piece.Table.Swap, which is its own inverse. Undo walks
// an Action's Changes in reverse, swapping New back to Old; redo walks
// them forward, swapping Old back to New.
package history
