package history

import (
	"time"

	"github.com/dshills/pted/internal/engine/piece"
)

// Action groups the piece.Changes produced between two snapshots into one
// undo/redo unit.
type Action struct {
	Changes   []piece.Change
	Timestamp time.Time
}

// IsEmpty reports whether the action recorded any real change.
func (a *Action) IsEmpty() bool {
	return a == nil || len(a.Changes) == 0
}

// BytesDelta returns the action's total effect on document length.
func (a *Action) BytesDelta() int {
	total := 0
	for _, c := range a.Changes {
		total += c.New.Len() - c.Old.Len()
	}
	return total
}

// ActionInfo is a read-only summary of an Action, for displaying undo/redo
// history without exposing piece.Change internals.
type ActionInfo struct {
	Timestamp  time.Time
	BytesDelta int
	NumChanges int
}

func (a *Action) info() ActionInfo {
	return ActionInfo{
		Timestamp:  a.Timestamp,
		BytesDelta: a.BytesDelta(),
		NumChanges: len(a.Changes),
	}
}
