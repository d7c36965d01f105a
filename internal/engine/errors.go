package engine

import "github.com/dshills/pted/internal/engine/piece"

// Errors returned by Editor operations. These alias the piece package's
// sentinels so callers of this package never need to import piece
// directly just to use errors.Is.
var (
	ErrOutOfMemory = piece.ErrOutOfMemory
	ErrOutOfBounds = piece.ErrOutOfBounds
	ErrIO          = piece.ErrIO
	ErrNotRegular  = piece.ErrNotRegular
)
