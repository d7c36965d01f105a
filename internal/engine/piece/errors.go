package piece

import "errors"

// Errors returned by piece table operations.
var (
	// ErrOutOfMemory indicates a piece, span, or insertion-buffer
	// allocation failed.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrOutOfBounds indicates a position or range fell outside the
	// current document.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrIO indicates a filesystem operation (open, stat, mmap, truncate,
	// write, close, rename) failed.
	ErrIO = errors.New("i/o error")

	// ErrNotRegular indicates the load target is not a regular file.
	ErrNotRegular = errors.New("not a regular file")
)
