// Package piece implements a piece-table text buffer: a linked sequence of
// immutable byte slices referring either to a read-only memory-mapped
// original file or to append-only insertion buffers.
//
// The document is the concatenation of the pieces between two permanent
// sentinels, begin and end. Every mutation — insert, delete, replace — is
// realized as a swap of a contiguous span of pieces for a replacement span.
// Swap is its own inverse, which is what lets the history package undo a
// mutation by replaying the same swap backwards without recomputing
// anything.
//
// The table never performs character-level (Unicode) interpretation; all
// positions and lengths are byte offsets.
package piece
