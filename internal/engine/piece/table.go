package piece

import (
	"fmt"
	"os"
	"path/filepath"
)

// Change records one Swap: the span that was removed (Old) and the span
// that replaced it (New). Replaying Swap(New, Old) undoes the change;
// replaying Swap(Old, New) redoes it. A Change with both spans empty
// never happened and is never recorded.
type Change struct {
	Old, New Span
}

// IsNoop reports whether the change affected nothing.
func (c Change) IsNoop() bool { return c.Old.IsEmpty() && c.New.IsEmpty() }

// Invert swaps Old and New, producing the change that undoes c.
func (c Change) Invert() Change { return Change{Old: c.New, New: c.Old} }

// ReleaseChange frees the pieces holding c's New span from the
// allocation-order chain. It must only be called for a Change that can
// never be replayed again (redo truncation) — the Old span is left alone
// because whatever came before the Change may still reference it.
func (t *Table) ReleaseChange(c Change) {
	if c.New.IsEmpty() {
		return
	}
	for n := c.New.start; n != nil; {
		next := n.next
		t.freeNode(n)
		if n == c.New.end {
			return
		}
		n = next
	}
}

// Table is a mutable byte sequence backed by a piece table: a read-only
// mapping of an original file plus a chain of append-only insertion
// buffers, stitched together by a doubly linked sequence of pieces.
type Table struct {
	original *original
	buffers  bufferChain

	begin, end node // permanent zero-length sentinels
	size       int

	allocHead  *node
	allocCount int

	filename string
}

// New returns an empty table with no backing file.
func New() *Table {
	t := &Table{}
	t.reset()
	return t
}

func (t *Table) reset() {
	t.begin.next = &t.end
	t.begin.prev = nil
	t.end.prev = &t.begin
	t.end.next = nil
	t.size = 0
}

// Load opens filename read-only, memory-maps its contents as the original
// region, and — if the file is non-empty — installs a single piece
// spanning the whole thing. An empty filename yields an empty table with
// no backing file, matching "start an editor session on nothing."
func Load(filename string) (*Table, error) {
	t := New()
	if filename == "" {
		return t, nil
	}

	orig, err := openOriginal(filename)
	if err != nil {
		return nil, err
	}
	t.original = orig
	t.filename = filename

	if len(orig.data) > 0 {
		n := t.allocNode(orig.data)
		n.prev = &t.begin
		n.next = &t.end
		t.begin.next = n
		t.end.prev = n
		t.size = n.len()
	}
	return t, nil
}

// Filename returns the path the table was loaded from, or "" if none.
func (t *Table) Filename() string { return t.filename }

// Len reports the current document size in bytes.
func (t *Table) Len() int { return t.size }

// Close releases the original mapping and drops the table's references
// to its pieces and insertion buffers, letting the garbage collector
// reclaim them. It is an error to use the table afterward.
func (t *Table) Close() error {
	err := t.original.close()
	t.original = nil
	t.buffers.head = nil
	t.allocHead = nil
	t.reset()
	return err
}

// Insert splices data into the document at pos, which must be in
// [0, Len()]. Inserting zero bytes is a valid no-op: it returns a
// zero Change and a nil error.
func (t *Table) Insert(pos int, data []byte) (Change, error) {
	if pos < 0 || pos > t.size {
		return Change{}, fmt.Errorf("%w: insert at %d (len %d)", ErrOutOfBounds, pos, t.size)
	}
	if len(data) == 0 {
		return Change{}, nil
	}

	stored, err := t.buffers.store(data)
	if err != nil {
		return Change{}, err
	}

	if t.size == 0 {
		n := t.allocNode(stored)
		n.prev = &t.begin
		n.next = &t.end
		newSpan := spanOf(n, n)
		t.Swap(Span{}, newSpan)
		return Change{New: newSpan}, nil
	}

	loc := t.locate(pos)
	p := loc.node
	off := loc.offset

	if off == p.len() {
		n := t.allocNode(stored)
		n.prev = p
		n.next = p.next
		newSpan := spanOf(n, n)
		t.Swap(Span{}, newSpan)
		return Change{New: newSpan}, nil
	}

	if off == 0 {
		// Only reachable at pos == 0: locate always resolves an internal
		// boundary to the earlier piece with off == its length, never to
		// the later piece with off == 0.
		n := t.allocNode(stored)
		n.prev = p.prev
		n.next = p
		newSpan := spanOf(n, n)
		t.Swap(Span{}, newSpan)
		return Change{New: newSpan}, nil
	}

	before := t.allocNode(p.content[:off])
	mid := t.allocNode(stored)
	after := t.allocNode(p.content[off:])
	before.prev = p.prev
	before.next = mid
	mid.prev = before
	mid.next = after
	after.prev = mid
	after.next = p.next

	oldSpan := spanOf(p, p)
	newSpan := spanOf(before, after)
	t.Swap(oldSpan, newSpan)
	return Change{Old: oldSpan, New: newSpan}, nil
}

// Delete removes the length bytes starting at pos. Deleting zero bytes is
// a valid no-op: it returns a zero Change and a nil error.
func (t *Table) Delete(pos, length int) (Change, error) {
	if length == 0 {
		return Change{}, nil
	}
	if pos < 0 || length < 0 || pos+length > t.size {
		return Change{}, fmt.Errorf("%w: delete [%d,%d) (len %d)", ErrOutOfBounds, pos, pos+length, t.size)
	}

	loc := t.locate(pos)
	p := loc.node
	off := loc.offset

	var before, after, start, end *node
	var midStart, midEnd bool
	var cur int

	switch {
	case off == p.len():
		before = p
		start = p.next
	case off == 0:
		// Only reachable at pos == 0: locate always resolves an internal
		// boundary to the earlier piece with off == its length, never to
		// the later piece with off == 0. The whole piece p falls inside
		// the deleted range, so no head fragment needs synthesizing; before
		// tracks p's own prev so a trailing "after" fragment, if any, still
		// links back to whatever preceded the deleted range.
		before = p.prev
		start = p
		cur = p.len()
	default:
		midStart = true
		cur = p.len() - off
		start = p
		before = t.allocNode(nil)
	}

	for cur < length {
		p = p.next
		cur += p.len()
	}

	if cur == length {
		end = p
		after = p.next
	} else {
		midEnd = true
		end = p
		trail := cur - length
		after = t.allocNode(p.content[p.len()-trail:])
		after.prev = before
		after.next = p.next
	}

	if midStart {
		before.content = start.content[:off]
		before.prev = start.prev
		before.next = after
	}

	var newStart, newEnd *node
	switch {
	case midStart && midEnd:
		newStart, newEnd = before, after
	case midStart:
		newStart, newEnd = before, before
	case midEnd:
		newStart, newEnd = after, after
	}

	oldSpan := spanOf(start, end)
	var newSpan Span
	if newStart != nil {
		newSpan = spanOf(newStart, newEnd)
	}
	t.Swap(oldSpan, newSpan)
	return Change{Old: oldSpan, New: newSpan}, nil
}

// Replace overwrites len(data) bytes starting at pos with data. Per the
// original implementation this replaces based on the length of the
// replacement, not the length of any prior selection: it is literally
// delete(pos, len(data)) followed by insert(pos, data). Both steps are
// reported as separate Changes so history can bundle them into one Action.
func (t *Table) Replace(pos int, data []byte) ([]Change, error) {
	del, err := t.Delete(pos, len(data))
	if err != nil {
		return nil, err
	}

	ins, err := t.Insert(pos, data)
	if err != nil {
		// Roll back the delete so a failed replace leaves no partial
		// state observable, per the transactional requirement on edits.
		if !del.IsNoop() {
			t.Swap(del.New, del.Old)
		}
		return nil, err
	}

	var changes []Change
	if !del.IsNoop() {
		changes = append(changes, del)
	}
	if !ins.IsNoop() {
		changes = append(changes, ins)
	}
	return changes, nil
}

// Iterate walks the document from pos to the end, calling sink with each
// contiguous chunk of bytes and its starting position. It stops early if
// sink returns false.
func (t *Table) Iterate(pos int, sink func(pos int, data []byte) bool) error {
	if pos < 0 || pos > t.size {
		return fmt.Errorf("%w: iterate at %d (len %d)", ErrOutOfBounds, pos, t.size)
	}

	loc := t.locate(pos)
	n := loc.node
	off := loc.offset

	for n != nil && n != &t.end {
		data := n.content[off:]
		if len(data) > 0 {
			if !sink(pos, data) {
				return nil
			}
			pos += len(data)
		}
		n = n.next
		off = 0
	}
	return nil
}

// Bytes returns the full document as one allocated slice. It is a
// convenience built on Iterate, not a separate storage path.
func (t *Table) Bytes() []byte {
	out := make([]byte, 0, t.size)
	t.Iterate(0, func(_ int, data []byte) bool {
		out = append(out, data...)
		return true
	})
	return out
}

// Save atomically writes the document to filename: it is written in full
// to a hidden temporary file in the same directory, then renamed into
// place. A reader never observes a partially written file, and a failure
// at any step leaves the original file (if any) untouched.
func (t *Table) Save(filename string) error {
	dir, base := filepath.Split(filename)
	tmp := filepath.Join(dir, "."+base+".tmp")

	w, err := createWritableMapping(tmp, int64(t.size))
	if err != nil {
		return err
	}

	if t.size > 0 {
		cur := w.data
		if walkErr := t.Iterate(0, func(_ int, data []byte) bool {
			n := copy(cur, data)
			cur = cur[n:]
			return true
		}); walkErr != nil {
			w.close()
			os.Remove(tmp)
			return walkErr
		}
	}

	if err := w.close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, filename); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename %s to %s: %v", ErrIO, tmp, filename, err)
	}

	return nil
}
