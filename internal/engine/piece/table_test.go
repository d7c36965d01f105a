package piece

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func mustInsert(t *testing.T, tbl *Table, pos int, data string) Change {
	t.Helper()
	c, err := tbl.Insert(pos, []byte(data))
	if err != nil {
		t.Fatalf("Insert(%d, %q): %v", pos, data, err)
	}
	return c
}

func TestInsertIntoEmptyDocument(t *testing.T) {
	tbl := New()
	mustInsert(t, tbl, 0, "hello")
	if got := string(tbl.Bytes()); got != "hello" {
		t.Fatalf("Bytes() = %q, want %q", got, "hello")
	}
	if tbl.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", tbl.Len())
	}
}

func TestInsertPrependAppendAndSplit(t *testing.T) {
	tbl := New()
	mustInsert(t, tbl, 0, "world")
	mustInsert(t, tbl, 0, "hello ")
	mustInsert(t, tbl, tbl.Len(), "!")
	mustInsert(t, tbl, 5, ",")

	want := "hello, world!"
	if got := string(tbl.Bytes()); got != want {
		t.Fatalf("Bytes() = %q, want %q", got, want)
	}
}

func TestDeleteWithinAndAcrossPieces(t *testing.T) {
	tbl := New()
	mustInsert(t, tbl, 0, "abc")
	mustInsert(t, tbl, 3, "def")
	mustInsert(t, tbl, 6, "ghi")

	c, err := tbl.Delete(2, 5)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if c.IsNoop() {
		t.Fatalf("expected a non-noop change")
	}
	if got, want := string(tbl.Bytes()), "abhi"; got != want {
		t.Fatalf("Bytes() = %q, want %q", got, want)
	}
}

func TestDeleteFromStartLeavesNoSpuriousPiece(t *testing.T) {
	tbl := New()
	mustInsert(t, tbl, 0, "abc")
	mustInsert(t, tbl, 3, "def")

	// Deletes mid-piece at the tail end, exercising the boundary case where
	// locate(0) resolves off == 0 on the first real piece.
	c, err := tbl.Delete(0, 4)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, want := string(tbl.Bytes()), "ef"; got != want {
		t.Fatalf("Bytes() = %q, want %q", got, want)
	}
	for _, p := range tbl.DebugPieces() {
		if p.Len == 0 {
			t.Fatalf("expected no zero-length pieces, got %+v", tbl.DebugPieces())
		}
	}

	tbl.Swap(c.New, c.Old) // undo
	if got, want := string(tbl.Bytes()), "abcdef"; got != want {
		t.Fatalf("after undo Bytes() = %q, want %q", got, want)
	}
}

func TestDeleteZeroLengthIsNoop(t *testing.T) {
	tbl := New()
	mustInsert(t, tbl, 0, "abc")
	c, err := tbl.Delete(1, 0)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !c.IsNoop() {
		t.Fatalf("expected a noop change, got %+v", c)
	}
}

func TestSwapIsItsOwnInverse(t *testing.T) {
	tbl := New()
	mustInsert(t, tbl, 0, "abcdef")
	c := mustInsert(t, tbl, 3, "XYZ")

	before := string(tbl.Bytes())
	tbl.Swap(c.New, c.Old) // undo
	tbl.Swap(c.Old, c.New) // redo
	after := string(tbl.Bytes())

	if before != after {
		t.Fatalf("swap round trip changed content: %q vs %q", before, after)
	}

	tbl.Swap(c.New, c.Old)
	if got, want := string(tbl.Bytes()), "abcdef"; got != want {
		t.Fatalf("after undo Bytes() = %q, want %q", got, want)
	}
}

func allocChainContains(tbl *Table, n *node) bool {
	for cur := tbl.allocHead; cur != nil; cur = cur.globalNext {
		if cur == n {
			return true
		}
	}
	return false
}

func TestReleaseChangeUnlinksNewSpanFromAllocChain(t *testing.T) {
	tbl := New()
	mustInsert(t, tbl, 0, "abcdef")
	c := mustInsert(t, tbl, 3, "XYZ") // mid-piece split: before/mid/after, three new nodes

	for n := c.New.start; ; n = n.next {
		if !allocChainContains(tbl, n) {
			t.Fatalf("expected node to be in the allocation chain before release")
		}
		if n == c.New.end {
			break
		}
	}

	tbl.ReleaseChange(c)

	for n := c.New.start; ; n = n.next {
		if allocChainContains(tbl, n) {
			t.Fatalf("expected node to be unlinked from the allocation chain after release")
		}
		if n == c.New.end {
			break
		}
	}

	// The document itself is untouched: ReleaseChange only frees the
	// allocation-order bookkeeping, it does not call Swap.
	if got, want := string(tbl.Bytes()), "abcXYZdef"; got != want {
		t.Fatalf("Bytes() = %q, want %q", got, want)
	}
}

func TestOutOfBounds(t *testing.T) {
	tbl := New()
	mustInsert(t, tbl, 0, "abc")

	if _, err := tbl.Insert(4, []byte("x")); err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
	if _, err := tbl.Delete(2, 5); err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
}

func TestReplaceIsDeleteByNewLengthThenInsert(t *testing.T) {
	tbl := New()
	mustInsert(t, tbl, 0, "aaaaaaaaaa")
	changes, err := tbl.Replace(2, []byte("XY"))
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	if got, want := string(tbl.Bytes()), "aaXYaaaaaa"; got != want {
		t.Fatalf("Bytes() = %q, want %q", got, want)
	}
}

func TestLocateBoundaryPrefersEarlierPiece(t *testing.T) {
	tbl := New()
	mustInsert(t, tbl, 0, "abc")
	mustInsert(t, tbl, 3, "def")

	loc := tbl.locate(3)
	if loc.offset != loc.node.len() {
		t.Fatalf("expected boundary to resolve to earlier piece with off == len, got node len %d off %d", loc.node.len(), loc.offset)
	}
}

func TestLoadAndSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("original content"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer tbl.Close()

	mustInsert(t, tbl, len("original"), " modified")

	savePath := filepath.Join(dir, "out.txt")
	if err := tbl.Save(savePath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := os.ReadFile(savePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "original modified content"
	if !bytes.Equal(got, []byte(want)) {
		t.Fatalf("saved content = %q, want %q", got, want)
	}

	if _, err := os.Stat(filepath.Join(dir, ".out.txt.tmp")); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be gone after save, stat err = %v", err)
	}
}

func TestIterateStopsEarly(t *testing.T) {
	tbl := New()
	mustInsert(t, tbl, 0, "abc")
	mustInsert(t, tbl, 3, "def")

	var seen []byte
	tbl.Iterate(0, func(_ int, data []byte) bool {
		seen = append(seen, data[0])
		return false
	})
	if string(seen) != "a" {
		t.Fatalf("expected iteration to stop after first chunk, got %q", seen)
	}
}

func TestDebugPiecesReflectsSequence(t *testing.T) {
	tbl := New()
	mustInsert(t, tbl, 0, "abc")
	mustInsert(t, tbl, 1, "X")

	infos := tbl.DebugPieces()
	total := 0
	for _, info := range infos {
		total += info.Len
	}
	if total != tbl.Len() {
		t.Fatalf("DebugPieces total len = %d, want %d", total, tbl.Len())
	}
}
