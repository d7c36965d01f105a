package piece

// Location pinpoints a byte position as a piece plus an offset into it.
type Location struct {
	node   *node
	offset int
}

// locate walks the logical sequence from the beginning to find the piece
// containing pos. This is a linear scan, not a balanced-tree lookup: the
// spec accepts O(N) here in exchange for O(1) mutation.
//
// When pos falls exactly on a boundary between two pieces, locate always
// returns the earlier piece with offset equal to its length, never the
// later piece with offset zero. This also covers pos == size, which
// resolves to the last piece at its end rather than to the end sentinel.
func (t *Table) locate(pos int) Location {
	cur := 0
	for n := t.begin.next; n != nil; n = n.next {
		if pos >= cur && pos <= cur+n.len() {
			return Location{node: n, offset: pos - cur}
		}
		cur += n.len()
	}
	return Location{node: &t.end, offset: 0}
}
