package piece

import "fmt"

// PieceInfo is a read-only snapshot of one piece in the logical sequence,
// for diagnostics only.
type PieceInfo struct {
	Index   int
	Len     int
	Preview string
}

// DebugPieces walks the current logical sequence and returns a snapshot
// of every piece in order. It is grounded on the original implementation's
// print_piece/editor_debug introspection and intended for tests and
// troubleshooting, not for any editing operation.
func (t *Table) DebugPieces() []PieceInfo {
	var infos []PieceInfo
	for n := t.begin.next; n != nil && n != &t.end; n = n.next {
		const maxPreview = 16
		preview := n.content
		if len(preview) > maxPreview {
			preview = preview[:maxPreview]
		}
		infos = append(infos, PieceInfo{
			Index:   n.index,
			Len:     n.len(),
			Preview: fmt.Sprintf("%q", preview),
		})
	}
	return infos
}
