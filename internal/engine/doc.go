// Package engine provides Editor, the facade combining a piece-table
// document with undo/redo history into one thread-safe editing session.
//
// # Architecture
//
// The engine is built on two sub-packages:
//
//   - piece: the piece table itself — original file mapping, insertion
//     buffers, the linked sequence of pieces, and the span-swap mutation
//     primitive
//   - history: undo/redo as two stacks of Actions, each a group of the
//     piece.Changes recorded between two snapshots
//
// # Basic usage
//
//	ed, err := engine.Load("notes.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ed.Close()
//
//	ed.Insert(0, []byte("TODO: "))
//	ed.Snapshot()
//	ed.Delete(20, 4)
//
//	ed.Undo() // restores the deleted bytes
//	ed.Redo() // removes them again
//
//	if err := ed.Save("notes.txt"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread safety
//
// All Editor methods are safe for concurrent use; reads take a read lock
// and writes take a write lock around the underlying piece table and
// history.
//
// # Transactional edits
//
// Insert, Delete, and Replace either fully apply or report an error and
// leave the document unchanged — there is no partially applied edit to
// observe or clean up.
package engine
