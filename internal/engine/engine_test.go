package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEditorInsertDeleteUndoRedo(t *testing.T) {
	ed := New()
	defer ed.Close()

	if err := ed.Insert(0, []byte("hello")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	ed.Snapshot()
	if err := ed.Delete(0, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if got, want := string(ed.Bytes()), "ello"; got != want {
		t.Fatalf("Bytes() = %q, want %q", got, want)
	}

	if !ed.Undo() {
		t.Fatalf("Undo() = false, want true")
	}
	if got, want := string(ed.Bytes()), "hello"; got != want {
		t.Fatalf("after undo Bytes() = %q, want %q", got, want)
	}

	if !ed.Redo() {
		t.Fatalf("Redo() = false, want true")
	}
	if got, want := string(ed.Bytes()), "ello"; got != want {
		t.Fatalf("after redo Bytes() = %q, want %q", got, want)
	}
}

func TestEditorReplace(t *testing.T) {
	ed := New()
	defer ed.Close()

	ed.Insert(0, []byte("aaaaaaaaaa"))
	ed.Snapshot()
	if err := ed.Replace(2, []byte("XY")); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got, want := string(ed.Bytes()), "aaXYaaaaaa"; got != want {
		t.Fatalf("Bytes() = %q, want %q", got, want)
	}

	ed.Undo()
	if got, want := string(ed.Bytes()), "aaaaaaaaaa"; got != want {
		t.Fatalf("after undo Bytes() = %q, want %q", got, want)
	}
}

func TestEditorOutOfBoundsError(t *testing.T) {
	ed := New()
	defer ed.Close()

	err := ed.Insert(5, []byte("x"))
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Insert out of bounds: got %v, want ErrOutOfBounds", err)
	}
}

func TestEditorModifiedTracksSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ed, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer ed.Close()

	if ed.Modified() {
		t.Fatalf("freshly loaded document should not be modified")
	}

	ed.Insert(0, []byte("content"))
	if !ed.Modified() {
		t.Fatalf("expected Modified() after an edit")
	}

	if err := ed.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ed.Modified() {
		t.Fatalf("expected not modified right after Save")
	}

	ed.Undo()
	if !ed.Modified() {
		t.Fatalf("expected modified after undoing past the saved point")
	}
}

func TestEditorSaveCreatesFile(t *testing.T) {
	ed := New()
	defer ed.Close()
	ed.Insert(0, []byte("saved from scratch"))

	dir := t.TempDir()
	path := filepath.Join(dir, "new.txt")
	if err := ed.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "saved from scratch" {
		t.Fatalf("saved content = %q", got)
	}
}
