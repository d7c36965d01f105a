package piece

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// original is the read-only memory mapping of a loaded file. It is treated
// as one large immutable byte region; pieces reference ranges inside it
// directly, with no copying.
type original struct {
	file *os.File
	data []byte // mmap'd contents; nil for an empty or absent file
}

// openOriginal opens filename read-only, rejects non-regular files, and
// memory-maps its entire contents. An empty file yields a valid original
// with a nil data slice.
func openOriginal(filename string) (*original, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, filename, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: stat %s: %v", ErrIO, filename, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, filename)
	}

	o := &original{file: f}
	size := info.Size()
	if size == 0 {
		return o, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: mmap %s: %v", ErrIO, filename, err)
	}
	o.data = data
	return o, nil
}

// close unmaps the region and closes the underlying file descriptor. It is
// safe to call on a nil original or one whose data was never mapped.
func (o *original) close() error {
	if o == nil {
		return nil
	}
	var err error
	if o.data != nil {
		if uerr := unix.Munmap(o.data); uerr != nil {
			err = fmt.Errorf("%w: munmap: %v", ErrIO, uerr)
		}
		o.data = nil
	}
	if o.file != nil {
		if cerr := o.file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close: %v", ErrIO, cerr)
		}
		o.file = nil
	}
	return err
}

// writableMapping is returned by createWritableMapping, which creates (or
// truncates) path, sizes it to n bytes, and maps it writable for the caller
// to fill via Iterate. The mapping and file are both live until close is
// called.
type writableMapping struct {
	file *os.File
	data []byte
}

func createWritableMapping(path string, n int64) (*writableMapping, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}
	if err := f.Truncate(n); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("%w: truncate %s: %v", ErrIO, path, err)
	}

	w := &writableMapping{file: f}
	if n == 0 {
		return w, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(n), unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("%w: mmap %s: %v", ErrIO, path, err)
	}
	w.data = data
	return w, nil
}

// close unmaps and closes the file. It does not remove the file: the
// caller decides between renaming it into place or unlinking it.
func (w *writableMapping) close() error {
	var err error
	if w.data != nil {
		if uerr := unix.Munmap(w.data); uerr != nil {
			err = fmt.Errorf("%w: munmap: %v", ErrIO, uerr)
		}
		w.data = nil
	}
	if cerr := w.file.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("%w: close: %v", ErrIO, cerr)
	}
	return err
}
