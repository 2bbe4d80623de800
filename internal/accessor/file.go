package accessor

import (
	"fmt"
	"os"
)

// File is an Accessor backed by an open file.
type File struct {
	f        *os.File
	path     string
	readOnly bool
}

// OpenFile opens the file at path. A writable file must already exist.
func OpenFile(path string, readOnly bool) (*File, error) {
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &File{f: f, path: path, readOnly: readOnly}, nil
}

// Path returns the path the file was opened with.
func (a *File) Path() string {
	return a.path
}

// ReadOnly reports whether the file was opened read-only.
func (a *File) ReadOnly() bool {
	return a.readOnly
}

// ReadAt implements io.ReaderAt.
func (a *File) ReadAt(p []byte, off int64) (int, error) {
	if a.f == nil {
		return 0, ErrClosed
	}
	return a.f.ReadAt(p, off)
}

// WriteAt implements io.WriterAt.
func (a *File) WriteAt(p []byte, off int64) (int, error) {
	if a.f == nil {
		return 0, ErrClosed
	}
	if a.readOnly {
		return 0, ErrReadOnly
	}
	return a.f.WriteAt(p, off)
}

// Len returns the file size.
func (a *File) Len() (int64, error) {
	if a.f == nil {
		return 0, ErrClosed
	}
	info, err := a.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", a.path, err)
	}
	return info.Size(), nil
}

// Truncate changes the file size.
func (a *File) Truncate(size int64) error {
	if a.f == nil {
		return ErrClosed
	}
	if a.readOnly {
		return ErrReadOnly
	}
	return a.f.Truncate(size)
}

// Sync commits the file content to stable storage.
func (a *File) Sync() error {
	if a.f == nil {
		return ErrClosed
	}
	if a.readOnly {
		return nil
	}
	return a.f.Sync()
}

// Close closes the file.
func (a *File) Close() error {
	if a.f == nil {
		return ErrClosed
	}
	err := a.f.Close()
	a.f = nil
	return err
}
