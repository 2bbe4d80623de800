// Package accessor provides physical access to the bytes of a medium.
//
// An Accessor reads and writes at absolute positions and can shorten the
// medium. Flush plans produced by package change are executed against it.
package accessor

import (
	"errors"
	"io"
)

// Errors returned by accessors.
var (
	// ErrClosed indicates the accessor was used after Close.
	ErrClosed = errors.New("accessor is closed")

	// ErrReadOnly indicates a write or truncate on a read-only accessor.
	ErrReadOnly = errors.New("accessor is read-only")
)

// Accessor is random access to the bytes of one medium.
type Accessor interface {
	io.ReaderAt
	io.WriterAt
	io.Closer

	// Len returns the current length of the medium in bytes.
	Len() (int64, error)

	// Truncate changes the length of the medium. Growing fills with zeros.
	Truncate(size int64) error
}
