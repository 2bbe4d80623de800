package accessor

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/dshills/shiftplan/internal/medium"
)

// Memory is an Accessor backed by a byte slice. Writes past the end grow it.
type Memory struct {
	mu     sync.RWMutex
	data   []byte
	closed bool
}

// NewMemory creates a memory accessor holding a copy of data.
func NewMemory(data []byte) *Memory {
	return &Memory{data: bytes.Clone(data)}
}

// Bytes returns a copy of the current content.
func (m *Memory) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return bytes.Clone(m.data)
}

// ReadAt implements io.ReaderAt.
func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, fmt.Errorf("%w: %d", medium.ErrNegativeOffset, off)
	}
	if off >= int64(len(m.data)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}

	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt.
func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, fmt.Errorf("%w: %d", medium.ErrNegativeOffset, off)
	}

	if end := off + int64(len(p)); end > int64(len(m.data)) {
		m.data = append(m.data, make([]byte, end-int64(len(m.data)))...)
	}
	return copy(m.data[off:], p), nil
}

// Len returns the content length.
func (m *Memory) Len() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrClosed
	}
	return int64(len(m.data)), nil
}

// Truncate changes the content length.
func (m *Memory) Truncate(size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if size < 0 {
		return fmt.Errorf("%w: %d", medium.ErrNegativeSize, size)
	}

	if size <= int64(len(m.data)) {
		m.data = m.data[:size:size]
	} else {
		m.data = append(m.data, make([]byte, size-int64(len(m.data)))...)
	}
	return nil
}

// Close releases the content. Further calls fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.closed = true
	m.data = nil
	return nil
}
