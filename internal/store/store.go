// Package store binds a medium, its accessor and its change manager.
//
// A Store hands out offsets for its medium, schedules inserts, removes and
// replaces, and applies them on Flush by executing the compiled flush plan
// against the accessor. Named anchors created with Track follow the bytes
// they point at across flushes.
//
// When change detection is enabled the store fingerprints the medium at open
// and after each flush and refuses to flush a medium that changed behind its
// back. File media can additionally be watched for file system events.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dshills/shiftplan/internal/accessor"
	"github.com/dshills/shiftplan/internal/action"
	"github.com/dshills/shiftplan/internal/change"
	"github.com/dshills/shiftplan/internal/logging"
	"github.com/dshills/shiftplan/internal/medium"
	"github.com/dshills/shiftplan/internal/watch"
)

// Store manages the pending changes of one medium. It is safe for
// concurrent use.
type Store struct {
	mu sync.Mutex

	medium  medium.Medium
	acc     accessor.Accessor
	factory *medium.OffsetFactory
	changes *change.Manager

	base    *logging.Logger
	logger  *logging.Logger
	metrics *Metrics

	maxBlockSize int
	detect       bool
	fingerprint  uint64
	suspect      atomic.Bool
	broken       bool
	closed       bool

	watchFile    bool
	injected     watch.Watcher
	watcher      watch.Watcher
	ownsWatcher  bool
	stopWatching context.CancelFunc
	watchDone    chan struct{}
}

// Open creates a store for m backed by acc. The store takes ownership of acc
// and closes it on Close.
func Open(acc accessor.Accessor, m medium.Medium, opts ...Option) (*Store, error) {
	s := &Store{
		medium:       m,
		acc:          acc,
		base:         logging.Nop(),
		metrics:      NewMetrics(),
		maxBlockSize: m.MaxBlockSize,
		detect:       true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxBlockSize <= 0 {
		s.maxBlockSize = medium.DefaultMaxBlockSize
	}
	s.medium.MaxBlockSize = s.maxBlockSize
	s.logger = s.base.WithComponent("store").WithField("medium", m.Name)
	s.factory = medium.NewOffsetFactory(s.medium)
	s.changes = change.NewManager(s.factory, change.WithLogger(s.base.WithField("medium", m.Name)))

	if s.detect {
		fp, err := accessor.Fingerprint(acc, s.maxBlockSize)
		if err != nil {
			return nil, s.fail("open", err)
		}
		s.fingerprint = fp
	}

	if s.watchFile && m.Kind == medium.KindFile {
		if err := s.startWatching(); err != nil {
			return nil, s.fail("open", err)
		}
	}

	s.logger.Debug("opened %s, block size %d, change detection %t", s.medium, s.maxBlockSize, s.detect)
	return s, nil
}

// Metrics returns the flush metrics of the store.
func (s *Store) Metrics() *Metrics {
	return s.metrics
}

// OpenFile opens the file at path as a medium.
func OpenFile(path string, readOnly bool, opts ...Option) (*Store, error) {
	acc, err := accessor.OpenFile(path, readOnly)
	if err != nil {
		return nil, err
	}
	m := medium.NewMedium(path, medium.KindFile)
	m.ReadOnly = readOnly

	s, err := Open(acc, m, opts...)
	if err != nil {
		_ = acc.Close()
		return nil, err
	}
	return s, nil
}

// OpenMemory opens an in-memory medium holding a copy of data.
func OpenMemory(name string, data []byte, opts ...Option) (*Store, error) {
	return Open(accessor.NewMemory(data), medium.NewMedium(name, medium.KindMemory), opts...)
}

// Close stops watching, discards pending changes and closes the accessor.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	werr := s.stopWatch()
	s.changes.ClearAll()
	s.factory.Clear()
	if err := errors.Join(werr, s.acc.Close()); err != nil {
		return s.fail("close", err)
	}
	s.logger.Debug("closed")
	return nil
}

// Medium returns the medium description.
func (s *Store) Medium() medium.Medium {
	return s.medium
}

// Size returns the current physical length of the medium.
func (s *Store) Size() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen("size"); err != nil {
		return 0, err
	}
	n, err := s.acc.Len()
	if err != nil {
		return 0, s.fail("size", err)
	}
	return n, nil
}

// CreateOffset returns an offset of this medium.
func (s *Store) CreateOffset(pos int64) (medium.Offset, error) {
	return s.factory.Create(pos)
}

// AtEnd reports whether off is at or behind the end of the medium.
func (s *Store) AtEnd(off medium.Offset) (bool, error) {
	size, err := s.Size()
	if err != nil {
		return false, err
	}
	return off.Position() >= size, nil
}

// ReadData reads n bytes at off as currently stored on the medium. Pending
// changes are not visible until flushed. A read past the end returns the
// bytes available and an error wrapping ErrEndOfMedium.
func (s *Store) ReadData(off medium.Offset, n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen("read"); err != nil {
		return nil, err
	}
	if err := s.ensureOwn("read", off); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, s.fail("read", fmt.Errorf("%w: %d", medium.ErrNegativeSize, n))
	}

	buf := make([]byte, n)
	read, err := s.acc.ReadAt(buf, off.Position())
	if err != nil && read < n {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return buf[:read], s.fail("read", fmt.Errorf("%w: %d bytes at %s, %d available", ErrEndOfMedium, n, off, read))
		}
		return nil, s.fail("read", err)
	}
	return buf, nil
}

// ScheduleInsert schedules data to be inserted at off.
func (s *Store) ScheduleInsert(off medium.Offset, data []byte) (action.Action, error) {
	return s.schedule("insert", off, int64(len(data)), func(r medium.Region) (action.Action, error) {
		return s.changes.ScheduleInsert(r, data)
	})
}

// ScheduleRemove schedules n bytes at off to be removed.
func (s *Store) ScheduleRemove(off medium.Offset, n int64) (action.Action, error) {
	return s.schedule("remove", off, n, s.changes.ScheduleRemove)
}

// ScheduleReplace schedules n bytes at off to be replaced by data.
func (s *Store) ScheduleReplace(off medium.Offset, n int64, data []byte) (action.Action, error) {
	return s.schedule("replace", off, n, func(r medium.Region) (action.Action, error) {
		return s.changes.ScheduleReplace(r, data)
	})
}

func (s *Store) schedule(op string, off medium.Offset, n int64, fn func(medium.Region) (action.Action, error)) (action.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureWritable(op); err != nil {
		return action.Action{}, err
	}
	region, err := medium.NewRegion(off, n)
	if err != nil {
		return action.Action{}, s.fail(op, err)
	}
	a, err := fn(region)
	if err != nil {
		return action.Action{}, s.fail(op, err)
	}
	return a, nil
}

// Undo withdraws a pending change.
func (s *Store) Undo(a action.Action) (action.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureWritable("undo"); err != nil {
		return action.Action{}, err
	}
	done, err := s.changes.Undo(a)
	if err != nil {
		return action.Action{}, s.fail("undo", err)
	}
	return done, nil
}

// Pending returns the pending changes in order.
func (s *Store) Pending() []action.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changes.Actions()
}

// SizeDelta returns by how many bytes the medium grows on the next flush.
func (s *Store) SizeDelta() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changes.SizeDelta()
}

// Track records off under name. The anchor follows its byte across flushes.
func (s *Store) Track(name string, off medium.Offset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen("track"); err != nil {
		return err
	}
	if err := s.factory.Track(name, off); err != nil {
		return s.fail("track", err)
	}
	return nil
}

// Untrack forgets an anchor.
func (s *Store) Untrack(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.factory.Untrack(name); err != nil {
		return s.fail("untrack", err)
	}
	return nil
}

// Tracked returns the current offset of an anchor.
func (s *Store) Tracked(name string) (medium.Offset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.factory.Tracked(name)
}

func (s *Store) ensureOpen(op string) error {
	if s.closed {
		return s.fail(op, ErrClosed)
	}
	return nil
}

func (s *Store) ensureWritable(op string) error {
	if err := s.ensureOpen(op); err != nil {
		return err
	}
	if s.medium.ReadOnly {
		return s.fail(op, ErrReadOnly)
	}
	if s.broken {
		return s.fail(op, ErrInconsistent)
	}
	return nil
}

func (s *Store) ensureOwn(op string, off medium.Offset) error {
	if off.Medium() != s.medium.ID {
		return s.fail(op, fmt.Errorf("%w: offset %s", medium.ErrMediumMismatch, off))
	}
	return nil
}

func (s *Store) fail(op string, err error) error {
	return &MediumError{Op: op, Medium: s.medium.Name, Err: err}
}
