// Package watch reports external modifications of file media.
//
// A Watcher observes individual files. It watches each file's parent
// directory so that files replaced by rename are still noticed, and only
// reports events for the files registered with Watch.
package watch

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("file is already being watched")
	ErrNotWatching     = errors.New("file is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
	ErrNotRegularFile  = errors.New("path is not a regular file")
)

// Op represents the kind of file system operation.
type Op uint32

const (
	// OpCreate indicates the file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates the file was written to.
	OpWrite
	// OpRemove indicates the file was removed.
	OpRemove
	// OpRename indicates the file was renamed.
	OpRename
	// OpChmod indicates file permissions were changed.
	OpChmod
)

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
	{OpChmod, "CHMOD"},
}

// String returns the names of all operations in op joined by "|".
func (op Op) String() string {
	var names []string
	for _, n := range opNames {
		if op.Has(n.op) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(names, "|")
}

// Has returns true if the operation includes o.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event is a change of a watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string

	// Op is the operation that occurred.
	Op Op

	// Timestamp is when the event was received.
	Timestamp time.Time
}

// Stats provides watcher status information.
type Stats struct {
	WatchedFiles int       // Files registered with Watch
	TotalEvents  int64     // Events delivered
	Dropped      int64     // Events dropped because the channel was full
	Errors       int64     // Errors encountered
	LastError    error     // Most recent error, if any
	StartTime    time.Time // When the watcher was created
}

// Watcher monitors files for external changes.
type Watcher interface {
	// Watch starts watching a regular file.
	Watch(path string) error

	// Unwatch stops watching a file.
	Unwatch(path string) error

	// Events returns the channel of change events. It is closed by Close.
	Events() <-chan Event

	// Errors returns the channel of watcher errors. It is closed by Close.
	Errors() <-chan error

	// Close stops the watcher and releases resources.
	Close() error
}

// Config holds watcher configuration options.
type Config struct {
	// BufferSize is the size of the event and error channels.
	// Default: 64
	BufferSize int

	// IgnoreChmod drops events that only change permissions.
	// Default: true
	IgnoreChmod bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize:  64,
		IgnoreChmod: true,
	}
}

// Option configures a watcher.
type Option func(*Config)

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		c.BufferSize = size
	}
}

// WithIgnoreChmod sets whether permission-only changes are dropped.
func WithIgnoreChmod(ignore bool) Option {
	return func(c *Config) {
		c.IgnoreChmod = ignore
	}
}

// Dispatch calls onEvent and onError for everything w reports until ctx is
// done or w is closed. Either callback may be nil.
func Dispatch(ctx context.Context, w Watcher, onEvent func(Event), onError func(error)) {
	events, errs := w.Events(), w.Errors()
	for events != nil || errs != nil {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if onEvent != nil {
				onEvent(ev)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
