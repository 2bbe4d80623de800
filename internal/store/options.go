package store

import (
	"github.com/dshills/shiftplan/internal/config"
	"github.com/dshills/shiftplan/internal/logging"
	"github.com/dshills/shiftplan/internal/watch"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The store derives a "store" component logger
// from it and hands it to the change manager.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.base = l
		}
	}
}

// WithMetrics records flush activity in m instead of a private tracker.
func WithMetrics(m *Metrics) Option {
	return func(s *Store) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithMaxBlockSize overrides the block size of the medium description.
func WithMaxBlockSize(n int) Option {
	return func(s *Store) {
		s.maxBlockSize = n
	}
}

// WithChangeDetection enables or disables fingerprint checks before flushing.
func WithChangeDetection(enabled bool) Option {
	return func(s *Store) {
		s.detect = enabled
	}
}

// WithWatch subscribes to file system events of file media using a watcher
// owned by the store.
func WithWatch(enabled bool) Option {
	return func(s *Store) {
		s.watchFile = enabled
	}
}

// WithWatcher watches the medium with w. The store does not close w.
func WithWatcher(w watch.Watcher) Option {
	return func(s *Store) {
		s.injected = w
		s.watchFile = w != nil
	}
}

// WithConfig applies the flush and medium sections of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Store) {
		s.maxBlockSize = cfg.Flush().MaxBlockSize
		mc := cfg.Medium()
		s.detect = mc.DetectChanges
		s.watchFile = mc.Watch
	}
}
