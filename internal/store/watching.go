package store

import (
	"context"
	"errors"

	"github.com/dshills/shiftplan/internal/watch"
)

// startWatching registers the medium file with the watcher and marks the
// medium suspect on every event.
func (s *Store) startWatching() error {
	w := s.injected
	if w == nil {
		var err error
		if w, err = watch.NewFSNotifyWatcher(); err != nil {
			return err
		}
		s.ownsWatcher = true
	}

	if err := w.Watch(s.medium.Name); err != nil {
		if s.ownsWatcher {
			_ = w.Close()
		}
		return err
	}
	s.watcher = w

	ctx, cancel := context.WithCancel(context.Background())
	s.stopWatching = cancel
	s.watchDone = make(chan struct{})
	go func() {
		defer close(s.watchDone)
		watch.Dispatch(ctx, w, s.onWatchEvent, s.onWatchError)
	}()
	return nil
}

func (s *Store) onWatchEvent(ev watch.Event) {
	s.suspect.Store(true)
	s.logger.Debug("%s on %s, content will be verified before flushing", ev.Op, ev.Path)
}

func (s *Store) onWatchError(err error) {
	s.suspect.Store(true)
	s.logger.Warn("watcher error: %v", err)
}

// stopWatch ends the dispatch goroutine and releases the watch.
func (s *Store) stopWatch() error {
	if s.watcher == nil {
		return nil
	}
	s.stopWatching()
	<-s.watchDone

	var err error
	if s.ownsWatcher {
		err = s.watcher.Close()
	} else if uerr := s.watcher.Unwatch(s.medium.Name); uerr != nil && !errors.Is(uerr, watch.ErrWatcherClosed) {
		err = uerr
	}
	s.watcher = nil
	return err
}

// Watching reports whether the medium is watched for file system events.
func (s *Store) Watching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watcher != nil
}
