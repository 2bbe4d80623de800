package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dshills/shiftplan/internal/accessor"
	"github.com/dshills/shiftplan/internal/action"
)

// Plan compiles the pending changes into the flush plan for the current
// medium length without executing it.
func (s *Store) Plan() ([]action.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen("plan"); err != nil {
		return nil, err
	}
	return s.plan()
}

func (s *Store) plan() ([]action.Action, error) {
	size, err := s.acc.Len()
	if err != nil {
		return nil, s.fail("plan", err)
	}
	plan, err := s.changes.CreateFlushPlan(s.maxBlockSize, size)
	if err != nil {
		return nil, s.fail("plan", err)
	}
	return plan, nil
}

// Flush applies all pending changes to the medium.
//
// The flush plan runs strictly in order; ctx is checked before every step.
// Once a step has modified the medium a failure leaves the store
// inconsistent and further flushes fail with ErrInconsistent. On success the
// applied changes are no longer pending and tracked anchors have moved with
// their bytes.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureWritable("flush"); err != nil {
		return err
	}
	if s.changes.Len() == 0 {
		return nil
	}
	start := time.Now()
	if err := s.verify(); err != nil {
		if errors.Is(err, ErrMediumChanged) {
			s.metrics.recordRefused()
		}
		return err
	}

	before, err := s.acc.Len()
	if err != nil {
		return s.fail("flush", err)
	}
	plan, err := s.plan()
	if err != nil {
		return err
	}

	causes, done, err := s.execute(ctx, plan)
	if err != nil {
		s.metrics.recordFailure()
		if done > 0 {
			s.broken = true
			s.logger.Error("flush stopped after %d of %d steps: %v", done, len(plan), err)
		}
		return s.fail("flush", err)
	}
	if err := s.consume(causes); err != nil {
		s.metrics.recordFailure()
		s.broken = true
		return s.fail("flush", err)
	}

	if s.detect {
		fp, err := accessor.Fingerprint(s.acc, s.maxBlockSize)
		if err != nil {
			return s.fail("flush", err)
		}
		s.fingerprint = fp
	}

	s.metrics.recordFlush(time.Since(start), len(causes), plan)
	s.logger.Info("flushed %d changes in %d steps, size %d -> %d",
		len(causes), len(plan), before, before+sizeDelta(causes))
	return nil
}

// execute runs the Read, Write and Truncate steps of plan and returns the
// edit actions they were derived from, in plan order, together with the
// number of steps that touched the medium.
func (s *Store) execute(ctx context.Context, plan []action.Action) ([]action.Action, int, error) {
	var (
		causes []action.Action
		last   []byte
		done   int
	)

	for i, step := range plan {
		if err := ctx.Err(); err != nil {
			return nil, done, err
		}

		region := step.Region()
		pos := region.Start().Position()
		switch step.Kind() {
		case action.Read:
			buf := make([]byte, region.Size())
			if n, err := s.acc.ReadAt(buf, pos); err != nil && int64(n) < region.Size() {
				return nil, done, fmt.Errorf("step %d %s: %w", i, step, err)
			}
			last = buf
			continue

		case action.Write:
			data := step.Payload()
			if !step.HasPayload() {
				if last == nil || int64(len(last)) != region.Size() {
					return nil, done, fmt.Errorf("%w: step %d %s has no matching read", ErrBrokenPlan, i, step)
				}
				data = last
			}
			done++
			if _, err := s.acc.WriteAt(data, pos); err != nil {
				return nil, done, fmt.Errorf("step %d %s: %w", i, step, err)
			}

		case action.Truncate:
			done++
			if err := s.acc.Truncate(pos); err != nil {
				return nil, done, fmt.Errorf("step %d %s: %w", i, step, err)
			}

		default:
			causes = append(causes, step)
		}
		last = nil
	}
	return causes, done, nil
}

// consume withdraws the applied changes and moves the anchors. Changes are
// taken back to front so every change still sees the positions it was
// scheduled with.
func (s *Store) consume(causes []action.Action) error {
	ordered := slices.Clone(causes)
	slices.SortFunc(ordered, func(a, b action.Action) int {
		return action.Compare(b, a)
	})

	for _, a := range ordered {
		if _, err := s.changes.Undo(a); err != nil {
			return fmt.Errorf("%w: %v", ErrBrokenPlan, err)
		}
		s.shiftAnchors(a)
	}
	return nil
}

func (s *Store) shiftAnchors(a action.Action) {
	start := a.Start()
	size := a.Region().Size()

	switch a.Kind() {
	case action.Insert:
		s.factory.ShiftInserted(start, size)
	case action.Remove:
		s.factory.ShiftRemoved(start, size)
	case action.Replace:
		n := a.PayloadLen()
		switch {
		case n > size:
			s.factory.ShiftInserted(start.Advance(size), n-size)
		case n < size:
			s.factory.ShiftRemoved(start.Advance(n), size-n)
		}
	}
}

// verify compares the medium against the last fingerprint. With a watcher
// attached the check only runs after an event arrived.
func (s *Store) verify() error {
	if !s.detect {
		return nil
	}
	if s.watcher != nil && !s.suspect.Load() {
		return nil
	}

	fp, err := accessor.Fingerprint(s.acc, s.maxBlockSize)
	if err != nil {
		return s.fail("flush", err)
	}
	if fp != s.fingerprint {
		s.logger.Warn("content fingerprint %016x differs from %016x", fp, s.fingerprint)
		return s.fail("flush", ErrMediumChanged)
	}
	s.suspect.Store(false)
	return nil
}

// Resync accepts the current medium content as the new reference state
// after ErrMediumChanged. Pending changes are kept.
func (s *Store) Resync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen("resync"); err != nil {
		return err
	}
	fp, err := accessor.Fingerprint(s.acc, s.maxBlockSize)
	if err != nil {
		return s.fail("resync", err)
	}
	s.fingerprint = fp
	s.suspect.Store(false)
	s.logger.Info("resynchronized")
	return nil
}

func sizeDelta(actions []action.Action) int64 {
	var d int64
	for _, a := range actions {
		d += a.SizeDelta()
	}
	return d
}
