package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/shiftplan/internal/action"
)

// ==== Metrics ====

func TestMetrics_RecordsFlushes(t *testing.T) {
	m := NewMetrics()
	s, mem := openMemory(t, "0123456789", WithMaxBlockSize(4), WithMetrics(m))

	if _, err := s.ScheduleInsert(off(t, s, 2), []byte("ab")); err != nil {
		t.Fatalf("ScheduleInsert error = %v", err)
	}
	if _, err := s.ScheduleRemove(off(t, s, 8), 1); err != nil {
		t.Fatalf("ScheduleRemove error = %v", err)
	}
	plan, err := s.Plan()
	if err != nil {
		t.Fatalf("Plan error = %v", err)
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush error = %v", err)
	}

	var steps uint64
	var read, written int64
	for _, step := range plan {
		if step.Kind().IsEdit() {
			continue
		}
		steps++
		switch step.Kind() {
		case action.Read:
			read += step.Region().Size()
		case action.Write:
			written += step.Region().Size()
		}
	}

	got := m.Snapshot()
	if got.Flushes != 1 || got.Changes != 2 || got.Steps != steps {
		t.Errorf("Snapshot() = %+v, want 1 flush of 2 changes in %d steps", got, steps)
	}
	if got.BytesRead != read || got.BytesWritten != written {
		t.Errorf("bytes read %d written %d, want %d and %d", got.BytesRead, got.BytesWritten, read, written)
	}
	if got.MinFlush > got.MaxFlush || got.AvgFlush > got.MaxFlush {
		t.Errorf("durations min %v avg %v max %v out of order", got.MinFlush, got.AvgFlush, got.MaxFlush)
	}

	if _, err := s.ScheduleInsert(off(t, s, 0), []byte("Z")); err != nil {
		t.Fatalf("ScheduleInsert error = %v", err)
	}
	if _, err := mem.WriteAt([]byte("!"), 0); err != nil {
		t.Fatalf("WriteAt error = %v", err)
	}
	if err := s.Flush(context.Background()); !errors.Is(err, ErrMediumChanged) {
		t.Fatalf("Flush error = %v, want ErrMediumChanged", err)
	}
	if got := m.Snapshot(); got.Refused != 1 || got.Flushes != 1 {
		t.Errorf("after refusal Snapshot() = %+v", got)
	}

	m.Reset()
	if got := m.Snapshot(); got != (MetricsSnapshot{}) {
		t.Errorf("after Reset Snapshot() = %+v, want zero", got)
	}
}

func TestMetrics_SharedAcrossStores(t *testing.T) {
	m := NewMetrics()
	for _, content := range []string{"abc", "defg"} {
		s, _ := openMemory(t, content, WithMetrics(m))
		if _, err := s.ScheduleRemove(off(t, s, 0), 1); err != nil {
			t.Fatalf("ScheduleRemove error = %v", err)
		}
		if err := s.Flush(context.Background()); err != nil {
			t.Fatalf("Flush error = %v", err)
		}
		if s.Metrics() != m {
			t.Fatal("Metrics() does not return the shared tracker")
		}
	}
	if got := m.Snapshot(); got.Flushes != 2 || got.Changes != 2 {
		t.Errorf("Snapshot() = %+v, want 2 flushes", got)
	}
}

func TestMetrics_CountsFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, _ := openMemory(t, "abc")
	if _, err := s.ScheduleInsert(off(t, s, 1), []byte("x")); err != nil {
		t.Fatalf("ScheduleInsert error = %v", err)
	}
	if err := s.Flush(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Flush error = %v, want context.Canceled", err)
	}
	if got := s.Metrics().Snapshot(); got.Failed != 1 || got.Flushes != 0 {
		t.Errorf("Snapshot() = %+v, want one failure", got)
	}
}
