package store

import (
	"sync/atomic"
	"time"

	"github.com/dshills/shiftplan/internal/action"
)

// Metrics counts flush activity. One Metrics may be shared by several
// stores; all methods are safe for concurrent use.
type Metrics struct {
	flushCount   atomic.Uint64
	flushTotalNs atomic.Int64
	flushMinNs   atomic.Int64
	flushMaxNs   atomic.Int64

	changes      atomic.Uint64
	steps        atomic.Uint64
	bytesRead    atomic.Int64
	bytesWritten atomic.Int64

	refused atomic.Uint64
	failed  atomic.Uint64
}

// NewMetrics creates an empty metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.flushMinNs.Store(1<<63 - 1)
	return m
}

// recordFlush records a completed flush of plan applying changes edits.
func (m *Metrics) recordFlush(d time.Duration, changes int, plan []action.Action) {
	ns := d.Nanoseconds()
	m.flushCount.Add(1)
	m.flushTotalNs.Add(ns)

	for {
		old := m.flushMinNs.Load()
		if ns >= old || m.flushMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.flushMaxNs.Load()
		if ns <= old || m.flushMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}

	var read, written int64
	var steps uint64
	for _, step := range plan {
		switch step.Kind() {
		case action.Read:
			read += step.Region().Size()
		case action.Write:
			written += step.Region().Size()
		case action.Truncate:
		default:
			continue
		}
		steps++
	}
	m.changes.Add(uint64(changes))
	m.steps.Add(steps)
	m.bytesRead.Add(read)
	m.bytesWritten.Add(written)
}

func (m *Metrics) recordRefused() {
	m.refused.Add(1)
}

func (m *Metrics) recordFailure() {
	m.failed.Add(1)
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	count := m.flushCount.Load()

	var avg time.Duration
	if count > 0 {
		avg = time.Duration(m.flushTotalNs.Load() / int64(count))
	}
	minNs := m.flushMinNs.Load()
	if minNs == 1<<63-1 {
		minNs = 0
	}

	return MetricsSnapshot{
		Flushes:      count,
		AvgFlush:     avg,
		MinFlush:     time.Duration(minNs),
		MaxFlush:     time.Duration(m.flushMaxNs.Load()),
		Changes:      m.changes.Load(),
		Steps:        m.steps.Load(),
		BytesRead:    m.bytesRead.Load(),
		BytesWritten: m.bytesWritten.Load(),
		Refused:      m.refused.Load(),
		Failed:       m.failed.Load(),
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.flushCount.Store(0)
	m.flushTotalNs.Store(0)
	m.flushMinNs.Store(1<<63 - 1)
	m.flushMaxNs.Store(0)
	m.changes.Store(0)
	m.steps.Store(0)
	m.bytesRead.Store(0)
	m.bytesWritten.Store(0)
	m.refused.Store(0)
	m.failed.Store(0)
}

// MetricsSnapshot is a point-in-time view of Metrics.
type MetricsSnapshot struct {
	Flushes      uint64        // Successful flushes
	AvgFlush     time.Duration // Mean duration of a successful flush
	MinFlush     time.Duration
	MaxFlush     time.Duration
	Changes      uint64 // Edits applied
	Steps        uint64 // Read, Write and Truncate steps executed
	BytesRead    int64
	BytesWritten int64
	Refused      uint64 // Flushes refused because the medium changed
	Failed       uint64 // Flushes that stopped with an error
}
