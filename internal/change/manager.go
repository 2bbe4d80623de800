package change

import (
	"fmt"
	"iter"
	"math"

	"github.com/google/btree"

	"github.com/dshills/shiftplan/internal/action"
	"github.com/dshills/shiftplan/internal/logging"
	"github.com/dshills/shiftplan/internal/medium"
)

// maxSequence is reserved for lookup probes and never assigned.
const maxSequence = math.MaxInt64

// btreeDegree is the branching factor of the pending set.
const btreeDegree = 16

// Manager holds the pending edits of one medium.
type Manager struct {
	factory *medium.OffsetFactory
	pending *btree.BTreeG[action.Action]
	bySeq   map[int64]action.Action
	nextSeq int64
	logger  *logging.Logger
}

// NewManager creates a manager for the medium of factory.
func NewManager(factory *medium.OffsetFactory, opts ...Option) *Manager {
	m := &Manager{
		factory: factory,
		pending: btree.NewG[action.Action](btreeDegree, action.Less),
		bySeq:   make(map[int64]action.Action),
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Medium returns the medium the manager schedules for.
func (m *Manager) Medium() medium.Medium {
	return m.factory.Medium()
}

// ScheduleInsert schedules payload to be inserted at region's start.
// region.Size() must equal len(payload).
func (m *Manager) ScheduleInsert(region medium.Region, payload []byte) (action.Action, error) {
	a, err := m.newAction(action.Insert, region, payload)
	if err != nil {
		return action.Action{}, err
	}
	if existing, ok := m.insertConflict(region.Start()); ok {
		return action.Action{}, newPointConflict(action.Insert, region, existing)
	}
	m.add(a)
	return a, nil
}

// ScheduleRemove schedules the bytes of region for removal.
func (m *Manager) ScheduleRemove(region medium.Region) (action.Action, error) {
	return m.scheduleDeletion(action.Remove, region, nil)
}

// ScheduleReplace schedules the bytes of region to be replaced by payload.
// The payload may be shorter or longer than the region.
func (m *Manager) ScheduleReplace(region medium.Region, payload []byte) (action.Action, error) {
	return m.scheduleDeletion(action.Replace, region, payload)
}

func (m *Manager) scheduleDeletion(kind action.Kind, region medium.Region, payload []byte) (action.Action, error) {
	a, err := m.newAction(kind, region, payload)
	if err != nil {
		return action.Action{}, err
	}

	if region.Size() == 0 {
		if existing, ok := m.insertConflict(region.Start()); ok {
			return action.Action{}, newPointConflict(kind, region, existing)
		}
		if existing, ok := m.deletionAt(region.Start()); ok {
			return action.Action{}, &OverlapError{Kind: kind, Region: region, Existing: existing, Overlap: medium.Disjoint}
		}
		m.add(a)
		return a, nil
	}

	subsumed, err := m.deletionConflicts(kind, region)
	if err != nil {
		return action.Action{}, err
	}
	for _, s := range subsumed {
		m.remove(s)
		m.logger.Debug("%s #%d %s subsumed by %s %s", s.Kind(), s.Sequence(), s.Region(), kind, region)
	}
	m.add(a)
	return a, nil
}

// newAction validates and creates an action with the next sequence number
// without consuming it.
func (m *Manager) newAction(kind action.Kind, region medium.Region, payload []byte) (action.Action, error) {
	if region.Start().Medium() != m.factory.Medium().ID {
		return action.Action{}, fmt.Errorf("%w: region %s", medium.ErrMediumMismatch, region)
	}
	if m.nextSeq >= maxSequence {
		return action.Action{}, ErrSequenceExhausted
	}
	return action.New(kind, region, m.nextSeq, payload)
}

func (m *Manager) add(a action.Action) {
	m.pending.ReplaceOrInsert(a)
	m.bySeq[a.Sequence()] = a
	m.nextSeq = a.Sequence() + 1
}

func (m *Manager) remove(a action.Action) {
	m.pending.Delete(a)
	delete(m.bySeq, a.Sequence())
}

// Undo withdraws a pending action. The action is identified by its sequence
// number. The returned copy is no longer pending.
func (m *Manager) Undo(a action.Action) (action.Action, error) {
	stored, ok := m.bySeq[a.Sequence()]
	if !ok || stored.Kind() != a.Kind() || stored.Start() != a.Start() {
		return action.Action{}, fmt.Errorf("%w: %s", ErrUnknownAction, a)
	}
	m.remove(stored)
	return stored.Done(), nil
}

// UndoSequence withdraws the pending action with the given sequence number.
func (m *Manager) UndoSequence(seq int64) (action.Action, error) {
	stored, ok := m.bySeq[seq]
	if !ok {
		return action.Action{}, fmt.Errorf("%w: sequence %d", ErrUnknownAction, seq)
	}
	m.remove(stored)
	return stored.Done(), nil
}

// IsPending reports whether a is pending in this manager.
func (m *Manager) IsPending(a action.Action) bool {
	stored, ok := m.bySeq[a.Sequence()]
	return ok && stored.Kind() == a.Kind() && stored.Start() == a.Start()
}

// All iterates the pending actions in order. The pending set must not be
// modified during iteration.
func (m *Manager) All() iter.Seq[action.Action] {
	return func(yield func(action.Action) bool) {
		m.pending.Ascend(func(a action.Action) bool {
			return yield(a)
		})
	}
}

// Actions returns a snapshot of the pending actions in order.
func (m *Manager) Actions() []action.Action {
	out := make([]action.Action, 0, m.pending.Len())
	for a := range m.All() {
		out = append(out, a)
	}
	return out
}

// Len returns the number of pending actions.
func (m *Manager) Len() int {
	return m.pending.Len()
}

// SizeDelta returns the sum of the size deltas of all pending actions.
func (m *Manager) SizeDelta() int64 {
	var d int64
	for a := range m.All() {
		d += a.SizeDelta()
	}
	return d
}

// ClearAll drops every pending action.
func (m *Manager) ClearAll() {
	m.pending.Clear(false)
	clear(m.bySeq)
}
