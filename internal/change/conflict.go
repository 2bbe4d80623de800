package change

import (
	"github.com/dshills/shiftplan/internal/action"
	"github.com/dshills/shiftplan/internal/medium"
)

// decision is what happens to a pending Remove or Replace when a new Remove or
// Replace is scheduled.
type decision uint8

const (
	keep    decision = iota // Unaffected
	subsume                 // Fully covered by the new edit, undone
	reject                  // Ambiguous, the new edit fails
)

// overlapDecisions is indexed by the overlap of the new region (left) with the
// pending region (right).
var overlapDecisions = [...]decision{
	medium.Disjoint:        keep,
	medium.SameRange:       subsume,
	medium.RightInsideLeft: subsume,
	medium.LeftInsideRight: reject,
	medium.OverlapAtFront:  reject,
	medium.OverlapAtBack:   reject,
}

func decide(o medium.Overlap) decision {
	if int(o) >= len(overlapDecisions) {
		return reject
	}
	return overlapDecisions[o]
}

func isDeletion(a action.Action) bool {
	return a.Kind() == action.Remove || a.Kind() == action.Replace
}

// probe returns a key sorting behind every pending action starting at pos.
func (m *Manager) probe(pos medium.Offset) action.Action {
	a, err := action.NewRead(medium.MustRegion(pos, 0), maxSequence)
	if err != nil {
		panic(err)
	}
	return a
}

// insertConflict returns the pending Remove or Replace that has x as an
// interior point, if any.
func (m *Manager) insertConflict(x medium.Offset) (action.Action, bool) {
	var found action.Action
	var ok bool
	m.pending.DescendLessOrEqual(m.probe(x), func(a action.Action) bool {
		if !a.Start().Before(x) || !isDeletion(a) {
			return true
		}
		r := a.Region()
		if x.Before(r.End()) {
			found, ok = a, true
			return false
		}
		// Non-empty deletions never overlap, so earlier ones end before this one.
		return r.Size() == 0
	})
	return found, ok
}

// newPointConflict reports an insertion point landing inside existing.
func newPointConflict(kind action.Kind, region medium.Region, existing action.Action) *OverlapError {
	o := medium.Classify(region, existing.Region())
	if o == medium.Disjoint {
		o = medium.LeftInsideRight
	}
	return &OverlapError{Kind: kind, Region: region, Existing: existing, Overlap: o}
}

// deletionAt returns a pending non-empty Remove or Replace starting at x. A
// later empty edit at x would sort behind it and so inside its range.
func (m *Manager) deletionAt(x medium.Offset) (action.Action, bool) {
	var found action.Action
	var ok bool
	m.pending.DescendLessOrEqual(m.probe(x), func(a action.Action) bool {
		if a.Start() != x {
			return false
		}
		if isDeletion(a) && a.Region().Size() > 0 {
			found, ok = a, true
			return false
		}
		return true
	})
	return found, ok
}

// pointLike reports whether a only marks a position: an Insert, or a Remove
// or Replace of zero bytes.
func pointLike(a action.Action) bool {
	return a.Kind() == action.Insert || a.Region().Size() == 0
}

// deletionConflicts finds the pending actions a new non-empty Remove or
// Replace of region subsumes, or the first pending action it conflicts with.
func (m *Manager) deletionConflicts(kind action.Kind, region medium.Region) ([]action.Action, error) {
	var subsumed []action.Action
	var conflict error

	check := func(a action.Action) {
		if pointLike(a) {
			if region.Start().Before(a.Start()) && a.Start().Before(region.End()) {
				subsumed = append(subsumed, a)
			}
			return
		}
		if !isDeletion(a) {
			return
		}
		o := medium.Classify(region, a.Region())
		switch decide(o) {
		case subsume:
			subsumed = append(subsumed, a)
		case reject:
			conflict = &OverlapError{Kind: kind, Region: region, Existing: a, Overlap: o}
		}
	}

	probe := m.probe(region.Start())

	// Actions at or before the start. The first non-empty deletion starting
	// before the region is the only earlier one that can reach into it.
	m.pending.DescendLessOrEqual(probe, func(a action.Action) bool {
		check(a)
		if conflict != nil {
			return false
		}
		return !(a.Start().Before(region.Start()) && isDeletion(a) && a.Region().Size() > 0)
	})
	if conflict != nil {
		return nil, conflict
	}

	m.pending.AscendGreaterOrEqual(probe, func(a action.Action) bool {
		if !a.Start().Before(region.End()) {
			return false
		}
		check(a)
		return conflict == nil
	})
	if conflict != nil {
		return nil, conflict
	}
	return subsumed, nil
}
