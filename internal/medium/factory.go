package medium

import (
	"fmt"
	"sort"
)

// OffsetFactory creates offsets bound to one medium and keeps track of named
// anchors that follow the bytes they point at when the medium is edited.
type OffsetFactory struct {
	medium  Medium
	anchors map[string]int64
}

// NewOffsetFactory creates a factory for the given medium.
func NewOffsetFactory(m Medium) *OffsetFactory {
	return &OffsetFactory{
		medium:  m,
		anchors: make(map[string]int64),
	}
}

// Medium returns the medium offsets are created for.
func (f *OffsetFactory) Medium() Medium {
	return f.medium
}

// Create returns an offset at the given absolute position.
func (f *OffsetFactory) Create(pos int64) (Offset, error) {
	return NewOffset(f.medium.ID, pos)
}

// Track records off under name, replacing any previous anchor of that name.
func (f *OffsetFactory) Track(name string, off Offset) error {
	if off.medium != f.medium.ID {
		return fmt.Errorf("%w: anchor %q", ErrMediumMismatch, name)
	}
	f.anchors[name] = off.pos
	return nil
}

// Untrack forgets the anchor with the given name.
func (f *OffsetFactory) Untrack(name string) error {
	if _, ok := f.anchors[name]; !ok {
		return fmt.Errorf("%w: %q", ErrAnchorNotFound, name)
	}
	delete(f.anchors, name)
	return nil
}

// Tracked returns the current offset of an anchor.
func (f *OffsetFactory) Tracked(name string) (Offset, bool) {
	pos, ok := f.anchors[name]
	if !ok {
		return Offset{}, false
	}
	return Offset{medium: f.medium.ID, pos: pos}, true
}

// TrackedIn returns the names of all anchors inside r, sorted by position and name.
func (f *OffsetFactory) TrackedIn(r Region) []string {
	var names []string
	for name, pos := range f.anchors {
		if r.Contains(Offset{medium: f.medium.ID, pos: pos}) {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := f.anchors[names[i]], f.anchors[names[j]]
		if pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})
	return names
}

// AnchorCount returns the number of tracked anchors.
func (f *OffsetFactory) AnchorCount() int {
	return len(f.anchors)
}

// ShiftInserted moves every anchor at or behind at by n bytes, as bytes
// inserted at at push existing content back.
func (f *OffsetFactory) ShiftInserted(at Offset, n int64) {
	f.mustOwn(at)
	for name, pos := range f.anchors {
		if pos >= at.pos {
			f.anchors[name] = pos + n
		}
	}
}

// ShiftRemoved adjusts anchors for n bytes removed at at: anchors inside the
// removed range collapse to at, anchors behind it move back by n.
func (f *OffsetFactory) ShiftRemoved(at Offset, n int64) {
	f.mustOwn(at)
	for name, pos := range f.anchors {
		switch {
		case pos < at.pos:
		case pos < at.pos+n:
			f.anchors[name] = at.pos
		default:
			f.anchors[name] = pos - n
		}
	}
}

// Clear forgets all anchors.
func (f *OffsetFactory) Clear() {
	clear(f.anchors)
}

func (f *OffsetFactory) mustOwn(o Offset) {
	if o.medium != f.medium.ID {
		panic(fmt.Sprintf("medium: offset of medium %s used with factory of medium %s", o.medium, f.medium.ID))
	}
}
