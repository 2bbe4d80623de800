package action

import (
	"bytes"
	"fmt"

	"github.com/dshills/shiftplan/internal/medium"
)

// Kind identifies what an Action does.
type Kind uint8

const (
	Insert   Kind = iota // Insert payload bytes at the region start
	Remove               // Remove the region's bytes
	Replace              // Replace the region's bytes by the payload
	Write                // Write bytes at the region start
	Read                 // Read the region's bytes
	Truncate             // Truncate the medium at the region start
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Remove:
		return "remove"
	case Replace:
		return "replace"
	case Write:
		return "write"
	case Read:
		return "read"
	case Truncate:
		return "truncate"
	default:
		return "unknown"
	}
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "insert":
		return Insert, nil
	case "remove":
		return Remove, nil
	case "replace":
		return Replace, nil
	case "write":
		return Write, nil
	case "read":
		return Read, nil
	case "truncate":
		return Truncate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// IsEdit reports whether k is a schedulable edit rather than a physical primitive.
func (k Kind) IsEdit() bool {
	return k == Insert || k == Remove || k == Replace
}

// Action is a scheduled edit or a physical primitive.
type Action struct {
	kind     Kind
	region   medium.Region
	seq      int64
	payload  []byte
	hasData  bool
	finished bool
}

// New creates a pending action after validating the payload rules of its kind.
func New(kind Kind, region medium.Region, seq int64, payload []byte) (Action, error) {
	if region.IsCached() {
		return Action{}, ErrCachedRegion
	}
	if seq < 0 {
		return Action{}, fmt.Errorf("%w: %d", ErrNegativeSequence, seq)
	}

	switch kind {
	case Insert:
		if payload == nil {
			return Action{}, fmt.Errorf("%w: %s", ErrPayloadRequired, kind)
		}
		if int64(len(payload)) != region.Size() {
			return Action{}, fmt.Errorf("%w: payload %d bytes, region %d bytes",
				ErrPayloadSizeMismatch, len(payload), region.Size())
		}
	case Replace:
		if payload == nil {
			return Action{}, fmt.Errorf("%w: %s", ErrPayloadRequired, kind)
		}
	case Write:
	case Remove, Read, Truncate:
		if payload != nil {
			return Action{}, fmt.Errorf("%w: %s", ErrPayloadForbidden, kind)
		}
	default:
		return Action{}, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}

	a := Action{kind: kind, region: region, seq: seq}
	if payload != nil {
		a.payload = bytes.Clone(payload)
		a.hasData = true
	}
	return a, nil
}

// NewRead creates a Read primitive for region.
func NewRead(region medium.Region, seq int64) (Action, error) {
	return New(Read, region, seq, nil)
}

// NewWrite creates a Write primitive. A nil payload marks a relocation write
// that takes its bytes from the directly preceding Read.
func NewWrite(region medium.Region, seq int64, payload []byte) (Action, error) {
	return New(Write, region, seq, payload)
}

// NewTruncate creates a Truncate primitive cutting the medium at start.
// size is the number of bytes dropped from the end of the medium.
func NewTruncate(start medium.Offset, size, seq int64) (Action, error) {
	region, err := medium.NewRegion(start, size)
	if err != nil {
		return Action{}, err
	}
	return New(Truncate, region, seq, nil)
}

// Kind returns the action kind.
func (a Action) Kind() Kind {
	return a.kind
}

// Region returns the region the action applies to.
func (a Action) Region() medium.Region {
	return a.region
}

// Start returns the region start.
func (a Action) Start() medium.Offset {
	return a.region.Start()
}

// Sequence returns the schedule sequence number.
func (a Action) Sequence() int64 {
	return a.seq
}

// Payload returns a copy of the payload, or nil if the action has none.
func (a Action) Payload() []byte {
	if !a.hasData {
		return nil
	}
	return bytes.Clone(a.payload)
}

// HasPayload reports whether the action carries a payload.
func (a Action) HasPayload() bool {
	return a.hasData
}

// PayloadLen returns the payload length, 0 without payload.
func (a Action) PayloadLen() int64 {
	return int64(len(a.payload))
}

// Pending reports whether the action has neither been undone nor consumed.
func (a Action) Pending() bool {
	return !a.finished
}

// Done returns a copy of a that is no longer pending.
func (a Action) Done() Action {
	a.finished = true
	return a
}

// SizeDelta returns the number of bytes the medium grows by when the action
// is applied. Negative values shrink the medium.
func (a Action) SizeDelta() int64 {
	switch a.kind {
	case Insert:
		return a.region.Size()
	case Remove, Truncate:
		return -a.region.Size()
	case Replace:
		return a.PayloadLen() - a.region.Size()
	default:
		return 0
	}
}

// Equal reports whether a and other are equal in every field.
func (a Action) Equal(other Action) bool {
	return Compare(a, other) == 0
}

// String returns a human-readable representation of the action.
func (a Action) String() string {
	s := fmt.Sprintf("%s #%d %s", a.kind, a.seq, a.region)
	if a.hasData {
		s += fmt.Sprintf(" payload=%d", len(a.payload))
	}
	if a.finished {
		s += " done"
	}
	return s
}
