package medium

import "fmt"

// Offset is an absolute byte position on one medium.
// The zero value is position 0 on the nil medium.
type Offset struct {
	medium ID
	pos    int64
}

// NewOffset creates an offset on the given medium.
func NewOffset(m ID, pos int64) (Offset, error) {
	if pos < 0 {
		return Offset{}, fmt.Errorf("%w: %d", ErrNegativeOffset, pos)
	}
	return Offset{medium: m, pos: pos}, nil
}

// MustOffset is like NewOffset but panics on a negative position.
func MustOffset(m ID, pos int64) Offset {
	o, err := NewOffset(m, pos)
	if err != nil {
		panic(err)
	}
	return o
}

// Medium returns the identity of the medium this offset belongs to.
func (o Offset) Medium() ID {
	return o.medium
}

// Position returns the absolute byte position.
func (o Offset) Position() int64 {
	return o.pos
}

// Advance returns the offset n bytes behind o. n may be negative.
// It panics if the result would be negative.
func (o Offset) Advance(n int64) Offset {
	if o.pos+n < 0 {
		panic(fmt.Sprintf("medium: advancing offset %d by %d yields a negative position", o.pos, n))
	}
	return Offset{medium: o.medium, pos: o.pos + n}
}

// DistanceTo returns o - other in bytes.
func (o Offset) DistanceTo(other Offset) int64 {
	o.mustShareMedium(other)
	return o.pos - other.pos
}

// Compare returns -1, 0 or +1 depending on whether o is before, equal to or
// behind other.
func (o Offset) Compare(other Offset) int {
	o.mustShareMedium(other)
	switch {
	case o.pos < other.pos:
		return -1
	case o.pos > other.pos:
		return 1
	default:
		return 0
	}
}

// Before reports whether o is strictly before other.
func (o Offset) Before(other Offset) bool {
	return o.Compare(other) < 0
}

// BehindOrEqual reports whether o is at or behind other.
func (o Offset) BehindOrEqual(other Offset) bool {
	return o.Compare(other) >= 0
}

// SameMedium reports whether o and other belong to the same medium.
func (o Offset) SameMedium(other Offset) bool {
	return o.medium == other.medium
}

// String returns a human-readable representation of the offset.
func (o Offset) String() string {
	return fmt.Sprintf("%d (0x%X)", o.pos, o.pos)
}

func (o Offset) mustShareMedium(other Offset) {
	if o.medium != other.medium {
		panic(fmt.Sprintf("medium: comparing offset %d of medium %s with offset %d of medium %s",
			o.pos, o.medium, other.pos, other.medium))
	}
}
