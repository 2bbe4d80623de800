package medium

import (
	"bytes"
	"fmt"
)

// Region is a half-open byte range [Start, End) on a medium.
// A region may carry cached content; if so, the content length equals Size.
type Region struct {
	start  Offset
	size   int64
	data   []byte
	cached bool
}

// NewRegion creates an uncached region.
func NewRegion(start Offset, size int64) (Region, error) {
	if size < 0 {
		return Region{}, fmt.Errorf("%w: %d", ErrNegativeSize, size)
	}
	return Region{start: start, size: size}, nil
}

// MustRegion is like NewRegion but panics on a negative size.
func MustRegion(start Offset, size int64) Region {
	r, err := NewRegion(start, size)
	if err != nil {
		panic(err)
	}
	return r
}

// NewCachedRegion creates a region holding a copy of data. Its size is len(data).
func NewCachedRegion(start Offset, data []byte) Region {
	return Region{
		start:  start,
		size:   int64(len(data)),
		data:   bytes.Clone(nonNil(data)),
		cached: true,
	}
}

// Start returns the first offset of the region.
func (r Region) Start() Offset {
	return r.start
}

// Size returns the length of the region in bytes.
func (r Region) Size() int64 {
	return r.size
}

// End returns the offset right behind the last byte of the region.
func (r Region) End() Offset {
	return r.start.Advance(r.size)
}

// IsCached reports whether the region carries content.
func (r Region) IsCached() bool {
	return r.cached
}

// Bytes returns a copy of the cached content, or nil for an uncached region.
func (r Region) Bytes() []byte {
	if !r.cached {
		return nil
	}
	return bytes.Clone(r.data)
}

// Contains reports whether start <= o < end.
func (r Region) Contains(o Offset) bool {
	return o.BehindOrEqual(r.start) && o.Before(r.End())
}

// OverlapCount returns the number of bytes r and other have in common.
func (r Region) OverlapCount(other Region) int64 {
	r.start.mustShareMedium(other.start)
	lo := max(r.start.pos, other.start.pos)
	hi := min(r.start.pos+r.size, other.start.pos+other.size)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// Split divides the region at an interior offset. at must be strictly behind
// the start and strictly before the end. Cached content is copied.
func (r Region) Split(at Offset) (Region, Region, error) {
	if !at.SameMedium(r.start) {
		return Region{}, Region{}, ErrMediumMismatch
	}
	if !r.start.Before(at) || !at.Before(r.End()) {
		return Region{}, Region{}, fmt.Errorf("%w: split at %d not inside (%d, %d)",
			ErrOutsideRegion, at.pos, r.start.pos, r.start.pos+r.size)
	}

	firstSize := at.DistanceTo(r.start)
	if r.cached {
		return NewCachedRegion(r.start, r.data[:firstSize]), NewCachedRegion(at, r.data[firstSize:]), nil
	}
	return Region{start: r.start, size: firstSize}, Region{start: at, size: r.size - firstSize}, nil
}

// TrimFront drops cached bytes before newStart. newStart must lie within
// [start, end]; trimming at start is a no-op.
func (r Region) TrimFront(newStart Offset) (Region, error) {
	if err := r.checkTrim(newStart); err != nil {
		return Region{}, err
	}
	if newStart == r.start {
		return r, nil
	}
	return NewCachedRegion(newStart, r.data[newStart.DistanceTo(r.start):]), nil
}

// TrimBack drops cached bytes at and behind newEnd. newEnd must lie within
// [start, end]; trimming at end is a no-op.
func (r Region) TrimBack(newEnd Offset) (Region, error) {
	if err := r.checkTrim(newEnd); err != nil {
		return Region{}, err
	}
	if newEnd == r.End() {
		return r, nil
	}
	return NewCachedRegion(r.start, r.data[:newEnd.DistanceTo(r.start)]), nil
}

func (r Region) checkTrim(at Offset) error {
	if !r.cached {
		return ErrNotCached
	}
	if !at.SameMedium(r.start) {
		return ErrMediumMismatch
	}
	if at.pos < r.start.pos || at.pos > r.start.pos+r.size {
		return fmt.Errorf("%w: trim at %d not within [%d, %d]",
			ErrOutsideRegion, at.pos, r.start.pos, r.start.pos+r.size)
	}
	return nil
}

// Equal reports whether both regions have the same bounds and content.
func (r Region) Equal(other Region) bool {
	return r.start == other.start &&
		r.size == other.size &&
		r.cached == other.cached &&
		bytes.Equal(r.data, other.data)
}

// String returns a human-readable representation of the region.
func (r Region) String() string {
	if r.cached {
		return fmt.Sprintf("[%d:%d) cached", r.start.pos, r.start.pos+r.size)
	}
	return fmt.Sprintf("[%d:%d)", r.start.pos, r.start.pos+r.size)
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
