package medium

// Overlap classifies how a left region relates to a right region.
type Overlap uint8

const (
	// Disjoint regions share no byte. Empty regions are disjoint from everything.
	Disjoint Overlap = iota
	// SameRange regions cover exactly the same bytes.
	SameRange
	// LeftInsideRight means every byte of left is also in right.
	LeftInsideRight
	// RightInsideLeft means every byte of right is also in left.
	RightInsideLeft
	// OverlapAtFront means right starts inside left and extends beyond left's end.
	OverlapAtFront
	// OverlapAtBack means left starts inside right and extends beyond right's end.
	OverlapAtBack
)

// String returns a string representation of the overlap.
func (o Overlap) String() string {
	switch o {
	case Disjoint:
		return "disjoint"
	case SameRange:
		return "same-range"
	case LeftInsideRight:
		return "left-inside-right"
	case RightInsideLeft:
		return "right-inside-left"
	case OverlapAtFront:
		return "overlap-at-front"
	case OverlapAtBack:
		return "overlap-at-back"
	default:
		return "unknown"
	}
}

// Classify determines the overlap of left and right.
// It panics if the regions belong to different media.
func Classify(left, right Region) Overlap {
	n := left.OverlapCount(right)
	switch {
	case n == 0:
		return Disjoint
	case n == left.size && n == right.size:
		return SameRange
	case n == left.size:
		return LeftInsideRight
	case n == right.size:
		return RightInsideLeft
	case right.start.pos > left.start.pos:
		return OverlapAtFront
	default:
		return OverlapAtBack
	}
}

// ClipResult holds the parts of a master region relative to another region.
type ClipResult struct {
	Overlapped Region  // Part of master shared with the other region
	Front      *Region // Part of master before the other region, nil if none
	Back       *Region // Part of master behind the other region, nil if none
}

// Clip cuts master into the part overlapping other and the non-overlapped
// parts at its front and back.
func Clip(master, other Region) (ClipResult, error) {
	if master.OverlapCount(other) == 0 {
		return ClipResult{}, ErrNoOverlap
	}

	res := ClipResult{Overlapped: master}
	if master.start.Before(other.start) {
		front, rest, err := master.Split(other.start)
		if err != nil {
			return ClipResult{}, err
		}
		res.Front = &front
		res.Overlapped = rest
	}
	if other.End().Before(res.Overlapped.End()) {
		mid, back, err := res.Overlapped.Split(other.End())
		if err != nil {
			return ClipResult{}, err
		}
		res.Overlapped = mid
		res.Back = &back
	}
	return res, nil
}
