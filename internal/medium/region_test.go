package medium

import (
	"bytes"
	"errors"
	"testing"
)

// ============================================================================
// Construction and basic queries
// ============================================================================

func TestNewRegion(t *testing.T) {
	r, err := NewRegion(at(10), 5)
	if err != nil {
		t.Fatalf("NewRegion error = %v", err)
	}
	if r.Size() != 5 {
		t.Errorf("Size() = %d, want 5", r.Size())
	}
	if r.End() != at(15) {
		t.Errorf("End() = %v, want 15", r.End())
	}
	if r.IsCached() {
		t.Error("NewRegion should not be cached")
	}
	if r.Bytes() != nil {
		t.Error("uncached region should return nil bytes")
	}

	if _, err := NewRegion(at(10), -1); !errors.Is(err, ErrNegativeSize) {
		t.Errorf("NewRegion(-1) error = %v, want ErrNegativeSize", err)
	}
}

func TestNewCachedRegion_CopiesInput(t *testing.T) {
	data := []byte("hello")
	r := NewCachedRegion(at(0), data)
	data[0] = 'j'

	if string(r.Bytes()) != "hello" {
		t.Errorf("Bytes() = %q, want %q", r.Bytes(), "hello")
	}

	out := r.Bytes()
	out[1] = 'a'
	if string(r.Bytes()) != "hello" {
		t.Error("Bytes() should return a copy")
	}
}

func TestRegion_Contains(t *testing.T) {
	r := MustRegion(at(10), 5)
	tests := []struct {
		pos  int64
		want bool
	}{
		{9, false},
		{10, true},
		{14, true},
		{15, false},
	}
	for _, tt := range tests {
		if got := r.Contains(at(tt.pos)); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.pos, got, tt.want)
		}
	}

	if MustRegion(at(10), 0).Contains(at(10)) {
		t.Error("empty region should contain nothing")
	}
}

// ============================================================================
// Overlap classification
// ============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		left      Region
		right     Region
		want      Overlap
		wantCount int64
	}{
		{"same range", MustRegion(at(10), 10), MustRegion(at(10), 10), SameRange, 10},
		{"left inside right", MustRegion(at(12), 3), MustRegion(at(10), 10), LeftInsideRight, 3},
		{"left inside right sharing start", MustRegion(at(10), 3), MustRegion(at(10), 10), LeftInsideRight, 3},
		{"right inside left", MustRegion(at(10), 10), MustRegion(at(15), 5), RightInsideLeft, 5},
		{"overlap at front", MustRegion(at(10), 10), MustRegion(at(15), 10), OverlapAtFront, 5},
		{"overlap at back", MustRegion(at(15), 10), MustRegion(at(10), 10), OverlapAtBack, 5},
		{"disjoint adjacent", MustRegion(at(10), 10), MustRegion(at(20), 10), Disjoint, 0},
		{"disjoint apart", MustRegion(at(30), 1), MustRegion(at(10), 10), Disjoint, 0},
		{"empty left", MustRegion(at(12), 0), MustRegion(at(10), 10), Disjoint, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.left, tt.right); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
			if got := tt.left.OverlapCount(tt.right); got != tt.wantCount {
				t.Errorf("OverlapCount = %d, want %d", got, tt.wantCount)
			}
			if got := tt.right.OverlapCount(tt.left); got != tt.wantCount {
				t.Errorf("reverse OverlapCount = %d, want %d", got, tt.wantCount)
			}
		})
	}
}

// ============================================================================
// Split and trim
// ============================================================================

func TestRegion_Split(t *testing.T) {
	r := MustRegion(at(10), 10)
	first, second, err := r.Split(at(13))
	if err != nil {
		t.Fatalf("Split error = %v", err)
	}
	if first.Start() != at(10) || first.Size() != 3 {
		t.Errorf("first = %v, want [10:13)", first)
	}
	if second.Start() != at(13) || second.Size() != 7 {
		t.Errorf("second = %v, want [13:20)", second)
	}
	if first.IsCached() || second.IsCached() {
		t.Error("split of uncached region should be uncached")
	}
}

func TestRegion_SplitCached(t *testing.T) {
	data := []byte("0123456789")
	r := NewCachedRegion(at(100), data)

	first, second, err := r.Split(at(104))
	if err != nil {
		t.Fatalf("Split error = %v", err)
	}
	if string(first.Bytes()) != "0123" {
		t.Errorf("first bytes = %q, want %q", first.Bytes(), "0123")
	}
	if string(second.Bytes()) != "456789" {
		t.Errorf("second bytes = %q, want %q", second.Bytes(), "456789")
	}
	if first.Size()+second.Size() != r.Size() {
		t.Error("split sizes should sum to the original size")
	}
}

func TestRegion_SplitBoundaries(t *testing.T) {
	r := MustRegion(at(10), 10)
	for _, pos := range []int64{5, 10, 20, 25} {
		if _, _, err := r.Split(at(pos)); !errors.Is(err, ErrOutsideRegion) {
			t.Errorf("Split(%d) error = %v, want ErrOutsideRegion", pos, err)
		}
	}
}

func TestRegion_TrimFront(t *testing.T) {
	r := NewCachedRegion(at(10), []byte("abcdef"))

	same, err := r.TrimFront(at(10))
	if err != nil {
		t.Fatalf("TrimFront error = %v", err)
	}
	if !same.Equal(r) {
		t.Error("trimming at start should be a no-op")
	}

	trimmed, err := r.TrimFront(at(12))
	if err != nil {
		t.Fatalf("TrimFront error = %v", err)
	}
	if trimmed.Start() != at(12) || string(trimmed.Bytes()) != "cdef" {
		t.Errorf("TrimFront = %v %q, want [12:16) %q", trimmed, trimmed.Bytes(), "cdef")
	}

	if _, err := MustRegion(at(10), 6).TrimFront(at(12)); !errors.Is(err, ErrNotCached) {
		t.Errorf("TrimFront on uncached error = %v, want ErrNotCached", err)
	}
	if _, err := r.TrimFront(at(17)); !errors.Is(err, ErrOutsideRegion) {
		t.Errorf("TrimFront outside error = %v, want ErrOutsideRegion", err)
	}
}

func TestRegion_TrimBack(t *testing.T) {
	r := NewCachedRegion(at(10), []byte("abcdef"))

	same, err := r.TrimBack(at(16))
	if err != nil {
		t.Fatalf("TrimBack error = %v", err)
	}
	if !same.Equal(r) {
		t.Error("trimming at end should be a no-op")
	}

	trimmed, err := r.TrimBack(at(13))
	if err != nil {
		t.Fatalf("TrimBack error = %v", err)
	}
	if trimmed.Start() != at(10) || !bytes.Equal(trimmed.Bytes(), []byte("abc")) {
		t.Errorf("TrimBack = %v %q, want [10:13) %q", trimmed, trimmed.Bytes(), "abc")
	}
}

// ============================================================================
// Clip
// ============================================================================

func TestClip(t *testing.T) {
	master := NewCachedRegion(at(10), []byte("0123456789"))

	res, err := Clip(master, MustRegion(at(13), 4))
	if err != nil {
		t.Fatalf("Clip error = %v", err)
	}
	if string(res.Overlapped.Bytes()) != "3456" {
		t.Errorf("overlapped = %q, want %q", res.Overlapped.Bytes(), "3456")
	}
	if res.Front == nil || string(res.Front.Bytes()) != "012" {
		t.Errorf("front = %v, want %q", res.Front, "012")
	}
	if res.Back == nil || string(res.Back.Bytes()) != "789" {
		t.Errorf("back = %v, want %q", res.Back, "789")
	}

	res, err = Clip(master, MustRegion(at(0), 100))
	if err != nil {
		t.Fatalf("Clip error = %v", err)
	}
	if res.Front != nil || res.Back != nil {
		t.Error("fully covered master should have no front or back part")
	}

	if _, err := Clip(master, MustRegion(at(50), 1)); !errors.Is(err, ErrNoOverlap) {
		t.Errorf("Clip disjoint error = %v, want ErrNoOverlap", err)
	}
}
