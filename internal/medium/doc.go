// Package medium provides the positional vocabulary shared by the change
// scheduling engine: media identities, offsets on a medium, and regions.
//
// # Offsets
//
// An [Offset] is an absolute byte position on exactly one [Medium]. Offsets are
// immutable values; [Offset.Advance] returns a new offset and
// [Offset.DistanceTo] returns the signed byte count between two offsets.
// Comparing offsets of different media is a programming error and panics.
//
//	m := medium.NewMedium("song.mp3", medium.KindFile)
//	f := medium.NewOffsetFactory(m)
//	start, _ := f.Create(10)
//	end := start.Advance(20)
//	end.DistanceTo(start) // 20
//
// # Regions
//
// A [Region] is a half-open byte range [start, start+size) that may carry
// cached content. Regions support containment checks, overlap classification
// via [Classify], splitting and trimming:
//
//	r := medium.MustRegion(start, 20)
//	r.Contains(start.Advance(5)) // true
//	medium.Classify(r, other)    // OverlapAtFront, SameRange, ...
//
// # Tracked Offsets
//
// [OffsetFactory] can track named anchors and shift them when edits are
// applied to the medium, so that positions recorded before a flush still
// point at the same bytes afterwards.
package medium
