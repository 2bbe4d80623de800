// Package action defines the edits a change manager schedules against a
// medium and the physical primitives a flush plan is made of.
//
// # Kinds
//
// Insert, Remove and Replace are logical edits scheduled by callers. Read,
// Write and Truncate are physical primitives emitted into flush plans:
//
//	ins, _ := action.New(action.Insert, region, seq, []byte("hello"))
//	ins.SizeDelta() // +5
//
// Every Action is an immutable value. The region passed to New must not carry
// cached bytes; the payload is always supplied separately.
//
// # Ordering
//
// Compare defines the total order used by the pending set. The primary key is
// the region start; at equal starts inserts sort first, then actions sort by
// ascending sequence number. Remaining fields break ties so that only
// field-equal actions compare as 0.
package action
