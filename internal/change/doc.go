// Package change schedules edits against one medium and compiles them into
// flush plans.
//
// A Manager keeps the pending Insert, Remove and Replace actions of a medium
// sorted by action.Compare. New edits are validated against the pending set
// before anything is changed:
//
//   - An Insert may not land strictly inside a pending Remove or Replace.
//   - A Remove or Replace subsumes pending Inserts strictly inside its region
//     and pending Removes or Replaces it fully covers.
//   - Any other overlap between Removes and Replaces is rejected with an
//     *OverlapError.
//
// # Flush Plans
//
// CreateFlushPlan turns the pending set into an ordered list of Read, Write
// and Truncate primitives. Each pending action yields one ShiftBlock that
// relocates the untouched bytes behind it and writes its payload:
//
//	m := change.NewManager(factory)
//	m.ScheduleRemove(medium.MustRegion(at(10), 10))
//	m.ScheduleInsert(medium.MustRegion(at(10), 5), []byte("hello"))
//
//	plan, err := m.CreateFlushPlan(4096, 100)
//
// Executing the plan strictly in order never overwrites bytes that are still
// to be read. Every block ends with its causing action as a marker so the
// executor can settle bookkeeping once the bytes are in place.
//
// The Manager does no locking. Callers serialize access.
package change
