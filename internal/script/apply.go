package script

import (
	"errors"
	"slices"

	"github.com/dshills/shiftplan/internal/action"
	"github.com/dshills/shiftplan/internal/change"
	"github.com/dshills/shiftplan/internal/medium"
)

// Target schedules edits on a medium. *store.Store implements it.
type Target interface {
	CreateOffset(pos int64) (medium.Offset, error)
	ScheduleInsert(off medium.Offset, data []byte) (action.Action, error)
	ScheduleRemove(off medium.Offset, n int64) (action.Action, error)
	ScheduleReplace(off medium.Offset, n int64, data []byte) (action.Action, error)
	Undo(a action.Action) (action.Action, error)
}

// Apply schedules the ops of s on t in order and returns the scheduled
// actions. If an op fails, the ops scheduled before it are undone and the
// returned error wraps an *OpError. Actions subsumed by a later op are part
// of the result although they are no longer pending.
func (s *Script) Apply(t Target) ([]action.Action, error) {
	scheduled := make([]action.Action, 0, len(s.Ops))

	for i, op := range s.Ops {
		a, err := schedule(t, op)
		if err != nil {
			opErr := s.opError(i, err)
			if rerr := rollback(t, scheduled); rerr != nil {
				return nil, errors.Join(opErr, rerr)
			}
			return nil, opErr
		}
		scheduled = append(scheduled, a)
	}
	return scheduled, nil
}

func schedule(t Target, op Op) (action.Action, error) {
	e, err := op.edit()
	if err != nil {
		return action.Action{}, err
	}
	at, err := t.CreateOffset(e.offset)
	if err != nil {
		return action.Action{}, err
	}

	switch e.kind {
	case action.Insert:
		return t.ScheduleInsert(at, e.payload)
	case action.Remove:
		return t.ScheduleRemove(at, e.size)
	default:
		return t.ScheduleReplace(at, e.size, e.payload)
	}
}

// rollback undoes scheduled in reverse. Actions a later op already
// subsumed are not pending any more and fail to undo; those errors are
// expected and dropped.
func rollback(t Target, scheduled []action.Action) error {
	var errs []error
	for _, a := range slices.Backward(scheduled) {
		if _, err := t.Undo(a); err != nil && !errors.Is(err, change.ErrUnknownAction) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
