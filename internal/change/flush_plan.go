package change

import (
	"fmt"

	"github.com/dshills/shiftplan/internal/action"
	"github.com/dshills/shiftplan/internal/medium"
)

// CreateFlushPlan compiles the pending actions into the Read, Write and
// Truncate primitives that apply them to a medium of mediumSize bytes. Every
// primitive moves at most maxBlockSize bytes. The pending set is not modified.
func (m *Manager) CreateFlushPlan(maxBlockSize int, mediumSize int64) ([]action.Action, error) {
	if maxBlockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, maxBlockSize)
	}
	if mediumSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMediumSize, mediumSize)
	}

	blocks, delta, err := m.shiftBlocks(mediumSize)
	if err != nil {
		return nil, err
	}
	if !orderBlocks(blocks) {
		m.logger.Warn("flush plan hazards form a cycle, keeping sorted order for %d blocks", len(blocks))
	}

	var plan []action.Action
	for _, b := range blocks {
		steps, err := b.Actions(maxBlockSize)
		if err != nil {
			return nil, err
		}
		plan = append(plan, steps...)
	}

	if delta < 0 {
		at, err := m.factory.Create(mediumSize + delta)
		if err != nil {
			return nil, err
		}
		trunc, err := action.NewTruncate(at, -delta, 0)
		if err != nil {
			return nil, err
		}
		plan = append(plan, trunc)
	}

	m.logger.Debug("flush plan: %d pending, %d steps, size %d -> %d",
		len(blocks), len(plan), mediumSize, mediumSize+delta)
	return plan, nil
}

// ShiftBlocks returns the resolved shift blocks of the pending actions in
// execution order.
func (m *Manager) ShiftBlocks(mediumSize int64) ([]*ShiftBlock, error) {
	if mediumSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMediumSize, mediumSize)
	}
	blocks, _, err := m.shiftBlocks(mediumSize)
	if err != nil {
		return nil, err
	}
	orderBlocks(blocks)
	return blocks, nil
}

// shiftBlocks creates one block per pending action in action order and
// resolves how many untouched bytes each one relocates.
func (m *Manager) shiftBlocks(mediumSize int64) ([]*ShiftBlock, int64, error) {
	blocks := make([]*ShiftBlock, 0, m.pending.Len())
	var delta int64

	for a := range m.All() {
		if reach(a) > mediumSize {
			return nil, 0, fmt.Errorf("%w: %s on %d bytes", ErrBeyondMedium, a, mediumSize)
		}
		if n := len(blocks); n > 0 {
			blocks[n-1].resolve(trailing(blocks[n-1], a.Start(), delta))
		}
		delta += a.SizeDelta()
		blocks = append(blocks, newShiftBlock(a, delta))
	}

	if n := len(blocks); n > 0 {
		end, err := m.factory.Create(mediumSize)
		if err != nil {
			return nil, 0, err
		}
		blocks[n-1].resolve(trailing(blocks[n-1], end, delta))
	}
	return blocks, delta, nil
}

// trailing is the number of bytes between b and next that need relocating.
// Nothing moves while the shift accumulated so far is zero.
func trailing(b *ShiftBlock, next medium.Offset, delta int64) int64 {
	if delta == 0 {
		return 0
	}
	return next.DistanceTo(b.FollowUp())
}

// reach is the position behind the last original byte a depends on.
func reach(a action.Action) int64 {
	if a.Kind() == action.Insert {
		return a.Start().Position()
	}
	return a.Region().End().Position()
}
