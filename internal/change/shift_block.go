package change

import (
	"fmt"

	"github.com/dshills/shiftplan/internal/action"
	"github.com/dshills/shiftplan/internal/medium"
)

// ShiftBlock is the relocation work caused by one pending action: the
// untouched bytes between the action and the next one (its source) move by the
// cumulative shift, and the action's payload is written in front of them.
type ShiftBlock struct {
	cause action.Action
	shift int64
	count int64
}

func newShiftBlock(cause action.Action, shift int64) *ShiftBlock {
	return &ShiftBlock{cause: cause, shift: shift, count: -1}
}

// Cause returns the action the block was created for.
func (b *ShiftBlock) Cause() action.Action {
	return b.cause
}

// Shift returns the cumulative size delta up to and including the cause.
func (b *ShiftBlock) Shift() int64 {
	return b.shift
}

// Count returns the number of untouched bytes the block relocates.
func (b *ShiftBlock) Count() int64 {
	return b.count
}

// FollowUp returns the first offset behind the bytes the cause affects.
func (b *ShiftBlock) FollowUp() medium.Offset {
	if b.cause.Kind() == action.Insert {
		return b.cause.Start()
	}
	return b.cause.Region().End()
}

// Source returns the original bytes the block relocates.
func (b *ShiftBlock) Source() medium.Region {
	return medium.MustRegion(b.FollowUp(), max(b.count, 0))
}

// Target returns where the payload and the relocated bytes end up.
func (b *ShiftBlock) Target() medium.Region {
	return medium.MustRegion(b.payloadStart(), max(b.count, 0)+b.cause.PayloadLen())
}

// payloadStart is the cause's start moved by everything scheduled before it.
func (b *ShiftBlock) payloadStart() medium.Offset {
	return b.cause.Start().Advance(b.shift - b.cause.SizeDelta())
}

func (b *ShiftBlock) resolve(count int64) {
	b.count = count
}

// Actions expands the block into Read/Write pairs of at most maxBlockSize
// bytes, the payload writes and finally the cause itself. Bytes moving towards
// the end are copied from the back so no chunk overwrites unread bytes.
func (b *ShiftBlock) Actions(maxBlockSize int) ([]action.Action, error) {
	if maxBlockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, maxBlockSize)
	}
	if b.count < 0 {
		return nil, fmt.Errorf("shift block for %s not resolved", b.cause)
	}

	seq := b.cause.Sequence()
	step := int64(maxBlockSize)
	var out []action.Action

	relocate := func(from medium.Offset, n int64) error {
		rd, err := action.NewRead(medium.MustRegion(from, n), seq)
		if err != nil {
			return err
		}
		wr, err := action.NewWrite(medium.MustRegion(from.Advance(b.shift), n), seq, nil)
		if err != nil {
			return err
		}
		out = append(out, rd, wr)
		return nil
	}

	follow := b.FollowUp()
	if b.shift > 0 {
		end := follow.Advance(b.count)
		for remaining := b.count; remaining > 0; remaining -= step {
			n := min(step, remaining)
			end = end.Advance(-n)
			if err := relocate(end, n); err != nil {
				return nil, err
			}
		}
	} else {
		if err := medium.ForEachChunk(follow, b.count, maxBlockSize, relocate); err != nil {
			return nil, err
		}
	}

	if b.cause.HasPayload() {
		payload := b.cause.Payload()
		start := b.payloadStart()
		err := medium.ForEachChunk(start, int64(len(payload)), maxBlockSize, func(at medium.Offset, n int64) error {
			i := at.DistanceTo(start)
			wr, err := action.NewWrite(medium.MustRegion(at, n), seq, payload[i:i+n])
			if err != nil {
				return err
			}
			out = append(out, wr)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return append(out, b.cause), nil
}

// String returns a human-readable representation of the block.
func (b *ShiftBlock) String() string {
	return fmt.Sprintf("block(%s shift=%d src=%s tgt=%s)", b.cause, b.shift, b.Source(), b.Target())
}
