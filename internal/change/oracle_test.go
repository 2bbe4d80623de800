package change

import (
	"bytes"
	"math/rand/v2"
	"testing"
)

// TestCreateFlushPlan_MatchesSplicing schedules random edits and checks that
// executing the flush plan yields the same bytes as applying the edits one by one.
func TestCreateFlushPlan_MatchesSplicing(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	randBytes := func(n int) []byte {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(rng.IntN(256))
		}
		return b
	}

	for round := range 3000 {
		size := rng.IntN(61)
		orig := randBytes(size)
		m, f := newTestManager(t)

		for range 1 + rng.IntN(8) {
			switch rng.IntN(3) {
			case 0:
				p := randBytes(rng.IntN(9))
				_, _ = m.ScheduleInsert(span(f, int64(rng.IntN(size+1)), int64(len(p))), p)
			case 1:
				off := rng.IntN(size + 1)
				n := rng.IntN(min(10, size-off) + 1)
				_, _ = m.ScheduleRemove(span(f, int64(off), int64(n)))
			default:
				off := rng.IntN(size + 1)
				n := rng.IntN(min(10, size-off) + 1)
				_, _ = m.ScheduleReplace(span(f, int64(off), int64(n)), randBytes(rng.IntN(13)))
			}
		}

		bs := 1 + rng.IntN(7)
		plan, err := m.CreateFlushPlan(bs, int64(size))
		if err != nil {
			t.Fatalf("iteration %d: CreateFlushPlan error = %v", round, err)
		}

		got := execute(t, orig, plan)
		want := splice(orig, m)
		if !bytes.Equal(got, want) {
			t.Fatalf("iteration %d (size %d, block %d): pending %v\ngot  %v\nwant %v",
				round, size, bs, m.Actions(), got, want)
		}
		if int64(len(got)) != int64(size)+m.SizeDelta() {
			t.Fatalf("iteration %d: length %d, want %d", round, len(got), int64(size)+m.SizeDelta())
		}
	}
}
