package change

import (
	"bytes"
	"slices"
	"testing"

	"github.com/dshills/shiftplan/internal/action"
	"github.com/dshills/shiftplan/internal/medium"
)

func newTestManager(t *testing.T) (*Manager, *medium.OffsetFactory) {
	t.Helper()
	f := medium.NewOffsetFactory(medium.NewMedium("test", medium.KindMemory))
	return NewManager(f), f
}

func at(f *medium.OffsetFactory, pos int64) medium.Offset {
	o, err := f.Create(pos)
	if err != nil {
		panic(err)
	}
	return o
}

func span(f *medium.OffsetFactory, pos, size int64) medium.Region {
	return medium.MustRegion(at(f, pos), size)
}

func sequential(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

// execute applies a flush plan to buf the way a physical executor does.
func execute(t *testing.T, buf []byte, plan []action.Action) []byte {
	t.Helper()
	buf = bytes.Clone(buf)
	var last []byte

	for i, step := range plan {
		r := step.Region()
		start := r.Start().Position()
		switch step.Kind() {
		case action.Read:
			end := start + r.Size()
			if end > int64(len(buf)) {
				t.Fatalf("step %d %s reads beyond %d bytes", i, step, len(buf))
			}
			last = bytes.Clone(buf[start:end])
		case action.Write:
			data := step.Payload()
			if !step.HasPayload() {
				if int64(len(last)) != r.Size() {
					t.Fatalf("step %d %s has no matching read", i, step)
				}
				data = last
			}
			if need := start + int64(len(data)); need > int64(len(buf)) {
				buf = append(buf, make([]byte, need-int64(len(buf)))...)
			}
			copy(buf[start:], data)
		case action.Truncate:
			buf = buf[:start]
		}
	}
	return buf
}

// splice applies the pending actions of m to buf one at a time, back to front.
func splice(buf []byte, m *Manager) []byte {
	buf = bytes.Clone(buf)
	pending := m.Actions()
	slices.Reverse(pending)

	for _, a := range pending {
		s := a.Start().Position()
		e := s + a.Region().Size()
		switch a.Kind() {
		case action.Insert:
			buf = slices.Insert(buf, int(s), a.Payload()...)
		case action.Remove:
			buf = slices.Delete(buf, int(s), int(e))
		case action.Replace:
			buf = slices.Replace(buf, int(s), int(e), a.Payload()...)
		}
	}
	return buf
}

func kinds(plan []action.Action) []action.Kind {
	out := make([]action.Kind, len(plan))
	for i, a := range plan {
		out[i] = a.Kind()
	}
	return out
}
