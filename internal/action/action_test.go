package action

import (
	"errors"
	"testing"

	"github.com/dshills/shiftplan/internal/medium"
)

var testMedium = medium.NewMedium("test", medium.KindMemory)

func region(pos, size int64) medium.Region {
	return medium.MustRegion(medium.MustOffset(testMedium.ID, pos), size)
}

func mustNew(t *testing.T, kind Kind, r medium.Region, seq int64, payload []byte) Action {
	t.Helper()
	a, err := New(kind, r, seq, payload)
	if err != nil {
		t.Fatalf("New(%s) error = %v", kind, err)
	}
	return a
}

// ============================================================================
// Construction
// ============================================================================

func TestNew_PayloadRules(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		region  medium.Region
		payload []byte
		wantErr error
	}{
		{"insert ok", Insert, region(0, 3), []byte("abc"), nil},
		{"insert without payload", Insert, region(0, 3), nil, ErrPayloadRequired},
		{"insert size mismatch", Insert, region(0, 3), []byte("ab"), ErrPayloadSizeMismatch},
		{"replace any length", Replace, region(0, 3), []byte("abcdef"), nil},
		{"replace with empty payload", Replace, region(0, 3), []byte{}, nil},
		{"replace without payload", Replace, region(0, 3), nil, ErrPayloadRequired},
		{"remove ok", Remove, region(0, 3), nil, nil},
		{"remove with payload", Remove, region(0, 3), []byte("x"), ErrPayloadForbidden},
		{"read with payload", Read, region(0, 3), []byte("x"), ErrPayloadForbidden},
		{"truncate with payload", Truncate, region(0, 0), []byte("x"), ErrPayloadForbidden},
		{"write with payload", Write, region(0, 1), []byte("x"), nil},
		{"write without payload", Write, region(0, 1), nil, nil},
		{"cached region", Remove, medium.NewCachedRegion(medium.MustOffset(testMedium.ID, 0), []byte("abc")), nil, ErrCachedRegion},
		{"unknown kind", Kind(42), region(0, 1), nil, ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.kind, tt.region, 1, tt.payload)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("New error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, medium.ErrInvalidArgument) {
				t.Errorf("New error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestNew_NegativeSequence(t *testing.T) {
	_, err := New(Remove, region(0, 1), -1, nil)
	if !errors.Is(err, ErrNegativeSequence) {
		t.Errorf("New error = %v, want ErrNegativeSequence", err)
	}
}

func TestNew_CopiesPayload(t *testing.T) {
	payload := []byte("abc")
	a := mustNew(t, Insert, region(0, 3), 1, payload)
	payload[0] = 'x'

	if string(a.Payload()) != "abc" {
		t.Errorf("Payload() = %q, want %q", a.Payload(), "abc")
	}
	if !a.Pending() {
		t.Error("new action should be pending")
	}
}

func TestNewTruncate(t *testing.T) {
	a, err := NewTruncate(medium.MustOffset(testMedium.ID, 90), 10, 0)
	if err != nil {
		t.Fatalf("NewTruncate error = %v", err)
	}
	if a.Kind() != Truncate || a.Start().Position() != 90 {
		t.Errorf("NewTruncate = %v, want truncate at 90", a)
	}
	if a.SizeDelta() != -10 {
		t.Errorf("SizeDelta() = %d, want -10", a.SizeDelta())
	}
}

func TestSizeDelta(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   int64
	}{
		{"insert", mustNew(t, Insert, region(0, 5), 1, []byte("hello")), 5},
		{"remove", mustNew(t, Remove, region(0, 5), 1, nil), -5},
		{"replace grow", mustNew(t, Replace, region(0, 2), 1, []byte("hello")), 3},
		{"replace shrink", mustNew(t, Replace, region(0, 10), 1, []byte("hi")), -8},
		{"truncate", mustNew(t, Truncate, region(0, 7), 1, nil), -7},
		{"read", mustNew(t, Read, region(0, 7), 1, nil), 0},
		{"write", mustNew(t, Write, region(0, 1), 1, []byte("x")), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.action.SizeDelta(); got != tt.want {
				t.Errorf("SizeDelta() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDone(t *testing.T) {
	a := mustNew(t, Remove, region(0, 5), 1, nil)
	d := a.Done()

	if d.Pending() {
		t.Error("Done() should not be pending")
	}
	if !a.Pending() {
		t.Error("Done() should not modify the receiver")
	}
	if a.Equal(d) {
		t.Error("pending and done actions should differ")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{Insert, Remove, Replace, Write, Read, Truncate} {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q) error = %v", k, err)
		}
		if got != k {
			t.Errorf("ParseKind(%q) = %v", k, got)
		}
	}
	if _, err := ParseKind("move"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(move) error = %v, want ErrUnknownKind", err)
	}
}
