package action

import (
	"bytes"
	"cmp"
)

// Compare orders actions by region start, inserts first at equal starts, then
// by sequence number. Kind, size, payload and pending state break the remaining
// ties. It panics if the actions belong to different media.
func Compare(a, b Action) int {
	if c := a.region.Start().Compare(b.region.Start()); c != 0 {
		return c
	}

	ai, bi := a.kind == Insert, b.kind == Insert
	if ai != bi {
		if ai {
			return -1
		}
		return 1
	}

	if c := cmp.Compare(a.seq, b.seq); c != 0 {
		return c
	}
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	if c := cmp.Compare(a.region.Size(), b.region.Size()); c != 0 {
		return c
	}
	if a.hasData != b.hasData {
		if a.hasData {
			return 1
		}
		return -1
	}
	if c := bytes.Compare(a.payload, b.payload); c != 0 {
		return c
	}
	if a.finished != b.finished {
		if a.finished {
			return 1
		}
		return -1
	}
	return 0
}

// Less reports whether a sorts before b.
func Less(a, b Action) bool {
	return Compare(a, b) < 0
}
