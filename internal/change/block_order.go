package change

import (
	"cmp"
	"slices"
	"sort"

	"github.com/google/btree"

	"github.com/dshills/shiftplan/internal/action"
)

// compareBlocks orders two blocks for execution. Inserts at the same offset
// run most recent first. Otherwise l goes first when r's write would land on
// l's unread source bytes.
func compareBlocks(l, r *ShiftBlock) int {
	if l == r {
		return 0
	}

	lc, rc := l.cause, r.cause
	if lc.Kind() == action.Insert && rc.Kind() == action.Insert && lc.Start() == rc.Start() {
		if rc.Sequence() < lc.Sequence() {
			return -1
		}
		return 1
	}

	src, tgt := l.Source(), r.Target()
	srcStart, srcEnd := src.Start().Position(), src.End().Position()
	tgtStart, tgtEnd := tgt.Start().Position(), tgt.End().Position()

	if tgt.Contains(src.Start()) ||
		(tgtStart <= srcEnd && tgtEnd > srcEnd) ||
		tgtStart >= srcStart {
		return -1
	}
	return 1
}

// orderBlocks sorts blocks for execution. The pairwise rule of compareBlocks
// is not transitive for every mix of edits, so the sorted order is followed by
// a pass that moves a block behind every block whose source its target
// overlaps, keeping the sorted order among independent blocks. It reports
// false if the hazards form a cycle and the sorted order had to be kept for
// the remaining blocks.
func orderBlocks(blocks []*ShiftBlock) bool {
	slices.SortStableFunc(blocks, compareBlocks)

	n := len(blocks)
	// waiting[k] lists the writers that must wait for block k to be read.
	waiting := make([][]int, n)
	blocked := make([]int, n)
	forEachHazard(blocks, func(w, r int) {
		waiting[r] = append(waiting[r], w)
		blocked[w]++
	})

	// Ready blocks leave the queue in sorted position order.
	ready := btree.NewOrderedG[int](16)
	for i := range n {
		if blocked[i] == 0 {
			ready.ReplaceOrInsert(i)
		}
	}

	ordered := make([]*ShiftBlock, 0, n)
	done := make([]bool, n)
	acyclic := true
	first := 0 // no block before first is pending
	for len(ordered) < n {
		next, ok := ready.DeleteMin()
		if !ok {
			acyclic = false
			for done[first] {
				first++
			}
			next = first
		}
		done[next] = true
		ordered = append(ordered, blocks[next])
		for _, w := range waiting[next] {
			blocked[w]--
			if blocked[w] == 0 && !done[w] {
				ready.ReplaceOrInsert(w)
			}
		}
	}

	copy(blocks, ordered)
	return acyclic
}

// forEachHazard calls fn(w, r) for every pair of distinct blocks where the
// target of w overlaps the non-empty source of r.
//
// Sources are looked up by binary search over the readers sorted by source
// start. Sources of pending actions never overlap, so their ends are sorted
// too and the first candidate is found by end; should they ever overlap the
// lookup starts at the first reader instead.
func forEachHazard(blocks []*ShiftBlock, fn func(w, r int)) {
	readers := make([]int, 0, len(blocks))
	for i, b := range blocks {
		if b.Source().Size() > 0 {
			readers = append(readers, i)
		}
	}
	srcStart := func(j int) int64 { return blocks[readers[j]].Source().Start().Position() }
	srcEnd := func(j int) int64 { return blocks[readers[j]].Source().End().Position() }

	slices.SortFunc(readers, func(a, b int) int {
		return cmp.Compare(blocks[a].Source().Start().Position(), blocks[b].Source().Start().Position())
	})
	disjoint := true
	for j := 1; j < len(readers); j++ {
		if srcEnd(j-1) > srcStart(j) {
			disjoint = false
			break
		}
	}

	for i, w := range blocks {
		tgt := w.Target()
		if tgt.Size() == 0 {
			continue
		}
		ts, te := tgt.Start().Position(), tgt.End().Position()

		lo := 0
		if disjoint {
			lo = sort.Search(len(readers), func(j int) bool { return srcEnd(j) > ts })
		}
		for j := lo; j < len(readers) && srcStart(j) < te; j++ {
			if k := readers[j]; k != i && srcEnd(j) > ts {
				fn(i, k)
			}
		}
	}
}
