package graphstore

import (
	"container/heap"

	"github.com/bits-and-blooms/bitset"
)

// intHeap is a container/heap min-heap of free offsets.
type intHeap []int

func (h intHeap) Len() int            { return len(h) }
func (h intHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x any)         { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// offsetPool tracks the deleted offsets of a single type's node or
// relationship vector, handing back the minimum free offset on reuse and
// otherwise signaling that a new offset must be appended.
//
// membership is maintained in a bitset purely so ValidOffset-style
// membership checks (and the "deleted disjoint from live" invariant in
// tests) are O(1); the heap is what actually orders reuse.
type offsetPool struct {
	free    intHeap
	present *bitset.BitSet
}

func newOffsetPool() *offsetPool {
	return &offsetPool{present: bitset.New(0)}
}

// Free marks offset as deleted and eligible for reuse.
func (p *offsetPool) Free(offset int) {
	if p.present.Test(uint(offset)) {
		return
	}
	p.present.Set(uint(offset))
	heap.Push(&p.free, offset)
}

// Reuse pops and returns the minimum free offset, or (0, false) if none
// is available.
func (p *offsetPool) Reuse() (int, bool) {
	for p.free.Len() > 0 {
		offset := heap.Pop(&p.free).(int)
		if !p.present.Test(uint(offset)) {
			// stale entry: this offset was already reused and freed
			// again isn't possible here, but defensively skip it.
			continue
		}
		p.present.Clear(uint(offset))
		return offset, true
	}
	return 0, false
}

// IsDeleted reports whether offset is currently in the free set.
func (p *offsetPool) IsDeleted(offset int) bool {
	return offset >= 0 && p.present.Test(uint(offset))
}

// Len returns the number of offsets currently free.
func (p *offsetPool) Len() int {
	return p.free.Len()
}
