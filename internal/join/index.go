package join

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/querylabs/thetajoin/internal/rel"
)

// buildIndex is the in-memory multi-map from key tuple to build-side rows.
// Rows live in an arena in insertion order; buckets map a key hash to
// arena indices, so duplicate keys are preserved and lookups return rows
// in a deterministic order. The matched bitmap, addressed by arena index,
// carries the outer-join bookkeeping for the emit-unmatched phase.
type buildIndex struct {
	arena   []rel.Row
	keys    [][]any // normalized key per arena row; nil when the key had a NULL
	buckets map[uint64][]int32
	matched *roaring.Bitmap
}

func newBuildIndex(capacityHint int) *buildIndex {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &buildIndex{
		arena:   make([]rel.Row, 0, capacityHint),
		keys:    make([][]any, 0, capacityHint),
		buckets: make(map[uint64][]int32, capacityHint),
		matched: roaring.New(),
	}
}

// add appends a row to the arena. A nil key (NULL in some key column)
// keeps the row out of the buckets: it can never match, but outer joins
// still need it for unmatched emission.
func (ix *buildIndex) add(row rel.Row, key []any, hash uint64) {
	idx := int32(len(ix.arena))
	ix.arena = append(ix.arena, row)
	ix.keys = append(ix.keys, key)
	if key != nil {
		ix.buckets[hash] = append(ix.buckets[hash], idx)
	}
}

// lookup returns the arena indices whose key tuple equals key, in
// insertion order. Hash collisions are filtered out here.
func (ix *buildIndex) lookup(key []any, hash uint64) []int32 {
	bucket := ix.buckets[hash]
	if len(bucket) == 0 {
		return nil
	}
	out := bucket[:0:0]
	for _, idx := range bucket {
		if keysEqual(ix.keys[idx], key) {
			out = append(out, idx)
		}
	}
	return out
}

func (ix *buildIndex) markMatched(idx int32) {
	ix.matched.Add(uint32(idx))
}

func (ix *buildIndex) isMatched(idx int32) bool {
	return ix.matched.Contains(uint32(idx))
}

func (ix *buildIndex) len() int {
	return len(ix.arena)
}

// release drops all references so abandoned executions hold nothing.
func (ix *buildIndex) release() {
	ix.arena = nil
	ix.keys = nil
	ix.buckets = nil
	ix.matched = nil
}
