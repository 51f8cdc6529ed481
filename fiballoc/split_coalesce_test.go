package fiballoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitProducesExactSiblingSizes(t *testing.T) {
	a := newTestAllocator(t)

	root := a.freeHead
	a.removeFree(root)
	topIdx := root.fibIndex

	final := a.split(root, topIdx-2)

	assert.Equal(t, topIdx-2, final.fibIndex)
	assert.Equal(t, a.table.Value(topIdx-2), final.size)

	// Every split strictly decreases the parent's index and adds
	// exactly one free block: topIdx -> topIdx-1 -> topIdx-2 should
	// have produced exactly two right-child residues in the free list.
	var residues []int
	for b := a.freeHead; b != nil; b = b.next {
		residues = append(residues, b.fibIndex)
	}
	assert.Len(t, residues, 2)
	assert.Contains(t, residues, topIdx-2)
	assert.Contains(t, residues, topIdx-3)
}

func TestSplitNoopWhenAlreadyAtTarget(t *testing.T) {
	a := newTestAllocator(t)
	root := a.freeHead
	a.removeFree(root)
	topIdx := root.fibIndex

	final := a.split(root, topIdx)
	assert.Same(t, root, final)
	assert.Nil(t, a.freeHead)
}

func TestCoalesceMergesRightBuddy(t *testing.T) {
	a := newTestAllocator(t)
	root := a.freeHead
	a.removeFree(root)
	topIdx := root.fibIndex

	left := a.split(root, topIdx-1)
	require.Equal(t, topIdx-1, left.fibIndex)

	// The right residue of that single split is already in the free
	// list; coalescing the left child with it must reconstitute topIdx.
	merged := a.coalesce(left)
	assert.Equal(t, topIdx, merged.fibIndex)
	assert.Equal(t, root.base, merged.base)
}

func TestCoalesceStopsWhenOuterBuddyIsAllocated(t *testing.T) {
	a := newTestAllocator(t)
	root := a.freeHead
	a.removeFree(root)
	topIdx := root.fibIndex

	// Split twice so the left child has index topIdx-2; the two right
	// residues of those splits are its buddy and its parent's buddy.
	left := a.split(root, topIdx-2)
	require.Equal(t, topIdx-2, left.fibIndex)

	// Simulate the outer residue (right child of the first split)
	// having been allocated in the meantime: detach it from the free
	// list without deleting its byBase entry.
	outerBase := root.base + a.table.Value(topIdx-1)
	outer := a.byBase[outerBase]
	require.NotNil(t, outer)
	a.removeFree(outer)
	outer.isFree = false

	merged := a.coalesce(left)
	// left merges with its immediate buddy (the second split's right
	// residue) to reconstitute index topIdx-1...
	assert.Equal(t, topIdx-1, merged.fibIndex)
	// ...but the outer buddy is no longer free, so the cascade must
	// stop there rather than reaching topIdx.
	assert.NotEqual(t, topIdx, merged.fibIndex)
}

func TestEqualSizedAdjacentBlocksAreNotBuddies(t *testing.T) {
	a := newTestAllocator(t)

	// Build two equal-sized, address-adjacent free blocks by hand and
	// confirm coalesce refuses to merge them.
	idx := 2 // smallest index with two split children below it
	size := a.table.Value(idx)
	left := &block{base: 0, size: size, fibIndex: idx, isFree: true}
	right := &block{base: size, size: size, fibIndex: idx, isFree: true}

	a.byBase = map[uint64]*block{left.base: left, right.base: right}
	a.freeHead = nil
	a.insertFree(right)

	merged := a.coalesce(left)
	assert.Same(t, left, merged)
}
