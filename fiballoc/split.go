package fiballoc

// split repeatedly halves b (by Fibonacci index) until it reaches
// target, returning the block whose index equals target; that block
// stays detached from the free list. Every right child produced along
// the way is inserted into
// the free list as its own block; only the leftmost descendant is
// ever returned.
//
// The parent must already be detached from the free list and must
// satisfy b.fibIndex >= target; callers verify this before calling so
// that a split is only ever attempted once the outcome is certain,
// keeping Allocate's all-or-nothing failure semantics intact.
func (a *Allocator) split(b *block, target int) *block {
	for b.fibIndex > target {
		i := b.fibIndex
		leftSize := a.table.Value(i - 1)
		rightSize := a.table.Value(i - 2)

		right := &block{
			base:     b.base + leftSize,
			size:     rightSize,
			fibIndex: i - 2,
		}

		b.size = leftSize
		b.fibIndex = i - 1

		a.byBase[right.base] = right
		a.insertFree(right)

		Debug("split: parent now base=%d idx=%d, right child base=%d idx=%d", b.base, b.fibIndex, right.base, right.fibIndex)
	}
	return b
}
