package fiballoc

// coalesce repeatedly attempts to merge b with its Fibonacci buddy,
// stopping when no buddy at either orientation matches or the merged
// block reaches the top of the table. It returns the final,
// possibly-merged block, which is registered in byBase but not in the
// free list (the caller is expected to insert it there).
func (a *Allocator) coalesce(b *block) *block {
	for b.fibIndex < a.table.Count()-1 {
		i := b.fibIndex

		// Right-neighbor candidate: b is the left child (size F[i]) of
		// a parent of index i+1, whose right child has index i-1.
		rightAddr := b.base + a.table.Value(i)
		if right := a.findFreeAt(rightAddr); right != nil && right.fibIndex == i-1 {
			a.removeFree(right)
			delete(a.byBase, right.base)
			delete(a.byBase, b.base)
			merged := &block{base: b.base, size: a.table.Value(i + 1), fibIndex: i + 1}
			a.byBase[merged.base] = merged
			Debug("coalesce: merged base=%d idx=%d with right buddy base=%d -> idx=%d", b.base, i, right.base, merged.fibIndex)
			b = merged
			continue
		}

		// Left-neighbor candidate: b is the right child (size F[i]) of
		// a parent of index i+2, whose left child has index i+1 and
		// therefore starts at b.base - F[i+1].
		if i+2 <= a.table.Count()-1 {
			leftSize := a.table.Value(i + 1)
			if b.base >= leftSize {
				leftAddr := b.base - leftSize
				if left := a.findFreeAt(leftAddr); left != nil && left.fibIndex == i+1 {
					a.removeFree(left)
					delete(a.byBase, left.base)
					delete(a.byBase, b.base)
					merged := &block{base: leftAddr, size: a.table.Value(i + 2), fibIndex: i + 2}
					a.byBase[merged.base] = merged
					Debug("coalesce: merged base=%d idx=%d with left buddy base=%d -> idx=%d", b.base, i, left.base, merged.fibIndex)
					b = merged
					continue
				}
			}
		}

		break
	}
	return b
}
