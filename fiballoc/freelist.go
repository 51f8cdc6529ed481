package fiballoc

// insertFree places b into the free list at the unique position that
// keeps the list sorted strictly ascending by base address. b.next and
// b.prev are overwritten; the caller must not rely on their prior
// values.
func (a *Allocator) insertFree(b *block) {
	b.isFree = true

	var prev, cur *block
	for cur = a.freeHead; cur != nil && cur.base < b.base; cur = cur.next {
		prev = cur
	}

	b.prev = prev
	b.next = cur
	if prev != nil {
		prev.next = b
	} else {
		a.freeHead = b
	}
	if cur != nil {
		cur.prev = b
	}
}

// removeFree detaches b from the free list in O(1), given b. It does
// not mark b as allocated; callers that repurpose b (e.g. a split
// parent) decide that separately.
func (a *Allocator) removeFree(b *block) {
	if b.prev != nil {
		b.prev.next = b.next
	} else {
		a.freeHead = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	}
	b.next = nil
	b.prev = nil
}

// findFreeAt returns the free block based at addr, or nil if none is
// free there. It is used by the coalescer to look up a candidate
// buddy by its expected address.
func (a *Allocator) findFreeAt(addr uint64) *block {
	b, ok := a.byBase[addr]
	if !ok || !b.isFree {
		return nil
	}
	return b
}
