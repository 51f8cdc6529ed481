package fiballoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertFreeKeepsAscendingOrder(t *testing.T) {
	a := &Allocator{byBase: make(map[uint64]*block)}

	b10 := &block{base: 10}
	b30 := &block{base: 30}
	b20 := &block{base: 20}

	a.insertFree(b10)
	a.insertFree(b30)
	a.insertFree(b20)

	var order []uint64
	for b := a.freeHead; b != nil; b = b.next {
		order = append(order, b.base)
	}
	assert.Equal(t, []uint64{10, 20, 30}, order)

	// Doubly-linked: walking backward from the tail must reverse the
	// same sequence.
	tail := a.freeHead
	for tail.next != nil {
		tail = tail.next
	}
	var reverse []uint64
	for b := tail; b != nil; b = b.prev {
		reverse = append(reverse, b.base)
	}
	assert.Equal(t, []uint64{30, 20, 10}, reverse)
}

func TestRemoveFreeFixesNeighborLinks(t *testing.T) {
	a := &Allocator{byBase: make(map[uint64]*block)}

	b10 := &block{base: 10}
	b20 := &block{base: 20}
	b30 := &block{base: 30}
	a.insertFree(b10)
	a.insertFree(b20)
	a.insertFree(b30)

	a.removeFree(b20)

	assert.Same(t, b30, b10.next)
	assert.Same(t, b10, b30.prev)
	assert.Nil(t, b20.next)
	assert.Nil(t, b20.prev)
}

func TestRemoveFreeHead(t *testing.T) {
	a := &Allocator{byBase: make(map[uint64]*block)}

	b10 := &block{base: 10}
	b20 := &block{base: 20}
	a.insertFree(b10)
	a.insertFree(b20)

	a.removeFree(b10)
	assert.Same(t, b20, a.freeHead)
	assert.Nil(t, b20.prev)
}

func TestFindFreeAtOnlyReturnsFreeBlocks(t *testing.T) {
	a := &Allocator{byBase: make(map[uint64]*block)}

	free := &block{base: 10, isFree: true}
	used := &block{base: 20, isFree: false}
	a.byBase[free.base] = free
	a.byBase[used.base] = used

	assert.Same(t, free, a.findFreeAt(10))
	assert.Nil(t, a.findFreeAt(20))
	assert.Nil(t, a.findFreeAt(999))
}
