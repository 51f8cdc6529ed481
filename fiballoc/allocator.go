package fiballoc

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/shenjiangwei/fiballoc/fib"
)

// Init builds the Fibonacci table up to backingSize and returns an
// Allocator whose entire capacity, F[K-1], starts as a single free
// block at offset 0. Bytes of backingSize beyond F[K-1] are
// permanently unused, an intentional consequence of restricting block
// sizes to Fibonacci numbers.
func Init(backingSize uint64) (*Allocator, error) {
	table, err := fib.Build(backingSize)
	if err != nil {
		return nil, errors.Wrap(err, "fiballoc: init")
	}
	if table.Count() < 2 || table.Capacity() < headerSize+table.Value(1) {
		return nil, errors.Newf("fiballoc: backing size %d too small to hold even the smallest block plus header", backingSize)
	}

	a := &Allocator{
		table:     table,
		heapStart: 0,
		capacity:  table.Capacity(),
		byBase:    make(map[uint64]*block),
	}

	root := &block{
		base:     a.heapStart,
		size:     table.Capacity(),
		fibIndex: table.Count() - 1,
	}
	a.byBase[root.base] = root
	a.insertFree(root)

	Info("fiballoc: initialized heap of capacity %d bytes (%d Fibonacci sizes)", a.capacity, table.Count())
	return a, nil
}

// Allocate rounds n up to the smallest admissible Fibonacci size that
// also accommodates the header, scans the free list for a block of
// exactly that index or else the first larger one (see scanFreeList),
// splits it down to the target index if necessary, and returns
// the address of n usable bytes.
//
// Allocate either returns a valid address and has mutated the free
// list to reflect the allocation and any splits, or it returns
// ErrOutOfMemory and has left the free list completely unchanged.
func (a *Allocator) Allocate(n uint64) (uint64, error) {
	need := n + headerSize
	if need > a.capacity {
		Error("fiballoc: request for %d bytes (%d with header) exceeds capacity %d", n, need, a.capacity)
		return 0, ErrOutOfMemory
	}

	target, ok := a.table.SmallestIndexAtLeast(need)
	if !ok {
		return 0, ErrOutOfMemory
	}

	chosen, exact := a.scanFreeList(target)
	if chosen == nil {
		Debug("fiballoc: no free block >= index %d available", target)
		return 0, ErrOutOfMemory
	}
	if chosen.fibIndex < target {
		invariantViolation("fiballoc: scanned block idx %d below target %d", chosen.fibIndex, target)
	}

	a.removeFree(chosen)

	var final *block
	if exact {
		final = chosen
	} else {
		final = a.split(chosen, target)
	}

	if final.fibIndex != target {
		invariantViolation("fiballoc: split result idx %d != target %d", final.fibIndex, target)
	}

	final.isFree = false
	final.reqSize = n
	final.next = nil
	final.prev = nil

	addr := final.base + headerSize
	Debug("fiballoc: allocated %d bytes at address %d (block base %d, idx %d)", n, addr, final.base, final.fibIndex)
	return addr, nil
}

// scanFreeList performs the single ascending-address pass described
// by the allocation protocol: an exact-index match wins outright;
// otherwise the first (lowest-address) free block whose index exceeds
// target is used. The second return value reports whether the match
// was exact (so the caller can skip splitting).
func (a *Allocator) scanFreeList(target int) (*block, bool) {
	var firstLarger *block
	for b := a.freeHead; b != nil; b = b.next {
		if b.fibIndex == target {
			return b, true
		}
		if b.fibIndex > target && firstLarger == nil {
			firstLarger = b
		}
	}
	return firstLarger, false
}

// Release recovers the block header for addr, validates it, marks it
// free, coalesces it with its Fibonacci buddy as far as possible, and
// reinserts the resulting block into the free list.
func (a *Allocator) Release(addr uint64) error {
	if addr < headerSize {
		Error("fiballoc: release of address %d below minimum valid address", addr)
		return ErrInvalidPointer
	}
	base := addr - headerSize

	b, ok := a.byBase[base]
	if !ok || base >= a.heapStart+a.capacity {
		Error("fiballoc: release of address %d (base %d) outside backing region", addr, base)
		return ErrInvalidPointer
	}
	if b.isFree {
		Error("fiballoc: double release of address %d", addr)
		return ErrInvalidPointer
	}

	b.isFree = true
	b.reqSize = 0

	merged := a.coalesce(b)
	a.insertFree(merged)

	Debug("fiballoc: released address %d, final free block base=%d idx=%d", addr, merged.base, merged.fibIndex)
	return nil
}

// Shutdown releases the allocator's own bookkeeping. The backing
// region itself need not survive process exit, so there is nothing
// else to reclaim.
func (a *Allocator) Shutdown() error {
	a.freeHead = nil
	a.byBase = nil
	Info("fiballoc: shutdown")
	return nil
}

// Capacity returns F[K-1], the usable heap capacity.
func (a *Allocator) Capacity() uint64 {
	return a.capacity
}

// GetUsedSize returns the sum of the footprints of all currently
// allocated blocks.
func (a *Allocator) GetUsedSize() uint64 {
	var used uint64
	for _, b := range a.byBase {
		if !b.isFree {
			used += b.size
		}
	}
	return used
}

// String implements fmt.Stringer so that an Allocator prints usefully
// in debug output and test failures.
func (a *Allocator) String() string {
	return fmt.Sprintf("fiballoc.Allocator{capacity=%d used=%d}", a.capacity, a.GetUsedSize())
}
