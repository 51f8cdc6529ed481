// Package fiballoc implements a single-threaded, synchronous heap
// allocator whose admissible block sizes are drawn from the Fibonacci
// sequence rather than powers of two. Splitting and coalescing follow
// the identity F[i] = F[i-1] + F[i-2].
package fiballoc

import (
	"unsafe"

	"github.com/shenjiangwei/fiballoc/fib"
)

// block is the metadata kept for every block, free or allocated. It
// has no on-disk or in-memory byte layout of its own: the backing
// region is modeled as an address space of uint64 offsets, and a
// block's header is an ordinary Go value reached through the
// allocator's offset-to-header index, the way this allocator family
// already keeps its block bookkeeping in a map rather than in raw
// memory.
type block struct {
	base     uint64
	size     uint64
	fibIndex int
	reqSize  uint64
	isFree   bool

	next *block
	prev *block
}

// headerSize is the per-block bookkeeping overhead charged against
// every request, mirroring how this allocator family reports its own
// metadata footprint via unsafe.Sizeof rather than a hardcoded constant.
var headerSize = uint64(unsafe.Sizeof(block{}))

// HeaderSize returns the per-block overhead in bytes that Allocate
// charges against every request before rounding up to a Fibonacci size.
func HeaderSize() uint64 {
	return headerSize
}

// Allocator is a Fibonacci buddy allocator over a single contiguous
// backing region. It is not safe for concurrent use; see the
// concurrent package for a mutex-guarded wrapper.
type Allocator struct {
	table     *fib.Table
	heapStart uint64
	capacity  uint64

	freeHead *block
	byBase   map[uint64]*block
}
