package fiballoc

import (
	"fmt"
	"strings"
)

// DumpFreeList returns a human-readable listing of every free block
// (base, size, Fibonacci index) in ascending address order. It never
// mutates allocator state.
func (a *Allocator) DumpFreeList() string {
	var sb strings.Builder
	count := 0
	for b := a.freeHead; b != nil; b = b.next {
		fmt.Fprintf(&sb, "base=%d size=%d idx=%d\n", b.base, b.size, b.fibIndex)
		count++
	}
	if count == 0 {
		return "fiballoc: free list is empty\n"
	}
	return sb.String()
}
