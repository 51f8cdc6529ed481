package fiballoc

import "github.com/cockroachdb/errors"

// Error definitions for the two user-visible, non-fatal error kinds.
var (
	// ErrOutOfMemory is returned when no free block of sufficient size
	// exists, even after all possible splits.
	ErrOutOfMemory = errors.New("fiballoc: out of memory")
	// ErrInvalidPointer is returned when Release is called with an
	// address that is not a live user pointer: outside the region,
	// misaligned to a header, or already free.
	ErrInvalidPointer = errors.New("fiballoc: invalid pointer")
)

// invariantViolation reports an internal consistency failure as an
// assertion error carrying a stack trace, and aborts the process.
// These indicate allocator bugs, not caller mistakes, and are never
// silently repaired.
func invariantViolation(format string, args ...interface{}) {
	panic(errors.AssertionFailedf(format, args...))
}
