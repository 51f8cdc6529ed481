// Package concurrent wraps a single fiballoc.Allocator with a mutex,
// giving goroutine-safe access to an allocator that is otherwise
// explicitly single-threaded. It adds no retry or batching logic: one
// mutex, acquired for the duration of each call, exactly the way this
// allocator family already guards its own buddy and slab state with
// sync.RWMutex in the single-process case.
package concurrent

import (
	"sync"

	"github.com/shenjiangwei/fiballoc/fiballoc"
)

// Safe is a mutex-guarded façade over one fiballoc.Allocator.
type Safe struct {
	mu sync.Mutex
	a  *fiballoc.Allocator
}

// New wraps an existing allocator.
func New(a *fiballoc.Allocator) *Safe {
	return &Safe{a: a}
}

// Init builds a new allocator of the given backing size and wraps it.
func Init(backingSize uint64) (*Safe, error) {
	a, err := fiballoc.Init(backingSize)
	if err != nil {
		return nil, err
	}
	return New(a), nil
}

// Allocate is fiballoc.Allocator.Allocate under the wrapper's mutex.
func (s *Safe) Allocate(n uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Allocate(n)
}

// Release is fiballoc.Allocator.Release under the wrapper's mutex.
func (s *Safe) Release(addr uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Release(addr)
}

// DumpFreeList is fiballoc.Allocator.DumpFreeList under the wrapper's mutex.
func (s *Safe) DumpFreeList() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.DumpFreeList()
}

// GetUsedSize is fiballoc.Allocator.GetUsedSize under the wrapper's mutex.
func (s *Safe) GetUsedSize() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.GetUsedSize()
}

// Capacity is fiballoc.Allocator.Capacity under the wrapper's mutex.
func (s *Safe) Capacity() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Capacity()
}

// Shutdown is fiballoc.Allocator.Shutdown under the wrapper's mutex.
func (s *Safe) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Shutdown()
}
