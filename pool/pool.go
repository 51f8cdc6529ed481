// Package pool groups several independent fiballoc allocators
// ("shards") behind one routing façade, the way this allocator
// family's own memory pool groups pre-segmented size buckets behind
// one façade in front of a single allocator. Here the thing being
// pooled is whole allocator instances rather than pre-sized blocks,
// which is what the core specification's "Global state" design note
// calls for: multiple independent allocators, each with deterministic
// teardown, selected between by a routing key instead of living behind
// package-level globals.
package pool

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/shenjiangwei/fiballoc/concurrent"
	"github.com/shenjiangwei/fiballoc/fiballoc"
)

// Stats holds pool-wide counters, maintained behind the pool's own
// lock once each shard call has returned, rather than recomputed by
// walking shard state on read.
type Stats struct {
	TotalAllocations uint64
	TotalReleases    uint64
	OutOfMemoryCount uint64
}

// shardAddr identifies one live allocation. Addresses are offsets
// within a single shard, so the same address can be live in several
// shards at once.
type shardAddr struct {
	shard int
	addr  uint64
}

// Pool owns N independent, mutex-guarded allocators and routes
// callers to one of them by hashing a caller-supplied key.
type Pool struct {
	shards []*concurrent.Safe

	mu        sync.Mutex
	addrShard map[shardAddr]struct{}
	stats     Stats
}

// New creates a pool of n shards, each with the given per-shard
// backing capacity.
func New(n int, shardCapacity uint64) (*Pool, error) {
	if n <= 0 {
		return nil, errors.Newf("pool: shard count %d must be positive", n)
	}

	p := &Pool{
		shards:    make([]*concurrent.Safe, n),
		addrShard: make(map[shardAddr]struct{}),
	}
	for i := 0; i < n; i++ {
		shard, err := concurrent.Init(shardCapacity)
		if err != nil {
			return nil, errors.Wrapf(err, "pool: initializing shard %d", i)
		}
		p.shards[i] = shard
	}
	return p, nil
}

// shardFor deterministically routes a key to a shard index using a
// simple multiplicative mix; the pool is a fixed-cardinality router,
// not a rebalancing load balancer, so this is intentionally not
// capacity-weighted.
func (p *Pool) shardFor(key uint64) int {
	mixed := key * 2654435761
	return int(mixed % uint64(len(p.shards)))
}

// Allocate routes key to a shard and allocates n bytes from it.
func (p *Pool) Allocate(key uint64, n uint64) (uint64, error) {
	idx := p.shardFor(key)
	addr, err := p.shards[idx].Allocate(n)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.stats.OutOfMemoryCount++
		return 0, err
	}
	p.addrShard[shardAddr{idx, addr}] = struct{}{}
	p.stats.TotalAllocations++
	return addr, nil
}

// Release frees addr, which must have been returned by a prior
// Allocate(key, ...) call with this same key. The pool hashes key to
// the shard it routes to and checks that it recorded addr as allocated
// in that shard: the same address can be live in several shards, so
// the key is what identifies which allocation is meant, the same
// requirement the core allocator places on Release.
func (p *Pool) Release(key, addr uint64) error {
	idx := p.shardFor(key)
	rec := shardAddr{idx, addr}
	p.mu.Lock()
	if _, ok := p.addrShard[rec]; !ok {
		p.mu.Unlock()
		return errors.Wrapf(fiballoc.ErrInvalidPointer, "pool: address %d was not allocated by this pool under key %d", addr, key)
	}
	delete(p.addrShard, rec)
	p.mu.Unlock()

	if err := p.shards[idx].Release(addr); err != nil {
		return err
	}

	p.mu.Lock()
	p.stats.TotalReleases++
	p.mu.Unlock()
	return nil
}

// ShardCount returns the number of shards in the pool.
func (p *Pool) ShardCount() int {
	return len(p.shards)
}

// GetUsedSize returns the sum of used bytes across every shard.
func (p *Pool) GetUsedSize() uint64 {
	var used uint64
	for _, shard := range p.shards {
		used += shard.GetUsedSize()
	}
	return used
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// DumpFreeList returns a per-shard free-list dump, in shard order.
func (p *Pool) DumpFreeList() []string {
	dumps := make([]string, len(p.shards))
	for i, shard := range p.shards {
		dumps[i] = shard.DumpFreeList()
	}
	return dumps
}

// Shutdown tears down every shard.
func (p *Pool) Shutdown() error {
	for i, shard := range p.shards {
		if err := shard.Shutdown(); err != nil {
			return errors.Wrapf(err, "pool: shutting down shard %d", i)
		}
	}
	return nil
}
