package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameKeyRoutesToSameShard(t *testing.T) {
	p, err := New(8, 1<<16)
	require.NoError(t, err)

	key := uint64(42)
	first := p.shardFor(key)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, p.shardFor(key))
	}
}

func TestAllocateReleaseUpdatesStats(t *testing.T) {
	p, err := New(4, 1<<16)
	require.NoError(t, err)

	addr, err := p.Allocate(1, 64)
	require.NoError(t, err)

	stats := p.Stats()
	assert.Equal(t, uint64(1), stats.TotalAllocations)

	require.NoError(t, p.Release(1, addr))

	stats = p.Stats()
	assert.Equal(t, uint64(1), stats.TotalReleases)
	assert.Equal(t, uint64(0), p.GetUsedSize())
}

func TestReleaseOfUnknownAddressFails(t *testing.T) {
	p, err := New(4, 1<<16)
	require.NoError(t, err)

	err = p.Release(1, 0xdeadbeef)
	assert.Error(t, err)
}

func TestReleaseWithWrongKeyFails(t *testing.T) {
	p, err := New(8, 1<<16)
	require.NoError(t, err)

	addr, err := p.Allocate(1, 64)
	require.NoError(t, err)

	var wrongKey uint64
	for k := uint64(0); k < uint64(p.ShardCount())+1; k++ {
		if p.shardFor(k) != p.shardFor(1) {
			wrongKey = k
			break
		}
	}

	err = p.Release(wrongKey, addr)
	assert.Error(t, err)
	require.NoError(t, p.Release(1, addr))
}

func TestUsedSizeSummedAcrossShards(t *testing.T) {
	p, err := New(3, 1<<16)
	require.NoError(t, err)

	for key := uint64(0); key < 30; key++ {
		_, err := p.Allocate(key, 32)
		require.NoError(t, err)
	}

	var perShard uint64
	for _, shard := range p.shards {
		perShard += shard.GetUsedSize()
	}
	assert.Equal(t, perShard, p.GetUsedSize())
}

func TestDumpFreeListOnePerShard(t *testing.T) {
	p, err := New(5, 4096)
	require.NoError(t, err)

	dumps := p.DumpFreeList()
	assert.Len(t, dumps, 5)
}
