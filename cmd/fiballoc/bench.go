package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/shenjiangwei/fiballoc/pool"
)

var (
	benchShards    int
	benchWorkers   int
	benchOps       int
	benchMinSize   uint64
	benchMaxSize   uint64
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchShards, "shards", 8, "number of pool shards")
	cmd.Flags().IntVar(&benchWorkers, "workers", 10, "number of concurrent workers")
	cmd.Flags().IntVar(&benchOps, "ops", 100000, "total allocate/release operations across all workers")
	cmd.Flags().Uint64Var(&benchMinSize, "min-size", 64, "minimum request size in bytes")
	cmd.Flags().Uint64Var(&benchMaxSize, "max-size", 4096, "maximum request size in bytes")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Run a concurrent allocate/release workload against a shard pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
}

func runBench() error {
	p, err := pool.New(benchShards, heapCapacity)
	if err != nil {
		return fmt.Errorf("bench: failed to create pool: %w", err)
	}
	defer p.Shutdown()

	var mu sync.Mutex
	allocated := make(map[uint64]uint64) // addr -> key

	var wg sync.WaitGroup
	var opsDone int
	start := time.Now()

	for w := 0; w < benchWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))
			for {
				mu.Lock()
				if opsDone >= benchOps {
					mu.Unlock()
					return
				}
				opsDone++
				mu.Unlock()

				key := uint64(workerID)
				if rng.Float64() < 0.7 {
					size := benchMinSize + uint64(rng.Int63n(int64(benchMaxSize-benchMinSize+1)))
					addr, err := p.Allocate(key, size)
					if err == nil {
						mu.Lock()
						allocated[addr] = key
						mu.Unlock()
					}
				} else {
					mu.Lock()
					var addr, relKey uint64
					found := false
					for a, k := range allocated {
						addr, relKey = a, k
						found = true
						break
					}
					if found {
						delete(allocated, addr)
					}
					mu.Unlock()
					if found {
						_ = p.Release(relKey, addr)
					}
				}
			}
		}(w)
	}
	wg.Wait()
	duration := time.Since(start)

	stats := p.Stats()
	fmt.Printf("shards:       %d\n", p.ShardCount())
	fmt.Printf("duration:     %v\n", duration)
	fmt.Printf("allocations:  %d\n", stats.TotalAllocations)
	fmt.Printf("releases:     %d\n", stats.TotalReleases)
	fmt.Printf("out of mem:   %d\n", stats.OutOfMemoryCount)
	fmt.Printf("used bytes:   %d\n", p.GetUsedSize())
	printVerbose("per-shard free lists:\n%v\n", p.DumpFreeList())
	return nil
}
