package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shenjiangwei/fiballoc/concurrent"
	"github.com/shenjiangwei/fiballoc/fiballoc"
)

func init() {
	rootCmd.AddCommand(newAllocCmd())
	rootCmd.AddCommand(newReleaseCmd())
	rootCmd.AddCommand(newDumpCmd())
}

func newAllocCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alloc <size>",
		Short: "Allocate size bytes from a fresh local allocator and print the address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("alloc: invalid size: %w", err)
			}

			safe, err := concurrent.Init(heapCapacity)
			if err != nil {
				return fmt.Errorf("alloc: failed to initialize allocator: %w", err)
			}
			defer safe.Shutdown()

			addr, err := safe.Allocate(size)
			if err != nil {
				return err
			}
			fmt.Printf("allocated %d bytes at %d (%d bytes of header overhead)\n", size, addr, fiballoc.HeaderSize())
			return nil
		},
	}
}

func newReleaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "release <addr>",
		Short: "Release addr on a fresh local allocator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("release: invalid address: %w", err)
			}

			safe, err := concurrent.Init(heapCapacity)
			if err != nil {
				return fmt.Errorf("release: failed to initialize allocator: %w", err)
			}
			defer safe.Shutdown()

			if err := safe.Release(addr); err != nil {
				return err
			}
			fmt.Printf("released %d\n", addr)
			return nil
		},
	}
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the free list of a freshly initialized local allocator",
		RunE: func(cmd *cobra.Command, args []string) error {
			safe, err := concurrent.Init(heapCapacity)
			if err != nil {
				return fmt.Errorf("dump: failed to initialize allocator: %w", err)
			}
			defer safe.Shutdown()

			fmt.Printf("header overhead per block: %d bytes\n", fiballoc.HeaderSize())
			fmt.Print(safe.DumpFreeList())
			return nil
		},
	}
}
