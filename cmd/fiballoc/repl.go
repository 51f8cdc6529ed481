package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shenjiangwei/fiballoc/concurrent"
)

func init() {
	rootCmd.AddCommand(newReplCmd())
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively drive one local allocator from standard input",
		Long: `repl reads one command per line from standard input until EOF:

  <size>        allocate <size> bytes and print the returned address
  free <addr>   release the block at <addr>
  dump          print the free list

This is the interactive driver the allocator's own specification
describes as an external collaborator: it is an ordinary caller, not
part of the allocator's contract.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl()
		},
	}
}

func runRepl() error {
	safe, err := concurrent.Init(heapCapacity)
	if err != nil {
		return fmt.Errorf("repl: failed to initialize allocator: %w", err)
	}
	defer safe.Shutdown()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "dump":
			fmt.Fprint(os.Stdout, safe.DumpFreeList())
		case strings.HasPrefix(line, "free "):
			addrStr := strings.TrimSpace(strings.TrimPrefix(line, "free "))
			addr, err := strconv.ParseUint(addrStr, 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "repl: invalid address %q: %v\n", addrStr, err)
				continue
			}
			if err := safe.Release(addr); err != nil {
				fmt.Fprintf(os.Stderr, "repl: release failed: %v\n", err)
				continue
			}
			fmt.Fprintf(os.Stdout, "released %d\n", addr)
		default:
			size, err := strconv.ParseUint(line, 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "repl: unrecognized command %q\n", line)
				continue
			}
			addr, err := safe.Allocate(size)
			if err != nil {
				fmt.Fprintf(os.Stderr, "repl: allocate failed: %v\n", err)
				continue
			}
			fmt.Fprintf(os.Stdout, "allocated %d bytes at %d\n", size, addr)
		}
	}
	return scanner.Err()
}
