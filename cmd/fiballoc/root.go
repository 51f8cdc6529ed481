package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	heapCapacity uint64
)

var rootCmd = &cobra.Command{
	Use:     "fiballoc",
	Short:   "Drive a Fibonacci buddy heap allocator",
	Long:    `fiballoc is a demonstration and operations tool for the fiballoc Fibonacci buddy allocator. It is not part of the allocator's own contract: every subcommand is an ordinary caller built on top of the library.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Uint64Var(&heapCapacity, "capacity", 1<<20, "backing region capacity in bytes for commands that create their own heap")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}
