package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/shenjiangwei/fiballoc/rpcalloc"
)

var remoteAddress string

func init() {
	remoteCmd := &cobra.Command{
		Use:   "remote",
		Short: "Drive a running fiballoc server over the network",
	}
	remoteCmd.PersistentFlags().StringVar(&remoteAddress, "address", "127.0.0.1:4040", "server address")

	remoteCmd.AddCommand(newRemoteAllocCmd())
	remoteCmd.AddCommand(newRemoteReleaseCmd())
	remoteCmd.AddCommand(newRemoteDumpCmd())
	rootCmd.AddCommand(remoteCmd)
}

func dialRemote() (*rpcalloc.Client, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	client, err := rpcalloc.Dial(ctx, remoteAddress)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return client, cancel, nil
}

func newRemoteAllocCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alloc <key> <bytes>",
		Short: "Allocate bytes on the remote server under a routing key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("remote alloc: invalid key: %w", err)
			}
			size, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("remote alloc: invalid size: %w", err)
			}

			client, cancel, err := dialRemote()
			if err != nil {
				return err
			}
			defer cancel()
			defer client.Close()

			addr, err := client.Allocate(key, size)
			if err != nil {
				return err
			}
			fmt.Printf("allocated %d bytes at %d\n", size, addr)
			return nil
		},
	}
}

func newRemoteReleaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "release <key> <addr>",
		Short: "Release an address previously returned by remote alloc under the same key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("remote release: invalid key: %w", err)
			}
			addr, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("remote release: invalid address: %w", err)
			}

			client, cancel, err := dialRemote()
			if err != nil {
				return err
			}
			defer cancel()
			defer client.Close()

			if err := client.Release(key, addr); err != nil {
				return err
			}
			fmt.Printf("released %d\n", addr)
			return nil
		},
	}
}

func newRemoteDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the remote server's per-shard free lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cancel, err := dialRemote()
			if err != nil {
				return err
			}
			defer cancel()
			defer client.Close()

			shards, err := client.DumpFreeList()
			if err != nil {
				return err
			}
			for i, dump := range shards {
				fmt.Printf("--- shard %d ---\n%s", i, dump)
			}
			return nil
		},
	}
}
