package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shenjiangwei/fiballoc/rpcalloc"
)

var (
	serveAddress string
	serveShards  int
)

func init() {
	cmd := newServeCmd()
	cmd.Flags().StringVar(&serveAddress, "address", "127.0.0.1:4040", "address to listen on")
	cmd.Flags().IntVar(&serveShards, "shards", 8, "number of pool shards to serve")
	rootCmd.AddCommand(cmd)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the network front-end for a shard pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := rpcalloc.NewServer(serveShards, heapCapacity)
			if err != nil {
				return err
			}
			fmt.Printf("fiballoc: serving %d shards of capacity %d on %s\n", serveShards, heapCapacity, serveAddress)
			return server.Start(serveAddress)
		},
	}
}
