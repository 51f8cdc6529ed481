package rpcalloc

import (
	"context"
	"fmt"
	"net/rpc"
	"sync"

	"github.com/cockroachdb/errors"
)

// Client drives a remote Server over net/rpc, keeping a local record
// of outstanding allocations so an interactive caller can clean up on
// exit without tracking addresses itself.
type Client struct {
	rpcClient *rpc.Client

	mu        sync.Mutex
	allocated map[uint64]uint64 // addr -> key
}

// Dial connects to a Server at address.
func Dial(ctx context.Context, address string) (*Client, error) {
	type dialResult struct {
		client *rpc.Client
		err    error
	}
	done := make(chan dialResult, 1)
	go func() {
		c, err := rpc.Dial("tcp", address)
		done <- dialResult{c, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("rpcalloc: failed to connect to %s: %w", address, res.err)
		}
		return &Client{
			rpcClient: res.client,
			allocated: make(map[uint64]uint64),
		}, nil
	}
}

// Allocate requests n bytes under the given routing key.
func (c *Client) Allocate(key uint64, n uint64) (uint64, error) {
	req := &AllocRequest{Key: key, Size: n}
	resp := &AllocResponse{}

	if err := c.rpcClient.Call("Server.Allocate", req, resp); err != nil {
		return 0, fmt.Errorf("rpcalloc: RPC call failed: %w", err)
	}
	if resp.Error != "" {
		return 0, errors.New(resp.Error)
	}

	c.mu.Lock()
	c.allocated[resp.Addr] = key
	c.mu.Unlock()

	return resp.Addr, nil
}

// Release frees addr through the server. key must match the one
// passed to the Allocate call that produced addr.
func (c *Client) Release(key, addr uint64) error {
	req := &ReleaseRequest{Key: key, Addr: addr}
	resp := &ReleaseResponse{}

	if err := c.rpcClient.Call("Server.Release", req, resp); err != nil {
		return fmt.Errorf("rpcalloc: RPC call failed: %w", err)
	}
	if resp.Error != "" {
		return errors.New(resp.Error)
	}

	c.mu.Lock()
	delete(c.allocated, addr)
	c.mu.Unlock()

	return nil
}

// DumpFreeList fetches a per-shard free-list dump from the server.
func (c *Client) DumpFreeList() ([]string, error) {
	req := &DumpRequest{}
	resp := &DumpResponse{}

	if err := c.rpcClient.Call("Server.DumpFreeList", req, resp); err != nil {
		return nil, fmt.Errorf("rpcalloc: RPC call failed: %w", err)
	}
	return resp.Shards, nil
}

// ReleaseAll releases everything this client has allocated and not
// yet released, in no particular order. It is meant for interactive
// cleanup on exit, not for routine use.
func (c *Client) ReleaseAll() error {
	c.mu.Lock()
	addrKeys := make(map[uint64]uint64, len(c.allocated))
	for addr, key := range c.allocated {
		addrKeys[addr] = key
	}
	c.mu.Unlock()

	for addr, key := range addrKeys {
		if err := c.Release(key, addr); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.rpcClient.Close()
}
