package rpcalloc

import (
	"fmt"
	"net"
	"net/rpc"

	"github.com/cloudwego/gopkg/concurrency/gopool"

	"github.com/shenjiangwei/fiballoc/pool"
)

// Server exposes a pool.Pool over net/rpc.
type Server struct {
	pool      *pool.Pool
	listener  net.Listener
	rpcServer *rpc.Server
}

// NewServer creates a server backed by a freshly-initialized pool of
// n shards, each with the given per-shard backing capacity.
func NewServer(shards int, shardCapacity uint64) (*Server, error) {
	p, err := pool.New(shards, shardCapacity)
	if err != nil {
		return nil, fmt.Errorf("rpcalloc: failed to create pool: %w", err)
	}

	s := &Server{pool: p, rpcServer: rpc.NewServer()}
	if err := s.rpcServer.Register(s); err != nil {
		return nil, fmt.Errorf("rpcalloc: failed to register server: %w", err)
	}
	return s, nil
}

// Start listens on address and serves RPC connections until the
// listener is closed. Each accepted connection is handed to a bounded
// goroutine pool rather than a bare `go` statement, so a connection
// storm queues instead of spawning unbounded goroutines.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("rpcalloc: failed to listen on %s: %w", address, err)
	}
	s.listener = listener

	for {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("rpcalloc: accept failed: %w", err)
		}
		gopool.Go(func() {
			s.rpcServer.ServeConn(conn)
		})
	}
}

// Allocate is the RPC-exposed allocation method.
func (s *Server) Allocate(req *AllocRequest, resp *AllocResponse) error {
	addr, err := s.pool.Allocate(req.Key, req.Size)
	if err != nil {
		resp.Error = err.Error()
		return nil
	}
	resp.Addr = addr
	return nil
}

// Release is the RPC-exposed release method.
func (s *Server) Release(req *ReleaseRequest, resp *ReleaseResponse) error {
	if err := s.pool.Release(req.Key, req.Addr); err != nil {
		resp.Error = err.Error()
	}
	return nil
}

// DumpFreeList is the RPC-exposed free-list dump method.
func (s *Server) DumpFreeList(req *DumpRequest, resp *DumpResponse) error {
	resp.Shards = s.pool.DumpFreeList()
	return nil
}

// Close stops accepting new connections and tears down the pool.
func (s *Server) Close() error {
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			return err
		}
	}
	return s.pool.Shutdown()
}
