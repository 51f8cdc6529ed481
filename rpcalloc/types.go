// Package rpcalloc exposes a shard pool over net/rpc, following the
// same request/response-struct-with-string-error convention this
// allocator family already uses for its own remote allocation
// service.
package rpcalloc

// AllocRequest is a remote allocation request.
type AllocRequest struct {
	Key  uint64
	Size uint64
}

// AllocResponse is a remote allocation response. Error carries the
// message of any error the server encountered; net/rpc itself only
// transports (request, response) pairs cleanly when errors are
// flattened into a field rather than returned as a Go error value
// from the allocator-level operation.
type AllocResponse struct {
	Addr  uint64
	Error string
}

// ReleaseRequest is a remote release request. Key must match the one
// supplied to the AllocRequest that produced Addr.
type ReleaseRequest struct {
	Key  uint64
	Addr uint64
}

// ReleaseResponse is a remote release response.
type ReleaseResponse struct {
	Error string
}

// DumpRequest is a remote free-list dump request; it carries no fields.
type DumpRequest struct{}

// DumpResponse is a remote free-list dump response, one entry per shard.
type DumpResponse struct {
	Shards []string
}
