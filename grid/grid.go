// Package grid models a process's attachment to an in-memory data grid.
//
// A process participates in exactly one of two roles:
//   - client: attached to a remote grid over the network,
//   - peer: itself an embedded member of the grid, holding data in-process.
//
// Both roles are materialized by the same concrete type, Node. A Node built
// by Connect satisfies ClientHandle and a Node built by Join satisfies
// PeerHandle - but the type implements both interfaces either way, so
// interface satisfaction alone cannot tell the roles apart. The node's
// self-reported mode (IsClient) is the authoritative signal; see the
// resolver package for the disambiguation logic built on top of it.
//
// Live handles are tracked in a process-wide registry (see registry.go).
// Handles are registered on construction and deregistered on Close.
package grid

import (
	"context"
	"time"
)

// Handle is an opaque reference to a running cache instance, independent of
// its role.
type Handle interface {
	// Name identifies this instance within the process.
	Name() string

	// Region returns the named keyspace of the grid. Regions are created
	// lazily on first access and cached per name.
	Region(name string) Region

	// Close releases the instance and removes it from the process registry.
	Close(ctx context.Context) error
}

// ClientHandle is a Handle whose process acts as a caller into a remote grid.
type ClientHandle interface {
	Handle

	// Servers returns the remote grid addresses this client is attached to.
	Servers() []string
}

// PeerHandle is a Handle whose process is itself a grid member.
type PeerHandle interface {
	Handle

	// Members returns the member names known to this peer.
	Members() []string
}

// ModeReporter is the capability implemented by dual-role handle types whose
// interface set does not determine their role. When a handle implements it,
// IsClient is the only reliable role signal; handles that do not implement it
// carry their role in their type.
type ModeReporter interface {
	IsClient() bool
}

// Region is a named keyspace of the grid storing raw bytes with optional
// per-entry TTL.
type Region interface {
	// Name returns the region name.
	Name() string

	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	// Transport or engine errors are returned as (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key. ttl <= 0 means no expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes key (best-effort; deleting a missing key is not an error).
	Del(ctx context.Context, key string) error
}
