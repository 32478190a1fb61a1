// Package store defines the local byte-store abstraction used by gridcache.
// A Store serves two jobs: the near-cache front placed before a grid region,
// and the storage engine of an embedded peer member.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte previously passed to Set for a key. Stores that transform
// values internally (compression etc.) must fully reverse the transform.
// Entry framing and expiry stamping are layered above the store, so foreign
// bytes under gridcache-owned keys may be treated as corruption and deleted.
package store

import (
	"context"
	"time"
)

// Store is a minimal byte store. Implementations must be safe for concurrent
// use.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. Engines without per-entry TTL may ignore ttl (the
	// caller stamps an authoritative expiry into the entry itself). cost is
	// an admission weight; engines without admission control ignore it.
	// Returns ok=false when the engine rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
