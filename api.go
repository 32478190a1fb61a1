package gridcache

import (
	"context"
	"time"

	cd "github.com/unkn0wn-root/gridcache/codec"
	"github.com/unkn0wn-root/gridcache/grid"
	st "github.com/unkn0wn-root/gridcache/store"
)

// CostFunc computes the admission weight of a local entry for stores with
// admission control (e.g. Ristretto).
type CostFunc func(key string, raw []byte) int64

// NearCache is a read-through/write-through cache over one grid region with
// a local front. V is the caller's value type; serialization is handled by a
// pluggable Codec[V].
type NearCache[V any] interface {
	Enabled() bool
	Close(context.Context) error

	// Get consults the local store first, then the grid region, warming the
	// local copy on a remote hit.
	Get(ctx context.Context, key string) (v V, ok bool, err error)

	// Put writes through to the grid region and refreshes the local copy.
	// ttl == 0 uses the configured default.
	Put(ctx context.Context, key string, value V, ttl time.Duration) error

	// Invalidate evicts the local copy and destroys the remote entry.
	Invalidate(ctx context.Context, key string) error
}

// Options tune the near cache. Region, Local and Codec are required; the
// rest have sensible defaults.
type Options[V any] struct {
	// Required
	Region string      // grid region name, e.g. "user", "session"
	Local  st.Store    // local front / byte store
	Codec  cd.Codec[V]

	// Grid is the cache instance to read through to. When nil, the process's
	// active instance is resolved via resolver.Shared().Require().
	Grid grid.Handle

	Logger     Logger        // nil => NopLogger
	Hooks      Hooks         // nil => NopHooks
	DefaultTTL time.Duration // remote entries; 0 => 10m
	LocalTTL   time.Duration // local front; 0 => DefaultTTL
	Disabled   bool          // default false (enabled)
	Cost       CostFunc      // default 1
}

func New[V any](opts Options[V]) (NearCache[V], error) {
	return newNearCache[V](opts)
}
