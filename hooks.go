package gridcache

// Hooks are lightweight callbacks for high-signal events. Implementations
// MUST be cheap and non-blocking; the cache calls them on hot paths. See
// sloghooks for a slog-backed implementation and hooks/async for a
// drop-on-overflow async wrapper.
type Hooks interface {
	// A local entry was deleted by the cache on read.
	// reason ∈ {"corrupt", "expired", "value_decode"}
	LocalSelfHeal(storageKey, reason string)

	// The local store returned ok=false on Set (backpressure/eviction).
	LocalSetRejected(storageKey string)

	// The remote destroy failed during Invalidate; other processes may still
	// observe the value. localErr may be nil.
	InvalidateOutage(key string, localErr, remoteErr error)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) LocalSelfHeal(string, string)          {}
func (NopHooks) LocalSetRejected(string)               {}
func (NopHooks) InvalidateOutage(string, error, error) {}
