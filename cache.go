package gridcache

import (
	"context"
	"fmt"
	"time"

	cd "github.com/unkn0wn-root/gridcache/codec"
	"github.com/unkn0wn-root/gridcache/grid"
	"github.com/unkn0wn-root/gridcache/internal/wire"
	"github.com/unkn0wn-root/gridcache/resolver"
	st "github.com/unkn0wn-root/gridcache/store"
)

const defaultTTL = 10 * time.Minute

type nearCache[V any] struct {
	regionName string
	region     grid.Region
	local      st.Store
	codec      cd.Codec[V]
	log        Logger
	hooks      Hooks
	enabled    bool
	remoteTTL  time.Duration
	localTTL   time.Duration
	cost       CostFunc
	now        func() time.Time
}

func newNearCache[V any](opts Options[V]) (*nearCache[V], error) {
	if opts.Region == "" {
		return nil, fmt.Errorf("gridcache: region is required")
	}
	if opts.Local == nil {
		return nil, fmt.Errorf("gridcache: local store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("gridcache: codec is required")
	}

	handle := opts.Grid
	if handle == nil {
		h, err := resolver.Shared().Require()
		if err != nil {
			return nil, fmt.Errorf("gridcache: no grid instance: %w", err)
		}
		handle = h
	}

	c := &nearCache[V]{
		regionName: opts.Region,
		region:     handle.Region(opts.Region),
		local:      opts.Local,
		codec:      opts.Codec,
		enabled:    !opts.Disabled,
		now:        time.Now,
	}

	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.remoteTTL = coalesce[time.Duration](opts.DefaultTTL, defaultTTL)
	c.localTTL = coalesce[time.Duration](opts.LocalTTL, c.remoteTTL)

	if opts.Cost != nil {
		c.cost = opts.Cost
	} else {
		c.cost = func(_ string, _ []byte) int64 { return 1 }
	}

	return c, nil
}

func (c *nearCache[V]) Enabled() bool { return c.enabled }

// Close releases the local store. The grid handle is shared process state
// and stays open; close it through grid.Handle.Close.
func (c *nearCache[V]) Close(ctx context.Context) error {
	if c.local != nil {
		return c.local.Close(ctx)
	}
	return nil
}

func (c *nearCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if !c.enabled {
		return zero, false, nil
	}
	k := c.localKey(key)

	if raw, ok, err := c.local.Get(ctx, k); err == nil && ok {
		if v, ok := c.decodeLocal(ctx, k, raw); ok {
			return v, true, nil
		}
		// fell out of the local front; go remote
	}

	payload, ok, err := c.region.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		return zero, false, fmt.Errorf("gridcache: decode region %q key %q: %w", c.regionName, key, err)
	}
	c.warmLocal(ctx, k, payload)
	return v, true, nil
}

// decodeLocal unframes and decodes a local entry, self-healing anything
// unusable (corrupt frame, past expiry, undecodable value) into a miss.
func (c *nearCache[V]) decodeLocal(ctx context.Context, storageKey string, raw []byte) (V, bool) {
	var zero V
	expiresAt, payload, err := wire.DecodeEntry(raw)
	if err != nil {
		c.selfHeal(ctx, storageKey, "corrupt")
		return zero, false
	}
	if !expiresAt.IsZero() && c.now().After(expiresAt) {
		c.selfHeal(ctx, storageKey, "expired")
		return zero, false
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		c.selfHeal(ctx, storageKey, "value_decode")
		return zero, false
	}
	return v, true
}

func (c *nearCache[V]) selfHeal(ctx context.Context, storageKey, reason string) {
	_ = c.local.Del(ctx, storageKey)
	c.hooks.LocalSelfHeal(storageKey, reason)
	c.log.Debug("dropped unusable local entry", Fields{"key": storageKey, "reason": reason})
}

func (c *nearCache[V]) warmLocal(ctx context.Context, storageKey string, payload []byte) {
	var expiresAt time.Time
	if c.localTTL > 0 {
		expiresAt = c.now().Add(c.localTTL)
	}
	framed := wire.EncodeEntry(expiresAt, payload)
	ok, err := c.local.Set(ctx, storageKey, framed, c.cost(storageKey, framed), c.localTTL)
	if err != nil {
		c.log.Warn("local warm failed", Fields{"key": storageKey, "err": err})
		return
	}
	if !ok {
		c.hooks.LocalSetRejected(storageKey)
	}
}

func (c *nearCache[V]) Put(ctx context.Context, key string, value V, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}
	if ttl == 0 {
		ttl = c.remoteTTL
	}
	payload, err := c.codec.Encode(value)
	if err != nil {
		return err
	}
	if err := c.region.Put(ctx, key, payload, ttl); err != nil {
		return err
	}
	c.warmLocal(ctx, c.localKey(key), payload)
	return nil
}

func (c *nearCache[V]) Invalidate(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	k := c.localKey(key)
	localErr := c.local.Del(ctx, k)
	remoteErr := c.region.Del(ctx, key)
	if remoteErr != nil {
		// the remote copy is authoritative; failing to destroy it means other
		// processes still observe the value
		c.hooks.InvalidateOutage(key, localErr, remoteErr)
		return &InvalidateError{Key: key, LocalErr: localErr, RemoteErr: remoteErr}
	}
	if localErr != nil {
		c.log.Debug("local evict failed; entry expires via TTL", Fields{"key": key, "err": localErr})
	}
	return nil
}

func (c *nearCache[V]) localKey(userKey string) string {
	// isolate per region
	return "near:" + c.regionName + ":" + userKey
}
