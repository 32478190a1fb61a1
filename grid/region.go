package grid

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/gridcache/store"
)

// storageKey isolates regions from each other inside a shared keyspace.
func storageKey(region, key string) string {
	return "region:" + region + ":" + key
}

// remoteRegion is a client-mode region backed by the grid connection.
type remoteRegion struct {
	name string
	rdb  goredis.UniversalClient
}

var _ Region = (*remoteRegion)(nil)

func (r *remoteRegion) Name() string { return r.name }

func (r *remoteRegion) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, storageKey(r.name, key)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (r *remoteRegion) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0 // non-positive TTLs mean "no expiry"
	}
	return r.rdb.Set(ctx, storageKey(r.name, key), value, ttl).Err()
}

func (r *remoteRegion) Del(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, storageKey(r.name, key)).Err()
}

// localRegion is a peer-mode region backed by the member's own engine.
type localRegion struct {
	name   string
	engine store.Store
}

var _ Region = (*localRegion)(nil)

func (r *localRegion) Name() string { return r.name }

func (r *localRegion) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return r.engine.Get(ctx, storageKey(r.name, key))
}

func (r *localRegion) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := r.engine.Set(ctx, storageKey(r.name, key), value, int64(len(value)), ttl)
	return err
}

func (r *localRegion) Del(ctx context.Context, key string) error {
	return r.engine.Del(ctx, storageKey(r.name, key))
}
