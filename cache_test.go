package gridcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	cd "github.com/unkn0wn-root/gridcache/codec"
	"github.com/unkn0wn-root/gridcache/grid"
	"github.com/unkn0wn-root/gridcache/internal/wire"
	"github.com/unkn0wn-root/gridcache/resolver"
	st "github.com/unkn0wn-root/gridcache/store"
)

type memEntry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type memStore struct {
	m map[string]memEntry
}

var _ st.Store = (*memStore)(nil)

func newMemStore() *memStore { return &memStore{m: make(map[string]memEntry)} }

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(s.m, key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.m[key] = memEntry{v: value, exp: exp}
	return true, nil
}

func (s *memStore) Del(_ context.Context, key string) error { delete(s.m, key); return nil }
func (s *memStore) Close(_ context.Context) error           { return nil }

// memRegion is an in-process grid.Region with injectable failures.
type memRegion struct {
	name   string
	m      map[string][]byte
	getErr error
	delErr error
}

var _ grid.Region = (*memRegion)(nil)

func (r *memRegion) Name() string { return r.name }

func (r *memRegion) Get(_ context.Context, key string) ([]byte, bool, error) {
	if r.getErr != nil {
		return nil, false, r.getErr
	}
	b, ok := r.m[key]
	return b, ok, nil
}

func (r *memRegion) Put(_ context.Context, key string, value []byte, _ time.Duration) error {
	r.m[key] = value
	return nil
}

func (r *memRegion) Del(_ context.Context, key string) error {
	if r.delErr != nil {
		return r.delErr
	}
	delete(r.m, key)
	return nil
}

// fakeHandle is a grid.Handle over memRegions; role does not matter here.
type fakeHandle struct {
	regions map[string]*memRegion
}

var _ grid.Handle = (*fakeHandle)(nil)

func newFakeHandle() *fakeHandle { return &fakeHandle{regions: make(map[string]*memRegion)} }

func (h *fakeHandle) Name() string { return "fake" }

func (h *fakeHandle) Region(name string) grid.Region {
	r, ok := h.regions[name]
	if !ok {
		r = &memRegion{name: name, m: make(map[string][]byte)}
		h.regions[name] = r
	}
	return r
}

func (h *fakeHandle) Close(context.Context) error { return nil }

type recHooks struct {
	selfHeals []string // reasons
	rejected  int
	outages   int
}

func (r *recHooks) LocalSelfHeal(_, reason string)        { r.selfHeals = append(r.selfHeals, reason) }
func (r *recHooks) LocalSetRejected(string)               { r.rejected++ }
func (r *recHooks) InvalidateOutage(string, error, error) { r.outages++ }

type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T, h grid.Handle, local st.Store, optsOpt func(*Options[user])) NearCache[user] {
	t.Helper()
	opts := Options[user]{
		Region: "user",
		Local:  local,
		Codec:  cd.JSON[user]{},
		Grid:   h,
	}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	nc, err := New[user](opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = nc.Close(context.Background()) })
	return nc
}

func mustImpl(t *testing.T, nc NearCache[user]) *nearCache[user] {
	t.Helper()
	impl, ok := nc.(*nearCache[user])
	if !ok {
		t.Fatalf("unexpected concrete type for NearCache")
	}
	return impl
}

func TestNewValidation(t *testing.T) {
	h := newFakeHandle()
	local := newMemStore()

	cases := map[string]Options[user]{
		"no_region": {Local: local, Codec: cd.JSON[user]{}, Grid: h},
		"no_local":  {Region: "user", Codec: cd.JSON[user]{}, Grid: h},
		"no_codec":  {Region: "user", Local: local, Grid: h},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := New[user](opts); err == nil {
				t.Fatalf("New should reject options without %s", name)
			}
		})
	}
}

// With no Grid option and no instance running in the process, construction
// must fail through the resolver.
func TestNewWithoutGridRequiresInstance(t *testing.T) {
	_, err := New[user](Options[user]{
		Region: "user",
		Local:  newMemStore(),
		Codec:  cd.JSON[user]{},
	})
	if !errors.Is(err, resolver.ErrCacheNotFound) {
		t.Fatalf("expected resolver.ErrCacheNotFound, got %v", err)
	}
}

func TestReadThroughAndLocalWarmup(t *testing.T) {
	ctx := context.Background()
	h := newFakeHandle()
	local := newMemStore()
	nc := newTestCache(t, h, local, nil)
	impl := mustImpl(t, nc)

	// Miss everywhere.
	if _, ok, err := nc.Get(ctx, "u1"); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	// Seed the region directly, as another process would.
	want := user{ID: "u1", Name: "Ada"}
	payload, err := (cd.JSON[user]{}).Encode(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := h.Region("user").Put(ctx, "u1", payload, 0); err != nil {
		t.Fatalf("seed region: %v", err)
	}

	got, ok, err := nc.Get(ctx, "u1")
	if err != nil || !ok || got != want {
		t.Fatalf("read-through Get = (%v, %v, %v)", got, ok, err)
	}

	// The local front now holds a framed copy.
	raw, ok, _ := local.Get(ctx, impl.localKey("u1"))
	if !ok {
		t.Fatalf("local store was not warmed")
	}
	if _, p, err := wire.DecodeEntry(raw); err != nil || string(p) != string(payload) {
		t.Fatalf("warmed entry does not round-trip: %v", err)
	}

	// Remote can disappear; the local front still serves.
	if err := h.Region("user").Del(ctx, "u1"); err != nil {
		t.Fatalf("del region: %v", err)
	}
	got, ok, err = nc.Get(ctx, "u1")
	if err != nil || !ok || got != want {
		t.Fatalf("local hit Get = (%v, %v, %v)", got, ok, err)
	}
}

func TestPutWritesThrough(t *testing.T) {
	ctx := context.Background()
	h := newFakeHandle()
	local := newMemStore()
	nc := newTestCache(t, h, local, nil)

	v := user{ID: "u2", Name: "Grace"}
	if err := nc.Put(ctx, "u2", v, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Remote holds the raw payload.
	raw, ok, err := h.Region("user").Get(ctx, "u2")
	if err != nil || !ok {
		t.Fatalf("region should hold the entry after Put")
	}
	dec, err := (cd.JSON[user]{}).Decode(raw)
	if err != nil || dec != v {
		t.Fatalf("region payload = (%v, %v)", dec, err)
	}

	// And the local front serves without the remote.
	h.regions["user"].m = map[string][]byte{}
	got, ok, err := nc.Get(ctx, "u2")
	if err != nil || !ok || got != v {
		t.Fatalf("Get after Put = (%v, %v, %v)", got, ok, err)
	}
}

func TestSelfHealCorruptLocal(t *testing.T) {
	ctx := context.Background()
	h := newFakeHandle()
	local := newMemStore()
	hooks := &recHooks{}
	nc := newTestCache(t, h, local, func(o *Options[user]) { o.Hooks = hooks })
	impl := mustImpl(t, nc)

	k := impl.localKey("bad")
	if ok, err := local.Set(ctx, k, []byte("not-wire-format"), 1, time.Minute); err != nil || !ok {
		t.Fatalf("inject corrupt: ok=%v err=%v", ok, err)
	}

	if _, ok, err := nc.Get(ctx, "bad"); err != nil || ok {
		t.Fatalf("Get over corrupt local should miss, ok=%v err=%v", ok, err)
	}
	if _, ok, _ := local.Get(ctx, k); ok {
		t.Fatalf("corrupt entry was not deleted by self-heal")
	}
	if len(hooks.selfHeals) != 1 || hooks.selfHeals[0] != "corrupt" {
		t.Fatalf("self-heal hook = %v", hooks.selfHeals)
	}
}

func TestSelfHealExpiredLocal(t *testing.T) {
	ctx := context.Background()
	h := newFakeHandle()
	local := newMemStore()
	hooks := &recHooks{}
	nc := newTestCache(t, h, local, func(o *Options[user]) { o.Hooks = hooks })
	impl := mustImpl(t, nc)

	v := user{ID: "u3", Name: "Edsger"}
	if err := nc.Put(ctx, "u3", v, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Move the cache's clock past the stamped expiry. The remote copy still
	// exists, so the read falls through and re-warms.
	impl.now = func() time.Time { return time.Now().Add(impl.localTTL + time.Minute) }

	got, ok, err := nc.Get(ctx, "u3")
	if err != nil || !ok || got != v {
		t.Fatalf("Get past local expiry = (%v, %v, %v)", got, ok, err)
	}
	if len(hooks.selfHeals) != 1 || hooks.selfHeals[0] != "expired" {
		t.Fatalf("self-heal hook = %v", hooks.selfHeals)
	}
}

func TestSelfHealUndecodableValue(t *testing.T) {
	ctx := context.Background()
	h := newFakeHandle()
	local := newMemStore()
	hooks := &recHooks{}
	nc := newTestCache(t, h, local, func(o *Options[user]) { o.Hooks = hooks })
	impl := mustImpl(t, nc)

	k := impl.localKey("junk")
	framed := wire.EncodeEntry(time.Now().Add(time.Hour), []byte("{"))
	if ok, err := local.Set(ctx, k, framed, 1, time.Minute); err != nil || !ok {
		t.Fatalf("inject: ok=%v err=%v", ok, err)
	}

	if _, ok, err := nc.Get(ctx, "junk"); err != nil || ok {
		t.Fatalf("expected miss over undecodable value, ok=%v err=%v", ok, err)
	}
	if len(hooks.selfHeals) != 1 || hooks.selfHeals[0] != "value_decode" {
		t.Fatalf("self-heal hook = %v", hooks.selfHeals)
	}
}

func TestRemoteErrorPropagates(t *testing.T) {
	ctx := context.Background()
	h := newFakeHandle()
	nc := newTestCache(t, h, newMemStore(), nil)

	sentinel := errors.New("grid down")
	h.regions["user"].getErr = sentinel

	if _, _, err := nc.Get(ctx, "u4"); !errors.Is(err, sentinel) {
		t.Fatalf("remote errors must surface from Get, got %v", err)
	}
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	h := newFakeHandle()
	local := newMemStore()
	nc := newTestCache(t, h, local, nil)
	impl := mustImpl(t, nc)

	v := user{ID: "u5", Name: "Barbara"}
	if err := nc.Put(ctx, "u5", v, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := nc.Invalidate(ctx, "u5"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := nc.Get(ctx, "u5"); ok {
		t.Fatalf("entry should be gone after Invalidate")
	}
	if _, ok, _ := local.Get(ctx, impl.localKey("u5")); ok {
		t.Fatalf("local copy should be evicted")
	}
}

func TestInvalidateRemoteFailure(t *testing.T) {
	ctx := context.Background()
	h := newFakeHandle()
	hooks := &recHooks{}
	nc := newTestCache(t, h, newMemStore(), func(o *Options[user]) { o.Hooks = hooks })

	if err := nc.Put(ctx, "u6", user{ID: "u6"}, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	sentinel := errors.New("destroy failed")
	h.regions["user"].delErr = sentinel

	err := nc.Invalidate(ctx, "u6")
	var ie *InvalidateError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvalidateError, got %T: %v", err, err)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("InvalidateError should unwrap the remote error")
	}
	if !strings.Contains(err.Error(), "u6") {
		t.Fatalf("error should name the key: %v", err)
	}
	if hooks.outages != 1 {
		t.Fatalf("outage hook fired %d times", hooks.outages)
	}
}

func TestDisabledCacheIsInert(t *testing.T) {
	ctx := context.Background()
	h := newFakeHandle()
	local := newMemStore()
	nc := newTestCache(t, h, local, func(o *Options[user]) { o.Disabled = true })

	if nc.Enabled() {
		t.Fatalf("cache should report disabled")
	}
	if err := nc.Put(ctx, "k", user{ID: "k"}, 0); err != nil {
		t.Fatalf("Put on disabled cache: %v", err)
	}
	if _, ok, err := nc.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("disabled Get = ok=%v err=%v", ok, err)
	}
	if err := nc.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("Invalidate on disabled cache: %v", err)
	}
	if len(local.m) != 0 || len(h.regions) != 1 {
		t.Fatalf("disabled cache should not touch stores")
	}
}

// Full stack: an embedded peer joins the grid, the resolver finds it, and a
// near cache built without an explicit handle serves through it.
func TestNearCacheOverResolvedPeer(t *testing.T) {
	ctx := context.Background()

	node, err := grid.Join(grid.PeerConfig{Name: "m1", Engine: newMemStore()})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	defer node.Close(ctx)

	nc, err := New[user](Options[user]{
		Region: "user",
		Local:  newMemStore(),
		Codec:  cd.JSON[user]{},
	})
	if err != nil {
		t.Fatalf("New over resolved peer: %v", err)
	}
	defer nc.Close(ctx)

	v := user{ID: "u7", Name: "Tony"}
	if err := nc.Put(ctx, "u7", v, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := nc.Get(ctx, "u7")
	if err != nil || !ok || got != v {
		t.Fatalf("Get = (%v, %v, %v)", got, ok, err)
	}

	// The value really lives in the peer's region, visible to any other
	// consumer of the same handle.
	raw, ok, err := node.Region("user").Get(ctx, "u7")
	if err != nil || !ok {
		t.Fatalf("peer region should hold the entry")
	}
	dec, err := (cd.JSON[user]{}).Decode(raw)
	if err != nil || dec != v {
		t.Fatalf("peer payload = (%v, %v)", dec, err)
	}
}
