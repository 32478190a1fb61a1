// Package resolver locates whichever cache instance is active in the current
// process and classifies it as a grid client or a grid peer.
//
// The difficulty is that the concrete grid.Node type implements both role
// interfaces regardless of the mode it actually runs in, so a registry lookup
// alone cannot tell client from peer. The resolver disambiguates through the
// instance's self-reported mode (grid.ModeReporter); handle types without
// that capability are trusted at face value for whichever registry returned
// them.
//
// Resolution is client-first: when a single dual-role instance satisfies both
// registries, the client role wins. ResolveClient, ResolvePeer and Resolve
// never fail - any error or panic raised by a registry lookup is observed as
// absence. Require is the one operation that converts absence into an error.
package resolver

import (
	"errors"
	"sync/atomic"

	"github.com/unkn0wn-root/gridcache/grid"
)

// ErrCacheNotFound is returned by Require when neither a client nor a peer
// instance can be resolved in this process.
var ErrCacheNotFound = errors.New("cache not found")

// Lookup locates a live cache instance, returning an error when none exists.
// Lookups may also panic; the resolver absorbs that the same as an error.
type Lookup func() (grid.Handle, error)

// Options overrides the registry lookups. Zero fields fall back to the
// process-wide grid registry; most callers want Shared() instead.
type Options struct {
	ClientLookup Lookup
	PeerLookup   Lookup
}

// Resolver finds the active cache instance of the current process. It holds
// no per-call state; every method is an idempotent query against the
// registries, safe for concurrent use.
type Resolver struct {
	clientLookup Lookup
	peerLookup   Lookup
}

// New builds a Resolver. Construction has no side effects.
func New(opts Options) *Resolver {
	r := &Resolver{
		clientLookup: opts.ClientLookup,
		peerLookup:   opts.PeerLookup,
	}
	if r.clientLookup == nil {
		r.clientLookup = func() (grid.Handle, error) { return grid.AnyClientInstance() }
	}
	if r.peerLookup == nil {
		r.peerLookup = func() (grid.Handle, error) { return grid.AnyPeerInstance() }
	}
	return r
}

var shared atomic.Pointer[Resolver]

// Shared returns the process-wide resolver, constructing it on first call.
// Racing first callers may each build a candidate, but exactly one is
// published and every caller observes that same instance.
func Shared() *Resolver {
	if r := shared.Load(); r != nil {
		return r
	}
	shared.CompareAndSwap(nil, New(Options{}))
	return shared.Load()
}

// ResolveClient returns the process's active client instance, if any. A found
// handle is returned only when it really is a client (see isClient). Lookup
// failures of any kind are reported as absence, never as an error.
func (r *Resolver) ResolveClient() (grid.ClientHandle, bool) {
	h, ok := attempt(r.clientLookup)
	if !ok {
		return nil, false
	}
	c, ok := h.(grid.ClientHandle)
	if !ok || !isClient(c) {
		return nil, false
	}
	return c, true
}

// ResolvePeer returns the process's active peer instance, if any, under the
// same contract as ResolveClient.
func (r *Resolver) ResolvePeer() (grid.PeerHandle, bool) {
	h, ok := attempt(r.peerLookup)
	if !ok {
		return nil, false
	}
	p, ok := h.(grid.PeerHandle)
	if !ok || !isPeer(p) {
		return nil, false
	}
	return p, true
}

// Resolve returns the active client instance if one exists, then the active
// peer instance. Client role strictly precedes peer role when one dual-role
// instance shows up in both registries. Never fails; absence is ok=false.
func (r *Resolver) Resolve() (grid.Handle, bool) {
	if c, ok := r.ResolveClient(); ok {
		return c, true
	}
	if p, ok := r.ResolvePeer(); ok {
		return p, true
	}
	return nil, false
}

// Require resolves like Resolve but treats absence as fatal, returning
// ErrCacheNotFound. This is the only failing operation in the package.
func (r *Resolver) Require() (grid.Handle, error) {
	if h, ok := r.Resolve(); ok {
		return h, nil
	}
	return nil, ErrCacheNotFound
}

// attempt runs a lookup, mapping errors, nil results and panics to absence.
// Swallowing panics is deliberate: a registry may assert on process state
// (e.g. not yet bootstrapped) and that must read as "no instance here".
func attempt(l Lookup) (h grid.Handle, ok bool) {
	defer func() {
		if recover() != nil {
			h, ok = nil, false
		}
	}()
	got, err := l()
	if err != nil || got == nil {
		return nil, false
	}
	return got, true
}

// isClient reports whether a handle obtained from the client registry really
// is a client. Dual-role types answer through their mode flag; everything
// else carries its role in its type and is trusted as returned.
func isClient(h grid.Handle) bool {
	if mr, ok := h.(grid.ModeReporter); ok {
		return mr.IsClient()
	}
	return true
}

// isPeer is the symmetric judgment for handles from the peer registry.
func isPeer(h grid.Handle) bool {
	if mr, ok := h.(grid.ModeReporter); ok {
		return !mr.IsClient()
	}
	return true
}
