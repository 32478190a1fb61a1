package grid

import (
	"errors"
	"sync"
)

var (
	// ErrNoClientInstance is returned by AnyClientInstance when no live
	// instance in the process satisfies ClientHandle.
	ErrNoClientInstance = errors.New("grid: no client cache instance in this process")

	// ErrNoPeerInstance is returned by AnyPeerInstance when no live instance
	// in the process satisfies PeerHandle.
	ErrNoPeerInstance = errors.New("grid: no peer cache instance in this process")
)

// registry holds every live Handle in the process, in registration order.
var registry = struct {
	mu        sync.RWMutex
	instances []Handle
}{}

// Register adds h to the process-wide registry. Connect and Join call this;
// external handle implementations may register themselves too.
func Register(h Handle) {
	if h == nil {
		return
	}
	registry.mu.Lock()
	registry.instances = append(registry.instances, h)
	registry.mu.Unlock()
}

// Deregister removes h from the process-wide registry. Removing a handle
// that was never registered is a no-op.
func Deregister(h Handle) {
	if h == nil {
		return
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for i, cur := range registry.instances {
		if cur == h {
			registry.instances = append(registry.instances[:i], registry.instances[i+1:]...)
			return
		}
	}
}

// AnyClientInstance returns the earliest registered instance that satisfies
// ClientHandle, or ErrNoClientInstance.
//
// Note: a dual-role implementation satisfies ClientHandle regardless of the
// mode it actually runs in. The registry does not consult the mode flag;
// classification is the caller's concern (see the resolver package).
func AnyClientInstance() (ClientHandle, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	for _, h := range registry.instances {
		if c, ok := h.(ClientHandle); ok {
			return c, nil
		}
	}
	return nil, ErrNoClientInstance
}

// AnyPeerInstance returns the earliest registered instance that satisfies
// PeerHandle, or ErrNoPeerInstance. The same dual-role caveat as
// AnyClientInstance applies.
func AnyPeerInstance() (PeerHandle, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	for _, h := range registry.instances {
		if p, ok := h.(PeerHandle); ok {
			return p, nil
		}
	}
	return nil, ErrNoPeerInstance
}
