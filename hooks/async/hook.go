// Package asynchook decouples hook callbacks from the cache's hot paths: a
// bounded queue of worker goroutines runs the inner hooks, and events are
// dropped when the queue is full.
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/gridcache"
)

type Hooks struct {
	inner gridcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ gridcache.Hooks = (*Hooks)(nil)

func New(inner gridcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains the queue and stops the workers. Safe to call more than once.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) LocalSelfHeal(k, r string) { h.try(func() { h.inner.LocalSelfHeal(k, r) }) }
func (h *Hooks) LocalSetRejected(k string) { h.try(func() { h.inner.LocalSetRejected(k) }) }
func (h *Hooks) InvalidateOutage(k string, le, re error) {
	h.try(func() { h.inner.InvalidateOutage(k, le, re) })
}
