// Package sloghooks implements gridcache.Hooks on top of log/slog, with
// sampling to avoid floods and key redaction for logs leaving the process.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/gridcache"
)

type Options struct {
	// SelfHealEvery samples self-heal logs; 0/1 = log all.
	SelfHealEvery uint64
	// SetRejectEvery samples local set rejection logs; 0/1 = log all.
	SetRejectEvery uint64
	// Redact transforms keys before logging. Defaults to a SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr  atomic.Uint64
	setRejectCtr atomic.Uint64
}

var _ gridcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) LocalSelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("gridcache.local_self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) LocalSetRejected(storageKey string) {
	if h.l == nil || !sample(h.opts.SetRejectEvery, &h.setRejectCtr) {
		return
	}
	h.l.Warn("gridcache.local_set_rejected",
		"key", h.redact(storageKey))
}

func (h *Hooks) InvalidateOutage(key string, localErr, remoteErr error) {
	if h.l == nil {
		return
	}
	h.l.Error("gridcache.invalidate_outage",
		"key", h.redact(key),
		"local_err", localErr,
		"remote_err", remoteErr)
}
