package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/sixlink"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery      uint64
	ExpiredPurgedEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr atomic.Uint64
	expiredCtr  atomic.Uint64
}

var _ sixlink.Hooks = (*Hooks)(nil)

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

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("sixlink.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) ExpiredPurged(code string) {
	if h.l == nil || !sample(h.opts.ExpiredPurgedEvery, &h.expiredCtr) {
		return
	}
	h.l.Debug("sixlink.expired_purged",
		"code", code)
}

func (h *Hooks) StoreSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("sixlink.store_set_rejected",
		"key", h.redact(storageKey))
}

func (h *Hooks) SequenceError(err error) {
	if h.l == nil {
		return
	}
	h.l.Error("sixlink.sequence_error",
		"err", err)
}
