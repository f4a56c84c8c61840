// Package sloghooks reports silkcache events to a log/slog logger.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/silkcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	LoadedEvery    uint64
	CommittedEvery uint64
	// Optional cache key redactor. Defaults to SHA-256 prefix; use
	// func(k string) string { return k } to log names as they are.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	loadedCtr    atomic.Uint64
	committedCtr atomic.Uint64
}

var _ silkcache.Hooks = (*Hooks)(nil)

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

func (h *Hooks) Loaded(key string, n int) {
	if h.l == nil || !sample(h.opts.LoadedEvery, &h.loadedCtr) {
		return
	}
	h.l.Debug("silkcache.loaded",
		"cache", h.redact(key),
		"items", n)
}

func (h *Hooks) LoadFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("silkcache.load_failed",
		"cache", h.redact(key),
		"err", err)
}

func (h *Hooks) Committed(key string, written, ignored int) {
	if h.l == nil || !sample(h.opts.CommittedEvery, &h.committedCtr) {
		return
	}
	h.l.Debug("silkcache.committed",
		"cache", h.redact(key),
		"written", written,
		"ignored", ignored)
}

func (h *Hooks) Deleted(key string) {
	if h.l == nil {
		return
	}
	h.l.Info("silkcache.deleted",
		"cache", h.redact(key))
}

func (h *Hooks) CommitFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("silkcache.commit_failed",
		"cache", h.redact(key),
		"err", err)
}

func (h *Hooks) AsyncError(key, op string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("silkcache.async_error",
		"cache", h.redact(key),
		"op", op,
		"err", err)
}

func (h *Hooks) GenError(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("silkcache.gen_error",
		"cache", h.redact(key),
		"err", err)
}
