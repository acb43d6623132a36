package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/varcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	DecodeFailedEvery  uint64
	ShapeRejectedEvery uint64
	// Key redactor. nil logs keys as-is; RedactHash hashes them.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	decodeCtr atomic.Uint64
	shapeCtr  atomic.Uint64
}

var _ varcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

// RedactHash replaces a key with the hex of its first 8 SHA-256 bytes.
func RedactHash(k string) string {
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	return k
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) DecodeFailed(key string, err error) {
	if h.l == nil || !sample(h.opts.DecodeFailedEvery, &h.decodeCtr) {
		return
	}
	h.l.Warn("varcache.decode_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) ShapeRejected(op, key string, err error) {
	if h.l == nil || !sample(h.opts.ShapeRejectedEvery, &h.shapeCtr) {
		return
	}
	h.l.Debug("varcache.shape_rejected",
		"op", op,
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) EvictBatch(prefix string, batch int, deleted int64) {
	if h.l == nil {
		return
	}
	h.l.Debug("varcache.evict_batch",
		"prefix", prefix,
		"batch", batch,
		"deleted", deleted)
}

func (h *Hooks) EvictFailed(prefix string, deleted int64, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("varcache.evict_failed",
		"prefix", prefix,
		"deleted", deleted,
		"err", err)
}
