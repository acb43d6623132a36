package varcache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/varcache/store"
)

const (
	// TTLNoExpiry is reported by TTL for a key that exists without expiry.
	TTLNoExpiry int64 = -1
	// TTLMissing is reported by TTL for a key that does not exist.
	TTLMissing int64 = -2
)

// Expire sets key to expire `seconds` from now, computed on the client clock
// and sent as an absolute deadline.
func (c *client) Expire(ctx context.Context, key string, seconds int) (bool, error) {
	return c.ExpireAt(ctx, key, c.clock.Now().Add(time.Duration(seconds)*time.Second))
}

func (c *client) ExpireAt(ctx context.Context, key string, at time.Time) (bool, error) {
	ok, err := c.store.ExpireAt(ctx, key, at)
	if err == nil {
		c.log.Debug("expiry set", Fields{"key": key, "at": at, "existed": ok})
	}
	return ok, err
}

// SetExpiration sets a relative expiry in milliseconds.
func (c *client) SetExpiration(ctx context.Context, key string, milliseconds int64) (bool, error) {
	ttl := time.Duration(milliseconds) * time.Millisecond
	ok, err := c.store.Expire(ctx, key, ttl)
	if err == nil {
		c.log.Debug("expiry set", Fields{"key": key, "ttl": ttl, "existed": ok})
	}
	return ok, err
}

// TTL returns the remaining whole seconds (truncated). ok is false and
// seconds is TTLMissing when key does not exist; seconds is TTLNoExpiry for
// a key without expiry.
func (c *client) TTL(ctx context.Context, key string) (int64, bool, error) {
	d, exists, err := c.store.TTL(ctx, key)
	switch {
	case err != nil:
		return 0, false, err
	case !exists:
		return TTLMissing, false, nil
	case d == store.NoExpiry:
		return TTLNoExpiry, true, nil
	}
	return int64(d / time.Second), true, nil
}

func (c *client) Persist(ctx context.Context, key string) (bool, error) {
	return c.store.Persist(ctx, key)
}
