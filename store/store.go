// Package store defines the key/value backend used by varcache.
//
// Implementations hold opaque strings and must be text-transparent: Get must
// return exactly the string previously passed to Set for a key. A missing
// key and a key holding "" are distinct outcomes and must be reported as
// such (ok=false vs ok=true with an empty value).
//
// Store-level failures (timeouts, connection loss) are returned unchanged;
// varcache does not retry them.
package store

import (
	"context"
	"time"
)

// NoExpiry is the TTL reported for an existing key without an expiry.
const NoExpiry time.Duration = -1

// Store is the capability set varcache needs from its backend. Every method
// must be safe for concurrent use. Single-key operations are expected to be
// atomic; nothing else is.
type Store interface {
	// Get returns (value, true, nil) on hit; ("", false, nil) on miss.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value; ttl <= 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Del removes keys and reports how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	Exists(ctx context.Context, key string) (bool, error)

	// Expire, ExpireAt and Persist report whether the key existed (and, for
	// Persist, whether an expiry was removed).
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ExpireAt(ctx context.Context, key string, at time.Time) (bool, error)
	Persist(ctx context.Context, key string) (bool, error)

	// TTL returns the remaining time to live. exists is false for a missing
	// key; ttl is NoExpiry for a key without an expiry.
	TTL(ctx context.Context, key string) (ttl time.Duration, exists bool, err error)

	// Type returns the backend type name of key ("string", "hash", "none", ...).
	Type(ctx context.Context, key string) (string, error)

	IncrBy(ctx context.Context, key string, n int64) (int64, error)
	IncrByFloat(ctx context.Context, key string, f float64) (float64, error)

	// Hash primitives. HGet follows Get's hit/miss contract. HSet reports
	// whether the field was created. HSetMulti writes all fields in one call.
	// HGetAll returns an empty map for a missing key.
	HGet(ctx context.Context, key, field string) (string, bool, error)
	HSet(ctx context.Context, key, field, value string) (bool, error)
	HSetMulti(ctx context.Context, key string, fields map[string]string) error
	HDel(ctx context.Context, key string, fields ...string) (int64, error)
	HExists(ctx context.Context, key, field string) (bool, error)
	HLen(ctx context.Context, key string) (int64, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// KeysWithPrefix enumerates keys starting with prefix without blocking
	// the backend. count is a per-round-trip hint; 0 lets the store decide.
	// Keys may be reported more than once.
	KeysWithPrefix(ctx context.Context, prefix string, count int64) KeyIterator

	// Eval runs a server-side script (Lua for Redis) with keys and args in a
	// single round trip.
	Eval(ctx context.Context, script string, keys []string, args ...any) (any, error)

	// Close releases resources.
	Close(ctx context.Context) error
}

// KeyIterator walks an enumeration. Next fetches more keys as needed and
// returns false when the enumeration ends or fails; Err reports the failure.
type KeyIterator interface {
	Next(ctx context.Context) bool
	Key() string
	Err() error
}
