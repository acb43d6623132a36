package varcache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/varcache/codec"
	"github.com/unkn0wn-root/varcache/store"
)

// Value is the shape-preserving form of a cached value.
type Value = codec.Value

// Client is the caller-facing cache surface. Values passed to Set may be
// scalars, slices or arrays (1-D), slices of equally long slices (2-D), or
// codec.Value; see codec.FromAny.
type Client interface {
	Close(ctx context.Context) error

	// Strings
	Get(ctx context.Context, key string) (v Value, ok bool, err error)
	Set(ctx context.Context, key string, value any, secondsToExpire int) error
	SetPermanent(ctx context.Context, key string, value any) error
	Del(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Type(ctx context.Context, key string) (string, error)

	// Expiry
	Expire(ctx context.Context, key string, seconds int) (bool, error)
	ExpireAt(ctx context.Context, key string, at time.Time) (bool, error)
	SetExpiration(ctx context.Context, key string, milliseconds int64) (bool, error)
	TTL(ctx context.Context, key string) (seconds int64, ok bool, err error)
	Persist(ctx context.Context, key string) (bool, error)

	// Counters
	Incr(ctx context.Context, key string) (float64, error)
	IncrBy(ctx context.Context, key string, amount float64) (float64, error)
	Decr(ctx context.Context, key string) (float64, error)
	DecrBy(ctx context.Context, key string, amount float64) (float64, error)

	// Hashes (scalar fields only)
	Hget(ctx context.Context, key, field string) (string, bool, error)
	Hset(ctx context.Context, key, field string, value any) (bool, error)
	Hdel(ctx context.Context, key, field string) (bool, error)
	Hexists(ctx context.Context, key, field string) (bool, error)
	Hlen(ctx context.Context, key string) (int64, error)
	Hgetall(ctx context.Context, key string) (map[string]string, error)
	HsetDict(ctx context.Context, key string, data any) error

	// Bulk
	RemoveKeysWithPrefix(ctx context.Context, prefix string) (deleted int64, err error)
}

// Options configure a Client. Only Store is required.
type Options struct {
	// Required
	Store store.Store

	Codec          *codec.ValueCodec // nil => JSON documents, no size limit
	Logger         Logger            // nil => NopLogger
	Hooks          Hooks             // nil => NopHooks
	Clock          Clock             // nil => system time; used by Expire
	EvictBatchSize int               // keys per delete script; 0 => 5000
	ScanCount      int64             // SCAN COUNT hint; 0 => 1000
}

func New(opts Options) (Client, error) {
	return newClient(opts)
}
