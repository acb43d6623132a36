package varcache

import (
	"context"
	"errors"
	"time"

	"github.com/unkn0wn-root/varcache/codec"
	"github.com/unkn0wn-root/varcache/store"
)

var ErrNilStore = errors.New("varcache: nil store")

type client struct {
	store store.Store
	codec *codec.ValueCodec
	log   Logger
	hooks Hooks
	clock Clock

	batchSize int
	scanCount int64
}

var _ Client = (*client)(nil)

func newClient(opts Options) (*client, error) {
	if opts.Store == nil {
		return nil, ErrNilStore
	}
	if opts.EvictBatchSize < 0 || opts.ScanCount < 0 {
		return nil, &InvalidArgumentError{Op: "New", Arg: "options", Reason: "negative batch size or scan count"}
	}
	c := &client{
		store:     opts.Store,
		codec:     opts.Codec,
		log:       opts.Logger,
		hooks:     opts.Hooks,
		clock:     opts.Clock,
		batchSize: coalesce(opts.EvictBatchSize, DefaultEvictBatchSize),
		scanCount: coalesce(opts.ScanCount, int64(defaultScanCount)),
	}
	if c.codec == nil {
		c.codec = codec.Must(codec.Options{})
	}
	if c.log == nil {
		c.log = NopLogger{}
	}
	if c.hooks == nil {
		c.hooks = NopHooks{}
	}
	if c.clock == nil {
		c.clock = systemClock{}
	}
	return c, nil
}

func (c *client) Close(ctx context.Context) error { return c.store.Close(ctx) }

// Get returns the value stored at key with the shape it was written with.
// ok is false when the key does not exist. Text that fails to decode as a
// document is reported as an error; the stored text is left untouched.
func (c *client) Get(ctx context.Context, key string) (Value, bool, error) {
	s, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return codec.Absent, false, err
	}
	v, err := c.codec.Decode(s)
	if err != nil {
		c.hooks.DecodeFailed(key, err)
		c.log.Warn("stored value could not be decoded", Fields{"key": key, "err": err})
		return codec.Absent, true, err
	}
	return v, true, nil
}

// Set stores value with a TTL of secondsToExpire; values <= 0 store the key
// without expiry.
func (c *client) Set(ctx context.Context, key string, value any, secondsToExpire int) error {
	s, err := c.codec.Encode(value)
	if err != nil {
		c.rejected("Set", key, err)
		return err
	}
	var ttl time.Duration
	if secondsToExpire > 0 {
		ttl = time.Duration(secondsToExpire) * time.Second
	}
	return c.store.Set(ctx, key, s, ttl)
}

func (c *client) SetPermanent(ctx context.Context, key string, value any) error {
	return c.Set(ctx, key, value, 0)
}

func (c *client) Del(ctx context.Context, key string) (bool, error) {
	n, err := c.store.Del(ctx, key)
	return n > 0, err
}

func (c *client) Exists(ctx context.Context, key string) (bool, error) {
	return c.store.Exists(ctx, key)
}

func (c *client) Type(ctx context.Context, key string) (string, error) {
	return c.store.Type(ctx, key)
}

// Incr and Decr step by one with integer semantics; IncrBy and DecrBy use
// float semantics. Stored text must parse as a number (see codec scalar
// storage); otherwise the store's error is returned.
func (c *client) Incr(ctx context.Context, key string) (float64, error) {
	n, err := c.store.IncrBy(ctx, key, 1)
	return float64(n), err
}

func (c *client) Decr(ctx context.Context, key string) (float64, error) {
	n, err := c.store.IncrBy(ctx, key, -1)
	return float64(n), err
}

func (c *client) IncrBy(ctx context.Context, key string, amount float64) (float64, error) {
	return c.store.IncrByFloat(ctx, key, amount)
}

func (c *client) DecrBy(ctx context.Context, key string, amount float64) (float64, error) {
	return c.store.IncrByFloat(ctx, key, -amount)
}

func (c *client) rejected(op, key string, err error) {
	c.hooks.ShapeRejected(op, key, err)
	c.log.Debug("value rejected", Fields{"op": op, "key": key, "err": err})
}
