package redis

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/varcache/internal/util"
	"github.com/unkn0wn-root/varcache/store"
)

var ErrNilClient = errors.New("redis store: nil client")

// Redis implements store.Store on a go-redis UniversalClient.
//
// KeysWithPrefix uses SCAN on the connected node. Against a cluster client
// only the node serving the SCAN is enumerated, and Eval requires every key
// of a batch to hash to one slot; use a hash tag in the prefix ("{tenant}:")
// when evicting on a cluster.
type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool

	scripts sync.Map // source -> *goredis.Script
}

var _ store.Store = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	s, err := r.rdb.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil // miss
	}
	if err != nil {
		return "", false, err // transport/server error
	}
	return s, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0 // no expiry; go-redis reads -1 as KEEPTTL
	}
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return r.rdb.Del(ctx, keys...).Result()
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Exists(ctx, key).Result()
	return n > 0, err
}

func (r *Redis) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.rdb.PExpire(ctx, key, ttl).Result()
}

func (r *Redis) ExpireAt(ctx context.Context, key string, at time.Time) (bool, error) {
	return r.rdb.PExpireAt(ctx, key, at).Result()
}

func (r *Redis) Persist(ctx context.Context, key string) (bool, error) {
	return r.rdb.Persist(ctx, key).Result()
}

// TTL maps PTTL's -2 (missing) and -1 (no expiry) replies.
func (r *Redis) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	d, err := r.rdb.PTTL(ctx, key).Result()
	if err != nil {
		return 0, false, err
	}
	switch d {
	case -2:
		return 0, false, nil
	case -1:
		return store.NoExpiry, true, nil
	}
	return d, true, nil
}

func (r *Redis) Type(ctx context.Context, key string) (string, error) {
	return r.rdb.Type(ctx, key).Result()
}

func (r *Redis) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	return r.rdb.IncrBy(ctx, key, n).Result()
}

func (r *Redis) IncrByFloat(ctx context.Context, key string, f float64) (float64, error) {
	return r.rdb.IncrByFloat(ctx, key, f).Result()
}

func (r *Redis) HGet(ctx context.Context, key, field string) (string, bool, error) {
	s, err := r.rdb.HGet(ctx, key, field).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (r *Redis) HSet(ctx context.Context, key, field, value string) (bool, error) {
	n, err := r.rdb.HSet(ctx, key, field, value).Result()
	return n > 0, err
}

// HSetMulti issues one HSET with every field; fields are sent in sorted
// order so the command is deterministic.
func (r *Redis) HSetMulti(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	sort.Strings(names)
	args := make([]any, 0, 2*len(names))
	for _, f := range names {
		args = append(args, f, fields[f])
	}
	return r.rdb.HSet(ctx, key, args...).Err()
}

func (r *Redis) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	return r.rdb.HDel(ctx, key, fields...).Result()
}

func (r *Redis) HExists(ctx context.Context, key, field string) (bool, error) {
	return r.rdb.HExists(ctx, key, field).Result()
}

func (r *Redis) HLen(ctx context.Context, key string) (int64, error) {
	return r.rdb.HLen(ctx, key).Result()
}

func (r *Redis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return r.rdb.HGetAll(ctx, key).Result()
}

func (r *Redis) KeysWithPrefix(ctx context.Context, prefix string, count int64) store.KeyIterator {
	return &scanIterator{
		it:     r.rdb.Scan(ctx, 0, util.MatchPrefix(prefix), count).Iterator(),
		prefix: prefix,
	}
}

// Eval runs script through EVALSHA, loading it with EVAL on the first
// NOSCRIPT reply.
func (r *Redis) Eval(ctx context.Context, script string, keys []string, args ...any) (any, error) {
	v, _ := r.scripts.LoadOrStore(script, goredis.NewScript(script))
	res, err := v.(*goredis.Script).Run(ctx, r.rdb, keys, args...).Result()
	if err == goredis.Nil {
		return nil, nil // script returned nil
	}
	return res, err
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (r *Redis) Close(context.Context) error {
	if r.closeClient {
		if err := r.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

type scanIterator struct {
	it     *goredis.ScanIterator
	prefix string
	key    string
}

func (s *scanIterator) Next(ctx context.Context) bool {
	for s.it.Next(ctx) {
		// servers that mishandle glob escapes could over-match
		if k := s.it.Val(); strings.HasPrefix(k, s.prefix) {
			s.key = k
			return true
		}
	}
	return false
}

func (s *scanIterator) Key() string { return s.key }
func (s *scanIterator) Err() error  { return s.it.Err() }
