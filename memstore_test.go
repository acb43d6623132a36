package varcache

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/unkn0wn-root/varcache/store"
)

type memEntry struct {
	v    string
	hash map[string]string
	exp  time.Time // zero => no TTL
}

// memStore is an in-memory store.Store for unit tests. It counts Eval calls
// and can be told to fail at a given batch or during the scan.
type memStore struct {
	mu  sync.Mutex
	m   map[string]*memEntry
	now func() time.Time

	evals     []int // key count of each Eval
	evalErrAt int   // 1-based Eval call that fails; 0 never
	scanErr   error // returned by the key iterator after all keys
	afterEval func(n int)
}

var _ store.Store = (*memStore)(nil)

var errInjected = errors.New("injected failure")

func newMemStore() *memStore {
	return &memStore{m: make(map[string]*memEntry), now: time.Now}
}

func (s *memStore) live(key string) *memEntry {
	e, ok := s.m[key]
	if !ok {
		return nil
	}
	if !e.exp.IsZero() && !s.now().Before(e.exp) {
		delete(s.m, key)
		return nil
	}
	return e
}

func (s *memStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(key)
	if e == nil {
		return "", false, nil
	}
	if e.hash != nil {
		return "", false, errors.New("WRONGTYPE")
	}
	return e.v, true, nil
}

func (s *memStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &memEntry{v: value}
	if ttl > 0 {
		e.exp = s.now().Add(ttl)
	}
	s.m[key] = e
	return nil
}

func (s *memStore) Del(_ context.Context, keys ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.del(keys), nil
}

func (s *memStore) del(keys []string) int64 {
	var n int64
	for _, k := range keys {
		if s.live(k) != nil {
			delete(s.m, k)
			n++
		}
	}
	return n
}

func (s *memStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(key) != nil, nil
}

func (s *memStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.ExpireAt(ctx, key, s.now().Add(ttl))
}

func (s *memStore) ExpireAt(_ context.Context, key string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(key)
	if e == nil {
		return false, nil
	}
	e.exp = at
	s.live(key) // a deadline in the past removes the key
	return true, nil
}

func (s *memStore) Persist(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(key)
	if e == nil || e.exp.IsZero() {
		return false, nil
	}
	e.exp = time.Time{}
	return true, nil
}

func (s *memStore) TTL(_ context.Context, key string) (time.Duration, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(key)
	if e == nil {
		return 0, false, nil
	}
	if e.exp.IsZero() {
		return store.NoExpiry, true, nil
	}
	return e.exp.Sub(s.now()), true, nil
}

func (s *memStore) Type(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e := s.live(key); {
	case e == nil:
		return "none", nil
	case e.hash != nil:
		return "hash", nil
	}
	return "string", nil
}

func (s *memStore) IncrBy(_ context.Context, key string, n int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cur int64
	e := s.live(key)
	if e != nil {
		v, err := strconv.ParseInt(e.v, 10, 64)
		if err != nil {
			return 0, errors.New("ERR value is not an integer or out of range")
		}
		cur = v
	} else {
		e = &memEntry{}
		s.m[key] = e
	}
	cur += n
	e.v = strconv.FormatInt(cur, 10)
	return cur, nil
}

func (s *memStore) IncrByFloat(_ context.Context, key string, f float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cur float64
	e := s.live(key)
	if e != nil {
		v, err := strconv.ParseFloat(e.v, 64)
		if err != nil {
			return 0, errors.New("ERR value is not a valid float")
		}
		cur = v
	} else {
		e = &memEntry{}
		s.m[key] = e
	}
	cur += f
	e.v = strconv.FormatFloat(cur, 'f', -1, 64)
	return cur, nil
}

func (s *memStore) hashFor(key string, create bool) map[string]string {
	e := s.live(key)
	if e == nil {
		if !create {
			return nil
		}
		e = &memEntry{hash: map[string]string{}}
		s.m[key] = e
	}
	return e.hash
}

func (s *memStore) HGet(_ context.Context, key, field string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.hashFor(key, false)[field]
	return v, ok, nil
}

func (s *memStore) HSet(_ context.Context, key, field, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.hashFor(key, true)
	_, had := h[field]
	h[field] = value
	return !had, nil
}

func (s *memStore) HSetMulti(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.hashFor(key, true)
	for f, v := range fields {
		h[f] = v
	}
	return nil
}

func (s *memStore) HDel(_ context.Context, key string, fields ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.hashFor(key, false)
	var n int64
	for _, f := range fields {
		if _, ok := h[f]; ok {
			delete(h, f)
			n++
		}
	}
	return n, nil
}

func (s *memStore) HExists(_ context.Context, key, field string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.hashFor(key, false)[field]
	return ok, nil
}

func (s *memStore) HLen(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.hashFor(key, false))), nil
}

func (s *memStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]string{}
	for f, v := range s.hashFor(key, false) {
		out[f] = v
	}
	return out, nil
}

func (s *memStore) KeysWithPrefix(_ context.Context, prefix string, _ int64) store.KeyIterator {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.m {
		if strings.HasPrefix(k, prefix) && s.live(k) != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return &sliceIterator{keys: keys, idx: -1, err: s.scanErr}
}

func (s *memStore) Eval(ctx context.Context, script string, keys []string, _ ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.evals = append(s.evals, len(keys))
	call := len(s.evals)
	if s.evalErrAt == call {
		s.mu.Unlock()
		return nil, errInjected
	}
	if script != deleteScript {
		s.mu.Unlock()
		return nil, errors.New("NOSCRIPT unsupported script")
	}
	n := s.del(keys)
	after := s.afterEval
	s.mu.Unlock()
	if after != nil {
		after(call)
	}
	return n, nil
}

func (s *memStore) Close(context.Context) error { return nil }

func (s *memStore) evalCalls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.evals...)
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

type sliceIterator struct {
	keys []string
	idx  int
	err  error // reported once the walk ends
	done bool
}

func (it *sliceIterator) Next(ctx context.Context) bool {
	if it.done {
		return false
	}
	if err := ctx.Err(); err != nil {
		it.done, it.err = true, err
		return false
	}
	if it.idx+1 >= len(it.keys) {
		it.done = true
		return false
	}
	it.idx++
	return true
}

func (it *sliceIterator) Key() string { return it.keys[it.idx] }

func (it *sliceIterator) Err() error {
	if !it.done {
		return nil
	}
	return it.err
}
