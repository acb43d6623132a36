package varcache

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

type orderedDict struct {
	keys []string
	vals []any
}

func (d orderedDict) Range(fn func(string, any) bool) {
	for i, k := range d.keys {
		if !fn(k, d.vals[i]) {
			return
		}
	}
}

type countingStore struct {
	*memStore
	multi int
}

func (s *countingStore) HSetMulti(ctx context.Context, key string, fields map[string]string) error {
	s.multi++
	return s.memStore.HSetMulti(ctx, key, fields)
}

func TestHashPrimitives(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t, newMemStore(), nil)

	created, err := c.Hset(ctx, "h", "n", 1.5)
	if err != nil || !created {
		t.Fatalf("Hset new = %v, %v", created, err)
	}
	if created, _ = c.Hset(ctx, "h", "n", 2); created {
		t.Fatalf("Hset overwrite reported created")
	}
	if v, ok, _ := c.Hget(ctx, "h", "n"); !ok || v != "2" {
		t.Fatalf("Hget = %q %v", v, ok)
	}
	if _, ok, _ := c.Hget(ctx, "h", "missing"); ok {
		t.Fatalf("Hget missing field ok")
	}
	if ok, _ := c.Hexists(ctx, "h", "n"); !ok {
		t.Fatalf("Hexists = false")
	}
	if n, _ := c.Hlen(ctx, "h"); n != 1 {
		t.Fatalf("Hlen = %d", n)
	}
	if ok, _ := c.Hdel(ctx, "h", "n"); !ok {
		t.Fatalf("Hdel existing = false")
	}
	if ok, _ := c.Hdel(ctx, "h", "n"); ok {
		t.Fatalf("Hdel missing = true")
	}
	if all, _ := c.Hgetall(ctx, "nope"); len(all) != 0 {
		t.Fatalf("Hgetall missing = %v", all)
	}
}

func TestHsetRejectsArrays(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	c, h := newTestClient(t, st, nil)

	_, err := c.Hset(ctx, "h", "f", []string{"a"})
	var se *UnsupportedShapeError
	if !errors.As(err, &se) {
		t.Fatalf("want UnsupportedShapeError, got %v", err)
	}
	if n, _ := st.HLen(ctx, "h"); n != 0 {
		t.Fatalf("rejected field written")
	}
	if len(h.rejected) != 1 || h.rejected[0] != "Hset:h" {
		t.Fatalf("ShapeRejected hooks = %v", h.rejected)
	}
}

func TestHsetDictInputs(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	cases := []struct {
		name string
		in   any
		want map[string]string
	}{
		{"string_map", map[string]string{"a": "1", "b": "2"}, map[string]string{"a": "1", "b": "2"}},
		{"any_map", map[string]any{"n": 3, "f": 0.5, "b": true, "t": ts, "nil": nil},
			map[string]string{"n": "3", "f": "0.5", "b": "true", "t": "2024-01-02T03:04:05Z", "nil": ""}},
		{"int_keys", map[int]string{1: "one", 2: "two"}, map[string]string{"1": "one", "2": "two"}},
		{"map_pointer", &map[string]int{"x": 9}, map[string]string{"x": "9"}},
		{"fields", []Field{{"z", 1}, {"a", "v"}}, map[string]string{"z": "1", "a": "v"}},
		{"ranger", orderedDict{keys: []string{"k1", "k2"}, vals: []any{"v1", 2}}, map[string]string{"k1": "v1", "k2": "2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			st := &countingStore{memStore: newMemStore()}
			c, err := New(Options{Store: st})
			if err != nil {
				t.Fatal(err)
			}
			if err := c.HsetDict(ctx, "d", tc.in); err != nil {
				t.Fatalf("HsetDict: %v", err)
			}
			got, _ := c.Hgetall(ctx, "d")
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Hgetall = %v want %v", got, tc.want)
			}
			if st.multi != 1 {
				t.Fatalf("HsetDict used %d store calls, want 1", st.multi)
			}
		})
	}
}

func TestHsetDictEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	st := &countingStore{memStore: newMemStore()}
	c, _ := New(Options{Store: st})

	for _, in := range []any{map[string]string{}, []Field{}, orderedDict{}} {
		if err := c.HsetDict(ctx, "d", in); err != nil {
			t.Fatalf("HsetDict(%#v): %v", in, err)
		}
	}
	if st.multi != 0 {
		t.Fatalf("empty dictionaries reached the store")
	}
	if typ, _ := c.Type(ctx, "d"); typ != "none" {
		t.Fatalf("empty HsetDict created key of type %s", typ)
	}
}

func TestHsetDictRejects(t *testing.T) {
	ctx := context.Background()
	var nilMap map[string]string
	cases := []struct {
		name    string
		in      any
		invalid bool
	}{
		{"nil", nil, true},
		{"typed_nil_map", nilMap, true},
		{"nil_map_of_ints", map[string]int(nil), true},
		{"not_a_map", "text", true},
		{"slice", []string{"a"}, true},
		{"array_value", map[string]any{"ok": 1, "bad": []int{1, 2}}, false},
		{"matrix_value", []Field{{"m", [][]string{{"a"}}}}, false},
		{"ranger_array", orderedDict{keys: []string{"a", "b"}, vals: []any{1, []string{"x"}}}, false},
		{"non_scalar_key", map[[2]int]string{{1, 2}: "v"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := &countingStore{memStore: newMemStore()}
			c, _ := New(Options{Store: st})
			err := c.HsetDict(ctx, "d", tc.in)
			var ia *InvalidArgumentError
			var se *UnsupportedShapeError
			switch {
			case tc.invalid && !errors.As(err, &ia):
				t.Fatalf("want InvalidArgumentError, got %v", err)
			case !tc.invalid && !errors.As(err, &se):
				t.Fatalf("want UnsupportedShapeError, got %v", err)
			}
			if st.multi != 0 {
				t.Fatalf("partial dictionary written")
			}
		})
	}
}
