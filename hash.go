package varcache

import (
	"context"
	"fmt"
	"reflect"

	"github.com/unkn0wn-root/varcache/codec"
)

// Field is one name/value pair for HsetDict. A []Field keeps caller order.
type Field struct {
	Name  string
	Value any
}

// Ranger is any ordered or unordered dictionary that can enumerate itself,
// e.g. an ordered map type. Range stops when fn returns false.
type Ranger interface {
	Range(fn func(key string, value any) bool)
}

// Hash values are always scalar text; vectors and matrices are rejected
// with UnsupportedShapeError.

func (c *client) Hget(ctx context.Context, key, field string) (string, bool, error) {
	return c.store.HGet(ctx, key, field)
}

// Hset reports whether field was newly created.
func (c *client) Hset(ctx context.Context, key, field string, value any) (bool, error) {
	s, err := codec.FormatScalar(value)
	if err != nil {
		c.rejected("Hset", key, err)
		return false, err
	}
	return c.store.HSet(ctx, key, field, s)
}

// Hdel reports whether field existed.
func (c *client) Hdel(ctx context.Context, key, field string) (bool, error) {
	n, err := c.store.HDel(ctx, key, field)
	return n > 0, err
}

func (c *client) Hexists(ctx context.Context, key, field string) (bool, error) {
	return c.store.HExists(ctx, key, field)
}

func (c *client) Hlen(ctx context.Context, key string) (int64, error) {
	return c.store.HLen(ctx, key)
}

// Hgetall returns every field of key; an empty map when key is missing.
func (c *client) Hgetall(ctx context.Context, key string) (map[string]string, error) {
	return c.store.HGetAll(ctx, key)
}

// HsetDict writes every entry of data into the hash at key in one store
// call. data may be a map with scalar keys and values, a []Field or a
// Ranger. An empty dictionary writes nothing. Any non-scalar value fails
// the whole call before anything is written.
func (c *client) HsetDict(ctx context.Context, key string, data any) error {
	fields, err := flattenDict(data)
	if err != nil {
		c.rejected("HsetDict", key, err)
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	return c.store.HSetMulti(ctx, key, fields)
}

func flattenDict(data any) (map[string]string, error) {
	switch d := data.(type) {
	case nil:
		return nil, &InvalidArgumentError{Op: "HsetDict", Arg: "data", Reason: "nil dictionary"}
	case map[string]string:
		if d == nil {
			return nil, &InvalidArgumentError{Op: "HsetDict", Arg: "data", Reason: "nil dictionary"}
		}
		out := make(map[string]string, len(d))
		for k, v := range d {
			out[k] = v
		}
		return out, nil
	case []Field:
		out := make(map[string]string, len(d))
		for _, f := range d {
			s, err := fieldValue(f.Name, f.Value)
			if err != nil {
				return nil, err
			}
			out[f.Name] = s
		}
		return out, nil
	case Ranger:
		out := make(map[string]string)
		var ferr error
		d.Range(func(k string, v any) bool {
			s, err := fieldValue(k, v)
			if err != nil {
				ferr = err
				return false
			}
			out[k] = s
			return true
		})
		if ferr != nil {
			return nil, ferr
		}
		return out, nil
	}

	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map {
		return nil, &InvalidArgumentError{Op: "HsetDict", Arg: "data", Reason: fmt.Sprintf("%T is not a dictionary", data)}
	}
	if rv.IsNil() {
		return nil, &InvalidArgumentError{Op: "HsetDict", Arg: "data", Reason: "nil dictionary"}
	}
	out := make(map[string]string, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		k, err := codec.FormatScalar(it.Key().Interface())
		if err != nil {
			return nil, err
		}
		s, err := fieldValue(k, it.Value().Interface())
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

func fieldValue(name string, v any) (string, error) {
	s, err := codec.FormatScalar(v)
	if err != nil {
		return "", fmt.Errorf("field %q: %w", name, err)
	}
	return s, nil
}
