// Package varcache bridges variant-typed callers (scalars, one- and
// two-dimensional arrays, key/value dictionaries) to a string-only key/value
// store such as Redis.
//
// Components:
//   - codec.ValueCodec: Value <-> stored text. Scalars are stored raw; vectors
//     and matrices as a framed document (JSON, msgpack, CBOR or protobuf)
//     whose shape tag restores the exact dimensionality on read.
//   - store.Store: the backend capability set (get/set/expiry/hash/scan/eval).
//   - Client: the caller-facing surface, TTL helpers, hash bridge and the bulk
//     prefix evictor.
//
// Lifecycle:
//
//	st, _ := redisstore.New(redisstore.Config{Client: rdb, CloseClient: true})
//	c, _  := varcache.New(varcache.Options{Store: st})
//	defer c.Close(ctx)
//	_ = c.Set(ctx, "grid", [][]string{{"a", "b"}, {"c", "d"}}, 60)
//	v, ok, _ := c.Get(ctx, "grid") // v.Kind() == codec.KindMatrix
//	n, _ := c.RemoveKeysWithPrefix(ctx, "session:")
package varcache
