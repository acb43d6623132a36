package varcache

import (
	"context"
	"fmt"
)

// deleteScript removes KEYS in one server-side call and returns the count.
const deleteScript = `return redis.call('DEL', unpack(KEYS))`

// RemoveKeysWithPrefix deletes every key starting with prefix. Keys are
// enumerated incrementally and deleted in batches of at most EvictBatchSize,
// one script per batch. The context is checked before each batch.
//
// The operation is not atomic: keys written during the walk may survive, and
// on failure the batches already deleted stay deleted. The returned error is
// a *PrefixEvictionError carrying the count deleted so far.
func (c *client) RemoveKeysWithPrefix(ctx context.Context, prefix string) (int64, error) {
	if prefix == "" {
		return 0, &InvalidArgumentError{Op: "RemoveKeysWithPrefix", Arg: "prefix", Reason: "empty prefix would match every key"}
	}

	var (
		deleted int64
		batches int
		batch   = make([]string, 0, c.batchSize)
	)
	fail := func(stage string, err error) (int64, error) {
		perr := &PrefixEvictionError{Prefix: prefix, Stage: stage, Batches: batches, Deleted: deleted, Err: err}
		c.hooks.EvictFailed(prefix, deleted, perr)
		c.log.Error("prefix eviction failed", Fields{
			"prefix": prefix, "stage": stage, "batches": batches, "deleted": deleted, "err": err,
		})
		return deleted, perr
	}
	flush := func() (string, error) {
		if err := ctx.Err(); err != nil {
			return StageCanceled, err
		}
		n, err := c.deleteBatch(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return StageCanceled, err
			}
			return StageDelete, err
		}
		batches++
		deleted += n
		c.hooks.EvictBatch(prefix, batches, n)
		c.log.Debug("prefix eviction batch", Fields{"prefix": prefix, "batch": batches, "keys": len(batch), "deleted": n})
		batch = batch[:0]
		return "", nil
	}

	it := c.store.KeysWithPrefix(ctx, prefix, c.scanCount)
	for it.Next(ctx) {
		batch = append(batch, it.Key())
		if len(batch) < c.batchSize {
			continue
		}
		if stage, err := flush(); err != nil {
			return fail(stage, err)
		}
	}
	if err := it.Err(); err != nil {
		if ctx.Err() != nil {
			return fail(StageCanceled, err)
		}
		return fail(StageScan, err)
	}
	if len(batch) > 0 {
		if stage, err := flush(); err != nil {
			return fail(stage, err)
		}
	}

	c.log.Info("prefix eviction done", Fields{"prefix": prefix, "batches": batches, "deleted": deleted})
	return deleted, nil
}

func (c *client) deleteBatch(ctx context.Context, keys []string) (int64, error) {
	res, err := c.store.Eval(ctx, deleteScript, keys)
	if err != nil {
		return 0, err
	}
	n, ok := res.(int64)
	if !ok {
		return 0, fmt.Errorf("varcache: delete script returned %T", res)
	}
	return n, nil
}
