package varcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; wrap slow sinks with
// hooks/async.
type Hooks interface {
	// A stored value could not be decoded (malformed or ragged document).
	DecodeFailed(key string, err error)

	// A caller value was rejected before reaching the store.
	// op ∈ {"Set", "Hset", "HsetDict"}
	ShapeRejected(op, key string, err error)

	// One eviction batch was deleted. batch counts from 1.
	EvictBatch(prefix string, batch int, deleted int64)

	// RemoveKeysWithPrefix failed after deleting `deleted` keys.
	EvictFailed(prefix string, deleted int64, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) DecodeFailed(string, error)          {}
func (NopHooks) ShapeRejected(string, string, error) {}
func (NopHooks) EvictBatch(string, int, int64)       {}
func (NopHooks) EvictFailed(string, int64, error)    {}
