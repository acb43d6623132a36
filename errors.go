package varcache

import (
	"fmt"

	"github.com/unkn0wn-root/varcache/codec"
)

// Codec errors, re-exported so callers can match them without importing codec.
type (
	UnsupportedShapeError  = codec.UnsupportedShapeError
	MalformedDocumentError = codec.MalformedDocumentError
	RaggedShapeError       = codec.RaggedShapeError
)

// InvalidArgumentError reports caller input of the wrong kind, such as a
// non-map passed to HsetDict.
type InvalidArgumentError struct {
	Op     string
	Arg    string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("varcache: %s: invalid %s: %s", e.Op, e.Arg, e.Reason)
}

// Eviction stages reported by PrefixEvictionError.
const (
	StageScan     = "scan"
	StageDelete   = "delete"
	StageCanceled = "canceled"
)

// PrefixEvictionError reports a failed RemoveKeysWithPrefix. Batches that
// completed before the failure stay deleted.
type PrefixEvictionError struct {
	Prefix  string
	Stage   string // StageScan, StageDelete or StageCanceled
	Batches int    // batches deleted before the failure
	Deleted int64  // keys deleted before the failure
	Err     error
}

func (e *PrefixEvictionError) Error() string {
	if e.Batches == 0 {
		return fmt.Sprintf("varcache: remove prefix %q: %s failed: %v", e.Prefix, e.Stage, e.Err)
	}
	return fmt.Sprintf("varcache: remove prefix %q: %s failed after %d batches (%d keys deleted): %v",
		e.Prefix, e.Stage, e.Batches, e.Deleted, e.Err)
}

func (e *PrefixEvictionError) Unwrap() error { return e.Err }

// Partial reports whether some batches were deleted before the failure.
func (e *PrefixEvictionError) Partial() bool { return e.Batches > 0 }
