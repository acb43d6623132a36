package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrTooLarge is wrapped by LimitCodec when a payload exceeds MaxDecode.
	ErrTooLarge = errors.New("payload too large")
	errTrailing = errors.New("trailing data after document")
)

// LimitCodec wraps another codec to enforce a maximum allowed payload size
// at Decode time. Encode is forwarded to Inner unchanged.
// If MaxDecode <= 0, size limiting is disabled.
//
// Stored documents come from a shared store other writers can reach, so the
// value codec wraps every document format with it when a limit is configured.
type LimitCodec[V any] struct {
	Inner     Codec[V]
	MaxDecode int // bytes
}

func (c LimitCodec[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }

func (c LimitCodec[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("%w: %d > %d", ErrTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
