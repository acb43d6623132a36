package wire

import (
	"errors"
	"strings"
)

// Lead is the reserved first byte of every framed value. Stored text that
// does not start with Lead is always a raw scalar.
const Lead byte = 0x1E

const version byte = '1'

// Kinds carried in the third byte of a frame.
const (
	KindScalar   byte = 's' // escaped scalar whose text itself starts with Lead
	KindJSON     byte = 'j'
	KindMsgpack  byte = 'm'
	KindCBOR     byte = 'c'
	KindProtobuf byte = 'p'
)

const hdr = 3 // lead(1) | ver(1) | kind(1)

var (
	ErrCorrupt        = errors.New("varcache: corrupt frame")
	ErrVersion        = errors.New("varcache: unsupported frame version")
	ErrUnknownKind    = errors.New("varcache: unknown frame kind")
	ErrPayloadMissing = errors.New("varcache: frame has no payload")
)

// IsFramed reports whether s carries the reserved lead byte.
func IsFramed(s string) bool {
	return len(s) > 0 && s[0] == Lead
}

// Frame: lead(1) | ver(1) | kind(1) | payload
func Frame(kind byte, payload []byte) string {
	var b strings.Builder
	b.Grow(hdr + len(payload))
	b.WriteByte(Lead)
	b.WriteByte(version)
	b.WriteByte(kind)
	b.Write(payload)
	return b.String()
}

// Scalar returns the stored form of scalar text. Text is stored raw unless
// it would be mistaken for a frame.
func Scalar(s string) string {
	if !IsFramed(s) {
		return s
	}
	return Frame(KindScalar, []byte(s))
}

// Parse splits a framed value into its kind and payload.
func Parse(s string) (kind byte, payload []byte, err error) {
	if !IsFramed(s) || len(s) < hdr {
		return 0, nil, ErrCorrupt
	}
	if s[1] != version {
		return 0, nil, ErrVersion
	}
	kind = s[2]
	switch kind {
	case KindScalar:
		// an escaped scalar always starts with Lead itself
		if len(s) == hdr || s[hdr] != Lead {
			return 0, nil, ErrCorrupt
		}
	case KindJSON, KindMsgpack, KindCBOR, KindProtobuf:
		if len(s) == hdr {
			return 0, nil, ErrPayloadMissing
		}
	default:
		return 0, nil, ErrUnknownKind
	}
	return kind, []byte(s[hdr:]), nil
}
