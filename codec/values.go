package codec

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/varcache/internal/wire"
)

// Format names the serialization used for Vector and Matrix documents.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMsgpack  Format = "msgpack"
	FormatCBOR     Format = "cbor"
	FormatProtobuf Format = "protobuf"
)

// Options configure a ValueCodec. The zero value writes JSON documents
// without a size limit.
type Options struct {
	Format          Format // document format used by Encode; "" => json
	MaxDocumentSize int    // bytes; documents larger than this fail to decode. 0 disables
}

type format struct {
	name  Format
	kind  byte
	codec Codec[Document]
}

// ValueCodec converts caller values to stored text and back.
//
// Scalars are stored as their raw text. Vectors and matrices are stored as
// a framed document: a reserved lead byte, a version and a kind byte naming
// the document format. A scalar that happens to start with the lead byte is
// framed as an escaped scalar, so scalar text can never be read back as an
// array. Decoding accepts every document format regardless of the one
// configured for encoding.
//
// A ValueCodec is immutable and safe for concurrent use.
type ValueCodec struct {
	enc    format
	byKind map[byte]format
}

// New builds a ValueCodec.
func New(opts Options) (*ValueCodec, error) {
	cb, err := NewCBOR[Document](true)
	if err != nil {
		return nil, err
	}
	all := []format{
		{FormatJSON, wire.KindJSON, JSON[Document]{}},
		{FormatMsgpack, wire.KindMsgpack, Msgpack[Document]{}},
		{FormatCBOR, wire.KindCBOR, cb},
		{FormatProtobuf, wire.KindProtobuf, NewProtoDocument()},
	}

	want := opts.Format
	if want == "" {
		want = FormatJSON
	}
	c := &ValueCodec{byKind: make(map[byte]format, len(all))}
	found := false
	for _, f := range all {
		if opts.MaxDocumentSize > 0 {
			f.codec = LimitCodec[Document]{Inner: f.codec, MaxDecode: opts.MaxDocumentSize}
		}
		c.byKind[f.kind] = f
		if f.name == want {
			c.enc = f
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("varcache: unknown document format %q", opts.Format)
	}
	return c, nil
}

// Must is like New but panics on error.
func Must(opts Options) *ValueCodec {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}

// Format reports the document format used by Encode.
func (c *ValueCodec) Format() Format { return c.enc.name }

// Encode shapes v with FromAny and encodes the result.
func (c *ValueCodec) Encode(v any) (string, error) {
	val, err := FromAny(v)
	if err != nil {
		return "", err
	}
	return c.EncodeValue(val)
}

// EncodeValue returns the stored text for v.
func (c *ValueCodec) EncodeValue(v Value) (string, error) {
	if v.kind == KindScalar {
		return wire.Scalar(v.text), nil
	}
	doc, err := NewDocument(v)
	if err != nil {
		return "", err
	}
	b, err := c.enc.codec.Encode(doc)
	if err != nil {
		return "", fmt.Errorf("varcache: encode %s document: %w", c.enc.name, err)
	}
	return wire.Frame(c.enc.kind, b), nil
}

// Decode recovers the Value stored as s. Empty text is Absent; text without
// the lead byte is a scalar.
func (c *ValueCodec) Decode(s string) (Value, error) {
	if !wire.IsFramed(s) {
		return Scalar(s), nil
	}
	kind, payload, err := wire.Parse(s)
	if err != nil {
		return Value{}, &MalformedDocumentError{Format: "frame", Err: err}
	}
	if kind == wire.KindScalar {
		return Scalar(string(payload)), nil
	}
	f, ok := c.byKind[kind]
	if !ok {
		return Value{}, &MalformedDocumentError{Format: "frame", Err: wire.ErrUnknownKind}
	}
	doc, err := f.codec.Decode(payload)
	if err != nil {
		return Value{}, &MalformedDocumentError{Format: string(f.name), Err: err}
	}
	v, err := doc.Value()
	if err != nil {
		var re *RaggedShapeError
		if errors.As(err, &re) {
			return Value{}, re
		}
		return Value{}, &MalformedDocumentError{Format: string(f.name), Err: err}
	}
	return v, nil
}
