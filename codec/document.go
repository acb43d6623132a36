package codec

import (
	"errors"
	"fmt"
)

const (
	// DocumentKind is the discriminator carried by every structured document.
	DocumentKind = "array"

	Shape1D = "1d"
	Shape2D = "2d"
)

// Document is the structured form of a Vector or Matrix. It is what the
// document formats (JSON, msgpack, CBOR, protobuf) serialize.
type Document struct {
	Kind  string     `json:"kind" msgpack:"kind" cbor:"kind"`
	Shape string     `json:"shape" msgpack:"shape" cbor:"shape"`
	Items []string   `json:"items,omitempty" msgpack:"items,omitempty" cbor:"items,omitempty"`
	Rows  [][]string `json:"rows,omitempty" msgpack:"rows,omitempty" cbor:"rows,omitempty"`
}

var (
	errDiscriminator = errors.New("missing array discriminator")
	errShapeFields   = errors.New("shape tag does not match payload fields")
)

// NewDocument builds the document for a vector or matrix.
func NewDocument(v Value) (Document, error) {
	switch v.kind {
	case KindVector:
		return Document{Kind: DocumentKind, Shape: Shape1D, Items: v.items}, nil
	case KindMatrix:
		return Document{Kind: DocumentKind, Shape: Shape2D, Rows: v.rows}, nil
	default:
		return Document{}, fmt.Errorf("varcache: %s values have no document form", v.kind)
	}
}

// Value recovers the Value a document describes. Dimensionality comes from
// the shape tag only.
func (d Document) Value() (Value, error) {
	if d.Kind != DocumentKind {
		return Value{}, errDiscriminator
	}
	switch d.Shape {
	case Shape1D:
		if d.Rows != nil {
			return Value{}, errShapeFields
		}
		items := d.Items
		if items == nil {
			items = []string{}
		}
		return Value{kind: KindVector, items: items}, nil
	case Shape2D:
		if d.Items != nil {
			return Value{}, errShapeFields
		}
		if row, want, got, ok := rectangular(d.Rows); !ok {
			return Value{}, &RaggedShapeError{Row: row, Want: want, Got: got}
		}
		rows := d.Rows
		if rows == nil {
			rows = [][]string{}
		}
		return Value{kind: KindMatrix, rows: rows}, nil
	default:
		return Value{}, fmt.Errorf("unknown shape tag %q", d.Shape)
	}
}
