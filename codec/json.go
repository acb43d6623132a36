package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSON is a Codec backed by encoding/json. Decode rejects unknown fields and
// trailing data so foreign payloads are not half-understood.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }

func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return v, errTrailing
	}
	return v, nil
}

var errNullCell = errors.New("null element")

// jsonDocument mirrors Document with pointer cells so JSON null is
// distinguishable from "".
type jsonDocument struct {
	Kind  string      `json:"kind"`
	Shape string      `json:"shape"`
	Items []*string   `json:"items,omitempty"`
	Rows  [][]*string `json:"rows,omitempty"`
}

// UnmarshalJSON rejects null items, rows and cells.
func (d *Document) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var raw jsonDocument
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	items, err := derefCells("items", raw.Items)
	if err != nil {
		return err
	}
	var rows [][]string
	if raw.Rows != nil {
		rows = make([][]string, len(raw.Rows))
		for i, r := range raw.Rows {
			if r == nil {
				return fmt.Errorf("rows[%d]: %w", i, errNullCell)
			}
			if rows[i], err = derefCells(fmt.Sprintf("rows[%d]", i), r); err != nil {
				return err
			}
		}
	}
	*d = Document{Kind: raw.Kind, Shape: raw.Shape, Items: items, Rows: rows}
	return nil
}

func derefCells(name string, cells []*string) ([]string, error) {
	if cells == nil {
		return nil, nil
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		if c == nil {
			return nil, fmt.Errorf("%s[%d]: %w", name, i, errNullCell)
		}
		out[i] = *c
	}
	return out, nil
}
