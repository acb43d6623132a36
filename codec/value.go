package codec

import "fmt"

// Kind is the shape of a Value.
type Kind uint8

const (
	KindScalar Kind = iota
	KindVector
	KindMatrix
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindMatrix:
		return "matrix"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is the canonical form exchanged with the codec: a scalar text, a
// one-dimensional vector or a rectangular two-dimensional matrix.
//
// The zero Value is the empty scalar. It doubles as the "absent" value:
// a nil caller value encodes to "" and "" decodes to the zero Value.
type Value struct {
	kind  Kind
	text  string
	items []string
	rows  [][]string
}

// Absent is the value of a missing or empty entry.
var Absent = Value{}

func Scalar(text string) Value { return Value{kind: KindScalar, text: text} }

// Vector copies items into a one-dimensional Value.
func Vector(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{kind: KindVector, items: cp}
}

// Matrix copies rows into a two-dimensional Value. Rows must all have the
// same length.
func Matrix(rows [][]string) (Value, error) {
	if row, want, got, ok := rectangular(rows); !ok {
		return Value{}, &UnsupportedShapeError{
			Type:   "[][]string",
			Reason: fmt.Sprintf("ragged matrix: row %d has %d columns, want %d", row, got, want),
		}
	}
	return Value{kind: KindMatrix, rows: cloneRows(rows)}, nil
}

// MustMatrix is like Matrix but panics on ragged input. Handy for tests and
// literals.
func MustMatrix(rows [][]string) Value {
	v, err := Matrix(rows)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the empty scalar.
func (v Value) IsAbsent() bool { return v.kind == KindScalar && v.text == "" }

// Text returns the scalar text; empty for vectors and matrices.
func (v Value) Text() string { return v.text }

// Items returns a copy of the vector elements; nil unless v is a vector.
func (v Value) Items() []string {
	if v.kind != KindVector {
		return nil
	}
	cp := make([]string, len(v.items))
	copy(cp, v.items)
	return cp
}

// Rows returns a copy of the matrix rows; nil unless v is a matrix.
func (v Value) Rows() [][]string {
	if v.kind != KindMatrix {
		return nil
	}
	return cloneRows(v.rows)
}

// Dims returns (rows, cols). Scalars are 0x0, vectors are 1xN.
func (v Value) Dims() (int, int) {
	switch v.kind {
	case KindVector:
		return 1, len(v.items)
	case KindMatrix:
		if len(v.rows) == 0 {
			return 0, 0
		}
		return len(v.rows), len(v.rows[0])
	default:
		return 0, 0
	}
}

// Equal reports whether v and o have the same shape and contents.
// Nil and empty sequences are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindVector:
		return equalStrings(v.items, o.items)
	case KindMatrix:
		if len(v.rows) != len(o.rows) {
			return false
		}
		for i := range v.rows {
			if !equalStrings(v.rows[i], o.rows[i]) {
				return false
			}
		}
		return true
	default:
		return v.text == o.text
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindVector:
		return fmt.Sprintf("vector%q", v.items)
	case KindMatrix:
		return fmt.Sprintf("matrix%q", v.rows)
	default:
		return v.text
	}
}

func rectangular(rows [][]string) (row, want, got int, ok bool) {
	if len(rows) == 0 {
		return 0, 0, 0, true
	}
	want = len(rows[0])
	for i, r := range rows[1:] {
		if len(r) != want {
			return i + 1, want, len(r), false
		}
	}
	return 0, want, 0, true
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = make([]string, len(r))
		copy(out[i], r)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
