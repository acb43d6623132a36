package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// FromAny shapes an untyped caller value into a Value.
//
//   - nil and nil pointers become Absent.
//   - Values pass through unchanged.
//   - Slices and arrays of scalars become vectors; slices and arrays of
//     equally long scalar sequences become matrices. An empty sequence whose
//     element type is itself a sequence is an empty matrix, otherwise an
//     empty vector. []byte is text, not a sequence.
//   - A typed sequence nested three deep is rejected even when empty.
//   - Anything else must format as a scalar (see FormatScalar).
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Absent, nil
	case Value:
		return x, nil
	case *Value:
		if x == nil {
			return Absent, nil
		}
		return *x, nil
	case string:
		return Scalar(x), nil
	case []string:
		return Vector(x...), nil
	case [][]string:
		return Matrix(x)
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return Absent, nil
	}
	if isList(rv) {
		return fromList(rv)
	}
	s, err := scalarText(rv)
	if err != nil {
		return Value{}, err
	}
	return Scalar(s), nil
}

// FormatScalar returns the stable textual form of a scalar caller value.
// Numbers use strconv formatting (shortest round-trip for floats), bools are
// "true"/"false", time.Time is RFC 3339 with nanoseconds, nil is "".
// fmt.Stringer is honoured for named scalar kinds only; structs and maps are
// rejected with *UnsupportedShapeError even when they have a String method,
// as are sequences.
func FormatScalar(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return "", nil
	}
	if isList(rv) {
		return "", unsupported(rv.Type(), "array value where a scalar is required")
	}
	return scalarText(rv)
}

var timeType = reflect.TypeOf(time.Time{})

func fromList(rv reflect.Value) (Value, error) {
	if deeperThan2D(rv.Type()) {
		return Value{}, unsupported(rv.Type(), "more than two dimensions")
	}
	n := rv.Len()
	if n == 0 {
		if isListType(rv.Type().Elem()) {
			return Value{kind: KindMatrix, rows: [][]string{}}, nil
		}
		return Value{kind: KindVector, items: []string{}}, nil
	}

	elems := make([]reflect.Value, n)
	nested := 0
	for i := 0; i < n; i++ {
		e := indirect(rv.Index(i))
		elems[i] = e
		if e.IsValid() && isList(e) {
			nested++
		}
	}

	switch nested {
	case 0:
		items := make([]string, n)
		for i, e := range elems {
			s, err := scalarText(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = s
		}
		return Value{kind: KindVector, items: items}, nil
	case n:
		rows := make([][]string, n)
		for i, e := range elems {
			row := make([]string, e.Len())
			for j := range row {
				c := indirect(e.Index(j))
				if c.IsValid() && isList(c) {
					return Value{}, unsupported(rv.Type(), "more than two dimensions")
				}
				s, err := scalarText(c)
				if err != nil {
					return Value{}, err
				}
				row[j] = s
			}
			rows[i] = row
		}
		if row, want, got, ok := rectangular(rows); !ok {
			return Value{}, unsupported(rv.Type(),
				fmt.Sprintf("ragged matrix: row %d has %d columns, want %d", row, got, want))
		}
		return Value{kind: KindMatrix, rows: rows}, nil
	default:
		return Value{}, unsupported(rv.Type(), "mixes scalars and arrays")
	}
}

func scalarText(rv reflect.Value) (string, error) {
	if !rv.IsValid() {
		return "", nil
	}
	if rv.Type() == timeType {
		return rv.Interface().(time.Time).Format(time.RFC3339Nano), nil
	}
	if rv.CanInterface() {
		switch x := rv.Interface().(type) {
		case Value:
			if x.kind != KindScalar {
				return "", unsupported(rv.Type(), "array value where a scalar is required")
			}
			return x.text, nil
		case fmt.Stringer:
			if k := rv.Kind(); k != reflect.Struct && k != reflect.Map {
				return x.String(), nil
			}
		}
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), nil
	case reflect.Complex64, reflect.Complex128:
		return strconv.FormatComplex(rv.Complex(), 'g', -1, 128), nil
	case reflect.Slice:
		if isBytesType(rv.Type()) {
			return string(rv.Bytes()), nil
		}
	}
	return "", unsupported(rv.Type(), "not a scalar")
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// deeperThan2D reports whether the static type alone nests three list
// levels. Interface elements are checked per value instead.
func deeperThan2D(t reflect.Type) bool {
	row := listElem(t)
	if row == nil || !isListType(row) {
		return false
	}
	cell := listElem(row)
	return cell != nil && isListType(cell)
}

func listElem(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return nil
	}
	return t.Elem()
}

func isList(rv reflect.Value) bool { return isListType(rv.Type()) }

func isListType(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Slice:
		return !isBytesType(t)
	case reflect.Array:
		return true
	default:
		return false
	}
}

func isBytesType(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

func unsupported(t reflect.Type, reason string) *UnsupportedShapeError {
	return &UnsupportedShapeError{Type: t.String(), Reason: reason}
}
