package codec

import "fmt"

// UnsupportedShapeError reports a caller value that has no Value form:
// ragged matrices, more than two dimensions, maps, structs and the like.
type UnsupportedShapeError struct {
	Type   string // Go type of the rejected value
	Reason string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("varcache: unsupported shape %s: %s", e.Type, e.Reason)
}

// MalformedDocumentError reports stored text that is framed as a structured
// document but cannot be read back.
type MalformedDocumentError struct {
	Format string // "json", "msgpack", ... or "frame" when the envelope itself is bad
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("varcache: malformed %s document: %v", e.Format, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// RaggedShapeError reports a decoded two-dimensional document whose rows
// differ in length.
type RaggedShapeError struct {
	Row  int
	Want int
	Got  int
}

func (e *RaggedShapeError) Error() string {
	return fmt.Sprintf("varcache: ragged matrix document: row %d has %d columns, want %d", e.Row, e.Got, e.Want)
}
