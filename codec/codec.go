package codec

// Codec encodes/decodes values V to []byte. The document formats used for
// Vector and Matrix payloads are Codec[Document] implementations.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
