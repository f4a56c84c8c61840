// Package codec turns cache items into record payloads and back.
//
// A codec must round-trip the item type exactly: Decode(Encode(v)) has to
// produce an item that the cache treats as the same value. Msgpack is the
// default used by silkcache when Options.Codec is nil.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
