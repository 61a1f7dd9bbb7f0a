// Package codec serializes stored values to and from bytes. The shortener
// persists its link records through a Codec[Link]; any implementation works
// as long as Decode(Encode(v)) reproduces v.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
