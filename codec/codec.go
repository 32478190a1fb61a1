// Package codec serializes caller values to the raw bytes a grid region or
// local store holds.
package codec

// Codec encodes/decodes values of type V to and from []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
