package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes values with vmihailenco/msgpack/v5. The zero value is
// ready to use. Compact and fast, but struct tags differ from JSON; use
// `msgpack:"name"` tags when field naming matters.
type Msgpack[V any] struct{}

func (Msgpack[V]) Encode(v V) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	err := msgpack.Unmarshal(b, &v)
	return v, err
}
