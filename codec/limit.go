package codec

import "fmt"

// Limit wraps another codec with a maximum permitted payload size at Decode
// time; Encode forwards unchanged. MaxDecode <= 0 disables the check.
// Useful when values come out of a store shared with other writers.
type Limit[V any] struct {
	// Inner is the wrapped codec. Must be set.
	Inner Codec[V]

	// MaxDecode is the largest payload (in bytes) Decode accepts before
	// failing without invoking Inner.
	MaxDecode int
}

func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("payload too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
