package codec

import "google.golang.org/protobuf/proto"

// Protobuf is a Codec for callers that model their link record as a proto
// message. The constructor closure produces a fresh concrete message for
// each Decode (e.g., func() *linkpb.Link { return &linkpb.Link{} }).
type Protobuf[T proto.Message] struct {
	new func() T
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.Marshal(v)
}
func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
