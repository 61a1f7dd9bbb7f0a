package codec

import "encoding/json"

// JSON is a Codec backed by encoding/json. The zero value is ready to use.
// It is the default choice: debuggable payloads at the cost of some size.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
