package codec

import "encoding/json"

// JSONSerializer is the "native" serializer: always available, portable, and
// cheap to inspect from the command line.
type JSONSerializer struct{}

// NewJSONSerializer constructs the native JSON serializer.
func NewJSONSerializer() *JSONSerializer { return &JSONSerializer{} }

func (*JSONSerializer) Tag() Tag { return Native }

func (*JSONSerializer) Encode(n Node) ([]byte, error) {
	return json.Marshal(n)
}

func (*JSONSerializer) Decode(data []byte) (Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return Node{}, err
	}
	return n, nil
}
