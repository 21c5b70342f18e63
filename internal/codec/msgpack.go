package codec

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgpackSerializer is the "compact-binary" serializer: MessagePack via
// vmihailenco/msgpack, selected for numeric-heavy or deeply nested values
// where the native JSON encoding is wasteful.
//
// Security: Node is a closed struct with no registered extension types, so
// decoding it can never instantiate an arbitrary host type. allowClasses
// instead governs decode strictness: when false, the decoder rejects any
// field not present in Node's schema (DisallowUnknownFields), matching the
// spec's intent that an untrusted writer population gets the stricter
// posture; when true, unknown fields are tolerated, matching deployments
// that trust their writers and may be running a newer schema version.
type MsgpackSerializer struct {
	allowClasses bool
}

// NewMsgpackSerializer constructs the compact-binary serializer.
func NewMsgpackSerializer(allowClasses bool) *MsgpackSerializer {
	return &MsgpackSerializer{allowClasses: allowClasses}
}

func (*MsgpackSerializer) Tag() Tag { return CompactBinary }

func (*MsgpackSerializer) Encode(n Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("codec: msgpack encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *MsgpackSerializer) Decode(data []byte) (Node, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	if !s.allowClasses {
		dec.DisallowUnknownFields(true)
	}

	var n Node
	if err := dec.Decode(&n); err != nil {
		return Node{}, fmt.Errorf("codec: msgpack decode: %w", err)
	}
	return n, nil
}
