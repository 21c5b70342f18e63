// Package codec implements the self-describing serializer and compressor
// adapters that sit between a cache value and the bytes persisted on disk.
//
// Node is the wire representation of a stored value: a closed, tagged
// variant with no reflection-driven type construction, so deserialization
// can never instantiate an arbitrary host type regardless of stream content.
package codec

// Tag identifies which Serializer produced a payload; it is persisted as the
// meta file's "s" field.
type Tag string

const (
	Native        Tag = "native"
	CompactBinary Tag = "compact-binary"
)

// Kind mirrors filecache.Kind without importing the parent package, keeping
// this package free of an import cycle.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindSlice
	KindMap
)

// Node is the wire form of a Value: exactly one field is meaningful per Kind.
type Node struct {
	K  Kind            `json:"k" msgpack:"k"`
	B  bool            `json:"b,omitempty" msgpack:"b,omitempty"`
	I  int64           `json:"i,omitempty" msgpack:"i,omitempty"`
	F  float64         `json:"f,omitempty" msgpack:"f,omitempty"`
	S  string          `json:"s,omitempty" msgpack:"s,omitempty"`
	By []byte          `json:"by,omitempty" msgpack:"by,omitempty"`
	Sl []Node          `json:"sl,omitempty" msgpack:"sl,omitempty"`
	Mp map[string]Node `json:"mp,omitempty" msgpack:"mp,omitempty"`
}

// Serializer converts a Node to and from its encoded byte form.
type Serializer interface {
	Tag() Tag
	Encode(Node) ([]byte, error)
	Decode(data []byte) (Node, error)
}

// Registry resolves a Tag to the Serializer that produced it.
type Registry struct {
	byTag map[Tag]Serializer
}

// NewRegistry builds a Registry holding the native and compact-binary
// serializers, keyed by their own Tag(). allowClasses configures the compact-binary serializer's decode
// strictness (see Security notes on MsgpackSerializer).
func NewRegistry(allowClasses bool) *Registry {
	r := &Registry{byTag: make(map[Tag]Serializer, 2)}
	r.Register(NewJSONSerializer())
	r.Register(NewMsgpackSerializer(allowClasses))
	return r
}

// Register adds or replaces a serializer under its own Tag.
func (r *Registry) Register(s Serializer) {
	r.byTag[s.Tag()] = s
}

// Lookup returns the Serializer registered for tag, if any.
func (r *Registry) Lookup(tag Tag) (Serializer, bool) {
	s, ok := r.byTag[tag]
	return s, ok
}
