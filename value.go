package filecache

// Kind identifies which alternative of Value is populated.
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

// Value is the tagged-variant type stored by the cache. A statically typed
// cache cannot accept arbitrary runtime objects, so callers encode whatever
// they need into one of these alternatives before calling Set.
type Value struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Float  float64
	Str    string
	Bytes  []byte
	Slice  []Value
	Map    map[string]Value
}

// Nil is the zero value, representing an explicitly cached nil.
var Nil = Value{Kind: KindNil}

func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

func Str(s string) Value { return Value{Kind: KindString, Str: s} }

func BytesValue(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }

func SliceValue(v []Value) Value { return Value{Kind: KindSlice, Slice: v} }

func MapValue(m map[string]Value) Value { return Value{Kind: KindMap, Map: m} }

// IsNil reports whether v represents the nil alternative.
func (v Value) IsNil() bool { return v.Kind == KindNil }

// Equal reports whether v and other hold the same kind and payload. It is
// primarily useful in tests asserting round-trip fidelity.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindInt:
		return v.Int == other.Int
	case KindFloat:
		return v.Float == other.Float
	case KindString:
		return v.Str == other.Str
	case KindBytes:
		return bytesEqual(v.Bytes, other.Bytes)
	case KindSlice:
		if len(v.Slice) != len(other.Slice) {
			return false
		}
		for i := range v.Slice {
			if !v.Slice[i].Equal(other.Slice[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.Map) != len(other.Map) {
			return false
		}
		for k, mv := range v.Map {
			ov, ok := other.Map[k]
			if !ok || !mv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
