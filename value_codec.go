package filecache

import "github.com/nickmsk9/file-cache/internal/codec"

func toNode(v Value) codec.Node {
	switch v.Kind {
	case KindNil:
		return codec.Node{K: codec.KindNil}
	case KindBool:
		return codec.Node{K: codec.KindBool, B: v.Bool}
	case KindInt:
		return codec.Node{K: codec.KindInt, I: v.Int}
	case KindFloat:
		return codec.Node{K: codec.KindFloat, F: v.Float}
	case KindString:
		return codec.Node{K: codec.KindString, S: v.Str}
	case KindBytes:
		return codec.Node{K: codec.KindBytes, By: v.Bytes}
	case KindSlice:
		nodes := make([]codec.Node, len(v.Slice))
		for i, e := range v.Slice {
			nodes[i] = toNode(e)
		}
		return codec.Node{K: codec.KindSlice, Sl: nodes}
	case KindMap:
		nodes := make(map[string]codec.Node, len(v.Map))
		for k, e := range v.Map {
			nodes[k] = toNode(e)
		}
		return codec.Node{K: codec.KindMap, Mp: nodes}
	default:
		return codec.Node{K: codec.KindNil}
	}
}

func fromNode(n codec.Node) Value {
	switch n.K {
	case codec.KindNil:
		return Nil
	case codec.KindBool:
		return Bool(n.B)
	case codec.KindInt:
		return Int(n.I)
	case codec.KindFloat:
		return Float(n.F)
	case codec.KindString:
		return Str(n.S)
	case codec.KindBytes:
		return BytesValue(n.By)
	case codec.KindSlice:
		vals := make([]Value, len(n.Sl))
		for i, e := range n.Sl {
			vals[i] = fromNode(e)
		}
		return SliceValue(vals)
	case codec.KindMap:
		vals := make(map[string]Value, len(n.Mp))
		for k, e := range n.Mp {
			vals[k] = fromNode(e)
		}
		return MapValue(vals)
	default:
		return Nil
	}
}
