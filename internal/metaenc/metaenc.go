// Package metaenc implements the on-disk encoding for meta files.
//
// The spec leaves the meta file format open provided it is atomically
// published, cheap to parse, and human-debuggable. This implementation picks
// a length-prefixed binary record wrapping a JSON body: a 4-byte magic, a
// 1-byte format version, a 4-byte big-endian length, then the JSON payload.
// Parsing is a single read plus json.Unmarshal; the header lets a reader
// reject non-meta files (or a future incompatible format) in a handful of
// byte comparisons before ever reaching the JSON decoder, and the JSON body
// remains trivially inspectable by stripping the fixed-size header.
package metaenc

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

var magic = [4]byte{'F', 'C', 'M', '1'}

const (
	version    = 1
	headerSize = len(magic) + 1 + 4
)

// ErrNotMeta is returned by Decode when data does not begin with the
// expected magic and version header.
var ErrNotMeta = errors.New("metaenc: not a meta record")

// Encode serializes v (a struct with json tags) into the framed meta
// format.
func Encode(v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("metaenc: marshal body: %w", err)
	}

	out := make([]byte, 0, headerSize+len(body))
	out = append(out, magic[:]...)
	out = append(out, version)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body))) //nolint:gosec // body length bounded by caller payloads
	out = append(out, lenBuf[:]...)
	out = append(out, body...)
	return out, nil
}

// Decode parses the framed meta format produced by Encode into v (a pointer
// to a struct with json tags).
func Decode(data []byte, v any) error {
	if len(data) < headerSize {
		return ErrNotMeta
	}
	if [4]byte(data[:4]) != magic {
		return ErrNotMeta
	}
	if data[4] != version {
		return fmt.Errorf("metaenc: unsupported version %d", data[4])
	}

	bodyLen := binary.BigEndian.Uint32(data[5:9])
	body := data[9:]
	if uint32(len(body)) != bodyLen { //nolint:gosec // lengths are small, bounded by on-disk meta size
		return fmt.Errorf("metaenc: length mismatch: header says %d, have %d", bodyLen, len(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("metaenc: unmarshal body: %w", err)
	}
	return nil
}

// StripHeader returns the JSON body of a framed meta record, for operator
// tooling that wants to print it without decoding into a typed struct.
func StripHeader(data []byte) ([]byte, error) {
	if len(data) < headerSize {
		return nil, ErrNotMeta
	}
	if [4]byte(data[:4]) != magic {
		return nil, ErrNotMeta
	}
	return data[headerSize:], nil
}
