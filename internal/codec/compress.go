package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Compress attempts to DEFLATE data. It returns the compressed form and
// ok=true only when the compressed form is strictly smaller than the input;
// callers should discard the result and keep the original bytes otherwise.
func Compress(data []byte) (compressed []byte, ok bool, err error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, false, fmt.Errorf("codec: create deflate writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, false, fmt.Errorf("codec: deflate write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, false, fmt.Errorf("codec: deflate close: %w", err)
	}

	if buf.Len() >= len(data) {
		return nil, false, nil
	}
	return buf.Bytes(), true, nil
}

// Decompress inflates data previously produced by Compress.
func Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("codec: inflate: %w", err)
	}
	return out, nil
}
