package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
)

// LocalSource reads an existing file from the local filesystem.
type LocalSource struct {
	Path string
}

// NewLocalSource wraps an existing local path as a Source.
func NewLocalSource(path string) *LocalSource {
	return &LocalSource{Path: path}
}

func (s *LocalSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("fetch: open local source %s: %w", s.Path, err)
	}
	return f, nil
}
