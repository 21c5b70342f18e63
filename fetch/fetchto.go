package fetch

import (
	"context"
	"fmt"

	"github.com/nickmsk9/file-cache/internal/atomicfile"
)

// To delivers src's full content to destPath atomically: no reader ever
// observes a partial file at destPath. On any failure, the temporary file is
// removed and an error is returned.
func To(ctx context.Context, src Source, destPath string) error {
	r, err := src.Open(ctx)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer r.Close()

	if _, err := atomicfile.CopyFrom(destPath, r); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	return nil
}
