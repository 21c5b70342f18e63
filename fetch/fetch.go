// Package fetch implements the byte-stream source abstraction used by
// RememberFile to populate the file store. The spec treats the fetcher as an
// external collaborator; Source is the actual extension point, and this
// package additionally bundles a default net/http-backed implementation so
// the module is runnable without every caller wiring up their own.
package fetch

import (
	"context"
	"io"
)

// Source delivers a single full read of byte-stream content from start to
// EOF. Implementations that can detect failure early (a 404, a missing
// file) should do so from Open rather than on the first Read.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
