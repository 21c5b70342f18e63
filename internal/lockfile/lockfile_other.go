//go:build !unix

package lockfile

import (
	"errors"
	"os"
)

// ErrUnsupported is returned by flockExclusive on platforms without an
// advisory locking primitive wired up; callers take the degraded path.
var ErrUnsupported = errors.New("lockfile: advisory locking not supported on this platform")

func flockExclusive(f *os.File) error {
	return ErrUnsupported
}

func flockUnlock(f *os.File) error {
	return nil
}
