// Package lockfile provides per-key advisory exclusive locking for the
// stampede-safe compute-and-store paths. Locking is cooperative: it
// coordinates processes that participate, and implies nothing about the
// validity of the cache entry it guards.
package lockfile

import (
	"fmt"
	"os"
)

// Lock holds an open, exclusively-locked file. The zero value is not usable;
// obtain one via Acquire.
type Lock struct {
	file *os.File
}

// Acquire opens (creating if necessary) the lock file at path and blocks
// until an exclusive advisory lock is held. Callers MUST call Release in all
// exit paths.
//
// On platforms or filesystems that do not support advisory locking, or when
// the lock file cannot be opened, Acquire returns an error; callers are
// expected to fall back to an unlocked, degraded compute-and-set path rather
// than treat this as fatal.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o664)
	if err != nil {
		return nil, fmt.Errorf("lockfile: open %s: %w", path, err)
	}
	if err := flockExclusive(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("lockfile: acquire %s: %w", path, err)
	}
	return &Lock{file: f}, nil
}

// Release unlocks and closes the underlying file. It is safe to call on a
// nil *Lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := flockUnlock(l.file)
	closeErr := l.file.Close()
	l.file = nil
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
