// Package atomicfile publishes file content so that no reader ever observes
// a partial, truncated, or empty file, and concurrent publishers converge on
// exactly one winning final content.
package atomicfile

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// DirPerm is applied to directories created on the publish path.
	DirPerm = 0o775
	// FilePerm is applied to the tmp file before it is renamed into place.
	FilePerm = 0o664
)

// Write publishes data at path: it ensures path's parent directory exists,
// writes data to a random sibling tmp file, and renames the tmp file over
// path. On any failure before the rename, the tmp file is removed.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("atomicfile: mkdir %s: %w", dir, err)
	}

	tmpPath, err := tmpName(path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmpPath, data, FilePerm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("atomicfile: write %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, FilePerm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("atomicfile: chmod %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("atomicfile: rename %s: %w", path, err)
	}
	return nil
}

// CopyFrom streams src to path via the same ensure-dir, write-tmp, rename
// sequence as Write, without buffering the whole payload in memory.
func CopyFrom(path string, src io.Reader) (written int64, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return 0, fmt.Errorf("atomicfile: mkdir %s: %w", dir, err)
	}

	tmpPath, err := tmpName(path)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FilePerm)
	if err != nil {
		return 0, fmt.Errorf("atomicfile: create %s: %w", tmpPath, err)
	}

	written, err = io.Copy(f, src)
	if err != nil {
		f.Close()
		_ = os.Remove(tmpPath)
		return written, fmt.Errorf("atomicfile: copy to %s: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return written, fmt.Errorf("atomicfile: close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return written, fmt.Errorf("atomicfile: rename %s: %w", path, err)
	}
	return written, nil
}

// EnsureDir creates dir (and parents) with the publish-path permissions,
// tolerating concurrent creators.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("atomicfile: mkdir %s: %w", dir, err)
	}
	return nil
}

func tmpName(path string) (string, error) {
	var suffix [6]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", fmt.Errorf("atomicfile: generate tmp suffix: %w", err)
	}
	return fmt.Sprintf("%s.%s.tmp", path, hex.EncodeToString(suffix[:])), nil
}
