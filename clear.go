package filecache

import (
	"os"
	"path/filepath"
)

// Clear removes every entry from both the Value Store and the File Store.
// It tolerates concurrent writers adding new entries while it runs: those
// entries may or may not survive the sweep, but Clear itself never returns
// an error because of a concurrent addition or removal.
func (c *Cache) Clear() error {
	if err := clearTree(c.root, c.fileRoot); err != nil {
		return err
	}
	if err := clearTree(c.fileRoot); err != nil {
		return err
	}
	return nil
}

// clearTree removes every file under root except paths in skip (used so
// clearing the value store root doesn't also delete the nested file store
// directory out from under concurrent file-store callers, only to
// immediately recreate it).
func clearTree(root string, skip ...string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	skipSet := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipSet[s] = struct{}{}
	}

	for _, e := range entries {
		full := filepath.Join(root, e.Name())
		if _, skip := skipSet[full]; skip {
			continue
		}
		if e.IsDir() {
			if err := os.RemoveAll(full); err != nil && !os.IsNotExist(err) {
				return err
			}
			continue
		}
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
