package filecache

import "os"

// Delete removes the value stored under key, if any. Deleting a key that
// does not exist is not an error.
func (c *Cache) Delete(key []byte) error {
	s := c.valueSlot(key)
	return removeSlotFiles(s.metaPath(), s.binPath(), s.lockPath())
}

// DeleteFile removes the file stored under key, if any.
func (c *Cache) DeleteFile(key []byte) error {
	s := c.fileSlot(key)
	meta, ok := c.readFileMeta(s)
	paths := []string{s.fileMetaPath(), s.lockPath()}
	if ok {
		paths = append(paths, meta.P)
	}
	return removeSlotFiles(paths...)
}

func removeSlotFiles(paths ...string) error {
	var firstErr error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
