package filecache

import (
	"fmt"
	"os"
	"time"

	"github.com/nickmsk9/file-cache/internal/atomicfile"
	"github.com/nickmsk9/file-cache/internal/metaenc"
)

// GetFilePath returns the on-disk path of the file stored under key. The
// file at that path is stable: callers may open and read it directly
// without going through the Cache, as long as they don't assume it will
// still exist after a subsequent Delete, Clear, or GC pass.
func (c *Cache) GetFilePath(key []byte) (string, bool) {
	s := c.fileSlot(key)
	m, ok := c.readFileMeta(s)
	if !ok {
		return "", false
	}

	if isExpired(m.E, time.Now()) {
		_ = removeSlotFiles(s.fileMetaPath(), m.P)
		return "", false
	}

	if _, err := os.Stat(m.P); err != nil {
		// The meta claims a content file that is no longer there; the
		// meta is now dangling and useless on its own.
		_ = os.Remove(s.fileMetaPath())
		return "", false
	}

	return m.P, true
}

func (c *Cache) readFileMeta(s slot) (fileMeta, bool) {
	raw, err := os.ReadFile(s.fileMetaPath())
	if err != nil {
		return fileMeta{}, false
	}
	var m fileMeta
	if err := metaenc.Decode(raw, &m); err != nil {
		c.log().Warn("filecache: corrupt file meta, purging entry", "error", err)
		_ = os.Remove(s.fileMetaPath())
		return fileMeta{}, false
	}
	return m, true
}

func (c *Cache) publishFileMeta(s slot, m fileMeta) error {
	enc, err := metaenc.Encode(m)
	if err != nil {
		return fmt.Errorf("%w: encode file meta: %s", ErrWrite, err)
	}
	if err := atomicfile.Write(s.fileMetaPath(), enc); err != nil {
		return fmt.Errorf("%w: write file meta: %s", ErrWrite, err)
	}
	return nil
}
