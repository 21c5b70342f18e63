package filecache

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nickmsk9/file-cache/internal/metaenc"
)

// GC sweeps the cache for expired entries and removes them, stopping after
// it has removed limit entries (a limit of 0 means no bound). It is safe to
// call concurrently with Get/Set/Delete from this or other processes: GC
// only ever removes entries it has itself determined are expired or
// unreadable, using the same purge rules Get uses on a corrupt read.
func (c *Cache) GC(limit int) (int, error) {
	removed := 0
	now := time.Now()

	walkErr := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if limit > 0 && removed >= limit {
			return filepath.SkipAll
		}
		if err != nil {
			// A file vanishing mid-walk (deleted by a concurrent Delete or
			// GC in another process) is expected, not a failure.
			if os.IsNotExist(err) {
				return nil
			}
			return nil //nolint:nilerr // best-effort sweep, keep walking
		}
		if d.IsDir() {
			return nil
		}

		switch {
		case strings.HasSuffix(path, fileMetaSuffix):
			if c.gcFileMetaAt(path, now) {
				removed++
			}
		case strings.HasSuffix(path, valueMetaSuffix):
			if c.gcValueMetaAt(path, now) {
				removed++
			}
		}
		return nil
	})

	return removed, walkErr
}

func (c *Cache) gcValueMetaAt(path string, now time.Time) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	base := strings.TrimSuffix(path, valueMetaSuffix)
	s := slot{base: base}

	var m valueMeta
	if err := metaenc.Decode(raw, &m); err != nil {
		c.purgeValue(s)
		return true
	}
	if isExpired(m.E, now) {
		c.purgeValue(s)
		return true
	}
	return false
}

func (c *Cache) gcFileMetaAt(path string, now time.Time) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	base := strings.TrimSuffix(path, fileMetaSuffix)
	s := slot{base: base}

	var m fileMeta
	if err := metaenc.Decode(raw, &m); err != nil {
		_ = removeSlotFiles(path, s.lockPath())
		return true
	}
	if isExpired(m.E, now) {
		_ = removeSlotFiles(path, m.P, s.lockPath())
		return true
	}
	return false
}

// startBackgroundGC launches a goroutine that runs a bounded GC pass every
// period, until Close is called.
func (c *Cache) startBackgroundGC(period time.Duration) {
	c.stopGC = make(chan struct{})
	stop := c.stopGC

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := c.GC(1000); err != nil {
					c.log().Warn("filecache: background GC pass failed", "error", err)
				}
			case <-stop:
				return
			}
		}
	}()
}
