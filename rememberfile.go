package filecache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nickmsk9/file-cache/fetch"
	"github.com/nickmsk9/file-cache/internal/lockfile"
)

// RememberFile returns the on-disk path of the file stored under key if
// present, otherwise fetches it from source, stores it with the given ttl,
// and returns the path to the stored copy. ext names the extension given to
// the stored content file (e.g. "jpg", "tar.gz"); an empty ext defaults to
// "bin". Like Remember, concurrent fetches for the same key collapse into
// one: in-process via singleflight, cross-process via an advisory lock on
// the slot.
//
// source is taken as given: RememberFile never modifies its timeouts or
// headers. Callers who want this cache's configured connect_timeout,
// read_timeout, and user_agent applied to a URL string should build source
// via Cache.ResolveSource rather than fetch.Resolve/fetch.NewHTTPSource
// directly.
func (c *Cache) RememberFile(key []byte, ttl time.Duration, source fetch.Source, ext string) (string, error) {
	if p, ok := c.GetFilePath(key); ok {
		return p, nil
	}

	s := c.fileSlot(key)
	p, err, _ := c.fileGroup.Do(s.base, func() (any, error) {
		return c.rememberFileLocked(s, key, ttl, source, ext)
	})
	if err != nil {
		return "", err
	}
	return p.(string), nil
}

func (c *Cache) rememberFileLocked(s slot, key []byte, ttl time.Duration, source fetch.Source, ext string) (string, error) {
	lock, err := lockfile.Acquire(s.lockPath())
	if err != nil {
		c.warnings.do("lock:"+s.lockPath(), func() {
			c.log().Warn("filecache: advisory locking unavailable, falling back to unlocked fetch", "error", err)
		})
		return c.fetchAndStore(s, ttl, source, ext)
	}
	defer lock.Release() //nolint:errcheck // best-effort unlock

	if p, ok := c.GetFilePath(key); ok {
		return p, nil
	}

	return c.fetchAndStore(s, ttl, source, ext)
}

func (c *Cache) fetchAndStore(s slot, ttl time.Duration, source fetch.Source, ext string) (string, error) {
	dest := s.contentPath(ext)

	ctx := context.Background()
	if c.cfg.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.readTimeout)
		defer cancel()
	}

	if err := fetch.To(ctx, source, dest); err != nil {
		return "", fmt.Errorf("%w: %s", ErrFetch, err)
	}

	m := fileMeta{
		E: expirationFor(c.ttlOrDefault(ttl), time.Now()),
		P: dest,
	}
	if err := c.publishFileMeta(s, m); err != nil {
		_ = os.Remove(dest)
		return "", err
	}

	c.maybeOpportunisticGC()
	return dest, nil
}
