package filecache

import (
	"fmt"
	"time"

	"github.com/nickmsk9/file-cache/internal/lockfile"
)

// Remember returns the cached value for key if present, otherwise calls
// compute, stores its result with the given ttl, and returns that. Multiple
// concurrent Remember calls for the same key collapse into a single
// compute: first within this process (via an in-process singleflight
// group), and then across processes sharing this cache root (via an
// advisory file lock), so compute only ever runs once per miss.
func (c *Cache) Remember(key []byte, ttl time.Duration, compute func() (Value, error)) (Value, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	dedupeKey := string(c.valueSlot(key).base)
	v, err, _ := c.valueGroup.Do(dedupeKey, func() (any, error) {
		return c.rememberLocked(key, ttl, compute)
	})
	if err != nil {
		return Value{}, err
	}
	return v.(Value), nil
}

func (c *Cache) rememberLocked(key []byte, ttl time.Duration, compute func() (Value, error)) (Value, error) {
	s := c.valueSlot(key)

	lock, err := lockfile.Acquire(s.lockPath())
	if err != nil {
		// Degraded mode: the filesystem doesn't support advisory locks
		// (e.g. some network filesystems, or a non-unix build). We still
		// get in-process dedupe from singleflight above; cross-process
		// stampedes are possible but compute still always produces a
		// usable result.
		c.warnings.do("lock:"+s.lockPath(), func() {
			c.log().Warn("filecache: advisory locking unavailable, falling back to unlocked compute", "error", err)
		})
		return c.computeAndSet(key, ttl, compute)
	}
	defer lock.Release() //nolint:errcheck // best-effort unlock

	if v, ok := c.Get(key); ok {
		return v, nil
	}

	return c.computeAndSet(key, ttl, compute)
}

func (c *Cache) computeAndSet(key []byte, ttl time.Duration, compute func() (Value, error)) (Value, error) {
	v, err := compute()
	if err != nil {
		return Value{}, fmt.Errorf("compute: %w", err)
	}
	if err := c.Set(key, v, ttl); err != nil {
		return Value{}, err
	}
	return v, nil
}
