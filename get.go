package filecache

import (
	"encoding/base64"
	"errors"
	"os"
	"time"

	"github.com/nickmsk9/file-cache/internal/codec"
	"github.com/nickmsk9/file-cache/internal/metaenc"
)

// Get retrieves the value stored under key. The second return value is
// false on any kind of miss: absent entry, expired entry, or an entry the
// cache had to purge because it was unreadable or corrupt.
func (c *Cache) Get(key []byte) (Value, bool) {
	v, _, ok := c.get(key)
	return v, ok
}

// GetOr is a convenience wrapper for callers that want sentinel-default
// ergonomics instead of distinguishing hit-nil from miss via the bool
// return of Get.
func (c *Cache) GetOr(key []byte, def Value) Value {
	v, ok := c.Get(key)
	if !ok {
		return def
	}
	return v
}

// get returns the value, its meta, and whether it was a hit.
func (c *Cache) get(key []byte) (Value, valueMeta, bool) {
	s := c.valueSlot(key)

	raw, err := os.ReadFile(s.metaPath())
	if err != nil {
		return Value{}, valueMeta{}, false
	}

	var m valueMeta
	if err := metaenc.Decode(raw, &m); err != nil {
		c.log().Warn("filecache: corrupt meta, purging entry", "error", err)
		c.purgeValue(s)
		return Value{}, valueMeta{}, false
	}

	if isExpired(m.E, time.Now()) {
		c.purgeValue(s)
		return Value{}, valueMeta{}, false
	}

	payload, ok := c.loadPayload(s, m)
	if !ok {
		return Value{}, valueMeta{}, false
	}

	if m.compressed() {
		decompressed, err := codec.Decompress(payload)
		if err != nil {
			c.log().Warn("filecache: decompression failed, purging entry", "error", err)
			c.purgeValue(s)
			return Value{}, valueMeta{}, false
		}
		payload = decompressed
	}

	ser, ok := c.codecs.Lookup(codecTagFromString(m.S))
	if !ok {
		c.log().Warn("filecache: unknown serializer tag, purging entry", "tag", m.S)
		c.purgeValue(s)
		return Value{}, valueMeta{}, false
	}

	node, err := ser.Decode(payload)
	if err != nil {
		c.log().Warn("filecache: deserialize failed, purging entry", "error", err)
		c.purgeValue(s)
		return Value{}, valueMeta{}, false
	}

	return fromNode(node), m, true
}

// loadPayload resolves the raw (possibly still compressed) payload bytes for
// an entry, per the inline/external split.
func (c *Cache) loadPayload(s slot, m valueMeta) ([]byte, bool) {
	if m.inline() {
		payload, err := base64.StdEncoding.DecodeString(m.V)
		if err != nil {
			c.log().Warn("filecache: inline payload is not valid base64, purging entry", "error", err)
			c.purgeValue(s)
			return nil, false
		}
		return payload, true
	}

	payload, err := os.ReadFile(s.binPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Invariant 2: a published meta with i=0 implies .bin existed at
			// publish time, but independent deletions can violate that after
			// the fact. Treat as miss and purge the now-dangling meta.
			c.purgeValue(s)
		}
		// Any other error (permission, transient I/O) is treated as a miss
		// without deleting the entry, per §4.4 step 4.
		return nil, false
	}
	return payload, true
}

func (c *Cache) purgeValue(s slot) {
	_ = os.Remove(s.metaPath())
	_ = os.Remove(s.binPath())
	_ = os.Remove(s.lockPath())
}
