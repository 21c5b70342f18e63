package filecache

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/nickmsk9/file-cache/internal/atomicfile"
	"github.com/nickmsk9/file-cache/internal/codec"
	"github.com/nickmsk9/file-cache/internal/metaenc"
)

// Set stores v under key with the given ttl. A ttl of 0 uses the cache's
// configured default TTL; a negative ttl means the entry never expires.
func (c *Cache) Set(key []byte, v Value, ttl time.Duration) error {
	return c.setWithTag(key, v, ttl, c.cfg.defaultSerializer)
}

// SetWithSerializer is like Set but lets the caller pin the wire format for
// this entry instead of using the cache's configured default. This is
// useful when a value is known to be numeric-heavy (compact-binary tends to
// win) or must stay human-inspectable on disk (native).
func (c *Cache) SetWithSerializer(key []byte, v Value, ttl time.Duration, tag codec.Tag) error {
	return c.setWithTag(key, v, ttl, tag)
}

func (c *Cache) setWithTag(key []byte, v Value, ttl time.Duration, tag codec.Tag) error {
	ser, ok := c.codecs.Lookup(tag)
	if !ok {
		return fmt.Errorf("%w: unknown serializer %q", ErrConfig, tag)
	}

	payload, err := ser.Encode(toNode(v))
	if err != nil {
		return fmt.Errorf("%w: encode: %s", ErrWrite, err)
	}

	compressed := 0
	if len(payload) >= c.cfg.compressThreshold {
		if out, ok, cerr := codec.Compress(payload); cerr == nil && ok {
			payload = out
			compressed = 1
		}
	}

	s := c.valueSlot(key)
	m := valueMeta{
		E: expirationFor(c.ttlOrDefault(ttl), time.Now()),
		C: compressed,
		S: string(tag),
	}

	if len(payload) <= c.cfg.maxInlineBytes {
		m.I = 1
		m.V = base64.StdEncoding.EncodeToString(payload)
		if err := c.publishMeta(s, m); err != nil {
			return err
		}
		// A prior external publish for this key may have left a .bin
		// behind; an inline entry must not leave a stale payload file
		// that loadPayload would never consult but GC would still see.
		_ = os.Remove(s.binPath())
	} else {
		m.I = 0
		if _, err := atomicfile.CopyFrom(s.binPath(), bytes.NewReader(payload)); err != nil {
			return fmt.Errorf("%w: write bin: %s", ErrWrite, err)
		}
		if err := c.publishMeta(s, m); err != nil {
			_ = os.Remove(s.binPath())
			return err
		}
	}

	c.maybeOpportunisticGC()
	return nil
}

func (c *Cache) publishMeta(s slot, m valueMeta) error {
	enc, err := metaenc.Encode(m)
	if err != nil {
		return fmt.Errorf("%w: encode meta: %s", ErrWrite, err)
	}
	if err := atomicfile.Write(s.metaPath(), enc); err != nil {
		return fmt.Errorf("%w: write meta: %s", ErrWrite, err)
	}
	return nil
}
