package filecache

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/nickmsk9/file-cache/internal/atomicfile"
	"github.com/nickmsk9/file-cache/internal/codec"
	"golang.org/x/sync/singleflight"
)

// Cache is a single-node, filesystem-backed store for serialized values and
// opaque binary files. A Cache is safe for concurrent use by multiple
// goroutines in one process, and is designed to cooperate correctly with
// other independent processes sharing the same root directory.
type Cache struct {
	root     string
	fileRoot string
	cfg      config
	codecs   *codec.Registry

	valueGroup singleflight.Group
	fileGroup  singleflight.Group

	warnings *warnOnce

	stopGC chan struct{}
}

// New constructs a Cache rooted at dir, creating it if necessary. A cache
// root that cannot be created or is not writable is a fatal configuration
// error.
func New(dir string, opts ...Option) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: cache dir is empty", ErrConfig)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := atomicfile.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfig, err)
	}
	if err := checkWritable(dir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfig, err)
	}

	fileRoot := filepath.Join(dir, cfg.fileSubdir)
	if err := atomicfile.EnsureDir(fileRoot); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfig, err)
	}

	c := &Cache{
		root:     dir,
		fileRoot: fileRoot,
		cfg:      cfg,
		codecs:   codec.NewRegistry(cfg.allowClasses),
		warnings: newWarnOnce(),
	}

	if cfg.backgroundGCPeriod > 0 {
		c.startBackgroundGC(cfg.backgroundGCPeriod)
	}

	return c, nil
}

// Close stops the optional background GC ticker, if one was started via
// WithBackgroundGC. It is safe to call on a Cache without one running.
func (c *Cache) Close() error {
	if c.stopGC != nil {
		close(c.stopGC)
		c.stopGC = nil
	}
	return nil
}

func checkWritable(dir string) error {
	probe := filepath.Join(dir, ".write-probe")
	if err := os.WriteFile(probe, []byte{}, atomicfile.FilePerm); err != nil {
		return fmt.Errorf("cache root %s is not writable: %w", dir, err)
	}
	return os.Remove(probe)
}

func (c *Cache) valueSlot(key []byte) slot {
	return valueSlot(c.root, c.cfg.salt, c.cfg.shardDepth, key)
}

func (c *Cache) fileSlot(key []byte) slot {
	return fileSlot(c.fileRoot, c.cfg.salt, c.cfg.shardDepth, key)
}

// ttlOrDefault resolves a caller-supplied ttl to the value that should
// actually be used for expiration. ttl == 0 means "use the cache's
// configured default"; a negative ttl is left untouched and passed through
// to expirationFor, whose own ttl <= 0 branch treats it as never-expire.
func (c *Cache) ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return c.cfg.defaultTTL
	}
	return ttl
}

func expirationFor(ttl time.Duration, now time.Time) int64 {
	if ttl <= 0 {
		return 0
	}
	return now.Add(ttl).Unix()
}

func isExpired(e int64, now time.Time) bool {
	return e != 0 && e < now.Unix()
}

func (c *Cache) maybeOpportunisticGC() {
	if c.cfg.gcProbability <= 0 {
		return
	}
	if c.cfg.gcProbability >= 1 || rand.Float64() < c.cfg.gcProbability { //nolint:gosec // GC sampling has no security relevance
		_, _ = c.GC(1000) //nolint:errcheck // opportunistic, best-effort
	}
}
