package filecache

import (
	"log/slog"
	"time"

	"github.com/nickmsk9/file-cache/internal/codec"
)

const (
	defaultSalt              = "file-cache"
	defaultTTL               = 300 * time.Second
	defaultShardDepth        = 2
	defaultMaxInlineBytes    = 262144
	defaultCompressThreshold = 8192
	defaultFileSubdir        = "files"
	defaultConnectTimeout    = 5 * time.Second
	defaultReadTimeout       = 20 * time.Second
	defaultUserAgent         = "FileCache/1.0"
)

// config holds the resolved set of options for a Cache.
type config struct {
	salt               string
	defaultTTL         time.Duration
	shardDepth         int
	maxInlineBytes     int
	compressThreshold  int
	allowClasses       bool
	gcProbability      float64
	fileSubdir         string
	connectTimeout     time.Duration
	readTimeout        time.Duration
	userAgent          string
	defaultSerializer  codec.Tag
	backgroundGCPeriod time.Duration
	logger             *slog.Logger
}

func defaultConfig() config {
	return config{
		salt:              defaultSalt,
		defaultTTL:        defaultTTL,
		shardDepth:        defaultShardDepth,
		maxInlineBytes:    defaultMaxInlineBytes,
		compressThreshold: defaultCompressThreshold,
		allowClasses:      false,
		gcProbability:     0,
		fileSubdir:        defaultFileSubdir,
		connectTimeout:    defaultConnectTimeout,
		readTimeout:       defaultReadTimeout,
		userAgent:         defaultUserAgent,
		defaultSerializer: codec.Native,
		logger:            slog.Default(),
	}
}

// Option configures a Cache at construction time.
type Option func(*config)

// WithSalt overrides the salt mixed into the slot hash, isolating coexisting
// instances rooted at the same filesystem path.
func WithSalt(salt string) Option {
	return func(c *config) { c.salt = salt }
}

// WithDefaultTTL sets the TTL applied when a caller passes zero.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *config) { c.defaultTTL = ttl }
}

// WithShardDepth sets the directory fan-out depth, clamped to [0, 3].
func WithShardDepth(depth int) Option {
	return func(c *config) {
		if depth < 0 {
			depth = 0
		}
		if depth > 3 {
			depth = 3
		}
		c.shardDepth = depth
	}
}

// WithMaxInlineBytes sets the inline/external payload boundary.
func WithMaxInlineBytes(n int) Option {
	return func(c *config) { c.maxInlineBytes = n }
}

// WithCompressThreshold sets the minimum serialized length before deflate is
// attempted.
func WithCompressThreshold(n int) Option {
	return func(c *config) { c.compressThreshold = n }
}

// WithAllowClasses permits the compact-binary serializer's permissive decode
// mode. See internal/codec.MsgpackSerializer for what this actually gates.
func WithAllowClasses(allow bool) Option {
	return func(c *config) { c.allowClasses = allow }
}

// WithGCProbability sets the chance, in [0,1], that Set triggers an
// opportunistic bounded GC sweep.
func WithGCProbability(p float64) Option {
	return func(c *config) {
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		c.gcProbability = p
	}
}

// WithFileSubdir overrides the root subdirectory used by the file store.
func WithFileSubdir(subdir string) Option {
	return func(c *config) { c.fileSubdir = subdir }
}

// WithConnectTimeout bounds TCP connection setup for sources built via
// Cache.ResolveSource.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *config) { c.connectTimeout = d }
}

// WithReadTimeout bounds the body read for RememberFile's fetch, regardless
// of source, and (for sources built via Cache.ResolveSource) the bundled
// HTTP fetcher's own read deadline.
func WithReadTimeout(d time.Duration) Option {
	return func(c *config) { c.readTimeout = d }
}

// WithUserAgent sets the User-Agent header sent by sources built via
// Cache.ResolveSource.
func WithUserAgent(ua string) Option {
	return func(c *config) { c.userAgent = ua }
}

// WithSerializer sets the default serializer tag used by Set when the
// caller doesn't choose one via SetWithSerializer.
func WithSerializer(tag codec.Tag) Option {
	return func(c *config) { c.defaultSerializer = tag }
}

// WithBackgroundGC starts a ticker goroutine that invokes a bounded GC sweep
// every period. Zero (the default) disables it; callers relying solely on
// WithGCProbability or an external cron need not set this.
func WithBackgroundGC(period time.Duration) Option {
	return func(c *config) { c.backgroundGCPeriod = period }
}

// WithLogger overrides the structured logger used for non-fatal recoveries
// (corruption purges, degraded-lock events, failed background GC passes).
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
