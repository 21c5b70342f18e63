package filecache

import (
	"log/slog"
	"sync"
)

func (c *Cache) log() *slog.Logger {
	return c.cfg.logger
}

// warnOnce logs at most one warning per key per process, so a sustained
// condition (a filesystem that refuses advisory locks, a consistently
// corrupt key) doesn't spam the log on every call.
type warnOnce struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newWarnOnce() *warnOnce {
	return &warnOnce{seen: make(map[string]struct{})}
}

func (w *warnOnce) do(key string, fn func()) {
	w.mu.Lock()
	_, already := w.seen[key]
	if !already {
		w.seen[key] = struct{}{}
	}
	w.mu.Unlock()

	if !already {
		fn()
	}
}
