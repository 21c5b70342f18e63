package filecache

import "github.com/nickmsk9/file-cache/fetch"

// ResolveSource builds a fetch.Source for raw (a local path or a URL),
// honoring this cache's configured connect_timeout, read_timeout, and
// user_agent when raw resolves to an HTTP(S) URL. Callers who already hold
// their own fetch.Source (and want full control over its transport) should
// skip this and pass it straight to RememberFile; ResolveSource exists so
// the common "fetch from one of these strings" case gets the cache's
// configured fetch tuning without each caller re-threading it.
func (c *Cache) ResolveSource(raw string) fetch.Source {
	return fetch.Resolve(raw,
		fetch.WithConnectTimeout(c.cfg.connectTimeout),
		fetch.WithReadTimeout(c.cfg.readTimeout),
		fetch.WithUserAgent(c.cfg.userAgent),
	)
}
