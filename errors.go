package filecache

import "errors"

// ErrConfig is returned by New when the cache root is absent and
// uncreatable, or not writable.
var ErrConfig = errors.New("filecache: configuration error")

// ErrWrite is returned from Set and RememberFile when a tmp-file create,
// write, or rename fails.
var ErrWrite = errors.New("filecache: write error")

// ErrFetch is returned from RememberFile when the source is unreadable or
// the URL fetch fails or times out.
var ErrFetch = errors.New("filecache: fetch error")
