package filecache_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	filecache "github.com/nickmsk9/file-cache"
	"github.com/nickmsk9/file-cache/fetch"
)

func writeSourceFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "source.dat")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRememberFileFetchesAndPersists(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	srcPath := writeSourceFile(t, "file contents")
	src := fetch.NewLocalSource(srcPath)

	path, err := c.RememberFile([]byte("asset"), time.Minute, src, "dat")
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file contents", string(got))
}

func TestRememberFileSecondCallSkipsFetch(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	srcPath := writeSourceFile(t, "v1")
	src := fetch.NewLocalSource(srcPath)

	path1, err := c.RememberFile([]byte("asset"), time.Minute, src, "dat")
	require.NoError(t, err)

	// Overwrite the upstream source; a second RememberFile call for the
	// same still-fresh key must not refetch it.
	require.NoError(t, os.WriteFile(srcPath, []byte("v2"), 0o644))

	path2, err := c.RememberFile([]byte("asset"), time.Minute, src, "dat")
	require.NoError(t, err)
	assert.Equal(t, path1, path2)

	got, err := os.ReadFile(path2)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))
}

func TestRememberFileCollapsesConcurrentFetches(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	srcPath := writeSourceFile(t, "shared payload")
	src := &countingSource{inner: fetch.NewLocalSource(srcPath)}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.RememberFile([]byte("asset"), time.Minute, src, "dat")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&src.opens))
}

func TestResolveSourceAppliesConfiguredUserAgentToHTTP(t *testing.T) {
	t.Parallel()

	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("remote asset"))
	}))
	defer server.Close()

	c, err := filecache.New(t.TempDir(), filecache.WithUserAgent("filecache-test/1.0"))
	require.NoError(t, err)

	src := c.ResolveSource(server.URL)
	path, err := c.RememberFile([]byte("asset"), time.Minute, src, "dat")
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "remote asset", string(got))
	assert.Equal(t, "filecache-test/1.0", gotUA)
}

func TestGetFilePathMissesOnUnknownKey(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	_, ok := c.GetFilePath([]byte("nope"))
	assert.False(t, ok)
}

type countingSource struct {
	inner fetch.Source
	opens int64
}

func (s *countingSource) Open(ctx context.Context) (io.ReadCloser, error) {
	atomic.AddInt64(&s.opens, 1)
	return s.inner.Open(ctx)
}
