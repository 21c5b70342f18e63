package filecache_test

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	filecache "github.com/nickmsk9/file-cache"
	"github.com/nickmsk9/file-cache/internal/codec"
	"github.com/nickmsk9/file-cache/internal/keying"
	"github.com/nickmsk9/file-cache/internal/metaenc"
)

// binPathFor reconstructs the external payload path for key the same way
// the package itself does, so tests can assert on physical file presence
// without reaching into unexported package internals.
func binPathFor(dir, salt string, shardDepth int, key []byte) string {
	hash := keying.Hash(salt, "", key)
	return keying.Path(dir, hash, shardDepth) + ".bin"
}

// metaPathFor reconstructs the value meta path for key the same way the
// package itself does.
func metaPathFor(dir, salt string, shardDepth int, key []byte) string {
	hash := keying.Hash(salt, "", key)
	return keying.Path(dir, hash, shardDepth) + ".php"
}

// valueMetaE decodes just the expiration field out of a value meta file on
// disk, so a test can check it without importing the unexported valueMeta
// type.
func valueMetaE(t *testing.T, path string) int64 {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var body struct {
		E int64 `json:"e"`
	}
	require.NoError(t, metaenc.Decode(raw, &body))
	return body.E
}

func TestSetGetRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	v := filecache.MapValue(map[string]filecache.Value{
		"name": filecache.Str("widget"),
		"qty":  filecache.Int(42),
	})
	require.NoError(t, c.Set([]byte("item:1"), v, time.Minute))

	got, ok := c.Get([]byte("item:1"))
	require.True(t, ok)
	assert.True(t, v.Equal(got))
}

func TestGetMissOnUnknownKey(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	_, ok := c.Get([]byte("nope"))
	assert.False(t, ok)
}

func TestGetOrReturnsDefaultOnMiss(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	def := filecache.Int(-1)
	assert.True(t, def.Equal(c.GetOr([]byte("nope"), def)))
}

func TestSetExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	// Expiration is stored in whole seconds, so a one-second TTL is the
	// shortest that reliably lapses after a two-second wait.
	require.NoError(t, c.Set([]byte("k"), filecache.Str("v"), time.Second))
	time.Sleep(2 * time.Second)

	_, ok := c.Get([]byte("k"))
	assert.False(t, ok)
}

func TestSetNeverExpiresOnNegativeTTL(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	salt := "never-expire-test"
	shardDepth := 1
	// A tiny default TTL means an immediate Get would still succeed even if
	// the negative ttl were (wrongly) collapsed to the default, so the real
	// assertion is on the persisted expiration field, not on Get alone.
	c, err := filecache.New(dir, filecache.WithSalt(salt), filecache.WithShardDepth(shardDepth), filecache.WithDefaultTTL(time.Nanosecond))
	require.NoError(t, err)

	require.NoError(t, c.Set([]byte("k"), filecache.Str("v"), -1))

	e := valueMetaE(t, metaPathFor(dir, salt, shardDepth, []byte("k")))
	assert.Equal(t, int64(0), e, "a negative ttl must persist e=0 (never expires)")

	time.Sleep(2 * time.Millisecond)
	_, ok := c.Get([]byte("k"))
	assert.True(t, ok, "an entry stored with a negative ttl must still be readable well past the cache's default TTL")
}

func TestInlineVsExternalBoundary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	salt := "boundary-test"
	shardDepth := 2
	c, err := filecache.New(dir, filecache.WithMaxInlineBytes(64), filecache.WithSalt(salt), filecache.WithShardDepth(shardDepth))
	require.NoError(t, err)

	small := filecache.Str("short")
	large := filecache.Str(strings.Repeat("x", 4096))

	require.NoError(t, c.Set([]byte("small"), small, time.Minute))
	require.NoError(t, c.Set([]byte("large"), large, time.Minute))

	gotSmall, ok := c.Get([]byte("small"))
	require.True(t, ok)
	assert.True(t, small.Equal(gotSmall))

	gotLarge, ok := c.Get([]byte("large"))
	require.True(t, ok)
	assert.True(t, large.Equal(gotLarge))

	_, err = os.Stat(binPathFor(dir, salt, shardDepth, []byte("small")))
	assert.True(t, os.IsNotExist(err), "an inline entry must not leave a .bin file on disk")

	_, err = os.Stat(binPathFor(dir, salt, shardDepth, []byte("large")))
	assert.NoError(t, err, "an external entry must have a .bin file on disk")

	// Rewriting the large key with a value short enough to go inline must
	// delete the now-stale .bin left over from its external generation.
	require.NoError(t, c.Set([]byte("large"), filecache.Str("now short"), time.Minute))
	_, err = os.Stat(binPathFor(dir, salt, shardDepth, []byte("large")))
	assert.True(t, os.IsNotExist(err), "switching an entry to inline must remove its stale .bin sibling")
}

func TestCompressionAppliesAboveThreshold(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir(), filecache.WithCompressThreshold(32))
	require.NoError(t, err)

	v := filecache.Str(strings.Repeat("aaaaaaaaaa", 200))
	require.NoError(t, c.Set([]byte("k"), v, time.Minute))

	got, ok := c.Get([]byte("k"))
	require.True(t, ok)
	assert.True(t, v.Equal(got))
}

func TestSetWithSerializerUsesChosenTag(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	v := filecache.Int(7)
	require.NoError(t, c.SetWithSerializer([]byte("k"), v, time.Minute, codec.CompactBinary))

	got, ok := c.Get([]byte("k"))
	require.True(t, ok)
	assert.True(t, v.Equal(got))
}

func TestDeleteRemovesEntry(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set([]byte("k"), filecache.Str("v"), time.Minute))
	require.NoError(t, c.Delete([]byte("k")))

	_, ok := c.Get([]byte("k"))
	assert.False(t, ok)
}

func TestDeleteOfMissingKeyIsNotError(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, c.Delete([]byte("never-set")))
}

func TestClearRemovesAllEntries(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	for i := range 10 {
		key := []byte(strings.Repeat("k", 1) + string(rune('a'+i)))
		require.NoError(t, c.Set(key, filecache.Int(int64(i)), time.Minute))
	}

	require.NoError(t, c.Clear())

	for i := range 10 {
		key := []byte(strings.Repeat("k", 1) + string(rune('a'+i)))
		_, ok := c.Get(key)
		assert.False(t, ok)
	}
}

func TestKeysAreIsolatedBySalt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, err := filecache.New(dir, filecache.WithSalt("tenant-a"))
	require.NoError(t, err)
	b, err := filecache.New(dir, filecache.WithSalt("tenant-b"))
	require.NoError(t, err)

	require.NoError(t, a.Set([]byte("shared-key"), filecache.Str("a's value"), time.Minute))

	_, ok := b.Get([]byte("shared-key"))
	assert.False(t, ok, "a different salt must not be able to read another tenant's entry")
}

func TestRememberComputesOnceOnConcurrentMiss(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	var calls int64
	compute := func() (filecache.Value, error) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return filecache.Str("computed"), nil
	}

	var wg sync.WaitGroup
	results := make([]filecache.Value, 20)
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Remember([]byte("shared"), time.Minute, compute)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
	for _, v := range results {
		assert.True(t, filecache.Str("computed").Equal(v))
	}
}

func TestRememberReturnsCachedValueWithoutRecomputing(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set([]byte("k"), filecache.Str("precomputed"), time.Minute))

	called := false
	v, err := c.Remember([]byte("k"), time.Minute, func() (filecache.Value, error) {
		called = true
		return filecache.Str("should not see this"), nil
	})
	require.NoError(t, err)
	assert.False(t, called)
	assert.True(t, filecache.Str("precomputed").Equal(v))
}

func TestGCRemovesExpiredEntriesUpToLimit(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir())
	require.NoError(t, err)

	for i := range 5 {
		key := []byte{byte('a' + i)}
		require.NoError(t, c.Set(key, filecache.Int(int64(i)), time.Second))
	}
	time.Sleep(2 * time.Second)

	removed, err := c.GC(2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	removed, err = c.GC(0)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
}

func TestCloseStopsBackgroundGCWithoutPanic(t *testing.T) {
	t.Parallel()

	c, err := filecache.New(t.TempDir(), filecache.WithBackgroundGC(5*time.Millisecond))
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	assert.NoError(t, c.Close())
}
