package keying

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashDeterministic(t *testing.T) {
	t.Parallel()

	a := Hash("salt", "", []byte("key"))
	b := Hash("salt", "", []byte("key"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestHashDomainIsolation(t *testing.T) {
	t.Parallel()

	value := Hash("salt", "", []byte("k"))
	file := Hash("salt", "file", []byte("k"))
	assert.NotEqual(t, value, file, "different domains must not collide")
}

func TestHashKeyIsolation(t *testing.T) {
	t.Parallel()

	a := Hash("salt", "", []byte("k1"))
	b := Hash("salt", "", []byte("k2"))
	assert.NotEqual(t, a, b)
}

func TestHashSaltIsolation(t *testing.T) {
	t.Parallel()

	a := Hash("salt-a", "", []byte("k"))
	b := Hash("salt-b", "", []byte("k"))
	assert.NotEqual(t, a, b)
}

func TestPathShardDepth(t *testing.T) {
	t.Parallel()

	hash := Hash("salt", "", []byte("k"))

	p0 := Path("/root", hash, 0)
	require.Equal(t, "/root/"+hash, p0)

	p2 := Path("/root", hash, 2)
	require.Equal(t, "/root/"+hash[0:2]+"/"+hash[2:4]+"/"+hash, p2)

	p3 := Path("/root", hash, 3)
	require.Equal(t, "/root/"+hash[0:2]+"/"+hash[2:4]+"/"+hash[4:6]+"/"+hash, p3)
}

func TestPathClampsOutOfRangeDepth(t *testing.T) {
	t.Parallel()

	hash := Hash("salt", "", []byte("k"))

	assert.Equal(t, Path("/root", hash, 3), Path("/root", hash, 99))
	assert.Equal(t, Path("/root", hash, 0), Path("/root", hash, -5))
}
