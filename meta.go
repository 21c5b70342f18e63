package filecache

import (
	"github.com/nickmsk9/file-cache/internal/codec"
	"github.com/nickmsk9/file-cache/internal/keying"
)

const (
	fileDomain = "file"

	valueMetaSuffix = ".php"
	valueBinSuffix  = ".bin"
	lockSuffix      = ".lock"

	fileMetaSuffix = ".meta.php"
)

// valueMeta is the authoritative record for a Value Store entry.
type valueMeta struct {
	E int64  `json:"e"`
	I int    `json:"i"`
	C int    `json:"c"`
	S string `json:"s"`
	V string `json:"v,omitempty"`
}

func (m valueMeta) inline() bool     { return m.I == 1 }
func (m valueMeta) compressed() bool { return m.C == 1 }

// fileMeta is the authoritative record for a File Store entry.
type fileMeta struct {
	E int64  `json:"e"`
	P string `json:"p"`
}

// slot bundles the filesystem paths derived from a key.
type slot struct {
	base string // path without suffix
}

func valueSlot(root, salt string, shardDepth int, key []byte) slot {
	hash := keying.Hash(salt, "", key)
	return slot{base: keying.Path(root, hash, shardDepth)}
}

func fileSlot(root, salt string, shardDepth int, key []byte) slot {
	hash := keying.Hash(salt, fileDomain, key)
	return slot{base: keying.Path(root, hash, shardDepth)}
}

func (s slot) metaPath() string        { return s.base + valueMetaSuffix }
func (s slot) binPath() string         { return s.base + valueBinSuffix }
func (s slot) lockPath() string        { return s.base + lockSuffix }
func (s slot) fileMetaPath() string    { return s.base + fileMetaSuffix }
func (s slot) contentPath(ext string) string {
	if ext == "" {
		ext = "bin"
	}
	return s.base + "." + ext
}

// codecTagFromString is a defensive conversion used when reading a stored
// tag back from disk.
func codecTagFromString(s string) codec.Tag { return codec.Tag(s) }
