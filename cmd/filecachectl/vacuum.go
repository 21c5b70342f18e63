package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nickmsk9/file-cache/internal/metaenc"
)

// These mirror the unexported suffixes the filecache package uses for its
// on-disk layout. Vacuum operates purely on the filesystem, from outside
// the package, so it cannot reuse them directly.
const (
	metaSuffix     = ".php"
	binSuffix      = ".bin"
	fileMetaSuffix = ".meta.php"
)

// fileMetaBody is the subset of a file-store .meta.php body vacuum needs: the
// path of the content file it owns. It mirrors filecache's unexported
// fileMeta shape just enough to decode that one field.
type fileMetaBody struct {
	P string `json:"p"`
}

// vacuumOrphans walks root looking for .bin files that no .php meta file
// references: an external payload left behind by a crash between writing
// the bin and publishing its meta, or a stale sibling of an entry that was
// later rewritten inline. File-store content files (referenced from inside a
// .meta.php body rather than by filename convention) are registered as
// referenced too, so a live file-store entry is never mistaken for an
// orphaned value-store .bin. It returns the number of orphans found (and,
// when dryRun is false, removed).
func vacuumOrphans(root string, dryRun bool) (int, error) {
	referenced := make(map[string]struct{})
	var binCandidates []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // best-effort sweep, keep walking
		}
		if d.IsDir() {
			return nil
		}
		switch {
		case strings.HasSuffix(path, fileMetaSuffix):
			// A file-store meta's companion content path is recorded inside
			// the meta body itself (field "p"), not derivable from the meta's
			// own filename, so it has to be decoded and registered as
			// referenced before the orphan pass runs below.
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			var body fileMetaBody
			if err := metaenc.Decode(raw, &body); err != nil || body.P == "" {
				return nil
			}
			referenced[body.P] = struct{}{}
		case strings.HasSuffix(path, metaSuffix):
			base := strings.TrimSuffix(path, metaSuffix)
			referenced[base+binSuffix] = struct{}{}
		case strings.HasSuffix(path, binSuffix):
			binCandidates = append(binCandidates, path)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, bin := range binCandidates {
		if _, ok := referenced[bin]; ok {
			continue
		}
		removed++
		if !dryRun {
			if err := os.Remove(bin); err != nil && !os.IsNotExist(err) {
				return removed, err
			}
		}
	}
	return removed, nil
}
