package fsutil

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// MatchesAny returns true if the slash-normalized path matches any glob.
func MatchesAny(path string, globs []string) bool {
	normalized := filepath.ToSlash(path)
	for _, g := range globs {
		if g == "" {
			continue
		}
		ok, err := doublestar.Match(g, normalized)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// excludesDir reports whether a "<dir>/**" exclude covers the whole subtree.
func excludesDir(dir string, exclude []string) bool {
	for _, g := range exclude {
		prefix, ok := strings.CutSuffix(g, "/**")
		if !ok || prefix == "" {
			continue
		}
		if matched, err := doublestar.Match(prefix, dir); err == nil && matched {
			return true
		}
	}
	return false
}

// ListFiles walks root and returns the slash-separated relative paths of
// files matching include and none of exclude, sorted.
func ListFiles(fsys afero.Fs, root string, include, exclude []string) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			if excludesDir(rel, exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if MatchesAny(rel, exclude) || !MatchesAny(rel, include) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
