package fileset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CollectDir walks a directory into entries whose paths are rooted at the
// directory's own name, mirroring how a dropped folder presents itself
// ("Series/vol1.mokuro", not an absolute path). Junk subtrees are skipped
// during the walk so they never pay an open.
func CollectDir(root string) ([]Entry, error) {
	root = filepath.Clean(root)
	base := filepath.Base(root)

	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		name := NormalizePath(filepath.ToSlash(rel))

		if d.IsDir() {
			if name != "." && IsJunk(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsJunk(name) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		entries = append(entries, Entry{
			Path: base + "/" + name,
			Data: NewPathBlob(path, info.Size()),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return entries, nil
}

// Collect resolves a mixed list of file and directory arguments into entries,
// the way a multi-item drop would. Directories are walked recursively; plain
// files appear under their own basename.
func Collect(paths []string) ([]Entry, error) {
	var entries []Entry
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if info.IsDir() {
			dirEntries, err := CollectDir(p)
			if err != nil {
				return nil, err
			}
			entries = append(entries, dirEntries...)
			continue
		}

		name := filepath.Base(p)
		if IsJunk(name) {
			continue
		}
		entries = append(entries, Entry{
			Path: name,
			Data: NewPathBlob(p, info.Size()),
		})
	}
	return entries, nil
}

// TrimBase removes the leading path component, used when a pairing's
// relative structure should start below its base directory.
func TrimBase(path, base string) string {
	if base == "" {
		return path
	}
	return strings.TrimPrefix(strings.TrimPrefix(path, base), "/")
}
