// Package archive extracts manga volume archives (zip/cbz and rar/cbr)
// into temporary storage for import.
//
// Extraction is bounded: at most a pool-configured batch of entry payloads
// (BatchSize by default) is decompressed concurrently, so peak memory stays
// proportional to the batch rather than the archive. Extracted entries are
// written under a Pool-owned temporary directory and handed back as
// lazily-opened blobs; the directory lives until the last Pool user
// releases it.
package archive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vmunix/tanko/internal/fileset"
)

// BatchSize is the number of zip entries decompressed concurrently.
// Rar archives are solid streams and always extract sequentially.
const BatchSize = 5

var (
	// ErrUnsupportedFormat means the file name carries no recognized
	// archive extension.
	ErrUnsupportedFormat = errors.New("unsupported archive format")

	// ErrCorrupt wraps failures to open or parse an archive at all.
	// Individual bad entries are skipped, not fatal.
	ErrCorrupt = errors.New("corrupt archive")
)

// Format identifies the archive container.
type Format int

const (
	FormatUnknown Format = iota
	FormatZip
	FormatRar
)

func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatRar:
		return "rar"
	default:
		return "unknown"
	}
}

// Detect picks the format from the file name extension.
func Detect(name string) Format {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return FormatUnknown
	}
	switch strings.ToLower(name[dot+1:]) {
	case "zip", "cbz":
		return FormatZip
	case "rar", "cbr":
		return FormatRar
	default:
		return FormatUnknown
	}
}

// Entry describes one file inside an archive without its contents.
type Entry struct {
	Path string
	Size int64
}

// Progress is called after each entry finishes, extracted or skipped.
// done counts finished entries; total is fixed for the whole run.
type Progress func(done, total int)

// Options adjust a single extraction run.
type Options struct {
	// Filter restricts extraction to entries whose normalized path it
	// accepts. Nil extracts every non-junk file entry.
	Filter func(path string) bool

	// Progress, when set, receives per-entry completion updates.
	Progress Progress
}

// usable reports whether an archive entry should be listed or extracted:
// a real file, not junk, with a path that stays inside the archive root.
func usable(path string, isDir bool) bool {
	if isDir || path == "" {
		return false
	}
	if fileset.IsJunk(path) {
		return false
	}
	return safePath(path)
}

// safePath rejects absolute entry names and any ".." traversal segment.
func safePath(path string) bool {
	if strings.HasPrefix(path, "/") {
		return false
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}

func corruptErr(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
}
