// Package fileset models the raw files handed to an import and their
// classification. Entries arrive from a dropped directory tree or out of an
// extracted archive; both go through the same junk filtering and
// classification so pairing results do not depend on where a file came from.
package fileset

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Blob is lazily readable file content. Implementations must be safe to
// open more than once.
type Blob interface {
	// Open returns a reader over the content. The caller closes it.
	Open() (io.ReadCloser, error)

	// Size returns the content length in bytes.
	Size() int64
}

// Entry is one raw input file: a relative path plus its content.
// Immutable once captured.
type Entry struct {
	Path string
	Data Blob
}

// PathBlob is a Blob backed by a file on disk, opened on demand.
type PathBlob struct {
	path string
	size int64
}

// NewPathBlob creates a Blob for a file on disk with a known size.
func NewPathBlob(path string, size int64) *PathBlob {
	return &PathBlob{path: path, size: size}
}

// StatBlob creates a Blob for a file on disk, reading its size from the
// filesystem.
func StatBlob(path string) (*PathBlob, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("stat %s: is a directory", path)
	}
	return &PathBlob{path: path, size: info.Size()}, nil
}

func (b *PathBlob) Open() (io.ReadCloser, error) {
	f, err := os.Open(b.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", b.path, err)
	}
	return f, nil
}

func (b *PathBlob) Size() int64 { return b.size }

// MemBlob is a Blob held entirely in memory.
type MemBlob []byte

func (b MemBlob) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (b MemBlob) Size() int64 { return int64(len(b)) }

// ReadAll reads the full content of a blob.
func ReadAll(b Blob) ([]byte, error) {
	rc, err := b.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}
