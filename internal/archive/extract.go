package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/vmunix/tanko/internal/fileset"
)

// List returns the usable file entries of an archive without extracting
// anything. Junk, directories, and unsafe paths are already filtered out.
func (e *Extractor) List(blob fileset.Blob, name string) ([]Entry, error) {
	switch Detect(name) {
	case FormatZip:
		return e.listZip(blob, name)
	case FormatRar:
		return e.listRar(blob, name)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// Extract unpacks an archive into the pool's temporary storage and returns
// the extracted entries with archive-relative paths. Entries that fail to
// extract are logged and dropped; the rest of the archive still imports.
func (e *Extractor) Extract(ctx context.Context, blob fileset.Blob, name string, opts Options) ([]fileset.Entry, error) {
	format := Detect(name)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	dest, err := e.pool.nextDir()
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatZip:
		return e.extractZip(ctx, blob, name, dest, opts)
	default:
		return e.extractRar(ctx, blob, name, dest, opts)
	}
}

// openReaderAt provides random access over a blob. File-backed blobs seek
// in place; anything else is buffered in memory.
func openReaderAt(blob fileset.Blob) (io.ReaderAt, int64, func() error, error) {
	if mb, ok := blob.(fileset.MemBlob); ok {
		return bytes.NewReader(mb), mb.Size(), func() error { return nil }, nil
	}

	rc, err := blob.Open()
	if err != nil {
		return nil, 0, nil, err
	}
	if ra, ok := rc.(io.ReaderAt); ok {
		return ra, blob.Size(), rc.Close, nil
	}

	data, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return nil, 0, nil, err
	}
	return bytes.NewReader(data), int64(len(data)), func() error { return nil }, nil
}

// progress serializes completion callbacks from concurrent workers.
type progress struct {
	mu    sync.Mutex
	fn    Progress
	done  int
	total int
}

func newProgress(fn Progress, total int) *progress {
	return &progress{fn: fn, total: total}
}

func (p *progress) step() {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	p.done++
	p.fn(p.done, p.total)
	p.mu.Unlock()
}
