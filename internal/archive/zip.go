package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/tanko/internal/fileset"
)

func (e *Extractor) listZip(blob fileset.Blob, name string) ([]Entry, error) {
	ra, size, closeFn, err := openReaderAt(blob)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", name, err)
	}
	defer func() { _ = closeFn() }()

	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, corruptErr(name, err)
	}

	var out []Entry
	for _, f := range zr.File {
		path := fileset.NormalizePath(f.Name)
		if !usable(path, f.FileInfo().IsDir()) {
			continue
		}
		out = append(out, Entry{Path: path, Size: int64(f.UncompressedSize64)})
	}
	return out, nil
}

// extractZip unpacks entries concurrently. The pool semaphore bounds how
// many entries are being decompressed at once across every extractor
// sharing the pool, keeping peak memory at BatchSize payloads.
func (e *Extractor) extractZip(ctx context.Context, blob fileset.Blob, name, dest string, opts Options) ([]fileset.Entry, error) {
	ra, size, closeFn, err := openReaderAt(blob)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", name, err)
	}
	defer func() { _ = closeFn() }()

	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, corruptErr(name, err)
	}

	var candidates []*zip.File
	for _, f := range zr.File {
		path := fileset.NormalizePath(f.Name)
		if !usable(path, f.FileInfo().IsDir()) {
			continue
		}
		if opts.Filter != nil && !opts.Filter(path) {
			continue
		}
		candidates = append(candidates, f)
	}

	// Results keep archive order; failed slots stay nil and are dropped.
	results := make([]*fileset.Entry, len(candidates))
	prog := newProgress(opts.Progress, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.pool.batch)
	for i, f := range candidates {
		i, f := i, f // per-iteration copies; required while go.mod targets go < 1.22
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case e.pool.sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-e.pool.sem }()

			path := fileset.NormalizePath(f.Name)
			entry, err := writeZipEntry(f, path, dest)
			if err != nil {
				e.pool.logger.Warn("skipping archive entry",
					"archive", name, "path", path, "error", err)
			} else {
				results[i] = entry
			}
			prog.step()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]fileset.Entry, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// writeZipEntry streams one entry to disk. The zip reader verifies the
// entry checksum as the copy drains it, so corrupt entries fail here.
func writeZipEntry(f *zip.File, path, dest string) (*fileset.Entry, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	target := filepath.Join(dest, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, err
	}

	out, err := os.Create(target)
	if err != nil {
		return nil, err
	}
	n, err := io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(target)
		return nil, err
	}
	return &fileset.Entry{Path: path, Data: fileset.NewPathBlob(target, n)}, nil
}
