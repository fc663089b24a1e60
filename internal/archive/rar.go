package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nwaples/rardecode"

	"github.com/vmunix/tanko/internal/fileset"
)

func (e *Extractor) listRar(blob fileset.Blob, name string) ([]Entry, error) {
	rc, err := blob.Open()
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	rr, err := rardecode.NewReader(rc, "")
	if err != nil {
		return nil, corruptErr(name, err)
	}

	var out []Entry
	for {
		hdr, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, corruptErr(name, err)
		}
		path := fileset.NormalizePath(hdr.Name)
		if !usable(path, hdr.IsDir) {
			continue
		}
		out = append(out, Entry{Path: path, Size: hdr.UnPackedSize})
	}
	return out, nil
}

// extractRar walks the solid stream sequentially: rar cannot seek between
// entries, so extraction holds one payload at a time. The archive is listed
// first so progress can report an accurate total.
func (e *Extractor) extractRar(ctx context.Context, blob fileset.Blob, name, dest string, opts Options) ([]fileset.Entry, error) {
	listed, err := e.listRar(blob, name)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, ent := range listed {
		if opts.Filter == nil || opts.Filter(ent.Path) {
			total++
		}
	}
	prog := newProgress(opts.Progress, total)

	rc, err := blob.Open()
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	rr, err := rardecode.NewReader(rc, "")
	if err != nil {
		return nil, corruptErr(name, err)
	}

	var out []fileset.Entry
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, corruptErr(name, err)
		}
		path := fileset.NormalizePath(hdr.Name)
		if !usable(path, hdr.IsDir) {
			continue
		}
		if opts.Filter != nil && !opts.Filter(path) {
			continue
		}

		// Count against the shared batch budget even though this stream
		// only ever has one payload in flight.
		e.pool.sem <- struct{}{}
		entry, err := writeRarEntry(rr, path, dest)
		<-e.pool.sem

		if err != nil {
			e.pool.logger.Warn("skipping archive entry",
				"archive", name, "path", path, "error", err)
		} else {
			out = append(out, *entry)
		}
		prog.step()
	}
	return out, nil
}

func writeRarEntry(r io.Reader, path, dest string) (*fileset.Entry, error) {
	target := filepath.Join(dest, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, err
	}

	out, err := os.Create(target)
	if err != nil {
		return nil, err
	}
	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(target)
		return nil, err
	}
	return &fileset.Entry{Path: path, Data: fileset.NewPathBlob(target, n)}, nil
}
