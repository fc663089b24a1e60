package library

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/vmunix/tanko/internal/assemble"
	"github.com/vmunix/tanko/internal/fileset"
)

// SaveVolume persists a processed volume: image files under the library
// root first, then the catalog records in one transaction. Any failure
// removes the files written for this volume again, so a volume is never
// half present.
func (s *Store) SaveVolume(pv *assemble.ProcessedVolume) (*Volume, error) {
	exists, err := s.Exists(pv.Meta.VolumeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("save volume %q: %w", pv.Meta.VolumeName, ErrDuplicate)
	}

	relDir := path.Join(dirName(pv.Meta.SeriesName), dirName(pv.Meta.VolumeName))
	absDir := filepath.Join(s.root, filepath.FromSlash(relDir))
	if err := ValidatePath(absDir, s.root); err != nil {
		return nil, fmt.Errorf("volume directory %q: %w", relDir, err)
	}
	_, statErr := os.Stat(absDir)
	fresh := os.IsNotExist(statErr)

	written, err := s.writeFiles(absDir, relDir, pv.Files)
	if err != nil {
		s.cleanup(written, absDir, fresh)
		return nil, err
	}

	v := &Volume{
		ID:         pv.Meta.VolumeID,
		SeriesID:   pv.Meta.SeriesID,
		SeriesName: pv.Meta.SeriesName,
		Name:       pv.Meta.VolumeName,
		PageCount:  pv.Meta.PageCount,
		Chars:      pv.Meta.TotalChars,
		SizeBytes:  pv.Meta.SizeBytes,
		Missing:    pv.Meta.Missing,
		ImageOnly:  pv.Meta.ImageOnly,
	}
	if pv.Meta.Thumbnail != "" {
		v.Thumbnail = path.Join(relDir, pv.Meta.Thumbnail)
	}

	if err := s.saveRecords(v, pv.Pages, written); err != nil {
		s.cleanup(written, absDir, fresh)
		return nil, err
	}
	return v, nil
}

// dirName sanitizes a display name into a directory name, with a fallback
// for names that sanitize away entirely.
func dirName(name string) string {
	clean := SanitizeFilename(name)
	if clean == "" {
		return "unnamed"
	}
	return clean
}

// writtenFile records one image written to disk, path library-relative.
type writtenFile struct {
	rel  string
	size int64
}

// writeFiles writes the volume's blobs under absDir in path order and
// returns what landed on disk, including partial results on error so the
// caller can clean up.
func (s *Store) writeFiles(absDir, relDir string, blobs map[string]fileset.Blob) ([]writtenFile, error) {
	keys := make([]string, 0, len(blobs))
	for k := range blobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	written := make([]writtenFile, 0, len(keys))
	for _, rel := range keys {
		dest := filepath.Join(absDir, filepath.FromSlash(rel))
		if err := ValidatePath(dest, s.root); err != nil {
			return written, fmt.Errorf("file %q: %w", rel, err)
		}
		size, err := writeBlob(blobs[rel], dest)
		if err != nil {
			return written, fmt.Errorf("write %q: %w", rel, err)
		}
		written = append(written, writtenFile{rel: path.Join(relDir, rel), size: size})
	}
	return written, nil
}

// writeBlob writes one blob to dest, creating parent directories.
// Returns ErrDestinationExists if dest is already present; partial output
// is removed on failure.
func writeBlob(blob fileset.Blob, dest string) (int64, error) {
	if _, err := os.Stat(dest); err == nil {
		return 0, ErrDestinationExists
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, fmt.Errorf("%w: create directory: %v", ErrWriteFailed, err)
	}

	src, err := blob.Open()
	if err != nil {
		return 0, fmt.Errorf("%w: open source: %v", ErrWriteFailed, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("%w: create destination: %v", ErrWriteFailed, err)
	}
	defer func() { _ = dst.Close() }()

	size, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(dest)
		return 0, fmt.Errorf("%w: copy content: %v", ErrWriteFailed, err)
	}

	if err := dst.Sync(); err != nil {
		return 0, fmt.Errorf("%w: sync: %v", ErrWriteFailed, err)
	}

	return size, nil
}

// saveRecords inserts the volume, page, and file rows in one transaction.
func (s *Store) saveRecords(v *Volume, pages []assemble.Page, written []writtenFile) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.AddVolume(v); err != nil {
		return err
	}
	for i := range pages {
		p := &Page{
			VolumeID:  v.ID,
			Index:     i,
			ImgPath:   pages[i].ImgPath,
			ImgWidth:  pages[i].ImgWidth,
			ImgHeight: pages[i].ImgHeight,
			Chars:     pages[i].Chars(),
			CumChars:  pages[i].CumChars,
			Blocks:    pages[i].Blocks,
		}
		if err := tx.AddPage(p); err != nil {
			return err
		}
	}
	for _, w := range written {
		f := &File{VolumeID: v.ID, Path: w.rel, SizeBytes: w.size}
		if err := tx.AddFile(f); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// cleanup removes files written for a failed save. A directory that
// existed before the save keeps its prior content, only the new files go.
func (s *Store) cleanup(written []writtenFile, absDir string, fresh bool) {
	if fresh {
		_ = os.RemoveAll(absDir)
		// The series directory, if this volume was the only thing in it.
		_ = os.Remove(filepath.Dir(absDir))
		return
	}
	for _, w := range written {
		_ = os.Remove(filepath.Join(s.root, filepath.FromSlash(w.rel)))
	}
}

// DeleteVolume removes a volume's catalog records and its files under the
// library root. Deleting an absent volume is not an error. File removal
// is best effort: directories emptied by the removal are pruned, shared
// ones stay.
func (s *Store) DeleteVolume(id string) error {
	files, err := s.ListFiles(id)
	if err != nil {
		return err
	}

	if err := deleteVolume(s.db, id); err != nil {
		return err
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		_ = os.Remove(filepath.Join(s.root, filepath.FromSlash(f.Path)))
		for dir := path.Dir(f.Path); dir != "." && dir != "/"; dir = path.Dir(dir) {
			dirs[dir] = true
		}
	}

	// A child path is always longer than its parent, so longest-first
	// removes leaf directories before the ones containing them.
	ordered := make([]string, 0, len(dirs))
	for dir := range dirs {
		ordered = append(ordered, dir)
	}
	sort.Slice(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })
	for _, dir := range ordered {
		_ = os.Remove(filepath.Join(s.root, filepath.FromSlash(dir)))
	}

	return nil
}
