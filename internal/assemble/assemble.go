// Package assemble turns a paired import source into a processed volume
// ready for the library: metadata resolved, declared pages matched to
// files, reading stats derived.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/maruel/natural"

	"github.com/vmunix/tanko/internal/fileset"
	"github.com/vmunix/tanko/internal/pairing"
	"github.com/vmunix/tanko/pkg/mokuro"
)

var (
	// ErrDuplicate means the volume is already in the library. Detected
	// before any write happens.
	ErrDuplicate = errors.New("volume already in library")

	// ErrDeclined means the user rejected a mismatched volume.
	ErrDeclined = errors.New("import declined")
)

// Store is the library surface the assembler needs: the pre-write
// duplicate check.
type Store interface {
	Exists(volumeID string) (bool, error)
}

// Confirmer answers whether a volume with missing or extra pages should
// be imported anyway.
type Confirmer interface {
	ConfirmMismatch(ctx context.Context, volume string, result MatchResult) (bool, error)
}

// Meta is the derived description of a processed volume. Identifiers are
// the metadata's declared UUIDs when present, otherwise derived from the
// normalized names, so re-imports of the same volume collide.
type Meta struct {
	SeriesID   string
	SeriesName string
	VolumeID   string
	VolumeName string
	PageCount  int
	TotalChars int
	SizeBytes  int64

	// Thumbnail is the first page file in natural sort order, so "2.jpg"
	// beats "10.jpg".
	Thumbnail string

	// Missing holds declared pages that never arrived; they stay in the
	// page list and can be backfilled by a later import.
	Missing []string

	// ImageOnly marks a volume built without OCR metadata.
	ImageOnly bool
}

// Page is a metadata page plus its cumulative character count, the running
// sum used for reading progress.
type Page struct {
	mokuro.Page
	CumChars int
}

// ProcessedVolume is everything the library needs to persist one volume.
// Built once, saved, then dropped.
type ProcessedVolume struct {
	Meta  Meta
	Pages []Page

	// Files maps library-relative path to content. Matched files are keyed
	// by their declared page path so stored layout follows the metadata;
	// extras keep their own names.
	Files map[string]fileset.Blob

	// Nested holds archives found inside this source, to be imported as
	// their own queue items.
	Nested []*pairing.Source
}

// Builder assembles processed volumes. A nil Confirmer declines every
// mismatched volume, which keeps unattended runs from silently importing
// broken data.
type Builder struct {
	store   Store
	confirm Confirmer
	logger  *slog.Logger
}

func NewBuilder(store Store, confirm Confirmer, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{store: store, confirm: confirm, logger: logger}
}

// Build assembles one source into a volume. For archive sources, extracted
// holds the archive's entries; for directory sources it is nil and the
// files come from the pairing itself.
//
// Returns ErrDuplicate if the volume is already stored and ErrDeclined if
// a page mismatch was rejected. Both abort only this source.
func (b *Builder) Build(ctx context.Context, src *pairing.Source, extracted []fileset.Entry) (*ProcessedVolume, error) {
	files, metaBlob, nested := b.collect(src, extracted)

	if metaBlob == nil {
		return b.buildImageOnly(src, files, nested)
	}

	raw, err := fileset.ReadAll(metaBlob)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	vol, err := mokuro.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	if vol.SeriesName() == "" {
		vol.Title = src.SeriesHint()
	}
	if vol.VolumeName == "" {
		vol.VolumeName = src.VolumeHint()
	}

	// Duplicate check comes first so a mismatch prompt is never wasted on
	// a volume that would be rejected anyway.
	volumeID := vol.VolumeID()
	if err := b.checkDuplicate(volumeID, vol.VolumeName); err != nil {
		return nil, err
	}

	actual := make([]string, 0, len(files))
	for path := range files {
		actual = append(actual, path)
	}
	sort.Strings(actual)

	res := MatchPages(vol.PagePaths(), actual)
	if !res.Clean() {
		if err := b.confirmMismatch(ctx, vol.VolumeName, res); err != nil {
			return nil, err
		}
	}

	// Re-key matched files by their declared page path so the stored
	// layout is exactly what the metadata references.
	stored := make(map[string]fileset.Blob, len(files))
	for declared, got := range res.Matched {
		stored[declared] = files[got]
	}
	for _, extra := range res.Extra {
		stored[extra] = files[extra]
	}

	pages := make([]Page, len(vol.Pages))
	cum := 0
	for i, p := range vol.Pages {
		cum += p.Chars()
		pages[i] = Page{Page: p, CumChars: cum}
	}

	missing := make([]string, 0, len(res.Missing))
	for _, m := range res.Missing {
		missing = append(missing, m.Path)
	}

	return &ProcessedVolume{
		Meta: Meta{
			SeriesID:   vol.SeriesID(),
			SeriesName: vol.SeriesName(),
			VolumeID:   volumeID,
			VolumeName: vol.VolumeName,
			PageCount:  len(pages),
			TotalChars: cum,
			SizeBytes:  totalSize(stored),
			Thumbnail:  firstNatural(stored),
			Missing:    missing,
		},
		Pages:  pages,
		Files:  stored,
		Nested: nested,
	}, nil
}

// collect flattens a source into page files, optional metadata, and nested
// archive sources. Archive entries are classified here; directory and
// chapter sources were classified during pairing.
func (b *Builder) collect(src *pairing.Source, extracted []fileset.Entry) (map[string]fileset.Blob, fileset.Blob, []*pairing.Source) {
	files := make(map[string]fileset.Blob)
	metaBlob := src.Metadata
	var nested []*pairing.Source

	for path, blob := range src.Files {
		files[path] = blob
	}
	for chapter, pages := range src.Chapters {
		for path, blob := range pages {
			files[chapter+"/"+path] = blob
		}
	}

	for _, entry := range extracted {
		f := fileset.Classify(entry)
		switch f.Category {
		case fileset.CategoryImage:
			files[f.Path] = f.Data
		case fileset.CategoryMetadata:
			// A paired sidecar always beats metadata found inside the
			// archive; the first in-archive sidecar wins otherwise.
			if metaBlob == nil {
				metaBlob = f.Data
			} else {
				b.logger.Debug("ignoring extra metadata entry", "path", f.Path)
			}
		case fileset.CategoryArchive:
			ns := pairing.NewArchiveSource(src.BasePath+"/"+f.Stem, f.Name, f.Data)
			nested = append(nested, ns)
		default:
			b.logger.Debug("ignoring archive entry", "path", f.Path)
		}
	}
	return files, metaBlob, nested
}

// buildImageOnly synthesizes a volume for a source with no OCR metadata:
// every image becomes a page with no text blocks, ordered naturally.
func (b *Builder) buildImageOnly(src *pairing.Source, files map[string]fileset.Blob, nested []*pairing.Source) (*ProcessedVolume, error) {
	if len(files) == 0 && len(nested) > 0 {
		// Wrapper archive: nothing to import here, only nested work.
		return &ProcessedVolume{Nested: nested}, nil
	}

	vol := &mokuro.Volume{
		Title:      src.SeriesHint(),
		VolumeName: src.VolumeHint(),
	}
	volumeID := vol.VolumeID()
	if err := b.checkDuplicate(volumeID, vol.VolumeName); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Sort(natural.StringSlice(paths))

	pages := make([]Page, len(paths))
	for i, p := range paths {
		pages[i] = Page{Page: mokuro.Page{ImgPath: p}}
	}

	return &ProcessedVolume{
		Meta: Meta{
			SeriesID:   mokuro.SeriesID(vol.Title),
			SeriesName: vol.Title,
			VolumeID:   volumeID,
			VolumeName: vol.VolumeName,
			PageCount:  len(pages),
			SizeBytes:  totalSize(files),
			Thumbnail:  firstNatural(files),
			ImageOnly:  true,
		},
		Pages:  pages,
		Files:  files,
		Nested: nested,
	}, nil
}

func (b *Builder) confirmMismatch(ctx context.Context, volume string, res MatchResult) error {
	if b.confirm == nil {
		return fmt.Errorf("%w: %s: %d missing, %d extra pages",
			ErrDeclined, volume, len(res.Missing), len(res.Extra))
	}
	ok, err := b.confirm.ConfirmMismatch(ctx, volume, res)
	if err != nil {
		return fmt.Errorf("confirm mismatch: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDeclined, volume)
	}
	b.logger.Info("importing despite page mismatch",
		"volume", volume, "missing", len(res.Missing), "extra", len(res.Extra))
	return nil
}

func (b *Builder) checkDuplicate(volumeID, volume string) error {
	if b.store == nil {
		return nil
	}
	exists, err := b.store.Exists(volumeID)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, volume)
	}
	return nil
}

func totalSize(files map[string]fileset.Blob) int64 {
	var total int64
	for _, blob := range files {
		total += blob.Size()
	}
	return total
}

// firstNatural picks the naturally-first file path, the volume thumbnail.
func firstNatural(files map[string]fileset.Blob) string {
	first := ""
	for path := range files {
		if first == "" || natural.Less(path, first) {
			first = path
		}
	}
	return first
}
