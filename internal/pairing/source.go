// Package pairing groups classified import files into volume sources.
//
// The engine decides which files belong together as one importable volume:
// a metadata sidecar with its page images, a sidecar with its sibling
// archive, a chapter-structured directory, a bare archive, or a directory of
// images with no metadata at all. Matching is heuristic but deterministic;
// ambiguity falls through to a less specific pass, never to an error.
package pairing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/vmunix/tanko/internal/fileset"
)

// Kind discriminates the source layouts a pairing can produce.
type Kind string

const (
	// KindDirectory is a flat set of image files with optional external metadata.
	KindDirectory Kind = "directory"
	// KindArchive is a single archive expected to contain the volume.
	KindArchive Kind = "archive"
	// KindTOC is a chapter-per-subdirectory layout merged under one volume.
	KindTOC Kind = "toc"
)

// Source is one paired import unit.
//
// Exactly one of Files, Archive, or Chapters is populated, according to Kind.
// Metadata is the external sidecar blob; nil means the metadata is expected
// inside the archive, or absent entirely when ImageOnly is set.
type Source struct {
	ID          string
	Kind        Kind
	Metadata    fileset.Blob
	Files       map[string]fileset.Blob            // KindDirectory: relative path -> content
	Archive     fileset.Blob                       // KindArchive: the archive itself
	ArchiveName string                             // KindArchive: entry name, drives format detection
	Chapters    map[string]map[string]fileset.Blob // KindTOC: chapter -> relative path -> content

	// BasePath names the pairing: the metadata file's path without its
	// extension, or the image directory for image-only pairings.
	BasePath string

	// EstimatedSize is the total input bytes, used for memory budgeting.
	EstimatedSize int64

	// ImageOnly marks a pairing with no metadata sidecar anywhere.
	ImageOnly bool
}

// newSource allocates a source with a fresh queue-tracking ID.
func newSource(kind Kind, basePath string) *Source {
	return &Source{
		ID:       uuid.New().String(),
		Kind:     kind,
		BasePath: basePath,
	}
}

// NewArchiveSource wraps an archive discovered after pairing, such as one
// nested inside another archive, as its own import unit.
func NewArchiveSource(basePath, name string, blob fileset.Blob) *Source {
	src := newSource(KindArchive, basePath)
	src.Archive = blob
	src.ArchiveName = name
	src.EstimatedSize = blob.Size()
	return src
}

// VolumeHint is the volume display name derived from BasePath.
func (s *Source) VolumeHint() string {
	base := s.BasePath
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if base == "" {
		return "untitled"
	}
	return base
}

// SeriesHint is the series display name derived from BasePath: the segment
// above the volume, or the volume itself at the top level.
func (s *Source) SeriesHint() string {
	if i := strings.LastIndexByte(s.BasePath, '/'); i >= 0 {
		parent := s.BasePath[:i]
		if j := strings.LastIndexByte(parent, '/'); j >= 0 {
			parent = parent[j+1:]
		}
		if parent != "" {
			return parent
		}
	}
	return s.VolumeHint()
}

// PageCount returns the number of image files carried by a directory or TOC
// source; zero for archives, whose contents are unknown until extraction.
func (s *Source) PageCount() int {
	switch s.Kind {
	case KindDirectory:
		return len(s.Files)
	case KindTOC:
		n := 0
		for _, ch := range s.Chapters {
			n += len(ch)
		}
		return n
	default:
		return 0
	}
}

// Warning reports a file that could not join any pairing. Warnings are
// non-fatal: the rest of the import proceeds.
type Warning struct {
	Path   string
	Reason string
}

func (w Warning) String() string {
	return w.Path + ": " + w.Reason
}
