// Package library manages the manga catalog: volumes with their pages and
// files tracked in SQLite, and the image files themselves stored under the
// library root directory.
package library

import (
	"time"

	"github.com/vmunix/tanko/pkg/mokuro"
)

// Volume is one imported manga volume.
type Volume struct {
	ID         string // volume UUID, declared by the metadata or derived from names
	SeriesID   string
	SeriesName string
	Name       string
	PageCount  int
	Chars      int
	SizeBytes  int64
	Thumbnail  string   // library-relative path of the cover image
	Missing    []string // declared pages that never arrived
	ImageOnly  bool
	AddedAt    time.Time
	UpdatedAt  time.Time
}

// Series is the per-series rollup used by listings.
type Series struct {
	ID         string
	Name       string
	Volumes    int
	TotalChars int
	SizeBytes  int64
}

// Page is one stored page of a volume: its image path, reading stats, and
// OCR text blocks.
type Page struct {
	VolumeID  string
	Index     int
	ImgPath   string
	ImgWidth  int
	ImgHeight int
	Chars     int
	CumChars  int
	Blocks    []mokuro.Block
}

// File is one image file on disk belonging to a volume. Path is relative
// to the library root.
type File struct {
	ID        int64
	VolumeID  string
	Path      string
	SizeBytes int64
	AddedAt   time.Time
}

// VolumeFilter specifies criteria for listing volumes.
type VolumeFilter struct {
	SeriesID   *string
	SeriesName *string
	ImageOnly  *bool
	Limit      int // 0 = no limit
	Offset     int
}
