package fileset

import "strings"

// Category is the import-relevant kind of a file.
type Category string

const (
	CategoryMetadata Category = "metadata"
	CategoryImage    Category = "image"
	CategoryArchive  Category = "archive"
	CategoryOther    Category = "other"
)

// imageExts are the page image formats the reader can display.
var imageExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"bmp":  true,
	"avif": true,
}

// archiveExts are the volume archive formats the extractor can open.
var archiveExts = map[string]bool{
	"zip": true,
	"cbz": true,
	"rar": true,
	"cbr": true,
}

// IsImageExt reports whether ext (lowercase, no dot) is a page image format.
func IsImageExt(ext string) bool { return imageExts[ext] }

// IsArchiveExt reports whether ext (lowercase, no dot) is an archive format.
func IsArchiveExt(ext string) bool { return archiveExts[ext] }

// File is a classified entry with its derived path segments.
// All fields derive purely from Entry.Path; classifying the same entry twice
// yields the same File.
type File struct {
	Entry

	Category Category
	Parent   string // directory part, "" at the top level
	Name     string // last path segment
	Stem     string // Name minus extension
	Ext      string // lowercased extension without the dot, "" if none
}

// NormalizePath unifies separators and strips leading "./" and "/" so that
// paths from different origins compare equal.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return strings.TrimPrefix(p, "/")
}

// SplitPath splits a normalized path into its parent directory and filename.
func SplitPath(p string) (parent, name string) {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i], p[i+1:]
	}
	return "", p
}

// SplitName splits a filename into stem and lowercased extension.
// The extension is the part after the last dot; a name without a dot has an
// empty extension.
func SplitName(name string) (stem, ext string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], strings.ToLower(name[i+1:])
	}
	return name, ""
}

// Classify derives the category and path segments for one entry.
// Pure: no I/O, no error cases. Unknown extensions classify as CategoryOther.
func Classify(e Entry) File {
	path := NormalizePath(e.Path)
	parent, name := SplitPath(path)
	stem, ext := SplitName(name)

	f := File{
		Entry:    Entry{Path: path, Data: e.Data},
		Category: CategoryOther,
		Parent:   parent,
		Name:     name,
		Stem:     stem,
		Ext:      ext,
	}

	switch {
	case ext == "mokuro":
		f.Category = CategoryMetadata
	case imageExts[ext]:
		f.Category = CategoryImage
	case archiveExts[ext]:
		f.Category = CategoryArchive
	}
	return f
}

// ClassifyAll filters junk entries and classifies the rest, preserving input
// order.
func ClassifyAll(entries []Entry) []File {
	files := make([]File, 0, len(entries))
	for _, e := range entries {
		if IsJunk(e.Path) {
			continue
		}
		files = append(files, Classify(e))
	}
	return files
}
