package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/tanko/internal/fileset"
)

func classify(paths ...string) []fileset.File {
	entries := make([]fileset.Entry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, fileset.Entry{Path: p, Data: fileset.MemBlob(p)})
	}
	return fileset.ClassifyAll(entries)
}

func fileKeys(src *Source) []string {
	keys := make([]string, 0, len(src.Files))
	for k := range src.Files {
		keys = append(keys, k)
	}
	return keys
}

func TestPairSameDirectory(t *testing.T) {
	sources, warnings := Pair(classify(
		"Series/vol1.mokuro",
		"Series/001.jpg",
		"Series/002.jpg",
	))

	require.Len(t, sources, 1)
	assert.Empty(t, warnings)

	src := sources[0]
	assert.Equal(t, KindDirectory, src.Kind)
	assert.Equal(t, "Series/vol1", src.BasePath)
	assert.NotNil(t, src.Metadata)
	assert.ElementsMatch(t, []string{"001.jpg", "002.jpg"}, fileKeys(src))
	assert.Equal(t, "vol1", src.VolumeHint())
	assert.Equal(t, "Series", src.SeriesHint())
}

func TestPairSameBranch(t *testing.T) {
	sources, warnings := Pair(classify(
		"Series/vol1.mokuro",
		"Series/vol1/001.jpg",
		"Series/vol1/extra/002.jpg",
	))

	require.Len(t, sources, 1)
	assert.Empty(t, warnings)

	src := sources[0]
	assert.Equal(t, KindDirectory, src.Kind)
	assert.Equal(t, "Series/vol1", src.BasePath)
	assert.ElementsMatch(t, []string{"vol1/001.jpg", "vol1/extra/002.jpg"}, fileKeys(src))
}

// A same-name directory on another branch must never be claimed.
func TestPairBranchIsolation(t *testing.T) {
	sources, warnings := Pair(classify(
		"SeriesA/vol1.mokuro",
		"SeriesB/vol1/001.jpg",
	))

	require.Len(t, sources, 1)
	require.Len(t, warnings, 1)

	assert.True(t, sources[0].ImageOnly)
	assert.Equal(t, "SeriesB/vol1", sources[0].BasePath)
	assert.Equal(t, "SeriesA/vol1.mokuro", warnings[0].Path)
}

// Passes run globally in priority order: a same-directory match for one
// metadata file beats a branch match for another, regardless of input order.
func TestPairPassOrderBeatsInputOrder(t *testing.T) {
	sources, warnings := Pair(classify(
		"X/v.mokuro",        // branch candidate for X/v/
		"X/v/nested.mokuro", // same-directory candidate for the same images
		"X/v/001.jpg",
		"X/v/002.jpg",
	))

	require.Len(t, sources, 1)
	require.Len(t, warnings, 1)

	src := sources[0]
	assert.Equal(t, "X/v/nested", src.BasePath)
	assert.ElementsMatch(t, []string{"001.jpg", "002.jpg"}, fileKeys(src))
	assert.Equal(t, "X/v.mokuro", warnings[0].Path)
}

func TestPairSiblingArchive(t *testing.T) {
	sources, warnings := Pair(classify(
		"Series/vol1.mokuro",
		"Series/vol1.cbz",
	))

	require.Len(t, sources, 1)
	assert.Empty(t, warnings)

	src := sources[0]
	assert.Equal(t, KindArchive, src.Kind)
	assert.Equal(t, "Series/vol1", src.BasePath)
	assert.Equal(t, "vol1.cbz", src.ArchiveName)
	assert.NotNil(t, src.Metadata)
	assert.NotNil(t, src.Archive)
}

// Archive pairing requires the same parent directory, not just the same
// stem. Two series can both ship a "vol1".
func TestPairArchiveRequiresSameParent(t *testing.T) {
	sources, warnings := Pair(classify(
		"SeriesA/vol1.mokuro",
		"SeriesB/vol1.cbz",
	))

	require.Len(t, sources, 1)
	require.Len(t, warnings, 1)

	src := sources[0]
	assert.Equal(t, KindArchive, src.Kind)
	assert.Nil(t, src.Metadata)
	assert.Equal(t, "SeriesB/vol1", src.BasePath)
	assert.Equal(t, "SeriesA/vol1.mokuro", warnings[0].Path)
}

func TestPairTOC(t *testing.T) {
	sources, warnings := Pair(classify(
		"Series/series.mokuro",
		"Series/ch1/001.jpg",
		"Series/ch1/002.jpg",
		"Series/ch2/001.jpg",
	))

	require.Len(t, sources, 1)
	assert.Empty(t, warnings)

	src := sources[0]
	assert.Equal(t, KindTOC, src.Kind)
	assert.Equal(t, "Series/series", src.BasePath)
	require.Len(t, src.Chapters, 2)
	assert.Len(t, src.Chapters["ch1"], 2)
	assert.Len(t, src.Chapters["ch2"], 1)
	assert.Contains(t, src.Chapters["ch1"], "001.jpg")
	assert.Equal(t, 3, src.PageCount())
}

// Sibling images disqualify the table-of-contents layout even when another
// pass already claimed them.
func TestPairTOCRejectedBySiblingImages(t *testing.T) {
	sources, warnings := Pair(classify(
		"S/a.mokuro",
		"S/b.mokuro",
		"S/001.jpg",
		"S/ch1/001.jpg",
		"S/ch2/001.jpg",
	))

	// a.mokuro claims the sibling image; b.mokuro must not fall through to
	// the chapter layout and instead becomes an orphan.
	require.Len(t, warnings, 1)
	assert.Equal(t, "S/b.mokuro", warnings[0].Path)

	require.Len(t, sources, 3)
	assert.Equal(t, KindDirectory, sources[0].Kind)
	assert.True(t, sources[1].ImageOnly)
	assert.True(t, sources[2].ImageOnly)
}

// One chapter directory is not a table of contents.
func TestPairTOCRequiresTwoChapters(t *testing.T) {
	sources, warnings := Pair(classify(
		"Series/series.mokuro",
		"Series/ch1/001.jpg",
	))

	require.Len(t, sources, 1)
	require.Len(t, warnings, 1)

	assert.True(t, sources[0].ImageOnly)
	assert.Equal(t, "Series/series.mokuro", warnings[0].Path)
	assert.Equal(t, "metadata sidecar with no matching images or archive", warnings[0].Reason)
}

func TestPairStandaloneArchive(t *testing.T) {
	sources, warnings := Pair(classify("drop.cbz"))

	require.Len(t, sources, 1)
	assert.Empty(t, warnings)

	src := sources[0]
	assert.Equal(t, KindArchive, src.Kind)
	assert.Nil(t, src.Metadata)
	assert.Equal(t, "drop.cbz", src.ArchiveName)
	assert.Equal(t, "drop", src.VolumeHint())
}

func TestPairImageOnlyGroupsByDirectory(t *testing.T) {
	sources, warnings := Pair(classify(
		"Pics/001.jpg",
		"Pics/002.jpg",
		"Other/x.png",
	))

	require.Len(t, sources, 2)
	assert.Empty(t, warnings)

	// First-appearance order is preserved.
	assert.Equal(t, "Pics", sources[0].BasePath)
	assert.True(t, sources[0].ImageOnly)
	assert.Len(t, sources[0].Files, 2)
	assert.Equal(t, "Other", sources[1].BasePath)
	assert.Len(t, sources[1].Files, 1)
}

func TestPairStrayFiles(t *testing.T) {
	sources, warnings := Pair(classify("notes.txt"))

	assert.Empty(t, sources)
	require.Len(t, warnings, 1)
	assert.Equal(t, "notes.txt", warnings[0].Path)
	assert.Equal(t, "not an image, archive, or metadata file", warnings[0].Reason)
}

// Every input file must land in exactly one source or the warning list.
func TestPairCoverage(t *testing.T) {
	paths := []string{
		"A/vol1.mokuro",
		"A/001.jpg",
		"A/002.jpg",
		"B/vol2.mokuro",
		"B/vol2.cbz",
		"C/series.mokuro",
		"C/ch1/001.jpg",
		"C/ch2/001.jpg",
		"loose.cbz",
		"Pics/untagged.png",
		"orphan.mokuro",
		"readme.txt",
	}
	files := classify(paths...)
	require.Len(t, files, len(paths))

	sources, warnings := Pair(files)

	placed := len(warnings)
	for _, src := range sources {
		placed += len(src.Files)
		for _, ch := range src.Chapters {
			placed += len(ch)
		}
		if src.Archive != nil {
			placed++
		}
		if src.Metadata != nil {
			placed++
		}
	}
	assert.Equal(t, len(paths), placed)
	assert.Len(t, sources, 5)
	assert.Len(t, warnings, 2)
}

func TestPairEstimatedSize(t *testing.T) {
	files := classify("S/vol1.mokuro", "S/001.jpg")
	sources, _ := Pair(files)

	require.Len(t, sources, 1)
	want := int64(len("S/vol1.mokuro") + len("S/001.jpg"))
	assert.Equal(t, want, sources[0].EstimatedSize)
}

func TestRoute(t *testing.T) {
	a := newSource(KindDirectory, "a")
	b := newSource(KindDirectory, "b")

	d := Route(nil)
	assert.True(t, d.Empty())

	d = Route([]*Source{a})
	assert.False(t, d.Empty())
	assert.Same(t, a, d.Direct)
	assert.Empty(t, d.Queued)

	d = Route([]*Source{a, b})
	assert.Nil(t, d.Direct)
	require.Len(t, d.Queued, 2)
	assert.Same(t, a, d.Queued[0])
	assert.Same(t, b, d.Queued[1])
}

func TestSourceHints(t *testing.T) {
	src := newSource(KindDirectory, "Yotsuba/vol1")
	assert.Equal(t, "vol1", src.VolumeHint())
	assert.Equal(t, "Yotsuba", src.SeriesHint())

	root := newSource(KindArchive, "drop")
	assert.Equal(t, "drop", root.VolumeHint())
	assert.Equal(t, "drop", root.SeriesHint())

	empty := newSource(KindDirectory, "")
	assert.Equal(t, "untitled", empty.VolumeHint())
}
