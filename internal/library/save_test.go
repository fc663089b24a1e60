package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/tanko/internal/assemble"
	"github.com/vmunix/tanko/internal/fileset"
	"github.com/vmunix/tanko/pkg/mokuro"
)

// sampleProcessed builds a two-page volume whose series name needs
// sanitizing before it can become a directory.
func sampleProcessed() *assemble.ProcessedVolume {
	return &assemble.ProcessedVolume{
		Meta: assemble.Meta{
			SeriesID:   "ser-1",
			SeriesName: "Re: Zero",
			VolumeID:   "vol-1",
			VolumeName: "v01",
			PageCount:  2,
			TotalChars: 5,
			SizeBytes:  7,
			Thumbnail:  "001.jpg",
		},
		Pages: []assemble.Page{
			{Page: mokuro.Page{ImgPath: "001.jpg", Blocks: []mokuro.Block{{Lines: []string{"ab"}}}}, CumChars: 2},
			{Page: mokuro.Page{ImgPath: "002.jpg", Blocks: []mokuro.Block{{Lines: []string{"cde"}}}}, CumChars: 5},
		},
		Files: map[string]fileset.Blob{
			"001.jpg": fileset.MemBlob("aaaa"),
			"002.jpg": fileset.MemBlob("bbb"),
		},
	}
}

func TestSaveVolume(t *testing.T) {
	db := setupTestDB(t)
	root := t.TempDir()
	store := NewStore(db, root)

	v, err := store.SaveVolume(sampleProcessed())
	require.NoError(t, err)
	assert.Equal(t, "vol-1", v.ID)
	assert.Equal(t, "Re Zero/v01/001.jpg", v.Thumbnail)

	// Images land under the sanitized series and volume directories.
	data, err := os.ReadFile(filepath.Join(root, "Re Zero", "v01", "001.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "aaaa", string(data))

	got, err := store.GetVolume("vol-1")
	require.NoError(t, err)
	assert.Equal(t, "Re: Zero", got.SeriesName)
	assert.Equal(t, 2, got.PageCount)
	assert.Equal(t, 5, got.Chars)
	assert.Equal(t, int64(7), got.SizeBytes)

	pages, err := store.ListPages("vol-1")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "001.jpg", pages[0].ImgPath)
	assert.Equal(t, 2, pages[0].Chars)
	assert.Equal(t, 5, pages[1].CumChars)
	require.Len(t, pages[0].Blocks, 1)

	files, err := store.ListFiles("vol-1")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "Re Zero/v01/001.jpg", files[0].Path)
	assert.Equal(t, int64(4), files[0].SizeBytes)
}

func TestSaveVolumeDuplicate(t *testing.T) {
	db := setupTestDB(t)
	root := t.TempDir()
	store := NewStore(db, root)

	require.NoError(t, store.AddVolume(testVolume("vol-1", "ser-1", "Re: Zero", "v01")))

	_, err := store.SaveVolume(sampleProcessed())
	assert.ErrorIs(t, err, ErrDuplicate)

	// Nothing was written for the rejected volume.
	_, statErr := os.Stat(filepath.Join(root, "Re Zero"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveVolumeCleansUpFreshDir(t *testing.T) {
	db := setupTestDB(t)
	root := t.TempDir()
	store := NewStore(db, root)

	pv := sampleProcessed()
	// A blob whose backing file does not exist fails on open, after
	// 001.jpg has already been written.
	pv.Files["002.jpg"] = fileset.NewPathBlob(filepath.Join(root, "missing-source.jpg"), 3)

	_, err := store.SaveVolume(pv)
	assert.ErrorIs(t, err, ErrWriteFailed)

	// The half-written volume directory is gone, series directory included.
	_, statErr := os.Stat(filepath.Join(root, "Re Zero"))
	assert.True(t, os.IsNotExist(statErr))

	exists, err := store.Exists("vol-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSaveVolumeKeepsExistingDir(t *testing.T) {
	db := setupTestDB(t)
	root := t.TempDir()
	store := NewStore(db, root)

	volDir := filepath.Join(root, "Re Zero", "v01")
	require.NoError(t, os.MkdirAll(volDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(volDir, "keep.txt"), []byte("keep"), 0644))

	pv := sampleProcessed()
	pv.Files["002.jpg"] = fileset.NewPathBlob(filepath.Join(root, "missing-source.jpg"), 3)

	_, err := store.SaveVolume(pv)
	assert.ErrorIs(t, err, ErrWriteFailed)

	// Only this save's files are rolled back; prior content stays.
	_, statErr := os.Stat(filepath.Join(volDir, "keep.txt"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(volDir, "001.jpg"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveVolumeDestinationExists(t *testing.T) {
	db := setupTestDB(t)
	root := t.TempDir()
	store := NewStore(db, root)

	volDir := filepath.Join(root, "Re Zero", "v01")
	require.NoError(t, os.MkdirAll(volDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(volDir, "001.jpg"), []byte("old"), 0644))

	_, err := store.SaveVolume(sampleProcessed())
	assert.ErrorIs(t, err, ErrDestinationExists)

	data, err := os.ReadFile(filepath.Join(volDir, "001.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestDeleteVolume(t *testing.T) {
	db := setupTestDB(t)
	root := t.TempDir()
	store := NewStore(db, root)

	_, err := store.SaveVolume(sampleProcessed())
	require.NoError(t, err)

	require.NoError(t, store.DeleteVolume("vol-1"))

	_, err = store.GetVolume("vol-1")
	assert.ErrorIs(t, err, ErrNotFound)

	pages, err := store.ListPages("vol-1")
	require.NoError(t, err)
	assert.Empty(t, pages)

	files, err := store.ListFiles("vol-1")
	require.NoError(t, err)
	assert.Empty(t, files)

	// Files and emptied directories are gone from disk.
	_, statErr := os.Stat(filepath.Join(root, "Re Zero"))
	assert.True(t, os.IsNotExist(statErr))

	// Deleting again is a no-op.
	assert.NoError(t, store.DeleteVolume("vol-1"))
}

func TestDeleteVolumeKeepsSharedSeriesDir(t *testing.T) {
	db := setupTestDB(t)
	root := t.TempDir()
	store := NewStore(db, root)

	_, err := store.SaveVolume(sampleProcessed())
	require.NoError(t, err)

	second := sampleProcessed()
	second.Meta.VolumeID = "vol-2"
	second.Meta.VolumeName = "v02"
	_, err = store.SaveVolume(second)
	require.NoError(t, err)

	require.NoError(t, store.DeleteVolume("vol-1"))

	// Sibling volume under the same series is untouched.
	_, statErr := os.Stat(filepath.Join(root, "Re Zero", "v02", "001.jpg"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(root, "Re Zero", "v01"))
	assert.True(t, os.IsNotExist(statErr))
}
