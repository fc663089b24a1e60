package fileset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestCollectDir(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "SeriesA")
	writeFile(t, filepath.Join(root, "vol1.mokuro"), []byte("{}"))
	writeFile(t, filepath.Join(root, "vol1", "001.jpg"), []byte("img1"))
	writeFile(t, filepath.Join(root, "vol1", "002.jpg"), []byte("img2"))
	writeFile(t, filepath.Join(root, ".DS_Store"), []byte("junk"))
	writeFile(t, filepath.Join(root, "__MACOSX", "vol1", "001.jpg"), []byte("junk"))

	entries, err := CollectDir(root)
	require.NoError(t, err)

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	assert.ElementsMatch(t, []string{
		"SeriesA/vol1.mokuro",
		"SeriesA/vol1/001.jpg",
		"SeriesA/vol1/002.jpg",
	}, paths)

	for _, e := range entries {
		data, err := ReadAll(e.Data)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
		assert.Equal(t, int64(len(data)), e.Data.Size())
	}
}

func TestCollect_MixedArgs(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "drop")
	writeFile(t, filepath.Join(dir, "a.jpg"), []byte("a"))
	loose := filepath.Join(tmp, "vol9.cbz")
	writeFile(t, loose, []byte("zipbytes"))

	entries, err := Collect([]string{dir, loose})
	require.NoError(t, err)

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	assert.ElementsMatch(t, []string{"drop/a.jpg", "vol9.cbz"}, paths)
}

func TestCollect_MissingPath(t *testing.T) {
	_, err := Collect([]string{filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestMemBlob(t *testing.T) {
	b := MemBlob("hello")
	assert.Equal(t, int64(5), b.Size())

	data, err := ReadAll(b)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	// Blobs are reusable.
	again, err := ReadAll(b)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}
