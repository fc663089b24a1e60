package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPagesClean(t *testing.T) {
	res := MatchPages(
		[]string{"001.jpg", "002.jpg"},
		[]string{"001.jpg", "002.jpg"},
	)

	assert.True(t, res.Clean())
	assert.Equal(t, map[string]string{
		"001.jpg": "001.jpg",
		"002.jpg": "002.jpg",
	}, res.Matched)
}

func TestMatchPagesSuffix(t *testing.T) {
	// Archive content wrapped in a folder the metadata does not mention.
	res := MatchPages(
		[]string{"001.jpg"},
		[]string{"vol1/001.jpg"},
	)

	assert.True(t, res.Clean())
	assert.Equal(t, "vol1/001.jpg", res.Matched["001.jpg"])

	// And the other way around.
	res = MatchPages(
		[]string{"pages/001.jpg"},
		[]string{"001.jpg"},
	)
	assert.True(t, res.Clean())
	assert.Equal(t, "001.jpg", res.Matched["pages/001.jpg"])
}

func TestMatchPagesExtension(t *testing.T) {
	res := MatchPages(
		[]string{"001.jpg"},
		[]string{"001.webp"},
	)

	assert.True(t, res.Clean())
	assert.Equal(t, "001.webp", res.Matched["001.jpg"])
}

func TestMatchPagesExtensionNeedsSameDirectory(t *testing.T) {
	res := MatchPages(
		[]string{"001.jpg"},
		[]string{"ch2/001.webp"},
	)

	require.Len(t, res.Missing, 1)
	assert.Equal(t, "001.jpg", res.Missing[0].Path)
}

// An exact match must win even when a fuzzier candidate appears first.
func TestMatchPagesExactBeatsFuzzy(t *testing.T) {
	res := MatchPages(
		[]string{"001.jpg"},
		[]string{"001.webp", "001.jpg"},
	)

	assert.Equal(t, "001.jpg", res.Matched["001.jpg"])
	assert.Equal(t, []string{"001.webp"}, res.Extra)
}

// A file claimed exactly is gone; a later tier cannot reuse it.
func TestMatchPagesClaimedOnce(t *testing.T) {
	res := MatchPages(
		[]string{"001.jpg", "sub/001.jpg"},
		[]string{"001.jpg"},
	)

	assert.Equal(t, "001.jpg", res.Matched["001.jpg"])
	require.Len(t, res.Missing, 1)
	assert.Equal(t, "sub/001.jpg", res.Missing[0].Path)
}

func TestMatchPagesMissingClosest(t *testing.T) {
	res := MatchPages(
		[]string{"page_001.jpg"},
		[]string{"page_01.jpg", "zzz.png"},
	)

	require.Len(t, res.Missing, 1)
	assert.Equal(t, "page_001.jpg", res.Missing[0].Path)
	assert.Equal(t, "page_01.jpg", res.Missing[0].Closest)
}

func TestMatchPagesNoClosestBelowThreshold(t *testing.T) {
	res := MatchPages(
		[]string{"001.jpg"},
		[]string{"zzzzzzz.png"},
	)

	require.Len(t, res.Missing, 1)
	assert.Empty(t, res.Missing[0].Closest)
}

func TestMatchPagesExtra(t *testing.T) {
	res := MatchPages(
		[]string{"001.jpg"},
		[]string{"001.jpg", "notes/cover.png"},
	)

	assert.False(t, res.Clean())
	assert.Empty(t, res.Missing)
	assert.Equal(t, []string{"notes/cover.png"}, res.Extra)
}
