package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/tanko/internal/fileset"
	"github.com/vmunix/tanko/internal/pairing"
)

func archiveSource(basePath string) *pairing.Source {
	return pairing.NewArchiveSource(basePath, basePath+".cbz", fileset.MemBlob("archive"))
}

func TestQueueEnqueueOrder(t *testing.T) {
	q := NewQueue()

	a, pos := q.Enqueue(archiveSource("Series/vol1"))
	assert.Equal(t, 0, pos)
	_, pos = q.Enqueue(archiveSource("Series/vol2"))
	assert.Equal(t, 1, pos)

	items := q.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Series vol1", items[0].DisplayTitle)
	assert.Equal(t, "Series vol2", items[1].DisplayTitle)
	assert.Equal(t, StatusQueued, items[0].Status)
	assert.Equal(t, a.ID(), items[0].Source.ID)
}

func TestQueueNextSkipsErrored(t *testing.T) {
	q := NewQueue()
	a, _ := q.Enqueue(archiveSource("a"))
	b, _ := q.Enqueue(archiveSource("b"))

	q.fail(a, "broken")

	next := q.next()
	require.NotNil(t, next)
	assert.Equal(t, b, next)
}

func TestQueueAdvanceCompleteRemoves(t *testing.T) {
	q := NewQueue()
	it, _ := q.Enqueue(archiveSource("a"))

	q.advance(it, StatusDecompressing)
	q.advance(it, StatusProcessing)
	q.advance(it, StatusComplete)

	assert.Zero(t, q.Len())
	assert.Nil(t, q.next())
}

func TestQueueAdvanceRejectsInvalid(t *testing.T) {
	q := NewQueue()
	it, _ := q.Enqueue(archiveSource("a"))

	// queued -> complete is not a legal move; the item must stay put.
	q.advance(it, StatusComplete)
	assert.Equal(t, StatusQueued, it.Status)
	assert.Equal(t, 1, q.Len())
}

func TestQueueRemove(t *testing.T) {
	q := NewQueue()
	a, _ := q.Enqueue(archiveSource("a"))
	b, _ := q.Enqueue(archiveSource("b"))
	c, _ := q.Enqueue(archiveSource("c"))

	// Waiting items can go.
	require.NoError(t, q.Remove(a.ID()))

	// Errored items can go.
	q.advance(b, StatusProcessing)
	q.fail(b, "boom")
	require.NoError(t, q.Remove(b.ID()))

	// Active items cannot.
	q.advance(c, StatusDecompressing)
	assert.ErrorIs(t, q.Remove(c.ID()), ErrItemActive)

	assert.ErrorIs(t, q.Remove("no-such-id"), ErrItemNotFound)
}

func TestQueueClear(t *testing.T) {
	q := NewQueue()
	_, _ = q.Enqueue(archiveSource("a"))
	b, _ := q.Enqueue(archiveSource("b"))
	c, _ := q.Enqueue(archiveSource("c"))

	q.advance(b, StatusProcessing)
	q.fail(c, "boom")

	// Clears the waiting item and the errored one, not the active one.
	assert.Equal(t, 2, q.Clear())
	items := q.Items()
	require.Len(t, items, 1)
	assert.Equal(t, StatusProcessing, items[0].Status)
}

func TestQueueItemsIsACopy(t *testing.T) {
	q := NewQueue()
	it, _ := q.Enqueue(archiveSource("a"))

	before := q.Items()
	q.progress(it, 50)
	q.fail(it, "late failure")

	assert.Zero(t, before[0].Progress)
	assert.Empty(t, before[0].Error)

	after := q.Items()
	assert.Equal(t, 50, after[0].Progress)
	assert.Equal(t, "late failure", after[0].Error)
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		basePath string
		want     string
	}{
		{"Yotsuba/vol1", "Yotsuba vol1"},
		{"drop/Yotsuba/vol1", "Yotsuba vol1"},
		{"vol1", "vol1"},
		{"", "untitled"},
	}
	for _, tt := range tests {
		it := newItem(archiveSource(tt.basePath))
		assert.Equal(t, tt.want, it.DisplayTitle, tt.basePath)
	}
}
