package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytnotebook/ytnotebook/internal/domain"
)

func setupTestIndex(t *testing.T) *SearchIndex {
	t.Helper()

	index, err := NewSearchIndex(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func talk() []domain.TranscriptSegment {
	return []domain.TranscriptSegment{
		{Start: 0, Duration: 4 * time.Second, Text: "Welcome everyone to this talk."},
		{Start: 4 * time.Second, Duration: 5 * time.Second, Text: "Today we cover goroutines and channels."},
		{Start: 65 * time.Second, Duration: 5 * time.Second, Text: "Channels let goroutines communicate safely."},
		{Start: 2 * time.Minute, Duration: 3 * time.Second, Text: "   "},
		{Start: 3 * time.Minute, Duration: 3 * time.Second, Text: "Thanks for watching."},
	}
}

func TestDocumentsFor(t *testing.T) {
	docs := DocumentsFor("vid", talk())

	require.Len(t, docs, 4, "blank cues are skipped")
	assert.Equal(t, "vid#00000", docs[0].ID)
	assert.Equal(t, "vid#00004", docs[3].ID, "ids keep the cue position")
	assert.Equal(t, 65*time.Second, docs[2].Start)
}

func TestSearchIndex_ReplaceVideo(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.ReplaceVideo("vid", DocumentsFor("vid", talk())))
	require.NoError(t, index.ReplaceVideo("other", DocumentsFor("other", talk()[:1])))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), count)

	// Re-indexing a shorter transcript leaves no stale segments behind.
	require.NoError(t, index.ReplaceVideo("vid", DocumentsFor("vid", talk()[:2])))
	n, err := index.VideoSegmentCount("vid")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, index.DeleteVideo("vid"))
	n, err = index.VideoSegmentCount("vid")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = index.VideoSegmentCount("other")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSearchIndex_Search(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.ReplaceVideo("vid", DocumentsFor("vid", talk())))
	require.NoError(t, index.ReplaceVideo("other", DocumentsFor("other", talk())))

	hits, err := index.Search(context.Background(), SegmentQuery{VideoID: "vid", Text: "channels", Limit: 3})
	require.NoError(t, err)

	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Equal(t, "vid", h.VideoID, "results never leak across videos")
		assert.Contains(t, h.Text, "hannels")
	}
	starts := []time.Duration{hits[0].Start, hits[1].Start}
	assert.ElementsMatch(t, []time.Duration{4 * time.Second, 65 * time.Second}, starts)
}

func TestSearchIndex_SearchStemmed(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.ReplaceVideo("vid", DocumentsFor("vid", talk())))

	hits, err := index.Search(context.Background(), SegmentQuery{VideoID: "vid", Text: "communicating"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 65*time.Second, hits[0].Start)
	assert.Equal(t, 2, hits[0].Position)
}

func TestSearchIndex_SearchBlankOrUnknown(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.ReplaceVideo("vid", DocumentsFor("vid", talk())))

	hits, err := index.Search(context.Background(), SegmentQuery{VideoID: "vid", Text: "  "})
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = index.Search(context.Background(), SegmentQuery{VideoID: "nope", Text: "channels"})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchIndex_OnDiskReopen(t *testing.T) {
	dir := t.TempDir()

	index, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.ReplaceVideo("vid", DocumentsFor("vid", talk())))
	require.NoError(t, index.Close())

	index, err = NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer index.Close()

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)

	require.NoError(t, index.Rebuild())
	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}
