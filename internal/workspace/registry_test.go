package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytnotebook/ytnotebook/internal/client"
	"github.com/ytnotebook/ytnotebook/internal/domain"
)

func TestRegistry_RefreshSortsNewestFirst(t *testing.T) {
	fb := newFakeBackend()
	fb.summaries["nb-1"] = []domain.ChatSessionSummary{
		{SessionID: "s-old", FirstPrompt: "first", CreatedAt: at(0)},
		{SessionID: "s-new", FirstPrompt: "third", CreatedAt: at(20)},
		{SessionID: "s-mid", FirstPrompt: "second", CreatedAt: at(10)},
	}
	r := NewRegistry(fb)

	got, err := r.Refresh(context.Background(), "nb-1")
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.SessionID)
	}
	assert.Equal(t, []string{"s-new", "s-mid", "s-old"}, ids)
	assert.Equal(t, "nb-1", r.NotebookID())
	assert.True(t, r.Contains("s-mid"))
	assert.False(t, r.Contains("s-other"))

	recent, ok := r.MostRecent()
	require.True(t, ok)
	assert.Equal(t, "s-new", recent.SessionID)
}

func TestRegistry_RefreshFailureKeepsList(t *testing.T) {
	fb := newFakeBackend()
	fb.summaries["nb-1"] = []domain.ChatSessionSummary{{SessionID: "s-1", CreatedAt: at(0)}}
	r := NewRegistry(fb)
	_, err := r.Refresh(context.Background(), "nb-1")
	require.NoError(t, err)

	fb.sessionsErr = client.ErrTransport
	_, err = r.Refresh(context.Background(), "nb-1")

	assert.ErrorIs(t, err, client.ErrTransport)
	assert.True(t, r.Contains("s-1"))
}

func TestRegistry_Empty(t *testing.T) {
	r := NewRegistry(newFakeBackend())

	_, ok := r.MostRecent()
	assert.False(t, ok)
	assert.NotNil(t, r.Summaries())
	assert.Empty(t, r.Summaries())
}
