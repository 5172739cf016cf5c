package workspace

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytnotebook/ytnotebook/internal/api"
	"github.com/ytnotebook/ytnotebook/internal/api/dto"
	"github.com/ytnotebook/ytnotebook/internal/auth"
	"github.com/ytnotebook/ytnotebook/internal/client"
	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/search"
	"github.com/ytnotebook/ytnotebook/internal/service"
	"github.com/ytnotebook/ytnotebook/internal/store/sqlite"
	"github.com/ytnotebook/ytnotebook/internal/transcript"
)

const testSRT = `1
00:00:01,000 --> 00:00:04,000
Welcome to the channel, today we talk about gardening.

2
00:01:05,500 --> 00:01:09,000
Tomatoes need plenty of sunlight and water.
`

// liveBackend starts the real API over HTTP and returns a client for it
// and a logged-in identity.
func liveBackend(t *testing.T) (*client.Client, domain.Identity) {
	t.Helper()
	dir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger.Discard())
	require.NoError(t, err)
	idx, err := search.NewSearchIndex(search.Options{InMemory: true})
	require.NoError(t, err)
	src, err := transcript.NewDirSource(filepath.Join(dir, "transcripts"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(src.Dir(), "dQw4w9WgXcQ.srt"), []byte(testSRT), 0o600))

	hasher := auth.NewHasher(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16})
	server := api.NewServer(st, &api.Services{
		Auth:      service.NewAuthService(st, hasher, nil),
		Notebook:  service.NewNotebookService(st, nil),
		Video:     service.NewVideoService(st, src, idx, nil),
		Timestamp: service.NewTimestampService(st, idx),
		Chat:      service.NewChatService(st, service.NewQuoteAssistant(idx), nil),
		Search:    idx,
	}, api.Options{}, logger.Discard())

	httpServer := httptest.NewServer(server)
	c, err := client.New(client.Options{BaseURL: httpServer.URL, RequestsPerSecond: 1000})
	require.NoError(t, err)
	t.Cleanup(func() {
		c.Close()
		httpServer.Close()
		_ = idx.Close() //nolint:errcheck // Test cleanup
		_ = st.Close()  //nolint:errcheck // Test cleanup
	})

	ctx := context.Background()
	_, err = c.Signup(ctx, dto.SignupRequest{UserName: "Ada", UserEmail: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)
	login, err := c.Login(ctx, dto.LoginRequest{UserEmail: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)

	return c, domain.Identity{UserID: login.UserID, UserName: login.UserName}
}

func TestNew_RequiresIdentity(t *testing.T) {
	_, err := New(newFakeBackend(), domain.Identity{}, nil)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestWorkspace_RequiresOpenNotebook(t *testing.T) {
	w, err := New(newFakeBackend(), testIdentity, nil)
	require.NoError(t, err)

	_, ok := w.Selection()
	assert.False(t, ok)
	assert.Nil(t, w.Conversation())
	assert.ErrorIs(t, w.StartNewChat(context.Background()), ErrNoNotebook)
}

func TestWorkspace_OpenNotebookReportsEveryFailure(t *testing.T) {
	fb := newFakeBackend()
	fb.notebook["nb-1"] = &domain.Notebook{ID: "nb-1", VideoID: "vid-1", LatestSessionID: strPtr("s-1")}
	w, err := New(fb, testIdentity, nil)
	require.NoError(t, err)

	err = w.OpenNotebook(context.Background(), Selection{NotebookID: "nb-1", VideoID: "vid-1"})

	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.Equal(t, UnavailableTitle, w.Video.Title())
	assert.Equal(t, []domain.ChatTurn{
		domain.AssistantTurn("Error loading history: Chat session or history not found."),
	}, w.Conversation().Turns())
}

func TestWorkspace_EndToEnd(t *testing.T) {
	ctx := context.Background()
	backend, identity := liveBackend(t)
	w, err := New(backend, identity, nil)
	require.NoError(t, err)

	notebooks, err := w.LoadNotebooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, notebooks)

	// Create a notebook and land in an empty conversation.
	sel, err := w.CreateNotebook(ctx, &Submission{URL: "https://youtu.be/dQw4w9WgXcQ", Title: "Gardening"})
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", sel.VideoID)
	assert.Len(t, w.Directory.Filter("garden"), 1)
	assert.Equal(t, StateNewSessionPending, w.Reconciler.State())
	assert.Equal(t, []domain.ChatTurn{domain.AssistantTurn(Greeting)}, w.Conversation().Turns())

	// The first message creates a session and makes it current.
	_, err = w.Conversation().Send(ctx, "What about tomatoes?")
	require.NoError(t, err)
	first, ok := w.Reconciler.Current()
	require.True(t, ok)
	require.True(t, w.Registry.Contains(first))

	// A new chat starts a second session.
	require.NoError(t, w.StartNewChat(ctx))
	_, err = w.Conversation().Send(ctx, "How much water?")
	require.NoError(t, err)
	second, _ := w.Reconciler.Current()
	assert.NotEqual(t, first, second)
	assert.Len(t, w.Registry.Summaries(), 2)

	// Reopening resolves the most recently written session.
	require.NoError(t, w.SelectSession(ctx, first))
	_, err = w.Conversation().Send(ctx, "And sunlight?")
	require.NoError(t, err)

	w2, err := New(backend, identity, nil)
	require.NoError(t, err)
	require.NoError(t, w2.OpenNotebook(ctx, sel))
	current, _ := w2.Reconciler.Current()
	assert.Equal(t, first, current)

	turns := w2.Conversation().Turns()
	require.Len(t, turns, 4)
	assert.Equal(t, domain.UserTurn("What about tomatoes?"), turns[0])
	assert.Equal(t, domain.UserTurn("And sunlight?"), turns[2])

	// The video panel shows the bound video and its timestamps.
	assert.Equal(t, "dQw4w9WgXcQ", w2.Video.VideoID())
	matches, err := w2.Video.Search(ctx, "tomatoes")
	require.NoError(t, err)
	assert.Equal(t, "01:05", matches[0].Timestamp)
	url, err := w2.Video.PlayerURL(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ?start=65&autoplay=1", url)
}
