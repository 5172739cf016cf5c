package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ytnotebook/ytnotebook/internal/auth"
	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/search"
	"github.com/ytnotebook/ytnotebook/internal/store/sqlite"
	"github.com/ytnotebook/ytnotebook/internal/transcript"
)

const (
	testVideoID = "dQw4w9WgXcQ"
	testURL     = "https://www.youtube.com/watch?v=" + testVideoID
)

const testSRT = `1
00:00:01,000 --> 00:00:04,000
Welcome to the channel, today we talk about gardening.

2
00:01:05,500 --> 00:01:09,000
Tomatoes need plenty of sunlight and water.

3
01:02:03,000 --> 01:02:06,000
Finally we harvest the tomatoes in late summer.
`

// testEnv wires every service against real storage in a temp dir.
type testEnv struct {
	store      *sqlite.Store
	index      *search.SearchIndex
	dir        string
	auth       *AuthService
	notebooks  *NotebookService
	videos     *VideoService
	timestamps *TimestampService
	chat       *ChatService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.NewSearchIndex(search.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	src, err := transcript.NewDirSource(filepath.Join(dir, "transcripts"))
	require.NoError(t, err)

	hasher := auth.NewHasher(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16})

	return &testEnv{
		store:      st,
		index:      idx,
		dir:        src.Dir(),
		auth:       NewAuthService(st, hasher, nil),
		notebooks:  NewNotebookService(st, nil),
		videos:     NewVideoService(st, src, idx, nil),
		timestamps: NewTimestampService(st, idx),
		chat:       NewChatService(st, NewQuoteAssistant(idx), nil),
	}
}

func (e *testEnv) writeTranscript(t *testing.T, videoID, srt string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(e.dir, videoID+".srt"), []byte(srt), 0o600))
}

func (e *testEnv) signup(t *testing.T, name, email string) string {
	t.Helper()
	u, err := e.auth.Signup(context.Background(), SignupRequest{UserName: name, UserEmail: email, Password: "hunter22"})
	require.NoError(t, err)
	return u.ID
}

// notebookFixture signs up a user, submits the test video and creates a
// notebook for it.
func (e *testEnv) notebookFixture(t *testing.T) (userID string, nb *domain.Notebook) {
	t.Helper()
	ctx := context.Background()
	e.writeTranscript(t, testVideoID, testSRT)

	userID = e.signup(t, "Ada", "ada@example.com")
	videoID, err := e.videos.Submit(ctx, SubmitVideoRequest{URL: testURL})
	require.NoError(t, err)

	nb, err = e.notebooks.Create(ctx, CreateNotebookRequest{UserID: userID, VideoID: videoID, Title: "Gardening"})
	require.NoError(t, err)
	return userID, nb
}
