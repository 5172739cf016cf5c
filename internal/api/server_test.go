package api

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/ytnotebook/ytnotebook/internal/auth"
	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/search"
	"github.com/ytnotebook/ytnotebook/internal/service"
	"github.com/ytnotebook/ytnotebook/internal/store/sqlite"
	"github.com/ytnotebook/ytnotebook/internal/transcript"
)

const (
	testVideoID = "dQw4w9WgXcQ"
	testURL     = "https://youtu.be/" + testVideoID
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

// testServer wraps a Server with real storage in a temp dir.
type testServer struct {
	api         humatest.TestAPI
	server      *Server
	transcripts string
	cleanup     func()
}

// setupTestServer creates a test server with SQLite storage and an
// in-memory segment index.
func setupTestServer(t *testing.T) *testServer {
	return setupTestServerWithOptions(t, Options{CORSOrigins: []string{"http://localhost:5173"}})
}

func setupTestServerWithOptions(t *testing.T, opts Options) *testServer {
	t.Helper()
	dir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger.Discard())
	require.NoError(t, err)

	idx, err := search.NewSearchIndex(search.Options{InMemory: true})
	require.NoError(t, err)

	src, err := transcript.NewDirSource(filepath.Join(dir, "transcripts"))
	require.NoError(t, err)

	hasher := auth.NewHasher(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16})
	services := &Services{
		Auth:      service.NewAuthService(st, hasher, nil),
		Notebook:  service.NewNotebookService(st, nil),
		Video:     service.NewVideoService(st, src, idx, nil),
		Timestamp: service.NewTimestampService(st, idx),
		Chat:      service.NewChatService(st, service.NewQuoteAssistant(idx), nil),
		Search:    idx,
	}

	server := NewServer(st, services, opts, logger.Discard())

	return &testServer{
		api:         humatest.Wrap(t, server.API()),
		server:      server,
		transcripts: src.Dir(),
		cleanup: func() {
			_ = idx.Close() //nolint:errcheck // Test cleanup
			_ = st.Close()  //nolint:errcheck // Test cleanup
		},
	}
}

func (ts *testServer) writeTranscript(t *testing.T, videoID string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(ts.transcripts, videoID+".srt"), []byte(testSRT), 0o600))
}

// decode unmarshals a response body into a map.
func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

// signupAndLogin registers a user and returns their id.
func (ts *testServer) signupAndLogin(t *testing.T, name, email string) string {
	t.Helper()
	resp := ts.api.Post("/signup", map[string]any{
		"user_name":  name,
		"user_email": email,
		"password":   "hunter22",
	})
	require.Equal(t, 200, resp.Code, resp.Body.String())
	return decode(t, resp.Body.Bytes())["user_id"].(string)
}

// notebookFixture signs up a user, submits the test video and creates a
// notebook for it.
func (ts *testServer) notebookFixture(t *testing.T) (userID, notebookID string) {
	t.Helper()
	ts.writeTranscript(t, testVideoID)
	userID = ts.signupAndLogin(t, "Ada", "ada@example.com")

	resp := ts.api.Post("/submit-video", map[string]any{"url": testURL})
	require.Equal(t, 200, resp.Code, resp.Body.String())

	resp = ts.api.Post("/notebooks", map[string]any{
		"user_id":        userID,
		"video_id":       testVideoID,
		"notebook_title": "Gardening",
	})
	require.Equal(t, 200, resp.Code, resp.Body.String())
	return userID, decode(t, resp.Body.Bytes())["notebook_id"].(string)
}
