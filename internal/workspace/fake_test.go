package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/ytnotebook/ytnotebook/internal/api/dto"
	"github.com/ytnotebook/ytnotebook/internal/client"
	"github.com/ytnotebook/ytnotebook/internal/domain"
)

var testIdentity = domain.Identity{UserID: "usr-1", UserName: "Ada"}

// gate holds one backend call until released.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

// fakeBackend is an in-memory Backend. Every field may be set by a test
// before use; calls are recorded by operation name.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string
	gates map[string]*gate

	notebooks []*domain.Notebook
	listErr   error

	notebook    map[string]*domain.Notebook
	getErr      error
	summaries   map[string][]domain.ChatSessionSummary
	sessionsErr error
	history     map[string][]domain.ChatTurn
	historyErr  error

	chatFn   func(req dto.ChatRequest) (*dto.ChatResponse, error)
	chatReqs []dto.ChatRequest

	submitFn   func(videoURL string) (string, error)
	createFn   func(req dto.CreateNotebookRequest, key string) (string, error)
	createKeys []string

	details      map[string]*dto.VideoDetails
	timestampsFn func(req dto.TimestampRequest) ([]domain.TimestampMatch, error)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		gates:     map[string]*gate{},
		notebook:  map[string]*domain.Notebook{},
		summaries: map[string][]domain.ChatSessionSummary{},
		history:   map[string][]domain.ChatTurn{},
		details:   map[string]*dto.VideoDetails{},
	}
}

// blockNext makes the next call of op wait until the gate is released.
func (f *fakeBackend) blockNext(op string) *gate {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &gate{entered: make(chan struct{}), release: make(chan struct{})}
	f.gates[op] = g
	return g
}

func (f *fakeBackend) enter(op string) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	g := f.gates[op]
	delete(f.gates, op)
	f.mu.Unlock()

	if g != nil {
		close(g.entered)
		<-g.release
	}
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeBackend) ListNotebooks(_ context.Context, _ string) ([]*domain.Notebook, error) {
	f.enter("ListNotebooks")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.notebooks, nil
}

func (f *fakeBackend) GetNotebook(_ context.Context, notebookID string) (*domain.Notebook, error) {
	f.enter("GetNotebook")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	nb, ok := f.notebook[notebookID]
	if !ok {
		return nil, &client.Error{Op: "get notebook", Status: 404, Detail: "Notebook not found."}
	}
	copied := *nb
	return &copied, nil
}

func (f *fakeBackend) ListChatSessions(_ context.Context, notebookID string) ([]domain.ChatSessionSummary, error) {
	f.enter("ListChatSessions")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionsErr != nil {
		return nil, f.sessionsErr
	}
	return append([]domain.ChatSessionSummary{}, f.summaries[notebookID]...), nil
}

func (f *fakeBackend) ChatHistory(_ context.Context, sessionID string) ([]domain.ChatTurn, error) {
	f.enter("ChatHistory")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	turns, ok := f.history[sessionID]
	if !ok {
		return nil, &client.Error{Op: "chat history", Status: 404, Detail: "Chat session or history not found."}
	}
	return append([]domain.ChatTurn{}, turns...), nil
}

func (f *fakeBackend) Chat(_ context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	f.mu.Lock()
	f.chatReqs = append(f.chatReqs, req)
	fn := f.chatFn
	f.mu.Unlock()

	f.enter("Chat")
	if fn == nil {
		sessionID := req.SessionID
		if sessionID == "" {
			sessionID = "s-minted"
		}
		return &dto.ChatResponse{Answer: "answer to " + req.Query, SessionID: sessionID}, nil
	}
	return fn(req)
}

func (f *fakeBackend) SubmitVideo(_ context.Context, videoURL string) (string, error) {
	f.enter("SubmitVideo")
	if f.submitFn == nil {
		return "dQw4w9WgXcQ", nil
	}
	return f.submitFn(videoURL)
}

func (f *fakeBackend) CreateNotebook(_ context.Context, req dto.CreateNotebookRequest, key string) (string, error) {
	f.mu.Lock()
	f.createKeys = append(f.createKeys, key)
	fn := f.createFn
	f.mu.Unlock()

	f.enter("CreateNotebook")
	if fn == nil {
		return "nb-new", nil
	}
	return fn(req, key)
}

func (f *fakeBackend) VideoDetails(_ context.Context, videoID string) (*dto.VideoDetails, error) {
	f.enter("VideoDetails")
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.details[videoID]
	if !ok {
		return nil, &client.Error{Op: "video details", Status: 404, Detail: "Video details not found."}
	}
	return d, nil
}

func (f *fakeBackend) Timestamps(_ context.Context, req dto.TimestampRequest) ([]domain.TimestampMatch, error) {
	f.enter("Timestamps")
	if f.timestampsFn == nil {
		return []domain.TimestampMatch{}, nil
	}
	return f.timestampsFn(req)
}

// at returns a fixed time offset by n minutes.
func at(n int) time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute)
}

func strPtr(s string) *string { return &s }

// wait blocks until the gated call has started.
func (g *gate) wait() { <-g.entered }

// open releases the gated call.
func (g *gate) open() { close(g.release) }
