package workspace

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/ytnotebook/ytnotebook/internal/domain"
)

// Registry holds the chat session summaries of the open notebook, most
// recent first.
type Registry struct {
	backend Backend

	mu         sync.Mutex
	notebookID string
	summaries  []domain.ChatSessionSummary
}

// NewRegistry creates an empty registry.
func NewRegistry(backend Backend) *Registry {
	return &Registry{backend: backend}
}

// Refresh fetches the summaries of notebookID and replaces the list.
// On failure the previous list is kept.
func (r *Registry) Refresh(ctx context.Context, notebookID string) ([]domain.ChatSessionSummary, error) {
	summaries, err := r.fetch(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	r.set(notebookID, summaries)
	return r.Summaries(), nil
}

func (r *Registry) fetch(ctx context.Context, notebookID string) ([]domain.ChatSessionSummary, error) {
	summaries, err := r.backend.ListChatSessions(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	sorted := slices.Clone(summaries)
	slices.SortStableFunc(sorted, func(a, b domain.ChatSessionSummary) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return sorted, nil
}

func (r *Registry) set(notebookID string, summaries []domain.ChatSessionSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notebookID = notebookID
	r.summaries = summaries
}

// NotebookID returns the notebook the list belongs to.
func (r *Registry) NotebookID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notebookID
}

// Summaries returns a copy of the list.
func (r *Registry) Summaries() []domain.ChatSessionSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ChatSessionSummary{}, r.summaries...)
}

// Contains reports whether sessionID is listed.
func (r *Registry) Contains(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.ContainsFunc(r.summaries, func(s domain.ChatSessionSummary) bool {
		return s.SessionID == sessionID
	})
}

// MostRecent returns the session with the latest creation time.
func (r *Registry) MostRecent() (domain.ChatSessionSummary, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.summaries) == 0 {
		return domain.ChatSessionSummary{}, false
	}
	return r.summaries[0], true
}
