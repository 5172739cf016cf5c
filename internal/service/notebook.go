package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/id"
	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/store"
)

// NotebookService creates and lists notebooks and their chat sessions.
type NotebookService struct {
	store  store.Store
	logger *logger.Logger
}

// NewNotebookService creates a new notebook service.
func NewNotebookService(s store.Store, log *logger.Logger) *NotebookService {
	if log == nil {
		log = logger.Discard()
	}
	return &NotebookService{store: s, logger: log}
}

// CreateNotebookRequest binds a submitted video to a new notebook.
type CreateNotebookRequest struct {
	UserID  string `json:"user_id" validate:"notblank"`
	VideoID string `json:"video_id" validate:"notblank,max=64"`
	Title   string `json:"notebook_title" validate:"notblank,max=200"`
	// IdempotencyKey deduplicates retried creates from the same user.
	IdempotencyKey string `json:"-"`
}

// Create makes a notebook. A request repeating an idempotency key the
// user already used returns the notebook created the first time.
func (s *NotebookService) Create(ctx context.Context, req CreateNotebookRequest) (*domain.Notebook, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		return nil, notFound(err, "User not found.")
	}
	if _, err := s.store.GetVideo(ctx, req.VideoID); err != nil {
		return nil, notFound(err, "Video details not found.")
	}

	notebookID, err := id.Generate(id.PrefixNotebook)
	if err != nil {
		return nil, fmt.Errorf("generate notebook ID: %w", err)
	}

	nb, created, err := s.store.CreateNotebook(ctx, &domain.Notebook{
		ID:      notebookID,
		UserID:  req.UserID,
		VideoID: req.VideoID,
		Title:   req.Title,
	}, req.IdempotencyKey)
	if err != nil {
		return nil, notFound(err, "User not found.")
	}

	if created {
		s.logger.WithNotebook(nb.ID).Info("notebook created", "user_id", nb.UserID, "video_id", nb.VideoID)
	} else {
		s.logger.WithNotebook(nb.ID).Debug("notebook create replayed", "user_id", nb.UserID)
	}
	return nb, nil
}

// ListByUser returns a user's notebooks, newest first. An unknown user
// simply has none.
func (s *NotebookService) ListByUser(ctx context.Context, userID string) ([]*domain.Notebook, error) {
	notebooks, err := s.store.ListNotebooksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	return notebooks, nil
}

// Get returns one notebook.
func (s *NotebookService) Get(ctx context.Context, notebookID string) (*domain.Notebook, error) {
	nb, err := s.store.GetNotebook(ctx, notebookID)
	if err != nil {
		return nil, notFound(err, "Notebook not found.")
	}
	return nb, nil
}

// ChatSessions returns the notebook's session summaries, most recent first.
func (s *NotebookService) ChatSessions(ctx context.Context, notebookID string) ([]domain.ChatSessionSummary, error) {
	if _, err := s.store.GetNotebook(ctx, notebookID); err != nil {
		return nil, notFound(err, "Notebook not found.")
	}
	summaries, err := s.store.ListChatSessionSummaries(ctx, notebookID)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	return summaries, nil
}
