// Package store defines the persistence contract of the notebook server.
package store

import (
	"context"

	"github.com/ytnotebook/ytnotebook/internal/domain"
)

// Store is everything the services need from persistence.
type Store interface {
	Users
	Notebooks
	Videos
	ChatSessions

	// Ping reports whether the database is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// Users persists accounts.
type Users interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Notebooks persists notebooks.
type Notebooks interface {
	// CreateNotebook inserts nb. When idempotencyKey is non-empty and the
	// owner already created a notebook with that key, the existing notebook
	// is returned with created=false and nb is left untouched.
	CreateNotebook(ctx context.Context, nb *domain.Notebook, idempotencyKey string) (existing *domain.Notebook, created bool, err error)
	GetNotebook(ctx context.Context, id string) (*domain.Notebook, error)
	// ListNotebooksByUser returns the user's notebooks, newest first.
	ListNotebooksByUser(ctx context.Context, userID string) ([]*domain.Notebook, error)
}

// Videos persists submitted videos and their transcripts.
type Videos interface {
	// UpsertVideo inserts v or replaces its transcript and description,
	// keeping the original SubmittedAt.
	UpsertVideo(ctx context.Context, v *domain.Video) error
	GetVideo(ctx context.Context, id string) (*domain.Video, error)
	ListVideoIDs(ctx context.Context) ([]string, error)
}

// AppendTurns describes one chat exchange to persist.
type AppendTurns struct {
	SessionID  string
	NotebookID string
	UserID     string
	VideoID    string
	// Create starts the session; FirstPrompt is recorded only then.
	Create      bool
	FirstPrompt string
	Turns       []domain.ChatTurn
}

// ChatSessions persists chat sessions and their turns.
type ChatSessions interface {
	// AppendTurns writes the turns (creating the session first when
	// requested) and points the notebook's latest_session_id at the
	// session, all in one transaction.
	AppendTurns(ctx context.Context, a AppendTurns) error
	// GetChatSession returns the session with its turns in order.
	GetChatSession(ctx context.Context, id string) (*domain.ChatSession, error)
	// ListChatSessionSummaries returns the notebook's sessions, newest first.
	ListChatSessionSummaries(ctx context.Context, notebookID string) ([]domain.ChatSessionSummary, error)
}
