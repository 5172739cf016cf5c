// Package workspace coordinates a logged-in user's notebooks and their chat
// sessions on the client side.
//
// A Workspace owns one Session Reconciler, which is the only holder of the
// "current session" pointer. The notebook directory, the chat session
// registry, the conversation view and the video panel all read from it;
// none keeps its own copy. Every backend call is caught at its boundary:
// failures become view state (an error turn, an empty list, an unavailable
// video) and are also returned to the caller. Nothing is retried.
package workspace

import (
	"context"
	"errors"
	"sync"

	"github.com/ytnotebook/ytnotebook/internal/api/dto"
	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/logger"
)

// Backend is the subset of the notebook HTTP API the coordinator uses.
// *client.Client implements it.
type Backend interface {
	ListNotebooks(ctx context.Context, userID string) ([]*domain.Notebook, error)
	GetNotebook(ctx context.Context, notebookID string) (*domain.Notebook, error)
	ListChatSessions(ctx context.Context, notebookID string) ([]domain.ChatSessionSummary, error)
	ChatHistory(ctx context.Context, sessionID string) ([]domain.ChatTurn, error)
	Chat(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error)
	SubmitVideo(ctx context.Context, videoURL string) (string, error)
	CreateNotebook(ctx context.Context, req dto.CreateNotebookRequest, idempotencyKey string) (string, error)
	VideoDetails(ctx context.Context, videoID string) (*dto.VideoDetails, error)
	Timestamps(ctx context.Context, req dto.TimestampRequest) ([]domain.TimestampMatch, error)
}

// Sentinel errors.
var (
	// ErrNotLoggedIn is returned when a workspace is created without an identity.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrNoNotebook is returned by operations that need an open notebook.
	ErrNoNotebook = errors.New("no notebook is open")
	// ErrSuperseded means a result arrived after the state it was fetched
	// for had changed. It was discarded, not applied.
	ErrSuperseded = errors.New("result superseded by a newer request")
)

// Workspace is the coordinator for one logged-in user.
type Workspace struct {
	backend  Backend
	identity domain.Identity
	logger   *logger.Logger

	Directory  *Directory
	Registry   *Registry
	Reconciler *Reconciler
	Video      *VideoPanel

	mu           sync.Mutex
	selection    Selection
	conversation *Conversation
}

// New creates a workspace for identity.
func New(backend Backend, identity domain.Identity, log *logger.Logger) (*Workspace, error) {
	if identity.IsZero() {
		return nil, ErrNotLoggedIn
	}
	if log == nil {
		log = logger.Discard()
	}
	registry := NewRegistry(backend)
	return &Workspace{
		backend:    backend,
		identity:   identity,
		logger:     log,
		Directory:  NewDirectory(backend, log),
		Registry:   registry,
		Reconciler: NewReconciler(backend, registry, log),
		Video:      NewVideoPanel(backend, log),
	}, nil
}

// Identity returns the logged-in user.
func (w *Workspace) Identity() domain.Identity {
	return w.identity
}

// LoadNotebooks fetches the user's notebooks into the directory.
func (w *Workspace) LoadNotebooks(ctx context.Context) ([]*domain.Notebook, error) {
	return w.Directory.Load(ctx, w.identity.UserID)
}

// OpenNotebook makes sel the open notebook: the reconciler resolves its
// current session, the conversation loads that session's history and the
// video panel loads the bound video. Every step runs even when an earlier
// one fails; the returned error joins the failures.
func (w *Workspace) OpenNotebook(ctx context.Context, sel Selection) error {
	conv := NewConversation(w.backend, w.Reconciler, w.identity, w.logger)

	w.mu.Lock()
	w.selection = sel
	w.conversation = conv
	w.mu.Unlock()

	openErr := w.Reconciler.Open(ctx, sel.NotebookID, sel.VideoID)
	if errors.Is(openErr, ErrSuperseded) {
		return openErr
	}

	loadErr := conv.Load(ctx)
	videoErr := w.Video.Load(ctx, sel.VideoID)

	return errors.Join(openErr, loadErr, videoErr)
}

// Selection returns the open notebook, if any.
func (w *Workspace) Selection() (Selection, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection, w.selection.NotebookID != ""
}

// Conversation returns the conversation of the open notebook, or nil.
func (w *Workspace) Conversation() *Conversation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conversation
}

// StartNewChat clears the current session so the next message starts a
// new one, and resets the conversation view to the greeting.
func (w *Workspace) StartNewChat(ctx context.Context) error {
	if err := w.Reconciler.StartNewChat(); err != nil {
		return err
	}
	return w.reloadConversation(ctx)
}

// SelectSession makes sessionID current and loads its history.
func (w *Workspace) SelectSession(ctx context.Context, sessionID string) error {
	if err := w.Reconciler.SelectSession(sessionID); err != nil {
		return err
	}
	return w.reloadConversation(ctx)
}

func (w *Workspace) reloadConversation(ctx context.Context) error {
	conv := w.Conversation()
	if conv == nil {
		return ErrNoNotebook
	}
	return conv.Load(ctx)
}

// Submitter returns a submission flow for the logged-in user.
func (w *Workspace) Submitter() *Submitter {
	return NewSubmitter(w.backend, w.identity.UserID, w.logger)
}

// CreateNotebook runs the submission flow for sub and opens the new
// notebook. A *PartialSubmissionError leaves sub ready to be resubmitted.
func (w *Workspace) CreateNotebook(ctx context.Context, sub *Submission) (Selection, error) {
	if err := w.Submitter().Submit(ctx, sub); err != nil {
		return Selection{}, err
	}

	sel := Selection{NotebookID: sub.NotebookID, VideoID: sub.VideoID, Title: sub.Title}
	if _, err := w.LoadNotebooks(ctx); err != nil {
		w.logger.Warn("notebook list refresh failed after create", "error", err)
	}
	return sel, w.OpenNotebook(ctx, sel)
}
