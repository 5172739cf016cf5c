package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ytnotebook/ytnotebook/internal/domain"
	domainerrors "github.com/ytnotebook/ytnotebook/internal/errors"
	"github.com/ytnotebook/ytnotebook/internal/id"
	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/store"
)

// ChatService runs chat turns and serves session history.
type ChatService struct {
	store     store.Store
	assistant Assistant
	logger    *logger.Logger
}

// NewChatService creates a new chat service.
func NewChatService(s store.Store, assistant Assistant, log *logger.Logger) *ChatService {
	if log == nil {
		log = logger.Discard()
	}
	return &ChatService{store: s, assistant: assistant, logger: log.WithComponent("chat")}
}

// ChatRequest is one user message. SessionID is optional.
type ChatRequest struct {
	Query      string `json:"query" validate:"notblank,max=4000"`
	VideoID    string `json:"video_id" validate:"notblank,max=64"`
	UserID     string `json:"user_id" validate:"notblank"`
	NotebookID string `json:"notebook_id" validate:"notblank"`
	SessionID  string `json:"session_id,omitempty"`
}

// ChatResponse carries the answer and the session it was recorded in.
type ChatResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

// Chat answers req and records both turns. The server decides the session:
// a SessionID that is missing, unknown or belongs to another notebook
// starts a new session, and the response always names the session the
// turns went to.
func (s *ChatService) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	query := strings.TrimSpace(req.Query)

	nb, err := s.store.GetNotebook(ctx, req.NotebookID)
	if err != nil {
		return nil, notFound(err, "Notebook not found.")
	}
	if nb.UserID != req.UserID {
		return nil, domainerrors.NotFound("Notebook not found.")
	}
	if nb.VideoID != req.VideoID {
		return nil, domainerrors.Validation("video_id does not match the notebook's video")
	}

	session, err := s.resolveSession(ctx, nb, req.SessionID)
	if err != nil {
		return nil, err
	}
	create := session == nil
	var history []domain.ChatTurn
	sessionID := req.SessionID
	if create {
		if sessionID, err = id.NewSessionID(); err != nil {
			return nil, err
		}
	} else {
		history = session.Turns
	}

	answer, err := s.assistant.Answer(ctx, AnswerRequest{VideoID: nb.VideoID, Query: query, History: history})
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}

	err = s.store.AppendTurns(ctx, store.AppendTurns{
		SessionID:   sessionID,
		NotebookID:  nb.ID,
		UserID:      req.UserID,
		VideoID:     nb.VideoID,
		Create:      create,
		FirstPrompt: query,
		Turns:       []domain.ChatTurn{domain.UserTurn(query), domain.AssistantTurn(answer)},
	})
	if err != nil {
		return nil, fmt.Errorf("record chat turns: %w", err)
	}

	log := s.logger.WithNotebook(nb.ID)
	if create {
		log.Info("chat session started", "session_id", sessionID, "requested", req.SessionID)
	} else {
		log.Debug("chat turn recorded", "session_id", sessionID, "turns", len(history)+2)
	}
	return &ChatResponse{Answer: answer, SessionID: sessionID}, nil
}

// resolveSession returns the session to continue, or nil when a new one
// must be started.
func (s *ChatService) resolveSession(ctx context.Context, nb *domain.Notebook, sessionID string) (*domain.ChatSession, error) {
	if sessionID == "" {
		return nil, nil
	}
	session, err := s.store.GetChatSession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chat session: %w", err)
	}
	if session.NotebookID != nb.ID {
		return nil, nil
	}
	return session, nil
}

// History returns a session with its turns in order.
func (s *ChatService) History(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	session, err := s.store.GetChatSession(ctx, sessionID)
	if err != nil {
		return nil, notFound(err, "Chat session or history not found.")
	}
	return session, nil
}
