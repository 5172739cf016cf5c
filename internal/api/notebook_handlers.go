package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ytnotebook/ytnotebook/internal/api/dto"
	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/service"
)

func (s *Server) registerNotebookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createNotebook",
		Method:        http.MethodPost,
		Path:          "/notebooks",
		Summary:       "Create notebook",
		Description:   "Binds a submitted video to a new notebook. Retries carrying the same Idempotency-Key return the first notebook.",
		Tags:          []string{"Notebooks"},
		DefaultStatus: http.StatusOK,
	}, s.handleCreateNotebook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listNotebooks",
		Method:      http.MethodGet,
		Path:        "/notebooks/{user_id}",
		Summary:     "List notebooks",
		Description: "Returns a user's notebooks, newest first",
		Tags:        []string{"Notebooks"},
	}, s.handleListNotebooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNotebook",
		Method:      http.MethodGet,
		Path:        "/notebook/{notebook_id}",
		Summary:     "Get notebook",
		Description: "Returns a notebook including its most recent chat session",
		Tags:        []string{"Notebooks"},
	}, s.handleGetNotebook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listChatSessions",
		Method:      http.MethodGet,
		Path:        "/notebook/{notebook_id}/chat_sessions",
		Summary:     "List chat sessions",
		Description: "Returns the notebook's chat sessions, newest first",
		Tags:        []string{"Notebooks", "Chat"},
	}, s.handleListChatSessions)
}

// CreateNotebookInput wraps the create request for Huma.
type CreateNotebookInput struct {
	IdempotencyKey string `header:"Idempotency-Key" doc:"Client-chosen key; retries with the same key create at most one notebook"`
	Body           dto.CreateNotebookRequest
}

// CreateNotebookOutput wraps the create response for Huma.
type CreateNotebookOutput struct {
	Body dto.CreateNotebookResponse
}

// UserIDParam is the path parameter naming a user.
type UserIDParam struct {
	UserID string `path:"user_id" doc:"User ID"`
}

// NotebookIDParam is the path parameter naming a notebook.
type NotebookIDParam struct {
	NotebookID string `path:"notebook_id" doc:"Notebook ID"`
}

// NotebookListOutput wraps the notebook list for Huma.
type NotebookListOutput struct {
	Body dto.NotebookListResponse
}

// NotebookOutput wraps a single notebook for Huma.
type NotebookOutput struct {
	Body dto.NotebookResponse
}

// ChatSessionsOutput wraps the session summaries for Huma. The body is a
// bare array.
type ChatSessionsOutput struct {
	Body []domain.ChatSessionSummary
}

func (s *Server) handleCreateNotebook(ctx context.Context, input *CreateNotebookInput) (*CreateNotebookOutput, error) {
	nb, err := s.services.Notebook.Create(ctx, service.CreateNotebookRequest{
		UserID:         input.Body.UserID,
		VideoID:        input.Body.VideoID,
		Title:          input.Body.NotebookTitle,
		IdempotencyKey: input.IdempotencyKey,
	})
	if err != nil {
		return nil, s.fail("create notebook", err)
	}

	return &CreateNotebookOutput{Body: dto.CreateNotebookResponse{
		Message:    "Notebook created successfully!",
		NotebookID: nb.ID,
	}}, nil
}

func (s *Server) handleListNotebooks(ctx context.Context, input *UserIDParam) (*NotebookListOutput, error) {
	notebooks, err := s.services.Notebook.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, s.fail("list notebooks", err)
	}

	return &NotebookListOutput{Body: dto.NotebookListResponse{
		Message:   "Notebooks retrieved successfully!",
		Notebooks: notebooks,
	}}, nil
}

func (s *Server) handleGetNotebook(ctx context.Context, input *NotebookIDParam) (*NotebookOutput, error) {
	nb, err := s.services.Notebook.Get(ctx, input.NotebookID)
	if err != nil {
		return nil, s.fail("get notebook", err)
	}

	return &NotebookOutput{Body: dto.NotebookResponse{
		Message:  "Notebook retrieved successfully!",
		Notebook: nb,
	}}, nil
}

func (s *Server) handleListChatSessions(ctx context.Context, input *NotebookIDParam) (*ChatSessionsOutput, error) {
	summaries, err := s.services.Notebook.ChatSessions(ctx, input.NotebookID)
	if err != nil {
		return nil, s.fail("list chat sessions", err)
	}
	return &ChatSessionsOutput{Body: summaries}, nil
}
