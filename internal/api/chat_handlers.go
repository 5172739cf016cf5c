package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ytnotebook/ytnotebook/internal/api/dto"
	"github.com/ytnotebook/ytnotebook/internal/service"
)

func (s *Server) registerChatRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "chat",
		Method:        http.MethodPost,
		Path:          "/chat",
		Summary:       "Send chat message",
		Description:   "Answers a question about the notebook's video. The response names the session the turn was recorded in, which may be new.",
		Tags:          []string{"Chat"},
		DefaultStatus: http.StatusOK,
	}, s.handleChat)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChatHistory",
		Method:      http.MethodGet,
		Path:        "/chat/history/{session_id}",
		Summary:     "Get chat history",
		Description: "Returns a session's turns in order",
		Tags:        []string{"Chat"},
	}, s.handleChatHistory)
}

// ChatInput wraps the chat request for Huma.
type ChatInput struct {
	Body dto.ChatRequest
}

// ChatOutput wraps the chat response for Huma.
type ChatOutput struct {
	Body dto.ChatResponse
}

// SessionIDParam is the path parameter naming a chat session.
type SessionIDParam struct {
	SessionID string `path:"session_id" doc:"Chat session ID"`
}

// HistoryOutput wraps a session's history for Huma.
type HistoryOutput struct {
	Body dto.HistoryResponse
}

func (s *Server) handleChat(ctx context.Context, input *ChatInput) (*ChatOutput, error) {
	resp, err := s.services.Chat.Chat(ctx, service.ChatRequest{
		Query:      input.Body.Query,
		VideoID:    input.Body.VideoID,
		UserID:     input.Body.UserID,
		NotebookID: input.Body.NotebookID,
		SessionID:  input.Body.SessionID,
	})
	if err != nil {
		return nil, s.fail("chat", err)
	}

	return &ChatOutput{Body: dto.ChatResponse{
		Answer:    resp.Answer,
		SessionID: resp.SessionID,
	}}, nil
}

func (s *Server) handleChatHistory(ctx context.Context, input *SessionIDParam) (*HistoryOutput, error) {
	session, err := s.services.Chat.History(ctx, input.SessionID)
	if err != nil {
		return nil, s.fail("chat history", err)
	}

	return &HistoryOutput{Body: dto.HistoryResponse{
		SessionID: session.ID,
		History:   session.Turns,
	}}, nil
}
