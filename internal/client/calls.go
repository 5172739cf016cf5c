package client

import (
	"context"
	"net/http"

	"github.com/ytnotebook/ytnotebook/internal/api/dto"
	"github.com/ytnotebook/ytnotebook/internal/domain"
)

// Signup creates an account.
func (c *Client) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	var out dto.SignupResponse
	err := c.do(ctx, call{
		op: "signup", method: http.MethodPost, path: "/signup", body: req,
		fallback: "Signup failed.",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login checks credentials and returns the identity to persist.
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.do(ctx, call{
		op: "login", method: http.MethodPost, path: "/login", body: req,
		fallback: "Login failed.",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitVideo registers a YouTube link and returns its canonical video id.
func (c *Client) SubmitVideo(ctx context.Context, videoURL string) (string, error) {
	var out dto.SubmitVideoResponse
	err := c.do(ctx, call{
		op: "submit video", method: http.MethodPost, path: "/submit-video",
		body:     dto.SubmitVideoRequest{URL: videoURL},
		fallback: "Failed to submit video.",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.VideoID, nil
}

// CreateNotebook creates a notebook. Requests carrying the same non-empty
// idempotencyKey create at most one notebook.
func (c *Client) CreateNotebook(ctx context.Context, req dto.CreateNotebookRequest, idempotencyKey string) (string, error) {
	header := http.Header{}
	if idempotencyKey != "" {
		header.Set("Idempotency-Key", idempotencyKey)
	}
	var out dto.CreateNotebookResponse
	err := c.do(ctx, call{
		op: "create notebook", method: http.MethodPost, path: "/notebooks",
		body: req, header: header,
		fallback: "Failed to create notebook.",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.NotebookID, nil
}

// ListNotebooks returns the notebooks owned by userID.
func (c *Client) ListNotebooks(ctx context.Context, userID string) ([]*domain.Notebook, error) {
	var out dto.NotebookListResponse
	err := c.do(ctx, call{
		op: "list notebooks", method: http.MethodGet, path: pathf("/notebooks/%s", userID),
		fallback: "Failed to fetch notebooks.",
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Notebooks == nil {
		out.Notebooks = []*domain.Notebook{}
	}
	return out.Notebooks, nil
}

// GetNotebook returns one notebook record.
func (c *Client) GetNotebook(ctx context.Context, notebookID string) (*domain.Notebook, error) {
	var out dto.NotebookResponse
	err := c.do(ctx, call{
		op: "get notebook", method: http.MethodGet, path: pathf("/notebook/%s", notebookID),
		fallback: "Failed to fetch notebook.",
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Notebook == nil {
		return nil, &Error{Op: "get notebook", Status: http.StatusNotFound, Detail: "Notebook not found."}
	}
	return out.Notebook, nil
}

// ListChatSessions returns the session summaries of a notebook.
func (c *Client) ListChatSessions(ctx context.Context, notebookID string) ([]domain.ChatSessionSummary, error) {
	var out []domain.ChatSessionSummary
	err := c.do(ctx, call{
		op: "list chat sessions", method: http.MethodGet, path: pathf("/notebook/%s/chat_sessions", notebookID),
		fallback: "Failed to fetch chat sessions.",
	}, &out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.ChatSessionSummary{}
	}
	return out, nil
}

// VideoDetails returns the transcript and description of a video.
func (c *Client) VideoDetails(ctx context.Context, videoID string) (*dto.VideoDetails, error) {
	var out dto.VideoDetails
	err := c.do(ctx, call{
		op: "video details", method: http.MethodGet, path: pathf("/video_details/%s", videoID),
		fallback: "Failed to fetch video details.",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Timestamps returns the moments of a video matching query.
func (c *Client) Timestamps(ctx context.Context, req dto.TimestampRequest) ([]domain.TimestampMatch, error) {
	var out dto.TimestampResponse
	err := c.do(ctx, call{
		op: "timestamps", method: http.MethodPost, path: "/get_timestamps", body: req,
		fallback: "Failed to fetch timestamps.",
	}, &out)
	if err != nil {
		return nil, err
	}
	for i := range out.Timestamps {
		out.Timestamps[i].VideoID = req.VideoID
	}
	return out.Timestamps, nil
}

// Chat sends one message. The response names the session to use from now
// on, which may differ from req.SessionID.
func (c *Client) Chat(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	var out dto.ChatResponse
	err := c.do(ctx, call{
		op: "chat", method: http.MethodPost, path: "/chat", body: req,
		fallback: "Failed to get response from server.",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChatHistory returns a session's turns in order.
func (c *Client) ChatHistory(ctx context.Context, sessionID string) ([]domain.ChatTurn, error) {
	var out dto.HistoryResponse
	err := c.do(ctx, call{
		op: "chat history", method: http.MethodGet, path: pathf("/chat/history/%s", sessionID),
		fallback: "Failed to load chat history.",
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.History == nil {
		out.History = []domain.ChatTurn{}
	}
	return out.History, nil
}
