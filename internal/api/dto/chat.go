package dto

import "github.com/ytnotebook/ytnotebook/internal/domain"

// ChatRequest is one user message. Without a session id, or with one the
// server does not recognise for the notebook, a new session is started.
type ChatRequest struct {
	Query      string `json:"query,omitempty" doc:"The user's message"`
	VideoID    string `json:"video_id,omitempty" doc:"Video the notebook is bound to"`
	UserID     string `json:"user_id,omitempty" doc:"Sender"`
	NotebookID string `json:"notebook_id,omitempty" doc:"Notebook the session belongs to"`
	SessionID  string `json:"session_id,omitempty" doc:"Session to continue"`
}

// ChatResponse carries the answer and the session to use from now on.
type ChatResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

// HistoryResponse is a session's turns in order.
type HistoryResponse struct {
	SessionID string            `json:"session_id"`
	History   []domain.ChatTurn `json:"history"`
}
