package dto

import "github.com/ytnotebook/ytnotebook/internal/domain"

// CreateNotebookRequest binds a submitted video to a new notebook.
type CreateNotebookRequest struct {
	UserID        string `json:"user_id,omitempty" doc:"Owner of the notebook"`
	VideoID       string `json:"video_id,omitempty" doc:"Canonical video id from /submit-video"`
	NotebookTitle string `json:"notebook_title,omitempty" doc:"Notebook title"`
}

// CreateNotebookResponse names the created notebook.
type CreateNotebookResponse struct {
	Message    string `json:"message"`
	NotebookID string `json:"notebook_id"`
}

// NotebookListResponse lists a user's notebooks.
type NotebookListResponse struct {
	Message   string             `json:"message"`
	Notebooks []*domain.Notebook `json:"notebooks"`
}

// NotebookResponse wraps a single notebook.
type NotebookResponse struct {
	Message  string           `json:"message"`
	Notebook *domain.Notebook `json:"notebook"`
}
