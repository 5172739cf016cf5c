package domain

import "time"

// Notebook binds one video to a user and an evolving set of chat sessions.
type Notebook struct {
	ID     string `json:"_id"`
	UserID string `json:"user_id"`
	// VideoID is the canonical YouTube id.
	VideoID string `json:"video_id"`
	Title   string `json:"notebook_title"`
	// LatestSessionID is the session most recently written to, if any.
	// It always references a session belonging to this notebook.
	LatestSessionID *string   `json:"latest_session_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Latest returns the latest session id, or "" when there is none.
func (n *Notebook) Latest() string {
	if n == nil || n.LatestSessionID == nil {
		return ""
	}
	return *n.LatestSessionID
}
