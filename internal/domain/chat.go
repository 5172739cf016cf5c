package domain

import (
	"fmt"
	"time"
)

// Role identifies who produced a chat turn. The zero value is invalid.
type Role int

// Turn roles.
const (
	RoleUser Role = iota + 1
	RoleAssistant
)

// ParseRole converts the wire form of a role. Unknown strings fail.
func ParseRole(s string) (Role, error) {
	switch s {
	case "user":
		return RoleUser, nil
	case "assistant":
		return RoleAssistant, nil
	default:
		return 0, fmt.Errorf("unknown chat role %q", s)
	}
}

// String returns the wire form.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if r != RoleUser && r != RoleAssistant {
		return nil, fmt.Errorf("invalid chat role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ChatTurn is one message in a session.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn builds a user turn.
func UserTurn(content string) ChatTurn { return ChatTurn{Role: RoleUser, Content: content} }

// AssistantTurn builds an assistant turn.
func AssistantTurn(content string) ChatTurn {
	return ChatTurn{Role: RoleAssistant, Content: content}
}

// ChatSession is an append-only conversation thread within one notebook.
type ChatSession struct {
	ID          string     `json:"session_id"`
	NotebookID  string     `json:"notebook_id"`
	UserID      string     `json:"user_id"`
	VideoID     string     `json:"video_id"`
	Turns       []ChatTurn `json:"history"`
	FirstPrompt string     `json:"first_prompt"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Summary returns the listing form of the session.
func (s *ChatSession) Summary() ChatSessionSummary {
	return ChatSessionSummary{SessionID: s.ID, FirstPrompt: s.FirstPrompt, CreatedAt: s.CreatedAt}
}

// ChatSessionSummary is the lightweight listing form of a session.
type ChatSessionSummary struct {
	SessionID   string    `json:"session_id"`
	FirstPrompt string    `json:"first_prompt"`
	CreatedAt   time.Time `json:"created_at"`
}
