package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/store"
)

// AppendTurns persists one exchange and records the session as the
// notebook's latest, atomically.
func (s *Store) AppendTurns(ctx context.Context, a store.AppendTurns) error {
	for _, t := range a.Turns {
		if t.Role != domain.RoleUser && t.Role != domain.RoleAssistant {
			return store.ErrInvalidInput.WithMessage(fmt.Sprintf("invalid chat role %d", int(t.Role)))
		}
	}

	now := formatTime(s.now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if a.Create {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chat_sessions (id, notebook_id, user_id, video_id, first_prompt, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.SessionID, a.NotebookID, a.UserID, a.VideoID, a.FirstPrompt, now, now,
		)
		switch {
		case isForeignKeyViolation(err):
			return store.ErrNotebookNotFound
		case isUniqueViolation(err):
			return store.ErrAlreadyExists.WithMessage("chat session already exists")
		case err != nil:
			return fmt.Errorf("insert chat session: %w", err)
		}
	} else {
		var notebookID string
		err := tx.QueryRowContext(ctx, `SELECT notebook_id FROM chat_sessions WHERE id = ?`, a.SessionID).Scan(&notebookID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && notebookID != a.NotebookID) {
			return store.ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("lookup chat session: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE chat_sessions SET updated_at = ? WHERE id = ?`, now, a.SessionID); err != nil {
			return fmt.Errorf("touch chat session: %w", err)
		}
	}

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq) + 1, 0) FROM chat_turns WHERE session_id = ?`, a.SessionID,
	).Scan(&next); err != nil {
		return fmt.Errorf("next turn seq: %w", err)
	}

	for i, t := range a.Turns {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chat_turns (session_id, seq, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
			a.SessionID, next+i, t.Role.String(), t.Content, now,
		); err != nil {
			return fmt.Errorf("insert chat turn: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE notebooks SET latest_session_id = ?, updated_at = ? WHERE id = ?`, a.SessionID, now, a.NotebookID)
	if err != nil {
		return fmt.Errorf("update latest session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotebookNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chat turns: %w", err)
	}
	return nil
}

// GetChatSession returns a session and its turns in order.
func (s *Store) GetChatSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	var (
		cs                   domain.ChatSession
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, notebook_id, user_id, video_id, first_prompt, created_at, updated_at
		FROM chat_sessions WHERE id = ?`, id,
	).Scan(&cs.ID, &cs.NotebookID, &cs.UserID, &cs.VideoID, &cs.FirstPrompt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get chat session: %w", err)
	}
	if cs.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse session created_at: %w", err)
	}
	if cs.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse session updated_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM chat_turns WHERE session_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query chat turns: %w", err)
	}
	defer rows.Close()

	cs.Turns = []domain.ChatTurn{}
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("scan chat turn: %w", err)
		}
		r, err := domain.ParseRole(role)
		if err != nil {
			return nil, err
		}
		cs.Turns = append(cs.Turns, domain.ChatTurn{Role: r, Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &cs, nil
}

// ListChatSessionSummaries returns a notebook's sessions, newest first.
func (s *Store) ListChatSessionSummaries(ctx context.Context, notebookID string) ([]domain.ChatSessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_prompt, created_at FROM chat_sessions
		WHERE notebook_id = ? ORDER BY created_at DESC, id DESC`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("query chat sessions: %w", err)
	}
	defer rows.Close()

	summaries := []domain.ChatSessionSummary{}
	for rows.Next() {
		var (
			sum       domain.ChatSessionSummary
			createdAt string
		)
		if err := rows.Scan(&sum.SessionID, &sum.FirstPrompt, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		if sum.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse session created_at: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
