package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/store"
)

const notebookColumns = `id, user_id, video_id, title, latest_session_id, created_at, updated_at`

// CreateNotebook inserts nb, or returns the notebook already created by the
// same owner under idempotencyKey.
func (s *Store) CreateNotebook(ctx context.Context, nb *domain.Notebook, idempotencyKey string) (*domain.Notebook, bool, error) {
	if idempotencyKey != "" {
		existing, err := s.notebookByKey(ctx, nb.UserID, idempotencyKey)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, false, err
		}
	}

	now := s.now()
	if nb.CreatedAt.IsZero() {
		nb.CreatedAt = now
	}
	nb.UpdatedAt = nb.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notebooks (id, user_id, video_id, title, latest_session_id, idempotency_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, NULL, ?, ?, ?)`,
		nb.ID, nb.UserID, nb.VideoID, nb.Title, nullString(idempotencyKey),
		formatTime(nb.CreatedAt), formatTime(nb.UpdatedAt),
	)
	switch {
	case isUniqueViolation(err) && idempotencyKey != "":
		// A concurrent request with the same key won the insert.
		existing, getErr := s.notebookByKey(ctx, nb.UserID, idempotencyKey)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	case isUniqueViolation(err):
		return nil, false, store.ErrAlreadyExists.WithMessage("notebook already exists")
	case isForeignKeyViolation(err):
		return nil, false, store.ErrUserNotFound
	case err != nil:
		return nil, false, fmt.Errorf("insert notebook: %w", err)
	}
	nb.LatestSessionID = nil
	return nb, true, nil
}

func (s *Store) notebookByKey(ctx context.Context, userID, key string) (*domain.Notebook, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+notebookColumns+` FROM notebooks WHERE user_id = ? AND idempotency_key = ?`, userID, key)
	return scanNotebook(row)
}

// GetNotebook returns a notebook by id.
func (s *Store) GetNotebook(ctx context.Context, id string) (*domain.Notebook, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+notebookColumns+` FROM notebooks WHERE id = ?`, id)
	return scanNotebook(row)
}

// ListNotebooksByUser returns a user's notebooks, newest first.
func (s *Store) ListNotebooksByUser(ctx context.Context, userID string) ([]*domain.Notebook, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+notebookColumns+` FROM notebooks WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query notebooks: %w", err)
	}
	defer rows.Close()

	notebooks := []*domain.Notebook{}
	for rows.Next() {
		nb, err := scanNotebook(rows)
		if err != nil {
			return nil, err
		}
		notebooks = append(notebooks, nb)
	}
	return notebooks, rows.Err()
}

func scanNotebook(row scanner) (*domain.Notebook, error) {
	var (
		nb                   domain.Notebook
		latest               sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&nb.ID, &nb.UserID, &nb.VideoID, &nb.Title, &latest, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotebookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan notebook: %w", err)
	}
	nb.LatestSessionID = nullableString(latest)
	if nb.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse notebook created_at: %w", err)
	}
	if nb.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse notebook updated_at: %w", err)
	}
	return &nb, nil
}
