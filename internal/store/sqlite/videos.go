package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/store"
)

// UpsertVideo stores v and replaces its transcript segments.
// An existing row keeps its submitted_at.
func (s *Store) UpsertVideo(ctx context.Context, v *domain.Video) error {
	now := s.now()
	if v.SubmittedAt.IsZero() {
		v.SubmittedAt = now
	}
	v.UpdatedAt = now

	keywords, err := json.Marshal(nonNil(v.Description.Keywords))
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	tags, err := json.Marshal(nonNil(v.Description.CategoryTags))
	if err != nil {
		return fmt.Errorf("marshal category tags: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO videos (id, url, title, keywords, category_tags, detailed_description,
			summary, transcript_text, submitted_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			keywords = excluded.keywords,
			category_tags = excluded.category_tags,
			detailed_description = excluded.detailed_description,
			summary = excluded.summary,
			transcript_text = excluded.transcript_text,
			updated_at = excluded.updated_at`,
		v.ID, v.URL, v.Description.Title, string(keywords), string(tags),
		v.Description.DetailedDescription, v.Description.Summary, v.TranscriptText,
		formatTime(v.SubmittedAt), formatTime(v.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert video: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM video_segments WHERE video_id = ?`, v.ID); err != nil {
		return fmt.Errorf("clear segments: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO video_segments (video_id, position, start_ms, dur_ms, text) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare segment insert: %w", err)
	}
	defer stmt.Close()
	for i, seg := range v.Transcript {
		if _, err := stmt.ExecContext(ctx, v.ID, i, seg.Start.Milliseconds(), seg.Duration.Milliseconds(), seg.Text); err != nil {
			return fmt.Errorf("insert segment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit video: %w", err)
	}
	return nil
}

// GetVideo returns a video with its transcript.
func (s *Store) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	var (
		v                      domain.Video
		keywords, tags         string
		submittedAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, keywords, category_tags, detailed_description, summary,
			transcript_text, submitted_at, updated_at
		FROM videos WHERE id = ?`, id,
	).Scan(&v.ID, &v.URL, &v.Description.Title, &keywords, &tags,
		&v.Description.DetailedDescription, &v.Description.Summary, &v.TranscriptText,
		&submittedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}

	v.Description.VideoID = v.ID
	if err := json.Unmarshal([]byte(keywords), &v.Description.Keywords); err != nil {
		return nil, fmt.Errorf("unmarshal keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &v.Description.CategoryTags); err != nil {
		return nil, fmt.Errorf("unmarshal category tags: %w", err)
	}
	if v.SubmittedAt, err = parseTime(submittedAt); err != nil {
		return nil, fmt.Errorf("parse video submitted_at: %w", err)
	}
	if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse video updated_at: %w", err)
	}

	if v.Transcript, err = s.segments(ctx, id); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) segments(ctx context.Context, videoID string) ([]domain.TranscriptSegment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT start_ms, dur_ms, text FROM video_segments WHERE video_id = ? ORDER BY position`, videoID)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	segments := []domain.TranscriptSegment{}
	for rows.Next() {
		var (
			startMS, durMS int64
			seg            domain.TranscriptSegment
		)
		if err := rows.Scan(&startMS, &durMS, &seg.Text); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		seg.Start = time.Duration(startMS) * time.Millisecond
		seg.Duration = time.Duration(durMS) * time.Millisecond
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// ListVideoIDs returns every stored video id in submission order.
func (s *Store) ListVideoIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM videos ORDER BY submitted_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query video ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan video id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
