package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ytnotebook/ytnotebook/internal/domain"
	domainerrors "github.com/ytnotebook/ytnotebook/internal/errors"
	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/search"
	"github.com/ytnotebook/ytnotebook/internal/store"
	"github.com/ytnotebook/ytnotebook/internal/transcript"
	"github.com/ytnotebook/ytnotebook/internal/youtube"
)

// TranscriptSource loads captions and descriptions for a video.
type TranscriptSource interface {
	Load(videoID string) (*transcript.Document, error)
}

// SegmentIndexer keeps the search index in step with stored transcripts.
type SegmentIndexer interface {
	ReplaceVideo(videoID string, docs []*search.SegmentDocument) error
}

// VideoService resolves submitted URLs and serves video details.
type VideoService struct {
	store   store.Videos
	source  TranscriptSource
	indexer SegmentIndexer
	logger  *logger.Logger
}

// NewVideoService creates a new video service.
func NewVideoService(videos store.Videos, source TranscriptSource, indexer SegmentIndexer, log *logger.Logger) *VideoService {
	if log == nil {
		log = logger.Discard()
	}
	return &VideoService{store: videos, source: source, indexer: indexer, logger: log.WithComponent("videos")}
}

// SubmitVideoRequest carries a YouTube link.
type SubmitVideoRequest struct {
	URL string `json:"url" validate:"notblank,max=2048"`
}

// Submit resolves the URL to a canonical video id and records the video.
// Submitting a known video is a no-op apart from picking up a transcript
// that was missing before. A video without a caption file is still
// accepted; its transcript is filled in once the file shows up.
func (s *VideoService) Submit(ctx context.Context, req SubmitVideoRequest) (string, error) {
	if err := validate.Validate(req); err != nil {
		return "", err
	}

	videoID, err := youtube.ExtractVideoID(strings.TrimSpace(req.URL))
	if err != nil {
		return "", domainerrors.Validation("Invalid YouTube URL").WithCause(err)
	}

	existing, err := s.store.GetVideo(ctx, videoID)
	switch {
	case err == nil && len(existing.Transcript) > 0:
		return videoID, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return "", fmt.Errorf("get video: %w", err)
	}

	video := &domain.Video{ID: videoID, URL: req.URL}
	if existing != nil {
		video.SubmittedAt = existing.SubmittedAt
	}
	if err := s.ingest(ctx, video); err != nil {
		return "", err
	}

	s.logger.Info("video submitted", "video_id", videoID, "segments", len(video.Transcript))
	return videoID, nil
}

// Details returns everything stored for a video.
func (s *VideoService) Details(ctx context.Context, videoID string) (*domain.Video, error) {
	v, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, notFound(err, "Video details not found.")
	}
	return v, nil
}

// Reload re-reads the transcript of an already submitted video.
// Videos nobody submitted are ignored.
func (s *VideoService) Reload(ctx context.Context, videoID string) error {
	v, err := s.store.GetVideo(ctx, videoID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get video: %w", err)
	}

	if err := s.ingest(ctx, v); err != nil {
		return err
	}
	s.logger.Info("transcript reloaded", "video_id", videoID, "segments", len(v.Transcript))
	return nil
}

// Reindex rebuilds the search documents of every stored video from the
// database.
func (s *VideoService) Reindex(ctx context.Context) error {
	ids, err := s.store.ListVideoIDs(ctx)
	if err != nil {
		return fmt.Errorf("list videos: %w", err)
	}
	for _, videoID := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, err := s.store.GetVideo(ctx, videoID)
		if err != nil {
			return fmt.Errorf("get video %s: %w", videoID, err)
		}
		if err := s.indexer.ReplaceVideo(videoID, search.DocumentsFor(videoID, v.Transcript)); err != nil {
			return fmt.Errorf("index video %s: %w", videoID, err)
		}
	}
	s.logger.Info("search index rebuilt", "videos", len(ids))
	return nil
}

// ingest loads v's transcript and description from the source, stores the
// video, then indexes its segments.
func (s *VideoService) ingest(ctx context.Context, v *domain.Video) error {
	doc, err := s.source.Load(v.ID)
	switch {
	case errors.Is(err, transcript.ErrNotFound):
		s.logger.Warn("no transcript yet", "video_id", v.ID)
		v.Transcript = []domain.TranscriptSegment{}
		v.TranscriptText = ""
		v.Description = domain.VideoDescription{VideoID: v.ID, Title: v.ID}
	case err != nil:
		return fmt.Errorf("load transcript: %w", err)
	default:
		v.Transcript = doc.Segments
		v.TranscriptText = transcript.Text(doc.Segments)
		v.Description = doc.Description
	}

	if err := s.store.UpsertVideo(ctx, v); err != nil {
		return fmt.Errorf("store video: %w", err)
	}
	if err := s.indexer.ReplaceVideo(v.ID, search.DocumentsFor(v.ID, v.Transcript)); err != nil {
		return fmt.Errorf("index video: %w", err)
	}
	return nil
}
