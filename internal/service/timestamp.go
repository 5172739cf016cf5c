package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ytnotebook/ytnotebook/internal/domain"
	domainerrors "github.com/ytnotebook/ytnotebook/internal/errors"
	"github.com/ytnotebook/ytnotebook/internal/search"
	"github.com/ytnotebook/ytnotebook/internal/store"
	"github.com/ytnotebook/ytnotebook/internal/youtube"
)

const (
	// timestampCandidates is how many segments are considered per query.
	timestampCandidates = 5
	// maxTimestamps is how many markers a query returns at most.
	maxTimestamps = 3
)

// SegmentSearcher finds caption segments matching a query.
type SegmentSearcher interface {
	Search(ctx context.Context, q search.SegmentQuery) ([]search.SegmentHit, error)
}

// TimestampService finds the moments in a video that match a query.
type TimestampService struct {
	store    store.Videos
	searcher SegmentSearcher
}

// NewTimestampService creates a new timestamp service.
func NewTimestampService(videos store.Videos, searcher SegmentSearcher) *TimestampService {
	return &TimestampService{store: videos, searcher: searcher}
}

// TimestampRequest asks for the moments of a video matching Query.
type TimestampRequest struct {
	Query   string `json:"query" validate:"notblank,max=500"`
	VideoID string `json:"video_id" validate:"notblank,max=64"`
}

// Find returns up to three matches in playback order. No match is an
// empty slice, not an error.
func (s *TimestampService) Find(ctx context.Context, req TimestampRequest) ([]domain.TimestampMatch, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	v, err := s.store.GetVideo(ctx, req.VideoID)
	if err != nil {
		return nil, notFound(err, "Video details not found.")
	}
	if len(v.Transcript) == 0 {
		return nil, domainerrors.NotFound("Transcript not available for this video.")
	}

	hits, err := s.searcher.Search(ctx, search.SegmentQuery{
		VideoID: req.VideoID,
		Text:    strings.TrimSpace(req.Query),
		Limit:   timestampCandidates,
	})
	if err != nil {
		return nil, fmt.Errorf("search segments: %w", err)
	}

	if len(hits) > maxTimestamps {
		hits = hits[:maxTimestamps]
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Start < hits[j].Start })

	matches := make([]domain.TimestampMatch, 0, len(hits))
	for _, h := range hits {
		matches = append(matches, domain.TimestampMatch{
			Timestamp: youtube.FormatMarker(h.Start),
			Text:      h.Text,
			VideoID:   req.VideoID,
		})
	}
	return matches, nil
}
