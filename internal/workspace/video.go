package workspace

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ytnotebook/ytnotebook/internal/api/dto"
	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/youtube"
)

// UnavailableTitle is shown when a video's details cannot be loaded.
const UnavailableTitle = "Video Unavailable"

// Video panel errors.
var (
	// ErrNoTimestamps is returned when a search finds nothing.
	ErrNoTimestamps = errors.New("no relevant timestamps found")
	// ErrNoVideo is returned by Search before any video is loaded.
	ErrNoVideo = errors.New("no video is loaded")
)

// VideoPanel shows the open notebook's video: its description and the
// timestamps matching a search. Matches only ever belong to the loaded
// video; loading another video clears them.
type VideoPanel struct {
	backend Backend
	logger  *logger.Logger

	mu        sync.Mutex
	videoID   string
	title     string
	details   *dto.VideoDetails
	matches   []domain.TimestampMatch
	loadGen   uint64
	searchGen uint64
}

// NewVideoPanel creates an empty panel.
func NewVideoPanel(backend Backend, log *logger.Logger) *VideoPanel {
	if log == nil {
		log = logger.Discard()
	}
	return &VideoPanel{backend: backend, logger: log.WithComponent("video")}
}

// Load shows videoID. Previous matches are cleared before the fetch. On
// failure the title reads UnavailableTitle and the error is returned.
func (p *VideoPanel) Load(ctx context.Context, videoID string) error {
	p.mu.Lock()
	p.loadGen++
	p.searchGen++
	gen := p.loadGen
	p.videoID = videoID
	p.title = ""
	p.details = nil
	p.matches = nil
	p.mu.Unlock()

	details, err := p.backend.VideoDetails(ctx, videoID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadGen != gen {
		return ErrSuperseded
	}
	if err != nil {
		p.title = UnavailableTitle
		p.logger.Warn("failed to load video details", "video_id", videoID, "error", err)
		return err
	}

	p.details = details
	p.title = details.Title
	if p.title == "" {
		p.title = details.Description.Title
	}
	if p.title == "" {
		p.title = videoID
	}
	return nil
}

// Search finds the moments of the loaded video matching query. Earlier
// matches are cleared first. A result that arrives after another video was
// loaded, or after a newer search started, is discarded.
func (p *VideoPanel) Search(ctx context.Context, query string) ([]domain.TimestampMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	p.mu.Lock()
	if p.videoID == "" {
		p.mu.Unlock()
		return nil, ErrNoVideo
	}
	p.searchGen++
	gen := p.searchGen
	videoID := p.videoID
	p.matches = nil
	p.mu.Unlock()

	matches, err := p.backend.Timestamps(ctx, dto.TimestampRequest{Query: query, VideoID: videoID})

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.searchGen != gen || p.videoID != videoID {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	kept := make([]domain.TimestampMatch, 0, len(matches))
	for _, m := range matches {
		if m.VideoID == "" || m.VideoID == videoID {
			m.VideoID = videoID
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoTimestamps
	}
	p.matches = kept
	return append([]domain.TimestampMatch{}, kept...), nil
}

// VideoID returns the loaded video.
func (p *VideoPanel) VideoID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.videoID
}

// Title returns the title to display.
func (p *VideoPanel) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// Details returns the loaded details, or nil.
func (p *VideoPanel) Details() *dto.VideoDetails {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.details
}

// Matches returns the current timestamp matches.
func (p *VideoPanel) Matches() []domain.TimestampMatch {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.TimestampMatch{}, p.matches...)
}

// PlayerURL returns the embed URL starting at m, for a match of the loaded
// video.
func (p *VideoPanel) PlayerURL(m domain.TimestampMatch) (string, error) {
	p.mu.Lock()
	videoID := p.videoID
	p.mu.Unlock()
	if m.VideoID != videoID {
		return "", ErrSuperseded
	}
	return youtube.EmbedURL(videoID, m.Timestamp)
}
