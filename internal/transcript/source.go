package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/youtube"
)

// ErrNotFound is returned when no caption file exists for a video.
var ErrNotFound = errors.New("transcript not available for this video")

const (
	captionExt     = ".srt"
	descriptionExt = ".json"
)

// Document is everything the directory holds for one video.
type Document struct {
	VideoID     string
	Segments    []domain.TranscriptSegment
	Description domain.VideoDescription
}

// DirSource reads <video_id>.srt captions and optional <video_id>.json
// descriptions from a single directory.
type DirSource struct {
	dir string
}

// NewDirSource creates the directory if needed and returns a source over it.
func NewDirSource(dir string) (*DirSource, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	return &DirSource{dir: dir}, nil
}

// Dir returns the watched directory.
func (s *DirSource) Dir() string {
	return s.dir
}

// Load reads the captions and description for videoID. Without a
// description file, the title falls back to the video id and the summary
// to the opening captions.
func (s *DirSource) Load(videoID string) (*Document, error) {
	if !youtube.ValidVideoID(videoID) {
		return nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, videoID+captionExt))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open captions: %w", err)
	}
	defer f.Close()

	segments, err := ParseSRT(f)
	if err != nil {
		return nil, fmt.Errorf("parse captions for %s: %w", videoID, err)
	}

	desc, err := s.loadDescription(videoID)
	if err != nil {
		return nil, err
	}
	if desc.Title == "" {
		desc.Title = videoID
	}
	if desc.Summary == "" {
		desc.Summary = opening(segments, 3)
	}
	desc.VideoID = videoID

	return &Document{VideoID: videoID, Segments: segments, Description: desc}, nil
}

func (s *DirSource) loadDescription(videoID string) (domain.VideoDescription, error) {
	var desc domain.VideoDescription

	data, err := os.ReadFile(filepath.Join(s.dir, videoID+descriptionExt))
	if errors.Is(err, os.ErrNotExist) {
		return desc, nil
	}
	if err != nil {
		return desc, fmt.Errorf("read description: %w", err)
	}
	if err := json.Unmarshal(data, &desc); err != nil {
		return desc, fmt.Errorf("decode description for %s: %w", videoID, err)
	}
	return desc, nil
}

// VideoIDForPath maps a caption or description file to its video id.
// ok is false for unrelated files.
func VideoIDForPath(path string) (videoID string, ok bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != captionExt && ext != descriptionExt {
		return "", false
	}
	videoID = strings.TrimSuffix(base, ext)
	return videoID, youtube.ValidVideoID(videoID)
}

func opening(segments []domain.TranscriptSegment, n int) string {
	return Text(segments[:min(n, len(segments))])
}
