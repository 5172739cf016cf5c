// Package search indexes transcript segments with Bleve so a video's
// captions can be searched for the moments that match a query.
package search

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/ytnotebook/ytnotebook/internal/domain"
)

// SegmentDocument is one caption cue as stored in the index.
type SegmentDocument struct {
	ID       string
	VideoID  string
	Position int
	Start    time.Duration
	Duration time.Duration
	Text     string
}

// SegmentID is the document id of the n-th segment of a video.
func SegmentID(videoID string, n int) string {
	return fmt.Sprintf("%s#%05d", videoID, n)
}

// DocumentsFor converts a transcript into index documents. Empty cues are skipped.
func DocumentsFor(videoID string, segments []domain.TranscriptSegment) []*SegmentDocument {
	docs := make([]*SegmentDocument, 0, len(segments))
	for i, s := range segments {
		text := normalize(s.Text)
		if text == "" {
			continue
		}
		docs = append(docs, &SegmentDocument{
			ID:       SegmentID(videoID, i),
			VideoID:  videoID,
			Position: i,
			Start:    s.Start,
			Duration: s.Duration,
			Text:     text,
		})
	}
	return docs
}

// ToMap converts the document to the field names used by the mapping.
func (d *SegmentDocument) ToMap() map[string]any {
	return map[string]any{
		"video_id": d.VideoID,
		"position": float64(d.Position),
		"start_ms": float64(d.Start.Milliseconds()),
		"dur_ms":   float64(d.Duration.Milliseconds()),
		"text":     d.Text,
	}
}

// normalize composes Unicode so visually equal captions index identically.
func normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
