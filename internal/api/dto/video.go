package dto

import (
	"time"

	"github.com/ytnotebook/ytnotebook/internal/domain"
)

// SubmitVideoRequest carries a YouTube link.
type SubmitVideoRequest struct {
	URL string `json:"url,omitempty" doc:"YouTube watch URL or youtu.be short link"`
}

// SubmitVideoResponse names the canonical video id.
type SubmitVideoResponse struct {
	Message string `json:"message"`
	VideoID string `json:"video_id"`
}

// TranscriptEntry is one caption cue; times are in seconds.
type TranscriptEntry struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// VideoDetails is everything the server holds about a video.
type VideoDetails struct {
	VideoID        string                  `json:"video_id"`
	URL            string                  `json:"url"`
	Title          string                  `json:"title"`
	Transcript     []TranscriptEntry       `json:"transcript"`
	TranscriptText string                  `json:"transcript_text"`
	Description    domain.VideoDescription `json:"description"`
	SubmittedAt    time.Time               `json:"submitted_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// NewVideoDetails converts a stored video to its wire form.
func NewVideoDetails(v *domain.Video) VideoDetails {
	entries := make([]TranscriptEntry, 0, len(v.Transcript))
	for _, s := range v.Transcript {
		entries = append(entries, TranscriptEntry{
			Text:     s.Text,
			Start:    s.Start.Seconds(),
			Duration: s.Duration.Seconds(),
		})
	}
	return VideoDetails{
		VideoID:        v.ID,
		URL:            v.URL,
		Title:          v.Description.Title,
		Transcript:     entries,
		TranscriptText: v.TranscriptText,
		Description:    v.Description,
		SubmittedAt:    v.SubmittedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

// Segments converts the transcript back to domain segments.
func (d VideoDetails) Segments() []domain.TranscriptSegment {
	segments := make([]domain.TranscriptSegment, 0, len(d.Transcript))
	for _, e := range d.Transcript {
		segments = append(segments, domain.TranscriptSegment{
			Start:    seconds(e.Start),
			Duration: seconds(e.Duration),
			Text:     e.Text,
		})
	}
	return segments
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

// TimestampRequest asks for the moments of a video matching a query.
type TimestampRequest struct {
	Query   string `json:"query,omitempty" doc:"What to look for"`
	VideoID string `json:"video_id,omitempty" doc:"Video to search"`
}

// TimestampResponse lists matching moments in playback order.
type TimestampResponse struct {
	Message    string                  `json:"message"`
	Timestamps []domain.TimestampMatch `json:"timestamps"`
}
