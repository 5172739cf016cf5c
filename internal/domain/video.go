package domain

import "time"

// Video is a submitted YouTube video with its transcript.
type Video struct {
	ID             string              `json:"video_id"`
	URL            string              `json:"url"`
	Transcript     []TranscriptSegment `json:"transcript"`
	TranscriptText string              `json:"transcript_text"`
	Description    VideoDescription    `json:"description"`
	SubmittedAt    time.Time           `json:"submitted_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// VideoDescription is the descriptive metadata shown next to the player.
// DetailedDescription and Summary separate points with "||".
type VideoDescription struct {
	VideoID             string   `json:"video_id"`
	Title               string   `json:"title"`
	Keywords            []string `json:"keywords"`
	CategoryTags        []string `json:"category_tags"`
	DetailedDescription string   `json:"detailed_description"`
	Summary             string   `json:"summary"`
}

// TranscriptSegment is one caption cue.
type TranscriptSegment struct {
	Start    time.Duration
	Duration time.Duration
	Text     string
}

// End returns the time the segment stops being shown.
func (s TranscriptSegment) End() time.Duration {
	return s.Start + s.Duration
}

// TimestampMatch maps a search query to a moment in a video.
// A match is only meaningful while VideoID is the loaded video.
type TimestampMatch struct {
	// Timestamp is "MM:SS", or "H:MM:SS" past the first hour.
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
	VideoID   string `json:"-"`
}
