// Package youtube handles YouTube URLs, video ids and timestamp markers.
package youtube

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidURL is returned when a URL does not name a YouTube video.
var ErrInvalidURL = errors.New("invalid YouTube URL")

// ErrInvalidMarker is returned for timestamps that are not MM:SS or HH:MM:SS.
var ErrInvalidMarker = errors.New("invalid timestamp marker")

// ExtractVideoID returns the video id of a watch URL
// (https://www.youtube.com/watch?v=ID) or a short link (https://youtu.be/ID).
func ExtractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", ErrInvalidURL
	}

	var id string
	switch strings.ToLower(u.Hostname()) {
	case "www.youtube.com", "youtube.com", "m.youtube.com":
		id = u.Query().Get("v")
	case "youtu.be":
		id = strings.TrimPrefix(u.Path, "/")
	}

	if !ValidVideoID(id) {
		return "", ErrInvalidURL
	}
	return id, nil
}

// ValidVideoID reports whether id is a plausible YouTube video id.
func ValidVideoID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// WatchURL returns the canonical watch URL for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}

// ThumbnailURL returns the high-quality thumbnail for id.
func ThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + url.PathEscape(id) + "/hqdefault.jpg"
}

// EmbedURL returns the player URL for id. A non-empty marker starts playback
// at that point; an unparseable marker is an error.
func EmbedURL(id, marker string) (string, error) {
	base := "https://www.youtube.com/embed/" + url.PathEscape(id)
	if marker == "" {
		return base, nil
	}
	offset, err := ParseMarker(marker)
	if err != nil {
		return "", err
	}
	return base + "?start=" + strconv.Itoa(int(offset/time.Second)) + "&autoplay=1", nil
}

// FormatMarker renders an offset as MM:SS, or HH:MM:SS from the first hour on.
// Fractions of a second are dropped.
func FormatMarker(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	hours, rem := total/3600, total%3600
	minutes, seconds := rem/60, rem%60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// ParseMarker parses MM:SS or H:MM:SS into an offset.
func ParseMarker(marker string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(marker), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMarker, marker)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidMarker, marker)
		}
		// Every field but the leading one is base 60.
		if i > 0 && n > 59 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidMarker, marker)
		}
		nums[i] = n
	}

	var seconds int
	for _, n := range nums {
		seconds = seconds*60 + n
	}
	return time.Duration(seconds) * time.Second, nil
}
