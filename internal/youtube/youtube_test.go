package youtube

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{url: "https://youtube.com/watch?v=dQw4w9WgXcQ&t=42", want: "dQw4w9WgXcQ"},
		{url: "https://m.youtube.com/watch?v=abc_DEF-123", want: "abc_DEF-123"},
		{url: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{url: "  https://youtu.be/dQw4w9WgXcQ  ", want: "dQw4w9WgXcQ"},
		{url: "https://www.youtube.com/watch", wantErr: true},
		{url: "https://vimeo.com/12345", wantErr: true},
		{url: "https://youtu.be/", wantErr: true},
		{url: "https://youtu.be/a/b", wantErr: true},
		{url: "not a url", wantErr: true},
		{url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatMarker(t *testing.T) {
	assert.Equal(t, "00:00", FormatMarker(0))
	assert.Equal(t, "00:00", FormatMarker(-time.Second))
	assert.Equal(t, "01:05", FormatMarker(65*time.Second+900*time.Millisecond))
	assert.Equal(t, "59:59", FormatMarker(59*time.Minute+59*time.Second))
	assert.Equal(t, "01:00:00", FormatMarker(time.Hour))
	assert.Equal(t, "02:03:04", FormatMarker(2*time.Hour+3*time.Minute+4*time.Second))
}

func TestParseMarker(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "01:05", want: 65 * time.Second},
		{in: "1:02:03", want: time.Hour + 2*time.Minute + 3*time.Second},
		{in: "01:00:00", want: time.Hour},
		{in: "75:00", want: 75 * time.Minute},
		{in: "1:60", wantErr: true},
		{in: "12", wantErr: true},
		{in: "a:b", wantErr: true},
		{in: "1:2:3:4", wantErr: true},
		{in: "-1:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMarker(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMarker)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarkerRoundTrip(t *testing.T) {
	for _, d := range []time.Duration{0, 9 * time.Second, 61 * time.Second, 3725 * time.Second} {
		got, err := ParseMarker(FormatMarker(d))
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
}

func TestEmbedURL(t *testing.T) {
	u, err := EmbedURL("dQw4w9WgXcQ", "")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", u)

	u, err = EmbedURL("dQw4w9WgXcQ", "01:05")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ?start=65&autoplay=1", u)

	_, err = EmbedURL("dQw4w9WgXcQ", "soon")
	assert.ErrorIs(t, err, ErrInvalidMarker)
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", WatchURL("abc"))
	assert.Equal(t, "https://img.youtube.com/vi/abc/hqdefault.jpg", ThumbnailURL("abc"))
}
