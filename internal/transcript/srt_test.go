package transcript

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytnotebook/ytnotebook/internal/domain"
)

const sample = "\ufeff1\r\n00:00:00,000 --> 00:00:01,830\r\nI'm happy to\r\nhave you here today.\r\n\r\n" +
	"2\n00:00:01,910 --> 00:00:03,610 align:start\nAs I'm sure you're all\naware.\n\n" +
	"3\n01:02:03.5 --> 01:02:04,000\n42\n\n" +
	"4\n00:00:05,000 --> 00:00:06,000\n\n"

func TestParseSRT(t *testing.T) {
	segments, err := ParseSRT(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, segments, 3)
	assert.Equal(t, domain.TranscriptSegment{
		Start:    0,
		Duration: 1830 * time.Millisecond,
		Text:     "I'm happy to have you here today.",
	}, segments[0])
	assert.Equal(t, 1910*time.Millisecond, segments[1].Start)
	assert.Equal(t, 1700*time.Millisecond, segments[1].Duration)
	assert.Equal(t, "As I'm sure you're all aware.", segments[1].Text)

	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second+500*time.Millisecond, segments[2].Start)
	assert.Equal(t, "42", segments[2].Text, "numeric caption text is kept")
}

func TestParseSRT_Empty(t *testing.T) {
	segments, err := ParseSRT(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestParseSRT_BadTiming(t *testing.T) {
	_, err := ParseSRT(strings.NewReader("1\n00:00 --> 00:01\nhello\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestText(t *testing.T) {
	assert.Equal(t, "a b", Text([]domain.TranscriptSegment{{Text: "a"}, {Text: "b"}}))
	assert.Empty(t, Text(nil))
}
