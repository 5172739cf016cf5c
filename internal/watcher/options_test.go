package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}
	opts.setDefaults()

	assert.True(t, opts.IgnoreHidden)
	assert.Equal(t, 100*time.Millisecond, opts.SettleDelay)
	assert.Contains(t, opts.IgnorePatterns, "*.swp")
}

func TestOptions_CustomValues(t *testing.T) {
	opts := Options{
		SettleDelay:    200 * time.Millisecond,
		IgnorePatterns: []string{"*.bak"},
	}
	opts.setDefaults()

	assert.False(t, opts.IgnoreHidden, "explicit patterns keep the caller's hidden-file choice")
	assert.Equal(t, 200*time.Millisecond, opts.SettleDelay)
	assert.Equal(t, []string{"*.bak"}, opts.IgnorePatterns)
}

func TestOptions_ShouldIgnore(t *testing.T) {
	opts := Options{Extensions: []string{".srt", ".json"}}
	opts.setDefaults()

	tests := []struct {
		name   string
		path   string
		expect bool
	}{
		{"caption", "/data/transcripts/abc.srt", false},
		{"upper-case extension", "/data/transcripts/abc.SRT", false},
		{"description", "/data/transcripts/abc.json", false},
		{"under a dot directory", "/home/u/.ytnotebook/transcripts/abc.srt", false},
		{"hidden file", "/data/transcripts/.abc.srt", true},
		{"editor swap", "/data/transcripts/abc.srt.swp", true},
		{"backup", "/data/transcripts/abc.srt~", true},
		{"other extension", "/data/transcripts/notes.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, opts.shouldIgnore(tt.path))
		})
	}
}
