package watcher

import (
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Options configures the file watcher behavior.
type Options struct {
	// Extensions limits events to files with these extensions (".srt").
	// Empty means every file.
	Extensions     []string
	IgnorePatterns []string
	SettleDelay    time.Duration
	IgnoreHidden   bool
}

func (o *Options) setDefaults() {
	if o.SettleDelay == 0 {
		o.SettleDelay = 100 * time.Millisecond
	}

	// nil (not empty) patterns means "use the defaults", including hidden files.
	if o.IgnorePatterns == nil {
		o.IgnorePatterns = []string{"*.tmp", "*.swp", "*~", ".DS_Store"}
		o.IgnoreHidden = true
	}
}

// shouldIgnore checks the file name, never the parent directories, so a
// watched directory under a dot-directory still reports its files.
func (o *Options) shouldIgnore(path string) bool {
	base := filepath.Base(path)

	if o.IgnoreHidden && strings.HasPrefix(base, ".") {
		return true
	}

	for _, pattern := range o.IgnorePatterns {
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}
	}

	if len(o.Extensions) > 0 && !slices.Contains(o.Extensions, strings.ToLower(filepath.Ext(base))) {
		return true
	}

	return false
}
