// Package transcript reads caption files for submitted videos.
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ytnotebook/ytnotebook/internal/domain"
)

// ParseSRT parses SubRip captions:
//
//	1
//	00:00:00,000 --> 00:00:01,830
//	I'm happy to
//	have you here today.
//
// Multi-line cue text is joined with a space. Cues without text are dropped.
func ParseSRT(r io.Reader) ([]domain.TranscriptSegment, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		segments []domain.TranscriptSegment
		current  *domain.TranscriptSegment
		text     []string
		lineNum  int
	)

	flush := func() {
		if current != nil && len(text) > 0 {
			current.Text = strings.Join(text, " ")
			segments = append(segments, *current)
		}
		current = nil
		text = text[:0]
	}

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		switch {
		case line == "":
			flush()
		case strings.Contains(line, "-->"):
			flush()
			start, end, err := parseTiming(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			current = &domain.TranscriptSegment{Start: start, Duration: max(end-start, 0)}
		case current == nil && isDigitOnly(line):
			// cue sequence number
		case current != nil:
			text = append(text, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read captions: %w", err)
	}
	flush()

	return segments, nil
}

// Text joins segment texts with single spaces.
func Text(segments []domain.TranscriptSegment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

func parseTiming(line string) (start, end time.Duration, err error) {
	left, right, _ := strings.Cut(line, "-->")
	// Position cues may follow the end time.
	fields := strings.Fields(right)
	if len(fields) == 0 {
		return 0, 0, fmt.Errorf("missing end time in %q", line)
	}
	if start, err = parseClock(strings.TrimSpace(left)); err != nil {
		return 0, 0, err
	}
	if end, err = parseClock(fields[0]); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseClock parses HH:MM:SS,mmm (a '.' before the milliseconds is accepted too).
func parseClock(s string) (time.Duration, error) {
	clock, frac, _ := strings.Cut(strings.Replace(s, ".", ",", 1), ",")
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid caption time %q", s)
	}

	var total time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid caption time %q", s)
		}
		total += time.Duration(n) * units[i]
	}

	if frac != "" {
		ms, err := strconv.Atoi(frac)
		if err != nil || ms < 0 || len(frac) > 3 {
			return 0, fmt.Errorf("invalid caption time %q", s)
		}
		for range 3 - len(frac) {
			ms *= 10
		}
		total += time.Duration(ms) * time.Millisecond
	}
	return total, nil
}

func isDigitOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
