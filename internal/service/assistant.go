package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/search"
	"github.com/ytnotebook/ytnotebook/internal/youtube"
)

// AnswerRequest is one question put to an assistant.
type AnswerRequest struct {
	VideoID string
	Query   string
	// History holds the session's earlier turns, oldest first.
	History []domain.ChatTurn
}

// Assistant produces the reply to a chat turn.
type Assistant interface {
	Answer(ctx context.Context, req AnswerRequest) (string, error)
}

// NoMatchAnswer is what QuoteAssistant says when the transcript has nothing
// relevant.
const NoMatchAnswer = "I couldn't find anything about that in this video's transcript."

// QuoteAssistant answers by quoting the transcript segments that best match
// the question.
type QuoteAssistant struct {
	searcher SegmentSearcher
	quotes   int
}

// NewQuoteAssistant creates an assistant quoting up to three segments.
func NewQuoteAssistant(searcher SegmentSearcher) *QuoteAssistant {
	return &QuoteAssistant{searcher: searcher, quotes: 3}
}

// Answer implements Assistant.
func (a *QuoteAssistant) Answer(ctx context.Context, req AnswerRequest) (string, error) {
	hits, err := a.searcher.Search(ctx, search.SegmentQuery{
		VideoID: req.VideoID,
		Text:    req.Query,
		Limit:   a.quotes,
	})
	if err != nil {
		return "", fmt.Errorf("search transcript: %w", err)
	}
	if len(hits) == 0 {
		return NoMatchAnswer, nil
	}

	var b strings.Builder
	b.WriteString("Here is what the video says about that:")
	for _, h := range hits {
		fmt.Fprintf(&b, "\n- [%s] %s", youtube.FormatMarker(h.Start), h.Text)
	}
	return b.String(), nil
}
