package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SegmentQuery searches one video's captions.
type SegmentQuery struct {
	VideoID string
	Text    string
	Limit   int
}

// SegmentHit is a matching caption cue.
type SegmentHit struct {
	ID       string
	VideoID  string
	Position int
	Start    time.Duration
	Duration time.Duration
	Text     string
	Score    float64
}

// Search returns the best-scoring segments of q.VideoID for q.Text, most
// relevant first. A blank query matches nothing.
func (s *SearchIndex) Search(ctx context.Context, q SegmentQuery) ([]SegmentHit, error) {
	text := normalize(q.Text)
	if text == "" {
		return nil, nil
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildSegmentQuery(q.VideoID, text), limit, 0, false)
	req.Fields = []string{"video_id", "position", "start_ms", "dur_ms", "text"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]SegmentHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := SegmentHit{ID: h.ID, Score: h.Score}
		if v, ok := h.Fields["video_id"].(string); ok {
			hit.VideoID = v
		}
		if v, ok := h.Fields["text"].(string); ok {
			hit.Text = v
		}
		if v, ok := h.Fields["position"].(float64); ok {
			hit.Position = int(v)
		}
		if v, ok := h.Fields["start_ms"].(float64); ok {
			hit.Start = time.Duration(v) * time.Millisecond
		}
		if v, ok := h.Fields["dur_ms"].(float64); ok {
			hit.Duration = time.Duration(v) * time.Millisecond
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func videoQuery(videoID string) query.Query {
	tq := bleve.NewTermQuery(videoID)
	tq.SetField("video_id")
	return tq
}

// buildSegmentQuery scopes to the video and scores caption text: any query
// term may match, whole phrases score higher, and longer words tolerate
// one typo.
func buildSegmentQuery(videoID, text string) query.Query {
	match := bleve.NewMatchQuery(text)
	match.SetField("text")

	phrase := bleve.NewMatchPhraseQuery(text)
	phrase.SetField("text")
	phrase.SetBoost(2)

	should := []query.Query{match, phrase}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len(word) >= 5 {
			fq := bleve.NewFuzzyQuery(word)
			fq.SetField("text")
			fq.SetFuzziness(1)
			fq.SetBoost(0.5)
			should = append(should, fq)
		}
	}

	return bleve.NewConjunctionQuery(videoQuery(videoID), bleve.NewDisjunctionQuery(should...))
}
