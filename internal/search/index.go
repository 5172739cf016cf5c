package search

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/ytnotebook/ytnotebook/internal/logger"
)

// SearchIndex wraps a Bleve index of transcript segments.
// All public methods are safe for concurrent use.
type SearchIndex struct {
	index  bleve.Index
	path   string
	logger *logger.Logger
	mu     sync.RWMutex // exclusive during Rebuild
}

// Options configures the search index.
type Options struct {
	DataPath string
	Logger   *logger.Logger
	// InMemory skips the disk entirely. Used by tests.
	InMemory bool
}

// mappingVersion is bumped whenever the mapping changes, forcing a rebuild.
const mappingVersion = "1"

// NewSearchIndex opens the index under DataPath, creating it when missing
// and recreating it when it is unreadable or was built with another mapping.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	if opts.InMemory {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		return &SearchIndex{index: index, logger: log}, nil
	}

	indexPath := filepath.Join(opts.DataPath, "segments.bleve")
	versionPath := filepath.Join(opts.DataPath, "segments.version")

	var index bleve.Index
	if _, err := os.Stat(indexPath); err == nil {
		existing, readErr := os.ReadFile(versionPath)
		switch {
		case readErr != nil || string(existing) != mappingVersion:
			log.Info("search index mapping changed, rebuilding", "old_version", string(existing), "new_version", mappingVersion)
		default:
			if index, err = bleve.Open(indexPath); err != nil {
				log.Warn("failed to open existing index, will recreate", "path", indexPath, "error", err)
				index = nil
			}
		}
		if index == nil {
			if err := os.RemoveAll(indexPath); err != nil {
				return nil, fmt.Errorf("remove old index: %w", err)
			}
		}
	}

	if index == nil {
		var err error
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o600); err != nil {
			log.Warn("failed to write search version file", "error", err)
		}
		log.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		log.Info("opened existing search index", "path", indexPath)
	}

	return &SearchIndex{index: index, path: indexPath, logger: log}, nil
}

// Close closes the index.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// ReplaceVideo swaps every indexed segment of a video for docs in one batch.
func (s *SearchIndex) ReplaceVideo(videoID string, docs []*SegmentDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stale, err := s.videoDocIDs(videoID)
	if err != nil {
		return err
	}

	batch := s.index.NewBatch()
	for _, id := range stale {
		batch.Delete(id)
	}
	for _, d := range docs {
		if err := batch.Index(d.ID, d.ToMap()); err != nil {
			return fmt.Errorf("batch index %s: %w", d.ID, err)
		}
	}
	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch for %s: %w", videoID, err)
	}

	s.logger.Debug("indexed transcript", "video_id", videoID, "segments", len(docs), "replaced", len(stale))
	return nil
}

// DeleteVideo removes every segment of a video.
func (s *SearchIndex) DeleteVideo(videoID string) error {
	return s.ReplaceVideo(videoID, nil)
}

// DocumentCount returns the total number of indexed segments.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// VideoSegmentCount returns the number of indexed segments for one video.
func (s *SearchIndex) VideoSegmentCount(videoID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids, err := s.videoDocIDs(videoID)
	return len(ids), err
}

// videoDocIDs must be called with mu held.
func (s *SearchIndex) videoDocIDs(videoID string) ([]string, error) {
	const page = 1000

	var ids []string
	for from := 0; ; from += page {
		req := bleve.NewSearchRequestOptions(videoQuery(videoID), page, from, false)
		res, err := s.index.Search(req)
		if err != nil {
			return nil, fmt.Errorf("list segments of %s: %w", videoID, err)
		}
		for _, hit := range res.Hits {
			ids = append(ids, hit.ID)
		}
		if len(res.Hits) < page {
			return ids, nil
		}
	}
}

// Rebuild drops and recreates the index. It blocks every other operation.
func (s *SearchIndex) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	var (
		index bleve.Index
		err   error
	)
	if s.path == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if err := os.RemoveAll(s.path); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
		index, err = bleve.New(s.path, buildIndexMapping())
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.index = index
	s.logger.Info("rebuilt search index", "path", s.path)
	return nil
}
