package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/ytnotebook/ytnotebook/internal/config"
	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/search"
	"github.com/ytnotebook/ytnotebook/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve segment index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Storage.DataPath,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount() //nolint:errcheck // Informational only
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// TriggerSearchReindexIfNeeded rebuilds the index in the background when
// it is empty but the database holds videos, e.g. after a mapping change.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	videos := do.MustInvoke[*service.VideoService](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount() //nolint:errcheck // Treated as empty
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	ids, err := storeHandle.ListVideoIDs(ctx)
	if err != nil || len(ids) == 0 {
		return
	}

	log.Info("Search index is empty but videos exist, triggering reindex", "video_count", len(ids))

	go func() {
		if err := videos.Reindex(context.Background()); err != nil {
			log.Error("Search reindex failed", "error", err)
			return
		}
		count, _ := indexHandle.DocumentCount() //nolint:errcheck // Informational only
		log.Info("Search reindex completed", "documents", count)
	}()
}
