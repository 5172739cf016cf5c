package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/ytnotebook/ytnotebook/internal/config"
	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/service"
	"github.com/ytnotebook/ytnotebook/internal/transcript"
	"github.com/ytnotebook/ytnotebook/internal/watcher"
)

// TranscriptWatcherHandle wraps the transcript directory watcher with
// shutdown capability. Watcher is nil when watching is disabled.
type TranscriptWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *TranscriptWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Stop()
}

// ProvideTranscriptWatcher re-ingests a submitted video whenever its
// caption or description file settles after a change.
func ProvideTranscriptWatcher(i do.Injector) (*TranscriptWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	source := do.MustInvoke[*transcript.DirSource](i)
	videos := do.MustInvoke[*service.VideoService](i)

	if !cfg.Storage.WatchTranscripts {
		log.Info("Transcript watching disabled by configuration")
		return &TranscriptWatcherHandle{}, nil
	}

	w, err := watcher.New(log.WithComponent("watcher"), watcher.Options{
		Extensions: []string{".srt", ".json"},
	})
	if err != nil {
		return nil, err
	}
	if err := w.Watch(source.Dir()); err != nil {
		_ = w.Stop() //nolint:errcheck // Already failing
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("Transcript watcher error", "error", err)
		}
	}()

	go func() {
		for {
			select {
			case event := <-w.Events():
				videoID, ok := transcript.VideoIDForPath(event.Path)
				if !ok {
					continue
				}
				if err := videos.Reload(ctx, videoID); err != nil {
					log.Warn("failed to reload transcript",
						"error", err,
						"type", event.Type,
						"video_id", videoID,
					)
				}
			case err := <-w.Errors():
				log.Warn("transcript watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Transcript watcher started", "path", source.Dir())

	return &TranscriptWatcherHandle{
		Watcher: w,
		cancel:  cancel,
	}, nil
}
