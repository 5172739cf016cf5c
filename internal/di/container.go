// Package di provides dependency injection configuration for the notebook server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/ytnotebook/ytnotebook/internal/auth"
	"github.com/ytnotebook/ytnotebook/internal/config"
	"github.com/ytnotebook/ytnotebook/internal/di/providers"
	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/service"
	"github.com/ytnotebook/ytnotebook/internal/transcript"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideTranscriptSource)

	// Business services
	do.Provide(injector, providers.ProvidePasswordHasher)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideNotebookService)
	do.Provide(injector, providers.ProvideVideoService)
	do.Provide(injector, providers.ProvideTimestampService)
	do.Provide(injector, providers.ProvideAssistant)
	do.Provide(injector, providers.ProvideChatService)

	// Workers
	do.Provide(injector, providers.ProvideTranscriptWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the workers and the HTTP
// server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*transcript.DirSource](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*auth.Hasher](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.NotebookService](injector)
	_ = do.MustInvoke[*service.VideoService](injector)
	_ = do.MustInvoke[*service.TimestampService](injector)
	_ = do.MustInvoke[*service.ChatService](injector)

	// Workers
	if _, err := do.Invoke[*providers.TranscriptWatcherHandle](injector); err != nil {
		return err
	}

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
