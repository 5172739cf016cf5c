package providers

import (
	"github.com/samber/do/v2"

	"github.com/ytnotebook/ytnotebook/internal/auth"
	"github.com/ytnotebook/ytnotebook/internal/config"
	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/service"
	"github.com/ytnotebook/ytnotebook/internal/transcript"
)

// ProvideTranscriptSource provides the directory of caption files.
func ProvideTranscriptSource(i do.Injector) (*transcript.DirSource, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return transcript.NewDirSource(cfg.Storage.TranscriptDir)
}

// ProvidePasswordHasher provides the Argon2id password hasher.
func ProvidePasswordHasher(i do.Injector) (*auth.Hasher, error) {
	return auth.NewHasher(auth.DefaultParams), nil
}

// ProvideAuthService provides the signup and login service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	hasher := do.MustInvoke[*auth.Hasher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, hasher, log), nil
}

// ProvideNotebookService provides the notebook service.
func ProvideNotebookService(i do.Injector) (*service.NotebookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNotebookService(storeHandle.Store, log), nil
}

// ProvideVideoService provides the video submission service.
func ProvideVideoService(i do.Injector) (*service.VideoService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	source := do.MustInvoke[*transcript.DirSource](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewVideoService(storeHandle.Store, source, indexHandle.SearchIndex, log), nil
}

// ProvideTimestampService provides the timestamp search service.
func ProvideTimestampService(i do.Injector) (*service.TimestampService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	return service.NewTimestampService(storeHandle.Store, indexHandle.SearchIndex), nil
}

// ProvideAssistant provides the answer generator used by chat.
func ProvideAssistant(i do.Injector) (service.Assistant, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	return service.NewQuoteAssistant(indexHandle.SearchIndex), nil
}

// ProvideChatService provides the chat service.
func ProvideChatService(i do.Injector) (*service.ChatService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	assistant := do.MustInvoke[service.Assistant](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewChatService(storeHandle.Store, assistant, log), nil
}
