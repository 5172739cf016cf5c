package workspace

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ytnotebook/ytnotebook/internal/api/dto"
	"github.com/ytnotebook/ytnotebook/internal/client"
	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/logger"
)

// Greeting is the first turn shown when no session is current.
const Greeting = "Hello! How can I help you with this video?"

// chatFailed is shown when the backend answered but the answer is unusable.
const chatFailed = "Failed to get response from server."

// ErrBusy is returned by Send while another message is in flight.
var ErrBusy = errors.New("a message is already being sent")

// Conversation is the visible message list of the open notebook's current
// session. It never holds the session id itself; it asks the reconciler.
type Conversation struct {
	backend    Backend
	reconciler *Reconciler
	identity   domain.Identity
	logger     *logger.Logger

	mu      sync.Mutex
	turns   []domain.ChatTurn
	sending bool
}

// NewConversation creates an empty conversation view.
func NewConversation(backend Backend, reconciler *Reconciler, identity domain.Identity, log *logger.Logger) *Conversation {
	if log == nil {
		log = logger.Discard()
	}
	return &Conversation{
		backend:    backend,
		reconciler: reconciler,
		identity:   identity,
		logger:     log.WithComponent("conversation"),
	}
}

// Load replaces the visible turns with the current session's history, or
// with the greeting when the next message starts a new session. A failed
// load shows a single error turn and returns the error.
func (c *Conversation) Load(ctx context.Context) error {
	snap := c.reconciler.Snapshot()
	switch snap.State {
	case StateNoNotebook:
		return ErrNoNotebook
	case StateResolving:
		return ErrSuperseded
	case StateNewSessionPending:
		c.replace(domain.AssistantTurn(Greeting))
		return nil
	}

	history, err := c.backend.ChatHistory(ctx, snap.SessionID)
	if !c.reconciler.stillAt(snap) {
		return ErrSuperseded
	}
	if err != nil {
		c.logger.Warn("failed to load chat history", "session_id", snap.SessionID, "error", err)
		c.replace(domain.AssistantTurn("Error loading history: " + client.Detail(err)))
		return err
	}
	if len(history) == 0 {
		c.replace(domain.AssistantTurn(Greeting))
		return nil
	}
	c.replace(history...)
	return nil
}

func (c *Conversation) replace(turns ...domain.ChatTurn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append([]domain.ChatTurn{}, turns...)
}

func (c *Conversation) appendTurn(t domain.ChatTurn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, t)
}

// Send posts text as a user turn. The turn is shown immediately; the
// answer, or an error turn on failure, follows it. The session id in the
// response is adopted as current. Blank text is ignored.
func (c *Conversation) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	snap := c.reconciler.Snapshot()
	switch snap.State {
	case StateNoNotebook:
		return "", ErrNoNotebook
	case StateResolving:
		return "", ErrBusy
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return "", ErrBusy
	}
	c.sending = true
	c.turns = append(c.turns, domain.UserTurn(text))
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	resp, err := c.backend.Chat(ctx, dto.ChatRequest{
		Query:      text,
		VideoID:    snap.VideoID,
		UserID:     c.identity.UserID,
		NotebookID: snap.NotebookID,
		SessionID:  snap.SessionID,
	})
	if err != nil {
		c.logger.Warn("chat request failed", "notebook_id", snap.NotebookID, "error", err)
		c.appendTurn(domain.AssistantTurn("Error: " + client.Detail(err)))
		return "", err
	}

	if resp.SessionID == "" {
		c.logger.Warn("chat response without session id", "notebook_id", snap.NotebookID)
		c.appendTurn(domain.AssistantTurn("Error: " + chatFailed))
		return "", ErrMissingSessionID
	}

	if err := c.reconciler.adopt(ctx, snap, resp.SessionID); err != nil {
		// The view moved on to another session while the answer was in
		// flight; it belongs to a history this view no longer shows.
		return "", err
	}
	c.appendTurn(domain.AssistantTurn(resp.Answer))
	return resp.Answer, nil
}

// Sending reports whether a message is in flight.
func (c *Conversation) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Turns returns a copy of the visible turns.
func (c *Conversation) Turns() []domain.ChatTurn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ChatTurn{}, c.turns...)
}
