package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/logger"
)

// ErrUnknownSession is returned by SelectSession for a session the
// registry does not list.
var ErrUnknownSession = errors.New("chat session is not in this notebook")

// ErrMissingSessionID is returned when a chat response names no session.
var ErrMissingSessionID = errors.New("chat response carried no session id")

// State is the reconciler's view of the open notebook.
type State int

const (
	// StateNoNotebook means no notebook is open.
	StateNoNotebook State = iota
	// StateResolving means a notebook is being opened and its current
	// session is not known yet.
	StateResolving
	// StateSessionActive means messages go to the current session.
	StateSessionActive
	// StateNewSessionPending means the next message starts a new session.
	StateNewSessionPending
)

func (s State) String() string {
	switch s {
	case StateNoNotebook:
		return "no_notebook"
	case StateResolving:
		return "resolving"
	case StateSessionActive:
		return "session_active"
	case StateNewSessionPending:
		return "new_session_pending"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Reconciler owns the single "current session" of the open notebook and
// re-derives it from server state whenever a notebook is opened.
//
// Every state change bumps a generation counter. Work started under one
// generation is discarded with ErrSuperseded if the generation moved on
// before the work completed.
type Reconciler struct {
	backend  Backend
	registry *Registry
	logger   *logger.Logger

	mu         sync.Mutex
	state      State
	notebookID string
	videoID    string
	current    string
	gen        uint64
}

// NewReconciler creates a reconciler with no notebook open.
func NewReconciler(backend Backend, registry *Registry, log *logger.Logger) *Reconciler {
	if log == nil {
		log = logger.Discard()
	}
	return &Reconciler{
		backend:  backend,
		registry: registry,
		logger:   log.WithComponent("reconciler"),
	}
}

// Open resolves the current session of notebookID. The session summaries
// and the notebook record are fetched concurrently, then:
//
//  1. a non-null latest_session_id becomes current;
//  2. otherwise the most recently created session becomes current;
//  3. otherwise the next message starts a new session.
//
// If either fetch fails the registry is left empty, the next message
// starts a new session and the error is returned.
func (r *Reconciler) Open(ctx context.Context, notebookID, videoID string) error {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.state = StateResolving
	r.notebookID = notebookID
	r.videoID = videoID
	r.current = ""
	r.registry.set(notebookID, nil)
	r.mu.Unlock()

	var (
		summaries []domain.ChatSessionSummary
		notebook  *domain.Notebook
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summaries, err = r.registry.fetch(gctx, notebookID)
		return err
	})
	g.Go(func() error {
		var err error
		notebook, err = r.backend.GetNotebook(gctx, notebookID)
		return err
	})
	err := g.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return ErrSuperseded
	}

	log := r.logger.WithNotebook(notebookID)
	if err != nil {
		r.state = StateNewSessionPending
		log.Warn("failed to resolve current session", "error", err)
		return err
	}

	r.registry.set(notebookID, summaries)
	switch {
	case notebook.Latest() != "":
		r.state = StateSessionActive
		r.current = notebook.Latest()
	case len(summaries) > 0:
		r.state = StateSessionActive
		r.current = summaries[0].SessionID
	default:
		r.state = StateNewSessionPending
	}
	if notebook.VideoID != "" {
		r.videoID = notebook.VideoID
	}

	log.Debug("current session resolved", "state", r.state, "session_id", r.current, "sessions", len(summaries))
	return nil
}

// Close forgets the open notebook.
func (r *Reconciler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.state = StateNoNotebook
	r.notebookID = ""
	r.videoID = ""
	r.current = ""
}

// StartNewChat makes the next message start a new session.
func (r *Reconciler) StartNewChat() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.notebookID == "" {
		return ErrNoNotebook
	}
	r.gen++
	r.state = StateNewSessionPending
	r.current = ""
	return nil
}

// SelectSession makes a listed session current.
func (r *Reconciler) SelectSession(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.notebookID == "" {
		return ErrNoNotebook
	}
	if !r.registry.Contains(sessionID) {
		return ErrUnknownSession
	}
	r.gen++
	r.state = StateSessionActive
	r.current = sessionID
	return nil
}

// Adopt makes the session id returned by a chat turn current, whether or
// not it matches the one that was sent, and refreshes the registry so a
// newly created session shows up. A failed refresh is logged, not returned.
func (r *Reconciler) Adopt(ctx context.Context, sessionID string) error {
	return r.adopt(ctx, r.Snapshot(), sessionID)
}

// adopt applies sessionID only if nothing changed since snap was taken.
// Otherwise the registry of snap's notebook is still refreshed, since the
// turn was recorded server-side either way.
func (r *Reconciler) adopt(ctx context.Context, snap Snapshot, sessionID string) error {
	if sessionID == "" {
		return ErrMissingSessionID
	}
	r.mu.Lock()
	if snap.NotebookID == "" || r.notebookID == "" {
		r.mu.Unlock()
		return ErrNoNotebook
	}
	if r.gen != snap.generation {
		sameNotebook := r.notebookID == snap.NotebookID
		gen := r.gen
		r.mu.Unlock()
		if sameNotebook {
			r.refresh(ctx, gen, snap.NotebookID)
		}
		return ErrSuperseded
	}
	r.gen++
	gen := r.gen
	if r.current != sessionID {
		r.logger.WithNotebook(snap.NotebookID).Debug("adopting session", "previous", r.current, "session_id", sessionID)
	}
	r.state = StateSessionActive
	r.current = sessionID
	r.mu.Unlock()

	r.refresh(ctx, gen, snap.NotebookID)
	return nil
}

// refresh reloads the registry, dropping the result if gen is stale.
func (r *Reconciler) refresh(ctx context.Context, gen uint64, notebookID string) {
	summaries, err := r.registry.fetch(ctx, notebookID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.logger.WithNotebook(notebookID).Warn("chat session refresh failed", "error", err)
		return
	}
	if r.gen != gen {
		return
	}
	r.registry.set(notebookID, summaries)
}

func (r *Reconciler) currentGen() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// Snapshot is a consistent view of the reconciler.
type Snapshot struct {
	State      State
	NotebookID string
	VideoID    string
	SessionID  string // empty unless State is StateSessionActive
	generation uint64
}

// Snapshot returns the current state.
func (r *Reconciler) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		State:      r.state,
		NotebookID: r.notebookID,
		VideoID:    r.videoID,
		SessionID:  r.current,
		generation: r.gen,
	}
}

// Current returns the current session id. ok is false when the next
// message starts a new session or no notebook is open.
func (r *Reconciler) Current() (sessionID string, ok bool) {
	s := r.Snapshot()
	return s.SessionID, s.State == StateSessionActive
}

// State returns the reconciler state.
func (r *Reconciler) State() State {
	return r.Snapshot().State
}

// stillAt reports whether no state change happened since snap was taken.
func (r *Reconciler) stillAt(snap Snapshot) bool {
	return r.currentGen() == snap.generation
}
