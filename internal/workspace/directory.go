package workspace

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/logger"
)

// ErrUnknownNotebook is returned by Select for an id not in the list.
var ErrUnknownNotebook = errors.New("notebook is not in the list")

// Selection is what selecting a notebook surfaces to the caller.
type Selection struct {
	NotebookID string
	VideoID    string
	Title      string
}

// Directory is the searchable list of the user's notebooks.
type Directory struct {
	backend Backend
	logger  *logger.Logger

	mu        sync.Mutex
	notebooks []*domain.Notebook
	err       error
}

// NewDirectory creates an empty directory.
func NewDirectory(backend Backend, log *logger.Logger) *Directory {
	if log == nil {
		log = logger.Discard()
	}
	return &Directory{backend: backend, logger: log.WithComponent("directory")}
}

// Load fetches userID's notebooks. On failure the list is empty until the
// next successful Load.
func (d *Directory) Load(ctx context.Context, userID string) ([]*domain.Notebook, error) {
	notebooks, err := d.backend.ListNotebooks(ctx, userID)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.notebooks = nil
		d.err = err
		d.logger.Warn("failed to load notebooks", "user_id", userID, "error", err)
		return []*domain.Notebook{}, err
	}
	d.notebooks = notebooks
	d.err = nil
	return append([]*domain.Notebook(nil), notebooks...), nil
}

// Err returns the error of the last Load, if it failed.
func (d *Directory) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Notebooks returns the loaded list.
func (d *Directory) Notebooks() []*domain.Notebook {
	return d.Filter("")
}

// Filter returns the notebooks whose title contains query, ignoring case.
// An empty query matches everything.
func (d *Directory) Filter(query string) []*domain.Notebook {
	d.mu.Lock()
	defer d.mu.Unlock()

	query = strings.TrimSpace(query)
	out := make([]*domain.Notebook, 0, len(d.notebooks))
	if query == "" {
		return append(out, d.notebooks...)
	}

	fold := cases.Fold()
	needle := fold.String(query)
	for _, nb := range d.notebooks {
		if strings.Contains(fold.String(nb.Title), needle) {
			out = append(out, nb)
		}
	}
	return out
}

// Select returns the selection for a listed notebook.
func (d *Directory) Select(notebookID string) (Selection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, nb := range d.notebooks {
		if nb.ID == notebookID {
			return Selection{NotebookID: nb.ID, VideoID: nb.VideoID, Title: nb.Title}, nil
		}
	}
	return Selection{}, ErrUnknownNotebook
}
