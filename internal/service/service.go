// Package service implements the notebook server's business logic on top
// of the store, the transcript source and the search index.
package service

import (
	"errors"

	domainerrors "github.com/ytnotebook/ytnotebook/internal/errors"
	"github.com/ytnotebook/ytnotebook/internal/store"
	"github.com/ytnotebook/ytnotebook/internal/validation"
)

// validate is the shared request validator.
var validate = validation.New()

// notFound converts a store not-found error into a domain error carrying msg
// and passes every other error through.
func notFound(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound(msg).WithCause(err)
	}
	return err
}
