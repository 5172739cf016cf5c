package client

import (
	"errors"
	"fmt"
	"net/http"

	domainerrors "github.com/ytnotebook/ytnotebook/internal/errors"
)

// ErrTransport wraps failures to reach the backend at all: connection
// refused, DNS, timeouts, unreadable responses.
var ErrTransport = errors.New("backend unreachable")

// Error is a non-2xx response from the backend.
type Error struct {
	Op     string // e.g. "login", "create notebook"
	Status int
	// Detail is the backend's human-readable message, or the per-call
	// fallback when the response carried none.
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, e.Detail, e.Status)
}

// Code classifies the response status.
func (e *Error) Code() domainerrors.Code {
	return domainerrors.CodeForStatus(e.Status)
}

// Is lets callers test backend failures against the domain sentinels,
// e.g. errors.Is(err, domainerrors.ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *domainerrors.Error
	if errors.As(target, &t) {
		return e.Code() == t.Code
	}
	return false
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusNotFound
}

// Detail returns the text to show a user for err: the backend detail for
// backend errors, a generic line for transport failures, and err's own
// message otherwise.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	if errors.Is(err, ErrTransport) {
		return "Could not reach the server. Please try again."
	}
	return err.Error()
}
