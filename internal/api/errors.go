package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/ytnotebook/ytnotebook/internal/errors"
	"github.com/ytnotebook/ytnotebook/internal/store"
)

// APIError is a custom error type that implements huma.StatusError.
// Every failure reaches the client as {"detail": ..., "code": ...}.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status int
	Detail string `json:"detail" doc:"Human-readable error message"`
	Code   string `json:"code,omitempty" doc:"Machine-readable error code"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Detail
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return &APIError{
					status: domainErr.HTTPStatus(),
					Code:   string(domainErr.Code),
					Detail: domainErr.Message,
				}
			}

			var storeErr *store.Error
			if errors.As(err, &storeErr) && storeErr.HTTPCode() != http.StatusInternalServerError {
				return &APIError{
					status: storeErr.HTTPCode(),
					Code:   string(domainerrors.CodeForStatus(storeErr.HTTPCode())),
					Detail: storeErr.Message,
				}
			}
		}

		// Schema violations are reported as bad requests, with huma's
		// per-field messages as the detail.
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
			if detail := joinDetails(errs); detail != "" {
				message = detail
			}
		}

		return &APIError{
			status: status,
			Code:   string(domainerrors.CodeForStatus(status)),
			Detail: message,
		}
	}
}

func joinDetails(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			parts = append(parts, err.Error())
		}
	}
	return strings.Join(parts, "; ")
}

// fail converts a service error into a huma error. Domain and store errors
// keep their status; anything else is logged and reported as a 500.
func (s *Server) fail(op string, err error) error {
	var domainErr *domainerrors.Error
	var storeErr *store.Error
	if !errors.As(err, &domainErr) && !errors.As(err, &storeErr) {
		s.logger.Error("request failed", "op", op, "error", err)
	}
	return huma.NewError(http.StatusInternalServerError, "Internal server error.", err)
}

// writeError writes an error body outside huma, for middleware.
func writeError(w http.ResponseWriter, status int, code domainerrors.Code, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&APIError{Detail: detail, Code: string(code)}) //nolint:errcheck // Client went away
}
