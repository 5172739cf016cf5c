// Package dto holds the request and response bodies of the notebook HTTP
// API. The server registers them with huma and the client decodes the
// same types, so the wire contract lives in one place.
package dto

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail" doc:"Human-readable error message"`
	Code   string `json:"code,omitempty" doc:"Machine-readable error code"`
}
