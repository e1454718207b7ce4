// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"net/http"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"
)

// RetryAfterSeconds is the hint sent with retryable conflicts. Row locks and
// serialization races settle within a transaction's lifetime, so one second
// is enough.
const RetryAfterSeconds = 1

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Retryable tells clients whether repeating the same request can succeed.
type APIError struct {
	Detail    string `json:"detail"`
	Code      string `json:"code"`
	Retryable bool   `json:"retryable,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg, Code: "fault"}
}

// FromError maps a service error onto an HTTP status and response body.
// Unclassified errors come out as 500 with a neutral message.
func FromError(err error) (int, *APIError) {
	kind := apperr.KindOf(err)
	return statusOf(kind), &APIError{
		Detail:    apperr.Message(err),
		Code:      kind.String(),
		Retryable: apperr.Retryable(err),
	}
}

// statusOf maps the error taxonomy onto HTTP statuses. Occupied, Busy and
// Conflict all land on 409; the Code and Retryable fields disambiguate.
// Unauthorized is 401 here; role checks answer 403 from the middleware.
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusUnprocessableEntity
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Occupied, apperr.Busy, apperr.Conflict:
		return http.StatusConflict
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validación", Code: "validation", Fields: fields}
}
