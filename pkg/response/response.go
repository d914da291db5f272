// Package response centralizes HTTP error shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/recent-repos/internal/page"
	"github.com/maxviazov/recent-repos/internal/service"
)

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Chain failures never get here; they only show up in the run report.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	switch {
	case errors.Is(err, page.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found"}
	case errors.Is(err, page.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, ErrorPayload{Error: "payload_too_large", Message: err.Error()}
	case errors.Is(err, page.ErrInvalidDocument):
		return http.StatusBadRequest, ErrorPayload{Error: "invalid_document"}
	case errors.Is(err, page.ErrContainerNotFound):
		return http.StatusUnprocessableEntity, ErrorPayload{
			Error:   "container_not_found",
			Message: "the page has no render container",
		}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	c.AbortWithStatusJSON(status, payload)
}
