package web

// errors.go maps service errors onto HTTP responses. Handlers call
// respondError with whatever the service returned; the status code is
// derived from the sentinel and the body carries the user-facing message
// from core.MapError. Technical details only appear in the server log,
// keyed by the chi request ID.

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/projtrack/projtrack/internal/core"
	"github.com/projtrack/projtrack/internal/files"
)

// ErrorResponse is the JSON structure for API error responses. Code is
// machine-readable; Message and Action are for display.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUsernameExists):
		return http.StatusConflict
	case errors.Is(err, core.ErrEmptyUpload),
		errors.Is(err, core.ErrMalformedCSV),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyNote),
		errors.Is(err, core.ErrMissingField),
		errors.Is(err, core.ErrWeakPassword),
		errors.Is(err, files.ErrTypeNotAllowed):
		return http.StatusBadRequest
	case errors.Is(err, files.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error and writes the user-facing JSON
// body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := statusFor(err)
	userMsg := core.MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	writeJSON(w, statusCode, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}
