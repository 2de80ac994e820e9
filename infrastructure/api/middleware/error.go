package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pickworth/photofind/application/service"
	"github.com/pickworth/photofind/domain/photo"
)

// ErrorResponse is the flat error body returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError maps an error to an HTTP status and writes a flat JSON error
// body. Invalid input surfaces its message to the caller; everything else
// gets a generic message with the detail logged server-side only.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError
	message := "internal error"

	var serverErr *ServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
		message = invalidInputMessage(err)
	case errors.Is(err, photo.ErrNotFound):
		status = http.StatusNotFound
		message = "photo not found"
	case errors.Is(err, ErrAuthentication):
		status = http.StatusUnauthorized
		message = "unauthorized"
	case errors.As(err, &serverErr):
		status = serverErr.StatusCode()
		message = serverErr.Message()
	}

	if logger != nil {
		logger.Error("request error",
			"request_id", chimiddleware.GetReqID(r.Context()),
			"status", status,
			"error", err.Error(),
			"method", r.Method,
			"path", r.URL.Path,
		)
	}

	WriteJSON(w, status, ErrorResponse{Error: message})
}

// invalidInputMessage strips the sentinel prefix so the caller sees only
// the human-readable reason.
func invalidInputMessage(err error) string {
	msg := err.Error()
	prefix := service.ErrInvalidInput.Error() + ": "
	if idx := strings.Index(msg, prefix); idx >= 0 {
		return msg[idx+len(prefix):]
	}
	return msg
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
