package web

// errors.go provides unified error response handling for the web layer.
//
// Gesture failures have already been shown as a notification by the core
// controllers by the time a handler sees them. The response only has to
// carry the same failure to the client:
//   - page script requests get the re-rendered App fragment
//   - JSON clients get an ErrorResponse with the support code
//   - anything else gets a small HTML alert

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/calypso/internal/core"
	"github.com/JonMunkholm/calypso/internal/logging"
	"github.com/JonMunkholm/calypso/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns an appropriate response
// based on the request type (fragment, JSON, or HTML).
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	switch {
	case isFragment(r):
		s.renderApp(w, r, statusCode)
	case wantsJSON(r):
		respondErrorJSON(w, userMsg, statusCode)
	default:
		respondErrorHTML(w, r, userMsg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML writes a small HTML error alert.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
}

// statusFor maps a gesture error to an HTTP status.
func statusFor(err error) int {
	var (
		transportErr *core.TransportError
		netErr       *core.NetworkError
		appErr       *core.ApplicationError
		exportErr    *core.ExportFailure
	)

	switch {
	case errors.Is(err, core.ErrNoValidFiles), errors.Is(err, core.ErrNoBatch):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrOperationInFlight):
		return http.StatusConflict
	case errors.Is(err, core.ErrNoDataAvailable):
		return http.StatusNotFound
	case errors.As(err, &appErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &exportErr), errors.As(err, &transportErr), errors.As(err, &netErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// isFragment checks if the request comes from the page script.
func isFragment(r *http.Request) bool {
	return r.Header.Get(templates.FragmentHeader) == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	contentType := r.Header.Get("Content-Type")

	if strings.Contains(accept, "application/json") {
		return true
	}
	if strings.Contains(contentType, "application/json") {
		return true
	}

	// Programmatic clients rarely send Accept: text/html
	return !strings.Contains(accept, "text/html")
}
