package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edugame/quizroom/internal/model"
	"github.com/edugame/quizroom/internal/services/gameinfo"
	"github.com/edugame/quizroom/internal/services/watcher"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeIdentityRequired     = "IDENTITY_REQUIRED"
	CodeSessionNotFound      = "SESSION_NOT_FOUND"
	CodeSessionFull          = "SESSION_FULL"
	CodeSessionNotJoinable   = "SESSION_NOT_JOINABLE"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeNotHost              = "NOT_HOST"
	CodeForbidden            = "FORBIDDEN"
	CodeInsufficientPlayers  = "INSUFFICIENT_PLAYERS"
	CodeGameNotFound         = "GAME_NOT_FOUND"
	CodeCodeSpaceExhausted   = "CODE_SPACE_EXHAUSTED"
	CodeStoreUnavailable     = "STORE_UNAVAILABLE"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for pre-built HTTP errors
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrSessionFull):
		return &httpError{http.StatusConflict, APIError{CodeSessionFull, "Session is full"}}
	case errors.Is(err, model.ErrSessionNotJoinable):
		return &httpError{http.StatusConflict, APIError{CodeSessionNotJoinable, "Session is no longer accepting players"}}
	case errors.Is(err, model.ErrInvalidTransition):
		return &httpError{http.StatusConflict, APIError{CodeInvalidTransition, "Operation not valid in current session status"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, "You may not perform this action"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "Not enough players to start"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, gameinfo.ErrInvalidGameInfo):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Game metadata requires an id and a title"}}
	case errors.Is(err, model.ErrCodeSpaceExhausted):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeCodeSpaceExhausted, "No session codes available"}}
	case errors.Is(err, model.ErrStoreUnavailable), errors.Is(err, watcher.ErrConnectionLost):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeStoreUnavailable, "Session store unavailable"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewIdentityRequiredError creates an error for requests missing player identity
func NewIdentityRequiredError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeIdentityRequired, "X-Player-ID header is required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
