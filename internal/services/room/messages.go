package room

import (
	"errors"

	"github.com/edugame/quizroom/internal/model"
	"github.com/edugame/quizroom/internal/services/watcher"
)

// Message maps a domain error to the message shown to the user. Every
// failed action surfaces here; nothing is silently swallowed and the user
// always stays in a recoverable state.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrSessionNotFound):
		return "Game not found. Please check the code and try again."
	case errors.Is(err, model.ErrSessionFull):
		return "This game is full."
	case errors.Is(err, model.ErrSessionNotJoinable):
		return "This game has already started or ended."
	case errors.Is(err, ErrSessionOver):
		return "The session has ended. Returning to the lobby."
	case errors.Is(err, model.ErrNotHost):
		return "Only the host can do that."
	case errors.Is(err, model.ErrForbidden):
		return "You don't have permission to do that."
	case errors.Is(err, model.ErrInsufficientPlayers):
		return "You need at least 2 players to start."
	case errors.Is(err, model.ErrInvalidTransition):
		return "That action isn't available right now."
	case errors.Is(err, model.ErrGameNotFound):
		return "That game doesn't exist."
	case errors.Is(err, model.ErrCodeSpaceExhausted):
		return "No game codes are available right now. Try again later."
	case errors.Is(err, watcher.ErrConnectionLost), errors.Is(err, model.ErrStoreUnavailable):
		return "Connection lost. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
