package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/edugame/quizroom/internal/api/apierr"
	"github.com/edugame/quizroom/internal/model"
)

type contextKey string

const playerContextKey contextKey = "player"

// Header names supplied by the identity collaborator. The stable player
// id is the idempotency key for join and leave; the core treats both
// values as opaque.
const (
	HeaderPlayerID   = "X-Player-ID"
	HeaderPlayerName = "X-Player-Name"
)

// Identity creates middleware that extracts the caller's player identity
// from request headers. Requests without a player id are rejected: every
// session operation needs a stable identity to be idempotent under retry.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(HeaderPlayerID))
			if id == "" {
				apierr.WriteError(w, apierr.NewIdentityRequiredError())
				return
			}

			name := strings.TrimSpace(r.Header.Get(HeaderPlayerName))
			if name == "" {
				name = "Player"
			}

			player := &model.Player{
				ID:          model.PlayerID(id),
				DisplayName: name,
			}

			ctx := context.WithValue(r.Context(), playerContextKey, player)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPlayer returns the caller's identity from the request context
func GetPlayer(ctx context.Context) *model.Player {
	player, _ := ctx.Value(playerContextKey).(*model.Player)
	return player
}

// MustGetPlayer returns the caller's identity or panics
func MustGetPlayer(ctx context.Context) *model.Player {
	player := GetPlayer(ctx)
	if player == nil {
		panic("no player in context - identity middleware not applied?")
	}
	return player
}
