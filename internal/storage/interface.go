package storage

import (
	"context"

	"github.com/edugame/quizroom/internal/model"
)

// Store defines the interface for session persistence. It is the sole
// source of truth; all components re-fetch rather than cache.
type Store interface {
	// Session operations
	//
	// CreateSession commits a new session if and only if no session with
	// the same code exists. It fails with model.ErrCodeConflict otherwise,
	// which closes the race between code generation and commit. The
	// session becomes visible atomically with its full roster.
	CreateSession(ctx context.Context, session *model.Session) error
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error)
	DeleteSession(ctx context.Context, code model.SessionCode) error
	ListSessionCodes(ctx context.Context) ([]model.SessionCode, error)

	// Game metadata operations (owned by the game content collaborator;
	// the session core only reads)
	SaveGameInfo(ctx context.Context, info *model.GameInfo) error
	GetGameInfo(ctx context.Context, id model.GameRef) (*model.GameInfo, error)
}
