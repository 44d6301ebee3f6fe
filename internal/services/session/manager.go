package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/edugame/quizroom/internal/dependencies/clock"
	"github.com/edugame/quizroom/internal/metrics"
	"github.com/edugame/quizroom/internal/model"
	"github.com/edugame/quizroom/internal/services/code"
	"github.com/edugame/quizroom/internal/storage"
)

// createAttempts bounds retries when a generated code loses the commit
// race against a concurrent creation
const createAttempts = 5

// Manager creates, mutates, and reads session records, enforcing the
// state machine and roster invariants
type Manager struct {
	store     storage.Store
	generator *code.Generator
	clock     clock.Clock
	logger    *slog.Logger
	locks     *keyedLocks
}

// NewManager creates a new session Manager
func NewManager(store storage.Store, generator *code.Generator, clk clock.Clock, logger *slog.Logger) *Manager {
	return &Manager{
		store:     store,
		generator: generator,
		clock:     clk,
		logger:    logger.With(slog.String("component", "session-manager")),
		locks:     newKeyedLocks(),
	}
}

// CreateParams holds the inputs for creating a session
type CreateParams struct {
	GameRef    model.GameRef
	HostID     model.PlayerID
	HostName   string
	MaxPlayers int
}

// Create allocates a code and commits a new waiting session with the host
// as the sole roster entry. The conditional store write makes the session
// either fully visible with its host present, or not visible at all.
func (m *Manager) Create(ctx context.Context, params CreateParams) (*model.Session, error) {
	maxPlayers := params.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = model.DefaultMaxPlayers
	}

	now := m.clock.Now()
	host := model.Player{
		ID:          params.HostID,
		DisplayName: params.HostName,
		Role:        model.RoleHost,
		JoinedAt:    now,
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		existing, err := m.listExistingCodes(ctx)
		if err != nil {
			return nil, err
		}

		sessionCode, err := m.generator.Generate(existing)
		if err != nil {
			return nil, err
		}

		session := &model.Session{
			Code:       sessionCode,
			GameRef:    params.GameRef,
			Status:     model.StatusWaiting,
			Roster:     []model.Player{host},
			MaxPlayers: maxPlayers,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		err = m.store.CreateSession(ctx, session)
		if err == nil {
			m.logger.Info("session created",
				slog.String("code", string(sessionCode)),
				slog.String("game_ref", string(params.GameRef)),
				slog.String("host", string(params.HostID)))
			metrics.SessionsCreated.Inc()
			return session, nil
		}
		if !errors.Is(err, model.ErrCodeConflict) {
			return nil, err
		}
		// Lost the race for this code to a concurrent create; regenerate
	}

	return nil, model.ErrCodeSpaceExhausted
}

// Get retrieves a session by code
func (m *Manager) Get(ctx context.Context, sessionCode model.SessionCode) (*model.Session, error) {
	return m.store.GetSession(ctx, sessionCode)
}

// Join appends a guest to the roster. Join is idempotent on the player id:
// a retried join finds the existing seat and succeeds without duplicating.
func (m *Manager) Join(ctx context.Context, sessionCode model.SessionCode, guest model.Player) (*model.Session, error) {
	unlock := m.locks.lock(sessionCode)
	defer unlock()

	session, err := m.store.GetSession(ctx, sessionCode)
	if err != nil {
		metrics.JoinsRejected.WithLabelValues("not_found").Inc()
		return nil, err
	}

	// Idempotency check precedes the status check so a join retried
	// across the start transition still reports success for its own seat
	if session.FindPlayer(guest.ID) != nil {
		return session, nil
	}

	if session.Status != model.StatusWaiting {
		metrics.JoinsRejected.WithLabelValues("not_joinable").Inc()
		return nil, model.ErrSessionNotJoinable
	}

	if session.IsFull() {
		metrics.JoinsRejected.WithLabelValues("full").Inc()
		return nil, model.ErrSessionFull
	}

	now := m.clock.Now()
	session.Roster = append(session.Roster, model.Player{
		ID:          guest.ID,
		DisplayName: guest.DisplayName,
		Role:        model.RoleGuest,
		JoinedAt:    now,
	})
	session.UpdatedAt = now

	if err := m.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	m.logger.Info("player joined",
		slog.String("code", string(sessionCode)),
		slog.String("player", string(guest.ID)),
		slog.Int("roster_size", len(session.Roster)))
	metrics.JoinsAccepted.Inc()
	return session, nil
}

// RemovePlayer removes a roster entry. A player may remove itself (leave)
// and the host may remove anyone (kick); remove is idempotent, so a player
// already absent is success, not an error. A guest may self-leave while
// the game is started; kicks are only legal while waiting. The host
// leaving ends the session.
func (m *Manager) RemovePlayer(ctx context.Context, sessionCode model.SessionCode, playerID, requestedBy model.PlayerID) error {
	unlock := m.locks.lock(sessionCode)
	defer unlock()

	session, err := m.store.GetSession(ctx, sessionCode)
	if err != nil {
		return err
	}

	host := session.Host()
	isSelf := requestedBy == playerID
	isHost := host != nil && host.ID == requestedBy
	if !isSelf && !isHost {
		return model.ErrForbidden
	}

	if session.Status == model.StatusEnded {
		// Terminal roster is frozen; removal is a no-op
		return nil
	}

	if session.FindPlayer(playerID) == nil {
		// Already removed
		return nil
	}

	if !isSelf && session.Status != model.StatusWaiting {
		return model.ErrInvalidTransition
	}

	if host != nil && host.ID == playerID {
		return m.endLocked(ctx, session, "host left")
	}

	for i := range session.Roster {
		if session.Roster[i].ID == playerID {
			session.Roster = append(session.Roster[:i], session.Roster[i+1:]...)
			break
		}
	}
	session.UpdatedAt = m.clock.Now()

	if err := m.store.SaveSession(ctx, session); err != nil {
		return err
	}

	m.logger.Info("player removed",
		slog.String("code", string(sessionCode)),
		slog.String("player", string(playerID)),
		slog.Bool("kicked", !isSelf))
	return nil
}

// Start transitions the session from waiting to started. Host-only; this
// is the single linearization point clients key off of to stop accepting
// joins and to navigate into gameplay.
func (m *Manager) Start(ctx context.Context, sessionCode model.SessionCode, requestedBy model.PlayerID) (*model.Session, error) {
	unlock := m.locks.lock(sessionCode)
	defer unlock()

	session, err := m.store.GetSession(ctx, sessionCode)
	if err != nil {
		return nil, err
	}

	host := session.Host()
	if host == nil || host.ID != requestedBy {
		return nil, model.ErrNotHost
	}

	if session.Status != model.StatusWaiting {
		return nil, model.ErrInvalidTransition
	}

	if len(session.Roster) < model.MinPlayersToStart {
		return nil, model.ErrInsufficientPlayers
	}

	session.Status = model.StatusStarted
	session.UpdatedAt = m.clock.Now()

	if err := m.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	m.logger.Info("session started",
		slog.String("code", string(sessionCode)),
		slog.Int("roster_size", len(session.Roster)))
	metrics.SessionsStarted.Inc()
	return session, nil
}

// End transitions the session to ended from any non-terminal state.
// Host-only and idempotent: ending an already-ended session is a no-op.
func (m *Manager) End(ctx context.Context, sessionCode model.SessionCode, requestedBy model.PlayerID) error {
	unlock := m.locks.lock(sessionCode)
	defer unlock()

	session, err := m.store.GetSession(ctx, sessionCode)
	if err != nil {
		return err
	}

	host := session.Host()
	if host == nil || host.ID != requestedBy {
		return model.ErrNotHost
	}

	if session.Status == model.StatusEnded {
		return nil
	}

	return m.endLocked(ctx, session, "host ended")
}

// endLocked marks the session ended and persists it. Callers must hold
// the code lock.
func (m *Manager) endLocked(ctx context.Context, session *model.Session, reason string) error {
	session.Status = model.StatusEnded
	session.UpdatedAt = m.clock.Now()

	if err := m.store.SaveSession(ctx, session); err != nil {
		return err
	}

	m.logger.Info("session ended",
		slog.String("code", string(session.Code)),
		slog.String("reason", reason))
	metrics.SessionsEnded.Inc()
	return nil
}

// listExistingCodes loads the currently claimed codes as a set for the
// code generator
func (m *Manager) listExistingCodes(ctx context.Context) (map[model.SessionCode]struct{}, error) {
	codes, err := m.store.ListSessionCodes(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[model.SessionCode]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set, nil
}

// ManagerInterface describes the manager for dependency injection
type ManagerInterface interface {
	Create(ctx context.Context, params CreateParams) (*model.Session, error)
	Get(ctx context.Context, sessionCode model.SessionCode) (*model.Session, error)
	Join(ctx context.Context, sessionCode model.SessionCode, guest model.Player) (*model.Session, error)
	RemovePlayer(ctx context.Context, sessionCode model.SessionCode, playerID, requestedBy model.PlayerID) error
	Start(ctx context.Context, sessionCode model.SessionCode, requestedBy model.PlayerID) (*model.Session, error)
	End(ctx context.Context, sessionCode model.SessionCode, requestedBy model.PlayerID) error
}

var _ ManagerInterface = (*Manager)(nil)
