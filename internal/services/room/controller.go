package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/edugame/quizroom/internal/model"
	"github.com/edugame/quizroom/internal/services/code"
	"github.com/edugame/quizroom/internal/services/gameinfo"
	"github.com/edugame/quizroom/internal/services/session"
	"github.com/edugame/quizroom/internal/services/watcher"
)

// ErrSessionOver is reported to a guest whose session ended before the
// game started
var ErrSessionOver = errors.New("session has ended")

// Handoff carries everything the gameplay collaborator needs once a
// session starts
type Handoff struct {
	GameRef model.GameRef
	Code    model.SessionCode
	Roster  []model.Player
}

// Room is a live view of one session: the state at entry plus a stream of
// snapshot events from the sync loop. Close stops the loop; it is safe to
// call more than once.
type Room struct {
	Session *model.Session
	Events  <-chan watcher.Event

	cancel context.CancelFunc
}

// Close stops the room's sync loop
func (r *Room) Close() {
	r.cancel()
}

// Controller composes the session manager and sync loop into the
// host-side and guest-side room flows
type Controller struct {
	sessions session.ManagerInterface
	games    *gameinfo.Service
	watcher  *watcher.Watcher
	logger   *slog.Logger
}

// NewController creates a new room Controller
func NewController(sessions session.ManagerInterface, games *gameinfo.Service, w *watcher.Watcher, logger *slog.Logger) *Controller {
	return &Controller{
		sessions: sessions,
		games:    games,
		watcher:  w,
		logger:   logger.With(slog.String("component", "room")),
	}
}

// CreateSession creates a session for the given game without opening a
// room. The returned session carries the shareable code.
func (c *Controller) CreateSession(ctx context.Context, gameRef model.GameRef, host model.Player, maxPlayers int) (*model.Session, error) {
	// The game must exist before a room can be hosted for it
	if _, err := c.games.Get(ctx, gameRef); err != nil {
		return nil, err
	}

	return c.sessions.Create(ctx, session.CreateParams{
		GameRef:    gameRef,
		HostID:     host.ID,
		HostName:   host.DisplayName,
		MaxPlayers: maxPlayers,
	})
}

// JoinSession normalizes a typed code and joins the session
func (c *Controller) JoinSession(ctx context.Context, typedCode string, guest model.Player) (*model.Session, error) {
	sessionCode := code.Normalize(typedCode)
	if len(sessionCode) != code.Length {
		return nil, model.ErrSessionNotFound
	}

	return c.sessions.Join(ctx, sessionCode, guest)
}

// GetSession fetches the current session state
func (c *Controller) GetSession(ctx context.Context, sessionCode model.SessionCode) (*model.Session, error) {
	return c.sessions.Get(ctx, sessionCode)
}

// Watch opens a room observing an existing session
func (c *Controller) Watch(ctx context.Context, sessionCode model.SessionCode) (*Room, error) {
	current, err := c.sessions.Get(ctx, sessionCode)
	if err != nil {
		return nil, err
	}
	return c.open(ctx, current), nil
}

// HostGame creates a session and opens a room watching it: the host flow
// up to the point where the code is shared and roster growth is observed
func (c *Controller) HostGame(ctx context.Context, gameRef model.GameRef, host model.Player, maxPlayers int) (*Room, error) {
	created, err := c.CreateSession(ctx, gameRef, host, maxPlayers)
	if err != nil {
		return nil, err
	}
	return c.open(ctx, created), nil
}

// JoinGame joins a session by typed code and opens a room watching it
func (c *Controller) JoinGame(ctx context.Context, typedCode string, guest model.Player) (*Room, error) {
	joined, err := c.JoinSession(ctx, typedCode, guest)
	if err != nil {
		return nil, err
	}
	return c.open(ctx, joined), nil
}

// StartGame starts the session and returns the gameplay handoff
func (c *Controller) StartGame(ctx context.Context, sessionCode model.SessionCode, requestedBy model.PlayerID) (*Handoff, error) {
	started, err := c.sessions.Start(ctx, sessionCode, requestedBy)
	if err != nil {
		return nil, err
	}
	return handoffOf(started.GameRef, started.Code, started.Roster), nil
}

// EndGame ends the session
func (c *Controller) EndGame(ctx context.Context, sessionCode model.SessionCode, requestedBy model.PlayerID) error {
	return c.sessions.End(ctx, sessionCode, requestedBy)
}

// LeaveGame removes the caller's own seat
func (c *Controller) LeaveGame(ctx context.Context, sessionCode model.SessionCode, playerID model.PlayerID) error {
	return c.sessions.RemovePlayer(ctx, sessionCode, playerID, playerID)
}

// KickPlayer removes another player on the host's behalf
func (c *Controller) KickPlayer(ctx context.Context, sessionCode model.SessionCode, playerID, requestedBy model.PlayerID) error {
	return c.sessions.RemovePlayer(ctx, sessionCode, playerID, requestedBy)
}

// WaitForStart consumes room events until the session starts (returning
// the gameplay handoff), ends (ErrSessionOver), or the loop reports a
// terminal error
func (c *Controller) WaitForStart(ctx context.Context, r *Room) (*Handoff, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-r.Events:
			if !ok {
				return nil, ErrSessionOver
			}
			if ev.Err != nil {
				if errors.Is(ev.Err, model.ErrSessionNotFound) {
					return nil, ErrSessionOver
				}
				return nil, ev.Err
			}
			switch ev.Snapshot.Status {
			case model.StatusStarted:
				return handoffOf(ev.Snapshot.GameRef, ev.Snapshot.Code, ev.Snapshot.Roster), nil
			case model.StatusEnded:
				return nil, ErrSessionOver
			}
		}
	}
}

// open starts a sync loop for the session and wraps it in a Room
func (c *Controller) open(ctx context.Context, s *model.Session) *Room {
	watchCtx, cancel := context.WithCancel(ctx)
	return &Room{
		Session: s,
		Events:  c.watcher.Watch(watchCtx, s.Code),
		cancel:  cancel,
	}
}

func handoffOf(gameRef model.GameRef, sessionCode model.SessionCode, roster []model.Player) *Handoff {
	copied := make([]model.Player, len(roster))
	copy(copied, roster)
	return &Handoff{
		GameRef: gameRef,
		Code:    sessionCode,
		Roster:  copied,
	}
}
