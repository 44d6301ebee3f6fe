package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/edugame/quizroom/internal/dependencies/mocks"
	"github.com/edugame/quizroom/internal/model"
	"github.com/edugame/quizroom/internal/services/code"
	"github.com/edugame/quizroom/internal/storage/memory"
	"github.com/edugame/quizroom/internal/testutil"
)

type ManagerSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	manager *Manager
	ctx     context.Context
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	generator := code.NewGenerator(s.random)
	s.manager = NewManager(s.storage, generator, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ManagerSuite) createSession(sessionCode string, maxPlayers int) *model.Session {
	s.random.QueueString(sessionCode)
	session, err := s.manager.Create(s.ctx, CreateParams{
		GameRef:    "quiz-1",
		HostID:     "host-1",
		HostName:   "Host",
		MaxPlayers: maxPlayers,
	})
	s.Require().NoError(err)
	return session
}

func (s *ManagerSuite) guest(id string) model.Player {
	return model.Player{
		ID:          model.PlayerID(id),
		DisplayName: "Guest " + id,
	}
}

// Create tests

func (s *ManagerSuite) TestCreateSucceeds() {
	session := s.createSession("ABC234", 0)

	s.Equal(model.SessionCode("ABC234"), session.Code)
	s.Equal(model.GameRef("quiz-1"), session.GameRef)
	s.Equal(model.StatusWaiting, session.Status)
	s.Len(session.Roster, 1)
	s.Equal(model.PlayerID("host-1"), session.Roster[0].ID)
	s.Equal(model.RoleHost, session.Roster[0].Role)
}

func (s *ManagerSuite) TestCreateDefaultsMaxPlayers() {
	session := s.createSession("ABC234", 0)
	s.Equal(model.DefaultMaxPlayers, session.MaxPlayers)
}

func (s *ManagerSuite) TestCreateIsPersisted() {
	created := s.createSession("ABC234", 0)

	retrieved, err := s.manager.Get(s.ctx, created.Code)
	s.Require().NoError(err)
	s.Equal(created.Code, retrieved.Code)
	s.Len(retrieved.Roster, 1)
}

func (s *ManagerSuite) TestCreateRegeneratesOnCodeConflict() {
	s.createSession("ABC234", 0)

	// The generator sees the claimed set, so the first candidate collides
	// and a fresh one is drawn
	s.random.QueueString("ABC234", "XYZ789")
	session, err := s.manager.Create(s.ctx, CreateParams{
		GameRef:  "quiz-2",
		HostID:   "host-2",
		HostName: "Other host",
	})
	s.Require().NoError(err)
	s.Equal(model.SessionCode("XYZ789"), session.Code)
}

// Get tests

func (s *ManagerSuite) TestGetUnknownCode() {
	_, err := s.manager.Get(s.ctx, "NOSUCH")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Join tests

func (s *ManagerSuite) TestJoinSucceeds() {
	created := s.createSession("ABC234", 0)

	session, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)

	s.Len(session.Roster, 2)
	s.Equal(model.PlayerID("guest-1"), session.Roster[1].ID)
	s.Equal(model.RoleGuest, session.Roster[1].Role)
}

func (s *ManagerSuite) TestJoinPreservesJoinOrder() {
	created := s.createSession("ABC234", 0)

	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)
	session, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-2"))
	s.Require().NoError(err)

	s.Equal(model.PlayerID("host-1"), session.Roster[0].ID)
	s.Equal(model.PlayerID("guest-1"), session.Roster[1].ID)
	s.Equal(model.PlayerID("guest-2"), session.Roster[2].ID)
}

func (s *ManagerSuite) TestJoinIsIdempotent() {
	created := s.createSession("ABC234", 0)

	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)
	session, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)

	s.Len(session.Roster, 2)
}

func (s *ManagerSuite) TestJoinRetriedAfterStartStillSucceeds() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)

	_, err = s.manager.Start(s.ctx, created.Code, "host-1")
	s.Require().NoError(err)

	// A retried join for a player already seated succeeds even though the
	// session is no longer accepting new joins
	session, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)
	s.Len(session.Roster, 2)
}

func (s *ManagerSuite) TestJoinUnknownCode() {
	_, err := s.manager.Join(s.ctx, "NOSUCH", s.guest("guest-1"))
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ManagerSuite) TestJoinAfterStart() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)
	_, err = s.manager.Start(s.ctx, created.Code, "host-1")
	s.Require().NoError(err)

	_, err = s.manager.Join(s.ctx, created.Code, s.guest("guest-2"))
	s.ErrorIs(err, model.ErrSessionNotJoinable)
}

func (s *ManagerSuite) TestJoinAfterEnd() {
	created := s.createSession("ABC234", 0)
	s.Require().NoError(s.manager.End(s.ctx, created.Code, "host-1"))

	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.ErrorIs(err, model.ErrSessionNotJoinable)
}

func (s *ManagerSuite) TestJoinFullSession() {
	created := s.createSession("ABC234", 2)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)

	_, err = s.manager.Join(s.ctx, created.Code, s.guest("guest-2"))
	s.ErrorIs(err, model.ErrSessionFull)
}

func (s *ManagerSuite) TestJoinFullSessionIdempotentForSeatedPlayer() {
	created := s.createSession("ABC234", 2)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)

	// A seated player retrying does not hit the capacity check
	session, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)
	s.Len(session.Roster, 2)
}

func (s *ManagerSuite) TestConcurrentDuplicateJoinsSeatOnce() {
	created := s.createSession("ABC234", 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
		}()
	}
	wg.Wait()

	session, err := s.manager.Get(s.ctx, created.Code)
	s.Require().NoError(err)
	s.Len(session.Roster, 2)
}

// Start tests

func (s *ManagerSuite) TestStartSucceeds() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)

	session, err := s.manager.Start(s.ctx, created.Code, "host-1")
	s.Require().NoError(err)
	s.Equal(model.StatusStarted, session.Status)
}

func (s *ManagerSuite) TestStartByGuest() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)

	_, err = s.manager.Start(s.ctx, created.Code, "guest-1")
	s.ErrorIs(err, model.ErrNotHost)
}

func (s *ManagerSuite) TestStartWithOnlyHost() {
	created := s.createSession("ABC234", 0)

	_, err := s.manager.Start(s.ctx, created.Code, "host-1")
	s.ErrorIs(err, model.ErrInsufficientPlayers)
}

func (s *ManagerSuite) TestStartTwice() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)
	_, err = s.manager.Start(s.ctx, created.Code, "host-1")
	s.Require().NoError(err)

	_, err = s.manager.Start(s.ctx, created.Code, "host-1")
	s.ErrorIs(err, model.ErrInvalidTransition)
}

func (s *ManagerSuite) TestStartEndedSession() {
	created := s.createSession("ABC234", 0)
	s.Require().NoError(s.manager.End(s.ctx, created.Code, "host-1"))

	_, err := s.manager.Start(s.ctx, created.Code, "host-1")
	s.ErrorIs(err, model.ErrInvalidTransition)
}

// End tests

func (s *ManagerSuite) TestEndSucceeds() {
	created := s.createSession("ABC234", 0)

	s.Require().NoError(s.manager.End(s.ctx, created.Code, "host-1"))

	session, err := s.manager.Get(s.ctx, created.Code)
	s.Require().NoError(err)
	s.Equal(model.StatusEnded, session.Status)
}

func (s *ManagerSuite) TestEndStartedSession() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)
	_, err = s.manager.Start(s.ctx, created.Code, "host-1")
	s.Require().NoError(err)

	s.Require().NoError(s.manager.End(s.ctx, created.Code, "host-1"))
}

func (s *ManagerSuite) TestEndIsIdempotent() {
	created := s.createSession("ABC234", 0)
	s.Require().NoError(s.manager.End(s.ctx, created.Code, "host-1"))
	s.Require().NoError(s.manager.End(s.ctx, created.Code, "host-1"))
}

func (s *ManagerSuite) TestEndByGuest() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)

	err = s.manager.End(s.ctx, created.Code, "guest-1")
	s.ErrorIs(err, model.ErrNotHost)
}

// RemovePlayer tests

func (s *ManagerSuite) TestGuestLeaves() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)

	s.Require().NoError(s.manager.RemovePlayer(s.ctx, created.Code, "guest-1", "guest-1"))

	session, err := s.manager.Get(s.ctx, created.Code)
	s.Require().NoError(err)
	s.Len(session.Roster, 1)
	s.Nil(session.FindPlayer("guest-1"))
}

func (s *ManagerSuite) TestRemoveIsIdempotent() {
	created := s.createSession("ABC234", 0)

	// Removing a player who was never seated is success
	s.Require().NoError(s.manager.RemovePlayer(s.ctx, created.Code, "guest-1", "guest-1"))
}

func (s *ManagerSuite) TestRemoveFromEndedSessionIsNoOp() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)
	s.Require().NoError(s.manager.End(s.ctx, created.Code, "host-1"))

	s.Require().NoError(s.manager.RemovePlayer(s.ctx, created.Code, "guest-1", "guest-1"))

	// Terminal roster is frozen
	session, err := s.manager.Get(s.ctx, created.Code)
	s.Require().NoError(err)
	s.Len(session.Roster, 2)
}

func (s *ManagerSuite) TestHostKicksGuest() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)

	s.Require().NoError(s.manager.RemovePlayer(s.ctx, created.Code, "guest-1", "host-1"))

	session, err := s.manager.Get(s.ctx, created.Code)
	s.Require().NoError(err)
	s.Len(session.Roster, 1)
}

func (s *ManagerSuite) TestGuestCannotKick() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)
	_, err = s.manager.Join(s.ctx, created.Code, s.guest("guest-2"))
	s.Require().NoError(err)

	err = s.manager.RemovePlayer(s.ctx, created.Code, "guest-2", "guest-1")
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ManagerSuite) TestKickAfterStart() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)
	_, err = s.manager.Start(s.ctx, created.Code, "host-1")
	s.Require().NoError(err)

	err = s.manager.RemovePlayer(s.ctx, created.Code, "guest-1", "host-1")
	s.ErrorIs(err, model.ErrInvalidTransition)
}

func (s *ManagerSuite) TestGuestLeavesAfterStart() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)
	_, err = s.manager.Join(s.ctx, created.Code, s.guest("guest-2"))
	s.Require().NoError(err)
	_, err = s.manager.Start(s.ctx, created.Code, "host-1")
	s.Require().NoError(err)

	// Walking away mid-game is always allowed
	s.Require().NoError(s.manager.RemovePlayer(s.ctx, created.Code, "guest-1", "guest-1"))

	session, err := s.manager.Get(s.ctx, created.Code)
	s.Require().NoError(err)
	s.Len(session.Roster, 2)
}

func (s *ManagerSuite) TestHostLeavingEndsSession() {
	created := s.createSession("ABC234", 0)
	_, err := s.manager.Join(s.ctx, created.Code, s.guest("guest-1"))
	s.Require().NoError(err)

	s.Require().NoError(s.manager.RemovePlayer(s.ctx, created.Code, "host-1", "host-1"))

	session, err := s.manager.Get(s.ctx, created.Code)
	s.Require().NoError(err)
	s.Equal(model.StatusEnded, session.Status)
}

func (s *ManagerSuite) TestRemoveFromUnknownSession() {
	err := s.manager.RemovePlayer(s.ctx, "NOSUCH", "guest-1", "guest-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}
