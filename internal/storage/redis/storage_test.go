package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/edugame/quizroom/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour
	cfg.GameInfoTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) session(code string) *model.Session {
	return &model.Session{
		Code:    model.SessionCode(code),
		GameRef: "quiz-1",
		Status:  model.StatusWaiting,
		Roster: []model.Player{
			{ID: "host-1", DisplayName: "Host", Role: model.RoleHost, JoinedAt: time.Now().UTC()},
		},
		MaxPlayers: model.DefaultMaxPlayers,
	}
}

// Session tests

func (s *StorageSuite) TestCreateAndGetSession() {
	err := s.storage.CreateSession(s.ctx, s.session("ABC234"))
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(model.SessionCode("ABC234"), retrieved.Code)
	s.Equal(model.StatusWaiting, retrieved.Status)
	s.Len(retrieved.Roster, 1)
	s.Equal(model.PlayerID("host-1"), retrieved.Roster[0].ID)
}

func (s *StorageSuite) TestCreateSessionConflict() {
	s.Require().NoError(s.storage.CreateSession(s.ctx, s.session("ABC234")))

	err := s.storage.CreateSession(s.ctx, s.session("ABC234"))
	s.ErrorIs(err, model.ErrCodeConflict)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "NOSUCH")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSaveSessionOverwrites() {
	session := s.session("ABC234")
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	session.Status = model.StatusStarted
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(model.StatusStarted, retrieved.Status)
}

func (s *StorageSuite) TestDeleteSession() {
	s.Require().NoError(s.storage.CreateSession(s.ctx, s.session("ABC234")))

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "ABC234"))

	_, err := s.storage.GetSession(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestListSessionCodes() {
	s.Require().NoError(s.storage.CreateSession(s.ctx, s.session("ABC234")))
	s.Require().NoError(s.storage.CreateSession(s.ctx, s.session("XYZ789")))

	codes, err := s.storage.ListSessionCodes(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.SessionCode{"ABC234", "XYZ789"}, codes)
}

func (s *StorageSuite) TestSessionTTLExpires() {
	s.Require().NoError(s.storage.CreateSession(s.ctx, s.session("ABC234")))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetSession(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSaveRefreshesTTL() {
	session := s.session("ABC234")
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	s.mini.FastForward(30 * time.Minute)
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))
	s.mini.FastForward(45 * time.Minute)

	// 75 minutes after creation but only 45 after the last write
	_, err := s.storage.GetSession(s.ctx, "ABC234")
	s.Require().NoError(err)
}

// Game metadata tests

func (s *StorageSuite) TestSaveAndGetGameInfo() {
	info := &model.GameInfo{
		ID:            "quiz-1",
		Title:         "Capitals of Europe",
		Subject:       "Geography",
		QuestionCount: 10,
	}

	s.Require().NoError(s.storage.SaveGameInfo(s.ctx, info))

	retrieved, err := s.storage.GetGameInfo(s.ctx, "quiz-1")
	s.Require().NoError(err)
	s.Equal("Capitals of Europe", retrieved.Title)
	s.Equal(10, retrieved.QuestionCount)
}

func (s *StorageSuite) TestGetGameInfoNotFound() {
	_, err := s.storage.GetGameInfo(s.ctx, "nope")
	s.ErrorIs(err, model.ErrGameNotFound)
}
