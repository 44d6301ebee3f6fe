package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/edugame/quizroom/internal/api/apierr"
	"github.com/edugame/quizroom/internal/api/response"
	"github.com/edugame/quizroom/internal/factory"
	"github.com/edugame/quizroom/internal/testutil"
)

type RouterSuite struct {
	suite.Suite
	app    *factory.TestApp
	router http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.router = NewRouter(RouterConfig{
		Logger:         testutil.NopLogger(),
		RoomController: s.app.RoomController,
		GameService:    s.app.GameService,
		JoinBaseURL:    "https://quiz.example/join/",
	})
}

// request performs a request against the router on behalf of a player
func (s *RouterSuite) request(method, path, playerID, playerName string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}
	if playerName != "" {
		req.Header.Set("X-Player-Name", playerName)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) decodeSession(rec *httptest.ResponseRecorder) response.Session {
	var session response.Session
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &session))
	return session
}

func (s *RouterSuite) decodeError(rec *httptest.ResponseRecorder) apierr.ErrorResponse {
	var errResp apierr.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &errResp))
	return errResp
}

func (s *RouterSuite) registerGame(id, title string) {
	rec := s.request(http.MethodPost, "/api/v1/games", "", "", map[string]any{
		"id":    id,
		"title": title,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *RouterSuite) createSession(code string, maxPlayers int) response.Session {
	s.app.MockRandom.QueueString(code)
	body := map[string]any{"game_ref": "quiz-1"}
	if maxPlayers > 0 {
		body["max_players"] = maxPlayers
	}
	rec := s.request(http.MethodPost, "/api/v1/sessions", "host-1", "Host", body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	return s.decodeSession(rec)
}

// Health and games

func (s *RouterSuite) TestHealth() {
	rec := s.request(http.MethodGet, "/api/v1/health", "", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (s *RouterSuite) TestRegisterAndGetGame() {
	s.registerGame("quiz-1", "Capitals of Europe")

	rec := s.request(http.MethodGet, "/api/v1/games/quiz-1", "", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var info response.GameInfo
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &info))
	s.Equal("Capitals of Europe", info.Title)
}

func (s *RouterSuite) TestRegisterGameWithoutTitle() {
	rec := s.request(http.MethodPost, "/api/v1/games", "", "", map[string]any{"id": "quiz-1"})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterSuite) TestGetUnknownGame() {
	rec := s.request(http.MethodGet, "/api/v1/games/nope", "", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(apierr.CodeGameNotFound, s.decodeError(rec).Error.Code)
}

// Session creation

func (s *RouterSuite) TestCreateSessionRequiresIdentity() {
	s.registerGame("quiz-1", "Capitals of Europe")

	rec := s.request(http.MethodPost, "/api/v1/sessions", "", "", map[string]any{"game_ref": "quiz-1"})
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(apierr.CodeIdentityRequired, s.decodeError(rec).Error.Code)
}

func (s *RouterSuite) TestCreateSessionForUnknownGame() {
	rec := s.request(http.MethodPost, "/api/v1/sessions", "host-1", "Host", map[string]any{"game_ref": "nope"})
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterSuite) TestCreateSession() {
	s.registerGame("quiz-1", "Capitals of Europe")

	session := s.createSession("ABC234", 0)
	s.Equal("ABC234", session.Code)
	s.Equal("waiting", session.Status)
	s.Require().Len(session.Roster, 1)
	s.Equal("host", session.Roster[0].Role)
	s.Equal("Host", session.Roster[0].DisplayName)
}

// Join, lifecycle, and roster

func (s *RouterSuite) TestJoinSession() {
	s.registerGame("quiz-1", "Capitals of Europe")
	s.createSession("ABC234", 0)

	rec := s.request(http.MethodPost, "/api/v1/sessions/abc234/join", "guest-1", "Guest", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Len(s.decodeSession(rec).Roster, 2)
}

func (s *RouterSuite) TestJoinUnknownSession() {
	rec := s.request(http.MethodPost, "/api/v1/sessions/ZZZZZZ/join", "guest-1", "Guest", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(apierr.CodeSessionNotFound, s.decodeError(rec).Error.Code)
}

func (s *RouterSuite) TestJoinFullSession() {
	s.registerGame("quiz-1", "Capitals of Europe")
	s.createSession("ABC234", 2)

	rec := s.request(http.MethodPost, "/api/v1/sessions/ABC234/join", "guest-1", "Guest", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.request(http.MethodPost, "/api/v1/sessions/ABC234/join", "guest-2", "Latecomer", nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(apierr.CodeSessionFull, s.decodeError(rec).Error.Code)
}

func (s *RouterSuite) TestGetSessionIsPublic() {
	s.registerGame("quiz-1", "Capitals of Europe")
	s.createSession("ABC234", 0)

	// No identity headers on a read
	rec := s.request(http.MethodGet, "/api/v1/sessions/ABC234", "", "", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestStartByGuestIsForbidden() {
	s.registerGame("quiz-1", "Capitals of Europe")
	s.createSession("ABC234", 0)
	s.request(http.MethodPost, "/api/v1/sessions/ABC234/join", "guest-1", "Guest", nil)

	rec := s.request(http.MethodPost, "/api/v1/sessions/ABC234/start", "guest-1", "Guest", nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal(apierr.CodeNotHost, s.decodeError(rec).Error.Code)
}

func (s *RouterSuite) TestStartWithOnlyHost() {
	s.registerGame("quiz-1", "Capitals of Europe")
	s.createSession("ABC234", 0)

	rec := s.request(http.MethodPost, "/api/v1/sessions/ABC234/start", "host-1", "Host", nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(apierr.CodeInsufficientPlayers, s.decodeError(rec).Error.Code)
}

func (s *RouterSuite) TestFullSessionLifecycle() {
	s.registerGame("quiz-1", "Capitals of Europe")
	s.createSession("ABC234", 0)
	s.request(http.MethodPost, "/api/v1/sessions/ABC234/join", "guest-1", "Guest", nil)

	rec := s.request(http.MethodPost, "/api/v1/sessions/ABC234/start", "host-1", "Host", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var handoff response.Handoff
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &handoff))
	s.Equal("quiz-1", handoff.GameRef)
	s.Len(handoff.Roster, 2)

	// Joins are closed once started
	rec = s.request(http.MethodPost, "/api/v1/sessions/ABC234/join", "guest-2", "Latecomer", nil)
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.request(http.MethodPost, "/api/v1/sessions/ABC234/end", "host-1", "Host", nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.request(http.MethodGet, "/api/v1/sessions/ABC234", "", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("ended", s.decodeSession(rec).Status)
}

func (s *RouterSuite) TestLeaveSession() {
	s.registerGame("quiz-1", "Capitals of Europe")
	s.createSession("ABC234", 0)
	s.request(http.MethodPost, "/api/v1/sessions/ABC234/join", "guest-1", "Guest", nil)

	rec := s.request(http.MethodPost, "/api/v1/sessions/ABC234/leave", "guest-1", "Guest", nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.request(http.MethodGet, "/api/v1/sessions/ABC234", "", "", nil)
	s.Len(s.decodeSession(rec).Roster, 1)
}

func (s *RouterSuite) TestKickPlayer() {
	s.registerGame("quiz-1", "Capitals of Europe")
	s.createSession("ABC234", 0)
	s.request(http.MethodPost, "/api/v1/sessions/ABC234/join", "guest-1", "Guest", nil)

	rec := s.request(http.MethodDelete, "/api/v1/sessions/ABC234/players/guest-1", "host-1", "Host", nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.request(http.MethodGet, "/api/v1/sessions/ABC234", "", "", nil)
	s.Len(s.decodeSession(rec).Roster, 1)
}

func (s *RouterSuite) TestKickByGuestIsForbidden() {
	s.registerGame("quiz-1", "Capitals of Europe")
	s.createSession("ABC234", 0)
	s.request(http.MethodPost, "/api/v1/sessions/ABC234/join", "guest-1", "Guest", nil)
	s.request(http.MethodPost, "/api/v1/sessions/ABC234/join", "guest-2", "Other", nil)

	rec := s.request(http.MethodDelete, "/api/v1/sessions/ABC234/players/guest-2", "guest-1", "Guest", nil)
	s.Equal(http.StatusForbidden, rec.Code)
}

// QR codes

func (s *RouterSuite) TestSessionQR() {
	s.registerGame("quiz-1", "Capitals of Europe")
	s.createSession("ABC234", 0)

	rec := s.request(http.MethodGet, "/api/v1/sessions/ABC234/qr", "", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("image/png", rec.Header().Get("Content-Type"))
	s.NotEmpty(rec.Body.Bytes())
}

func (s *RouterSuite) TestSessionQRUnknownSession() {
	rec := s.request(http.MethodGet, "/api/v1/sessions/ZZZZZZ/qr", "", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}
