package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/edugame/quizroom/internal/api/middleware"
	"github.com/edugame/quizroom/internal/api/request"
	"github.com/edugame/quizroom/internal/api/response"
	"github.com/edugame/quizroom/internal/api/sse"
	"github.com/edugame/quizroom/internal/model"
	"github.com/edugame/quizroom/internal/services/code"
	"github.com/edugame/quizroom/internal/services/room"
)

// qrSize is the pixel size of generated QR images
const qrSize = 256

// SessionHandler handles session-related endpoints
type SessionHandler struct {
	rooms *room.Controller

	// joinBaseURL, when set, is prepended to codes in QR images so
	// scanning lands on the join page instead of a bare code
	joinBaseURL string
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(rooms *room.Controller, joinBaseURL string) *SessionHandler {
	return &SessionHandler{
		rooms:       rooms,
		joinBaseURL: joinBaseURL,
	}
}

// pathCode extracts and normalizes the session code path variable
func pathCode(r *http.Request) model.SessionCode {
	return code.Normalize(mux.Vars(r)["code"])
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.GameRef == "" {
		WriteError(w, NewInvalidRequestError("game_ref is required"))
		return
	}

	session, err := h.rooms.CreateSession(r.Context(), model.GameRef(req.GameRef), *player, req.MaxPlayers)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// Get handles GET /api/v1/sessions/{code}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.rooms.GetSession(r.Context(), pathCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Join handles POST /api/v1/sessions/{code}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	session, err := h.rooms.JoinSession(r.Context(), mux.Vars(r)["code"], *player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Leave handles POST /api/v1/sessions/{code}/leave
func (h *SessionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.rooms.LeaveGame(r.Context(), pathCode(r), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Kick handles DELETE /api/v1/sessions/{code}/players/{player_id}
func (h *SessionHandler) Kick(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	target := model.PlayerID(mux.Vars(r)["player_id"])

	if err := h.rooms.KickPlayer(r.Context(), pathCode(r), target, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Start handles POST /api/v1/sessions/{code}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	handoff, err := h.rooms.StartGame(r.Context(), pathCode(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HandoffFromModel(handoff))
}

// End handles POST /api/v1/sessions/{code}/end
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.rooms.EndGame(r.Context(), pathCode(r), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Events handles GET /api/v1/sessions/{code}/events: the sync loop
// surfaced as a server-sent event stream. Snapshots are only emitted when
// roster membership or status changes; the stream closes after a terminal
// ended or error event.
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	watched, err := h.rooms.Watch(r.Context(), pathCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	defer watched.Close()

	sse.Stream(w, r, watched.Events)
}

// QR handles GET /api/v1/sessions/{code}/qr, returning a PNG for sharing
// the join code
func (h *SessionHandler) QR(w http.ResponseWriter, r *http.Request) {
	sessionCode := pathCode(r)

	// Only mint QR images for sessions that exist
	if _, err := h.rooms.GetSession(r.Context(), sessionCode); err != nil {
		WriteError(w, err)
		return
	}

	content := string(sessionCode)
	if h.joinBaseURL != "" {
		content = h.joinBaseURL + string(sessionCode)
	}

	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.PNG(w, png)
}
