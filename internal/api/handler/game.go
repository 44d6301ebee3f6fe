package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/edugame/quizroom/internal/api/request"
	"github.com/edugame/quizroom/internal/api/response"
	"github.com/edugame/quizroom/internal/model"
	"github.com/edugame/quizroom/internal/services/gameinfo"
)

// GameHandler handles game metadata endpoints. Content itself is owned
// by the game content collaborator; only display metadata lives here.
type GameHandler struct {
	games *gameinfo.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *gameinfo.Service) *GameHandler {
	return &GameHandler{games: games}
}

// Register handles POST /api/v1/games
func (h *GameHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	info := &model.GameInfo{
		ID:            model.GameRef(req.ID),
		Title:         req.Title,
		Subject:       req.Subject,
		Difficulty:    req.Difficulty,
		QuestionCount: req.QuestionCount,
	}

	if err := h.games.Register(r.Context(), info); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameInfoFromModel(info))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	info, err := h.games.Get(r.Context(), model.GameRef(mux.Vars(r)["id"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameInfoFromModel(info))
}
