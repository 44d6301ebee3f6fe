package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edugame/quizroom/internal/api/handler"
	"github.com/edugame/quizroom/internal/api/middleware"
	"github.com/edugame/quizroom/internal/services/gameinfo"
	"github.com/edugame/quizroom/internal/services/room"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomController *room.Controller
	GameService    *gameinfo.Service
	// JoinBaseURL is prepended to codes in QR images (optional)
	JoinBaseURL string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.RoomController, cfg.JoinBaseURL)
	gameHandler := handler.NewGameHandler(cfg.GameService)

	// Create middleware
	identityMiddleware := middleware.Identity()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Session routes that mutate or create need a caller identity
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(identityMiddleware)
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/join", sessionHandler.Join).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/leave", sessionHandler.Leave).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/players/{player_id}", sessionHandler.Kick).Methods(http.MethodDelete)
	sessions.HandleFunc("/{code}/start", sessionHandler.Start).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/end", sessionHandler.End).Methods(http.MethodPost)

	// Read-only session routes (no identity needed to observe)
	api.HandleFunc("/sessions/{code}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{code}/events", sessionHandler.Events).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{code}/qr", sessionHandler.QR).Methods(http.MethodGet)

	// Game metadata routes
	api.HandleFunc("/games", gameHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Prometheus metrics outside the versioned API prefix
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
