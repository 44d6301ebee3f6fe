package gameinfo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/edugame/quizroom/internal/dependencies/clock"
	"github.com/edugame/quizroom/internal/model"
	"github.com/edugame/quizroom/internal/storage"
)

// ErrInvalidGameInfo is returned when registered metadata is missing
// required fields
var ErrInvalidGameInfo = errors.New("game metadata requires an id and a title")

// Service is the read model for externally-owned game content metadata.
// The content system registers metadata; the session core only displays it.
type Service struct {
	store  storage.Store
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new game info service
func New(store storage.Store, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clk,
		logger: logger.With(slog.String("component", "gameinfo")),
	}
}

// Register stores metadata for a game
func (s *Service) Register(ctx context.Context, info *model.GameInfo) error {
	if info.ID == "" || info.Title == "" {
		return ErrInvalidGameInfo
	}
	if info.CreatedAt.IsZero() {
		info.CreatedAt = s.clock.Now()
	}

	if err := s.store.SaveGameInfo(ctx, info); err != nil {
		return err
	}

	s.logger.Info("game registered",
		slog.String("game_ref", string(info.ID)),
		slog.String("title", info.Title))
	return nil
}

// Get retrieves metadata for a game
func (s *Service) Get(ctx context.Context, id model.GameRef) (*model.GameInfo, error) {
	return s.store.GetGameInfo(ctx, id)
}
