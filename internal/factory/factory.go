package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/edugame/quizroom/internal/dependencies/clock"
	"github.com/edugame/quizroom/internal/dependencies/random"
	"github.com/edugame/quizroom/internal/services/code"
	"github.com/edugame/quizroom/internal/services/gameinfo"
	"github.com/edugame/quizroom/internal/services/room"
	"github.com/edugame/quizroom/internal/services/session"
	"github.com/edugame/quizroom/internal/services/watcher"
	"github.com/edugame/quizroom/internal/storage"
	"github.com/edugame/quizroom/internal/storage/memory"
	redisstorage "github.com/edugame/quizroom/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	CodeGenerator  *code.Generator
	SessionManager *session.Manager
	GameService    *gameinfo.Service
	Watcher        *watcher.Watcher
	RoomController *room.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// WatcherConfig tunes the session sync loop (optional)
	// If zero value, defaults to watcher.DefaultConfig()
	WatcherConfig watcher.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	watcherCfg := cfg.WatcherConfig
	if watcherCfg.Interval == 0 {
		watcherCfg = watcher.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, watcherCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Store, clk clock.Clock, rnd random.Random, watcherCfg watcher.Config, logger *slog.Logger) *App {
	// Create services
	generator := code.NewGenerator(rnd)
	sessionManager := session.NewManager(store, generator, clk, logger)
	gameService := gameinfo.New(store, clk, logger)
	sessionWatcher := watcher.New(store, watcherCfg, logger)
	roomController := room.NewController(sessionManager, gameService, sessionWatcher, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		CodeGenerator:  generator,
		SessionManager: sessionManager,
		GameService:    gameService,
		Watcher:        sessionWatcher,
		RoomController: roomController,
	}
}
