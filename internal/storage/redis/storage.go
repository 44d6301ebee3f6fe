package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edugame/quizroom/internal/model"
	"github.com/edugame/quizroom/internal/storage"
)

// Storage is a Redis-backed implementation of the store interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// SetNX makes commit conditional on the code being unclaimed, so a
	// session is either fully visible with its roster or not visible at all
	ok, err := s.client.SetNX(ctx, sessionKey(session.Code), data, s.cfg.SessionTTL).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}
	if !ok {
		return model.ErrCodeConflict
	}
	return nil
}

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, sessionKey(session.Code), data, s.cfg.SessionTTL).Err(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Storage) GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, code model.SessionCode) error {
	if err := s.client.Del(ctx, sessionKey(code)).Err(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Storage) ListSessionCodes(ctx context.Context) ([]model.SessionCode, error) {
	var codes []model.SessionCode
	var cursor uint64
	prefix := strings.TrimSuffix(sessionKeyPattern(), "*")

	for {
		keys, next, err := s.client.Scan(ctx, cursor, sessionKeyPattern(), 100).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
		}
		for _, key := range keys {
			codes = append(codes, model.SessionCode(strings.TrimPrefix(key, prefix)))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return codes, nil
}

// Game metadata operations

func (s *Storage) SaveGameInfo(ctx context.Context, info *model.GameInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, gameInfoKey(info.ID), data, s.cfg.GameInfoTTL).Err(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Storage) GetGameInfo(ctx context.Context, id model.GameRef) (*model.GameInfo, error) {
	data, err := s.client.Get(ctx, gameInfoKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}

	var info model.GameInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
