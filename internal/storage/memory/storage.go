package memory

import (
	"context"
	"sync"

	"github.com/edugame/quizroom/internal/model"
	"github.com/edugame/quizroom/internal/storage"
)

// Storage is an in-memory implementation of the store interface
type Storage struct {
	mu sync.RWMutex

	sessions map[model.SessionCode]*model.Session
	games    map[model.GameRef]*model.GameInfo
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions: make(map[model.SessionCode]*model.Session),
		games:    make(map[model.GameRef]*model.GameInfo),
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.Code]; ok {
		return model.ErrCodeConflict
	}
	s.sessions[session.Code] = cloneSession(session)
	return nil
}

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Code] = cloneSession(session)
	return nil
}

func (s *Storage) GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *Storage) DeleteSession(ctx context.Context, code model.SessionCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, code)
	return nil
}

func (s *Storage) ListSessionCodes(ctx context.Context) ([]model.SessionCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]model.SessionCode, 0, len(s.sessions))
	for code := range s.sessions {
		codes = append(codes, code)
	}
	return codes, nil
}

// Game metadata operations

func (s *Storage) SaveGameInfo(ctx context.Context, info *model.GameInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *info
	s.games[info.ID] = &copied
	return nil
}

func (s *Storage) GetGameInfo(ctx context.Context, id model.GameRef) (*model.GameInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	copied := *info
	return &copied, nil
}

// cloneSession deep-copies a session so readers never share roster slices
// with writers. Readers must only ever observe committed snapshots.
func cloneSession(session *model.Session) *model.Session {
	copied := *session
	copied.Roster = make([]model.Player, len(session.Roster))
	copy(copied.Roster, session.Roster)
	return &copied
}
