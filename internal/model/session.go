package model

import "time"

// SessionCode is the human-shareable identifier for joining a session.
// Always 6 characters from the unambiguous alphabet; compared case-insensitively
// by normalizing input to uppercase before lookup.
type SessionCode string

// SessionStatus represents the lifecycle state of a session
type SessionStatus string

const (
	StatusWaiting SessionStatus = "waiting" // Joinable, game not started
	StatusStarted SessionStatus = "started" // Gameplay in progress
	StatusEnded   SessionStatus = "ended"   // Terminal; eligible for cleanup
)

// DefaultMaxPlayers bounds the roster when the host does not choose a limit
const DefaultMaxPlayers = 30

// MinPlayersToStart is the minimum viable multiplayer roster size
const MinPlayersToStart = 2

// Session is the authoritative record of one hosted game room
type Session struct {
	Code       SessionCode
	GameRef    GameRef
	Status     SessionStatus
	Roster     []Player // Insertion order = join order; host inserted at creation
	MaxPlayers int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Host returns the session's host, or nil if none (should not happen
// for a committed session)
func (s *Session) Host() *Player {
	for i := range s.Roster {
		if s.Roster[i].Role == RoleHost {
			return &s.Roster[i]
		}
	}
	return nil
}

// FindPlayer returns the roster entry with the given id, or nil
func (s *Session) FindPlayer(id PlayerID) *Player {
	for i := range s.Roster {
		if s.Roster[i].ID == id {
			return &s.Roster[i]
		}
	}
	return nil
}

// IsFull reports whether the roster is at capacity
func (s *Session) IsFull() bool {
	return len(s.Roster) >= s.MaxPlayers
}
