package response

import (
	"time"

	"github.com/edugame/quizroom/internal/model"
	"github.com/edugame/quizroom/internal/services/room"
	"github.com/edugame/quizroom/internal/services/watcher"
)

// Player represents a roster entry in API responses
type Player struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		Role:        string(p.Role),
		JoinedAt:    p.JoinedAt,
	}
}

// Session represents a session in API responses
type Session struct {
	Code       string    `json:"code"`
	GameRef    string    `json:"game_ref"`
	Status     string    `json:"status"`
	Roster     []Player  `json:"roster"`
	MaxPlayers int       `json:"max_players"`
	CreatedAt  time.Time `json:"created_at"`
}

// SessionFromModel converts model.Session
func SessionFromModel(s *model.Session) Session {
	roster := make([]Player, len(s.Roster))
	for i, p := range s.Roster {
		roster[i] = PlayerFromModel(p)
	}
	return Session{
		Code:       string(s.Code),
		GameRef:    string(s.GameRef),
		Status:     string(s.Status),
		Roster:     roster,
		MaxPlayers: s.MaxPlayers,
		CreatedAt:  s.CreatedAt,
	}
}

// Snapshot is the change-driven session view emitted on the event stream
type Snapshot struct {
	Code    string   `json:"code"`
	GameRef string   `json:"game_ref"`
	Status  string   `json:"status"`
	Roster  []Player `json:"roster"`
}

// SnapshotFromWatcher converts a watcher.Snapshot
func SnapshotFromWatcher(s *watcher.Snapshot) Snapshot {
	roster := make([]Player, len(s.Roster))
	for i, p := range s.Roster {
		roster[i] = PlayerFromModel(p)
	}
	return Snapshot{
		Code:    string(s.Code),
		GameRef: string(s.GameRef),
		Status:  string(s.Status),
		Roster:  roster,
	}
}

// Handoff is the payload passed to the gameplay collaborator on start
type Handoff struct {
	GameRef string   `json:"game_ref"`
	Code    string   `json:"code"`
	Roster  []Player `json:"roster"`
}

// HandoffFromModel converts room.Handoff
func HandoffFromModel(h *room.Handoff) Handoff {
	roster := make([]Player, len(h.Roster))
	for i, p := range h.Roster {
		roster[i] = PlayerFromModel(p)
	}
	return Handoff{
		GameRef: string(h.GameRef),
		Code:    string(h.Code),
		Roster:  roster,
	}
}

// GameInfo represents game metadata in API responses
type GameInfo struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Subject       string `json:"subject,omitempty"`
	Difficulty    string `json:"difficulty,omitempty"`
	QuestionCount int    `json:"question_count"`
}

// GameInfoFromModel converts model.GameInfo
func GameInfoFromModel(g *model.GameInfo) GameInfo {
	return GameInfo{
		ID:            string(g.ID),
		Title:         g.Title,
		Subject:       g.Subject,
		Difficulty:    g.Difficulty,
		QuestionCount: g.QuestionCount,
	}
}
