package model

import "time"

// GameRef is an opaque reference to externally-owned game content
type GameRef string

// GameInfo is read-only metadata about a game, supplied by the game
// content collaborator for display. The session core never mutates it.
type GameInfo struct {
	ID            GameRef
	Title         string
	Subject       string
	Difficulty    string
	QuestionCount int
	CreatedAt     time.Time
}
