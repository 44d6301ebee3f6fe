package model

import "time"

// PlayerID uniquely identifies a player across the system.
// It is supplied by the identity collaborator and treated as opaque;
// it doubles as the idempotency key for join and leave.
type PlayerID string

// PlayerRole distinguishes the session host from guests
type PlayerRole string

const (
	RoleHost  PlayerRole = "host"
	RoleGuest PlayerRole = "guest"
)

// Player represents a participant in a session roster
type Player struct {
	ID          PlayerID
	DisplayName string
	Role        PlayerRole
	JoinedAt    time.Time
}
