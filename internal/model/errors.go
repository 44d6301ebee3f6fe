package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionFull         = errors.New("session is full")
	ErrSessionNotJoinable  = errors.New("session is no longer accepting players")
	ErrInvalidTransition   = errors.New("operation not valid in current session status")
	ErrNotHost             = errors.New("player is not the host")
	ErrForbidden           = errors.New("player may not perform this action")
	ErrInsufficientPlayers = errors.New("insufficient players to start")
	ErrCodeConflict        = errors.New("session code already in use")

	// Code generation errors
	ErrCodeSpaceExhausted = errors.New("session code space exhausted")

	// Infrastructure errors
	ErrStoreUnavailable = errors.New("session store unavailable")

	// Game metadata errors
	ErrGameNotFound = errors.New("game not found")
)
