package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// SessionTTL is the retention window for session records. Ended
	// sessions fall out of the keyspace when it elapses; active sessions
	// have their TTL refreshed on every write.
	SessionTTL time.Duration

	// GameInfoTTL is the retention window for game metadata
	GameInfoTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		SessionTTL:   24 * time.Hour,
		GameInfoTTL:  24 * time.Hour,
	}
}
