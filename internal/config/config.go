package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all server configuration, loaded from environment
// variables with the QUIZROOM_ prefix (e.g. QUIZROOM_PORT)
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string `mapstructure:"storage_type"`
	RedisURL    string `mapstructure:"redis_url"`

	// SyncInterval is the session watcher polling interval
	SyncInterval time.Duration `mapstructure:"sync_interval"`

	// JoinBaseURL, when set, is prepended to session codes in QR images
	JoinBaseURL string `mapstructure:"join_base_url"`

	// MaxPlayers caps the roster size of newly created sessions
	MaxPlayers int `mapstructure:"max_players"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("QUIZROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("host", "")
	v.SetDefault("port", 8080)
	v.SetDefault("storage_type", "memory")
	v.SetDefault("redis_url", "")
	v.SetDefault("sync_interval", time.Second)
	v.SetDefault("join_base_url", "")
	v.SetDefault("max_players", 0)
	v.SetDefault("log_level", "info")

	// AutomaticEnv alone does not surface env vars through Unmarshal, so
	// bind each key explicitly
	for _, key := range []string{
		"host", "port", "storage_type", "redis_url",
		"sync_interval", "join_base_url", "max_players", "log_level",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.StorageType != "memory" && c.StorageType != "redis" {
		return fmt.Errorf("invalid storage_type: %q", c.StorageType)
	}
	if c.StorageType == "redis" && c.RedisURL == "" {
		return fmt.Errorf("redis_url required when storage_type is redis")
	}
	return nil
}
