package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Config holds CLI configuration
type Config struct {
	ServerURL    string
	PlayerID     string
	PlayerName   string
	IdentityFile string
	Output       string
	Verbose      bool
}

// Identity is the persisted player identity
type Identity struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:    getEnvOrDefault("QUIZROOM_SERVER", "http://localhost:8080"),
		PlayerID:     os.Getenv("QUIZROOM_PLAYER_ID"),
		PlayerName:   os.Getenv("QUIZROOM_PLAYER_NAME"),
		IdentityFile: getEnvOrDefault("QUIZROOM_IDENTITY_FILE", defaultIdentityFile()),
		Output:       "text",
		Verbose:      false,
	}
}

// LoadIdentity loads the identity from file if not already set, minting
// and persisting a fresh one on first use
func (c *Config) LoadIdentity() error {
	if c.PlayerID != "" {
		return nil
	}

	data, err := os.ReadFile(c.IdentityFile)
	if err == nil {
		var id Identity
		if err := json.Unmarshal(data, &id); err == nil && id.PlayerID != "" {
			c.PlayerID = id.PlayerID
			if c.PlayerName == "" {
				c.PlayerName = id.PlayerName
			}
			return nil
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	c.PlayerID = uuid.NewString()
	return c.SaveIdentity()
}

// SaveIdentity persists the current identity to the identity file
func (c *Config) SaveIdentity() error {
	dir := filepath.Dir(c.IdentityFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(Identity{
		PlayerID:   c.PlayerID,
		PlayerName: c.PlayerName,
	})
	if err != nil {
		return err
	}

	return os.WriteFile(c.IdentityFile, data, 0600)
}

func defaultIdentityFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quizroom/identity.json"
	}
	return filepath.Join(home, ".quizroom", "identity.json")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
