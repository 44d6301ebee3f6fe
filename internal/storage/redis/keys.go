package redis

import (
	"fmt"

	"github.com/edugame/quizroom/internal/model"
)

// Key prefix for all session-related data
const keyPrefix = "quizroom"

// sessionKey returns the Redis key for a Session
func sessionKey(code model.SessionCode) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, code)
}

// sessionKeyPattern matches all session keys, used for code listing
func sessionKeyPattern() string {
	return fmt.Sprintf("%s:session:*", keyPrefix)
}

// gameInfoKey returns the Redis key for a GameInfo record
func gameInfoKey(id model.GameRef) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}
