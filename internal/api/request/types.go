package request

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	GameRef    string `json:"game_ref"`
	MaxPlayers int    `json:"max_players,omitempty"`
}

// RegisterGameRequest is the request body for registering game metadata
type RegisterGameRequest struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Subject       string `json:"subject,omitempty"`
	Difficulty    string `json:"difficulty,omitempty"`
	QuestionCount int    `json:"question_count,omitempty"`
}
