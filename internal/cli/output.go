package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case Handoff:
		o.printHandoff(v)
	case GameInfo:
		o.printGameInfo(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	JoinedAt    string `json:"joined_at"`
}

// Session response type
type Session struct {
	Code       string   `json:"code"`
	GameRef    string   `json:"game_ref"`
	Status     string   `json:"status"`
	Roster     []Player `json:"roster"`
	MaxPlayers int      `json:"max_players"`
}

// Handoff response type
type Handoff struct {
	GameRef string   `json:"game_ref"`
	Code    string   `json:"code"`
	Roster  []Player `json:"roster"`
}

// GameInfo response type
type GameInfo struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Subject       string `json:"subject"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.Code)
	fmt.Printf("Game: %s\n", s.GameRef)
	fmt.Printf("Status: %s\n", s.Status)
	fmt.Printf("Players (%d/%d):\n", len(s.Roster), s.MaxPlayers)
	for _, p := range s.Roster {
		hostStr := ""
		if p.Role == "host" {
			hostStr = " [host]"
		}
		fmt.Printf("  - %s (%s)%s\n", p.DisplayName, p.ID, hostStr)
	}
}

func (o *Output) printHandoff(h Handoff) {
	fmt.Printf("Game started: %s\n", h.GameRef)
	fmt.Printf("Session: %s\n", h.Code)
	fmt.Printf("Players (%d):\n", len(h.Roster))
	for _, p := range h.Roster {
		fmt.Printf("  - %s (%s)\n", p.DisplayName, p.ID)
	}
}

func (o *Output) printGameInfo(g GameInfo) {
	fmt.Printf("Game: %s\n", g.Title)
	fmt.Printf("ID: %s\n", g.ID)
	if g.Subject != "" {
		fmt.Printf("Subject: %s\n", g.Subject)
	}
	if g.Difficulty != "" {
		fmt.Printf("Difficulty: %s\n", g.Difficulty)
	}
	fmt.Printf("Questions: %d\n", g.QuestionCount)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
