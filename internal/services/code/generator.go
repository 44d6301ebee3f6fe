package code

import (
	"math"
	"strings"
	"unicode"

	"github.com/edugame/quizroom/internal/dependencies/random"
	"github.com/edugame/quizroom/internal/model"
)

const (
	// Length is the fixed length of generated session codes
	Length = 6
	// Alphabet is the characters used in session codes. Visually
	// confusable characters (0/O, 1/I) are excluded.
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// maxAttempts bounds the retry loop so a near-saturated code space
	// produces a reported failure rather than a silent spin
	maxAttempts = 1000
)

// Generator produces collision-checked session codes
type Generator struct {
	random random.Random
}

// NewGenerator creates a new Generator
func NewGenerator(rnd random.Random) *Generator {
	return &Generator{random: rnd}
}

// Generate returns a code of the fixed length that is not present in the
// existing set. It is pure with respect to storage; committing the code
// atomically is the caller's responsibility. Fails with
// model.ErrCodeSpaceExhausted when no free code can be found.
func (g *Generator) Generate(existing map[model.SessionCode]struct{}) (model.SessionCode, error) {
	if len(existing) >= spaceSize() {
		return "", model.ErrCodeSpaceExhausted
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := model.SessionCode(g.random.String(Length, Alphabet))
		if len(candidate) != Length {
			continue
		}
		if _, taken := existing[candidate]; !taken {
			return candidate, nil
		}
	}

	return "", model.ErrCodeSpaceExhausted
}

// spaceSize returns the total number of possible codes, capped to avoid
// overflow on 32-bit platforms
func spaceSize() int {
	size := math.Pow(float64(len(Alphabet)), float64(Length))
	if size > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(size)
}

// Normalize converts typed input into canonical code form: uppercase with
// non-alphanumeric characters stripped. Lookups always go through this so
// codes compare case-insensitively.
func Normalize(input string) model.SessionCode {
	var b strings.Builder
	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return model.SessionCode(b.String())
}
