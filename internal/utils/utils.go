package utils

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/scythe504/impostor-backend/internal"
)

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

const RoomCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	// Script and style bodies are dropped whole; their text is never meant to
	// be shown.
	blockTagPattern = regexp.MustCompile(`(?is)<(script|style)\b[^>]*>.*?(</(script|style)\s*>|$)`)
	markupPattern   = regexp.MustCompile(`</?[^>]+(>|$)`)
)

// GenerateRoomCode returns RoomCodeLength random uppercase letters.
func GenerateRoomCode() string {
	code := make([]byte, internal.RoomCodeLength)
	for i := range code {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(RoomCodeChars))))
		if err != nil {
			// fallback to math/rand if crypto fails
			code[i] = RoomCodeChars[rand.Intn(len(RoomCodeChars))]
			continue
		}
		code[i] = RoomCodeChars[n.Int64()]
	}
	return string(code)
}

// IsValidRoomCode checks the 4 uppercase A-Z format.
func IsValidRoomCode(code string) bool {
	if len(code) != internal.RoomCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// NormalizeRoomCode trims and upper-cases a client supplied code.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateName trims a display name and reports whether it is usable.
func ValidateName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > internal.MaxNameLength {
		return name, false
	}
	return name, true
}

// SanitizeAnswer strips markup, trims and truncates to MaxAnswerLength runes.
func SanitizeAnswer(answer string) string {
	answer = blockTagPattern.ReplaceAllString(answer, "")
	answer = markupPattern.ReplaceAllString(answer, "")
	answer = strings.TrimSpace(answer)
	if utf8.RuneCountInString(answer) > internal.MaxAnswerLength {
		answer = strings.TrimSpace(string([]rune(answer)[:internal.MaxAnswerLength]))
	}
	return answer
}
