package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize concatenates the parts after cleaning each one.
// It trims whitespace, lowercases, and normalizes line endings for each part
// before joining them.
func Normalize(parts ...string) string {
	cleaned := make([]string, len(parts))
	for i, part := range parts {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		cleaned[i] = p
	}

	// Joined with a newline so "question" and "answer" cannot collapse into
	// "questionanswer".
	return strings.Join(cleaned, "\n")
}

// Hash normalizes the parts and returns their SHA-256 hash as a hex string.
func Hash(parts ...string) string {
	hashBytes := sha256.Sum256([]byte(Normalize(parts...)))
	return fmt.Sprintf("%x", hashBytes)
}
