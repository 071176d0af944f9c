package insight

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/solacehq/solace-backend/internal/apierr"
)

const (
	MinReflectionLen = 20
	MaxReflectionLen = 2000

	// Guards against whitespace/emoji-only submissions.
	minLetterCount = 10
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeReflection strips markup from a raw reflection and enforces the
// length and content bounds. Validation failures carry an apierr with the
// client-facing code.
func SanitizeReflection(raw string) (string, error) {
	cleaned := strings.TrimSpace(tagPattern.ReplaceAllString(raw, ""))

	n := utf8.RuneCountInString(cleaned)
	if n < MinReflectionLen {
		return "", apierr.New(http.StatusBadRequest, "TEXT_TOO_SHORT",
			fmt.Errorf("reflection must be at least %d characters", MinReflectionLen))
	}
	if n > MaxReflectionLen {
		return "", apierr.New(http.StatusRequestEntityTooLarge, "TEXT_TOO_LONG",
			fmt.Errorf("reflection must be at most %d characters", MaxReflectionLen))
	}

	letters := 0
	for _, r := range cleaned {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters++
		}
	}
	if letters < minLetterCount {
		return "", apierr.New(http.StatusBadRequest, "INSUFFICIENT_CONTENT",
			fmt.Errorf("reflection must contain at least %d letters", minLetterCount))
	}
	return cleaned, nil
}
