package insight

import (
	"regexp"
	"strings"

	"github.com/solacehq/solace-backend/internal/types"
)

// ThemeScore is a per-request scoring result for a single theme.
type ThemeScore struct {
	Theme           types.Theme
	Score           int
	MatchedKeywords []string
}

// ScoreThemes scores every theme against the reflection text, one result per
// theme in catalog order. Pure and deterministic: identical input always
// produces identical output.
func ScoreThemes(text string, themes []types.Theme) []ThemeScore {
	lower := strings.ToLower(text)
	first := firstSentence(lower)

	scores := make([]ThemeScore, 0, len(themes))
	for _, theme := range themes {
		scores = append(scores, scoreTheme(lower, first, theme))
	}
	return scores
}

func scoreTheme(lower, first string, theme types.Theme) ThemeScore {
	ts := ThemeScore{Theme: theme}
	seen := make(map[string]bool, len(theme.Keywords))
	for _, kw := range theme.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true

		re := keywordPattern(kw)
		n := len(re.FindAllStringIndex(lower, -1))
		if n == 0 {
			continue
		}
		ts.Score += n
		ts.MatchedKeywords = append(ts.MatchedKeywords, kw)

		// First-sentence mentions are assumed most salient.
		if re.MatchString(first) {
			ts.Score++
		}
	}

	// Naming the theme outright is a strong signal.
	if name := strings.ReplaceAll(theme.Name, "-", " "); strings.Contains(lower, name) {
		ts.Score += 2
	}
	return ts
}

// keywordPattern anchors the keyword on a left word boundary and lets it
// extend through any word characters on the right: "work" matches "work" and
// "working" but not "homework". Deliberately not \b...\b.
func keywordPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\w*`)
}

func firstSentence(lower string) string {
	if i := strings.IndexAny(lower, ".!?"); i >= 0 {
		return lower[:i]
	}
	return lower
}
