package insight

import (
	"reflect"
	"testing"

	"gorm.io/datatypes"

	"github.com/solacehq/solace-backend/internal/types"
)

func theme(name string, keywords ...string) types.Theme {
	return types.Theme{Name: name, Title: name, Keywords: datatypes.NewJSONSlice(keywords)}
}

func TestScoreThemesWordBoundary(t *testing.T) {
	themes := []types.Theme{theme("work-stress", "work")}

	got := ScoreThemes("I am working hard", themes)
	if got[0].Score < 1 {
		t.Fatalf("expected 'work' to match 'working', score %d", got[0].Score)
	}

	got = ScoreThemes("I have homework", themes)
	if got[0].Score != 0 {
		t.Fatalf("expected 'work' not to match inside 'homework', score %d", got[0].Score)
	}
}

func TestScoreThemesCounting(t *testing.T) {
	testCases := []struct {
		name      string
		text      string
		theme     types.Theme
		wantScore int
		wantKws   []string
	}{
		{
			// Two full-text matches plus the first-sentence bonus.
			name:      "RepeatedKeywordWithFirstSentenceBonus",
			text:      "work is hard. more work tomorrow",
			theme:     theme("career", "work"),
			wantScore: 3,
			wantKws:   []string{"work"},
		},
		{
			// Match outside the first sentence gets no bonus.
			name:      "NoFirstSentenceBonus",
			text:      "today was fine. the deadline looms",
			theme:     theme("career", "deadline"),
			wantScore: 1,
			wantKws:   []string{"deadline"},
		},
		{
			// Theme name with hyphens replaced appears verbatim: flat +2 on
			// top of the keyword match and its first-sentence bonus.
			name:      "ThemeNameBonus",
			text:      "my work stress keeps growing",
			theme:     theme("work-stress", "stress"),
			wantScore: 4,
			wantKws:   []string{"stress"},
		},
		{
			name:      "NoMatches",
			text:      "a quiet day in the garden",
			theme:     theme("career", "deadline", "boss"),
			wantScore: 0,
			wantKws:   nil,
		},
		{
			// Keyword order in output follows catalog keyword order.
			name:      "MatchedKeywordOrder",
			text:      "my boss moved the deadline again",
			theme:     theme("career", "deadline", "boss"),
			wantScore: 4,
			wantKws:   []string{"deadline", "boss"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ScoreThemes(tc.text, []types.Theme{tc.theme})
			if got[0].Score != tc.wantScore {
				t.Errorf("expected score %d, got %d", tc.wantScore, got[0].Score)
			}
			if !reflect.DeepEqual(got[0].MatchedKeywords, tc.wantKws) {
				t.Errorf("expected keywords %v, got %v", tc.wantKws, got[0].MatchedKeywords)
			}
		})
	}
}

func TestScoreThemesDeterministic(t *testing.T) {
	themes := []types.Theme{
		theme("work-stress", "work", "deadline", "pressure"),
		theme("sleep", "tired", "insomnia", "rest"),
	}
	text := "Work pressure has me tired every night. Deadlines and insomnia feed each other."

	first := ScoreThemes(text, themes)
	for i := 0; i < 50; i++ {
		again := ScoreThemes(text, themes)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed: %+v vs %+v", i, first, again)
		}
	}
}

func TestScoreThemesOrderMatchesInput(t *testing.T) {
	themes := []types.Theme{
		theme("alpha", "nothing"),
		theme("beta", "nothing"),
		theme("gamma", "nothing"),
	}
	got := ScoreThemes("some text without any keyword hits here at all", themes)
	if len(got) != len(themes) {
		t.Fatalf("expected %d scores, got %d", len(themes), len(got))
	}
	for i := range themes {
		if got[i].Theme.Name != themes[i].Name {
			t.Errorf("position %d: expected %s, got %s", i, themes[i].Name, got[i].Theme.Name)
		}
	}
}
