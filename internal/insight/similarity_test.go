package insight

import "testing"

func TestJaccardSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"the quick brown fox", "the slow brown dog"},
		{"sleep has been rough", "work has been rough"},
		{"", "only one side has words"},
		{"one two three", "four five six"},
	}
	for _, p := range pairs {
		ab := JaccardSimilarity(p[0], p[1])
		ba := JaccardSimilarity(p[1], p[0])
		if ab != ba {
			t.Errorf("similarity(%q, %q)=%v but reversed=%v", p[0], p[1], ab, ba)
		}
	}
}

func TestJaccardSimilarityIdentity(t *testing.T) {
	texts := []string{
		"a single reflection",
		"Case DOES not matter HERE",
	}
	for _, s := range texts {
		if got := JaccardSimilarity(s, s); got != 1.0 {
			t.Errorf("similarity(%q, same)=%v, expected 1.0", s, got)
		}
	}
	if got := JaccardSimilarity("", ""); got != 0 {
		t.Errorf("similarity of two empty strings = %v, expected 0", got)
	}
}

func TestJaccardSimilarityValues(t *testing.T) {
	// {a b c d} vs {a b c e}: intersection 3, union 5.
	got := JaccardSimilarity("a b c d", "a b c e")
	if got != 0.6 {
		t.Errorf("expected 0.6, got %v", got)
	}
	if got := JaccardSimilarity("x y z", "p q r"); got != 0 {
		t.Errorf("disjoint sets: expected 0, got %v", got)
	}
}

func TestChanged(t *testing.T) {
	testCases := []struct {
		name     string
		newText  string
		prior    string
		expected bool
	}{
		{"NoPrior", "anything at all", "", true},
		{"Identical", "same words here", "same words here", false},
		{"MinorReorder", "here same words", "same words here", false},
		{"Disjoint", "completely different text", "nothing in common whatsoever", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Changed(tc.newText, tc.prior); got != tc.expected {
				t.Errorf("expected changed=%v, got %v", tc.expected, got)
			}
		})
	}
}
