package insight

import "strings"

// SimilarityThreshold is the Jaccard score at or above which a resubmitted
// reflection is treated as materially unchanged.
const SimilarityThreshold = 0.7

// JaccardSimilarity computes |intersection| / |union| over the lower-cased,
// whitespace-tokenized word sets of a and b. Symmetric; 0 when both are
// empty.
func JaccardSimilarity(a, b string) float64 {
	aSet := wordSet(a)
	bSet := wordSet(b)

	inter := 0
	for w := range aSet {
		if bSet[w] {
			inter++
		}
	}
	union := len(aSet) + len(bSet) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Changed reports whether newText differs materially from the previously
// analyzed text. A missing prior text always counts as changed.
func Changed(newText, priorText string) bool {
	if priorText == "" {
		return true
	}
	return JaccardSimilarity(newText, priorText) < SimilarityThreshold
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}
