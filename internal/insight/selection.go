package insight

import "sort"

const (
	minSelectedThemes = 3
	maxSelectedThemes = 6
)

// SelectThemes sorts scores descending (ties keep catalog order) and applies
// the staircase policy: stronger overall matches surface more themes, bounded
// to 3–6. recommendedCount is max(3, themeCount-1).
func SelectThemes(scores []ThemeScore) (selected []ThemeScore, themeCount, recommendedCount int) {
	ordered := make([]ThemeScore, len(scores))
	copy(ordered, scores)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	strong, medium := 0, 0
	for _, s := range ordered {
		if s.Score >= 5 {
			strong++
		}
		if s.Score >= 3 {
			medium++
		}
	}

	switch {
	case strong >= 4:
		themeCount = maxSelectedThemes
	case strong >= 3 || medium >= 5:
		themeCount = 5
	case strong >= 2 || medium >= 3:
		themeCount = 4
	default:
		themeCount = minSelectedThemes
	}
	if themeCount > len(ordered) {
		themeCount = len(ordered)
	}

	recommendedCount = themeCount - 1
	if recommendedCount < minSelectedThemes {
		recommendedCount = minSelectedThemes
	}
	return ordered[:themeCount], themeCount, recommendedCount
}
