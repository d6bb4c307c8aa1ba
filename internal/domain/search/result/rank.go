package result

import "sort"

// Less orders by relevance descending, then by date descending.
// Undated results follow dated ones at equal relevance.
func Less(a, b *Result) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.hasDate != b.hasDate {
		return a.hasDate
	}
	return a.date.After(b.date)
}

// Rank sorts results in place by Less and truncates them to limit.
// The sort is stable, so equal results keep their merge order.
func Rank(results []Result, limit int) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		return Less(&results[i], &results[j])
	})
	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
