package game

import (
	"fmt"
	"sort"
	"time"
)

// Rank filters entries by category (empty matches all), sorts by score
// descending and truncates to limit. The sort is stable: equal scores keep
// their fetch order, which is the only tie-break defined.
func Rank(entries []LeaderboardEntry, category string, limit int) []LeaderboardEntry {
	ranked := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if category == "" || e.Category == category {
			ranked = append(ranked, e)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// RelativeTime buckets the elapsed time since t into a display label.
// Buckets are half-open and floor-based: exactly 60 minutes falls into the
// hours bucket, exactly 24 hours into days.
func RelativeTime(t, now time.Time) string {
	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(elapsed.Hours()))
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(elapsed.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
