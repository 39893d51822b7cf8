package domain

import (
	"sort"
	"time"
)

// DailyStars is one star event with the running star count at that point.
type DailyStars struct {
	TotalStars int       `json:"total_stars"`
	StarredAt  time.Time `json:"starred_at"`
	Day        time.Time `json:"day"`
}

// NewDailyStars turns star timestamps, in any order, into a running count.
// Timestamps are sorted ascending and numbered 1, 2, 3, ... in that order.
func NewDailyStars(starredAt []time.Time) []DailyStars {
	sorted := make([]time.Time, len(starredAt))
	copy(sorted, starredAt)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	stars := make([]DailyStars, 0, len(sorted))
	for i, ts := range sorted {
		stars = append(stars, DailyStars{
			TotalStars: i + 1,
			StarredAt:  ts,
			Day:        LocalDay(ts),
		})
	}
	return stars
}
