// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// DailyViews holds the page views a repository received on a single local calendar day.
type DailyViews struct {
	Day              time.Time `json:"day"`
	TotalViews       int       `json:"total_views"`
	TotalUniqueViews int       `json:"total_unique_views"`
}

// DailyClones holds the clones a repository received on a single local calendar day.
type DailyClones struct {
	Day               time.Time `json:"day"`
	TotalClones       int       `json:"total_clones"`
	TotalUniqueClones int       `json:"total_unique_clones"`
}

// Repository identifies a repository and carries any traffic already known for it.
// When both DailyViews and DailyClones are non-empty the aggregator uses them as-is
// and issues no network calls.
type Repository struct {
	Owner       string
	Name        string
	DailyViews  []DailyViews
	DailyClones []DailyClones
	StarredAt   []time.Time
}

// FullName returns the owner/name path.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// HasCachedTraffic reports whether the repository already carries views and clones.
func (r Repository) HasCachedTraffic() bool {
	return len(r.DailyViews) > 0 && len(r.DailyClones) > 0
}

// LocalDay truncates t to midnight of its calendar day in the local time zone.
func LocalDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}

func nextDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location())
}

// NormalizeTraffic moves every point onto its local day, merges points sharing a day,
// sorts both series ascending and fills missing days with zero points so that views and
// clones cover the same contiguous range of days.
// The input slices are not modified.
func NormalizeTraffic(views []DailyViews, clones []DailyClones) ([]DailyViews, []DailyClones) {
	viewsByDay := make(map[time.Time]DailyViews, len(views))
	for _, v := range views {
		day := LocalDay(v.Day)
		merged := viewsByDay[day]
		merged.Day = day
		merged.TotalViews += v.TotalViews
		merged.TotalUniqueViews += v.TotalUniqueViews
		viewsByDay[day] = merged
	}

	clonesByDay := make(map[time.Time]DailyClones, len(clones))
	for _, c := range clones {
		day := LocalDay(c.Day)
		merged := clonesByDay[day]
		merged.Day = day
		merged.TotalClones += c.TotalClones
		merged.TotalUniqueClones += c.TotalUniqueClones
		clonesByDay[day] = merged
	}

	if len(viewsByDay) == 0 && len(clonesByDay) == 0 {
		return []DailyViews{}, []DailyClones{}
	}

	var first, last time.Time
	extend := func(day time.Time) {
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}
	for day := range viewsByDay {
		extend(day)
	}
	for day := range clonesByDay {
		extend(day)
	}

	normalizedViews := make([]DailyViews, 0, len(viewsByDay))
	normalizedClones := make([]DailyClones, 0, len(clonesByDay))
	for day := first; !day.After(last); day = nextDay(day) {
		v, ok := viewsByDay[day]
		if !ok {
			v = DailyViews{Day: day}
		}
		normalizedViews = append(normalizedViews, v)

		c, ok := clonesByDay[day]
		if !ok {
			c = DailyClones{Day: day}
		}
		normalizedClones = append(normalizedClones, c)
	}

	return normalizedViews, normalizedClones
}
