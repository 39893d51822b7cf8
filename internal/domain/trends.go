package domain

import (
	"slices"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
)

// MinimumChartHeight is the lowest upper bound of the views/clones value axis, so that
// a repository with little or no traffic does not collapse into a flat chart.
const MinimumChartHeight = 20

// Placeholder titles shown instead of the chart when there is nothing to draw.
const (
	NoTrafficYetTitle         = "No traffic yet"
	UnableToRetrieveDataTitle = "Unable to retrieve data"
)

const (
	trafficWindowDays = 14
	starsWindowDays   = 7
)

// NumberFormatter renders a total as short display text, e.g. 1200 as "1.2K".
type NumberFormatter interface {
	Format(n int) string
}

// Trends is the chart-ready state of one repository's traffic.
// The series are only ever replaced as a whole through ReplaceSeries, which recomputes
// every field derived from them.
type Trends struct {
	DailyViews  []DailyViews  `json:"daily_views"`
	DailyClones []DailyClones `json:"daily_clones"`
	DailyStars  []DailyStars  `json:"daily_stars"`

	TotalViews        int `json:"total_views"`
	TotalUniqueViews  int `json:"total_unique_views"`
	TotalClones       int `json:"total_clones"`
	TotalUniqueClones int `json:"total_unique_clones"`
	TotalStars        int `json:"total_stars"`

	MinViewsClonesDate  time.Time `json:"min_views_clones_date"`
	MaxViewsClonesDate  time.Time `json:"max_views_clones_date"`
	ViewsClonesMinValue int       `json:"views_clones_min_value"`
	ViewsClonesMaxValue int       `json:"views_clones_max_value"`

	MinStarsDate  time.Time `json:"min_stars_date"`
	MaxStarsDate  time.Time `json:"max_stars_date"`
	StarsMinValue int       `json:"stars_min_value"`
	StarsMaxValue int       `json:"stars_max_value"`

	StarsText        string `json:"stars_text"`
	ViewsText        string `json:"views_text"`
	UniqueViewsText  string `json:"unique_views_text"`
	ClonesText       string `json:"clones_text"`
	UniqueClonesText string `json:"unique_clones_text"`

	Fetching           bool             `json:"fetching"`
	EmptyDataViewTitle string           `json:"empty_data_view_title"`
	Visibility         SeriesVisibility `json:"visibility"`
}

// NewTrends returns an empty state whose derived fields are already consistent.
func NewTrends(today time.Time, formatter NumberFormatter, visibility SeriesVisibility) Trends {
	t := Trends{Visibility: visibility}
	t.ReplaceSeries(nil, nil, nil, today, formatter)
	return t
}

// ChartVisible reports whether there is traffic to draw.
func (t Trends) ChartVisible() bool {
	return !t.Fetching && t.TotalViews+t.TotalUniqueViews+t.TotalClones+t.TotalUniqueClones > 0
}

// EmptyDataViewVisible reports whether the placeholder should be shown instead of the chart.
func (t Trends) EmptyDataViewVisible() bool {
	return !t.ChartVisible() && !t.Fetching
}

// ReplaceSeries assigns all three series at once and recomputes the derived fields.
// today anchors the date bounds of empty series.
func (t *Trends) ReplaceSeries(views []DailyViews, clones []DailyClones, stars []DailyStars, today time.Time, formatter NumberFormatter) {
	t.DailyViews, t.DailyClones = NormalizeTraffic(views, clones)
	t.DailyStars = sortStars(stars)
	t.recompute(LocalDay(today), formatter)
}

// Clone returns a copy that shares no slices with t.
func (t Trends) Clone() Trends {
	c := t
	c.DailyViews = slices.Clone(t.DailyViews)
	c.DailyClones = slices.Clone(t.DailyClones)
	c.DailyStars = slices.Clone(t.DailyStars)
	return c
}

func (t *Trends) recompute(today time.Time, formatter NumberFormatter) {
	views := make(stats.Float64Data, 0, len(t.DailyViews))
	uniqueViews := make(stats.Float64Data, 0, len(t.DailyViews))
	for _, v := range t.DailyViews {
		views = append(views, float64(v.TotalViews))
		uniqueViews = append(uniqueViews, float64(v.TotalUniqueViews))
	}
	clones := make(stats.Float64Data, 0, len(t.DailyClones))
	uniqueClones := make(stats.Float64Data, 0, len(t.DailyClones))
	for _, c := range t.DailyClones {
		clones = append(clones, float64(c.TotalClones))
		uniqueClones = append(uniqueClones, float64(c.TotalUniqueClones))
	}

	t.TotalViews = sum(views)
	t.TotalUniqueViews = sum(uniqueViews)
	t.TotalClones = sum(clones)
	t.TotalUniqueClones = sum(uniqueClones)
	t.TotalStars = len(t.DailyStars)

	t.ViewsClonesMinValue = 0
	t.ViewsClonesMaxValue = max(maximum(views), maximum(clones), MinimumChartHeight)
	t.MinViewsClonesDate, t.MaxViewsClonesDate = t.viewsClonesDateRange(today)

	t.StarsMinValue = 0
	t.StarsMaxValue = 0
	t.MinStarsDate = today.AddDate(0, 0, -starsWindowDays)
	t.MaxStarsDate = today
	if n := len(t.DailyStars); n > 0 {
		t.StarsMaxValue = t.DailyStars[n-1].TotalStars
		t.MinStarsDate = t.DailyStars[0].Day
		t.MaxStarsDate = t.DailyStars[n-1].Day
	}

	if formatter != nil {
		t.StarsText = formatter.Format(t.TotalStars)
		t.ViewsText = formatter.Format(t.TotalViews)
		t.UniqueViewsText = formatter.Format(t.TotalUniqueViews)
		t.ClonesText = formatter.Format(t.TotalClones)
		t.UniqueClonesText = formatter.Format(t.TotalUniqueClones)
	}
}

func (t *Trends) viewsClonesDateRange(today time.Time) (time.Time, time.Time) {
	var first, last time.Time
	if len(t.DailyViews) > 0 {
		first, last = t.DailyViews[0].Day, t.DailyViews[len(t.DailyViews)-1].Day
	}
	if len(t.DailyClones) > 0 {
		if c := t.DailyClones[0].Day; first.IsZero() || c.Before(first) {
			first = c
		}
		if c := t.DailyClones[len(t.DailyClones)-1].Day; last.IsZero() || c.After(last) {
			last = c
		}
	}
	if first.IsZero() {
		return today.AddDate(0, 0, -(trafficWindowDays - 1)), today
	}
	return first, last
}

func sortStars(stars []DailyStars) []DailyStars {
	sorted := make([]DailyStars, len(stars))
	copy(sorted, stars)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Day.Equal(sorted[j].Day) {
			return sorted[i].TotalStars < sorted[j].TotalStars
		}
		return sorted[i].Day.Before(sorted[j].Day)
	})
	return sorted
}

func sum(data stats.Float64Data) int {
	if data.Len() == 0 {
		return 0
	}
	total, err := stats.Sum(data)
	if err != nil {
		return 0
	}
	return int(total)
}

func maximum(data stats.Float64Data) int {
	if data.Len() == 0 {
		return 0
	}
	m, err := stats.Max(data)
	if err != nil {
		return 0
	}
	return int(m)
}
