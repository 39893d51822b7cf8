package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSeries is returned when a series name cannot be parsed.
var ErrUnknownSeries = errors.New("unknown series")

// Series names one of the four traffic series shown on the chart.
type Series int

const (
	SeriesViews Series = iota
	SeriesUniqueViews
	SeriesClones
	SeriesUniqueClones
)

var seriesNames = map[Series]string{
	SeriesViews:        "views",
	SeriesUniqueViews:  "unique-views",
	SeriesClones:       "clones",
	SeriesUniqueClones: "unique-clones",
}

func (s Series) String() string {
	if name, ok := seriesNames[s]; ok {
		return name
	}
	return fmt.Sprintf("series(%d)", int(s))
}

// ParseSeries parses a series name such as "unique-views".
func ParseSeries(name string) (Series, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for s, n := range seriesNames {
		if n == normalized {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSeries, name)
}

// SeriesVisibility records which traffic series are shown.
type SeriesVisibility struct {
	Views        bool `json:"views"`
	UniqueViews  bool `json:"unique_views"`
	Clones       bool `json:"clones"`
	UniqueClones bool `json:"unique_clones"`
}

// AllSeriesVisible shows every series.
func AllSeriesVisible() SeriesVisibility {
	return SeriesVisibility{Views: true, UniqueViews: true, Clones: true, UniqueClones: true}
}

// VisibilityOf shows only the given series.
func VisibilityOf(series ...Series) SeriesVisibility {
	var v SeriesVisibility
	for _, s := range series {
		if f := v.flag(s); f != nil {
			*f = true
		}
	}
	return v
}

// IsVisible reports whether s is shown.
func (v SeriesVisibility) IsVisible(s Series) bool {
	if f := v.flag(s); f != nil {
		return *f
	}
	return false
}

// Toggle flips the visibility of s.
func (v *SeriesVisibility) Toggle(s Series) error {
	f := v.flag(s)
	if f == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSeries, s)
	}
	*f = !*f
	return nil
}

func (v *SeriesVisibility) flag(s Series) *bool {
	switch s {
	case SeriesViews:
		return &v.Views
	case SeriesUniqueViews:
		return &v.UniqueViews
	case SeriesClones:
		return &v.Clones
	case SeriesUniqueClones:
		return &v.UniqueClones
	}
	return nil
}
