package render

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/naka-gawa/github-trends/internal/domain"
	"github.com/naka-gawa/github-trends/internal/numfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrends(visibility domain.SeriesVisibility) domain.Trends {
	today := time.Date(2024, 1, 20, 12, 0, 0, 0, time.Local)
	t := domain.NewTrends(today, numfmt.Compact{}, visibility)
	t.ReplaceSeries(
		[]domain.DailyViews{
			{Day: time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local), TotalViews: 1500, TotalUniqueViews: 321},
			{Day: time.Date(2024, 1, 11, 0, 0, 0, 0, time.Local), TotalViews: 17, TotalUniqueViews: 9},
		},
		[]domain.DailyClones{
			{Day: time.Date(2024, 1, 11, 0, 0, 0, 0, time.Local), TotalClones: 654, TotalUniqueClones: 87},
		},
		domain.NewDailyStars([]time.Time{
			time.Date(2024, 1, 9, 8, 0, 0, 0, time.Local),
			time.Date(2024, 1, 9, 18, 0, 0, 0, time.Local),
			time.Date(2024, 1, 12, 8, 0, 0, 0, time.Local),
		}),
		today, numfmt.Compact{},
	)
	t.EmptyDataViewTitle = domain.NoTrafficYetTitle
	return t
}

func TestPrinter_Trends(t *testing.T) {
	t.Run("chart visible - summary and daily tables", func(t *testing.T) {
		var buf bytes.Buffer

		err := NewPrinter(&buf, false).Trends("any-owner/any-repo", sampleTrends(domain.AllSeriesVisible()))

		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "any-owner/any-repo")
		assert.Contains(t, out, "Views         1.5K")
		assert.Contains(t, out, "Unique Views  330")
		assert.Contains(t, out, "Stars         3")
		assert.Contains(t, out, "2024-01-10 .. 2024-01-11, axis 0-1500")
		assert.Contains(t, out, "2024-01-10")
		assert.Contains(t, out, "654")
		assert.Contains(t, out, "2024-01-12")
		assert.NotContains(t, out, domain.NoTrafficYetTitle)
	})

	t.Run("hidden series are left out", func(t *testing.T) {
		var buf bytes.Buffer

		err := NewPrinter(&buf, false).Trends("any-owner/any-repo", sampleTrends(domain.VisibilityOf(domain.SeriesViews)))

		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "1500")
		assert.NotContains(t, out, "Unique Views")
		assert.NotContains(t, out, "654")
		assert.NotContains(t, out, "321")
	})

	t.Run("empty data - placeholder title only", func(t *testing.T) {
		var buf bytes.Buffer
		trends := domain.NewTrends(time.Now(), numfmt.Compact{}, domain.AllSeriesVisible())
		trends.EmptyDataViewTitle = domain.UnableToRetrieveDataTitle

		err := NewPrinter(&buf, false).Trends("any-owner/any-repo", trends)

		require.NoError(t, err)
		assert.Contains(t, buf.String(), domain.UnableToRetrieveDataTitle)
		assert.NotContains(t, buf.String(), "Stars")
	})
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, JSON(&buf, "any-owner/any-repo", sampleTrends(domain.AllSeriesVisible())))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "any-owner/any-repo", decoded["repository"])
	assert.Equal(t, true, decoded["chart_visible"])
	assert.Equal(t, false, decoded["empty_data_view_visible"])
	assert.Equal(t, "1.5K", decoded["views_text"])
	assert.Equal(t, float64(1500), decoded["views_clones_max_value"])
	assert.Len(t, decoded["daily_views"], 2)
	assert.Len(t, decoded["daily_stars"], 3)
}

func TestIndicator_Update(t *testing.T) {
	var buf bytes.Buffer
	indicator := NewIndicator(&buf, false, "Fetching traffic")

	assert.False(t, indicator.Active())
	indicator.Update(true)
	assert.True(t, indicator.Active())
	indicator.Update(true)
	assert.True(t, indicator.Active())
	indicator.Stop()
	assert.False(t, indicator.Active())
	assert.Empty(t, buf.String())
}
