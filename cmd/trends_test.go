package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/naka-gawa/github-trends/internal/config"
	"github.com/naka-gawa/github-trends/internal/domain"
	"github.com/naka-gawa/github-trends/internal/numfmt"
	"github.com/naka-gawa/github-trends/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cachedRepository() domain.Repository {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)
	return domain.Repository{
		Owner:       "any-owner",
		Name:        "any-repo",
		DailyViews:  []domain.DailyViews{{Day: day, TotalViews: 12, TotalUniqueViews: 3}},
		DailyClones: []domain.DailyClones{{Day: day, TotalClones: 4, TotalUniqueClones: 1}},
	}
}

func TestParseVisibility(t *testing.T) {
	testCases := []struct {
		name        string
		input       []string
		expected    domain.SeriesVisibility
		expectError bool
	}{
		{name: "no names hide every series", input: nil, expected: domain.SeriesVisibility{}},
		{name: "named series only", input: []string{"views", "unique-clones"}, expected: domain.SeriesVisibility{Views: true, UniqueClones: true}},
		{name: "unknown series", input: []string{"views", "forks"}, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := parseVisibility(tc.input)
			if tc.expectError {
				assert.ErrorIs(t, err, domain.ErrUnknownSeries)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestWriteTrends(t *testing.T) {
	repo := cachedRepository()
	aggregator := usecase.NewTrendsAggregator(nil, nil, numfmt.Compact{}, log.New(io.Discard, "", 0))
	trends := aggregator.Fetch(context.Background(), repo)

	var table, jsonOut bytes.Buffer
	require.NoError(t, writeTrends(&table, config.FormatTable, false, repo.FullName(), trends))
	require.NoError(t, writeTrends(&jsonOut, config.FormatJSON, false, repo.FullName(), trends))

	assert.Contains(t, table.String(), "Views         12")
	assert.Contains(t, jsonOut.String(), `"repository": "any-owner/any-repo"`)
}

func TestWatchTrends(t *testing.T) {
	aggregator := usecase.NewTrendsAggregator(nil, nil, numfmt.Compact{}, log.New(io.Discard, "", 0))

	t.Run("emits until the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		emitted := 0

		err := watchTrends(ctx, aggregator, cachedRepository(), time.Millisecond, func(trends domain.Trends) error {
			emitted++
			assert.Equal(t, 12, trends.TotalViews)
			if emitted == 2 {
				cancel()
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, emitted)
	})

	t.Run("emit error stops the loop", func(t *testing.T) {
		expectedErr := errors.New("write failed")

		err := watchTrends(context.Background(), aggregator, cachedRepository(), time.Millisecond, func(domain.Trends) error {
			return expectedErr
		})

		assert.ErrorIs(t, err, expectedErr)
	})
}
