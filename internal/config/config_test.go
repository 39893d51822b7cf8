package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/naka-gawa/github-trends/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "", cfg.GitHub.Token)
	assert.Equal(t, time.Hour, cfg.GitHub.RateLimitSleep)
	assert.Equal(t, time.Second, cfg.Trends.MinimumLoading)
	assert.False(t, cfg.Trends.ReportCancellations)
	assert.Equal(t, domain.AllSeriesVisible(), cfg.Chart.Visibility())
	assert.Equal(t, FormatTable, cfg.Output.Format)
	assert.True(t, cfg.Output.Colors)
	assert.ErrorIs(t, cfg.RequireToken(), ErrMissingToken)
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("GITHUB_TOKEN", "secret-token")
	t.Setenv("GITHUB_TRENDS_OUTPUT_FORMAT", "json")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.GitHub.Token)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.NoError(t, cfg.RequireToken())
}

func TestLoad_File(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "happy path - file values override defaults",
			content: `
github:
  api_url: https://ghe.example.com/api/v3/
trends:
  minimum_loading: 250ms
  report_cancellations: true
chart:
  show_unique_views: false
  show_unique_clones: false
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://ghe.example.com/api/v3/", cfg.GitHub.APIURL)
				assert.Equal(t, 250*time.Millisecond, cfg.Trends.MinimumLoading)
				assert.True(t, cfg.Trends.ReportCancellations)
				assert.Equal(t, domain.VisibilityOf(domain.SeriesViews, domain.SeriesClones), cfg.Chart.Visibility())
			},
		},
		{
			name:        "error case - unknown output format",
			content:     "output:\n  format: xml\n",
			expectError: true,
		},
		{
			name:        "error case - negative minimum loading",
			content:     "trends:\n  minimum_loading: -1s\n",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			cfg, err := Load(writeConfig(t, tc.content))
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}
