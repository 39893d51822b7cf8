// Package config provides Viper-based configuration management for github-trends.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/naka-gawa/github-trends/internal/domain"
)

// ErrMissingToken is returned by RequireToken when no GitHub token is configured.
var ErrMissingToken = errors.New("GITHUB_TOKEN environment variable is not set")

// Output formats accepted by output.format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Config represents the complete github-trends configuration.
type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	Trends TrendsConfig `mapstructure:"trends"`
	Chart  ChartConfig  `mapstructure:"chart"`
	Output OutputConfig `mapstructure:"output"`
}

// GitHubConfig contains API access settings.
type GitHubConfig struct {
	Token          string        `mapstructure:"token"`
	APIURL         string        `mapstructure:"api_url"`
	GraphQLURL     string        `mapstructure:"graphql_url"`
	RateLimitSleep time.Duration `mapstructure:"rate_limit_sleep"`
}

// TrendsConfig contains aggregator settings.
type TrendsConfig struct {
	MinimumLoading      time.Duration `mapstructure:"minimum_loading"`
	ReportCancellations bool          `mapstructure:"report_cancellations"`
}

// ChartConfig holds which series are shown by default.
type ChartConfig struct {
	ShowViews        bool `mapstructure:"show_views"`
	ShowUniqueViews  bool `mapstructure:"show_unique_views"`
	ShowClones       bool `mapstructure:"show_clones"`
	ShowUniqueClones bool `mapstructure:"show_unique_clones"`
}

// Visibility converts the chart defaults into a series visibility.
func (c ChartConfig) Visibility() domain.SeriesVisibility {
	return domain.SeriesVisibility{
		Views:        c.ShowViews,
		UniqueViews:  c.ShowUniqueViews,
		Clones:       c.ShowClones,
		UniqueClones: c.ShowUniqueClones,
	}
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Colors bool   `mapstructure:"colors"`
}

// Load reads configuration from file and environment variables.
// An empty cfgFile searches for .github-trends.yaml in the working directory and
// $HOME/.config/github-trends; a missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".github-trends")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/github-trends")
	}

	v.SetEnvPrefix("GITHUB_TRENDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("github.token", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("binding GITHUB_TOKEN: %w", err)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// RequireToken returns ErrMissingToken when the GitHub token is empty.
func (c *Config) RequireToken() error {
	if c.GitHub.Token == "" {
		return ErrMissingToken
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.api_url", "")
	v.SetDefault("github.graphql_url", "")
	v.SetDefault("github.rate_limit_sleep", time.Hour)

	v.SetDefault("trends.minimum_loading", time.Second)
	v.SetDefault("trends.report_cancellations", false)

	v.SetDefault("chart.show_views", true)
	v.SetDefault("chart.show_unique_views", true)
	v.SetDefault("chart.show_clones", true)
	v.SetDefault("chart.show_unique_clones", true)

	v.SetDefault("output.format", FormatTable)
	v.SetDefault("output.colors", true)
}

func validate(cfg *Config) error {
	switch cfg.Output.Format {
	case FormatTable, FormatJSON:
	default:
		return fmt.Errorf("invalid output.format %q: must be %s or %s", cfg.Output.Format, FormatTable, FormatJSON)
	}
	if cfg.Trends.MinimumLoading < 0 {
		return fmt.Errorf("trends.minimum_loading must not be negative, got %s", cfg.Trends.MinimumLoading)
	}
	if cfg.GitHub.RateLimitSleep < 0 {
		return fmt.Errorf("github.rate_limit_sleep must not be negative, got %s", cfg.GitHub.RateLimitSleep)
	}
	return nil
}
