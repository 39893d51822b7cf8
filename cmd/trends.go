// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/naka-gawa/github-trends/internal/config"
	"github.com/naka-gawa/github-trends/internal/diagnostics"
	"github.com/naka-gawa/github-trends/internal/domain"
	"github.com/naka-gawa/github-trends/internal/gateway"
	"github.com/naka-gawa/github-trends/internal/numfmt"
	"github.com/naka-gawa/github-trends/internal/render"
	"github.com/naka-gawa/github-trends/internal/usecase"
	"github.com/spf13/cobra"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Shows the traffic trends of a GitHub repository",
	Long: `Fetches daily views, clones and stargazers of a repository concurrently and prints
totals, daily tables and the running star count, either as text tables or as JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		cfgFile, _ := cmd.InheritedFlags().GetString("config")
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		// Get other flags. Flags given explicitly win over the configuration.
		owner, _ := cmd.Flags().GetString("owner")
		name, _ := cmd.Flags().GetString("repo")
		watch, _ := cmd.Flags().GetDuration("watch")
		if cmd.Flags().Changed("output") {
			cfg.Output.Format, _ = cmd.Flags().GetString("output")
			if cfg.Output.Format != config.FormatTable && cfg.Output.Format != config.FormatJSON {
				fmt.Fprintf(os.Stderr, "Invalid --output %q. Please use %s or %s.\n", cfg.Output.Format, config.FormatTable, config.FormatJSON)
				os.Exit(1)
			}
		}
		visibility := cfg.Chart.Visibility()
		if cmd.Flags().Changed("series") {
			names, _ := cmd.Flags().GetStringSlice("series")
			visibility, err = parseVisibility(names)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid --series. Error: %v\n", err)
				os.Exit(1)
			}
		}
		if err := cfg.RequireToken(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v.\n", err)
			os.Exit(1)
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
			Token:          cfg.GitHub.Token,
			APIURL:         cfg.GitHub.APIURL,
			GraphQLURL:     cfg.GitHub.GraphQLURL,
			RateLimitSleep: cfg.GitHub.RateLimitSleep,
		}, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		reporter := diagnostics.NewLogReporter(logger)
		aggregator := usecase.NewTrendsAggregator(githubGateway, reporter, numfmt.Compact{}, logger,
			usecase.WithMinimumLoading(cfg.Trends.MinimumLoading),
			usecase.WithCancellationReports(cfg.Trends.ReportCancellations),
			usecase.WithVisibility(visibility),
		)
		defer aggregator.Close()

		repo := domain.Repository{Owner: owner, Name: name}
		useColors := cfg.Output.Colors && !color.NoColor
		indicator := render.NewIndicator(cmd.ErrOrStderr(), useColors, fmt.Sprintf("Fetching traffic for %s...", repo.FullName()))
		defer indicator.Stop()
		aggregator.Subscribe(func(t domain.Trends) {
			indicator.Update(t.Fetching)
		})

		emit := func(t domain.Trends) error {
			indicator.Stop()
			return writeTrends(cmd.OutOrStdout(), cfg.Output.Format, useColors, repo.FullName(), t)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if watch > 0 {
			if err := watchTrends(ctx, aggregator, repo, watch, emit); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to print trends: %v\n", err)
				os.Exit(1)
			}
			return
		}

		trends := aggregator.Fetch(ctx, repo)
		if err := emit(trends); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to print trends: %v\n", err)
			os.Exit(1)
		}
		if trends.EmptyDataViewTitle == domain.UnableToRetrieveDataTitle {
			if last := reporter.Last(); last != nil {
				fmt.Fprintf(os.Stderr, "Failed to fetch trends: %v\n", last)
			}
			os.Exit(1)
		}
	},
}

// parseVisibility shows exactly the named series.
func parseVisibility(names []string) (domain.SeriesVisibility, error) {
	series := make([]domain.Series, 0, len(names))
	for _, name := range names {
		s, err := domain.ParseSeries(name)
		if err != nil {
			return domain.SeriesVisibility{}, err
		}
		series = append(series, s)
	}
	return domain.VisibilityOf(series...), nil
}

// writeTrends prints t in the configured output format.
func writeTrends(w io.Writer, format string, useColors bool, repository string, t domain.Trends) error {
	if format == config.FormatJSON {
		return render.JSON(w, repository, t)
	}
	return render.NewPrinter(w, useColors).Trends(repository, t)
}

// watchTrends fetches and emits the trends of repo every interval until ctx is done.
func watchTrends(ctx context.Context, aggregator *usecase.TrendsAggregator, repo domain.Repository, interval time.Duration, emit func(domain.Trends) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		trends := aggregator.Fetch(ctx, repo)
		if ctx.Err() != nil {
			return nil
		}
		if err := emit(trends); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func init() {
	rootCmd.AddCommand(trendsCmd)
	trendsCmd.PersistentFlags().StringP("owner", "o", "", "Owner of the target repository (required)")
	trendsCmd.PersistentFlags().StringP("repo", "r", "", "Name of the target repository (required)")
	trendsCmd.MarkPersistentFlagRequired("owner")
	trendsCmd.MarkPersistentFlagRequired("repo")
	trendsCmd.Flags().String("output", config.FormatTable, "Output format (table or json)")
	trendsCmd.Flags().StringSlice("series", nil, "Series to show: views, unique-views, clones, unique-clones (default from config)")
	trendsCmd.Flags().Duration("watch", 0, "Re-fetch on this interval until interrupted, e.g. 5m")
}
