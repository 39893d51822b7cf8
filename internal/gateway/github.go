// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-trends/internal/domain"
)

// StatisticsFetcher defines the behavior of a gateway for fetching repository traffic from GitHub.
type StatisticsFetcher interface {
	FetchViewStatistics(ctx context.Context, owner, name string) ([]domain.DailyViews, error)
	FetchCloneStatistics(ctx context.Context, owner, name string) ([]domain.DailyClones, error)
	// FetchStarGazers returns the time each current stargazer starred the repository.
	FetchStarGazers(ctx context.Context, owner, name string) ([]time.Time, error)
}

// Options configures the HTTP clients behind GitHubGateway.
type Options struct {
	Token string
	// APIURL and GraphQLURL point the clients at a GitHub Enterprise server.
	// Both are empty for github.com.
	APIURL         string
	GraphQLURL     string
	RateLimitSleep time.Duration
}

// GitHubGateway is the concrete implementation of the StatisticsFetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// stargazersQuery pages through the starredAt timestamps of a repository.
type stargazersQuery struct {
	Repository struct {
		Stargazers struct {
			TotalCount int
			PageInfo   struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Edges []struct {
				StarredAt githubv4.DateTime
			}
		} `graphql:"stargazers(first: 100, after: $cursor)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger *log.Logger) (*GitHubGateway, error) {
	sleepLimit := opts.RateLimitSleep
	if sleepLimit <= 0 {
		sleepLimit = time.Hour
	}
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(sleepLimit, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	if opts.APIURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(opts.APIURL, opts.APIURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise API URL: %w", err)
		}
	}
	graphqlClient := githubv4.NewClient(httpClient)
	if opts.GraphQLURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

func (g *GitHubGateway) FetchViewStatistics(ctx context.Context, owner, name string) ([]domain.DailyViews, error) {
	g.logger.Printf("[1/3] Fetching view statistics for %s/%s using REST API...", owner, name)
	views, _, err := g.restClient.Repositories.ListTrafficViews(ctx, owner, name, &github.TrafficBreakdownOptions{Per: "day"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch view statistics with REST API: %w", err)
	}
	dailyViews := make([]domain.DailyViews, 0, len(views.Views))
	for _, v := range views.Views {
		dailyViews = append(dailyViews, domain.DailyViews{
			Day:              domain.LocalDay(v.GetTimestamp().Time),
			TotalViews:       v.GetCount(),
			TotalUniqueViews: v.GetUniques(),
		})
	}
	g.logger.Printf("Completed fetching view statistics (%d days).", len(dailyViews))
	return dailyViews, nil
}

func (g *GitHubGateway) FetchCloneStatistics(ctx context.Context, owner, name string) ([]domain.DailyClones, error) {
	g.logger.Printf("[2/3] Fetching clone statistics for %s/%s using REST API...", owner, name)
	clones, _, err := g.restClient.Repositories.ListTrafficClones(ctx, owner, name, &github.TrafficBreakdownOptions{Per: "day"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clone statistics with REST API: %w", err)
	}
	dailyClones := make([]domain.DailyClones, 0, len(clones.Clones))
	for _, c := range clones.Clones {
		dailyClones = append(dailyClones, domain.DailyClones{
			Day:               domain.LocalDay(c.GetTimestamp().Time),
			TotalClones:       c.GetCount(),
			TotalUniqueClones: c.GetUniques(),
		})
	}
	g.logger.Printf("Completed fetching clone statistics (%d days).", len(dailyClones))
	return dailyClones, nil
}

func (g *GitHubGateway) FetchStarGazers(ctx context.Context, owner, name string) ([]time.Time, error) {
	g.logger.Printf("[3/3] Fetching stargazers for %s/%s using GraphQL API...", owner, name)
	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"cursor": (*githubv4.String)(nil),
	}

	var starredAt []time.Time
	for {
		var q stargazersQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to execute GraphQL query for stargazers: %w", err)
		}
		if starredAt == nil {
			starredAt = make([]time.Time, 0, q.Repository.Stargazers.TotalCount)
		}
		for _, edge := range q.Repository.Stargazers.Edges {
			starredAt = append(starredAt, edge.StarredAt.Time)
		}
		if !q.Repository.Stargazers.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Repository.Stargazers.PageInfo.EndCursor)
		g.logger.Println("  Fetching next page of stargazers...")
	}
	g.logger.Printf("Completed fetching stargazers (%d stars).", len(starredAt))
	return starredAt, nil
}
