// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/naka-gawa/github-trends/internal/diagnostics"
	"github.com/naka-gawa/github-trends/internal/domain"
	"github.com/naka-gawa/github-trends/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// DefaultMinimumLoading is how long the fetching flag stays raised at minimum,
// so a fast response does not flash the loading indicator.
const DefaultMinimumLoading = time.Second

// Option configures a TrendsAggregator.
type Option func(*TrendsAggregator)

// WithMinimumLoading sets the minimum time the fetching flag stays raised on a network fetch.
func WithMinimumLoading(d time.Duration) Option {
	return func(a *TrendsAggregator) {
		a.minimumLoading = d
	}
}

// WithCancellationReports controls whether fetches that fail because their context was
// cancelled are forwarded to the diagnostics reporter. They are not by default.
func WithCancellationReports(enabled bool) Option {
	return func(a *TrendsAggregator) {
		a.reportCancellations = enabled
	}
}

// WithVisibility sets which series are visible initially.
func WithVisibility(v domain.SeriesVisibility) Option {
	return func(a *TrendsAggregator) {
		a.visibility = v
	}
}

// WithClock replaces time.Now, which anchors the date bounds of empty series.
func WithClock(now func() time.Time) Option {
	return func(a *TrendsAggregator) {
		a.now = now
	}
}

// TrendsAggregator is the use case for showing the traffic trends of one repository.
// It fetches views, clones and stargazers concurrently, turns them into chart-ready
// series and publishes every state change to its subscribers.
//
// A new Fetch cancels any fetch still in flight; the cancelled fetch publishes nothing more.
type TrendsAggregator struct {
	fetcher   gateway.StatisticsFetcher
	reporter  diagnostics.Reporter
	formatter domain.NumberFormatter
	logger    *log.Logger

	minimumLoading      time.Duration
	reportCancellations bool
	visibility          domain.SeriesVisibility
	now                 func() time.Time

	mu          sync.Mutex
	state       domain.Trends
	generation  uint64
	cancel      context.CancelFunc
	subscribers map[int]func(domain.Trends)
	nextID      int

	// publishMu keeps notifications in the order the changes were made.
	publishMu sync.Mutex
}

// NewTrendsAggregator creates a new TrendsAggregator instance with empty state.
func NewTrendsAggregator(fetcher gateway.StatisticsFetcher, reporter diagnostics.Reporter, formatter domain.NumberFormatter, logger *log.Logger, opts ...Option) *TrendsAggregator {
	a := &TrendsAggregator{
		fetcher:        fetcher,
		reporter:       reporter,
		formatter:      formatter,
		logger:         logger,
		minimumLoading: DefaultMinimumLoading,
		visibility:     domain.AllSeriesVisible(),
		now:            time.Now,
		subscribers:    make(map[int]func(domain.Trends)),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.state = domain.NewTrends(a.now(), formatter, a.visibility)
	return a
}

// Snapshot returns a copy of the current state.
func (a *TrendsAggregator) Snapshot() domain.Trends {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Clone()
}

// Subscribe registers fn to receive a copy of the state after every change.
// Calls are made one at a time, in the order the changes happened, so fn must not
// call ToggleSeries or Fetch itself. The returned function removes the subscription.
func (a *TrendsAggregator) Subscribe(fn func(domain.Trends)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.subscribers[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subscribers, id)
		a.mu.Unlock()
	}
}

// ToggleSeries flips the visibility of one series.
func (a *TrendsAggregator) ToggleSeries(s domain.Series) error {
	a.publishMu.Lock()
	defer a.publishMu.Unlock()

	a.mu.Lock()
	if err := a.state.Visibility.Toggle(s); err != nil {
		a.mu.Unlock()
		return err
	}
	snapshot, subscribers := a.snapshotLocked()
	a.mu.Unlock()

	notify(subscribers, snapshot)
	return nil
}

// Close cancels any fetch in flight and drops every subscriber.
func (a *TrendsAggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.generation++
	a.subscribers = make(map[int]func(domain.Trends))
}

// Fetch loads the trends of repo and blocks until they are settled, returning the final state.
// If repo already carries views and clones they are used directly and no requests are made.
// Failures are never returned: they empty every series, set the unable-to-retrieve title
// and go to the diagnostics reporter.
func (a *TrendsAggregator) Fetch(ctx context.Context, repo domain.Repository) domain.Trends {
	if repo.HasCachedTraffic() {
		a.logger.Printf("Usecase: Using cached traffic for %s.", repo.FullName())
		gen := a.begin(nil, false)
		a.apply(gen, func(t *domain.Trends) {
			t.ReplaceSeries(repo.DailyViews, repo.DailyClones, domain.NewDailyStars(repo.StarredAt), a.now(), a.formatter)
			t.EmptyDataViewTitle = domain.NoTrafficYetTitle
			t.Fetching = false
		})
		return a.Snapshot()
	}

	minimumLoading := time.NewTimer(a.minimumLoading)
	defer minimumLoading.Stop()

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	gen := a.begin(cancel, true)

	a.logger.Printf("Usecase: Fetching traffic for %s...", repo.FullName())
	starredAt, views, clones, err := a.fetchAll(fetchCtx, repo)

	title := domain.NoTrafficYetTitle
	if err != nil {
		if !a.isCurrent(gen) {
			a.logger.Printf("Usecase: Fetch for %s was superseded.", repo.FullName())
			return a.Snapshot()
		}
		starredAt, views, clones = nil, nil, nil
		title = domain.UnableToRetrieveDataTitle
		a.report(err)
	}

	applied := a.apply(gen, func(t *domain.Trends) {
		t.ReplaceSeries(views, clones, domain.NewDailyStars(starredAt), a.now(), a.formatter)
		t.EmptyDataViewTitle = title
	})
	if !applied {
		return a.Snapshot()
	}

	select {
	case <-minimumLoading.C:
	case <-fetchCtx.Done():
		if !a.isCurrent(gen) {
			return a.Snapshot()
		}
		<-minimumLoading.C
	}

	a.apply(gen, func(t *domain.Trends) {
		t.Fetching = false
	})
	a.logger.Printf("Usecase: Fetch for %s complete.", repo.FullName())
	return a.Snapshot()
}

// fetchAll requests stargazers, views and clones concurrently and waits for all three.
// A failing request does not cancel the others; the first error is returned.
func (a *TrendsAggregator) fetchAll(ctx context.Context, repo domain.Repository) ([]time.Time, []domain.DailyViews, []domain.DailyClones, error) {
	var (
		starredAt []time.Time
		views     []domain.DailyViews
		clones    []domain.DailyClones
		eg        errgroup.Group
	)

	eg.Go(func() error {
		var err error
		starredAt, err = a.fetcher.FetchStarGazers(ctx, repo.Owner, repo.Name)
		return err
	})

	eg.Go(func() error {
		var err error
		views, err = a.fetcher.FetchViewStatistics(ctx, repo.Owner, repo.Name)
		return err
	})

	eg.Go(func() error {
		var err error
		clones, err = a.fetcher.FetchCloneStatistics(ctx, repo.Owner, repo.Name)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return starredAt, views, clones, nil
}

// begin supersedes any fetch in flight and starts a new generation.
func (a *TrendsAggregator) begin(cancel context.CancelFunc, fetching bool) uint64 {
	a.publishMu.Lock()
	defer a.publishMu.Unlock()

	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.cancel = cancel
	a.generation++
	gen := a.generation
	if !fetching {
		a.mu.Unlock()
		return gen
	}
	a.state.Fetching = true
	snapshot, subscribers := a.snapshotLocked()
	a.mu.Unlock()

	notify(subscribers, snapshot)
	return gen
}

// apply runs change against the state and publishes the result, unless gen was superseded.
func (a *TrendsAggregator) apply(gen uint64, change func(*domain.Trends)) bool {
	a.publishMu.Lock()
	defer a.publishMu.Unlock()

	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		return false
	}
	change(&a.state)
	snapshot, subscribers := a.snapshotLocked()
	a.mu.Unlock()

	notify(subscribers, snapshot)
	return true
}

func (a *TrendsAggregator) isCurrent(gen uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return gen == a.generation
}

func (a *TrendsAggregator) report(err error) {
	if errors.Is(err, context.Canceled) && !a.reportCancellations {
		a.logger.Printf("Usecase: Fetch cancelled: %v", err)
		return
	}
	a.logger.Printf("Usecase: Fetch failed: %v", err)
	if a.reporter != nil {
		a.reporter.Report(err)
	}
}

func (a *TrendsAggregator) snapshotLocked() (domain.Trends, []func(domain.Trends)) {
	subscribers := make([]func(domain.Trends), 0, len(a.subscribers))
	for id := 0; id < a.nextID; id++ {
		if fn, ok := a.subscribers[id]; ok {
			subscribers = append(subscribers, fn)
		}
	}
	return a.state.Clone(), subscribers
}

func notify(subscribers []func(domain.Trends), snapshot domain.Trends) {
	for _, fn := range subscribers {
		fn(snapshot.Clone())
	}
}
