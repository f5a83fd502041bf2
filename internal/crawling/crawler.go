package crawling

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/skillra/hh-harvester/internal/dedup"
	"github.com/skillra/hh-harvester/internal/features"
	"github.com/skillra/hh-harvester/internal/fetch"
	"github.com/skillra/hh-harvester/internal/parsing"
	"github.com/skillra/hh-harvester/internal/store"
	"github.com/skillra/hh-harvester/internal/types"
)

// DefaultWorkers is the size of the page worker pool.
const DefaultWorkers = 4

// Fetcher retrieves a page body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// Options configures a crawl run.
type Options struct {
	// BaseURL overrides the site base, used by tests.
	BaseURL        string
	Query          string
	Areas          []int
	Buckets        []types.ExperienceBucket
	Limits         Limits
	Target         int
	Workers        int
	OnlyWithSalary bool
	// SkipEmployers disables employer page fetches.
	SkipEmployers bool
}

// RunStats summarizes a finished run.
type RunStats struct {
	RunID            string
	StartedAt        time.Time
	Duration         time.Duration
	Pages            int
	PagesFailed      int
	Shards           int
	ShardsRetired    int
	Postings         int
	PostingsFailed   int
	Accepted         int
	Discarded        int
	Rows             int
	EmployersFetched int
	TargetReached    bool
}

type counters struct {
	pages, pagesFailed       atomic.Int64
	postings, postingsFailed atomic.Int64
	accepted, discarded      atomic.Int64
	employersFetched         atomic.Int64
}

// Crawler runs one sharded crawl into a sink.
type Crawler struct {
	opts    Options
	fetcher Fetcher
	engine  *features.Engine
	sink    store.Sink
	urls    *URLBuilder
	logger  *slog.Logger
	now     func() time.Time

	employers     singleflight.Group
	employerMu    sync.Mutex
	employerCache map[string]*types.EmployerFields

	stats counters
}

// New creates a crawler. A nil engine means features.Default(); a nil logger
// means slog.Default().
func New(opts Options, fetcher Fetcher, engine *features.Engine, sink store.Sink, logger *slog.Logger) (*Crawler, error) {
	if len(opts.Areas) == 0 {
		return nil, &CrawlError{Message: "no search areas"}
	}
	if fetcher == nil || sink == nil {
		return nil, &CrawlError{Message: "fetcher and sink are required"}
	}
	if len(opts.Buckets) == 0 {
		opts.Buckets = types.ExperienceBuckets()
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	urls, err := NewURLBuilder(opts.BaseURL, opts.Query, opts.OnlyWithSalary)
	if err != nil {
		return nil, &CrawlError{Message: "invalid base URL", Cause: err}
	}
	if engine == nil {
		engine = features.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Crawler{
		opts:          opts,
		fetcher:       fetcher,
		engine:        engine,
		sink:          sink,
		urls:          urls,
		logger:        logger.With("component", "crawler"),
		now:           time.Now,
		employerCache: make(map[string]*types.EmployerFields),
	}, nil
}

// Run crawls until the target row count is reached, every shard is retired,
// the page budget is spent or ctx is cancelled. Stopping is checked between
// pages and between postings; a fetch already in flight is not interrupted by
// reaching the target. Salary buckets are assigned over the accepted batch and
// the sink is finalized even when ctx was cancelled.
func (c *Crawler) Run(ctx context.Context) (*RunStats, error) {
	started := c.now()
	runID := uuid.NewString()
	logger := c.logger.With("run_id", runID)

	known, err := c.sink.Known(ctx)
	if err != nil {
		return nil, &CrawlError{Message: "failed to load persisted vacancies", Cause: err}
	}
	dd := dedup.New(c.sink, known)
	sched := NewScheduler(c.opts.Areas, c.opts.Buckets, c.opts.Limits)
	logger.Info("crawl started",
		"areas", len(c.opts.Areas),
		"buckets", len(c.opts.Buckets),
		"workers", c.opts.Workers,
		"target", c.opts.Target,
		"known", len(known))

	var g errgroup.Group
	g.SetLimit(c.opts.Workers)
	for {
		shard, ok := sched.Next(ctx)
		if !ok {
			break
		}
		g.Go(func() error {
			c.crawlPage(ctx, logger, sched, dd, *shard, runID)
			return nil
		})
	}
	_ = g.Wait()

	recs := dd.Records()
	features.AssignSalaryBuckets(recs)
	if err := c.sink.Finalize(context.WithoutCancel(ctx), recs); err != nil {
		return nil, &CrawlError{Message: "failed to finalize output", Cause: err}
	}

	ss := sched.Stats()
	stats := &RunStats{
		RunID:            runID,
		StartedAt:        started,
		Duration:         c.now().Sub(started),
		Pages:            int(c.stats.pages.Load()),
		PagesFailed:      int(c.stats.pagesFailed.Load()),
		Shards:           ss.Shards,
		ShardsRetired:    ss.Retired,
		Postings:         int(c.stats.postings.Load()),
		PostingsFailed:   int(c.stats.postingsFailed.Load()),
		Accepted:         int(c.stats.accepted.Load()),
		Discarded:        int(c.stats.discarded.Load()),
		Rows:             len(recs),
		EmployersFetched: int(c.stats.employersFetched.Load()),
		TargetReached:    c.targetReached(),
	}
	logger.Info("crawl finished", "rows", stats.Rows, "pages", stats.Pages, "duration", stats.Duration)
	return stats, ctx.Err()
}

func (c *Crawler) targetReached() bool {
	return c.opts.Target > 0 && int(c.stats.accepted.Load()) >= c.opts.Target
}

func (c *Crawler) crawlPage(ctx context.Context, logger *slog.Logger, sched *Scheduler, dd *dedup.Deduplicator, shard types.SearchShard, runID string) {
	if ctx.Err() != nil || c.targetReached() {
		sched.Stop()
		return
	}
	pageURL := c.urls.Search(shard)
	res, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		c.stats.pagesFailed.Add(1)
		logger.Warn("search page failed", "shard", shard.String(), "error", err)
		c.complete(logger, sched, shard, Outcome{Err: err})
		return
	}
	c.stats.pages.Add(1)

	page := parsing.ParseListing(res.HTML)
	logger.Debug("search page parsed",
		"shard", shard.String(),
		"listings", len(page.IDs),
		"has_next", page.HasNextPage,
		"total_pages", page.TotalPages)
	c.complete(logger, sched, shard, Outcome{
		Listings:    len(page.IDs),
		HasNextPage: page.HasNextPage,
		TotalPages:  page.TotalPages,
	})

	for _, id := range page.IDs {
		if ctx.Err() != nil || c.targetReached() {
			sched.Stop()
			return
		}
		if !dd.Claim(id) {
			continue
		}
		c.crawlPosting(ctx, logger, dd, id, shard.AreaID, runID)
		if c.targetReached() {
			sched.Stop()
			return
		}
	}
}

func (c *Crawler) complete(logger *slog.Logger, sched *Scheduler, shard types.SearchShard, out Outcome) {
	if err := sched.Complete(shard, out); errors.Is(err, ErrShardExhausted) {
		logger.Debug("shard retired", "reason", err.Error())
	}
}

func (c *Crawler) crawlPosting(ctx context.Context, logger *slog.Logger, dd *dedup.Deduplicator, id int64, areaID int, runID string) {
	postingURL := c.urls.Vacancy(id)
	res, err := c.fetcher.Fetch(ctx, postingURL)
	if err != nil {
		c.stats.postingsFailed.Add(1)
		logger.Warn("posting failed", "vacancy_id", id, "error", err)
		return
	}
	c.stats.postings.Add(1)

	raw, fieldErrs := parsing.ParseVacancy(res.HTML, postingURL)
	for _, fe := range fieldErrs {
		logger.Debug("field not found", "vacancy_id", id, "field", fe.Field, "error", fe)
	}
	if raw.ID == 0 {
		raw.ID = id
	}
	raw.URL = parsing.SiteBase + "/vacancy/" + strconv.FormatInt(raw.ID, 10)
	raw.SearchAreaID = &areaID
	if raw.EmployerURL != nil && !c.opts.SkipEmployers {
		raw.Employer = c.employer(ctx, logger, *raw.EmployerURL)
	}

	rec := c.engine.Derive(raw, c.now())
	rec.ScrapeRunID = runID
	accepted, err := dd.Accept(ctx, rec)
	switch {
	case err != nil:
		c.stats.postingsFailed.Add(1)
		logger.Error("failed to persist vacancy", "vacancy_id", rec.VacancyID, "error", err)
	case accepted:
		c.stats.accepted.Add(1)
	default:
		c.stats.discarded.Add(1)
	}
}

// employer returns the parsed employer page for href, fetching each page at
// most once per run. Concurrent callers for the same page share one fetch.
// A transient failure is not cached so a later posting can try again.
func (c *Crawler) employer(ctx context.Context, logger *slog.Logger, href string) *types.EmployerFields {
	pageURL, err := c.urls.Employer(href)
	if err != nil {
		logger.Debug("employer link skipped", "href", href, "error", err)
		return nil
	}

	if fields, ok := c.cachedEmployer(pageURL); ok {
		return fields
	}

	v, _, _ := c.employers.Do(pageURL, func() (any, error) {
		if fields, ok := c.cachedEmployer(pageURL); ok {
			return fields, nil
		}
		res, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			logger.Warn("employer page failed", "url", pageURL, "error", err)
			if !fetch.IsTransient(err) && ctx.Err() == nil {
				c.cacheEmployer(pageURL, nil)
			}
			return (*types.EmployerFields)(nil), nil
		}
		c.stats.employersFetched.Add(1)
		fields := parsing.ParseEmployer(res.HTML)
		c.cacheEmployer(pageURL, fields)
		return fields, nil
	})
	return v.(*types.EmployerFields)
}

func (c *Crawler) cachedEmployer(pageURL string) (*types.EmployerFields, bool) {
	c.employerMu.Lock()
	defer c.employerMu.Unlock()
	fields, ok := c.employerCache[pageURL]
	return fields, ok
}

func (c *Crawler) cacheEmployer(pageURL string, fields *types.EmployerFields) {
	c.employerMu.Lock()
	defer c.employerMu.Unlock()
	c.employerCache[pageURL] = fields
}
