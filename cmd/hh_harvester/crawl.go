package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/skillra/hh-harvester/internal/config"
	"github.com/skillra/hh-harvester/internal/crawling"
	"github.com/skillra/hh-harvester/internal/fetch"
	"github.com/skillra/hh-harvester/internal/observability"
	"github.com/skillra/hh-harvester/internal/store"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl vacancy listings and write derived rows",
	Long: "Crawl search listings sharded by area and experience bucket, fetch every new posting " +
		"and its employer page, and write one row per vacancy to the output target. " +
		"The output is a CSV path, a .db/.sqlite file or a postgres:// URL.",
	Args: cobra.NoArgs,
	RunE: runCrawl,
}

var (
	crawlQuery          string
	crawlLimit          int
	crawlDelay          float64
	crawlOutput         string
	crawlMaxPages       int
	crawlMaxTotalPages  int
	crawlProxies        string
	crawlAreas          []int
	crawlWorkers        int
	crawlConfigFile     string
	crawlOnlyWithSalary bool
	crawlVerbose        bool
	crawlBaseURL        string
)

func init() {
	defaults := config.Default()
	f := crawlCmd.Flags()
	f.StringVar(&crawlQuery, "query", defaults.Query, "Search query")
	f.IntVar(&crawlLimit, "limit", defaults.Target, "Target number of rows (0 = no limit)")
	f.Float64Var(&crawlDelay, "delay", defaults.Delay, "Minimum seconds between requests")
	f.StringVarP(&crawlOutput, "output", "o", "", "Output CSV path, SQLite file or PostgreSQL URL (default data/hh_vacancies_<timestamp>.csv)")
	f.IntVar(&crawlMaxPages, "max-pages", 0, "Maximum pages per shard (0 = unlimited)")
	f.IntVar(&crawlMaxTotalPages, "max-total-pages", 0, "Maximum search pages per run (0 = unlimited)")
	f.StringVar(&crawlProxies, "proxies", "", "File with one proxy URI per line")
	f.IntSliceVar(&crawlAreas, "areas", defaults.Areas, "Search area ids")
	f.IntVar(&crawlWorkers, "workers", defaults.Workers, "Concurrent workers")
	f.StringVarP(&crawlConfigFile, "config", "c", "", "YAML configuration file")
	f.BoolVar(&crawlOnlyWithSalary, "only-with-salary", false, "Only search postings that state a salary")
	f.BoolVarP(&crawlVerbose, "verbose", "v", false, "Enable debug logging")
	f.StringVar(&crawlBaseURL, "base-url", "", "Site base URL (default https://hh.ru)")
	_ = f.MarkHidden("base-url")

	rootCmd.AddCommand(crawlCmd)
}

// applyCrawlFlags copies explicitly set flags over the loaded configuration.
func applyCrawlFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("query") {
		cfg.Query = crawlQuery
	}
	if flags.Changed("limit") {
		cfg.Target = crawlLimit
	}
	if flags.Changed("delay") {
		cfg.Delay = crawlDelay
	}
	if flags.Changed("output") {
		cfg.Output = crawlOutput
	}
	if flags.Changed("max-pages") {
		cfg.MaxPages = crawlMaxPages
	}
	if flags.Changed("max-total-pages") {
		cfg.MaxTotalPages = crawlMaxTotalPages
	}
	if flags.Changed("proxies") {
		cfg.ProxyFile = crawlProxies
	}
	if flags.Changed("areas") {
		cfg.Areas = append([]int(nil), crawlAreas...)
	}
	if flags.Changed("workers") {
		cfg.Workers = crawlWorkers
	}
	if flags.Changed("only-with-salary") {
		cfg.OnlyWithSalary = crawlOnlyWithSalary
	}
	if flags.Changed("verbose") {
		cfg.Verbose = crawlVerbose
	}
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(crawlConfigFile)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.Getenv)
	applyCrawlFlags(cmd.Flags(), cfg)
	if err := cfg.Resolve(); err != nil {
		return err
	}

	logger := observability.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := cfg.Engine()
	output := store.Describe(cfg.Output)
	sink, err := store.Open(ctx, cfg.Output, engine.Columns())
	if err != nil {
		return &config.ConfigError{Field: "output", Message: fmt.Sprintf("cannot open %s", output), Cause: err}
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Error("failed to close output", "output", output, "error", err)
		}
	}()

	transport := fetch.NewTransport(cfg.FetchOptions(), cfg.Rotation(), logger.With("component", "fetch"))
	opts := cfg.CrawlOptions()
	opts.BaseURL = crawlBaseURL
	crawler, err := crawling.New(opts, transport, engine, sink, logger.With("component", "crawler"))
	if err != nil {
		return err
	}

	stats, err := crawler.Run(ctx)
	if stats == nil || (err != nil && !errors.Is(err, context.Canceled)) {
		return err
	}
	if err != nil {
		logger.Warn("crawl interrupted, partial results saved")
	}

	out := cmd.OutOrStdout()
	observability.NewPrinter(out).PrintRunSummary(stats, output)
	_, _ = fmt.Fprintf(out, "Accepted rows: %d\n", stats.Rows)
	_, _ = fmt.Fprintf(out, "Output: %s\n", output)
	return nil
}
