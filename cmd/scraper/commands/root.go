package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	crawler "github.com/user/tcas-fee-crawler/internal/adapter/chromedp_crawler"
	"github.com/user/tcas-fee-crawler/internal/adapter/postgres"
	"github.com/user/tcas-fee-crawler/internal/adapter/tabular"
	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/repository"
	"github.com/user/tcas-fee-crawler/internal/usecase"
	"github.com/user/tcas-fee-crawler/pkg/config"
	"github.com/user/tcas-fee-crawler/pkg/logger"
	"github.com/user/tcas-fee-crawler/pkg/metrics"
)

var rootCmd = &cobra.Command{
	Use:   "scraper",
	Short: "Collects tuition fees for the configured programs from mytcas.com.",
	Long: "Searches each keyword on mytcas.com, extracts every program page found and " +
		"writes the record table plus the no-fee companion table. Use --url to re-run " +
		"only the pages that failed in a previous run; the re-run writes to its own " +
		"--output and --no-fee-output, and the dashboard combines it with the full run " +
		"by listing both tables in DATA_FILES (later files win on source URL).",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScrape,
}

var retryURLs []string

func init() {
	f := rootCmd.PersistentFlags()
	f.String("log-level", "info", "Log level (debug, info, warn, error).")

	f = rootCmd.Flags()
	f.StringSlice("keyword", config.DefaultKeywords, "Program keyword to search for. Repeat for several.")
	f.StringSliceVar(&retryURLs, "url", nil, "Detail page to extract without searching. Repeatable; needs exactly one --keyword and non-default output paths.")
	f.String("output", "tcas_data.xlsx", "Record table path (.xlsx or .csv).")
	f.String("no-fee-output", "tcas_no_fee.xlsx", "No-fee companion table path (.xlsx or .csv). Empty to skip.")
	f.Bool("headless", true, "Run the browser without a window.")
	f.String("base-url", "https://mytcas.com", "Site to search.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runScrape(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	log := logger.Init(os.Stdout, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := validateRetry(cmd.Flags(), cfg, retryURLs); err != nil {
		return err
	}

	ctx := cmd.Context()
	metrics.Init()

	writers := []repository.TableWriter{tabular.NewFileWriter(cfg.OutputPath, cfg.NoFeeOutputPath, log)}
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()
		mirror := postgres.NewProgramRecordRepo(pool)
		if err := mirror.EnsureSchema(ctx); err != nil {
			return err
		}
		writers = append(writers, mirror)
		log.Info("postgres mirror enabled")
	}

	opts := crawler.Options{
		Headless:          cfg.Headless,
		UserAgent:         cfg.UserAgent,
		SearchTimeout:     cfg.SearchTimeout,
		ResultsTimeout:    cfg.ResultsTimeout,
		PageTimeout:       cfg.PageTimeout,
		TypeDelay:         cfg.TypeDelay,
		DropdownDelay:     cfg.DropdownDelay,
		SettleDelay:       cfg.SettleDelay,
		NoResultsSelector: cfg.NoResultsSelector,
	}

	var result *usecase.ScrapeResult
	err = crawler.WithSession(ctx, opts, log, func(s *crawler.Session) error {
		scraper := usecase.NewScraper(
			crawler.NewSearcher(s, cfg.BaseURL),
			crawler.NewPageSource(s),
			writers,
			log,
		)
		var runErr error
		if len(retryURLs) > 0 {
			result, runErr = scraper.RunURLs(ctx, cfg.Keywords[0], retryURLs)
		} else {
			result, runErr = scraper.Run(ctx, cfg.Keywords)
		}
		return runErr
	})

	if result != nil && len(result.Summary.Failures) > 0 {
		printFailures(cmd, result.Summary.Failures)
	}
	if cfg.PushgatewayURL != "" {
		if perr := metrics.Push(cfg.PushgatewayURL, "tcas_scraper"); perr != nil {
			log.Warn("failed to push metrics", zap.String("gateway", cfg.PushgatewayURL), zap.Error(perr))
		}
	}
	return err
}

// validateRetry keeps a --url re-run from replacing the full run's tables
// with the handful of retried pages.
func validateRetry(flags *pflag.FlagSet, cfg *config.Config, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	if len(cfg.Keywords) != 1 {
		return errors.New("--url needs exactly one --keyword to attribute the pages to")
	}
	targets := []struct{ flag, path string }{
		{"output", cfg.OutputPath},
		{"no-fee-output", cfg.NoFeeOutputPath},
	}
	for _, t := range targets {
		if t.path != "" && t.path == flags.Lookup(t.flag).DefValue {
			return fmt.Errorf("--url would overwrite the full-run table %s; pass --%s and add the new file to DATA_FILES", t.path, t.flag)
		}
	}
	return nil
}

// printFailures lists the units to re-run with --keyword and --url.
func printFailures(cmd *cobra.Command, failures []entity.ScrapeFailure) {
	t := newTable(cmd)
	t.SetTitle("Failed units")
	t.AppendHeader(table.Row{"Stage", "Keyword", "URL", "Error", "Reason"})
	for _, f := range failures {
		t.AppendRow(table.Row{f.Stage, f.Keyword, f.URL, f.ErrorType, f.Reason})
	}
	t.Render()
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(cmd.OutOrStdout())
	return t
}
