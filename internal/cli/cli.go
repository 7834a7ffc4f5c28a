package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/sportcast/internal/analyzer"
	"github.com/pfrederiksen/sportcast/internal/cache"
	"github.com/pfrederiksen/sportcast/internal/config"
	"github.com/pfrederiksen/sportcast/internal/logger"
	"github.com/pfrederiksen/sportcast/internal/notifier"
	"github.com/pfrederiksen/sportcast/internal/odds"
	"github.com/pfrederiksen/sportcast/internal/pipeline"
	"github.com/pfrederiksen/sportcast/internal/scraper"
)

var (
	flagConfig    string
	flagCacheDir  string
	flagDryRun    bool
	flagVerbose   bool
	flagNoBrowser bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sportcast",
		Short: "Scrape sport predictions and email the qualifying subset",
		Long: `sportcast scrapes upcoming sporting-event predictions, enriches them
with head-to-head, form, venue and odds data, applies the qualification
criteria, and emails whatever qualifies.`,
		RunE:          runPipeline,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file (optional)")
	cmd.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "Override the cache directory")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the report instead of emailing it")
	cmd.Flags().BoolVar(&flagNoBrowser, "no-browser", false, "Fetch listings over plain HTTP instead of headless Chrome")

	cmd.AddCommand(newCacheCmd())

	return cmd
}

// Execute runs the CLI, returning a process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func setup() (*config.Config, *cache.Store, *logger.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if flagCacheDir != "" {
		cfg.CacheDir = flagCacheDir
	}

	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	log := logger.New(level, os.Stderr)

	store, err := cache.New(cfg.CacheDir, cfg.CacheTTL.Std(), log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing cache: %w", err)
	}

	return cfg, store, log, nil
}

// runPipeline is the root command logic: construct every component once,
// wire them together, and run a single pass.
func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, store, log, err := setup()
	if err != nil {
		return err
	}

	// Delivery credentials are checked before any scraping starts, unless
	// the run is a dry run that never sends anything.
	var notify notifier.Notifier
	if flagDryRun {
		notify = notifier.NewDryRunNotifier(os.Stdout)
	} else {
		if err := cfg.ValidateSecrets(); err != nil {
			return err
		}
		notify, err = notifier.NewEmailNotifier(cfg, log)
		if err != nil {
			return err
		}
	}

	var source scraper.Source
	if flagNoBrowser {
		source = scraper.NewHTTPSource(cfg.UserAgent, cfg.Timeout.Std())
	} else {
		browser := scraper.NewBrowserSource(cfg.Browser, cfg.UserAgent, log)
		defer browser.Close()
		source = browser
	}

	sc := scraper.New(source, store, cfg, log)
	h2h := analyzer.NewH2HAnalyzer(source, store, cfg.H2HWindow, cfg.H2HMinWinRate, log)
	aggregator := odds.NewAggregator(log,
		odds.NewFlashscoreFetcher(store, cfg.UserAgent, cfg.Timeout.Std(), log),
	)

	runner := pipeline.New(cfg, store, sc, sc, h2h, aggregator, notify, log)

	start := time.Now()
	summary, err := runner.Run(context.Background())
	if err != nil {
		return err
	}

	log.Info("run complete", logger.Fields{
		"sports_processed": summary.SportsProcessed,
		"sports_failed":    summary.SportsFailed,
		"events_found":     summary.EventsFound,
		"events_analyzed":  summary.EventsAnalyzed,
		"events_qualified": summary.EventsQualified,
		"duration":         time.Since(start).String(),
	})
	return nil
}
