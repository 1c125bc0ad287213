// Command housingmarket runs the monthly housing-market clearing core
// standalone, against a synthetic starting population, for a configured
// number of years.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vtuos/housingmarket/internal/config"
	"github.com/vtuos/housingmarket/internal/currency"
	"github.com/vtuos/housingmarket/internal/database"
	"github.com/vtuos/housingmarket/internal/models"
	"github.com/vtuos/housingmarket/internal/repository"
	"github.com/vtuos/housingmarket/internal/rng"
	"github.com/vtuos/housingmarket/internal/scheduler"
	"github.com/vtuos/housingmarket/internal/seed"
	"github.com/vtuos/housingmarket/internal/simcontext"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		debugMode   = flag.Bool("debug", false, "Enable debug logging")
		years       = flag.Int("years", 5, "Number of simulated years to run")
		startYear   = flag.Int("start-year", 1990, "First simulated year")
		seedOverride = flag.Uint("seed", 0, "Override the configured random seed (0 keeps the configured value)")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("housingmarket version %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
		time.AfterFunc(10*time.Second, func() {
			slog.Error("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	if err := run(ctx, *configPath, *debugMode, *years, *startYear, uint32(*seedOverride)); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, debugMode bool, years, startYear int, seedOverride uint32) error {
	cfg, cfgPath, err := config.Load(configPath, true)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if seedOverride != 0 {
		cfg.Market.RandomSeed = seedOverride
	}

	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.Logging.Level {
		case "debug":
			logLevel = slog.LevelDebug
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("housingmarket starting",
		"version", Version,
		"config_path", cfgPath,
		"seed", cfg.Market.RandomSeed,
	)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	sc := &simcontext.Context{
		Persons:     repository.New[*models.Person](),
		Families:    repository.New[*models.Family](),
		Households:  repository.New[*models.Household](),
		Dwellings:   repository.New[*models.Dwelling](),
		SaleRecords: repository.NewSaleRecordStore(db),
		Currency:    currency.NewEmptyConverter(),
		RNG:         rng.NewRoot(cfg.Market.RandomSeed),
	}

	seedCfg := seed.DefaultConfig()
	seedCfg.StartYear = startYear
	generator := seed.NewGenerator(seedCfg, sc.RNG.Child())
	generator.Generate(sc)

	slog.Info("seed population generated",
		"households", sc.Households.Len(),
		"dwellings", sc.Dwellings.Len(),
	)

	sched := scheduler.New(cfg, summaryHooks{})
	slog.Info("run started", "run_id", sched.RunID())

	for year := startYear; year < startYear+years; year++ {
		select {
		case <-ctx.Done():
			slog.Info("shutdown requested, stopping at year boundary", "year", year)
			return nil
		default:
		}

		summary, err := sched.RunYear(ctx, sc, year)
		if err != nil {
			return fmt.Errorf("running year %d: %w", year, err)
		}

		printYearSummary(year, summary)
	}

	slog.Info("housingmarket run complete")
	return nil
}

var summaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

func printYearSummary(year int, s scheduler.YearSummary) {
	line := fmt.Sprintf("[%s] year %d: sold=%d households=%d dwellings=%d avg_price=%s avg_income=%s",
		s.RunID[:8],
		year,
		s.DwellingsSold,
		s.HouseholdsRemaining,
		s.DwellingsRemaining,
		humanize.FormatFloat("#,###.", s.AverageSalePrice),
		humanize.FormatFloat("#,###.", s.AveragePersonalIncome),
	)
	fmt.Println(summaryStyle.Render(line))
}

type summaryHooks struct {
	scheduler.NoopHooks
}

func (summaryHooks) AfterYearlyExecute(sc *simcontext.Context, year int, summary scheduler.YearSummary) {
	slog.Info("year complete",
		"year", year,
		"dwellings_sold", summary.DwellingsSold,
		"households_remaining", summary.HouseholdsRemaining,
		"dwellings_remaining", summary.DwellingsRemaining,
	)
}
