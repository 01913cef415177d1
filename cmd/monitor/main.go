package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/tencric/cricbet/internal/app"
	"github.com/tencric/cricbet/internal/monitor"
	"github.com/tencric/cricbet/internal/pkg/clock"
	"github.com/tencric/cricbet/internal/pkg/config"
	"github.com/tencric/cricbet/internal/pkg/storage"
	"github.com/tencric/cricbet/internal/sanction"
	"github.com/tencric/cricbet/internal/schedule"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	fmt.Println("Starting Market Monitor...")

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	var (
		configPath   string
		eventID      string
		autoBet      bool
		discoverOnly bool
		dryRun       bool
	)
	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&eventID, "event-id", "", "Target a specific event instead of automatic selection")
	flag.BoolVar(&autoBet, "auto-bet", false, "Place sanctioned bets instead of only listing them")
	flag.BoolVar(&discoverOnly, "discover-only", false, "Stop after match discovery")
	flag.BoolVar(&dryRun, "dry-run", false, "Force dry run regardless of config")
	flag.Parse()

	cfg, err := app.Bootstrap(configPath, "monitor")
	if err != nil {
		log.Fatalf("monitor: %v", err)
	}
	if dryRun {
		cfg.Betting.DryRun = true
	}

	if err := run(cfg, eventID, autoBet, discoverOnly); err != nil {
		slog.Error("Monitor run failed", "error", err)
		log.Fatalf("monitor: %v", err)
	}
}

func run(cfg *config.Config, eventID string, autoBet, discoverOnly bool) error {
	ctx := context.Background()

	client, err := app.NewClient(cfg)
	if err != nil {
		return err
	}

	sched := schedule.New(&cfg.Scheduler, clock.System())

	if discoverOnly {
		m := monitor.New(cfg, client, client, sched, nil, nil, app.NewCache(cfg), nil)
		match, err := m.Discover(ctx, eventID)
		if err != nil {
			return err
		}
		fmt.Printf("Current match: %s (%s)\n", match.Name, match.EventID)
		fmt.Printf("Start time:    %s", match.StartTime.In(sched.Location()).Format("2006-01-02 15:04 MST"))
		if match.IsEstimatedTime {
			fmt.Print(" (estimated)")
		}
		fmt.Println()
		return nil
	}

	tracker, store, err := app.NewTracker(ctx, cfg, clock.System())
	if err != nil {
		return err
	}
	defer store.Close()

	sanctions := sanction.NewManager(storage.NewFilePolicyStore(cfg.Sanction.PolicyFile))

	m := monitor.New(cfg, client, client, sched, sanctions, tracker, app.NewCache(cfg), app.NewNotifier(cfg))

	result, err := m.RunCycle(ctx, eventID, autoBet)
	if err != nil {
		return err
	}

	fmt.Printf("Match:      %s\n", result.Match.Name)
	fmt.Printf("Candidates: %d\n", len(result.Candidates))
	for _, bet := range result.Candidates {
		fmt.Printf("  %s | %s @ %.2f (stake %.2f)\n",
			bet.MarketName, bet.SelectionName, bet.Odds, bet.Stake)
	}
	if autoBet {
		if result.DryRun {
			fmt.Println("Dry run: no bets sent")
		}
		fmt.Printf("Placed: %d, duplicates: %d, failed: %d\n",
			len(result.Placed), result.Duplicates, result.Failed)
	}
	return nil
}
