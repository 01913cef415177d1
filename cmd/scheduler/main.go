// The scheduler command is the cron entry point. A prefetch run shortly
// before the daily betting window warms the match and market cache; a bet
// run inside the window places whatever the sanction policy approves.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

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
	fmt.Println("Starting Betting Scheduler...")

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	var (
		configPath string
		prefetch   bool
		bet        bool
		eventID    string
		mockTime   string
	)
	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.BoolVar(&prefetch, "prefetch", false, "Warm the match and market cache")
	flag.BoolVar(&bet, "bet", false, "Run a betting cycle if a match is inside its window")
	flag.StringVar(&eventID, "event-id", "", "Target a specific event instead of automatic selection")
	flag.StringVar(&mockTime, "mock-time", "", "Run as if now were this RFC 3339 instant")
	flag.Parse()

	if !prefetch && !bet {
		log.Fatal("scheduler: pass --prefetch and/or --bet")
	}

	cfg, err := app.Bootstrap(configPath, "scheduler")
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}

	clk, err := buildClock(mockTime)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}

	if err := run(cfg, clk, prefetch, bet, eventID); err != nil {
		slog.Error("Scheduler run failed", "error", err)
		log.Fatalf("scheduler: %v", err)
	}
}

// buildClock returns the system clock, or a fixed one for replaying a
// cycle at a past or future instant.
func buildClock(mockTime string) (clock.Clock, error) {
	if mockTime == "" {
		return clock.System(), nil
	}
	t, err := time.Parse(time.RFC3339, mockTime)
	if err != nil {
		return nil, fmt.Errorf("invalid --mock-time %q: %w", mockTime, err)
	}
	slog.Info("Using mocked time", "now", t.Format(time.RFC3339))
	return clock.At(t), nil
}

func run(cfg *config.Config, clk clock.Clock, prefetch, bet bool, eventID string) error {
	ctx := context.Background()

	client, err := app.NewClient(cfg)
	if err != nil {
		return err
	}

	sched := schedule.New(&cfg.Scheduler, clk)
	cache := app.NewCache(cfg)

	if prefetch {
		m := monitor.New(cfg, client, client, sched, nil, nil, cache, nil)
		match, lines, err := m.Prefetch(ctx, eventID)
		if err != nil {
			if errors.Is(err, schedule.ErrNoCurrentMatch) {
				slog.Info("No match within the betting horizon, nothing to prefetch")
				return nil
			}
			return err
		}
		slog.Info("Prefetched market catalog",
			"match", match.Name,
			"lines", lines)
	}

	if !bet {
		return nil
	}

	tracker, store, err := app.NewTracker(ctx, cfg, clk)
	if err != nil {
		return err
	}
	defer store.Close()

	sanctions := sanction.NewManager(storage.NewFilePolicyStore(cfg.Sanction.PolicyFile))

	m := monitor.New(cfg, client, client, sched, sanctions, tracker, cache, app.NewNotifier(cfg))

	// Only bet inside the window; an upcoming match within the lookahead
	// already got its cache warmed above.
	match, err := m.Discover(ctx, eventID)
	if err != nil {
		if errors.Is(err, schedule.ErrNoCurrentMatch) {
			slog.Info("No match within the betting horizon, nothing to bet")
			return nil
		}
		return err
	}
	if state := sched.StateAt(match, clk.Now()); state != schedule.StateLive {
		slog.Info("Match outside its betting window, skipping bets",
			"match", match.Name,
			"state", state.String())
		return nil
	}

	result, err := m.RunCycle(ctx, match.EventID, true)
	if err != nil {
		return err
	}

	slog.Info("Betting cycle finished",
		"match", result.Match.Name,
		"candidates", len(result.Candidates),
		"placed", len(result.Placed),
		"duplicates", result.Duplicates,
		"failed", result.Failed,
		"dry_run", result.DryRun)
	return nil
}
