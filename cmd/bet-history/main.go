// The bet-history command syncs bet outcomes from the sportsbook into the
// ledger and prints a performance report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tencric/cricbet/internal/app"
	"github.com/tencric/cricbet/internal/ledger"
	"github.com/tencric/cricbet/internal/performance"
	"github.com/tencric/cricbet/internal/pkg/clock"
	"github.com/tencric/cricbet/internal/pkg/config"
	"github.com/tencric/cricbet/internal/pkg/models"
	"github.com/tencric/cricbet/internal/tencric"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	var (
		configPath string
		hours      int
		sync       bool
		all        bool
	)
	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.IntVar(&hours, "hours", 24, "History window in hours")
	flag.BoolVar(&sync, "sync", false, "Pull bet outcomes from the sportsbook before reporting")
	flag.BoolVar(&all, "all", false, "Report over the whole ledger instead of the window")
	flag.Parse()

	cfg, err := app.Bootstrap(configPath, "bet-history")
	if err != nil {
		log.Fatalf("bet-history: %v", err)
	}

	if err := run(cfg, hours, sync, all); err != nil {
		slog.Error("Bet history run failed", "error", err)
		log.Fatalf("bet-history: %v", err)
	}
}

func run(cfg *config.Config, hours int, sync, all bool) error {
	ctx := context.Background()

	tracker, store, err := app.NewTracker(ctx, cfg, clock.System())
	if err != nil {
		return err
	}
	defer store.Close()

	if sync {
		client, err := app.NewClient(cfg)
		if err != nil {
			return err
		}
		if err := syncStatuses(ctx, client, tracker, hours); err != nil {
			return err
		}
	}

	window := hours
	if all {
		window = 0
	}
	report := performance.Compute(tracker.History(window), time.Now().Format(time.RFC3339))
	fmt.Print(report.Format())
	return nil
}

// syncStatuses walks the account's bet history and folds settled outcomes
// back into the ledger.
func syncStatuses(ctx context.Context, client *tencric.Client, tracker *ledger.Tracker, hours int) error {
	updated := 0
	for page := 1; ; page++ {
		betPage, err := client.ListBetPage(ctx, hours, page)
		if err != nil {
			return fmt.Errorf("failed to fetch bet history: %w", err)
		}

		for _, entry := range betPage.Bets {
			status := mapStatus(entry.Status)
			if status == "" {
				continue
			}
			for _, betID := range []string{entry.TicketID, entry.InternalBetUUID} {
				if betID == "" {
					continue
				}
				ok, err := tracker.UpdateStatus(ctx, betID, status)
				if err != nil {
					slog.Warn("Failed to update bet status", "bet_id", betID, "error", err)
				}
				if ok {
					updated++
					break
				}
			}
		}

		if !betPage.HasNext {
			break
		}
	}

	slog.Info("Synced bet statuses", "updated", updated)
	return nil
}

// mapStatus translates API statuses like BET_STATUS_WON to ledger
// statuses. Pending bets keep their current ledger status.
func mapStatus(apiStatus string) string {
	switch strings.ToUpper(apiStatus) {
	case "BET_STATUS_WON", "WON":
		return models.BetStatusWon
	case "BET_STATUS_LOST", "LOST":
		return models.BetStatusLost
	default:
		return ""
	}
}
