// Package monitor runs the betting cycle: pick the fixture, pull its
// market catalog, match the sanction policy and place what qualifies.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tencric/cricbet/internal/ledger"
	"github.com/tencric/cricbet/internal/markets"
	"github.com/tencric/cricbet/internal/notify"
	"github.com/tencric/cricbet/internal/pkg/config"
	"github.com/tencric/cricbet/internal/pkg/models"
	"github.com/tencric/cricbet/internal/pkg/storage"
	"github.com/tencric/cricbet/internal/sanction"
	"github.com/tencric/cricbet/internal/schedule"
)

// MarketSource serves fixture discovery and market catalogs.
type MarketSource interface {
	ListUpcomingEvents(ctx context.Context) ([]models.Match, error)
	FetchEventMarkets(ctx context.Context, eventID string) (*models.SportEvent, error)
}

// Executor places a bet with the sportsbook and returns its bet id.
type Executor interface {
	PlaceBet(ctx context.Context, bet models.SanctionedBet, eventID string) (string, error)
}

// Monitor wires the betting cycle together. Cache and notifier are
// optional; nil disables them.
type Monitor struct {
	cfg       *config.Config
	source    MarketSource
	executor  Executor
	scheduler *schedule.Scheduler
	sanctions *sanction.Manager
	tracker   *ledger.Tracker
	cache     *storage.MatchCache
	notifier  *notify.Notifier
}

func New(
	cfg *config.Config,
	source MarketSource,
	executor Executor,
	scheduler *schedule.Scheduler,
	sanctions *sanction.Manager,
	tracker *ledger.Tracker,
	cache *storage.MatchCache,
	notifier *notify.Notifier,
) *Monitor {
	return &Monitor{
		cfg:       cfg,
		source:    source,
		executor:  executor,
		scheduler: scheduler,
		sanctions: sanctions,
		tracker:   tracker,
		cache:     cache,
		notifier:  notifier,
	}
}

// Result summarizes one betting cycle.
type Result struct {
	Match      models.Match
	Candidates []models.SanctionedBet
	Placed     []models.StakeRecord
	Duplicates int
	Failed     int
	DryRun     bool
}

// Discover resolves the fixture the cycle should act on. An explicit
// eventID skips selection entirely, which is also the escape hatch when
// several matches run concurrently.
func (m *Monitor) Discover(ctx context.Context, eventID string) (models.Match, error) {
	listed, err := m.source.ListUpcomingEvents(ctx)
	if err != nil {
		return models.Match{}, fmt.Errorf("failed to list events: %w", err)
	}

	if eventID != "" {
		for _, match := range listed {
			if match.EventID == eventID {
				return match, nil
			}
		}
		// Live matches drop out of the upcoming widget; fall back to the
		// cached selection or the event page itself.
		if m.cache != nil {
			if cached, err := m.cache.GetCurrentMatch(ctx); err == nil && cached != nil && cached.EventID == eventID {
				return *cached, nil
			}
		}
		event, err := m.source.FetchEventMarkets(ctx, eventID)
		if err != nil {
			return models.Match{}, fmt.Errorf("event %s not found: %w", eventID, err)
		}
		match := models.Match{
			EventID:    event.ID,
			Name:       event.Name,
			HomeTeam:   event.ParticipantHomeName,
			AwayTeam:   event.ParticipantAwayName,
			LeagueName: event.LeagueName,
			StartTime:  event.StartTime(),
		}
		return match, nil
	}

	all := m.scheduler.DeriveDailyMatches(listed)
	match, err := m.scheduler.CurrentMatch(all)
	if err != nil {
		// A live match is no longer in the upcoming widget; the cached
		// selection from the prefetch run covers that gap.
		if errors.Is(err, schedule.ErrNoCurrentMatch) && m.cache != nil {
			if cached, cerr := m.cache.GetCurrentMatch(ctx); cerr == nil && cached != nil {
				if m.scheduler.StateAt(*cached, m.scheduler.Now()) == schedule.StateLive {
					slog.Info("Using cached current match", "match", cached.Name)
					return *cached, nil
				}
			}
		}
		return models.Match{}, err
	}

	if m.cache != nil {
		if err := m.cache.StoreCurrentMatch(ctx, match); err != nil {
			slog.Warn("Failed to cache current match", "error", err)
		}
	}
	return match, nil
}

// Prefetch warms the market cache for the current fixture so the betting
// run inside the window starts from a hot catalog.
func (m *Monitor) Prefetch(ctx context.Context, eventID string) (models.Match, int, error) {
	match, err := m.Discover(ctx, eventID)
	if err != nil {
		return models.Match{}, 0, err
	}

	lines, err := m.fetchNormalized(ctx, match.EventID)
	if err != nil {
		return match, 0, err
	}

	if m.cache != nil {
		if err := m.cache.StoreMarkets(ctx, match.EventID, lines); err != nil {
			slog.Warn("Failed to cache markets", "error", err)
		}
	}
	return match, len(lines), nil
}

// RunCycle executes one full read-decide-write pass. With autoBet false it
// stops after reporting the candidates.
func (m *Monitor) RunCycle(ctx context.Context, eventID string, autoBet bool) (*Result, error) {
	match, err := m.Discover(ctx, eventID)
	if err != nil {
		return nil, err
	}

	slog.Info("Running betting cycle",
		"match", match.Name,
		"event_id", match.EventID,
		"estimated_time", match.IsEstimatedTime)

	lines, err := m.cachedOrFetch(ctx, match.EventID)
	if err != nil {
		return nil, err
	}

	bets, err := m.sanctions.FindSanctionedBets(ctx, lines)
	if err != nil && bets == nil {
		return nil, err
	}
	if err != nil {
		// Snapshot persistence failed but the bets are usable.
		slog.Warn("Sanctioned bets computed but snapshot not saved", "error", err)
	}

	result := &Result{
		Match:      match,
		Candidates: bets,
		DryRun:     m.cfg.Betting.DryRun,
	}

	if !autoBet || len(bets) == 0 {
		return result, nil
	}

	for _, bet := range bets {
		m.placeBet(ctx, match, bet, result)
	}

	m.notifier.RunSummary(match.Name, len(result.Placed), result.Duplicates, result.Failed)
	return result, nil
}

func (m *Monitor) placeBet(ctx context.Context, match models.Match, bet models.SanctionedBet, result *Result) {
	window := m.cfg.Ledger.DedupWindowHours

	if m.tracker.IsDuplicate(match.EventID, bet.MarketID, bet.SelectionID, window) {
		result.Duplicates++
		return
	}

	if m.cfg.Betting.DryRun {
		slog.Info("Dry run, bet not sent",
			"match", match.Name,
			"selection", bet.SelectionName,
			"stake", bet.Stake,
			"odds", bet.Odds)
		return
	}

	betID, err := m.executor.PlaceBet(ctx, bet, match.EventID)
	if err != nil {
		slog.Error("Failed to place bet",
			"selection", bet.SelectionName,
			"error", err)
		m.notifier.BetFailed(bet, match.Name, err)
		result.Failed++
		return
	}

	record, duplicate, err := m.tracker.Place(ctx, ledger.RecordParams{
		BetID:         betID,
		EventID:       match.EventID,
		MatchName:     match.Name,
		MarketID:      bet.MarketID,
		MarketName:    bet.MarketName,
		MarketLineID:  bet.MarketLineID,
		SelectionID:   bet.SelectionID,
		SelectionName: bet.SelectionName,
		Odds:          bet.Odds,
		Stake:         bet.Stake,
	}, window)
	if duplicate {
		// Lost the race against another writer after the explicit check.
		result.Duplicates++
		return
	}
	if err != nil {
		// The bet is live at the sportsbook; a ledger write failure must
		// not hide that.
		slog.Error("Bet placed but not recorded in ledger",
			"bet_id", betID,
			"error", err)
	}

	result.Placed = append(result.Placed, record)
	m.notifier.BetPlaced(record)
}

func (m *Monitor) cachedOrFetch(ctx context.Context, eventID string) ([]models.NormalizedMarketLine, error) {
	if m.cache != nil {
		lines, err := m.cache.GetMarkets(ctx, eventID)
		if err != nil {
			slog.Warn("Market cache read failed", "error", err)
		} else if lines != nil {
			slog.Info("Using cached market catalog", "event_id", eventID, "lines", len(lines))
			return lines, nil
		}
	}
	return m.fetchNormalized(ctx, eventID)
}

func (m *Monitor) fetchNormalized(ctx context.Context, eventID string) ([]models.NormalizedMarketLine, error) {
	event, err := m.source.FetchEventMarkets(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch markets: %w", err)
	}
	lines, err := markets.Normalize(event)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize markets: %w", err)
	}
	return lines, nil
}
