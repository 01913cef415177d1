// Package sanction decides which market selections qualify for automatic
// staking under the configured policy.
package sanction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tencric/cricbet/internal/markets"
	"github.com/tencric/cricbet/internal/pkg/models"
	"github.com/tencric/cricbet/internal/pkg/storage"
)

// Manager loads the sanction policy and matches it against normalized
// market catalogs.
type Manager struct {
	store storage.PolicyStore
}

func NewManager(store storage.PolicyStore) *Manager {
	return &Manager{store: store}
}

// Policy returns the current policy settings.
func (m *Manager) Policy(ctx context.Context) (models.SanctionPolicy, error) {
	doc, err := m.store.Load(ctx)
	if err != nil {
		return models.SanctionPolicy{}, err
	}
	return doc.Settings, nil
}

// groupKey identifies one logical bet: a specific over, in a specific
// innings, for a specific team. Different data snapshots may list several
// market lines for the same key.
type groupKey struct {
	innings int
	over    int
	team    string
}

// FindSanctionedBets matches the policy against the normalized catalog and
// returns at most one bet per (innings, over, team) group: the selection
// with the highest "Over X" threshold, which on a cumulative-runs market is
// the most conservative stake.
//
// The emitted set overwrites the policy document's selected_bets snapshot.
// A snapshot persistence failure is returned alongside the computed bets so
// the caller can still act on them.
func (m *Manager) FindSanctionedBets(ctx context.Context, lines []models.NormalizedMarketLine) ([]models.SanctionedBet, error) {
	doc, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sanction policy: %w", err)
	}
	policy := doc.Settings

	if !policy.Active {
		slog.Info("Betting sanctions are currently inactive")
		return nil, nil
	}

	slog.Info("Checking markets for sanctioned bets", "markets", len(lines))

	bets := Match(policy, lines)

	if len(bets) > 0 {
		doc.SelectedBets = bets
		if err := m.store.Save(ctx, doc); err != nil {
			return bets, fmt.Errorf("failed to save selected bets snapshot: %w", err)
		}
		slog.Info("Found and saved sanctioned bets", "count", len(bets))
	} else {
		slog.Info("No sanctioned bets found")
	}

	return bets, nil
}

// Match applies the policy to the catalog without touching persistence.
// Pure function of its inputs; the policy's Active gate is honored here too.
func Match(policy models.SanctionPolicy, lines []models.NormalizedMarketLine) []models.SanctionedBet {
	if !policy.Active {
		return nil
	}

	// Group eligible market lines by (innings, over, team), preserving
	// first-encounter order so tie-breaks stay deterministic.
	groups := make(map[groupKey][]models.NormalizedMarketLine)
	var order []groupKey

	for _, line := range lines {
		c := markets.Classify(line.MarketName)
		if c.Kind != markets.KindSingleOver {
			continue
		}
		if !policy.AllowsOver(c.Over) {
			continue
		}

		key := groupKey{innings: c.Innings, over: c.Over, team: c.Team}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], line)
	}

	var bets []models.SanctionedBet
	for _, key := range order {
		bet, ok := pickHighestOver(groups[key])
		if !ok {
			// No selection in the group carries an "Over X" threshold.
			continue
		}
		bet.Innings = key.innings
		bet.Over = key.over
		bet.Team = key.team
		bet.Stake = policy.Stake
		bets = append(bets, bet)

		slog.Info("Selected bet",
			"market", bet.MarketName,
			"selection", bet.SelectionName,
			"odds", bet.Odds)
	}

	return bets
}

// pickHighestOver scans every selection in the group and keeps the one with
// the strictly largest over threshold. Equal thresholds keep the first one
// encountered in traversal order.
func pickHighestOver(group []models.NormalizedMarketLine) (models.SanctionedBet, bool) {
	best := -1.0
	var bet models.SanctionedBet
	found := false

	for _, line := range group {
		for _, sel := range line.Selections {
			value, ok := markets.OverThreshold(sel.Name)
			if !ok {
				continue
			}
			if value > best {
				best = value
				found = true
				bet = models.SanctionedBet{
					MarketID:      line.MarketID,
					MarketName:    line.MarketName,
					MarketLineID:  line.MarketLineID,
					SelectionID:   sel.SelectionID,
					SelectionName: sel.Name,
					Odds:          sel.Odds,
				}
			}
		}
	}

	return bet, found
}
