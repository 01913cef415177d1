// Package markets flattens the sportsbook's nested event/market/line tree
// into the catalog the sanction matcher consumes, and classifies market
// display names into their betting families.
package markets

import (
	"fmt"
	"log/slog"

	"github.com/tencric/cricbet/internal/pkg/models"
)

// Normalize flattens one event's market tree into the ordered list of
// active, tradable market lines. Malformed or suspended entries are skipped
// silently; only a missing event is an error.
//
// Output order preserves the input traversal order (market, then market
// line) so downstream tie-breaks stay deterministic.
func Normalize(event *models.SportEvent) ([]models.NormalizedMarketLine, error) {
	if event == nil {
		return nil, fmt.Errorf("no event data provided")
	}

	var lines []models.NormalizedMarketLine
	for _, market := range event.ExpandedMarkets {
		if market.ID == "" || market.Name == "" {
			continue
		}

		for _, ml := range market.MarketLines {
			if ml.ID == "" {
				continue
			}
			if ml.IsSuspended {
				continue
			}
			if ml.MarketLineStatus != models.MarketLineStatusActive {
				continue
			}

			// The line name carries the detailed label ("1st innings over 2
			// - ... total"); fall back to the market name when absent.
			name := ml.Name
			if name == "" {
				name = market.Name
			}

			var selections []models.NormalizedSelection
			for _, sel := range ml.Selections {
				if !sel.IsActive {
					continue
				}
				selections = append(selections, models.NormalizedSelection{
					SelectionID: sel.ID,
					Name:        sel.Name,
					Odds:        sel.Odds,
				})
			}
			if len(selections) == 0 {
				continue
			}

			lines = append(lines, models.NormalizedMarketLine{
				EventID:         event.ID,
				EventName:       event.Name,
				MarketID:        market.ID,
				MarketName:      name,
				MarketLineID:    ml.ID,
				MarketLineName:  name,
				Selections:      selections,
				SportID:         event.SportID,
				SportName:       event.SportName,
				LeagueID:        event.LeagueID,
				LeagueName:      event.LeagueName,
				ParticipantHome: event.ParticipantHomeName,
				ParticipantAway: event.ParticipantAwayName,
			})
		}
	}

	slog.Info("Normalized market catalog", "event", event.Name, "active_lines", len(lines))
	return lines, nil
}
