package markets

import (
	"testing"

	"github.com/tencric/cricbet/internal/pkg/models"
)

func testEvent() *models.SportEvent {
	return &models.SportEvent{
		ID:                  "event-1",
		Name:                "Delhi Capitals vs Mumbai Indians",
		SportID:             "sport-1",
		SportName:           "Cricket",
		LeagueID:            "league-1",
		LeagueName:          "Indian Premier League",
		ParticipantHomeName: "Delhi Capitals",
		ParticipantAwayName: "Mumbai Indians",
		ExpandedMarkets: []models.Market{
			{
				ID:   "m1",
				Name: "Over totals",
				MarketLines: []models.MarketLine{
					{
						ID:               "ml1",
						Name:             "1st innings over 2 - Delhi Capitals total",
						MarketLineStatus: models.MarketLineStatusActive,
						Selections: []models.Selection{
							{ID: "s1", Name: "Over 7.5", Odds: 1.85, IsActive: true},
							{ID: "s2", Name: "Under 7.5", Odds: 1.95, IsActive: true},
						},
					},
					{
						ID:               "ml2",
						Name:             "1st innings over 3 - Delhi Capitals total",
						IsSuspended:      true,
						MarketLineStatus: models.MarketLineStatusActive,
						Selections: []models.Selection{
							{ID: "s3", Name: "Over 8.5", Odds: 1.9, IsActive: true},
						},
					},
					{
						ID:               "ml3",
						Name:             "1st innings over 4 - Delhi Capitals total",
						MarketLineStatus: "MARKET_LINE_STATUS_SETTLED",
						Selections: []models.Selection{
							{ID: "s4", Name: "Over 9.5", Odds: 1.9, IsActive: true},
						},
					},
					{
						ID:               "ml4",
						Name:             "1st innings over 5 - Delhi Capitals total",
						MarketLineStatus: models.MarketLineStatusActive,
						Selections: []models.Selection{
							{ID: "s5", Name: "Over 10.5", Odds: 1.9, IsActive: false},
						},
					},
				},
			},
			{
				// Missing id, whole market skipped.
				Name: "Broken market",
				MarketLines: []models.MarketLine{
					{
						ID:               "ml5",
						Name:             "2nd innings over 2 - Mumbai Indians total",
						MarketLineStatus: models.MarketLineStatusActive,
						Selections: []models.Selection{
							{ID: "s6", Name: "Over 6.5", Odds: 1.8, IsActive: true},
						},
					},
				},
			},
			{
				ID:   "m3",
				Name: "Match markets",
				MarketLines: []models.MarketLine{
					{
						// Empty line name falls back to the market name.
						ID:               "ml6",
						MarketLineStatus: models.MarketLineStatusActive,
						Selections: []models.Selection{
							{ID: "s7", Name: "Delhi Capitals", Odds: 1.7, IsActive: true},
						},
					},
				},
			},
		},
	}
}

func TestNormalize(t *testing.T) {
	lines, err := Normalize(testEvent())
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("Normalize returned %d lines, want 2", len(lines))
	}

	first := lines[0]
	if first.MarketLineID != "ml1" {
		t.Errorf("first line id = %q, want ml1", first.MarketLineID)
	}
	if first.MarketName != "1st innings over 2 - Delhi Capitals total" {
		t.Errorf("first line market name = %q", first.MarketName)
	}
	if len(first.Selections) != 2 {
		t.Errorf("first line has %d selections, want 2", len(first.Selections))
	}
	if first.EventID != "event-1" || first.LeagueName != "Indian Premier League" {
		t.Errorf("event metadata not carried: %+v", first)
	}

	second := lines[1]
	if second.MarketLineID != "ml6" {
		t.Errorf("second line id = %q, want ml6", second.MarketLineID)
	}
	if second.MarketName != "Match markets" {
		t.Errorf("market name fallback = %q, want market name", second.MarketName)
	}
}

func TestNormalizeNilEvent(t *testing.T) {
	if _, err := Normalize(nil); err == nil {
		t.Fatal("Normalize(nil) returned no error")
	}
}

func TestNormalizeDropsLinesWithoutActiveSelections(t *testing.T) {
	event := &models.SportEvent{
		ID: "e",
		ExpandedMarkets: []models.Market{{
			ID:   "m",
			Name: "Market",
			MarketLines: []models.MarketLine{{
				ID:               "ml",
				Name:             "line",
				MarketLineStatus: models.MarketLineStatusActive,
				Selections: []models.Selection{
					{ID: "s", Name: "Over 7.5", Odds: 1.9, IsActive: false},
				},
			}},
		}},
	}

	lines, err := Normalize(event)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Normalize kept %d lines, want 0", len(lines))
	}
}
