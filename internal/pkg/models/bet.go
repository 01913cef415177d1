package models

import "math"

// Stake record statuses. The ledger accepts any string on update (the
// sportsbook invents new ones), these are the ones we write ourselves.
const (
	BetStatusPlaced  = "placed"
	BetStatusWon     = "won"
	BetStatusLost    = "lost"
	BetStatusUnknown = "unknown"
)

// SanctionedBet is a selection the policy has approved for automatic
// staking: one per (innings, over, team) group, carrying the policy stake.
type SanctionedBet struct {
	MarketID      string  `json:"market_id"`
	MarketName    string  `json:"market_name"`
	MarketLineID  string  `json:"market_line_id"`
	SelectionID   string  `json:"selection_id"`
	SelectionName string  `json:"selection_name"`
	Odds          float64 `json:"odds"`
	Stake         float64 `json:"stake"`
	Innings       int     `json:"innings"`
	Over          int     `json:"over"`
	Team          string  `json:"team"`
}

// StakeRecord is one ledger entry for a placed stake. Records are appended
// once and never mutated except for status transitions.
//
// Timestamp and StatusUpdated are RFC 3339 strings in a fixed format, so
// lexical ordering matches chronological ordering and the duplicate window
// check can compare them directly.
type StakeRecord struct {
	BetID           string  `json:"bet_id"`
	EventID         string  `json:"event_id"`
	MatchName       string  `json:"match_name"`
	MarketID        string  `json:"market_id"`
	MarketName      string  `json:"market_name"`
	MarketLineID    string  `json:"market_line_id"`
	SelectionID     string  `json:"selection_id"`
	SelectionName   string  `json:"selection_name"`
	Odds            float64 `json:"odds"`
	Stake           float64 `json:"stake"`
	PotentialReturn float64 `json:"potential_return"`
	Timestamp       string  `json:"timestamp"`
	Status          string  `json:"status"`
	StatusUpdated   string  `json:"status_updated,omitempty"`
}

// PotentialReturn computes stake*odds rounded to 2 decimal places.
func PotentialReturn(stake, odds float64) float64 {
	return math.Round(stake*odds*100) / 100
}
