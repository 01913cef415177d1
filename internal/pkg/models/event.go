package models

import (
	"time"
)

// MarketLineStatusActive is the literal status the sportsbook reports for a
// tradable market line. The API returns "MARKET_LINE_STATUS_ACTIVE", not
// just "ACTIVE".
const MarketLineStatusActive = "MARKET_LINE_STATUS_ACTIVE"

// SportEvent is one event with its full market tree, as returned by the
// lazyEvent operation.
type SportEvent struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	LeagueID            string   `json:"leagueId"`
	LeagueName          string   `json:"leagueName"`
	RegionName          string   `json:"regionName"`
	SportID             string   `json:"sportId"`
	SportName           string   `json:"sportName"`
	IsLive              bool     `json:"isLive"`
	StartEventDate      string   `json:"startEventDate"`
	ParticipantHomeName string   `json:"participantHomeName"`
	ParticipantAwayName string   `json:"participantAwayName"`
	ExpandedMarkets     []Market `json:"expandedMarkets"`
}

// Market groups related market lines under one human label
// (e.g. "1st innings over totals").
type Market struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	MarketLines []MarketLine `json:"marketLines"`
}

// MarketLine is the tradable unit within a market.
type MarketLine struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	IsSuspended      bool        `json:"isSuspended"`
	MarketLineStatus string      `json:"marketLineStatus"`
	Selections       []Selection `json:"selections"`
}

// Selection is one outcome with odds within a market line.
type Selection struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Odds     float64 `json:"odds"`
	IsActive bool    `json:"isActive"`
}

// NormalizedSelection is an active selection carried into the flat catalog.
type NormalizedSelection struct {
	SelectionID string  `json:"selection_id"`
	Name        string  `json:"name"`
	Odds        float64 `json:"odds"`
}

// NormalizedMarketLine is one flat entry of the normalized market catalog:
// an active, tradable market line with only its active selections, plus the
// event/sport/league context needed downstream.
type NormalizedMarketLine struct {
	EventID         string                `json:"event_id"`
	EventName       string                `json:"event_name"`
	MarketID        string                `json:"market_id"`
	MarketName      string                `json:"market_name"`
	MarketLineID    string                `json:"market_line_id"`
	MarketLineName  string                `json:"market_line_name"`
	Selections      []NormalizedSelection `json:"selections"`
	SportID         string                `json:"sport_id"`
	SportName       string                `json:"sport_name"`
	LeagueID        string                `json:"league_id"`
	LeagueName      string                `json:"league_name"`
	ParticipantHome string                `json:"participant_home"`
	ParticipantAway string                `json:"participant_away"`
}

// StartTime parses the event start date. The widget API returns unix
// milliseconds as a string; the event API sometimes returns RFC 3339.
// Returns the zero time when the field is absent or unparseable, which
// excludes the event from Live/Upcoming scheduling.
func (e *SportEvent) StartTime() time.Time {
	return ParseEventDate(e.StartEventDate)
}
