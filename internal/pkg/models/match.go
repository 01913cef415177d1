package models

import (
	"strconv"
	"strings"
	"time"
)

// Match is the scheduler's view of one fixture: just enough to decide when
// (and whether) it is bettable.
type Match struct {
	EventID    string    `json:"event_id"`
	Name       string    `json:"match_name"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	LeagueName string    `json:"league_name"`
	StartTime  time.Time `json:"start_time"`

	// IsEstimatedTime marks start times synthesized from canonical kickoff
	// slots rather than reported by the sportsbook.
	IsEstimatedTime bool `json:"is_estimated_time"`
}

// PairKey builds a stable key for a team pairing so "A vs B" and "B vs A"
// from different listings collapse to the same fixture.
func PairKey(name string) string {
	home, away, ok := SplitTeams(name)
	if !ok {
		return normalizeKeyPart(name)
	}
	h := normalizeKeyPart(home)
	a := normalizeKeyPart(away)
	if a < h {
		h, a = a, h
	}
	return h + "|" + a
}

// SplitTeams extracts the two team names from a match name like
// "Delhi Capitals vs Mumbai Indians".
func SplitTeams(name string) (string, string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", false
	}
	for _, sep := range []string{" vs ", " v ", " - "} {
		parts := strings.Split(name, sep)
		if len(parts) != 2 {
			continue
		}
		home := strings.TrimSpace(parts[0])
		away := strings.TrimSpace(parts[1])
		if home == "" || away == "" {
			return "", "", false
		}
		return home, away, true
	}
	return "", "", false
}

func normalizeKeyPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "|", " ")
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// ParseEventDate parses the sportsbook's start date formats: unix
// milliseconds as a string (widget API) or RFC 3339 with an optional
// trailing Z (event API). Zero time on failure.
func ParseEventDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	// Some payloads omit the zone suffix entirely.
	if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return t
	}
	return time.Time{}
}
