package models

import (
	"testing"
	"time"
)

func TestSplitTeams(t *testing.T) {
	tests := []struct {
		name string
		home string
		away string
		ok   bool
	}{
		{"Delhi Capitals vs Mumbai Indians", "Delhi Capitals", "Mumbai Indians", true},
		{"Delhi Capitals v Mumbai Indians", "Delhi Capitals", "Mumbai Indians", true},
		{"Delhi Capitals - Mumbai Indians", "Delhi Capitals", "Mumbai Indians", true},
		{"  A vs B  ", "A", "B", true},
		{"Delhi Capitals", "", "", false},
		{"vs Mumbai Indians", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		home, away, ok := SplitTeams(tt.name)
		if home != tt.home || away != tt.away || ok != tt.ok {
			t.Errorf("SplitTeams(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.name, home, away, ok, tt.home, tt.away, tt.ok)
		}
	}
}

func TestPairKeyReversedTeams(t *testing.T) {
	a := PairKey("Delhi Capitals vs Mumbai Indians")
	b := PairKey("Mumbai Indians vs Delhi Capitals")
	if a != b {
		t.Errorf("PairKey not symmetric: %q vs %q", a, b)
	}

	c := PairKey("Delhi Capitals vs Chennai Super Kings")
	if a == c {
		t.Errorf("different fixtures share key %q", a)
	}
}

func TestPairKeyNormalization(t *testing.T) {
	a := PairKey("delhi  capitals vs MUMBAI INDIANS")
	b := PairKey("Delhi Capitals vs Mumbai Indians")
	if a != b {
		t.Errorf("PairKey case/space sensitive: %q vs %q", a, b)
	}
}

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"1744650000000", time.UnixMilli(1744650000000).UTC()},
		{"2025-04-14T14:00:00Z", time.Date(2025, 4, 14, 14, 0, 0, 0, time.UTC)},
		{"2025-04-14T14:00:00", time.Date(2025, 4, 14, 14, 0, 0, 0, time.UTC)},
		{"not a date", time.Time{}},
		{"", time.Time{}},
	}

	for _, tt := range tests {
		got := ParseEventDate(tt.raw)
		if !got.Equal(tt.want) {
			t.Errorf("ParseEventDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestPotentialReturn(t *testing.T) {
	tests := []struct {
		stake, odds, want float64
	}{
		{90, 1.9, 171.0},
		{100, 1.9, 190.0},
		{100, 2.0, 200.0},
		{33.33, 1.87, 62.33}, // 62.3271 rounds to 62.33
		{0, 1.9, 0},
	}

	for _, tt := range tests {
		if got := PotentialReturn(tt.stake, tt.odds); got != tt.want {
			t.Errorf("PotentialReturn(%v, %v) = %v, want %v", tt.stake, tt.odds, got, tt.want)
		}
	}
}
