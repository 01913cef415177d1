package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/tencric/cricbet/internal/pkg/clock"
	"github.com/tencric/cricbet/internal/pkg/config"
	"github.com/tencric/cricbet/internal/pkg/models"
)

func testConfig() *config.SchedulerConfig {
	return &config.SchedulerConfig{
		Timezone:          "Asia/Kolkata",
		BettingWindow:     3 * time.Hour,
		Lookahead:         3 * time.Hour,
		WeekdayStart:      "19:30",
		WeekendEarlyStart: "15:30",
		WeekendLateStart:  "19:30",
	}
}

func match(eventID, name string, start time.Time) models.Match {
	return models.Match{EventID: eventID, Name: name, StartTime: start}
}

func TestStateAt(t *testing.T) {
	start := time.Date(2025, 4, 14, 14, 0, 0, 0, time.UTC) // 19:30 IST
	s := New(testConfig(), clock.At(start))
	m := match("e1", "A vs B", start)

	tests := []struct {
		now  time.Time
		want State
	}{
		{start.Add(-1 * time.Hour), StateUpcoming},
		{start, StateLive},
		{start.Add(1 * time.Hour), StateLive},
		{start.Add(3 * time.Hour), StateLive}, // window end is inclusive
		{start.Add(3*time.Hour + time.Second), StateClosed},
		{start.Add(4 * time.Hour), StateClosed},
	}

	for _, tt := range tests {
		if got := s.StateAt(m, tt.now); got != tt.want {
			t.Errorf("StateAt(%s) = %v, want %v", tt.now.Format(time.RFC3339), got, tt.want)
		}
	}
}

func TestCurrentMatchPrefersLive(t *testing.T) {
	now := time.Date(2025, 4, 14, 15, 0, 0, 0, time.UTC)
	s := New(testConfig(), clock.At(now))

	matches := []models.Match{
		match("e1", "A vs B", now.Add(-1*time.Hour)), // live
		match("e2", "C vs D", now.Add(2*time.Hour)),  // upcoming within lookahead
	}

	got, err := s.CurrentMatch(matches)
	if err != nil {
		t.Fatalf("CurrentMatch: %v", err)
	}
	if got.EventID != "e1" {
		t.Errorf("selected %q, want live match e1", got.EventID)
	}
}

func TestCurrentMatchNextUpcoming(t *testing.T) {
	now := time.Date(2025, 4, 14, 15, 0, 0, 0, time.UTC)
	s := New(testConfig(), clock.At(now))

	matches := []models.Match{
		match("e1", "A vs B", now.Add(2*time.Hour)),
		match("e2", "C vs D", now.Add(1*time.Hour)),
		match("e3", "E vs F", now.Add(5*time.Hour)), // beyond lookahead
	}

	got, err := s.CurrentMatch(matches)
	if err != nil {
		t.Fatalf("CurrentMatch: %v", err)
	}
	if got.EventID != "e2" {
		t.Errorf("selected %q, want soonest upcoming e2", got.EventID)
	}
}

func TestCurrentMatchNone(t *testing.T) {
	now := time.Date(2025, 4, 14, 15, 0, 0, 0, time.UTC)
	s := New(testConfig(), clock.At(now))

	matches := []models.Match{
		match("e1", "A vs B", now.Add(-5*time.Hour)), // closed
		match("e2", "C vs D", now.Add(5*time.Hour)),  // beyond lookahead
		match("e3", "E vs F", time.Time{}),           // no start time
	}

	_, err := s.CurrentMatch(matches)
	if !errors.Is(err, ErrNoCurrentMatch) {
		t.Errorf("err = %v, want ErrNoCurrentMatch", err)
	}
}

func TestCurrentMatchAmbiguous(t *testing.T) {
	now := time.Date(2025, 4, 14, 15, 0, 0, 0, time.UTC)
	s := New(testConfig(), clock.At(now))

	matches := []models.Match{
		match("e1", "A vs B", now.Add(-1*time.Hour)),
		match("e2", "C vs D", now.Add(-30*time.Minute)),
	}

	_, err := s.CurrentMatch(matches)
	var ambiguous *AmbiguousMatchError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("err = %v, want AmbiguousMatchError", err)
	}
	if len(ambiguous.Candidates) != 2 {
		t.Errorf("candidates = %d, want 2", len(ambiguous.Candidates))
	}
}

func TestCurrentMatchSimultaneousUpcoming(t *testing.T) {
	now := time.Date(2025, 4, 14, 15, 0, 0, 0, time.UTC)
	s := New(testConfig(), clock.At(now))

	start := now.Add(time.Hour)
	matches := []models.Match{
		match("e1", "A vs B", start),
		match("e2", "C vs D", start),
	}

	_, err := s.CurrentMatch(matches)
	var ambiguous *AmbiguousMatchError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("err = %v, want AmbiguousMatchError for simultaneous kickoffs", err)
	}
}

func TestDeriveDailyMatchesWeekday(t *testing.T) {
	// Monday 2025-04-14, 10:00 IST.
	now := time.Date(2025, 4, 14, 4, 30, 0, 0, time.UTC)
	s := New(testConfig(), clock.At(now))

	listed := []models.Match{
		{EventID: "e1", Name: "A vs B"}, // no start time
	}

	out := s.DeriveDailyMatches(listed)
	if len(out) != 1 {
		t.Fatalf("got %d matches, want 1", len(out))
	}

	derived := out[0]
	if !derived.IsEstimatedTime {
		t.Error("derived match not flagged as estimated")
	}
	local := derived.StartTime.In(s.Location())
	if local.Hour() != 19 || local.Minute() != 30 {
		t.Errorf("derived start = %02d:%02d, want 19:30", local.Hour(), local.Minute())
	}
	if local.Weekday() != time.Monday {
		t.Errorf("derived day = %v, want Monday", local.Weekday())
	}
}

func TestDeriveDailyMatchesWeekend(t *testing.T) {
	// Saturday 2025-04-12, 10:00 IST.
	now := time.Date(2025, 4, 12, 4, 30, 0, 0, time.UTC)
	s := New(testConfig(), clock.At(now))

	listed := []models.Match{
		{EventID: "e1", Name: "A vs B"},
		{EventID: "e2", Name: "C vs D"},
	}

	out := s.DeriveDailyMatches(listed)
	if len(out) != 2 {
		t.Fatalf("got %d matches, want 2", len(out))
	}

	first := out[0].StartTime.In(s.Location())
	second := out[1].StartTime.In(s.Location())
	if first.Hour() != 15 || first.Minute() != 30 {
		t.Errorf("first slot = %02d:%02d, want 15:30", first.Hour(), first.Minute())
	}
	if second.Hour() != 19 || second.Minute() != 30 {
		t.Errorf("second slot = %02d:%02d, want 19:30", second.Hour(), second.Minute())
	}
}

func TestDeriveDailyMatchesDedupReversedPair(t *testing.T) {
	now := time.Date(2025, 4, 14, 4, 30, 0, 0, time.UTC)
	s := New(testConfig(), clock.At(now))

	start := now.Add(6 * time.Hour)
	listed := []models.Match{
		match("e1", "Delhi Capitals vs Mumbai Indians", start),
		{EventID: "e2", Name: "Mumbai Indians vs Delhi Capitals"}, // same fixture, reversed
	}

	out := s.DeriveDailyMatches(listed)
	if len(out) != 1 {
		t.Fatalf("got %d matches, want 1 (reversed pair deduplicated)", len(out))
	}
	if out[0].EventID != "e1" || out[0].IsEstimatedTime {
		t.Errorf("kept %+v, want the timed listing e1", out[0])
	}
}

func TestDeriveDailyMatchesKeepsTimedMatches(t *testing.T) {
	now := time.Date(2025, 4, 14, 4, 30, 0, 0, time.UTC)
	s := New(testConfig(), clock.At(now))

	start := now.Add(6 * time.Hour)
	listed := []models.Match{
		match("e1", "A vs B", start),
	}

	out := s.DeriveDailyMatches(listed)
	if len(out) != 1 {
		t.Fatalf("got %d matches, want 1", len(out))
	}
	if !out[0].StartTime.Equal(start) || out[0].IsEstimatedTime {
		t.Errorf("timed match modified: %+v", out[0])
	}
}
