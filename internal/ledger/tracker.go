// Package ledger is the append-only record of placed stakes and the
// duplicate-stake guard built on top of it. The ledger is the sole source
// of truth for duplicate detection and performance reporting.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tencric/cricbet/internal/pkg/clock"
	"github.com/tencric/cricbet/internal/pkg/models"
	"github.com/tencric/cricbet/internal/pkg/storage"
)

// DefaultDedupWindowHours is the duplicate window applied when a caller
// passes no explicit window. It must exceed the external trigger interval
// or repeated runs inside one betting window would double-stake.
const DefaultDedupWindowHours = 24

// timestampLayout is the fixed format all ledger timestamps use. Lexical
// ordering of these strings matches chronological ordering, which is what
// the duplicate window comparison relies on.
const timestampLayout = time.RFC3339

// Tracker wraps a LedgerStore with the duplicate-guard and recording
// operations. It keeps an in-memory copy of the ledger loaded at
// construction; runs are short-lived so the copy cannot go stale within
// one run.
type Tracker struct {
	store   storage.LedgerStore
	clk     clock.Clock
	records []models.StakeRecord
}

// NewTracker loads the ledger from the store. A missing ledger is an empty
// one, not an error.
func NewTracker(ctx context.Context, store storage.LedgerStore, clk clock.Clock) (*Tracker, error) {
	records, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bet ledger: %w", err)
	}
	if clk == nil {
		clk = clock.System()
	}
	return &Tracker{store: store, clk: clk, records: records}, nil
}

// IsDuplicate reports whether a stake on the same (event, market,
// selection) was recorded within the last windowHours. The boundary is
// exclusive: a record exactly windowHours old does not count.
func (t *Tracker) IsDuplicate(eventID, marketID, selectionID string, windowHours int) bool {
	if windowHours <= 0 {
		windowHours = DefaultDedupWindowHours
	}
	threshold := t.clk.Now().Add(-time.Duration(windowHours) * time.Hour).Format(timestampLayout)

	for _, rec := range t.records {
		if rec.EventID == eventID &&
			rec.MarketID == marketID &&
			rec.SelectionID == selectionID &&
			rec.Timestamp > threshold {
			slog.Info("Duplicate bet found",
				"event_id", eventID,
				"market_id", marketID,
				"selection_id", selectionID,
				"previous_timestamp", rec.Timestamp)
			return true
		}
	}
	return false
}

// RecordParams identifies one placed stake for the ledger.
type RecordParams struct {
	BetID         string
	EventID       string
	MatchName     string
	MarketID      string
	MarketName    string
	MarketLineID  string
	SelectionID   string
	SelectionName string
	Odds          float64
	Stake         float64
}

// Record appends a new "placed" record to the ledger. The record is
// returned even when persistence fails, so the caller can decide whether
// to proceed or retry persistence separately.
func (t *Tracker) Record(ctx context.Context, p RecordParams) (models.StakeRecord, error) {
	record := models.StakeRecord{
		BetID:           p.BetID,
		EventID:         p.EventID,
		MatchName:       p.MatchName,
		MarketID:        p.MarketID,
		MarketName:      p.MarketName,
		MarketLineID:    p.MarketLineID,
		SelectionID:     p.SelectionID,
		SelectionName:   p.SelectionName,
		Odds:            p.Odds,
		Stake:           p.Stake,
		PotentialReturn: models.PotentialReturn(p.Stake, p.Odds),
		Timestamp:       t.clk.Now().Format(timestampLayout),
		Status:          models.BetStatusPlaced,
	}

	t.records = append(t.records, record)

	if err := t.store.Append(ctx, record); err != nil {
		return record, fmt.Errorf("failed to persist stake record: %w", err)
	}

	slog.Info("Recorded successful bet",
		"bet_id", p.BetID,
		"match", p.MatchName,
		"market", p.MarketName,
		"selection", p.SelectionName)
	return record, nil
}

// Place is the atomic check-then-record operation: it refuses duplicates
// and records in one call, so callers cannot forget the guard.
// duplicate=true means nothing was recorded.
func (t *Tracker) Place(ctx context.Context, p RecordParams, windowHours int) (models.StakeRecord, bool, error) {
	if t.IsDuplicate(p.EventID, p.MarketID, p.SelectionID, windowHours) {
		return models.StakeRecord{}, true, nil
	}
	record, err := t.Record(ctx, p)
	return record, false, err
}

// UpdateStatus transitions a record's status. Any status string is
// accepted; the sportsbook invents its own. Returns false when no record
// with the bet id exists.
func (t *Tracker) UpdateStatus(ctx context.Context, betID, status string) (bool, error) {
	updatedAt := t.clk.Now().Format(timestampLayout)

	found := false
	for i := range t.records {
		if t.records[i].BetID == betID {
			t.records[i].Status = status
			t.records[i].StatusUpdated = updatedAt
			found = true
			break
		}
	}
	if !found {
		slog.Debug("Bet not found in ledger", "bet_id", betID)
		return false, nil
	}

	ok, err := t.store.UpdateStatus(ctx, betID, status, updatedAt)
	if err != nil {
		return true, fmt.Errorf("failed to persist status update: %w", err)
	}
	if !ok {
		// In-memory and store disagree; treat the in-memory view as truth
		// for this run but surface the mismatch.
		return true, fmt.Errorf("bet %s updated in memory but not found in store", betID)
	}

	slog.Info("Updated bet status", "bet_id", betID, "status", status)
	return true, nil
}

// History returns ledger records, newest last. hours <= 0 returns the full
// ledger; otherwise only records newer than the window.
func (t *Tracker) History(hours int) []models.StakeRecord {
	if hours <= 0 {
		out := make([]models.StakeRecord, len(t.records))
		copy(out, t.records)
		return out
	}

	threshold := t.clk.Now().Add(-time.Duration(hours) * time.Hour).Format(timestampLayout)
	var out []models.StakeRecord
	for _, rec := range t.records {
		if rec.Timestamp > threshold {
			out = append(out, rec)
		}
	}
	return out
}

// Summary aggregates betting activity across the whole ledger.
type Summary struct {
	TotalBets       int
	TotalStake      float64
	PotentialReturn float64
	StatusCounts    map[string]int
	Recent24hCount  int
	Recent24hStake  float64
}

func (t *Tracker) Summary() Summary {
	s := Summary{StatusCounts: make(map[string]int)}
	for _, rec := range t.records {
		s.TotalBets++
		s.TotalStake += rec.Stake
		s.PotentialReturn += rec.PotentialReturn
		status := rec.Status
		if status == "" {
			status = models.BetStatusUnknown
		}
		s.StatusCounts[status]++
	}
	for _, rec := range t.History(24) {
		s.Recent24hCount++
		s.Recent24hStake += rec.Stake
	}
	return s
}
