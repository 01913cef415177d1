package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tencric/cricbet/internal/pkg/clock"
	"github.com/tencric/cricbet/internal/pkg/models"
)

// memStore is an in-memory LedgerStore for tests.
type memStore struct {
	records   []models.StakeRecord
	appendErr error
}

func (s *memStore) Load(_ context.Context) ([]models.StakeRecord, error) {
	out := make([]models.StakeRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *memStore) Append(_ context.Context, record models.StakeRecord) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.records = append(s.records, record)
	return nil
}

func (s *memStore) UpdateStatus(_ context.Context, betID, status, updatedAt string) (bool, error) {
	for i := range s.records {
		if s.records[i].BetID == betID {
			s.records[i].Status = status
			s.records[i].StatusUpdated = updatedAt
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Close() error { return nil }

var testNow = time.Date(2025, 4, 12, 19, 45, 0, 0, time.UTC)

func newTestTracker(t *testing.T, store *memStore) *Tracker {
	t.Helper()
	tracker, err := NewTracker(context.Background(), store, clock.At(testNow))
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	return tracker
}

func record(betID, eventID, marketID, selectionID string, placedAt time.Time) models.StakeRecord {
	return models.StakeRecord{
		BetID:       betID,
		EventID:     eventID,
		MarketID:    marketID,
		SelectionID: selectionID,
		Stake:       100,
		Odds:        1.9,
		Timestamp:   placedAt.Format(time.RFC3339),
		Status:      models.BetStatusPlaced,
	}
}

func TestIsDuplicateWindow(t *testing.T) {
	tests := []struct {
		name     string
		placedAt time.Time
		want     bool
	}{
		{"one hour ago", testNow.Add(-1 * time.Hour), true},
		{"just inside window", testNow.Add(-24*time.Hour + time.Second), true},
		// The boundary itself is outside the window.
		{"exactly on boundary", testNow.Add(-24 * time.Hour), false},
		{"outside window", testNow.Add(-25 * time.Hour), false},
	}

	for _, tt := range tests {
		store := &memStore{records: []models.StakeRecord{
			record("b1", "e1", "m1", "s1", tt.placedAt),
		}}
		tracker := newTestTracker(t, store)

		if got := tracker.IsDuplicate("e1", "m1", "s1", 24); got != tt.want {
			t.Errorf("%s: IsDuplicate = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsDuplicateKeyFields(t *testing.T) {
	store := &memStore{records: []models.StakeRecord{
		record("b1", "e1", "m1", "s1", testNow.Add(-time.Hour)),
	}}
	tracker := newTestTracker(t, store)

	tests := []struct {
		eventID, marketID, selectionID string
		want                           bool
	}{
		{"e1", "m1", "s1", true},
		{"e2", "m1", "s1", false},
		{"e1", "m2", "s1", false},
		{"e1", "m1", "s2", false},
	}
	for _, tt := range tests {
		if got := tracker.IsDuplicate(tt.eventID, tt.marketID, tt.selectionID, 24); got != tt.want {
			t.Errorf("IsDuplicate(%q, %q, %q) = %v, want %v",
				tt.eventID, tt.marketID, tt.selectionID, got, tt.want)
		}
	}
}

func TestRecordComputesDerivedFields(t *testing.T) {
	store := &memStore{}
	tracker := newTestTracker(t, store)

	rec, err := tracker.Record(context.Background(), RecordParams{
		BetID:       "b1",
		EventID:     "e1",
		MarketID:    "m1",
		SelectionID: "s1",
		Odds:        1.9,
		Stake:       90,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if rec.PotentialReturn != 171.0 {
		t.Errorf("potential return = %v, want 171.0", rec.PotentialReturn)
	}
	if rec.Status != models.BetStatusPlaced {
		t.Errorf("status = %q, want %q", rec.Status, models.BetStatusPlaced)
	}
	if rec.Timestamp != testNow.Format(time.RFC3339) {
		t.Errorf("timestamp = %q, want %q", rec.Timestamp, testNow.Format(time.RFC3339))
	}
	if len(store.records) != 1 {
		t.Errorf("store holds %d records, want 1", len(store.records))
	}

	// The fresh record must immediately trip the duplicate guard.
	if !tracker.IsDuplicate("e1", "m1", "s1", 24) {
		t.Error("record not visible to IsDuplicate")
	}
}

func TestRecordReturnsRecordOnPersistFailure(t *testing.T) {
	store := &memStore{appendErr: errors.New("disk full")}
	tracker := newTestTracker(t, store)

	rec, err := tracker.Record(context.Background(), RecordParams{
		BetID: "b1", EventID: "e1", MarketID: "m1", SelectionID: "s1",
		Odds: 2.0, Stake: 100,
	})
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if rec.BetID != "b1" {
		t.Errorf("record not returned alongside error: %+v", rec)
	}
	// The in-memory copy still guards against re-placing in this run.
	if !tracker.IsDuplicate("e1", "m1", "s1", 24) {
		t.Error("unpersisted record not visible to IsDuplicate")
	}
}

func TestPlaceRefusesDuplicate(t *testing.T) {
	store := &memStore{}
	tracker := newTestTracker(t, store)

	params := RecordParams{
		BetID: "b1", EventID: "e1", MarketID: "m1", SelectionID: "s1",
		Odds: 1.9, Stake: 100,
	}

	_, duplicate, err := tracker.Place(context.Background(), params, 24)
	if err != nil || duplicate {
		t.Fatalf("first Place: duplicate=%v err=%v", duplicate, err)
	}

	params.BetID = "b2"
	_, duplicate, err = tracker.Place(context.Background(), params, 24)
	if err != nil {
		t.Fatalf("second Place: %v", err)
	}
	if !duplicate {
		t.Error("second Place not flagged as duplicate")
	}
	if len(store.records) != 1 {
		t.Errorf("store holds %d records, want 1", len(store.records))
	}
}

func TestUpdateStatus(t *testing.T) {
	store := &memStore{records: []models.StakeRecord{
		record("b1", "e1", "m1", "s1", testNow.Add(-time.Hour)),
	}}
	tracker := newTestTracker(t, store)

	ok, err := tracker.UpdateStatus(context.Background(), "b1", models.BetStatusWon)
	if err != nil || !ok {
		t.Fatalf("UpdateStatus = (%v, %v)", ok, err)
	}
	if store.records[0].Status != models.BetStatusWon {
		t.Errorf("store status = %q, want won", store.records[0].Status)
	}
	if store.records[0].StatusUpdated != testNow.Format(time.RFC3339) {
		t.Errorf("status_updated = %q", store.records[0].StatusUpdated)
	}

	ok, err = tracker.UpdateStatus(context.Background(), "missing", models.BetStatusWon)
	if err != nil {
		t.Fatalf("UpdateStatus missing: %v", err)
	}
	if ok {
		t.Error("UpdateStatus reported true for unknown bet id")
	}
}

func TestHistoryAndSummary(t *testing.T) {
	store := &memStore{records: []models.StakeRecord{
		record("b1", "e1", "m1", "s1", testNow.Add(-48*time.Hour)),
		record("b2", "e1", "m1", "s2", testNow.Add(-2*time.Hour)),
		record("b3", "e2", "m2", "s3", testNow.Add(-1*time.Hour)),
	}}
	tracker := newTestTracker(t, store)

	if got := len(tracker.History(0)); got != 3 {
		t.Errorf("full history = %d records, want 3", got)
	}
	if got := len(tracker.History(24)); got != 2 {
		t.Errorf("24h history = %d records, want 2", got)
	}

	s := tracker.Summary()
	if s.TotalBets != 3 {
		t.Errorf("total bets = %d, want 3", s.TotalBets)
	}
	if s.TotalStake != 300 {
		t.Errorf("total stake = %v, want 300", s.TotalStake)
	}
	if s.Recent24hCount != 2 || s.Recent24hStake != 200 {
		t.Errorf("recent = %d/%v, want 2/200", s.Recent24hCount, s.Recent24hStake)
	}
	if s.StatusCounts[models.BetStatusPlaced] != 3 {
		t.Errorf("status counts = %v", s.StatusCounts)
	}
}
