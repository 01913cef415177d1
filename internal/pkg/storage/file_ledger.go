package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/tencric/cricbet/internal/pkg/models"
)

// Ensure FileLedger implements LedgerStore
var _ LedgerStore = (*FileLedger)(nil)

// FileLedger stores the stake ledger as a JSON array in a single file.
// Every write rewrites the whole file; runs do not overlap (external cron
// cadence), so there is no cross-process locking.
type FileLedger struct {
	path string
	mu   sync.Mutex
}

// NewFileLedger creates a file-backed ledger store. The file is created
// lazily on first append.
func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path}
}

func (s *FileLedger) Load(_ context.Context) ([]models.StakeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileLedger) load() ([]models.StakeRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	var records []models.StakeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse ledger file: %w", err)
	}
	return records, nil
}

func (s *FileLedger) save(records []models.StakeRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	return nil
}

func (s *FileLedger) Append(_ context.Context, record models.StakeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records = append(records, record)
	return s.save(records)
}

func (s *FileLedger) UpdateStatus(_ context.Context, betID, status, updatedAt string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return false, err
	}
	for i := range records {
		if records[i].BetID == betID {
			records[i].Status = status
			records[i].StatusUpdated = updatedAt
			return true, s.save(records)
		}
	}
	return false, nil
}

func (s *FileLedger) Close() error { return nil }
