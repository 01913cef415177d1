package storage

import (
	"context"

	"github.com/tencric/cricbet/internal/pkg/models"
)

// LedgerStore persists the append-only stake ledger. Records are only ever
// appended or status-updated, never deleted.
type LedgerStore interface {
	// Load returns all ledger records in append order.
	Load(ctx context.Context) ([]models.StakeRecord, error)

	// Append adds one record to the end of the ledger.
	Append(ctx context.Context, record models.StakeRecord) error

	// UpdateStatus sets status and status_updated on the record with the
	// given bet id. Returns false if no such record exists.
	UpdateStatus(ctx context.Context, betID, status, updatedAt string) (bool, error)

	// Close releases any underlying resources.
	Close() error
}

// PolicyStore persists the sanction policy document (settings plus the
// last-computed selected_bets snapshot).
type PolicyStore interface {
	// Load returns the policy document, creating and persisting the default
	// document when none exists yet.
	Load(ctx context.Context) (*models.PolicyDocument, error)

	// Save overwrites the policy document.
	Save(ctx context.Context, doc *models.PolicyDocument) error
}
