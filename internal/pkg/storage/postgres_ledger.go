package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/tencric/cricbet/internal/pkg/config"
	"github.com/tencric/cricbet/internal/pkg/models"
)

// Ensure PostgresLedger implements LedgerStore
var _ LedgerStore = (*PostgresLedger)(nil)

// PostgresLedger stores the stake ledger in PostgreSQL. Same contract as
// FileLedger, for deployments where the ledger must survive the host.
type PostgresLedger struct {
	db *sql.DB
}

// NewPostgresLedger opens a PostgreSQL-backed ledger store and bootstraps
// the schema.
func NewPostgresLedger(cfg *config.PostgresConfig) (*PostgresLedger, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	store := &PostgresLedger{db: db}
	if err := store.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL ledger store initialized")
	return store, nil
}

func (s *PostgresLedger) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS stake_records (
		id SERIAL PRIMARY KEY,
		bet_id VARCHAR(100) NOT NULL UNIQUE,
		event_id VARCHAR(100) NOT NULL,
		match_name VARCHAR(500) NOT NULL,
		market_id VARCHAR(100) NOT NULL,
		market_name VARCHAR(500) NOT NULL,
		market_line_id VARCHAR(100) NOT NULL,
		selection_id VARCHAR(100) NOT NULL,
		selection_name VARCHAR(500) NOT NULL,
		odds DECIMAL(10, 4) NOT NULL,
		stake DECIMAL(12, 2) NOT NULL,
		potential_return DECIMAL(12, 2) NOT NULL,
		placed_at VARCHAR(40) NOT NULL,
		status VARCHAR(50) NOT NULL,
		status_updated VARCHAR(40) NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_stake_records_dedup ON stake_records(event_id, market_id, selection_id, placed_at);
	CREATE INDEX IF NOT EXISTS idx_stake_records_placed_at ON stake_records(placed_at DESC);
	`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *PostgresLedger) Load(ctx context.Context) ([]models.StakeRecord, error) {
	query := `
	SELECT bet_id, event_id, match_name, market_id, market_name,
	       market_line_id, selection_id, selection_name,
	       odds, stake, potential_return, placed_at, status, status_updated
	FROM stake_records
	ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	var records []models.StakeRecord
	for rows.Next() {
		var r models.StakeRecord
		err := rows.Scan(
			&r.BetID,
			&r.EventID,
			&r.MatchName,
			&r.MarketID,
			&r.MarketName,
			&r.MarketLineID,
			&r.SelectionID,
			&r.SelectionName,
			&r.Odds,
			&r.Stake,
			&r.PotentialReturn,
			&r.Timestamp,
			&r.Status,
			&r.StatusUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stake record: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return records, nil
}

func (s *PostgresLedger) Append(ctx context.Context, record models.StakeRecord) error {
	query := `
	INSERT INTO stake_records (
		bet_id, event_id, match_name, market_id, market_name,
		market_line_id, selection_id, selection_name,
		odds, stake, potential_return, placed_at, status, status_updated
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.BetID,
		record.EventID,
		record.MatchName,
		record.MarketID,
		record.MarketName,
		record.MarketLineID,
		record.SelectionID,
		record.SelectionName,
		record.Odds,
		record.Stake,
		record.PotentialReturn,
		record.Timestamp,
		record.Status,
		record.StatusUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to append stake record: %w", err)
	}
	return nil
}

func (s *PostgresLedger) UpdateStatus(ctx context.Context, betID, status, updatedAt string) (bool, error) {
	query := `
	UPDATE stake_records
	SET status = $2, status_updated = $3
	WHERE bet_id = $1
	`

	res, err := s.db.ExecContext(ctx, query, betID, status, updatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to update stake record status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

func (s *PostgresLedger) Close() error {
	return s.db.Close()
}
