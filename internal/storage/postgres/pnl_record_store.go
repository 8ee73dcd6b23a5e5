package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

const pnlRecordColumns = `
	signal_id, mint, mode, tier, entry_price, exit_price,
	size_usd, fees_usd, pnl_usd, roi, exit_reason,
	hold_seconds, close_time_ms, entry_day_utc, fill_status
`

const insertPnLRecordQuery = `
	INSERT INTO pnl_records (
		signal_id, mint, mode, tier, entry_price, exit_price,
		size_usd, fees_usd, pnl_usd, roi, exit_reason,
		hold_seconds, close_time_ms, entry_day_utc, fill_status
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11,
		$12, $13, $14, $15
	)
`

// PnLRecordStore implements storage.PnLRecordStore using PostgreSQL.
type PnLRecordStore struct {
	pool *Pool
}

// NewPnLRecordStore creates a new PnLRecordStore.
func NewPnLRecordStore(pool *Pool) *PnLRecordStore {
	return &PnLRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PnLRecordStore = (*PnLRecordStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if signal_id exists.
func (s *PnLRecordStore) Insert(ctx context.Context, r *domain.PnLRecord) error {
	_, err := s.pool.Exec(ctx, insertPnLRecordQuery, pnlRecordArgs(r)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert pnl record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *PnLRecordStore) InsertBulk(ctx context.Context, records []*domain.PnLRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		if _, err := tx.Exec(ctx, insertPnLRecordQuery, pnlRecordArgs(r)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert pnl record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetBySignalID retrieves a record by its signal ID. Returns ErrNotFound if not exists.
func (s *PnLRecordStore) GetBySignalID(ctx context.Context, signalID string) (*domain.PnLRecord, error) {
	query := `SELECT ` + pnlRecordColumns + ` FROM pnl_records WHERE signal_id = $1`

	row := s.pool.QueryRow(ctx, query, signalID)
	r, err := scanPnLRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pnl record by signal id: %w", err)
	}
	return r, nil
}

// GetByDay retrieves all records for a UTC entry day, ordered by close time ASC.
func (s *PnLRecordStore) GetByDay(ctx context.Context, day string) ([]*domain.PnLRecord, error) {
	query := `
		SELECT ` + pnlRecordColumns + `
		FROM pnl_records
		WHERE entry_day_utc = $1
		ORDER BY close_time_ms ASC, signal_id ASC
	`

	rows, err := s.pool.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("get pnl records by day: %w", err)
	}
	defer rows.Close()

	return scanPnLRecords(rows)
}

// GetAll retrieves all records, ordered by close time ASC then signal ID.
func (s *PnLRecordStore) GetAll(ctx context.Context) ([]*domain.PnLRecord, error) {
	query := `
		SELECT ` + pnlRecordColumns + `
		FROM pnl_records
		ORDER BY close_time_ms ASC, signal_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all pnl records: %w", err)
	}
	defer rows.Close()

	return scanPnLRecords(rows)
}

func pnlRecordArgs(r *domain.PnLRecord) []any {
	return []any{
		r.SignalID, r.Mint, string(r.Mode), r.Tier, r.EntryPrice, r.ExitPrice,
		r.SizeUSD, r.FeesUSD, r.PnLUSD, r.ROI, string(r.ExitReason),
		r.HoldSeconds, r.CloseTimeMs, r.EntryDayUTC, string(r.FillStatus),
	}
}

// scanPnLRecord scans a single row into a PnLRecord.
func scanPnLRecord(row pgx.Row) (*domain.PnLRecord, error) {
	var r domain.PnLRecord
	var mode, exitReason, fillStatus string

	err := row.Scan(
		&r.SignalID, &r.Mint, &mode, &r.Tier, &r.EntryPrice, &r.ExitPrice,
		&r.SizeUSD, &r.FeesUSD, &r.PnLUSD, &r.ROI, &exitReason,
		&r.HoldSeconds, &r.CloseTimeMs, &r.EntryDayUTC, &fillStatus,
	)
	if err != nil {
		return nil, err
	}

	r.Mode = domain.Mode(mode)
	r.ExitReason = domain.ExitReason(exitReason)
	r.FillStatus = domain.FillStatus(fillStatus)
	return &r, nil
}

// scanPnLRecords scans multiple rows into a slice of PnLRecord.
func scanPnLRecords(rows pgx.Rows) ([]*domain.PnLRecord, error) {
	var records []*domain.PnLRecord

	for rows.Next() {
		r, err := scanPnLRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pnl record row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pnl record rows: %w", err)
	}

	return records, nil
}
