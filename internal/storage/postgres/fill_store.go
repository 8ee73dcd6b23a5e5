package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

const fillColumns = `
	signal_id, status, reason, fill_price, slippage_bps,
	latency_ms, filled_fraction, filled_usd, fill_time_ms
`

// FillStore implements storage.FillStore using PostgreSQL.
type FillStore struct {
	pool *Pool
}

// NewFillStore creates a new FillStore.
func NewFillStore(pool *Pool) *FillStore {
	return &FillStore{pool: pool}
}

// Compile-time interface check.
var _ storage.FillStore = (*FillStore)(nil)

// Insert adds a new fill. Returns ErrDuplicateKey if signal_id exists.
func (s *FillStore) Insert(ctx context.Context, f *domain.SimulatedFill) error {
	query := `
		INSERT INTO fills (
			signal_id, status, reason, fill_price, slippage_bps,
			latency_ms, filled_fraction, filled_usd, fill_time_ms
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9
		)
	`

	_, err := s.pool.Exec(ctx, query,
		f.SignalID, string(f.Status), string(f.Reason), f.FillPrice, f.SlippageBps,
		f.LatencyMs, f.FilledFraction, f.FilledUSD, f.FillTimeMs,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert fill: %w", err)
	}
	return nil
}

// GetBySignalID retrieves a fill by its signal ID. Returns ErrNotFound if not exists.
func (s *FillStore) GetBySignalID(ctx context.Context, signalID string) (*domain.SimulatedFill, error) {
	query := `SELECT ` + fillColumns + ` FROM fills WHERE signal_id = $1`

	row := s.pool.QueryRow(ctx, query, signalID)
	f, err := scanFill(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get fill by signal id: %w", err)
	}
	return f, nil
}

// GetByStatus retrieves all fills with the given status, ordered by fill time ASC.
func (s *FillStore) GetByStatus(ctx context.Context, status domain.FillStatus) ([]*domain.SimulatedFill, error) {
	query := `
		SELECT ` + fillColumns + `
		FROM fills
		WHERE status = $1
		ORDER BY fill_time_ms ASC, signal_id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("get fills by status: %w", err)
	}
	defer rows.Close()

	var fills []*domain.SimulatedFill
	for rows.Next() {
		f, err := scanFill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fill row: %w", err)
		}
		fills = append(fills, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fill rows: %w", err)
	}

	return fills, nil
}

// scanFill scans a single row into a SimulatedFill.
func scanFill(row pgx.Row) (*domain.SimulatedFill, error) {
	var f domain.SimulatedFill
	var status, reason string

	err := row.Scan(
		&f.SignalID, &status, &reason, &f.FillPrice, &f.SlippageBps,
		&f.LatencyMs, &f.FilledFraction, &f.FilledUSD, &f.FillTimeMs,
	)
	if err != nil {
		return nil, err
	}

	f.Status = domain.FillStatus(status)
	f.Reason = domain.Reason(reason)
	return &f, nil
}
