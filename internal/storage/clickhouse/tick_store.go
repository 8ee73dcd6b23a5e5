package clickhouse

import (
	"context"
	"fmt"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

// TickStore implements storage.TickStore using ClickHouse.
// MergeTree does not enforce uniqueness, so duplicates are rejected by
// explicit checks before the batch insert.
type TickStore struct {
	conn *Conn
}

// NewTickStore creates a new TickStore.
func NewTickStore(conn *Conn) *TickStore {
	return &TickStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TickStore = (*TickStore)(nil)

// InsertBulk adds multiple ticks for a mint. Fails entire batch on duplicate (mint, timestamp_ms).
func (s *TickStore) InsertBulk(ctx context.Context, mint string, ticks []*domain.PriceTick) error {
	if mint == "" {
		return storage.ErrInvalidInput
	}
	if len(ticks) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[int64]struct{}, len(ticks))
	for _, tick := range ticks {
		if tick == nil {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[tick.TimestampMs]; exists {
			return storage.ErrDuplicateKey
		}
		seen[tick.TimestampMs] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, tick := range ticks {
		exists, err := s.exists(ctx, mint, tick.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_ticks (
			mint, timestamp_ms, price, volume
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, tick := range ticks {
		err = batch.Append(mint, uint64(tick.TimestampMs), tick.Price, tick.Volume)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByMint retrieves all ticks for a mint, ordered by timestamp ASC.
func (s *TickStore) GetByMint(ctx context.Context, mint string) ([]*domain.PriceTick, error) {
	query := `
		SELECT timestamp_ms, price, volume
		FROM price_ticks
		WHERE mint = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("query by mint: %w", err)
	}
	defer rows.Close()

	return scanTicks(rows)
}

// GetByTimeRange retrieves ticks for a mint within [start, end] (inclusive).
func (s *TickStore) GetByTimeRange(ctx context.Context, mint string, start, end int64) ([]*domain.PriceTick, error) {
	query := `
		SELECT timestamp_ms, price, volume
		FROM price_ticks
		WHERE mint = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, mint, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanTicks(rows)
}

// exists checks if a tick with the given key exists.
func (s *TickStore) exists(ctx context.Context, mint string, timestampMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM price_ticks
		WHERE mint = ? AND timestamp_ms = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, mint, uint64(timestampMs)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanTicks scans multiple rows.
func scanTicks(rows chRows) ([]*domain.PriceTick, error) {
	var ticks []*domain.PriceTick

	for rows.Next() {
		var tick domain.PriceTick
		var timestampMs uint64

		if err := rows.Scan(&timestampMs, &tick.Price, &tick.Volume); err != nil {
			return nil, fmt.Errorf("scan tick row: %w", err)
		}

		tick.TimestampMs = int64(timestampMs)
		ticks = append(ticks, &tick)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tick rows: %w", err)
	}

	return ticks, nil
}
