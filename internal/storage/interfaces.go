// Package storage defines the append-only persistence contracts for run
// artifacts: decisions, fills, closed-position records and tick paths.
// Implementations live in the memory, postgres and clickhouse subpackages.
package storage

import (
	"context"

	"solana-copytrade-lab/internal/domain"
)

// DecisionStore provides access to decision storage.
type DecisionStore interface {
	// Insert adds a new decision. Returns ErrDuplicateKey if signal_id exists.
	Insert(ctx context.Context, d *domain.Decision) error

	// InsertBulk adds multiple decisions atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, decisions []*domain.Decision) error

	// GetBySignalID retrieves a decision by its signal ID. Returns ErrNotFound if not exists.
	GetBySignalID(ctx context.Context, signalID string) (*domain.Decision, error)

	// GetByVerdict retrieves all decisions with the given verdict, ordered by event time ASC.
	GetByVerdict(ctx context.Context, verdict domain.Verdict) ([]*domain.Decision, error)

	// GetAll retrieves all decisions, ordered by event time ASC.
	GetAll(ctx context.Context) ([]*domain.Decision, error)
}

// FillStore provides access to simulated fill storage.
type FillStore interface {
	// Insert adds a new fill. Returns ErrDuplicateKey if signal_id exists.
	Insert(ctx context.Context, f *domain.SimulatedFill) error

	// GetBySignalID retrieves a fill by its signal ID. Returns ErrNotFound if not exists.
	GetBySignalID(ctx context.Context, signalID string) (*domain.SimulatedFill, error)

	// GetByStatus retrieves all fills with the given status.
	GetByStatus(ctx context.Context, status domain.FillStatus) ([]*domain.SimulatedFill, error)
}

// PnLRecordStore provides access to closed-position record storage.
type PnLRecordStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if signal_id exists.
	Insert(ctx context.Context, r *domain.PnLRecord) error

	// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, records []*domain.PnLRecord) error

	// GetBySignalID retrieves a record by its signal ID. Returns ErrNotFound if not exists.
	GetBySignalID(ctx context.Context, signalID string) (*domain.PnLRecord, error)

	// GetByDay retrieves all records for a UTC entry day, ordered by close time ASC.
	GetByDay(ctx context.Context, day string) ([]*domain.PnLRecord, error)

	// GetAll retrieves all records, ordered by close time ASC then signal ID.
	GetAll(ctx context.Context) ([]*domain.PnLRecord, error)
}

// TickStore provides access to price tick path storage.
type TickStore interface {
	// InsertBulk adds multiple ticks for a mint. Fails entire batch on duplicate (mint, timestamp_ms).
	InsertBulk(ctx context.Context, mint string, ticks []*domain.PriceTick) error

	// GetByMint retrieves all ticks for a mint, ordered by timestamp ASC.
	GetByMint(ctx context.Context, mint string) ([]*domain.PriceTick, error)

	// GetByTimeRange retrieves ticks for a mint within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, mint string, start, end int64) ([]*domain.PriceTick, error)
}
