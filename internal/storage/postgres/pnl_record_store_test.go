package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

func createTestPnLRecord(signalID, day string, closeTimeMs int64, pnlUSD float64) *domain.PnLRecord {
	return &domain.PnLRecord{
		SignalID:    signalID,
		Mint:        "So11111111111111111111111111111111111111112",
		Mode:        domain.ModeScalp,
		Tier:        "A",
		EntryPrice:  2.0,
		ExitPrice:   2.2,
		SizeUSD:     500.0,
		FeesUSD:     1.1,
		PnLUSD:      pnlUSD,
		ROI:         pnlUSD / 500.0,
		ExitReason:  domain.ExitTP,
		HoldSeconds: 120,
		CloseTimeMs: closeTimeMs,
		EntryDayUTC: day,
		FillStatus:  domain.FillStatusFilled,
	}
}

func TestPnLRecordStore_InsertAndGetBySignalID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPnLRecordStore(pool)

	record := createTestPnLRecord("sig-001", "2024-01-01", 1000, 48.9)

	err := store.Insert(ctx, record)
	require.NoError(t, err)

	retrieved, err := store.GetBySignalID(ctx, "sig-001")
	require.NoError(t, err)

	assert.Equal(t, record.SignalID, retrieved.SignalID)
	assert.Equal(t, record.Mint, retrieved.Mint)
	assert.Equal(t, record.Mode, retrieved.Mode)
	assert.Equal(t, record.Tier, retrieved.Tier)
	assert.InDelta(t, record.EntryPrice, retrieved.EntryPrice, 0.0001)
	assert.InDelta(t, record.ExitPrice, retrieved.ExitPrice, 0.0001)
	assert.InDelta(t, record.SizeUSD, retrieved.SizeUSD, 0.0001)
	assert.InDelta(t, record.FeesUSD, retrieved.FeesUSD, 0.0001)
	assert.InDelta(t, record.PnLUSD, retrieved.PnLUSD, 0.0001)
	assert.InDelta(t, record.ROI, retrieved.ROI, 0.0001)
	assert.Equal(t, record.ExitReason, retrieved.ExitReason)
	assert.Equal(t, record.HoldSeconds, retrieved.HoldSeconds)
	assert.Equal(t, record.CloseTimeMs, retrieved.CloseTimeMs)
	assert.Equal(t, record.EntryDayUTC, retrieved.EntryDayUTC)
	assert.Equal(t, record.FillStatus, retrieved.FillStatus)
}

func TestPnLRecordStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPnLRecordStore(pool)

	record := createTestPnLRecord("sig-dup", "2024-01-01", 1000, 10.0)

	err := store.Insert(ctx, record)
	require.NoError(t, err)

	err = store.Insert(ctx, record)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPnLRecordStore_GetByDayOrdered(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPnLRecordStore(pool)

	records := []*domain.PnLRecord{
		createTestPnLRecord("sig-b", "2024-01-01", 2000, 10.0),
		createTestPnLRecord("sig-a", "2024-01-01", 1000, -5.0),
		createTestPnLRecord("sig-other-day", "2024-01-02", 1500, 3.0),
		createTestPnLRecord("sig-c", "2024-01-01", 2000, 7.0),
	}
	require.NoError(t, store.InsertBulk(ctx, records))

	day, err := store.GetByDay(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, day, 3)

	// close_time_ms ASC, signal_id tiebreak
	assert.Equal(t, "sig-a", day[0].SignalID)
	assert.Equal(t, "sig-b", day[1].SignalID)
	assert.Equal(t, "sig-c", day[2].SignalID)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestPnLRecordStore_InsertBulkAtomicity(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPnLRecordStore(pool)

	require.NoError(t, store.Insert(ctx, createTestPnLRecord("sig-existing", "2024-01-01", 1000, 1.0)))

	batch := []*domain.PnLRecord{
		createTestPnLRecord("sig-new", "2024-01-01", 2000, 2.0),
		createTestPnLRecord("sig-existing", "2024-01-01", 3000, 3.0),
	}

	err := store.InsertBulk(ctx, batch)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = store.GetBySignalID(ctx, "sig-new")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
