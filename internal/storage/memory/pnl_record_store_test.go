package memory

import (
	"context"
	"errors"
	"testing"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

func TestPnLRecordStore_InsertAndGet(t *testing.T) {
	store := NewPnLRecordStore()
	ctx := context.Background()

	r := &domain.PnLRecord{
		SignalID:    "sig1",
		Mint:        "mint1",
		PnLUSD:      12.5,
		CloseTimeMs: 1000,
		EntryDayUTC: "2024-01-01",
	}

	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetBySignalID(ctx, "sig1")
	if err != nil {
		t.Fatalf("GetBySignalID failed: %v", err)
	}
	if got.PnLUSD != 12.5 {
		t.Errorf("PnLUSD mismatch: got %f, want 12.5", got.PnLUSD)
	}

	if err := store.Insert(ctx, r); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestPnLRecordStore_GetByDay(t *testing.T) {
	store := NewPnLRecordStore()
	ctx := context.Background()

	batch := []*domain.PnLRecord{
		{SignalID: "b", CloseTimeMs: 2000, EntryDayUTC: "2024-01-01"},
		{SignalID: "a", CloseTimeMs: 1000, EntryDayUTC: "2024-01-01"},
		{SignalID: "c", CloseTimeMs: 1500, EntryDayUTC: "2024-01-02"},
	}
	if err := store.InsertBulk(ctx, batch); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	day1, err := store.GetByDay(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("GetByDay failed: %v", err)
	}
	if len(day1) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(day1))
	}
	if day1[0].SignalID != "a" || day1[1].SignalID != "b" {
		t.Errorf("Expected close-time order [a b], got [%s %s]", day1[0].SignalID, day1[1].SignalID)
	}

	none, err := store.GetByDay(ctx, "2024-02-01")
	if err != nil {
		t.Fatalf("GetByDay failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no records, got %d", len(none))
	}
}

func TestPnLRecordStore_GetAll_TiebreakBySignalID(t *testing.T) {
	store := NewPnLRecordStore()
	ctx := context.Background()

	batch := []*domain.PnLRecord{
		{SignalID: "z", CloseTimeMs: 1000, EntryDayUTC: "2024-01-01"},
		{SignalID: "a", CloseTimeMs: 1000, EntryDayUTC: "2024-01-01"},
	}
	if err := store.InsertBulk(ctx, batch); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if all[0].SignalID != "a" || all[1].SignalID != "z" {
		t.Errorf("Expected signal-id tiebreak [a z], got [%s %s]", all[0].SignalID, all[1].SignalID)
	}
}

func TestFillStore_Roundtrip(t *testing.T) {
	store := NewFillStore()
	ctx := context.Background()

	f := &domain.SimulatedFill{
		SignalID:   "sig1",
		Status:     domain.FillStatusFilled,
		FillPrice:  2.0,
		FilledUSD:  500,
		FillTimeMs: 1000,
	}

	if err := store.Insert(ctx, f); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, f); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	got, err := store.GetBySignalID(ctx, "sig1")
	if err != nil {
		t.Fatalf("GetBySignalID failed: %v", err)
	}
	if got.FillPrice != 2.0 {
		t.Errorf("FillPrice mismatch: got %f, want 2.0", got.FillPrice)
	}

	filled, err := store.GetByStatus(ctx, domain.FillStatusFilled)
	if err != nil {
		t.Fatalf("GetByStatus failed: %v", err)
	}
	if len(filled) != 1 {
		t.Errorf("Expected 1 filled fill, got %d", len(filled))
	}

	none, err := store.GetByStatus(ctx, domain.FillStatusNone)
	if err != nil {
		t.Fatalf("GetByStatus failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no rejected fills, got %d", len(none))
	}
}
