package memory

import (
	"context"
	"errors"
	"testing"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

func TestDecisionStore_InsertAndGet(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()

	d := &domain.Decision{
		SignalID:    "sig1",
		Wallet:      "wallet1",
		Mint:        "mint1",
		Verdict:     domain.VerdictEnter,
		Mode:        domain.ModeScalp,
		SizeUSD:     200,
		EventTimeMs: 1000,
	}

	if err := store.Insert(ctx, d); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetBySignalID(ctx, "sig1")
	if err != nil {
		t.Fatalf("GetBySignalID failed: %v", err)
	}

	if got.SizeUSD != 200 {
		t.Errorf("SizeUSD mismatch: got %f, want %f", got.SizeUSD, 200.0)
	}
}

func TestDecisionStore_DuplicateKey(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()

	d := &domain.Decision{SignalID: "sig1", Verdict: domain.VerdictSkip}

	if err := store.Insert(ctx, d); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, d)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestDecisionStore_NotFound(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()

	_, err := store.GetBySignalID(ctx, "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDecisionStore_InvalidInput(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(ctx, &domain.Decision{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty signal_id, got %v", err)
	}
}

func TestDecisionStore_InsertBulk_IntraBatchDuplicate(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()

	batch := []*domain.Decision{
		{SignalID: "sig1", Verdict: domain.VerdictSkip},
		{SignalID: "sig1", Verdict: domain.VerdictSkip},
	}

	if err := store.InsertBulk(ctx, batch); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// Atomic failure: nothing inserted.
	if _, err := store.GetBySignalID(ctx, "sig1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected empty store after failed batch, got %v", err)
	}
}

func TestDecisionStore_GetByVerdict_SortedByEventTime(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()

	batch := []*domain.Decision{
		{SignalID: "b", Verdict: domain.VerdictSkip, EventTimeMs: 2000},
		{SignalID: "a", Verdict: domain.VerdictSkip, EventTimeMs: 1000},
		{SignalID: "c", Verdict: domain.VerdictEnter, EventTimeMs: 1500},
	}
	if err := store.InsertBulk(ctx, batch); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	skips, err := store.GetByVerdict(ctx, domain.VerdictSkip)
	if err != nil {
		t.Fatalf("GetByVerdict failed: %v", err)
	}
	if len(skips) != 2 {
		t.Fatalf("Expected 2 skips, got %d", len(skips))
	}
	if skips[0].SignalID != "a" || skips[1].SignalID != "b" {
		t.Errorf("Expected [a b], got [%s %s]", skips[0].SignalID, skips[1].SignalID)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 decisions, got %d", len(all))
	}
}

func TestDecisionStore_ReturnsCopies(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()

	d := &domain.Decision{SignalID: "sig1", Verdict: domain.VerdictEnter, SizeUSD: 100}
	if err := store.Insert(ctx, d); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, _ := store.GetBySignalID(ctx, "sig1")
	got.SizeUSD = 999

	again, _ := store.GetBySignalID(ctx, "sig1")
	if again.SizeUSD != 100 {
		t.Errorf("Store must return copies: got %f, want 100", again.SizeUSD)
	}
}
