package pnl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-copytrade-lab/internal/domain"
)

func dayRec(id, day string, closeMs int64, pnl float64, mode domain.Mode, tier string, exit domain.ExitReason, status domain.FillStatus) *domain.PnLRecord {
	return &domain.PnLRecord{
		SignalID:    id,
		Mint:        "mint-1",
		Mode:        mode,
		Tier:        tier,
		PnLUSD:      pnl,
		ROI:         pnl / 100,
		FeesUSD:     0.5,
		ExitReason:  exit,
		CloseTimeMs: closeMs,
		EntryDayUTC: day,
		FillStatus:  status,
	}
}

func TestAggregate_Empty(t *testing.T) {
	_, _, err := NewAggregator().Aggregate(nil)
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestAggregate_DayGrouping(t *testing.T) {
	records := []*domain.PnLRecord{
		dayRec("a", "2024-01-02", 3000, 10, domain.ModeScalp, "S", domain.ExitTP, domain.FillStatusFilled),
		dayRec("b", "2024-01-01", 1000, -5, domain.ModeUltra, "A", domain.ExitSL, domain.FillStatusFilled),
		dayRec("c", "2024-01-01", 2000, 8, domain.ModeScalp, "S", domain.ExitTP, domain.FillStatusPartial),
	}

	daily, totals, err := NewAggregator().Aggregate(records)
	require.NoError(t, err)
	require.Len(t, daily, 2)

	// Days sorted ascending.
	assert.Equal(t, "2024-01-01", daily[0].Day)
	assert.Equal(t, "2024-01-02", daily[1].Day)

	d0 := daily[0]
	assert.Equal(t, 2, d0.Trades)
	assert.Equal(t, 1, d0.Wins)
	assert.InDelta(t, 3.0, d0.TotalPnLUSD, 1e-9)
	assert.Equal(t, 1, d0.PartialFills)
	assert.InDelta(t, 0.5, d0.FillRate, 1e-9)
	assert.Equal(t, 1, d0.ExitReasons[domain.ExitSL])
	assert.Equal(t, 1, d0.ExitReasons[domain.ExitTP])
	// Loss lands first chronologically: peak 0, trough -5.
	assert.InDelta(t, 5.0, d0.MaxDrawdownUSD, 1e-9)

	require.NotNil(t, totals)
	assert.Equal(t, 3, totals.Trades)
	assert.Equal(t, 2, totals.Days)
	assert.InDelta(t, 13.0, totals.TotalPnLUSD, 1e-9)
	assert.Equal(t, 1, totals.MaxConsecutiveLosses)
}

func TestAggregate_ModeAndTierBreakdowns(t *testing.T) {
	records := []*domain.PnLRecord{
		dayRec("a", "2024-01-01", 1000, 10, domain.ModeScalp, "S", domain.ExitTP, domain.FillStatusFilled),
		dayRec("b", "2024-01-01", 2000, -5, domain.ModeScalp, "A", domain.ExitSL, domain.FillStatusFilled),
		dayRec("c", "2024-01-01", 3000, 4, domain.ModeUltra, "S", domain.ExitTTL, domain.FillStatusFilled),
	}

	daily, _, err := NewAggregator().Aggregate(records)
	require.NoError(t, err)
	require.Len(t, daily, 1)

	d := daily[0]
	require.Contains(t, d.ByMode, domain.ModeScalp)
	assert.Equal(t, 2, d.ByMode[domain.ModeScalp].Trades)
	assert.InDelta(t, 5.0, d.ByMode[domain.ModeScalp].TotalPnLUSD, 1e-9)
	assert.Equal(t, 1, d.ByMode[domain.ModeUltra].Trades)

	require.Contains(t, d.ByTier, "S")
	assert.Equal(t, 2, d.ByTier["S"].Trades)
	assert.InDelta(t, 14.0, d.ByTier["S"].TotalPnLUSD, 1e-9)
	assert.Equal(t, 1, d.ByTier["A"].Trades)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	records := []*domain.PnLRecord{
		dayRec("a", "2024-01-01", 1000, 10, domain.ModeScalp, "S", domain.ExitTP, domain.FillStatusFilled),
		dayRec("b", "2024-01-01", 2000, -5, domain.ModeUltra, "A", domain.ExitSL, domain.FillStatusFilled),
		dayRec("c", "2024-01-01", 3000, 4, domain.ModeScalp, "S", domain.ExitTTL, domain.FillStatusPartial),
	}
	reversed := []*domain.PnLRecord{records[2], records[1], records[0]}

	d1, t1, err := NewAggregator().Aggregate(records)
	require.NoError(t, err)
	d2, t2, err := NewAggregator().Aggregate(reversed)
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.Equal(t, t1, t2)
}
