// Package pnl aggregates closed-position records into daily metrics and run
// totals. Per-day statistics are order-independent over the day's set except
// drawdown, which is defined over chronological close order.
package pnl

import (
	"errors"
	"sort"

	"solana-copytrade-lab/internal/domain"
)

// ErrNoRecords is returned when no records are available for aggregation.
var ErrNoRecords = errors.New("no pnl records available for aggregation")

// Aggregator computes metrics from closed-position records.
type Aggregator struct{}

// NewAggregator creates a metrics aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate groups records by UTC entry day and computes per-day metrics
// plus run totals. Days come back sorted ascending. Returns ErrNoRecords on
// empty input.
func (a *Aggregator) Aggregate(records []*domain.PnLRecord) ([]*domain.DailyMetrics, *domain.RunTotals, error) {
	if len(records) == 0 {
		return nil, nil, ErrNoRecords
	}

	sorted := sortRecords(records)

	byDay := make(map[string][]*domain.PnLRecord)
	for _, r := range sorted {
		byDay[r.EntryDayUTC] = append(byDay[r.EntryDayUTC], r)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	daily := make([]*domain.DailyMetrics, 0, len(days))
	for _, day := range days {
		daily = append(daily, computeDay(day, byDay[day]))
	}

	return daily, computeTotals(sorted, len(days)), nil
}

// computeDay calculates one day's metrics. dayRecords must already be in
// chronological order.
func computeDay(day string, dayRecords []*domain.PnLRecord) *domain.DailyMetrics {
	m := &domain.DailyMetrics{
		Day:           day,
		BucketMetrics: computeBucket(dayRecords),
		ExitReasons:   make(map[domain.ExitReason]int),
		ByMode:        make(map[domain.Mode]*domain.BucketMetrics),
		ByTier:        make(map[string]*domain.BucketMetrics),
	}

	byMode := make(map[domain.Mode][]*domain.PnLRecord)
	byTier := make(map[string][]*domain.PnLRecord)
	for _, r := range dayRecords {
		m.ExitReasons[r.ExitReason]++
		if r.FillStatus == domain.FillStatusPartial {
			m.PartialFills++
		} else {
			m.FullFills++
		}
		byMode[r.Mode] = append(byMode[r.Mode], r)
		byTier[r.Tier] = append(byTier[r.Tier], r)
	}

	m.FillRate = float64(m.FullFills) / float64(m.Trades)
	m.MaxDrawdownUSD = computeMaxDrawdown(dayRecords)

	for mode, rs := range byMode {
		b := computeBucket(rs)
		m.ByMode[mode] = &b
	}
	for tier, rs := range byTier {
		b := computeBucket(rs)
		m.ByTier[tier] = &b
	}

	return m
}

// computeTotals calculates run-wide metrics over the chronologically sorted
// record set.
func computeTotals(sorted []*domain.PnLRecord, days int) *domain.RunTotals {
	t := &domain.RunTotals{
		BucketMetrics: computeBucket(sorted),
		Days:          days,
		ExitReasons:   make(map[domain.ExitReason]int),
	}

	for _, r := range sorted {
		t.ExitReasons[r.ExitReason]++
		if r.FillStatus == domain.FillStatusPartial {
			t.PartialFills++
		} else {
			t.FullFills++
		}
	}

	t.FillRate = float64(t.FullFills) / float64(t.Trades)
	t.MaxDrawdownUSD = computeMaxDrawdown(sorted)
	t.MaxConsecutiveLosses = computeMaxConsecutiveLosses(sorted)
	return t
}
