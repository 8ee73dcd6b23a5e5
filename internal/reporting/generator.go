package reporting

import (
	"time"

	"solana-copytrade-lab/internal/domain"
)

// Counts are the per-stage tallies collected by the pipeline runner.
type Counts struct {
	EventsTotal     int
	EventsMalformed int

	Entered     int
	Skipped     int
	SkipReasons map[domain.Reason]int

	FillsFull    int
	FillsPartial int
	FillsNone    int

	KillSwitchTripped bool
}

// Generator builds run summaries from aggregated metrics.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new summary generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate assembles the summary from pipeline counts and aggregated metrics.
// Daily metrics are expected ascending by day, as the aggregator returns them.
func (g *Generator) Generate(counts Counts, daily []*domain.DailyMetrics, totals *domain.RunTotals) *Summary {
	s := &Summary{
		GeneratedAt: g.now().Format(time.RFC3339),
		Feed: FeedSummary{
			EventsTotal:     counts.EventsTotal,
			EventsMalformed: counts.EventsMalformed,
		},
		Decisions: DecisionSummary{
			Entered:     counts.Entered,
			Skipped:     counts.Skipped,
			SkipReasons: reasonCounts(counts.SkipReasons),
		},
		Fills: FillSummary{
			Full:    counts.FillsFull,
			Partial: counts.FillsPartial,
			None:    counts.FillsNone,
		},
		Risk: RiskSummary{
			KillSwitchTripped: counts.KillSwitchTripped,
		},
	}

	if totals != nil {
		s.Totals = totalsRow(totals)
	}
	for _, d := range daily {
		s.Daily = append(s.Daily, dailyRow(d))
	}

	return s
}

func totalsRow(t *domain.RunTotals) TotalsRow {
	return TotalsRow{
		BucketRow:            bucketRow(&t.BucketMetrics),
		Days:                 t.Days,
		FullFills:            t.FullFills,
		PartialFills:         t.PartialFills,
		FillRate:             t.FillRate,
		ExitReasons:          exitReasonCounts(t.ExitReasons),
		MaxDrawdownUSD:       t.MaxDrawdownUSD,
		MaxConsecutiveLosses: t.MaxConsecutiveLosses,
	}
}

func dailyRow(d *domain.DailyMetrics) DailyRow {
	row := DailyRow{
		Day:            d.Day,
		BucketRow:      bucketRow(&d.BucketMetrics),
		FullFills:      d.FullFills,
		PartialFills:   d.PartialFills,
		FillRate:       d.FillRate,
		ExitReasons:    exitReasonCounts(d.ExitReasons),
		MaxDrawdownUSD: d.MaxDrawdownUSD,
	}

	if len(d.ByMode) > 0 {
		row.ByMode = make(map[string]BucketRow, len(d.ByMode))
		for mode, b := range d.ByMode {
			row.ByMode[string(mode)] = bucketRow(b)
		}
	}
	if len(d.ByTier) > 0 {
		row.ByTier = make(map[string]BucketRow, len(d.ByTier))
		for tier, b := range d.ByTier {
			row.ByTier[tier] = bucketRow(b)
		}
	}

	return row
}

func bucketRow(b *domain.BucketMetrics) BucketRow {
	return BucketRow{
		Trades:       b.Trades,
		Wins:         b.Wins,
		Losses:       b.Losses,
		WinRate:      b.WinRate,
		TotalPnLUSD:  b.TotalPnLUSD,
		AvgPnLUSD:    b.AvgPnLUSD,
		AvgROI:       b.AvgROI,
		TotalFeesUSD: b.TotalFeesUSD,
	}
}

func reasonCounts(m map[domain.Reason]int) map[string]int {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]int, len(m))
	for reason, n := range m {
		out[string(reason)] = n
	}
	return out
}

func exitReasonCounts(m map[domain.ExitReason]int) map[string]int {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]int, len(m))
	for reason, n := range m {
		out[string(reason)] = n
	}
	return out
}
