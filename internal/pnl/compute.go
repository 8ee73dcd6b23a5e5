package pnl

import (
	"sort"

	"solana-copytrade-lab/internal/domain"
)

// sortRecords orders records chronologically: close time ASC, signal id ASC
// as the tiebreak. Order-dependent metrics (drawdown, loss streaks) are
// defined over this order.
func sortRecords(records []*domain.PnLRecord) []*domain.PnLRecord {
	sorted := make([]*domain.PnLRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].CloseTimeMs != sorted[j].CloseTimeMs {
			return sorted[i].CloseTimeMs < sorted[j].CloseTimeMs
		}
		return sorted[i].SignalID < sorted[j].SignalID
	})
	return sorted
}

// computeBucket calculates outcome statistics for one group of records.
func computeBucket(records []*domain.PnLRecord) domain.BucketMetrics {
	b := domain.BucketMetrics{Trades: len(records)}
	if b.Trades == 0 {
		return b
	}

	roiSum := 0.0
	for _, r := range records {
		if r.Win() {
			b.Wins++
		} else {
			b.Losses++
		}
		b.TotalPnLUSD += r.PnLUSD
		b.TotalFeesUSD += r.FeesUSD
		roiSum += r.ROI
	}

	b.WinRate = float64(b.Wins) / float64(b.Trades)
	b.AvgPnLUSD = b.TotalPnLUSD / float64(b.Trades)
	b.AvgROI = roiSum / float64(b.Trades)
	return b
}

// computeMaxDrawdown calculates the worst peak-to-trough move on the
// cumulative realized PnL curve. Records must be in chronological order.
// Empty input yields 0.
func computeMaxDrawdown(records []*domain.PnLRecord) float64 {
	cumulative := 0.0
	peak := 0.0
	maxDrawdown := 0.0

	for _, r := range records {
		cumulative += r.PnLUSD
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}
	return maxDrawdown
}

// computeMaxConsecutiveLosses finds the longest streak of non-winning
// records. Records must be in chronological order.
func computeMaxConsecutiveLosses(records []*domain.PnLRecord) int {
	maxStreak := 0
	currentStreak := 0

	for _, r := range records {
		if r.Win() {
			currentStreak = 0
			continue
		}
		currentStreak++
		if currentStreak > maxStreak {
			maxStreak = currentStreak
		}
	}
	return maxStreak
}
