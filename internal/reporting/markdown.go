package reporting

import (
	"fmt"
	"sort"
	"strings"
)

// RenderMarkdown renders the summary as a Markdown string.
func RenderMarkdown(s *Summary) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Copy-Trade Simulation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", s.GeneratedAt))

	// Run Summary
	sb.WriteString("## Run Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Feed Events | %d |\n", s.Feed.EventsTotal))
	sb.WriteString(fmt.Sprintf("| Malformed Events | %d |\n", s.Feed.EventsMalformed))
	sb.WriteString(fmt.Sprintf("| Entered | %d |\n", s.Decisions.Entered))
	sb.WriteString(fmt.Sprintf("| Skipped | %d |\n", s.Decisions.Skipped))
	sb.WriteString(fmt.Sprintf("| Full Fills | %d |\n", s.Fills.Full))
	sb.WriteString(fmt.Sprintf("| Partial Fills | %d |\n", s.Fills.Partial))
	sb.WriteString(fmt.Sprintf("| No Fills | %d |\n", s.Fills.None))
	sb.WriteString(fmt.Sprintf("| Kill Switch Tripped | %t |\n", s.Risk.KillSwitchTripped))
	sb.WriteString("\n")

	// Skip Reasons
	if len(s.Decisions.SkipReasons) > 0 {
		sb.WriteString("## Skip Reasons\n\n")
		sb.WriteString("| Reason | Count |\n")
		sb.WriteString("|--------|-------|\n")
		for _, reason := range sortedKeys(s.Decisions.SkipReasons) {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", reason, s.Decisions.SkipReasons[reason]))
		}
		sb.WriteString("\n")
	}

	// Totals
	sb.WriteString("## Totals\n\n")
	if s.Totals.Trades > 0 {
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Days | %d |\n", s.Totals.Days))
		sb.WriteString(fmt.Sprintf("| Trades | %d |\n", s.Totals.Trades))
		sb.WriteString(fmt.Sprintf("| Wins | %d |\n", s.Totals.Wins))
		sb.WriteString(fmt.Sprintf("| Losses | %d |\n", s.Totals.Losses))
		sb.WriteString(fmt.Sprintf("| Win Rate | %.4f |\n", s.Totals.WinRate))
		sb.WriteString(fmt.Sprintf("| Total PnL (USD) | %.4f |\n", s.Totals.TotalPnLUSD))
		sb.WriteString(fmt.Sprintf("| Avg PnL (USD) | %.4f |\n", s.Totals.AvgPnLUSD))
		sb.WriteString(fmt.Sprintf("| Avg ROI | %.4f |\n", s.Totals.AvgROI))
		sb.WriteString(fmt.Sprintf("| Total Fees (USD) | %.4f |\n", s.Totals.TotalFeesUSD))
		sb.WriteString(fmt.Sprintf("| Fill Rate | %.4f |\n", s.Totals.FillRate))
		sb.WriteString(fmt.Sprintf("| Max Drawdown (USD) | %.4f |\n", s.Totals.MaxDrawdownUSD))
		sb.WriteString(fmt.Sprintf("| Max Consecutive Losses | %d |\n", s.Totals.MaxConsecutiveLosses))
		sb.WriteString("\n")

		if len(s.Totals.ExitReasons) > 0 {
			sb.WriteString("### Exit Reasons\n\n")
			sb.WriteString("| Reason | Count |\n")
			sb.WriteString("|--------|-------|\n")
			for _, reason := range sortedKeys(s.Totals.ExitReasons) {
				sb.WriteString(fmt.Sprintf("| %s | %d |\n", reason, s.Totals.ExitReasons[reason]))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No closed positions.\n\n")
	}

	// Daily Metrics
	sb.WriteString("## Daily Metrics\n\n")
	if len(s.Daily) > 0 {
		sb.WriteString("| Day | Trades | Wins | Losses | WinRate | PnL | AvgROI | Fees | FillRate | MaxDD |\n")
		sb.WriteString("|-----|--------|------|--------|---------|-----|--------|------|----------|-------|\n")
		for _, d := range s.Daily {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
				d.Day, d.Trades, d.Wins, d.Losses, d.WinRate,
				d.TotalPnLUSD, d.AvgROI, d.TotalFeesUSD, d.FillRate, d.MaxDrawdownUSD))
		}
		sb.WriteString("\n")

		renderBreakdown(&sb, "Per-Mode Breakdown", s.Daily, func(d DailyRow) map[string]BucketRow { return d.ByMode })
		renderBreakdown(&sb, "Per-Tier Breakdown", s.Daily, func(d DailyRow) map[string]BucketRow { return d.ByTier })
	} else {
		sb.WriteString("No daily metrics available.\n\n")
	}

	return sb.String()
}

// renderBreakdown writes one section of per-day grouped buckets.
func renderBreakdown(sb *strings.Builder, title string, daily []DailyRow, pick func(DailyRow) map[string]BucketRow) {
	any := false
	for _, d := range daily {
		if len(pick(d)) > 0 {
			any = true
			break
		}
	}
	if !any {
		return
	}

	sb.WriteString(fmt.Sprintf("### %s\n\n", title))
	sb.WriteString("| Day | Group | Trades | WinRate | PnL | AvgROI |\n")
	sb.WriteString("|-----|-------|--------|---------|-----|--------|\n")
	for _, d := range daily {
		buckets := pick(d)
		for _, group := range sortedKeys(buckets) {
			b := buckets[group]
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %.4f | %.4f | %.4f |\n",
				d.Day, group, b.Trades, b.WinRate, b.TotalPnLUSD, b.AvgROI))
		}
	}
	sb.WriteString("\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
