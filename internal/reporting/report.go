// Package reporting builds the run summary emitted by cmd/simulate and
// renders it as markdown or CSV.
package reporting

// Summary is the complete output record of one simulation run. It is the
// stdout contract of cmd/simulate: exactly one JSON-encoded Summary per run.
type Summary struct {
	GeneratedAt string `json:"generated_at"` // RFC3339 UTC

	Feed      FeedSummary     `json:"feed"`
	Decisions DecisionSummary `json:"decisions"`
	Fills     FillSummary     `json:"fills"`
	Risk      RiskSummary     `json:"risk"`

	Totals TotalsRow  `json:"totals"`
	Daily  []DailyRow `json:"daily"` // ascending by day
}

// FeedSummary counts feed input rows.
type FeedSummary struct {
	EventsTotal     int `json:"events_total"`
	EventsMalformed int `json:"events_malformed"`
}

// DecisionSummary counts verdicts and skip reasons.
type DecisionSummary struct {
	Entered     int            `json:"entered"`
	Skipped     int            `json:"skipped"`
	SkipReasons map[string]int `json:"skip_reasons,omitempty"`
}

// FillSummary counts simulated fill outcomes.
type FillSummary struct {
	Full    int `json:"full"`
	Partial int `json:"partial"`
	None    int `json:"none"`
}

// RiskSummary reports portfolio risk controls observed during the run.
type RiskSummary struct {
	KillSwitchTripped bool `json:"kill_switch_tripped"`
}

// BucketRow is the outcome statistics for one group of closed positions.
type BucketRow struct {
	Trades int `json:"trades"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`

	WinRate      float64 `json:"win_rate"`
	TotalPnLUSD  float64 `json:"total_pnl_usd"`
	AvgPnLUSD    float64 `json:"avg_pnl_usd"`
	AvgROI       float64 `json:"avg_roi"`
	TotalFeesUSD float64 `json:"total_fees_usd"`
}

// DailyRow is the metrics of one UTC entry day.
type DailyRow struct {
	Day string `json:"day"` // YYYY-MM-DD

	BucketRow

	FullFills    int     `json:"full_fills"`
	PartialFills int     `json:"partial_fills"`
	FillRate     float64 `json:"fill_rate"`

	ExitReasons    map[string]int `json:"exit_reasons,omitempty"`
	MaxDrawdownUSD float64        `json:"max_drawdown_usd"`

	ByMode map[string]BucketRow `json:"by_mode,omitempty"`
	ByTier map[string]BucketRow `json:"by_tier,omitempty"`
}

// TotalsRow is the run-wide metrics.
type TotalsRow struct {
	BucketRow

	Days         int     `json:"days"`
	FullFills    int     `json:"full_fills"`
	PartialFills int     `json:"partial_fills"`
	FillRate     float64 `json:"fill_rate"`

	ExitReasons          map[string]int `json:"exit_reasons,omitempty"`
	MaxDrawdownUSD       float64        `json:"max_drawdown_usd"`
	MaxConsecutiveLosses int            `json:"max_consecutive_losses"`
}
