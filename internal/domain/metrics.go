package domain

// BucketMetrics are the outcome statistics for one group of PnL records:
// a day, a mode within a day, or a tier within a day.
type BucketMetrics struct {
	Trades int
	Wins   int
	Losses int

	WinRate      float64
	TotalPnLUSD  float64
	AvgPnLUSD    float64
	AvgROI       float64
	TotalFeesUSD float64
}

// DailyMetrics aggregates the records of one UTC entry day, with per-mode
// and per-tier breakdowns.
type DailyMetrics struct {
	Day string // YYYY-MM-DD

	BucketMetrics

	FullFills    int
	PartialFills int
	FillRate     float64 // full fills / total trades

	ExitReasons    map[ExitReason]int
	MaxDrawdownUSD float64 // worst peak-to-trough on the day's equity curve

	ByMode map[Mode]*BucketMetrics
	ByTier map[string]*BucketMetrics
}

// RunTotals aggregates the whole run.
type RunTotals struct {
	BucketMetrics

	Days         int
	FullFills    int
	PartialFills int
	FillRate     float64

	ExitReasons          map[ExitReason]int
	MaxDrawdownUSD       float64 // over the run-wide chronological equity curve
	MaxConsecutiveLosses int
}
