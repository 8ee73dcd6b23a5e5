package domain

// PnLRecord is the closed-position outcome consumed by the aggregator.
// Created on position close; immutable. ROI is derivable solely from entry
// and exit price and fees, with no hidden state.
type PnLRecord struct {
	SignalID string
	Mint     string
	Mode     Mode
	Tier     string

	EntryPrice float64
	ExitPrice  float64
	SizeUSD    float64 // filled size in USD
	FeesUSD    float64 // total simulated execution costs

	PnLUSD float64
	ROI    float64 // (exit - entry)/entry - fees/size, sign-adjusted for side

	ExitReason  ExitReason
	HoldSeconds int64
	CloseTimeMs int64
	EntryDayUTC string // YYYY-MM-DD grouping key derived from open time

	FillStatus FillStatus // filled | partial at close time
}

// Win reports whether the record closed with positive PnL.
func (r *PnLRecord) Win() bool {
	return r.PnLUSD > 0
}
