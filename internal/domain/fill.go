package domain

// FillStatus represents the outcome of a simulated fill attempt.
type FillStatus string

const (
	FillStatusFilled  FillStatus = "filled"
	FillStatusPartial FillStatus = "partial"
	FillStatusNone    FillStatus = "none"
)

// String returns the string representation of FillStatus.
func (f FillStatus) String() string {
	return string(f)
}

// SimulatedFill is the outcome of attempting to execute an ENTER decision.
// Created once per decision; immutable.
type SimulatedFill struct {
	SignalID string

	Status FillStatus
	Reason Reason // set iff Status == none (or partial cap context)

	FillPrice      float64 // effective entry price after slippage
	SlippageBps    float64
	LatencyMs      int64
	FilledFraction float64 // 1.0 for full fills, (0,1) for partial, 0 for none
	FilledUSD      float64 // SizeUSD * FilledFraction
	FillTimeMs     int64   // event time + latency
}
