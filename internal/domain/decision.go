package domain

// Verdict represents the entry evaluation outcome.
type Verdict string

const (
	VerdictEnter Verdict = "ENTER"
	VerdictSkip  Verdict = "SKIP"
)

// String returns the string representation of Verdict.
func (v Verdict) String() string {
	return string(v)
}

// Decision is the outcome of the entry evaluation for one trade event.
// Created once per event, never mutated. Exactly one Decision exists per
// event: ENTER with sizing parameters, or SKIP with exactly one Reason.
type Decision struct {
	SignalID string // deterministic hash, see idhash.ComputeSignalID
	Wallet   string
	Mint     string
	Side     Side

	Verdict Verdict
	Reason  Reason // set iff Verdict == SKIP

	// Set iff Verdict == ENTER.
	Mode           Mode
	Tier           string  // wallet tier at decision time
	EdgeBps        float64 // final expected value in basis points
	PositionPct    float64 // regime-adjusted fraction of bankroll
	SizeUSD        float64 // absolute position size
	TPPct          float64
	SLPct          float64
	TTLSec         int64
	MaxSlippageBps float64
	EventTimeMs    int64 // decision anchor timestamp (from the event)
}

// Entered reports whether the decision is an ENTER.
func (d *Decision) Entered() bool {
	return d.Verdict == VerdictEnter
}
