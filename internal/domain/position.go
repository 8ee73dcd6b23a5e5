package domain

// PositionState is the lifecycle state of a simulated holding.
type PositionState string

const (
	PositionActive  PositionState = "ACTIVE"
	PositionPartial PositionState = "PARTIAL" // partially filled, retry chain running
	PositionClosed  PositionState = "CLOSED"
	PositionExpired PositionState = "EXPIRED" // closed through TTL
)

// ExitReason is the terminal exit cause of a closed position. Exactly one
// per position; simultaneous triggers resolve by the documented priority
// order (HAZARD, SL, TP, TRAILING, TTL).
type ExitReason string

const (
	ExitTP       ExitReason = "TP"
	ExitSL       ExitReason = "SL"
	ExitTTL      ExitReason = "TTL"
	ExitTrailing ExitReason = "TRAILING"
	ExitHazard   ExitReason = "HAZARD"
)

// String returns the string representation of ExitReason.
func (e ExitReason) String() string {
	return string(e)
}

// IsValid checks if the exit reason is a valid value.
func (e ExitReason) IsValid() bool {
	switch e {
	case ExitTP, ExitSL, ExitTTL, ExitTrailing, ExitHazard:
		return true
	}
	return false
}

// Position is an open simulated holding. Created on fill, mutated only by
// the lifecycle manager, terminal on close.
type Position struct {
	SignalID string
	Mint     string
	Side     Side
	Mode     Mode
	Tier     string

	State PositionState

	EntryPrice float64
	SizeUSD    float64 // originally requested size
	FilledUSD  float64 // cumulative filled size, never exceeds SizeUSD

	OpenedAtMs     int64
	TTLExpiresAtMs int64
	TPPrice        float64
	SLPrice        float64

	// Trailing stop. BaseTrailingBps == 0 disables trailing; the effective
	// distance is recomputed per tick from market context.
	BaseTrailingBps     float64
	TrailingDistanceBps float64 // last effective distance
	PeakPrice           float64

	HazardThreshold float64

	// Retry chain bookkeeping for partially filled entries.
	RetryCount    int
	LastAttemptID string  // child order id of the latest fill attempt
	FeesUSD       float64 // cumulative simulated execution costs

	// Terminal fields, set exactly once on close.
	ExitReason ExitReason
	ExitPrice  float64
	ClosedAtMs int64
}

// Open reports whether the position can still be advanced by ticks.
func (p *Position) Open() bool {
	return p.State == PositionActive || p.State == PositionPartial
}
