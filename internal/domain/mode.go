package domain

// Mode is a named bundle of TP/SL/TTL parameters selected deterministically
// per trade event.
type Mode string

// Built-in mode names. Custom modes may be registered through configuration.
const (
	ModeUltra    Mode = "U" // sub-2-minute scalps
	ModeScalp    Mode = "S" // short holds
	ModeMomentum Mode = "M" // medium holds
	ModeLong     Mode = "L" // hour-plus holds
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	return string(m)
}

// ModeProfile carries the exit and sizing parameters of one mode.
type ModeProfile struct {
	Mode            Mode
	TTLSec          int64   // position time-to-live, > 0
	TPPct           float64 // take-profit threshold, > 0 (0.05 = +5%)
	SLPct           float64 // stop-loss threshold, < 0 (-0.05 = -5%)
	HoldSecMin      int64   // wallet median hold bucket lower bound
	HoldSecMax      int64   // wallet median hold bucket upper bound, >= HoldSecMin
	MinEdgeBps      float64 // EV gate threshold in basis points
	BasePositionPct float64 // base position size as fraction of bankroll
	MaxSlippageBps  float64 // fill gate, >= 0

	// Trailing stop parameters. TrailingDistanceBps == 0 disables trailing.
	TrailingDistanceBps float64
}
