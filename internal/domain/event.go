package domain

// Side represents the direction of an observed wallet trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// String returns the string representation of Side.
func (s Side) String() string {
	return string(s)
}

// IsValid checks if the side is a valid value.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// TradeEvent represents one observed wallet trade from the event feed.
// One event per line of a line-delimited feed; Line is the stable per-row
// key used by the deterministic latency model.
type TradeEvent struct {
	TimestampMs int64   // observation timestamp (Unix ms)
	Wallet      string  // copied wallet address (base58)
	Mint        string  // token mint address (base58)
	Side        Side    // buy | sell
	Price       float64 // observed trade price
	SizeUSD     float64 // observed trade size in USD
	Mode        string  // optional explicit mode name, may be empty
	Line        int     // 1-based feed line number
}
