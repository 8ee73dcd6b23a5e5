package domain

// PriceTick is one point of the deterministic future price path used by the
// execution simulator and the position lifecycle.
type PriceTick struct {
	TimestampMs int64   // Unix timestamp in milliseconds
	Price       float64 // price at this point
	Volume      float64 // traded volume at this point
}

// HazardPoint is a crash-risk estimate attached to a timestamp.
// Scores are probability-like values in [0,1].
type HazardPoint struct {
	TimestampMs int64
	Score       float64
}

// TokenSnapshot represents the market state of a token at observation time.
// Immutable value read per decision; owned by the caller.
type TokenSnapshot struct {
	Mint          string
	LiquidityUSD  float64 // pool liquidity in USD
	Volume24hUSD  float64 // 24h traded volume in USD
	SpreadBps     float64 // quoted spread in basis points
	TopHolderPct  float64 // top-10 holder concentration, 0-100
	Honeypot      bool    // security flag: cannot sell
	MintAuthority bool    // security flag: mint authority not revoked
	FreezeAuth    bool    // security flag: freeze authority not revoked

	// Deterministic market context for simulation and lifecycle.
	Ticks         []*PriceTick   // future price path, timestamp ASC
	VolatilityPct float64        // recent realized volatility, percent
	VolumeRatio   float64        // current volume / trailing average, 1.0 = normal
	HazardScores  []*HazardPoint // hazard estimates, timestamp ASC

	// RiskRegime is the scalar market-sentiment signal in [-1, 1].
	// Nil means missing, which the decision engine treats as neutral 0.0.
	RiskRegime *float64
}

// Regime returns the risk regime clamped to [-1, 1], defaulting missing
// data to neutral 0.0.
func (s *TokenSnapshot) Regime() float64 {
	if s == nil || s.RiskRegime == nil {
		return 0.0
	}
	r := *s.RiskRegime
	if r < -1 {
		return -1
	}
	if r > 1 {
		return 1
	}
	return r
}
