package domain

// Tier labels for copied wallets, assigned by the wallet discovery exporter.
const (
	TierS       = "S"
	TierA       = "A"
	TierB       = "B"
	TierUnknown = "UNKNOWN"
)

// WalletProfile represents the historical behavior of a copied wallet.
// Immutable value read per decision.
type WalletProfile struct {
	Wallet        string  // wallet address (base58)
	ROI30d        float64 // 30-day return on investment, 0.5 = +50%
	Winrate30d    float64 // 30-day win rate in [0,1]
	Trades30d     int     // trade count over 30 days
	MedianHoldSec int64   // median hold duration in seconds
	Tier          string  // S | A | B | UNKNOWN
}

// TierOrUnknown returns the tier label, mapping empty to UNKNOWN.
func (p *WalletProfile) TierOrUnknown() string {
	if p == nil || p.Tier == "" {
		return TierUnknown
	}
	return p.Tier
}
