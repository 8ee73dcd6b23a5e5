package decision

import "solana-copytrade-lab/internal/domain"

// smartMoneyROIFloor / smartMoneyTradesFloor bound the smart-money bonus to
// wallets with a substantial verified history.
const (
	smartMoneyROIFloor    = 0.5
	smartMoneyTradesFloor = 100
	smartMoneyBonus       = 0.02
)

// probEstimate computes p_model: the wallet's base win rate plus small
// bounded adjustments from market regime and smart-money signals, clamped
// to [0, 1].
func probEstimate(profile *domain.WalletProfile, regime, probWeight float64) float64 {
	p := profile.Winrate30d + probWeight*regime
	if profile.ROI30d >= smartMoneyROIFloor && profile.Trades30d >= smartMoneyTradesFloor {
		p += smartMoneyBonus
	}
	return clamp(p, 0, 1)
}

// edgeRawBps computes the raw expected value of a trade in basis points:
// p*tp + (1-p)*sl, with sl negative.
func edgeRawBps(pModel, tpPct, slPct float64) float64 {
	return (pModel*tpPct + (1-pModel)*slPct) * 10000
}

// adjustedPositionPct applies the regime sizing adjustment and clamps the
// result to the configured bounds.
func adjustedPositionPct(basePct, regime, beta, minPct, maxPct float64) float64 {
	return clamp(basePct*(1+beta*regime), minPct, maxPct)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
