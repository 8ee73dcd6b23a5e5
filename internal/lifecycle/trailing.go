package lifecycle

import (
	"solana-copytrade-lab/internal/config"
	"solana-copytrade-lab/internal/domain"
)

// trailingDistanceBps computes the effective trailing-stop distance for the
// current market context. High volatility widens the stop, elevated volume
// tightens it; the result is clamped to the configured bounds. Pure in
// (baseBps, snapshot, cfg).
func trailingDistanceBps(baseBps float64, snapshot *domain.TokenSnapshot, cfg config.LifecycleConfig) float64 {
	volMult := 1.0
	if cfg.VolReferencePct > 0 {
		volMult = clamp(1+cfg.VolSensitivity*(snapshot.VolatilityPct-cfg.VolReferencePct)/cfg.VolReferencePct, 0.5, 2.0)
	}

	volumeMult := 2.0
	if denom := 1 + cfg.VolumeWeight*(snapshot.VolumeRatio-1); denom > 0 {
		volumeMult = clamp(1/denom, 0.5, 2.0)
	}

	return clamp(baseBps*volMult*volumeMult, cfg.TrailingMinDistanceBps, cfg.TrailingMaxDistanceBps)
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
