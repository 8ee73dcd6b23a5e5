// Package decision implements the expected-value entry evaluation: hard
// gates, probability model, regime adjustment, mode selection and
// risk-aware sizing. Decide is a pure function of its inputs — no I/O, no
// clock reads, no randomness.
package decision

import (
	"solana-copytrade-lab/internal/config"
	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/idhash"
)

// PortfolioView is the slice of cross-position risk state the engine
// consults. Implemented by risk.Portfolio.
type PortfolioView interface {
	// EntryReason reports why a new entry is blocked before sizing
	// (kill switch, open position count), or ReasonNone.
	EntryReason() domain.Reason

	// ExposureReason reports why the would-be exposure is blocked
	// (overall or per-mint caps), or ReasonNone.
	ExposureReason(mint string, sizeUSD float64) domain.Reason

	// InCooldown reports whether the consecutive-loss cooldown is active,
	// which forces the most conservative mode.
	InCooldown() bool
}

// Engine evaluates trade events into decisions.
type Engine struct {
	cfg   *config.Config
	modes *config.ModeRegistry
}

// NewEngine creates a decision engine from validated configuration.
func NewEngine(cfg *config.Config, modes *config.ModeRegistry) *Engine {
	return &Engine{cfg: cfg, modes: modes}
}

// Decide evaluates one trade event. Exactly one Decision is returned for
// every event: ENTER with sizing parameters, or SKIP with exactly one
// canonical reason. The pipeline short-circuits on the first failing gate.
func (e *Engine) Decide(
	event *domain.TradeEvent,
	snapshot *domain.TokenSnapshot,
	profile *domain.WalletProfile,
	portfolio PortfolioView,
) *domain.Decision {
	d := &domain.Decision{
		SignalID:    idhash.ComputeSignalID(event.Wallet, event.Mint, event.Side.String(), event.TimestampMs, event.Line),
		Wallet:      event.Wallet,
		Mint:        event.Mint,
		Side:        event.Side,
		EventTimeMs: event.TimestampMs,
	}

	// 1. Hard gates, fixed order, first failure wins.
	if reason := e.hardGates(snapshot, profile); reason != domain.ReasonNone {
		return skip(d, reason)
	}

	// 2. Portfolio gates that do not depend on size.
	if reason := portfolio.EntryReason(); reason != domain.ReasonNone {
		return skip(d, reason)
	}

	regime := snapshot.Regime()

	// 3. Mode selection. Cooldown forces the most conservative profile.
	var profileMode *domain.ModeProfile
	switch {
	case portfolio.InCooldown():
		profileMode = e.modes.MostConservative()
	case event.Mode != "":
		profileMode = e.modes.Resolve(event.Mode)
	default:
		profileMode = e.modes.ByHoldSec(profile.MedianHoldSec)
	}

	// 4. Probability estimate and expected value.
	pModel := probEstimate(profile, regime, e.cfg.Regime.ProbWeight)
	edgeRaw := edgeRawBps(pModel, profileMode.TPPct, profileMode.SLPct)
	edgeFinal := edgeRaw * (1 + e.cfg.Regime.Alpha*regime)

	// 5. +EV gate.
	if edgeFinal < profileMode.MinEdgeBps {
		return skip(d, domain.ReasonEVBelowThreshold)
	}

	// 6. Risk-aware sizing.
	positionPct := adjustedPositionPct(
		profileMode.BasePositionPct, regime, e.cfg.Regime.Beta,
		e.cfg.Sizing.MinPositionPct, e.cfg.Sizing.MaxPositionPct,
	)
	sizeUSD := e.cfg.BankrollUSD * positionPct
	if sizeUSD > e.cfg.Sizing.MaxTradeUSD {
		sizeUSD = e.cfg.Sizing.MaxTradeUSD
	}
	if sizeUSD < e.cfg.Sizing.MinTradeUSD {
		return skip(d, domain.ReasonSizeBelowMinimum)
	}

	// 7. Would-be exposure caps.
	if reason := portfolio.ExposureReason(event.Mint, sizeUSD); reason != domain.ReasonNone {
		return skip(d, reason)
	}

	d.Verdict = domain.VerdictEnter
	d.Mode = profileMode.Mode
	d.Tier = profile.TierOrUnknown()
	d.EdgeBps = edgeFinal
	d.PositionPct = positionPct
	d.SizeUSD = sizeUSD
	d.TPPct = profileMode.TPPct
	d.SLPct = profileMode.SLPct
	d.TTLSec = profileMode.TTLSec
	d.MaxSlippageBps = profileMode.MaxSlippageBps
	return d
}

// hardGates evaluates the entry gates in their canonical order and returns
// the first failing reason, or ReasonNone.
func (e *Engine) hardGates(snapshot *domain.TokenSnapshot, profile *domain.WalletProfile) domain.Reason {
	g := e.cfg.Gates

	// Missing context is a reject reason, never a crash or a silent ENTER.
	if snapshot == nil {
		return domain.ReasonMissingSnapshot
	}
	if profile == nil {
		return domain.ReasonMissingProfile
	}

	// Security flags.
	if snapshot.Honeypot {
		return domain.ReasonHoneypot
	}
	if snapshot.MintAuthority {
		return domain.ReasonMintAuthority
	}
	if snapshot.FreezeAuth {
		return domain.ReasonFreezeAuth
	}

	// Market gates.
	if snapshot.LiquidityUSD < g.MinLiquidityUSD {
		return domain.ReasonLiquidityBelowMin
	}
	if snapshot.Volume24hUSD < g.MinVolume24hUSD {
		return domain.ReasonVolumeBelowMin
	}
	if snapshot.SpreadBps > g.MaxSpreadBps {
		return domain.ReasonSpreadAboveMax
	}
	if snapshot.TopHolderPct > g.MaxTopHolderPct {
		return domain.ReasonHolderConcAboveMax
	}

	// Wallet gates.
	if profile.Trades30d < g.MinWalletTrades {
		return domain.ReasonWalletTradesBelowMin
	}
	if profile.Winrate30d < g.MinWalletWinrate {
		return domain.ReasonWalletWinrateBelowMin
	}
	if profile.ROI30d < g.MinWalletROI {
		return domain.ReasonWalletROIBelowMin
	}

	return domain.ReasonNone
}

func skip(d *domain.Decision, reason domain.Reason) *domain.Decision {
	d.Verdict = domain.VerdictSkip
	d.Reason = reason
	return d
}
