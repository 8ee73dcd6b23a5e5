// Package execution simulates order fills for ENTER decisions: latency,
// slippage and partial liquidity consumption. All outputs are deterministic
// functions of the decision, the snapshot and the configuration — latency
// jitter derives from the signal id, never from the clock.
package execution

import (
	"solana-copytrade-lab/internal/config"
	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/idhash"
)

// Slippage model names accepted by config.ExecutionConfig.
const (
	ModelLinear = "linear"
	ModelAMM    = "amm"
)

// Simulator computes fill outcomes.
type Simulator struct {
	cfg config.ExecutionConfig
}

// NewSimulator creates a fill simulator from validated configuration.
func NewSimulator(cfg config.ExecutionConfig) *Simulator {
	return &Simulator{cfg: cfg}
}

// Fill simulates executing an ENTER decision against the snapshot's pool.
// Degenerate inputs (zero liquidity, zero size) resolve to a rejection
// outcome, never a panic.
func (s *Simulator) Fill(decision *domain.Decision, snapshot *domain.TokenSnapshot) *domain.SimulatedFill {
	fill := &domain.SimulatedFill{SignalID: decision.SignalID}

	if decision.SizeUSD <= 0 {
		return reject(fill, domain.ReasonZeroSize)
	}
	if snapshot == nil || snapshot.LiquidityUSD <= 0 {
		return reject(fill, domain.ReasonZeroLiquidity)
	}

	latency := s.Latency(decision.SignalID)
	fill.LatencyMs = latency
	fill.FillTimeMs = decision.EventTimeMs + latency

	if latency > decision.TTLSec*1000 {
		return reject(fill, domain.ReasonTTLExpired)
	}

	slippage := s.Slippage(decision.SizeUSD, snapshot.LiquidityUSD)
	fill.SlippageBps = slippage

	if slippage > decision.MaxSlippageBps {
		return reject(fill, domain.ReasonSlippageTooHigh)
	}

	fill.FillPrice = FillPrice(decision.Side, eventPrice(decision, snapshot), slippage)

	// Partial liquidity consumption: the venue fills at most a fixed
	// fraction of the pool in one shot.
	maxFillUSD := s.cfg.MaxPoolFraction * snapshot.LiquidityUSD
	if decision.SizeUSD > maxFillUSD {
		fill.Status = domain.FillStatusPartial
		fill.FilledFraction = maxFillUSD / decision.SizeUSD
		fill.FilledUSD = maxFillUSD
		return fill
	}

	fill.Status = domain.FillStatusFilled
	fill.FilledFraction = 1.0
	fill.FilledUSD = decision.SizeUSD
	return fill
}

// Latency returns the simulated submit-to-land latency for a signal:
// configured base plus a stable pseudo-jitter derived from the id.
func (s *Simulator) Latency(signalID string) int64 {
	return s.cfg.LatencyBaseMs + idhash.Jitter(signalID, s.cfg.LatencyJitterMs)
}

// Slippage returns the simulated slippage in basis points for a trade of
// sizeUSD against a pool of liquidityUSD.
func (s *Simulator) Slippage(sizeUSD, liquidityUSD float64) float64 {
	switch s.cfg.SlippageModel {
	case ModelAMM:
		// Constant-product impact: the trade consumes one side of the
		// pool, which holds half the quoted liquidity.
		return sizeUSD / (liquidityUSD/2 + sizeUSD) * 10000
	default:
		return s.cfg.SlippageBaseBps + sizeUSD/liquidityUSD*s.cfg.DepthCoefBps
	}
}

// AttemptCost returns the simulated execution cost in USD for one fill
// attempt. attempt is 1-based; the priority fee grows per retry attempt.
func (s *Simulator) AttemptCost(filledUSD float64, attempt int, feeGrowth float64) float64 {
	priority := s.cfg.PriorityFeeUSD
	for i := 1; i < attempt; i++ {
		priority *= feeGrowth
	}
	return filledUSD*s.cfg.FeeBps/10000 + priority
}

// eventPrice resolves the reference price for the fill: the tick at or
// before the decision time when a path is available, else the observed
// event price embedded in the snapshot ticks' first point.
func eventPrice(decision *domain.Decision, snapshot *domain.TokenSnapshot) float64 {
	for i := len(snapshot.Ticks) - 1; i >= 0; i-- {
		if snapshot.Ticks[i].TimestampMs <= decision.EventTimeMs {
			return snapshot.Ticks[i].Price
		}
	}
	if len(snapshot.Ticks) > 0 {
		return snapshot.Ticks[0].Price
	}
	return 0
}

// PoolCapUSD returns the maximum size the venue fills in one attempt.
func (s *Simulator) PoolCapUSD(liquidityUSD float64) float64 {
	return s.cfg.MaxPoolFraction * liquidityUSD
}

// FillPrice applies slippage against the trade direction: buys pay up,
// sells receive less.
func FillPrice(side domain.Side, price, slippageBps float64) float64 {
	if side == domain.SideSell {
		return price * (1 - slippageBps/10000)
	}
	return price * (1 + slippageBps/10000)
}

func reject(fill *domain.SimulatedFill, reason domain.Reason) *domain.SimulatedFill {
	fill.Status = domain.FillStatusNone
	fill.Reason = reason
	fill.FilledFraction = 0
	fill.FilledUSD = 0
	return fill
}
