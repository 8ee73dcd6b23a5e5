// Package lifecycle drives open positions along the deterministic price
// path: the exit state machine with its fixed trigger priority, the adaptive
// trailing stop, and the partial-fill retry chain.
package lifecycle

import (
	"time"

	"solana-copytrade-lab/internal/config"
	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/execution"
	"solana-copytrade-lab/internal/idhash"
	"solana-copytrade-lab/internal/lookup"
)

// Manager advances positions tick by tick. Exit triggers are evaluated in a
// fixed priority order per tick: hazard, stop-loss, take-profit, trailing
// stop, TTL. Exactly one exit reason wins; re-closing is a no-op.
type Manager struct {
	cfg      config.LifecycleConfig
	registry *config.ModeRegistry
	sim      *execution.Simulator
}

// NewManager creates a lifecycle manager.
func NewManager(cfg config.LifecycleConfig, registry *config.ModeRegistry, sim *execution.Simulator) *Manager {
	return &Manager{cfg: cfg, registry: registry, sim: sim}
}

// OpenPosition creates a position from an ENTER decision and its simulated
// fill. The caller must not pass rejected fills.
func (m *Manager) OpenPosition(decision *domain.Decision, fill *domain.SimulatedFill) *domain.Position {
	state := domain.PositionActive
	if fill.Status == domain.FillStatusPartial {
		state = domain.PositionPartial
	}

	profile := m.registry.Resolve(string(decision.Mode))

	pos := &domain.Position{
		SignalID: decision.SignalID,
		Mint:     decision.Mint,
		Side:     decision.Side,
		Mode:     decision.Mode,
		Tier:     decision.Tier,

		State: state,

		EntryPrice: fill.FillPrice,
		SizeUSD:    decision.SizeUSD,
		FilledUSD:  fill.FilledUSD,

		OpenedAtMs:     fill.FillTimeMs,
		TTLExpiresAtMs: fill.FillTimeMs + decision.TTLSec*1000,
		TPPrice:        targetPrice(decision.Side, fill.FillPrice, decision.TPPct),
		SLPrice:        targetPrice(decision.Side, fill.FillPrice, decision.SLPct),

		BaseTrailingBps: profile.TrailingDistanceBps,
		PeakPrice:       fill.FillPrice,

		HazardThreshold: m.cfg.HazardThreshold,

		LastAttemptID: decision.SignalID,
		FeesUSD:       m.sim.AttemptCost(fill.FilledUSD, 1, m.cfg.RetryFeeGrowth),
	}
	return pos
}

// Advance walks the snapshot's price path from the position's open time and
// applies retries and exit triggers at each tick. It returns the PnL record
// when the position closes, or nil when the path is exhausted first — which
// cannot happen on well-formed snapshots, because the final tick force-closes
// the position through the TTL trigger.
func (m *Manager) Advance(pos *domain.Position, snapshot *domain.TokenSnapshot) *domain.PnLRecord {
	if !pos.Open() {
		return nil
	}

	dist := trailingDistanceBps(pos.BaseTrailingBps, snapshot, m.cfg)
	pos.TrailingDistanceBps = dist

	for i, tick := range snapshot.Ticks {
		if tick.TimestampMs < pos.OpenedAtMs {
			continue
		}

		if pos.State == domain.PositionPartial {
			m.retryFill(pos, tick, snapshot.LiquidityUSD)
		}

		if favorable(pos.Side, tick.Price, pos.PeakPrice) {
			pos.PeakPrice = tick.Price
		}

		if lookup.HazardAt(tick.TimestampMs, snapshot.HazardScores) >= pos.HazardThreshold {
			return m.Close(pos, tick.Price, tick.TimestampMs, domain.ExitHazard)
		}
		if hit(pos.Side, tick.Price, pos.SLPrice, false) {
			return m.Close(pos, tick.Price, tick.TimestampMs, domain.ExitSL)
		}
		if hit(pos.Side, tick.Price, pos.TPPrice, true) {
			return m.Close(pos, tick.Price, tick.TimestampMs, domain.ExitTP)
		}
		if pos.BaseTrailingBps > 0 && retracementBps(pos.Side, tick.Price, pos.PeakPrice) >= dist {
			return m.Close(pos, tick.Price, tick.TimestampMs, domain.ExitTrailing)
		}
		if tick.TimestampMs >= pos.TTLExpiresAtMs || i == len(snapshot.Ticks)-1 {
			return m.Close(pos, tick.Price, tick.TimestampMs, domain.ExitTTL)
		}
	}

	return nil
}

// retryFill runs one attempt of the partial-fill retry chain at the given
// tick. Each attempt requests a geometrically decaying slice of the unfilled
// remainder, so the chain can never exceed the originally requested size.
func (m *Manager) retryFill(pos *domain.Position, tick *domain.PriceTick, liquidityUSD float64) {
	if pos.RetryCount >= m.cfg.RetryMaxAttempts {
		pos.State = domain.PositionActive
		return
	}
	if tick.TimestampMs >= pos.TTLExpiresAtMs {
		pos.State = domain.PositionActive
		return
	}

	pos.RetryCount++
	attempt := pos.RetryCount + 1 // 1-based across the chain; entry was attempt 1
	pos.LastAttemptID = idhash.ComputeChildOrderID(pos.SignalID, pos.RetryCount)

	remaining := pos.SizeUSD - pos.FilledUSD
	want := remaining * m.cfg.RetrySizeDecay
	if poolCap := m.sim.PoolCapUSD(liquidityUSD); want > poolCap {
		want = poolCap
	}
	if want <= 0 {
		pos.State = domain.PositionActive
		return
	}

	slippage := m.sim.Slippage(want, liquidityUSD)
	price := execution.FillPrice(pos.Side, tick.Price, slippage)

	// Average the entry price across fills, weighted by USD notional.
	total := pos.FilledUSD + want
	pos.EntryPrice = (pos.EntryPrice*pos.FilledUSD + price*want) / total
	pos.FilledUSD = total
	pos.FeesUSD += m.sim.AttemptCost(want, attempt, m.cfg.RetryFeeGrowth)

	if pos.FilledUSD >= pos.SizeUSD || pos.RetryCount >= m.cfg.RetryMaxAttempts {
		pos.State = domain.PositionActive
	}
}

// Close terminates the position and produces its PnL record. Closing an
// already-closed position returns nil.
func (m *Manager) Close(pos *domain.Position, price float64, tsMs int64, reason domain.ExitReason) *domain.PnLRecord {
	if !pos.Open() {
		return nil
	}

	pos.State = domain.PositionClosed
	if reason == domain.ExitTTL {
		pos.State = domain.PositionExpired
	}
	pos.ExitReason = reason
	pos.ExitPrice = price
	pos.ClosedAtMs = tsMs

	// Exit leg pays the base execution cost once.
	pos.FeesUSD += m.sim.AttemptCost(pos.FilledUSD, 1, m.cfg.RetryFeeGrowth)

	move := priceMove(pos.Side, pos.EntryPrice, price)
	gross := pos.FilledUSD * move
	pnl := gross - pos.FeesUSD

	roi := move
	if pos.FilledUSD > 0 {
		roi = move - pos.FeesUSD/pos.FilledUSD
	}

	status := domain.FillStatusFilled
	if pos.FilledUSD < pos.SizeUSD {
		status = domain.FillStatusPartial
	}

	return &domain.PnLRecord{
		SignalID:    pos.SignalID,
		Mint:        pos.Mint,
		Mode:        pos.Mode,
		Tier:        pos.Tier,
		EntryPrice:  pos.EntryPrice,
		ExitPrice:   price,
		SizeUSD:     pos.FilledUSD,
		FeesUSD:     pos.FeesUSD,
		PnLUSD:      pnl,
		ROI:         roi,
		ExitReason:  reason,
		HoldSeconds: (tsMs - pos.OpenedAtMs) / 1000,
		CloseTimeMs: tsMs,
		EntryDayUTC: time.UnixMilli(pos.OpenedAtMs).UTC().Format("2006-01-02"),
		FillStatus:  status,
	}
}

// targetPrice resolves a percentage offset into an absolute trigger price,
// mirrored for short positions.
func targetPrice(side domain.Side, entry, pct float64) float64 {
	if side == domain.SideSell {
		return entry * (1 - pct)
	}
	return entry * (1 + pct)
}

// priceMove returns the signed fractional move in the position's favor.
func priceMove(side domain.Side, entry, price float64) float64 {
	if entry == 0 {
		return 0
	}
	if side == domain.SideSell {
		return (entry - price) / entry
	}
	return (price - entry) / entry
}

// favorable reports whether price improves on the current peak.
func favorable(side domain.Side, price, peak float64) bool {
	if side == domain.SideSell {
		return price < peak
	}
	return price > peak
}

// hit reports whether price crossed the target. profit selects the crossing
// direction: take-profit triggers on favorable crossings, stop-loss on
// adverse ones. Both triggers are inclusive at the target.
func hit(side domain.Side, price, target float64, profit bool) bool {
	if side == domain.SideSell {
		if profit {
			return price <= target
		}
		return price >= target
	}
	if profit {
		return price >= target
	}
	return price <= target
}

// retracementBps measures the pullback from the peak in basis points.
func retracementBps(side domain.Side, price, peak float64) float64 {
	if peak == 0 {
		return 0
	}
	if side == domain.SideSell {
		return (price - peak) / peak * 10000
	}
	return (peak - price) / peak * 10000
}
