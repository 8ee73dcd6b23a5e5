// Package risk tracks cross-position accounting: exposure and position
// limits, the daily-loss/drawdown kill-switch and the consecutive-loss
// cooldown. The portfolio is the only shared state in the pipeline and is
// mutated serially, once per completed decision or close.
package risk

import (
	"sync"

	"github.com/shopspring/decimal"

	"solana-copytrade-lab/internal/config"
	"solana-copytrade-lab/internal/domain"
)

// Portfolio is the cross-position risk ledger. USD accounting uses decimal
// arithmetic so repeated open/close cycles cannot drift the ledger.
type Portfolio struct {
	mu sync.Mutex

	cfg      config.RiskConfig
	bankroll decimal.Decimal

	openCount    int
	exposure     decimal.Decimal
	mintExposure map[string]decimal.Decimal

	day      string // current UTC day for daily PnL accounting
	dailyPnL decimal.Decimal

	equity     decimal.Decimal // cumulative realized PnL
	peakEquity decimal.Decimal

	consecutiveLosses int
	cooldownRemaining int

	killSwitch bool
}

// Snapshot is an immutable view of the portfolio for reporting.
type Snapshot struct {
	OpenPositionCount int
	TotalExposureUSD  float64
	DailyPnLUSD       float64
	EquityUSD         float64
	ConsecutiveLosses int
	KillSwitchActive  bool
	InCooldown        bool
}

// NewPortfolio creates an empty portfolio ledger.
func NewPortfolio(cfg config.RiskConfig, bankrollUSD float64) *Portfolio {
	return &Portfolio{
		cfg:          cfg,
		bankroll:     decimal.NewFromFloat(bankrollUSD),
		mintExposure: make(map[string]decimal.Decimal),
	}
}

// EntryReason reports why a new entry is blocked before sizing, or
// ReasonNone. Kill switch takes precedence over the position-count limit.
func (p *Portfolio) EntryReason() domain.Reason {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.killSwitch {
		return domain.ReasonKillSwitchActive
	}
	if p.openCount >= p.cfg.MaxOpenPositions {
		return domain.ReasonMaxOpenPositions
	}
	return domain.ReasonNone
}

// ExposureReason reports why the would-be exposure is blocked, or
// ReasonNone. The overall cap is checked before the per-mint cap.
func (p *Portfolio) ExposureReason(mint string, sizeUSD float64) domain.Reason {
	p.mu.Lock()
	defer p.mu.Unlock()

	size := decimal.NewFromFloat(sizeUSD)
	if p.cfg.MaxExposureUSD > 0 &&
		p.exposure.Add(size).GreaterThan(decimal.NewFromFloat(p.cfg.MaxExposureUSD)) {
		return domain.ReasonExposureCap
	}
	if p.cfg.MaxMintExposureUSD > 0 &&
		p.mintExposure[mint].Add(size).GreaterThan(decimal.NewFromFloat(p.cfg.MaxMintExposureUSD)) {
		return domain.ReasonMintExposureCap
	}
	return domain.ReasonNone
}

// InCooldown reports whether the consecutive-loss cooldown is active.
func (p *Portfolio) InCooldown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cooldownRemaining > 0
}

// NoteDecision advances the cooldown window. Called once per evaluated
// decision by the pipeline, after the decision is made.
func (p *Portfolio) NoteDecision() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cooldownRemaining > 0 {
		p.cooldownRemaining--
	}
}

// RollDay resets the daily PnL counter when the UTC day changes. The kill
// switch is deliberately not cleared here: once active it survives day
// boundaries until Reset.
func (p *Portfolio) RollDay(day string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if day != p.day {
		p.day = day
		p.dailyPnL = decimal.Zero
	}
}

// OnOpen records a filled entry.
func (p *Portfolio) OnOpen(mint string, filledUSD float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	size := decimal.NewFromFloat(filledUSD)
	p.openCount++
	p.exposure = p.exposure.Add(size)
	p.mintExposure[mint] = p.mintExposure[mint].Add(size)
}

// OnClose records a closed position and evaluates the kill-switch and
// cooldown conditions.
func (p *Portfolio) OnClose(record *domain.PnLRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()

	size := decimal.NewFromFloat(record.SizeUSD)
	pnl := decimal.NewFromFloat(record.PnLUSD)

	if p.openCount > 0 {
		p.openCount--
	}
	p.exposure = p.exposure.Sub(size)
	if p.exposure.IsNegative() {
		p.exposure = decimal.Zero
	}
	if cur, ok := p.mintExposure[record.Mint]; ok {
		next := cur.Sub(size)
		if next.IsPositive() {
			p.mintExposure[record.Mint] = next
		} else {
			delete(p.mintExposure, record.Mint)
		}
	}

	p.dailyPnL = p.dailyPnL.Add(pnl)
	p.equity = p.equity.Add(pnl)
	if p.equity.GreaterThan(p.peakEquity) {
		p.peakEquity = p.equity
	}

	if record.PnLUSD <= 0 {
		p.consecutiveLosses++
		if p.cfg.CooldownLosses > 0 && p.consecutiveLosses >= p.cfg.CooldownLosses {
			p.cooldownRemaining = p.cfg.CooldownTrades
		}
	} else {
		p.consecutiveLosses = 0
	}

	// Kill switch latches; only Reset clears it.
	dailyLimit := p.bankroll.Mul(decimal.NewFromFloat(p.cfg.MaxDailyLossPct)).Neg()
	if p.dailyPnL.LessThanOrEqual(dailyLimit) {
		p.killSwitch = true
	}
	drawdown := p.peakEquity.Sub(p.equity)
	ddLimit := p.bankroll.Mul(decimal.NewFromFloat(p.cfg.MaxDrawdownPct))
	if drawdown.GreaterThanOrEqual(ddLimit) && drawdown.IsPositive() {
		p.killSwitch = true
	}
}

// KillSwitchActive reports the kill-switch state.
func (p *Portfolio) KillSwitchActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killSwitch
}

// Reset clears the kill switch. This is the only way to re-enable entries
// after the switch has tripped.
func (p *Portfolio) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killSwitch = false
}

// State returns an immutable snapshot for reporting.
func (p *Portfolio) State() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Snapshot{
		OpenPositionCount: p.openCount,
		TotalExposureUSD:  p.exposure.InexactFloat64(),
		DailyPnLUSD:       p.dailyPnL.InexactFloat64(),
		EquityUSD:         p.equity.InexactFloat64(),
		ConsecutiveLosses: p.consecutiveLosses,
		KillSwitchActive:  p.killSwitch,
		InCooldown:        p.cooldownRemaining > 0,
	}
}
