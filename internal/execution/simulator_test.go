package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-copytrade-lab/internal/config"
	"solana-copytrade-lab/internal/domain"
)

func testExecConfig() config.ExecutionConfig {
	return config.ExecutionConfig{
		LatencyBaseMs:   100,
		LatencyJitterMs: 0, // no jitter: exact latency assertions
		SlippageModel:   ModelLinear,
		SlippageBaseBps: 25,
		DepthCoefBps:    5000,
		MaxPoolFraction: 0.02,
		FeeBps:          10,
		PriorityFeeUSD:  0.05,
	}
}

func enterDecision() *domain.Decision {
	return &domain.Decision{
		SignalID:       "abc123",
		Mint:           "mint-1",
		Side:           domain.SideBuy,
		Verdict:        domain.VerdictEnter,
		SizeUSD:        500,
		TTLSec:         30,
		MaxSlippageBps: 150,
		EventTimeMs:    1704067200000,
	}
}

func poolSnapshot(liquidity float64) *domain.TokenSnapshot {
	return &domain.TokenSnapshot{
		Mint:         "mint-1",
		LiquidityUSD: liquidity,
		Ticks: []*domain.PriceTick{
			{TimestampMs: 1704067200000, Price: 2.0},
		},
	}
}

func TestFill_Filled(t *testing.T) {
	s := NewSimulator(testExecConfig())

	fill := s.Fill(enterDecision(), poolSnapshot(50000))

	require.Equal(t, domain.FillStatusFilled, fill.Status)
	assert.Equal(t, int64(100), fill.LatencyMs)
	// 25 + 500/50000*5000 = 75 bps
	assert.InDelta(t, 75.0, fill.SlippageBps, 1e-9)
	// Buy pays up: 2.0 * (1 + 75/10000)
	assert.InDelta(t, 2.015, fill.FillPrice, 1e-9)
	assert.Equal(t, 1.0, fill.FilledFraction)
	assert.Equal(t, 500.0, fill.FilledUSD)
}

func TestFill_Deterministic(t *testing.T) {
	cfg := testExecConfig()
	cfg.LatencyJitterMs = 400
	s := NewSimulator(cfg)

	first := s.Fill(enterDecision(), poolSnapshot(50000))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Fill(enterDecision(), poolSnapshot(50000)))
	}
}

func TestFill_SlippageTooHigh(t *testing.T) {
	s := NewSimulator(testExecConfig())

	// Thin pool: 25 + 500/2000*5000 = 1275 bps >> 150 cap.
	fill := s.Fill(enterDecision(), poolSnapshot(2000))

	require.Equal(t, domain.FillStatusNone, fill.Status)
	assert.Equal(t, domain.ReasonSlippageTooHigh, fill.Reason)
	assert.Equal(t, 0.0, fill.FilledUSD)
}

func TestFill_TTLExpired(t *testing.T) {
	cfg := testExecConfig()
	cfg.LatencyBaseMs = 5000
	s := NewSimulator(cfg)

	d := enterDecision()
	d.TTLSec = 2 // 2000 ms < 5000 ms latency

	fill := s.Fill(d, poolSnapshot(50000))
	require.Equal(t, domain.FillStatusNone, fill.Status)
	assert.Equal(t, domain.ReasonTTLExpired, fill.Reason)
}

func TestFill_DegenerateInputs(t *testing.T) {
	s := NewSimulator(testExecConfig())

	d := enterDecision()
	d.SizeUSD = 0
	fill := s.Fill(d, poolSnapshot(50000))
	require.Equal(t, domain.FillStatusNone, fill.Status)
	assert.Equal(t, domain.ReasonZeroSize, fill.Reason)

	fill = s.Fill(enterDecision(), poolSnapshot(0))
	require.Equal(t, domain.FillStatusNone, fill.Status)
	assert.Equal(t, domain.ReasonZeroLiquidity, fill.Reason)

	fill = s.Fill(enterDecision(), nil)
	require.Equal(t, domain.FillStatusNone, fill.Status)
	assert.Equal(t, domain.ReasonZeroLiquidity, fill.Reason)
}

func TestFill_Partial(t *testing.T) {
	s := NewSimulator(testExecConfig())

	// Pool cap: 2% of 10000 = 200 USD < 500 USD requested.
	// Slippage: 25 + 500/10000*5000 = 275 bps, so raise the cap.
	d := enterDecision()
	d.MaxSlippageBps = 300

	fill := s.Fill(d, poolSnapshot(10000))

	require.Equal(t, domain.FillStatusPartial, fill.Status)
	assert.InDelta(t, 0.4, fill.FilledFraction, 1e-9)
	assert.InDelta(t, 200.0, fill.FilledUSD, 1e-9)
}

func TestSlippage_AMM(t *testing.T) {
	cfg := testExecConfig()
	cfg.SlippageModel = ModelAMM
	s := NewSimulator(cfg)

	// 500 / (50000/2 + 500) * 10000 ≈ 196.08 bps
	got := s.Slippage(500, 50000)
	assert.InDelta(t, 196.078431, got, 1e-4)

	// Impact grows with size, bounded under 10000 bps.
	assert.Less(t, got, s.Slippage(5000, 50000))
	assert.Less(t, s.Slippage(1e12, 50000), 10000.0)
}

func TestSellFillPrice(t *testing.T) {
	s := NewSimulator(testExecConfig())

	d := enterDecision()
	d.Side = domain.SideSell
	fill := s.Fill(d, poolSnapshot(50000))

	require.Equal(t, domain.FillStatusFilled, fill.Status)
	// Sell receives less: 2.0 * (1 - 75/10000)
	assert.InDelta(t, 1.985, fill.FillPrice, 1e-9)
}

func TestAttemptCost_GrowsWithAttempts(t *testing.T) {
	s := NewSimulator(testExecConfig())

	first := s.AttemptCost(500, 1, 1.5)
	second := s.AttemptCost(500, 2, 1.5)
	third := s.AttemptCost(500, 3, 1.5)

	// 500*10/10000 = 0.5 fee plus growing priority fee.
	assert.InDelta(t, 0.55, first, 1e-9)
	assert.Greater(t, second, first)
	assert.Greater(t, third, second)
}
