package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"solana-copytrade-lab/internal/config"
	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/feed"
	"solana-copytrade-lab/internal/marketdata"
	"solana-copytrade-lab/internal/observability"
	"solana-copytrade-lab/internal/storage/memory"
)

const openMs = int64(1704067200000) // 2024-01-01 00:00:00 UTC

const (
	testWallet = "11111111111111111111111111111111"
	testMint   = "So11111111111111111111111111111111111111112"
)

// stubSource feeds pre-built items without touching the filesystem.
type stubSource struct {
	items []*feed.Item
}

func (s *stubSource) ReadAll(_ context.Context) ([]*feed.Item, error) {
	return s.items, nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Execution.LatencyJitterMs = 0
	return cfg
}

func testProvider() *marketdata.MemoryProvider {
	provider := marketdata.NewMemoryProvider()
	provider.PutProfile(&domain.WalletProfile{
		Wallet:        testWallet,
		ROI30d:        0.2,
		Winrate30d:    0.6,
		Trades30d:     50,
		MedianHoldSec: 300,
		Tier:          domain.TierA,
	})
	provider.PutSnapshot(&domain.TokenSnapshot{
		Mint:          testMint,
		LiquidityUSD:  50000,
		Volume24hUSD:  100000,
		SpreadBps:     50,
		TopHolderPct:  10,
		VolatilityPct: 5,
		VolumeRatio:   1,
		Ticks: []*domain.PriceTick{
			{TimestampMs: openMs, Price: 2.0, Volume: 1000},
			{TimestampMs: openMs + 10_000, Price: 2.05, Volume: 1000},
			{TimestampMs: openMs + 20_000, Price: 2.2, Volume: 1000},
			{TimestampMs: openMs + 30_000, Price: 2.1, Volume: 1000},
		},
	})
	return provider
}

func validEvent() *domain.TradeEvent {
	return &domain.TradeEvent{
		TimestampMs: openMs,
		Wallet:      testWallet,
		Mint:        testMint,
		Side:        domain.SideBuy,
		Price:       2.0,
		SizeUSD:     350,
		Line:        1,
	}
}

func testItems() []*feed.Item {
	unknownMint := validEvent()
	unknownMint.Mint = "BPFLoaderUpgradeab1e11111111111111111111111"
	unknownMint.Line = 2

	return []*feed.Item{
		{Event: validEvent(), Line: 1},
		{Event: unknownMint, Line: 2},
		{Line: 3, Err: errors.New("line 3: unexpected end of JSON input")},
	}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	runner, err := NewRunner(testConfig(), testProvider(), zap.NewNop())
	require.NoError(t, err)
	return runner.WithClock(func() time.Time {
		return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	})
}

func TestRunner_Run_EndToEnd(t *testing.T) {
	ctx := context.Background()

	decisions := memory.NewDecisionStore()
	fills := memory.NewFillStore()
	records := memory.NewPnLRecordStore()

	runner := newTestRunner(t).WithStores(Stores{
		Decisions: decisions,
		Fills:     fills,
		Records:   records,
	})

	summary, err := runner.Run(ctx, &stubSource{items: testItems()})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Feed.EventsTotal)
	assert.Equal(t, 1, summary.Feed.EventsMalformed)
	assert.Equal(t, 1, summary.Decisions.Entered)
	assert.Equal(t, 2, summary.Decisions.Skipped)
	assert.Equal(t, 1, summary.Decisions.SkipReasons["missing_snapshot"])
	assert.Equal(t, 1, summary.Decisions.SkipReasons["malformed_event"])
	assert.Equal(t, 1, summary.Fills.Full)
	assert.Equal(t, 0, summary.Fills.Partial)
	assert.False(t, summary.Risk.KillSwitchTripped)

	// The entered position rides the path up and exits on take-profit.
	assert.Equal(t, 1, summary.Totals.Trades)
	assert.Equal(t, 1, summary.Totals.Wins)
	assert.Equal(t, 1, summary.Totals.ExitReasons["TP"])
	assert.Greater(t, summary.Totals.TotalPnLUSD, 0.0)

	require.Len(t, summary.Daily, 1)
	assert.Equal(t, "2024-01-01", summary.Daily[0].Day)
	assert.Equal(t, 1, summary.Daily[0].ByMode["S"].Trades)
	assert.Equal(t, 1, summary.Daily[0].ByTier["A"].Trades)

	// Every feed row yields exactly one persisted decision.
	allDecisions, err := decisions.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, allDecisions, 3)

	filled, err := fills.GetByStatus(ctx, domain.FillStatusFilled)
	require.NoError(t, err)
	require.Len(t, filled, 1)

	allRecords, err := records.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, allRecords, 1)
	assert.Equal(t, filled[0].SignalID, allRecords[0].SignalID)
	assert.Equal(t, domain.ExitTP, allRecords[0].ExitReason)
}

func TestRunner_Run_Deterministic(t *testing.T) {
	ctx := context.Background()

	first, err := newTestRunner(t).Run(ctx, &stubSource{items: testItems()})
	require.NoError(t, err)

	second, err := newTestRunner(t).Run(ctx, &stubSource{items: testItems()})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunner_Run_EmptyFeed(t *testing.T) {
	summary, err := newTestRunner(t).Run(context.Background(), &stubSource{})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Feed.EventsTotal)
	assert.Equal(t, 0, summary.Totals.Trades)
	assert.Empty(t, summary.Daily)
}

func TestRunner_Run_WithMetrics(t *testing.T) {
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	runner := newTestRunner(t).WithMetrics(metrics)

	summary, err := runner.Run(context.Background(), &stubSource{items: testItems()})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Decisions.Entered)
}

func TestRunner_Run_FileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feed.jsonl")

	lines := `{"ts_ms":1704067200000,"wallet":"` + testWallet + `","mint":"` + testMint + `","side":"buy","price":2.0,"size_usd":350}
not json at all
`
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	summary, err := newTestRunner(t).Run(context.Background(), feed.NewFileSource(path))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Feed.EventsTotal)
	assert.Equal(t, 1, summary.Feed.EventsMalformed)
	assert.Equal(t, 1, summary.Decisions.Entered)
	assert.Equal(t, 1, summary.Totals.Trades)
}
