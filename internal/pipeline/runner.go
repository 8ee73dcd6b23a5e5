// Package pipeline wires the per-event stages together: feed, decision,
// fill simulation, position lifecycle, risk accounting and aggregation.
// The runner is the single writer of the portfolio ledger and the only
// place metrics and logs are emitted; the stage functions stay pure.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"solana-copytrade-lab/internal/config"
	"solana-copytrade-lab/internal/decision"
	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/execution"
	"solana-copytrade-lab/internal/feed"
	"solana-copytrade-lab/internal/idhash"
	"solana-copytrade-lab/internal/lifecycle"
	"solana-copytrade-lab/internal/marketdata"
	"solana-copytrade-lab/internal/observability"
	"solana-copytrade-lab/internal/pnl"
	"solana-copytrade-lab/internal/reporting"
	"solana-copytrade-lab/internal/risk"
	"solana-copytrade-lab/internal/storage"
)

// Source yields the run's feed items in line order.
type Source interface {
	ReadAll(ctx context.Context) ([]*feed.Item, error)
}

// Stores are the optional persistence sinks for run artifacts. Nil fields
// disable persistence of that artifact.
type Stores struct {
	Decisions storage.DecisionStore
	Fills     storage.FillStore
	Records   storage.PnLRecordStore
}

// Runner executes one batch simulation over a feed.
type Runner struct {
	cfg       *config.Config
	provider  marketdata.Provider
	engine    *decision.Engine
	sim       *execution.Simulator
	positions *lifecycle.Manager
	portfolio *risk.Portfolio
	agg       *pnl.Aggregator
	gen       *reporting.Generator

	stores  Stores
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewRunner builds the full stage graph from validated configuration.
func NewRunner(cfg *config.Config, provider marketdata.Provider, logger *zap.Logger) (*Runner, error) {
	registry, err := config.BuildRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("build mode registry: %w", err)
	}

	sim := execution.NewSimulator(cfg.Execution)

	return &Runner{
		cfg:       cfg,
		provider:  provider,
		engine:    decision.NewEngine(cfg, registry),
		sim:       sim,
		positions: lifecycle.NewManager(cfg.Lifecycle, registry, sim),
		portfolio: risk.NewPortfolio(cfg.Risk, cfg.BankrollUSD),
		agg:       pnl.NewAggregator(),
		gen:       reporting.NewGenerator(),
		logger:    logger.With(zap.String("component", "pipeline")),
	}, nil
}

// WithStores attaches persistence sinks for run artifacts.
func (r *Runner) WithStores(stores Stores) *Runner {
	r.stores = stores
	return r
}

// WithMetrics attaches prometheus instrumentation.
func (r *Runner) WithMetrics(m *observability.Metrics) *Runner {
	r.metrics = m
	return r
}

// WithClock sets the summary clock for deterministic output.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.gen.WithClock(now)
	return r
}

// Run processes the whole feed serially and returns the run summary.
// Events are handled one at a time in feed order; the portfolio ledger is
// only ever mutated from this loop.
func (r *Runner) Run(ctx context.Context, source Source) (*reporting.Summary, error) {
	start := time.Now()

	items, err := source.ReadAll(ctx)
	if err != nil {
		r.observeRun("error", start)
		return nil, fmt.Errorf("read feed: %w", err)
	}
	r.logger.Info("feed loaded", zap.Int("items", len(items)))

	counts := reporting.Counts{SkipReasons: make(map[domain.Reason]int)}
	var records []*domain.PnLRecord

	for _, item := range items {
		counts.EventsTotal++
		if r.metrics != nil {
			r.metrics.FeedEventsRead.Inc()
		}

		if item.Err != nil {
			counts.EventsMalformed++
			if err := r.handleMalformed(ctx, item, &counts); err != nil {
				r.observeRun("error", start)
				return nil, err
			}
			continue
		}

		record, err := r.handleEvent(ctx, item.Event, &counts)
		if err != nil {
			r.observeRun("error", start)
			return nil, err
		}
		if record != nil {
			records = append(records, record)
		}
	}

	counts.KillSwitchTripped = r.portfolio.KillSwitchActive()
	if len(counts.SkipReasons) == 0 {
		counts.SkipReasons = nil
	}

	daily, totals, err := r.agg.Aggregate(records)
	if err != nil && !errors.Is(err, pnl.ErrNoRecords) {
		r.observeRun("error", start)
		return nil, fmt.Errorf("aggregate records: %w", err)
	}

	summary := r.gen.Generate(counts, daily, totals)
	r.observeRun("success", start)
	r.logger.Info("run complete",
		zap.Int("events", counts.EventsTotal),
		zap.Int("entered", counts.Entered),
		zap.Int("closed", len(records)),
		zap.Bool("kill_switch", counts.KillSwitchTripped),
	)
	return summary, nil
}

// handleMalformed records the mandatory skip decision for an unparseable
// feed line. Every feed row yields exactly one decision, so run counts
// always reconcile against the input.
func (r *Runner) handleMalformed(ctx context.Context, item *feed.Item, counts *reporting.Counts) error {
	r.logger.Warn("malformed feed line", zap.Int("line", item.Line), zap.Error(item.Err))
	if r.metrics != nil {
		r.metrics.FeedEventsBad.Inc()
	}

	d := &domain.Decision{
		SignalID: idhash.ComputeSignalID("", "", "", 0, item.Line),
		Verdict:  domain.VerdictSkip,
		Reason:   domain.ReasonMalformedEvent,
	}
	r.countDecision(d, counts)
	return r.persistDecision(ctx, d)
}

// handleEvent runs one trade event through decide, fill, lifecycle and risk
// accounting. Returns the PnL record when a position was opened and closed.
func (r *Runner) handleEvent(ctx context.Context, event *domain.TradeEvent, counts *reporting.Counts) (*domain.PnLRecord, error) {
	r.portfolio.RollDay(time.UnixMilli(event.TimestampMs).UTC().Format("2006-01-02"))

	snapshot, ok, err := r.provider.Snapshot(ctx, event.Mint)
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %s: %w", event.Mint, err)
	}
	if !ok {
		snapshot = nil
	}
	profile, ok, err := r.provider.Profile(ctx, event.Wallet)
	if err != nil {
		return nil, fmt.Errorf("load profile for %s: %w", event.Wallet, err)
	}
	if !ok {
		profile = nil
	}

	d := r.engine.Decide(event, snapshot, profile, r.portfolio)
	r.portfolio.NoteDecision()
	r.countDecision(d, counts)
	if err := r.persistDecision(ctx, d); err != nil {
		return nil, err
	}
	if !d.Entered() {
		return nil, nil
	}

	fill := r.sim.Fill(d, snapshot)
	r.countFill(fill, counts)
	if err := r.persistFill(ctx, fill); err != nil {
		return nil, err
	}
	if fill.Status == domain.FillStatusNone {
		return nil, nil
	}

	pos := r.positions.OpenPosition(d, fill)
	r.portfolio.OnOpen(pos.Mint, fill.FilledUSD)
	if r.metrics != nil {
		r.metrics.PositionsOpened.Inc()
	}

	record := r.positions.Advance(pos, snapshot)
	if record == nil {
		// Degenerate path with no ticks past the open time: expire at TTL
		// on the entry price so every opened position closes exactly once.
		record = r.positions.Close(pos, pos.EntryPrice, pos.TTLExpiresAtMs, domain.ExitTTL)
	}
	retries := pos.RetryCount

	r.portfolio.OnClose(record)
	if err := r.persistRecord(ctx, record); err != nil {
		return nil, err
	}

	if r.metrics != nil {
		r.metrics.PositionsClosed.WithLabelValues(string(record.ExitReason)).Inc()
		r.metrics.RetryAttempts.Add(float64(retries))
		r.metrics.HoldSeconds.Observe(float64(record.HoldSeconds))
		r.metrics.TradePnLUSD.Observe(record.PnLUSD)

		state := r.portfolio.State()
		r.metrics.OpenPositions.Set(float64(state.OpenPositionCount))
		r.metrics.ExposureUSD.Set(state.TotalExposureUSD)
		if state.KillSwitchActive {
			r.metrics.KillSwitchActive.Set(1)
		}
	}

	r.logger.Debug("position closed",
		zap.String("signal_id", record.SignalID),
		zap.String("exit_reason", string(record.ExitReason)),
		zap.Float64("pnl_usd", record.PnLUSD),
	)
	return record, nil
}

func (r *Runner) countDecision(d *domain.Decision, counts *reporting.Counts) {
	if d.Entered() {
		counts.Entered++
	} else {
		counts.Skipped++
		counts.SkipReasons[d.Reason]++
	}
	if r.metrics != nil {
		r.metrics.DecisionsTotal.WithLabelValues(string(d.Verdict)).Inc()
		if !d.Entered() {
			r.metrics.SkipReasons.WithLabelValues(string(d.Reason)).Inc()
		}
	}
}

func (r *Runner) countFill(fill *domain.SimulatedFill, counts *reporting.Counts) {
	switch fill.Status {
	case domain.FillStatusFilled:
		counts.FillsFull++
	case domain.FillStatusPartial:
		counts.FillsPartial++
	default:
		counts.FillsNone++
	}
	if r.metrics != nil {
		r.metrics.FillsTotal.WithLabelValues(string(fill.Status)).Inc()
		if fill.Status != domain.FillStatusNone {
			r.metrics.SlippageBps.Observe(fill.SlippageBps)
			r.metrics.LatencyMs.Observe(float64(fill.LatencyMs))
		}
	}
}

func (r *Runner) persistDecision(ctx context.Context, d *domain.Decision) error {
	if r.stores.Decisions == nil {
		return nil
	}
	if err := r.stores.Decisions.Insert(ctx, d); err != nil {
		return fmt.Errorf("persist decision %s: %w", d.SignalID, err)
	}
	return nil
}

func (r *Runner) persistFill(ctx context.Context, f *domain.SimulatedFill) error {
	if r.stores.Fills == nil {
		return nil
	}
	if err := r.stores.Fills.Insert(ctx, f); err != nil {
		return fmt.Errorf("persist fill %s: %w", f.SignalID, err)
	}
	return nil
}

func (r *Runner) persistRecord(ctx context.Context, rec *domain.PnLRecord) error {
	if r.stores.Records == nil {
		return nil
	}
	if err := r.stores.Records.Insert(ctx, rec); err != nil {
		return fmt.Errorf("persist pnl record %s: %w", rec.SignalID, err)
	}
	return nil
}

func (r *Runner) observeRun(status string, start time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.RunsTotal.WithLabelValues(status).Inc()
	r.metrics.RunDuration.Observe(time.Since(start).Seconds())
}
