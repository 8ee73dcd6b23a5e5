// Package observability provides Prometheus metrics for monitoring.
// Counters are incremented by the pipeline runner; the pure decision,
// execution and lifecycle functions stay instrumentation-free.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Feed metrics
	FeedEventsRead  prometheus.Counter
	FeedEventsBad   prometheus.Counter
	FeedReadLatency prometheus.Histogram

	// Decision metrics
	DecisionsTotal *prometheus.CounterVec
	SkipReasons    *prometheus.CounterVec

	// Execution metrics
	FillsTotal  *prometheus.CounterVec
	SlippageBps prometheus.Histogram
	LatencyMs   prometheus.Histogram

	// Lifecycle metrics
	PositionsOpened prometheus.Counter
	PositionsClosed *prometheus.CounterVec
	RetryAttempts   prometheus.Counter
	HoldSeconds     prometheus.Histogram

	// Risk metrics
	OpenPositions    prometheus.Gauge
	ExposureUSD      prometheus.Gauge
	KillSwitchActive prometheus.Gauge

	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram
	TradePnLUSD prometheus.Histogram
}

// NewMetrics creates a new Metrics instance registered on the given registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "copytrade_lab"
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Feed metrics
		FeedEventsRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "events_read_total",
			Help:      "Total number of feed rows read",
		}),
		FeedEventsBad: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "events_malformed_total",
			Help:      "Total number of malformed feed rows",
		}),
		FeedReadLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "read_latency_seconds",
			Help:      "Feed read latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Decision metrics
		DecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "decisions_total",
			Help:      "Total number of decisions by verdict",
		}, []string{"verdict"}),
		SkipReasons: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "skips_total",
			Help:      "Total number of skipped events by reason",
		}, []string{"reason"}),

		// Execution metrics
		FillsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "fills_total",
			Help:      "Total number of simulated fills by status",
		}, []string{"status"}),
		SlippageBps: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "slippage_bps",
			Help:      "Simulated fill slippage in basis points",
			Buckets:   []float64{5, 10, 25, 50, 100, 200, 400, 800},
		}),
		LatencyMs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "latency_ms",
			Help:      "Simulated fill latency in milliseconds",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000},
		}),

		// Lifecycle metrics
		PositionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "positions_opened_total",
			Help:      "Total number of positions opened",
		}),
		PositionsClosed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "positions_closed_total",
			Help:      "Total number of positions closed by exit reason",
		}, []string{"exit_reason"}),
		RetryAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "retry_attempts_total",
			Help:      "Total number of partial-fill retry attempts",
		}),
		HoldSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "hold_seconds",
			Help:      "Position hold duration in seconds",
			Buckets:   []float64{30, 60, 120, 300, 900, 1800, 3600, 7200},
		}),

		// Risk metrics
		OpenPositions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "open_positions",
			Help:      "Current number of open positions",
		}),
		ExposureUSD: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "exposure_usd",
			Help:      "Current total exposure in USD",
		}),
		KillSwitchActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "kill_switch_active",
			Help:      "1 when the kill switch is latched, 0 otherwise",
		}),

		// Run metrics
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "runs_total",
			Help:      "Total number of simulation runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Simulation run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		TradePnLUSD: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "trade_pnl_usd",
			Help:      "Realized PnL per closed position in USD",
			Buckets:   []float64{-500, -100, -50, -10, 0, 10, 50, 100, 500},
		}),
	}
}

// NewDefaultMetrics registers metrics on the default Prometheus registry.
func NewDefaultMetrics() *Metrics {
	return NewMetrics("", prometheus.DefaultRegisterer)
}

// Handler returns an HTTP handler for the /metrics endpoint backed by the
// default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
