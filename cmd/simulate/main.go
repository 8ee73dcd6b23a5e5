// Package main runs the full copy-trade simulation over a JSONL feed:
// decide → fill → lifecycle → risk → aggregate → summary.
//
// The summary is the run artifact. With -summary it is written to stdout
// as exactly one JSON record; everything else goes to stderr.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"solana-copytrade-lab/internal/config"
	"solana-copytrade-lab/internal/feed"
	"solana-copytrade-lab/internal/marketdata"
	"solana-copytrade-lab/internal/observability"
	"solana-copytrade-lab/internal/pipeline"
	chstore "solana-copytrade-lab/internal/storage/clickhouse"
	"solana-copytrade-lab/internal/storage/migrations"
	pgstore "solana-copytrade-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML strategy config")
	feedPath := flag.String("feed", "", "Path to the JSONL trade event feed")
	snapshotPath := flag.String("snapshots", "", "Path to the token snapshot fixture (JSON array)")
	profilePath := flag.String("profiles", "", "Path to the wallet profile fixture (JSON array)")
	emitSummary := flag.Bool("summary", false, "Write the run summary to stdout as one JSON record")
	metricsAddr := flag.String("metrics-addr", "", "Address to serve Prometheus /metrics on (empty disables)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for run artifact persistence")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for price tick archival")
	redisAddr := flag.String("redis-addr", "", "Redis address for the read-through market data cache")
	flag.Parse()

	logger, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *feedPath == "" {
		logger.Error("missing required flag", zap.String("flag", "-feed"))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config load failed", zap.String("path", *configPath), zap.Error(err))
		os.Exit(1)
	}

	fixtures := marketdata.NewMemoryProvider()
	if *snapshotPath != "" {
		if err := fixtures.LoadSnapshotFile(*snapshotPath); err != nil {
			logger.Error("snapshot fixture load failed", zap.Error(err))
			os.Exit(1)
		}
	}
	if *profilePath != "" {
		if err := fixtures.LoadProfileFile(*profilePath); err != nil {
			logger.Error("profile fixture load failed", zap.Error(err))
			os.Exit(1)
		}
	}

	var provider marketdata.Provider = fixtures
	if *redisAddr != "" {
		cached, err := marketdata.NewRedisProvider(ctx, *redisAddr, fixtures, 5*time.Minute)
		if err != nil {
			logger.Error("redis cache setup failed", zap.Error(err))
			os.Exit(1)
		}
		defer cached.Close()
		provider = cached
	}

	stores, closeStores, err := buildStores(ctx, *postgresDSN)
	if err != nil {
		logger.Error("postgres setup failed", zap.Error(err))
		os.Exit(1)
	}
	defer closeStores()

	if *clickhouseDSN != "" {
		if err := archiveTicks(ctx, *clickhouseDSN, fixtures); err != nil {
			logger.Error("clickhouse tick archival failed", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("price ticks archived", zap.Int("mints", len(fixtures.Snapshots())))
	}

	runner, err := pipeline.NewRunner(cfg, provider, logger)
	if err != nil {
		logger.Error("pipeline setup failed", zap.Error(err))
		os.Exit(1)
	}
	runner = runner.WithStores(stores)

	if *metricsAddr != "" {
		runner = runner.WithMetrics(observability.NewDefaultMetrics())
		go serveMetrics(*metricsAddr, logger)
	}

	summary, err := runner.Run(ctx, feed.NewFileSource(*feedPath))
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}

	if *emitSummary {
		if err := json.NewEncoder(os.Stdout).Encode(summary); err != nil {
			logger.Error("summary encode failed", zap.Error(err))
			os.Exit(1)
		}
	}
}

// newLogger builds a production logger that writes only to stderr, keeping
// stdout free for the summary record.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// buildStores opens the postgres pool and wires the artifact stores. An
// empty DSN disables persistence; the summary is still produced.
func buildStores(ctx context.Context, dsn string) (pipeline.Stores, func(), error) {
	if dsn == "" {
		return pipeline.Stores{}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return pipeline.Stores{}, func() {}, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return pipeline.Stores{}, func() {}, fmt.Errorf("run postgres migrations: %w", err)
	}

	stores := pipeline.Stores{
		Decisions: pgstore.NewDecisionStore(pool),
		Fills:     pgstore.NewFillStore(pool),
		Records:   pgstore.NewPnLRecordStore(pool),
	}
	return stores, pool.Close, nil
}

// archiveTicks copies the loaded snapshot tick paths into ClickHouse so
// later runs can be audited against the exact series they replayed.
func archiveTicks(ctx context.Context, dsn string, fixtures *marketdata.MemoryProvider) error {
	conn, err := chstore.NewConn(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect to clickhouse: %w", err)
	}
	defer conn.Close()

	if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
		return fmt.Errorf("run clickhouse migrations: %w", err)
	}

	ticks := chstore.NewTickStore(conn)
	for _, s := range fixtures.Snapshots() {
		if len(s.Ticks) == 0 {
			continue
		}
		if err := ticks.InsertBulk(ctx, s.Mint, s.Ticks); err != nil {
			return fmt.Errorf("archive ticks for %s: %w", s.Mint, err)
		}
	}
	return nil
}

func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())

	logger.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics server stopped", zap.Error(err))
	}
}
