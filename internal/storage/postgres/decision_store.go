package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

const decisionColumns = `
	signal_id, wallet, mint, side, verdict, reason,
	mode, tier, edge_bps, position_pct, size_usd,
	tp_pct, sl_pct, ttl_sec, max_slippage_bps, event_time_ms
`

const insertDecisionQuery = `
	INSERT INTO decisions (
		signal_id, wallet, mint, side, verdict, reason,
		mode, tier, edge_bps, position_pct, size_usd,
		tp_pct, sl_pct, ttl_sec, max_slippage_bps, event_time_ms
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11,
		$12, $13, $14, $15, $16
	)
`

// DecisionStore implements storage.DecisionStore using PostgreSQL.
type DecisionStore struct {
	pool *Pool
}

// NewDecisionStore creates a new DecisionStore.
func NewDecisionStore(pool *Pool) *DecisionStore {
	return &DecisionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DecisionStore = (*DecisionStore)(nil)

// Insert adds a new decision. Returns ErrDuplicateKey if signal_id exists.
func (s *DecisionStore) Insert(ctx context.Context, d *domain.Decision) error {
	_, err := s.pool.Exec(ctx, insertDecisionQuery, decisionArgs(d)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// InsertBulk adds multiple decisions atomically. Fails entire batch on any duplicate.
func (s *DecisionStore) InsertBulk(ctx context.Context, decisions []*domain.Decision) error {
	if len(decisions) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range decisions {
		if _, err := tx.Exec(ctx, insertDecisionQuery, decisionArgs(d)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert decision in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetBySignalID retrieves a decision by its signal ID. Returns ErrNotFound if not exists.
func (s *DecisionStore) GetBySignalID(ctx context.Context, signalID string) (*domain.Decision, error) {
	query := `SELECT ` + decisionColumns + ` FROM decisions WHERE signal_id = $1`

	row := s.pool.QueryRow(ctx, query, signalID)
	d, err := scanDecision(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get decision by signal id: %w", err)
	}
	return d, nil
}

// GetByVerdict retrieves all decisions with the given verdict, ordered by event time ASC.
func (s *DecisionStore) GetByVerdict(ctx context.Context, verdict domain.Verdict) ([]*domain.Decision, error) {
	query := `
		SELECT ` + decisionColumns + `
		FROM decisions
		WHERE verdict = $1
		ORDER BY event_time_ms ASC, signal_id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(verdict))
	if err != nil {
		return nil, fmt.Errorf("get decisions by verdict: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

// GetAll retrieves all decisions, ordered by event time ASC.
func (s *DecisionStore) GetAll(ctx context.Context) ([]*domain.Decision, error) {
	query := `
		SELECT ` + decisionColumns + `
		FROM decisions
		ORDER BY event_time_ms ASC, signal_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all decisions: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

func decisionArgs(d *domain.Decision) []any {
	return []any{
		d.SignalID, d.Wallet, d.Mint, string(d.Side), string(d.Verdict), string(d.Reason),
		string(d.Mode), d.Tier, d.EdgeBps, d.PositionPct, d.SizeUSD,
		d.TPPct, d.SLPct, d.TTLSec, d.MaxSlippageBps, d.EventTimeMs,
	}
}

// scanDecision scans a single row into a Decision.
func scanDecision(row pgx.Row) (*domain.Decision, error) {
	var d domain.Decision
	var side, verdict, reason, mode string

	err := row.Scan(
		&d.SignalID, &d.Wallet, &d.Mint, &side, &verdict, &reason,
		&mode, &d.Tier, &d.EdgeBps, &d.PositionPct, &d.SizeUSD,
		&d.TPPct, &d.SLPct, &d.TTLSec, &d.MaxSlippageBps, &d.EventTimeMs,
	)
	if err != nil {
		return nil, err
	}

	d.Side = domain.Side(side)
	d.Verdict = domain.Verdict(verdict)
	d.Reason = domain.Reason(reason)
	d.Mode = domain.Mode(mode)
	return &d, nil
}

// scanDecisions scans multiple rows into a slice of Decision.
func scanDecisions(rows pgx.Rows) ([]*domain.Decision, error) {
	var decisions []*domain.Decision

	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan decision row: %w", err)
		}
		decisions = append(decisions, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision rows: %w", err)
	}

	return decisions, nil
}
