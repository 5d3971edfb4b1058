package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatewright/go-guardrails/audit"
)

// Store persists guardrail decisions to Postgres.
//
// Table schema:
//
//	CREATE TABLE IF NOT EXISTS guardrail_decisions (
//	  id bigserial PRIMARY KEY,
//	  decided_at timestamptz NOT NULL,
//	  backend text NOT NULL,
//	  role text NOT NULL,
//	  action text NOT NULL,
//	  reason text,
//	  confidence double precision,
//	  latency_ms bigint
//	);
type Store struct {
	pool  *pgxpool.Pool
	table string
}

// New connects to Postgres and ensures the decisions table exists
func New(ctx context.Context, dsn, table string) (*Store, error) {
	if table == "" {
		table = "guardrail_decisions"
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &Store{pool: pool, table: table}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithPool wraps an existing pool without schema management
func NewWithPool(pool *pgxpool.Pool, table string) *Store {
	if table == "" {
		table = "guardrail_decisions"
	}
	return &Store{pool: pool, table: table}
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id bigserial PRIMARY KEY,
		decided_at timestamptz NOT NULL,
		backend text NOT NULL,
		role text NOT NULL,
		action text NOT NULL,
		reason text,
		confidence double precision,
		latency_ms bigint
	)`, s.table))
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Record implements audit.Recorder
func (s *Store) Record(ctx context.Context, d Decision) error {
	_, err := s.pool.Exec(ctx,
		fmt.Sprintf("INSERT INTO %s (decided_at, backend, role, action, reason, confidence, latency_ms) VALUES ($1,$2,$3,$4,$5,$6,$7)", s.table),
		d.Time, d.Backend, d.Role, d.Action, d.Reason, d.Confidence, d.Latency.Milliseconds())
	return err
}

// Decision aliases audit.Decision for callers of this package
type Decision = audit.Decision

// Recent returns the most recent decisions, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]audit.Decision, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf("SELECT decided_at, backend, role, action, COALESCE(reason,''), COALESCE(confidence,0), COALESCE(latency_ms,0) FROM %s ORDER BY decided_at DESC LIMIT $1", s.table),
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]audit.Decision, 0, limit)
	for rows.Next() {
		var d audit.Decision
		var latencyMS int64
		if err := rows.Scan(&d.Time, &d.Backend, &d.Role, &d.Action, &d.Reason, &d.Confidence, &latencyMS); err != nil {
			return nil, err
		}
		d.Latency = time.Duration(latencyMS) * time.Millisecond
		out = append(out, d)
	}
	return out, rows.Err()
}

// Close releases the underlying pool
func (s *Store) Close() {
	s.pool.Close()
}

var _ audit.Recorder = (*Store)(nil)
