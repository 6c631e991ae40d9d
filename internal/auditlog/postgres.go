package auditlog

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresRecorder writes audit rows into Postgres.
type PostgresRecorder struct {
	pool  execCloser
	table string
}

// Config controls the Postgres connection pool for audit rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// NewPostgres creates a Postgres-backed Recorder using the provided config.
func NewPostgres(ctx context.Context, cfg Config) (*PostgresRecorder, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "scrape_requests"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PostgresRecorder{pool: pool, table: table}, nil
}

// NewPostgresWithPool constructs a recorder from an existing pool
// (primarily for testing).
func NewPostgresWithPool(pool execCloser, table string) (*PostgresRecorder, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "scrape_requests"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresRecorder{pool: pool, table: table}, nil
}

// Record inserts one audit row. Expected schema:
//
//	CREATE TABLE scrape_requests (
//	    id BIGSERIAL PRIMARY KEY,
//	    request_id TEXT NOT NULL,
//	    target_url TEXT NOT NULL,
//	    pages_ok INT NOT NULL,
//	    status TEXT NOT NULL,
//	    duration_ms BIGINT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
func (r *PostgresRecorder) Record(ctx context.Context, e Entry) error {
	query := fmt.Sprintf(`INSERT INTO %s
		(request_id, target_url, pages_ok, status, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, r.table)
	_, err := r.pool.Exec(ctx, query,
		e.RequestID,
		e.TargetURL,
		e.PagesOK,
		e.Status,
		e.Duration.Milliseconds(),
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit row: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *PostgresRecorder) Close() {
	r.pool.Close()
}
