package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

// PgxIface is the part of *pgxpool.Pool the ledger uses.
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Postgres is a ledger stored in a Postgres table.
type Postgres struct {
	pool   PgxIface
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgres wraps an existing pool. The schema is not touched; call
// Migrate for that.
func NewPostgres(pool PgxIface, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{pool: pool, logger: logger, now: time.Now}
}

// OpenPostgres creates a pgx pool from cfg, pings it and migrates the schema.
func OpenPostgres(ctx context.Context, cfg common.LedgerConfig, logger *slog.Logger) (*Postgres, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "invoice-extractor"

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	l := NewPostgres(pool, logger)
	if err := l.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("postgres ledger ready", "max_conns", pc.MaxConns)
	return l, nil
}

// Migrate creates the ledger table if it does not exist.
func (l *Postgres) Migrate(ctx context.Context) error {
	stmts, err := schemaStatements(dialect.Postgres)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := l.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return nil
}

func (l *Postgres) Contains(ctx context.Context, filename string) (bool, error) {
	query, args := containsQuery(dialect.Postgres, filename)
	var n int64
	if err := l.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("count entries: %w", err)
	}
	return n > 0, nil
}

// Append inserts e with a fresh id and the current time.
func (l *Postgres) Append(ctx context.Context, e Entry) error {
	query, args := insertQuery(dialect.Postgres, e, l.now())
	tag, err := l.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	l.logger.Debug("ledger row inserted", "filename", e.Filename, "rows", tag.RowsAffected())
	return nil
}

// HealthCheck pings the pool within timeout.
func (l *Postgres) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return l.pool.Ping(ctx)
}

func (l *Postgres) Close() error {
	l.pool.Close()
	return nil
}
