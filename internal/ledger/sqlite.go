package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	_ "modernc.org/sqlite"
)

// SQLite is the embedded database ledger.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// OpenSQLite opens (or creates) the database at path and ensures the
// schema exists.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; sqlite serializes anyway and :memory: is per connection
	db.SetMaxOpenConns(1)

	stmts, err := schemaStatements(dialect.SQLite)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	logger.Info("sqlite ledger ready", "path", path)
	return &SQLite{db: db, logger: logger, now: time.Now}, nil
}

func (l *SQLite) Contains(ctx context.Context, filename string) (bool, error) {
	query, args := containsQuery(dialect.SQLite, filename)
	var n int
	if err := l.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("count entries: %w", err)
	}
	return n > 0, nil
}

func (l *SQLite) Append(ctx context.Context, e Entry) error {
	query, args := insertQuery(dialect.SQLite, e, l.now())
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (l *SQLite) Close() error {
	return l.db.Close()
}
