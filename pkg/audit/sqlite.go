package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"mercator-hq/tollgate/pkg/money"
)

// SQLiteConfig configures the SQLite audit log.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// WALMode enables write-ahead logging for better concurrency.
	// Default: true
	WALMode bool
}

// DefaultSQLiteConfig returns the default audit log configuration.
func DefaultSQLiteConfig(path string) SQLiteConfig {
	return SQLiteConfig{
		Path:        path,
		BusyTimeout: 5 * time.Second,
		WALMode:     true,
	}
}

// SQLiteLog implements Log using a local SQLite database.
type SQLiteLog struct {
	db        *sql.DB
	logger    *slog.Logger
	closeOnce sync.Once

	appendStmt *sql.Stmt
	pruneStmt  *sql.Stmt
}

// NewSQLiteLog opens (creating if necessary) a SQLite audit log.
func NewSQLiteLog(cfg SQLiteConfig) (*SQLiteLog, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("audit log path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	// SQLite supports a single writer; keep the pool to one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	l := &SQLiteLog{
		db:     db,
		logger: slog.Default().With("component", "audit.sqlite"),
	}

	if err := l.initialize(cfg); err != nil {
		db.Close()
		return nil, err
	}
	if err := l.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	l.logger.Debug("audit log opened", "path", cfg.Path, "wal_mode", cfg.WALMode)

	return l, nil
}

// initialize applies pragmas and creates the schema.
func (l *SQLiteLog) initialize(cfg SQLiteConfig) error {
	if cfg.WALMode {
		if _, err := l.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := l.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS charge_audit (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		event_name TEXT NOT NULL,
		title TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		charged_count INTEGER NOT NULL,
		charged_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_charge_audit_run ON charge_audit(run_id);
	CREATE INDEX IF NOT EXISTS idx_charge_audit_charged_at ON charge_audit(charged_at);
	`
	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	return nil
}

// prepareStatements pre-compiles the hot-path statements.
func (l *SQLiteLog) prepareStatements() error {
	var err error

	l.appendStmt, err = l.db.Prepare(`
		INSERT INTO charge_audit (run_id, event_name, title, unit_price, charged_count, charged_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare append statement: %w", err)
	}

	l.pruneStmt, err = l.db.Prepare(`
		DELETE FROM charge_audit WHERE charged_at < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare prune statement: %w", err)
	}

	return nil
}

// Append implements Log.
func (l *SQLiteLog) Append(ctx context.Context, e Entry) error {
	_, err := l.appendStmt.ExecContext(ctx,
		e.RunID,
		e.EventName,
		e.Title,
		e.UnitPrice.String(),
		e.ChargedCount,
		e.ChargedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// List implements Log.
func (l *SQLiteLog) List(ctx context.Context, runID string, limit int) ([]Entry, error) {
	query := `
		SELECT run_id, event_name, title, unit_price, charged_count, charged_at
		FROM charge_audit
	`
	var args []any
	if runID != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			priceText string
			chargedAt int64
		)
		if err := rows.Scan(&e.RunID, &e.EventName, &e.Title, &priceText, &e.ChargedCount, &chargedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		if e.UnitPrice, err = parseStoredPrice(priceText); err != nil {
			return nil, err
		}
		e.ChargedAt = time.UnixMilli(chargedAt).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}

	return entries, nil
}

// Purge implements Log.
func (l *SQLiteLog) Purge(ctx context.Context, runID string) error {
	var err error
	if runID == "" {
		_, err = l.db.ExecContext(ctx, "DELETE FROM charge_audit")
	} else {
		_, err = l.db.ExecContext(ctx, "DELETE FROM charge_audit WHERE run_id = ?", runID)
	}
	if err != nil {
		return fmt.Errorf("failed to purge audit entries: %w", err)
	}
	return nil
}

// PruneOlderThan implements Log.
func (l *SQLiteLog) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := l.pruneStmt.ExecContext(ctx, cutoff.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit entries: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get pruned row count: %w", err)
	}
	return int(deleted), nil
}

// parseStoredPrice decodes a unit price column value.
func parseStoredPrice(text string) (money.Amount, error) {
	price, err := money.Parse(text)
	if err != nil {
		return money.Amount{}, fmt.Errorf("corrupt unit price %q in audit row: %w", text, err)
	}
	return price, nil
}

// Close implements Log. Close is idempotent.
func (l *SQLiteLog) Close() error {
	var closeErr error

	l.closeOnce.Do(func() {
		if l.appendStmt != nil {
			l.appendStmt.Close()
		}
		if l.pruneStmt != nil {
			l.pruneStmt.Close()
		}
		if l.db != nil {
			_, _ = l.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = l.db.Close()
		}
	})

	return closeErr
}
