package statestore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteBackend implements Backend using SQLite for persistence.
// Suitable for local runs that must survive process restarts.
type SQLiteBackend struct {
	db        *sql.DB
	closeOnce sync.Once
}

// SQLiteBackendConfig configures the SQLite backend.
type SQLiteBackendConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteBackend creates a SQLite state store with default settings.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	return NewSQLiteBackendWithConfig(SQLiteBackendConfig{DBPath: dbPath})
}

// NewSQLiteBackendWithConfig creates a SQLite state store with custom
// configuration.
func NewSQLiteBackendWithConfig(cfg SQLiteBackendConfig) (*SQLiteBackend, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	backend := &SQLiteBackend{db: db}

	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return backend, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS charge_counts (
		run_id TEXT NOT NULL,
		event_name TEXT NOT NULL,
		charged_count INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (run_id, event_name)
	);

	CREATE INDEX IF NOT EXISTS idx_charge_counts_updated ON charge_counts(updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveCounts implements Backend. The run's stored counts are replaced in a
// single transaction so a crash can never leave a partial snapshot.
func (s *SQLiteBackend) SaveCounts(ctx context.Context, runID string, counts map[string]int64) error {
	if runID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM charge_counts WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("failed to clear previous counts: %w", err)
	}

	now := time.Now().Unix()
	for event, count := range counts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO charge_counts (run_id, event_name, charged_count, updated_at)
			VALUES (?, ?, ?, ?)
		`, runID, event, count, now); err != nil {
			return fmt.Errorf("failed to save count for %q: %w", event, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit counts: %w", err)
	}
	return nil
}

// LoadCounts implements Backend.
func (s *SQLiteBackend) LoadCounts(ctx context.Context, runID string) (map[string]int64, error) {
	if runID == "" {
		return nil, fmt.Errorf("run ID cannot be empty")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT event_name, charged_count FROM charge_counts WHERE run_id = ?
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			event string
			count int64
		)
		if err := rows.Scan(&event, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[event] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}

	return counts, nil
}

// Delete implements Backend.
func (s *SQLiteBackend) Delete(ctx context.Context, runID string) error {
	if runID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM charge_counts WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("failed to delete counts: %w", err)
	}
	return nil
}

// Close implements Backend. Close is idempotent.
func (s *SQLiteBackend) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		closeErr = s.db.Close()
	})
	return closeErr
}
