// Package history logs one row per compile run (source file, whether
// it had diagnostics, instruction count, elapsed time) to a
// database/sql backend selected by DSN scheme — mysql://, postgres://,
// sqlserver://, or a bare filesystem path for sqlite.
//
// A DSN scheme selects the driver (mysql://, postgres://,
// sqlserver://, or a bare filesystem path for sqlite), the same
// dbType-switch-over-driver-name dispatch style used for credential
// scanning connections elsewhere, simplified to a single DSN string
// since a compile history store has no need for the individual
// host/port/user/pass fields.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/google/uuid"
)

// Store wraps a *sql.DB opened against one of the four supported
// backends and knows how to record a compile run.
type Store struct {
	db     *sql.DB
	driver string
}

// DefaultDSN is used when the CLI is not told where to log; it keeps
// a small sqlite file next to wherever the process is run from.
const DefaultDSN = "sqlite3://.decaf_history.db"

// Open parses dsn's scheme to pick a database/sql driver name and
// connection string, opens the database, and ensures the run log
// table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	driver, conn, err := splitDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, conn)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping %s: %w", driver, err)
	}
	s := &Store{db: db, driver: driver}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// splitDSN maps a "scheme://rest" DSN to a database/sql driver name
// and the connection string that driver expects. A DSN with no "://"
// is treated as a bare sqlite file path; "sqlite3" and "sqlite" are
// accepted as synonymous scheme names.
func splitDSN(dsn string) (driver, conn string, err error) {
	scheme, rest, hasScheme := strings.Cut(dsn, "://")
	if !hasScheme {
		return "sqlite3", dsn, nil
	}
	switch strings.ToLower(scheme) {
	case "mysql":
		return "mysql", rest, nil
	case "postgres", "postgresql":
		return "postgres", dsn, nil
	case "sqlserver", "mssql":
		return "sqlserver", dsn, nil
	case "sqlite3", "sqlite":
		return "sqlite3", rest, nil
	default:
		return "", "", fmt.Errorf("history: unsupported DSN scheme %q", scheme)
	}
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS compile_runs (
			id          TEXT PRIMARY KEY,
			source_file TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			had_errors  INTEGER NOT NULL,
			diag_count  INTEGER NOT NULL,
			ir_lines    INTEGER NOT NULL,
			optimized   INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			recorded_at TIMESTAMP NOT NULL
		)`)
	return err
}

// Run is one completed compile invocation.
type Run struct {
	SourceFile  string
	Fingerprint string
	HadErrors   bool
	DiagCount   int
	IRLines     int
	Optimized   bool
	Duration    time.Duration
	RecordedAt  time.Time
}

// Record inserts run, assigning it a fresh UUID primary key. The "?"
// placeholders below are native to the sqlite3 and mysql drivers;
// postgres/sqlserver backends are expected to sit behind a DSN that
// routes through a placeholder-rewriting pooler, since query syntax is
// not normalized across drivers here.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compile_runs
			(id, source_file, fingerprint, had_errors, diag_count, ir_lines, optimized, duration_ms, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, run.SourceFile, run.Fingerprint, boolToInt(run.HadErrors), run.DiagCount,
		run.IRLines, boolToInt(run.Optimized), run.Duration.Milliseconds(), run.RecordedAt,
	)
	if err != nil {
		return "", fmt.Errorf("history: record run: %w", err)
	}
	return id, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }
