// internal/data/database.go
package data

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"compreg/internal/logger"
)

// =============================================================================
// CONSTANTS AND GLOBAL VARIABLES
// =============================================================================

// Global database instance
var (
	db   *sql.DB
	dbMu sync.RWMutex
)

// Database connection configuration. The ledger sees one writer per run, so
// the pool stays small.
const (
	maxOpenConns    = 4
	maxIdleConns    = 2
	connMaxLifetime = time.Hour
	queryTimeout    = time.Second * 30
)

const TimeFormat = time.RFC3339

// =============================================================================
// DATABASE CONNECTION AND SETUP
// =============================================================================

// InitDB opens the ledger database and verifies the connection.
func InitDB(dataSourceName string) error {
	dbMu.Lock()
	defer dbMu.Unlock()

	if db != nil {
		db.Close()
	}

	var err error
	db, err = sql.Open("sqlite", dataSourceName)
	if err != nil {
		return fmt.Errorf("failed to open ledger database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		db = nil
		return fmt.Errorf("failed to ping ledger database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		logger.LogWarn("Failed to enable some database optimizations: %v", err)
		// Pragma failures are not fatal
	}

	logger.LogInfo("Ledger database ready at %s", dataSourceName)
	return nil
}

func enablePragmas(conn *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}

	var lastErr error
	for _, pragma := range pragmas {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		_, err := conn.ExecContext(ctx, pragma)
		cancel()

		if err != nil {
			logger.LogWarn("Failed to execute %s: %v", pragma, err)
			lastErr = err
		}
	}
	return lastErr
}

// CloseDB closes the ledger database.
func CloseDB() error {
	dbMu.Lock()
	defer dbMu.Unlock()

	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// CreateTables creates the ledger schema when missing.
func CreateTables() error {
	const runs = `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			completed_at TEXT,
			teacher_rows INTEGER NOT NULL DEFAULT 0,
			team_rows INTEGER NOT NULL DEFAULT 0,
			group_count INTEGER NOT NULL DEFAULT 0,
			student_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'running'
		)`

	const invoices = `
		CREATE TABLE IF NOT EXISTS invoices (
			number TEXT PRIMARY KEY,
			run_id TEXT NOT NULL REFERENCES runs(id),
			group_name TEXT NOT NULL,
			total REAL NOT NULL,
			issued_at TEXT NOT NULL
		)`

	for _, stmt := range []string{runs, invoices} {
		if _, err := ExecDB(stmt); err != nil {
			return fmt.Errorf("failed to create ledger tables: %w", err)
		}
	}
	return nil
}

// =============================================================================
// QUERY HELPERS
// =============================================================================

// ExecDB runs a statement with the standard timeout.
func ExecDB(query string, args ...interface{}) (sql.Result, error) {
	dbMu.RLock()
	conn := db
	dbMu.RUnlock()

	if conn == nil {
		return nil, fmt.Errorf("ledger database not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return conn.ExecContext(ctx, query, args...)
}

// QueryRowDB runs a single-row query with the standard timeout.
func QueryRowDB(query string, args ...interface{}) *sql.Row {
	dbMu.RLock()
	conn := db
	dbMu.RUnlock()

	if conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return conn.QueryRowContext(ctx, query, args...)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}
