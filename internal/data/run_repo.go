// internal/data/run_repo.go
package data

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// RUN LEDGER
// =============================================================================

// RunRecord is one pipeline execution as recorded in the ledger.
type RunRecord struct {
	ID           string
	StartedAt    time.Time
	TeacherRows  int
	TeamRows     int
	GroupCount   int
	StudentCount int
	Status       string
}

// InvoiceRecord is one issued invoice tied to its run.
type InvoiceRecord struct {
	Number   string
	RunID    string
	Group    string
	Total    float64
	IssuedAt time.Time
}

// BeginRun inserts a new run row and returns its generated ID.
func BeginRun(startedAt time.Time) (string, error) {
	id := uuid.NewString()

	const stmt = `
		INSERT INTO runs (id, started_at, status)
		VALUES (?, ?, 'running')`

	if _, err := ExecDB(stmt, id, formatTime(startedAt)); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// CompleteRun records the run's counts and terminal status.
func CompleteRun(id string, rec RunRecord, status string, completedAt time.Time) error {
	const stmt = `
		UPDATE runs
		SET completed_at = ?, teacher_rows = ?, team_rows = ?,
			group_count = ?, student_count = ?, status = ?
		WHERE id = ?`

	if _, err := ExecDB(stmt, formatTime(completedAt), rec.TeacherRows, rec.TeamRows,
		rec.GroupCount, rec.StudentCount, status, id); err != nil {
		return fmt.Errorf("failed to complete run %s: %w", id, err)
	}
	return nil
}

// InsertInvoice records one issued invoice.
func InsertInvoice(rec InvoiceRecord) error {
	const stmt = `
		INSERT INTO invoices (number, run_id, group_name, total, issued_at)
		VALUES (?, ?, ?, ?, ?)`

	if _, err := ExecDB(stmt, rec.Number, rec.RunID, rec.Group, rec.Total, formatTime(rec.IssuedAt)); err != nil {
		return fmt.Errorf("failed to insert invoice %s: %w", rec.Number, err)
	}
	return nil
}
