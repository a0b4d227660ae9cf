package data

import (
	"path/filepath"
	"testing"
	"time"
)

func setupLedger(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	if err := InitDB(path); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { CloseDB() })
	if err := CreateTables(); err != nil {
		t.Fatalf("CreateTables failed: %v", err)
	}
}

func TestRunLifecycle(t *testing.T) {
	setupLedger(t)

	started := time.Now()
	id, err := BeginRun(started)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if id == "" {
		t.Fatal("run ID should not be empty")
	}

	rec := RunRecord{TeacherRows: 3, TeamRows: 2, GroupCount: 3, StudentCount: 11}
	if err := CompleteRun(id, rec, "completed", time.Now()); err != nil {
		t.Fatalf("CompleteRun failed: %v", err)
	}

	row := QueryRowDB(`SELECT status, student_count FROM runs WHERE id = ?`, id)
	var status string
	var students int
	if err := row.Scan(&status, &students); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if status != "completed" || students != 11 {
		t.Errorf("got status=%q students=%d", status, students)
	}
}

func TestInsertInvoice(t *testing.T) {
	setupLedger(t)

	id, err := BeginRun(time.Now())
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}

	err = InsertInvoice(InvoiceRecord{
		Number:   "INV-0001",
		RunID:    id,
		Group:    "Lincoln High",
		Total:    65,
		IssuedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("InsertInvoice failed: %v", err)
	}

	// Invoice numbers are unique per ledger
	err = InsertInvoice(InvoiceRecord{Number: "INV-0001", RunID: id, Group: "Dup", IssuedAt: time.Now()})
	if err == nil {
		t.Error("expected a duplicate invoice number to be rejected")
	}
}
