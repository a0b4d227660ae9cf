package table

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestDuplicateHeadersGetSuffixes(t *testing.T) {
	tb := New([]string{"Lunch Choice", "Name", "Lunch Choice", "Lunch Choice"})

	got := tb.Columns()
	want := []string{"Lunch Choice", "Name", "Lunch Choice.1", "Lunch Choice.2"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCellAndColumn(t *testing.T) {
	tb := New([]string{"A", "B"})
	tb.AppendRow("1", "2")
	tb.AppendRow("3", "4")

	v, err := tb.Cell(1, "B")
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if v != "4" {
		t.Errorf("got %q, want 4", v)
	}

	col, err := tb.Column("A")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	if len(col) != 2 || col[0] != "1" || col[1] != "3" {
		t.Errorf("unexpected column: %v", col)
	}
}

func TestMissingColumnIsFatalLookup(t *testing.T) {
	tb := New([]string{"A"})
	tb.AppendRow("1")

	if _, err := tb.Cell(0, "Renamed"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound, got %v", err)
	}
	if _, err := tb.Column("Renamed"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound, got %v", err)
	}
}

func TestShortRowsArePadded(t *testing.T) {
	tb := New([]string{"A", "B", "C"})
	tb.AppendRow("1")

	v, err := tb.Cell(0, "C")
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if v != "" {
		t.Errorf("got %q, want empty padding", v)
	}
}

func TestReadHandlesRaggedRows(t *testing.T) {
	in := "A,B,C\n1,2,3\n4,5\n"
	tb, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if tb.Len() != 2 {
		t.Fatalf("got %d rows, want 2", tb.Len())
	}
	v, _ := tb.Cell(1, "C")
	if v != "" {
		t.Errorf("ragged row: got %q, want empty", v)
	}
}

func TestWriteFileThenReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.csv")

	tb := New([]string{"Group", "Slices"})
	tb.AppendRow("Lincoln High", "3")
	if err := tb.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	v, err := back.Cell(0, "Slices")
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if v != "3" {
		t.Errorf("got %q, want 3", v)
	}
}
