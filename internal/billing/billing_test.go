package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"compreg/internal/catalog"
	"compreg/internal/model"
	"compreg/internal/roster"
)

func testComposer(seq *Sequence, r Renderer) *Composer {
	return &Composer{
		From:   "Competition Organizing Committee",
		Prefix: "INV-",
		Notes:  "Payment due within 30 days.",
		Pricing: Pricing{
			StandardRate: 15,
			MultiRate:    25,
			SliceRate:    3.75,
		},
		Seq:      seq,
		Renderer: r,
		Now:      func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) },
	}
}

func billableGraph(t *testing.T) *model.Graph {
	t.Helper()
	teachers := []roster.TeacherRow{
		{
			School: "Lincoln High",
			Street: "12 Main St", City: "Ottawa", Province: "ON", PostalCode: "K1A 0A1", Country: "Canada",
			Supervisors: [2]roster.SupervisorSlot{
				{Name: "Pat Teacher", Email: "a@x.com", Lunch: "2 slices of pepperoni"},
			},
		},
		{
			// No mailing address: never billed
			School: "Walk-In Collective",
			Supervisors: [2]roster.SupervisorSlot{
				{Name: "Drop In", Email: "d@x.com"},
			},
		},
	}
	teams := []roster.TeamRow{{
		TeamName: "Raptors", PrimaryEmail: "a@x.com", Challenges: "Maze Runner, Line Follower",
	}}
	teams[0].Students[0] = roster.StudentSlot{Name: "S1", Lunch: "1 slice of cheese"}
	teams[0].Students[1] = roster.StudentSlot{Name: "S2", Lunch: "1 slice of cheese"}

	g, err := model.Build(catalog.Default(), teachers, teams)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestSequenceFormatting(t *testing.T) {
	seq := NewSequence(1, 4)
	if got := seq.Peek(); got != "0001" {
		t.Errorf("Peek: got %q, want 0001", got)
	}
	if got := seq.Next(); got != "0001" {
		t.Errorf("first Next: got %q", got)
	}
	if got := seq.Next(); got != "0002" {
		t.Errorf("second Next: got %q", got)
	}
}

func TestComposePayload(t *testing.T) {
	g := billableGraph(t)
	c := testComposer(NewSequence(1, 4), nil)

	p := c.Compose(g.Group("Lincoln High"))

	if p.Number != "INV-0001" {
		t.Errorf("number: got %q", p.Number)
	}
	if p.Date != "03/14/2026" || p.DueDate != "04/13/2026" {
		t.Errorf("dates: got %q / %q", p.Date, p.DueDate)
	}
	if len(p.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(p.Items))
	}
	// 2 students at the multi-challenge rate
	if p.Items[0].Quantity != 2 || p.Items[0].UnitCost != 25 {
		t.Errorf("registration line: %+v", p.Items[0])
	}
	// 1 full lunch (supervisor) + 2 half lunches = 4 slice-equivalents
	if p.Items[1].Quantity != 4 || p.Items[1].UnitCost != 3.75 {
		t.Errorf("lunch line: %+v", p.Items[1])
	}
	if want := 2*25 + 4*3.75; p.Total() != want {
		t.Errorf("total: got %.2f, want %.2f", p.Total(), want)
	}
}

func TestIssueAllSkipsEmptyAddressWithoutConsumingNumbers(t *testing.T) {
	var rendered []Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		rendered = append(rendered, p)
		w.Write([]byte("%PDF-fake"))
	}))
	defer server.Close()

	g := billableGraph(t)
	seq := NewSequence(1, 4)
	c := testComposer(seq, &HTTPRenderer{Endpoint: server.URL})

	dir := t.TempDir()
	issued, err := c.IssueAll(context.Background(), g, dir)
	if err != nil {
		t.Fatalf("IssueAll failed: %v", err)
	}

	if len(issued) != 1 {
		t.Fatalf("got %d invoices, want 1 (addressless group skipped)", len(issued))
	}
	if issued[0].Number != "INV-0001" || issued[0].Group != "Lincoln High" {
		t.Errorf("issued: %+v", issued[0])
	}
	if seq.Peek() != "0002" {
		t.Errorf("skipped group must not consume a number, next is %q", seq.Peek())
	}

	doc, err := os.ReadFile(filepath.Join(dir, "invoice_INV-0001.pdf"))
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if string(doc) != "%PDF-fake" {
		t.Errorf("artifact content: %q", doc)
	}
	if len(rendered) != 1 {
		t.Errorf("renderer called %d times, want 1", len(rendered))
	}
}

func TestRendererFailureAbortsRemainingInvoices(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			http.Error(w, "render backend down", http.StatusBadGateway)
			return
		}
		w.Write([]byte("%PDF-fake"))
	}))
	defer server.Close()

	teachers := []roster.TeacherRow{
		{School: "First", Street: "1 A St", Supervisors: [2]roster.SupervisorSlot{{Name: "T1", Email: "t1@x.com"}}},
		{School: "Second", Street: "2 B St", Supervisors: [2]roster.SupervisorSlot{{Name: "T2", Email: "t2@x.com"}}},
		{School: "Third", Street: "3 C St", Supervisors: [2]roster.SupervisorSlot{{Name: "T3", Email: "t3@x.com"}}},
	}
	g, err := model.Build(catalog.Default(), teachers, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	c := testComposer(NewSequence(1, 4), &HTTPRenderer{Endpoint: server.URL})
	dir := t.TempDir()

	issued, err := c.IssueAll(context.Background(), g, dir)
	if err == nil {
		t.Fatal("expected the renderer failure to propagate")
	}
	if len(issued) != 1 {
		t.Errorf("got %d issued before the failure, want 1", len(issued))
	}
	if calls != 2 {
		t.Errorf("renderer called %d times, want 2 (no retries, no continuation)", calls)
	}

	// The invoice written before the failure stays on disk.
	if _, err := os.Stat(filepath.Join(dir, "invoice_INV-0001.pdf")); err != nil {
		t.Errorf("previously written invoice must not be rolled back: %v", err)
	}
}
