// internal/billing/billing.go
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"compreg/internal/logger"
	"compreg/internal/model"
)

// invoiceDateFormat is the renderer's expected date layout (MM/DD/YYYY).
const invoiceDateFormat = "01/02/2006"

// paymentTermDays sets the due date relative to the issue date.
const paymentTermDays = 30

// LineItem is one billed line on the rendered invoice.
type LineItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	UnitCost float64 `json:"unit_cost"`
}

// Payload is the document-rendering request body.
type Payload struct {
	From    string     `json:"from"`
	To      string     `json:"to"`
	Logo    string     `json:"logo,omitempty"`
	Date    string     `json:"date"`
	DueDate string     `json:"due_date"`
	Number  string     `json:"number"`
	Items   []LineItem `json:"items"`
	Notes   string     `json:"notes"`
}

// Total sums the payload's line items.
func (p Payload) Total() float64 {
	var total float64
	for _, item := range p.Items {
		total += float64(item.Quantity) * item.UnitCost
	}
	return total
}

// Renderer turns a payload into a rendered document. The production
// implementation calls the external rendering service; tests substitute a mock.
type Renderer interface {
	Render(ctx context.Context, p Payload) ([]byte, error)
}

// HTTPRenderer posts payloads to the external document-rendering endpoint.
type HTTPRenderer struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

func (r *HTTPRenderer) Render(ctx context.Context, p Payload) ([]byte, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice %s: %w", p.Number, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.APIKey)
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render request for invoice %s failed: %w", p.Number, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("renderer returned %d for invoice %s: %s", resp.StatusCode, p.Number, strings.TrimSpace(string(snippet)))
	}

	doc, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered invoice %s: %w", p.Number, err)
	}
	return doc, nil
}

// Pricing holds the fixed unit prices for the two line items.
type Pricing struct {
	StandardRate float64 // per student, single-challenge teams
	MultiRate    float64 // per student, multi-challenge teams
	SliceRate    float64 // per lunch slice-equivalent
}

// Issued records one successfully rendered and persisted invoice.
type Issued struct {
	Number string
	Group  string
	Path   string
	Total  float64
}

// Composer builds one invoice per billable group and hands it to the renderer.
type Composer struct {
	From     string
	Logo     string
	Prefix   string
	Notes    string
	Pricing  Pricing
	Seq      *Sequence
	Renderer Renderer
	Now      func() time.Time
}

// Compose builds the payload for one group. The caller has already checked the
// address is non-empty.
func (c *Composer) Compose(g *model.Group) Payload {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}

	rate := c.Pricing.StandardRate
	if g.Rates.Challenge == model.RateMultiChallenge {
		rate = c.Pricing.MultiRate
	}

	return Payload{
		From:    c.From,
		To:      recipientBlock(g),
		Logo:    c.Logo,
		Date:    now.Format(invoiceDateFormat),
		DueDate: now.AddDate(0, 0, paymentTermDays).Format(invoiceDateFormat),
		Number:  c.Prefix + c.Seq.Next(),
		Items: []LineItem{
			{
				Name:     fmt.Sprintf("Team registration (%s)", g.Rates.Challenge),
				Quantity: g.Rates.Students,
				UnitCost: rate,
			},
			{
				Name:     "Lunch (pizza slices)",
				Quantity: g.Rates.LunchQuantity(),
				UnitCost: c.Pricing.SliceRate,
			},
		},
		Notes: c.Notes,
	}
}

// IssueAll renders one invoice per group with a mailing address, persisting
// each document under dir as invoice_<number>.pdf. Groups without an address
// are skipped and consume no invoice number. A renderer failure aborts the
// remaining invoices; documents already written stay on disk.
func (c *Composer) IssueAll(ctx context.Context, g *model.Graph, dir string) ([]Issued, error) {
	if err := os.MkdirAll(dir, 0775); err != nil {
		return nil, fmt.Errorf("failed to create billing directory: %w", err)
	}

	var issued []Issued
	for _, grp := range g.Groups() {
		if grp.Address.Empty() {
			logger.LogInfo("Group %q has no mailing address, skipping invoice", grp.Name)
			continue
		}

		payload := c.Compose(grp)
		doc, err := c.Renderer.Render(ctx, payload)
		if err != nil {
			return issued, fmt.Errorf("failed to render invoice for group %q: %w", grp.Name, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("invoice_%s.pdf", payload.Number))
		if err := os.WriteFile(path, doc, 0664); err != nil {
			return issued, fmt.Errorf("failed to write invoice %s: %w", payload.Number, err)
		}

		logger.LogInfo("Issued invoice %s to %q for $%.2f", payload.Number, grp.Name, payload.Total())
		issued = append(issued, Issued{
			Number: payload.Number,
			Group:  grp.Name,
			Path:   path,
			Total:  payload.Total(),
		})
	}
	return issued, nil
}

// recipientBlock formats the group's address the way the renderer expects a
// multi-line "to" field.
func recipientBlock(g *model.Group) string {
	lines := []string{g.Name}
	if g.Address.Contact != "" {
		lines = append(lines, "c/o "+g.Address.Contact)
	}
	if g.Address.Street != "" {
		lines = append(lines, g.Address.Street)
	}
	cityLine := strings.TrimSpace(strings.Join(nonEmpty(g.Address.City, g.Address.Province, g.Address.PostalCode), " "))
	if cityLine != "" {
		lines = append(lines, cityLine)
	}
	if g.Address.Country != "" {
		lines = append(lines, g.Address.Country)
	}
	return strings.Join(lines, "\n")
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
