package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/andy/invoiceflow/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// InsightsUnavailable replaces any failed summary
	InsightsUnavailable = "Unable to generate insights at this time."
	// NoInsights is shown when the model answers with nothing
	NoInsights = "No insights available."
)

const summaryPrompt = `
Analyze the following invoice data for a Ugandan business and provide a brief executive summary.
Amounts are in UGX.
Include 3 key insights about revenue trends, payment status, or customer concentration.
Keep it professional and concise.

Data: %s
`

type invoiceDigest struct {
	Amount   decimal.Decimal      `json:"amount"`
	Status   domain.InvoiceStatus `json:"status"`
	Date     string               `json:"date"`
	Customer string               `json:"customer"`
}

// Summarizer produces a prose summary of the invoice catalog
type Summarizer struct {
	completer Completer
}

// NewSummarizer creates a Summarizer over the given completer.
// A nil completer always yields InsightsUnavailable.
func NewSummarizer(completer Completer) *Summarizer {
	return &Summarizer{completer: completer}
}

// Summarize never fails; errors collapse into InsightsUnavailable
func (s *Summarizer) Summarize(ctx context.Context, invoices []*domain.Invoice) string {
	if s.completer == nil {
		return InsightsUnavailable
	}

	data, err := DigestJSON(invoices)
	if err != nil {
		log.Printf("insights: encode invoices: %v", err)
		return InsightsUnavailable
	}

	text, err := s.completer.Complete(ctx, Request{Prompt: fmt.Sprintf(summaryPrompt, data)})
	if err != nil {
		log.Printf("insights: %v", err)
		return InsightsUnavailable
	}

	if strings.TrimSpace(text) == "" {
		return NoInsights
	}
	return strings.TrimSpace(text)
}

// DigestJSON reduces invoices to the fields the summary prompt uses
func DigestJSON(invoices []*domain.Invoice) (string, error) {
	digest := make([]invoiceDigest, 0, len(invoices))
	for _, inv := range invoices {
		digest = append(digest, invoiceDigest{
			Amount:   inv.Total,
			Status:   inv.Status,
			Date:     inv.Date.Format(domain.DateLayout),
			Customer: inv.CustomerName(),
		})
	}

	data, err := json.Marshal(digest)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
