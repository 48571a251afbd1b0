package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/andy/invoiceflow/internal/domain"
)

const extractPrompt = `
Extract invoice details from the following text description.
The context is typically Ugandan business.
Return a JSON object with 'customer' (name, email, address) and 'items' (array of description, quantity, unitPrice).
Also estimate the 'date' if mentioned, otherwise use today's date (YYYY-MM-DD). Today is %s.
If currency is not specified, assume amounts are in UGX (Ugandan Shillings).

Text: %q
`

// ExtractionSchema constrains the model to a partial draft
var ExtractionSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"customer": {
			Type: TypeObject,
			Properties: map[string]*Schema{
				"name":    {Type: TypeString},
				"email":   {Type: TypeString},
				"address": {Type: TypeString},
			},
			Required: []string{"name"},
		},
		"items": {
			Type: TypeArray,
			Items: &Schema{
				Type: TypeObject,
				Properties: map[string]*Schema{
					"description": {Type: TypeString},
					"quantity":    {Type: TypeNumber},
					"unitPrice":   {Type: TypeNumber},
				},
				Required: []string{"description", "quantity", "unitPrice"},
			},
		},
		"date": {Type: TypeString},
	},
}

type extraction struct {
	Customer *struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		Address *string `json:"address"`
	} `json:"customer"`
	Items []struct {
		Description *string  `json:"description"`
		Quantity    *float64 `json:"quantity"`
		UnitPrice   *float64 `json:"unitPrice"`
	} `json:"items"`
	Date *string `json:"date"`
}

// Extractor turns free text into a partial draft
type Extractor struct {
	completer Completer
	now       func() time.Time
}

// NewExtractor creates an Extractor over the given completer
func NewExtractor(completer Completer) *Extractor {
	return &Extractor{completer: completer, now: time.Now}
}

// Extract asks the model for structured invoice fields found in text.
// The returned patch holds only the fields the model reported.
func (e *Extractor) Extract(ctx context.Context, text string) (*domain.DraftPatch, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	prompt := fmt.Sprintf(extractPrompt, e.now().Format(domain.DateLayout), text)
	raw, err := e.completer.Complete(ctx, Request{Prompt: prompt, Schema: ExtractionSchema})
	if err != nil {
		return nil, fmt.Errorf("extract invoice: %w", err)
	}

	return ParseExtraction(raw)
}

// ParseExtraction decodes and checks a structured completion
func ParseExtraction(raw string) (*domain.DraftPatch, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, ErrEmptyResponse
	}
	if !json.Valid([]byte(raw)) {
		return nil, ErrMalformedResponse
	}

	var out extraction
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	patch := &domain.DraftPatch{}

	if out.Customer != nil {
		if out.Customer.Name == nil {
			return nil, fmt.Errorf("%w: customer.name is required", ErrSchemaViolation)
		}
		patch.CustomerName = out.Customer.Name
		patch.CustomerEmail = out.Customer.Email
		patch.CustomerAddress = out.Customer.Address
	}

	for i, item := range out.Items {
		if item.Description == nil || item.Quantity == nil || item.UnitPrice == nil {
			return nil, fmt.Errorf("%w: items[%d] needs description, quantity and unitPrice", ErrSchemaViolation, i)
		}
		patch.Items = append(patch.Items, domain.DraftItem{
			Description: *item.Description,
			Quantity:    *item.Quantity,
			UnitPrice:   *item.UnitPrice,
		})
	}

	if out.Date != nil && *out.Date != "" {
		if _, err := time.Parse(domain.DateLayout, *out.Date); err != nil {
			return nil, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrSchemaViolation, *out.Date)
		}
		patch.Date = out.Date
	}

	return patch, nil
}
