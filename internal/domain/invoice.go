package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for issue and due dates
const DateLayout = "2006-01-02"

type InvoiceStatus string

const (
	InvoiceStatusPaid    InvoiceStatus = "Paid"
	InvoiceStatusPending InvoiceStatus = "Pending"
	InvoiceStatusOverdue InvoiceStatus = "Overdue"
	InvoiceStatusDraft   InvoiceStatus = "Draft"
)

// InvoiceStatuses lists every status in display order
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusPaid,
	InvoiceStatusPending,
	InvoiceStatusOverdue,
	InvoiceStatusDraft,
}

// ParseInvoiceStatus parses a status name case-insensitively
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	for _, status := range InvoiceStatuses {
		if strings.EqualFold(string(status), strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown invoice status %q", s)
}

type Invoice struct {
	ID          string
	Number      string
	Date        time.Time
	DueDate     time.Time
	Customer    *Customer
	Items       []*LineItem
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	Status      InvoiceStatus
	Currency    string
	PaymentLink string
}

type LineItem struct {
	Description string          `json:"description"`
	Quantity    float64         `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// NewLineItem creates a line item with its total already derived
func NewLineItem(description string, quantity float64, unitPrice decimal.Decimal) *LineItem {
	return &LineItem{
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       LineTotal(quantity, unitPrice),
	}
}

// CalculateTotals recalculates every line total, then subtotal, tax, and total
func (i *Invoice) CalculateTotals() {
	lines := make([]LineAmount, len(i.Items))
	for idx, item := range i.Items {
		item.Total = LineTotal(item.Quantity, item.UnitPrice)
		lines[idx] = LineAmount{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}

	t := ComputeTotals(lines, VATRate)
	i.Subtotal = t.Subtotal
	i.Tax = t.Tax
	i.Total = t.Total
}

// Validate returns an error if the invoice is invalid or its totals are inconsistent
func (i *Invoice) Validate() error {
	if i.ID == "" {
		return errors.New("invoice ID is required")
	}
	if i.Number == "" {
		return errors.New("invoice number is required")
	}
	if i.Customer == nil {
		return errors.New("customer is required")
	}
	if err := i.Customer.Validate(); err != nil {
		return err
	}
	if i.Date.IsZero() {
		return errors.New("issue date is required")
	}
	if !i.DueDate.IsZero() && i.DueDate.Before(i.Date) {
		return errors.New("due date must not be before issue date")
	}
	switch i.Status {
	case InvoiceStatusPaid, InvoiceStatusPending, InvoiceStatusOverdue, InvoiceStatusDraft:
	default:
		return fmt.Errorf("invalid status %q", i.Status)
	}

	lines := make([]LineAmount, len(i.Items))
	for idx, item := range i.Items {
		if item.Quantity < 0 || item.UnitPrice.IsNegative() {
			return ErrNegativeAmount
		}
		if !item.Total.Equal(LineTotal(item.Quantity, item.UnitPrice)) {
			return fmt.Errorf("line %d total does not equal quantity x unit price", idx+1)
		}
		lines[idx] = LineAmount{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}

	t := ComputeTotals(lines, VATRate)
	if !t.Subtotal.Equal(i.Subtotal) || !t.Tax.Equal(i.Tax) || !t.Total.Equal(i.Total) {
		return errors.New("invoice totals do not match line items")
	}
	return nil
}

// CustomerName returns the billed customer's name or "Unknown"
func (i *Invoice) CustomerName() string {
	if i.Customer == nil || i.Customer.Name == "" {
		return "Unknown"
	}
	return i.Customer.Name
}

type invoiceJSON struct {
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	Date        string          `json:"date"`
	DueDate     string          `json:"dueDate"`
	Customer    *Customer       `json:"customer"`
	Items       []*LineItem     `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	Status      InvoiceStatus   `json:"status"`
	Currency    string          `json:"currency"`
	PaymentLink string          `json:"paymentLink,omitempty"`
}

// MarshalJSON renders dates as calendar days, matching the webhook contract
func (i *Invoice) MarshalJSON() ([]byte, error) {
	out := invoiceJSON{
		ID:          i.ID,
		Number:      i.Number,
		Date:        formatDay(i.Date),
		DueDate:     formatDay(i.DueDate),
		Customer:    i.Customer,
		Items:       i.Items,
		Subtotal:    i.Subtotal,
		Tax:         i.Tax,
		Total:       i.Total,
		Status:      i.Status,
		Currency:    i.Currency,
		PaymentLink: i.PaymentLink,
	}
	if out.Items == nil {
		out.Items = []*LineItem{}
	}
	return json.Marshal(out)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
