package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount = errors.New("quantity and unit price cannot be negative")
	ErrInvalidAmount  = errors.New("quantity and unit price must be finite numbers")
	ErrDraftVersion   = errors.New("unsupported draft version")
	ErrDraftCorrupt   = errors.New("stored draft is corrupt")
)

// DraftVersion is the current encoding version of a persisted draft
const DraftVersion = 1

type DraftItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Draft is the builder form state: the single in-progress, unsent invoice
type Draft struct {
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail"`
	CustomerAddress string      `json:"customerAddress"`
	Date            string      `json:"date"`
	DueDate         string      `json:"dueDate"`
	Items           []DraftItem `json:"items"`
	Notes           string      `json:"notes"`
}

// NewDraft returns a blank draft dated today with one empty line
func NewDraft(today time.Time) *Draft {
	return &Draft{
		Date:  today.Format(DateLayout),
		Items: []DraftItem{{Quantity: 1}},
	}
}

// Clone returns a deep copy of the draft
func (d *Draft) Clone() *Draft {
	c := *d
	c.Items = make([]DraftItem, len(d.Items))
	copy(c.Items, d.Items)
	return &c
}

// AddItem appends an empty line with quantity 1
func (d *Draft) AddItem() {
	d.Items = append(d.Items, DraftItem{Quantity: 1})
}

// RemoveItem drops the line at index; out-of-range indexes are ignored
func (d *Draft) RemoveItem(index int) {
	if index < 0 || index >= len(d.Items) {
		return
	}
	d.Items = append(d.Items[:index:index], d.Items[index+1:]...)
}

// Totals computes subtotal, tax, and total on read
func (d *Draft) Totals() Totals {
	lines := make([]LineAmount, len(d.Items))
	for i, item := range d.Items {
		lines[i] = LineAmount{
			Quantity:  item.Quantity,
			UnitPrice: decimal.NewFromFloat(item.UnitPrice),
		}
	}
	return ComputeTotals(lines, VATRate)
}

// Validate rejects negative or non-finite amounts.
// Credit notes are not modelled, so a negative line is always a mistake.
func (d *Draft) Validate() error {
	for i, item := range d.Items {
		if math.IsNaN(item.Quantity) || math.IsInf(item.Quantity, 0) ||
			math.IsNaN(item.UnitPrice) || math.IsInf(item.UnitPrice, 0) {
			return fmt.Errorf("line %d: %w", i+1, ErrInvalidAmount)
		}
		if item.Quantity < 0 || item.UnitPrice < 0 {
			return fmt.Errorf("line %d: %w", i+1, ErrNegativeAmount)
		}
	}
	return nil
}

// IsBlank reports whether nothing has been typed into the draft yet
func (d *Draft) IsBlank() bool {
	if d.CustomerName != "" || d.CustomerEmail != "" || d.CustomerAddress != "" ||
		d.DueDate != "" || d.Notes != "" {
		return false
	}
	for _, item := range d.Items {
		if item.Description != "" || item.UnitPrice != 0 || item.Quantity != 1 {
			return false
		}
	}
	return true
}

// ToInvoice synthesizes a pending invoice from the draft
func (d *Draft) ToInvoice(number, currency string) (*Invoice, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(d.CustomerName) == "" {
		return nil, errors.New("customer name is required")
	}

	date, err := time.Parse(DateLayout, d.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice date %q: %w", d.Date, err)
	}
	var due time.Time
	if d.DueDate != "" {
		if due, err = time.Parse(DateLayout, d.DueDate); err != nil {
			return nil, fmt.Errorf("invalid due date %q: %w", d.DueDate, err)
		}
	}

	inv := &Invoice{
		ID:       "inv_" + uuid.NewString(),
		Number:   number,
		Date:     date,
		DueDate:  due,
		Customer: NewCustomer(d.CustomerName, d.CustomerEmail, d.CustomerAddress),
		Status:   InvoiceStatusPending,
		Currency: currency,
		Items:    make([]*LineItem, 0, len(d.Items)),
	}
	for _, item := range d.Items {
		inv.Items = append(inv.Items, NewLineItem(item.Description, item.Quantity, decimal.NewFromFloat(item.UnitPrice)))
	}
	inv.CalculateTotals()

	return inv, nil
}

// DraftFromInvoice maps an existing invoice back into builder form state
func DraftFromInvoice(inv *Invoice) *Draft {
	d := &Draft{
		Date:  formatDay(inv.Date),
		Items: make([]DraftItem, 0, len(inv.Items)),
	}
	d.DueDate = formatDay(inv.DueDate)
	if inv.Customer != nil {
		d.CustomerName = inv.Customer.Name
		d.CustomerEmail = inv.Customer.Email
		d.CustomerAddress = inv.Customer.Address
	}
	for _, item := range inv.Items {
		d.Items = append(d.Items, DraftItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.InexactFloat64(),
		})
	}
	return d
}

// DraftPatch is a partial draft update; nil fields are absent
type DraftPatch struct {
	CustomerName    *string
	CustomerEmail   *string
	CustomerAddress *string
	Date            *string
	Items           []DraftItem
}

// Merge layers next over p, last non-absent value wins
func (p *DraftPatch) Merge(next *DraftPatch) *DraftPatch {
	out := &DraftPatch{}
	if p != nil {
		*out = *p
	}
	if next == nil {
		return out
	}
	if present(next.CustomerName) {
		out.CustomerName = next.CustomerName
	}
	if present(next.CustomerEmail) {
		out.CustomerEmail = next.CustomerEmail
	}
	if present(next.CustomerAddress) {
		out.CustomerAddress = next.CustomerAddress
	}
	if present(next.Date) {
		out.Date = next.Date
	}
	if len(next.Items) > 0 {
		out.Items = next.Items
	}
	return out
}

// Apply overwrites draft fields that are present in the patch.
// Empty strings count as absent; items replace the whole list.
func (d *Draft) Apply(p *DraftPatch) {
	if p == nil {
		return
	}
	if present(p.CustomerName) {
		d.CustomerName = *p.CustomerName
	}
	if present(p.CustomerEmail) {
		d.CustomerEmail = *p.CustomerEmail
	}
	if present(p.CustomerAddress) {
		d.CustomerAddress = *p.CustomerAddress
	}
	if present(p.Date) {
		d.Date = *p.Date
	}
	if len(p.Items) > 0 {
		d.Items = make([]DraftItem, len(p.Items))
		copy(d.Items, p.Items)
	}
}

func present(s *string) bool {
	return s != nil && *s != ""
}

type draftRecord struct {
	Version int    `json:"version"`
	Draft   *Draft `json:"draft"`
}

// EncodeDraft serializes the draft inside a versioned record
func EncodeDraft(d *Draft) ([]byte, error) {
	return json.Marshal(draftRecord{Version: DraftVersion, Draft: d})
}

// DecodeDraft parses a versioned draft record. Only the shape is checked:
// a stored draft may hold amounts that Validate rejects until edited.
func DecodeDraft(data []byte) (*Draft, error) {
	var rec draftRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDraftCorrupt, err)
	}
	if rec.Version != DraftVersion {
		return nil, fmt.Errorf("%w: %d", ErrDraftVersion, rec.Version)
	}
	if rec.Draft == nil {
		return nil, fmt.Errorf("%w: missing draft body", ErrDraftCorrupt)
	}
	if rec.Draft.Items == nil {
		rec.Draft.Items = []DraftItem{}
	}
	return rec.Draft, nil
}
