package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andy/invoiceflow/internal/catalog"
	"github.com/andy/invoiceflow/internal/domain"
	"github.com/andy/invoiceflow/internal/repository"
)

// StatusFilter restricts a search to one status, or none
type StatusFilter string

// StatusAll matches every status
const StatusAll StatusFilter = "All"

// ParseStatusFilter accepts "All" or any invoice status, case-insensitively
func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" || strings.EqualFold(s, string(StatusAll)) {
		return StatusAll, nil
	}
	status, err := domain.ParseInvoiceStatus(s)
	if err != nil {
		return "", err
	}
	return StatusFilter(status), nil
}

// Filter is the invoice list search state
type Filter struct {
	Query  string
	Status StatusFilter
}

// IsZero reports whether the filter matches everything
func (f Filter) IsZero() bool {
	return f.Query == "" && (f.Status == "" || f.Status == StatusAll)
}

// Matches reports whether the invoice passes the filter.
// The query is matched as typed, whitespace included.
func (f Filter) Matches(inv *domain.Invoice) bool {
	if f.Status != "" && f.Status != StatusAll && string(inv.Status) != string(f.Status) {
		return false
	}

	q := strings.ToLower(f.Query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(inv.CustomerName()), q) ||
		strings.Contains(strings.ToLower(inv.Number), q)
}

// FilterInvoices returns the matching invoices in their original order
func FilterInvoices(invoices []*domain.Invoice, f Filter) []*domain.Invoice {
	out := make([]*domain.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if f.Matches(inv) {
			out = append(out, inv)
		}
	}
	return out
}

// SearchResult distinguishes "nothing matched" from "nothing searched"
type SearchResult struct {
	Invoices []*domain.Invoice
	Searched bool
}

// Empty is true only when a search ran and matched nothing
func (r SearchResult) Empty() bool {
	return r.Searched && len(r.Invoices) == 0
}

// CatalogService provides read access to the invoice catalog
type CatalogService interface {
	// EnsureSeeded inserts the seed catalog when no invoices exist
	EnsureSeeded(ctx context.Context) error

	List(ctx context.Context) ([]*domain.Invoice, error)

	// Get resolves an invoice by ID or by number
	Get(ctx context.Context, idOrNumber string) (*domain.Invoice, error)

	Search(ctx context.Context, f Filter) (SearchResult, error)

	// NextNumber returns the next free invoice number for the year
	NextNumber(ctx context.Context, year int) (string, error)

	// Reseed drops every invoice and restores the seed catalog
	Reseed(ctx context.Context) error
}

type catalogService struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	prefix       string
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	prefix string,
) CatalogService {
	if prefix == "" {
		prefix = "INV"
	}
	return &catalogService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		prefix:       prefix,
	}
}

func (s *catalogService) EnsureSeeded(ctx context.Context) error {
	n, err := s.invoiceRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.seed(ctx)
}

func (s *catalogService) seed(ctx context.Context) error {
	for _, c := range catalog.Customers() {
		if err := s.customerRepo.Create(ctx, c); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.ID, err)
		}
	}
	for _, inv := range catalog.Invoices() {
		if err := s.invoiceRepo.Create(ctx, inv); err != nil {
			return fmt.Errorf("seed invoice %s: %w", inv.Number, err)
		}
	}
	return nil
}

func (s *catalogService) List(ctx context.Context) ([]*domain.Invoice, error) {
	return s.invoiceRepo.List(ctx, nil)
}

func (s *catalogService) Get(ctx context.Context, idOrNumber string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, idOrNumber)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, repository.ErrInvoiceNotFound) {
		return nil, err
	}
	return s.invoiceRepo.GetByNumber(ctx, idOrNumber)
}

func (s *catalogService) Search(ctx context.Context, f Filter) (SearchResult, error) {
	var status *domain.InvoiceStatus
	if f.Status != "" && f.Status != StatusAll {
		st := domain.InvoiceStatus(f.Status)
		status = &st
	}

	invoices, err := s.invoiceRepo.List(ctx, status)
	if err != nil {
		return SearchResult{}, err
	}

	return SearchResult{
		Invoices: FilterInvoices(invoices, f),
		Searched: !f.IsZero(),
	}, nil
}

func (s *catalogService) NextNumber(ctx context.Context, year int) (string, error) {
	return s.invoiceRepo.GetNextInvoiceNumber(ctx, s.prefix, year)
}

func (s *catalogService) Reseed(ctx context.Context) error {
	if err := s.invoiceRepo.DeleteAll(ctx); err != nil {
		return err
	}
	return s.seed(ctx)
}
