package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/andy/invoiceflow/internal/domain"
	"github.com/andy/invoiceflow/internal/repository"
	"github.com/andy/invoiceflow/internal/webhook"
)

// fake implementations

type fakeInvoiceRepo struct {
	invoices []*domain.Invoice
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	f.invoices = append(f.invoices, invoice)
	return nil
}
func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrInvoiceNotFound, id)
}
func (f *fakeInvoiceRepo) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.Number == number {
			return inv, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrInvoiceNotFound, number)
}
func (f *fakeInvoiceRepo) List(ctx context.Context, status *domain.InvoiceStatus) ([]*domain.Invoice, error) {
	out := make([]*domain.Invoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		if status == nil || inv.Status == *status {
			out = append(out, inv)
		}
	}
	return out, nil
}
func (f *fakeInvoiceRepo) GetLineItems(ctx context.Context, invoiceID string) ([]*domain.LineItem, error) {
	inv, err := f.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return inv.Items, nil
}
func (f *fakeInvoiceRepo) Count(ctx context.Context) (int, error) { return len(f.invoices), nil }
func (f *fakeInvoiceRepo) GetNextInvoiceNumber(ctx context.Context, prefix string, year int) (string, error) {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, len(f.invoices)+1), nil
}
func (f *fakeInvoiceRepo) DeleteAll(ctx context.Context) error {
	f.invoices = nil
	return nil
}

type fakeCustomerRepo struct {
	customers map[string]*domain.Customer
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	if f.customers == nil {
		f.customers = make(map[string]*domain.Customer)
	}
	f.customers[c.ID] = c
	return nil
}
func (f *fakeCustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if c, ok := f.customers[id]; ok {
		return c, nil
	}
	return nil, repository.ErrCustomerNotFound
}
func (f *fakeCustomerRepo) List(ctx context.Context) ([]*domain.Customer, error) {
	out := make([]*domain.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

type fakeDraftRepo struct {
	mu     sync.Mutex
	values map[string][]byte
	putErr error
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{values: make(map[string][]byte)}
}

func (f *fakeDraftRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}
func (f *fakeDraftRepo) Put(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.values[key] = value
	return nil
}
func (f *fakeDraftRepo) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return nil
}

type fakeExtractor struct {
	patch *domain.DraftPatch
	err   error
}

func (f *fakeExtractor) Extract(ctx context.Context, text string) (*domain.DraftPatch, error) {
	return f.patch, f.err
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []webhook.Envelope
	err  error
}

func (f *fakeNotifier) Notify(ctx context.Context, env webhook.Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, env)
	return f.err
}

type fakeSummarizer struct {
	text string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, invoices []*domain.Invoice) string {
	return f.text
}

func strPtr(s string) *string { return &s }
