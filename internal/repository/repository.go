package repository

import (
	"context"
	"errors"

	"github.com/andy/invoiceflow/internal/domain"
)

var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// CustomerRepository manages customer persistence
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
}

// InvoiceRepository manages the invoice catalog
type InvoiceRepository interface {
	// Create appends an invoice, with its line items, at the end of the catalog
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*domain.Invoice, error)
	// List returns invoices in catalog order, optionally restricted to one status
	List(ctx context.Context, status *domain.InvoiceStatus) ([]*domain.Invoice, error)
	GetLineItems(ctx context.Context, invoiceID string) ([]*domain.LineItem, error)
	Count(ctx context.Context) (int, error)
	GetNextInvoiceNumber(ctx context.Context, prefix string, year int) (string, error)
	DeleteAll(ctx context.Context) error
}

// DraftRepository is durable key/value storage for the in-progress draft
type DraftRepository interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put overwrites the value at key; last write wins
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
