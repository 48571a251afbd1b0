package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/invoiceflow/internal/db"
	"github.com/andy/invoiceflow/internal/domain"
)

// InvoiceRepo is a SQLite implementation of InvoiceRepository
type InvoiceRepo struct {
	db *db.DB
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(database *db.DB) *InvoiceRepo {
	return &InvoiceRepo{db: database}
}

const invoiceColumns = `
	i.id, i.invoice_number, i.issue_date, i.due_date,
	i.subtotal, i.tax, i.total, i.status, i.currency, i.payment_link,
	c.id, c.name, c.email, c.phone, c.address
`

// Create inserts the invoice and its line items in one transaction
func (r *InvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return fmt.Errorf("invalid invoice: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO invoices (
			id, position, invoice_number, customer_id, issue_date, due_date,
			subtotal, tax, total, status, currency, payment_link, created_at
		)
		VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM invoices), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		invoice.ID,
		invoice.Number,
		invoice.Customer.ID,
		invoice.Date.Format(domain.DateLayout),
		nullDay(invoice.DueDate),
		invoice.Subtotal,
		invoice.Tax,
		invoice.Total,
		string(invoice.Status),
		invoice.Currency,
		nullString(invoice.PaymentLink),
		formatTime(),
	)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	for pos, item := range invoice.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_line_items (invoice_id, position, description, quantity, unit_price, total)
			VALUES (?, ?, ?, ?, ?, ?)
		`, invoice.ID, pos, item.Description, item.Quantity, item.UnitPrice, item.Total)
		if err != nil {
			return fmt.Errorf("failed to add line item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit invoice: %w", err)
	}
	return nil
}

// GetByID retrieves an invoice, with customer and line items, by ID
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	return r.getOne(ctx, "i.id = ?", id)
}

// GetByNumber retrieves an invoice by its human-readable number
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	return r.getOne(ctx, "i.invoice_number = ?", number)
}

func (r *InvoiceRepo) getOne(ctx context.Context, where string, arg string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE ` + where

	invoice, err := scanInvoice(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrInvoiceNotFound, arg)
		}
		return nil, err
	}

	if invoice.Items, err = r.GetLineItems(ctx, invoice.ID); err != nil {
		return nil, err
	}
	return invoice, nil
}

// List retrieves invoices in catalog order with an optional status filter
func (r *InvoiceRepo) List(ctx context.Context, status *domain.InvoiceStatus) ([]*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE 1=1
	`
	args := make([]interface{}, 0)

	if status != nil {
		query += " AND i.status = ?"
		args = append(args, string(*status))
	}

	query += " ORDER BY i.position"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	invoices := make([]*domain.Invoice, 0)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}
	rows.Close()

	// Line items are loaded after the cursor is released; the pool has one connection
	for _, invoice := range invoices {
		if invoice.Items, err = r.GetLineItems(ctx, invoice.ID); err != nil {
			return nil, err
		}
	}

	return invoices, nil
}

// GetLineItems retrieves the ordered line items of an invoice
func (r *InvoiceRepo) GetLineItems(ctx context.Context, invoiceID string) ([]*domain.LineItem, error) {
	query := `
		SELECT description, quantity, unit_price, total
		FROM invoice_line_items
		WHERE invoice_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get line items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.LineItem, 0)
	for rows.Next() {
		item := &domain.LineItem{}
		if err := rows.Scan(&item.Description, &item.Quantity, &item.UnitPrice, &item.Total); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line items: %w", err)
	}
	return items, nil
}

// Count returns the number of invoices in the catalog
func (r *InvoiceRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM invoices").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return n, nil
}

// GetNextInvoiceNumber generates the next invoice number in format "PREFIX-YEAR-SEQUENCE"
func (r *InvoiceRepo) GetNextInvoiceNumber(ctx context.Context, prefix string, year int) (string, error) {
	query := `
		SELECT invoice_number
		FROM invoices
		WHERE invoice_number LIKE ?
		ORDER BY invoice_number DESC
		LIMIT 1
	`

	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)
	var lastNumber string

	err := r.db.QueryRowContext(ctx, query, pattern).Scan(&lastNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Sprintf("%s-%d-001", prefix, year), nil
		}
		return "", fmt.Errorf("failed to get last invoice number: %w", err)
	}

	// Format: PREFIX-YEAR-SEQUENCE (e.g., "INV-2024-004")
	var lastYear, lastSeq int
	if _, err := fmt.Sscanf(lastNumber, prefix+"-%d-%d", &lastYear, &lastSeq); err != nil {
		return fmt.Sprintf("%s-%d-001", prefix, year), nil
	}

	return fmt.Sprintf("%s-%d-%03d", prefix, year, lastSeq+1), nil
}

// DeleteAll removes every invoice, line item, and customer
func (r *InvoiceRepo) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Order matters due to foreign keys
	for _, table := range []string{"invoice_line_items", "invoices", "customers"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanInvoice reads one invoice row joined with its customer
func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	invoice := &domain.Invoice{Customer: &domain.Customer{}}
	var issueDate, status string
	var dueDate, paymentLink sql.NullString

	err := row.Scan(
		&invoice.ID,
		&invoice.Number,
		&issueDate,
		&dueDate,
		&invoice.Subtotal,
		&invoice.Tax,
		&invoice.Total,
		&status,
		&invoice.Currency,
		&paymentLink,
		&invoice.Customer.ID,
		&invoice.Customer.Name,
		&invoice.Customer.Email,
		&invoice.Customer.Phone,
		&invoice.Customer.Address,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}

	if invoice.Date, err = parseDay(issueDate); err != nil {
		return nil, fmt.Errorf("failed to parse issue_date: %w", err)
	}
	if dueDate.Valid {
		if invoice.DueDate, err = parseDay(dueDate.String); err != nil {
			return nil, fmt.Errorf("failed to parse due_date: %w", err)
		}
	}
	invoice.Status = domain.InvoiceStatus(status)
	invoice.PaymentLink = stringOrEmpty(paymentLink)

	return invoice, nil
}
