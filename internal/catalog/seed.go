// Package catalog holds the seed set of customers and invoices shown on a
// fresh install.
package catalog

import (
	"time"

	"github.com/andy/invoiceflow/internal/domain"
	"github.com/shopspring/decimal"
)

// Customers returns the seed customers in catalog order
func Customers() []*domain.Customer {
	return []*domain.Customer{
		{ID: "c1", Name: "Nile Coffee Exports Ltd", Email: "accounts@nilecoffee.ug", Address: "Plot 43 Jinja Road, Kampala, Uganda"},
		{ID: "c2", Name: "Pearl of Africa Tours", Email: "bookings@pearltours.co.ug", Address: "Entebbe Road, Entebbe, Uganda"},
		{ID: "c3", Name: "Crane Construction", Email: "finance@cranebuild.ug", Address: "Industrial Area, 6th Street, Kampala"},
	}
}

// Invoices returns fresh copies of the seed invoices in catalog order.
// Totals are derived from the lines rather than written out.
func Invoices() []*domain.Invoice {
	c := Customers()

	invoices := []*domain.Invoice{
		{
			ID:       "inv_001",
			Number:   "INV-2024-001",
			Date:     day(2024, time.May, 1),
			DueDate:  day(2024, time.May, 15),
			Customer: c[0],
			Items: []*domain.LineItem{
				item("Website Redesign", 1, 2500000),
				item("Annual Hosting", 1, 350000),
			},
			Status: domain.InvoiceStatusPaid,
		},
		{
			ID:       "inv_002",
			Number:   "INV-2024-002",
			Date:     day(2024, time.May, 10),
			DueDate:  day(2024, time.May, 24),
			Customer: c[1],
			Items: []*domain.LineItem{
				item("SEO Consultation (Q2)", 1, 1500000),
			},
			Status: domain.InvoiceStatusPending,
		},
		{
			ID:       "inv_003",
			Number:   "INV-2024-003",
			Date:     day(2024, time.April, 20),
			DueDate:  day(2024, time.May, 4),
			Customer: c[2],
			Items: []*domain.LineItem{
				item("Project Management Software Setup", 1, 4000000),
			},
			Status: domain.InvoiceStatusOverdue,
		},
		{
			ID:       "inv_004",
			Number:   "INV-2024-004",
			Date:     day(2024, time.May, 18),
			DueDate:  day(2024, time.June, 1),
			Customer: c[0],
			Items: []*domain.LineItem{
				item("Urgent Server Maintenance", 3, 150000),
			},
			Status: domain.InvoiceStatusPending,
		},
	}

	for _, inv := range invoices {
		inv.Currency = domain.DefaultCurrency
		inv.CalculateTotals()
	}
	return invoices
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func item(desc string, qty float64, price int64) *domain.LineItem {
	return domain.NewLineItem(desc, qty, decimal.NewFromInt(price))
}
