package tui

import (
	"context"

	"github.com/andy/invoiceflow/internal/domain"
)

// NavigateMsg requests a view change
type NavigateMsg struct {
	View View
}

// OpenInvoiceMsg shows an invoice in the details view
type OpenInvoiceMsg struct {
	Invoice *domain.Invoice
}

// BackMsg returns to the previous view
type BackMsg struct{}

// RefreshDataMsg is sent to a screen each time it is mounted.
// Ctx is cancelled when the screen is left.
type RefreshDataMsg struct {
	Ctx     context.Context
	Gen     int
	Invoice *domain.Invoice
}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// mounted is embedded in results of async commands so the root model can
// drop those that arrive after their screen was left
type mounted struct {
	gen int
}

func (m mounted) viewGen() int { return m.gen }

type generational interface {
	viewGen() int
}
